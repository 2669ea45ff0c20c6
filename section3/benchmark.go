/*
benchmark.go - Compliance rate calculation and benchmark classification

PURPOSE:
  Computes the achieved Section 3 compliance rate from labor-hour totals
  and classifies it against a required benchmark.

BOUNDARY RULES:
  - Zero total hours yields a 0% rate (no division by zero)
  - A rate exactly equal to the benchmark is "meets", not "exceeds";
    the exceeds check is strictly-greater so equality falls through
  - No rounding: callers round for display

SEE ALSO:
  - applicability.go: Produces the benchmark the rate is tested against
*/
package section3

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// CalculateComplianceRate returns the percentage of total labor hours
// worked by Section 3 workers. Zero total hours is a 0% rate.
func CalculateComplianceRate(totalHours, section3Hours Amount) Amount {
	if totalHours.IsZero() {
		return NewAmountFromInt(0, UnitPercent)
	}
	rate := section3Hours.Value.Div(totalHours.Value).Mul(hundred)
	return Amount{Value: rate, Unit: UnitPercent}
}

// CheckBenchmarkCompliance classifies an achieved rate against a required
// benchmark. Variance is signed: actual minus required.
func CheckBenchmarkCompliance(actualRate, requiredBenchmark Amount) BenchmarkCompliance {
	variance := actualRate.Sub(requiredBenchmark)

	status := StatusBelow
	switch {
	case actualRate.GreaterThan(requiredBenchmark):
		status = StatusExceeds
	case actualRate.Equal(requiredBenchmark):
		status = StatusMeets
	}

	return BenchmarkCompliance{
		IsMet:    actualRate.GreaterThanOrEqual(requiredBenchmark),
		Variance: Amount{Value: variance.Value, Unit: UnitPercent},
		Status:   status,
	}
}
