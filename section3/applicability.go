/*
applicability.go - Section 3 applicability resolver

PURPOSE:
  Decides whether a contract is subject to Section 3 labor-hour
  requirements, which regulatory subpart governs it, and which benchmarks
  apply.

DECISION ORDER:
  1. Materials-only contracts are exempt. Always. No dollar test.
  2. Defaults: $200,000 threshold, Subpart B, 25% labor-hour benchmark.
  3. A funding source overrides threshold and subpart; Subpart C sources
     lower the labor-hour benchmark to 5%.
  4. Without a funding source, a lead hazard control contract implies
     Subpart C: $100,000 threshold, 5% benchmark.
  5. Applicability is an inclusive dollar test: funding at exactly the
     threshold IS covered.
  6. Non-applicable verdicts are fully zeroed: N/A subpart, zero
     benchmarks, whatever was computed along the way.

The targeted-worker benchmark is a fixed 5% in every covered case; it does
not vary by subpart or funding source.

FAILURE SEMANTICS:
  None. Negative amounts and unrecognized contract types flow through the
  default path and produce a deterministic verdict. Input validation is a
  boundary concern; see errors.go and the HTTP layer.

SEE ALSO:
  - types.go: ContractApplicability, FundingSource
  - schedule.go: Consumes the IsApplicable flag
*/
package section3

import "fmt"

// =============================================================================
// BENCHMARK CONSTANTS
// =============================================================================

var (
	// DefaultThreshold is the Subpart B dollar threshold at or above
	// which Section 3 applies.
	DefaultThreshold = NewAmountFromInt(200000, UnitDollars)

	// LeadHazardThreshold is the lower Subpart C threshold for lead
	// hazard control work.
	LeadHazardThreshold = NewAmountFromInt(100000, UnitDollars)

	// SubpartBLaborHourBenchmark is the required percentage of total
	// labor hours worked by Section 3 workers under Subpart B.
	SubpartBLaborHourBenchmark = NewAmountFromInt(25, UnitPercent)

	// SubpartCLaborHourBenchmark is the Subpart C equivalent.
	SubpartCLaborHourBenchmark = NewAmountFromInt(5, UnitPercent)

	// TargetedWorkerBenchmark is the required percentage of total labor
	// hours worked by Targeted Section 3 workers. Fixed across subparts.
	TargetedWorkerBenchmark = NewAmountFromInt(5, UnitPercent)
)

// =============================================================================
// APPLICABILITY RESOLVER
// =============================================================================

// ResolveApplicability decides whether Section 3 applies to a contract.
// The funding source is optional; pass nil when the contract is not tied
// to a catalogued program.
func ResolveApplicability(contractType ContractType, hudFunding, totalProjectCost Amount, source *FundingSource) ContractApplicability {
	// Materials-only contracts are exempt before any dollar test.
	if contractType == ContractMaterialsOnly {
		return ContractApplicability{
			IsApplicable:       false,
			Subpart:            SubpartNA,
			Threshold:          NewAmountFromInt(0, UnitDollars),
			LaborHourBenchmark: NewAmountFromInt(0, UnitPercent),
			TargetedBenchmark:  NewAmountFromInt(0, UnitPercent),
			Reason:             "Materials-only contracts are exempt from Section 3 labor-hour requirements",
		}
	}

	threshold := DefaultThreshold
	subpart := SubpartB
	laborBenchmark := SubpartBLaborHourBenchmark

	switch {
	case source != nil:
		threshold = source.DefaultThreshold
		subpart = source.Subpart
		if subpart == SubpartC {
			laborBenchmark = SubpartCLaborHourBenchmark
		}
	case contractType == ContractLeadHazardControl:
		threshold = LeadHazardThreshold
		subpart = SubpartC
		laborBenchmark = SubpartCLaborHourBenchmark
	}

	// Inclusive boundary: funding exactly at the threshold is covered.
	if !hudFunding.GreaterThanOrEqual(threshold) {
		return ContractApplicability{
			IsApplicable:       false,
			Subpart:            SubpartNA,
			Threshold:          threshold,
			LaborHourBenchmark: NewAmountFromInt(0, UnitPercent),
			TargetedBenchmark:  NewAmountFromInt(0, UnitPercent),
			Reason: fmt.Sprintf("HUD funding of $%s is below the $%s %s threshold; Section 3 does not apply",
				hudFunding.Value.StringFixed(2), threshold.Value.StringFixed(2), subpart),
		}
	}

	return ContractApplicability{
		IsApplicable:       true,
		Subpart:            subpart,
		Threshold:          threshold,
		LaborHourBenchmark: laborBenchmark,
		TargetedBenchmark:  TargetedWorkerBenchmark,
		Reason: fmt.Sprintf("HUD funding of $%s meets the $%s %s threshold; required benchmarks: %s%% Section 3 labor hours, %s%% Targeted Section 3 labor hours",
			hudFunding.Value.StringFixed(2), threshold.Value.StringFixed(2), subpart,
			laborBenchmark.Value.String(), TargetedWorkerBenchmark.Value.String()),
	}
}
