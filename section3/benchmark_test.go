package section3_test

import (
	"testing"

	"github.com/rapidcompliance/section3-engine/section3"
)

// =============================================================================
// COMPLIANCE RATE TESTS
// =============================================================================

func TestCalculateComplianceRate_Basic(t *testing.T) {
	// GIVEN: 280 Section 3 hours out of 1000 total
	// WHEN: The rate is calculated
	// THEN: 28%

	rate := section3.CalculateComplianceRate(hours(1000), hours(280))

	if !rate.Equal(percent(28)) {
		t.Errorf("expected 28%%, got %v", rate.Value)
	}
	if rate.Unit != section3.UnitPercent {
		t.Errorf("expected percent unit, got %q", rate.Unit)
	}
}

func TestCalculateComplianceRate_ZeroTotalHours(t *testing.T) {
	// GIVEN: No hours reported yet
	// WHEN: The rate is calculated
	// THEN: 0%, no division by zero

	rate := section3.CalculateComplianceRate(hours(0), hours(0))

	if !rate.IsZero() {
		t.Errorf("expected 0%% rate for zero total hours, got %v", rate.Value)
	}
}

func TestCalculateComplianceRate_NoRounding(t *testing.T) {
	// GIVEN: 1 of 3 hours, a repeating fraction
	// WHEN: The rate is calculated
	// THEN: The raw quotient times 100, not a display-rounded value

	rate := section3.CalculateComplianceRate(hours(3), hours(1))

	if rate.LessThan(percent(33.3)) || rate.GreaterThan(percent(33.4)) {
		t.Errorf("expected roughly 33.33%%, got %v", rate.Value)
	}
	if rate.Equal(percent(33)) {
		t.Error("rate should not be rounded to a whole percent")
	}
}

// =============================================================================
// BENCHMARK CLASSIFICATION TESTS
// =============================================================================

func TestCheckBenchmarkCompliance_Exceeds(t *testing.T) {
	// GIVEN: A 28% rate against a 25% benchmark
	// WHEN: Compliance is checked
	// THEN: Met, status "exceeds", variance +3

	result := section3.CheckBenchmarkCompliance(percent(28), percent(25))

	if !result.IsMet {
		t.Error("28%% against 25%% should be met")
	}
	if result.Status != section3.StatusExceeds {
		t.Errorf("expected exceeds, got %q", result.Status)
	}
	if !result.Variance.Equal(percent(3)) {
		t.Errorf("expected +3 variance, got %v", result.Variance.Value)
	}
}

func TestCheckBenchmarkCompliance_EqualityMeets(t *testing.T) {
	// GIVEN: A rate exactly at the benchmark
	// WHEN: Compliance is checked
	// THEN: Met, but "meets" rather than "exceeds"; zero variance

	result := section3.CheckBenchmarkCompliance(percent(25), percent(25))

	if !result.IsMet {
		t.Error("rate at exactly the benchmark should be met")
	}
	if result.Status != section3.StatusMeets {
		t.Errorf("expected meets, got %q", result.Status)
	}
	if !result.Variance.IsZero() {
		t.Errorf("expected zero variance, got %v", result.Variance.Value)
	}
}

func TestCheckBenchmarkCompliance_Below(t *testing.T) {
	// GIVEN: A 20% rate against a 25% benchmark
	// WHEN: Compliance is checked
	// THEN: Not met, status "below", variance -5

	result := section3.CheckBenchmarkCompliance(percent(20), percent(25))

	if result.IsMet {
		t.Error("20%% against 25%% should not be met")
	}
	if result.Status != section3.StatusBelow {
		t.Errorf("expected below, got %q", result.Status)
	}
	if !result.Variance.Equal(percent(-5)) {
		t.Errorf("expected -5 variance, got %v", result.Variance.Value)
	}
}

func TestCheckBenchmarkCompliance_ZeroBenchmark(t *testing.T) {
	// GIVEN: A zero benchmark (non-applicable contract)
	// WHEN: Any positive rate is checked
	// THEN: Exceeds, trivially met

	result := section3.CheckBenchmarkCompliance(percent(10), percent(0))

	if !result.IsMet || result.Status != section3.StatusExceeds {
		t.Errorf("positive rate against zero benchmark should exceed, got %q", result.Status)
	}
}
