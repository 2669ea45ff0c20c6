/*
Package section3 provides the HUD Section 3 compliance rules engine.

PURPOSE:
  This package contains the pure rule-evaluation core for 24 CFR Part 75
  labor-compliance obligations: deciding whether a contract is subject to
  Section 3, computing compliance rates against labor-hour benchmarks,
  generating the mandatory task calendar, and computing quarterly
  reporting windows.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (dollars, hours, percent)
  - FundingSource: Federal program descriptor with threshold and subpart
  - ContractApplicability: The engine's applicability verdict
  - BenchmarkCompliance: A point-in-time rate-vs-benchmark verdict
  - ComplianceTask: A scheduled compliance obligation
  - ReportingPeriod: The next open quarterly reporting window

DESIGN PRINCIPLES:
  1. Purity: Every operation is a function over simple records; no I/O,
     no shared state, no failure modes
  2. Precision: Uses decimal.Decimal to avoid floating-point errors in
     monetary thresholds and rate arithmetic
  3. Determinism: Malformed inputs still produce a deterministic verdict;
     validation is a boundary concern (see errors.go)

USAGE:
  verdict := section3.ResolveApplicability(
      section3.ContractConstruction,
      section3.NewAmountFromInt(350000, section3.UnitDollars),
      section3.NewAmountFromInt(500000, section3.UnitDollars),
      &cdbg,
  )
  if verdict.IsApplicable {
      tasks := section3.GenerateComplianceTasks(id, start, end, true)
  }

SEE ALSO:
  - applicability.go: Applicability resolver and benchmark constants
  - benchmark.go: Compliance rate calculation and classification
  - schedule.go: Task calendar generation
  - period.go: Quarterly reporting window arithmetic
*/
package section3

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit (dollars, hours, percent)
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitDollars Unit = "dollars"
	UnitHours   Unit = "hours"
	UnitPercent Unit = "percent"
)

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

func NewAmountFromInt(value int, unit Unit) Amount {
	return Amount{Value: decimal.NewFromInt(int64(value)), Unit: unit}
}

func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (a Amount) Zero() Amount                       { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Add(b Amount) Amount                { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount                { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) Mul(s decimal.Decimal) Amount       { return Amount{Value: a.Value.Mul(s), Unit: a.Unit} }
func (a Amount) Div(s decimal.Decimal) Amount       { return Amount{Value: a.Value.Div(s), Unit: a.Unit} }
func (a Amount) IsNegative() bool                   { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                       { return a.Value.IsZero() }
func (a Amount) IsPositive() bool                   { return a.Value.IsPositive() }
func (a Amount) Equal(b Amount) bool                { return a.Value.Equal(b.Value) }
func (a Amount) GreaterThan(b Amount) bool          { return a.Value.GreaterThan(b.Value) }
func (a Amount) GreaterThanOrEqual(b Amount) bool   { return a.Value.GreaterThanOrEqual(b.Value) }
func (a Amount) LessThan(b Amount) bool             { return a.Value.LessThan(b.Value) }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ContractID string
type SourceID string
type TaskID string

// =============================================================================
// CONTRACT TYPE - Discriminated contract category
// =============================================================================

// ContractType categorizes a contract for applicability purposes.
// Two values carry special meaning: materials-only contracts are exempt
// from Section 3, and lead hazard control contracts fall under Subpart C
// with its lower dollar threshold.
type ContractType string

const (
	ContractMaterialsOnly        ContractType = "materials_only"
	ContractConstruction         ContractType = "construction"
	ContractRehabilitation       ContractType = "rehabilitation"
	ContractLeadHazardControl    ContractType = "lead_hazard_control"
	ContractProfessionalServices ContractType = "professional_services"
	ContractOther                ContractType = "other"
)

// =============================================================================
// SUBPART - Regulatory sub-category of 24 CFR Part 75
// =============================================================================

type Subpart string

const (
	SubpartB  Subpart = "Subpart B" // Housing and community development assistance
	SubpartC  Subpart = "Subpart C" // Lead hazard control and healthy homes
	SubpartNA Subpart = "N/A"       // Section 3 does not apply
)

// =============================================================================
// FUNDING SOURCE - Federal program reference data
// =============================================================================

// FundingSource describes a federal funding program. It is immutable
// reference data maintained outside the engine (see store, factory).
type FundingSource struct {
	ID               SourceID
	Name             string
	Program          ProgramType
	DefaultThreshold Amount // dollars; Section 3 applies at or above this
	Subpart          Subpart
}

// =============================================================================
// CONTRACT APPLICABILITY - The engine's applicability verdict
// =============================================================================

// ContractApplicability is the output of ResolveApplicability.
//
// Invariant: if IsApplicable is false, Subpart is SubpartNA and both
// benchmark percentages are zero, regardless of what the contract's
// funding source would otherwise require.
type ContractApplicability struct {
	IsApplicable       bool
	Subpart            Subpart
	Threshold          Amount // dollars; the threshold that was tested
	LaborHourBenchmark Amount // percent of total labor hours
	TargetedBenchmark  Amount // percent of total labor hours
	Reason             string
}

// =============================================================================
// BENCHMARK COMPLIANCE - Rate-vs-benchmark verdict
// =============================================================================

type BenchmarkStatus string

const (
	StatusExceeds BenchmarkStatus = "exceeds"
	StatusMeets   BenchmarkStatus = "meets"
	StatusBelow   BenchmarkStatus = "below"
)

// BenchmarkCompliance classifies an achieved compliance rate against a
// required benchmark. A rate exactly equal to the benchmark meets it.
type BenchmarkCompliance struct {
	IsMet    bool
	Variance Amount // percent; actual minus required (signed)
	Status   BenchmarkStatus
}

// =============================================================================
// COMPLIANCE TASK - Scheduled obligation
// =============================================================================

type TaskType string

const (
	TaskReportSubmission   TaskType = "report_submission"   // Quarterly labor-hour report
	TaskWorkerVerification TaskType = "worker_verification" // Worker eligibility certifications
	TaskDocumentUpload     TaskType = "document_upload"     // Compliance plan and supporting docs
)

type TaskPriority string

const (
	PriorityHigh TaskPriority = "high"
)

// GenerationRule records which lifecycle event produced a task.
type GenerationRule string

const (
	RuleOnCreateContract GenerationRule = "onCreateContract"
	RuleOnQuarterEnd     GenerationRule = "onQuarterEnd"
)

// ComplianceTask is a scheduled obligation emitted by the task scheduler.
// The engine generates tasks once; downstream collaborators persist,
// assign, and close them.
type ComplianceTask struct {
	ContractID  ContractID
	Type        TaskType
	Title       string
	Description string
	DueDate     TimePoint
	Priority    TaskPriority
	GeneratedBy GenerationRule
}

// =============================================================================
// REPORTING PERIOD - Next open quarterly window
// =============================================================================

type FormType string

const (
	FormQuarterly FormType = "quarterly"
	// Annual and final report forms exist in the program but are not
	// computed by this engine.
	FormAnnual FormType = "annual"
	FormFinal  FormType = "final"
)

// ReportingPeriod is the next open reporting window for a contract:
// the period itself, and the date the report covering it is due.
type ReportingPeriod struct {
	Start    TimePoint
	End      TimePoint // last calendar day of the quarter containing Start
	DueDate  TimePoint // End + 15 days
	FormType FormType
}
