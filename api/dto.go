/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Contracts:
    ContractDTO, CreateContractRequest, ApplicabilityDTO

  Compliance:
    ComplianceSummaryDTO, BenchmarkCheckDTO

  Labor hours:
    LaborHoursRequest, LaborHoursDTO

  Tasks / Reports:
    TaskDTO, ReportingPeriodDTO, ReportDTO

  Funding sources:
    FundingSourceDTO (wraps factory.FundingSourceJSON)

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/source.go: FundingSourceJSON type
*/
package api

import (
	"time"

	"github.com/rapidcompliance/section3-engine/factory"
	"github.com/rapidcompliance/section3-engine/section3"
	"github.com/rapidcompliance/section3-engine/store/sqlite"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ContractDTO represents a contract in API responses.
type ContractDTO struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Contractor       string           `json:"contractor,omitempty"`
	ContractType     string           `json:"contract_type"`
	HUDFundingAmount float64          `json:"hud_funding_amount"`
	TotalProjectCost float64          `json:"total_project_cost"`
	FundingSourceID  string           `json:"funding_source_id,omitempty"`
	StartDate        string           `json:"start_date"`
	EndDate          string           `json:"end_date"`
	Applicability    ApplicabilityDTO `json:"applicability"`
	CreatedAt        string           `json:"created_at,omitempty"`
}

// CreateContractRequest is the request to create a contract.
type CreateContractRequest struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Contractor       string  `json:"contractor,omitempty"`
	ContractType     string  `json:"contract_type"`
	HUDFundingAmount float64 `json:"hud_funding_amount"`
	TotalProjectCost float64 `json:"total_project_cost"`
	FundingSourceID  string  `json:"funding_source_id,omitempty"`
	StartDate        string  `json:"start_date"` // ISO date
	EndDate          string  `json:"end_date"`   // ISO date
}

// ApplicabilityDTO represents an applicability verdict.
type ApplicabilityDTO struct {
	IsApplicable       bool    `json:"is_applicable"`
	Subpart            string  `json:"subpart"`
	Threshold          float64 `json:"threshold"`
	LaborHourBenchmark float64 `json:"labor_hour_benchmark"`
	TargetedBenchmark  float64 `json:"targeted_benchmark"`
	Reason             string  `json:"reason"`
}

// ComplianceSummaryDTO represents a contract's current compliance state.
type ComplianceSummaryDTO struct {
	ContractID         string            `json:"contract_id"`
	IsApplicable       bool              `json:"is_applicable"`
	TotalHours         float64           `json:"total_hours"`
	Section3Hours      float64           `json:"section3_hours"`
	TargetedHours      float64           `json:"targeted_hours"`
	ComplianceRate     float64           `json:"compliance_rate"`
	TargetedRate       float64           `json:"targeted_rate"`
	LaborHourBenchmark BenchmarkCheckDTO `json:"labor_hour_benchmark"`
	TargetedBenchmark  BenchmarkCheckDTO `json:"targeted_benchmark"`
	AsOf               string            `json:"as_of"`
}

// BenchmarkCheckDTO represents a rate-vs-benchmark verdict.
type BenchmarkCheckDTO struct {
	Required float64 `json:"required"`
	Actual   float64 `json:"actual"`
	IsMet    bool    `json:"is_met"`
	Variance float64 `json:"variance"`
	Status   string  `json:"status"`
}

// LaborHoursRequest is the request to record labor hours.
type LaborHoursRequest struct {
	WorkDate       string  `json:"work_date"` // ISO date
	TotalHours     float64 `json:"total_hours"`
	Section3Hours  float64 `json:"section3_hours"`
	TargetedHours  float64 `json:"targeted_hours"`
	Source         string  `json:"source,omitempty"` // "payroll", "manual"
	IdempotencyKey string  `json:"idempotency_key,omitempty"`
}

// LaborHoursDTO represents a ledger entry.
type LaborHoursDTO struct {
	ID            string  `json:"id"`
	ContractID    string  `json:"contract_id"`
	WorkDate      string  `json:"work_date"`
	TotalHours    float64 `json:"total_hours"`
	Section3Hours float64 `json:"section3_hours"`
	TargetedHours float64 `json:"targeted_hours"`
	Source        string  `json:"source,omitempty"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

// TaskDTO represents a compliance task.
type TaskDTO struct {
	ID          string `json:"id"`
	ContractID  string `json:"contract_id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	GeneratedBy string `json:"generated_by"`
	Status      string `json:"status"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// ReportingPeriodDTO represents the next open reporting window.
type ReportingPeriodDTO struct {
	Start    string `json:"period_start"`
	End      string `json:"period_end"`
	DueDate  string `json:"due_date"`
	FormType string `json:"form_type"`
}

// ReportDTO represents a quarterly compliance report.
type ReportDTO struct {
	ID             string             `json:"id"`
	ContractID     string             `json:"contract_id"`
	Period         ReportingPeriodDTO `json:"period"`
	TotalHours     float64            `json:"total_hours"`
	Section3Hours  float64            `json:"section3_hours"`
	TargetedHours  float64            `json:"targeted_hours"`
	ComplianceRate float64            `json:"compliance_rate"`
	Status         string             `json:"status"`
	SubmittedAt    string             `json:"submitted_at,omitempty"`
}

// FundingSourceDTO represents a funding source in API responses.
type FundingSourceDTO struct {
	ID        string                    `json:"id"`
	Name      string                    `json:"name"`
	Config    factory.FundingSourceJSON `json:"config"`
	CreatedAt string                    `json:"created_at,omitempty"`
}

// CreateFundingSourceRequest is the request to create a funding source.
type CreateFundingSourceRequest struct {
	Config factory.FundingSourceJSON `json:"config"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toApplicabilityDTO(a section3.ContractApplicability) ApplicabilityDTO {
	threshold, _ := a.Threshold.Value.Float64()
	labor, _ := a.LaborHourBenchmark.Value.Float64()
	targeted, _ := a.TargetedBenchmark.Value.Float64()
	return ApplicabilityDTO{
		IsApplicable:       a.IsApplicable,
		Subpart:            string(a.Subpart),
		Threshold:          threshold,
		LaborHourBenchmark: labor,
		TargetedBenchmark:  targeted,
		Reason:             a.Reason,
	}
}

func toContractDTO(c sqlite.ContractRecord) ContractDTO {
	hud, _ := c.HUDFundingAmount.Value.Float64()
	cost, _ := c.TotalProjectCost.Value.Float64()
	return ContractDTO{
		ID:               string(c.ID),
		Name:             c.Name,
		Contractor:       c.Contractor,
		ContractType:     string(c.ContractType),
		HUDFundingAmount: hud,
		TotalProjectCost: cost,
		FundingSourceID:  string(c.FundingSourceID),
		StartDate:        c.StartDate.String(),
		EndDate:          c.EndDate.String(),
		Applicability:    toApplicabilityDTO(c.Applicability),
		CreatedAt:        c.CreatedAt.Format(time.RFC3339),
	}
}

func toTaskDTO(rec sqlite.TaskRecord) TaskDTO {
	dto := TaskDTO{
		ID:          string(rec.ID),
		ContractID:  string(rec.Task.ContractID),
		Type:        string(rec.Task.Type),
		Title:       rec.Task.Title,
		Description: rec.Task.Description,
		DueDate:     rec.Task.DueDate.String(),
		Priority:    string(rec.Task.Priority),
		GeneratedBy: string(rec.Task.GeneratedBy),
		Status:      rec.Status,
	}
	if rec.CompletedAt != nil {
		dto.CompletedAt = rec.CompletedAt.Format(time.RFC3339)
	}
	return dto
}

func toTaskDTOs(recs []sqlite.TaskRecord) []TaskDTO {
	dtos := make([]TaskDTO, len(recs))
	for i, rec := range recs {
		dtos[i] = toTaskDTO(rec)
	}
	return dtos
}

func toPeriodDTO(p section3.ReportingPeriod) ReportingPeriodDTO {
	return ReportingPeriodDTO{
		Start:    p.Start.String(),
		End:      p.End.String(),
		DueDate:  p.DueDate.String(),
		FormType: string(p.FormType),
	}
}

func toReportDTO(r sqlite.ReportRecord) ReportDTO {
	total, _ := r.TotalHours.Value.Float64()
	sec3, _ := r.Section3Hours.Value.Float64()
	targeted, _ := r.TargetedHours.Value.Float64()
	rate, _ := r.ComplianceRate.Value.Float64()
	dto := ReportDTO{
		ID:             r.ID,
		ContractID:     string(r.ContractID),
		Period:         toPeriodDTO(r.Period),
		TotalHours:     total,
		Section3Hours:  sec3,
		TargetedHours:  targeted,
		ComplianceRate: rate,
		Status:         r.Status,
	}
	if r.SubmittedAt != nil {
		dto.SubmittedAt = r.SubmittedAt.Format(time.RFC3339)
	}
	return dto
}
