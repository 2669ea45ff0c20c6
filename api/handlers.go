/*
handlers.go - HTTP API handlers for the compliance engine service

PURPOSE:
  Exposes the Section 3 compliance engine via REST API. Handles HTTP
  request/response, JSON serialization, boundary validation, and
  delegates all rule evaluation to the section3 package.

ENDPOINTS:
  Contracts:
    GET    /api/contracts                   List all contracts
    POST   /api/contracts                   Create contract (resolves
                                            applicability, generates tasks)
    GET    /api/contracts/{id}              Get contract details
    GET    /api/contracts/{id}/compliance   Current rate vs benchmarks
    GET    /api/contracts/{id}/tasks        Generated task calendar
    POST   /api/contracts/{id}/labor-hours  Append labor-hour entry
    GET    /api/contracts/{id}/labor-hours  Ledger entries
    GET    /api/contracts/{id}/reporting-period  Next open window
    POST   /api/contracts/{id}/reports      Submit quarterly report
    GET    /api/contracts/{id}/reports      Report history

  Tasks:
    POST   /api/tasks/{id}/complete         Mark task completed

  Funding sources:
    GET    /api/funding-sources             List sources
    POST   /api/funding-sources             Create source from JSON
    GET    /api/funding-sources/{id}        Get source

  Scenarios:
    GET    /api/scenarios                   List demo scenarios
    POST   /api/scenarios/load              Load a demo scenario

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input (distinct from a legitimate
         "not applicable" verdict, which is a 200 with the verdict)
  - 404: Resource not found
  - 409: Conflict (duplicate labor-hour entry or report)
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rapidcompliance/section3-engine/factory"
	"github.com/rapidcompliance/section3-engine/section3"
	"github.com/rapidcompliance/section3-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers. Funding sources are
// constructed once here and passed to the engine explicitly; there is no
// module-level singleton holding compliance reference data.
type Handler struct {
	Store         *sqlite.Store
	SourceFactory *factory.SourceFactory

	// Cached funding sources for quick lookups
	sources map[section3.SourceID]*section3.FundingSource

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:         store,
		SourceFactory: factory.NewSourceFactory(),
		sources:       make(map[section3.SourceID]*section3.FundingSource),
	}
}

// LoadFundingSources loads all funding sources from the database into cache.
func (h *Handler) LoadFundingSources(ctx context.Context) error {
	sources, err := h.Store.ListFundingSources(ctx)
	if err != nil {
		return err
	}
	for i := range sources {
		h.sources[sources[i].ID] = &sources[i]
	}
	return nil
}

func (h *Handler) fundingSource(ctx context.Context, id section3.SourceID) (*section3.FundingSource, error) {
	if id == "" {
		return nil, nil
	}
	if source, ok := h.sources[id]; ok {
		return source, nil
	}
	source, err := h.Store.GetFundingSource(ctx, id)
	if err != nil {
		return nil, err
	}
	h.sources[id] = source
	return source, nil
}

// =============================================================================
// CONTRACT HANDLERS
// =============================================================================

// ListContracts returns all contracts.
func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.Store.ListContracts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list contracts", err)
		return
	}

	dtos := make([]ContractDTO, len(contracts))
	for i, c := range contracts {
		dtos[i] = toContractDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateContract validates input, resolves applicability, generates the
// task calendar, and persists everything.
func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	startDate, err := parseISODate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date", err)
		return
	}
	endDate, err := parseISODate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date", err)
		return
	}

	input := section3.ContractInput{
		ContractType:     section3.ContractType(req.ContractType),
		HUDFundingAmount: section3.NewAmount(req.HUDFundingAmount, section3.UnitDollars),
		TotalProjectCost: section3.NewAmount(req.TotalProjectCost, section3.UnitDollars),
		StartDate:        startDate,
		EndDate:          endDate,
	}
	if err := section3.ValidateContractInput(input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contract input", err)
		return
	}

	source, err := h.fundingSource(ctx, section3.SourceID(req.FundingSourceID))
	if err != nil {
		writeError(w, http.StatusNotFound, "Funding source not found", err)
		return
	}

	verdict := section3.ResolveApplicability(input.ContractType, input.HUDFundingAmount, input.TotalProjectCost, source)

	record := sqlite.ContractRecord{
		ID:               section3.ContractID(req.ID),
		Name:             req.Name,
		Contractor:       req.Contractor,
		ContractType:     input.ContractType,
		HUDFundingAmount: input.HUDFundingAmount,
		TotalProjectCost: input.TotalProjectCost,
		FundingSourceID:  section3.SourceID(req.FundingSourceID),
		StartDate:        startDate,
		EndDate:          endDate,
		Applicability:    verdict,
	}
	if err := h.Store.SaveContract(ctx, record); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save contract", err)
		return
	}

	tasks := section3.GenerateComplianceTasks(record.ID, startDate, endDate, verdict.IsApplicable)
	if err := h.Store.SaveTasks(ctx, tasks); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save tasks", err)
		return
	}

	record.CreatedAt = time.Now().UTC()
	writeJSON(w, http.StatusCreated, toContractDTO(record))
}

// GetContract returns a single contract with its verdict.
func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	id := section3.ContractID(chi.URLParam(r, "id"))

	contract, err := h.Store.GetContract(r.Context(), id)
	if err != nil {
		writeStoreError(w, "Failed to load contract", err)
		return
	}
	writeJSON(w, http.StatusOK, toContractDTO(*contract))
}

// GetCompliance computes the contract's current compliance rate from the
// labor-hour ledger and classifies it against the stored benchmarks.
func (h *Handler) GetCompliance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := section3.ContractID(chi.URLParam(r, "id"))

	contract, err := h.Store.GetContract(ctx, id)
	if err != nil {
		writeStoreError(w, "Failed to load contract", err)
		return
	}

	entries, err := h.Store.LoadLaborHours(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load labor hours", err)
		return
	}

	total, sec3Hours, targeted := sumHours(entries)
	rate := section3.CalculateComplianceRate(total, sec3Hours)
	targetedRate := section3.CalculateComplianceRate(total, targeted)

	laborCheck := section3.CheckBenchmarkCompliance(rate, contract.Applicability.LaborHourBenchmark)
	targetedCheck := section3.CheckBenchmarkCompliance(targetedRate, contract.Applicability.TargetedBenchmark)

	totalF, _ := total.Value.Float64()
	sec3F, _ := sec3Hours.Value.Float64()
	targetedF, _ := targeted.Value.Float64()
	rateF, _ := rate.Value.Float64()
	targetedRateF, _ := targetedRate.Value.Float64()

	writeJSON(w, http.StatusOK, ComplianceSummaryDTO{
		ContractID:         string(id),
		IsApplicable:       contract.Applicability.IsApplicable,
		TotalHours:         totalF,
		Section3Hours:      sec3F,
		TargetedHours:      targetedF,
		ComplianceRate:     rateF,
		TargetedRate:       targetedRateF,
		LaborHourBenchmark: toBenchmarkCheckDTO(laborCheck, rate, contract.Applicability.LaborHourBenchmark),
		TargetedBenchmark:  toBenchmarkCheckDTO(targetedCheck, targetedRate, contract.Applicability.TargetedBenchmark),
		AsOf:               section3.Today().String(),
	})
}

// GetTasks returns the generated task calendar for a contract.
func (h *Handler) GetTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := section3.ContractID(chi.URLParam(r, "id"))

	if _, err := h.Store.GetContract(ctx, id); err != nil {
		writeStoreError(w, "Failed to load contract", err)
		return
	}

	tasks, err := h.Store.ListTasks(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskDTOs(tasks))
}

// CompleteTask marks a task completed.
func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	id := section3.TaskID(chi.URLParam(r, "id"))

	if err := h.Store.CompleteTask(r.Context(), id); err != nil {
		writeStoreError(w, "Failed to complete task", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

// =============================================================================
// LABOR-HOUR HANDLERS
// =============================================================================

// RecordLaborHours appends a labor-hour entry to the contract's ledger.
func (h *Handler) RecordLaborHours(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := section3.ContractID(chi.URLParam(r, "id"))

	if _, err := h.Store.GetContract(ctx, id); err != nil {
		writeStoreError(w, "Failed to load contract", err)
		return
	}

	var req LaborHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	workDate, err := parseISODate(req.WorkDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid work_date", err)
		return
	}

	total := section3.NewAmount(req.TotalHours, section3.UnitHours)
	sec3Hours := section3.NewAmount(req.Section3Hours, section3.UnitHours)
	targeted := section3.NewAmount(req.TargetedHours, section3.UnitHours)
	if err := section3.ValidateLaborHours(total, sec3Hours, targeted); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid labor hours", err)
		return
	}

	entry := sqlite.LaborHoursEntry{
		ID:             fmt.Sprintf("hours-%d", time.Now().UnixNano()),
		ContractID:     id,
		WorkDate:       workDate,
		TotalHours:     total,
		Section3Hours:  sec3Hours,
		TargetedHours:  targeted,
		Source:         req.Source,
		IdempotencyKey: req.IdempotencyKey,
	}
	if err := h.Store.AppendLaborHours(ctx, entry); err != nil {
		writeStoreError(w, "Failed to record labor hours", err)
		return
	}

	writeJSON(w, http.StatusCreated, toLaborHoursDTO(entry))
}

// ListLaborHours returns the ledger entries for a contract.
func (h *Handler) ListLaborHours(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := section3.ContractID(chi.URLParam(r, "id"))

	entries, err := h.Store.LoadLaborHours(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load labor hours", err)
		return
	}

	dtos := make([]LaborHoursDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toLaborHoursDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// REPORTING HANDLERS
// =============================================================================

// GetReportingPeriod returns the next open reporting window for a contract.
func (h *Handler) GetReportingPeriod(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := section3.ContractID(chi.URLParam(r, "id"))

	contract, err := h.Store.GetContract(ctx, id)
	if err != nil {
		writeStoreError(w, "Failed to load contract", err)
		return
	}

	period, err := h.nextPeriod(ctx, contract)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute reporting period", err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodDTO(period))
}

// SubmitReport freezes the hours for the next open period into a report.
func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := section3.ContractID(chi.URLParam(r, "id"))

	contract, err := h.Store.GetContract(ctx, id)
	if err != nil {
		writeStoreError(w, "Failed to load contract", err)
		return
	}

	period, err := h.nextPeriod(ctx, contract)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute reporting period", err)
		return
	}

	entries, err := h.Store.LoadLaborHoursRange(ctx, id, period.Start, period.End)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load labor hours", err)
		return
	}
	total, sec3Hours, targeted := sumHours(entries)

	now := time.Now().UTC()
	record := sqlite.ReportRecord{
		ID:             fmt.Sprintf("report-%d", now.UnixNano()),
		ContractID:     id,
		Period:         period,
		TotalHours:     total,
		Section3Hours:  sec3Hours,
		TargetedHours:  targeted,
		ComplianceRate: section3.CalculateComplianceRate(total, sec3Hours),
		Status:         "submitted",
		SubmittedAt:    &now,
	}
	if err := h.Store.SaveReport(ctx, record); err != nil {
		writeStoreError(w, "Failed to save report", err)
		return
	}

	writeJSON(w, http.StatusCreated, toReportDTO(record))
}

// ListReports returns the report history for a contract.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := section3.ContractID(chi.URLParam(r, "id"))

	reports, err := h.Store.ListReports(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list reports", err)
		return
	}

	dtos := make([]ReportDTO, len(reports))
	for i, rep := range reports {
		dtos[i] = toReportDTO(rep)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// nextPeriod computes the next open reporting window from the latest
// recorded report, or from the contract start when none exists.
func (h *Handler) nextPeriod(ctx context.Context, contract *sqlite.ContractRecord) (section3.ReportingPeriod, error) {
	latest, err := h.Store.LatestReport(ctx, contract.ID)
	if err != nil {
		return section3.ReportingPeriod{}, err
	}
	var lastEnd *section3.TimePoint
	if latest != nil {
		lastEnd = &latest.Period.End
	}
	return section3.NextReportingPeriod(contract.StartDate, lastEnd), nil
}

// =============================================================================
// FUNDING SOURCE HANDLERS
// =============================================================================

// ListFundingSources returns all funding sources.
func (h *Handler) ListFundingSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.Store.ListFundingSources(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list funding sources", err)
		return
	}

	dtos := make([]FundingSourceDTO, len(sources))
	for i := range sources {
		dtos[i] = FundingSourceDTO{
			ID:     string(sources[i].ID),
			Name:   sources[i].Name,
			Config: h.SourceFactory.ToJSON(&sources[i]),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateFundingSource creates a funding source from a JSON config.
func (h *Handler) CreateFundingSource(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateFundingSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	source, err := h.SourceFactory.FromJSON(req.Config)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid funding source config", err)
		return
	}

	configJSON, _ := json.Marshal(req.Config)
	if err := h.Store.SaveFundingSource(ctx, source, string(configJSON)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save funding source", err)
		return
	}
	h.sources[source.ID] = source

	writeJSON(w, http.StatusCreated, FundingSourceDTO{
		ID:     string(source.ID),
		Name:   source.Name,
		Config: h.SourceFactory.ToJSON(source),
	})
}

// GetFundingSource returns a single funding source.
func (h *Handler) GetFundingSource(w http.ResponseWriter, r *http.Request) {
	id := section3.SourceID(chi.URLParam(r, "id"))

	source, err := h.Store.GetFundingSource(r.Context(), id)
	if err != nil {
		writeStoreError(w, "Failed to load funding source", err)
		return
	}
	writeJSON(w, http.StatusOK, FundingSourceDTO{
		ID:     string(source.ID),
		Name:   source.Name,
		Config: h.SourceFactory.ToJSON(source),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func sumHours(entries []sqlite.LaborHoursEntry) (total, section3Hours, targeted section3.Amount) {
	total = section3.NewAmountFromInt(0, section3.UnitHours)
	section3Hours = section3.NewAmountFromInt(0, section3.UnitHours)
	targeted = section3.NewAmountFromInt(0, section3.UnitHours)
	for _, e := range entries {
		total = total.Add(e.TotalHours)
		section3Hours = section3Hours.Add(e.Section3Hours)
		targeted = targeted.Add(e.TargetedHours)
	}
	return total, section3Hours, targeted
}

func toBenchmarkCheckDTO(check section3.BenchmarkCompliance, actual, required section3.Amount) BenchmarkCheckDTO {
	requiredF, _ := required.Value.Float64()
	actualF, _ := actual.Value.Float64()
	varianceF, _ := check.Variance.Value.Float64()
	return BenchmarkCheckDTO{
		Required: requiredF,
		Actual:   actualF,
		IsMet:    check.IsMet,
		Variance: varianceF,
		Status:   string(check.Status),
	}
}

func toLaborHoursDTO(e sqlite.LaborHoursEntry) LaborHoursDTO {
	total, _ := e.TotalHours.Value.Float64()
	sec3, _ := e.Section3Hours.Value.Float64()
	targeted, _ := e.TargetedHours.Value.Float64()
	return LaborHoursDTO{
		ID:            e.ID,
		ContractID:    string(e.ContractID),
		WorkDate:      e.WorkDate.String(),
		TotalHours:    total,
		Section3Hours: sec3,
		TargetedHours: targeted,
		Source:        e.Source,
	}
}

func parseISODate(s string) (section3.TimePoint, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return section3.TimePoint{}, fmt.Errorf("expected YYYY-MM-DD, got %q", s)
	}
	return section3.NewTimePoint(t.Year(), t.Month(), t.Day()), nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError maps engine/store errors to HTTP status codes.
func writeStoreError(w http.ResponseWriter, message string, err error) {
	switch {
	case section3.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case section3.IsConflict(err):
		writeError(w, http.StatusConflict, message, err)
	case section3.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
