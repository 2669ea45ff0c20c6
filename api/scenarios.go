/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates funding sources,
	contracts, and labor-hour entries that demonstrate specific behaviors
	of the compliance rules.

AVAILABLE SCENARIOS:

	cdbg-construction: CDBG construction contract above threshold, hours on record
	lead-hazard:       Lead hazard control contract under Subpart C rules
	materials-exempt:  Materials-only contract, always exempt
	below-threshold:   Construction contract under the funding threshold
	reporting-cycle:   Multi-quarter contract with a submitted first report

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create funding sources via factory
 3. Create contracts (applicability resolved, tasks generated)
 4. Optionally append labor-hour entries and reports

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "cdbg-construction"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: CreateContract logic these loaders reuse
  - funding/factory.go: Funding source JSON presets
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rapidcompliance/section3-engine/funding"
	"github.com/rapidcompliance/section3-engine/section3"
	"github.com/rapidcompliance/section3-engine/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "cdbg-construction",
		Name:        "CDBG Construction",
		Description: "Construction contract above the CDBG threshold with hours on record",
		Category:    "applicability",
	},
	{
		ID:          "lead-hazard",
		Name:        "Lead Hazard Control",
		Description: "Lead hazard control contract under the lower Subpart C threshold",
		Category:    "applicability",
	},
	{
		ID:          "materials-exempt",
		Name:        "Materials Only",
		Description: "Materials-only procurement, exempt regardless of amount",
		Category:    "applicability",
	},
	{
		ID:          "below-threshold",
		Name:        "Below Threshold",
		Description: "Construction contract under the funding threshold",
		Category:    "applicability",
	},
	{
		ID:          "reporting-cycle",
		Name:        "Reporting Cycle",
		Description: "Multi-quarter contract with a submitted first quarterly report",
		Category:    "reporting",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	// Find the scenario details
	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	// Scenario ID exists but not in list (shouldn't happen)
	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          h.currentScenario,
		Name:        h.currentScenario,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.sources = make(map[section3.SourceID]*section3.FundingSource)
	h.currentScenario = "" // Clear current scenario on reset

	var err error
	switch req.ScenarioID {
	case "cdbg-construction":
		err = h.loadCDBGConstructionScenario(ctx)
	case "lead-hazard":
		err = h.loadLeadHazardScenario(ctx)
	case "materials-exempt":
		err = h.loadMaterialsExemptScenario(ctx)
	case "below-threshold":
		err = h.loadBelowThresholdScenario(ctx)
	case "reporting-cycle":
		err = h.loadReportingCycleScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	// Track the loaded scenario
	h.currentScenario = req.ScenarioID

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all data without loading a scenario.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.sources = make(map[section3.SourceID]*section3.FundingSource)
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadCDBGConstructionScenario(ctx context.Context) error {
	source, err := h.createSourceFromJSON(ctx, funding.CDBGJSON("cdbg-2024", "CDBG Entitlement 2024"))
	if err != nil {
		return err
	}

	year := time.Now().Year()
	contract, err := h.createScenarioContract(ctx, scenarioContract{
		ID:               "contract-cdbg-001",
		Name:             "Maple Street Housing Rehabilitation",
		Contractor:       "Northside Builders LLC",
		ContractType:     section3.ContractConstruction,
		HUDFundingAmount: 350000,
		TotalProjectCost: 500000,
		Source:           source,
		Start:            section3.NewTimePoint(year, time.January, 15),
		End:              section3.NewTimePoint(year, time.December, 31),
	})
	if err != nil {
		return err
	}

	// Q1 hours: 28% Section 3 rate, above the 25% benchmark
	return h.appendScenarioHours(ctx, contract.ID, []scenarioHours{
		{Date: section3.NewTimePoint(year, time.January, 31), Total: 400, Section3: 110, Targeted: 20},
		{Date: section3.NewTimePoint(year, time.February, 29), Total: 300, Section3: 90, Targeted: 25},
		{Date: section3.NewTimePoint(year, time.March, 29), Total: 300, Section3: 80, Targeted: 15},
	})
}

func (h *Handler) loadLeadHazardScenario(ctx context.Context) error {
	source, err := h.createSourceFromJSON(ctx, funding.LeadHazardJSON("lead-2024", "Lead Hazard Control Grant 2024"))
	if err != nil {
		return err
	}

	year := time.Now().Year()
	contract, err := h.createScenarioContract(ctx, scenarioContract{
		ID:               "contract-lead-001",
		Name:             "Elm Avenue Lead Abatement",
		Contractor:       "SafeHome Remediation Inc",
		ContractType:     section3.ContractLeadHazardControl,
		HUDFundingAmount: 150000,
		TotalProjectCost: 180000,
		Source:           source,
		Start:            section3.NewTimePoint(year, time.February, 1),
		End:              section3.NewTimePoint(year, time.August, 31),
	})
	if err != nil {
		return err
	}

	// Just over the 5% Subpart C labor-hour benchmark
	return h.appendScenarioHours(ctx, contract.ID, []scenarioHours{
		{Date: section3.NewTimePoint(year, time.February, 28), Total: 500, Section3: 30, Targeted: 10},
	})
}

func (h *Handler) loadMaterialsExemptScenario(ctx context.Context) error {
	source, err := h.createSourceFromJSON(ctx, funding.CDBGJSON("cdbg-2024", "CDBG Entitlement 2024"))
	if err != nil {
		return err
	}

	year := time.Now().Year()
	_, err = h.createScenarioContract(ctx, scenarioContract{
		ID:               "contract-materials-001",
		Name:             "Bulk Lumber and Fixtures Purchase",
		Contractor:       "Regional Building Supply",
		ContractType:     section3.ContractMaterialsOnly,
		HUDFundingAmount: 900000,
		TotalProjectCost: 900000,
		Source:           source,
		Start:            section3.NewTimePoint(year, time.March, 1),
		End:              section3.NewTimePoint(year, time.June, 30),
	})
	return err
}

func (h *Handler) loadBelowThresholdScenario(ctx context.Context) error {
	source, err := h.createSourceFromJSON(ctx, funding.HOMEJSON("home-2024", "HOME Investment Partnerships 2024"))
	if err != nil {
		return err
	}

	year := time.Now().Year()
	_, err = h.createScenarioContract(ctx, scenarioContract{
		ID:               "contract-small-001",
		Name:             "Porch Repair Program",
		Contractor:       "Handy Renovations",
		ContractType:     section3.ContractConstruction,
		HUDFundingAmount: 150000,
		TotalProjectCost: 175000,
		Source:           source,
		Start:            section3.NewTimePoint(year, time.April, 1),
		End:              section3.NewTimePoint(year, time.October, 31),
	})
	return err
}

func (h *Handler) loadReportingCycleScenario(ctx context.Context) error {
	source, err := h.createSourceFromJSON(ctx, funding.PublicHousingJSON("ph-capital-2024", "Public Housing Capital Fund 2024"))
	if err != nil {
		return err
	}

	// Fixed to the prior year so at least one quarter has closed
	year := time.Now().Year() - 1
	contract, err := h.createScenarioContract(ctx, scenarioContract{
		ID:               "contract-cycle-001",
		Name:             "Riverview Towers Modernization",
		Contractor:       "Capital Works JV",
		ContractType:     section3.ContractRehabilitation,
		HUDFundingAmount: 1200000,
		TotalProjectCost: 1500000,
		Source:           source,
		Start:            section3.NewTimePoint(year, time.January, 2),
		End:              section3.NewTimePoint(year+1, time.June, 30),
	})
	if err != nil {
		return err
	}

	if err := h.appendScenarioHours(ctx, contract.ID, []scenarioHours{
		{Date: section3.NewTimePoint(year, time.January, 31), Total: 600, Section3: 150, Targeted: 40},
		{Date: section3.NewTimePoint(year, time.February, 28), Total: 550, Section3: 140, Targeted: 35},
		{Date: section3.NewTimePoint(year, time.March, 28), Total: 650, Section3: 170, Targeted: 45},
		{Date: section3.NewTimePoint(year, time.April, 30), Total: 600, Section3: 120, Targeted: 30},
	}); err != nil {
		return err
	}

	// Submit the first quarterly report so the next open window starts Q2
	period := section3.NextReportingPeriod(contract.StartDate, nil)
	entries, err := h.Store.LoadLaborHoursRange(ctx, contract.ID, period.Start, period.End)
	if err != nil {
		return err
	}
	total, sec3Hours, targeted := sumHours(entries)

	submitted := time.Now().UTC()
	return h.Store.SaveReport(ctx, sqlite.ReportRecord{
		ID:             fmt.Sprintf("report-%d", submitted.UnixNano()),
		ContractID:     contract.ID,
		Period:         period,
		TotalHours:     total,
		Section3Hours:  sec3Hours,
		TargetedHours:  targeted,
		ComplianceRate: section3.CalculateComplianceRate(total, sec3Hours),
		Status:         "submitted",
		SubmittedAt:    &submitted,
	})
}

// =============================================================================
// SCENARIO HELPERS
// =============================================================================

type scenarioContract struct {
	ID               string
	Name             string
	Contractor       string
	ContractType     section3.ContractType
	HUDFundingAmount float64
	TotalProjectCost float64
	Source           *section3.FundingSource
	Start            section3.TimePoint
	End              section3.TimePoint
}

type scenarioHours struct {
	Date     section3.TimePoint
	Total    float64
	Section3 float64
	Targeted float64
}

func (h *Handler) createSourceFromJSON(ctx context.Context, jsonStr string) (*section3.FundingSource, error) {
	source, err := h.SourceFactory.ParseFundingSource(jsonStr)
	if err != nil {
		return nil, err
	}
	if err := h.Store.SaveFundingSource(ctx, source, jsonStr); err != nil {
		return nil, err
	}
	h.sources[source.ID] = source
	return source, nil
}

func (h *Handler) createScenarioContract(ctx context.Context, sc scenarioContract) (*sqlite.ContractRecord, error) {
	hud := section3.NewAmount(sc.HUDFundingAmount, section3.UnitDollars)
	cost := section3.NewAmount(sc.TotalProjectCost, section3.UnitDollars)
	verdict := section3.ResolveApplicability(sc.ContractType, hud, cost, sc.Source)

	record := sqlite.ContractRecord{
		ID:               section3.ContractID(sc.ID),
		Name:             sc.Name,
		Contractor:       sc.Contractor,
		ContractType:     sc.ContractType,
		HUDFundingAmount: hud,
		TotalProjectCost: cost,
		StartDate:        sc.Start,
		EndDate:          sc.End,
		Applicability:    verdict,
	}
	if sc.Source != nil {
		record.FundingSourceID = sc.Source.ID
	}
	if err := h.Store.SaveContract(ctx, record); err != nil {
		return nil, err
	}

	tasks := section3.GenerateComplianceTasks(record.ID, sc.Start, sc.End, verdict.IsApplicable)
	if err := h.Store.SaveTasks(ctx, tasks); err != nil {
		return nil, err
	}
	return &record, nil
}

func (h *Handler) appendScenarioHours(ctx context.Context, contractID section3.ContractID, entries []scenarioHours) error {
	for i, e := range entries {
		entry := sqlite.LaborHoursEntry{
			ID:             fmt.Sprintf("hours-%s-%d", contractID, i),
			ContractID:     contractID,
			WorkDate:       e.Date,
			TotalHours:     section3.NewAmount(e.Total, section3.UnitHours),
			Section3Hours:  section3.NewAmount(e.Section3, section3.UnitHours),
			TargetedHours:  section3.NewAmount(e.Targeted, section3.UnitHours),
			Source:         "payroll",
			IdempotencyKey: fmt.Sprintf("scenario-%s-%d", contractID, i),
		}
		if err := h.Store.AppendLaborHours(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}
