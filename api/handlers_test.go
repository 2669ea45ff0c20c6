/*
handlers_test.go - HTTP API tests

Tests for:
- Contract creation (applicability resolution, task generation)
- Labor-hour recording and compliance summary
- Reporting period progression and report submission
- Funding source creation
- Quarter-close scheduler idempotency
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidcompliance/section3-engine/factory"
	"github.com/rapidcompliance/section3-engine/funding"
	"github.com/rapidcompliance/section3-engine/section3"
	"github.com/rapidcompliance/section3-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (*Handler, *httptest.Server) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := NewHandler(store)
	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return h, srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
}

func createContractReq(id string) CreateContractRequest {
	return CreateContractRequest{
		ID:               id,
		Name:             "Maple Street Rehabilitation",
		Contractor:       "Northside Builders LLC",
		ContractType:     "construction",
		HUDFundingAmount: 350000,
		TotalProjectCost: 500000,
		StartDate:        "2024-01-15",
		EndDate:          "2024-12-31",
	}
}

// =============================================================================
// CONTRACT TESTS
// =============================================================================

func TestCreateContract_ResolvesApplicabilityAndGeneratesTasks(t *testing.T) {
	// GIVEN: A construction contract with $350k HUD funding
	// WHEN: Created via the API
	// THEN: Covered under Subpart B, with the full task calendar persisted

	_, srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/contracts", createContractReq("contract-1"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var contract ContractDTO
	decodeJSON(t, resp, &contract)

	assert.True(t, contract.Applicability.IsApplicable)
	assert.Equal(t, "Subpart B", contract.Applicability.Subpart)
	assert.Equal(t, float64(200000), contract.Applicability.Threshold)
	assert.Equal(t, float64(25), contract.Applicability.LaborHourBenchmark)
	assert.Equal(t, float64(5), contract.Applicability.TargetedBenchmark)

	// Full-year contract: 4 quarterly reports + verification + plan
	taskResp, err := http.Get(srv.URL + "/api/contracts/contract-1/tasks")
	require.NoError(t, err)
	var tasks []TaskDTO
	decodeJSON(t, taskResp, &tasks)
	require.Len(t, tasks, 6)

	// Tasks come back sorted by due date: plan (Jan 29), verification (Feb 14)
	assert.Equal(t, "document_upload", tasks[0].Type)
	assert.Equal(t, "2024-01-29", tasks[0].DueDate)
	assert.Equal(t, "worker_verification", tasks[1].Type)
	assert.Equal(t, "2024-02-14", tasks[1].DueDate)
	assert.Equal(t, "report_submission", tasks[2].Type)
	assert.Equal(t, "2024-04-15", tasks[2].DueDate)
	for _, task := range tasks {
		assert.Equal(t, "high", task.Priority)
		assert.Equal(t, "open", task.Status)
	}
}

func TestCreateContract_MaterialsOnlyExempt(t *testing.T) {
	// GIVEN: A materials-only contract above every threshold
	// WHEN: Created via the API
	// THEN: 201 with an exempt verdict and no tasks; exemption is a valid
	//       answer, not an error

	_, srv := newTestServer(t)

	req := createContractReq("contract-materials")
	req.ContractType = "materials_only"
	req.HUDFundingAmount = 900000

	resp := postJSON(t, srv.URL+"/api/contracts", req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var contract ContractDTO
	decodeJSON(t, resp, &contract)
	assert.False(t, contract.Applicability.IsApplicable)
	assert.Equal(t, "N/A", contract.Applicability.Subpart)
	assert.Zero(t, contract.Applicability.LaborHourBenchmark)

	taskResp, err := http.Get(srv.URL + "/api/contracts/contract-materials/tasks")
	require.NoError(t, err)
	var tasks []TaskDTO
	decodeJSON(t, taskResp, &tasks)
	assert.Empty(t, tasks)
}

func TestCreateContract_InvalidInput(t *testing.T) {
	_, srv := newTestServer(t)

	// Unknown contract type
	req := createContractReq("contract-bad")
	req.ContractType = "demolition"
	resp := postJSON(t, srv.URL+"/api/contracts", req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Negative funding
	req = createContractReq("contract-bad")
	req.HUDFundingAmount = -100
	resp = postJSON(t, srv.URL+"/api/contracts", req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// End before start
	req = createContractReq("contract-bad")
	req.EndDate = "2023-01-01"
	resp = postJSON(t, srv.URL+"/api/contracts", req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestGetContract_NotFound(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/contracts/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// LABOR-HOUR AND COMPLIANCE TESTS
// =============================================================================

func TestRecordLaborHours_ComplianceSummary(t *testing.T) {
	// GIVEN: A covered contract with 280 of 1000 hours from Section 3 workers
	// WHEN: The compliance summary is requested
	// THEN: 28% rate, exceeding the 25% benchmark by 3 points

	_, srv := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/contracts", createContractReq("contract-1"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	entries := []LaborHoursRequest{
		{WorkDate: "2024-01-31", TotalHours: 400, Section3Hours: 110, TargetedHours: 20, Source: "payroll", IdempotencyKey: "jan"},
		{WorkDate: "2024-02-29", TotalHours: 300, Section3Hours: 90, TargetedHours: 25, Source: "payroll", IdempotencyKey: "feb"},
		{WorkDate: "2024-03-29", TotalHours: 300, Section3Hours: 80, TargetedHours: 15, Source: "payroll", IdempotencyKey: "mar"},
	}
	for _, e := range entries {
		r := postJSON(t, srv.URL+"/api/contracts/contract-1/labor-hours", e)
		require.Equal(t, http.StatusCreated, r.StatusCode)
		r.Body.Close()
	}

	sumResp, err := http.Get(srv.URL + "/api/contracts/contract-1/compliance")
	require.NoError(t, err)
	var summary ComplianceSummaryDTO
	decodeJSON(t, sumResp, &summary)

	assert.Equal(t, float64(1000), summary.TotalHours)
	assert.Equal(t, float64(280), summary.Section3Hours)
	assert.Equal(t, float64(60), summary.TargetedHours)
	assert.Equal(t, float64(28), summary.ComplianceRate)
	assert.Equal(t, float64(6), summary.TargetedRate)

	assert.True(t, summary.LaborHourBenchmark.IsMet)
	assert.Equal(t, "exceeds", summary.LaborHourBenchmark.Status)
	assert.Equal(t, float64(3), summary.LaborHourBenchmark.Variance)

	assert.True(t, summary.TargetedBenchmark.IsMet)
	assert.Equal(t, "exceeds", summary.TargetedBenchmark.Status)
}

func TestRecordLaborHours_DuplicateIdempotencyKey(t *testing.T) {
	// GIVEN: A recorded labor-hour entry
	// WHEN: The same idempotency key is submitted again
	// THEN: 409 Conflict, the ledger is append-only

	_, srv := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/contracts", createContractReq("contract-1"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	entry := LaborHoursRequest{
		WorkDate: "2024-01-31", TotalHours: 100, Section3Hours: 30,
		Source: "payroll", IdempotencyKey: "payroll-2024-01",
	}

	first := postJSON(t, srv.URL+"/api/contracts/contract-1/labor-hours", entry)
	assert.Equal(t, http.StatusCreated, first.StatusCode)
	first.Body.Close()

	second := postJSON(t, srv.URL+"/api/contracts/contract-1/labor-hours", entry)
	assert.Equal(t, http.StatusConflict, second.StatusCode)
	second.Body.Close()
}

func TestRecordLaborHours_InvalidHours(t *testing.T) {
	_, srv := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/contracts", createContractReq("contract-1"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Section 3 hours exceeding total
	bad := LaborHoursRequest{WorkDate: "2024-01-31", TotalHours: 100, Section3Hours: 120}
	r := postJSON(t, srv.URL+"/api/contracts/contract-1/labor-hours", bad)
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)
	r.Body.Close()
}

// =============================================================================
// REPORTING TESTS
// =============================================================================

func TestReportingPeriod_ProgressesAfterSubmission(t *testing.T) {
	// GIVEN: A contract starting Jan 15 with no reports
	// WHEN: The first report is submitted
	// THEN: The open window advances from Q1 to Q2

	_, srv := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/contracts", createContractReq("contract-1"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	periodResp, err := http.Get(srv.URL + "/api/contracts/contract-1/reporting-period")
	require.NoError(t, err)
	var period ReportingPeriodDTO
	decodeJSON(t, periodResp, &period)
	assert.Equal(t, "2024-01-15", period.Start)
	assert.Equal(t, "2024-03-31", period.End)
	assert.Equal(t, "2024-04-15", period.DueDate)
	assert.Equal(t, "quarterly", period.FormType)

	submitResp := postJSON(t, srv.URL+"/api/contracts/contract-1/reports", struct{}{})
	require.Equal(t, http.StatusCreated, submitResp.StatusCode)
	var report ReportDTO
	decodeJSON(t, submitResp, &report)
	assert.Equal(t, "submitted", report.Status)
	assert.Equal(t, "2024-03-31", report.Period.End)

	periodResp, err = http.Get(srv.URL + "/api/contracts/contract-1/reporting-period")
	require.NoError(t, err)
	decodeJSON(t, periodResp, &period)
	assert.Equal(t, "2024-04-01", period.Start)
	assert.Equal(t, "2024-06-30", period.End)
	assert.Equal(t, "2024-07-15", period.DueDate)
}

func TestSubmitReport_FreezesPeriodHours(t *testing.T) {
	// GIVEN: Hours recorded inside and outside the first quarter
	// WHEN: The first report is submitted
	// THEN: Only the in-period hours are frozen into it

	_, srv := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/contracts", createContractReq("contract-1"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	inPeriod := LaborHoursRequest{WorkDate: "2024-02-15", TotalHours: 500, Section3Hours: 150, IdempotencyKey: "q1"}
	afterPeriod := LaborHoursRequest{WorkDate: "2024-04-10", TotalHours: 400, Section3Hours: 100, IdempotencyKey: "q2"}
	for _, e := range []LaborHoursRequest{inPeriod, afterPeriod} {
		r := postJSON(t, srv.URL+"/api/contracts/contract-1/labor-hours", e)
		require.Equal(t, http.StatusCreated, r.StatusCode)
		r.Body.Close()
	}

	submitResp := postJSON(t, srv.URL+"/api/contracts/contract-1/reports", struct{}{})
	require.Equal(t, http.StatusCreated, submitResp.StatusCode)
	var report ReportDTO
	decodeJSON(t, submitResp, &report)

	assert.Equal(t, float64(500), report.TotalHours)
	assert.Equal(t, float64(150), report.Section3Hours)
	assert.Equal(t, float64(30), report.ComplianceRate)
}

// =============================================================================
// FUNDING SOURCE TESTS
// =============================================================================

func TestCreateFundingSource_AndContractAgainstIt(t *testing.T) {
	// GIVEN: A Subpart C lead-hazard funding source
	// WHEN: A $150k contract is created against it
	// THEN: The source's $100k threshold and 5% benchmark govern

	_, srv := newTestServer(t)

	srcResp := postJSON(t, srv.URL+"/api/funding-sources", CreateFundingSourceRequest{
		Config: factory.FundingSourceJSON{
			ID:               "lead-2024",
			Name:             "Lead Hazard Control Grant 2024",
			Program:          "lead_hazard_control",
			DefaultThreshold: 100000,
			Subpart:          "Subpart C",
		},
	})
	require.Equal(t, http.StatusCreated, srcResp.StatusCode)
	var src FundingSourceDTO
	decodeJSON(t, srcResp, &src)
	assert.Equal(t, "lead-2024", src.ID)
	assert.Equal(t, "Subpart C", src.Config.Subpart)

	req := createContractReq("contract-lead")
	req.ContractType = "rehabilitation"
	req.HUDFundingAmount = 150000
	req.FundingSourceID = "lead-2024"
	resp := postJSON(t, srv.URL+"/api/contracts", req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var contract ContractDTO
	decodeJSON(t, resp, &contract)
	assert.True(t, contract.Applicability.IsApplicable)
	assert.Equal(t, "Subpart C", contract.Applicability.Subpart)
	assert.Equal(t, float64(100000), contract.Applicability.Threshold)
	assert.Equal(t, float64(5), contract.Applicability.LaborHourBenchmark)
}

func TestCreateContract_UnknownFundingSource(t *testing.T) {
	_, srv := newTestServer(t)

	req := createContractReq("contract-1")
	req.FundingSourceID = "missing-source"
	resp := postJSON(t, srv.URL+"/api/contracts", req)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestFundingSourcePresets_ParseCleanly(t *testing.T) {
	f := factory.NewSourceFactory()

	presets := []string{
		funding.CDBGJSON("cdbg-1", "CDBG"),
		funding.HOMEJSON("home-1", "HOME"),
		funding.LeadHazardJSON("lead-1", "Lead Hazard"),
		funding.PublicHousingJSON("ph-1", "Public Housing"),
	}
	for i, jsonStr := range presets {
		source, err := f.ParseFundingSource(jsonStr)
		require.NoError(t, err, "preset %d", i)
		assert.NotEmpty(t, source.ID)
		assert.False(t, source.DefaultThreshold.IsZero())
	}
}

// =============================================================================
// SCHEDULER TESTS
// =============================================================================

func TestQuarterCloseScheduler_OpensDueReportsIdempotently(t *testing.T) {
	// GIVEN: A covered contract whose first quarters have already closed
	// WHEN: The scheduler runs twice
	// THEN: One due-report stub per closed quarter, no duplicates

	h, _ := newTestServer(t)
	ctx := context.Background()

	// Contract fixed to last year so its quarters have closed
	year := time.Now().Year() - 1
	start := section3.NewTimePoint(year, time.January, 2)
	end := section3.NewTimePoint(year, time.December, 31)
	verdict := section3.ResolveApplicability(
		section3.ContractConstruction,
		section3.NewAmount(400000, section3.UnitDollars),
		section3.NewAmount(400000, section3.UnitDollars),
		nil)
	require.True(t, verdict.IsApplicable)

	require.NoError(t, h.Store.SaveContract(ctx, sqlite.ContractRecord{
		ID:               "contract-sched",
		Name:             "Scheduler Test",
		ContractType:     section3.ContractConstruction,
		HUDFundingAmount: section3.NewAmount(400000, section3.UnitDollars),
		TotalProjectCost: section3.NewAmount(400000, section3.UnitDollars),
		StartDate:        start,
		EndDate:          end,
		Applicability:    verdict,
	}))

	scheduler := NewQuarterCloseScheduler(h.Store)
	scheduler.RunNow()

	reports, err := h.Store.ListReports(ctx, "contract-sched")
	require.NoError(t, err)
	require.Len(t, reports, 4, "all four quarters of last year have closed")
	for i, rep := range reports {
		assert.Equal(t, "due", rep.Status, "report %d", i)
		assert.Nil(t, rep.SubmittedAt)
	}
	assert.Equal(t, fmt.Sprintf("%d-03-31", year), reports[0].Period.End.String())
	assert.Equal(t, fmt.Sprintf("%d-12-31", year), reports[3].Period.End.String())

	// Second run is a no-op
	scheduler.RunNow()
	reports, err = h.Store.ListReports(ctx, "contract-sched")
	require.NoError(t, err)
	assert.Len(t, reports, 4)
}

func TestQuarterCloseScheduler_SkipsNonApplicableContracts(t *testing.T) {
	h, _ := newTestServer(t)
	ctx := context.Background()

	year := time.Now().Year() - 1
	verdict := section3.ResolveApplicability(
		section3.ContractMaterialsOnly,
		section3.NewAmount(900000, section3.UnitDollars),
		section3.NewAmount(900000, section3.UnitDollars),
		nil)

	require.NoError(t, h.Store.SaveContract(ctx, sqlite.ContractRecord{
		ID:               "contract-exempt",
		Name:             "Materials",
		ContractType:     section3.ContractMaterialsOnly,
		HUDFundingAmount: section3.NewAmount(900000, section3.UnitDollars),
		TotalProjectCost: section3.NewAmount(900000, section3.UnitDollars),
		StartDate:        section3.NewTimePoint(year, time.January, 2),
		EndDate:          section3.NewTimePoint(year, time.December, 31),
		Applicability:    verdict,
	}))

	NewQuarterCloseScheduler(h.Store).RunNow()

	reports, err := h.Store.ListReports(ctx, "contract-exempt")
	require.NoError(t, err)
	assert.Empty(t, reports)
}

// =============================================================================
// SCENARIO TESTS
// =============================================================================

func TestLoadScenario_CDBGConstruction(t *testing.T) {
	_, srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/scenarios/load", LoadScenarioRequest{ScenarioID: "cdbg-construction"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	contractsResp, err := http.Get(srv.URL + "/api/contracts")
	require.NoError(t, err)
	var contracts []ContractDTO
	decodeJSON(t, contractsResp, &contracts)
	require.Len(t, contracts, 1)
	assert.True(t, contracts[0].Applicability.IsApplicable)

	currentResp, err := http.Get(srv.URL + "/api/scenarios/current")
	require.NoError(t, err)
	var current ScenarioDTO
	decodeJSON(t, currentResp, &current)
	assert.Equal(t, "cdbg-construction", current.ID)
}

func TestLoadScenario_Unknown(t *testing.T) {
	_, srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
