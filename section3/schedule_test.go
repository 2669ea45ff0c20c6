package section3_test

import (
	"testing"
	"time"

	"github.com/rapidcompliance/section3-engine/section3"
)

func date(year int, month time.Month, day int) section3.TimePoint {
	return section3.NewTimePoint(year, month, day)
}

func tasksOfType(tasks []section3.ComplianceTask, tt section3.TaskType) []section3.ComplianceTask {
	var out []section3.ComplianceTask
	for _, task := range tasks {
		if task.Type == tt {
			out = append(out, task)
		}
	}
	return out
}

// =============================================================================
// TASK CALENDAR TESTS
// =============================================================================

func TestGenerateComplianceTasks_NotApplicable(t *testing.T) {
	// GIVEN: A contract Section 3 does not apply to
	// WHEN: Tasks are generated
	// THEN: An empty (non-nil) task list

	tasks := section3.GenerateComplianceTasks(
		"contract-1", date(2024, time.January, 15), date(2024, time.December, 31), false)

	if tasks == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(tasks) != 0 {
		t.Errorf("expected no tasks for non-applicable contract, got %d", len(tasks))
	}
}

func TestGenerateComplianceTasks_FullYearContract(t *testing.T) {
	// GIVEN: A covered contract running Jan 15 to Dec 31, 2024
	// WHEN: Tasks are generated
	// THEN: Four quarterly reports plus the verification and plan tasks

	start := date(2024, time.January, 15)
	end := date(2024, time.December, 31)
	tasks := section3.GenerateComplianceTasks("contract-1", start, end, true)

	if len(tasks) != 6 {
		t.Fatalf("expected 6 tasks, got %d", len(tasks))
	}

	reports := tasksOfType(tasks, section3.TaskReportSubmission)
	if len(reports) != 4 {
		t.Fatalf("expected 4 quarterly report tasks, got %d", len(reports))
	}

	// Reports are due 15 days after each quarter end
	wantDue := []section3.TimePoint{
		date(2024, time.April, 15),
		date(2024, time.July, 15),
		date(2024, time.October, 15),
		date(2025, time.January, 15),
	}
	for i, task := range reports {
		if !task.DueDate.Equal(wantDue[i]) {
			t.Errorf("report %d: expected due %s, got %s", i, wantDue[i], task.DueDate)
		}
		if task.GeneratedBy != section3.RuleOnQuarterEnd {
			t.Errorf("report %d: expected onQuarterEnd rule, got %q", i, task.GeneratedBy)
		}
	}

	if reports[0].Title != "Submit Q1 2024 Section 3 Report" {
		t.Errorf("unexpected first report title: %q", reports[0].Title)
	}
	if reports[3].Title != "Submit Q4 2024 Section 3 Report" {
		t.Errorf("unexpected last report title: %q", reports[3].Title)
	}

	verifications := tasksOfType(tasks, section3.TaskWorkerVerification)
	if len(verifications) != 1 {
		t.Fatalf("expected 1 verification task, got %d", len(verifications))
	}
	if !verifications[0].DueDate.Equal(date(2024, time.February, 14)) {
		t.Errorf("verification due 30 days after start, expected 2024-02-14, got %s", verifications[0].DueDate)
	}

	plans := tasksOfType(tasks, section3.TaskDocumentUpload)
	if len(plans) != 1 {
		t.Fatalf("expected 1 compliance plan task, got %d", len(plans))
	}
	if !plans[0].DueDate.Equal(date(2024, time.January, 29)) {
		t.Errorf("plan due 14 days after start, expected 2024-01-29, got %s", plans[0].DueDate)
	}

	for i, task := range tasks {
		if task.Priority != section3.PriorityHigh {
			t.Errorf("task %d: all generated tasks carry high priority, got %q", i, task.Priority)
		}
		if task.ContractID != "contract-1" {
			t.Errorf("task %d: wrong contract id %q", i, task.ContractID)
		}
	}
}

func TestGenerateComplianceTasks_EmissionOrder(t *testing.T) {
	// GIVEN: A covered full-year contract
	// WHEN: Tasks are generated
	// THEN: Quarterly reports come first, then verification, then the plan

	tasks := section3.GenerateComplianceTasks(
		"contract-1", date(2024, time.January, 15), date(2024, time.December, 31), true)

	for i := 0; i < 4; i++ {
		if tasks[i].Type != section3.TaskReportSubmission {
			t.Errorf("task %d: expected report submission, got %q", i, tasks[i].Type)
		}
	}
	if tasks[4].Type != section3.TaskWorkerVerification {
		t.Errorf("expected verification after reports, got %q", tasks[4].Type)
	}
	if tasks[5].Type != section3.TaskDocumentUpload {
		t.Errorf("expected plan task last, got %q", tasks[5].Type)
	}
}

func TestGenerateComplianceTasks_QuarterFinalMonthStart(t *testing.T) {
	// GIVEN: A contract starting March 15, the final month of Q1
	// WHEN: Tasks are generated
	// THEN: The first report covers the quarter ending June 30, not
	//       March 31; a two-week-old contract is not asked to file

	tasks := section3.GenerateComplianceTasks(
		"contract-1", date(2024, time.March, 15), date(2024, time.December, 31), true)

	reports := tasksOfType(tasks, section3.TaskReportSubmission)
	if len(reports) != 3 {
		t.Fatalf("expected 3 quarterly reports (Q2-Q4), got %d", len(reports))
	}
	if !reports[0].DueDate.Equal(date(2024, time.July, 15)) {
		t.Errorf("first report should be due 2024-07-15 for the June 30 quarter, got %s", reports[0].DueDate)
	}
	if reports[0].Title != "Submit Q2 2024 Section 3 Report" {
		t.Errorf("unexpected first report title: %q", reports[0].Title)
	}
}

func TestGenerateComplianceTasks_DecemberStartCrossesYear(t *testing.T) {
	// GIVEN: A contract starting December 10, 2024 and ending mid-2025
	// WHEN: Tasks are generated
	// THEN: The first report quarter is March 31, 2025 (December is the
	//       final month of Q4, so Q4 2024 is skipped)

	tasks := section3.GenerateComplianceTasks(
		"contract-1", date(2024, time.December, 10), date(2025, time.June, 30), true)

	reports := tasksOfType(tasks, section3.TaskReportSubmission)
	if len(reports) != 2 {
		t.Fatalf("expected 2 quarterly reports (Q1-Q2 2025), got %d", len(reports))
	}
	if !reports[0].DueDate.Equal(date(2025, time.April, 15)) {
		t.Errorf("first report should be due 2025-04-15, got %s", reports[0].DueDate)
	}
	if reports[0].Title != "Submit Q1 2025 Section 3 Report" {
		t.Errorf("unexpected first report title: %q", reports[0].Title)
	}
}

func TestGenerateComplianceTasks_ContractTooShortForAnyQuarter(t *testing.T) {
	// GIVEN: A short contract that ends before its first report quarter
	// WHEN: Tasks are generated
	// THEN: No quarterly reports, only the two contract-start tasks

	tasks := section3.GenerateComplianceTasks(
		"contract-1", date(2024, time.March, 1), date(2024, time.April, 30), true)

	if len(tasks) != 2 {
		t.Fatalf("expected only the 2 contract-start tasks, got %d", len(tasks))
	}
	if len(tasksOfType(tasks, section3.TaskReportSubmission)) != 0 {
		t.Error("no quarterly reports expected for a contract shorter than its first quarter")
	}
}

func TestGenerateComplianceTasks_SingleQuarterContract(t *testing.T) {
	// GIVEN: A contract spanning exactly one quarter
	// WHEN: Tasks are generated
	// THEN: One quarterly report plus the two contract-start tasks

	tasks := section3.GenerateComplianceTasks(
		"contract-1", date(2024, time.January, 2), date(2024, time.March, 31), true)

	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	reports := tasksOfType(tasks, section3.TaskReportSubmission)
	if len(reports) != 1 {
		t.Fatalf("expected exactly 1 quarterly report, got %d", len(reports))
	}
	if !reports[0].DueDate.Equal(date(2024, time.April, 15)) {
		t.Errorf("report due 2024-04-15, got %s", reports[0].DueDate)
	}
}

func TestGenerateComplianceTasks_EndExactlyOnQuarterEnd(t *testing.T) {
	// GIVEN: A contract ending exactly on a quarter boundary
	// WHEN: Tasks are generated
	// THEN: That quarter still gets a report; the boundary is inclusive

	tasks := section3.GenerateComplianceTasks(
		"contract-1", date(2024, time.January, 2), date(2024, time.June, 30), true)

	reports := tasksOfType(tasks, section3.TaskReportSubmission)
	if len(reports) != 2 {
		t.Fatalf("expected 2 quarterly reports, got %d", len(reports))
	}
	if !reports[1].DueDate.Equal(date(2024, time.July, 15)) {
		t.Errorf("second report due 2024-07-15, got %s", reports[1].DueDate)
	}
}
