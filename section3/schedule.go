/*
schedule.go - Compliance task calendar generation

PURPOSE:
  Generates the calendar of mandatory compliance tasks for a covered
  contract: one quarterly report task per calendar quarter in the
  contract term, plus the two fixed contract-start obligations (worker
  verification and compliance plan submission).

EMISSION ORDER:
  Quarterly report tasks first (chronological), then the verification
  task, then the plan task. Consumers that need strict due-date order
  should sort by DueDate; the two fixed tasks are due before the first
  quarterly report.

QUARTER BOUNDARIES:
  The first report quarter is the quarter boundary at or after the
  contract start, with a grace rule: contracts starting in the final
  month of a quarter report their first quarter at the FOLLOWING quarter
  end. A contract starting March 15 files its first report for the
  quarter ending June 30, not March 31. Do not change this without
  product confirmation.

SEE ALSO:
  - period.go: Reporting window arithmetic (no grace rule there)
  - time.go: Quarter helpers
*/
package section3

import (
	"fmt"
	"time"
)

const (
	reportDueOffsetDays   = 15 // report due within 15 days of quarter end
	verificationDueDays   = 30 // worker verification due after contract start
	compliancePlanDueDays = 14 // compliance plan due after contract start
)

// GenerateComplianceTasks produces the full task calendar for a contract.
// Non-applicable contracts get no tasks at all.
func GenerateComplianceTasks(contractID ContractID, startDate, endDate TimePoint, isApplicable bool) []ComplianceTask {
	if !isApplicable {
		return []ComplianceTask{}
	}

	var tasks []ComplianceTask

	quarterEnd := firstReportQuarterEnd(startDate)
	for quarterEnd.BeforeOrEqual(endDate) {
		tasks = append(tasks, ComplianceTask{
			ContractID: contractID,
			Type:       TaskReportSubmission,
			Title:      fmt.Sprintf("Submit Q%d %d Section 3 Report", quarterEnd.Quarter(), quarterEnd.Year()),
			Description: fmt.Sprintf("Quarterly labor-hour report for the period ending %s, due within %d days of quarter end",
				quarterEnd, reportDueOffsetDays),
			DueDate:     quarterEnd.AddDays(reportDueOffsetDays),
			Priority:    PriorityHigh,
			GeneratedBy: RuleOnQuarterEnd,
		})
		quarterEnd = quarterEnd.NextQuarterEnd()
	}

	tasks = append(tasks, ComplianceTask{
		ContractID:  contractID,
		Type:        TaskWorkerVerification,
		Title:       "Verify Section 3 Worker Eligibility",
		Description: "Collect and verify Section 3 worker self-certifications for all workers assigned to the project",
		DueDate:     startDate.AddDays(verificationDueDays),
		Priority:    PriorityHigh,
		GeneratedBy: RuleOnCreateContract,
	})

	tasks = append(tasks, ComplianceTask{
		ContractID:  contractID,
		Type:        TaskDocumentUpload,
		Title:       "Submit Section 3 Compliance Plan",
		Description: "Upload the contractor's plan for recruitment, training, and outreach to Section 3 workers and businesses",
		DueDate:     startDate.AddDays(compliancePlanDueDays),
		Priority:    PriorityHigh,
		GeneratedBy: RuleOnCreateContract,
	})

	return tasks
}

// firstReportQuarterEnd returns the quarter end the first report covers.
// Integer month division gives the grace rule its shape: for the final
// month of a quarter (March, June, September, December) the division
// lands on the next quarter, so a contract with almost no runway in its
// starting quarter is not asked to file for it.
func firstReportQuarterEnd(start TimePoint) TimePoint {
	endMonth := (int(start.Month())/3)*3 + 3
	return EndOfMonth(start.Year(), time.Month(endMonth))
}
