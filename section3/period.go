package section3

// =============================================================================
// REPORTING PERIOD CALCULATOR
// =============================================================================

// NextReportingPeriod computes the next open quarterly reporting window
// for a contract. The window starts the day after the last submitted
// report's end date, or at the contract start when nothing has been
// filed yet. It ends on the last day of the quarter containing its
// start, and the report is due 15 days after that.
//
// Only quarterly windows are computed here; annual and final report
// forms are handled outside the engine.
func NextReportingPeriod(contractStart TimePoint, lastReportEnd *TimePoint) ReportingPeriod {
	start := contractStart
	if lastReportEnd != nil {
		start = lastReportEnd.AddDays(1)
	}

	end := start.EndOfQuarter()
	return ReportingPeriod{
		Start:    start,
		End:      end,
		DueDate:  end.AddDays(reportDueOffsetDays),
		FormType: FormQuarterly,
	}
}
