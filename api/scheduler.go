/*
scheduler.go - Automated quarter-close scheduler

PURPOSE:
  Periodically checks every applicable contract for reporting quarters
  that have closed without a recorded report and opens a "due" report
  stub for each, so compliance staff see outstanding filings without
  anyone manually tracking quarter boundaries.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Walks each contract's reporting timeline from its latest recorded
    report (or contract start) and opens stubs for every closed quarter
  - Re-runs are safe: the unique period index on compliance_reports
    rejects duplicates, which the scheduler treats as already-done
  - Non-applicable contracts are skipped entirely

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewQuarterCloseScheduler(store)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: SubmitReport endpoint (manual submission)
  - section3/period.go: NextReportingPeriod
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/rapidcompliance/section3-engine/section3"
	"github.com/rapidcompliance/section3-engine/store/sqlite"
)

// QuarterCloseScheduler opens due-report stubs for closed quarters.
type QuarterCloseScheduler struct {
	Store         *sqlite.Store
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewQuarterCloseScheduler creates a new scheduler.
func NewQuarterCloseScheduler(store *sqlite.Store) *QuarterCloseScheduler {
	return &QuarterCloseScheduler{
		Store:         store,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (qs *QuarterCloseScheduler) Start() {
	qs.mu.Lock()
	defer qs.mu.Unlock()

	if !qs.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	qs.ticker = time.NewTicker(qs.CheckInterval)
	qs.wg.Add(1)

	go qs.run()

	log.Printf("[Scheduler] Started with check interval: %v", qs.CheckInterval)
}

// Stop stops the scheduler.
func (qs *QuarterCloseScheduler) Stop() {
	qs.mu.Lock()
	defer qs.mu.Unlock()

	if qs.ticker != nil {
		qs.ticker.Stop()
		close(qs.stop)
		qs.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (qs *QuarterCloseScheduler) run() {
	defer qs.wg.Done()

	// Run immediately on start
	qs.checkAndProcess()

	for {
		select {
		case <-qs.ticker.C:
			qs.checkAndProcess()
		case <-qs.stop:
			return
		}
	}
}

func (qs *QuarterCloseScheduler) checkAndProcess() {
	ctx := context.Background()
	today := section3.Today()

	log.Printf("[Scheduler] Checking for closed quarters as of %s", today)

	contracts, err := qs.Store.ListContracts(ctx)
	if err != nil {
		log.Printf("[Scheduler] Error listing contracts: %v", err)
		return
	}

	openedCount := 0
	skippedCount := 0

	for _, contract := range contracts {
		if !contract.Applicability.IsApplicable {
			continue
		}

		opened, skipped, err := qs.processContract(ctx, contract, today)
		if err != nil {
			log.Printf("[Scheduler] Error processing contract %s: %v", contract.ID, err)
			continue
		}
		openedCount += opened
		skippedCount += skipped
	}

	if openedCount > 0 || skippedCount > 0 {
		log.Printf("[Scheduler] Completed: %d report stubs opened, %d skipped (already recorded)", openedCount, skippedCount)
	}
}

// processContract opens due-report stubs for every quarter of the given
// contract that has closed without a recorded report.
func (qs *QuarterCloseScheduler) processContract(ctx context.Context, contract sqlite.ContractRecord, today section3.TimePoint) (opened, skipped int, err error) {
	latest, err := qs.Store.LatestReport(ctx, contract.ID)
	if err != nil {
		return 0, 0, err
	}

	var lastEnd *section3.TimePoint
	if latest != nil {
		end := latest.Period.End
		lastEnd = &end
	}

	for {
		period := section3.NextReportingPeriod(contract.StartDate, lastEnd)

		// Only quarters that have fully closed get a stub
		if !period.End.Before(today) {
			break
		}
		// Stop once the timeline runs past the contract itself
		if contract.EndDate.Before(period.Start) {
			break
		}

		entries, err := qs.Store.LoadLaborHoursRange(ctx, contract.ID, period.Start, period.End)
		if err != nil {
			return opened, skipped, err
		}
		total, sec3Hours, targeted := sumHours(entries)

		stub := sqlite.ReportRecord{
			ID:             fmt.Sprintf("report-%d-%s", time.Now().UnixNano(), period.End),
			ContractID:     contract.ID,
			Period:         period,
			TotalHours:     total,
			Section3Hours:  sec3Hours,
			TargetedHours:  targeted,
			ComplianceRate: section3.CalculateComplianceRate(total, sec3Hours),
			Status:         "due",
		}

		saveErr := qs.Store.SaveReport(ctx, stub)
		switch {
		case saveErr == nil:
			opened++
			log.Printf("[Scheduler] Opened due report for %s: %s to %s (due %s)",
				contract.ID, period.Start, period.End, period.DueDate)
		case errors.Is(saveErr, section3.ErrDuplicateReport):
			skipped++
		default:
			return opened, skipped, saveErr
		}

		end := period.End
		lastEnd = &end
	}

	return opened, skipped, nil
}

// RunNow triggers an immediate check (for testing/admin).
func (qs *QuarterCloseScheduler) RunNow() {
	qs.checkAndProcess()
}

// GetNextRunTime returns when the next scheduled check will occur.
func (qs *QuarterCloseScheduler) GetNextRunTime() time.Time {
	return time.Now().Add(qs.CheckInterval)
}
