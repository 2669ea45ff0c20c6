/*
Package sqlite provides a SQLite-backed implementation of the storage
layer around the compliance engine.

PURPOSE:
  Persists the records the pure engine does not own: funding sources,
  contracts with their applicability verdicts, the labor-hour ledger,
  the generated task calendar, and quarterly reports. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

APPEND-ONLY LEDGER:
  The labor_hours table is append-only:
  - No UPDATE statements, no DELETE statements
  - Corrections are new entries with negative deltas
  - Every entry carries an idempotency key; duplicates are rejected

KEY TABLES:
  funding_sources:   Program reference data (JSON config preserved)
  contracts:         Contract metadata + frozen applicability verdict
  labor_hours:       Append-only ledger of reported labor hours
  compliance_tasks:  Generated task calendar (unique per contract/type/due)
  compliance_reports: Quarterly report records (unique per contract/period)

IDEMPOTENT SCHEDULING:
  The unique indexes on compliance_tasks and compliance_reports make the
  quarter-close scheduler safe to re-run: work already recorded is
  skipped at the database level.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency.

USAGE:
  store, err := sqlite.New("./data/compliance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - section3: The pure engine these records feed
  - api: HTTP layer composed on top of this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rapidcompliance/section3-engine/section3"
)

// Store implements the persistence layer using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Funding sources (program reference data)
	CREATE TABLE IF NOT EXISTS funding_sources (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		program TEXT NOT NULL,
		default_threshold TEXT NOT NULL,
		subpart TEXT NOT NULL,
		config_json TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_funding_sources_program
		ON funding_sources(program);

	-- Contracts (metadata + applicability verdict frozen at creation)
	CREATE TABLE IF NOT EXISTS contracts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		contractor TEXT,
		contract_type TEXT NOT NULL,
		hud_funding_amount TEXT NOT NULL,
		total_project_cost TEXT NOT NULL,
		funding_source_id TEXT,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		is_applicable BOOLEAN NOT NULL,
		subpart TEXT NOT NULL,
		threshold TEXT NOT NULL,
		labor_hour_benchmark TEXT NOT NULL,
		targeted_benchmark TEXT NOT NULL,
		reason TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_contracts_funding_source
		ON contracts(funding_source_id);
	CREATE INDEX IF NOT EXISTS idx_contracts_applicable
		ON contracts(is_applicable);

	-- Labor hours (append-only ledger)
	CREATE TABLE IF NOT EXISTS labor_hours (
		id TEXT PRIMARY KEY,
		contract_id TEXT NOT NULL,
		work_date TEXT NOT NULL,
		total_hours TEXT NOT NULL,
		section3_hours TEXT NOT NULL,
		targeted_hours TEXT NOT NULL,
		source TEXT,
		idempotency_key TEXT UNIQUE,
		created_at TEXT NOT NULL
	);

	-- Composite index for period-based hour queries (hot path)
	CREATE INDEX IF NOT EXISTS idx_labor_hours_contract_date
		ON labor_hours(contract_id, work_date);
	CREATE INDEX IF NOT EXISTS idx_labor_hours_idempotency
		ON labor_hours(idempotency_key) WHERE idempotency_key IS NOT NULL;

	-- Compliance tasks (generated calendar)
	CREATE TABLE IF NOT EXISTS compliance_tasks (
		id TEXT PRIMARY KEY,
		contract_id TEXT NOT NULL,
		task_type TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		due_date TEXT NOT NULL,
		priority TEXT NOT NULL,
		generated_by TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'open',
		completed_at TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_contract
		ON compliance_tasks(contract_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_status
		ON compliance_tasks(status);
	-- Makes task generation idempotent across scheduler re-runs
	CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_unique
		ON compliance_tasks(contract_id, task_type, due_date);

	-- Quarterly compliance reports
	CREATE TABLE IF NOT EXISTS compliance_reports (
		id TEXT PRIMARY KEY,
		contract_id TEXT NOT NULL,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		due_date TEXT NOT NULL,
		form_type TEXT NOT NULL,
		total_hours TEXT NOT NULL,
		section3_hours TEXT NOT NULL,
		targeted_hours TEXT NOT NULL,
		compliance_rate TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'due',
		submitted_at TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_contract
		ON compliance_reports(contract_id);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_reports_unique
		ON compliance_reports(contract_id, period_start, period_end);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RECORD TYPES
// =============================================================================

// ContractRecord is a contract plus the applicability verdict computed
// when it was created.
type ContractRecord struct {
	ID               section3.ContractID
	Name             string
	Contractor       string
	ContractType     section3.ContractType
	HUDFundingAmount section3.Amount
	TotalProjectCost section3.Amount
	FundingSourceID  section3.SourceID // empty when no source
	StartDate        section3.TimePoint
	EndDate          section3.TimePoint
	Applicability    section3.ContractApplicability
	CreatedAt        time.Time
}

// LaborHoursEntry is one append-only ledger entry of reported hours.
type LaborHoursEntry struct {
	ID             string
	ContractID     section3.ContractID
	WorkDate       section3.TimePoint
	TotalHours     section3.Amount
	Section3Hours  section3.Amount
	TargetedHours  section3.Amount
	Source         string // e.g. "payroll", "manual"
	IdempotencyKey string
	CreatedAt      time.Time
}

// TaskRecord is a generated compliance task plus its workflow state.
type TaskRecord struct {
	ID          section3.TaskID
	Task        section3.ComplianceTask
	Status      string // "open" or "completed"
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// ReportRecord is a quarterly compliance report.
type ReportRecord struct {
	ID             string
	ContractID     section3.ContractID
	Period         section3.ReportingPeriod
	TotalHours     section3.Amount
	Section3Hours  section3.Amount
	TargetedHours  section3.Amount
	ComplianceRate section3.Amount
	Status         string // "due", "submitted"
	SubmittedAt    *time.Time
	CreatedAt      time.Time
}

// =============================================================================
// FUNDING SOURCES
// =============================================================================

// SaveFundingSource persists a funding source with its JSON config.
func (s *Store) SaveFundingSource(ctx context.Context, source *section3.FundingSource, configJSON string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT OR REPLACE INTO funding_sources
		(id, name, program, default_threshold, subpart, config_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		source.ID,
		source.Name,
		source.Program.ProgramID(),
		source.DefaultThreshold.Value.String(),
		source.Subpart,
		nullString(configJSON),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save funding source: %w", err)
	}
	return nil
}

// GetFundingSource loads a funding source by ID.
func (s *Store) GetFundingSource(ctx context.Context, id section3.SourceID) (*section3.FundingSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, program, default_threshold, subpart FROM funding_sources WHERE id = ?`, id)

	source, err := scanFundingSource(row)
	if err == sql.ErrNoRows {
		return nil, section3.ErrFundingSourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load funding source: %w", err)
	}
	return source, nil
}

// ListFundingSources returns all funding sources.
func (s *Store) ListFundingSources(ctx context.Context) ([]section3.FundingSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, program, default_threshold, subpart FROM funding_sources ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list funding sources: %w", err)
	}
	defer rows.Close()

	var sources []section3.FundingSource
	for rows.Next() {
		source, err := scanFundingSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, *source)
	}
	return sources, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFundingSource(row rowScanner) (*section3.FundingSource, error) {
	var (
		id, name, program, threshold, subpart string
	)
	if err := row.Scan(&id, &name, &program, &threshold, &subpart); err != nil {
		return nil, err
	}
	return &section3.FundingSource{
		ID:               section3.SourceID(id),
		Name:             name,
		Program:          section3.GetOrCreateProgram(program),
		DefaultThreshold: section3.Amount{Value: section3.MustParseDecimal(threshold), Unit: section3.UnitDollars},
		Subpart:          section3.Subpart(subpart),
	}, nil
}

// =============================================================================
// CONTRACTS
// =============================================================================

// SaveContract persists a contract and its applicability verdict.
func (s *Store) SaveContract(ctx context.Context, c ContractRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO contracts
		(id, name, contractor, contract_type, hud_funding_amount, total_project_cost,
		 funding_source_id, start_date, end_date, is_applicable, subpart, threshold,
		 labor_hour_benchmark, targeted_benchmark, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		c.ID,
		c.Name,
		c.Contractor,
		c.ContractType,
		c.HUDFundingAmount.Value.String(),
		c.TotalProjectCost.Value.String(),
		nullString(string(c.FundingSourceID)),
		c.StartDate.String(),
		c.EndDate.String(),
		c.Applicability.IsApplicable,
		c.Applicability.Subpart,
		c.Applicability.Threshold.Value.String(),
		c.Applicability.LaborHourBenchmark.Value.String(),
		c.Applicability.TargetedBenchmark.Value.String(),
		c.Applicability.Reason,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save contract: %w", err)
	}
	return nil
}

// GetContract loads a contract by ID.
func (s *Store) GetContract(ctx context.Context, id section3.ContractID) (*ContractRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, contractSelect+` WHERE id = ?`, id)
	c, err := scanContract(row)
	if err == sql.ErrNoRows {
		return nil, section3.ErrContractNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load contract: %w", err)
	}
	return c, nil
}

// ListContracts returns all contracts ordered by creation time.
func (s *Store) ListContracts(ctx context.Context) ([]ContractRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, contractSelect+` ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	var contracts []ContractRecord
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, *c)
	}
	return contracts, rows.Err()
}

const contractSelect = `
	SELECT id, name, contractor, contract_type, hud_funding_amount, total_project_cost,
	       funding_source_id, start_date, end_date, is_applicable, subpart, threshold,
	       labor_hour_benchmark, targeted_benchmark, reason, created_at
	FROM contracts`

func scanContract(row rowScanner) (*ContractRecord, error) {
	var (
		c                                  ContractRecord
		contractor, sourceID               sql.NullString
		hudAmount, totalCost               string
		startDate, endDate                 string
		subpart, threshold                 string
		laborBenchmark, targetedBenchmark  string
		createdAt                          string
	)
	err := row.Scan(
		&c.ID, &c.Name, &contractor, &c.ContractType, &hudAmount, &totalCost,
		&sourceID, &startDate, &endDate, &c.Applicability.IsApplicable, &subpart,
		&threshold, &laborBenchmark, &targetedBenchmark, &c.Applicability.Reason, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	c.Contractor = contractor.String
	c.FundingSourceID = section3.SourceID(sourceID.String)
	c.HUDFundingAmount = section3.Amount{Value: section3.MustParseDecimal(hudAmount), Unit: section3.UnitDollars}
	c.TotalProjectCost = section3.Amount{Value: section3.MustParseDecimal(totalCost), Unit: section3.UnitDollars}
	c.StartDate = parseDate(startDate)
	c.EndDate = parseDate(endDate)
	c.Applicability.Subpart = section3.Subpart(subpart)
	c.Applicability.Threshold = section3.Amount{Value: section3.MustParseDecimal(threshold), Unit: section3.UnitDollars}
	c.Applicability.LaborHourBenchmark = section3.Amount{Value: section3.MustParseDecimal(laborBenchmark), Unit: section3.UnitPercent}
	c.Applicability.TargetedBenchmark = section3.Amount{Value: section3.MustParseDecimal(targetedBenchmark), Unit: section3.UnitPercent}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &c, nil
}

// =============================================================================
// LABOR-HOUR LEDGER (append-only)
// =============================================================================

// AppendLaborHours adds a ledger entry. Returns ErrDuplicateHoursEntry
// if the idempotency key already exists. This is the ONLY write path;
// there is no update or delete.
func (s *Store) AppendLaborHours(ctx context.Context, e LaborHoursEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO labor_hours
		(id, contract_id, work_date, total_hours, section3_hours, targeted_hours,
		 source, idempotency_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.ContractID,
		e.WorkDate.String(),
		e.TotalHours.Value.String(),
		e.Section3Hours.Value.String(),
		e.TargetedHours.Value.String(),
		nullString(e.Source),
		nullString(e.IdempotencyKey),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return section3.ErrDuplicateHoursEntry
		}
		return fmt.Errorf("failed to append labor hours: %w", err)
	}
	return nil
}

// LoadLaborHours returns all entries for a contract, ordered by work date.
func (s *Store) LoadLaborHours(ctx context.Context, contractID section3.ContractID) ([]LaborHoursEntry, error) {
	return s.loadHours(ctx, `
		SELECT id, contract_id, work_date, total_hours, section3_hours, targeted_hours, source, idempotency_key, created_at
		FROM labor_hours WHERE contract_id = ?
		ORDER BY work_date ASC, created_at ASC`, contractID)
}

// LoadLaborHoursRange returns entries with work dates in [from, to].
func (s *Store) LoadLaborHoursRange(ctx context.Context, contractID section3.ContractID, from, to section3.TimePoint) ([]LaborHoursEntry, error) {
	return s.loadHours(ctx, `
		SELECT id, contract_id, work_date, total_hours, section3_hours, targeted_hours, source, idempotency_key, created_at
		FROM labor_hours WHERE contract_id = ? AND work_date >= ? AND work_date <= ?
		ORDER BY work_date ASC, created_at ASC`, contractID, from.String(), to.String())
}

func (s *Store) loadHours(ctx context.Context, query string, args ...any) ([]LaborHoursEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query labor hours: %w", err)
	}
	defer rows.Close()

	var entries []LaborHoursEntry
	for rows.Next() {
		var (
			e                             LaborHoursEntry
			workDate                      string
			total, sec3, targeted         string
			source, idempotencyKey        sql.NullString
			createdAt                     string
		)
		err := rows.Scan(&e.ID, &e.ContractID, &workDate, &total, &sec3, &targeted,
			&source, &idempotencyKey, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan labor hours: %w", err)
		}
		e.WorkDate = parseDate(workDate)
		e.TotalHours = section3.Amount{Value: section3.MustParseDecimal(total), Unit: section3.UnitHours}
		e.Section3Hours = section3.Amount{Value: section3.MustParseDecimal(sec3), Unit: section3.UnitHours}
		e.TargetedHours = section3.Amount{Value: section3.MustParseDecimal(targeted), Unit: section3.UnitHours}
		e.Source = source.String
		e.IdempotencyKey = idempotencyKey.String
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// =============================================================================
// COMPLIANCE TASKS
// =============================================================================

// SaveTasks persists generated tasks. Tasks already present (same
// contract, type, and due date) are skipped, which makes generation
// idempotent across scheduler re-runs.
func (s *Store) SaveTasks(ctx context.Context, tasks []section3.ComplianceTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	query := `
		INSERT OR IGNORE INTO compliance_tasks
		(id, contract_id, task_type, title, description, due_date, priority, generated_by, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 'open', ?)
	`
	now := time.Now().UTC()
	for i, task := range tasks {
		id := fmt.Sprintf("task-%d-%d", now.UnixNano(), i)
		_, err := sqlTx.ExecContext(ctx, query,
			id, task.ContractID, task.Type, task.Title, task.Description,
			task.DueDate.String(), task.Priority, task.GeneratedBy,
			now.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to save task: %w", err)
		}
	}
	return sqlTx.Commit()
}

// ListTasks returns all tasks for a contract, ordered by due date.
func (s *Store) ListTasks(ctx context.Context, contractID section3.ContractID) ([]TaskRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, contract_id, task_type, title, description, due_date, priority, generated_by, status, completed_at, created_at
		FROM compliance_tasks WHERE contract_id = ?
		ORDER BY due_date ASC, id ASC`, contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []TaskRecord
	for rows.Next() {
		var (
			rec                    TaskRecord
			dueDate                string
			description            sql.NullString
			completedAt            sql.NullString
			createdAt              string
		)
		err := rows.Scan(&rec.ID, &rec.Task.ContractID, &rec.Task.Type, &rec.Task.Title,
			&description, &dueDate, &rec.Task.Priority, &rec.Task.GeneratedBy,
			&rec.Status, &completedAt, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		rec.Task.Description = description.String
		rec.Task.DueDate = parseDate(dueDate)
		if completedAt.Valid {
			t, _ := time.Parse(time.RFC3339, completedAt.String)
			rec.CompletedAt = &t
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		tasks = append(tasks, rec)
	}
	return tasks, rows.Err()
}

// CompleteTask marks a task completed.
func (s *Store) CompleteTask(ctx context.Context, taskID section3.TaskID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE compliance_tasks SET status = 'completed', completed_at = ?
		WHERE id = ? AND status = 'open'`,
		time.Now().UTC().Format(time.RFC3339), taskID)
	if err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return section3.ErrTaskNotFound
	}
	return nil
}

// =============================================================================
// COMPLIANCE REPORTS
// =============================================================================

// SaveReport persists a report. Returns ErrDuplicateReport when a report
// already covers the same period for the contract.
func (s *Store) SaveReport(ctx context.Context, r ReportRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO compliance_reports
		(id, contract_id, period_start, period_end, due_date, form_type,
		 total_hours, section3_hours, targeted_hours, compliance_rate, status, submitted_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	var submittedAt any
	if r.SubmittedAt != nil {
		submittedAt = r.SubmittedAt.UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx, query,
		r.ID,
		r.ContractID,
		r.Period.Start.String(),
		r.Period.End.String(),
		r.Period.DueDate.String(),
		r.Period.FormType,
		r.TotalHours.Value.String(),
		r.Section3Hours.Value.String(),
		r.TargetedHours.Value.String(),
		r.ComplianceRate.Value.String(),
		r.Status,
		submittedAt,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return section3.ErrDuplicateReport
		}
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// MarkReportSubmitted records submission of a due report.
func (s *Store) MarkReportSubmitted(ctx context.Context, reportID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		UPDATE compliance_reports SET status = 'submitted', submitted_at = ?
		WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), reportID)
	if err != nil {
		return fmt.Errorf("failed to mark report submitted: %w", err)
	}
	return nil
}

// LatestReport returns the report with the latest period end for a
// contract, or nil when none has been recorded yet.
func (s *Store) LatestReport(ctx context.Context, contractID section3.ContractID) (*ReportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, reportSelect+`
		WHERE contract_id = ? ORDER BY period_end DESC LIMIT 1`, contractID)

	r, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest report: %w", err)
	}
	return r, nil
}

// ListReports returns all reports for a contract, oldest period first.
func (s *Store) ListReports(ctx context.Context, contractID section3.ContractID) ([]ReportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, reportSelect+`
		WHERE contract_id = ? ORDER BY period_end ASC`, contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []ReportRecord
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}

const reportSelect = `
	SELECT id, contract_id, period_start, period_end, due_date, form_type,
	       total_hours, section3_hours, targeted_hours, compliance_rate, status, submitted_at, created_at
	FROM compliance_reports`

func scanReport(row rowScanner) (*ReportRecord, error) {
	var (
		r                              ReportRecord
		periodStart, periodEnd, due    string
		total, sec3, targeted, rate    string
		submittedAt                    sql.NullString
		createdAt                      string
	)
	err := row.Scan(&r.ID, &r.ContractID, &periodStart, &periodEnd, &due, &r.Period.FormType,
		&total, &sec3, &targeted, &rate, &r.Status, &submittedAt, &createdAt)
	if err != nil {
		return nil, err
	}
	r.Period.Start = parseDate(periodStart)
	r.Period.End = parseDate(periodEnd)
	r.Period.DueDate = parseDate(due)
	r.TotalHours = section3.Amount{Value: section3.MustParseDecimal(total), Unit: section3.UnitHours}
	r.Section3Hours = section3.Amount{Value: section3.MustParseDecimal(sec3), Unit: section3.UnitHours}
	r.TargetedHours = section3.Amount{Value: section3.MustParseDecimal(targeted), Unit: section3.UnitHours}
	r.ComplianceRate = section3.Amount{Value: section3.MustParseDecimal(rate), Unit: section3.UnitPercent}
	if submittedAt.Valid {
		t, _ := time.Parse(time.RFC3339, submittedAt.String)
		r.SubmittedAt = &t
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &r, nil
}

// =============================================================================
// RESET (dev/demo only)
// =============================================================================

// Reset clears all data. Only used by demo scenarios.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{
		"compliance_reports", "compliance_tasks", "labor_hours", "contracts", "funding_sources",
	} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func parseDate(s string) section3.TimePoint {
	t, _ := time.Parse("2006-01-02", s)
	return section3.TimePoint{Time: t}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
