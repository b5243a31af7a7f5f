package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pontaj/internal/attendance"
	"github.com/pontaj/internal/timeofday"
)

const (
	dateFormat      = "2006-01-02"
	timestampFormat = time.RFC3339
)

// ImportRecord is one entry of the upload log
type ImportRecord struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	Checksum    string    `json:"checksum"`
	DateRange   string    `json:"date_range"`
	RecordCount int       `json:"record_count"`
	ImportedAt  time.Time `json:"imported_at"`
}

type Database struct {
	db *sql.DB
}

func New(path string) (*Database, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	database := &Database{db: db}
	if err := database.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return database, nil
}

func (d *Database) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS attendance_records (
			employee TEXT NOT NULL,
			date_label TEXT NOT NULL,
			badge_id TEXT NOT NULL DEFAULT 'N/A',
			department TEXT,
			weekday TEXT,
			date TEXT,
			entry_time TEXT,
			exit_time TEXT,
			worked_hours REAL NOT NULL DEFAULT 0,
			standard_hours REAL NOT NULL DEFAULT 0,
			difference REAL NOT NULL DEFAULT 0,
			absence INTEGER NOT NULL DEFAULT 0,
			import_id TEXT,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (employee, date_label)
		)`,
		`CREATE TABLE IF NOT EXISTS imports (
			id TEXT PRIMARY KEY,
			file_name TEXT NOT NULL,
			checksum TEXT NOT NULL,
			date_range TEXT,
			record_count INTEGER NOT NULL DEFAULT 0,
			imported_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_date ON attendance_records(date)`,
		`CREATE INDEX IF NOT EXISTS idx_imports_checksum ON imports(checksum)`,
	}

	for _, query := range queries {
		if _, err := d.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

const upsertRecord = `
	INSERT INTO attendance_records
		(employee, date_label, badge_id, department, weekday, date, entry_time, exit_time,
		 worked_hours, standard_hours, difference, absence, import_id, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(employee, date_label) DO UPDATE SET
		badge_id = excluded.badge_id,
		department = excluded.department,
		weekday = excluded.weekday,
		date = excluded.date,
		entry_time = excluded.entry_time,
		exit_time = excluded.exit_time,
		worked_hours = excluded.worked_hours,
		standard_hours = excluded.standard_hours,
		difference = excluded.difference,
		absence = excluded.absence,
		import_id = excluded.import_id,
		updated_at = excluded.updated_at`

// UpsertRecords writes records in one transaction. A record replaces the
// stored one with the same employee and date label.
func (d *Database) UpsertRecords(ctx context.Context, importID string, records []attendance.DailyRecord) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertRecord)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(timestampFormat)
	for _, r := range records {
		_, err := stmt.ExecContext(ctx,
			r.Employee,
			r.DateLabel,
			r.BadgeID,
			r.Department,
			r.Weekday,
			nullDate(r.Date),
			nullTime(r.Entry),
			nullTime(r.Exit),
			r.WorkedHours,
			r.StandardHours,
			r.Difference,
			r.Absence,
			importID,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert record %s/%s: %w", r.Employee, r.DateLabel, err)
		}
	}

	return tx.Commit()
}

const selectRecords = `
	SELECT employee, date_label, badge_id, department, weekday, date, entry_time, exit_time,
	       worked_hours, standard_hours, difference, absence
	FROM attendance_records`

// LoadRecords returns every stored record in insertion order
func (d *Database) LoadRecords(ctx context.Context) ([]attendance.DailyRecord, error) {
	return d.queryRecords(ctx, selectRecords+` ORDER BY rowid ASC`)
}

// GetRecordsInRange returns the dated records with start <= date <= end
func (d *Database) GetRecordsInRange(ctx context.Context, start, end time.Time) ([]attendance.DailyRecord, error) {
	return d.queryRecords(ctx,
		selectRecords+` WHERE date >= ? AND date <= ? ORDER BY employee ASC, date ASC`,
		start.Format(dateFormat),
		end.Format(dateFormat),
	)
}

// DeleteRecordsInRange removes dated records with start <= date <= end
func (d *Database) DeleteRecordsInRange(ctx context.Context, start, end time.Time) (int64, error) {
	result, err := d.db.ExecContext(ctx,
		`DELETE FROM attendance_records WHERE date >= ? AND date <= ?`,
		start.Format(dateFormat),
		end.Format(dateFormat),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete records: %w", err)
	}
	return result.RowsAffected()
}

// GetOldestRecordDate returns nil when no dated record is stored
func (d *Database) GetOldestRecordDate(ctx context.Context) (*time.Time, error) {
	var oldest sql.NullString
	err := d.db.QueryRowContext(ctx,
		`SELECT MIN(date) FROM attendance_records WHERE date IS NOT NULL`,
	).Scan(&oldest)
	if err != nil {
		return nil, fmt.Errorf("failed to query oldest record: %w", err)
	}
	if !oldest.Valid {
		return nil, nil
	}

	t, err := time.Parse(dateFormat, oldest.String)
	if err != nil {
		return nil, fmt.Errorf("invalid stored date %q: %w", oldest.String, err)
	}
	return &t, nil
}

func (d *Database) queryRecords(ctx context.Context, query string, args ...any) ([]attendance.DailyRecord, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []attendance.DailyRecord
	for rows.Next() {
		var r attendance.DailyRecord
		var department, weekday, date, entry, exit sql.NullString

		if err := rows.Scan(&r.Employee, &r.DateLabel, &r.BadgeID, &department, &weekday, &date,
			&entry, &exit, &r.WorkedHours, &r.StandardHours, &r.Difference, &r.Absence); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		r.Department = department.String
		r.Weekday = weekday.String
		if date.Valid {
			if t, err := time.Parse(dateFormat, date.String); err == nil {
				r.Date = &t
			}
		}
		if v, ok := timeofday.Parse(entry.String); ok {
			r.Entry = &v
		}
		if v, ok := timeofday.Parse(exit.String); ok {
			r.Exit = &v
		}

		records = append(records, r)
	}

	return records, rows.Err()
}

// RecordImport appends an entry to the upload log
func (d *Database) RecordImport(ctx context.Context, imp ImportRecord) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO imports (id, file_name, checksum, date_range, record_count, imported_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		imp.ID,
		imp.FileName,
		imp.Checksum,
		imp.DateRange,
		imp.RecordCount,
		imp.ImportedAt.UTC().Format(timestampFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to record import: %w", err)
	}
	return nil
}

// FindImportByChecksum returns the latest import of identical content, or
// nil when the content was never imported.
func (d *Database) FindImportByChecksum(ctx context.Context, checksum string) (*ImportRecord, error) {
	imports, err := d.queryImports(ctx,
		`SELECT id, file_name, checksum, date_range, record_count, imported_at
		 FROM imports WHERE checksum = ? ORDER BY imported_at DESC LIMIT 1`,
		checksum,
	)
	if err != nil {
		return nil, err
	}
	if len(imports) == 0 {
		return nil, nil
	}
	return &imports[0], nil
}

// ListImports returns the upload log, newest first
func (d *Database) ListImports(ctx context.Context) ([]ImportRecord, error) {
	return d.queryImports(ctx,
		`SELECT id, file_name, checksum, date_range, record_count, imported_at
		 FROM imports ORDER BY imported_at DESC`,
	)
}

func (d *Database) queryImports(ctx context.Context, query string, args ...any) ([]ImportRecord, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query imports: %w", err)
	}
	defer rows.Close()

	var imports []ImportRecord
	for rows.Next() {
		var imp ImportRecord
		var dateRange sql.NullString
		var importedAt string

		if err := rows.Scan(&imp.ID, &imp.FileName, &imp.Checksum, &dateRange, &imp.RecordCount, &importedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import: %w", err)
		}
		imp.DateRange = dateRange.String
		imp.ImportedAt, _ = time.Parse(timestampFormat, importedAt)

		imports = append(imports, imp)
	}

	return imports, rows.Err()
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(dateFormat), Valid: true}
}

func nullTime(v *timeofday.Value) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: v.String(), Valid: true}
}
