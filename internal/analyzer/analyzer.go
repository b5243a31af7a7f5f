// Package analyzer ties the parser, the aggregator and the history store
// together. Commands talk to it rather than to the packages underneath.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pontaj/internal/attendance"
	"github.com/pontaj/internal/calendar"
	"github.com/pontaj/internal/checksum"
	"github.com/pontaj/internal/config"
	"github.com/pontaj/internal/history"
	"github.com/pontaj/internal/parser"
	"github.com/pontaj/internal/storage"
)

// ErrEmptyReport is returned by Import when no employee block was recognized
var ErrEmptyReport = errors.New("no employee blocks recognized")

// ImportLog looks up earlier uploads by content fingerprint
type ImportLog interface {
	FindImportByChecksum(ctx context.Context, checksum string) (*storage.ImportRecord, error)
}

type Analyzer struct {
	opts    parser.Options
	store   *history.Store
	imports ImportLog
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

// New builds an analyzer. store and imports may be nil for commands that
// only parse.
func New(opts parser.Options, store *history.Store, imports ImportLog) *Analyzer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		opts:    opts,
		store:   store,
		imports: imports,
		logger:  logger,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// Options builds parser options from the configuration. The holiday file, if
// set, is merged on top of the built-in calendar.
func Options(cfg *config.Config, logger *zap.Logger) (parser.Options, error) {
	overnight, err := parser.ParseOvernightPolicy(cfg.OvernightShifts)
	if err != nil {
		return parser.Options{}, err
	}
	holiday, err := parser.ParseHolidayPolicy(cfg.HolidayStandardHours)
	if err != nil {
		return parser.Options{}, err
	}

	cal := calendar.Romania()
	if cfg.HolidaysFile != "" {
		tables, err := calendar.LoadHolidayFile(cfg.HolidaysFile)
		if err != nil {
			return parser.Options{}, err
		}
		if err := cal.Add(tables...); err != nil {
			return parser.Options{}, fmt.Errorf("failed to load holidays: %w", err)
		}
	}

	return parser.Options{
		Calendar:     cal,
		Overnight:    overnight,
		HolidayHours: holiday,
		Logger:       logger,
	}, nil
}

// Calendar returns the calendar the analyzer parses with
func (a *Analyzer) Calendar() *calendar.Calendar {
	if a.opts.Calendar == nil {
		return calendar.Romania()
	}
	return a.opts.Calendar
}

// Process parses report text into daily records and their weekly and monthly
// summaries. Unrecognized input gives an empty result, never an error.
func (a *Analyzer) Process(text string) *attendance.Result {
	x := parser.Parse(text, a.opts)
	return attendance.Summarize(x.Header, x.Daily, x.Warnings)
}

// ProcessFile reads a report file and processes it. A non-empty employee
// restricts the daily records, and so the summaries, to that employee.
func (a *Analyzer) ProcessFile(path, sheet, employee string) (*attendance.Result, error) {
	text, err := parser.ReadFile(path, sheet)
	if err != nil {
		return nil, err
	}

	result := a.Process(text)
	if employee != "" {
		result = attendance.Summarize(result.Header, attendance.FilterEmployee(result.Daily, employee), result.Warnings)
	}

	a.logger.Info("report processed",
		zap.String("file", filepath.Base(path)),
		zap.String("range", result.Header.DateRangeText),
		zap.Int("records", len(result.Daily)),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

// ImportResult describes one import. Skipped is set when the same content
// was imported before; Previous then holds that import.
type ImportResult struct {
	Import   storage.ImportRecord
	Result   *attendance.Result
	Merge    history.MergeResult
	Skipped  bool
	Previous *storage.ImportRecord
}

// Fingerprint identifies the imported content: the file digest, qualified by
// the sheet name when one was chosen.
func Fingerprint(path, sheet string) (string, error) {
	sum, err := checksum.File(path)
	if err != nil {
		return "", err
	}
	if sheet == "" {
		return sum, nil
	}
	return checksum.Bytes([]byte(sum + ":" + sheet)), nil
}

// Import processes a report and merges its records into the history. A file
// whose content was already imported is skipped unless force is set.
func (a *Analyzer) Import(ctx context.Context, path, sheet string, force bool) (*ImportResult, error) {
	if a.store == nil {
		return nil, errors.New("history store is not configured")
	}

	fingerprint, err := Fingerprint(path, sheet)
	if err != nil {
		return nil, err
	}

	if !force && a.imports != nil {
		previous, err := a.imports.FindImportByChecksum(ctx, fingerprint)
		if err != nil {
			return nil, fmt.Errorf("failed to check import log: %w", err)
		}
		if previous != nil {
			a.logger.Info("report already imported", zap.String("import", previous.ID))
			return &ImportResult{Import: *previous, Skipped: true, Previous: previous}, nil
		}
	}

	result, err := a.ProcessFile(path, sheet, "")
	if err != nil {
		return nil, err
	}
	if result.Empty() {
		return &ImportResult{Result: result}, ErrEmptyReport
	}

	imp := storage.ImportRecord{
		ID:          a.newID(),
		FileName:    filepath.Base(path),
		Checksum:    fingerprint,
		DateRange:   result.Header.DateRangeText,
		RecordCount: len(result.Daily),
		ImportedAt:  a.now().UTC(),
	}

	merge := a.store.Merge(ctx, imp, result.Daily)
	a.logger.Info("report imported",
		zap.String("import", imp.ID),
		zap.Int("added", merge.Added),
		zap.Int("replaced", merge.Replaced),
		zap.Int("history", merge.Table.Len()),
	)

	return &ImportResult{Import: imp, Result: result, Merge: merge}, nil
}

// HistoryFilter narrows the stored records. Zero values match everything.
// Records without a resolved date only match when no date bound is set.
type HistoryFilter struct {
	Employee string
	From     *time.Time
	To       *time.Time
}

// History returns the stored records that match the filter, in history
// order. A load failure is returned along with the cached table's records.
func (a *Analyzer) History(ctx context.Context, filter HistoryFilter) ([]attendance.DailyRecord, error) {
	if a.store == nil {
		return nil, errors.New("history store is not configured")
	}

	table, loadErr := a.store.Load(ctx)
	if loadErr != nil {
		a.logger.Warn("history load failed, using cached table", zap.Error(loadErr))
	}

	var out []attendance.DailyRecord
	for _, r := range table.Records() {
		if filter.Employee != "" && r.Employee != filter.Employee {
			continue
		}
		if filter.From != nil || filter.To != nil {
			if r.Date == nil {
				continue
			}
			if filter.From != nil && r.Date.Before(*filter.From) {
				continue
			}
			if filter.To != nil && r.Date.After(*filter.To) {
				continue
			}
		}
		out = append(out, r)
	}
	return out, loadErr
}
