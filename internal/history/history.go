// Package history keeps the attendance records of every upload, one record
// per employee and date label, the latest upload winning.
package history

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/pontaj/internal/attendance"
	"github.com/pontaj/internal/storage"
)

// Table is an ordered set of records keyed by (employee, date label). It is
// never modified in place; Upsert returns a new table.
type Table struct {
	records []attendance.DailyRecord
	index   map[attendance.Key]int
}

// NewTable builds a table. Later records win over earlier ones with the same key.
func NewTable(records ...attendance.DailyRecord) *Table {
	return Upsert(nil, records)
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Records returns a copy of the rows in table order
func (t *Table) Records() []attendance.DailyRecord {
	if t == nil {
		return nil
	}
	out := make([]attendance.DailyRecord, len(t.records))
	copy(out, t.records)
	return out
}

func (t *Table) Get(key attendance.Key) (attendance.DailyRecord, bool) {
	if t == nil {
		return attendance.DailyRecord{}, false
	}
	i, ok := t.index[key]
	if !ok {
		return attendance.DailyRecord{}, false
	}
	return t.records[i], true
}

// Upsert returns table with records merged in: a record whose key is already
// present replaces that row in place, any other record is appended. table
// itself is left untouched.
func Upsert(table *Table, records []attendance.DailyRecord) *Table {
	merged := &Table{
		records: table.Records(),
		index:   make(map[attendance.Key]int, table.Len()+len(records)),
	}
	for i, r := range merged.records {
		merged.index[r.Key()] = i
	}
	for _, r := range records {
		if i, ok := merged.index[r.Key()]; ok {
			merged.records[i] = r
			continue
		}
		merged.index[r.Key()] = len(merged.records)
		merged.records = append(merged.records, r)
	}
	return merged
}

// Backend is the durable side of the store
type Backend interface {
	LoadRecords(ctx context.Context) ([]attendance.DailyRecord, error)
	UpsertRecords(ctx context.Context, importID string, records []attendance.DailyRecord) error
	RecordImport(ctx context.Context, imp storage.ImportRecord) error
}

// Store serializes every merge behind one lock, so there is a single writer
// at a time. The last table it produced is kept in memory and stands in for
// the backend when loading fails.
type Store struct {
	mu      sync.Mutex
	backend Backend
	cached  *Table
	logger  *zap.Logger
}

func NewStore(backend Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{backend: backend, logger: logger}
}

// Load reads the table from the backend. On failure the in-memory table is
// returned together with the error.
func (s *Store) Load(ctx context.Context) (*Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) (*Table, error) {
	records, err := s.backend.LoadRecords(ctx)
	if err != nil {
		if s.cached == nil {
			s.cached = NewTable()
		}
		return s.cached, err
	}
	s.cached = NewTable(records...)
	return s.cached, nil
}

// MergeResult is the outcome of one merge. Table is always set; PersistErr
// reports a failed durable write that did not stop the merge.
type MergeResult struct {
	Table      *Table
	Added      int
	Replaced   int
	LoadErr    error
	PersistErr error
}

// Merge upserts an upload into the history and writes it through to the
// backend along with its import log entry.
func (s *Store) Merge(ctx context.Context, imp storage.ImportRecord, records []attendance.DailyRecord) MergeResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result MergeResult
	current, err := s.load(ctx)
	if err != nil {
		result.LoadErr = err
		s.logger.Warn("history load failed, merging into in-memory table", zap.Error(err))
	}

	for _, r := range records {
		if _, ok := current.Get(r.Key()); ok {
			result.Replaced++
		} else {
			result.Added++
		}
	}

	result.Table = Upsert(current, records)
	s.cached = result.Table

	if err := s.persist(ctx, imp, records); err != nil {
		result.PersistErr = err
		s.logger.Warn("history persist failed", zap.String("import", imp.ID), zap.Error(err))
		return result
	}

	s.logger.Debug("history merged",
		zap.String("import", imp.ID),
		zap.Int("added", result.Added),
		zap.Int("replaced", result.Replaced),
	)
	return result
}

// Persist writes records and their import log entry to the backend without
// touching the in-memory table.
func (s *Store) Persist(ctx context.Context, imp storage.ImportRecord, records []attendance.DailyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx, imp, records)
}

func (s *Store) persist(ctx context.Context, imp storage.ImportRecord, records []attendance.DailyRecord) error {
	if err := s.backend.UpsertRecords(ctx, imp.ID, records); err != nil {
		return fmt.Errorf("failed to persist records: %w", err)
	}
	if err := s.backend.RecordImport(ctx, imp); err != nil {
		return fmt.Errorf("failed to record import: %w", err)
	}
	return nil
}
