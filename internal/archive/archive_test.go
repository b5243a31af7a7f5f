package archive

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontaj/internal/attendance"
	"github.com/pontaj/internal/calendar"
	"github.com/pontaj/internal/storage"
	"github.com/pontaj/internal/timeofday"
)

func setup(t *testing.T) (*storage.Database, *Archiver) {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.New(filepath.Join(dir, "pontaj.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	a := New(db, calendar.Romania(), filepath.Join(dir, "archive"))
	a.now = func() time.Time { return time.Date(2025, time.May, 10, 12, 0, 0, 0, time.UTC) }
	return db, a
}

func day(employee string, year int, month time.Month, d int, worked float64) attendance.DailyRecord {
	date := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
	entry := timeofday.MustParse("08:30")
	exit := timeofday.MustParse("17:00")
	standard := calendar.Romania().StandardHoursForDate(date)
	return attendance.DailyRecord{
		Employee:      employee,
		BadgeID:       "1024AB",
		Department:    "Production",
		Weekday:       date.Format("Mon"),
		DateLabel:     date.Format("2 January"),
		Date:          &date,
		Entry:         &entry,
		Exit:          &exit,
		WorkedHours:   worked,
		StandardHours: standard,
		Difference:    worked - standard,
	}
}

func TestArchiveMonth(t *testing.T) {
	db, a := setup(t)
	ctx := context.Background()

	require.NoError(t, db.UpsertRecords(ctx, "import-1", []attendance.DailyRecord{
		day("Ion Popescu 1024", 2025, time.March, 24, 9),
		day("Ion Popescu 1024", 2025, time.March, 25, 8),
		day("Ana Ionescu 2048", 2025, time.March, 24, 8.5),
	}))

	require.NoError(t, a.ArchiveMonth(ctx, 2025, time.March, false))

	content, err := a.ReadArchive(2025, time.March)
	require.NoError(t, err)

	assert.Contains(t, content, "# March 2025")
	assert.Contains(t, content, "| Employees | 2 |")
	assert.Contains(t, content, "| Working Days | 21 |")
	assert.Contains(t, content, "| Standard Hours | 168.50 |")
	assert.Contains(t, content, "| Ion Popescu 1024 | Production | 17.00 | 17.00 | +0.00 | -151.50 | 2 | 0 |")
	assert.Contains(t, content, "| W13 | 25.50 |")
	assert.Contains(t, content, "| Ion Popescu 1024 | 2025-03-24 | Mon | 08:30 | 17:00 | 9.00 | 8.50 | +0.50 |")
	assert.Contains(t, content, "*Archived: 2025-05-10 12:00*")
	assert.NotContains(t, content, "## Holidays")

	remaining, err := db.LoadRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, 3, "records kept without clean")
}

func TestArchiveMonthNoRecords(t *testing.T) {
	_, a := setup(t)
	err := a.ArchiveMonth(context.Background(), 2025, time.February, false)
	assert.True(t, errors.Is(err, ErrNoRecords), "got %v", err)
}

func TestAutoArchivePastMonths(t *testing.T) {
	db, a := setup(t)
	ctx := context.Background()

	require.NoError(t, db.UpsertRecords(ctx, "import-1", []attendance.DailyRecord{
		day("Ion Popescu 1024", 2025, time.January, 30, 8),
		day("Ion Popescu 1024", 2025, time.March, 24, 9),
		day("Ion Popescu 1024", 2025, time.April, 18, 0),
		day("Ion Popescu 1024", 2025, time.May, 5, 8.5),
	}))

	archived, err := a.AutoArchivePastMonths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01.md", "2025-03.md", "2025-04.md"}, archived)

	list, err := a.ListArchives()
	require.NoError(t, err)
	assert.Equal(t, archived, list)

	april, err := a.ReadArchive(2025, time.April)
	require.NoError(t, err)
	assert.Contains(t, april, "## Holidays")
	assert.Contains(t, april, "- 2025-04-18 Vinerea Mare")

	remaining, err := db.LoadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1, "current month stays in the database")
	assert.Equal(t, "5 May", remaining[0].DateLabel)

	again, err := a.AutoArchivePastMonths(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestAutoArchiveEmptyDatabase(t *testing.T) {
	_, a := setup(t)
	archived, err := a.AutoArchivePastMonths(context.Background())
	require.NoError(t, err)
	assert.Empty(t, archived)
}

func TestReadArchiveNotFound(t *testing.T) {
	_, a := setup(t)
	_, err := a.ReadArchive(2024, time.December)
	assert.True(t, errors.Is(err, ErrArchiveNotFound), "got %v", err)
}

func TestListArchivesMissingDir(t *testing.T) {
	_, a := setup(t)
	list, err := a.ListArchives()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSummary(t *testing.T) {
	db, a := setup(t)
	ctx := context.Background()

	require.NoError(t, db.UpsertRecords(ctx, "import-1", []attendance.DailyRecord{
		day("Ion Popescu 1024", 2025, time.March, 24, 9),
		day("Ion Popescu 1024", 2025, time.April, 1, 8),
	}))
	_, err := a.AutoArchivePastMonths(ctx)
	require.NoError(t, err)

	summary, err := a.Summary(1)
	require.NoError(t, err)
	assert.Contains(t, summary, "April 2025:")
	assert.NotContains(t, summary, "March 2025:")
	assert.Contains(t, summary, "| Working Days |")
	assert.Contains(t, summary, "| Ion Popescu 1024 |")
	assert.False(t, strings.Contains(summary, "| W14"), "weekly breakdown is not part of the summary")

	all, err := a.Summary(12)
	require.NoError(t, err)
	assert.Contains(t, all, "March 2025:")
}
