package ledger

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newMocked(t *testing.T) (*Ledger, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	dialector := sqlite.Dialector{Conn: sqlDB}
	gdb, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)

	return OpenWithDB(gdb), mock
}

func TestQueuedInsertsRecord(t *testing.T) {
	l, mock := newMocked(t)
	mock.ExpectExec("INSERT INTO .jobs.").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := l.Queued(JobRecord{
		ID:         "job-1",
		Title:      "Heat",
		SourcePath: "/videos/Heat-720p.mkv",
		TargetPath: "/videos/Heat-480p.mkv",
		Resolution: "480p",
		Container:  "mkv",
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionRunningStampsStartedAt(t *testing.T) {
	l, mock := newMocked(t)
	mock.ExpectExec("UPDATE .jobs. SET .*started_at").WillReturnResult(sqlmock.NewResult(0, 1))

	err := l.Transition("job-1", "running", "")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionFailedRecordsError(t *testing.T) {
	l, mock := newMocked(t)
	mock.ExpectExec("UPDATE .jobs. SET .*error").WillReturnResult(sqlmock.NewResult(0, 1))

	err := l.Transition("job-1", "failed", "transcoder exited with code 1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentQueriesOrderedByQueuedAtDesc(t *testing.T) {
	l, mock := newMocked(t)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "source_path", "target_path", "resolution", "container", "status", "error", "queued_at"}).
		AddRow("job-2", "Heat", "/a", "/b", "720p", "mkv", "done", "", now).
		AddRow("job-1", "Heat", "/a", "/b", "480p", "mkv", "done", "", now.Add(-time.Minute))
	mock.ExpectQuery("SELECT \\* FROM .jobs. ORDER BY queued_at desc").WillReturnRows(rows)

	got, err := l.Recent(10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "job-2", got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
