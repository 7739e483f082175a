package db

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		url        string
		wantDriver string
		wantDSN    string
	}{
		{"postgres://user@localhost/resumes", DriverPostgres, "postgres://user@localhost/resumes"},
		{"postgresql://localhost/resumes", DriverPostgres, "postgresql://localhost/resumes"},
		{"sqlite:///tmp/results.db", DriverSQLite, "/tmp/results.db"},
		{"results.db", DriverSQLite, "results.db"},
		{"  results.db  ", DriverSQLite, "results.db"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			driver, dsn := ParseURL(tt.url)
			assert.Equal(t, tt.wantDriver, driver)
			assert.Equal(t, tt.wantDSN, dsn)
		})
	}
}

func TestRebind(t *testing.T) {
	query := "SELECT * FROM t WHERE a = ? AND b = ?"

	pg := New(nil, DriverPostgres)
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.rebind(query))

	lite := New(nil, DriverSQLite)
	assert.Equal(t, query, lite.rebind(query))
}

func TestConnect_EmptyURL(t *testing.T) {
	_, err := Connect(context.Background(), " ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database URL is empty")
}

func newMock(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return New(conn, DriverPostgres), mock
}

func TestCreateRun_Mock(t *testing.T) {
	db, mock := newMock(t)
	run := &Run{Source: "resumes/", Profiles: []string{"general", "technical"}}

	mock.ExpectExec(`INSERT INTO extraction_runs .* VALUES \(\$1, \$2, \$3, \$4, \$5\)`).
		WithArgs(sqlmock.AnyArg(), "resumes/", "general,technical", RunStatusRunning, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, db.CreateRun(context.Background(), run))
	assert.NotEqual(t, uuid.Nil, run.ID)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.False(t, run.StartedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteRun_NotFound(t *testing.T) {
	db, mock := newMock(t)
	runID := uuid.New()

	mock.ExpectExec("UPDATE extraction_runs").
		WithArgs(RunStatusCompleted, 3, 2, 1, sqlmock.AnyArg(), runID.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := db.CompleteRun(context.Background(), runID, RunStatusCompleted, 3, 2, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRun_NoRows(t *testing.T) {
	db, mock := newMock(t)
	runID := uuid.New()

	mock.ExpectQuery("SELECT .* FROM extraction_runs WHERE id").
		WithArgs(runID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	run, err := db.GetRun(context.Background(), runID)
	require.NoError(t, err)
	assert.Nil(t, run)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveResult_Error(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec("INSERT INTO extraction_results").
		WillReturnError(errors.New("connection reset"))

	err := db.SaveResult(context.Background(), &Result{RunID: uuid.New(), Document: "jane.pdf", Profile: "general"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jane.pdf/general")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestProfileSummaries_Mock(t *testing.T) {
	db, mock := newMock(t)

	rows := sqlmock.NewRows([]string{"profile", "attempts", "successes", "mean", "min", "max"}).
		AddRow("compact", 4, 3, 62.5, 40.0, 90.0).
		AddRow("general", 4, 4, 80.0, 70.0, 95.0)
	mock.ExpectQuery("SELECT profile,").WillReturnRows(rows)

	summaries, err := db.ProfileSummaries(context.Background(), uuid.Nil)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, ProfileSummary{
		Profile: "compact", Attempts: 4, Successes: 3, Failures: 1,
		MeanCoverage: 62.5, MinCoverage: 40, MaxCoverage: 90,
	}, summaries[0])
	assert.Equal(t, 0, summaries[1].Failures)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := Connect(ctx, filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Migrate(ctx), "migrating twice is a no-op")

	version, err := db.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	latest, err := db.LatestRun(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	run := &Run{Source: "inbox", Profiles: []string{"general", "compact"}, StartedAt: time.Now().UTC().Add(-time.Minute)}
	require.NoError(t, db.CreateRun(ctx, run))

	record := json.RawMessage(`{"name":"Jane Doe"}`)
	results := []*Result{
		{RunID: run.ID, Document: "jane.txt", Profile: "general", Coverage: 80, Record: record, Defaulted: []string{"linkedin"}},
		{RunID: run.ID, Document: "jane.txt", Profile: "compact", Coverage: 60, Record: record},
		{RunID: run.ID, Document: "broken.pdf", Profile: "general", Error: "unreadable pdf document broken.pdf"},
	}
	for _, r := range results {
		require.NoError(t, db.SaveResult(ctx, r))
	}
	require.NoError(t, db.CompleteRun(ctx, run.ID, RunStatusCompleted, 2, 2, 1))

	got, err := db.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, []string{"general", "compact"}, got.Profiles)
	assert.Equal(t, RunStatusCompleted, got.Status)
	assert.Equal(t, 2, got.Documents)
	assert.Equal(t, 1, got.Failed)
	require.NotNil(t, got.FinishedAt)

	latest, err = db.LatestRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, run.ID, latest.ID)

	listed, err := db.ListResults(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "broken.pdf", listed[0].Document)
	assert.False(t, listed[0].Succeeded())
	assert.Nil(t, listed[0].Record)
	assert.Equal(t, "compact", listed[1].Profile)
	assert.Equal(t, []string{}, listed[1].Defaulted)
	assert.Equal(t, "general", listed[2].Profile)
	assert.JSONEq(t, `{"name":"Jane Doe"}`, string(listed[2].Record))
	assert.Equal(t, []string{"linkedin"}, listed[2].Defaulted)

	summaries, err := db.ProfileSummaries(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, ProfileSummary{Profile: "compact", Attempts: 1, Successes: 1, MeanCoverage: 60, MinCoverage: 60, MaxCoverage: 60}, summaries[0])
	assert.Equal(t, ProfileSummary{Profile: "general", Attempts: 2, Successes: 1, Failures: 1, MeanCoverage: 80, MinCoverage: 80, MaxCoverage: 80}, summaries[1])

	all, err := db.ProfileSummaries(ctx, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, summaries, all)
}
