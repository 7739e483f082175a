package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-extract/internal/db"
	"github.com/jonathan/resume-extract/internal/observability"
	"github.com/jonathan/resume-extract/internal/profiles"
	"github.com/jonathan/resume-extract/internal/source"
	"github.com/jonathan/resume-extract/internal/textract"
)

const janeDoe = "Jane Doe\nEngineer\njane@x.com | 555-123-4567\n\nEXPERIENCE\nSenior Engineer at Acme\nJan 2020 - Present\nBuilt things\n\nSKILLS\nGo, Rust, C++"

// fakeStore records what the runner persists
type fakeStore struct {
	mu        sync.Mutex
	runs      []*db.Run
	results   []*db.Result
	completed []string
	saveErr   error
}

func (s *fakeStore) CreateRun(_ context.Context, run *db.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

func (s *fakeStore) SaveResult(_ context.Context, result *db.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.results = append(s.results, result)
	return nil
}

func (s *fakeStore) CompleteRun(_ context.Context, _ uuid.UUID, status string, _, _, _ int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = append(s.completed, status)
	return nil
}

func newBatchDir(t *testing.T) source.Source {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"jane.txt":   janeDoe,
		"empty.txt":  "",
		"broken.pdf": "this is not a pdf",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	src, err := source.NewDir(dir, 0)
	require.NoError(t, err)
	return src
}

func resolve(t *testing.T, ids ...string) []profiles.Extractor {
	t.Helper()
	extractors, err := profiles.Resolve(ids)
	require.NoError(t, err)
	return extractors
}

func TestParse(t *testing.T) {
	general, err := profiles.Get("general")
	require.NoError(t, err)

	outcome := Parse(janeDoe, general, false)
	require.NoError(t, outcome.Err)
	require.NotNil(t, outcome.Record)
	assert.Equal(t, "general", outcome.Profile)
	assert.Equal(t, "Jane Doe", outcome.Record.Name)
	require.NotNil(t, outcome.Coverage)
	assert.Greater(t, outcome.Coverage.CoveragePercentage, 0.0)
	assert.Contains(t, outcome.Defaulted, "linkedin")
}

func TestParse_EmptyText(t *testing.T) {
	compact, err := profiles.Get("compact")
	require.NoError(t, err)

	outcome := Parse("", compact, true)
	require.NoError(t, outcome.Err)
	assert.Equal(t, 100.0, outcome.Coverage.CoveragePercentage)
	assert.Empty(t, outcome.Coverage.MissingContent)
	assert.NotNil(t, outcome.Record.Experience)
	assert.Empty(t, outcome.Record.Experience)
}

func TestRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	store := &fakeStore{}

	var mu sync.Mutex
	var events []ProgressEvent
	summary, err := Run(context.Background(), Options{
		Source:     newBatchDir(t),
		SourceName: "inbox",
		Extractors: resolve(t, "general", "compact"),
		Workers:    2,
		Store:      store,
		Metrics:    metrics,
		OnProgress: func(e ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, e)
		},
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, summary.RunID)
	assert.Equal(t, 3, summary.Documents)
	assert.Equal(t, 4, summary.Succeeded)
	assert.Equal(t, 2, summary.Failed)
	require.Len(t, summary.Outcomes, 6)

	// Outcomes follow document order, then profile order
	assert.Equal(t, "broken.pdf", summary.Outcomes[0].Document)
	assert.Equal(t, "general", summary.Outcomes[0].Profile)
	var unreadable *textract.UnreadableError
	assert.True(t, errors.As(summary.Outcomes[0].Err, &unreadable))
	assert.Equal(t, "compact", summary.Outcomes[1].Profile)
	assert.Equal(t, "empty.txt", summary.Outcomes[2].Document)
	assert.Equal(t, 100.0, summary.Outcomes[2].Coverage.CoveragePercentage)
	assert.Equal(t, "jane.txt", summary.Outcomes[4].Document)
	assert.Equal(t, "Jane Doe", summary.Outcomes[4].Record.Name)

	require.Len(t, store.runs, 1)
	assert.Equal(t, summary.RunID, store.runs[0].ID)
	assert.Equal(t, []string{"general", "compact"}, store.runs[0].Profiles)
	assert.Equal(t, "inbox", store.runs[0].Source)
	assert.Len(t, store.results, 6)
	assert.Equal(t, []string{db.RunStatusCompleted}, store.completed)

	require.Len(t, events, 6)
	maxDone := 0
	for _, e := range events {
		assert.Equal(t, 6, e.Total)
		maxDone = max(maxDone, e.Done)
	}
	assert.Equal(t, 6, maxDone)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Unreadable))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Parses.WithLabelValues("general", observability.StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Parses.WithLabelValues("compact", observability.StatusFailure)))
	assert.Greater(t, testutil.ToFloat64(metrics.LastRunTime), 0.0)

	entries := summary.Entries()
	require.Len(t, entries, 6)
	assert.True(t, entries[0].Failed)
	assert.Equal(t, 100.0, entries[2].Coverage)
}

func TestRun_AllProfilesByDefault(t *testing.T) {
	summary, err := Run(context.Background(), Options{Source: newBatchDir(t)})
	require.NoError(t, err)
	assert.Len(t, summary.Outcomes, 3*len(profiles.IDs()))
}

func TestRun_StoreFailureStopsBatch(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("disk full")}

	summary, err := Run(context.Background(), Options{
		Source:     newBatchDir(t),
		Extractors: resolve(t, "general"),
		Workers:    1,
		Store:      store,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.NotNil(t, summary)
	assert.Equal(t, []string{db.RunStatusCanceled}, store.completed)
}

func TestRun_Errors(t *testing.T) {
	_, err := Run(context.Background(), Options{})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, Options{Source: newBatchDir(t)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_SQLiteStore(t *testing.T) {
	ctx := context.Background()
	store, err := db.Connect(ctx, filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))

	summary, err := Run(ctx, Options{
		Source:     newBatchDir(t),
		Extractors: resolve(t, "technical"),
		Store:      store,
	})
	require.NoError(t, err)

	results, err := store.ListResults(ctx, summary.RunID)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.False(t, results[0].Succeeded())
	assert.Contains(t, string(results[2].Record), `"name":"Jane Doe"`)

	run, err := store.GetRun(ctx, summary.RunID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, db.RunStatusCompleted, run.Status)
	assert.Equal(t, 2, run.Succeeded)
	assert.Equal(t, 1, run.Failed)
}

func TestOutcome_StoredResult(t *testing.T) {
	general, err := profiles.Get("general")
	require.NoError(t, err)
	runID := uuid.New()

	ok := Parse(janeDoe, general, false)
	ok.Document = "jane.txt"
	stored := ok.StoredResult(runID)
	assert.Equal(t, runID, stored.RunID)
	assert.Equal(t, "jane.txt", stored.Document)
	assert.Equal(t, "general", stored.Profile)
	assert.Equal(t, ok.Coverage.CoveragePercentage, stored.Coverage)
	assert.Contains(t, string(stored.Record), `"email":"jane@x.com"`)
	assert.True(t, stored.Succeeded())

	failed := Outcome{Document: "broken.pdf", Profile: "general", Err: errors.New("unreadable")}
	stored = failed.StoredResult(runID)
	assert.Equal(t, "unreadable", stored.Error)
	assert.Nil(t, stored.Record)
	assert.False(t, stored.Succeeded())
}
