// Package pipeline runs extraction profiles over batches of resume documents.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-extract/internal/coverage"
	"github.com/jonathan/resume-extract/internal/db"
	"github.com/jonathan/resume-extract/internal/ingestion"
	"github.com/jonathan/resume-extract/internal/observability"
	"github.com/jonathan/resume-extract/internal/profiles"
	"github.com/jonathan/resume-extract/internal/report"
	"github.com/jonathan/resume-extract/internal/schemas"
	"github.com/jonathan/resume-extract/internal/source"
	"github.com/jonathan/resume-extract/internal/textract"
	"github.com/jonathan/resume-extract/internal/types"
)

// DefaultWorkers is the number of documents processed concurrently when Options.Workers is unset
const DefaultWorkers = 4

// ProgressEvent reports one finished document and profile pair
type ProgressEvent struct {
	RunID   string   `json:"run_id"`
	Done    int      `json:"done"`
	Total   int      `json:"total"`
	Outcome *Outcome `json:"-"`
}

// ProgressCallback is called after every pair. It is called from worker goroutines
// and must be safe for concurrent use.
type ProgressCallback func(event ProgressEvent)

// Store persists runs and results; *db.DB implements it
type Store interface {
	CreateRun(ctx context.Context, run *db.Run) error
	SaveResult(ctx context.Context, result *db.Result) error
	CompleteRun(ctx context.Context, runID uuid.UUID, status string, documents, succeeded, failed int) error
}

// Options holds configuration for a batch run
type Options struct {
	Source     source.Source
	SourceName string               // Recorded with the run, e.g. the directory or bucket
	Extractors []profiles.Extractor // Empty means every registered profile
	Workers    int
	WholeWord  bool

	Store      Store // Optional
	Metrics    *observability.Metrics
	Logger     *slog.Logger
	OnProgress ProgressCallback
}

// Outcome is the result of one document parsed with one profile
type Outcome struct {
	Document  string                `json:"document"`
	Profile   string                `json:"profile"`
	Record    *types.ResumeRecord   `json:"record,omitempty"`
	Defaulted []string              `json:"defaulted,omitempty"`
	Coverage  *types.CoverageReport `json:"coverage,omitempty"`
	Duration  time.Duration         `json:"duration_ns"`
	Err       error                 `json:"-"`
}

// Entry converts the outcome for statistics
func (o *Outcome) Entry() report.Entry {
	e := report.Entry{Document: o.Document, Profile: o.Profile, Record: o.Record, Failed: o.Err != nil}
	if o.Coverage != nil {
		e.Coverage = o.Coverage.CoveragePercentage
	}
	return e
}

// Summary is the result of a batch run
type Summary struct {
	RunID      uuid.UUID `json:"run_id"`
	Documents  int       `json:"documents"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Outcomes   []Outcome `json:"-"`
}

// Entries converts every finished outcome for statistics
func (s *Summary) Entries() []report.Entry {
	entries := make([]report.Entry, 0, len(s.Outcomes))
	for i := range s.Outcomes {
		if s.Outcomes[i].Profile == "" {
			continue
		}
		entries = append(entries, s.Outcomes[i].Entry())
	}
	return entries
}

// Parse runs one extractor over cleaned text, normalizes the record and verifies its coverage
func Parse(text string, extractor profiles.Extractor, wholeWord bool) Outcome {
	start := time.Now()
	outcome := Outcome{Profile: extractor.Info().ID}

	result := extractor.ExtractResult(text)
	record, err := schemas.NormalizeRecord(result.Record)
	if err != nil {
		outcome.Err = err
		outcome.Duration = time.Since(start)
		return outcome
	}

	var opts []coverage.Option
	if wholeWord {
		opts = append(opts, coverage.WithWholeWordMatching())
	}
	cov := coverage.Verify(text, record, opts...)

	outcome.Record = record
	outcome.Defaulted = result.Defaulted
	outcome.Coverage = &cov
	outcome.Duration = time.Since(start)
	return outcome
}

// Run parses every document of the source with every selected profile. A document that cannot
// be read or parsed is recorded as failed outcomes and the batch continues; only cancellation
// and store failures stop the run early.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("pipeline: source is required")
	}
	extractors := opts.Extractors
	if len(extractors) == 0 {
		var err error
		if extractors, err = profiles.Resolve(nil); err != nil {
			return nil, err
		}
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	logger := opts.Logger
	if logger == nil {
		logger = observability.Discard()
	}

	names, err := opts.Source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	summary := &Summary{
		RunID:     uuid.New(),
		Documents: len(names),
		StartedAt: time.Now().UTC(),
		Outcomes:  make([]Outcome, len(names)*len(extractors)),
	}
	logger = logger.With(slog.String("run_id", summary.RunID.String()))

	if opts.Store != nil {
		ids := make([]string, len(extractors))
		for i, e := range extractors {
			ids[i] = e.Info().ID
		}
		run := &db.Run{ID: summary.RunID, Source: opts.SourceName, Profiles: ids, StartedAt: summary.StartedAt}
		if err := opts.Store.CreateRun(ctx, run); err != nil {
			return nil, err
		}
	}

	logger.Info("batch started",
		slog.Int("documents", len(names)),
		slog.Int("profiles", len(extractors)),
		slog.Int("workers", workers))

	var done atomic.Int64
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, name := range names {
		outcomes := summary.Outcomes[i*len(extractors) : (i+1)*len(extractors)]
		g.Go(func() error {
			text, readErr := readDocument(gCtx, opts.Source, name)
			if readErr != nil {
				if gCtx.Err() != nil {
					return gCtx.Err()
				}
				var unreadable *textract.UnreadableError
				if errors.As(readErr, &unreadable) {
					opts.Metrics.ObserveUnreadable()
				}
				logger.Warn("document skipped", slog.String("document", name), slog.Any("error", readErr))
			}

			for j, extractor := range extractors {
				if err := gCtx.Err(); err != nil {
					return err
				}

				var outcome Outcome
				if readErr != nil {
					outcome = Outcome{Profile: extractor.Info().ID, Err: readErr}
				} else {
					outcome = Parse(text, extractor, opts.WholeWord)
				}
				outcome.Document = name
				outcomes[j] = outcome

				outcome.Observe(opts.Metrics)
				if outcome.Err != nil && readErr == nil {
					logger.Warn("parse failed",
						slog.String("document", name),
						slog.String("profile", outcome.Profile),
						slog.Any("error", outcome.Err))
				} else if outcome.Err == nil {
					logger.Debug("parsed document",
						slog.String("document", name),
						slog.String("profile", outcome.Profile),
						slog.Float64("coverage", outcome.Coverage.CoveragePercentage),
						slog.Duration("elapsed", outcome.Duration))
				}

				if opts.Store != nil {
					if err := opts.Store.SaveResult(gCtx, outcome.StoredResult(summary.RunID)); err != nil {
						return err
					}
				}
				if opts.OnProgress != nil {
					opts.OnProgress(ProgressEvent{
						RunID:   summary.RunID.String(),
						Done:    int(done.Add(1)),
						Total:   len(summary.Outcomes),
						Outcome: &outcomes[j],
					})
				}
			}
			return nil
		})
	}

	runErr := g.Wait()

	summary.FinishedAt = time.Now().UTC()
	for i := range summary.Outcomes {
		switch {
		case summary.Outcomes[i].Profile == "":
			// never reached before cancellation
		case summary.Outcomes[i].Err != nil:
			summary.Failed++
		default:
			summary.Succeeded++
		}
	}
	opts.Metrics.ObserveRunFinished(summary.FinishedAt)

	if opts.Store != nil {
		status := db.RunStatusCompleted
		if runErr != nil {
			status = db.RunStatusCanceled
		}
		if err := opts.Store.CompleteRun(context.WithoutCancel(ctx), summary.RunID, status,
			summary.Documents, summary.Succeeded, summary.Failed); err != nil && runErr == nil {
			runErr = err
		}
	}

	if runErr != nil {
		logger.Error("batch stopped", slog.Any("error", runErr))
		return summary, runErr
	}

	logger.Info("batch finished",
		slog.Int("documents", summary.Documents),
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", summary.Failed),
		slog.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)))
	return summary, nil
}

// readDocument fetches one document and returns its cleaned text
func readDocument(ctx context.Context, src source.Source, name string) (string, error) {
	doc, err := src.Read(ctx, name)
	if err != nil {
		return "", err
	}
	text, _, err := ingestion.IngestBytes(ctx, doc.Data, doc.Name, doc.Location)
	if err != nil {
		return "", err
	}
	return text, nil
}

// Observe records the outcome in m
func (o *Outcome) Observe(m *observability.Metrics) {
	var pct float64
	if o.Coverage != nil {
		pct = o.Coverage.CoveragePercentage
	}
	m.ObserveParse(o.Profile, pct, o.Duration, o.Err)
}

// StoredResult converts the outcome into its persisted form
func (o *Outcome) StoredResult(runID uuid.UUID) *db.Result {
	r := &db.Result{
		RunID:     runID,
		Document:  o.Document,
		Profile:   o.Profile,
		Defaulted: o.Defaulted,
	}
	if o.Err != nil {
		r.Error = o.Err.Error()
		return r
	}
	if o.Coverage != nil {
		r.Coverage = o.Coverage.CoveragePercentage
	}
	if o.Record != nil {
		if data, err := json.Marshal(o.Record); err == nil {
			r.Record = data
		}
	}
	return r
}
