// Package report aggregates extraction outcomes into per-profile statistics and renders them.
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/jonathan/resume-extract/internal/db"
	"github.com/jonathan/resume-extract/internal/types"
)

// Entry is one document parsed with one profile
type Entry struct {
	Document string
	Profile  string
	Record   *types.ResumeRecord
	Coverage float64
	Failed   bool
}

// ProfileStats summarizes one profile's entries
type ProfileStats struct {
	Rank         int                `json:"rank"`
	Profile      string             `json:"profile"`
	Attempts     int                `json:"attempts"`
	Successes    int                `json:"successes"`
	Failures     int                `json:"failures"`
	MeanCoverage float64            `json:"mean_coverage"`
	MinCoverage  float64            `json:"min_coverage"`
	MaxCoverage  float64            `json:"max_coverage"`
	FillRates    map[string]float64 `json:"fill_rates,omitempty"` // Fraction of successful records with the field filled
}

// Report is the ranked statistics of a set of entries
type Report struct {
	Documents int            `json:"documents"`
	Best      string         `json:"best_profile,omitempty"`
	Profiles  []ProfileStats `json:"profiles"`
}

// recordFields lists the record fields fill rates are computed for, in record order
var recordFields = []struct {
	name   string
	filled func(*types.ResumeRecord) bool
}{
	{"name", func(r *types.ResumeRecord) bool { return r.Name != "" }},
	{"title", func(r *types.ResumeRecord) bool { return r.Title != "" }},
	{"email", func(r *types.ResumeRecord) bool { return r.Email != "" }},
	{"phone", func(r *types.ResumeRecord) bool { return r.Phone != "" }},
	{"linkedin", func(r *types.ResumeRecord) bool { return r.LinkedIn != "" }},
	{"github", func(r *types.ResumeRecord) bool { return r.GitHub != "" }},
	{"address", func(r *types.ResumeRecord) bool { return r.Address != "" }},
	{"location", func(r *types.ResumeRecord) bool { return r.Location != "" }},
	{"summary", func(r *types.ResumeRecord) bool { return r.Summary != "" }},
	{"experience", func(r *types.ResumeRecord) bool { return len(r.Experience) > 0 }},
	{"education", func(r *types.ResumeRecord) bool { return len(r.Education) > 0 }},
	{"skills", func(r *types.ResumeRecord) bool { return len(r.Skills) > 0 }},
	{"languages", func(r *types.ResumeRecord) bool { return len(r.Languages) > 0 }},
	{"certifications", func(r *types.ResumeRecord) bool { return len(r.Certifications) > 0 }},
	{"projects", func(r *types.ResumeRecord) bool { return len(r.Projects) > 0 }},
	{"honors", func(r *types.ResumeRecord) bool { return len(r.Honors) > 0 }},
	{"references", func(r *types.ResumeRecord) bool { return len(r.References) > 0 }},
}

// FieldNames returns the record fields fill rates are reported for
func FieldNames() []string {
	names := make([]string, len(recordFields))
	for i, f := range recordFields {
		names[i] = f.name
	}
	return names
}

// Aggregate computes per-profile statistics and ranks profiles by mean coverage.
// Coverage figures only count successful entries.
func Aggregate(entries []Entry) *Report {
	type acc struct {
		stats  ProfileStats
		sum    float64
		filled map[string]int
	}

	byProfile := make(map[string]*acc)
	documents := make(map[string]struct{})
	for _, e := range entries {
		documents[e.Document] = struct{}{}

		a, ok := byProfile[e.Profile]
		if !ok {
			a = &acc{
				stats:  ProfileStats{Profile: e.Profile, MinCoverage: math.Inf(1)},
				filled: make(map[string]int),
			}
			byProfile[e.Profile] = a
		}

		a.stats.Attempts++
		if e.Failed {
			a.stats.Failures++
			continue
		}
		a.stats.Successes++
		a.sum += e.Coverage
		a.stats.MinCoverage = math.Min(a.stats.MinCoverage, e.Coverage)
		a.stats.MaxCoverage = math.Max(a.stats.MaxCoverage, e.Coverage)
		if e.Record != nil {
			for _, f := range recordFields {
				if f.filled(e.Record) {
					a.filled[f.name]++
				}
			}
		}
	}

	stats := make([]ProfileStats, 0, len(byProfile))
	for _, a := range byProfile {
		s := a.stats
		if s.Successes == 0 {
			s.MinCoverage = 0
		} else {
			s.MeanCoverage = a.sum / float64(s.Successes)
			s.FillRates = make(map[string]float64, len(recordFields))
			for _, f := range recordFields {
				s.FillRates[f.name] = float64(a.filled[f.name]) / float64(s.Successes)
			}
		}
		stats = append(stats, s)
	}

	return rank(len(documents), stats)
}

// FromSummaries builds a report from stored per-profile summaries. Fill rates are not available.
func FromSummaries(summaries []db.ProfileSummary) *Report {
	stats := make([]ProfileStats, 0, len(summaries))
	for _, s := range summaries {
		stats = append(stats, ProfileStats{
			Profile:      s.Profile,
			Attempts:     s.Attempts,
			Successes:    s.Successes,
			Failures:     s.Failures,
			MeanCoverage: s.MeanCoverage,
			MinCoverage:  s.MinCoverage,
			MaxCoverage:  s.MaxCoverage,
		})
	}
	return rank(0, stats)
}

// FromResults converts stored results into entries, decoding their records
func FromResults(results []db.Result) ([]Entry, error) {
	entries := make([]Entry, 0, len(results))
	for _, r := range results {
		e := Entry{Document: r.Document, Profile: r.Profile, Coverage: r.Coverage, Failed: !r.Succeeded()}
		if len(r.Record) > 0 {
			var record types.ResumeRecord
			if err := json.Unmarshal(r.Record, &record); err != nil {
				return nil, fmt.Errorf("failed to decode record of %s/%s: %w", r.Document, r.Profile, err)
			}
			e.Record = &record
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// rank orders profiles by mean coverage, then successes, then ID
func rank(documents int, stats []ProfileStats) *Report {
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].MeanCoverage != stats[j].MeanCoverage {
			return stats[i].MeanCoverage > stats[j].MeanCoverage
		}
		if stats[i].Successes != stats[j].Successes {
			return stats[i].Successes > stats[j].Successes
		}
		return stats[i].Profile < stats[j].Profile
	})

	r := &Report{Documents: documents, Profiles: stats}
	for i := range stats {
		stats[i].Rank = i + 1
		if r.Best == "" && stats[i].Successes > 0 {
			r.Best = stats[i].Profile
		}
	}
	return r
}
