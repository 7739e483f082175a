package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "INFO", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "warning", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "info", FormatJSON)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("parsed document", slog.String("profile", "general"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "parsed document", record["msg"])
	assert.Equal(t, "general", record["profile"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "debug", "")
	require.NoError(t, err)

	logger.Debug("segmenting", slog.Int("lines", 12))
	assert.Contains(t, buf.String(), "msg=segmenting")
	assert.Contains(t, buf.String(), "lines=12")
}

func TestNewLogger_Invalid(t *testing.T) {
	_, err := NewLogger(&bytes.Buffer{}, "loud", FormatText)
	assert.Error(t, err)

	_, err = NewLogger(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}

func TestMetrics_ObserveParse(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.ObserveParse("general", 80, 2*time.Millisecond, nil)
	m.ObserveParse("general", 60, 3*time.Millisecond, nil)
	m.ObserveParse("general", 0, time.Millisecond, errors.New("unreadable"))
	m.ObserveParse("compact", 90, time.Millisecond, nil)
	m.ObserveUnreadable()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Parses.WithLabelValues("general", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Parses.WithLabelValues("general", StatusFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Parses.WithLabelValues("compact", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Unreadable))
	assert.Equal(t, 2, testutil.CollectAndCount(m.Coverage))
}

func TestMetrics_RunFinished(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	at := time.Unix(1700000000, 0)
	m.ObserveRunFinished(at)

	assert.Equal(t, 1700000000.0, testutil.ToFloat64(m.LastRunTime))
}

func TestMetrics_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveParse("general", 50, time.Millisecond, nil)
		m.ObserveUnreadable()
		m.ObserveRunFinished(time.Now())
	})
}
