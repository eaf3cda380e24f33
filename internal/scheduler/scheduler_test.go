package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/media-scan/internal/logger"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
	"github.com/jonesrussell/north-cloud/media-scan/internal/report"
	"github.com/jonesrussell/north-cloud/media-scan/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type archiveCall struct {
	period  report.Period
	formats []report.Format
	dir     string
}

type fakeArchiver struct {
	mu    sync.Mutex
	calls []archiveCall
	err   error
}

func (f *fakeArchiver) WriteFiles(_ context.Context, p report.Period, formats []report.Format, dir string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, archiveCall{period: p, formats: formats, dir: dir})
	if f.err != nil {
		return nil, f.err
	}
	return []string{dir + "/" + string(p)}, nil
}

func (f *fakeArchiver) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testConfig() scheduler.Config {
	return scheduler.Config{
		Daily:     "0 6 * * *",
		Weekly:    "0 7 * * 1",
		Formats:   []report.Format{report.FormatPDF, report.FormatExcel},
		OutputDir: "out",
	}
}

func TestNew_RejectsInvalidSchedule(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Weekly = "every monday"
	_, err := scheduler.New(&fakeArchiver{}, cfg, logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weekly")
}

func TestNew_RequiresFormats(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Formats = nil
	_, err := scheduler.New(&fakeArchiver{}, cfg, logger.NewNop())
	require.Error(t, err)
}

func TestNextRuns(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Weekly = ""
	s, err := scheduler.New(&fakeArchiver{}, cfg, logger.NewNop())
	require.NoError(t, err)

	next := s.NextRuns()
	require.Len(t, next, 1)
	daily, ok := next[report.Daily]
	require.True(t, ok)
	assert.Equal(t, 6, daily.Hour())
	assert.Equal(t, 0, daily.Minute())
	assert.True(t, daily.After(time.Now()))
}

func TestRun(t *testing.T) {
	t.Parallel()

	arch := &fakeArchiver{}
	s, err := scheduler.New(arch, testConfig(), logger.NewNop())
	require.NoError(t, err)

	paths, err := s.Run(context.Background(), report.Weekly)
	require.NoError(t, err)
	assert.Equal(t, []string{"out/weekly"}, paths)

	require.Len(t, arch.calls, 1)
	assert.Equal(t, report.Weekly, arch.calls[0].period)
	assert.Equal(t, []report.Format{report.FormatPDF, report.FormatExcel}, arch.calls[0].formats)
	assert.Equal(t, "out", arch.calls[0].dir)
}

func TestRun_WrapsError(t *testing.T) {
	t.Parallel()

	boom := errors.New("backend down")
	s, err := scheduler.New(&fakeArchiver{err: boom}, testConfig(), logger.NewNop())
	require.NoError(t, err)

	_, err = s.Run(context.Background(), report.Daily)
	require.ErrorIs(t, err, boom)
}

func TestStart_FiresJobs(t *testing.T) {
	t.Parallel()

	arch := &fakeArchiver{}
	cfg := testConfig()
	cfg.Daily = "@every 1s"
	cfg.Weekly = ""
	s, err := scheduler.New(arch, cfg, logger.NewNop())
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool { return arch.count() > 0 }, 5*time.Second, 50*time.Millisecond)
}

func TestNextRun(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC) // Wednesday

	tests := []struct {
		frequency string
		want      time.Time
	}{
		{models.FrequencyHourly, time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)},
		{models.FrequencyDaily, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)},
		{models.FrequencyWeekly, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.frequency, func(t *testing.T) {
			t.Parallel()
			got, err := scheduler.NextRun(tt.frequency, from)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := scheduler.NextRun("monthly", from)
	require.ErrorIs(t, err, scheduler.ErrUnknownFrequency)
}

func TestFillNextRun(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

	got := scheduler.FillNextRun(models.ScrapingSchedule{Enabled: true, Frequency: models.FrequencyDaily}, from)
	require.NotNil(t, got.NextRun)
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), got.NextRun.Time)

	disabled := scheduler.FillNextRun(models.ScrapingSchedule{Frequency: models.FrequencyDaily}, from)
	assert.Nil(t, disabled.NextRun)

	backend := models.NewTimestamp(time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC))
	kept := scheduler.FillNextRun(models.ScrapingSchedule{Enabled: true, Frequency: models.FrequencyDaily, NextRun: backend}, from)
	assert.Equal(t, backend, kept.NextRun)
}
