// Package scheduler archives daily and weekly reports on cron schedules and
// previews the backend scraping schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonesrussell/north-cloud/media-scan/internal/logger"
	"github.com/jonesrussell/north-cloud/media-scan/internal/report"
	"github.com/robfig/cron/v3"
)

// Archiver writes one report file per format into a directory.
// *report.Generator satisfies it.
type Archiver interface {
	WriteFiles(ctx context.Context, p report.Period, formats []report.Format, dir string) ([]string, error)
}

// Config selects the archive schedules and outputs. An empty expression
// disables that period.
type Config struct {
	Daily     string
	Weekly    string
	Formats   []report.Format
	OutputDir string
	// RunTimeout bounds one archiving run.
	RunTimeout time.Duration
}

const defaultRunTimeout = 5 * time.Minute

var errNoFormats = errors.New("no report formats configured")

// Scheduler runs report archiving jobs.
type Scheduler struct {
	cron    *cron.Cron
	parser  cron.Parser
	archive Archiver
	cfg     Config
	log     logger.Logger

	mu      sync.RWMutex
	entries map[report.Period]cron.EntryID

	ctx    context.Context
	cancel context.CancelFunc
}

// standardParser reads the 5-field minute hour dom month dow format.
func standardParser() cron.Parser {
	return cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

// New validates the schedules and registers one job per configured period.
func New(archive Archiver, cfg Config, log logger.Logger) (*Scheduler, error) {
	if len(cfg.Formats) == 0 {
		return nil, errNoFormats
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = defaultRunTimeout
	}

	parser := standardParser()
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		parser: parser,
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithChain(cron.Recover(cronLogger{log: log})),
		),
		archive: archive,
		cfg:     cfg,
		log:     log,
		entries: make(map[report.Period]cron.EntryID),
		ctx:     ctx,
		cancel:  cancel,
	}

	for _, job := range []struct {
		period report.Period
		spec   string
	}{
		{report.Daily, cfg.Daily},
		{report.Weekly, cfg.Weekly},
	} {
		if job.spec == "" {
			continue
		}
		if err := s.add(job.period, job.spec); err != nil {
			cancel()
			return nil, err
		}
	}
	return s, nil
}

func (s *Scheduler) add(p report.Period, spec string) error {
	if _, err := s.parser.Parse(spec); err != nil {
		return fmt.Errorf("parse %s report schedule %q: %w", p, spec, err)
	}
	id, err := s.cron.AddFunc(spec, func() {
		if _, runErr := s.Run(s.ctx, p); runErr != nil && s.ctx.Err() == nil {
			s.log.Error("Scheduled report failed",
				logger.Period(p),
				logger.Error(runErr),
			)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %s report: %w", p, err)
	}

	s.mu.Lock()
	s.entries[p] = id
	s.mu.Unlock()
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	for p, next := range s.NextRuns() {
		s.log.Info("Report archiving scheduled",
			logger.Period(p),
			logger.Time("next_run", next),
		)
	}
}

// Stop cancels in-flight runs and waits for running jobs to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.log.Info("Report scheduler stopped")
}

// Run archives the reports for one period now.
func (s *Scheduler) Run(ctx context.Context, p report.Period) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	start := time.Now()
	paths, err := s.archive.WriteFiles(ctx, p, s.cfg.Formats, s.cfg.OutputDir)
	if err != nil {
		return paths, fmt.Errorf("archive %s report: %w", p, err)
	}
	s.log.Info("Reports archived",
		logger.Period(p),
		logger.Strings("files", paths),
		logger.Duration("duration", time.Since(start)),
	)
	return paths, nil
}

// NextRuns returns the next fire time of every scheduled period. Before Start
// the times are computed from now.
func (s *Scheduler) NextRuns() map[report.Period]time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[report.Period]time.Time, len(s.entries))
	now := time.Now()
	for p, id := range s.entries {
		e := s.cron.Entry(id)
		if e.Next.IsZero() && e.Schedule != nil {
			out[p] = e.Schedule.Next(now)
			continue
		}
		out[p] = e.Next
	}
	return out
}

// cronLogger routes cron's panic recovery into the service logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, logger.Any("cron", keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, logger.Error(err), logger.Any("cron", keysAndValues))
}
