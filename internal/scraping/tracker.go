package scraping

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/north-cloud/media-scan/internal/logger"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
	"github.com/jonesrussell/north-cloud/media-scan/internal/telemetry"
)

// Runner triggers a scraping run on the backend.
type Runner interface {
	TriggerScraping(ctx context.Context, req models.ScrapingRequest) (models.ScrapingResult, error)
}

// DefaultRunTimeout bounds one backend scraping call.
const DefaultRunTimeout = 10 * time.Minute

// Tracker launches scraping runs in the background and records their
// progress in a Store.
type Tracker struct {
	store   Store
	runner  Runner
	log     logger.Logger
	metrics *telemetry.Metrics
	timeout time.Duration
	now     func() time.Time
	wg      sync.WaitGroup
}

type Option func(*Tracker)

func WithLogger(log logger.Logger) Option {
	return func(t *Tracker) { t.log = log }
}

func WithMetrics(m *telemetry.Metrics) Option {
	return func(t *Tracker) { t.metrics = m }
}

func WithRunTimeout(d time.Duration) Option {
	return func(t *Tracker) { t.timeout = d }
}

func NewTracker(store Store, runner Runner, opts ...Option) *Tracker {
	t := &Tracker{
		store:   store,
		runner:  runner,
		log:     logger.NewNop(),
		timeout: DefaultRunTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Launch records a running task and starts the backend run. The returned
// task is the running snapshot; poll Get or List for the outcome.
func (t *Tracker) Launch(ctx context.Context, taskType string, days int) (Task, error) {
	req, err := RequestFor(taskType, days)
	if err != nil {
		return Task{}, err
	}

	task := Task{
		ID:        uuid.NewString(),
		Type:      taskType,
		Days:      req.Days,
		Status:    StatusRunning,
		StartedAt: t.now().UTC(),
	}
	if err = t.store.Save(ctx, task); err != nil {
		return Task{}, fmt.Errorf("record scraping task: %w", err)
	}

	t.log.Info("Scraping task launched",
		logger.TaskID(task.ID),
		logger.String("type", taskType),
		logger.Int("days", req.Days),
	)

	t.wg.Add(1)
	go t.run(context.WithoutCancel(ctx), task, req)
	return task, nil
}

func (t *Tracker) run(ctx context.Context, task Task, req models.ScrapingRequest) {
	defer t.wg.Done()

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	res, err := t.runner.TriggerScraping(ctx, req)
	finished := t.now().UTC()
	task.FinishedAt = &finished

	if err != nil {
		task.Status = StatusFailed
		task.Message = err.Error()
		t.log.Error("Scraping task failed",
			logger.TaskID(task.ID),
			logger.String("type", task.Type),
			logger.Error(err),
		)
	} else {
		task.Status = StatusCompleted
		task.Message = res.Message
		task.Errors = res.Errors
		if res.TotalArticles != nil {
			task.ItemsCollected = *res.TotalArticles
		}
		t.log.Info("Scraping task completed",
			logger.TaskID(task.ID),
			logger.String("type", task.Type),
			logger.Int("items_collected", task.ItemsCollected),
			logger.Duration("duration", task.Duration(finished)),
		)
	}
	t.metrics.RecordScrapingTask(task.Type, task.Status)

	// The run may have used up ctx's deadline.
	saveCtx, saveCancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer saveCancel()
	if saveErr := t.store.Save(saveCtx, task); saveErr != nil {
		t.log.Error("Failed to record scraping task outcome",
			logger.TaskID(task.ID),
			logger.Error(saveErr),
		)
	}
}

func (t *Tracker) Get(ctx context.Context, id string) (Task, error) {
	return t.store.Get(ctx, id)
}

func (t *Tracker) List(ctx context.Context, limit int) ([]Task, error) {
	return t.store.List(ctx, limit)
}

// Wait blocks until every launched run has finished.
func (t *Tracker) Wait() {
	t.wg.Wait()
}
