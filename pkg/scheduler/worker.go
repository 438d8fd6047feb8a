package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/novelenchant/enchant/pkg/models"
	"github.com/novelenchant/enchant/pkg/repo"
)

// WorkerStatus is a worker's current polling state.
type WorkerStatus string

const (
	WorkerStatusIdle    WorkerStatus = "idle"
	WorkerStatusWorking WorkerStatus = "working"
)

// Worker polls for the next ready ChapterJob and runs it through the
// scheduler's Pipeline, mirroring the reference queue's Worker run loop
// adapted from AlertSession to ChapterJob claims.
type Worker struct {
	id        string
	scheduler *Scheduler
	stopCh    chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup

	mu            sync.RWMutex
	status        WorkerStatus
	currentJobID  string
	jobsProcessed int
	lastActivity  time.Time
}

// NewWorker creates a worker bound to the given scheduler.
func NewWorker(id string, s *Scheduler) *Worker {
	return &Worker{
		id:           id,
		scheduler:    s,
		stopCh:       make(chan struct{}),
		status:       WorkerStatusIdle,
		lastActivity: time.Now(),
	}
}

// Start begins the worker's polling loop in a goroutine.
func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
}

// Stop signals the worker to stop and waits for its current job to finish.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
}

// Health reports the worker's current state.
func (w *Worker) Health() WorkerHealth {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return WorkerHealth{
		ID:            w.id,
		Status:        string(w.status),
		CurrentJobID:  w.currentJobID,
		JobsProcessed: w.jobsProcessed,
		LastActivity:  w.lastActivity,
	}
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	log := slog.With("worker_id", w.id)
	log.Info("scheduler worker started")

	for {
		select {
		case <-w.stopCh:
			log.Info("scheduler worker shutting down")
			return
		case <-ctx.Done():
			log.Info("context cancelled, scheduler worker shutting down")
			return
		default:
			if err := w.pollAndProcess(ctx); err != nil {
				if errors.Is(err, repo.ErrNoJobsReady) {
					w.sleep(w.pollInterval())
					continue
				}
				log.Error("error processing chapter job", "error", err)
				w.sleep(time.Second)
			}
		}
	}
}

func (w *Worker) sleep(d time.Duration) {
	select {
	case <-w.stopCh:
	case <-time.After(d):
	}
}

// pollAndProcess claims the next queued job, runs it through the pipeline
// and advances the scheduler's state machine on completion.
func (w *Worker) pollAndProcess(ctx context.Context) error {
	job, err := w.scheduler.Repo.ClaimNextJob(ctx, time.Now())
	if err != nil {
		return err
	}

	log := slog.With("job_id", job.ID, "work_id", job.WorkID, "ordinal", job.ChapterOrdinal, "worker_id", w.id)
	log.Info("chapter job claimed")

	w.setStatus(WorkerStatusWorking, job.ID)
	defer w.setStatus(WorkerStatusIdle, "")

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	heartbeatCtx, cancelHeartbeat := context.WithCancel(jobCtx)
	defer cancelHeartbeat()
	go w.runHeartbeat(heartbeatCtx, job.ID)

	chapterID, err := w.resolveChapterID(ctx, job.WorkID, job.ChapterOrdinal)
	if err != nil {
		return w.fail(ctx, job, err)
	}

	_, runErr := w.scheduler.Pipeline.ProcessChapter(jobCtx, chapterID)
	cancelHeartbeat()

	if runErr != nil {
		return w.fail(ctx, job, runErr)
	}

	now := time.Now()
	if err := w.scheduler.Repo.CompleteJob(context.Background(), job.ID, now); err != nil {
		log.Error("failed to mark chapter job completed", "error", err)
		return fmt.Errorf("complete chapter job: %w", err)
	}
	if err := w.scheduler.Advance(context.Background(), job.WorkID, job.ChapterOrdinal, nil); err != nil {
		log.Error("failed to advance scheduler", "error", err)
		return err
	}

	w.mu.Lock()
	w.jobsProcessed++
	w.mu.Unlock()

	log.Info("chapter job completed")
	return nil
}

func (w *Worker) fail(ctx context.Context, job models.ChapterJob, runErr error) error {
	log := slog.With("job_id", job.ID, "work_id", job.WorkID, "ordinal", job.ChapterOrdinal)
	now := time.Now()
	if err := w.scheduler.Repo.FailJob(context.Background(), job.ID, now, runErr.Error()); err != nil {
		log.Error("failed to mark chapter job failed", "error", err)
	}
	if err := w.scheduler.Advance(context.Background(), job.WorkID, job.ChapterOrdinal, runErr); err != nil {
		log.Error("failed to advance scheduler after failure", "error", err)
	}
	log.Warn("chapter job failed", "error", runErr)
	return fmt.Errorf("process chapter job: %w", runErr)
}

// resolveChapterID looks up the Chapter backing a job; ChapterJob doesn't
// carry it directly to the caller, so the worker asks the chapter list.
func (w *Worker) resolveChapterID(ctx context.Context, workID string, ordinal int) (string, error) {
	chapters, err := w.scheduler.Repo.ListChaptersByWork(ctx, workID)
	if err != nil {
		return "", fmt.Errorf("list chapters: %w", err)
	}
	for _, c := range chapters {
		if c.Ordinal == ordinal {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("no chapter with ordinal %d in work %s", ordinal, workID)
}

func (w *Worker) runHeartbeat(ctx context.Context, jobID string) {
	interval := w.scheduler.Config.HeartbeatInterval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.scheduler.Repo.Heartbeat(ctx, jobID, time.Now()); err != nil {
				slog.Warn("chapter job heartbeat failed", "job_id", jobID, "error", err)
			}
		}
	}
}

func (w *Worker) pollInterval() time.Duration {
	base := w.scheduler.Config.PollInterval
	jitter := w.scheduler.Config.PollIntervalJitter
	if jitter <= 0 {
		return base
	}
	offset := time.Duration(rand.Int64N(int64(2 * jitter)))
	return base - jitter + offset
}

func (w *Worker) setStatus(status WorkerStatus, jobID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = status
	w.currentJobID = jobID
	w.lastActivity = time.Now()
}
