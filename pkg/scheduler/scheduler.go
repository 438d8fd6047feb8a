// Package scheduler implements the Work Scheduler: the cross-chapter
// orchestrator that enforces ordered chapter execution within a work, with
// dependency, retry and failure semantics (§4.13). It owns no chapter
// state itself — it observes and drives ChapterJob rows through their
// state machine and delegates the actual work to a Pipeline.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/novelenchant/enchant/pkg/models"
	"github.com/novelenchant/enchant/pkg/pipeline"
	"github.com/novelenchant/enchant/pkg/repo"
)

// ErrJobNotFailed is returned by Retry when the targeted job isn't in a
// retryable state.
var ErrJobNotFailed = errors.New("scheduler: job is not failed")

// Config bundles the scheduler's tuning knobs, mirroring the reference
// queue's QueueConfig but scoped to ChapterJob polling.
type Config struct {
	WorkerCount             int
	PollInterval            time.Duration
	PollIntervalJitter      time.Duration
	OrphanDetectionInterval time.Duration
	OrphanThreshold         time.Duration
	HeartbeatInterval       time.Duration
}

// WithDefaults fills zero fields with sensible production defaults.
func (c Config) WithDefaults() Config {
	if c.WorkerCount <= 0 {
		c.WorkerCount = 3
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 1 * time.Second
	}
	if c.PollIntervalJitter <= 0 {
		c.PollIntervalJitter = 250 * time.Millisecond
	}
	if c.OrphanDetectionInterval <= 0 {
		c.OrphanDetectionInterval = 2 * time.Minute
	}
	if c.OrphanThreshold <= 0 {
		c.OrphanThreshold = 5 * time.Minute
	}
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = 30 * time.Second
	}
	return c
}

// Scheduler implements ingest/advance/status/retry over ChapterJob rows
// and runs a WorkerPool that claims queued jobs and runs them through a
// Pipeline.
type Scheduler struct {
	Repo     *repo.Repo
	Pipeline *pipeline.Pipeline
	Config   Config
	NewID    func() string
	Logger   *slog.Logger
	Depth    *QueueDepthCache // optional, nil disables the cached fast path

	pool *WorkerPool
}

func (s *Scheduler) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Start launches the worker pool (one goroutine per configured worker plus
// the orphan-detection loop).
func (s *Scheduler) Start(ctx context.Context) {
	s.pool = NewWorkerPool(s)
	s.pool.Start(ctx)
}

// Health reports the worker pool's aggregate health. Returns the zero
// PoolHealth with IsHealthy false if Start hasn't been called yet.
func (s *Scheduler) Health(ctx context.Context) PoolHealth {
	if s.pool == nil {
		return PoolHealth{}
	}
	return s.pool.Health(ctx)
}

// Stop signals all workers to finish their current job and waits for them.
func (s *Scheduler) Stop() {
	if s.pool != nil {
		s.pool.Stop()
	}
}

// Ingest creates a Work's Chapters and their ChapterJobs: chapter 1 starts
// queued, every successor starts waiting-for-previous with prerequisite
// ordinal-1 (§3's strictly-increasing-ordinal invariant).
func (s *Scheduler) Ingest(ctx context.Context, work models.Work, chapterTexts []string) (models.Work, []models.Chapter, error) {
	savedWork, err := s.Repo.CreateWork(ctx, work)
	if err != nil {
		return models.Work{}, nil, fmt.Errorf("scheduler: create work: %w", err)
	}

	now := time.Now()
	chapters := make([]models.Chapter, 0, len(chapterTexts))
	for i, text := range chapterTexts {
		ordinal := i + 1
		chapter := models.Chapter{
			ID:        s.NewID(),
			WorkID:    savedWork.ID,
			Ordinal:   ordinal,
			Text:      text,
			WordCount: wordCount(text),
			Status:    models.ChapterStatusPending,
			CreatedAt: now,
		}
		savedChapter, err := s.Repo.CreateChapter(ctx, chapter)
		if err != nil {
			return savedWork, nil, fmt.Errorf("scheduler: create chapter %d: %w", ordinal, err)
		}

		job := models.ChapterJob{
			ID:             s.NewID(),
			WorkID:         savedWork.ID,
			ChapterOrdinal: ordinal,
			Status:         models.JobStatusWaitingForPrevious,
			CreatedAt:      now,
		}
		if ordinal == 1 {
			job.Status = models.JobStatusQueued
		} else {
			prereq := ordinal - 1
			job.PrerequisiteOrdinal = &prereq
		}
		if _, err := s.Repo.CreateChapterJob(ctx, job, savedChapter.ID); err != nil {
			return savedWork, nil, fmt.Errorf("scheduler: create chapter job %d: %w", ordinal, err)
		}

		chapters = append(chapters, savedChapter)
	}

	if err := s.Repo.UpdateWorkStatus(ctx, savedWork.ID, models.WorkStatusInProgress); err != nil {
		return savedWork, chapters, fmt.Errorf("scheduler: mark work in progress: %w", err)
	}
	savedWork.Status = models.WorkStatusInProgress

	return savedWork, chapters, nil
}

// Advance runs after a chapter job reaches a terminal state: on success it
// releases the successor (waiting-for-previous → queued); on failure the
// successor is left blocked indefinitely, per §4.13's failure semantics.
// It also rolls the aggregate Work status forward once every job is
// terminal.
func (s *Scheduler) Advance(ctx context.Context, workID string, finishedOrdinal int, outcome error) error {
	if outcome == nil {
		successor, err := s.Repo.GetChapterJobByOrdinal(ctx, workID, finishedOrdinal+1)
		if err != nil {
			if !errors.Is(err, repo.ErrNotFound) {
				return fmt.Errorf("scheduler: load successor job: %w", err)
			}
		} else if successor.Status == models.JobStatusWaitingForPrevious {
			if err := s.Repo.ReleaseJob(ctx, successor.ID); err != nil {
				return fmt.Errorf("scheduler: release successor job: %w", err)
			}
		}
	}

	return s.refreshWorkStatus(ctx, workID)
}

// refreshWorkStatus rolls a Work's aggregate status forward: failed if any
// job failed, completed once every job is completed, otherwise left
// in_progress.
func (s *Scheduler) refreshWorkStatus(ctx context.Context, workID string) error {
	jobs, err := s.Repo.ListChapterJobsByWork(ctx, workID)
	if err != nil {
		return fmt.Errorf("scheduler: list chapter jobs: %w", err)
	}

	allCompleted := len(jobs) > 0
	anyFailed := false
	for _, job := range jobs {
		switch job.Status {
		case models.JobStatusFailed:
			anyFailed = true
		case models.JobStatusCompleted:
			// still eligible for allCompleted
		default:
			allCompleted = false
		}
	}

	var status models.WorkStatus
	switch {
	case anyFailed:
		status = models.WorkStatusFailed
	case allCompleted:
		status = models.WorkStatusCompleted
	default:
		return nil // stays in_progress, no write needed
	}

	return s.Repo.UpdateWorkStatus(ctx, workID, status)
}

// Status reports a Work and the per-chapter job states the scheduler is
// driving it through.
func (s *Scheduler) Status(ctx context.Context, workID string) (models.Work, []models.ChapterJob, error) {
	work, err := s.Repo.GetWork(ctx, workID)
	if err != nil {
		return models.Work{}, nil, fmt.Errorf("scheduler: get work: %w", err)
	}
	jobs, err := s.Repo.ListChapterJobsByWork(ctx, workID)
	if err != nil {
		return work, nil, fmt.Errorf("scheduler: list chapter jobs: %w", err)
	}
	return work, jobs, nil
}

// Retry transitions a failed job back to queued, clearing its error and
// timestamps, and re-marks the work in_progress. Operator-triggered only;
// the scheduler never retries a failed chapter automatically (§4.13).
func (s *Scheduler) Retry(ctx context.Context, workID string, ordinal int) error {
	job, err := s.Repo.GetChapterJobByOrdinal(ctx, workID, ordinal)
	if err != nil {
		return fmt.Errorf("scheduler: load job: %w", err)
	}
	if job.Status != models.JobStatusFailed {
		return ErrJobNotFailed
	}
	if err := s.Repo.ReleaseJob(ctx, job.ID); err != nil {
		return fmt.Errorf("scheduler: release job: %w", err)
	}
	return s.Repo.UpdateWorkStatus(ctx, workID, models.WorkStatusInProgress)
}

func wordCount(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		isSpace := r == ' ' || r == '\n' || r == '\t' || r == '\r'
		switch {
		case isSpace:
			inWord = false
		case !inWord:
			inWord = true
			count++
		}
	}
	return count
}
