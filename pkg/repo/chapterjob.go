package repo

import (
	"context"
	"errors"
	"time"

	"entgo.io/ent/dialect/sql"

	"github.com/novelenchant/enchant/ent"
	"github.com/novelenchant/enchant/ent/chapterjob"
	"github.com/novelenchant/enchant/pkg/models"
)

// ErrNoJobsReady is returned by ClaimNextJob when no queued job is
// currently available to run.
var ErrNoJobsReady = errors.New("repo: no chapter jobs ready")

// CreateChapterJob persists the scheduler's per-chapter state-machine
// record, created at ingest time alongside the Chapter itself.
func (r *Repo) CreateChapterJob(ctx context.Context, job models.ChapterJob, chapterID string) (models.ChapterJob, error) {
	create := r.Client.ChapterJob.Create().
		SetID(job.ID).
		SetWorkID(job.WorkID).
		SetChapterID(chapterID).
		SetChapterOrdinal(job.ChapterOrdinal).
		SetStatus(chapterjob.Status(job.Status)).
		SetPriority(job.Priority).
		SetCreatedAt(job.CreatedAt)
	if job.PrerequisiteOrdinal != nil {
		create = create.SetPrerequisiteOrdinal(*job.PrerequisiteOrdinal)
	}
	row, err := create.Save(ctx)
	if err != nil {
		return models.ChapterJob{}, wrapf("create chapter job", err)
	}
	return chapterJobFromEnt(row), nil
}

// GetChapterJob loads a ChapterJob by id.
func (r *Repo) GetChapterJob(ctx context.Context, id string) (models.ChapterJob, error) {
	row, err := r.Client.ChapterJob.Get(ctx, id)
	if err != nil {
		return models.ChapterJob{}, wrapf("get chapter job", err)
	}
	return chapterJobFromEnt(row), nil
}

// GetChapterJobByOrdinal loads the job for one chapter of a work, the
// lookup the scheduler uses to unblock a successor once its prerequisite
// completes.
func (r *Repo) GetChapterJobByOrdinal(ctx context.Context, workID string, ordinal int) (models.ChapterJob, error) {
	row, err := r.Client.ChapterJob.Query().
		Where(
			chapterjob.WorkIDEQ(workID),
			chapterjob.ChapterOrdinalEQ(ordinal),
		).
		Only(ctx)
	if err != nil {
		return models.ChapterJob{}, wrapf("get chapter job by ordinal", err)
	}
	return chapterJobFromEnt(row), nil
}

// ListChapterJobsByWork returns a work's jobs ordered by ordinal.
func (r *Repo) ListChapterJobsByWork(ctx context.Context, workID string) ([]models.ChapterJob, error) {
	rows, err := r.Client.ChapterJob.Query().
		Where(chapterjob.WorkIDEQ(workID)).
		Order(ent.Asc(chapterjob.FieldChapterOrdinal)).
		All(ctx)
	if err != nil {
		return nil, wrapf("list chapter jobs", err)
	}
	out := make([]models.ChapterJob, len(rows))
	for i, row := range rows {
		out[i] = chapterJobFromEnt(row)
	}
	return out, nil
}

// CountChapterJobsByStatus returns how many jobs across all works currently
// sit in the given status, the queue-depth number the health endpoint
// reports (cached via scheduler.QueueDepthCache when Redis is configured).
func (r *Repo) CountChapterJobsByStatus(ctx context.Context, status models.JobStatus) (int, error) {
	count, err := r.Client.ChapterJob.Query().
		Where(chapterjob.StatusEQ(chapterjob.Status(status))).
		Count(ctx)
	if err != nil {
		return 0, wrapf("count chapter jobs", err)
	}
	return count, nil
}

// ClaimNextJob locks and claims the highest-priority queued job across
// all works, transitioning it to running. Uses FOR UPDATE SKIP LOCKED so
// concurrent workers never double-claim a row.
func (r *Repo) ClaimNextJob(ctx context.Context, startedAt time.Time) (models.ChapterJob, error) {
	var claimed models.ChapterJob
	err := r.WithTx(ctx, func(tx *ent.Tx) error {
		row, err := tx.ChapterJob.Query().
			Where(chapterjob.StatusEQ(chapterjob.StatusQueued)).
			Order(ent.Desc(chapterjob.FieldPriority), ent.Asc(chapterjob.FieldCreatedAt)).
			ForUpdate(sql.WithLockAction(sql.SkipLocked)).
			First(ctx)
		if err != nil {
			if ent.IsNotFound(err) {
				return ErrNoJobsReady
			}
			return err
		}

		updated, err := tx.ChapterJob.UpdateOneID(row.ID).
			SetStatus(chapterjob.StatusRunning).
			SetStartedAt(startedAt).
			SetHeartbeatAt(startedAt).
			Save(ctx)
		if err != nil {
			return err
		}
		claimed = chapterJobFromEnt(updated)
		return nil
	})
	if err != nil {
		if err == ErrNoJobsReady {
			return models.ChapterJob{}, ErrNoJobsReady
		}
		return models.ChapterJob{}, wrapf("claim chapter job", err)
	}
	return claimed, nil
}

// Heartbeat refreshes a running job's liveness timestamp so orphan
// recovery leaves it alone.
func (r *Repo) Heartbeat(ctx context.Context, id string, at time.Time) error {
	err := r.withRetry(ctx, func(ctx context.Context) error {
		return r.Client.ChapterJob.UpdateOneID(id).
			SetHeartbeatAt(at).
			Exec(ctx)
	})
	return wrapf("heartbeat chapter job", err)
}

// CompleteJob transitions a job to completed.
func (r *Repo) CompleteJob(ctx context.Context, id string, completedAt time.Time) error {
	err := r.withRetry(ctx, func(ctx context.Context) error {
		return r.Client.ChapterJob.UpdateOneID(id).
			SetStatus(chapterjob.StatusCompleted).
			SetCompletedAt(completedAt).
			Exec(ctx)
	})
	return wrapf("complete chapter job", err)
}

// FailJob transitions a job to failed, recording the error.
func (r *Repo) FailJob(ctx context.Context, id string, completedAt time.Time, lastError string) error {
	err := r.withRetry(ctx, func(ctx context.Context) error {
		return r.Client.ChapterJob.UpdateOneID(id).
			SetStatus(chapterjob.StatusFailed).
			SetCompletedAt(completedAt).
			SetLastError(lastError).
			Exec(ctx)
	})
	return wrapf("fail chapter job", err)
}

// ReleaseJob transitions a job back to queued, used when a prerequisite
// completes or an orphaned run is recovered, or an operator retries a
// failed job. Clears started/completed timestamps and the last error so
// a re-queued job never reports its previous run's failure.
func (r *Repo) ReleaseJob(ctx context.Context, id string) error {
	err := r.withRetry(ctx, func(ctx context.Context) error {
		return r.Client.ChapterJob.UpdateOneID(id).
			SetStatus(chapterjob.StatusQueued).
			ClearStartedAt().
			ClearCompletedAt().
			ClearLastError().
			Exec(ctx)
	})
	return wrapf("release chapter job", err)
}

// ListStaleRunningJobs returns jobs stuck in running with a heartbeat
// older than before, the orphan-recovery scan's input set.
func (r *Repo) ListStaleRunningJobs(ctx context.Context, before time.Time) ([]models.ChapterJob, error) {
	rows, err := r.Client.ChapterJob.Query().
		Where(
			chapterjob.StatusEQ(chapterjob.StatusRunning),
			chapterjob.HeartbeatAtLT(before),
		).
		All(ctx)
	if err != nil {
		return nil, wrapf("list stale chapter jobs", err)
	}
	out := make([]models.ChapterJob, len(rows))
	for i, row := range rows {
		out[i] = chapterJobFromEnt(row)
	}
	return out, nil
}

func chapterJobFromEnt(row *ent.ChapterJob) models.ChapterJob {
	return models.ChapterJob{
		ID:                  row.ID,
		WorkID:              row.WorkID,
		ChapterOrdinal:      row.ChapterOrdinal,
		Status:              models.JobStatus(row.Status),
		PrerequisiteOrdinal: row.PrerequisiteOrdinal,
		Priority:            row.Priority,
		CreatedAt:           row.CreatedAt,
		StartedAt:           row.StartedAt,
		CompletedAt:         row.CompletedAt,
		LastError:           row.LastError,
	}
}
