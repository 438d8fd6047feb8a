package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// orphanState tracks orphan-recovery metrics (thread-safe), mirroring the
// reference queue's orphanState.
type orphanState struct {
	mu        sync.Mutex
	lastScan  time.Time
	recovered int
}

// runOrphanDetection periodically requeues ChapterJobs stuck running past
// their heartbeat deadline — a crashed worker's job, adapted from the
// reference queue's AlertSession orphan scan to ChapterJob rows.
func (p *WorkerPool) runOrphanDetection(ctx context.Context) {
	ticker := time.NewTicker(p.scheduler.Config.OrphanDetectionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			if err := p.detectAndRecoverOrphans(ctx); err != nil {
				p.scheduler.logger().Error("orphan detection failed", "error", err)
			}
		}
	}
}

// detectAndRecoverOrphans finds running jobs with a stale heartbeat and
// releases them back to queued so another worker can claim them.
func (p *WorkerPool) detectAndRecoverOrphans(ctx context.Context) error {
	threshold := time.Now().Add(-p.scheduler.Config.OrphanThreshold)

	orphans, err := p.scheduler.Repo.ListStaleRunningJobs(ctx, threshold)
	if err != nil {
		return fmt.Errorf("query orphaned chapter jobs: %w", err)
	}

	if len(orphans) == 0 {
		p.orphans.mu.Lock()
		p.orphans.lastScan = time.Now()
		p.orphans.mu.Unlock()
		return nil
	}

	log := p.scheduler.logger()
	log.Warn("detected orphaned chapter jobs", "count", len(orphans))

	recovered := 0
	for _, job := range orphans {
		if err := p.scheduler.Repo.ReleaseJob(ctx, job.ID); err != nil {
			log.Error("failed to recover orphaned chapter job", "job_id", job.ID, "error", err)
			continue
		}
		recovered++
	}

	p.orphans.mu.Lock()
	p.orphans.lastScan = time.Now()
	p.orphans.recovered += recovered
	p.orphans.mu.Unlock()

	return nil
}
