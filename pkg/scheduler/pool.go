package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/novelenchant/enchant/pkg/models"
)

// WorkerPool runs a fixed set of Workers against one Scheduler plus a
// background orphan-detection loop, mirroring the reference queue's
// WorkerPool/runOrphanDetection pairing (§C.2/C.2a of the expanded spec).
type WorkerPool struct {
	scheduler *Scheduler
	workers   []*Worker
	stopCh    chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	started   bool

	orphans orphanState
}

// NewWorkerPool builds a pool sized by the scheduler's Config.WorkerCount.
func NewWorkerPool(s *Scheduler) *WorkerPool {
	cfg := s.Config.WithDefaults()
	s.Config = cfg
	return &WorkerPool{
		scheduler: s,
		workers:   make([]*Worker, 0, cfg.WorkerCount),
		stopCh:    make(chan struct{}),
	}
}

// Start spawns the configured worker goroutines and the orphan-detection
// background task. Safe to call once; later calls are no-ops.
func (p *WorkerPool) Start(ctx context.Context) {
	if p.started {
		return
	}
	p.started = true

	log := p.scheduler.logger()
	log.Info("starting chapter job worker pool", "worker_count", p.scheduler.Config.WorkerCount)

	for i := 0; i < p.scheduler.Config.WorkerCount; i++ {
		worker := NewWorker(fmt.Sprintf("chapter-worker-%d", i), p.scheduler)
		p.workers = append(p.workers, worker)
		worker.Start(ctx)
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.runOrphanDetection(ctx)
	}()
}

// Stop signals every worker and the orphan loop to stop, then waits for
// the in-flight chapter job (if any) to finish.
func (p *WorkerPool) Stop() {
	p.scheduler.logger().Info("stopping chapter job worker pool")
	for _, w := range p.workers {
		w.Stop()
	}
	p.stopOnce.Do(func() { close(p.stopCh) })
	p.wg.Wait()
	p.scheduler.logger().Info("chapter job worker pool stopped")
}

// Health reports the pool's aggregate state, combining per-worker status
// with the queued-job count. It prefers the Redis-backed cache when one is
// configured, falling back to a direct DB count.
func (p *WorkerPool) Health(ctx context.Context) PoolHealth {
	queueDepth, err := p.queueDepth(ctx)
	dbHealthy := err == nil

	stats := make([]WorkerHealth, len(p.workers))
	active := 0
	for i, w := range p.workers {
		h := w.Health()
		stats[i] = h
		if h.Status == string(WorkerStatusWorking) {
			active++
		}
	}

	p.orphans.mu.Lock()
	lastScan := p.orphans.lastScan
	recovered := p.orphans.recovered
	p.orphans.mu.Unlock()

	var dbError string
	if err != nil {
		dbError = err.Error()
	}

	return PoolHealth{
		IsHealthy:        len(p.workers) > 0 && dbHealthy,
		DBReachable:      dbHealthy,
		DBError:          dbError,
		TotalWorkers:     len(p.workers),
		ActiveWorkers:    active,
		QueueDepth:       queueDepth,
		WorkerStats:      stats,
		LastOrphanScan:   lastScan,
		OrphansRecovered: recovered,
	}
}

func (p *WorkerPool) queueDepth(ctx context.Context) (int, error) {
	compute := func() (int, error) {
		return p.scheduler.Repo.CountChapterJobsByStatus(ctx, models.JobStatusQueued)
	}
	if p.scheduler.Depth == nil {
		return compute()
	}
	return p.scheduler.Depth.Get(ctx, compute)
}
