package workers

import (
	"chat-relay/contract"
	"chat-relay/errors"
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
)

const (
	DefaultEnrichmentWorkers   = 4
	DefaultEnrichmentQueueSize = 256
)

type namedTask struct {
	name string
	task contract.Task
}

// EnrichmentPool runs detached best-effort tasks (translation, transcription, bot replies)
// on a fixed number of consumers reading a bounded queue.
// Submit never blocks the caller: a full queue drops the task.
type EnrichmentPool struct {
	log       *slog.Logger
	queue     chan namedTask
	workers   int
	dropped   atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

func NewEnrichmentPool(log *slog.Logger, workers, queueSize int) *EnrichmentPool {
	if workers <= 0 {
		workers = DefaultEnrichmentWorkers
	}
	if queueSize <= 0 {
		queueSize = DefaultEnrichmentQueueSize
	}
	return &EnrichmentPool{
		log:     log,
		queue:   make(chan namedTask, queueSize),
		workers: workers,
	}
}

func (p *EnrichmentPool) Submit(name string, task contract.Task) error {
	select {
	case p.queue <- namedTask{name: name, task: task}:
		return nil
	default:
		p.dropped.Add(1)
		p.log.Warn("Enrichment queue full, task dropped", "task", name, "capacity", cap(p.queue))
		return errors.ErrQueueFull
	}
}

// Workers returns the consumers to hand to a supervisor, one per configured worker.
func (p *EnrichmentPool) Workers() []contract.Worker {
	consumers := make([]contract.Worker, 0, p.workers)
	for i := 0; i < p.workers; i++ {
		consumers = append(consumers, &EnrichmentWorker{pool: p, id: i})
	}
	return consumers
}

// Depth is the number of queued tasks not yet picked up.
func (p *EnrichmentPool) Depth() int { return len(p.queue) }

func (p *EnrichmentPool) Capacity() int { return cap(p.queue) }

func (p *EnrichmentPool) Dropped() int64 { return p.dropped.Load() }

func (p *EnrichmentPool) Completed() int64 { return p.completed.Load() }

func (p *EnrichmentPool) Failed() int64 { return p.failed.Load() }

// EnrichmentWorker is one consumer of the pool queue.
// A task panicking kills the consumer and the supervisor restarts it.
type EnrichmentWorker struct {
	pool *EnrichmentPool
	id   int
}

func (w *EnrichmentWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case job := <-w.pool.queue:
			if err := w.execute(ctx, job); err != nil {
				return err
			}
		}
	}
}

func (w *EnrichmentWorker) execute(ctx context.Context, job namedTask) (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.pool.failed.Add(1)
			err = fmt.Errorf("%w: task %s: %v", errors.ErrWorkerPanic, job.name, r)
		}
	}()
	if taskErr := job.task(ctx); taskErr != nil {
		w.pool.failed.Add(1)
		w.pool.log.Debug("Enrichment task failed", "task", job.name, "worker", w.id, "error", taskErr)
		return nil
	}
	w.pool.completed.Add(1)
	return nil
}
