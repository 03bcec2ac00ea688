package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var (
	ErrQueueFull  = errors.New("task queue full, please try again later")
	ErrPoolClosed = errors.New("task pool is shut down")
)

// Task is a unit of background work. Kind and EntityID correlate log lines
// with whatever triggered the task. Run receives the pool context, which is
// cancelled on Shutdown.
type Task struct {
	ID       string
	Kind     string
	EntityID int64
	Run      func(ctx context.Context) error
}

func NewTask(kind string, entityID int64, run func(ctx context.Context) error) Task {
	return Task{
		ID:       uuid.New().String(),
		Kind:     kind,
		EntityID: entityID,
		Run:      run,
	}
}

type Worker struct {
	ID         int
	WorkerPool chan chan Task
	JobChannel chan Task
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan Task, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Task),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(Task)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			select {
			case w.WorkerPool <- w.JobChannel:
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}

			select {
			case task := <-w.JobChannel:
				w.Logger.Debug("worker processing task", "worker_id", w.ID, "task_id", task.ID, "task_kind", task.Kind)
				processFunc(task)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

type Config struct {
	MaxWorkers int
	QueueSize  int
}

type Stats struct {
	Queued    int   `json:"queued"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// Pool runs fire-and-forget tasks on a fixed set of workers. Submissions never
// block: a full queue is reported to the caller instead.
type Pool struct {
	logger *slog.Logger

	jobQueue   chan Task
	workerPool chan chan Task
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
	closed     atomic.Bool

	completed atomic.Int64
	failed    atomic.Int64
}

func NewPool(config Config, logger *slog.Logger) *Pool {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}

	p := &Pool{
		logger:     logger,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan Task, queueSize),
		workerPool: make(chan chan Task, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}
	p.start()
	return p
}

func (p *Pool) start() {
	p.once.Do(func() {
		for i := 0; i < p.maxWorkers; i++ {
			NewWorker(i, p.workerPool, p.logger).Start(p.ctx, &p.wg, p.process)
		}

		p.wg.Add(1)
		go p.dispatch()

		p.logger.Info("task worker pool started",
			"max_workers", p.maxWorkers,
			"queue_size", cap(p.jobQueue))
	})
}

func (p *Pool) dispatch() {
	defer p.wg.Done()

	for {
		select {
		case task := <-p.jobQueue:
			select {
			case jobChannel := <-p.workerPool:
				select {
				case jobChannel <- task:
				case <-p.ctx.Done():
					p.logger.Info("dispatcher shutting down")
					return
				}
			case <-p.ctx.Done():
				p.logger.Info("dispatcher shutting down")
				return
			}
		case <-p.ctx.Done():
			p.logger.Info("dispatcher shutting down")
			return
		}
	}
}

func (p *Pool) process(task Task) {
	start := time.Now()
	err := p.safeRun(task)
	if err != nil {
		p.failed.Add(1)
		p.logger.Error("task failed",
			"task_id", task.ID,
			"task_kind", task.Kind,
			"entity_id", task.EntityID,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err)
		return
	}
	p.completed.Add(1)
	p.logger.Debug("task completed", "task_id", task.ID, "task_kind", task.Kind, "duration_ms", time.Since(start).Milliseconds())
}

func (p *Pool) safeRun(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task.Run(p.ctx)
}

// Enqueue queues task for execution. It returns ErrQueueFull when the queue is
// at capacity and ErrPoolClosed after Shutdown.
func (p *Pool) Enqueue(task Task) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.Run == nil {
		return fmt.Errorf("task %q has no run function", task.Kind)
	}

	select {
	case p.jobQueue <- task:
		p.logger.Debug("task queued", "task_id", task.ID, "task_kind", task.Kind, "entity_id", task.EntityID, "queue_length", len(p.jobQueue))
		return nil
	default:
		p.logger.Warn("task queue full, rejecting task",
			"task_kind", task.Kind,
			"entity_id", task.EntityID,
			"queue_capacity", cap(p.jobQueue))
		return ErrQueueFull
	}
}

func (p *Pool) Stats() Stats {
	return Stats{
		Queued:    len(p.jobQueue),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
	}
}

// Shutdown cancels in-flight tasks and waits for workers to exit. Tasks still
// queued are dropped.
func (p *Pool) Shutdown() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	p.logger.Info("shutting down task pool", "dropped", len(p.jobQueue))
	p.cancel()
	p.wg.Wait()
	p.logger.Info("task pool shutdown complete")
}
