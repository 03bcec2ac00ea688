package tasks_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/hr-payroll/internal/core/tasks"
)

var _ = Describe("Pool", func() {
	var (
		pool   *tasks.Pool
		logger *slog.Logger
	)

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	AfterEach(func() {
		if pool != nil {
			pool.Shutdown()
		}
	})

	It("runs submitted tasks and counts outcomes", func() {
		pool = tasks.NewPool(tasks.Config{MaxWorkers: 2, QueueSize: 10}, logger)
		var ran atomic.Int32

		for i := 0; i < 3; i++ {
			Expect(pool.Enqueue(tasks.Task{Kind: "ok", Run: func(ctx context.Context) error {
				ran.Add(1)
				return nil
			}})).To(Succeed())
		}
		Expect(pool.Enqueue(tasks.Task{Kind: "bad", Run: func(ctx context.Context) error {
			return errors.New("boom")
		}})).To(Succeed())

		Eventually(func() int64 { return pool.Stats().Completed }).Should(Equal(int64(3)))
		Eventually(func() int64 { return pool.Stats().Failed }).Should(Equal(int64(1)))
		Expect(ran.Load()).To(Equal(int32(3)))
	})

	It("treats a panicking task as failed", func() {
		pool = tasks.NewPool(tasks.Config{MaxWorkers: 1, QueueSize: 1}, logger)

		Expect(pool.Enqueue(tasks.Task{Kind: "panic", Run: func(ctx context.Context) error {
			panic("unexpected")
		}})).To(Succeed())

		Eventually(func() int64 { return pool.Stats().Failed }).Should(Equal(int64(1)))
	})

	It("rejects work when the queue is full", func() {
		pool = tasks.NewPool(tasks.Config{MaxWorkers: 1, QueueSize: 1}, logger)
		release := make(chan struct{})
		started := make(chan struct{}, 1)
		blocking := func(ctx context.Context) error {
			select {
			case started <- struct{}{}:
			default:
			}
			select {
			case <-release:
			case <-ctx.Done():
			}
			return nil
		}

		// Given the only worker is busy
		Expect(pool.Enqueue(tasks.Task{Kind: "first", Run: blocking})).To(Succeed())
		Eventually(started).Should(Receive())

		// When the dispatcher holds one task and the queue holds another
		Eventually(func() error {
			return pool.Enqueue(tasks.Task{Kind: "fill", Run: blocking})
		}).Should(MatchError(tasks.ErrQueueFull))

		close(release)
	})

	It("refuses submissions after shutdown", func() {
		pool = tasks.NewPool(tasks.Config{MaxWorkers: 1, QueueSize: 1}, logger)
		pool.Shutdown()

		err := pool.Enqueue(tasks.Task{Kind: "late", Run: func(ctx context.Context) error { return nil }})
		Expect(err).To(MatchError(tasks.ErrPoolClosed))
	})
})
