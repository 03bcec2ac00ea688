package events_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/hr-payroll/internal/core/events"
)

var _ = Describe("EventBus", func() {
	var (
		bus *events.EventBus
		evt events.Event
	)

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
		evt = events.NewPayrollReportGeneratedEvent(7, 3, 2024, 2, map[string]int{"no_active_contract": 1}, "operator")
	})

	It("delivers an async event to every subscriber", func() {
		var mu sync.Mutex
		var got []string
		record := func(name string) events.Handler {
			return func(ctx context.Context, e events.Event) error {
				mu.Lock()
				defer mu.Unlock()
				got = append(got, name+":"+e.EventType())
				return nil
			}
		}
		bus.Subscribe(events.EventTypePayrollReportGenerated, record("audit"))
		bus.Subscribe(events.EventTypePayrollReportGenerated, record("notify"))
		bus.Subscribe(events.EventTypeContractsExpired, record("other"))

		Expect(bus.Publish(context.Background(), evt)).To(Succeed())
		bus.Wait()

		Expect(got).To(ConsistOf(
			"audit:payroll.report_generated",
			"notify:payroll.report_generated",
		))
	})

	It("runs async handlers after the publishing context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		release := make(chan struct{})
		var handlerErr error
		bus.Subscribe(events.EventTypePayrollReportGenerated, func(ctx context.Context, e events.Event) error {
			<-release
			handlerErr = ctx.Err()
			return nil
		})

		Expect(bus.Publish(ctx, evt)).To(Succeed())
		cancel()
		close(release)
		bus.Wait()

		Expect(handlerErr).NotTo(HaveOccurred())
	})

	It("survives a panicking handler", func() {
		done := make(chan struct{})
		bus.Subscribe(events.EventTypePayrollReportGenerated, func(ctx context.Context, e events.Event) error {
			panic("boom")
		})
		bus.Subscribe(events.EventTypePayrollReportGenerated, func(ctx context.Context, e events.Event) error {
			close(done)
			return nil
		})

		Expect(bus.Publish(context.Background(), evt)).To(Succeed())
		Eventually(done, time.Second).Should(BeClosed())
		bus.Wait()
	})

	It("returns the first handler error when publishing synchronously", func() {
		bus.Subscribe(events.EventTypePayrollReportGenerated, func(ctx context.Context, e events.Event) error {
			return errors.New("audit store down")
		})

		err := bus.PublishSync(context.Background(), evt)

		Expect(err).To(MatchError(ContainSubstring("audit store down")))
	})

	It("ignores events nobody subscribed to", func() {
		Expect(bus.Publish(context.Background(), evt)).To(Succeed())
		Expect(bus.PublishSync(context.Background(), evt)).To(Succeed())
	})

	It("carries the payroll payload", func() {
		Expect(evt.EventID()).NotTo(BeEmpty())
		Expect(evt.Payload()).NotTo(BeNil())
	})
})
