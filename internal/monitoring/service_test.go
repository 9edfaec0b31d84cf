package monitoring_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/monitoring"
	"github.com/frahmantamala/helpdesk-console/internal/testhelper"
	"github.com/frahmantamala/helpdesk-console/internal/transport"
)

var _ = Describe("Service", func() {
	var service *monitoring.Service

	BeforeEach(func() {
		dashboard, err := monitoring.LoadDashboard()
		Expect(err).NotTo(HaveOccurred())
		service = monitoring.NewService(dashboard, internal.SimulationConfig{MetricJitter: 5}, testhelper.QuietLogger())
	})

	It("summarises the fixture", func() {
		snap := service.Snapshot()
		Expect(snap.Metrics).To(HaveLen(6))
		Expect(snap.Services).To(HaveLen(4))
		Expect(snap.Stats).To(Equal(monitoring.Stats{Healthy: 5, Warnings: 1, ActiveIncidents: 1}))
		Expect(snap.Incidents[0].StartTime).To(BeTemporally("~", time.Now().Add(-30*time.Minute), time.Minute))
	})

	It("keeps numeric metrics within bounds while jittering", func() {
		before := service.Snapshot()
		for i := 0; i < 200; i++ {
			service.Refresh()
		}
		after := service.Refresh()

		for i, m := range after.Metrics {
			if m.Value == nil {
				Expect(m.Text).To(Equal(before.Metrics[i].Text))
				continue
			}
			Expect(*m.Value).To(BeNumerically(">=", 0))
			Expect(*m.Value).To(BeNumerically("<=", 100))
		}
	})

	It("moves a metric by at most half the jitter per refresh", func() {
		before := service.Snapshot()
		after := service.Refresh()
		for i, m := range after.Metrics {
			if m.Value == nil {
				continue
			}
			Expect(*m.Value).To(BeNumerically("~", *before.Metrics[i].Value, 2.5))
		}
	})

	It("hands out copies", func() {
		snap := service.Snapshot()
		*snap.Metrics[2].Value = 999
		Expect(*service.Snapshot().Metrics[2].Value).To(Equal(45.0))
	})

	It("resolves an incident once", func() {
		inc, err := service.ResolveIncident("1")
		Expect(err).NotTo(HaveOccurred())
		Expect(inc.Status).To(Equal(monitoring.IncidentResolved))
		Expect(inc.ResolvedTime).NotTo(BeNil())
		Expect(service.Snapshot().Stats.ActiveIncidents).To(BeZero())

		_, err = service.ResolveIncident("1")
		Expect(err).To(HaveOccurred())
	})

	It("stops the refresh loop with its context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			service.Run(ctx, time.Millisecond)
			close(done)
		}()
		cancel()
		Eventually(done).Should(BeClosed())
	})

	It("answers 404 for an unknown incident", func() {
		handler := monitoring.NewHandler(transport.NewBaseHandler(testhelper.QuietLogger()), service)
		rec := httptest.NewRecorder()
		handler.ResolveIncident(rec, testhelper.Request(http.MethodPost, "/", nil, testhelper.User(1, 1), map[string]string{"id": "9"}))
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})
})
