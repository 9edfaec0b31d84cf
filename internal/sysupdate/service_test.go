package sysupdate_test

import (
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/sysupdate"
	"github.com/frahmantamala/helpdesk-console/internal/testhelper"
	"github.com/frahmantamala/helpdesk-console/internal/transport"
)

var _ = Describe("Service", func() {
	var service *sysupdate.Service

	BeforeEach(func() {
		catalog, err := sysupdate.LoadCatalog()
		Expect(err).NotTo(HaveOccurred())
		service = sysupdate.NewService(catalog, internal.SimulationConfig{
			UpdateTick: 5 * time.Millisecond,
			UpdateStep: 25,
		}, testhelper.QuietLogger())
	})

	AfterEach(func() {
		service.Close()
	})

	It("loads the embedded catalog", func() {
		Expect(service.List("", "")).To(HaveLen(10))
		st := service.Stats()
		Expect(st.Pending).To(Equal(5))
		Expect(st.Installed).To(Equal(2))
		Expect(st.Failed).To(Equal(1))
		Expect(st.Categories).To(HaveKeyWithValue("all", 10))
		Expect(st.Categories).To(HaveKeyWithValue("firmware", 2))
	})

	It("filters by category and searches title and description", func() {
		Expect(service.List("server", "")).To(HaveLen(2))
		Expect(service.List("all", "zero-day")).To(HaveLen(1))
		Expect(service.List("firmware", "EXCHANGE")).To(BeEmpty())
	})

	It("installs an update until it is done", func() {
		started, err := service.Install("1")
		Expect(err).NotTo(HaveOccurred())
		Expect(started.Status).To(Equal(sysupdate.StatusInstalling))
		Expect(*started.Progress).To(Equal(0))

		Eventually(func() string {
			u, _ := service.Get("1")
			return u.Status
		}).WithTimeout(2 * time.Second).Should(Equal(sysupdate.StatusInstalled))

		u, err := service.Get("1")
		Expect(err).NotTo(HaveOccurred())
		Expect(u.Progress).To(BeNil())
	})

	It("resumes the install already running in the catalog", func() {
		Eventually(func() string {
			u, _ := service.Get("6")
			return u.Status
		}).WithTimeout(2 * time.Second).Should(Equal(sysupdate.StatusInstalled))
	})

	It("refuses to install an installed update", func() {
		_, err := service.Install("4")
		Expect(err).To(MatchError(ContainSubstring("cannot install an update that is installed")))
	})

	It("schedules a failed update", func() {
		at := time.Date(2024, 2, 1, 22, 0, 0, 0, time.UTC)
		u, err := service.Schedule("8", at)
		Expect(err).NotTo(HaveOccurred())
		Expect(u.Status).To(Equal(sysupdate.StatusScheduled))
		Expect(*u.ScheduledAt).To(Equal(at))
	})

	It("reports an unknown update as not found", func() {
		_, err := service.Install("99")
		Expect(err).To(HaveOccurred())
		app, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(app.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("installs every pending update at once", func() {
		started := service.InstallAll()
		Expect(started).To(HaveLen(5))
		Expect(service.Stats().Pending).To(BeZero())

		Eventually(func() int {
			return service.Stats().Installed
		}).WithTimeout(2 * time.Second).Should(Equal(8))
	})

	It("rejects a schedule without a timestamp", func() {
		handler := sysupdate.NewHandler(transport.NewBaseHandler(testhelper.QuietLogger()), service)
		rec := httptest.NewRecorder()
		req := testhelper.Request(http.MethodPost, "/api/v1/system-updates/1/schedule", map[string]any{"scheduled_at": "tomorrow"}, testhelper.User(1, 1), map[string]string{"id": "1"})
		handler.ScheduleUpdate(rec, req)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})
})
