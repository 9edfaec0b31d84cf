package audit_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/audit"
	"github.com/frahmantamala/helpdesk-console/internal/audit/postgres"
	"github.com/frahmantamala/helpdesk-console/internal/core/common/optional"
	auditDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/audit"
	kbDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/kb"
	"github.com/frahmantamala/helpdesk-console/internal/core/events"
	"github.com/frahmantamala/helpdesk-console/internal/kb"
	kbPostgres "github.com/frahmantamala/helpdesk-console/internal/kb/postgres"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	"github.com/frahmantamala/helpdesk-console/internal/testhelper"
	"github.com/frahmantamala/helpdesk-console/internal/transport"
)

var _ = Describe("Audit", func() {
	var (
		db       *gorm.DB
		bus      *events.EventBus
		notifier *resource.Notifier
		service  *audit.Service
		ctx      context.Context
		scope    internal.Scope
	)

	BeforeEach(func() {
		var err error
		db, err = testhelper.NewSQLite(&auditDatamodel.Log{}, &kbDatamodel.Article{})
		Expect(err).NotTo(HaveOccurred())

		lg := testhelper.QuietLogger()
		repo := postgres.NewAuditRepository(db)
		bus = events.NewEventBus(lg)
		audit.NewRecorder(repo, lg).Attach(bus)
		notifier = resource.NewNotifier(resource.NewQueryCache(lg), bus, lg)
		service = audit.NewService(repo, lg)
		ctx = context.Background()
		scope = internal.ScopeFor(testhelper.User(3, 8))
	})

	AfterEach(func() {
		bus.Wait()
		Expect(testhelper.Close(db)).To(Succeed())
	})

	It("writes one row per affected id", func() {
		notifier.Changed(ctx, resource.Change{
			Entity: resource.EntityTickets,
			Action: resource.ActionBulkUpdate,
			IDs:    []int64{4, 5, 6},
			Scope:  scope,
			Data:   map[string]any{"status": "resolved"},
		})
		bus.Wait()

		page, err := service.List(ctx, scope, url.Values{"resource_type": {resource.EntityTickets}})
		Expect(err).NotTo(HaveOccurred())
		Expect(page.Count).To(Equal(3))
		for _, l := range page.Items {
			Expect(l.Action).To(Equal(resource.ActionBulkUpdate))
			Expect(l.ActorID).To(Equal(int64(3)))
			var changes map[string]any
			Expect(json.Unmarshal(l.Changes, &changes)).To(Succeed())
			Expect(changes).To(HaveKeyWithValue("status", "resolved"))
		}
	})

	It("keeps other organisations' entries out of reach", func() {
		other := internal.ScopeFor(testhelper.User(3, 9))
		notifier.Changed(ctx, resource.Change{Entity: resource.EntityAssets, Action: resource.ActionCreate, IDs: []int64{1}, Scope: other})
		bus.Wait()

		page, err := service.List(ctx, scope, url.Values{})
		Expect(err).NotTo(HaveOccurred())
		Expect(page.Items).To(BeEmpty())

		history, err := service.History(ctx, scope, resource.EntityAssets, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(history).To(BeEmpty())
	})

	It("feeds the article history tab newest first", func() {
		deps := testhelper.Deps(testhelper.QuietLogger())
		deps.Notifier = notifier
		articles := kb.NewService(kbPostgres.NewArticleRepository(db, resource.SoftDelete), service, deps, testhelper.QuietLogger())

		a, err := articles.Create(ctx, scope, kb.Form{Title: optional.Of("VPN"), Content: optional.Of("Steps")})
		Expect(err).NotTo(HaveOccurred())
		bus.Wait()
		_, err = articles.Act(ctx, scope, a.ID, kb.ActionPublish)
		Expect(err).NotTo(HaveOccurred())
		bus.Wait()

		detail, err := articles.Detail(ctx, scope, a.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(detail.Tabs[0].State).To(Equal(resource.TabReady))
		entries, ok := detail.Tabs[0].Items.([]resource.HistoryEntry)
		Expect(ok).To(BeTrue())
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Action).To(Equal(kb.ActionPublish))
		Expect(entries[1].Action).To(Equal(resource.ActionCreate))
	})

	It("filters by action through the handler", func() {
		notifier.Changed(ctx, resource.Change{Entity: resource.EntityAssets, Action: resource.ActionCreate, IDs: []int64{1}, Scope: scope})
		notifier.Changed(ctx, resource.Change{Entity: resource.EntityAssets, Action: resource.ActionSoftDelete, IDs: []int64{1}, Scope: scope})
		bus.Wait()

		handler := audit.NewHandler(transport.NewBaseHandler(testhelper.QuietLogger()), service)
		rec := httptest.NewRecorder()
		handler.ListAuditLogs(rec, testhelper.Request(http.MethodGet, "/api/v1/audit-logs?action=soft_delete", nil, testhelper.User(3, 8), nil))
		Expect(rec.Code).To(Equal(http.StatusOK))

		var body struct {
			Items []audit.Log `json:"items"`
			Count int         `json:"count"`
		}
		Expect(testhelper.Decode(rec, &body)).To(Succeed())
		Expect(body.Count).To(Equal(1))
		Expect(body.Items[0].Action).To(Equal(resource.ActionSoftDelete))
	})

	It("ignores changes without ids", func() {
		recorder := audit.NewRecorder(postgres.NewAuditRepository(db), testhelper.QuietLogger())
		Expect(recorder.Handle(ctx, events.NewResourceChangedEvent(events.ResourceChange{Entity: "assets"}))).To(Succeed())
	})
})
