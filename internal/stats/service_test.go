package stats_test

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	"github.com/frahmantamala/helpdesk-console/internal/stats"
	"github.com/frahmantamala/helpdesk-console/internal/stats/postgres"
	"github.com/frahmantamala/helpdesk-console/internal/testhelper"
)

const schema = `
CREATE TABLE itam_assets (id INTEGER PRIMARY KEY, status TEXT NOT NULL, organisation_id INTEGER, tenant_id INTEGER NOT NULL, is_deleted BOOLEAN NOT NULL DEFAULT 0);
CREATE TABLE helpdesk_tickets (id INTEGER PRIMARY KEY, status TEXT NOT NULL, organisation_id INTEGER, tenant_id INTEGER NOT NULL);
CREATE TABLE assets (id INTEGER PRIMARY KEY, current_value REAL, organisation_id INTEGER, tenant_id INTEGER NOT NULL, is_deleted BOOLEAN NOT NULL DEFAULT 0);
`

var _ = Describe("Service", func() {
	var (
		db      *sqlx.DB
		cache   *resource.QueryCache
		service *stats.Service
		ctx     context.Context
		scope   internal.Scope
	)

	BeforeEach(func() {
		var err error
		db, err = sqlx.Open("sqlite3", ":memory:")
		Expect(err).NotTo(HaveOccurred())
		db.SetMaxOpenConns(1)
		_, err = db.Exec(schema)
		Expect(err).NotTo(HaveOccurred())

		lg := testhelper.QuietLogger()
		cache = resource.NewQueryCache(lg)
		service = stats.NewService(postgres.NewStatsRepository(db, "sqlite3"), cache, lg)
		ctx = context.Background()
		scope = internal.ScopeFor(testhelper.User(1, 2))
	})

	AfterEach(func() {
		Expect(db.Close()).To(Succeed())
	})

	It("counts live itam assets by status in the caller's organisation", func() {
		db.MustExec(`INSERT INTO itam_assets (status, organisation_id, tenant_id, is_deleted) VALUES
			('available', 2, 1, 0), ('available', 2, 1, 0), ('assigned', 2, 1, 0),
			('assigned', 2, 1, 1), ('available', 3, 1, 0)`)

		out, err := service.ITAM(ctx, scope)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Total).To(Equal(int64(3)))
		Expect(out.ByStatus).To(Equal(stats.StatusCounts{"available": 2, "assigned": 1}))
	})

	It("summarises tickets", func() {
		db.MustExec(`INSERT INTO helpdesk_tickets (status, organisation_id, tenant_id) VALUES
			('open', 2, 1), ('open', 2, 1), ('in_progress', 2, 1), ('resolved', 2, 1), ('closed', 2, 1)`)

		out, err := service.Helpdesk(ctx, scope)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Total).To(Equal(int64(5)))
		Expect(out.Open).To(Equal(int64(2)))
		Expect(out.InProgress).To(Equal(int64(1)))
		Expect(out.Resolved).To(Equal(int64(1)))
	})

	It("totals asset value and treats an empty table as zero", func() {
		empty, err := service.Assets(ctx, scope)
		Expect(err).NotTo(HaveOccurred())
		Expect(empty).To(Equal(stats.AssetStats{}))

		cache.Invalidate(resource.EntityAssetStats)
		db.MustExec(`INSERT INTO assets (current_value, organisation_id, tenant_id, is_deleted) VALUES
			(1000.5, 2, 1, 0), (NULL, 2, 1, 0), (200, 2, 1, 1)`)

		out, err := service.Assets(ctx, scope)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Count).To(Equal(int64(2)))
		Expect(out.TotalValue).To(BeNumerically("~", 1000.5, 0.001))
	})

	It("serves cached counts until the owning module invalidates them", func() {
		db.MustExec(`INSERT INTO helpdesk_tickets (status, organisation_id, tenant_id) VALUES ('open', 2, 1)`)
		first, err := service.Helpdesk(ctx, scope)
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Open).To(Equal(int64(1)))

		db.MustExec(`INSERT INTO helpdesk_tickets (status, organisation_id, tenant_id) VALUES ('open', 2, 1)`)
		cached, err := service.Helpdesk(ctx, scope)
		Expect(err).NotTo(HaveOccurred())
		Expect(cached.Open).To(Equal(int64(1)))

		Expect(cache.Invalidate(resource.EntityHelpdeskStats)).To(Equal(1))
		fresh, err := service.Helpdesk(ctx, scope)
		Expect(err).NotTo(HaveOccurred())
		Expect(fresh.Open).To(Equal(int64(2)))
	})

	It("returns zeroes for an unresolved scope", func() {
		out, err := service.ITAM(ctx, internal.Scope{UserID: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Total).To(BeZero())
	})
})
