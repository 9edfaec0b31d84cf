package srm_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/core/common/optional"
	srmDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/srm"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	"github.com/frahmantamala/helpdesk-console/internal/srm"
	"github.com/frahmantamala/helpdesk-console/internal/srm/postgres"
	"github.com/frahmantamala/helpdesk-console/internal/testhelper"
)

var _ = Describe("ChangeService", func() {
	var (
		db      *gorm.DB
		service *srm.ChangeService
		ctx     context.Context
		scope   internal.Scope
	)

	BeforeEach(func() {
		var err error
		db, err = testhelper.NewSQLite(&srmDatamodel.Change{})
		Expect(err).NotTo(HaveOccurred())

		lg := testhelper.QuietLogger()
		deps := testhelper.Deps(lg)
		service = srm.NewChangeService(postgres.NewChangeRepository(db, deps.Policies.For(resource.EntityChangeRequests)), nil, deps, lg)
		ctx = context.Background()
		scope = internal.ScopeFor(testhelper.User(4, 2))
	})

	AfterEach(func() {
		Expect(testhelper.Close(db)).To(Succeed())
	})

	It("creates a draft change with a generated number", func() {
		c, err := service.Create(ctx, scope, srm.ChangeForm{
			Title:          optional.Of("Upgrade core switch"),
			RiskLevel:      optional.Of("high"),
			ScheduledStart: optional.Of("2024-03-01T22:00:00Z"),
			ScheduledEnd:   optional.Of("2024-03-02T02:00:00Z"),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.ChangeNumber).To(Equal("CHG-000001"))
		Expect(c.Status).To(Equal(srm.ChangeDraft))
		Expect(c.RiskLevel).To(Equal("high"))
		Expect(c.Impact).To(Equal("medium"))
		Expect(c.ScheduledStart).NotTo(BeNil())
	})

	It("refuses a window that ends before it starts", func() {
		_, err := service.Create(ctx, scope, srm.ChangeForm{
			Title:          optional.Of("Upgrade core switch"),
			ScheduledStart: optional.Of("2024-03-02T02:00:00Z"),
			ScheduledEnd:   optional.Of("2024-03-01T22:00:00Z"),
		})
		Expect(err).To(MatchError(ContainSubstring("scheduled_end must not be before scheduled_start")))
	})

	It("checks an edited end against the stored start", func() {
		c, err := service.Create(ctx, scope, srm.ChangeForm{
			Title:          optional.Of("Patch"),
			ScheduledStart: optional.Of("2024-03-01T22:00:00Z"),
		})
		Expect(err).NotTo(HaveOccurred())

		_, err = service.Update(ctx, scope, c.ID, srm.ChangeForm{ScheduledEnd: optional.Of("2024-02-01T00:00:00Z")})
		Expect(err).To(HaveOccurred())

		cleared, err := service.Update(ctx, scope, c.ID, srm.ChangeForm{ScheduledStart: optional.Of("")})
		Expect(err).NotTo(HaveOccurred())
		Expect(cleared.ScheduledStart).To(BeNil())
	})

	It("walks the approval lifecycle", func() {
		c, err := service.Create(ctx, scope, srm.ChangeForm{Title: optional.Of("Patch")})
		Expect(err).NotTo(HaveOccurred())

		for _, step := range []struct{ action, status string }{
			{srm.ActionSubmit, srm.ChangeSubmitted},
			{srm.ActionApprove, srm.ChangeApproved},
			{srm.ActionStart, srm.ChangeInProgress},
			{srm.ActionComplete, srm.ChangeCompleted},
		} {
			moved, err := service.Act(ctx, scope, c.ID, step.action)
			Expect(err).NotTo(HaveOccurred())
			Expect(moved.Status).To(Equal(step.status))
		}

		_, err = service.Act(ctx, scope, c.ID, srm.ActionFail)
		Expect(err).To(MatchError(ContainSubstring("cannot fail a completed change")))
	})

	It("rejects approving a draft", func() {
		c, err := service.Create(ctx, scope, srm.ChangeForm{Title: optional.Of("Patch")})
		Expect(err).NotTo(HaveOccurred())
		_, err = service.Act(ctx, scope, c.ID, srm.ActionApprove)
		Expect(err).To(HaveOccurred())

		d, err := service.Detail(ctx, scope, c.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Actions).To(Equal([]string{srm.ActionSubmit}))
	})
})
