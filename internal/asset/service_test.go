package asset_test

import (
	"context"
	"encoding/json"
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/asset"
	"github.com/frahmantamala/helpdesk-console/internal/asset/postgres"
	"github.com/frahmantamala/helpdesk-console/internal/core/common/optional"
	assetDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/asset"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	"github.com/frahmantamala/helpdesk-console/internal/testhelper"
)

func fieldsOf(err error) []string {
	details, ok := internal.AsAppError(err).Details.(internal.ValidationErrors)
	Expect(ok).To(BeTrue())
	return details.Fields()
}

func laptopForm() asset.Form {
	return asset.Form{
		Name:          optional.Of("Dell Laptop"),
		PurchaseDate:  optional.Of("2024-01-15"),
		PurchasePrice: optional.Of("1500.00"),
	}
}

var _ = Describe("AssetService", func() {
	var (
		db      *gorm.DB
		service *asset.Service
		deps    resource.Deps
		ctx     context.Context
		scope   internal.Scope
	)

	BeforeEach(func() {
		var err error
		db, err = testhelper.NewSQLite(&assetDatamodel.Asset{})
		Expect(err).NotTo(HaveOccurred())

		lg := testhelper.QuietLogger()
		deps = testhelper.Deps(lg)
		repo := postgres.NewAssetRepository(db, deps.Policies.For(resource.EntityAssets))
		service = asset.NewService(repo, nil, deps, lg)
		ctx = context.Background()
		scope = internal.ScopeFor(testhelper.User(1, 10))
	})

	AfterEach(func() {
		Expect(testhelper.Close(db)).To(Succeed())
	})

	Describe("Create", func() {
		It("defaults the status and seeds the current value", func() {
			a, err := service.Create(ctx, scope, laptopForm())
			Expect(err).NotTo(HaveOccurred())
			Expect(a.ID).To(BeNumerically(">", 0))
			Expect(a.Status).To(Equal(asset.StatusActive))
			Expect(a.PurchasePrice).To(Equal(1500.00))
			Expect(a.CurrentValue).NotTo(BeNil())
			Expect(*a.CurrentValue).To(Equal(1500.00))
			Expect(a.TenantID).To(Equal(int64(1)))
			Expect(*a.OrganisationID).To(Equal(int64(10)))
		})

		It("keeps a supplied status", func() {
			form := laptopForm()
			form.Status = optional.Of(asset.StatusMaintenance)
			a, err := service.Create(ctx, scope, form)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Status).To(Equal(asset.StatusMaintenance))
		})

		It("stores a blank optional number as NULL", func() {
			form := laptopForm()
			form.SalvageValue = optional.Of("")
			a, err := service.Create(ctx, scope, form)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.SalvageValue).To(BeNil())
		})

		It("reports every invalid field without writing", func() {
			_, err := service.Create(ctx, scope, asset.Form{
				PurchasePrice: optional.Of("fifteen"),
				Status:        optional.Of("stolen"),
			})
			Expect(err).To(HaveOccurred())

			appErr := internal.AsAppError(err)
			details, ok := appErr.Details.(internal.ValidationErrors)
			Expect(ok).To(BeTrue())
			Expect(details.Fields()).To(ConsistOf("name", "purchase_date", "purchase_price", "status"))

			var count int64
			db.Model(&assetDatamodel.Asset{}).Count(&count)
			Expect(count).To(BeZero())
		})

		It("rejects prices that are not finite and keeps the list readable", func() {
			for _, price := range []string{"NaN", "Inf", "infinity"} {
				form := laptopForm()
				form.PurchasePrice = optional.Of(price)
				_, err := service.Create(ctx, scope, form)
				Expect(err).To(HaveOccurred(), price)
				Expect(fieldsOf(err)).To(ConsistOf("purchase_price"), price)
			}

			_, err := service.Create(ctx, scope, laptopForm())
			Expect(err).NotTo(HaveOccurred())

			page, err := service.List(ctx, scope, url.Values{})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Count).To(Equal(1))
			_, err = json.Marshal(page)
			Expect(err).NotTo(HaveOccurred())
		})

		It("refuses sessions without a scope", func() {
			_, err := service.Create(ctx, internal.Scope{UserID: 1}, laptopForm())
			Expect(err).To(MatchError(internal.ErrScopeUnresolved))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			for i, status := range []string{"active", "maintenance", "active", "maintenance", "retired"} {
				form := laptopForm()
				form.Name = optional.Of([]string{"Dell", "HP", "Lenovo", "Mac", "Asus"}[i] + " Laptop")
				form.Status = optional.Of(status)
				_, err := service.Create(ctx, scope, form)
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("returns only matching rows, newest first", func() {
			page, err := service.List(ctx, scope, url.Values{"status": {"maintenance"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Count).To(Equal(2))
			Expect(page.Items[0].Name).To(Equal("Mac Laptop"))
			Expect(page.Items[1].Name).To(Equal("HP Laptop"))
			Expect(page.FiltersApplied).To(BeTrue())
		})

		It("searches case-insensitively after retrieval", func() {
			page, err := service.List(ctx, scope, url.Values{"search": {"LENOVO"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Count).To(Equal(1))
		})

		It("explains an empty result", func() {
			page, err := service.List(ctx, scope, url.Values{"status": {"disposed"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Items).To(BeEmpty())
			Expect(page.EmptyState).To(Equal(resource.EmptyNoMatches))
		})

		It("is empty for a session without a scope", func() {
			page, err := service.List(ctx, internal.Scope{UserID: 1}, url.Values{})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Items).To(BeEmpty())
			Expect(page.EmptyState).To(Equal(resource.EmptyNoEntities))
		})

		It("sees a new asset after the cache is invalidated by create", func() {
			before, err := service.List(ctx, scope, url.Values{})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(ctx, scope, laptopForm())
			Expect(err).NotTo(HaveOccurred())

			after, err := service.List(ctx, scope, url.Values{})
			Expect(err).NotTo(HaveOccurred())
			Expect(after.Count).To(Equal(before.Count + 1))
		})
	})

	Describe("Update", func() {
		var created *asset.Asset

		BeforeEach(func() {
			form := laptopForm()
			form.SalvageValue = optional.Of("200")
			var err error
			created, err = service.Create(ctx, scope, form)
			Expect(err).NotTo(HaveOccurred())
		})

		It("clears a blank optional number and leaves the current value", func() {
			updated, err := service.Update(ctx, scope, created.ID, asset.Form{
				SalvageValue:  optional.Of(""),
				PurchasePrice: optional.Of("1200"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.SalvageValue).To(BeNil())
			Expect(updated.PurchasePrice).To(Equal(1200.0))
			Expect(*updated.CurrentValue).To(Equal(1500.0))
		})

		It("is idempotent", func() {
			form := asset.Form{Name: optional.Of("Dell XPS"), UsefulLifeYears: optional.Of("4")}
			once, err := service.Update(ctx, scope, created.ID, form)
			Expect(err).NotTo(HaveOccurred())
			twice, err := service.Update(ctx, scope, created.ID, form)
			Expect(err).NotTo(HaveOccurred())

			Expect(twice.Name).To(Equal(once.Name))
			Expect(*twice.UsefulLifeYears).To(Equal(*once.UsefulLifeYears))
			Expect(twice.Status).To(Equal(once.Status))
		})

		It("rejects a required field sent blank", func() {
			_, err := service.Update(ctx, scope, created.ID, asset.Form{Name: optional.Of("  ")})
			Expect(err).To(HaveOccurred())
			Expect(internal.AsAppError(err).Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("reports a missing asset", func() {
			_, err := service.Update(ctx, scope, 999, asset.Form{Name: optional.Of("x")})
			Expect(err).To(MatchError(internal.ErrNotFound))
		})
	})

	Describe("Delete", func() {
		It("soft-deletes only after confirmation", func() {
			a, err := service.Create(ctx, scope, laptopForm())
			Expect(err).NotTo(HaveOccurred())

			ticket, err := service.Delete(ctx, scope, a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ticket.State).To(Equal(resource.StateConfirmPending))

			page, _ := service.List(ctx, scope, url.Values{})
			Expect(page.Count).To(Equal(1))

			_, err = deps.Confirmations.Confirm(ctx, scope, ticket.Token)
			Expect(err).NotTo(HaveOccurred())

			page, _ = service.List(ctx, scope, url.Values{})
			Expect(page.Items).To(BeEmpty())

			got, err := service.Get(ctx, scope, a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.IsDeleted).To(BeTrue())

			_, err = service.Delete(ctx, scope, a.ID)
			Expect(err).To(MatchError(internal.ErrNotFound))
		})
	})

	Describe("Detail", func() {
		It("shows history and a depreciation placeholder", func() {
			a, err := service.Create(ctx, scope, laptopForm())
			Expect(err).NotTo(HaveOccurred())

			detail, err := service.Detail(ctx, scope, a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(detail.Entity.ID).To(Equal(a.ID))
			Expect(detail.Tabs).To(HaveLen(2))
			Expect(detail.Tabs[0].State).To(Equal(resource.TabReady))
			Expect(detail.Tabs[1].State).To(Equal(resource.TabUnimplemented))
		})

		It("fails for an unknown asset", func() {
			_, err := service.Detail(ctx, scope, 404)
			Expect(err).To(MatchError(internal.ErrNotFound))
		})
	})
})
