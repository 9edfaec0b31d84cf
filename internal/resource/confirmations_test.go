package resource_test

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Confirmation", func() {
	It("walks the happy path to Done", func() {
		c := resource.NewConfirmation()
		Expect(c.State()).To(Equal(resource.StateIdle))
		Expect(c.Request()).To(Succeed())
		Expect(c.Confirm()).To(Succeed())
		Expect(c.Begin()).To(Succeed())
		Expect(c.Finish(nil)).To(Succeed())
		Expect(c.State()).To(Equal(resource.StateDone))
	})

	It("returns to ConfirmPending when the delete fails", func() {
		c := resource.NewConfirmation()
		Expect(c.Request()).To(Succeed())
		Expect(c.Confirm()).To(Succeed())
		Expect(c.Begin()).To(Succeed())
		Expect(c.Finish(errors.New("store down"))).To(Succeed())
		Expect(c.State()).To(Equal(resource.StateConfirmPending))
	})

	It("cancels back to Idle", func() {
		c := resource.NewConfirmation()
		Expect(c.Request()).To(Succeed())
		Expect(c.Cancel()).To(Succeed())
		Expect(c.State()).To(Equal(resource.StateIdle))
	})

	It("rejects illegal transitions", func() {
		c := resource.NewConfirmation()
		Expect(c.Confirm()).To(MatchError(resource.ErrInvalidTransition))
		Expect(c.Cancel()).To(MatchError(resource.ErrInvalidTransition))
		Expect(c.Finish(nil)).To(MatchError(resource.ErrInvalidTransition))
	})
})

var _ = Describe("Confirmations", func() {
	var (
		store   *resource.Confirmations
		scope   internal.Scope
		deleted [][]int64
		failing bool
		ctx     context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		scope = internal.Scope{UserID: 3, OrganisationID: 1}
		deleted = nil
		failing = false
		store = resource.NewConfirmations(time.Minute, quietLogger())
		store.Register("helpdesk-tickets", func(ctx context.Context, s resource.Subject) error {
			if failing {
				return internal.NewNetworkError("store down", nil)
			}
			deleted = append(deleted, s.IDs)
			return nil
		})
	})

	It("runs the deleter only after confirmation", func() {
		ticket, err := store.Begin(resource.Subject{Entity: "helpdesk-tickets", IDs: []int64{4, 5}, Scope: scope})
		Expect(err).NotTo(HaveOccurred())
		Expect(ticket.State).To(Equal(resource.StateConfirmPending))
		Expect(ticket.Count).To(Equal(2))
		Expect(deleted).To(BeEmpty())

		done, err := store.Confirm(ctx, scope, ticket.Token)
		Expect(err).NotTo(HaveOccurred())
		Expect(done.State).To(Equal(resource.StateDone))
		Expect(deleted).To(Equal([][]int64{{4, 5}}))

		_, err = store.Confirm(ctx, scope, ticket.Token)
		Expect(err).To(MatchError(internal.ErrConfirmationNotFound))
	})

	It("does not call the deleter on cancel", func() {
		ticket, err := store.Begin(resource.Subject{Entity: "helpdesk-tickets", IDs: []int64{4}, Scope: scope})
		Expect(err).NotTo(HaveOccurred())

		cancelled, err := store.Cancel(scope, ticket.Token)
		Expect(err).NotTo(HaveOccurred())
		Expect(cancelled.State).To(Equal(resource.StateIdle))
		Expect(deleted).To(BeEmpty())

		_, err = store.Confirm(ctx, scope, ticket.Token)
		Expect(err).To(MatchError(internal.ErrConfirmationNotFound))
	})

	It("keeps a failed confirmation pending for a retry", func() {
		ticket, err := store.Begin(resource.Subject{Entity: "helpdesk-tickets", IDs: []int64{9}, Scope: scope})
		Expect(err).NotTo(HaveOccurred())

		failing = true
		res, err := store.Confirm(ctx, scope, ticket.Token)
		Expect(err).To(HaveOccurred())
		Expect(res.State).To(Equal(resource.StateConfirmPending))

		failing = false
		res, err = store.Confirm(ctx, scope, ticket.Token)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.State).To(Equal(resource.StateDone))
	})

	It("hides a confirmation from another scope", func() {
		ticket, err := store.Begin(resource.Subject{Entity: "helpdesk-tickets", IDs: []int64{4}, Scope: scope})
		Expect(err).NotTo(HaveOccurred())

		foreign := internal.Scope{UserID: 8, OrganisationID: 2}
		_, err = store.Confirm(ctx, foreign, ticket.Token)
		Expect(err).To(MatchError(internal.ErrConfirmationNotFound))
		Expect(deleted).To(BeEmpty())
	})

	It("expires tokens after the ttl", func() {
		short := resource.NewConfirmations(5*time.Millisecond, quietLogger())
		short.Register("helpdesk-tickets", func(ctx context.Context, s resource.Subject) error { return nil })

		ticket, err := short.Begin(resource.Subject{Entity: "helpdesk-tickets", IDs: []int64{1}, Scope: scope})
		Expect(err).NotTo(HaveOccurred())
		time.Sleep(20 * time.Millisecond)

		_, err = short.Confirm(ctx, scope, ticket.Token)
		Expect(err).To(MatchError(internal.ErrConfirmationNotFound))
	})

	It("rejects unknown tokens, empty selections and unresolved scopes", func() {
		_, err := store.Confirm(ctx, scope, "does-not-exist")
		Expect(err).To(MatchError(internal.ErrConfirmationNotFound))

		_, err = store.Begin(resource.Subject{Entity: "helpdesk-tickets", Scope: scope})
		Expect(err).To(MatchError(internal.ErrEmptySelection))

		_, err = store.Begin(resource.Subject{Entity: "helpdesk-tickets", IDs: []int64{1}})
		Expect(err).To(MatchError(internal.ErrScopeUnresolved))
	})
})
