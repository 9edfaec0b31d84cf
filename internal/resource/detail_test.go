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

type widget struct {
	ID     int64
	Status string
}

var _ = Describe("LoadDetail", func() {
	ctx := context.Background()
	loadWidget := func(ctx context.Context) (widget, error) {
		return widget{ID: 1, Status: "available"}, nil
	}

	It("marks only the failing child as failed", func() {
		children := []resource.Child{
			{Name: "history", Load: func(ctx context.Context) (any, error) { return []string{"created"}, nil }},
			{Name: "repairs", Load: func(ctx context.Context) (any, error) { return nil, errors.New("relation missing") }},
		}

		d, err := resource.LoadDetail(ctx, time.Second, loadWidget, children, []string{"contracts"})
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Entity.ID).To(Equal(int64(1)))
		Expect(d.Tabs).To(HaveLen(3))

		Expect(d.Tabs[0].Name).To(Equal("history"))
		Expect(d.Tabs[0].State).To(Equal(resource.TabReady))
		Expect(d.Tabs[0].Items).To(Equal([]string{"created"}))

		Expect(d.Tabs[1].State).To(Equal(resource.TabFailed))
		Expect(d.Tabs[1].Message).To(ContainSubstring("relation missing"))

		Expect(d.Tabs[2].Name).To(Equal("contracts"))
		Expect(d.Tabs[2].State).To(Equal(resource.TabUnimplemented))
		Expect(d.Tabs[2].Message).To(Equal(resource.ComingSoon))
	})

	It("fails a slow child on its own timeout", func() {
		children := []resource.Child{
			{Name: "assignments", Load: func(ctx context.Context) (any, error) {
				time.Sleep(200 * time.Millisecond)
				return []string{}, nil
			}},
		}

		start := time.Now()
		d, err := resource.LoadDetail(ctx, 20*time.Millisecond, loadWidget, children, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(time.Since(start)).To(BeNumerically("<", 150*time.Millisecond))
		Expect(d.Tabs[0].State).To(Equal(resource.TabFailed))
	})

	It("fails the whole detail when the entity is missing", func() {
		missing := func(ctx context.Context) (widget, error) { return widget{}, internal.ErrNotFound }
		_, err := resource.LoadDetail(ctx, time.Second, missing, nil, []string{"audit"})
		Expect(err).To(MatchError(internal.ErrNotFound))
	})
})

var _ = Describe("Vocabulary and Transitions", func() {
	statuses := resource.NewVocabulary("status", "available", "available", "assigned", "in_repair", "retired")
	transitions := resource.NewTransitions("asset",
		resource.Transition{Action: "assign", From: []string{"available"}, To: "assigned"},
		resource.Transition{Action: "return", From: []string{"assigned"}, To: "available"},
		resource.Transition{Action: "retire", From: []string{"available", "in_repair"}, To: "retired"},
	)

	It("defaults blank input to the initial value", func() {
		v, err := statuses.Resolve("")
		Expect(err).To(BeNil())
		Expect(v).To(Equal("available"))
	})

	It("rejects values outside the vocabulary", func() {
		_, err := statuses.Resolve("stolen")
		Expect(err).NotTo(BeNil())
		Expect(err.GetDetailedMessage()).To(ContainSubstring("status must be one of"))
	})

	It("computes the next status and the available actions", func() {
		next, err := transitions.Next("assign", "available")
		Expect(err).NotTo(HaveOccurred())
		Expect(next).To(Equal("assigned"))

		_, err = transitions.Next("return", "available")
		Expect(err).To(MatchError(ContainSubstring("cannot return a available asset")))

		Expect(transitions.Available("available")).To(Equal([]string{"assign", "retire"}))
		Expect(transitions.Available("retired")).To(BeEmpty())
	})
})
