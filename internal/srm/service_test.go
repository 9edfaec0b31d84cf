package srm_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/core/common/optional"
	srmDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/srm"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	"github.com/frahmantamala/helpdesk-console/internal/srm"
	"github.com/frahmantamala/helpdesk-console/internal/testhelper"
)

// MockRequestRepository implements srm.RequestRepositoryAPI in memory.
type MockRequestRepository struct {
	mu         sync.Mutex
	rows       map[int64]*srmDatamodel.Request
	nextID     int64
	shouldFail bool
	failError  error
}

func NewMockRequestRepository() *MockRequestRepository {
	return &MockRequestRepository{rows: make(map[int64]*srmDatamodel.Request)}
}

func (m *MockRequestRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRequestRepository) List(ctx context.Context, scope internal.Scope, predicates map[string]any) ([]srmDatamodel.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		return nil, m.failError
	}
	out := []srmDatamodel.Request{}
	for _, r := range m.rows {
		if status, ok := predicates["status"]; ok && r.Status != status {
			continue
		}
		if priority, ok := predicates["priority"]; ok && r.Priority != priority {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MockRequestRepository) GetByID(ctx context.Context, scope internal.Scope, id int64) (*srmDatamodel.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		return nil, m.failError
	}
	r, ok := m.rows[id]
	if !ok {
		return nil, internal.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MockRequestRepository) Create(ctx context.Context, row *srmDatamodel.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		return m.failError
	}
	m.nextID++
	row.ID = m.nextID
	row.RequestNumber = fmt.Sprintf("SR-%06d", m.nextID)
	row.CreatedAt = time.Now()
	cp := *row
	m.rows[row.ID] = &cp
	return nil
}

func (m *MockRequestRepository) apply(r *srmDatamodel.Request, columns map[string]any) {
	for col, v := range columns {
		switch col {
		case "title":
			r.Title = v.(string)
		case "priority":
			r.Priority = v.(string)
		case "status":
			r.Status = v.(string)
		case "fulfilled_at":
			t := v.(time.Time)
			r.FulfilledAt = &t
		case "description":
			if v == nil {
				r.Description = nil
			} else {
				s := v.(string)
				r.Description = &s
			}
		}
	}
}

func (m *MockRequestRepository) Update(ctx context.Context, scope internal.Scope, id int64, columns map[string]any) (*srmDatamodel.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		return nil, m.failError
	}
	r, ok := m.rows[id]
	if !ok {
		return nil, internal.ErrNotFound
	}
	m.apply(r, columns)
	cp := *r
	return &cp, nil
}

func (m *MockRequestRepository) Advance(ctx context.Context, scope internal.Scope, id int64, from string, columns map[string]any) (*srmDatamodel.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		return nil, m.failError
	}
	r, ok := m.rows[id]
	if !ok {
		return nil, internal.ErrNotFound
	}
	if r.Status != from {
		return nil, internal.NewConflictError("moved", internal.ErrCodeInvalidTransition)
	}
	m.apply(r, columns)
	cp := *r
	return &cp, nil
}

func (m *MockRequestRepository) Delete(ctx context.Context, scope internal.Scope, ids []int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		return 0, m.failError
	}
	for _, id := range ids {
		delete(m.rows, id)
	}
	return int64(len(ids)), nil
}

func (m *MockRequestRepository) Policy() resource.DeletePolicy {
	return resource.HardDelete
}

var _ = Describe("RequestService", func() {
	var (
		mockRepo *MockRequestRepository
		service  *srm.RequestService
		deps     resource.Deps
		ctx      context.Context
		scope    internal.Scope
	)

	BeforeEach(func() {
		mockRepo = NewMockRequestRepository()
		lg := testhelper.QuietLogger()
		deps = testhelper.Deps(lg)
		service = srm.NewRequestService(mockRepo, nil, deps, lg)
		ctx = context.Background()
		scope = internal.ScopeFor(testhelper.User(4, 2))
	})

	Describe("Create", func() {
		It("starts pending with medium priority", func() {
			r, err := service.Create(ctx, scope, srm.RequestForm{Title: optional.Of("New laptop")})
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Status).To(Equal(srm.RequestPending))
			Expect(r.Priority).To(Equal("medium"))
			Expect(r.RequesterID).To(Equal(int64(4)))
			Expect(r.RequestNumber).To(Equal("SR-000001"))
		})

		It("requires a title", func() {
			_, err := service.Create(ctx, scope, srm.RequestForm{Title: optional.Of("   ")})
			Expect(err).To(HaveOccurred())
		})

		Context("when the repository fails", func() {
			BeforeEach(func() {
				mockRepo.SetShouldFail(true, errors.New("database error"))
			})

			It("returns the error", func() {
				_, err := service.Create(ctx, scope, srm.RequestForm{Title: optional.Of("New laptop")})
				Expect(err).To(MatchError(ContainSubstring("database error")))
			})
		})
	})

	Describe("Act", func() {
		var id int64

		BeforeEach(func() {
			r, err := service.Create(ctx, scope, srm.RequestForm{Title: optional.Of("New laptop")})
			Expect(err).NotTo(HaveOccurred())
			id = r.ID
		})

		It("stamps fulfilled_at on fulfil", func() {
			started, err := service.Act(ctx, scope, id, srm.ActionStart)
			Expect(err).NotTo(HaveOccurred())
			Expect(started.Status).To(Equal(srm.RequestInProgress))
			Expect(started.FulfilledAt).To(BeNil())

			done, err := service.Act(ctx, scope, id, srm.ActionFulfil)
			Expect(err).NotTo(HaveOccurred())
			Expect(done.Status).To(Equal(srm.RequestFulfilled))
			Expect(done.FulfilledAt).NotTo(BeNil())
		})

		It("refuses to fulfil a pending request", func() {
			_, err := service.Act(ctx, scope, id, srm.ActionFulfil)
			Expect(err).To(MatchError(ContainSubstring("cannot fulfil a pending request")))
		})

		It("rejects from pending", func() {
			r, err := service.Act(ctx, scope, id, srm.ActionReject)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Status).To(Equal(srm.RequestRejected))

			d, err := service.Detail(ctx, scope, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Actions).To(BeEmpty())
		})
	})

	Describe("List", func() {
		It("filters by status and invalidates on change", func() {
			a, err := service.Create(ctx, scope, srm.RequestForm{Title: optional.Of("A")})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Create(ctx, scope, srm.RequestForm{Title: optional.Of("B")})
			Expect(err).NotTo(HaveOccurred())

			page, err := service.List(ctx, scope, url.Values{"status": {srm.RequestInProgress}})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.EmptyState).To(Equal(resource.EmptyNoMatches))

			_, err = service.Act(ctx, scope, a.ID, srm.ActionStart)
			Expect(err).NotTo(HaveOccurred())

			page, err = service.List(ctx, scope, url.Values{"status": {srm.RequestInProgress}})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Items).To(HaveLen(1))
			Expect(page.Items[0].Title).To(Equal("A"))
		})
	})

	Describe("Delete", func() {
		It("removes the request after confirmation", func() {
			r, err := service.Create(ctx, scope, srm.RequestForm{Title: optional.Of("A")})
			Expect(err).NotTo(HaveOccurred())

			t, err := service.Delete(ctx, scope, r.ID)
			Expect(err).NotTo(HaveOccurred())
			_, err = deps.Confirmations.Confirm(ctx, scope, t.Token)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Get(ctx, scope, r.ID)
			Expect(err).To(MatchError(internal.ErrNotFound))
		})
	})
})
