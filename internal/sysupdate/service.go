package sysupdate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/helpdesk-console/internal"
)

var errUpdateNotFound = internal.NewNotFoundError("system update not found", internal.ErrCodeResourceNotFound)

// Service keeps the catalog in memory. Installs advance on their own
// goroutine until Close.
type Service struct {
	mu      sync.RWMutex
	order   []string
	updates map[string]*Update

	tick   time.Duration
	step   int
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewService(catalog []Update, cfg internal.SimulationConfig, logger *slog.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		updates: make(map[string]*Update, len(catalog)),
		tick:    cfg.UpdateTick,
		step:    cfg.UpdateStep,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
	if s.tick <= 0 {
		s.tick = 500 * time.Millisecond
	}
	if s.step <= 0 {
		s.step = 10
	}
	var resume []string
	for i := range catalog {
		u := catalog[i]
		s.order = append(s.order, u.ID)
		s.updates[u.ID] = &u
		if u.Status == StatusInstalling {
			resume = append(resume, u.ID)
		}
	}
	for _, id := range resume {
		s.run(id)
	}
	return s
}

func (s *Service) List(category, search string) []Update {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Update{}
	for _, id := range s.order {
		if u := s.updates[id]; u.matches(category, search) {
			out = append(out, snapshot(u))
		}
	}
	return out
}

func (s *Service) Get(id string) (Update, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.updates[id]
	if !ok {
		return Update{}, errUpdateNotFound
	}
	return snapshot(u), nil
}

func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{Categories: map[string]int{"all": len(s.order)}}
	for _, u := range s.updates {
		st.Categories[u.Category]++
		switch u.Status {
		case StatusPending:
			st.Pending++
		case StatusInstalled:
			st.Installed++
		case StatusFailed:
			st.Failed++
		}
	}
	return st
}

func (s *Service) Schedule(id string, at time.Time) (Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.updates[id]
	if !ok {
		return Update{}, errUpdateNotFound
	}
	if err := busy(u, "schedule"); err != nil {
		return Update{}, err
	}
	u.Status = StatusScheduled
	u.ScheduledAt = &at
	s.logger.Info("system update scheduled", "update_id", id, "at", at)
	return snapshot(u), nil
}

func (s *Service) Install(id string) (Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.updates[id]
	if !ok {
		return Update{}, errUpdateNotFound
	}
	if err := busy(u, "install"); err != nil {
		return Update{}, err
	}
	s.start(u)
	return snapshot(u), nil
}

// InstallAll starts every pending update and returns the ones started.
func (s *Service) InstallAll() []Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	started := []Update{}
	for _, id := range s.order {
		u := s.updates[id]
		if u.Status != StatusPending {
			continue
		}
		s.start(u)
		started = append(started, snapshot(u))
	}
	return started
}

// Refresh acknowledges a manual refresh. There is no upstream to poll.
func (s *Service) Refresh() Stats {
	return s.Stats()
}

// Close stops every running install and waits for the goroutines.
func (s *Service) Close() {
	s.cancel()
	s.wg.Wait()
}

func busy(u *Update, verb string) error {
	if u.Status == StatusInstalling || u.Status == StatusInstalled {
		return internal.NewValidationError("cannot "+verb+" an update that is "+u.Status, internal.ErrCodeInvalidTransition)
	}
	return nil
}

// start must be called with mu held.
func (s *Service) start(u *Update) {
	zero := 0
	u.Status = StatusInstalling
	u.Progress = &zero
	u.ScheduledAt = nil
	s.logger.Info("system update installing", "update_id", u.ID)
	s.run(u.ID)
}

func (s *Service) run(id string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				if s.advance(id) {
					return
				}
			}
		}
	}()
}

// advance moves one install forward and reports whether it finished.
func (s *Service) advance(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.updates[id]
	if u.Status != StatusInstalling || u.Progress == nil {
		return true
	}
	next := min(*u.Progress+s.step, 100)
	if next < 100 {
		u.Progress = &next
		return false
	}
	u.Status = StatusInstalled
	u.Progress = nil
	s.logger.Info("system update installed", "update_id", id)
	return true
}

func snapshot(u *Update) Update {
	out := *u
	if u.Progress != nil {
		p := *u.Progress
		out.Progress = &p
	}
	if u.ScheduledAt != nil {
		t := *u.ScheduledAt
		out.ScheduledAt = &t
	}
	return out
}
