package monitoring

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/frahmantamala/helpdesk-console/internal"
)

type Service struct {
	mu        sync.Mutex
	dashboard Dashboard
	jitter    float64
	random    func() float64
	now       func() time.Time
	logger    *slog.Logger
}

func NewService(dashboard Dashboard, cfg internal.SimulationConfig, logger *slog.Logger) *Service {
	s := &Service{
		dashboard: dashboard.clone(),
		jitter:    cfg.MetricJitter,
		random:    rand.Float64,
		now:       time.Now,
		logger:    logger,
	}
	at := s.now()
	for i := range s.dashboard.Metrics {
		s.dashboard.Metrics[i].LastUpdated = at
	}
	for i := range s.dashboard.Services {
		s.dashboard.Services[i].LastChecked = at
	}
	for i := range s.dashboard.Incidents {
		s.dashboard.Incidents[i].StartTime = at.Add(-s.dashboard.Incidents[i].StartedAgo)
	}
	return s
}

func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Dashboard: s.dashboard.clone(), Stats: s.dashboard.stats()}
}

// Refresh nudges every numeric metric by at most half the jitter either
// way, clamped to 0..100, and stamps every reading.
func (s *Service) Refresh() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	at := s.now()
	for i := range s.dashboard.Metrics {
		m := &s.dashboard.Metrics[i]
		m.LastUpdated = at
		if m.Value == nil {
			continue
		}
		v := clamp(*m.Value+(s.random()-0.5)*s.jitter, 0, 100)
		m.Value = &v
	}
	for i := range s.dashboard.Services {
		s.dashboard.Services[i].LastChecked = at
	}
	return Snapshot{Dashboard: s.dashboard.clone(), Stats: s.dashboard.stats()}
}

func (s *Service) ResolveIncident(id string) (Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.dashboard.Incidents {
		inc := &s.dashboard.Incidents[i]
		if inc.ID != id {
			continue
		}
		if inc.Status == IncidentResolved {
			return Incident{}, internal.NewValidationError("incident is already resolved", internal.ErrCodeInvalidTransition)
		}
		at := s.now()
		inc.Status = IncidentResolved
		inc.ResolvedTime = &at
		s.logger.Info("incident resolved", "incident_id", id)
		return s.dashboard.clone().Incidents[i], nil
	}
	return Incident{}, internal.NewNotFoundError("incident not found", internal.ErrCodeResourceNotFound)
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}

// Run refreshes the dashboard every interval until ctx ends.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh()
		}
	}
}
