// Package monitoring serves the monitoring dashboard from a fixture. There
// is no telemetry behind it.
package monitoring

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StatusHealthy  = "healthy"
	StatusWarning  = "warning"
	StatusCritical = "critical"

	IncidentResolved = "resolved"
)

//go:embed dashboard.yml
var dashboardYAML []byte

// Metric holds either a numeric Value or a Text reading.
type Metric struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Value       *float64  `yaml:"value" json:"value,omitempty"`
	Text        string    `yaml:"text" json:"text,omitempty"`
	Unit        string    `yaml:"unit" json:"unit,omitempty"`
	Status      string    `yaml:"status" json:"status"`
	Trend       string    `yaml:"trend" json:"trend"`
	Threshold   *float64  `yaml:"threshold" json:"threshold,omitempty"`
	LastUpdated time.Time `yaml:"-" json:"last_updated"`
}

type ServiceHealth struct {
	ID           string    `yaml:"id" json:"id"`
	Name         string    `yaml:"name" json:"name"`
	Status       string    `yaml:"status" json:"status"`
	Uptime       float64   `yaml:"uptime" json:"uptime"`
	ResponseTime int       `yaml:"response_time" json:"response_time"`
	Description  string    `yaml:"description" json:"description"`
	URL          string    `yaml:"url" json:"url,omitempty"`
	Incidents    int       `yaml:"incidents" json:"incidents"`
	LastChecked  time.Time `yaml:"-" json:"last_checked"`
}

type Incident struct {
	ID               string        `yaml:"id" json:"id"`
	Title            string        `yaml:"title" json:"title"`
	Description      string        `yaml:"description" json:"description"`
	Severity         string        `yaml:"severity" json:"severity"`
	Status           string        `yaml:"status" json:"status"`
	AffectedServices []string      `yaml:"affected_services" json:"affected_services"`
	StartedAgo       time.Duration `yaml:"started_ago" json:"-"`
	AssignedTo       string        `yaml:"assigned_to" json:"assigned_to,omitempty"`
	StartTime        time.Time     `yaml:"-" json:"start_time"`
	ResolvedTime     *time.Time    `yaml:"-" json:"resolved_time,omitempty"`
}

type Dashboard struct {
	Metrics   []Metric        `yaml:"metrics" json:"metrics"`
	Services  []ServiceHealth `yaml:"services" json:"services"`
	Incidents []Incident      `yaml:"incidents" json:"incidents"`
}

type Stats struct {
	Healthy         int `json:"healthy"`
	Warnings        int `json:"warnings"`
	Critical        int `json:"critical"`
	ActiveIncidents int `json:"active_incidents"`
}

type Snapshot struct {
	Dashboard
	Stats Stats `json:"stats"`
}

func LoadDashboard() (Dashboard, error) {
	return ParseDashboard(dashboardYAML)
}

func ParseDashboard(data []byte) (Dashboard, error) {
	var d Dashboard
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Dashboard{}, fmt.Errorf("failed to parse monitoring dashboard: %w", err)
	}
	return d, nil
}

func (d Dashboard) stats() Stats {
	var st Stats
	for _, m := range d.Metrics {
		switch m.Status {
		case StatusHealthy:
			st.Healthy++
		case StatusWarning:
			st.Warnings++
		case StatusCritical:
			st.Critical++
		}
	}
	for _, i := range d.Incidents {
		if i.Status != IncidentResolved {
			st.ActiveIncidents++
		}
	}
	return st
}

func (d Dashboard) clone() Dashboard {
	out := Dashboard{
		Metrics:   make([]Metric, len(d.Metrics)),
		Services:  make([]ServiceHealth, len(d.Services)),
		Incidents: make([]Incident, len(d.Incidents)),
	}
	for i, m := range d.Metrics {
		if m.Value != nil {
			v := *m.Value
			m.Value = &v
		}
		out.Metrics[i] = m
	}
	copy(out.Services, d.Services)
	for i, inc := range d.Incidents {
		inc.AffectedServices = append([]string(nil), inc.AffectedServices...)
		if inc.ResolvedTime != nil {
			t := *inc.ResolvedTime
			inc.ResolvedTime = &t
		}
		out.Incidents[i] = inc
	}
	return out
}
