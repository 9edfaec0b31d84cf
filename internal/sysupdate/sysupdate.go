// Package sysupdate simulates the system-updates page. Nothing is ever
// installed: the catalog is a fixture and progress is driven by a ticker.
package sysupdate

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StatusPending    = "pending"
	StatusScheduled  = "scheduled"
	StatusInstalling = "installing"
	StatusInstalled  = "installed"
	StatusFailed     = "failed"
)

//go:embed catalog.yml
var catalogYAML []byte

type Update struct {
	ID          string     `yaml:"id" json:"id"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description" json:"description"`
	Category    string     `yaml:"category" json:"category"`
	Status      string     `yaml:"status" json:"status"`
	Version     string     `yaml:"version" json:"version"`
	Date        string     `yaml:"date" json:"date"`
	Size        string     `yaml:"size" json:"size"`
	Severity    string     `yaml:"severity" json:"severity"`
	Progress    *int       `yaml:"progress,omitempty" json:"progress,omitempty"`
	ScheduledAt *time.Time `yaml:"-" json:"scheduled_at,omitempty"`
}

func (u Update) matches(category, search string) bool {
	if category != "" && category != "all" && u.Category != category {
		return false
	}
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(u.Title), needle) ||
		strings.Contains(strings.ToLower(u.Description), needle)
}

type Stats struct {
	Pending    int            `json:"pending"`
	Installed  int            `json:"installed"`
	Failed     int            `json:"failed"`
	Categories map[string]int `json:"categories"`
}

// LoadCatalog parses the embedded fixture.
func LoadCatalog() ([]Update, error) {
	return ParseCatalog(catalogYAML)
}

func ParseCatalog(data []byte) ([]Update, error) {
	var updates []Update
	if err := yaml.Unmarshal(data, &updates); err != nil {
		return nil, fmt.Errorf("failed to parse update catalog: %w", err)
	}
	seen := make(map[string]bool, len(updates))
	for _, u := range updates {
		if u.ID == "" {
			return nil, fmt.Errorf("update catalog: entry %q has no id", u.Title)
		}
		if seen[u.ID] {
			return nil, fmt.Errorf("update catalog: duplicate id %s", u.ID)
		}
		seen[u.ID] = true
	}
	return updates, nil
}
