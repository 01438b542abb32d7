package watchlist

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Entry is one feed kept under periodic analysis.
type Entry struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Interval int    `yaml:"interval"` // seconds between analyses
	Enabled  *bool  `yaml:"enabled"`  // nil means enabled
}

func (e Entry) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

type fileFormat struct {
	Feeds []Entry `yaml:"feeds"`
}

// Watchlist loads and caches the YAML list of feeds to analyze
// periodically. Missing files are not an error: the watchlist is an
// optional feature and an absent file simply means an empty list.
type Watchlist struct {
	path    string
	entries []Entry
	mu      sync.RWMutex
}

func New(path string) *Watchlist {
	return &Watchlist{path: path}
}

func (w *Watchlist) Run() error {
	if _, err := os.Stat(w.path); os.IsNotExist(err) {
		slog.Debug("Watchlist file not found, starting with empty list", "path", w.path)
		return nil
	}

	data, err := os.ReadFile(w.path)
	if err != nil {
		return fmt.Errorf("failed to read watchlist: %w", err)
	}

	var parsed fileFormat
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse watchlist YAML: %w", err)
	}

	for i := range parsed.Feeds {
		if parsed.Feeds[i].Interval == 0 {
			parsed.Feeds[i].Interval = 3600
		}
	}

	if err := validate(parsed.Feeds); err != nil {
		return fmt.Errorf("invalid watchlist %s: %w", w.path, err)
	}

	w.mu.Lock()
	w.entries = parsed.Feeds
	w.mu.Unlock()

	slog.Debug("Watchlist loaded", "path", w.path, "feeds", len(parsed.Feeds))
	return nil
}

func (w *Watchlist) GetEntries() []Entry {
	w.mu.RLock()
	defer w.mu.RUnlock()

	entries := make([]Entry, len(w.entries))
	copy(entries, w.entries)
	return entries
}

func (w *Watchlist) GetEnabledEntries() []Entry {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var enabled []Entry
	for _, e := range w.entries {
		if e.IsEnabled() {
			enabled = append(enabled, e)
		}
	}
	return enabled
}

func (w *Watchlist) Count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entries)
}

func validate(entries []Entry) error {
	seen := make(map[string]bool)
	for i, e := range entries {
		if e.Name == "" {
			return fmt.Errorf("entry at index %d is missing a name", i)
		}
		if seen[e.Name] {
			return fmt.Errorf("duplicate entry name '%s'", e.Name)
		}
		seen[e.Name] = true

		parsed, err := url.Parse(e.URL)
		if err != nil || !parsed.IsAbs() {
			return fmt.Errorf("entry '%s' has an invalid URL: %s", e.Name, e.URL)
		}

		if e.Interval < 0 {
			return fmt.Errorf("entry '%s' has a negative interval", e.Name)
		}
	}
	return nil
}
