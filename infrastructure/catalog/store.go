package catalog

import (
	"sort"
	"sync"

	"github.com/felixgeelhaar/selector-go/domain/profile"
)

// Store holds the current catalog snapshot and serves it to the
// selection pipeline. Reload is all-or-nothing: a broken catalog on
// disk never replaces a good one in memory.
type Store struct {
	loader *Loader
	path   string

	mu       sync.RWMutex
	snapshot map[string]*profile.ToolProfile
	skipped  []SkippedTool
}

// NewStore creates a store for the catalog at path. Call Load before
// serving requests.
func NewStore(loader *Loader, path string) *Store {
	return &Store{loader: loader, path: path}
}

// Load reads the catalog from disk and installs it as the snapshot.
func (s *Store) Load() error {
	cat, err := s.loader.LoadFile(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snapshot = cat.Tools
	s.skipped = cat.Skipped
	s.mu.Unlock()
	return nil
}

// Reload re-reads the catalog. On error the previous snapshot stays in
// place and the error is returned for the caller to report.
func (s *Store) Reload() error {
	return s.Load()
}

// AllTools returns the current snapshot. Callers must treat it as
// immutable; Reload replaces the map rather than mutating it.
func (s *Store) AllTools() map[string]*profile.ToolProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Tool returns one profile by name.
func (s *Store) Tool(name string) (*profile.ToolProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.snapshot[name]
	return t, ok
}

// ToolNames returns the loaded tool names in sorted order.
func (s *Store) ToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.snapshot))
	for name := range s.snapshot {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Skipped returns the tools dropped by the most recent successful load.
func (s *Store) Skipped() []SkippedTool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.skipped
}

// Path returns the catalog file path the store watches.
func (s *Store) Path() string {
	return s.path
}
