package watcher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// State is the watcher's only durable data: a map of file id to the
// last modified marker that was confirmed processed. It is rewritten
// wholesale after every mutation via write-temp-then-rename, so a crash
// mid-write never leaves a corrupt file.
type State struct {
	mu   sync.Mutex
	path string
	seen map[string]string
}

// LoadState reads the state file at path. A missing file is an empty
// state, not an error.
func LoadState(path string) (*State, error) {
	s := &State{path: path, seen: make(map[string]string)}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	if err := json.Unmarshal(data, &s.seen); err != nil {
		return nil, fmt.Errorf("parse state file %s: %w", path, err)
	}
	return s, nil
}

func (s *State) Marker(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	marker, ok := s.seen[id]
	return marker, ok
}

// IDs returns the tracked file ids in stable order.
func (s *State) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.seen))
	for id := range s.seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MarkProcessed records the marker for a file and flushes immediately.
func (s *State) MarkProcessed(id, marker string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[id] = marker
	return s.flushLocked()
}

// Forget drops a file from the state and flushes immediately.
func (s *State) Forget(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, id)
	return s.flushLocked()
}

func (s *State) flushLocked() error {
	data, err := json.Marshal(s.seen)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
