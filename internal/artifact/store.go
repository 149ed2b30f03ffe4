package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store answers presence questions about artifacts rooted at an output
// directory. Presence is always re-read from disk; nothing is cached between
// calls, which is what keeps repeated pipeline runs safe.
type Store struct {
	root string
}

// NewStore builds a store over the output root directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the output root the store was built over.
func (s *Store) Root() string {
	return s.root
}

// SubjectDir resolves the artifact directory for a subject.
func (s *Store) SubjectDir(subject string) string {
	return filepath.Join(s.root, subject)
}

// Present reports whether the named artifact exists as a regular file in the
// given subject directory.
func (s *Store) Present(dir, name string) (bool, error) {
	info, err := os.Stat(filepath.Join(dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("artifact: stat %s: %w", name, err)
	}
	return !info.IsDir(), nil
}

// Existing returns the set of known artifact names currently present in the
// subject directory. Used to seed mode detection without the detector itself
// touching the filesystem.
func (s *Store) Existing(dir string) (map[string]bool, error) {
	names := map[string]bool{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return names, nil
		}
		return nil, fmt.Errorf("artifact: read %s: %w", dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			names[entry.Name()] = true
		}
	}
	return names, nil
}

// Missing filters required down to the names absent from dir, preserving
// order. The result is always a subset of required.
func (s *Store) Missing(dir string, required []string) ([]string, error) {
	var missing []string
	for _, name := range required {
		ok, err := s.Present(dir, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// WriteJSON persists a JSON artifact into the subject directory, creating the
// directory when needed.
func (s *Store) WriteJSON(dir, name string, payload any) error {
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("artifact: encode %s: %w", name, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("artifact: ensure %s: %w", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), encoded, 0o644); err != nil {
		return fmt.Errorf("artifact: write %s: %w", name, err)
	}
	return nil
}

// TabNames reads the tab list from tabs.json. A missing file yields an empty
// list rather than an error; the generation stage can run without tabs.
func (s *Store) TabNames(dir string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(dir, TabsJSON))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("artifact: read %s: %w", TabsJSON, err)
	}
	var payload struct {
		Tabs []string `json:"tabs"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("artifact: parse %s: %w", TabsJSON, err)
	}
	return payload.Tabs, nil
}
