// Package settings persists user preferences for the extraction
// pipeline. The only preference the pipeline consumes is the OCR
// language set; storage is best-effort and write failures are reported
// to the caller for logging, never propagated into extraction results.
package settings

import (
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store is the preference-storage collaborator consumed by the OCR
// engine adapter.
type Store interface {
	// Language returns the stored language set. The second return is
	// false when no preference has been stored.
	Language() (string, bool)

	// SetLanguage stores the language set.
	SetLanguage(langs string) error
}

type fileData struct {
	Languages string `yaml:"languages,omitempty"`
}

// FileStore persists preferences to a YAML file. Safe for concurrent
// use. A missing file simply means no preference is stored yet.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by the given file path. The file
// is created on the first SetLanguage call.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Language() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	var data fileData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return "", false
	}
	return data.Languages, data.Languages != ""
}

func (s *FileStore) SetLanguage(langs string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := yaml.Marshal(fileData{Languages: langs})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}

// Memory is an in-memory Store, used in tests and by callers that do not
// want persistence across runs.
type Memory struct {
	mu    sync.Mutex
	langs string
	set   bool
}

func (m *Memory) Language() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.langs, m.set
}

func (m *Memory) SetLanguage(langs string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.langs = langs
	m.set = true
	return nil
}
