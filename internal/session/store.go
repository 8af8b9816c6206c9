package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// StoreVersion is the current schema version of the session file.
const StoreVersion = 1

// Store errors.
var (
	ErrNoSession       = errors.New("no saved session")
	ErrStoreCorrupted  = errors.New("session file corrupted")
	ErrInvalidPath     = errors.New("session file path cannot be empty")
	ErrUnsupportedFile = errors.New("unsupported session file version")
)

// Store persists a single session.
type Store interface {
	Load() (*Session, error)
	Save(s *Session) error
	Delete() error
}

// storeData is the serialized form of the session file.
type storeData struct {
	Version int      `json:"version"`
	Session *Session `json:"session"`
}

// FileStore keeps the session as a JSON file readable only by its owner.
// Thread-safe for concurrent access.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileStore creates a store backed by path. The file is created on Save.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}
	return &FileStore{path: path}, nil
}

// Path returns the session file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the saved session.
// Returns ErrNoSession if there is none and ErrStoreCorrupted if it cannot be decoded.
func (s *FileStore) Load() (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var stored storeData
	if unmarshalErr := json.Unmarshal(data, &stored); unmarshalErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreCorrupted, unmarshalErr)
	}
	if stored.Version != StoreVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFile, stored.Version)
	}
	if !stored.Session.Valid() {
		return nil, ErrNoSession
	}
	return stored.Session, nil
}

// Save writes the session, replacing any previous one.
func (s *FileStore) Save(sess *Session) error {
	if !sess.Valid() {
		return ErrNoSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(storeData{Version: StoreVersion, Session: sess}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(s.path), 0o700); mkdirErr != nil {
		return fmt.Errorf("failed to create session directory: %w", mkdirErr)
	}

	// Write to temporary file first, then rename for atomicity
	tempPath := s.path + ".tmp"
	if writeErr := os.WriteFile(tempPath, data, 0o600); writeErr != nil {
		return fmt.Errorf("failed to write session file: %w", writeErr)
	}
	if renameErr := os.Rename(tempPath, s.path); renameErr != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename session file: %w", renameErr)
	}
	return nil
}

// Delete removes the saved session. Deleting a missing session is not an error.
func (s *FileStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}
