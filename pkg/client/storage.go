package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage keys. Fixed so different processes sharing a storage file agree on
// the layout.
const (
	storageKeyToken       = "auth_token"
	storageKeyUser        = "auth_user"
	storageKeyPreferences = "preferences"
	storageKeyHistory     = "search_history"
)

// Storage persists the session and local state across process restarts.
// SetSession must persist token and user in one operation: a reader never
// observes a token without its user.
type Storage interface {
	SetSession(token string, user *User) error
	GetSession() (token string, user *User, err error)
	ClearSession() error

	GetHistory() ([]string, error)
	SetHistory(history []string) error

	GetPreferences() (map[string]string, error)
	SetPreferences(prefs map[string]string) error
}

// FileStorage is a Storage backed by one JSON file. Writes go through a temp
// file and rename, so a crash mid-write leaves the previous state intact.
type FileStorage struct {
	path string
	mu   sync.Mutex
}

// NewFileStorage creates a file-backed storage at path. The file is created
// on first write.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// SetSession persists the token and user together.
func (s *FileStorage) SetSession(token string, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	tokenJSON, _ := json.Marshal(token)

	data[storageKeyToken] = tokenJSON
	data[storageKeyUser] = userJSON
	return s.save(data)
}

// GetSession returns the persisted session, or ("", nil, nil) when absent.
func (s *FileStorage) GetSession() (string, *User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return "", nil, err
	}

	rawToken, okToken := data[storageKeyToken]
	rawUser, okUser := data[storageKeyUser]
	if !okToken || !okUser {
		return "", nil, nil
	}

	var token string
	if err := json.Unmarshal(rawToken, &token); err != nil {
		return "", nil, nil
	}
	var user User
	if err := json.Unmarshal(rawUser, &user); err != nil {
		return "", nil, nil
	}
	if token == "" {
		return "", nil, nil
	}
	return token, &user, nil
}

// ClearSession removes the persisted token and user. History and preferences
// survive logout.
func (s *FileStorage) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	delete(data, storageKeyToken)
	delete(data, storageKeyUser)
	return s.save(data)
}

// GetHistory returns the persisted search history, newest first.
func (s *FileStorage) GetHistory() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	raw, ok := data[storageKeyHistory]
	if !ok {
		return nil, nil
	}
	var history []string
	if err := json.Unmarshal(raw, &history); err != nil {
		return nil, nil
	}
	return history, nil
}

// SetHistory replaces the persisted search history.
func (s *FileStorage) SetHistory(history []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	data[storageKeyHistory] = raw
	return s.save(data)
}

// GetPreferences returns the persisted preference map.
func (s *FileStorage) GetPreferences() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	raw, ok := data[storageKeyPreferences]
	if !ok {
		return map[string]string{}, nil
	}
	prefs := map[string]string{}
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return map[string]string{}, nil
	}
	return prefs, nil
}

// SetPreferences replaces the persisted preference map.
func (s *FileStorage) SetPreferences(prefs map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	data[storageKeyPreferences] = raw
	return s.save(data)
}

func (s *FileStorage) load() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}

	data := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &data); err != nil {
		// Corrupt file: start over rather than wedging every operation.
		return map[string]json.RawMessage{}, nil
	}
	return data, nil
}

func (s *FileStorage) save(data map[string]json.RawMessage) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal storage: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".storage-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close storage: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

// MemoryStorage is an in-memory Storage, useful for tests and short-lived
// processes.
type MemoryStorage struct {
	mu      sync.Mutex
	token   string
	user    *User
	history []string
	prefs   map[string]string
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{prefs: map[string]string{}}
}

// SetSession stores the token and user together.
func (s *MemoryStorage) SetSession(token string, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	return nil
}

// GetSession returns the stored session, or ("", nil, nil) when absent.
func (s *MemoryStorage) GetSession() (string, *User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" || s.user == nil {
		return "", nil, nil
	}
	return s.token, s.user, nil
}

// ClearSession removes the stored token and user.
func (s *MemoryStorage) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	return nil
}

// GetHistory returns the stored search history.
func (s *MemoryStorage) GetHistory() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.history...), nil
}

// SetHistory replaces the stored search history.
func (s *MemoryStorage) SetHistory(history []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append([]string(nil), history...)
	return nil
}

// GetPreferences returns the stored preference map.
func (s *MemoryStorage) GetPreferences() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.prefs))
	for k, v := range s.prefs {
		out[k] = v
	}
	return out, nil
}

// SetPreferences replaces the stored preference map.
func (s *MemoryStorage) SetPreferences(prefs map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = make(map[string]string, len(prefs))
	for k, v := range prefs {
		s.prefs[k] = v
	}
	return nil
}
