// Package session owns the persisted staff credential and the role checks
// gating the staff and admin surfaces.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Role is the access level carried by a credential.
type Role string

const (
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

// Credential is the persisted login state. The JSON keys match what the
// auth endpoint returns; no expiry is tracked client-side.
type Credential struct {
	Token    string `json:"access_token"`
	Role     Role   `json:"role"`
	Username string `json:"username,omitempty"`
}

// Store is the single place credentials are read and written. Components
// depend on this interface rather than ambient global state so tests can
// substitute an in-memory fake. Clear fires the invalidation callbacks,
// which is how the UI learns a session was forcibly logged out.
type Store interface {
	Get() (Credential, bool)
	Set(Credential) error
	Clear() error
	OnInvalidate(func())
}

// FileStore persists the credential as JSON at a fixed path.
type FileStore struct {
	mu          sync.Mutex
	path        string
	subscribers []func()
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get reads the stored credential. A missing or unreadable file means no
// session.
func (s *FileStore) Get() (Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Credential{}, false
	}
	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil || cred.Token == "" {
		return Credential{}, false
	}
	return cred, true
}

// Set writes the credential, creating parent directories as needed.
func (s *FileStore) Set(cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Clear removes the credential and notifies invalidation subscribers.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		err = nil
	}
	subs := append([]func(){}, s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
	return err
}

// OnInvalidate registers a callback fired after every Clear.
func (s *FileStore) OnInvalidate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// MemStore is the in-memory Store used by tests.
type MemStore struct {
	mu          sync.Mutex
	cred        Credential
	has         bool
	subscribers []func()
}

func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Get() (Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cred, s.has
}

func (s *MemStore) Set(cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = cred
	s.has = true
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	s.cred = Credential{}
	s.has = false
	subs := append([]func(){}, s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
	return nil
}

func (s *MemStore) OnInvalidate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}
