package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
)

// Keys of the persisted document.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Store persists a session between runs.
type Store interface {
	Load() (*Session, error)
	Save(s *Session) error
	Clear() error
}

// FileStore keeps the session in a small JSON document keyed by "token" and
// "user".
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns an anonymous session when nothing has been saved yet.
func (f *FileStore) Load() (*Session, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return New("", nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	var token string
	if v, ok := doc[KeyToken]; ok {
		if err := json.Unmarshal(v, &token); err != nil {
			return nil, fmt.Errorf("decode session token: %w", err)
		}
	}
	var user *User
	if v, ok := doc[KeyUser]; ok && string(v) != "null" {
		user = &User{}
		if err := json.Unmarshal(v, user); err != nil {
			return nil, fmt.Errorf("decode session user: %w", err)
		}
	}
	return New(token, user), nil
}

func (f *FileStore) Save(s *Session) error {
	doc := map[string]any{
		KeyToken: s.Token(),
		KeyUser:  s.User(),
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(f.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	token string
	user  *User
}

func (m *MemoryStore) Load() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return New(m.token, m.user), nil
}

func (m *MemoryStore) Save(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = s.Token()
	m.user = s.User()
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.user = nil
	return nil
}
