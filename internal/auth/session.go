package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

const sessionFileName = "session.json"

// State is what the engines need to know about the session. Injected
// explicitly so mode selection is testable instead of read from ambient
// storage on every call.
type State interface {
	IsAuthenticated() bool
}

type sessionFile struct {
	Token   string `json:"token,omitempty"`
	IsGuest bool   `json:"isGuest"`
	GuestID string `json:"guestId,omitempty"`
}

// Session holds the persisted credential and guest marker. A user is
// authenticated when a token is present and the guest marker is not set;
// everything else is guest mode.
type Session struct {
	mu   sync.RWMutex
	path string
	data sessionFile
}

// LoadSession reads the session file from the data dir, starting a fresh
// guest session when it is missing or unreadable.
func LoadSession(dataDir string) (*Session, error) {
	s := &Session{
		path: filepath.Join(dataDir, sessionFileName),
		data: sessionFile{IsGuest: true},
	}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.data.GuestID = uuid.NewString()
		return s, s.flush()
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		// Unreadable session falls back to guest, same as a corrupt basket.
		s.data = sessionFile{IsGuest: true, GuestID: uuid.NewString()}
		return s, s.flush()
	}
	if s.data.GuestID == "" {
		s.data.GuestID = uuid.NewString()
		if err := s.flush(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Token != "" && !s.data.IsGuest
}

// Token implements gateway.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Token
}

// GuestID is a stable anonymous identity, used to key shared-store baskets.
func (s *Session) GuestID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.GuestID
}

// SetToken stores a fresh credential and clears the guest marker.
func (s *Session) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Token = token
	s.data.IsGuest = false
	return s.flush()
}

// BecomeGuest discards the credential and re-marks the session as guest.
func (s *Session) BecomeGuest() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Token = ""
	s.data.IsGuest = true
	return s.flush()
}

func (s *Session) flush() error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
