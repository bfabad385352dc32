package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/morislaflame/clo-client/internal/gateway"
)

// Manager drives session transitions against the auth endpoints.
type Manager struct {
	session *Session
	api     gateway.AuthAPI
	log     *slog.Logger
}

func NewManager(session *Session, api gateway.AuthAPI, log *slog.Logger) *Manager {
	return &Manager{
		session: session,
		api:     api,
		log:     log.With("component", "auth"),
	}
}

func (m *Manager) Session() *Session {
	return m.session
}

func (m *Manager) Login(ctx context.Context, email, password string) error {
	token, err := m.api.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return m.session.SetToken(token)
}

func (m *Manager) Register(ctx context.Context, email, password string) error {
	token, err := m.api.Register(ctx, email, password)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	return m.session.SetToken(token)
}

func (m *Manager) Logout() error {
	return m.session.BecomeGuest()
}

// Check validates the stored credential against the backend. A 401/403 means
// the token went stale: it is discarded silently and the session reverts to
// guest. A transport failure is surfaced instead, so callers can tell
// "logged out" apart from "server down".
func (m *Manager) Check(ctx context.Context) error {
	if m.session.Token() == "" {
		return nil
	}

	token, err := m.api.Check(ctx)
	if errors.Is(err, gateway.ErrUnauthorized) {
		m.log.Info("stored credential is stale, reverting to guest")
		return m.session.BecomeGuest()
	}
	if err != nil {
		return fmt.Errorf("auth check failed: %w", err)
	}
	return m.session.SetToken(token)
}
