// Package session keeps the login state driven by provider events.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/mezonai/vewallet/auth"
	"github.com/mezonai/vewallet/errors"
	"github.com/mezonai/vewallet/events"
	"github.com/mezonai/vewallet/interfaces"
	"github.com/mezonai/vewallet/logx"
	"github.com/mezonai/vewallet/monitoring"
	"github.com/mezonai/vewallet/pkg/wallet"
	"github.com/mezonai/vewallet/provider"
)

type State string

const (
	Disconnected State = "disconnected"
	Connecting   State = "connecting"
	Connected    State = "connected"
	Errored      State = "errored"
)

var allStates = []string{string(Disconnected), string(Connecting), string(Connected), string(Errored)}

// Status is a snapshot of the session safe to hand out.
type Status struct {
	State       State  `json:"state"`
	LoggedIn    bool   `json:"logged_in"`
	HasProvider bool   `json:"has_provider"`
	HasKey      bool   `json:"has_key"`
	LastError   string `json:"last_error,omitempty"`
}

type Session struct {
	sdk auth.SDK

	mu         sync.RWMutex
	provider   provider.Provider
	loggedIn   bool
	state      State
	privateKey string
	lastError  string
}

// New creates a disconnected session and subscribes it to sdk events.
func New(sdk auth.SDK) *Session {
	s := &Session{sdk: sdk, state: Disconnected}
	sdk.Subscribe(s.handleEvent)
	monitoring.SetSessionState(string(Disconnected), allStates)
	return s
}

func (s *Session) handleEvent(e events.ProviderEvent) {
	switch ev := e.(type) {
	case *events.Connecting:
		s.mu.Lock()
		s.privateKey = ""
		s.setState(Connecting)
		s.mu.Unlock()

	case *events.Connected:
		key := s.fetchPrivateKey()
		s.mu.Lock()
		s.privateKey = key
		s.lastError = ""
		s.setState(Connected)
		s.mu.Unlock()
		logx.Info("SESSION", fmt.Sprintf("Provider connected (adapter=%s, reconnected=%t, key_cached=%t)", ev.Adapter(), ev.Reconnected(), key != ""))

	case *events.Disconnected:
		s.mu.Lock()
		s.privateKey = ""
		s.provider = nil
		s.loggedIn = false
		s.setState(Disconnected)
		s.mu.Unlock()
		logx.Info("SESSION", "Provider disconnected")

	case *events.Errored:
		s.mu.Lock()
		s.lastError = ev.Err().Error()
		s.setState(Errored)
		s.mu.Unlock()
		logx.Error("SESSION", fmt.Sprintf("Provider error: %v", ev.Err()))
	}
}

// fetchPrivateKey asks the connected provider for its key. Providers that do
// not expose it leave the cache empty.
func (s *Session) fetchPrivateKey() string {
	p := s.sdk.Provider()
	if p == nil {
		return ""
	}
	var key string
	if err := p.Request(context.Background(), provider.RequestArguments{Method: provider.MethodPrivateKey}, &key); err != nil {
		logx.Warn("SESSION", fmt.Sprintf("Private key unavailable: %v", err))
		return ""
	}
	return key
}

// caller holds s.mu
func (s *Session) setState(state State) {
	s.state = state
	monitoring.SetSessionState(string(state), allStates)
}

// Adopt installs p as the session provider. loggedIn mirrors the SDK's
// connected flag.
func (s *Session) Adopt(p provider.Provider, loggedIn bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = p
	s.loggedIn = loggedIn && p != nil
	if s.loggedIn && s.state != Connected {
		s.setState(Connected)
	}
}

// Clear forgets the provider, the login flag and the cached key.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = nil
	s.loggedIn = false
	s.privateKey = ""
	s.setState(Disconnected)
}

func (s *Session) Provider() provider.Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider
}

func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) PrivateKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.privateKey
}

// Signer builds a signer from the cached key.
func (s *Session) Signer() (interfaces.Signer, error) {
	key := s.PrivateKey()
	if key == "" {
		return nil, errors.ErrKeyUnavailable
	}
	w, err := wallet.FromHex(key)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		State:       s.state,
		LoggedIn:    s.loggedIn,
		HasProvider: s.provider != nil,
		HasKey:      s.privateKey != "",
		LastError:   s.lastError,
	}
}
