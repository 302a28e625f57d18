package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/mezonai/vewallet/errors"
	"github.com/mezonai/vewallet/events"
	"github.com/mezonai/vewallet/logx"
	"github.com/mezonai/vewallet/pkg/wallet"
	"github.com/mezonai/vewallet/provider"
)

const AdapterPrivateKey = "private-key"

type Options struct {
	ClientID string
	// ChainID is answered for eth_chainId; the genesis id of the network.
	ChainID string
	Source  KeySource
	// Backend serves chain queries for the connected provider.
	Backend provider.Provider
	// AutoConnect restores a session at InitModal when Source is not interactive.
	AutoConnect bool
	UserName    string
	UserEmail   string
}

// LocalAuth is an SDK that logs users in with a private key obtained from a
// KeySource.
type LocalAuth struct {
	opts Options
	bus  *events.EventBus

	mu          sync.RWMutex
	initialized bool
	provider    *provider.KeyProvider
}

func NewLocalAuth(opts Options) *LocalAuth {
	return &LocalAuth{opts: opts, bus: events.NewEventBus()}
}

func (a *LocalAuth) InitModal(ctx context.Context) error {
	if a.opts.ClientID == "" {
		return errors.Wrap(errors.ErrModalNotInitialized, "client id is required")
	}
	if a.opts.Source == nil {
		return errors.Wrap(errors.ErrModalNotInitialized, "no key source")
	}

	a.mu.Lock()
	a.initialized = true
	a.mu.Unlock()
	logx.Info("AUTH", fmt.Sprintf("Login modal ready for client %s", a.opts.ClientID))

	if a.opts.AutoConnect && !a.opts.Source.Interactive() {
		if _, err := a.connect(ctx, true); err != nil {
			logx.Warn("AUTH", fmt.Sprintf("Could not restore session: %v", err))
		}
	}
	return nil
}

func (a *LocalAuth) Connect(ctx context.Context) (provider.Provider, error) {
	a.mu.RLock()
	initialized := a.initialized
	a.mu.RUnlock()
	if !initialized {
		return nil, errors.ErrModalNotInitialized
	}
	return a.connect(ctx, false)
}

func (a *LocalAuth) connect(ctx context.Context, reconnect bool) (provider.Provider, error) {
	a.bus.Publish(events.NewConnecting())

	key, err := a.opts.Source.Key(ctx)
	if err != nil {
		if errors.Is(err, errors.ErrUserCancelled) {
			a.bus.Publish(events.NewDisconnected())
		} else {
			a.bus.Publish(events.NewErrored(err))
		}
		return nil, err
	}
	w, err := wallet.FromHex(key)
	if err != nil {
		a.bus.Publish(events.NewErrored(err))
		return nil, err
	}

	p := provider.NewKeyProvider(w, a.opts.ChainID, a.opts.Backend)
	a.mu.Lock()
	a.provider = p
	a.mu.Unlock()

	logx.Info("AUTH", fmt.Sprintf("Connected %s", w.Address().Hex()))
	a.bus.Publish(events.NewConnected(AdapterPrivateKey, reconnect))
	return p, nil
}

func (a *LocalAuth) Connected() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.provider != nil
}

func (a *LocalAuth) Provider() provider.Provider {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.provider == nil {
		return nil
	}
	return a.provider
}

func (a *LocalAuth) GetUserInfo(ctx context.Context) (*UserInfo, error) {
	a.mu.RLock()
	p := a.provider
	a.mu.RUnlock()
	if p == nil {
		return nil, errors.ErrNotConnected
	}
	return &UserInfo{
		Email:       a.opts.UserEmail,
		Name:        a.opts.UserName,
		Verifier:    a.opts.ClientID,
		VerifierID:  p.Address().Hex(),
		TypeOfLogin: AdapterPrivateKey,
	}, nil
}

func (a *LocalAuth) Logout(ctx context.Context) error {
	a.mu.Lock()
	if a.provider == nil {
		a.mu.Unlock()
		return errors.ErrNotConnected
	}
	a.provider = nil
	a.mu.Unlock()

	logx.Info("AUTH", "Logged out")
	a.bus.Publish(events.NewDisconnected())
	return nil
}

func (a *LocalAuth) Subscribe(h events.Handler) events.SubscriberID {
	return a.bus.Subscribe(h)
}
