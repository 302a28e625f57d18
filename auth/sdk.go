// Package auth is the login SDK boundary: it turns a user login into a
// connected provider and user identity.
package auth

import (
	"context"

	"github.com/mezonai/vewallet/events"
	"github.com/mezonai/vewallet/provider"
)

// UserInfo is the identity reported for the logged in user.
type UserInfo struct {
	Email             string `json:"email,omitempty"`
	Name              string `json:"name,omitempty"`
	ProfileImage      string `json:"profileImage,omitempty"`
	AggregateVerifier string `json:"aggregateVerifier,omitempty"`
	Verifier          string `json:"verifier"`
	VerifierID        string `json:"verifierId"`
	TypeOfLogin       string `json:"typeOfLogin"`
}

type SDK interface {
	// InitModal prepares the login flow. It must be called before Connect.
	InitModal(ctx context.Context) error
	Connect(ctx context.Context) (provider.Provider, error)
	Connected() bool
	// Provider returns nil when no provider is connected.
	Provider() provider.Provider
	GetUserInfo(ctx context.Context) (*UserInfo, error)
	Logout(ctx context.Context) error
	// Subscribe registers h for provider events. Events are delivered on the
	// goroutine that caused them.
	Subscribe(h events.Handler) events.SubscriberID
}
