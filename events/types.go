package events

import (
	"time"
)

// EventType is an enum-like string type for provider events
type EventType string

const (
	EventConnecting   EventType = "connecting"
	EventConnected    EventType = "connected"
	EventDisconnected EventType = "disconnected"
	EventErrored      EventType = "errored"
)

// ProviderEvent represents a state notification emitted by the auth SDK
type ProviderEvent interface {
	Type() EventType
	Timestamp() time.Time
}

// Connecting event when the SDK starts establishing a provider
type Connecting struct {
	timestamp time.Time
}

func NewConnecting() *Connecting {
	return &Connecting{timestamp: time.Now()}
}

func (e *Connecting) Type() EventType {
	return EventConnecting
}

func (e *Connecting) Timestamp() time.Time {
	return e.timestamp
}

// Connected event when a provider is available
type Connected struct {
	adapter   string
	reconnect bool
	timestamp time.Time
}

func NewConnected(adapter string, reconnect bool) *Connected {
	return &Connected{
		adapter:   adapter,
		reconnect: reconnect,
		timestamp: time.Now(),
	}
}

func (e *Connected) Type() EventType {
	return EventConnected
}

func (e *Connected) Timestamp() time.Time {
	return e.timestamp
}

// Adapter names the login adapter that produced the provider.
func (e *Connected) Adapter() string {
	return e.adapter
}

// Reconnected reports whether an existing session was restored.
func (e *Connected) Reconnected() bool {
	return e.reconnect
}

// Disconnected event when the provider is gone
type Disconnected struct {
	timestamp time.Time
}

func NewDisconnected() *Disconnected {
	return &Disconnected{timestamp: time.Now()}
}

func (e *Disconnected) Type() EventType {
	return EventDisconnected
}

func (e *Disconnected) Timestamp() time.Time {
	return e.timestamp
}

// Errored event when the SDK reports a failure
type Errored struct {
	err       error
	timestamp time.Time
}

func NewErrored(err error) *Errored {
	return &Errored{
		err:       err,
		timestamp: time.Now(),
	}
}

func (e *Errored) Type() EventType {
	return EventErrored
}

func (e *Errored) Timestamp() time.Time {
	return e.timestamp
}

func (e *Errored) Err() error {
	return e.err
}
