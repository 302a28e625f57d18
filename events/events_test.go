package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_PublishIsSynchronousAndOrdered(t *testing.T) {
	eventBus := NewEventBus()

	var got []string
	first := eventBus.Subscribe(func(e ProviderEvent) { got = append(got, "first:"+string(e.Type())) })
	eventBus.Subscribe(func(e ProviderEvent) { got = append(got, "second:"+string(e.Type())) })
	assert.Equal(t, 2, eventBus.GetTotalSubscriptions())

	eventBus.Publish(NewConnecting())
	assert.Equal(t, []string{"first:connecting", "second:connecting"}, got)

	require.True(t, eventBus.Unsubscribe(first))
	assert.False(t, eventBus.HasSubscriber(first))
	assert.False(t, eventBus.Unsubscribe(first))

	got = nil
	eventBus.Publish(NewDisconnected())
	assert.Equal(t, []string{"second:disconnected"}, got)
}

func TestEventBus_HandlerMaySubscribe(t *testing.T) {
	eventBus := NewEventBus()
	calls := 0
	eventBus.Subscribe(func(ProviderEvent) {
		calls++
		eventBus.Subscribe(func(ProviderEvent) { calls++ })
	})

	eventBus.Publish(NewConnecting())
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, eventBus.GetTotalSubscriptions())
}

func TestEventBus_NoSubscribers(t *testing.T) {
	assert.NotPanics(t, func() { NewEventBus().Publish(NewConnecting()) })
}

func TestProviderEvents(t *testing.T) {
	connected := NewConnected("private-key", true)
	assert.Equal(t, EventConnected, connected.Type())
	assert.Equal(t, "private-key", connected.Adapter())
	assert.True(t, connected.Reconnected())
	assert.False(t, connected.Timestamp().IsZero())

	cause := errors.New("popup closed")
	errored := NewErrored(cause)
	assert.Equal(t, EventErrored, errored.Type())
	assert.Equal(t, cause, errored.Err())

	assert.Equal(t, EventDisconnected, NewDisconnected().Type())
	assert.Equal(t, EventConnecting, NewConnecting().Type())
}
