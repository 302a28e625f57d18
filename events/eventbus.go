package events

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mezonai/vewallet/logx"
)

type SubscriberID string

// Handler receives events on the publishing goroutine.
type Handler func(ProviderEvent)

type Subscriber struct {
	ID      SubscriberID
	Handler Handler
}

// EventBus delivers provider events synchronously, in subscription order.
type EventBus struct {
	subscribers map[SubscriberID]*Subscriber
	order       []SubscriberID
	mu          sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[SubscriberID]*Subscriber),
	}
}

func (eb *EventBus) generateUUIDID() SubscriberID {
	id := uuid.Must(uuid.NewV7())
	return SubscriberID(id.String())
}

func (eb *EventBus) Subscribe(handler Handler) SubscriberID {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	id := eb.generateUUIDID()
	eb.subscribers[id] = &Subscriber{
		ID:      id,
		Handler: handler,
	}
	eb.order = append(eb.order, id)

	logx.Debug("EVENTBUS", fmt.Sprintf("Subscribed to provider events | subscriber_id=%s | total_subscribers=%d", id, len(eb.subscribers)))

	return id
}

// Unsubscribe removes a subscription by ID
func (eb *EventBus) Unsubscribe(id SubscriberID) bool {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if _, exists := eb.subscribers[id]; !exists {
		logx.Warn("EVENTBUS", fmt.Sprintf("Attempted to unsubscribe non-existent subscriber | subscriber_id=%s", id))
		return false
	}

	delete(eb.subscribers, id)
	for i, sid := range eb.order {
		if sid == id {
			eb.order = append(eb.order[:i:i], eb.order[i+1:]...)
			break
		}
	}

	logx.Debug("EVENTBUS", fmt.Sprintf("Unsubscribed from provider events | subscriber_id=%s | remaining_subscribers=%d", id, len(eb.subscribers)))
	return true
}

// Publish calls every handler before returning. Handlers may subscribe or
// unsubscribe; changes apply from the next event.
func (eb *EventBus) Publish(event ProviderEvent) {
	eb.mu.RLock()
	handlers := make([]Handler, 0, len(eb.order))
	for _, id := range eb.order {
		handlers = append(handlers, eb.subscribers[id].Handler)
	}
	eb.mu.RUnlock()

	if len(handlers) == 0 {
		logx.Debug("EVENTBUS", fmt.Sprintf("No subscribers for event | event_type=%s", event.Type()))
		return
	}

	logx.Debug("EVENTBUS", fmt.Sprintf("Publishing event | event_type=%s | subscribers=%d", event.Type(), len(handlers)))
	for _, h := range handlers {
		h(event)
	}
}

// GetTotalSubscriptions returns the total number of active subscriptions
func (eb *EventBus) GetTotalSubscriptions() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	return len(eb.subscribers)
}

// HasSubscriber checks if a subscriber with the given ID exists
func (eb *EventBus) HasSubscriber(id SubscriberID) bool {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	_, exists := eb.subscribers[id]
	return exists
}
