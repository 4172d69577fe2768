package bus

import "time"

// EventBus is a thread-safe, in-process pub/sub event bus.
//
// Handlers subscribe by Event.Type(). Publish calls handlers synchronously in
// the publisher's goroutine, so handlers should be quick or hand work off.
// Errors from several handlers are joined and returned from Publish.
type EventBus interface {
	// Publish delivers the event to every active subscriber of event.Type().
	Publish(event Event) error
	// Subscribe registers a handler for an event type and returns a handle
	// that cancels the subscription.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. It is safe to call with nil.
	Unsubscribe(Subscription) error
	// Subscribers returns the number of active subscribers of eventType.
	Subscribers(eventType string) int
	// Close drops every subscription; later calls to Publish and Subscribe fail.
	Close() error
}

// Event is anything published on the bus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

// EventHandler handles a delivered event.
type EventHandler func(Event) error

// Subscription is a handle to a registered handler.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	Cancel() error
}
