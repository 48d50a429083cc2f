package port

import "context"

// EventListenerPort is a component that listens for external events (queue
// messages) and triggers the matching business logic.
type EventListenerPort interface {
	// Start blocks until the listener stops.
	Start(ctx context.Context) error

	// Close stops the listener, waiting for in-flight work to finish.
	Close() error
}
