package event

import (
	"context"
	"sync"

	"github.com/guildforge/coinbot/internal/domain"
	"github.com/guildforge/coinbot/internal/logger"
	"github.com/guildforge/coinbot/internal/metrics"
)

// Handler processes a published event. Handlers must not block for long;
// they run on the publisher's goroutine.
type Handler func(ctx context.Context, evt Event)

// Bus defines the interface for in-process event publication
type Bus interface {
	Publish(ctx context.Context, evt Event) error
	Subscribe(t domain.EventType, h Handler)
}

type bus struct {
	mu       sync.RWMutex
	handlers map[domain.EventType][]Handler
}

// NewBus creates an in-memory event bus
func NewBus() Bus {
	return &bus{handlers: make(map[domain.EventType][]Handler)}
}

// Subscribe registers a handler for an event type
func (b *bus) Subscribe(t domain.EventType, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// Publish delivers the event to all subscribed handlers. A handler panic is
// recovered and logged so one subscriber cannot take down the publisher.
func (b *bus) Publish(ctx context.Context, evt Event) error {
	b.mu.RLock()
	handlers := b.handlers[evt.Type]
	b.mu.RUnlock()

	metrics.EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	for _, h := range handlers {
		b.dispatch(ctx, evt, h)
	}
	return nil
}

func (b *bus) dispatch(ctx context.Context, evt Event, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			metrics.EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
			logger.FromContext(ctx).Error("event handler panicked", "type", evt.Type, "panic", r)
		}
	}()
	h(ctx, evt)
}
