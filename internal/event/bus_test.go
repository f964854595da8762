package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guildforge/coinbot/internal/domain"
)

func TestBus_DeliversToSubscribers(t *testing.T) {
	bus := NewBus()

	var got []Event
	bus.Subscribe(domain.EventGameSettled, func(ctx context.Context, evt Event) {
		got = append(got, evt)
	})

	evt := New(domain.EventGameSettled, "payload")
	assert.NoError(t, bus.Publish(context.Background(), evt))

	assert.Len(t, got, 1)
	assert.Equal(t, SchemaVersion, got[0].Version)
	assert.Equal(t, "payload", got[0].Payload)
}

func TestBus_IgnoresUnsubscribedTypes(t *testing.T) {
	bus := NewBus()

	called := false
	bus.Subscribe(domain.EventGameSettled, func(ctx context.Context, evt Event) {
		called = true
	})

	assert.NoError(t, bus.Publish(context.Background(), New(domain.EventLevelUp, nil)))
	assert.False(t, called)
}

func TestBus_RecoversPanickingHandler(t *testing.T) {
	bus := NewBus()

	bus.Subscribe(domain.EventGameSettled, func(ctx context.Context, evt Event) {
		panic("handler bug")
	})
	reached := false
	bus.Subscribe(domain.EventGameSettled, func(ctx context.Context, evt Event) {
		reached = true
	})

	assert.NoError(t, bus.Publish(context.Background(), New(domain.EventGameSettled, nil)))
	assert.True(t, reached)
}
