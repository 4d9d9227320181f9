package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBusPublishDeliversToAllSubscribers(t *testing.T) {
	bus := NewMemoryBus()

	var first, second int
	bus.Subscribe("node.completed", func(ctx context.Context, e Event) error {
		first++
		return nil
	})
	bus.Subscribe("node.completed", func(ctx context.Context, e Event) error {
		second++
		return nil
	})

	err := bus.Publish(context.Background(), New("node.completed", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

func TestMemoryBusPublishNoSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	assert.NoError(t, bus.Publish(context.Background(), New("village.donated", nil)))
}

func TestMemoryBusHandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewMemoryBus()

	var called bool
	bus.Subscribe("tool.broken", func(ctx context.Context, e Event) error {
		return errors.New("boom")
	})
	bus.Subscribe("tool.broken", func(ctx context.Context, e Event) error {
		called = true
		return nil
	})

	err := bus.Publish(context.Background(), New("tool.broken", nil))
	assert.Error(t, err)
	assert.True(t, called)
}
