package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	var calls []string
	d.Subscribe(EventOrderCreated, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("smtp down")
	})
	d.Subscribe(EventOrderCreated, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventPaymentConfirmed, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), Event{ID: "e1", Type: EventOrderCreated})
	assert.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
}
