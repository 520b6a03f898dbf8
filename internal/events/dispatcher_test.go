package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesAllSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	d.Subscribe(EventTicketCreated, func(_ context.Context, _ Event) error {
		calls = append(calls, "first")
		return nil
	})
	d.Subscribe(EventTicketCreated, func(_ context.Context, _ Event) error {
		calls = append(calls, "second")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketCreated}))
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestPublishOnlyMatchingType(t *testing.T) {
	d := NewInMemoryDispatcher()
	created, assigned := 0, 0
	d.Subscribe(EventTicketCreated, func(_ context.Context, _ Event) error {
		created++
		return nil
	})
	d.Subscribe(EventTicketAssigned, func(_ context.Context, _ Event) error {
		assigned++
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketAssigned}))
	assert.Zero(t, created)
	assert.Equal(t, 1, assigned)
}

func TestHandlerErrorDoesNotAbortDelivery(t *testing.T) {
	d := NewInMemoryDispatcher()
	reached := false
	d.Subscribe(EventTicketCreated, func(_ context.Context, _ Event) error {
		return errors.New("handler broke")
	})
	d.Subscribe(EventTicketCreated, func(_ context.Context, _ Event) error {
		reached = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketCreated}))
	assert.True(t, reached)
}

func TestPublishWithoutSubscribersIsNoOp(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketCommented}))
}
