package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventTicketClosed, func(_ context.Context, event Event) error {
		got = append(got, event)
		return nil
	})
	d.Subscribe(EventTicketCreated, func(_ context.Context, _ Event) error {
		t.Fatal("wrong event type delivered")
		return nil
	})

	err := d.Publish(context.Background(), Event{ID: "e1", Type: EventTicketClosed, TicketID: "t1"})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].TicketID)
}

func TestDispatcherHandlerErrorDoesNotStopDelivery(t *testing.T) {
	d := NewInMemoryDispatcher()

	d.Subscribe(EventReportGenerated, func(_ context.Context, _ Event) error {
		return errors.New("boom")
	})
	delivered := false
	d.Subscribe(EventReportGenerated, func(_ context.Context, _ Event) error {
		delivered = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventReportGenerated})
	require.NoError(t, err)
	assert.True(t, delivered)
}

func TestDispatcherPublishWithoutSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketProcessed}))
}
