//go:build test && !integration

package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type namedEvent string

func (e namedEvent) Name() string { return string(e) }

type countingHandler struct {
	seen []Event
}

func (h *countingHandler) Notify(_ context.Context, event Event) {
	h.seen = append(h.seen, event)
}

func TestPublisherRoutesByName(t *testing.T) {
	publisher := NewEventPublisher()

	deliveries := &countingHandler{}
	other := &countingHandler{}

	publisher.Subscribe(deliveries, namedEvent("delivered"))
	publisher.Subscribe(other, namedEvent("something_else"))

	publisher.Notify(context.Background(), namedEvent("delivered"))

	assert.Len(t, deliveries.seen, 1)
	assert.Empty(t, other.seen)
}

func TestPublisherMultipleHandlers(t *testing.T) {
	publisher := NewEventPublisher()

	first := &countingHandler{}
	second := &countingHandler{}

	publisher.Subscribe(first, namedEvent("delivered"))
	publisher.Subscribe(second, namedEvent("delivered"))

	publisher.Notify(context.Background(), namedEvent("delivered"))

	assert.Len(t, first.seen, 1)
	assert.Len(t, second.seen, 1)
}

func TestZeroValuePublisherIsInert(t *testing.T) {
	var publisher EventPublisher

	assert.NotPanics(t, func() {
		publisher.Notify(context.Background(), namedEvent("delivered"))
	})
}
