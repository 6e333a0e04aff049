package events

import (
	"context"
)

type Event interface {
	Name() string
}

type EventHandler interface {
	Notify(ctx context.Context, event Event)
}
