package notification

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap/zapcore"
)

var (
	ErrRecordNotFound = errors.New("notification record not found")
	ErrSaveRecord     = errors.New("unable save notification record")
)

type Status string

const (
	StatusUnread Status = "UNREAD"
	StatusRead   Status = "READ"
)

// Record is one persisted delivery. The dispatch engine only ever appends
// records; status changes come from the read side (user marking as read).
type Record struct {
	ID          int64
	RecipientID int64
	Subject     string
	Body        string
	Status      Status
	CreatedAt   time.Time
}

type Store interface {
	Save(ctx context.Context, rec Record) (Record, error)
	ListByRecipient(ctx context.Context, recipientID int64) ([]Record, error)
	ListUnread(ctx context.Context, recipientID int64) ([]Record, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context, recipientID int64) error
}

func (r Record) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddInt64("id", r.ID)
	encoder.AddInt64("recipient_id", r.RecipientID)
	encoder.AddString("subject", r.Subject)
	encoder.AddString("status", string(r.Status))

	return nil
}
