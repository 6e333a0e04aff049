package feedclient

import (
	"context"
	"fmt"

	"github.com/Arten331/observability/logger"
	"github.com/valyala/fastjson"
	"go.uber.org/zap/zapcore"
	"nhooyr.io/websocket"
)

// Message is one delivered notification as seen on the live feed.
type Message struct {
	NotificationID int64
	RecipientID    int64
	Subject        string
	Body           string
	EventType      string
	CreatedAt      int64
}

func (m Message) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddInt64("notification_id", m.NotificationID)
	encoder.AddInt64("recipient_id", m.RecipientID)
	encoder.AddString("subject", m.Subject)
	encoder.AddString("event_type", m.EventType)

	return nil
}

type Options struct {
	Host string
	Port int
}

// Client consumes a user's notification feed over websocket.
type Client struct {
	FeedURL string
}

func NewClient(o Options) *Client {
	c := &Client{
		FeedURL: fmt.Sprintf("ws://%s:%d/feed", o.Host, o.Port),
	}

	return c
}

// Stream connects to the user's feed and forwards messages until the
// context is cancelled or the connection breaks.
func (c *Client) Stream(ctx context.Context, userID int64) (resultChannel chan Message, errChannel chan error) {
	resultChannel = make(chan Message, 1)
	errChannel = make(chan error, 1)

	go func() {
		var cancel context.CancelFunc

		ctx, cancel = context.WithCancel(ctx)
		defer cancel()

		url := fmt.Sprintf("%s/%d", c.FeedURL, userID)

		conn, _, err := websocket.Dial(ctx, url, nil)
		if err != nil {
			errChannel <- err

			return
		}

		defer func() { _ = conn.Close(websocket.StatusInternalError, "oops, unknown problem") }()

		err = c.readMessages(ctx, conn, resultChannel)
		if err != nil {
			errChannel <- err
		}

		_ = conn.Close(websocket.StatusNormalClosure, "")
	}()

	return resultChannel, errChannel
}

func (c *Client) readMessages(ctx context.Context, conn *websocket.Conn, ch chan<- Message) error {
	var parser fastjson.Parser

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			_, msg, err := conn.Read(ctx)
			if err != nil {
				return err
			}

			message, err := parseMessage(&parser, msg)
			if err != nil {
				logger.L().Debug("skipping malformed feed message")

				continue
			}

			ch <- message
		}
	}
}

func parseMessage(parser *fastjson.Parser, raw []byte) (Message, error) {
	v, err := parser.ParseBytes(raw)
	if err != nil {
		return Message{}, err
	}

	message := Message{
		NotificationID: v.GetInt64("notification_id"),
		RecipientID:    v.GetInt64("recipient_id"),
		EventType:      string(v.GetStringBytes("event_type")),
		CreatedAt:      v.GetInt64("created_at"),
	}

	message.Subject = string(v.GetStringBytes("subject"))
	message.Body = string(v.GetStringBytes("body"))

	return message, nil
}
