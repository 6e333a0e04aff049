package delivery

import (
	"encoding/json"
	"time"

	kafkaClient "github.com/Arten331/messaging/kafka"
	"github.com/eduplatform/notifier/internal/app/global"
	"github.com/eduplatform/notifier/internal/events"
	"github.com/segmentio/kafka-go"
)

const (
	KeyNotificationDelivered = "notification_delivered"
	typeNotifierDelivery     = "notifier_delivery"
)

type Event interface {
	events.Event
	kafkaClient.QueueableMessage
}

// DeliveryKafkaMessage is the envelope the downstream channel workers read
// from the delivery topic.
type DeliveryKafkaMessage struct {
	Timestamp   int64  `json:"timestamp"`
	App         string `json:"app"`
	Environment string `json:"environment"`
	Type        string `json:"type"`
	Data        string `json:"data"`
}

// Recorded is emitted after a notification record was written for a
// recipient. One event per successful delivery.
type Recorded struct {
	NotificationID int64  `json:"notification_id"`
	RecipientID    int64  `json:"recipient_id"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	EventType      string `json:"event_type"`
	CreatedAt      int64  `json:"created_at"`
}

func (e *Recorded) Name() string {
	return KeyNotificationDelivered
}

func (e *Recorded) KafkaMessage() (kafka.Message, error) {
	km := NewDeliveryKafkaMessage(e)

	msg, err := json.Marshal(km)
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(e.Name()),
		Value: msg,
	}, nil
}

func NewDeliveryKafkaMessage(data any) DeliveryKafkaMessage {
	eventData, _ := json.Marshal(data)

	dm := DeliveryKafkaMessage{
		Timestamp:   time.Now().Unix(),
		App:         global.AppName(),
		Environment: global.AppEnv(),
		Type:        typeNotifierDelivery,
		Data:        string(eventData),
	}

	return dm
}
