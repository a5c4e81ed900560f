package rabbitmq

import (
	"fmt"
	"time"

	"refund-relay/internal/pkg/helper"

	gonanoid "github.com/matoous/go-nanoid/v2"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Message struct {
	ID          string     `json:"id"`
	Body        []byte     `json:"content"`
	Headers     amqp.Table `json:"headers,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
	ContentType string     `json:"content_type"`
}

// EventBody is the envelope of a published event.
type EventBody struct {
	Pattern string      `json:"type"`
	Data    interface{} `json:"data"`
	ID      string      `json:"id"`
}

// NewEvent wraps data in an EventBody of the given type.
func NewEvent(pattern string, data interface{}, headers amqp.Table) (*Message, error) {
	gid, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	id := fmt.Sprintf("msg_%s_%d", gid, time.Now().Unix())

	body, err := helper.JSONToByte(EventBody{Pattern: pattern, Data: data, ID: id})
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", pattern, err)
	}

	if headers == nil {
		headers = amqp.Table{}
	}
	headers["type"] = pattern

	return &Message{
		ID:          id,
		Body:        body,
		Headers:     headers,
		Timestamp:   helper.TimeRightNow(),
		ContentType: "application/json",
	}, nil
}

func (m *Message) GeneratePayload() amqp.Publishing {
	m.Headers["id"] = m.ID

	return amqp.Publishing{
		ContentType:  m.ContentType,
		Body:         m.Body,
		MessageId:    m.ID,
		Timestamp:    m.Timestamp,
		DeliveryMode: amqp.Persistent,
		Headers:      m.Headers,
	}
}
