package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Vision-Tey/scandi-shop-client/internal/domain"
)

const confirmedTopic = "order-confirmed"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher emits an event for every order the backend acknowledged.
// Publishing is best effort: a broker hiccup never fails a submitted
// order, it only gets logged by the caller.
type Publisher struct {
	writer messageWriter
}

func NewPublisher(brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  confirmedTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w}
}

func (p *Publisher) Close() error {
	if closer, ok := p.writer.(*kafka.Writer); ok {
		return closer.Close()
	}
	return nil
}

type confirmedEvent struct {
	OrderID       string             `json:"order_id"`
	SessionID     string             `json:"session_id"`
	CustomerEmail string             `json:"customer_email"`
	TotalPrice    float64            `json:"total_price"`
	Lines         []domain.OrderLine `json:"lines"`
	SubmittedAt   time.Time          `json:"submitted_at"`
}

func (p *Publisher) PublishConfirmed(ctx context.Context, orderID, sessionID string, draft *domain.OrderDraft) error {
	payload, err := json.Marshal(confirmedEvent{
		OrderID:       orderID,
		SessionID:     sessionID,
		CustomerEmail: draft.CustomerEmail,
		TotalPrice:    draft.TotalPrice,
		Lines:         draft.Lines,
		SubmittedAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(sessionID), // per-session ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order.confirmed")},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}
