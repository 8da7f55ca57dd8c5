package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"cinebook/internal/model"
)

const (
	confirmedQueueName = "booking.confirmed"
	cancelledQueueName = "booking.cancelled"
)

// Publisher publishes booking lifecycle events to RabbitMQ. Errors are
// logged and returned so callers can ignore failures without interrupting
// the main request flow. A nil Publisher or empty URL disables publishing.
type Publisher struct {
	url string
}

// NewPublisher returns a Publisher for the given AMQP URL. An empty URL
// yields a publisher whose methods are no-ops.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// PublishBookingConfirmed emits a BookingConfirmedEvent for the booking.
func (p *Publisher) PublishBookingConfirmed(ctx context.Context, b *model.Booking, st *model.Showtime) error {
	ev := BookingConfirmedEvent{
		BookingID:        b.ID,
		UserID:           b.UserID,
		ShowtimeID:       b.ShowtimeID,
		MovieID:          st.MovieID,
		HallID:           st.HallID,
		StartsAt:         st.StartTime.UTC().Format(time.RFC3339),
		SeatLabels:       b.Seats,
		TotalAmountCents: b.TotalPriceCents,
		ConfirmedAt:      b.CreatedAt.UTC().Format(time.RFC3339),
	}
	return p.publish(ctx, confirmedQueueName, ev)
}

// PublishBookingCancelled emits a BookingCancelledEvent for the booking.
func (p *Publisher) PublishBookingCancelled(ctx context.Context, b *model.Booking) error {
	ev := BookingCancelledEvent{
		BookingID:   b.ID,
		UserID:      b.UserID,
		ShowtimeID:  b.ShowtimeID,
		SeatLabels:  b.Seats,
		CancelledBy: string(b.CanceledBy),
		CancelledAt: b.UpdatedAt.UTC().Format(time.RFC3339),
	}
	return p.publish(ctx, cancelledQueueName, ev)
}

// publish dials the broker, declares the durable queue, and sends one
// persistent JSON message. The connection is short-lived on purpose; event
// volume is low and a fresh dial avoids carrying broken channels around.
func (p *Publisher) publish(ctx context.Context, queueName string, event any) error {
	if p == nil || p.url == "" {
		return nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
