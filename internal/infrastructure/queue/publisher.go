package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/huntsmart/client-engine/internal/core/domain"
)

// ClaimRecordedEvent is published when a verified booking code is credited.
// It carries enough for payout and analytics consumers to act without
// querying the claim ledger.
type ClaimRecordedEvent struct {
	ProfileID string `json:"profile_id"`
	Code      string `json:"code"`
	Claimant  string `json:"claimant"`
	Location  string `json:"location"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	ClaimedAt string `json:"claimed_at"`
}

// claimChannel is the part of *amqp.Channel the publisher uses.
type claimChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// AMQPPublisher publishes claim events to a durable RabbitMQ queue. The
// connection is dialled lazily and re-dialled after a failure.
type AMQPPublisher struct {
	url   string
	queue string
	log   zerolog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   claimChannel
	open func() (claimChannel, error)
}

// NewAMQPPublisher creates a publisher for the given broker URL and queue.
func NewAMQPPublisher(url, queue string, log zerolog.Logger) *AMQPPublisher {
	p := &AMQPPublisher{url: url, queue: queue, log: log}
	p.open = p.dial
	return p
}

func (p *AMQPPublisher) channel() (claimChannel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	ch, err := p.open()
	if err != nil {
		return nil, err
	}
	p.ch = ch
	return ch, nil
}

func (p *AMQPPublisher) dial() (claimChannel, error) {
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			return nil, fmt.Errorf("amqp dial: %w", err)
		}
		p.conn = conn
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("amqp queue declare: %w", err)
	}
	return ch, nil
}

// PublishClaimRecorded satisfies ports.ClaimPublisher.
func (p *AMQPPublisher) PublishClaimRecorded(ctx context.Context, rec domain.ClaimRecord) error {
	body, err := json.Marshal(ClaimRecordedEvent{
		ProfileID: rec.ProfileID,
		Code:      rec.Code,
		Claimant:  rec.Claimant,
		Location:  rec.Location,
		Amount:    rec.Amount,
		Currency:  rec.Currency,
		ClaimedAt: rec.ClaimedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal claim event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		_ = ch.Close()
		p.ch = nil
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

// Close releases the broker connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

// NopPublisher drops claim events; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishClaimRecorded(context.Context, domain.ClaimRecord) error { return nil }
