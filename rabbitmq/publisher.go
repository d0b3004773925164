// SPDX-License-Identifier: GPL-3.0-only

package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lingua-server/commons"

	amqp "github.com/rabbitmq/amqp091-go"
)

// NewPublisher builds a publisher for the entitlement events exchange.
// When AMQP_URL is unset the publisher is disabled and Publish is a no-op;
// entitlement fan-out is best effort and never blocks the webhook path.
func NewPublisher(c PublisherConfig) *Publisher {
	if c.amqpURL == "" {
		c.amqpURL = commons.GetEnv("AMQP_URL")
	}
	if c.exchange == "" {
		c.exchange = commons.GetEnv("AMQP_EXCHANGE", "lingua.entitlements")
	}
	return &Publisher{
		AMQPURL:  c.amqpURL,
		Exchange: c.exchange,
	}
}

func (p *Publisher) Enabled() bool {
	return p.AMQPURL != ""
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.AMQPURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.Exchange, "fanout", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("exchange declare: %w", err)
	}
	p.conn = conn
	p.channel = ch
	return nil
}

// Publish sends one entitlement-changed event to the fanout exchange.
func (p *Publisher) Publish(ctx context.Context, event EntitlementChangedEvent) error {
	if !p.Enabled() {
		commons.Logger.Debug("AMQP publisher disabled, skipping entitlement event")
		return nil
	}

	if p.channel == nil || p.channel.IsClosed() {
		if err := p.connect(); err != nil {
			return err
		}
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(publishCtx, p.Exchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	commons.Logger.Debugf("Published entitlement event for %s (%s/%s)", event.AccountID, event.Tier, event.Status)
	return nil
}

func (p *Publisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
