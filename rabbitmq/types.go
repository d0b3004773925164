// SPDX-License-Identifier: GPL-3.0-only

package rabbitmq

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

type PublisherConfig struct {
	amqpURL  string
	exchange string
}

type Publisher struct {
	AMQPURL  string
	Exchange string
	conn     *amqp.Connection
	channel  *amqp.Channel
}

// EntitlementChangedEvent is the message fanned out to downstream
// consumers (push notifications, analytics) whenever a provider event
// mutates an entitlement.
type EntitlementChangedEvent struct {
	AccountID  string  `json:"account_id"`
	Tier       string  `json:"tier"`
	Status     string  `json:"status"`
	EventType  string  `json:"event_type"`
	ProductID  *string `json:"product_id,omitempty"`
	OccurredAt string  `json:"occurred_at"`
}
