// SPDX-License-Identifier: GPL-3.0-only

package entitlements

import (
	"lingua-server/models"
)

// Provider event types, as delivered by the subscription provider's
// webhook. The mapping to (tier, status) is deterministic; ordering of
// deliveries is not relied upon.
const (
	EventInitialPurchase    = "INITIAL_PURCHASE"
	EventRenewal            = "RENEWAL"
	EventUncancellation     = "UNCANCELLATION"
	EventSubscriptionExtend = "SUBSCRIPTION_EXTENDED"
	EventCancellation       = "CANCELLATION"
	EventExpiration         = "EXPIRATION"
	EventBillingIssue       = "BILLING_ISSUE"
	EventSubscriptionPaused = "SUBSCRIPTION_PAUSED"
)

const periodTypeTrial = "TRIAL"

// ProviderEvent is one webhook delivery, already authenticated and resolved
// to an internal user id.
type ProviderEvent struct {
	EventID        string
	EventType      string
	PeriodType     string
	UserID         uint
	ProductID      *string
	Store          *string
	ExpirationAtMs int64
}

// mapEventType resolves an event type to the entitlement it implies. The
// second return is false for event types we do not act on; those are still
// recorded as processed so the provider stops redelivering them.
func mapEventType(eventType, periodType string) (models.Tier, models.EntitlementStatus, bool) {
	switch eventType {
	case EventInitialPurchase, EventRenewal, EventUncancellation, EventSubscriptionExtend:
		if periodType == periodTypeTrial {
			return models.PremiumTier, models.TrialStatus, true
		}
		return models.PremiumTier, models.ActiveStatus, true
	case EventCancellation:
		// Cancelled subscriptions stay entitled until their expiry date.
		return models.PremiumTier, models.CancelledStatus, true
	case EventExpiration:
		return models.FreeTier, models.ExpiredStatus, true
	case EventBillingIssue:
		return models.PremiumTier, models.GracePeriodStatus, true
	case EventSubscriptionPaused:
		return models.PremiumTier, models.CancelledStatus, true
	default:
		return "", "", false
	}
}
