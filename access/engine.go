// SPDX-License-Identifier: GPL-3.0-only

// Package access is the single choke-point every metered feature passes
// through before doing its paid work. It composes the entitlement store
// and the quota ledger and never writes storage itself.
package access

import (
	"errors"
	"fmt"

	"lingua-server/commons"
	"lingua-server/entitlements"
	"lingua-server/models"
	"lingua-server/quota"
)

// EntitlementSource resolves a user's current subscription state.
type EntitlementSource interface {
	Fetch(userID uint) (*models.UserEntitlement, error)
}

// Ledger enforces per-day quotas for non-premium users.
type Ledger interface {
	CheckLimit(userID uint, tier models.Tier, action models.ActionType) (quota.Result, error)
	LogAndCheck(userID uint, tier models.Tier, action models.ActionType, metadata *string) (quota.Result, error)
}

// QuotaExceededError carries enough structure for the caller to choose the
// right upgrade prompt: DailyLimit 0 means the plan does not include the
// feature, Remaining 0 with a positive limit means today's allowance is
// used up.
type QuotaExceededError struct {
	ActionType models.ActionType
	Remaining  int
	DailyLimit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded for %s (remaining=%d, daily_limit=%d)", e.ActionType, e.Remaining, e.DailyLimit)
}

type Engine struct {
	Entitlements EntitlementSource
	Ledger       Ledger
}

// Gate is the engine the handlers consult, wired to the real store and
// ledger.
var Gate = &Engine{
	Entitlements: entitlements.Default,
	Ledger:       quota.Ledger{},
}

// resolveTier returns the tier the ledger should use plus whether the user
// bypasses the ledger entirely. Premium users with ACTIVE, TRIAL or
// GRACE_PERIOD status bypass; a billing hiccup must not cut off a paying
// user. A missing entitlement row reads as FREE/NONE, and a failed fetch
// degrades to FREE so the ledger decides.
func (en *Engine) resolveTier(userID uint) (models.Tier, bool) {
	entitlement, err := en.Entitlements.Fetch(userID)
	if err != nil {
		if !errors.Is(err, entitlements.ErrEntitlementNotFound) {
			commons.Logger.Warnf("Entitlement fetch failed for user %d, treating as free tier: %v", userID, err)
		}
		return models.FreeTier, false
	}

	if entitlement.Tier == models.PremiumTier {
		switch entitlement.Status {
		case models.ActiveStatus, models.TrialStatus, models.GracePeriodStatus:
			return models.PremiumTier, true
		}
	}
	return entitlement.Tier, false
}

// CanPerformAction answers "is this action allowed right now" without
// consuming quota.
func (en *Engine) CanPerformAction(userID uint, action models.ActionType) bool {
	tier, bypass := en.resolveTier(userID)
	if bypass {
		return true
	}

	res, err := en.Ledger.CheckLimit(userID, tier, action)
	if err != nil {
		commons.Logger.Warnf("Quota probe failed for (%d, %s), allowing: %v", userID, action, err)
		return true
	}
	return res.Allowed
}

// CheckAndConsume admits the action and burns one unit of quota, or
// returns *QuotaExceededError. Callers must invoke it exactly once per
// logical action, immediately before the paid work.
func (en *Engine) CheckAndConsume(userID uint, action models.ActionType, metadata *string) error {
	tier, bypass := en.resolveTier(userID)
	if bypass {
		return nil
	}

	res, err := en.Ledger.LogAndCheck(userID, tier, action, metadata)
	if err != nil {
		commons.Logger.Warnf("Quota consume failed for (%d, %s), allowing: %v", userID, action, err)
		return nil
	}
	if !res.Allowed {
		return &QuotaExceededError{
			ActionType: action,
			Remaining:  res.Remaining,
			DailyLimit: res.DailyLimit,
		}
	}
	return nil
}
