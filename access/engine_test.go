// SPDX-License-Identifier: GPL-3.0-only

package access

import (
	"errors"
	"testing"

	"lingua-server/entitlements"
	"lingua-server/models"
	"lingua-server/quota"
)

type fakeSource struct {
	entitlement *models.UserEntitlement
	err         error
}

func (f *fakeSource) Fetch(userID uint) (*models.UserEntitlement, error) {
	return f.entitlement, f.err
}

type fakeLedger struct {
	result     quota.Result
	err        error
	calls      int
	lastTier   models.Tier
	lastAction models.ActionType
}

func (f *fakeLedger) CheckLimit(userID uint, tier models.Tier, action models.ActionType) (quota.Result, error) {
	f.calls++
	f.lastTier = tier
	f.lastAction = action
	return f.result, f.err
}

func (f *fakeLedger) LogAndCheck(userID uint, tier models.Tier, action models.ActionType, metadata *string) (quota.Result, error) {
	f.calls++
	f.lastTier = tier
	f.lastAction = action
	return f.result, f.err
}

func premiumWith(status models.EntitlementStatus) *models.UserEntitlement {
	return &models.UserEntitlement{Tier: models.PremiumTier, Status: status}
}

func TestPremiumStatusesBypassLedger(t *testing.T) {
	for _, status := range []models.EntitlementStatus{
		models.ActiveStatus,
		models.TrialStatus,
		models.GracePeriodStatus,
	} {
		ledger := &fakeLedger{}
		engine := &Engine{
			Entitlements: &fakeSource{entitlement: premiumWith(status)},
			Ledger:       ledger,
		}

		if err := engine.CheckAndConsume(1, models.ActionTranslation, nil); err != nil {
			t.Errorf("%s: expected bypass, got %v", status, err)
		}
		if !engine.CanPerformAction(1, models.ActionTranslation) {
			t.Errorf("%s: CanPerformAction should be true", status)
		}
		if ledger.calls != 0 {
			t.Errorf("%s: premium bypass must not touch the ledger, got %d calls", status, ledger.calls)
		}
	}
}

func TestCancelledPremiumGoesThroughLedger(t *testing.T) {
	ledger := &fakeLedger{result: quota.Result{Allowed: true, Remaining: -1, DailyLimit: -1}}
	engine := &Engine{
		Entitlements: &fakeSource{entitlement: premiumWith(models.CancelledStatus)},
		Ledger:       ledger,
	}

	if err := engine.CheckAndConsume(1, models.ActionTranslation, nil); err != nil {
		t.Errorf("Expected allowed, got %v", err)
	}
	if ledger.calls != 1 {
		t.Fatalf("Cancelled premium should consult the ledger, got %d calls", ledger.calls)
	}
	if ledger.lastTier != models.PremiumTier {
		t.Errorf("Cancelled premium should keep premium limits, got tier %s", ledger.lastTier)
	}
}

func TestMissingEntitlementUsesFreeTier(t *testing.T) {
	ledger := &fakeLedger{result: quota.Result{Allowed: true, Remaining: 9, DailyLimit: 10}}
	engine := &Engine{
		Entitlements: &fakeSource{err: entitlements.ErrEntitlementNotFound},
		Ledger:       ledger,
	}

	if err := engine.CheckAndConsume(1, models.ActionTranslation, nil); err != nil {
		t.Errorf("Expected allowed, got %v", err)
	}
	if ledger.lastTier != models.FreeTier {
		t.Errorf("Missing entitlement should resolve to FREE, got %s", ledger.lastTier)
	}
}

func TestFetchFailureDegradesToFree(t *testing.T) {
	ledger := &fakeLedger{result: quota.Result{Allowed: true, Remaining: 9, DailyLimit: 10}}
	engine := &Engine{
		Entitlements: &fakeSource{err: errors.New("connection refused")},
		Ledger:       ledger,
	}

	if err := engine.CheckAndConsume(1, models.ActionTranslation, nil); err != nil {
		t.Errorf("Expected allowed via free-tier degradation, got %v", err)
	}
	if ledger.lastTier != models.FreeTier {
		t.Errorf("Fetch failure should degrade to FREE, got %s", ledger.lastTier)
	}
}

func TestCheckAndConsumeDenial(t *testing.T) {
	ledger := &fakeLedger{result: quota.Result{Allowed: false, Used: 10, Remaining: 0, DailyLimit: 10}}
	engine := &Engine{
		Entitlements: &fakeSource{err: entitlements.ErrEntitlementNotFound},
		Ledger:       ledger,
	}

	err := engine.CheckAndConsume(1, models.ActionTranslation, nil)
	if err == nil {
		t.Fatal("Expected denial error")
	}

	var quotaErr *QuotaExceededError
	if !errors.As(err, &quotaErr) {
		t.Fatalf("Expected *QuotaExceededError, got %T", err)
	}
	if quotaErr.ActionType != models.ActionTranslation {
		t.Errorf("Expected action translation, got %s", quotaErr.ActionType)
	}
	if quotaErr.Remaining != 0 || quotaErr.DailyLimit != 10 {
		t.Errorf("Expected remaining 0, limit 10, got remaining %d, limit %d", quotaErr.Remaining, quotaErr.DailyLimit)
	}
}

func TestDisabledFeatureDenial(t *testing.T) {
	ledger := &fakeLedger{result: quota.Result{Allowed: false, Remaining: 0, DailyLimit: 0}}
	engine := &Engine{
		Entitlements: &fakeSource{err: entitlements.ErrEntitlementNotFound},
		Ledger:       ledger,
	}

	err := engine.CheckAndConsume(1, models.ActionChatMessage, nil)
	var quotaErr *QuotaExceededError
	if !errors.As(err, &quotaErr) {
		t.Fatalf("Expected *QuotaExceededError, got %T", err)
	}
	if quotaErr.DailyLimit != models.DisabledDailyLimit {
		t.Errorf("Expected daily limit 0 for disabled feature, got %d", quotaErr.DailyLimit)
	}
}

func TestLedgerFailureFailsOpen(t *testing.T) {
	ledger := &fakeLedger{err: errors.New("disk I/O error")}
	engine := &Engine{
		Entitlements: &fakeSource{err: entitlements.ErrEntitlementNotFound},
		Ledger:       ledger,
	}

	if err := engine.CheckAndConsume(1, models.ActionTranslation, nil); err != nil {
		t.Errorf("Ledger failure should fail open, got %v", err)
	}
	if !engine.CanPerformAction(1, models.ActionTranslation) {
		t.Error("Ledger failure should fail open on probes too")
	}
}

func TestCanPerformActionDenied(t *testing.T) {
	ledger := &fakeLedger{result: quota.Result{Allowed: false, Remaining: 0, DailyLimit: 5}}
	engine := &Engine{
		Entitlements: &fakeSource{err: entitlements.ErrEntitlementNotFound},
		Ledger:       ledger,
	}

	if engine.CanPerformAction(1, models.ActionCEFRAnalysis) {
		t.Error("Expected probe to report denial")
	}
}
