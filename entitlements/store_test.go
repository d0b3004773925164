// SPDX-License-Identifier: GPL-3.0-only

package entitlements

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"lingua-server/db"
	"lingua-server/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupStoreDB(t *testing.T) uint {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "store_test.db")
	conn, err := gorm.Open(sqlite.Open(dbPath+"?_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := conn.AutoMigrate(models.AllModels...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	db.Conn = conn

	user := models.User{
		AccountID: "acct_store_test",
		Email:     "store@example.com",
		Password:  "hashed",
	}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user.ID
}

func TestFetchNotFound(t *testing.T) {
	userID := setupStoreDB(t)
	store := NewStore()

	_, err := store.Fetch(userID)
	if !errors.Is(err, ErrEntitlementNotFound) {
		t.Errorf("Expected ErrEntitlementNotFound, got %v", err)
	}
}

func TestFetchAppliesLapsedGrandfathering(t *testing.T) {
	userID := setupStoreDB(t)
	store := NewStore()

	past := time.Now().Add(-24 * time.Hour)
	row := models.UserEntitlement{
		UserID:             userID,
		Tier:               models.PremiumTier,
		Status:             models.ActiveStatus,
		IsGrandfathered:    true,
		GrandfatheredUntil: &past,
	}
	if err := db.Conn.Create(&row).Error; err != nil {
		t.Fatalf("Failed to create entitlement row: %v", err)
	}

	entitlement, err := store.Fetch(userID)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if entitlement.Tier != models.FreeTier || entitlement.Status != models.ExpiredStatus {
		t.Errorf("Lapsed grandfathering should read as FREE/EXPIRED, got %s/%s", entitlement.Tier, entitlement.Status)
	}

	// The correction is applied at read time only, the stored row is untouched.
	var stored models.UserEntitlement
	if err := db.Conn.Where("user_id = ?", userID).First(&stored).Error; err != nil {
		t.Fatalf("Failed to re-read entitlement row: %v", err)
	}
	if stored.Tier != models.PremiumTier || stored.Status != models.ActiveStatus {
		t.Errorf("Stored row should be unchanged, got %s/%s", stored.Tier, stored.Status)
	}
}

func TestFetchActiveGrandfathering(t *testing.T) {
	userID := setupStoreDB(t)
	store := NewStore()

	future := time.Now().Add(24 * time.Hour)
	row := models.UserEntitlement{
		UserID:             userID,
		Tier:               models.PremiumTier,
		Status:             models.ActiveStatus,
		IsGrandfathered:    true,
		GrandfatheredUntil: &future,
	}
	if err := db.Conn.Create(&row).Error; err != nil {
		t.Fatalf("Failed to create entitlement row: %v", err)
	}

	entitlement, err := store.Fetch(userID)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if entitlement.Tier != models.PremiumTier || entitlement.Status != models.ActiveStatus {
		t.Errorf("Unexpired grandfathering should keep its tier, got %s/%s", entitlement.Tier, entitlement.Status)
	}
}

func TestApplyInitialPurchase(t *testing.T) {
	userID := setupStoreDB(t)
	store := NewStore()

	product := "lingua_premium_monthly"
	appStore := "APP_STORE"
	expiry := time.Now().Add(30 * 24 * time.Hour).UnixMilli()
	applied, err := store.ApplyProviderEvent(ProviderEvent{
		EventID:        "evt_purchase_1",
		EventType:      EventInitialPurchase,
		UserID:         userID,
		ProductID:      &product,
		Store:          &appStore,
		ExpirationAtMs: expiry,
	})
	if err != nil {
		t.Fatalf("ApplyProviderEvent failed: %v", err)
	}
	if !applied {
		t.Error("First delivery should report applied")
	}

	entitlement, err := store.Fetch(userID)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if entitlement.Tier != models.PremiumTier || entitlement.Status != models.ActiveStatus {
		t.Errorf("Expected PREMIUM/ACTIVE after purchase, got %s/%s", entitlement.Tier, entitlement.Status)
	}
	if entitlement.ProductID == nil || *entitlement.ProductID != product {
		t.Errorf("Expected product id %q, got %v", product, entitlement.ProductID)
	}
	if entitlement.ExpiresAt == nil {
		t.Error("Expected expiry to be set from expiration_at_ms")
	}
}

func TestApplyTrialPurchase(t *testing.T) {
	userID := setupStoreDB(t)
	store := NewStore()

	applied, err := store.ApplyProviderEvent(ProviderEvent{
		EventID:    "evt_trial_1",
		EventType:  EventInitialPurchase,
		PeriodType: "TRIAL",
		UserID:     userID,
	})
	if err != nil {
		t.Fatalf("ApplyProviderEvent failed: %v", err)
	}
	if !applied {
		t.Error("Trial purchase should report applied")
	}

	entitlement, err := store.Fetch(userID)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if entitlement.Tier != models.PremiumTier || entitlement.Status != models.TrialStatus {
		t.Errorf("Expected PREMIUM/TRIAL for a trial purchase, got %s/%s", entitlement.Tier, entitlement.Status)
	}
}

func TestApplyDuplicateEventIsNoOp(t *testing.T) {
	userID := setupStoreDB(t)
	store := NewStore()

	event := ProviderEvent{
		EventID:   "evt_123",
		EventType: EventInitialPurchase,
		UserID:    userID,
	}
	applied, err := store.ApplyProviderEvent(event)
	if err != nil || !applied {
		t.Fatalf("First delivery failed: applied=%v, err=%v", applied, err)
	}

	// Same purchase followed by an expiration, then a redelivered purchase.
	// The redelivery must not resurrect the entitlement.
	applied, err = store.ApplyProviderEvent(ProviderEvent{
		EventID:   "evt_456",
		EventType: EventExpiration,
		UserID:    userID,
	})
	if err != nil || !applied {
		t.Fatalf("Expiration delivery failed: applied=%v, err=%v", applied, err)
	}

	applied, err = store.ApplyProviderEvent(event)
	if err != nil {
		t.Fatalf("Redelivery failed: %v", err)
	}
	if applied {
		t.Error("Redelivered event should not be applied again")
	}

	entitlement, err := store.Fetch(userID)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if entitlement.Tier != models.FreeTier || entitlement.Status != models.ExpiredStatus {
		t.Errorf("Redelivery must not change state, expected FREE/EXPIRED, got %s/%s", entitlement.Tier, entitlement.Status)
	}
}

func TestApplyPurchaseClearsGrandfathering(t *testing.T) {
	userID := setupStoreDB(t)
	store := NewStore()

	future := time.Now().Add(24 * time.Hour)
	row := models.UserEntitlement{
		UserID:             userID,
		Tier:               models.PremiumTier,
		Status:             models.ActiveStatus,
		IsGrandfathered:    true,
		GrandfatheredUntil: &future,
	}
	if err := db.Conn.Create(&row).Error; err != nil {
		t.Fatalf("Failed to create entitlement row: %v", err)
	}

	applied, err := store.ApplyProviderEvent(ProviderEvent{
		EventID:   "evt_real_purchase",
		EventType: EventRenewal,
		UserID:    userID,
	})
	if err != nil || !applied {
		t.Fatalf("ApplyProviderEvent failed: applied=%v, err=%v", applied, err)
	}

	var stored models.UserEntitlement
	if err := db.Conn.Where("user_id = ?", userID).First(&stored).Error; err != nil {
		t.Fatalf("Failed to re-read entitlement row: %v", err)
	}
	if stored.IsGrandfathered {
		t.Error("A real purchase should clear the grandfathered flag")
	}
	if stored.GrandfatheredUntil != nil {
		t.Error("A real purchase should clear the grandfathered deadline")
	}
}

func TestLifecycleTransitions(t *testing.T) {
	cases := []struct {
		eventType string
		tier      models.Tier
		status    models.EntitlementStatus
	}{
		{EventCancellation, models.PremiumTier, models.CancelledStatus},
		{EventBillingIssue, models.PremiumTier, models.GracePeriodStatus},
		{EventSubscriptionPaused, models.PremiumTier, models.CancelledStatus},
		{EventUncancellation, models.PremiumTier, models.ActiveStatus},
		{EventExpiration, models.FreeTier, models.ExpiredStatus},
	}

	for _, tc := range cases {
		userID := setupStoreDB(t)
		store := NewStore()

		applied, err := store.ApplyProviderEvent(ProviderEvent{
			EventID:   "evt_" + tc.eventType,
			EventType: tc.eventType,
			UserID:    userID,
		})
		if err != nil || !applied {
			t.Fatalf("%s: delivery failed: applied=%v, err=%v", tc.eventType, applied, err)
		}

		entitlement, err := store.Fetch(userID)
		if err != nil {
			t.Fatalf("%s: Fetch failed: %v", tc.eventType, err)
		}
		if entitlement.Tier != tc.tier || entitlement.Status != tc.status {
			t.Errorf("%s: expected %s/%s, got %s/%s", tc.eventType, tc.tier, tc.status, entitlement.Tier, entitlement.Status)
		}
	}
}

func TestUnknownEventTypeRecordedButIgnored(t *testing.T) {
	userID := setupStoreDB(t)
	store := NewStore()

	applied, err := store.ApplyProviderEvent(ProviderEvent{
		EventID:   "evt_transfer",
		EventType: "TRANSFER",
		UserID:    userID,
	})
	if err != nil {
		t.Fatalf("ApplyProviderEvent failed: %v", err)
	}
	if !applied {
		t.Error("First delivery of an unknown event type should still be recorded")
	}

	// No entitlement state was created for it.
	if _, err := store.Fetch(userID); !errors.Is(err, ErrEntitlementNotFound) {
		t.Errorf("Unknown event type should not create entitlement state, got %v", err)
	}

	// The dedup record stops redeliveries.
	applied, err = store.ApplyProviderEvent(ProviderEvent{
		EventID:   "evt_transfer",
		EventType: "TRANSFER",
		UserID:    userID,
	})
	if err != nil {
		t.Fatalf("Redelivery failed: %v", err)
	}
	if applied {
		t.Error("Redelivered unknown event should be deduplicated")
	}
}

func TestCacheInvalidation(t *testing.T) {
	userID := setupStoreDB(t)
	store := NewStore()

	row := models.UserEntitlement{
		UserID: userID,
		Tier:   models.FreeTier,
		Status: models.NoneStatus,
	}
	if err := db.Conn.Create(&row).Error; err != nil {
		t.Fatalf("Failed to create entitlement row: %v", err)
	}

	if _, err := store.Fetch(userID); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	// Mutate the row behind the cache's back.
	err := db.Conn.Model(&models.UserEntitlement{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"tier": models.PremiumTier, "status": models.ActiveStatus}).Error
	if err != nil {
		t.Fatalf("Failed to update entitlement row: %v", err)
	}

	cached, err := store.Fetch(userID)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if cached.Tier != models.FreeTier {
		t.Errorf("Expected cached FREE tier before invalidation, got %s", cached.Tier)
	}

	store.Invalidate(userID)

	fresh, err := store.Fetch(userID)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fresh.Tier != models.PremiumTier || fresh.Status != models.ActiveStatus {
		t.Errorf("Expected fresh PREMIUM/ACTIVE after invalidation, got %s/%s", fresh.Tier, fresh.Status)
	}
}
