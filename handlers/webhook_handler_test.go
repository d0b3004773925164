// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"lingua-server/db"
	"lingua-server/entitlements"
	"lingua-server/middlewares"
	"lingua-server/models"

	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testWebhookSecret = "test-webhook-secret"

func setupWebhookTest(t *testing.T) models.User {
	t.Helper()

	t.Setenv("WEBHOOK_SECRET", testWebhookSecret)
	t.Setenv("AMQP_URL", "")

	dbPath := filepath.Join(t.TempDir(), "webhook_test.db")
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
		AccountID: "acct_webhook_test",
		Email:     "webhook@example.com",
		Password:  "hashed",
	}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	entitlements.Default.Reset(user.ID)
	return user
}

func deliverWebhook(t *testing.T, body, token string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/subscription", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := middlewares.VerifyWebhookSecretMiddleware(ProviderWebhookHandler)
	return rec, handler(c)
}

func TestWebhookRejectsMissingToken(t *testing.T) {
	setupWebhookTest(t)

	_, err := deliverWebhook(t, `{}`, "")
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for missing token, got %v", err)
	}
}

func TestWebhookRejectsWrongToken(t *testing.T) {
	setupWebhookTest(t)

	_, err := deliverWebhook(t, `{}`, "wrong-secret")
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for wrong token, got %v", err)
	}
}

func TestWebhookRejectsMissingFields(t *testing.T) {
	setupWebhookTest(t)

	_, err := deliverWebhook(t, `{"event_type":"RENEWAL"}`, testWebhookSecret)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing fields, got %v", err)
	}
}

func TestWebhookAppliesPurchaseEvent(t *testing.T) {
	user := setupWebhookTest(t)

	body := `{
		"event_id": "evt_http_1",
		"event_type": "INITIAL_PURCHASE",
		"app_user_id": "` + user.AccountID + `",
		"product_id": "lingua_premium_monthly",
		"store": "APP_STORE",
		"expiration_at_ms": 1788220800000
	}`
	rec, err := deliverWebhook(t, body, testWebhookSecret)
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp ProviderWebhookResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Applied {
		t.Error("Expected applied=true for a fresh event")
	}

	var entitlement models.UserEntitlement
	if err := db.Conn.Where("user_id = ?", user.ID).First(&entitlement).Error; err != nil {
		t.Fatalf("Failed to read entitlement row: %v", err)
	}
	if entitlement.Tier != models.PremiumTier || entitlement.Status != models.ActiveStatus {
		t.Errorf("Expected PREMIUM/ACTIVE, got %s/%s", entitlement.Tier, entitlement.Status)
	}
}

func TestWebhookDuplicateEventAcknowledged(t *testing.T) {
	user := setupWebhookTest(t)

	body := `{
		"event_id": "evt_http_dup",
		"event_type": "RENEWAL",
		"app_user_id": "` + user.AccountID + `"
	}`
	if _, err := deliverWebhook(t, body, testWebhookSecret); err != nil {
		t.Fatalf("First delivery failed: %v", err)
	}

	rec, err := deliverWebhook(t, body, testWebhookSecret)
	if err != nil {
		t.Fatalf("Second delivery failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for duplicate, got %d", rec.Code)
	}

	var resp ProviderWebhookResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Applied {
		t.Error("Duplicate delivery should not be applied")
	}

	var count int64
	if err := db.Conn.Model(&models.ProcessedProviderEvent{}).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count processed events: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 processed event record, got %d", count)
	}
}

func TestWebhookUnknownUserAcknowledged(t *testing.T) {
	setupWebhookTest(t)

	body := `{
		"event_id": "evt_http_unknown",
		"event_type": "RENEWAL",
		"app_user_id": "acct_does_not_exist"
	}`
	rec, err := deliverWebhook(t, body, testWebhookSecret)
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for unknown user, got %d", rec.Code)
	}

	var resp ProviderWebhookResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Applied {
		t.Error("Unknown user event should not be applied")
	}

	var count int64
	if err := db.Conn.Model(&models.ProcessedProviderEvent{}).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count processed events: %v", err)
	}
	if count != 0 {
		t.Errorf("Unknown user event should not be recorded, got %d records", count)
	}
}
