// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"net/http"
	"time"

	"lingua-server/db"
	"lingua-server/entitlements"
	"lingua-server/models"
	"lingua-server/rabbitmq"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ProviderWebhookHandler godoc
// @Summary      Receive a subscription provider event
// @Description  Applies one provider lifecycle event to the user's entitlement. Idempotent by event id; duplicates are acknowledged without reapplying. Internal failures return 5xx so the provider's retry mechanism redelivers.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        event  body  ProviderWebhookRequest  true  "Provider event payload"
// @Success      200 {object} ProviderWebhookResponse "Event processed"
// @Failure      400 {object} echo.HTTPError          "Malformed payload"
// @Failure      401 {object} echo.HTTPError          "Invalid webhook token"
// @Failure      500 {object} echo.HTTPError          "Internal failure, provider should retry"
// @Router       /v1/webhooks/subscription [post]
func ProviderWebhookHandler(c echo.Context) error {
	logger := c.Logger()

	var req ProviderWebhookRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid webhook payload:", err)
		return echo.ErrBadRequest
	}

	if req.EventID == "" || req.EventType == "" || req.AppUserID == "" {
		logger.Error("Webhook payload missing required fields.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "event_id, event_type and app_user_id fields are required",
		}
	}

	user := models.User{}
	if err := db.Conn.Where("account_id = ?", req.AppUserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Not an internal failure; acknowledge so the provider
			// does not redeliver forever.
			logger.Warnf("Webhook event %s references unknown app user %s, ignoring", req.EventID, req.AppUserID)
			return c.JSON(http.StatusOK, ProviderWebhookResponse{
				Applied: false,
				Message: "Unknown app user, event ignored",
			})
		}
		logger.Errorf("Failed to resolve app user: %v", err)
		return echo.ErrInternalServerError
	}

	event := entitlements.ProviderEvent{
		EventID:        req.EventID,
		EventType:      req.EventType,
		PeriodType:     req.PeriodType,
		UserID:         user.ID,
		ExpirationAtMs: req.ExpirationAtMs,
	}
	if req.ProductID != "" {
		event.ProductID = &req.ProductID
	}
	if req.Store != "" {
		event.Store = &req.Store
	}

	applied, err := entitlements.Default.ApplyProviderEvent(event)
	if err != nil {
		// Non-2xx triggers the provider's retry; the event must never
		// be silently dropped.
		logger.Errorf("Failed to apply provider event %s: %v", req.EventID, err)
		return echo.ErrInternalServerError
	}

	if !applied {
		logger.Infof("Provider event %s already processed", req.EventID)
		return c.JSON(http.StatusOK, ProviderWebhookResponse{
			Applied: false,
			Message: "Event already processed",
		})
	}

	publishEntitlementChanged(c, user, req)

	return c.JSON(http.StatusOK, ProviderWebhookResponse{
		Applied: true,
		Message: "Event processed successfully",
	})
}

// publishEntitlementChanged fans the change out to downstream consumers.
// Best effort: a broker outage never fails the webhook.
func publishEntitlementChanged(c echo.Context, user models.User, req ProviderWebhookRequest) {
	logger := c.Logger()

	entitlement, err := entitlements.Default.Fetch(user.ID)
	if err != nil {
		logger.Warnf("Skipping entitlement event publish, fetch failed: %v", err)
		return
	}

	publisher := rabbitmq.NewPublisher(rabbitmq.PublisherConfig{})
	defer publisher.Close()

	event := rabbitmq.EntitlementChangedEvent{
		AccountID:  user.AccountID,
		Tier:       string(entitlement.Tier),
		Status:     string(entitlement.Status),
		EventType:  req.EventType,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if req.ProductID != "" {
		event.ProductID = &req.ProductID
	}

	if err := publisher.Publish(c.Request().Context(), event); err != nil {
		logger.Warnf("Failed to publish entitlement event: %v", err)
	}
}
