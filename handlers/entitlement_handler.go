// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"net/http"
	"time"

	"lingua-server/entitlements"
	"lingua-server/middlewares"
	"lingua-server/models"

	"github.com/labstack/echo/v4"
)

// GetEntitlementHandler godoc
// @Summary      Get the authenticated user's entitlement
// @Description  Retrieves the resolved subscription state. A lapsed grandfathered grant reads as FREE/EXPIRED.
// @Tags         entitlements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} EntitlementResponse "Entitlement retrieved successfully"
// @Failure      401 {object} echo.HTTPError      "Unauthorized"
// @Failure      500 {object} echo.HTTPError      "Internal server error"
// @Router       /v1/entitlements [get]
func GetEntitlementHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to get authenticated user:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	entitlement, err := entitlements.Default.Fetch(user.ID)
	if err != nil {
		if errors.Is(err, entitlements.ErrEntitlementNotFound) {
			// Should not happen post-signup; report the defaults.
			return c.JSON(http.StatusOK, EntitlementResponse{
				Tier:    string(models.FreeTier),
				Status:  string(models.NoneStatus),
				Message: "Entitlement retrieved successfully",
			})
		}
		logger.Errorf("Failed to fetch entitlement: %v", err)
		return echo.ErrInternalServerError
	}

	var expiresAt *string
	if entitlement.ExpiresAt != nil {
		formatted := entitlement.ExpiresAt.Format(time.RFC3339)
		expiresAt = &formatted
	}
	var grandfatheredUntil *string
	if entitlement.GrandfatheredUntil != nil {
		formatted := entitlement.GrandfatheredUntil.Format(time.RFC3339)
		grandfatheredUntil = &formatted
	}

	return c.JSON(http.StatusOK, EntitlementResponse{
		Tier:               string(entitlement.Tier),
		Status:             string(entitlement.Status),
		ExpiresAt:          expiresAt,
		IsGrandfathered:    entitlement.IsGrandfathered,
		GrandfatheredUntil: grandfatheredUntil,
		Message:            "Entitlement retrieved successfully",
	})
}
