// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"net/http"

	"lingua-server/entitlements"
	"lingua-server/middlewares"
	"lingua-server/models"
	"lingua-server/quota"

	"github.com/labstack/echo/v4"
)

// GetQuotaSummaryHandler godoc
// @Summary      Get quota summary
// @Description  Retrieves, for every metered action, today's used count, the daily limit and the remaining allowance for the caller's resolved tier. Reflects exactly the data the quota ledger decides on.
// @Tags         quotas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} QuotaSummaryResponse "Quota summary retrieved successfully"
// @Failure      401 {object} echo.HTTPError       "Unauthorized"
// @Failure      500 {object} echo.HTTPError       "Internal server error"
// @Router       /v1/quotas [get]
func GetQuotaSummaryHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to get authenticated user:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	tier := models.FreeTier
	entitlement, err := entitlements.Default.Fetch(user.ID)
	if err != nil && !errors.Is(err, entitlements.ErrEntitlementNotFound) {
		logger.Errorf("Failed to fetch entitlement: %v", err)
		return echo.ErrInternalServerError
	}
	if entitlement != nil {
		tier = entitlement.Tier
	}

	summary, err := quota.Ledger{}.Summary(user.ID, tier)
	if err != nil {
		logger.Errorf("Failed to compute quota summary: %v", err)
		return echo.ErrInternalServerError
	}

	quotas := make(map[string]QuotaItem, len(summary))
	for action, res := range summary {
		quotas[string(action)] = QuotaItem{
			Used:       res.Used,
			DailyLimit: res.DailyLimit,
			Remaining:  res.Remaining,
		}
	}

	return c.JSON(http.StatusOK, QuotaSummaryResponse{
		Tier:    string(tier),
		Quotas:  quotas,
		Message: "Quota summary retrieved successfully",
	})
}
