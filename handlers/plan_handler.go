// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"net/http"

	"lingua-server/db"
	"lingua-server/models"

	"github.com/labstack/echo/v4"
)

// GetPlansHandler godoc
// @Summary      Get available plans
// @Description  Retrieves the FREE and PREMIUM plans with their per-action daily limits, for display to clients.
// @Tags         plans
// @Accept       json
// @Produce      json
// @Success      200 {object} GetPlansResponse   "Plans retrieved successfully"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/plans [get]
func GetPlansHandler(c echo.Context) error {
	logger := c.Logger()

	var limits []models.UsageLimit
	if err := db.Conn.Find(&limits).Error; err != nil {
		logger.Error("Failed to retrieve usage limits:", err)
		return &echo.HTTPError{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve plans",
		}
	}

	byTier := map[models.Tier]map[string]int{}
	for _, limit := range limits {
		if byTier[limit.Tier] == nil {
			byTier[limit.Tier] = map[string]int{}
		}
		byTier[limit.Tier][string(limit.ActionType)] = limit.DailyLimit
	}

	var plans []PlanLimits
	for _, tier := range []models.Tier{models.FreeTier, models.PremiumTier} {
		dailyLimits := byTier[tier]
		if dailyLimits == nil {
			dailyLimits = map[string]int{}
		}
		plans = append(plans, PlanLimits{
			Name:        string(tier),
			DailyLimits: dailyLimits,
			Recommended: tier == models.PremiumTier,
		})
	}

	return c.JSON(http.StatusOK, GetPlansResponse{
		Message: "Plans retrieved successfully",
		Plans:   plans,
	})
}
