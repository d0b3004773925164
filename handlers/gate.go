// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"net/http"

	"lingua-server/access"
	"lingua-server/models"

	"github.com/labstack/echo/v4"
)

// consumeQuota runs the access gate for one metered action and translates
// a denial into the 429 payload the client's upgrade prompt consumes.
// Callers must invoke it exactly once per logical action, immediately
// before the paid work.
func consumeQuota(c echo.Context, userID uint, action models.ActionType, metadata *string) error {
	err := access.Gate.CheckAndConsume(userID, action, metadata)
	if err == nil {
		return nil
	}

	var quotaErr *access.QuotaExceededError
	if errors.As(err, &quotaErr) {
		message := "Daily limit reached, upgrade to continue"
		if quotaErr.DailyLimit == models.DisabledDailyLimit {
			message = "This feature is not available on your plan"
		}
		return echo.NewHTTPError(http.StatusTooManyRequests, QuotaExceededResponse{
			ActionType: string(quotaErr.ActionType),
			Remaining:  quotaErr.Remaining,
			DailyLimit: quotaErr.DailyLimit,
			Message:    message,
		})
	}

	c.Logger().Errorf("Quota gate failed for action %s: %v", action, err)
	return echo.ErrInternalServerError
}
