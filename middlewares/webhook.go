// SPDX-License-Identifier: GPL-3.0-only

package middlewares

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"lingua-server/commons"

	"github.com/labstack/echo/v4"
)

// VerifyWebhookSecretMiddleware authenticates the subscription provider's
// webhook calls with the shared-secret bearer token configured in the
// provider dashboard.
func VerifyWebhookSecretMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := c.Logger()

		secret := commons.GetEnv("WEBHOOK_SECRET")
		if secret == "" {
			logger.Error("WEBHOOK_SECRET is not configured, rejecting webhook call.")
			return &echo.HTTPError{
				Code:    http.StatusInternalServerError,
				Message: "Webhook receiver is not configured",
			}
		}

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			logger.Error("Webhook authorization header missing or invalid.")
			return &echo.HTTPError{
				Code:    http.StatusUnauthorized,
				Message: "Bearer token is required",
			}
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			logger.Error("Webhook token mismatch.")
			return &echo.HTTPError{
				Code:    http.StatusUnauthorized,
				Message: "Invalid webhook token",
			}
		}

		return next(c)
	}
}
