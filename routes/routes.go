// SPDX-License-Identifier: GPL-3.0-only

package routes

import (
	"lingua-server/commons"
	"lingua-server/handlers"
	"lingua-server/middlewares"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	commons.Logger.Debug("Registering v1 routes")
	api_v1 := e.Group("/v1")
	api_v1.POST("/auth/signup", handlers.SignupHandler)
	api_v1.POST("/auth/login", handlers.LoginHandler)
	api_v1.POST("/auth/logout", handlers.LogoutHandler, middlewares.VerifySessionMiddleware)
	api_v1.GET("/users/", handlers.GetUserHandler, middlewares.VerifySessionMiddleware)
	api_v1.DELETE("/users/", handlers.DeleteAccountHandler, middlewares.VerifySessionMiddleware)
	api_v1.GET("/entitlements", handlers.GetEntitlementHandler, middlewares.VerifySessionMiddleware)
	api_v1.GET("/quotas", handlers.GetQuotaSummaryHandler, middlewares.VerifySessionMiddleware)
	api_v1.GET("/plans", handlers.GetPlansHandler)
	api_v1.POST("/translations", handlers.TranslateHandler, middlewares.VerifySessionMiddleware)
	api_v1.POST("/translations/detect", handlers.DetectLanguageHandler, middlewares.VerifySessionMiddleware)
	api_v1.POST("/analysis/cefr", handlers.AnalyzeCEFRHandler, middlewares.VerifySessionMiddleware)
	api_v1.POST("/analysis/verb", handlers.AnalyzeVerbHandler, middlewares.VerifySessionMiddleware)
	api_v1.POST("/analysis/conjugation", handlers.ConjugateVerbHandler, middlewares.VerifySessionMiddleware)
	api_v1.POST("/chat/messages", handlers.SendChatMessageHandler, middlewares.VerifySessionMiddleware)
	api_v1.POST("/webhooks/subscription", handlers.ProviderWebhookHandler, middlewares.VerifyWebhookSecretMiddleware)
	commons.Logger.Info("v1 routes registered successfully")
}
