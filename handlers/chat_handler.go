// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"net/http"

	"lingua-server/middlewares"
	"lingua-server/models"
	"lingua-server/tutor"

	"github.com/labstack/echo/v4"
)

// SendChatMessageHandler godoc
// @Summary      Send a chat message to the AI tutor
// @Description  Continues a tutoring conversation in the user's learning language. Metered: consumes one unit of the caller's daily chat quota.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        chatRequest  body  ChatRequest  true  "Chat request payload"
// @Success      200 {object} ChatResponse            "Chat message processed successfully"
// @Failure      400 {object} echo.HTTPError          "Bad request, missing required fields"
// @Failure      401 {object} echo.HTTPError          "Unauthorized"
// @Failure      429 {object} QuotaExceededResponse   "Daily quota exceeded or chat not available on this plan"
// @Failure      500 {object} echo.HTTPError          "Internal server error"
// @Router       /v1/chat/messages [post]
func SendChatMessageHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to get authenticated user:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid chat request payload:", err)
		return echo.ErrBadRequest
	}

	if len(req.Messages) == 0 {
		logger.Error("Messages are required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "messages field is required",
		}
	}

	if err := consumeQuota(c, user.ID, models.ActionChatMessage, nil); err != nil {
		return err
	}

	client, err := tutor.NewClient(tutor.TutorConfig{})
	if err != nil {
		logger.Error("Failed to initialize tutor client:", err)
		return echo.ErrInternalServerError
	}

	history := make([]tutor.ChatMessage, 0, len(req.Messages))
	for _, turn := range req.Messages {
		history = append(history, tutor.ChatMessage{Role: turn.Role, Content: turn.Content})
	}

	reply, err := client.Chat(c.Request().Context(), user.LearningLanguage, history)
	if err != nil {
		logger.Errorf("Chat completion failed: %v", err)
		return &echo.HTTPError{
			Code:    http.StatusBadGateway,
			Message: "Chat service is unavailable, please try again",
		}
	}

	return c.JSON(http.StatusOK, ChatResponse{
		Reply:   reply,
		Message: "Chat message processed successfully",
	})
}
