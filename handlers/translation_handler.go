// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"net/http"

	"lingua-server/middlewares"
	"lingua-server/models"
	"lingua-server/translator"

	"github.com/labstack/echo/v4"
)

// TranslateHandler godoc
// @Summary      Translate text
// @Description  Translates text between languages. Metered: consumes one unit of the caller's daily translation quota.
// @Tags         translations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        translateRequest  body  TranslateRequest  true  "Translation request payload"
// @Success      200 {object} TranslateResponse       "Translation successful"
// @Failure      400 {object} echo.HTTPError          "Bad request, missing required fields"
// @Failure      401 {object} echo.HTTPError          "Unauthorized"
// @Failure      429 {object} QuotaExceededResponse   "Daily quota exceeded"
// @Failure      500 {object} echo.HTTPError          "Internal server error"
// @Router       /v1/translations [post]
func TranslateHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to get authenticated user:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	var req TranslateRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid translate request payload:", err)
		return echo.ErrBadRequest
	}

	if req.Text == "" {
		logger.Error("Text is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "text field is required",
		}
	}

	targetLang := req.TargetLanguage
	if targetLang == "" {
		targetLang = user.LearningLanguage
	}

	metadata := "target=" + targetLang
	if err := consumeQuota(c, user.ID, models.ActionTranslation, &metadata); err != nil {
		return err
	}

	client, err := translator.NewClient(translator.TranslatorConfig{})
	if err != nil {
		logger.Error("Failed to initialize translator client:", err)
		return echo.ErrInternalServerError
	}

	translation, err := client.Translate(c.Request().Context(), req.Text, req.SourceLanguage, targetLang)
	if err != nil {
		logger.Errorf("Translation failed: %v", err)
		return &echo.HTTPError{
			Code:    http.StatusBadGateway,
			Message: "Translation service is unavailable, please try again",
		}
	}

	return c.JSON(http.StatusOK, TranslateResponse{
		TranslatedText: translation.Text,
		SourceLanguage: translation.SourceLanguage,
		TargetLanguage: translation.TargetLanguage,
		Message:        "Translation successful",
	})
}

// DetectLanguageHandler godoc
// @Summary      Detect the language of a text
// @Description  Identifies the language of a text snippet. Metered: consumes one unit of the caller's daily language-detection quota.
// @Tags         translations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        detectRequest  body  DetectLanguageRequest  true  "Detection request payload"
// @Success      200 {object} DetectLanguageResponse  "Language detected successfully"
// @Failure      400 {object} echo.HTTPError          "Bad request, missing required fields"
// @Failure      401 {object} echo.HTTPError          "Unauthorized"
// @Failure      429 {object} QuotaExceededResponse   "Daily quota exceeded"
// @Failure      500 {object} echo.HTTPError          "Internal server error"
// @Router       /v1/translations/detect [post]
func DetectLanguageHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to get authenticated user:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	var req DetectLanguageRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid detect request payload:", err)
		return echo.ErrBadRequest
	}

	if req.Text == "" {
		logger.Error("Text is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "text field is required",
		}
	}

	if err := consumeQuota(c, user.ID, models.ActionLanguageDetection, nil); err != nil {
		return err
	}

	client, err := translator.NewClient(translator.TranslatorConfig{})
	if err != nil {
		logger.Error("Failed to initialize translator client:", err)
		return echo.ErrInternalServerError
	}

	detection, err := client.Detect(c.Request().Context(), req.Text)
	if err != nil {
		logger.Errorf("Language detection failed: %v", err)
		return &echo.HTTPError{
			Code:    http.StatusBadGateway,
			Message: "Translation service is unavailable, please try again",
		}
	}

	return c.JSON(http.StatusOK, DetectLanguageResponse{
		Language:   detection.Language,
		Confidence: detection.Confidence,
		Message:    "Language detected successfully",
	})
}
