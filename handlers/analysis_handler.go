// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"net/http"

	"lingua-server/middlewares"
	"lingua-server/models"
	"lingua-server/tutor"

	"github.com/labstack/echo/v4"
)

func analysisClient(c echo.Context) (*tutor.Client, error) {
	client, err := tutor.NewClient(tutor.TutorConfig{})
	if err != nil {
		c.Logger().Error("Failed to initialize tutor client:", err)
		return nil, echo.ErrInternalServerError
	}
	return client, nil
}

// AnalyzeCEFRHandler godoc
// @Summary      Assess the CEFR level of a text
// @Description  Estimates text complexity on the CEFR scale (A1-C2). Metered: consumes one unit of the caller's daily CEFR-analysis quota.
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        analyzeRequest  body  AnalyzeTextRequest  true  "Analysis request payload"
// @Success      200 {object} AnalysisResponse        "Analysis successful"
// @Failure      400 {object} echo.HTTPError          "Bad request, missing required fields"
// @Failure      401 {object} echo.HTTPError          "Unauthorized"
// @Failure      429 {object} QuotaExceededResponse   "Daily quota exceeded"
// @Failure      500 {object} echo.HTTPError          "Internal server error"
// @Router       /v1/analysis/cefr [post]
func AnalyzeCEFRHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to get authenticated user:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	var req AnalyzeTextRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid analysis request payload:", err)
		return echo.ErrBadRequest
	}
	if req.Text == "" {
		logger.Error("Text is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "text field is required",
		}
	}

	if err := consumeQuota(c, user.ID, models.ActionCEFRAnalysis, nil); err != nil {
		return err
	}

	client, err := analysisClient(c)
	if err != nil {
		return err
	}

	analysis, err := client.AssessCEFR(c.Request().Context(), req.Text)
	if err != nil {
		logger.Errorf("CEFR analysis failed: %v", err)
		return &echo.HTTPError{
			Code:    http.StatusBadGateway,
			Message: "Analysis service is unavailable, please try again",
		}
	}

	return c.JSON(http.StatusOK, AnalysisResponse{
		Analysis: analysis,
		Message:  "Analysis successful",
	})
}

// AnalyzeVerbHandler godoc
// @Summary      Analyze verbs in a sentence
// @Description  Explains tense, mood and usage of the verbs in a sentence. Metered: consumes one unit of the caller's daily verb-analysis quota.
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        analyzeRequest  body  AnalyzeTextRequest  true  "Analysis request payload"
// @Success      200 {object} AnalysisResponse        "Analysis successful"
// @Failure      400 {object} echo.HTTPError          "Bad request, missing required fields"
// @Failure      401 {object} echo.HTTPError          "Unauthorized"
// @Failure      429 {object} QuotaExceededResponse   "Daily quota exceeded"
// @Failure      500 {object} echo.HTTPError          "Internal server error"
// @Router       /v1/analysis/verb [post]
func AnalyzeVerbHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to get authenticated user:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	var req AnalyzeTextRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid analysis request payload:", err)
		return echo.ErrBadRequest
	}
	if req.Text == "" {
		logger.Error("Text is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "text field is required",
		}
	}

	language := req.Language
	if language == "" {
		language = user.LearningLanguage
	}

	if err := consumeQuota(c, user.ID, models.ActionVerbAnalysis, nil); err != nil {
		return err
	}

	client, err := analysisClient(c)
	if err != nil {
		return err
	}

	analysis, err := client.AnalyzeVerb(c.Request().Context(), req.Text, language)
	if err != nil {
		logger.Errorf("Verb analysis failed: %v", err)
		return &echo.HTTPError{
			Code:    http.StatusBadGateway,
			Message: "Analysis service is unavailable, please try again",
		}
	}

	return c.JSON(http.StatusOK, AnalysisResponse{
		Analysis: analysis,
		Message:  "Analysis successful",
	})
}

// ConjugateVerbHandler godoc
// @Summary      Conjugate a verb
// @Description  Returns conjugation tables for a verb. Metered: consumes one unit of the caller's daily verb-conjugation quota.
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        conjugateRequest  body  ConjugateRequest  true  "Conjugation request payload"
// @Success      200 {object} AnalysisResponse        "Conjugation successful"
// @Failure      400 {object} echo.HTTPError          "Bad request, missing required fields"
// @Failure      401 {object} echo.HTTPError          "Unauthorized"
// @Failure      429 {object} QuotaExceededResponse   "Daily quota exceeded"
// @Failure      500 {object} echo.HTTPError          "Internal server error"
// @Router       /v1/analysis/conjugation [post]
func ConjugateVerbHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to get authenticated user:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	var req ConjugateRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid conjugation request payload:", err)
		return echo.ErrBadRequest
	}
	if req.Verb == "" {
		logger.Error("Verb is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "verb field is required",
		}
	}

	language := req.Language
	if language == "" {
		language = user.LearningLanguage
	}

	if err := consumeQuota(c, user.ID, models.ActionVerbConjugation, nil); err != nil {
		return err
	}

	client, err := analysisClient(c)
	if err != nil {
		return err
	}

	conjugation, err := client.ConjugateVerb(c.Request().Context(), req.Verb, language)
	if err != nil {
		logger.Errorf("Verb conjugation failed: %v", err)
		return &echo.HTTPError{
			Code:    http.StatusBadGateway,
			Message: "Analysis service is unavailable, please try again",
		}
	}

	return c.JSON(http.StatusOK, AnalysisResponse{
		Analysis: conjugation,
		Message:  "Conjugation successful",
	})
}
