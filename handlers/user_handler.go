// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"net/http"

	"lingua-server/crypto"
	"lingua-server/db"
	"lingua-server/entitlements"
	"lingua-server/middlewares"
	"lingua-server/models"

	"github.com/labstack/echo/v4"
)

// GetUserHandler godoc
// @Summary      Get the authenticated user
// @Description  Retrieves the user's profile with the resolved subscription tier and status.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} GetUserResponse    "User retrieved successfully"
// @Failure      401 {object} echo.HTTPError     "Unauthorized"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/users/ [get]
func GetUserHandler(c echo.Context) error {
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
	status := models.NoneStatus
	entitlement, err := entitlements.Default.Fetch(user.ID)
	if err != nil && !errors.Is(err, entitlements.ErrEntitlementNotFound) {
		logger.Errorf("Failed to fetch entitlement: %v", err)
		return echo.ErrInternalServerError
	}
	if entitlement != nil {
		tier = entitlement.Tier
		status = entitlement.Status
	}

	return c.JSON(http.StatusOK, GetUserResponse{
		AccountID:        user.AccountID,
		Email:            user.Email,
		NativeLanguage:   user.NativeLanguage,
		LearningLanguage: user.LearningLanguage,
		Tier:             string(tier),
		Status:           string(status),
		Message:          "User retrieved successfully",
	})
}

// DeleteAccountHandler godoc
// @Summary      Delete the authenticated user's account
// @Description  Permanently deletes the account and all associated data: sessions, entitlement, usage log and processed provider events.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        deleteAccountRequest  body  DeleteAccountRequest  true  "Password confirmation"
// @Success      200 {object} GenericResponse    "Account deleted successfully"
// @Failure      401 {object} echo.HTTPError     "Unauthorized"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/users/ [delete]
func DeleteAccountHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to get authenticated user:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	var req DeleteAccountRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid delete account request payload:", err)
		return echo.ErrBadRequest
	}

	newCrypto := crypto.NewCrypto()
	if err := newCrypto.VerifyPassword(req.Password, user.Password); err != nil {
		logger.Error("Password verification failed for account deletion.")
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Password is incorrect",
		}
	}

	tx := db.Conn.Begin()
	if tx.Error != nil {
		logger.Errorf("Transaction begin failed: %v", tx.Error)
		return echo.ErrInternalServerError
	}

	for _, model := range []any{
		&models.Session{},
		&models.UsageLogEntry{},
		&models.ProcessedProviderEvent{},
		&models.UserEntitlement{},
	} {
		if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(model).Error; err != nil {
			tx.Rollback()
			logger.Errorf("Failed to delete user data: %v", err)
			return echo.ErrInternalServerError
		}
	}

	if err := tx.Unscoped().Delete(user).Error; err != nil {
		tx.Rollback()
		logger.Errorf("Failed to delete user: %v", err)
		return echo.ErrInternalServerError
	}

	if err := tx.Commit().Error; err != nil {
		logger.Errorf("Transaction commit failed: %v", err)
		return echo.ErrInternalServerError
	}

	entitlements.Default.Reset(user.ID)

	logger.Infof("Account deleted successfully")
	return c.JSON(http.StatusOK, GenericResponse{Message: "Account deleted successfully"})
}
