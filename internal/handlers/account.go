package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"fridgeshare/internal/database"
	"fridgeshare/internal/logger"
	"fridgeshare/internal/middleware"

	"github.com/gin-gonic/gin"
)

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func handleChangePassword(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	userID := middleware.UserID(c)

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalid("Invalid request body"))
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		respondError(c, invalid("All password fields are required"))
		return
	}

	if req.NewPassword != req.ConfirmPassword {
		respondError(c, invalid("New passwords do not match"))
		return
	}

	if len(req.NewPassword) < 8 {
		respondError(c, invalid("New password must be at least 8 characters long"))
		return
	}

	sessionID, _ := c.Cookie(middleware.SessionCookie)
	err := database.ChangePassword(db, userID, req.CurrentPassword, req.NewPassword, sessionID)
	if errors.Is(err, database.ErrInvalidCredentials) {
		respondError(c, invalid("Current password is incorrect"))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Password changed", "user_id", userID)
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
