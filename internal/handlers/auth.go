package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"fridgeshare/internal/config"
	"fridgeshare/internal/database"
	"fridgeshare/internal/logger"
	"fridgeshare/internal/middleware"
	"fridgeshare/internal/models"

	"github.com/gin-gonic/gin"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type registerRequest struct {
	Username        string `json:"username" form:"username"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func handleRegister(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	errors := make(map[string]string)

	if len(username) < 3 || len(username) > 30 {
		errors["username"] = "Username must be between 3 and 30 characters"
	}

	if !emailRegex.MatchString(email) {
		errors["email"] = "Please enter a valid email address"
	}

	if len(req.Password) < 8 {
		errors["password"] = "Password must be at least 8 characters"
	}

	if req.Password != req.ConfirmPassword {
		errors["confirm_password"] = "Passwords do not match"
	}

	if len(errors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": errors})
		return
	}

	user, err := database.CreateUser(db, username, email, req.Password)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "An account with those credentials already exists"})
			return
		}
		respondError(c, err)
		return
	}

	logger.Info("User registered", "user_id", user.ID, "email", user.Email)

	if !startSession(c, db, user) {
		return
	}
	c.JSON(http.StatusCreated, user)
}

func handleLogin(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, err := database.AuthenticateUser(db, email, req.Password)
	if err != nil {
		if !errors.Is(err, database.ErrInvalidCredentials) {
			logger.Error("Login failed", "email", email, "error", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !startSession(c, db, user) {
		return
	}
	c.JSON(http.StatusOK, user)
}

func startSession(c *gin.Context, db *sql.DB, user *models.User) bool {
	cfg := c.MustGet("config").(*config.Config)

	session, err := database.CreateSession(db, user.ID, cfg.SessionDuration)
	if err != nil {
		respondError(c, err)
		return false
	}

	c.SetSameSite(http.SameSiteStrictMode)
	cookieMaxAge := int(cfg.SessionDuration.Seconds())
	c.SetCookie(middleware.SessionCookie, session.ID, cookieMaxAge, "/", "", !cfg.IsDevelopment(), true)
	return true
}

func handleLogout(c *gin.Context) {
	cfg := c.MustGet("config").(*config.Config)

	sessionCookie, err := c.Cookie(middleware.SessionCookie)
	if err == nil {
		db := c.MustGet("db").(*sql.DB)
		if err := database.DeleteSession(db, sessionCookie); err != nil {
			logger.Warn("Failed to delete session", "session_id", sessionCookie, "error", err)
		}
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", !cfg.IsDevelopment(), true)
	c.Status(http.StatusNoContent)
}

func handleMe(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	user, err := database.GetUserByID(db, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
