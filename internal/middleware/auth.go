package middleware

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"fridgeshare/internal/access"
	"fridgeshare/internal/config"
	"fridgeshare/internal/database"
	"fridgeshare/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "session_id"
	userKey       = "user"
	userIDKey     = "user_id"
	fridgeIDKey   = "fridge_id"
)

// AuthRequired resolves the session cookie to a user. Requests without a
// valid session get a 401.
func AuthRequired(db *sql.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionCookie, err := c.Cookie(SessionCookie)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		user, err := database.ValidateSession(db, sessionCookie, cfg.SessionDuration)
		if err != nil {
			c.SetSameSite(http.SameSiteStrictMode)
			c.SetCookie(SessionCookie, "", -1, "/", "", !cfg.IsDevelopment(), true)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			return
		}

		c.Set(userKey, user)
		c.Set(userIDKey, user.ID)
		c.Set("db", db)
		c.Next()
	}
}

// RefFunc extracts the guarded reference from a request.
type RefFunc func(c *gin.Context) (access.Ref, error)

// FridgeParam guards a route by the fridge id in the named path parameter.
func FridgeParam(name string) RefFunc {
	return func(c *gin.Context) (access.Ref, error) {
		id, err := strconv.Atoi(c.Param(name))
		if err != nil {
			return access.Ref{}, err
		}
		return access.Direct(id), nil
	}
}

// ChildParam guards a route by the fridge owning the child in the named path
// parameter.
func ChildParam(kind access.Kind, name string) RefFunc {
	return func(c *gin.Context) (access.Ref, error) {
		id, err := strconv.Atoi(c.Param(name))
		if err != nil {
			return access.Ref{}, err
		}
		return access.ViaChild(kind, id), nil
	}
}

// FridgeMember runs the access guard before the handler. On success the
// resolved fridge id is available through FridgeID.
func FridgeMember(db *sql.DB, refFn RefFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref, err := refFn(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
			return
		}

		userID := UserID(c)
		fridgeID, err := access.Authorize(db, userID, ref)
		switch {
		case err == nil:
		case errors.Is(err, database.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		case errors.Is(err, access.ErrForbidden):
			logger.Warn("Fridge access denied",
				"user_id", userID,
				"kind", ref.Kind.String(),
				"target_id", ref.ID)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You are not a member of this fridge"})
			return
		default:
			logger.Error("Access check failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Set(fridgeIDKey, fridgeID)
		c.Next()
	}
}

func UserID(c *gin.Context) int {
	return c.GetInt(userIDKey)
}

func FridgeID(c *gin.Context) int {
	return c.GetInt(fridgeIDKey)
}
