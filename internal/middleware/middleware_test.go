package middleware

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"fridgeshare/internal/access"
	"fridgeshare/internal/config"
	"fridgeshare/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Initialize(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func TestFridgeMember(t *testing.T) {
	db := setupTestDB(t)

	alice, err := database.CreateUser(db, "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	bob, err := database.CreateUser(db, "bob", "bob@example.com", "password123")
	require.NoError(t, err)
	fridge, err := database.CreateFridge(db, alice.ID, "Home")
	require.NoError(t, err)
	shop, err := database.CreateShop(db, fridge.ID, "Market")
	require.NoError(t, err)

	router := gin.New()
	asUser := func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id == "bob" {
			c.Set(userIDKey, bob.ID)
		} else {
			c.Set(userIDKey, alice.ID)
		}
	}
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"fridge_id": FridgeID(c)}) }
	router.GET("/fridges/:fridge_id", asUser, FridgeMember(db, FridgeParam("fridge_id")), ok)
	router.GET("/shops/:id", asUser, FridgeMember(db, ChildParam(access.KindShop, "id")), ok)

	tests := []struct {
		name   string
		path   string
		user   string
		status int
	}{
		{"member direct", "/fridges/1", "alice", http.StatusOK},
		{"member via child", "/shops/1", "alice", http.StatusOK},
		{"stranger direct", "/fridges/1", "bob", http.StatusForbidden},
		{"stranger via child", "/shops/1", "bob", http.StatusForbidden},
		{"missing fridge", "/fridges/42", "alice", http.StatusNotFound},
		{"missing child", "/shops/42", "bob", http.StatusNotFound},
		{"bad id", "/fridges/abc", "alice", http.StatusBadRequest},
	}

	require.Equal(t, 1, fridge.ID)
	require.Equal(t, 1, shop.ID)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("X-Test-User", tt.user)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestAuthRequiredRejectsMissingSession(t *testing.T) {
	db := setupTestDB(t)
	cfg := &config.Config{Environment: "development"}

	router := gin.New()
	router.GET("/private", AuthRequired(db, cfg), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "bogus"})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get("X-Request-ID")
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}
