package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"fridgeshare/internal/config"
	"fridgeshare/internal/database"
	"fridgeshare/internal/email"
	"fridgeshare/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t      *testing.T
	db     *sql.DB
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Initialize(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Environment:     "development",
		SessionDuration: time.Hour,
		PublicURL:       "http://fridge.test",
	}

	router := gin.New()
	SetupRoutes(router, db, cfg, email.NewService(cfg))

	return &testServer{t: t, db: db, router: router}
}

// login creates a user with a live session and returns its cookie.
func (s *testServer) login(name string) *http.Cookie {
	s.t.Helper()
	user, err := database.CreateUser(s.db, name, name+"@example.com", "password123")
	require.NoError(s.t, err)
	session, err := database.CreateSession(s.db, user.ID, time.Hour)
	require.NoError(s.t, err)
	return &http.Cookie{Name: middleware.SessionCookie, Value: session.ID}
}

func (s *testServer) do(cookie *http.Cookie, method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type idBody struct {
	ID   int    `json:"id"`
	Slug string `json:"slug"`
	URL  string `json:"url"`
}

func TestUnauthenticated(t *testing.T) {
	s := newTestServer(t)
	w := s.do(nil, http.MethodGet, "/fridges", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFridgeLifecycle(t *testing.T) {
	s := newTestServer(t)
	alice := s.login("alice")
	bob := s.login("bob")

	w := s.do(alice, http.MethodPost, "/fridges", gin.H{"name": "Home"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	fridge := decode[idBody](t, w)
	base := "/fridges/" + strconv.Itoa(fridge.ID)

	w = s.do(alice, http.MethodPost, base+"/categories", gin.H{"name": "Dairy"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(alice, http.MethodPost, base+"/categories", gin.H{"name": "Dairy"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists in this fridge")

	w = s.do(alice, http.MethodPost, base+"/categories", gin.H{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(bob, http.MethodGet, base+"/categories", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(alice, http.MethodGet, "/fridges/999/categories", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(alice, http.MethodPost, base+"/products", gin.H{"name": "Milk", "quantity": 1, "unit": "l"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	milk := decode[idBody](t, w)

	w = s.do(alice, http.MethodPost, base+"/recipes", gin.H{"name": "Porridge"})
	require.Equal(t, http.StatusCreated, w.Code)
	recipe := decode[idBody](t, w)

	w = s.do(alice, http.MethodPost, base+"/recipes/"+strconv.Itoa(recipe.ID)+"/products",
		gin.H{"product_id": milk.ID, "quantity_in_recipe": 0.5})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	line := decode[idBody](t, w)

	w = s.do(alice, http.MethodPost, base+"/recipes/"+strconv.Itoa(recipe.ID)+"/add-to-shopping-list", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(alice, http.MethodGet, base+"/products/"+strconv.Itoa(milk.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	product := decode[struct {
		Quantity *float64 `json:"quantity"`
	}](t, w)
	require.NotNil(t, product.Quantity)
	assert.Equal(t, 1.5, *product.Quantity)

	// Child routes outside the fridge prefix are guarded through the child.
	w = s.do(bob, http.MethodGet, "/recipes/"+strconv.Itoa(recipe.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(bob, http.MethodDelete, "/recipe-products/"+strconv.Itoa(line.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(alice, http.MethodGet, "/recipes/"+strconv.Itoa(recipe.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Bob joins through an invitation.
	w = s.do(alice, http.MethodPost, base+"/invitations", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	invitation := decode[idBody](t, w)
	assert.Equal(t, "http://fridge.test/invitations/"+invitation.Slug, invitation.URL)

	w = s.do(bob, http.MethodPost, "/invitations/"+invitation.Slug+"/accept", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(bob, http.MethodPost, "/invitations/"+invitation.Slug+"/accept", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(bob, http.MethodGet, base+"/categories", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(bob, http.MethodDelete, "/recipe-products/"+strconv.Itoa(line.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(alice, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(alice, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChildOfOtherFridgeNotFound(t *testing.T) {
	s := newTestServer(t)
	alice := s.login("alice")

	w := s.do(alice, http.MethodPost, "/fridges", gin.H{"name": "Home"})
	home := decode[idBody](t, w)
	w = s.do(alice, http.MethodPost, "/fridges", gin.H{"name": "Office"})
	office := decode[idBody](t, w)

	w = s.do(alice, http.MethodPost, "/fridges/"+strconv.Itoa(home.ID)+"/shops", gin.H{"name": "Market"})
	require.Equal(t, http.StatusCreated, w.Code)
	shop := decode[idBody](t, w)

	w = s.do(alice, http.MethodDelete, "/fridges/"+strconv.Itoa(office.ID)+"/shops/"+strconv.Itoa(shop.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListProductsFilterValidation(t *testing.T) {
	s := newTestServer(t)
	alice := s.login("alice")

	w := s.do(alice, http.MethodPost, "/fridges", gin.H{"name": "Home"})
	fridge := decode[idBody](t, w)

	w = s.do(alice, http.MethodGet, "/fridges/"+strconv.Itoa(fridge.ID)+"/products?list=pantry", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(alice, http.MethodGet, "/fridges/"+strconv.Itoa(fridge.ID)+"/products?list=shopping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(nil, http.MethodPost, "/register", gin.H{
		"username":         "carol",
		"email":            "carol@example.com",
		"password":         "password123",
		"confirm_password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "password")

	w = s.do(nil, http.MethodPost, "/login", gin.H{"email": "carol@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(nil, http.MethodPost, "/login", gin.H{"email": "carol@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)

	var session *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			session = ck
		}
	}
	require.NotNil(t, session)

	w = s.do(&http.Cookie{Name: session.Name, Value: session.Value}, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"carol@example.com"`)
	assert.NotContains(t, w.Body.String(), "password")
}
