package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"fridgeshare/internal/access"
	"fridgeshare/internal/config"
	"fridgeshare/internal/email"
	"fridgeshare/internal/middleware"

	"github.com/gin-gonic/gin"
)

const maxNameLength = 100

func SetupRoutes(r *gin.Engine, db *sql.DB, cfg *config.Config, emailService *email.Service) {
	r.Use(middleware.RequestID())
	r.Use(middleware.LogRequests())
	r.Use(middleware.IPBlocker(cfg))
	r.Use(middleware.Track404AndBlock(cfg))
	r.Use(middleware.SecurityHeaders(cfg))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimit(cfg))
	r.Use(middleware.AddDBContext(db))
	r.Use(addConfigContext(cfg))
	r.Use(addEmailServiceContext(emailService))
	r.Use(middleware.TrimSpaces())

	r.GET("/healthz", handleHealth)
	r.POST("/register", middleware.AuthRateLimit(cfg), handleRegister)
	r.POST("/login", middleware.AuthRateLimit(cfg), handleLogin)
	r.POST("/logout", handleLogout)

	authed := r.Group("/")
	authed.Use(middleware.AuthRequired(db, cfg))
	{
		authed.GET("/me", handleMe)
		authed.PUT("/account/password", handleChangePassword)
		authed.GET("/fridges", handleListFridges)
		authed.POST("/fridges", handleCreateFridge)
		authed.GET("/my-recipes", handleMyRecipes)
		authed.POST("/invitations/:slug/accept", handleAcceptInvitation)

		authed.GET("/recipes/:id",
			middleware.FridgeMember(db, middleware.ChildParam(access.KindRecipe, "id")),
			handleGetRecipe)

		recipeProducts := authed.Group("/recipe-products/:id")
		recipeProducts.Use(middleware.FridgeMember(db, middleware.ChildParam(access.KindProductInRecipe, "id")))
		recipeProducts.PUT("", handleUpdateRecipeProduct)
		recipeProducts.DELETE("", handleDeleteRecipeProduct)
	}

	fridge := authed.Group("/fridges/:fridge_id")
	fridge.Use(middleware.FridgeMember(db, middleware.FridgeParam("fridge_id")))
	{
		fridge.GET("", handleGetFridge)
		fridge.PUT("", handleUpdateFridge)
		fridge.DELETE("", handleDeleteFridge)

		fridge.GET("/categories", handleListCategories)
		fridge.POST("/categories", handleCreateCategory)
		fridge.PUT("/categories/:id", handleUpdateCategory)
		fridge.DELETE("/categories/:id", handleDeleteCategory)

		fridge.GET("/shops", handleListShops)
		fridge.POST("/shops", handleCreateShop)
		fridge.PUT("/shops/:id", handleUpdateShop)
		fridge.DELETE("/shops/:id", handleDeleteShop)

		fridge.GET("/products", handleListProducts)
		fridge.POST("/products", handleCreateProduct)
		fridge.POST("/products/to-fridge", handleMoveToFridge)
		fridge.POST("/products/to-shopping-list", handleMoveToShoppingList)
		fridge.GET("/products/:id", handleGetProduct)
		fridge.PUT("/products/:id", handleUpdateProduct)
		fridge.DELETE("/products/:id", handleDeleteProduct)

		fridge.GET("/recipes", handleListRecipes)
		fridge.POST("/recipes", handleCreateRecipe)
		fridge.GET("/recipes/:id", handleGetRecipe)
		fridge.PUT("/recipes/:id", handleUpdateRecipe)
		fridge.DELETE("/recipes/:id", handleDeleteRecipe)
		fridge.POST("/recipes/:id/products", handleAddRecipeProduct)
		fridge.POST("/recipes/:id/add-to-shopping-list", handleAddRecipeToShoppingList)

		fridge.GET("/invitations", handleListInvitations)
		fridge.POST("/invitations", handleCreateInvitation)
		fridge.GET("/invitations/:id", handleGetInvitation)
	}
}

func handleHealth(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	if err := db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func addConfigContext(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	}
}

func addEmailServiceContext(emailService *email.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("email_service", emailService)
		c.Next()
	}
}

func idParam(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, invalid("Invalid " + strings.ReplaceAll(name, "_", " "))
	}
	return id, nil
}

// cleanName trims name and checks it is present and short enough.
func cleanName(label, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid(label + " name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", invalid(label + " name must be less than 100 characters")
	}
	return name, nil
}

type nameRequest struct {
	Name string `json:"name" form:"name"`
}

func bindName(c *gin.Context, label string) (string, error) {
	var req nameRequest
	if err := c.ShouldBind(&req); err != nil {
		return "", invalid("Invalid request body")
	}
	return cleanName(label, req.Name)
}
