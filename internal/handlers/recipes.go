package handlers

import (
	"database/sql"
	"net/http"

	"fridgeshare/internal/database"
	"fridgeshare/internal/logger"
	"fridgeshare/internal/middleware"

	"github.com/gin-gonic/gin"
)

type recipeProductRequest struct {
	ProductID        int      `json:"product_id"`
	QuantityInRecipe *float64 `json:"quantity_in_recipe"`
}

func handleListRecipes(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	recipes, err := database.ListRecipes(db, middleware.FridgeID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipes)
}

// handleMyRecipes lists the caller's recipes across the fridges they belong
// to.
func handleMyRecipes(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	recipes, err := database.ListRecipesByOwner(db, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipes)
}

func handleCreateRecipe(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	name, err := bindName(c, "Recipe")
	if err != nil {
		respondError(c, err)
		return
	}

	recipe, err := database.CreateRecipe(db, middleware.FridgeID(c), middleware.UserID(c), name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func handleGetRecipe(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	recipeID, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	recipe, err := database.GetRecipe(db, middleware.FridgeID(c), recipeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func handleUpdateRecipe(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	fridgeID := middleware.FridgeID(c)

	recipeID, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	name, err := bindName(c, "Recipe")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := database.UpdateRecipe(db, fridgeID, recipeID, name); err != nil {
		respondError(c, err)
		return
	}

	recipe, err := database.GetRecipe(db, fridgeID, recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func handleDeleteRecipe(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	recipeID, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := database.DeleteRecipe(db, middleware.FridgeID(c), recipeID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func bindQuantity(c *gin.Context, req *recipeProductRequest) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return invalid("Invalid request body")
	}
	if req.QuantityInRecipe != nil && *req.QuantityInRecipe < 0 {
		return invalid("Quantity cannot be negative")
	}
	return nil
}

func handleAddRecipeProduct(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	recipeID, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req recipeProductRequest
	if err := bindQuantity(c, &req); err != nil {
		respondError(c, err)
		return
	}
	if req.ProductID <= 0 {
		respondError(c, invalid("product_id is required"))
		return
	}

	line, err := database.AddProductToRecipe(db, middleware.FridgeID(c), recipeID, req.ProductID, req.QuantityInRecipe)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, line)
}

func handleUpdateRecipeProduct(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	fridgeID := middleware.FridgeID(c)

	lineID, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req recipeProductRequest
	if err := bindQuantity(c, &req); err != nil {
		respondError(c, err)
		return
	}

	if err := database.UpdateProductInRecipe(db, fridgeID, lineID, req.QuantityInRecipe); err != nil {
		respondError(c, err)
		return
	}

	line, err := database.GetProductInRecipe(db, fridgeID, lineID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

func handleDeleteRecipeProduct(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	lineID, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := database.DeleteProductInRecipe(db, middleware.FridgeID(c), lineID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func handleAddRecipeToShoppingList(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	fridgeID := middleware.FridgeID(c)

	recipeID, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := database.AddRecipeToShoppingList(db, fridgeID, recipeID)
	if err != nil {
		if result != nil && result.ProductsUpdated > 0 {
			logger.Warn("Recipe partially merged",
				"recipe_id", recipeID,
				"fridge_id", fridgeID,
				"products_updated", result.ProductsUpdated)
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
