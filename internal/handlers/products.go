package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"fridgeshare/internal/database"
	"fridgeshare/internal/middleware"
	"fridgeshare/internal/models"

	"github.com/gin-gonic/gin"
)

type productRequest struct {
	Name             string   `json:"name"`
	Quantity         *float64 `json:"quantity"`
	Unit             string   `json:"unit"`
	CategoryID       *int     `json:"category_id"`
	IsInShoppingList *bool    `json:"is_in_shopping_list"`
	ShopIDs          []int    `json:"shop_ids"`
}

type productIDsRequest struct {
	ProductIDs []int `json:"product_ids"`
}

// bindProduct validates the body. New products land on the shopping list
// unless the request says otherwise.
func bindProduct(c *gin.Context) (models.Product, error) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return models.Product{}, invalid("Invalid request body")
	}

	name, err := cleanName("Product", req.Name)
	if err != nil {
		return models.Product{}, err
	}

	if req.Quantity != nil && *req.Quantity < 0 {
		return models.Product{}, invalid("Quantity cannot be negative")
	}

	unit := strings.TrimSpace(req.Unit)
	if len(unit) > 20 {
		return models.Product{}, invalid("Unit must be less than 20 characters")
	}

	inList := true
	if req.IsInShoppingList != nil {
		inList = *req.IsInShoppingList
	}

	return models.Product{
		Name:             name,
		Quantity:         req.Quantity,
		Unit:             unit,
		CategoryID:       req.CategoryID,
		IsInShoppingList: inList,
		ShopIDs:          req.ShopIDs,
	}, nil
}

func handleListProducts(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	filter := database.AllProducts
	switch c.Query("list") {
	case "":
	case "shopping":
		filter = database.ShoppingListProducts
	case "fridge":
		filter = database.FridgeProducts
	default:
		respondError(c, invalid("list must be 'shopping' or 'fridge'"))
		return
	}

	products, err := database.ListProducts(db, middleware.FridgeID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

func handleCreateProduct(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	product, err := bindProduct(c)
	if err != nil {
		respondError(c, err)
		return
	}

	created, err := database.CreateProduct(db, middleware.FridgeID(c), product)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func handleGetProduct(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	productID, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	product, err := database.GetProduct(db, middleware.FridgeID(c), productID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func handleUpdateProduct(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	fridgeID := middleware.FridgeID(c)

	productID, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	product, err := bindProduct(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := database.UpdateProduct(db, fridgeID, productID, product); err != nil {
		respondError(c, err)
		return
	}

	updated, err := database.GetProduct(db, fridgeID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func handleDeleteProduct(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	productID, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := database.DeleteProduct(db, middleware.FridgeID(c), productID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func bindProductIDs(c *gin.Context) ([]int, error) {
	var req productIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, invalid("Invalid request body")
	}
	if len(req.ProductIDs) == 0 {
		return nil, invalid("product_ids is required")
	}
	return req.ProductIDs, nil
}

func handleMoveToFridge(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	ids, err := bindProductIDs(c)
	if err != nil {
		respondError(c, err)
		return
	}

	products, err := database.MoveProductsToFridge(db, middleware.FridgeID(c), ids)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

func handleMoveToShoppingList(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	ids, err := bindProductIDs(c)
	if err != nil {
		respondError(c, err)
		return
	}

	products, err := database.MoveProductsToShoppingList(db, middleware.FridgeID(c), ids)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}
