package handlers

import (
	"database/sql"
	"net/http"

	"fridgeshare/internal/database"
	"fridgeshare/internal/middleware"

	"github.com/gin-gonic/gin"
)

func handleListShops(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	shops, err := database.ListShops(db, middleware.FridgeID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, shops)
}

func handleCreateShop(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	name, err := bindName(c, "Shop")
	if err != nil {
		respondError(c, err)
		return
	}

	shop, err := database.CreateShop(db, middleware.FridgeID(c), name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, shop)
}

func handleUpdateShop(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	fridgeID := middleware.FridgeID(c)

	shopID, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	name, err := bindName(c, "Shop")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := database.UpdateShop(db, fridgeID, shopID, name); err != nil {
		respondError(c, err)
		return
	}

	shop, err := database.GetShop(db, fridgeID, shopID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shop)
}

func handleDeleteShop(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	shopID, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := database.DeleteShop(db, middleware.FridgeID(c), shopID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
