package handlers

import (
	"database/sql"
	"net/http"

	"fridgeshare/internal/database"
	"fridgeshare/internal/middleware"

	"github.com/gin-gonic/gin"
)

func handleListCategories(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	categories, err := database.ListCategories(db, middleware.FridgeID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

func handleCreateCategory(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	name, err := bindName(c, "Category")
	if err != nil {
		respondError(c, err)
		return
	}

	category, err := database.CreateCategory(db, middleware.FridgeID(c), name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func handleUpdateCategory(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	fridgeID := middleware.FridgeID(c)

	categoryID, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	name, err := bindName(c, "Category")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := database.UpdateCategory(db, fridgeID, categoryID, name); err != nil {
		respondError(c, err)
		return
	}

	category, err := database.GetCategory(db, fridgeID, categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func handleDeleteCategory(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	categoryID, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := database.DeleteCategory(db, middleware.FridgeID(c), categoryID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
