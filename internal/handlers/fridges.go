package handlers

import (
	"database/sql"
	"net/http"

	"fridgeshare/internal/database"
	"fridgeshare/internal/logger"
	"fridgeshare/internal/middleware"

	"github.com/gin-gonic/gin"
)

func handleListFridges(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	fridges, err := database.ListFridgesForUser(db, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, fridges)
}

func handleCreateFridge(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	userID := middleware.UserID(c)

	name, err := bindName(c, "Fridge")
	if err != nil {
		respondError(c, err)
		return
	}

	fridge, err := database.CreateFridge(db, userID, name)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Fridge created", "fridge_id", fridge.ID, "user_id", userID)
	c.JSON(http.StatusCreated, fridge)
}

// handleGetFridge returns the fridge with its members, counters and most
// used recipes.
func handleGetFridge(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	fridgeID := middleware.FridgeID(c)

	fridge, err := database.GetFridge(db, fridgeID)
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := database.GetFridgeStats(db, fridgeID)
	if err != nil {
		respondError(c, err)
		return
	}

	frequent, err := database.GetFrequentRecipes(db, fridgeID, 5)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fridge":           fridge,
		"stats":            stats,
		"frequent_recipes": frequent,
	})
}

func handleUpdateFridge(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	fridgeID := middleware.FridgeID(c)

	name, err := bindName(c, "Fridge")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := database.UpdateFridge(db, fridgeID, name); err != nil {
		respondError(c, err)
		return
	}

	fridge, err := database.GetFridge(db, fridgeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fridge)
}

func handleDeleteFridge(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	fridgeID := middleware.FridgeID(c)

	if err := database.DeleteFridge(db, fridgeID); err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Fridge deleted", "fridge_id", fridgeID, "user_id", middleware.UserID(c))
	c.Status(http.StatusNoContent)
}
