package database

import (
	"database/sql"
	"fmt"
	"time"

	"fridgeshare/internal/logger"
	"fridgeshare/internal/models"
)

// MergeResult summarises one application of a recipe to the shopping list.
type MergeResult struct {
	RecipeID        int `json:"recipe_id"`
	ProductsUpdated int `json:"products_updated"`
	// Products holds the state of each touched product after the merge.
	Products []models.Product `json:"products"`
}

// mergeIngredient applies one recipe line to a product.
//
// A product already on the shopping list has the recipe quantity added to
// what is there (a missing current quantity counts as the recipe quantity).
// A product not on the list is put on it and its quantity is overwritten by
// the recipe quantity. A nil recipe quantity never changes the quantity.
func mergeIngredient(product *models.Product, recipeQty *float64) {
	if product.IsInShoppingList {
		if recipeQty == nil {
			return
		}
		if product.Quantity == nil {
			q := *recipeQty
			product.Quantity = &q
			return
		}
		sum := *product.Quantity + *recipeQty
		product.Quantity = &sum
		return
	}

	product.IsInShoppingList = true
	if recipeQty != nil {
		q := *recipeQty
		product.Quantity = &q
	}
}

// AddRecipeToShoppingList merges every ingredient line of the recipe into the
// fridge's shopping list and bumps the recipe's usage counter.
//
// Each product is written on its own. If a write fails the products already
// written stay updated and the returned result counts them.
func AddRecipeToShoppingList(db *sql.DB, fridgeID, recipeID int) (*MergeResult, error) {
	if _, err := getRecipe(db, fridgeID, recipeID); err != nil {
		return nil, err
	}

	lines, err := listProductsInRecipe(db, recipeID)
	if err != nil {
		return nil, err
	}

	result := &MergeResult{RecipeID: recipeID, Products: []models.Product{}}
	for _, line := range lines {
		product, err := getProduct(db, fridgeID, line.ProductID)
		if err != nil {
			return result, fmt.Errorf("failed to load ingredient %d: %w", line.ProductID, err)
		}

		mergeIngredient(product, line.QuantityInRecipe)

		if err := saveProductState(db, product); err != nil {
			logger.Error("Recipe merge stopped part way",
				"recipe_id", recipeID,
				"fridge_id", fridgeID,
				"products_updated", result.ProductsUpdated,
				"error", err)
			return result, err
		}

		result.ProductsUpdated++
		result.Products = append(result.Products, *product)
	}

	if err := incrementRecipeUsage(db, recipeID); err != nil {
		return result, err
	}

	logger.Debug("Recipe merged into shopping list",
		"recipe_id", recipeID,
		"fridge_id", fridgeID,
		"products_updated", result.ProductsUpdated)

	return result, nil
}

// markBought takes a product off the shopping list and folds the interval
// since its previous purchase into the average, each new interval weighing
// half.
func markBought(product *models.Product, now time.Time) {
	if product.LastBought != nil {
		interval := int64(now.Sub(*product.LastBought) / time.Second)
		if interval < 0 {
			interval = 0
		}
		if product.AvgTimeBetweenPurchases == nil {
			product.AvgTimeBetweenPurchases = &interval
		} else {
			avg := (*product.AvgTimeBetweenPurchases + interval) / 2
			product.AvgTimeBetweenPurchases = &avg
		}
	}

	product.IsInShoppingList = false
	product.LastBought = &now
}

// MoveProductsToFridge marks the given products as bought. All ids must
// belong to fridgeID; otherwise nothing is changed.
func MoveProductsToFridge(db *sql.DB, fridgeID int, productIDs []int) ([]models.Product, error) {
	now := time.Now().UTC()
	return moveProducts(db, fridgeID, productIDs, func(p *models.Product) {
		if p.IsInShoppingList {
			markBought(p, now)
		}
	})
}

// MoveProductsToShoppingList puts the given products back on the list.
func MoveProductsToShoppingList(db *sql.DB, fridgeID int, productIDs []int) ([]models.Product, error) {
	return moveProducts(db, fridgeID, productIDs, func(p *models.Product) {
		p.IsInShoppingList = true
	})
}

func moveProducts(db *sql.DB, fridgeID int, productIDs []int, apply func(*models.Product)) ([]models.Product, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	products := make([]models.Product, 0, len(productIDs))
	for _, id := range productIDs {
		product, err := getProduct(tx, fridgeID, id)
		if err != nil {
			return nil, err
		}

		apply(product)

		if err := saveProductState(tx, product); err != nil {
			return nil, err
		}
		products = append(products, *product)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product move: %w", err)
	}

	return products, nil
}
