package database

import (
	"database/sql"
	"fmt"

	"fridgeshare/internal/models"
)

// AddProductToRecipe adds an ingredient line. Recipe and product must both
// live in fridgeID.
func AddProductToRecipe(db *sql.DB, fridgeID, recipeID, productID int, quantity *float64) (*models.ProductInRecipe, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := getRecipe(tx, fridgeID, recipeID); err != nil {
		return nil, err
	}

	product, err := getProduct(tx, fridgeID, productID)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO products_in_recipes (recipe_id, product_id, quantity_in_recipe)
		VALUES (?, ?, ?)
	`

	result, err := tx.Exec(query, recipeID, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to add product to recipe: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get product in recipe ID: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product in recipe: %w", err)
	}

	return &models.ProductInRecipe{
		ID:               int(id),
		RecipeID:         recipeID,
		ProductID:        productID,
		QuantityInRecipe: quantity,
		ProductName:      product.Name,
		Unit:             product.Unit,
	}, nil
}

func ListProductsInRecipe(db *sql.DB, recipeID int) ([]models.ProductInRecipe, error) {
	return listProductsInRecipe(db, recipeID)
}

func listProductsInRecipe(q queryer, recipeID int) ([]models.ProductInRecipe, error) {
	query := `
		SELECT pir.id, pir.recipe_id, pir.product_id, pir.quantity_in_recipe, p.name, p.unit
		FROM products_in_recipes pir
		INNER JOIN products p ON p.id = pir.product_id
		WHERE pir.recipe_id = ?
		ORDER BY pir.id
	`

	rows, err := q.Query(query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products in recipe: %w", err)
	}
	defer rows.Close()

	lines := []models.ProductInRecipe{}
	for rows.Next() {
		var line models.ProductInRecipe
		var quantity sql.NullFloat64
		if err := rows.Scan(&line.ID, &line.RecipeID, &line.ProductID, &quantity, &line.ProductName, &line.Unit); err != nil {
			return nil, fmt.Errorf("failed to scan product in recipe: %w", err)
		}
		if quantity.Valid {
			q := quantity.Float64
			line.QuantityInRecipe = &q
		}
		lines = append(lines, line)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products in recipe: %w", err)
	}

	return lines, nil
}

func GetProductInRecipe(db *sql.DB, fridgeID, id int) (*models.ProductInRecipe, error) {
	query := `
		SELECT pir.id, pir.recipe_id, pir.product_id, pir.quantity_in_recipe, p.name, p.unit
		FROM products_in_recipes pir
		INNER JOIN recipes r ON r.id = pir.recipe_id
		INNER JOIN products p ON p.id = pir.product_id
		WHERE pir.id = ? AND r.fridge_id = ?
	`

	var line models.ProductInRecipe
	var quantity sql.NullFloat64
	err := db.QueryRow(query, id, fridgeID).Scan(&line.ID, &line.RecipeID, &line.ProductID, &quantity, &line.ProductName, &line.Unit)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("product in recipe")
		}
		return nil, fmt.Errorf("failed to query product in recipe: %w", err)
	}
	if quantity.Valid {
		q := quantity.Float64
		line.QuantityInRecipe = &q
	}

	return &line, nil
}

func UpdateProductInRecipe(db *sql.DB, fridgeID, id int, quantity *float64) error {
	query := `
		UPDATE products_in_recipes
		SET quantity_in_recipe = ?
		WHERE id = ? AND recipe_id IN (SELECT id FROM recipes WHERE fridge_id = ?)
	`

	result, err := db.Exec(query, quantity, id, fridgeID)
	if err != nil {
		return fmt.Errorf("failed to update product in recipe: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound("product in recipe")
	}

	return nil
}

func DeleteProductInRecipe(db *sql.DB, fridgeID, id int) error {
	query := `
		DELETE FROM products_in_recipes
		WHERE id = ? AND recipe_id IN (SELECT id FROM recipes WHERE fridge_id = ?)
	`

	result, err := db.Exec(query, id, fridgeID)
	if err != nil {
		return fmt.Errorf("failed to delete product in recipe: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound("product in recipe")
	}

	return nil
}

// ProductInRecipeFridgeID resolves through the owning recipe.
func ProductInRecipeFridgeID(db *sql.DB, id int) (int, error) {
	query := `
		SELECT r.fridge_id
		FROM products_in_recipes pir
		INNER JOIN recipes r ON r.id = pir.recipe_id
		WHERE pir.id = ?
	`
	return owningFridgeID(db, query, "product in recipe", id)
}
