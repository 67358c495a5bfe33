package database

import (
	"database/sql"
	"fmt"
	"time"

	"fridgeshare/internal/models"
)

func CreateRecipe(db *sql.DB, fridgeID, ownerID int, name string) (*models.Recipe, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensureUniqueName(tx, kindRecipe, fridgeID, name, 0); err != nil {
		return nil, err
	}

	result, err := tx.Exec(`INSERT INTO recipes (fridge_id, owner_id, name) VALUES (?, ?, ?)`, fridgeID, ownerID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe ID: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit recipe: %w", err)
	}

	return &models.Recipe{
		ID:        int(id),
		FridgeID:  fridgeID,
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

func ListRecipes(db *sql.DB, fridgeID int) ([]models.Recipe, error) {
	query := `
		SELECT id, fridge_id, owner_id, name, times_used, created_at, updated_at
		FROM recipes
		WHERE fridge_id = ?
		ORDER BY name
	`
	return queryRecipes(db, query, fridgeID)
}

// ListRecipesByOwner returns the user's recipes across every fridge the user
// still belongs to.
func ListRecipesByOwner(db *sql.DB, ownerID int) ([]models.Recipe, error) {
	query := `
		SELECT r.id, r.fridge_id, r.owner_id, r.name, r.times_used, r.created_at, r.updated_at
		FROM recipes r
		INNER JOIN fridge_members m ON m.fridge_id = r.fridge_id AND m.user_id = r.owner_id
		WHERE r.owner_id = ?
		ORDER BY r.times_used DESC, r.name
	`
	return queryRecipes(db, query, ownerID)
}

func queryRecipes(db *sql.DB, query string, args ...any) ([]models.Recipe, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	recipes := []models.Recipe{}
	for rows.Next() {
		var recipe models.Recipe
		err := rows.Scan(
			&recipe.ID,
			&recipe.FridgeID,
			&recipe.OwnerID,
			&recipe.Name,
			&recipe.TimesUsed,
			&recipe.CreatedAt,
			&recipe.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipes: %w", err)
	}

	return recipes, nil
}

// GetRecipe loads a recipe and its ingredient lines.
func GetRecipe(db *sql.DB, fridgeID, recipeID int) (*models.Recipe, error) {
	recipe, err := getRecipe(db, fridgeID, recipeID)
	if err != nil {
		return nil, err
	}

	lines, err := ListProductsInRecipe(db, recipeID)
	if err != nil {
		return nil, err
	}
	recipe.Products = lines

	return recipe, nil
}

func getRecipe(q queryer, fridgeID, recipeID int) (*models.Recipe, error) {
	recipe := &models.Recipe{}
	query := `
		SELECT id, fridge_id, owner_id, name, times_used, created_at, updated_at
		FROM recipes
		WHERE id = ? AND fridge_id = ?
	`

	err := q.QueryRow(query, recipeID, fridgeID).Scan(
		&recipe.ID,
		&recipe.FridgeID,
		&recipe.OwnerID,
		&recipe.Name,
		&recipe.TimesUsed,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("recipe")
		}
		return nil, fmt.Errorf("failed to query recipe: %w", err)
	}

	return recipe, nil
}

func UpdateRecipe(db *sql.DB, fridgeID, recipeID int, name string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensureUniqueName(tx, kindRecipe, fridgeID, name, recipeID); err != nil {
		return err
	}

	result, err := tx.Exec(`
		UPDATE recipes
		SET name = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND fridge_id = ?
	`, name, recipeID, fridgeID)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound("recipe")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recipe update: %w", err)
	}

	return nil
}

func DeleteRecipe(db *sql.DB, fridgeID, recipeID int) error {
	result, err := db.Exec(`DELETE FROM recipes WHERE id = ? AND fridge_id = ?`, recipeID, fridgeID)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound("recipe")
	}

	return nil
}

func RecipeFridgeID(db *sql.DB, recipeID int) (int, error) {
	return owningFridgeID(db, `SELECT fridge_id FROM recipes WHERE id = ?`, "recipe", recipeID)
}

func incrementRecipeUsage(q queryer, recipeID int) error {
	_, err := q.Exec(`UPDATE recipes SET times_used = times_used + 1 WHERE id = ?`, recipeID)
	if err != nil {
		return fmt.Errorf("failed to increment recipe usage: %w", err)
	}
	return nil
}
