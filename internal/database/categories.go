package database

import (
	"database/sql"
	"fmt"

	"fridgeshare/internal/models"
)

func CreateCategory(db *sql.DB, fridgeID int, name string) (*models.Category, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensureUniqueName(tx, kindCategory, fridgeID, name, 0); err != nil {
		return nil, err
	}

	result, err := tx.Exec(`INSERT INTO categories (fridge_id, name) VALUES (?, ?)`, fridgeID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category ID: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit category: %w", err)
	}

	return &models.Category{
		ID:       int(id),
		FridgeID: fridgeID,
		Name:     name,
	}, nil
}

func ListCategories(db *sql.DB, fridgeID int) ([]models.Category, error) {
	query := `
		SELECT id, fridge_id, name, created_at, updated_at
		FROM categories
		WHERE fridge_id = ?
		ORDER BY name
	`

	rows, err := db.Query(query, fridgeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var category models.Category
		err := rows.Scan(
			&category.ID,
			&category.FridgeID,
			&category.Name,
			&category.CreatedAt,
			&category.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

func GetCategory(db *sql.DB, fridgeID, categoryID int) (*models.Category, error) {
	return getCategory(db, fridgeID, categoryID)
}

func getCategory(q queryer, fridgeID, categoryID int) (*models.Category, error) {
	category := &models.Category{}
	query := `
		SELECT id, fridge_id, name, created_at, updated_at
		FROM categories
		WHERE id = ? AND fridge_id = ?
	`

	err := q.QueryRow(query, categoryID, fridgeID).Scan(
		&category.ID,
		&category.FridgeID,
		&category.Name,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("category")
		}
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return category, nil
}

func UpdateCategory(db *sql.DB, fridgeID, categoryID int, name string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensureUniqueName(tx, kindCategory, fridgeID, name, categoryID); err != nil {
		return err
	}

	query := `
		UPDATE categories
		SET name = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND fridge_id = ?
	`

	result, err := tx.Exec(query, name, categoryID, fridgeID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound("category")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit category update: %w", err)
	}

	return nil
}

// DeleteCategory removes the category. Products keep existing with their
// category cleared (ON DELETE SET NULL).
func DeleteCategory(db *sql.DB, fridgeID, categoryID int) error {
	result, err := db.Exec(`DELETE FROM categories WHERE id = ? AND fridge_id = ?`, categoryID, fridgeID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound("category")
	}

	return nil
}

func CategoryFridgeID(db *sql.DB, categoryID int) (int, error) {
	return owningFridgeID(db, `SELECT fridge_id FROM categories WHERE id = ?`, "category", categoryID)
}

// owningFridgeID runs a single-column fridge_id lookup for a child row.
func owningFridgeID(db *sql.DB, query, entity string, id int) (int, error) {
	var fridgeID int
	if err := db.QueryRow(query, id).Scan(&fridgeID); err != nil {
		if err == sql.ErrNoRows {
			return 0, notFound(entity)
		}
		return 0, fmt.Errorf("failed to resolve %s fridge: %w", entity, err)
	}
	return fridgeID, nil
}
