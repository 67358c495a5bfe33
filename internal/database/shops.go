package database

import (
	"database/sql"
	"fmt"

	"fridgeshare/internal/models"
)

func CreateShop(db *sql.DB, fridgeID int, name string) (*models.Shop, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensureUniqueName(tx, kindShop, fridgeID, name, 0); err != nil {
		return nil, err
	}

	result, err := tx.Exec(`INSERT INTO shops (fridge_id, name) VALUES (?, ?)`, fridgeID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create shop: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get shop ID: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit shop: %w", err)
	}

	return &models.Shop{
		ID:       int(id),
		FridgeID: fridgeID,
		Name:     name,
	}, nil
}

func ListShops(db *sql.DB, fridgeID int) ([]models.Shop, error) {
	query := `
		SELECT id, fridge_id, name, created_at, updated_at
		FROM shops
		WHERE fridge_id = ?
		ORDER BY name
	`

	rows, err := db.Query(query, fridgeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shops: %w", err)
	}
	defer rows.Close()

	shops := []models.Shop{}
	for rows.Next() {
		var shop models.Shop
		if err := rows.Scan(&shop.ID, &shop.FridgeID, &shop.Name, &shop.CreatedAt, &shop.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shop: %w", err)
		}
		shops = append(shops, shop)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shops: %w", err)
	}

	return shops, nil
}

func GetShop(db *sql.DB, fridgeID, shopID int) (*models.Shop, error) {
	shop := &models.Shop{}
	query := `
		SELECT id, fridge_id, name, created_at, updated_at
		FROM shops
		WHERE id = ? AND fridge_id = ?
	`

	err := db.QueryRow(query, shopID, fridgeID).Scan(&shop.ID, &shop.FridgeID, &shop.Name, &shop.CreatedAt, &shop.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("shop")
		}
		return nil, fmt.Errorf("failed to query shop: %w", err)
	}

	return shop, nil
}

func UpdateShop(db *sql.DB, fridgeID, shopID int, name string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensureUniqueName(tx, kindShop, fridgeID, name, shopID); err != nil {
		return err
	}

	result, err := tx.Exec(`
		UPDATE shops
		SET name = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND fridge_id = ?
	`, name, shopID, fridgeID)
	if err != nil {
		return fmt.Errorf("failed to update shop: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound("shop")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit shop update: %w", err)
	}

	return nil
}

func DeleteShop(db *sql.DB, fridgeID, shopID int) error {
	result, err := db.Exec(`DELETE FROM shops WHERE id = ? AND fridge_id = ?`, shopID, fridgeID)
	if err != nil {
		return fmt.Errorf("failed to delete shop: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound("shop")
	}

	return nil
}

func ShopFridgeID(db *sql.DB, shopID int) (int, error) {
	return owningFridgeID(db, `SELECT fridge_id FROM shops WHERE id = ?`, "shop", shopID)
}
