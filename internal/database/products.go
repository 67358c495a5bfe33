package database

import (
	"database/sql"
	"fmt"
	"time"

	"fridgeshare/internal/models"
)

// ProductFilter selects which side of the fridge a product listing shows.
type ProductFilter int

const (
	AllProducts ProductFilter = iota
	ShoppingListProducts
	FridgeProducts
)

const productColumns = `
	p.id, p.fridge_id, p.name, p.quantity, p.unit, p.category_id, p.is_in_shopping_list,
	p.avg_time_between_purchases, p.last_bought, p.created_at, p.updated_at,
	c.id, c.name
`

// CreateProduct binds product to fridgeID and inserts it along with its shop
// links. Category and shops must belong to the same fridge.
func CreateProduct(db *sql.DB, fridgeID int, product models.Product) (*models.Product, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensureUniqueName(tx, kindProduct, fridgeID, product.Name, 0); err != nil {
		return nil, err
	}

	if err := checkProductReferences(tx, fridgeID, product); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO products (fridge_id, name, quantity, unit, category_id, is_in_shopping_list)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := tx.Exec(query, fridgeID, product.Name, product.Quantity, product.Unit, product.CategoryID, product.IsInShoppingList)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get product ID: %w", err)
	}

	if err := replaceProductShops(tx, int(id), product.ShopIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product: %w", err)
	}

	product.ID = int(id)
	product.FridgeID = fridgeID
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()
	if product.ShopIDs == nil {
		product.ShopIDs = []int{}
	}

	return &product, nil
}

func ListProducts(db *sql.DB, fridgeID int, filter ProductFilter) ([]models.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.fridge_id = ?`

	switch filter {
	case ShoppingListProducts:
		query += ` AND p.is_in_shopping_list = 1`
	case FridgeProducts:
		query += ` AND p.is_in_shopping_list = 0`
	}
	query += ` ORDER BY c.name, p.name`

	rows, err := db.Query(query, fridgeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	shops, err := shopIDsByProduct(db, fridgeID)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].ShopIDs = shops[products[i].ID]
		if products[i].ShopIDs == nil {
			products[i].ShopIDs = []int{}
		}
	}

	return products, nil
}

func GetProduct(db *sql.DB, fridgeID, productID int) (*models.Product, error) {
	product, err := getProduct(db, fridgeID, productID)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT shop_id FROM product_shops WHERE product_id = ? ORDER BY shop_id`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query product shops: %w", err)
	}
	defer rows.Close()

	product.ShopIDs = []int{}
	for rows.Next() {
		var shopID int
		if err := rows.Scan(&shopID); err != nil {
			return nil, fmt.Errorf("failed to scan product shop: %w", err)
		}
		product.ShopIDs = append(product.ShopIDs, shopID)
	}

	return product, rows.Err()
}

func getProduct(q queryer, fridgeID, productID int) (*models.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.id = ? AND p.fridge_id = ?`

	product, err := scanProduct(q.QueryRow(query, productID, fridgeID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("product")
		}
		return nil, err
	}

	return product, nil
}

// UpdateProduct replaces the editable fields of a product, including its
// shop links. Tracking fields (last_bought, average interval) are untouched.
func UpdateProduct(db *sql.DB, fridgeID, productID int, product models.Product) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensureUniqueName(tx, kindProduct, fridgeID, product.Name, productID); err != nil {
		return err
	}

	if err := checkProductReferences(tx, fridgeID, product); err != nil {
		return err
	}

	query := `
		UPDATE products
		SET name = ?, quantity = ?, unit = ?, category_id = ?, is_in_shopping_list = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND fridge_id = ?
	`

	result, err := tx.Exec(query, product.Name, product.Quantity, product.Unit, product.CategoryID, product.IsInShoppingList, productID, fridgeID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound("product")
	}

	if err := replaceProductShops(tx, productID, product.ShopIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product update: %w", err)
	}

	return nil
}

func DeleteProduct(db *sql.DB, fridgeID, productID int) error {
	result, err := db.Exec(`DELETE FROM products WHERE id = ? AND fridge_id = ?`, productID, fridgeID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound("product")
	}

	return nil
}

func ProductFridgeID(db *sql.DB, productID int) (int, error) {
	return owningFridgeID(db, `SELECT fridge_id FROM products WHERE id = ?`, "product", productID)
}

// saveProductState persists the fields touched by the shopping-list
// operations.
func saveProductState(q queryer, product *models.Product) error {
	query := `
		UPDATE products
		SET quantity = ?, is_in_shopping_list = ?, avg_time_between_purchases = ?, last_bought = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := q.Exec(query, product.Quantity, product.IsInShoppingList, product.AvgTimeBetweenPurchases, product.LastBought, product.ID)
	if err != nil {
		return fmt.Errorf("failed to save product %d: %w", product.ID, err)
	}
	return nil
}

func checkProductReferences(q queryer, fridgeID int, product models.Product) error {
	if product.CategoryID != nil {
		if _, err := getCategory(q, fridgeID, *product.CategoryID); err != nil {
			return err
		}
	}

	for _, shopID := range product.ShopIDs {
		var exists bool
		err := q.QueryRow(`SELECT EXISTS(SELECT 1 FROM shops WHERE id = ? AND fridge_id = ?)`, shopID, fridgeID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check shop: %w", err)
		}
		if !exists {
			return notFound("shop")
		}
	}

	return nil
}

func replaceProductShops(q queryer, productID int, shopIDs []int) error {
	if _, err := q.Exec(`DELETE FROM product_shops WHERE product_id = ?`, productID); err != nil {
		return fmt.Errorf("failed to clear product shops: %w", err)
	}

	for _, shopID := range shopIDs {
		_, err := q.Exec(`INSERT OR IGNORE INTO product_shops (product_id, shop_id) VALUES (?, ?)`, productID, shopID)
		if err != nil {
			return fmt.Errorf("failed to link product to shop: %w", err)
		}
	}

	return nil
}

func shopIDsByProduct(db *sql.DB, fridgeID int) (map[int][]int, error) {
	query := `
		SELECT ps.product_id, ps.shop_id
		FROM product_shops ps
		INNER JOIN products p ON p.id = ps.product_id
		WHERE p.fridge_id = ?
		ORDER BY ps.shop_id
	`

	rows, err := db.Query(query, fridgeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query product shops: %w", err)
	}
	defer rows.Close()

	result := make(map[int][]int)
	for rows.Next() {
		var productID, shopID int
		if err := rows.Scan(&productID, &shopID); err != nil {
			return nil, fmt.Errorf("failed to scan product shop: %w", err)
		}
		result[productID] = append(result[productID], shopID)
	}

	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var product models.Product
	var quantity sql.NullFloat64
	var categoryID, avgTime, joinedCategoryID sql.NullInt64
	var lastBought sql.NullTime
	var categoryName sql.NullString

	err := row.Scan(
		&product.ID,
		&product.FridgeID,
		&product.Name,
		&quantity,
		&product.Unit,
		&categoryID,
		&product.IsInShoppingList,
		&avgTime,
		&lastBought,
		&product.CreatedAt,
		&product.UpdatedAt,
		&joinedCategoryID,
		&categoryName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	if quantity.Valid {
		q := quantity.Float64
		product.Quantity = &q
	}
	if categoryID.Valid {
		id := int(categoryID.Int64)
		product.CategoryID = &id
	}
	if avgTime.Valid {
		v := avgTime.Int64
		product.AvgTimeBetweenPurchases = &v
	}
	if lastBought.Valid {
		t := lastBought.Time
		product.LastBought = &t
	}
	if joinedCategoryID.Valid {
		product.Category = &models.Category{
			ID:       int(joinedCategoryID.Int64),
			FridgeID: product.FridgeID,
			Name:     categoryName.String,
		}
	}

	return &product, nil
}
