package database

import (
	"database/sql"
	"fmt"
	"time"
)

type FridgeStats struct {
	ShoppingListCount int `json:"shopping_list_count"`
	InFridgeCount     int `json:"in_fridge_count"`
	CategoryCount     int `json:"category_count"`
	ShopCount         int `json:"shop_count"`
	RecipeCount       int `json:"recipe_count"`
	MemberCount       int `json:"member_count"`
	PendingInvites    int `json:"pending_invitations"`
}

type FrequentRecipe struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	TimesUsed int       `json:"times_used"`
	LineCount int       `json:"line_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

func GetFridgeStats(db *sql.DB, fridgeID int) (*FridgeStats, error) {
	stats := &FridgeStats{}

	err := db.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN is_in_shopping_list = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN is_in_shopping_list = 0 THEN 1 ELSE 0 END), 0)
		FROM products
		WHERE fridge_id = ?
	`, fridgeID).Scan(&stats.ShoppingListCount, &stats.InFridgeCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get product counts: %w", err)
	}

	counts := []struct {
		query string
		dest  *int
		label string
	}{
		{"SELECT COUNT(*) FROM categories WHERE fridge_id = ?", &stats.CategoryCount, "category"},
		{"SELECT COUNT(*) FROM shops WHERE fridge_id = ?", &stats.ShopCount, "shop"},
		{"SELECT COUNT(*) FROM recipes WHERE fridge_id = ?", &stats.RecipeCount, "recipe"},
		{"SELECT COUNT(*) FROM fridge_members WHERE fridge_id = ?", &stats.MemberCount, "member"},
		{"SELECT COUNT(*) FROM invitations WHERE fridge_id = ?", &stats.PendingInvites, "invitation"},
	}
	for _, c := range counts {
		if err := db.QueryRow(c.query, fridgeID).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to get %s count: %w", c.label, err)
		}
	}

	return stats, nil
}

// GetFrequentRecipes lists the fridge's most merged recipes.
func GetFrequentRecipes(db *sql.DB, fridgeID int, limit int) ([]FrequentRecipe, error) {
	query := `
		SELECT
			r.id,
			r.name,
			r.times_used,
			COUNT(pir.id) AS line_count,
			r.updated_at
		FROM recipes r
		LEFT JOIN products_in_recipes pir ON pir.recipe_id = r.id
		WHERE r.fridge_id = ?
		GROUP BY r.id, r.name, r.times_used, r.updated_at
		ORDER BY r.times_used DESC, r.name
		LIMIT ?
	`

	rows, err := db.Query(query, fridgeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query frequent recipes: %w", err)
	}
	defer rows.Close()

	recipes := []FrequentRecipe{}
	for rows.Next() {
		var r FrequentRecipe
		if err := rows.Scan(&r.ID, &r.Name, &r.TimesUsed, &r.LineCount, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan frequent recipe: %w", err)
		}
		recipes = append(recipes, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating frequent recipes: %w", err)
	}

	return recipes, nil
}
