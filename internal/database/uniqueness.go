package database

import (
	"fmt"
)

type namedKind struct {
	table string
	label string
}

var (
	kindCategory = namedKind{table: "categories", label: "category"}
	kindShop     = namedKind{table: "shops", label: "shop"}
	kindProduct  = namedKind{table: "products", label: "product"}
	kindRecipe   = namedKind{table: "recipes", label: "recipe"}
)

// ensureUniqueName fails with *DuplicateNameError when another row of the same
// kind in the same fridge already carries name. excludeID is the row being
// renamed, or 0 on create.
//
// This is a pre-check. The UNIQUE(fridge_id, name) constraint still catches a
// concurrent insert that lands between the check and the write.
func ensureUniqueName(q queryer, kind namedKind, fridgeID int, name string, excludeID int) error {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE fridge_id = ? AND name = ? AND id != ?`, kind.table)

	var count int
	if err := q.QueryRow(query, fridgeID, name, excludeID).Scan(&count); err != nil {
		return fmt.Errorf("failed to check %s name: %w", kind.label, err)
	}

	if count > 0 {
		return &DuplicateNameError{Kind: kind.label, Name: name}
	}

	return nil
}
