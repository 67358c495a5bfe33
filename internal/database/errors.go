package database

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by every lookup that finds no row, e.g.
// "category not found".
var ErrNotFound = errors.New("not found")

func notFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// DuplicateNameError reports a name collision inside one fridge. It is a
// user-correctable validation error.
type DuplicateNameError struct {
	Kind string
	Name string
}

func (e *DuplicateNameError) Error() string {
	switch e.Kind {
	case kindCategory.label:
		return fmt.Sprintf("a category named %q already exists in this fridge", e.Name)
	case kindShop.label:
		return fmt.Sprintf("a shop named %q already exists in this fridge", e.Name)
	case kindProduct.label:
		return fmt.Sprintf("a product named %q already exists in this fridge", e.Name)
	case kindRecipe.label:
		return fmt.Sprintf("a recipe named %q already exists in this fridge", e.Name)
	default:
		return fmt.Sprintf("%s %q already exists", e.Kind, e.Name)
	}
}
