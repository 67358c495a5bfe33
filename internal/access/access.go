// Package access decides whether a user may act on something that lives in a
// fridge.
package access

import (
	"database/sql"
	"errors"
	"fmt"

	"fridgeshare/internal/database"
)

// ErrForbidden means the target exists but the user is not a member of its
// fridge.
var ErrForbidden = errors.New("forbidden")

type Kind int

const (
	KindFridge Kind = iota
	KindCategory
	KindShop
	KindProduct
	KindRecipe
	KindProductInRecipe
	KindInvitation
)

func (k Kind) String() string {
	switch k {
	case KindFridge:
		return "fridge"
	case KindCategory:
		return "category"
	case KindShop:
		return "shop"
	case KindProduct:
		return "product"
	case KindRecipe:
		return "recipe"
	case KindProductInRecipe:
		return "product in recipe"
	case KindInvitation:
		return "invitation"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Ref points at a fridge, either directly or through one of its children.
type Ref struct {
	Kind Kind
	ID   int
}

func Direct(fridgeID int) Ref {
	return Ref{Kind: KindFridge, ID: fridgeID}
}

func ViaChild(kind Kind, id int) Ref {
	return Ref{Kind: kind, ID: id}
}

var resolvers = map[Kind]func(*sql.DB, int) (int, error){
	KindCategory:        database.CategoryFridgeID,
	KindShop:            database.ShopFridgeID,
	KindProduct:         database.ProductFridgeID,
	KindRecipe:          database.RecipeFridgeID,
	KindProductInRecipe: database.ProductInRecipeFridgeID,
	KindInvitation:      database.InvitationFridgeID,
}

// Resolve returns the id of the fridge ref belongs to. Missing targets wrap
// database.ErrNotFound.
func Resolve(db *sql.DB, ref Ref) (int, error) {
	if ref.Kind == KindFridge {
		exists, err := database.FridgeExists(db, ref.ID)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, fmt.Errorf("fridge %w", database.ErrNotFound)
		}
		return ref.ID, nil
	}

	resolve, ok := resolvers[ref.Kind]
	if !ok {
		return 0, fmt.Errorf("unknown reference kind %s", ref.Kind)
	}
	return resolve(db, ref.ID)
}

// Authorize resolves ref and checks that userID is a member of the fridge.
func Authorize(db *sql.DB, userID int, ref Ref) (int, error) {
	fridgeID, err := Resolve(db, ref)
	if err != nil {
		return 0, err
	}

	member, err := database.IsFridgeMember(db, fridgeID, userID)
	if err != nil {
		return 0, err
	}
	if !member {
		return 0, fmt.Errorf("user is not a member of this %s's fridge: %w", ref.Kind, ErrForbidden)
	}

	return fridgeID, nil
}
