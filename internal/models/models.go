package models

import (
	"time"
)

type User struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type Session struct {
	ID        string    `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Fridge is a shared inventory. Everything below it is scoped by FridgeID.
type Fridge struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	Members   []User    `json:"members,omitempty"`
}

type Category struct {
	ID        int       `json:"id" db:"id"`
	FridgeID  int       `json:"fridge_id" db:"fridge_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Shop struct {
	ID        int       `json:"id" db:"id"`
	FridgeID  int       `json:"fridge_id" db:"fridge_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Product is either on the shopping list or in the fridge, depending on
// IsInShoppingList. A nil Quantity means "unspecified amount".
type Product struct {
	ID                      int        `json:"id" db:"id"`
	FridgeID                int        `json:"fridge_id" db:"fridge_id"`
	Name                    string     `json:"name" db:"name"`
	Quantity                *float64   `json:"quantity" db:"quantity"`
	Unit                    string     `json:"unit" db:"unit"`
	CategoryID              *int       `json:"category_id" db:"category_id"`
	IsInShoppingList        bool       `json:"is_in_shopping_list" db:"is_in_shopping_list"`
	AvgTimeBetweenPurchases *int64     `json:"avg_time_between_purchases,omitempty" db:"avg_time_between_purchases"`
	LastBought              *time.Time `json:"last_bought,omitempty" db:"last_bought"`
	CreatedAt               time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at" db:"updated_at"`
	ShopIDs                 []int      `json:"shop_ids"`
	Category                *Category  `json:"category,omitempty"`
}

type Recipe struct {
	ID        int               `json:"id" db:"id"`
	FridgeID  int               `json:"fridge_id" db:"fridge_id"`
	OwnerID   int               `json:"owner_id" db:"owner_id"`
	Name      string            `json:"name" db:"name"`
	TimesUsed int               `json:"times_used" db:"times_used"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`
	Products  []ProductInRecipe `json:"products,omitempty"`
}

// ProductInRecipe links a recipe to a product. A nil QuantityInRecipe means
// the recipe does not say how much is needed.
type ProductInRecipe struct {
	ID               int      `json:"id" db:"id"`
	RecipeID         int      `json:"recipe_id" db:"recipe_id"`
	ProductID        int      `json:"product_id" db:"product_id"`
	QuantityInRecipe *float64 `json:"quantity_in_recipe" db:"quantity_in_recipe"`
	ProductName      string   `json:"product_name,omitempty"`
	Unit             string   `json:"unit,omitempty"`
}

type Invitation struct {
	ID        int       `json:"id" db:"id"`
	Slug      string    `json:"slug" db:"slug"`
	FridgeID  int       `json:"fridge_id" db:"fridge_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
