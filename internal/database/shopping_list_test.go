package database

import (
	"fmt"
	"testing"
	"time"

	"fridgeshare/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeIngredient(t *testing.T) {
	tests := []struct {
		name         string
		inList       bool
		current      *float64
		recipe       *float64
		wantQuantity *float64
	}{
		{"listed, both quantities", true, float(2), float(3), float(5)},
		{"listed, no recipe quantity", true, float(2), nil, float(2)},
		{"listed, no current quantity", true, nil, float(3), float(3)},
		{"listed, neither quantity", true, nil, nil, nil},
		{"in fridge, both quantities", false, float(2), float(3), float(3)},
		{"in fridge, no recipe quantity", false, float(2), nil, float(2)},
		{"in fridge, no current quantity", false, nil, float(3), float(3)},
		{"in fridge, neither quantity", false, nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := &models.Product{IsInShoppingList: tt.inList, Quantity: tt.current}

			mergeIngredient(product, tt.recipe)

			assert.True(t, product.IsInShoppingList)
			if diff := cmp.Diff(tt.wantQuantity, product.Quantity); diff != "" {
				t.Errorf("quantity mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeIngredientDoesNotAliasRecipeQuantity(t *testing.T) {
	recipeQty := float(4)
	product := &models.Product{}

	mergeIngredient(product, recipeQty)
	*recipeQty = 100

	assert.Equal(t, 4.0, *product.Quantity)
}

func TestAddRecipeToShoppingList(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	fridge := createTestFridge(t, db, alice, "Home")

	flour, err := CreateProduct(db, fridge.ID, models.Product{Name: "Flour", Quantity: float(200), Unit: "g", IsInShoppingList: true})
	require.NoError(t, err)
	eggs, err := CreateProduct(db, fridge.ID, models.Product{Name: "Eggs", Quantity: float(6)})
	require.NoError(t, err)
	salt, err := CreateProduct(db, fridge.ID, models.Product{Name: "Salt", Quantity: float(1)})
	require.NoError(t, err)

	recipe, err := CreateRecipe(db, fridge.ID, alice.ID, "Pancakes")
	require.NoError(t, err)
	_, err = AddProductToRecipe(db, fridge.ID, recipe.ID, flour.ID, float(250))
	require.NoError(t, err)
	_, err = AddProductToRecipe(db, fridge.ID, recipe.ID, eggs.ID, float(2))
	require.NoError(t, err)
	_, err = AddProductToRecipe(db, fridge.ID, recipe.ID, salt.ID, nil)
	require.NoError(t, err)

	quantities := func() map[string]*float64 {
		products, err := ListProducts(db, fridge.ID, ShoppingListProducts)
		require.NoError(t, err)
		got := make(map[string]*float64, len(products))
		for _, p := range products {
			got[p.Name] = p.Quantity
		}
		return got
	}

	result, err := AddRecipeToShoppingList(db, fridge.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.ProductsUpdated)

	want := map[string]*float64{
		"Flour": float(450),
		"Eggs":  float(2),
		"Salt":  float(1),
	}
	if diff := cmp.Diff(want, quantities()); diff != "" {
		t.Errorf("after first merge (-want +got):\n%s", diff)
	}

	// A second application sums again for products now on the list.
	_, err = AddRecipeToShoppingList(db, fridge.ID, recipe.ID)
	require.NoError(t, err)

	want = map[string]*float64{
		"Flour": float(700),
		"Eggs":  float(4),
		"Salt":  float(1),
	}
	if diff := cmp.Diff(want, quantities()); diff != "" {
		t.Errorf("after second merge (-want +got):\n%s", diff)
	}

	loaded, err := GetRecipe(db, fridge.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.TimesUsed)
	assert.Len(t, loaded.Products, 3)
}

func TestAddRecipeToShoppingListStopsOnFailedWrite(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	fridge := createTestFridge(t, db, alice, "Home")

	butter, err := CreateProduct(db, fridge.ID, models.Product{Name: "Butter", Quantity: float(1), IsInShoppingList: true})
	require.NoError(t, err)
	sugar, err := CreateProduct(db, fridge.ID, models.Product{Name: "Sugar"})
	require.NoError(t, err)

	recipe, err := CreateRecipe(db, fridge.ID, alice.ID, "Cookies")
	require.NoError(t, err)
	_, err = AddProductToRecipe(db, fridge.ID, recipe.ID, butter.ID, float(2))
	require.NoError(t, err)
	_, err = AddProductToRecipe(db, fridge.ID, recipe.ID, sugar.ID, float(5))
	require.NoError(t, err)

	_, err = db.Exec(fmt.Sprintf(`
		CREATE TRIGGER reject_sugar BEFORE UPDATE ON products
		WHEN OLD.id = %d
		BEGIN SELECT RAISE(ABORT, 'boom'); END
	`, sugar.ID))
	require.NoError(t, err)

	result, err := AddRecipeToShoppingList(db, fridge.ID, recipe.ID)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.ProductsUpdated)

	loaded, err := GetProduct(db, fridge.ID, butter.ID)
	require.NoError(t, err)
	assert.Equal(t, float(3), loaded.Quantity, "earlier writes are kept")

	loaded, err = GetProduct(db, fridge.ID, sugar.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsInShoppingList)
	assert.Nil(t, loaded.Quantity)

	reloaded, err := GetRecipe(db, fridge.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.TimesUsed)
}

func TestAddRecipeToShoppingListOtherFridge(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	home := createTestFridge(t, db, alice, "Home")
	office := createTestFridge(t, db, alice, "Office")

	recipe, err := CreateRecipe(db, home.ID, alice.ID, "Soup")
	require.NoError(t, err)

	_, err = AddRecipeToShoppingList(db, office.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddProductToRecipeRejectsForeignProduct(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	home := createTestFridge(t, db, alice, "Home")
	office := createTestFridge(t, db, alice, "Office")

	recipe, err := CreateRecipe(db, home.ID, alice.ID, "Soup")
	require.NoError(t, err)
	foreign, err := CreateProduct(db, office.ID, models.Product{Name: "Leek"})
	require.NoError(t, err)

	_, err = AddProductToRecipe(db, home.ID, recipe.ID, foreign.ID, float(1))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMoveProductsToFridge(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	fridge := createTestFridge(t, db, alice, "Home")

	milk, err := CreateProduct(db, fridge.ID, models.Product{Name: "Milk", IsInShoppingList: true})
	require.NoError(t, err)

	moved, err := MoveProductsToFridge(db, fridge.ID, []int{milk.ID})
	require.NoError(t, err)
	require.Len(t, moved, 1)
	assert.False(t, moved[0].IsInShoppingList)
	require.NotNil(t, moved[0].LastBought)
	assert.Nil(t, moved[0].AvgTimeBetweenPurchases, "first purchase has no interval")

	// Pretend the previous purchase happened two days ago.
	twoDaysAgo := time.Now().UTC().Add(-48 * time.Hour)
	_, err = db.Exec(`UPDATE products SET last_bought = ? WHERE id = ?`, twoDaysAgo, milk.ID)
	require.NoError(t, err)

	_, err = MoveProductsToShoppingList(db, fridge.ID, []int{milk.ID})
	require.NoError(t, err)
	moved, err = MoveProductsToFridge(db, fridge.ID, []int{milk.ID})
	require.NoError(t, err)

	require.NotNil(t, moved[0].AvgTimeBetweenPurchases)
	assert.InDelta(t, float64(48*time.Hour/time.Second), float64(*moved[0].AvgTimeBetweenPurchases), 5)
}

func TestMarkBoughtAveragesIntervals(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	last := now.Add(-4 * 24 * time.Hour)
	avg := int64(2 * 24 * 60 * 60)

	product := &models.Product{IsInShoppingList: true, LastBought: &last, AvgTimeBetweenPurchases: &avg}
	markBought(product, now)

	assert.False(t, product.IsInShoppingList)
	assert.Equal(t, now, *product.LastBought)
	assert.Equal(t, int64(3*24*60*60), *product.AvgTimeBetweenPurchases)
}

func TestMoveProductsIsAllOrNothing(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	home := createTestFridge(t, db, alice, "Home")
	office := createTestFridge(t, db, alice, "Office")

	milk, err := CreateProduct(db, home.ID, models.Product{Name: "Milk", IsInShoppingList: true})
	require.NoError(t, err)
	foreign, err := CreateProduct(db, office.ID, models.Product{Name: "Tea", IsInShoppingList: true})
	require.NoError(t, err)

	_, err = MoveProductsToFridge(db, home.ID, []int{milk.ID, foreign.ID})
	assert.ErrorIs(t, err, ErrNotFound)

	loaded, err := GetProduct(db, home.ID, milk.ID)
	require.NoError(t, err)
	assert.True(t, loaded.IsInShoppingList)
}
