package database

import (
	"database/sql"
	"errors"
	"testing"

	"sainiksetu/internal/models"
)

func createTestItem(t *testing.T, db *sql.DB, name string, price float64, stock int) int {
	t.Helper()

	result, err := db.Exec(
		"INSERT INTO items (name, description, price, stock) VALUES (?, ?, ?, ?)",
		name, "test item", price, stock,
	)
	if err != nil {
		t.Fatal("Failed to create test item:", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		t.Fatal("Failed to get item ID:", err)
	}
	return int(id)
}

func createTestUser(t *testing.T, db *sql.DB, username string) *models.User {
	t.Helper()

	user, err := CreateUser(db, username, "", "password123", false)
	if err != nil {
		t.Fatal("Failed to create test user:", err)
	}
	return user
}

func TestAddToCartMergesLines(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "buyer")
	itemID := createTestItem(t, db, "Tea (Assam Blend)", 220.0, 80)

	if err := AddToCart(db, user.ID, itemID, 2); err != nil {
		t.Fatal("Failed to add to cart:", err)
	}
	if err := AddToCart(db, user.ID, itemID, 3); err != nil {
		t.Fatal("Failed to add to cart again:", err)
	}

	cartItems, err := GetCartItems(db, user.ID)
	if err != nil {
		t.Fatal("Failed to get cart items:", err)
	}

	if len(cartItems) != 1 {
		t.Fatalf("Expected 1 merged cart line, got %d", len(cartItems))
	}
	if cartItems[0].Quantity != 5 {
		t.Errorf("Expected merged quantity 5, got %d", cartItems[0].Quantity)
	}
	if cartItems[0].LineTotal != 5*220.0 {
		t.Errorf("Expected line total %.2f, got %.2f", 5*220.0, cartItems[0].LineTotal)
	}
}

func TestAddToCartRejectsOutOfStock(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "buyer")
	itemID := createTestItem(t, db, "Cooking Oil", 160.0, 0)

	err := AddToCart(db, user.ID, itemID, 1)
	if !errors.Is(err, ErrOutOfStock) {
		t.Errorf("Expected ErrOutOfStock, got %v", err)
	}

	cartItems, err := GetCartItems(db, user.ID)
	if err != nil {
		t.Fatal("Failed to get cart items:", err)
	}
	if len(cartItems) != 0 {
		t.Errorf("Expected no cart lines after rejected add, got %d", len(cartItems))
	}
}

func TestAddToCartUnknownItem(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "buyer")

	err := AddToCart(db, user.ID, 9999, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestUpdateCartQuantity(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "buyer")
	itemID := createTestItem(t, db, "Detergent Powder", 120.0, 150)

	if err := AddToCart(db, user.ID, itemID, 2); err != nil {
		t.Fatal("Failed to add to cart:", err)
	}

	cartItems, _ := GetCartItems(db, user.ID)
	cartItemID := cartItems[0].ID

	if err := UpdateCartQuantity(db, user.ID, cartItemID, 7); err != nil {
		t.Fatal("Failed to update quantity:", err)
	}
	cartItems, _ = GetCartItems(db, user.ID)
	if cartItems[0].Quantity != 7 {
		t.Errorf("Expected quantity 7, got %d", cartItems[0].Quantity)
	}

	// Negative quantities clamp to zero, and zero deletes the line.
	if err := UpdateCartQuantity(db, user.ID, cartItemID, -3); err != nil {
		t.Fatal("Failed to update with negative quantity:", err)
	}
	cartItems, _ = GetCartItems(db, user.ID)
	if len(cartItems) != 0 {
		t.Errorf("Expected cart line deleted at quantity 0, got %d lines", len(cartItems))
	}
}

func TestUpdateCartQuantityOwnership(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")
	itemID := createTestItem(t, db, "Biscuits (Marie)", 90.0, 300)

	if err := AddToCart(db, owner.ID, itemID, 1); err != nil {
		t.Fatal("Failed to add to cart:", err)
	}
	cartItems, _ := GetCartItems(db, owner.ID)

	err := UpdateCartQuantity(db, other.ID, cartItems[0].ID, 5)
	if !errors.Is(err, ErrNotOwner) {
		t.Errorf("Expected ErrNotOwner, got %v", err)
	}

	if err := UpdateCartQuantity(db, owner.ID, 9999, 5); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown cart item, got %v", err)
	}
}

func TestCheckoutSkipsInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "buyer")
	plentyID := createTestItem(t, db, "Toothpaste (Herbal)", 45.0, 200)
	scarceID := createTestItem(t, db, "Tea (Assam Blend)", 220.0, 2)

	if err := AddToCart(db, user.ID, plentyID, 3); err != nil {
		t.Fatal("Failed to add to cart:", err)
	}
	if err := AddToCart(db, user.ID, scarceID, 5); err != nil {
		t.Fatal("Failed to add to cart:", err)
	}

	if err := Checkout(db, user.ID); err != nil {
		t.Fatal("Checkout failed:", err)
	}

	plenty, err := GetItem(db, plentyID)
	if err != nil {
		t.Fatal("Failed to get item:", err)
	}
	if plenty.Stock != 197 {
		t.Errorf("Expected stock 197 after checkout, got %d", plenty.Stock)
	}

	scarce, err := GetItem(db, scarceID)
	if err != nil {
		t.Fatal("Failed to get item:", err)
	}
	if scarce.Stock != 2 {
		t.Errorf("Expected insufficient line to leave stock untouched, got %d", scarce.Stock)
	}

	cartItems, err := GetCartItems(db, user.ID)
	if err != nil {
		t.Fatal("Failed to get cart items:", err)
	}
	if len(cartItems) != 1 {
		t.Fatalf("Expected the skipped line to stay in the cart, got %d lines", len(cartItems))
	}
	if cartItems[0].ItemID != scarceID || cartItems[0].Quantity != 5 {
		t.Errorf("Expected untouched line for item %d quantity 5, got item %d quantity %d",
			scarceID, cartItems[0].ItemID, cartItems[0].Quantity)
	}
}

func TestCheckoutExactStock(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "buyer")
	itemID := createTestItem(t, db, "Cooking Oil", 160.0, 4)

	if err := AddToCart(db, user.ID, itemID, 4); err != nil {
		t.Fatal("Failed to add to cart:", err)
	}

	if err := Checkout(db, user.ID); err != nil {
		t.Fatal("Checkout failed:", err)
	}

	item, err := GetItem(db, itemID)
	if err != nil {
		t.Fatal("Failed to get item:", err)
	}
	if item.Stock != 0 {
		t.Errorf("Expected stock 0, got %d", item.Stock)
	}

	cartItems, _ := GetCartItems(db, user.ID)
	if len(cartItems) != 0 {
		t.Errorf("Expected empty cart after full checkout, got %d lines", len(cartItems))
	}
}
