package database

import (
	"database/sql"
	"fmt"

	"sainiksetu/internal/models"
)

// GetCartItems returns the user's cart lines joined with their items,
// each annotated with a line total, ordered by item name.
func GetCartItems(db *sql.DB, userID int) ([]models.CartItem, error) {
	query := `
		SELECT ci.id, ci.user_id, ci.item_id, ci.quantity, ci.created_at,
		       i.id, i.name, COALESCE(i.description, ''), i.price, i.stock, i.created_at, i.updated_at
		FROM cart_items ci
		INNER JOIN items i ON ci.item_id = i.id
		WHERE ci.user_id = ?
		ORDER BY i.name
	`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var cartItems []models.CartItem
	for rows.Next() {
		var ci models.CartItem
		var item models.Item

		err := rows.Scan(
			&ci.ID,
			&ci.UserID,
			&ci.ItemID,
			&ci.Quantity,
			&ci.CreatedAt,
			&item.ID,
			&item.Name,
			&item.Description,
			&item.Price,
			&item.Stock,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		ci.Item = &item
		ci.LineTotal = float64(ci.Quantity) * item.Price
		cartItems = append(cartItems, ci)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return cartItems, nil
}

func GetCartItem(db *sql.DB, cartItemID int) (*models.CartItem, error) {
	ci := &models.CartItem{}
	query := `
		SELECT id, user_id, item_id, quantity, created_at
		FROM cart_items
		WHERE id = ?
	`

	err := db.QueryRow(query, cartItemID).Scan(
		&ci.ID,
		&ci.UserID,
		&ci.ItemID,
		&ci.Quantity,
		&ci.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}

	return ci, nil
}

// AddToCart adds quantity of an item to the user's cart. An existing
// line for the same (user, item) pair is merged rather than duplicated.
// Stock is only checked for being positive here; whether the cart is
// actually fulfillable is decided at checkout.
func AddToCart(db *sql.DB, userID, itemID, quantity int) error {
	item, err := GetItem(db, itemID)
	if err != nil {
		return err
	}

	if item.Stock <= 0 {
		return ErrOutOfStock
	}

	result, err := db.Exec(
		"UPDATE cart_items SET quantity = quantity + ? WHERE user_id = ? AND item_id = ?",
		quantity, userID, itemID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check cart update: %w", err)
	}
	if affected > 0 {
		return nil
	}

	_, err = db.Exec(
		"INSERT INTO cart_items (user_id, item_id, quantity) VALUES (?, ?, ?)",
		userID, itemID, quantity,
	)
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	return nil
}

// UpdateCartQuantity overwrites a cart line's quantity after checking
// ownership. Quantity is clamped at zero and zero deletes the line.
func UpdateCartQuantity(db *sql.DB, userID, cartItemID, quantity int) error {
	ci, err := GetCartItem(db, cartItemID)
	if err != nil {
		return err
	}
	if ci.UserID != userID {
		return ErrNotOwner
	}

	if quantity < 0 {
		quantity = 0
	}

	if quantity == 0 {
		_, err := db.Exec("DELETE FROM cart_items WHERE id = ?", cartItemID)
		if err != nil {
			return fmt.Errorf("failed to delete cart item: %w", err)
		}
		return nil
	}

	_, err = db.Exec("UPDATE cart_items SET quantity = ? WHERE id = ?", quantity, cartItemID)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	return nil
}

// Checkout processes the user's cart in a single transaction. Each line
// whose item still has sufficient stock is fulfilled: the stock is
// decremented and the line removed. Lines the stock cannot cover are
// left in the cart untouched. Stock never goes negative.
func Checkout(db *sql.DB, userID int) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`
		SELECT ci.id, ci.item_id, ci.quantity, i.stock
		FROM cart_items ci
		INNER JOIN items i ON ci.item_id = i.id
		WHERE ci.user_id = ?
		ORDER BY ci.id
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to query cart for checkout: %w", err)
	}

	type line struct {
		cartItemID int
		itemID     int
		quantity   int
		stock      int
	}

	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.cartItemID, &l.itemID, &l.quantity, &l.stock); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan checkout line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("error iterating checkout lines: %w", err)
	}
	rows.Close()

	for _, l := range lines {
		if l.stock < l.quantity {
			continue
		}

		_, err := tx.Exec(
			"UPDATE items SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
			l.quantity, l.itemID,
		)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}

		_, err = tx.Exec("DELETE FROM cart_items WHERE id = ?", l.cartItemID)
		if err != nil {
			return fmt.Errorf("failed to clear cart line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit checkout: %w", err)
	}

	return nil
}
