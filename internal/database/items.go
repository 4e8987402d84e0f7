package database

import (
	"database/sql"
	"fmt"

	"sainiksetu/internal/models"
)

func GetItems(db *sql.DB) ([]models.Item, error) {
	query := `
		SELECT id, name, description, price, stock, created_at, updated_at
		FROM items
		ORDER BY name
	`

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		var description sql.NullString

		err := rows.Scan(
			&item.ID,
			&item.Name,
			&description,
			&item.Price,
			&item.Stock,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}

		if description.Valid {
			item.Description = description.String
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

func GetItem(db *sql.DB, itemID int) (*models.Item, error) {
	item := &models.Item{}
	var description sql.NullString

	query := `
		SELECT id, name, description, price, stock, created_at, updated_at
		FROM items
		WHERE id = ?
	`

	err := db.QueryRow(query, itemID).Scan(
		&item.ID,
		&item.Name,
		&description,
		&item.Price,
		&item.Stock,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query item: %w", err)
	}

	if description.Valid {
		item.Description = description.String
	}

	return item, nil
}
