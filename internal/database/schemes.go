package database

import (
	"database/sql"
	"fmt"
	"strings"

	"sainiksetu/internal/models"
)

// GetSchemes returns all schemes ordered by title, optionally narrowed
// to an exact category match.
func GetSchemes(db *sql.DB, category string) ([]models.Scheme, error) {
	query := `
		SELECT id, title, category, description, COALESCE(eligibility_tags, '')
		FROM schemes
	`
	args := []interface{}{}

	if category != "" {
		query += " WHERE category = ?"
		args = append(args, category)
	}
	query += " ORDER BY title"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query schemes: %w", err)
	}
	defer rows.Close()

	return scanSchemes(rows)
}

// GetSuggestedSchemes returns the schemes whose eligibility tags contain
// the given tag, matched case-insensitively as a substring.
func GetSuggestedSchemes(db *sql.DB, tag string) ([]models.Scheme, error) {
	query := `
		SELECT id, title, category, description, COALESCE(eligibility_tags, '')
		FROM schemes
		WHERE LOWER(eligibility_tags) LIKE ?
		ORDER BY title
	`

	rows, err := db.Query(query, "%"+strings.ToLower(tag)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query suggested schemes: %w", err)
	}
	defer rows.Close()

	return scanSchemes(rows)
}

func scanSchemes(rows *sql.Rows) ([]models.Scheme, error) {
	var schemes []models.Scheme
	for rows.Next() {
		var s models.Scheme
		err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.Category,
			&s.Description,
			&s.EligibilityTags,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheme: %w", err)
		}
		schemes = append(schemes, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schemes: %w", err)
	}

	return schemes, nil
}
