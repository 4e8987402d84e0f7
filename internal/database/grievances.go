package database

import (
	"database/sql"
	"fmt"
	"time"

	"sainiksetu/internal/models"

	"github.com/google/uuid"
)

// CreateGrievance files a ticket for the user. A priority outside the
// accepted set is normalized to medium; status always starts open.
func CreateGrievance(db *sql.DB, userID int, title, description, priority string) (*models.Grievance, error) {
	if !models.ValidPriority(priority) {
		priority = models.PriorityMedium
	}

	reference := uuid.New().String()
	now := time.Now()

	query := `
		INSERT INTO grievances (user_id, reference, title, description, priority, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := db.Exec(query, userID, reference, title, description, priority, models.StatusOpen, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create grievance: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get grievance ID: %w", err)
	}

	grievance := &models.Grievance{
		ID:          int(id),
		UserID:      userID,
		Reference:   reference,
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      models.StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return grievance, nil
}

func GetGrievances(db *sql.DB, userID int) ([]models.Grievance, error) {
	query := `
		SELECT id, user_id, reference, title, description, priority, status, created_at, updated_at
		FROM grievances
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query grievances: %w", err)
	}
	defer rows.Close()

	var grievances []models.Grievance
	for rows.Next() {
		var g models.Grievance
		err := rows.Scan(
			&g.ID,
			&g.UserID,
			&g.Reference,
			&g.Title,
			&g.Description,
			&g.Priority,
			&g.Status,
			&g.CreatedAt,
			&g.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan grievance: %w", err)
		}
		grievances = append(grievances, g)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grievances: %w", err)
	}

	return grievances, nil
}

func GetGrievance(db *sql.DB, grievanceID int) (*models.Grievance, error) {
	g := &models.Grievance{}
	query := `
		SELECT id, user_id, reference, title, description, priority, status, created_at, updated_at
		FROM grievances
		WHERE id = ?
	`

	err := db.QueryRow(query, grievanceID).Scan(
		&g.ID,
		&g.UserID,
		&g.Reference,
		&g.Title,
		&g.Description,
		&g.Priority,
		&g.Status,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query grievance: %w", err)
	}

	return g, nil
}

// UpdateGrievanceStatus sets a ticket's status after checking ownership.
// Unknown status values are rejected rather than written verbatim.
func UpdateGrievanceStatus(db *sql.DB, userID, grievanceID int, status string) (*models.Grievance, error) {
	g, err := GetGrievance(db, grievanceID)
	if err != nil {
		return nil, err
	}
	if g.UserID != userID {
		return nil, ErrNotOwner
	}

	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	query := `UPDATE grievances SET status = ?, updated_at = ? WHERE id = ?`
	if _, err := db.Exec(query, status, now, grievanceID); err != nil {
		return nil, fmt.Errorf("failed to update grievance status: %w", err)
	}

	g.Status = status
	g.UpdatedAt = now
	return g, nil
}
