package database

import (
	"errors"
	"testing"

	"sainiksetu/internal/models"
)

func TestCreateGrievance(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "complainant")

	g, err := CreateGrievance(db, user.ID, "Canteen timings", "Evening slot is too short", models.PriorityHigh)
	if err != nil {
		t.Fatal("Failed to create grievance:", err)
	}

	if g.Status != models.StatusOpen {
		t.Errorf("Expected initial status open, got %s", g.Status)
	}
	if g.Priority != models.PriorityHigh {
		t.Errorf("Expected priority high, got %s", g.Priority)
	}
	if g.Reference == "" {
		t.Error("Expected a non-empty reference")
	}
}

func TestCreateGrievanceNormalizesPriority(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "complainant")

	g, err := CreateGrievance(db, user.ID, "Title", "Description", "catastrophic")
	if err != nil {
		t.Fatal("Failed to create grievance:", err)
	}
	if g.Priority != models.PriorityMedium {
		t.Errorf("Expected unknown priority normalized to medium, got %s", g.Priority)
	}
}

func TestGetGrievancesNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "complainant")

	titles := []string{"first", "second", "third"}
	for _, title := range titles {
		if _, err := CreateGrievance(db, user.ID, title, "desc", models.PriorityLow); err != nil {
			t.Fatal("Failed to create grievance:", err)
		}
	}

	grievances, err := GetGrievances(db, user.ID)
	if err != nil {
		t.Fatal("Failed to list grievances:", err)
	}
	if len(grievances) != 3 {
		t.Fatalf("Expected 3 grievances, got %d", len(grievances))
	}
	if grievances[0].Title != "third" || grievances[2].Title != "first" {
		t.Errorf("Expected newest-first order, got %s .. %s", grievances[0].Title, grievances[2].Title)
	}
}

func TestGrievanceOwnership(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")

	g, err := CreateGrievance(db, owner.ID, "Mine", "Private matter", models.PriorityMedium)
	if err != nil {
		t.Fatal("Failed to create grievance:", err)
	}

	// Another user's list never contains it.
	grievances, err := GetGrievances(db, other.ID)
	if err != nil {
		t.Fatal("Failed to list grievances:", err)
	}
	if len(grievances) != 0 {
		t.Errorf("Expected other user's list to be empty, got %d", len(grievances))
	}

	// And another user cannot mutate it.
	_, err = UpdateGrievanceStatus(db, other.ID, g.ID, models.StatusResolved)
	if !errors.Is(err, ErrNotOwner) {
		t.Errorf("Expected ErrNotOwner, got %v", err)
	}

	fetched, _ := GetGrievance(db, g.ID)
	if fetched.Status != models.StatusOpen {
		t.Errorf("Expected status unchanged after rejected update, got %s", fetched.Status)
	}
}

func TestUpdateGrievanceStatus(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "complainant")

	g, err := CreateGrievance(db, user.ID, "Title", "Description", models.PriorityMedium)
	if err != nil {
		t.Fatal("Failed to create grievance:", err)
	}

	updated, err := UpdateGrievanceStatus(db, user.ID, g.ID, models.StatusInProgress)
	if err != nil {
		t.Fatal("Failed to update status:", err)
	}
	if updated.Status != models.StatusInProgress {
		t.Errorf("Expected status in_progress, got %s", updated.Status)
	}
	if !updated.UpdatedAt.After(g.UpdatedAt) {
		t.Error("Expected updated_at to be refreshed")
	}

	_, err = UpdateGrievanceStatus(db, user.ID, g.ID, "escalated-to-mars")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}

	_, err = UpdateGrievanceStatus(db, user.ID, 9999, models.StatusClosed)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
