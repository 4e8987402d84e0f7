package database

import (
	"testing"

	"sainiksetu/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		DefaultUsername: "army",
		DefaultPassword: "armt",
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()

	if err := Seed(db, cfg); err != nil {
		t.Fatal("First seed failed:", err)
	}
	if err := Seed(db, cfg); err != nil {
		t.Fatal("Second seed failed:", err)
	}

	var users, items, schemes int
	db.QueryRow("SELECT COUNT(*) FROM users").Scan(&users)
	db.QueryRow("SELECT COUNT(*) FROM items").Scan(&items)
	db.QueryRow("SELECT COUNT(*) FROM schemes").Scan(&schemes)

	if users != 1 {
		t.Errorf("Expected 1 seeded user, got %d", users)
	}
	if items != 5 {
		t.Errorf("Expected 5 seeded items, got %d", items)
	}
	if schemes != 4 {
		t.Errorf("Expected 4 seeded schemes, got %d", schemes)
	}

	// The seed account must be able to log in.
	if _, err := AuthenticateUser(db, "army", "armt"); err != nil {
		t.Error("Expected seeded default account to authenticate:", err)
	}
}

func TestGetSchemesCategoryFilter(t *testing.T) {
	db := setupTestDB(t)
	if err := Seed(db, testConfig()); err != nil {
		t.Fatal("Seed failed:", err)
	}

	all, err := GetSchemes(db, "")
	if err != nil {
		t.Fatal("Failed to list schemes:", err)
	}
	if len(all) != 4 {
		t.Fatalf("Expected 4 schemes, got %d", len(all))
	}

	// Ordered by title.
	for i := 1; i < len(all); i++ {
		if all[i-1].Title > all[i].Title {
			t.Errorf("Expected title order, got %q before %q", all[i-1].Title, all[i].Title)
		}
	}

	medical, err := GetSchemes(db, "medical")
	if err != nil {
		t.Fatal("Failed to filter schemes:", err)
	}
	if len(medical) != 1 || medical[0].Title != "Pensioner Medical Benefit" {
		t.Errorf("Expected only the medical scheme, got %+v", medical)
	}

	none, err := GetSchemes(db, "space-travel")
	if err != nil {
		t.Fatal("Failed to filter schemes:", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no schemes for unknown category, got %d", len(none))
	}
}

func TestGetSuggestedSchemes(t *testing.T) {
	db := setupTestDB(t)
	if err := Seed(db, testConfig()); err != nil {
		t.Fatal("Seed failed:", err)
	}

	family, err := GetSuggestedSchemes(db, "family")
	if err != nil {
		t.Fatal("Failed to get family suggestions:", err)
	}
	if len(family) != 1 || family[0].Title != "Army Education Scholarship" {
		t.Errorf("Expected only the education scholarship for families, got %+v", family)
	}

	soldier, err := GetSuggestedSchemes(db, "soldier")
	if err != nil {
		t.Fatal("Failed to get soldier suggestions:", err)
	}
	if len(soldier) != 1 || soldier[0].Title != "Army Housing Assistance" {
		t.Errorf("Expected only the housing scheme for soldiers, got %+v", soldier)
	}

	// Matching is case-insensitive.
	upper, err := GetSuggestedSchemes(db, "FAMILY")
	if err != nil {
		t.Fatal("Failed to get suggestions:", err)
	}
	if len(upper) != 1 {
		t.Errorf("Expected case-insensitive match, got %d schemes", len(upper))
	}
}
