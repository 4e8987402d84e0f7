package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sainiksetu/internal/config"
	"sainiksetu/internal/logger"

	_ "github.com/mattn/go-sqlite3"
)

// Sentinel errors returned by the repository functions. Handlers map
// these to the user-facing message for the route.
var (
	ErrNotFound      = errors.New("not found")
	ErrNotOwner      = errors.New("not owned by user")
	ErrUsernameTaken = errors.New("username already taken")
	ErrOutOfStock    = errors.New("item out of stock")
	ErrInvalidStatus = errors.New("invalid grievance status")
)

func Initialize(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func Migrate(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			email TEXT,
			password_hash TEXT NOT NULL,
			is_family BOOLEAN NOT NULL DEFAULT FALSE,
			role TEXT NOT NULL DEFAULT 'user',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT,
			price REAL NOT NULL DEFAULT 0,
			stock INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS cart_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			item_id INTEGER NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE CASCADE,
			UNIQUE(user_id, item_id)
		)`,
		`CREATE TABLE IF NOT EXISTS grievances (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			reference TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			priority TEXT NOT NULL DEFAULT 'medium',
			status TEXT NOT NULL DEFAULT 'open',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS schemes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			category TEXT NOT NULL,
			description TEXT NOT NULL,
			eligibility_tags TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			expires_at DATETIME NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS csrf_tokens (
			token TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			expires_at DATETIME NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_csrf_tokens_user_id ON csrf_tokens(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_csrf_tokens_expires_at ON csrf_tokens(expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_cart_items_user_id ON cart_items(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_cart_items_item_id ON cart_items(item_id)`,
		`CREATE INDEX IF NOT EXISTS idx_grievances_user_id ON grievances(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_schemes_category ON schemes(category)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

// Seed inserts the default account, the CSD item catalog and the scheme
// reference data if they are absent. It runs at startup before the server
// accepts connections and is safe to run repeatedly: every insert is
// guarded by an existence check, and a unique-constraint violation from a
// concurrently seeding process is ignored.
func Seed(db *sql.DB, cfg *config.Config) error {
	var count int

	err := db.QueryRow("SELECT COUNT(*) FROM users WHERE username = ?", cfg.DefaultUsername).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check default user: %w", err)
	}
	if count == 0 {
		_, err := CreateUser(db, cfg.DefaultUsername, "", cfg.DefaultPassword, false)
		if err != nil && !errors.Is(err, ErrUsernameTaken) {
			return fmt.Errorf("failed to seed default user: %w", err)
		}
		if err == nil {
			logger.Info("Seeded default account", "username", cfg.DefaultUsername)
		}
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM items").Scan(&count); err != nil {
		return fmt.Errorf("failed to count items: %w", err)
	}
	if count == 0 {
		items := []struct {
			name, description string
			price             float64
			stock             int
		}{
			{"Toothpaste (Herbal)", "CSD essentials - 200g", 45.0, 200},
			{"Detergent Powder", "1kg pack", 120.0, 150},
			{"Cooking Oil", "1L refined", 160.0, 100},
			{"Tea (Assam Blend)", "500g pack", 220.0, 80},
			{"Biscuits (Marie)", "10 packs", 90.0, 300},
		}
		for _, it := range items {
			_, err := db.Exec(
				"INSERT INTO items (name, description, price, stock) VALUES (?, ?, ?, ?)",
				it.name, it.description, it.price, it.stock,
			)
			if err != nil {
				return fmt.Errorf("failed to seed item %q: %w", it.name, err)
			}
		}
		logger.Info("Seeded CSD item catalog", "count", len(items))
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM schemes").Scan(&count); err != nil {
		return fmt.Errorf("failed to count schemes: %w", err)
	}
	if count == 0 {
		schemes := []struct {
			title, category, description, tags string
		}{
			{"Army Education Scholarship", "education", "Scholarship for wards of serving soldiers", "family,education,wards"},
			{"Pensioner Medical Benefit", "medical", "Enhanced medical coverage for retired personnel", "pension,medical"},
			{"Army Housing Assistance", "housing", "Subsidized housing loan for serving soldiers", "soldier,housing"},
			{"Post-Retirement Pension Support", "pension", "Timely pension disbursal and support", "pension"},
		}
		for _, s := range schemes {
			_, err := db.Exec(
				"INSERT INTO schemes (title, category, description, eligibility_tags) VALUES (?, ?, ?, ?)",
				s.title, s.category, s.description, s.tags,
			)
			if err != nil {
				return fmt.Errorf("failed to seed scheme %q: %w", s.title, err)
			}
		}
		logger.Info("Seeded welfare schemes", "count", len(schemes))
	}

	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
