package handlers

import (
	"database/sql"
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"sainiksetu/internal/config"
	"sainiksetu/internal/database"
	"sainiksetu/internal/email"
	"sainiksetu/internal/recommend"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal("Failed to open test database:", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatal("Failed to run migrations:", err)
	}

	cfg := &config.Config{
		SecretKey:       "test-secret",
		Environment:     "development",
		SessionDuration: time.Hour,
		DefaultUsername: "army",
		DefaultPassword: "armt",
	}

	if err := database.Seed(db, cfg); err != nil {
		t.Fatal("Failed to seed database:", err)
	}

	r := gin.New()
	r.SetFuncMap(template.FuncMap{
		"money": func(v float64) string { return "" },
	})
	r.LoadHTMLGlob("../../templates/*.html")

	SetupRoutes(r, db, cfg, email.NewService(cfg))
	return r
}

func postForm(r *gin.Engine, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignupLoginDashboardScenario(t *testing.T) {
	r := setupTestRouter(t)

	// Sign up a family member.
	w := postForm(r, "/auth/signup", url.Values{
		"username":  {"alice"},
		"password":  {"secret123"},
		"is_family": {"on"},
	}, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("Expected signup redirect, got %d: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/auth/login" {
		t.Errorf("Expected redirect to /auth/login, got %s", loc)
	}

	// The same username cannot sign up twice.
	w = postForm(r, "/auth/signup", url.Values{
		"username": {"alice"},
		"password": {"anotherpass"},
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected duplicate signup to fail with 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Username already taken") {
		t.Error("Expected duplicate-username message in response")
	}

	// Log in and collect the session cookie.
	w = postForm(r, "/auth/login", url.Values{
		"username": {"alice"},
		"password": {"secret123"},
	}, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("Expected login redirect, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Expected redirect to /dashboard, got %s", loc)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("Expected a session cookie after login")
	}

	// The dashboard suggests family schemes and no soldier schemes.
	w = get(r, "/dashboard", cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected dashboard to render, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Army Education Scholarship") {
		t.Error("Expected family suggestion 'Army Education Scholarship' on dashboard")
	}
	if strings.Contains(body, "Army Housing Assistance") {
		t.Error("Did not expect soldier scheme 'Army Housing Assistance' on family dashboard")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := setupTestRouter(t)

	w := postForm(r, "/auth/login", url.Values{
		"username": {"army"},
		"password": {"not-the-password"},
	}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for bad credentials, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid credentials") {
		t.Error("Expected 'Invalid credentials' message")
	}
}

func TestSignupRequiresFields(t *testing.T) {
	r := setupTestRouter(t)

	w := postForm(r, "/auth/signup", url.Values{
		"username": {"   "},
		"password": {""},
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for blank fields, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Username and password required") {
		t.Error("Expected required-fields message")
	}
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	r := setupTestRouter(t)

	for _, path := range []string{"/dashboard", "/csd/catalog", "/csd/cart", "/grievances/", "/schemes/"} {
		w := get(r, path, nil)
		if w.Code != http.StatusFound {
			t.Errorf("Expected %s to redirect without a session, got %d", path, w.Code)
			continue
		}
		if loc := w.Header().Get("Location"); loc != "/auth/login" {
			t.Errorf("Expected %s to redirect to /auth/login, got %s", path, loc)
		}
	}
}

func TestRecommendationAPI(t *testing.T) {
	r := setupTestRouter(t)

	// No auth required.
	w := get(r, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected healthy, got %d", w.Code)
	}

	w = get(r, "/api/recommendations?role=medical", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var got []recommend.Record
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal("Failed to decode response:", err)
	}
	if len(got) != 1 || got[0].Name != "Medical Assistance B" {
		t.Errorf("Expected exactly 'Medical Assistance B', got %+v", got)
	}

	// Missing role yields an empty array, not null.
	w = get(r, "/api/recommendations", nil)
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("Expected empty array, got %s", w.Body.String())
	}
}

func TestCartFlow(t *testing.T) {
	r := setupTestRouter(t)

	// The seeded default account is enough for the cart flow.
	w := postForm(r, "/auth/login", url.Values{
		"username": {"army"},
		"password": {"armt"},
	}, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("Expected login redirect, got %d", w.Code)
	}
	cookies := w.Result().Cookies()

	w = postForm(r, "/csd/add", url.Values{
		"item_id":  {"1"},
		"quantity": {"2"},
	}, cookies)
	if w.Code != http.StatusFound {
		t.Fatalf("Expected add-to-cart redirect, got %d: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/csd/catalog" {
		t.Errorf("Expected redirect to /csd/catalog, got %s", loc)
	}

	w = get(r, "/csd/cart", cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected cart to render, got %d", w.Code)
	}

	w = postForm(r, "/csd/checkout", nil, cookies)
	if w.Code != http.StatusFound {
		t.Fatalf("Expected checkout redirect, got %d", w.Code)
	}
}
