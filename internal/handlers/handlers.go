package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"sainiksetu/internal/config"
	"sainiksetu/internal/database"
	"sainiksetu/internal/email"
	"sainiksetu/internal/middleware"
	"sainiksetu/internal/models"
	"sainiksetu/internal/recommend"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, db *sql.DB, cfg *config.Config, emailService *email.Service) {
	r.Use(middleware.LogRequests())
	r.Use(middleware.SecurityHeaders(cfg))
	r.Use(middleware.AddDBContext(db))
	r.Use(middleware.AddConfigContext(cfg))
	r.Use(addEmailServiceContext(emailService))
	r.Use(middleware.TrimSpaces())

	r.GET("/", middleware.AuthOptional(db, cfg), handleHome)

	auth := r.Group("/auth")
	{
		auth.GET("/login", handleLoginPage)
		auth.POST("/login", middleware.AuthRateLimit(cfg), handleLogin)
		auth.GET("/signup", handleSignupPage)
		auth.POST("/signup", middleware.AuthRateLimit(cfg), handleSignup)
		auth.GET("/logout", middleware.AuthRequired(db, cfg), handleLogout)
	}

	protected := r.Group("/")
	protected.Use(middleware.AuthRequired(db, cfg))
	protected.Use(middleware.CSRF(cfg))
	{
		protected.GET("/dashboard", handleDashboard)

		csd := protected.Group("/csd")
		{
			csd.GET("/catalog", handleCatalog)
			csd.POST("/add", handleAddToCart)
			csd.GET("/cart", handleViewCart)
			csd.POST("/update", handleUpdateCart)
			csd.POST("/checkout", handleCheckout)
		}

		grievances := protected.Group("/grievances")
		{
			grievances.GET("/", handleGrievances)
			grievances.GET("/new", handleNewGrievancePage)
			grievances.POST("/new", handleCreateGrievance)
			grievances.GET("/:id", handleViewGrievance)
			grievances.POST("/:id/status", handleUpdateGrievanceStatus)
		}

		schemes := protected.Group("/schemes")
		{
			schemes.GET("/", handleSchemes)
			schemes.GET("/suggested", handleSuggestedSchemes)
		}
	}

	api := r.Group("/api")
	api.Use(middleware.CORS())
	recommend.RegisterRoutes(api)
}

func handleHome(c *gin.Context) {
	user, exists := c.Get("user")
	if exists {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	c.HTML(http.StatusOK, "home.html", pageData(c, "Sainik Setu - Welfare Portal", gin.H{
		"User": user,
	}))
}

func handleDashboard(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	user := currentUser(c)

	suggestions, err := database.GetSuggestedSchemes(db, user.SuggestionTag())
	if err != nil {
		c.HTML(http.StatusInternalServerError, "dashboard.html", pageData(c, "Dashboard - Sainik Setu", gin.H{
			"Error": "Failed to load suggested schemes",
		}))
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", pageData(c, "Dashboard - Sainik Setu", gin.H{
		"Suggestions": suggestions,
	}))
}

func addEmailServiceContext(emailService *email.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("email_service", emailService)
		c.Next()
	}
}

const flashCookieName = "flash"

// setFlash stores a one-shot notice that survives the redirect; the
// next rendered page pops and displays it.
func setFlash(c *gin.Context, level, message string) {
	c.SetCookie(flashCookieName, level+"|"+message, 60, "/", "", false, true)
}

func popFlash(c *gin.Context) (level, message string) {
	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return "", ""
	}
	c.SetCookie(flashCookieName, "", -1, "/", "", false, true)

	parts := strings.SplitN(raw, "|", 2)
	if len(parts) != 2 {
		return "info", parts[0]
	}
	return parts[0], parts[1]
}

// pageData assembles the common template payload: title, the signed-in
// user when present and any pending flash notice.
func pageData(c *gin.Context, title string, data gin.H) gin.H {
	h := gin.H{"Title": title}

	if user, exists := c.Get("user"); exists {
		h["User"] = user
	}
	if level, message := popFlash(c); message != "" {
		h["Flash"] = message
		h["FlashLevel"] = level
	}

	for k, v := range data {
		h[k] = v
	}
	return h
}

func currentUser(c *gin.Context) *models.User {
	return c.MustGet("user").(*models.User)
}

func renderNotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "error.html", pageData(c, "Not Found - Sainik Setu", gin.H{
		"Message": "The requested resource was not found.",
	}))
}

func csrfTokenFor(c *gin.Context, userID int) string {
	db := c.MustGet("db").(*sql.DB)
	token, err := database.CreateCSRFToken(db, userID)
	if err != nil {
		return ""
	}
	return token.Token
}
