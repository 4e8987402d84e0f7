package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"sainiksetu/internal/config"
	"sainiksetu/internal/database"
	"sainiksetu/internal/logger"
	"sainiksetu/internal/middleware"

	"github.com/gin-gonic/gin"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func handleLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", pageData(c, "Login - Sainik Setu", nil))
}

func handleLogin(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	cfg := c.MustGet("cfg").(*config.Config)

	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	user, err := database.AuthenticateUser(db, username, password)
	if err != nil {
		c.HTML(http.StatusUnauthorized, "login.html", pageData(c, "Login - Sainik Setu", gin.H{
			"Error":    "Invalid credentials",
			"Username": username,
		}))
		return
	}

	session, err := database.CreateSession(db, user.ID, cfg.SessionDuration)
	if err != nil {
		logger.Error("Failed to create session", "user_id", user.ID, "error", err)
		c.HTML(http.StatusInternalServerError, "login.html", pageData(c, "Login - Sainik Setu", gin.H{
			"Error":    "Failed to log in. Please try again.",
			"Username": username,
		}))
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		middleware.SessionCookieName,
		middleware.SignSessionCookie(cfg.SecretKey, session.ID),
		int(cfg.SessionDuration.Seconds()),
		"/", "", false, true,
	)

	logger.Info("User logged in", "user_id", user.ID)
	c.Redirect(http.StatusFound, "/dashboard")
}

func handleSignupPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", pageData(c, "Sign Up - Sainik Setu", nil))
}

func handleSignup(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	username := strings.TrimSpace(c.PostForm("username"))
	emailAddr := strings.TrimSpace(c.PostForm("email"))
	password := strings.TrimSpace(c.PostForm("password"))
	isFamily := c.PostForm("is_family") == "on"

	if username == "" || password == "" {
		c.HTML(http.StatusBadRequest, "signup.html", pageData(c, "Sign Up - Sainik Setu", gin.H{
			"Error":    "Username and password required",
			"Username": username,
			"Email":    emailAddr,
		}))
		return
	}

	if emailAddr != "" && !emailRegex.MatchString(emailAddr) {
		c.HTML(http.StatusBadRequest, "signup.html", pageData(c, "Sign Up - Sainik Setu", gin.H{
			"Error":    "Please enter a valid email address",
			"Username": username,
		}))
		return
	}

	user, err := database.CreateUser(db, username, emailAddr, password, isFamily)
	if err != nil {
		if errors.Is(err, database.ErrUsernameTaken) {
			c.HTML(http.StatusBadRequest, "signup.html", pageData(c, "Sign Up - Sainik Setu", gin.H{
				"Error": "Username already taken",
				"Email": emailAddr,
			}))
			return
		}

		logger.Error("Failed to create user", "username", username, "error", err)
		c.HTML(http.StatusInternalServerError, "signup.html", pageData(c, "Sign Up - Sainik Setu", gin.H{
			"Error":    "Failed to create account. Please try again.",
			"Username": username,
			"Email":    emailAddr,
		}))
		return
	}

	logger.Info("User signed up", "user_id", user.ID)
	setFlash(c, "success", "Signup successful. Please login.")
	c.Redirect(http.StatusFound, "/auth/login")
}

func handleLogout(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	cfg := c.MustGet("cfg").(*config.Config)

	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		if sessionID, err := middleware.VerifySessionCookie(cfg.SecretKey, cookie); err == nil {
			if err := database.DeleteSession(db, sessionID); err != nil {
				logger.Warn("Failed to delete session", "session_id", sessionID, "error", err)
			}
		}
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}
