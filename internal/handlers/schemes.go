package handlers

import (
	"database/sql"
	"net/http"

	"sainiksetu/internal/database"

	"github.com/gin-gonic/gin"
)

func handleSchemes(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	category := c.Query("category")

	schemes, err := database.GetSchemes(db, category)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "schemes.html", pageData(c, "Schemes - Sainik Setu", gin.H{
			"Error": "Failed to load schemes",
		}))
		return
	}

	c.HTML(http.StatusOK, "schemes.html", pageData(c, "Schemes - Sainik Setu", gin.H{
		"Schemes":  schemes,
		"Category": category,
	}))
}

func handleSuggestedSchemes(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	user := currentUser(c)

	schemes, err := database.GetSuggestedSchemes(db, user.SuggestionTag())
	if err != nil {
		c.HTML(http.StatusInternalServerError, "suggested.html", pageData(c, "Suggested Schemes - Sainik Setu", gin.H{
			"Error": "Failed to load suggested schemes",
		}))
		return
	}

	c.HTML(http.StatusOK, "suggested.html", pageData(c, "Suggested Schemes - Sainik Setu", gin.H{
		"Schemes": schemes,
	}))
}
