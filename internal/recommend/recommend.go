// Package recommend serves the stateless scheme-recommendation API. It
// holds its own fixed record set and never touches the database, so the
// routes work without a session and survive a broken store.
package recommend

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type Record struct {
	Name        string   `json:"name"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
}

var records = []Record{
	{Name: "Education Scholarship A", Tags: []string{"education", "family"}, Description: "Scholarship for soldiers' children"},
	{Name: "Medical Assistance B", Tags: []string{"medical", "veteran"}, Description: "Medical support for veterans"},
	{Name: "Housing Subsidy C", Tags: []string{"housing", "soldier"}, Description: "Affordable housing scheme"},
	{Name: "Pension Support D", Tags: []string{"pension", "veteran"}, Description: "Enhanced pension support"},
}

// Records returns the full record set in source order.
func Records() []Record {
	return records
}

// Filter returns the records tagged with the given role, preserving
// source order. The role is matched case-insensitively against whole
// tags; an empty role matches nothing.
func Filter(role string) []Record {
	matched := []Record{}
	if role == "" {
		return matched
	}

	role = strings.ToLower(role)
	for _, r := range records {
		for _, tag := range r.Tags {
			if tag == role {
				matched = append(matched, r)
				break
			}
		}
	}

	return matched
}

// RegisterRoutes mounts the API on the given group.
func RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", handleHealth)
	rg.GET("/recommendations", handleRecommendations)
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"service": "recommend",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func handleRecommendations(c *gin.Context) {
	c.JSON(http.StatusOK, Filter(c.Query("role")))
}
