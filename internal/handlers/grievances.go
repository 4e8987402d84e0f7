package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"sainiksetu/internal/database"
	emailService "sainiksetu/internal/email"
	"sainiksetu/internal/logger"
	"sainiksetu/internal/models"

	"github.com/gin-gonic/gin"
)

func handleGrievances(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)

	grievances, err := database.GetGrievances(db, userID)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "grievances.html", pageData(c, "Grievances - Sainik Setu", gin.H{
			"Error": "Failed to load grievances",
		}))
		return
	}

	c.HTML(http.StatusOK, "grievances.html", pageData(c, "Grievances - Sainik Setu", gin.H{
		"Grievances": grievances,
	}))
}

func handleNewGrievancePage(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	c.HTML(http.StatusOK, "grievance_new.html", pageData(c, "New Grievance - Sainik Setu", gin.H{
		"CSRFToken": csrfTokenFor(c, userID),
	}))
}

func handleCreateGrievance(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)
	user := currentUser(c)

	title := strings.TrimSpace(c.PostForm("title"))
	description := strings.TrimSpace(c.PostForm("description"))
	priority := c.DefaultPostForm("priority", models.PriorityMedium)

	if title == "" || description == "" {
		c.HTML(http.StatusBadRequest, "grievance_new.html", pageData(c, "New Grievance - Sainik Setu", gin.H{
			"Error":       "Title and description are required",
			"FormTitle":   title,
			"Description": description,
			"Priority":    priority,
			"CSRFToken":   csrfTokenFor(c, userID),
		}))
		return
	}

	grievance, err := database.CreateGrievance(db, userID, title, description, priority)
	if err != nil {
		logger.Error("Failed to create grievance", "user_id", userID, "error", err)
		c.HTML(http.StatusInternalServerError, "grievance_new.html", pageData(c, "New Grievance - Sainik Setu", gin.H{
			"Error":     "Failed to submit grievance. Please try again.",
			"CSRFToken": csrfTokenFor(c, userID),
		}))
		return
	}

	notifyGrievance(c, user, grievance, false)

	setFlash(c, "success", "Grievance submitted")
	c.Redirect(http.StatusFound, "/grievances/")
}

func handleViewGrievance(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)

	grievanceID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		renderNotFound(c)
		return
	}

	grievance, err := database.GetGrievance(db, grievanceID)
	if err != nil {
		renderNotFound(c)
		return
	}

	if grievance.UserID != userID {
		setFlash(c, "danger", "Unauthorized")
		c.Redirect(http.StatusFound, "/grievances/")
		return
	}

	c.HTML(http.StatusOK, "grievance_view.html", pageData(c, "Grievance - Sainik Setu", gin.H{
		"Grievance": grievance,
		"Statuses": []string{
			models.StatusOpen,
			models.StatusInProgress,
			models.StatusResolved,
			models.StatusClosed,
		},
		"CSRFToken": csrfTokenFor(c, userID),
	}))
}

func handleUpdateGrievanceStatus(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)
	user := currentUser(c)

	grievanceID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		renderNotFound(c)
		return
	}

	status := c.PostForm("status")

	grievance, err := database.UpdateGrievanceStatus(db, userID, grievanceID, status)
	switch {
	case errors.Is(err, database.ErrNotFound):
		renderNotFound(c)
		return
	case errors.Is(err, database.ErrNotOwner):
		setFlash(c, "danger", "Unauthorized")
		c.Redirect(http.StatusFound, "/grievances/")
		return
	case errors.Is(err, database.ErrInvalidStatus):
		setFlash(c, "warning", "Invalid status value")
		c.Redirect(http.StatusFound, fmt.Sprintf("/grievances/%d", grievanceID))
		return
	case err != nil:
		logger.Error("Failed to update grievance status", "user_id", userID, "grievance_id", grievanceID, "error", err)
		setFlash(c, "danger", "Failed to update status")
		c.Redirect(http.StatusFound, fmt.Sprintf("/grievances/%d", grievanceID))
		return
	}

	notifyGrievance(c, user, grievance, true)

	setFlash(c, "success", "Status updated")
	c.Redirect(http.StatusFound, fmt.Sprintf("/grievances/%d", grievanceID))
}

// notifyGrievance sends the filed/status-changed notification when the
// email service is configured and the user gave an address. Failures
// are logged, never surfaced to the request.
func notifyGrievance(c *gin.Context, user *models.User, grievance *models.Grievance, statusChange bool) {
	svc, _ := c.Get("email_service")
	service, ok := svc.(*emailService.Service)
	if !ok || !service.IsEnabled() || user.Email == "" {
		return
	}

	go func(user models.User, grievance models.Grievance) {
		var err error
		if statusChange {
			err = service.SendGrievanceStatusEmail(&user, &grievance)
		} else {
			err = service.SendGrievanceFiledEmail(&user, &grievance)
		}
		if err != nil {
			logger.Warn("Failed to send grievance notification",
				"email", user.Email,
				"grievance_id", grievance.ID,
				"error", err)
		}
	}(*user, *grievance)
}
