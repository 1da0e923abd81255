package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/manas-foundation/manas-admin/internal/audit"
)

// NavItem is one entry of the dashboard sidebar
type NavItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Navigation lists the content sections of the admin panel
var Navigation = []NavItem{
	{Title: "Dashboard", URL: "/dashboard"},
	{Title: "Users", URL: "/dashboard/users"},
	{Title: "Admin Users", URL: "/dashboard/admin-users"},
	{Title: "Events", URL: "/dashboard/events"},
	{Title: "Impact Cards", URL: "/dashboard/impact-cards"},
	{Title: "Achievement Cards", URL: "/dashboard/achievement-cards"},
	{Title: "Success Stories", URL: "/dashboard/success-stories"},
	{Title: "Media Cards", URL: "/dashboard/media-cards"},
}

// DashboardResponse is the dashboard shell
type DashboardResponse struct {
	Operator   *Operator `json:"operator"`
	Navigation []NavItem `json:"navigation"`
}

func (s *Server) dashboardHome(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		respondWithError(c, s.logger, http.StatusUnauthorized, ErrMissingOperator, "Unauthorized")
		return
	}

	c.JSON(http.StatusOK, DashboardResponse{
		Operator:   op,
		Navigation: Navigation,
	})
}

func (s *Server) currentSession(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		respondWithError(c, s.logger, http.StatusUnauthorized, ErrMissingOperator, "Unauthorized")
		return
	}

	c.JSON(http.StatusOK, op)
}

func (s *Server) listGateEvents(c *gin.Context) {
	limit := audit.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	events, err := s.events.Recent(c.Request.Context(), limit)
	if err != nil {
		respondWithError(c, s.logger, http.StatusInternalServerError, err, "Failed to list gate events")
		return
	}

	c.JSON(http.StatusOK, events)
}

func (s *Server) getGateEvent(c *gin.Context) {
	ev, err := s.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, audit.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Gate event not found"})
			return
		}
		respondWithError(c, s.logger, http.StatusInternalServerError, err, "Failed to get gate event")
		return
	}

	c.JSON(http.StatusOK, ev)
}
