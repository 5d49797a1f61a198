package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wisechats/leadboard/api/internal/service"
)

// StatsHandler exposes the dashboard aggregation endpoint.
type StatsHandler struct {
	contacts *service.ContactsService
}

// NewStatsHandler constructs a StatsHandler.
func NewStatsHandler(contacts *service.ContactsService) *StatsHandler {
	return &StatsHandler{contacts: contacts}
}

// Dashboard handles GET /dashboard/stats requests.
func (h *StatsHandler) Dashboard(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}

	stats, err := h.contacts.Stats(c.Request().Context(), userID)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to load dashboard stats")
	}
	return Success(c, http.StatusOK, "dashboard stats retrieved", stats)
}
