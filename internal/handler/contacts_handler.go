package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wisechats/leadboard/api/internal/dto"
	"github.com/wisechats/leadboard/api/internal/repository"
	"github.com/wisechats/leadboard/api/internal/service"
)

// ContactsHandler exposes contact management and export endpoints.
type ContactsHandler struct {
	contacts *service.ContactsService
	export   *service.ExportService
}

// NewContactsHandler constructs a ContactsHandler.
func NewContactsHandler(contacts *service.ContactsService, export *service.ExportService) *ContactsHandler {
	return &ContactsHandler{contacts: contacts, export: export}
}

// List handles GET /contacts requests.
func (h *ContactsHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}

	contacts, err := h.contacts.List(c.Request().Context(), userID, listFilterFromQuery(c))
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list contacts")
	}
	return Success(c, http.StatusOK, "contacts retrieved", contacts)
}

// Save handles POST /contacts requests.
func (h *ContactsHandler) Save(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}

	var req dto.SaveContactsRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	saved, err := h.contacts.Save(c.Request().Context(), userID, req)
	if err != nil {
		if strings.Contains(err.Error(), "required") {
			return Error(c, http.StatusBadRequest, err.Error())
		}
		return Error(c, http.StatusInternalServerError, "failed to save contacts")
	}
	return Success(c, http.StatusCreated, "contacts saved", saved)
}

// Delete handles DELETE /contacts/:id requests.
func (h *ContactsHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}

	if err := h.contacts.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, repository.ErrContactNotFound):
			return Error(c, http.StatusNotFound, "contact not found")
		case strings.Contains(err.Error(), "invalid contact id"):
			return Error(c, http.StatusBadRequest, "invalid contact id")
		default:
			return Error(c, http.StatusInternalServerError, "failed to delete contact")
		}
	}
	return Success(c, http.StatusOK, "contact deleted", nil)
}

// BulkDelete handles POST /contacts/bulk-delete requests.
func (h *ContactsHandler) BulkDelete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}

	var req dto.BulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	removed, err := h.contacts.BulkDelete(c.Request().Context(), userID, req.IDs)
	if err != nil {
		if strings.Contains(err.Error(), "required") || strings.Contains(err.Error(), "invalid") {
			return Error(c, http.StatusBadRequest, err.Error())
		}
		return Error(c, http.StatusInternalServerError, "failed to delete contacts")
	}
	return Success(c, http.StatusOK, "contacts deleted", map[string]int{"deleted": removed})
}

// Facets handles GET /contacts/facets requests.
func (h *ContactsHandler) Facets(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}

	facets, err := h.contacts.Facets(c.Request().Context(), userID)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to load facets")
	}
	return Success(c, http.StatusOK, "facets retrieved", facets)
}

// ExportCSV handles GET /contacts/export requests.
func (h *ContactsHandler) ExportCSV(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}

	data, err := h.export.ContactsCSV(c.Request().Context(), userID, listFilterFromQuery(c))
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to export contacts")
	}
	return sendCSV(c, "contatos.csv", data)
}

// ExportSpotterCSV handles GET /contacts/export/spotter requests.
func (h *ContactsHandler) ExportSpotterCSV(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}

	data, err := h.export.SpotterTemplateCSV(c.Request().Context(), userID, listFilterFromQuery(c))
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to export contacts")
	}
	return sendCSV(c, "modelo-spotter.csv", data)
}

func listFilterFromQuery(c echo.Context) dto.ContactListFilter {
	filter := dto.ContactListFilter{
		Q:       strings.TrimSpace(c.QueryParam("q")),
		Niche:   strings.TrimSpace(c.QueryParam("niche")),
		City:    strings.TrimSpace(c.QueryParam("city")),
		Source:  strings.ToUpper(strings.TrimSpace(c.QueryParam("source"))),
		Tag:     strings.TrimSpace(c.QueryParam("tag")),
		Sort:    strings.TrimSpace(c.QueryParam("sort")),
		Page:    parseIntDefault(c.QueryParam("page"), 1),
		PerPage: parseIntDefault(c.QueryParam("per_page"), 0),
	}
	switch strings.ToLower(strings.TrimSpace(c.QueryParam("sent"))) {
	case "true":
		sent := true
		filter.Sent = &sent
	case "false":
		sent := false
		filter.Sent = &sent
	}
	return filter
}

func parseIntDefault(input string, fallback int) int {
	if input == "" {
		return fallback
	}
	if value, err := strconv.Atoi(input); err == nil {
		return value
	}
	return fallback
}

func sendCSV(c echo.Context, filename string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}
