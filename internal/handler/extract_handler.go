package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/wisechats/leadboard/api/internal/dto"
	"github.com/wisechats/leadboard/api/internal/middleware"
	"github.com/wisechats/leadboard/api/internal/service"
	"github.com/wisechats/leadboard/api/internal/service/extract"
)

// ExtractHandler exposes the text extraction endpoint.
type ExtractHandler struct {
	contacts *service.ContactsService
}

// NewExtractHandler constructs an ExtractHandler.
func NewExtractHandler(contacts *service.ContactsService) *ExtractHandler {
	return &ExtractHandler{contacts: contacts}
}

// Extract handles POST /extract requests.
func (h *ExtractHandler) Extract(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}

	var req dto.ExtractRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Text) == "" {
		return Error(c, http.StatusBadRequest, "text is required")
	}

	resp, err := h.contacts.Extract(c.Request().Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrInputTooLarge):
			return Error(c, http.StatusRequestEntityTooLarge, "text exceeds the maximum input size")
		case errors.Is(err, extract.ErrUnknownStrategy):
			return Error(c, http.StatusBadRequest, "unknown extraction strategy")
		default:
			return Error(c, http.StatusInternalServerError, "extraction failed")
		}
	}

	return Success(c, http.StatusOK, "extraction completed", resp)
}

// currentUserID reads the authenticated user id stored by the JWT middleware.
func currentUserID(c echo.Context) (uuid.UUID, error) {
	raw, _ := c.Get(middleware.ContextKeyUserID).(string)
	return uuid.Parse(raw)
}
