package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wisechats/leadboard/api/internal/dto"
	"github.com/wisechats/leadboard/api/internal/repository"
	"github.com/wisechats/leadboard/api/internal/service"
)

// SpotterHandler exposes CRM submission and token management endpoints.
type SpotterHandler struct {
	spotter *service.SpotterService
	users   *service.UserService
}

// NewSpotterHandler constructs a SpotterHandler.
func NewSpotterHandler(spotter *service.SpotterService, users *service.UserService) *SpotterHandler {
	return &SpotterHandler{spotter: spotter, users: users}
}

// Send handles POST /spotter/send/:id requests.
func (h *SpotterHandler) Send(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}

	outcome, err := h.spotter.Send(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSpotterTokenNotSet):
			return Error(c, http.StatusPreconditionFailed, "spotter token not configured")
		case errors.Is(err, repository.ErrContactNotFound):
			return Error(c, http.StatusNotFound, "contact not found")
		case errors.Is(err, service.ErrSendInFlight):
			return Error(c, http.StatusConflict, "contact submission already in progress")
		case errors.Is(err, service.ErrContactAlreadySent):
			return Error(c, http.StatusConflict, "contact already sent to spotter")
		case err.Error() == "invalid contact id":
			return Error(c, http.StatusBadRequest, "invalid contact id")
		default:
			return Error(c, http.StatusBadGateway, err.Error())
		}
	}
	return Success(c, http.StatusOK, "contact submitted", outcome)
}

// BulkSend handles POST /spotter/bulk-send requests.
func (h *SpotterHandler) BulkSend(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}

	var req dto.BulkSendRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	resp, err := h.spotter.BulkSend(c.Request().Context(), userID, req.IDs)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSpotterTokenNotSet):
			return Error(c, http.StatusPreconditionFailed, "spotter token not configured")
		case err.Error() == "ids are required":
			return Error(c, http.StatusBadRequest, "ids are required")
		default:
			return Error(c, http.StatusInternalServerError, "bulk submission failed")
		}
	}
	return Success(c, http.StatusOK, "bulk submission completed", resp)
}

// TokenStatus handles GET /profile/spotter-token requests.
func (h *SpotterHandler) TokenStatus(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}

	status, err := h.users.SpotterTokenStatus(c.Request().Context(), userID)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to load token status")
	}
	return Success(c, http.StatusOK, "token status retrieved", status)
}

// SetToken handles PUT /profile/spotter-token requests.
func (h *SpotterHandler) SetToken(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}

	var req dto.SpotterTokenRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	if err := h.users.SetSpotterToken(c.Request().Context(), userID, req.Token); err != nil {
		if err.Error() == "token is required" {
			return Error(c, http.StatusBadRequest, "token is required")
		}
		return Error(c, http.StatusInternalServerError, "failed to store token")
	}
	return Success(c, http.StatusOK, "token stored", nil)
}
