package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wisechats/leadboard/api/internal/dto"
	"github.com/wisechats/leadboard/api/internal/repository"
	"github.com/wisechats/leadboard/api/internal/service"
)

// NichesHandler exposes the niche catalogue endpoints.
type NichesHandler struct {
	niches *service.NichesService
}

// NewNichesHandler constructs a NichesHandler.
func NewNichesHandler(niches *service.NichesService) *NichesHandler {
	return &NichesHandler{niches: niches}
}

// List handles GET /niches requests.
func (h *NichesHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}

	niches, err := h.niches.List(c.Request().Context(), userID)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list niches")
	}
	return Success(c, http.StatusOK, "niches retrieved", niches)
}

// Create handles POST /niches requests.
func (h *NichesHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}

	var req dto.CreateNicheRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	niche, err := h.niches.Create(c.Request().Context(), userID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNicheDuplicate):
			return Error(c, http.StatusConflict, "niche already exists")
		case err.Error() == "name is required":
			return Error(c, http.StatusBadRequest, "name is required")
		default:
			return Error(c, http.StatusInternalServerError, "failed to create niche")
		}
	}
	return Success(c, http.StatusCreated, "niche created", niche)
}

// Delete handles DELETE /niches/:id requests.
func (h *NichesHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}

	if err := h.niches.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, repository.ErrNicheNotFound):
			return Error(c, http.StatusNotFound, "niche not found")
		case err.Error() == "invalid niche id":
			return Error(c, http.StatusBadRequest, "invalid niche id")
		default:
			return Error(c, http.StatusInternalServerError, "failed to delete niche")
		}
	}
	return Success(c, http.StatusOK, "niche deleted", nil)
}
