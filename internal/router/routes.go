package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wisechats/leadboard/api/internal/auth"
	"github.com/wisechats/leadboard/api/internal/config"
	"github.com/wisechats/leadboard/api/internal/handler"
	middlewarepkg "github.com/wisechats/leadboard/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserAdminHandler
	Extract  *handler.ExtractHandler
	Contacts *handler.ContactsHandler
	Niches   *handler.NichesHandler
	Spotter  *handler.SpotterHandler
	Stats    *handler.StatsHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/auth/register", handlers.Auth.Register)
	e.POST("/auth/login", handlers.Auth.Login)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	secured.POST("/extract", handlers.Extract.Extract, middlewarepkg.ExtractRateLimiter(cfg.RateLimitExtract))

	secured.GET("/contacts", handlers.Contacts.List)
	secured.POST("/contacts", handlers.Contacts.Save)
	secured.DELETE("/contacts/:id", handlers.Contacts.Delete)
	secured.POST("/contacts/bulk-delete", handlers.Contacts.BulkDelete)
	secured.GET("/contacts/facets", handlers.Contacts.Facets)
	secured.GET("/contacts/export", handlers.Contacts.ExportCSV)
	secured.GET("/contacts/export/spotter", handlers.Contacts.ExportSpotterCSV)

	secured.GET("/niches", handlers.Niches.List)
	secured.POST("/niches", handlers.Niches.Create)
	secured.DELETE("/niches/:id", handlers.Niches.Delete)

	secured.GET("/dashboard/stats", handlers.Stats.Dashboard)

	secured.POST("/spotter/send/:id", handlers.Spotter.Send)
	secured.POST("/spotter/bulk-send", handlers.Spotter.BulkSend)
	secured.GET("/profile/spotter-token", handlers.Spotter.TokenStatus)
	secured.PUT("/profile/spotter-token", handlers.Spotter.SetToken)

	admin := secured.Group("/admin", middlewarepkg.RequireRole("admin"))
	admin.GET("/users", handlers.Users.List)
	admin.POST("/users", handlers.Users.Create)
	admin.PATCH("/users/:id", handlers.Users.Update)
	admin.DELETE("/users/:id", handlers.Users.Delete)
}
