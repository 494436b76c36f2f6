package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"flightnum-service/internal/fetcher"
	"flightnum-service/internal/models"
	"flightnum-service/internal/providers"
	"flightnum-service/internal/router"
	"flightnum-service/pkg/logger"
)

type SearchHandler struct {
	fetcher *fetcher.Fetcher
	router  *router.Router
	log     logger.Logger
}

func NewSearchHandler(f *fetcher.Fetcher, r *router.Router, log logger.Logger) *SearchHandler {
	return &SearchHandler{
		fetcher: f,
		router:  r,
		log:     log,
	}
}

func (h *SearchHandler) Search(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	var criteria models.SearchCriteria
	if err := c.Bind(&criteria); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse search criteria: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}
	if criteria.APIKey == "" {
		criteria.APIKey = c.Request().Header.Get("X-API-Key")
	}
	criteria = criteria.Normalized()

	if err := criteria.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	// No credential plus a provider that needs one: run this one search
	// against the demo adapter and restore the configured provider after.
	active := h.router.Current()
	demoFallback := criteria.APIKey == "" && active.RequiresKey()

	var (
		flights  []models.FlightResult
		cacheHit bool
		err      error
		provider = active
	)
	if demoFallback {
		provider = providers.Demo
		h.log.Info("no API key configured, falling back to demo", "configured", active)
		err = h.router.RunAs(providers.Demo, func() error {
			var ferr error
			flights, cacheHit, ferr = h.fetcher.FetchFlights(ctx, criteria)
			return ferr
		})
	} else {
		flights, cacheHit, err = h.fetcher.FetchFlights(ctx, criteria)
	}
	if err != nil {
		return h.searchError(c, err)
	}

	criteria.APIKey = ""
	return c.JSON(http.StatusOK, models.SearchResponse{
		SearchCriteria: criteria,
		Metadata: models.SearchMetadata{
			Provider:     string(provider),
			TotalResults: len(flights),
			CacheHit:     cacheHit,
			DemoFallback: demoFallback,
			SearchTimeMs: time.Since(startTime).Milliseconds(),
		},
		Flights: flights,
	})
}

// searchError maps the provider error taxonomy onto HTTP statuses and
// friendlier messages.
func (h *SearchHandler) searchError(c echo.Context, err error) error {
	var (
		missing   *providers.MissingFieldError
		transport *providers.TransportError
		app       *providers.ApplicationError
	)
	switch {
	case errors.Is(err, providers.ErrMissingCredential):
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "missing_credential",
			Message: "an API key is required for the selected provider",
			Code:    http.StatusUnauthorized,
		})
	case errors.As(err, &missing):
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "missing_field",
			Message: missing.Error(),
			Code:    http.StatusBadRequest,
		})
	case errors.As(err, &transport):
		msg := transport.Error()
		switch transport.Status {
		case http.StatusUnauthorized:
			msg = "the provider rejected the API key"
		case http.StatusTooManyRequests:
			msg = "the provider rate limit was reached, try again later"
		}
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "transport_error",
			Message: msg,
			Code:    http.StatusBadGateway,
		})
	case errors.As(err, &app):
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "provider_error",
			Message: app.Error(),
			Code:    http.StatusBadGateway,
		})
	case errors.Is(err, providers.ErrNotImplemented):
		return c.JSON(http.StatusNotImplemented, models.ErrorResponse{
			Error:   "not_implemented",
			Message: err.Error(),
			Code:    http.StatusNotImplemented,
		})
	case errors.Is(err, router.ErrUnknownProvider):
		h.log.Error("misconfigured provider", "error", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "unknown_provider",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
	}

	h.log.Error("search failed", "error", err)
	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "search_error",
		Message: "Failed to search flights: " + err.Error(),
		Code:    http.StatusInternalServerError,
	})
}

func (h *SearchHandler) GetProvider(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"provider": string(h.router.Current()),
	})
}

func (h *SearchHandler) SetProvider(c echo.Context) error {
	var body struct {
		Provider string `json:"provider"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	id := providers.Identity(strings.ToLower(strings.TrimSpace(body.Provider)))
	if !id.Valid() {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "unknown_provider",
			Message: "unknown provider: " + body.Provider,
			Code:    http.StatusBadRequest,
		})
	}

	h.router.SetProvider(id)
	h.log.Info("provider changed", "provider", id)
	return c.JSON(http.StatusOK, map[string]string{
		"provider": string(id),
	})
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
