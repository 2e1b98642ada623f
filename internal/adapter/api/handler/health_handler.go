package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthProbe reports whether a backing service is reachable.
type HealthProbe func(ctx context.Context) error

type HealthHandler struct {
	driver string
	probe  HealthProbe
}

var healthHandler *HealthHandler

func NewHealthHandler(driver string, probe HealthProbe) *HealthHandler {
	return &HealthHandler{
		driver: driver,
		probe:  probe,
	}
}

func SetupHealthHandler(driver string, probe HealthProbe) {
	healthHandler = NewHealthHandler(driver, probe)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "Server is running",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *HealthHandler) CheckStorageHealth(c echo.Context) error {
	if h.probe == nil {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "ok",
			"driver": h.driver,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.probe(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "Storage connection failed",
			"driver": h.driver,
			"error":  err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"driver": h.driver,
	})
}
