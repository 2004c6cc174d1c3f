package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookshop_catalog/internal/logging"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	CatalogHandler *CatalogHTTP
	DB             Pinger
}

func Register(e *echo.Echo, d *Deps) {
	if e.Validator == nil {
		e.Validator = NewRequestValidator()
	}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return ready(c, d.DB) })

	products := e.Group("/api/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.POST("", d.CatalogHandler.CreateProduct)
	products.PUT("/:id", d.CatalogHandler.UpdateProduct)
	products.DELETE("/:id", d.CatalogHandler.DeleteProduct)
	products.POST("/:id/reduce", d.CatalogHandler.ReduceProductQuantity)
}

func ready(c echo.Context, db Pinger) error {
	if db == nil {
		return c.NoContent(http.StatusOK)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		logging.FromContext(ctx).Error("readiness_failed", "status", 503, "error", err)
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
