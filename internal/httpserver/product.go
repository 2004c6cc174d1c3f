package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookshop_catalog/internal/logging"
	"github.com/Skotchmaster/bookshop_catalog/internal/models"
	"github.com/Skotchmaster/bookshop_catalog/internal/mykafka"
	"github.com/Skotchmaster/bookshop_catalog/internal/service"
	"github.com/Skotchmaster/bookshop_catalog/internal/transport"
	"github.com/Skotchmaster/bookshop_catalog/internal/util"
)

const defaultTopic = "product_events"

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type CatalogHTTP struct {
	Svc *service.CatalogService
	// Events is optional; nil disables publishing.
	Events EventPublisher
	Topic  string
}

func (h *CatalogHTTP) publish(c echo.Context, ev mykafka.ProductEvent) {
	if h.Events == nil {
		return
	}
	topic := h.Topic
	if topic == "" {
		topic = defaultTopic
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	key := strconv.FormatUint(uint64(ev.ProductID), 10)
	if err := h.Events.PublishEvent(ctx, topic, key, ev); err != nil {
		logging.FromContext(ctx).Error("publish_event_failed", "type", ev.Type, "product_id", ev.ProductID, "error", err)
	}
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func pageParams(c echo.Context) (int, int) {
	page := util.ParseIntDefault(c.QueryParam("page"), util.DefaultPage)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	return util.Normalize(page, size)
}

// GetProducts serves listing, price sorting and name search from one endpoint.
// A non-empty query wins over sort.
func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	page, size := pageParams(c)
	query := c.QueryParam("query")
	sort := c.QueryParam("sort")

	var (
		res *models.Page
		err error
	)
	switch {
	case query != "":
		res, err = h.Svc.SearchBooks(ctx, query, page, size)
	case strings.EqualFold(sort, "asc"):
		res, err = h.Svc.GetProductsSortedByPriceAsc(ctx, page, size)
	case strings.EqualFold(sort, "desc"):
		res, err = h.Svc.GetProductsSortedByPriceDesc(ctx, page, size)
	default:
		res, err = h.Svc.GetAllProducts(ctx, page, size)
	}
	if err != nil {
		l.Error("get_products_error", "status", 500, "reason", "cannot get products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get products")
	}

	return c.JSON(http.StatusOK, res)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search_products")

	if !c.QueryParams().Has("query") {
		l.Warn("search_products_error", "status", 400, "reason", "query param missing")
		return echo.NewHTTPError(http.StatusBadRequest, "query url parameter is required")
	}

	page, size := pageParams(c)
	res, err := h.Svc.SearchBooks(ctx, c.QueryParam("query"), page, size)
	if err != nil {
		l.Error("search_products_error", "status", 500, "reason", "cannot search products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot search products")
	}

	return c.JSON(http.StatusOK, res)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := parseID(c)
	if err != nil {
		l.Warn("get_product_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	prod, err := h.Svc.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_product_failed", "status", 404, "reason", "product not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("get_product_failed", "status", 500, "reason", "cannot get product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get product")
	}

	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) bindProduct(c echo.Context) (transport.ProductRequest, error) {
	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return req, err
	}
	if err := c.Validate(&req); err != nil {
		return req, err
	}
	return req, nil
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	req, err := h.bindProduct(c)
	if err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		l.Error("product_create_error", "status", 500, "reason", "cannot add product to db", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add product to db")
	}

	h.publish(c, mykafka.NewProductEvent(mykafka.ProductCreated, prod.ID, map[string]any{
		"name":     prod.Name,
		"price":    prod.Price,
		"quantity": prod.Quantity,
	}))
	l.Info("create_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, prod)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, err := parseID(c)
	if err != nil {
		l.Warn("product_update_error", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	req, err := h.bindProduct(c)
	if err != nil {
		l.Warn("product_update_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.UpdateProduct(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Warn("product_update_error", "status", 404, "reason", "product not found", "error", err)
			return c.NoContent(http.StatusNotFound)
		case errors.Is(err, service.ErrValidation):
			l.Warn("product_update_error", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		default:
			l.Error("product_update_error", "status", 500, "reason", "cannot update product", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update product")
		}
	}

	h.publish(c, mykafka.NewProductEvent(mykafka.ProductUpdated, prod.ID, map[string]any{
		"name":     prod.Name,
		"price":    prod.Price,
		"quantity": prod.Quantity,
	}))
	l.Info("update_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := parseID(c)
	if err != nil {
		l.Warn("product_delete_error", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	removed, err := h.Svc.DeleteProduct(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("product_delete_error", "status", 404, "reason", "product not found", "error", err)
			return c.NoContent(http.StatusNotFound)
		}
		l.Error("product_delete_error", "status", 500, "reason", "cannot delete product from db", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete product from db")
	}

	h.publish(c, mykafka.NewProductEvent(mykafka.ProductDeleted, id, map[string]any{
		"cart_items_removed": removed,
	}))
	l.Info("delete_product_success", "product_id", id, "cart_items_removed", removed, "message", "Product deleted successfully")
	return c.NoContent(http.StatusNoContent)
}

// ReduceProductQuantity answers 400 with the error text for every business
// failure, not-found included.
func (h *CatalogHTTP) ReduceProductQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.reduce_quantity")

	id, err := parseID(c)
	if err != nil {
		l.Warn("reduce_quantity_error", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	raw := c.QueryParam("quantity")
	if raw == "" {
		l.Warn("reduce_quantity_error", "status", 400, "reason", "quantity param missing")
		return echo.NewHTTPError(http.StatusBadRequest, "quantity url parameter is required")
	}
	quantity, err := strconv.Atoi(raw)
	if err != nil {
		l.Warn("reduce_quantity_error", "status", 400, "reason", "quantity is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid quantity: "+raw)
	}

	l.Info("reduce_quantity_requested", "product_id", id, "quantity", quantity)
	if err := h.Svc.ReduceProductQuantity(ctx, id, quantity); err != nil {
		if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrInsufficientStock) || errors.Is(err, service.ErrValidation) {
			l.Warn("reduce_quantity_error", "status", 400, "product_id", id, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("reduce_quantity_error", "status", 500, "product_id", id, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot reduce product quantity")
	}

	h.publish(c, mykafka.NewProductEvent(mykafka.ProductStockReduced, id, map[string]any{
		"amount": quantity,
	}))
	l.Info("reduce_quantity_success", "product_id", id, "quantity", quantity)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Quantity reduced successfully"})
}
