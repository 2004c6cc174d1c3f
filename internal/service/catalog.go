package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/bookshop_catalog/internal/logging"
	"github.com/Skotchmaster/bookshop_catalog/internal/models"
	"github.com/Skotchmaster/bookshop_catalog/internal/repo"
	"github.com/Skotchmaster/bookshop_catalog/internal/transport"
)

var (
	ErrValidation        = errors.New("validation")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("Not enough stock for product")
)

type CatalogService struct {
	Repo *repo.GormRepo
}

func New(r *repo.GormRepo) *CatalogService {
	return &CatalogService{Repo: r}
}

func notFound(id uint) error {
	return fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
}

func (s *CatalogService) GetAllProducts(ctx context.Context, page, size int) (*models.Page, error) {
	return s.Repo.FindProducts(ctx, page, size)
}

func (s *CatalogService) GetProductsSortedByPriceAsc(ctx context.Context, page, size int) (*models.Page, error) {
	return s.Repo.FindProductsByPrice(ctx, false, page, size)
}

func (s *CatalogService) GetProductsSortedByPriceDesc(ctx context.Context, page, size int) (*models.Page, error) {
	return s.Repo.FindProductsByPrice(ctx, true, page, size)
}

// SearchBooks matches query against product names ignoring case. Callers
// route empty queries to GetAllProducts.
func (s *CatalogService) SearchBooks(ctx context.Context, query string, page, size int) (*models.Page, error) {
	return s.Repo.FindProductsByName(ctx, query, page, size)
}

func validate(req transport.ProductRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("name must not be empty: %w", ErrValidation)
	}
	if req.Price < 0 {
		return fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative: %w", ErrValidation)
	}
	return nil
}

// applyDetails copies the optional descriptive fields the request carries.
func applyDetails(prod *models.Product, req transport.ProductRequest) {
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.Author != nil {
		prod.Author = *req.Author
	}
	if req.Image != nil {
		prod.Image = *req.Image
	}
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	prod := &models.Product{Name: req.Name, Price: req.Price}
	applyDetails(prod, req)
	if req.Quantity != nil {
		prod.Quantity = *req.Quantity
	}

	return s.Repo.CreateProduct(ctx, prod)
}

// UpdateProduct overwrites name, price and quantity and refreshes the
// snapshot held by every cart item pointing at it, in one transaction.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, req transport.ProductRequest) (*models.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var saved *models.Product
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		prod, err := tx.FindProductByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(id)
			}
			return err
		}

		prod.Name = req.Name
		prod.Price = req.Price
		applyDetails(prod, req)
		prod.Quantity = 0
		if req.Quantity != nil {
			prod.Quantity = *req.Quantity
		}

		if saved, err = tx.SaveProduct(ctx, prod); err != nil {
			return err
		}

		items, err := tx.FindCartItemsByProductID(ctx, id)
		if err != nil {
			return err
		}
		for i := range items {
			items[i].ProductName = saved.Name
			items[i].ProductPrice = saved.Price
			if err := tx.SaveCartItem(ctx, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// DeleteProduct removes the product together with the cart items that
// reference it and reports how many cart items were dropped.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) (int, error) {
	removed := 0
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		ok, err := tx.ProductExists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return notFound(id)
		}

		items, err := tx.FindCartItemsByProductID(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteCartItems(ctx, items); err != nil {
			return err
		}
		removed = len(items)

		if err := tx.DeleteProduct(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// ReduceProductQuantity takes quantity units out of stock. The decrement is
// conditional on the stock still covering it, so concurrent reducers can
// never push the quantity below zero.
func (s *CatalogService) ReduceProductQuantity(ctx context.Context, id uint, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be more than zero: %w", ErrValidation)
	}

	return s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		prod, err := tx.FindProductByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("Product %w", ErrNotFound)
			}
			return err
		}
		if prod.Quantity < quantity {
			return fmt.Errorf("%w: %s", ErrInsufficientStock, prod.Name)
		}

		rows, err := tx.DecrementProductQuantity(ctx, id, quantity)
		if err != nil {
			return err
		}
		if rows == 0 {
			logging.FromContext(ctx).Warn("reduce_quantity_lost_race", "product_id", id, "quantity", quantity)
			return fmt.Errorf("%w: %s", ErrInsufficientStock, prod.Name)
		}
		return nil
	})
}

func (s *CatalogService) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(id)
		}
		return nil, err
	}
	return prod, nil
}

func (s *CatalogService) Save(ctx context.Context, prod *models.Product) (*models.Product, error) {
	return s.Repo.SaveProduct(ctx, prod)
}
