package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookshop_catalog/internal/db"
	"github.com/Skotchmaster/bookshop_catalog/internal/models"
)

func newSQLiteRepo(t *testing.T) *GormRepo {
	t.Helper()
	gdb, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })
	return &GormRepo{DB: gdb}
}

func TestDecrementProductQuantity(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()

	p, err := r.CreateProduct(ctx, &models.Product{Name: "Stock", Price: 1, Quantity: 5})
	require.NoError(t, err)

	rows, err := r.DecrementProductQuantity(ctx, p.ID, 6)
	require.NoError(t, err)
	require.EqualValues(t, 0, rows)

	rows, err = r.DecrementProductQuantity(ctx, p.ID, 5)
	require.NoError(t, err)
	require.EqualValues(t, 1, rows)

	stored, err := r.FindProductByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stored.Quantity)

	rows, err = r.DecrementProductQuantity(ctx, p.ID+100, 1)
	require.NoError(t, err)
	require.EqualValues(t, 0, rows)
}

func TestTransactionRollsBack(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()

	p, err := r.CreateProduct(ctx, &models.Product{Name: "Keep", Price: 1, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, r.CreateCartItem(ctx, &models.CartItem{UserID: 1, ProductID: p.ID, Quantity: 1}))

	boom := errors.New("boom")
	err = r.Transaction(ctx, func(tx *GormRepo) error {
		items, err := tx.FindCartItemsByProductID(ctx, p.ID)
		if err != nil {
			return err
		}
		if err := tx.DeleteCartItems(ctx, items); err != nil {
			return err
		}
		if err := tx.DeleteProduct(ctx, p.ID); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	ok, err := r.ProductExists(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, ok)

	items, err := r.FindCartItemsByProductID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestDeleteProductMissing(t *testing.T) {
	r := newSQLiteRepo(t)

	err := r.DeleteProduct(context.Background(), 12)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFindProductsPageMetadata(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		_, err := r.CreateProduct(ctx, &models.Product{Name: name, Price: 1})
		require.NoError(t, err)
	}

	page, err := r.FindProducts(ctx, 1, 3)
	require.NoError(t, err)
	require.EqualValues(t, 7, page.TotalElements)
	require.Equal(t, 3, page.TotalPages)
	require.Equal(t, 1, page.Number)
	require.Equal(t, 3, page.Size)
	require.Equal(t, []string{"d", "e", "f"}, names(page.Content))

	page, err = r.FindProducts(ctx, 2, 3)
	require.NoError(t, err)
	require.Equal(t, []string{"g"}, names(page.Content))
}

func names(ps []models.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func TestCartItemRequiresExistingProduct(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()

	require.Error(t, r.CreateCartItem(ctx, &models.CartItem{UserID: 1, ProductID: 999, Quantity: 1}))

	p, err := r.CreateProduct(ctx, &models.Product{Name: "Held", Price: 1, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, r.CreateCartItem(ctx, &models.CartItem{UserID: 1, ProductID: p.ID, Quantity: 1}))

	require.Error(t, r.DeleteProduct(ctx, p.ID))
	ok, err := r.ProductExists(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, ok)
}
