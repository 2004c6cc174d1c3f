package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/bookshop_catalog/internal/models"
	"github.com/Skotchmaster/bookshop_catalog/internal/util"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func byID(db *gorm.DB) *gorm.DB {
	return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
}

func byPrice(desc bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Order(clause.OrderByColumn{Column: clause.Column{Name: "price"}, Desc: desc}).
			Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	}
}

func nameContains(q string) func(*gorm.DB) *gorm.DB {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	}
}

// findPage counts the rows matched by filter, then loads one window of them in
// the given order.
func (r *GormRepo) findPage(ctx context.Context, page, size int, filter, order func(*gorm.DB) *gorm.DB) (*models.Page, error) {
	page, size = util.Normalize(page, size)
	offset, limit := util.Calculate(page, size)

	count := r.DB.WithContext(ctx).Model(&models.Product{})
	if filter != nil {
		count = count.Scopes(filter)
	}
	var total int64
	if err := count.Count(&total).Error; err != nil {
		return nil, err
	}

	items := make([]models.Product, 0, limit)
	find := r.DB.WithContext(ctx).Model(&models.Product{})
	if filter != nil {
		find = find.Scopes(filter)
	}
	if err := find.Scopes(order).Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}

	return models.NewPage(items, total, page, size), nil
}

func (r *GormRepo) FindProducts(ctx context.Context, page, size int) (*models.Page, error) {
	return r.findPage(ctx, page, size, nil, byID)
}

func (r *GormRepo) FindProductsByPrice(ctx context.Context, desc bool, page, size int) (*models.Page, error) {
	return r.findPage(ctx, page, size, nil, byPrice(desc))
}

func (r *GormRepo) FindProductsByName(ctx context.Context, q string, page, size int) (*models.Page, error) {
	return r.findPage(ctx, page, size, nameContains(q), byID)
}

func (r *GormRepo) FindProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) ProductExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) (*models.Product, error) {
	if err := r.DB.WithContext(ctx).Create(prod).Error; err != nil {
		return nil, err
	}
	return prod, nil
}

// SaveProduct inserts prod when it has no id yet and overwrites the row otherwise.
func (r *GormRepo) SaveProduct(ctx context.Context, prod *models.Product) (*models.Product, error) {
	if err := r.DB.WithContext(ctx).Save(prod).Error; err != nil {
		return nil, err
	}
	return prod, nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementProductQuantity subtracts n from the stock only while enough stock
// is left. Zero rows affected means the product is gone or short on stock.
func (r *GormRepo) DecrementProductQuantity(ctx context.Context, id uint, n int) (int64, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", id, n).
		Update("quantity", gorm.Expr("quantity - ?", n))
	return res.RowsAffected, res.Error
}
