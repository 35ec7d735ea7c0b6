package catalog

import (
	"context"
	"errors"

	"github.com/alexmoren/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStockConflict is returned when a guarded decrement matches no row,
// meaning the product vanished or its stock dropped below the requested
// quantity between the read and the write.
var ErrStockConflict = errors.New("stock conflict")

// Repository defines persistence operations for the product catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	FindForUpdate(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, filters ListFilters) ([]models.Product, error)
	DecrementStock(ctx context.Context, id int64, qty int) error
	SetStock(ctx context.Context, id int64, stock int) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindForUpdate reads a product row under SELECT ... FOR UPDATE so
// concurrent checkouts serialize per product. SQLite has no row locks,
// so the clause is only applied on Postgres.
func (r *repository) FindForUpdate(ctx context.Context, id int64) (*models.Product, error) {
	q := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var product models.Product
	if err := q.Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if filters.Category != "" {
		q = q.Where("category = ?", filters.Category)
	}

	var products []models.Product
	if err := q.Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// DecrementStock applies a guarded decrement. The stock >= qty predicate
// is the oversell backstop even when the caller already holds a row lock.
func (r *repository) DecrementStock(ctx context.Context, id int64, qty int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockConflict
	}
	return nil
}

func (r *repository) SetStock(ctx context.Context, id int64, stock int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", stock)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
