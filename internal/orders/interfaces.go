package orders

import (
	"context"

	"github.com/alexmoren/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the orders table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, params ListParams) ([]models.Order, error)
}
