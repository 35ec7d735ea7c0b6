package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexmoren/storefront-backend/internal/catalog"
	"github.com/alexmoren/storefront-backend/pkg/db/models"
	"github.com/alexmoren/storefront-backend/pkg/enums"
	pkgerrors "github.com/alexmoren/storefront-backend/pkg/errors"
	"github.com/alexmoren/storefront-backend/pkg/metrics"
	"github.com/alexmoren/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	defaultCustomerName  = "Guest"
	defaultCustomerEmail = "guest@example.com"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines checkout and order read operations.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	ListOrders(ctx context.Context, params ListParams) ([]models.Order, error)
}

type service struct {
	repo    Repository
	catalog catalog.Repository
	tx      txRunner
	metrics *metrics.CheckoutMetrics
}

// NewService builds an order service with the required dependencies.
// Metrics may be nil; recording is skipped in that case.
func NewService(repo Repository, catalogRepo catalog.Repository, tx txRunner, checkout *metrics.CheckoutMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:    repo,
		catalog: catalogRepo,
		tx:      tx,
		metrics: checkout,
	}, nil
}

// PlaceOrder runs the checkout transaction. Every requested product is
// locked, checked and decremented inside a single transaction, in request
// order, so either the whole order commits or nothing changes.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	started := time.Now()

	if err := validatePlaceOrder(input); err != nil {
		s.metrics.IncRejected("validation")
		s.metrics.ObserveDuration("rejected", time.Since(started))
		return nil, err
	}

	var placed *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := s.catalog.WithTx(tx)

		total := decimal.Zero
		items := make(types.LineItems, 0, len(input.Items))

		for _, requested := range input.Items {
			product, err := catalogRepo.FindForUpdate(ctx, requested.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound,
						fmt.Sprintf("product %d not found", requested.ProductID))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "locking product")
			}

			if product.Stock < requested.Quantity {
				return insufficientStock(product, requested.Quantity)
			}

			// snapshot before the decrement so the order keeps the
			// name and price the buyer saw
			items = append(items, types.LineItem{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  requested.Quantity,
			})
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(requested.Quantity))))

			if err := catalogRepo.DecrementStock(ctx, product.ID, requested.Quantity); err != nil {
				if errors.Is(err, catalog.ErrStockConflict) {
					return insufficientStock(product, requested.Quantity)
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrementing stock")
			}
		}

		order := &models.Order{
			Items:         items,
			CustomerName:  customerNameOrDefault(input.Customer.Name),
			CustomerEmail: customerEmailOrDefault(input.Customer.Email),
			Total:         total.Round(2),
			Status:        enums.OrderStatusConfirmed,
		}
		created, err := s.repo.WithTx(tx).Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording order")
		}
		placed = created
		return nil
	})
	if err != nil {
		s.metrics.IncRejected(rejectionReason(err))
		s.metrics.ObserveDuration("rejected", time.Since(started))
		return nil, err
	}

	s.metrics.IncPlaced(len(placed.Items))
	s.metrics.ObserveDuration("success", time.Since(started))
	return placed, nil
}

func (s *service) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id must be positive")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order %d not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, params ListParams) ([]models.Order, error) {
	orders, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	return orders, nil
}

func validatePlaceOrder(input PlaceOrderInput) error {
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	for i, item := range input.Items {
		if item.ProductID <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("items[%d]: product id must be positive", i))
		}
		if item.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("items[%d]: quantity must be at least 1", i))
		}
	}
	return nil
}

func insufficientStock(product *models.Product, requested int) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock,
		fmt.Sprintf("insufficient stock for %s", product.Name)).
		WithDetails(map[string]any{
			"product_id": product.ID,
			"available":  product.Stock,
			"requested":  requested,
		})
}

func rejectionReason(err error) string {
	coded := pkgerrors.As(err)
	if coded == nil {
		return "internal"
	}
	switch coded.Code() {
	case pkgerrors.CodeNotFound:
		return "not_found"
	case pkgerrors.CodeInsufficientStock:
		return "insufficient_stock"
	case pkgerrors.CodeValidation:
		return "validation"
	case pkgerrors.CodeDependency:
		return "dependency"
	default:
		return "internal"
	}
}

func customerNameOrDefault(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultCustomerName
	}
	return name
}

func customerEmailOrDefault(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return defaultCustomerEmail
	}
	return email
}
