package orders

import (
	"context"
	"sync"
	"testing"

	"github.com/alexmoren/storefront-backend/internal/catalog"
	"github.com/alexmoren/storefront-backend/pkg/db"
	"github.com/alexmoren/storefront-backend/pkg/db/models"
	"github.com/alexmoren/storefront-backend/pkg/enums"
	pkgerrors "github.com/alexmoren/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := setupOrdersTestDB(t)
	svc, err := NewService(
		NewRepository(conn),
		catalog.NewRepository(conn),
		db.NewFromGorm(conn),
		nil,
	)
	require.NoError(t, err)
	return svc, conn
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded, "expected a coded error, got %v", err)
	require.Equal(t, code, coded.Code())
}

func countOrders(t *testing.T, conn *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&n).Error)
	return n
}

func TestPlaceOrderHappyPath(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	phone := mustSeedProduct(t, conn, "iPhone 15", "799.99", 15)
	headphones := mustSeedProduct(t, conn, "Sony Headphones", "199.99", 20)

	placed, err := svc.PlaceOrder(ctx, PlaceOrderInput{
		Items: []ItemRequest{
			{ProductID: phone.ID, Quantity: 2},
			{ProductID: headphones.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.NotZero(t, placed.ID)
	require.Equal(t, enums.OrderStatusConfirmed, placed.Status)

	// 2 * 799.99 + 199.99
	require.True(t, placed.Total.Equal(decimal.RequireFromString("1799.97")),
		"unexpected total %s", placed.Total)

	require.Len(t, placed.Items, 2)
	require.Equal(t, "iPhone 15", placed.Items[0].Name)
	require.True(t, placed.Items[0].Price.Equal(decimal.RequireFromString("799.99")))
	require.Equal(t, 2, placed.Items[0].Quantity)

	require.Equal(t, "Guest", placed.CustomerName)
	require.Equal(t, "guest@example.com", placed.CustomerEmail)

	var afterPhone, afterHeadphones models.Product
	require.NoError(t, conn.First(&afterPhone, phone.ID).Error)
	require.NoError(t, conn.First(&afterHeadphones, headphones.ID).Error)
	require.Equal(t, 13, afterPhone.Stock)
	require.Equal(t, 19, afterHeadphones.Stock)
}

func TestPlaceOrderUsesProvidedCustomer(t *testing.T) {
	svc, conn := newTestService(t)
	product := mustSeedProduct(t, conn, "Gaming Mouse", "49.99", 30)

	placed, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		Items:    []ItemRequest{{ProductID: product.ID, Quantity: 1}},
		Customer: CustomerInput{Name: "Ada Lovelace", Email: "ada@example.com"},
	})
	require.NoError(t, err)
	require.Equal(t, "Ada Lovelace", placed.CustomerName)
	require.Equal(t, "ada@example.com", placed.CustomerEmail)
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	mouse := mustSeedProduct(t, conn, "Gaming Mouse", "49.99", 30)
	laptop := mustSeedProduct(t, conn, "MacBook Pro", "1299.99", 2)

	_, err := svc.PlaceOrder(ctx, PlaceOrderInput{
		Items: []ItemRequest{
			{ProductID: mouse.ID, Quantity: 5},
			{ProductID: laptop.ID, Quantity: 3},
		},
	})
	requireCode(t, err, pkgerrors.CodeInsufficientStock)

	coded := pkgerrors.As(err)
	details, ok := coded.Details().(map[string]any)
	require.True(t, ok, "expected details map, got %T", coded.Details())
	require.Equal(t, laptop.ID, details["product_id"])
	require.Equal(t, 2, details["available"])
	require.Equal(t, 3, details["requested"])

	// the first item's decrement must have been rolled back
	var afterMouse models.Product
	require.NoError(t, conn.First(&afterMouse, mouse.ID).Error)
	require.Equal(t, 30, afterMouse.Stock)

	require.EqualValues(t, 0, countOrders(t, conn))
}

func TestPlaceOrderUnknownProductRollsBack(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	mouse := mustSeedProduct(t, conn, "Gaming Mouse", "49.99", 30)

	_, err := svc.PlaceOrder(ctx, PlaceOrderInput{
		Items: []ItemRequest{
			{ProductID: mouse.ID, Quantity: 1},
			{ProductID: 424242, Quantity: 1},
		},
	})
	requireCode(t, err, pkgerrors.CodeNotFound)

	var afterMouse models.Product
	require.NoError(t, conn.First(&afterMouse, mouse.ID).Error)
	require.Equal(t, 30, afterMouse.Stock)
	require.EqualValues(t, 0, countOrders(t, conn))
}

func TestPlaceOrderExactStockDrainsToZero(t *testing.T) {
	svc, conn := newTestService(t)
	product := mustSeedProduct(t, conn, "Sony Headphones", "199.99", 3)

	placed, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		Items: []ItemRequest{{ProductID: product.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	require.True(t, placed.Total.Equal(decimal.RequireFromString("599.97")))

	var after models.Product
	require.NoError(t, conn.First(&after, product.ID).Error)
	require.Equal(t, 0, after.Stock)

	// next attempt for the same product must be rejected
	_, err = svc.PlaceOrder(context.Background(), PlaceOrderInput{
		Items: []ItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	requireCode(t, err, pkgerrors.CodeInsufficientStock)
}

func TestPlaceOrderValidation(t *testing.T) {
	svc, conn := newTestService(t)
	product := mustSeedProduct(t, conn, "Gaming Mouse", "49.99", 30)
	ctx := context.Background()

	cases := []struct {
		name  string
		input PlaceOrderInput
	}{
		{"empty items", PlaceOrderInput{}},
		{"zero quantity", PlaceOrderInput{Items: []ItemRequest{{ProductID: product.ID, Quantity: 0}}}},
		{"negative quantity", PlaceOrderInput{Items: []ItemRequest{{ProductID: product.ID, Quantity: -2}}}},
		{"bad product id", PlaceOrderInput{Items: []ItemRequest{{ProductID: 0, Quantity: 1}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.PlaceOrder(ctx, tc.input)
			requireCode(t, err, pkgerrors.CodeValidation)
		})
	}

	// nothing may have been written by any of the rejected attempts
	require.EqualValues(t, 0, countOrders(t, conn))
	var after models.Product
	require.NoError(t, conn.First(&after, product.ID).Error)
	require.Equal(t, 30, after.Stock)
}

func TestPlaceOrderSnapshotSurvivesCatalogChanges(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	product := mustSeedProduct(t, conn, "iPhone 15", "799.99", 15)

	placed, err := svc.PlaceOrder(ctx, PlaceOrderInput{
		Items: []ItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// reprice and rename after the sale
	require.NoError(t, conn.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{"price": "999.99", "name": "iPhone 15 Pro"}).Error)

	reloaded, err := svc.GetOrder(ctx, placed.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	require.Equal(t, "iPhone 15", reloaded.Items[0].Name)
	require.True(t, reloaded.Items[0].Price.Equal(decimal.RequireFromString("799.99")))
	require.True(t, reloaded.Total.Equal(decimal.RequireFromString("799.99")))
}

func TestPlaceOrderConcurrentBuyersCannotOversell(t *testing.T) {
	svc, conn := newTestService(t)
	product := mustSeedProduct(t, conn, "MacBook Pro", "1299.99", 1)

	// sqlite has no row locks; a single pooled connection serializes the
	// two transactions the way FOR UPDATE does on postgres
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
				Items: []ItemRequest{{ProductID: product.ID, Quantity: 1}},
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var placed, rejected int
	for err := range results {
		if err == nil {
			placed++
			continue
		}
		rejected++
		requireCode(t, err, pkgerrors.CodeInsufficientStock)
	}
	require.Equal(t, 1, placed, "exactly one buyer may win the last unit")
	require.Equal(t, 1, rejected)

	var after models.Product
	require.NoError(t, conn.First(&after, product.ID).Error)
	require.Equal(t, 0, after.Stock)
	require.EqualValues(t, 1, countOrders(t, conn))
}

func TestPlaceOrderStorageFailureIsDependencyError(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	product := mustSeedProduct(t, conn, "Gaming Mouse", "49.99", 30)
	require.NoError(t, conn.Exec("DROP TABLE orders").Error)

	_, err := svc.PlaceOrder(ctx, PlaceOrderInput{
		Items: []ItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	requireCode(t, err, pkgerrors.CodeDependency)

	// the decrement ran before the insert failed and must be rolled back
	var after models.Product
	require.NoError(t, conn.First(&after, product.ID).Error)
	require.Equal(t, 30, after.Stock)
}

func TestGetOrderValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetOrder(context.Background(), 0)
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.GetOrder(context.Background(), 99999)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestListOrdersNewestFirst(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	product := mustSeedProduct(t, conn, "Gaming Mouse", "49.99", 30)

	first, err := svc.PlaceOrder(ctx, PlaceOrderInput{Items: []ItemRequest{{ProductID: product.ID, Quantity: 1}}})
	require.NoError(t, err)
	second, err := svc.PlaceOrder(ctx, PlaceOrderInput{Items: []ItemRequest{{ProductID: product.ID, Quantity: 2}}})
	require.NoError(t, err)

	listed, err := svc.ListOrders(ctx, ListParams{})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, second.ID, listed[0].ID)
	require.Equal(t, first.ID, listed[1].ID)
}
