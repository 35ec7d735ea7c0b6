package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alexmoren/storefront-backend/api/responses"
	"github.com/alexmoren/storefront-backend/api/validators"
	ordersvc "github.com/alexmoren/storefront-backend/internal/orders"
	"github.com/alexmoren/storefront-backend/pkg/db/models"
	"github.com/alexmoren/storefront-backend/pkg/enums"
	pkgerrors "github.com/alexmoren/storefront-backend/pkg/errors"
	"github.com/alexmoren/storefront-backend/pkg/logger"
	"github.com/alexmoren/storefront-backend/pkg/types"
)

type orderItemRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

type orderCustomerRequest struct {
	Name  string `json:"name" validate:"omitempty,max=200"`
	Email string `json:"email" validate:"omitempty,email"`
}

type placeOrderRequest struct {
	Items    []orderItemRequest    `json:"items" validate:"required,min=1,dive"`
	Customer *orderCustomerRequest `json:"customer,omitempty"`
}

type orderCustomerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type orderResponse struct {
	ID        int64                 `json:"id"`
	Items     types.LineItems       `json:"items"`
	Customer  orderCustomerResponse `json:"customer"`
	Total     decimal.Decimal       `json:"total"`
	Status    enums.OrderStatus     `json:"status"`
	CreatedAt time.Time             `json:"createdAt"`
}

func toOrderResponse(order *models.Order) orderResponse {
	return orderResponse{
		ID:    order.ID,
		Items: order.Items,
		Customer: orderCustomerResponse{
			Name:  order.CustomerName,
			Email: order.CustomerEmail,
		},
		Total:     order.Total,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
	}
}

// PlaceOrder runs the checkout transaction and returns the recorded order.
func PlaceOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := ordersvc.PlaceOrderInput{
			Items: make([]ordersvc.ItemRequest, 0, len(payload.Items)),
		}
		for _, item := range payload.Items {
			input.Items = append(input.Items, ordersvc.ItemRequest{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}
		if payload.Customer != nil {
			input.Customer = ordersvc.CustomerInput{
				Name:  payload.Customer.Name,
				Email: payload.Customer.Email,
			}
		}

		order, err := svc.PlaceOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, order.ID)
			logg.Info(ctx, "order.placed")
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toOrderResponse(order))
	}
}

// GetOrder returns a single order by id.
func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		id, err := parsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, id)
		}

		order, err := svc.GetOrder(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, toOrderResponse(order))
	}
}

// ListOrders returns recent orders, newest first.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		params := ordersvc.ListParams{}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 1 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			params.Limit = limit
		}

		orders, err := svc.ListOrders(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]orderResponse, 0, len(orders))
		for i := range orders {
			out = append(out, toOrderResponse(&orders[i]))
		}
		responses.WriteSuccess(w, out)
	}
}
