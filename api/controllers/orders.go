package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kidcycle/kidcycle-backend/api/responses"
	"github.com/kidcycle/kidcycle-backend/api/validators"
	"github.com/kidcycle/kidcycle-backend/internal/orders"
	"github.com/kidcycle/kidcycle-backend/pkg/enums"
	pkgerrors "github.com/kidcycle/kidcycle-backend/pkg/errors"
	"github.com/kidcycle/kidcycle-backend/pkg/logger"
)

type placeOrderPayload struct {
	ProductIDs      []uuid.UUID `json:"product_ids" validate:"required,min=1"`
	PaymentID       string      `json:"payment_id" validate:"required"`
	PaymentStatus   string      `json:"payment_status" validate:"required"`
	ShippingAddress string      `json:"shipping_address" validate:"required"`
}

type deliveryStatusPayload struct {
	Status          string     `json:"status" validate:"required"`
	DeliveryAgentID *uuid.UUID `json:"delivery_agent_id,omitempty"`
	FailureReason   *string    `json:"failure_reason,omitempty"`
}

// OrderPlace converts the buyer's cart selection into an order.
func OrderPlace(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload placeOrderPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		paymentStatus, err := enums.ParsePaymentStatus(strings.TrimSpace(payload.PaymentStatus))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status"))
			return
		}

		dto, err := svc.PlaceOrder(r.Context(), orders.PlaceOrderInput{
			BuyerID:         buyerID,
			ProductIDs:      payload.ProductIDs,
			PaymentID:       payload.PaymentID,
			PaymentStatus:   paymentStatus,
			ShippingAddress: payload.ShippingAddress,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// OrderMine returns the buyer's own order history.
func OrderMine(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListBuyerOrders(r.Context(), buyerID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// OrderGet returns one order, visible to its buyer, admins, and the
// assigned delivery partner.
func OrderGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := orderActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetOrder(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// OrderDeliveryStatusUpdate moves an order through the delivery workflow.
func OrderDeliveryStatusUpdate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := orderActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload deliveryStatusPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseDeliveryStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery status"))
			return
		}

		dto, err := svc.UpdateDeliveryStatus(r.Context(), actor, id, orders.UpdateDeliveryInput{
			Status:          status,
			DeliveryAgentID: payload.DeliveryAgentID,
			FailureReason:   payload.FailureReason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// AdminOrderList serves the back office order table with aggregate revenue.
func AdminOrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := orderFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AdminList(r.Context(), orders.AdminListInput{
			Filters:    filters,
			Sort:       orderSort(r),
			Pagination: params,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func orderActor(r *http.Request) (orders.Actor, error) {
	id, err := actorID(r)
	if err != nil {
		return orders.Actor{}, err
	}
	role, err := actorRole(r)
	if err != nil {
		return orders.Actor{}, err
	}
	return orders.Actor{UserID: id, Role: role}, nil
}

func orderSort(r *http.Request) orders.OrderSort {
	return orders.OrderSort{
		Field:      strings.TrimSpace(r.URL.Query().Get("sort")),
		Descending: strings.EqualFold(strings.TrimSpace(r.URL.Query().Get("order")), "desc"),
	}
}

func orderFilters(r *http.Request) (orders.OrderListFilters, error) {
	q := r.URL.Query()
	var filters orders.OrderListFilters

	if raw := strings.TrimSpace(q.Get("delivery_status")); raw != "" {
		status, err := enums.ParseDeliveryStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery_status")
		}
		filters.DeliveryStatus = &status
	}
	if raw := strings.TrimSpace(q.Get("payment_status")); raw != "" {
		status, err := enums.ParsePaymentStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment_status")
		}
		filters.PaymentStatus = &status
	}
	if raw := strings.TrimSpace(q.Get("buyer_id")); raw != "" {
		buyerID, err := uuid.Parse(raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "buyer_id must be a uuid")
		}
		filters.BuyerID = &buyerID
	}
	if raw := strings.TrimSpace(q.Get("placed_after")); raw != "" {
		after, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "placed_after must be RFC3339")
		}
		filters.PlacedAfter = &after
	}
	if raw := strings.TrimSpace(q.Get("placed_before")); raw != "" {
		before, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "placed_before must be RFC3339")
		}
		filters.PlacedBefore = &before
	}
	filters.Search = strings.TrimSpace(q.Get("search"))

	return filters, nil
}
