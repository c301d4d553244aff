package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/kidcycle/kidcycle-backend/api/responses"
	"github.com/kidcycle/kidcycle-backend/api/validators"
	product "github.com/kidcycle/kidcycle-backend/internal/products"
	"github.com/kidcycle/kidcycle-backend/pkg/enums"
	pkgerrors "github.com/kidcycle/kidcycle-backend/pkg/errors"
	"github.com/kidcycle/kidcycle-backend/pkg/logger"
)

type productStatusPayload struct {
	Status          string     `json:"status" validate:"required"`
	PickupAgentID   *uuid.UUID `json:"pickup_agent_id,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
}

type bulkProductStatusPayload struct {
	IDs             []uuid.UUID `json:"ids" validate:"required,min=1"`
	Status          string      `json:"status" validate:"required"`
	PickupAgentID   *uuid.UUID  `json:"pickup_agent_id,omitempty"`
	RejectionReason *string     `json:"rejection_reason,omitempty"`
}

func (p productStatusPayload) toInput() (product.UpdateStatusInput, error) {
	status, err := enums.ParseProductStatus(strings.TrimSpace(p.Status))
	if err != nil {
		return product.UpdateStatusInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
	}
	return product.UpdateStatusInput{
		Status:          status,
		PickupAgentID:   p.PickupAgentID,
		RejectionReason: p.RejectionReason,
	}, nil
}

// AdminProductStatusUpdate drives one listing through the approval workflow.
// Delivery partners share this endpoint for their pickup and handoff steps.
func AdminProductStatusUpdate(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := productActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productStatusPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateStatus(r.Context(), actor, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// AdminProductBulkStatus applies one transition to many listings, reporting
// per-item outcomes instead of aborting on the first failure.
func AdminProductBulkStatus(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := productActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload bulkProductStatusPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.BulkUpdateStatus(r.Context(), actor, payload.IDs, input)
		if err != nil && len(result.Updated) == 0 && result.Failed == 0 {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		body := map[string]any{"updated": result.Updated, "failed": result.Failed}
		if err != nil {
			body["errors"] = strings.Split(err.Error(), "; ")
		}
		responses.WriteSuccess(w, body)
	}
}

func (p bulkProductStatusPayload) toInput() (product.UpdateStatusInput, error) {
	return productStatusPayload{
		Status:          p.Status,
		PickupAgentID:   p.PickupAgentID,
		RejectionReason: p.RejectionReason,
	}.toInput()
}

// AdminProductList serves the back office product table.
func AdminProductList(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := productFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		q := r.URL.Query()
		if raw := strings.TrimSpace(q.Get("status")); raw != "" {
			status, perr := enums.ParseProductStatus(raw)
			if perr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, perr, "invalid status"))
				return
			}
			filters.Status = &status
		}

		input := product.AdminListInput{
			Filters:    filters,
			Sort:       productSort(r),
			Pagination: params,
		}
		if raw := strings.TrimSpace(q.Get("unapproved")); raw != "" {
			unapproved, perr := strconv.ParseBool(raw)
			if perr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unapproved must be a boolean"))
				return
			}
			input.Unapproved = unapproved
		}
		if raw := strings.TrimSpace(q.Get("seller_id")); raw != "" {
			sellerID, perr := uuid.Parse(raw)
			if perr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "seller_id must be a uuid"))
				return
			}
			input.SellerID = &sellerID
		}

		result, err := svc.AdminList(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminUnapprovedProducts lists listings still awaiting approval.
func AdminUnapprovedProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListUnapproved(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
