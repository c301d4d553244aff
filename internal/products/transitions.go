package product

import (
	"fmt"

	"github.com/kidcycle/kidcycle-backend/pkg/enums"
	pkgerrors "github.com/kidcycle/kidcycle-backend/pkg/errors"
)

type transitionRule struct {
	from  []enums.ProductStatus
	roles []enums.UserRole
}

// statusTransitions is the workflow table. Pending is the birth state and
// Sold out is only ever set by order placement, so neither appears as a
// target here.
var statusTransitions = map[enums.ProductStatus]transitionRule{
	enums.ProductStatusReadyToPick: {
		from:  []enums.ProductStatus{enums.ProductStatusPending},
		roles: []enums.UserRole{enums.UserRoleAdmin},
	},
	enums.ProductStatusPicked: {
		from:  []enums.ProductStatus{enums.ProductStatusReadyToPick},
		roles: []enums.UserRole{enums.UserRoleAdmin, enums.UserRoleDeliveryBoy},
	},
	enums.ProductStatusCompleted: {
		from:  []enums.ProductStatus{enums.ProductStatusPicked},
		roles: []enums.UserRole{enums.UserRoleAdmin, enums.UserRoleDeliveryBoy},
	},
	enums.ProductStatusRejected: {
		from:  []enums.ProductStatus{enums.ProductStatusPending},
		roles: []enums.UserRole{enums.UserRoleAdmin},
	},
}

// checkTransition validates that the actor role may move a listing from its
// current status to the target status.
func checkTransition(role enums.UserRole, from, to enums.ProductStatus) error {
	rule, ok := statusTransitions[to]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("status %q cannot be set directly", to))
	}

	allowedRole := false
	for _, candidate := range rule.roles {
		if candidate == role {
			allowedRole = true
			break
		}
	}
	if !allowedRole {
		return pkgerrors.New(pkgerrors.CodeForbidden, fmt.Sprintf("role %q may not set status %q", role, to))
	}

	for _, candidate := range rule.from {
		if candidate == from {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("listing is %q and cannot move to %q", from, to))
}
