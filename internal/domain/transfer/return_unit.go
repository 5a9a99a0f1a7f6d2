package transfer

import (
	"fmt"
	"strings"
	"time"

	"github.com/tustockya/transfers/internal/domain/shared"
)

// ReturnReason represents why goods are being sent back
type ReturnReason string

const (
	ReasonNoSale         ReturnReason = "no_sale"
	ReasonDamaged        ReturnReason = "damaged"
	ReasonWrongProduct   ReturnReason = "wrong_product"
	ReasonCustomerReturn ReturnReason = "customer_return"
	ReasonOther          ReturnReason = "other"
)

// IsValid checks if the return reason is valid
func (r ReturnReason) IsValid() bool {
	switch r {
	case ReasonNoSale, ReasonDamaged, ReasonWrongProduct, ReasonCustomerReturn, ReasonOther:
		return true
	}
	return false
}

// String returns the string representation of ReturnReason
func (r ReturnReason) String() string {
	return string(r)
}

// ProductCondition describes the state of returned goods
type ProductCondition string

const (
	ConditionGood     ProductCondition = "good"
	ConditionDamaged  ProductCondition = "damaged"
	ConditionUnusable ProductCondition = "unusable"
)

// IsValid checks if the product condition is valid
func (c ProductCondition) IsValid() bool {
	switch c {
	case ConditionGood, ConditionDamaged, ConditionUnusable:
		return true
	}
	return false
}

// String returns the string representation of ProductCondition
func (c ProductCondition) String() string {
	return string(c)
}

// ReturnUnit represents a reversal of a completed transfer. Roles invert
// relative to the original: the original requester sends the goods back,
// and the original source location-keeper is the receiver whose final
// confirmation reverses the destination-side inventory increment.
type ReturnUnit struct {
	TransferUnit
	OriginalTransferID int64 // weak reference, lookup only
	Reason             ReturnReason
	QuantityToReturn   int
	ProductCondition   ProductCondition
}

// ValidateReturnRequest checks the client-side rules for creating a
// return: a valid reason, a note when the reason is "other", and a
// return quantity within the bounds of the original transfer.
func ValidateReturnRequest(reason ReturnReason, quantityToReturn, originalQuantity int, condition ProductCondition, notes string) error {
	if !reason.IsValid() {
		return shared.NewDomainError("INVALID_REASON", fmt.Sprintf("Unknown return reason %q", reason))
	}
	if reason == ReasonOther && strings.TrimSpace(notes) == "" {
		return shared.NewDomainError("NOTE_REQUIRED", "A note is required when the return reason is other")
	}
	if quantityToReturn < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Return quantity must be at least 1")
	}
	if quantityToReturn > originalQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", "Return quantity cannot exceed the original transfer quantity")
	}
	if !condition.IsValid() {
		return shared.NewDomainError("INVALID_CONDITION", fmt.Sprintf("Unknown product condition %q", condition))
	}
	return nil
}

// NewReturnUnit creates a return unit from an already-completed transfer
func NewReturnUnit(id int64, original *TransferUnit, reason ReturnReason, quantityToReturn int, condition ProductCondition, pickup PickupType, notes string) (*ReturnUnit, error) {
	if original == nil {
		return nil, shared.NewDomainError("INVALID_ORIGINAL", "Original transfer is required")
	}
	if original.IsReturn {
		return nil, shared.NewDomainError("INVALID_ORIGINAL", "Cannot create a return from another return")
	}
	if !original.IsCompleted() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot create a return from a transfer in %s status", original.Status))
	}
	if !pickup.IsValid() {
		return nil, shared.NewDomainError("INVALID_PICKUP_TYPE", fmt.Sprintf("Unknown pickup type %q", pickup))
	}
	if err := ValidateReturnRequest(reason, quantityToReturn, original.Quantity, condition, notes); err != nil {
		return nil, err
	}

	return &ReturnUnit{
		TransferUnit: TransferUnit{
			ID:            id,
			ReferenceCode: original.ReferenceCode,
			Brand:         original.Brand,
			Model:         original.Model,
			Size:          original.Size,
			Quantity:      quantityToReturn,
			InventoryType: original.InventoryType,
			Purpose:       PurposeReturn,
			PickupType:    pickup,
			Status:        StatusPending,
			// The return travels in the opposite direction
			SourceLocation:      original.DestinationLocation,
			DestinationLocation: original.SourceLocation,
			RequestedAt:         time.Now(),
			IsReturn:            true,
			RoleInTransfer:      RoleRequester,
			Notes:               notes,
		},
		OriginalTransferID: original.ID,
		Reason:             reason,
		QuantityToReturn:   quantityToReturn,
		ProductCondition:   condition,
	}, nil
}

// DeliverToWarehouse marks the goods as handed back at the original
// source location. Valid only for a vendedor return at accepted status,
// performed by the requester of the return.
func (r *ReturnUnit) DeliverToWarehouse() error {
	if r.PickupType != PickupTypeVendedor {
		return shared.NewDomainError("INVALID_PICKUP_TYPE", "Only vendedor returns are delivered back in person")
	}
	if r.RoleInTransfer != RoleRequester {
		return shared.NewDomainError("FORBIDDEN", "Only the requester of the return can deliver it back")
	}
	if !r.Status.CanTransitionTo(StatusDelivered, r.PickupType) || r.Status != StatusAccepted {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot deliver return in %s status", r.Status))
	}

	now := time.Now()
	r.Status = StatusDelivered
	r.DeliveredAt = &now

	return nil
}

// ConfirmReturnReception is the original source location-keeper's final
// confirmation. The inventory reversal, including undoing a pair split
// when the inventory type is a single foot, is performed by the workflow
// service.
func (r *ReturnUnit) ConfirmReturnReception() error {
	if r.RoleInTransfer != RoleReceiver {
		return shared.NewDomainError("FORBIDDEN", "Only the receiver of the return can confirm its reception")
	}
	return r.ConfirmReception()
}
