package transfer

import (
	"fmt"
	"time"

	"github.com/tustockya/transfers/internal/domain/shared"
)

// Status represents the workflow status of a transfer or return unit
type Status string

const (
	StatusPending         Status = "pending"
	StatusAccepted        Status = "accepted"
	StatusCourierAssigned Status = "courier_assigned"
	StatusInTransit       Status = "in_transit"
	StatusDelivered       Status = "delivered"
	StatusCompleted       Status = "completed"
	StatusCancelled       Status = "cancelled"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusCourierAssigned, StatusInTransit,
		StatusDelivered, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for statuses that accept no further transitions
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
// under the given pickup type. The courier_assigned/in_transit segment
// exists only on the corredor path; the vendedor path collapses to
// pending -> accepted -> delivered -> completed.
func (s Status) CanTransitionTo(target Status, pickup PickupType) bool {
	switch s {
	case StatusPending:
		return target == StatusAccepted || target == StatusCancelled
	case StatusAccepted:
		if pickup == PickupTypeCorredor {
			return target == StatusCourierAssigned
		}
		return target == StatusDelivered
	case StatusCourierAssigned:
		return pickup == PickupTypeCorredor && target == StatusInTransit
	case StatusInTransit:
		return pickup == PickupTypeCorredor && target == StatusDelivered
	case StatusDelivered:
		return target == StatusCompleted
	case StatusCompleted, StatusCancelled:
		return false // Terminal states
	}
	return false
}

// PickupType determines who performs the physical transport leg
type PickupType string

const (
	PickupTypeCorredor PickupType = "corredor"
	PickupTypeVendedor PickupType = "vendedor"
)

// IsValid checks if the pickup type is valid
func (p PickupType) IsValid() bool {
	return p == PickupTypeCorredor || p == PickupTypeVendedor
}

// String returns the string representation of PickupType
func (p PickupType) String() string {
	return string(p)
}

// Purpose represents why a unit is being moved
type Purpose string

const (
	PurposeCliente       Purpose = "cliente"
	PurposeRestock       Purpose = "restock"
	PurposePairFormation Purpose = "pair_formation"
	PurposeReturn        Purpose = "return"
)

// IsValid checks if the purpose is valid
func (p Purpose) IsValid() bool {
	switch p {
	case PurposeCliente, PurposeRestock, PurposePairFormation, PurposeReturn:
		return true
	}
	return false
}

// String returns the string representation of Purpose
func (p Purpose) String() string {
	return string(p)
}

// InventoryType represents the physical shape of the moved stock
type InventoryType string

const (
	InventoryTypePair      InventoryType = "pair"
	InventoryTypeLeftOnly  InventoryType = "left_only"
	InventoryTypeRightOnly InventoryType = "right_only"
)

// IsValid checks if the inventory type is valid
func (t InventoryType) IsValid() bool {
	switch t {
	case InventoryTypePair, InventoryTypeLeftOnly, InventoryTypeRightOnly:
		return true
	}
	return false
}

// String returns the string representation of InventoryType
func (t InventoryType) String() string {
	return string(t)
}

// Priority of a unit, derived from its purpose
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
)

// RoleInTransfer is the per-viewer projection of a unit: whether the
// current session initiated it or is its destination
type RoleInTransfer string

const (
	RoleRequester RoleInTransfer = "requester"
	RoleReceiver  RoleInTransfer = "receiver"
)

// IsValid checks if the role is valid
func (r RoleInTransfer) IsValid() bool {
	return r == RoleRequester || r == RoleReceiver
}

// TransferUnit represents one inventory movement record for a given
// reference/size combination. It is created by a requester, mutated in
// sequence by the source location-keeper, optionally a courier, and
// finally the receiver, and becomes immutable once terminal.
type TransferUnit struct {
	ID                  int64
	ReferenceCode       string
	Brand               string
	Model               string
	Size                string
	Quantity            int
	InventoryType       InventoryType
	Purpose             Purpose
	PickupType          PickupType
	Status              Status
	SourceLocation      string
	DestinationLocation string
	Requester           string
	Courier             string // set only on the corredor path, once assigned
	EstimatedMinutes    int    // preparation estimate supplied on accept
	RequestedAt         time.Time
	AcceptedAt          *time.Time
	DispatchedAt        *time.Time
	DeliveredAt         *time.Time
	CompletedAt         *time.Time
	CancelledAt         *time.Time
	CancelReason        string
	IsReturn            bool
	RoleInTransfer      RoleInTransfer
	Notes               string
}

// NewTransferUnit creates a new transfer unit in pending status
func NewTransferUnit(id int64, referenceCode, size string, quantity int, inventoryType InventoryType, purpose Purpose, pickup PickupType) (*TransferUnit, error) {
	if referenceCode == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference code cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !inventoryType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INVENTORY_TYPE", fmt.Sprintf("Unknown inventory type %q", inventoryType))
	}
	if !purpose.IsValid() {
		return nil, shared.NewDomainError("INVALID_PURPOSE", fmt.Sprintf("Unknown purpose %q", purpose))
	}
	if !pickup.IsValid() {
		return nil, shared.NewDomainError("INVALID_PICKUP_TYPE", fmt.Sprintf("Unknown pickup type %q", pickup))
	}

	return &TransferUnit{
		ID:            id,
		ReferenceCode: referenceCode,
		Size:          size,
		Quantity:      quantity,
		InventoryType: inventoryType,
		Purpose:       purpose,
		PickupType:    pickup,
		Status:        StatusPending,
		RequestedAt:   time.Now(),
	}, nil
}

// Priority derives the unit priority from its purpose
func (u *TransferUnit) Priority() Priority {
	if u.Purpose == PurposeCliente {
		return PriorityHigh
	}
	return PriorityNormal
}

// Accept transitions the unit from pending to accepted.
// The source location-keeper must supply a preparation estimate.
func (u *TransferUnit) Accept(estimatedMinutes int) error {
	if !u.Status.CanTransitionTo(StatusAccepted, u.PickupType) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot accept transfer in %s status", u.Status))
	}
	if estimatedMinutes <= 0 {
		return shared.NewDomainError("INVALID_ESTIMATE", "Estimated preparation time must be positive")
	}

	now := time.Now()
	u.Status = StatusAccepted
	u.EstimatedMinutes = estimatedMinutes
	u.AcceptedAt = &now

	return nil
}

// Cancel cancels the unit. Allowed only while pending.
func (u *TransferUnit) Cancel(reason string) error {
	if !u.Status.CanTransitionTo(StatusCancelled, u.PickupType) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel transfer in %s status", u.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	u.Status = StatusCancelled
	u.CancelledAt = &now
	u.CancelReason = reason

	return nil
}

// AssignCourier transitions the unit from accepted to courier_assigned.
// Only valid on the corredor path.
func (u *TransferUnit) AssignCourier(courier string) error {
	if !u.Status.CanTransitionTo(StatusCourierAssigned, u.PickupType) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot assign courier to %s transfer in %s status", u.PickupType, u.Status))
	}
	if courier == "" {
		return shared.NewDomainError("INVALID_COURIER", "Courier cannot be empty")
	}

	u.Status = StatusCourierAssigned
	u.Courier = courier

	return nil
}

// ConfirmPickup marks physical pickup by the assigned courier,
// transitioning from courier_assigned to in_transit.
func (u *TransferUnit) ConfirmPickup() error {
	if !u.Status.CanTransitionTo(StatusInTransit, u.PickupType) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm pickup in %s status", u.Status))
	}

	now := time.Now()
	u.Status = StatusInTransit
	u.DispatchedAt = &now

	return nil
}

// ConfirmDelivery marks arrival at the destination. On the corredor path
// this follows in_transit; on the vendedor path it follows accepted, once
// the requester has personally collected the goods.
func (u *TransferUnit) ConfirmDelivery() error {
	if !u.Status.CanTransitionTo(StatusDelivered, u.PickupType) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm delivery of %s transfer in %s status", u.PickupType, u.Status))
	}

	now := time.Now()
	u.Status = StatusDelivered
	u.DeliveredAt = &now

	return nil
}

// ConfirmReception is the receiver's final confirmation, transitioning
// from delivered to completed. The destination inventory increment is
// performed by the workflow service, not here.
func (u *TransferUnit) ConfirmReception() error {
	if !u.Status.CanTransitionTo(StatusCompleted, u.PickupType) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm reception in %s status", u.Status))
	}

	now := time.Now()
	u.Status = StatusCompleted
	u.CompletedAt = &now

	return nil
}

// IsPending returns true if the unit is awaiting acceptance
func (u *TransferUnit) IsPending() bool {
	return u.Status == StatusPending
}

// IsCompleted returns true if the unit reached completion
func (u *TransferUnit) IsCompleted() bool {
	return u.Status == StatusCompleted
}

// IsCancelled returns true if the unit was cancelled
func (u *TransferUnit) IsCancelled() bool {
	return u.Status == StatusCancelled
}

// IsTerminal returns true once the unit accepts no further transitions
func (u *TransferUnit) IsTerminal() bool {
	return u.Status.IsTerminal()
}
