package transfer

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tustockya/transfers/internal/domain/transfer"
)

// ==================== Request DTOs ====================

// CreateTransferInput is a request for a full inventory unit
type CreateTransferInput struct {
	ReferenceCode       string              `json:"sneaker_reference_code" validate:"required,min=1,max=50"`
	Brand               string              `json:"brand" validate:"max=100"`
	Model               string              `json:"model" validate:"max=100"`
	Size                string              `json:"size" validate:"required,min=1,max=10"`
	Quantity            int                 `json:"quantity" validate:"required,min=1"`
	Purpose             transfer.Purpose    `json:"purpose" validate:"required"`
	PickupType          transfer.PickupType `json:"pickup_type" validate:"required"`
	SourceLocation      string              `json:"source_location" validate:"required"`
	DestinationLocation string              `json:"destination_location" validate:"required"`
	Notes               string              `json:"notes" validate:"max=500"`
}

// CreateSingleFootInput is a pair-formation request for one foot
type CreateSingleFootInput struct {
	ReferenceCode       string               `json:"sneaker_reference_code" validate:"required,min=1,max=50"`
	Brand               string               `json:"brand" validate:"max=100"`
	Model               string               `json:"model" validate:"max=100"`
	Size                string               `json:"size" validate:"required,min=1,max=10"`
	Kind                transfer.RequestKind `json:"request_kind" validate:"required"`
	PickupType          transfer.PickupType  `json:"pickup_type" validate:"required"`
	SourceLocation      string               `json:"source_location" validate:"required"`
	DestinationLocation string               `json:"destination_location" validate:"required"`
	Notes               string               `json:"notes" validate:"max=500"`
}

// CancelTransferInput cancels a pending transfer
type CancelTransferInput struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}

// ConfirmReceptionInput is the receiver's final confirmation
type ConfirmReceptionInput struct {
	Quantity int    `json:"quantity_received" validate:"required,min=1"`
	Accepted bool   `json:"accepted"`
	Notes    string `json:"notes" validate:"max=500"`
}

// CreateReturnInput requests a reversal of a completed transfer
type CreateReturnInput struct {
	OriginalTransferID int64                     `json:"original_transfer_id" validate:"required"`
	Reason             transfer.ReturnReason     `json:"reason" validate:"required"`
	QuantityToReturn   int                       `json:"quantity_to_return" validate:"required,min=1"`
	ProductCondition   transfer.ProductCondition `json:"product_condition" validate:"required"`
	PickupType         transfer.PickupType       `json:"pickup_type" validate:"required"`
	Notes              string                    `json:"notes" validate:"max=500"`
}

// ConfirmReturnReceptionInput is the location-keeper's confirmation of
// received return goods
type ConfirmReturnReceptionInput struct {
	Quantity  int                       `json:"quantity_received" validate:"required,min=1"`
	Condition transfer.ProductCondition `json:"product_condition" validate:"required"`
	Notes     string                    `json:"notes" validate:"max=500"`
}

// SellFromTransferInput records a sale straight from received stock
type SellFromTransferInput struct {
	Price         decimal.Decimal `json:"price" validate:"required"`
	PaymentMethod string          `json:"payment_method" validate:"required,min=1,max=50"`
	Notes         string          `json:"notes" validate:"max=500"`
}

// AcceptIncomingInput accepts an incoming request as the source
type AcceptIncomingInput struct {
	EstimatedMinutes int `json:"estimated_preparation_time" validate:"required,min=1"`
}

// DispatchIncomingInput hands an accepted request over for transport
type DispatchIncomingInput struct {
	DeliveryNotes string `json:"delivery_notes" validate:"max=500"`
}

// AcceptTransportInput claims an available transport as a courier
type AcceptTransportInput struct {
	EstimatedPickupMinutes int    `json:"estimated_pickup_time" validate:"required,min=1"`
	Notes                  string `json:"notes" validate:"max=500"`
}

// CourierDeliveryInput confirms the courier's delivery outcome
type CourierDeliveryInput struct {
	Successful bool   `json:"successful"`
	Notes      string `json:"notes" validate:"max=500"`
}

// ==================== View DTOs ====================

// UnitView is a unit enriched with its projections
type UnitView struct {
	Unit       transfer.TransferUnit `json:"unit"`
	Percentage int                   `json:"percentage"`
	Message    string                `json:"message"`
	Severity   transfer.Severity     `json:"severity"`
	Actions    []transfer.Action     `json:"actions"`
}

// NewUnitView projects a unit for display
func NewUnitView(u transfer.TransferUnit) UnitView {
	p := transfer.UnitProgress(&u)
	return UnitView{
		Unit:       u,
		Percentage: p.Percentage,
		Message:    p.Message,
		Severity:   p.Severity(),
		Actions:    transfer.PermittedUnitActions(&u),
	}
}

// GroupView is a reference-code group for display
type GroupView struct {
	ReferenceCode string                `json:"reference_code"`
	Brand         string                `json:"brand"`
	Model         string                `json:"model"`
	TotalQuantity int                   `json:"total_quantity"`
	StatusSummary string                `json:"status_summary"`
	Rollup        []transfer.SizeRollup `json:"rollup,omitempty"`
	Units         []UnitView            `json:"units"`
}

// NewGroupViews projects grouped units for display
func NewGroupViews(groups []transfer.Group) []GroupView {
	views := make([]GroupView, 0, len(groups))
	for _, g := range groups {
		gv := GroupView{
			ReferenceCode: g.ReferenceCode,
			Brand:         g.Brand,
			Model:         g.Model,
			TotalQuantity: g.TotalQuantity,
			StatusSummary: g.StatusSummary(),
			Rollup:        g.Rollup,
		}
		for _, u := range g.Units {
			gv.Units = append(gv.Units, NewUnitView(u))
		}
		views = append(views, gv)
	}
	return views
}

// AvailabilityView exposes source stock availability to the requester
type AvailabilityView struct {
	ReferenceCode string                `json:"sneaker_reference_code"`
	Size          string                `json:"size"`
	Availability  transfer.Availability `json:"availability"`
	CheckedAt     time.Time             `json:"checked_at"`
}

// toTransferSpec converts the input to the outgoing service payload
func (in CreateTransferInput) toTransferSpec() transfer.TransferRequestSpec {
	return transfer.TransferRequestSpec{
		ReferenceCode:       in.ReferenceCode,
		Brand:               in.Brand,
		Model:               in.Model,
		Size:                in.Size,
		Quantity:            in.Quantity,
		Purpose:             in.Purpose,
		PickupType:          in.PickupType,
		SourceLocation:      in.SourceLocation,
		DestinationLocation: in.DestinationLocation,
		Notes:               in.Notes,
	}
}

// toReturnSpec converts the input to the outgoing service payload
func (in CreateReturnInput) toReturnSpec() transfer.ReturnRequestSpec {
	return transfer.ReturnRequestSpec{
		OriginalTransferID: in.OriginalTransferID,
		Reason:             in.Reason,
		QuantityToReturn:   in.QuantityToReturn,
		ProductCondition:   in.ProductCondition,
		PickupType:         in.PickupType,
		Notes:              in.Notes,
	}
}
