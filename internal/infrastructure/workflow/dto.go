package workflow

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tustockya/transfers/internal/domain/transfer"
)

// transferUnitDTO is the wire shape of a unit as the workflow service
// returns it
type transferUnitDTO struct {
	ID                  int64      `json:"id"`
	ReferenceCode       string     `json:"sneaker_reference_code"`
	Brand               string     `json:"brand"`
	Model               string     `json:"model"`
	Size                string     `json:"size"`
	Quantity            int        `json:"quantity"`
	InventoryType       string     `json:"inventory_type"`
	Purpose             string     `json:"purpose"`
	PickupType          string     `json:"pickup_type"`
	Status              string     `json:"status"`
	SourceLocation      string     `json:"source_location"`
	DestinationLocation string     `json:"destination_location"`
	Requester           string     `json:"requester"`
	Courier             string     `json:"courier,omitempty"`
	EstimatedMinutes    int        `json:"estimated_preparation_time,omitempty"`
	RequestedAt         time.Time  `json:"requested_at"`
	AcceptedAt          *time.Time `json:"accepted_at,omitempty"`
	DispatchedAt        *time.Time `json:"dispatched_at,omitempty"`
	DeliveredAt         *time.Time `json:"delivered_at,omitempty"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	CancelledAt         *time.Time `json:"cancelled_at,omitempty"`
	CancelReason        string     `json:"cancel_reason,omitempty"`
	IsReturn            bool       `json:"is_return"`
	RoleInTransfer      string     `json:"role_in_transfer"`
	Notes               string     `json:"notes,omitempty"`
}

func (d transferUnitDTO) toDomain() transfer.TransferUnit {
	return transfer.TransferUnit{
		ID:                  d.ID,
		ReferenceCode:       d.ReferenceCode,
		Brand:               d.Brand,
		Model:               d.Model,
		Size:                d.Size,
		Quantity:            d.Quantity,
		InventoryType:       transfer.InventoryType(d.InventoryType),
		Purpose:             transfer.Purpose(d.Purpose),
		PickupType:          transfer.PickupType(d.PickupType),
		Status:              transfer.Status(d.Status),
		SourceLocation:      d.SourceLocation,
		DestinationLocation: d.DestinationLocation,
		Requester:           d.Requester,
		Courier:             d.Courier,
		EstimatedMinutes:    d.EstimatedMinutes,
		RequestedAt:         d.RequestedAt,
		AcceptedAt:          d.AcceptedAt,
		DispatchedAt:        d.DispatchedAt,
		DeliveredAt:         d.DeliveredAt,
		CompletedAt:         d.CompletedAt,
		CancelledAt:         d.CancelledAt,
		CancelReason:        d.CancelReason,
		IsReturn:            d.IsReturn,
		RoleInTransfer:      transfer.RoleInTransfer(d.RoleInTransfer),
		Notes:               d.Notes,
	}
}

func toDomainUnits(dtos []transferUnitDTO) []transfer.TransferUnit {
	units := make([]transfer.TransferUnit, 0, len(dtos))
	for _, d := range dtos {
		units = append(units, d.toDomain())
	}
	return units
}

// createTransferRequestDTO is the outgoing payload for a full-unit
// request
type createTransferRequestDTO struct {
	ReferenceCode       string `json:"sneaker_reference_code"`
	Brand               string `json:"brand,omitempty"`
	Model               string `json:"model,omitempty"`
	Size                string `json:"size"`
	Quantity            int    `json:"quantity"`
	Purpose             string `json:"purpose"`
	PickupType          string `json:"pickup_type"`
	SourceLocation      string `json:"source_location"`
	DestinationLocation string `json:"destination_location"`
	Notes               string `json:"notes,omitempty"`
}

// createSingleFootRequestDTO is the outgoing payload for a
// pair-formation leg. The service fixes quantity at 1 for these.
type createSingleFootRequestDTO struct {
	ReferenceCode       string `json:"sneaker_reference_code"`
	Brand               string `json:"brand,omitempty"`
	Model               string `json:"model,omitempty"`
	Size                string `json:"size"`
	FootSide            string `json:"foot_side"`
	Purpose             string `json:"purpose"`
	Quantity            int    `json:"quantity"`
	PickupType          string `json:"pickup_type"`
	SourceLocation      string `json:"source_location"`
	DestinationLocation string `json:"destination_location"`
	Notes               string `json:"notes,omitempty"`
}

type createReturnRequestDTO struct {
	OriginalTransferID int64  `json:"original_transfer_id"`
	Reason             string `json:"reason"`
	QuantityToReturn   int    `json:"quantity_to_return"`
	ProductCondition   string `json:"product_condition"`
	PickupType         string `json:"pickup_type"`
	Notes              string `json:"notes,omitempty"`
}

type cancelRequestDTO struct {
	Reason string `json:"reason"`
}

type confirmReceptionDTO struct {
	Quantity int    `json:"quantity_received"`
	Accepted bool   `json:"accepted"`
	Notes    string `json:"notes,omitempty"`
}

type confirmReturnReceptionDTO struct {
	Quantity  int    `json:"quantity_received"`
	Condition string `json:"product_condition"`
	Notes     string `json:"notes,omitempty"`
}

type sellFromTransferDTO struct {
	Price         decimal.Decimal `json:"price"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
}

type acceptRequestDTO struct {
	TransferRequestID int64 `json:"transfer_request_id"`
	EstimatedMinutes  int   `json:"estimated_preparation_time"`
}

type dispatchRequestDTO struct {
	TransferRequestID int64  `json:"transfer_request_id"`
	DeliveryNotes     string `json:"delivery_notes,omitempty"`
}

type acceptTransportDTO struct {
	EstimatedPickupMinutes int    `json:"estimated_pickup_time"`
	Notes                  string `json:"notes,omitempty"`
}

type courierNotesDTO struct {
	Notes string `json:"notes,omitempty"`
}

type courierDeliveryDTO struct {
	Successful bool   `json:"successful"`
	Notes      string `json:"notes,omitempty"`
}

// createdResponse carries the service-assigned id of a new unit
type createdResponse struct {
	ID int64 `json:"id"`
}

// sourceStockDTO is the availability lookup response
type sourceStockDTO struct {
	PairsQuantity     int `json:"pairs_quantity"`
	LeftFeetQuantity  int `json:"left_feet_quantity"`
	RightFeetQuantity int `json:"right_feet_quantity"`
}

// dashboardDTO is the vendor dashboard response
type dashboardDTO struct {
	TodaySales        decimal.Decimal `json:"today_sales"`
	TodayExpenses     decimal.Decimal `json:"today_expenses"`
	SalesCount        int             `json:"sales_count"`
	PendingReceptions int             `json:"pending_receptions"`
	PendingRequests   int             `json:"pending_requests"`
}

// errorResponse is the structured error body of a non-2xx response
type errorResponse struct {
	Detail string `json:"detail"`
}
