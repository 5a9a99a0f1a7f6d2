package transfer

import (
	"context"

	"github.com/shopspring/decimal"
)

// TransferRequestSpec is the outgoing payload for a full-unit request
type TransferRequestSpec struct {
	ReferenceCode       string
	Brand               string
	Model               string
	Size                string
	Quantity            int
	Purpose             Purpose
	PickupType          PickupType
	SourceLocation      string
	DestinationLocation string
	Notes               string
}

// SingleFootRequestSpec is the outgoing payload for a pair-formation
// request. The workflow service fixes quantity at 1 and purpose at
// pair_formation for these.
type SingleFootRequestSpec struct {
	ReferenceCode       string
	Brand               string
	Model               string
	Size                string
	FootSide            FootSide
	PickupType          PickupType
	SourceLocation      string
	DestinationLocation string
	Notes               string
}

// ReturnRequestSpec is the outgoing payload for a return request
type ReturnRequestSpec struct {
	OriginalTransferID int64
	Reason             ReturnReason
	QuantityToReturn   int
	ProductCondition   ProductCondition
	PickupType         PickupType
	Notes              string
}

// ReceptionConfirmation carries the receiver's final confirmation
type ReceptionConfirmation struct {
	Quantity int
	Accepted bool
	Notes    string
}

// ReturnReceptionConfirmation carries the location-keeper's confirmation
// of received return goods
type ReturnReceptionConfirmation struct {
	Quantity  int
	Condition ProductCondition
	Notes     string
}

// SaleData records a sale made directly from received transfer stock
type SaleData struct {
	Price         decimal.Decimal
	PaymentMethod string
	Notes         string
}

// DashboardSummary is the vendor's daily activity rollup
type DashboardSummary struct {
	TodaySales        decimal.Decimal
	TodayExpenses     decimal.Decimal
	SalesCount        int
	PendingReceptions int
	PendingRequests   int
}

// Service is the port to the external workflow service that owns all
// persistence. Every mutating call is a single awaited round trip; the
// engine never advances local state on its own, it adopts changes via
// the list operations on the next refresh.
type Service interface {
	// Requester operations
	CreateTransferRequest(ctx context.Context, spec TransferRequestSpec) (int64, error)
	CreateSingleFootRequest(ctx context.Context, spec SingleFootRequestSpec) (int64, error)
	CancelTransfer(ctx context.Context, id int64, reason string) error
	ConfirmReception(ctx context.Context, id int64, conf ReceptionConfirmation) error
	CreateReturnRequest(ctx context.Context, spec ReturnRequestSpec) (int64, error)
	DeliverReturnToWarehouse(ctx context.Context, id int64, notes string) error
	ConfirmReturnReception(ctx context.Context, id int64, conf ReturnReceptionConfirmation) error
	SellFromCompletedTransfer(ctx context.Context, id int64, sale SaleData) error
	LookupSourceStock(ctx context.Context, referenceCode, size string) (SourceStock, error)

	// Read collections
	ListPendingTransfers(ctx context.Context) ([]TransferUnit, error)
	ListCompletedTransfers(ctx context.Context) ([]TransferUnit, error)
	ListHistoryToday(ctx context.Context) ([]TransferUnit, error)
	ListIncomingRequests(ctx context.Context) ([]TransferUnit, error)

	// Peer-as-source operations on incoming requests
	AcceptIncomingTransfer(ctx context.Context, id int64, estimatedMinutes int) error
	DispatchIncomingTransfer(ctx context.Context, id int64, deliveryNotes string) error

	// Courier operations
	ListAvailableTransports(ctx context.Context) ([]TransferUnit, error)
	AcceptTransport(ctx context.Context, id int64, estimatedPickupMinutes int, notes string) error
	ConfirmPickup(ctx context.Context, id int64, notes string) error
	ConfirmCourierDelivery(ctx context.Context, id int64, successful bool, notes string) error
	ListAssignedTransports(ctx context.Context) ([]TransferUnit, error)

	// Dashboard
	VendorDashboard(ctx context.Context) (*DashboardSummary, error)
}
