package transfer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tustockya/transfers/internal/domain/shared"
	"github.com/tustockya/transfers/internal/domain/transfer"
)

// Action keys for the per-action busy locks
const (
	actionCreateTransfer         = "create_transfer"
	actionCreateSingleFoot       = "create_single_foot"
	actionCancelTransfer         = "cancel_transfer"
	actionConfirmReception       = "confirm_reception"
	actionCreateReturn           = "create_return"
	actionDeliverReturn          = "deliver_return"
	actionConfirmReturnReception = "confirm_return_reception"
	actionSellFromTransfer       = "sell_from_transfer"
	actionAcceptIncoming         = "accept_incoming"
	actionDispatchIncoming       = "dispatch_incoming"
	actionAcceptTransport        = "accept_transport"
	actionConfirmPickup          = "confirm_pickup"
	actionCourierDelivery        = "courier_delivery"
)

const successNotificationAge = 5 * time.Second

// ActionFailure is a retained mutating-action failure. It stays until
// explicitly dismissed, since it represents an intentional action the
// user must consciously retry.
type ActionFailure struct {
	ID        uuid.UUID `json:"id"`
	Action    string    `json:"action"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Engine coordinates the transfer workflow for one client session: it
// owns the view snapshot, validates and submits actions against the
// workflow service, and derives notifications from observed changes.
// It never advances unit state locally; authoritative state is adopted
// only through RefreshAll.
type Engine struct {
	svc    transfer.Service
	logger *zap.Logger

	snapshot   atomic.Pointer[Snapshot]
	version    atomic.Int64
	refreshing atomic.Bool

	busyMu sync.Mutex
	busy   map[string]bool

	feed notificationFeed

	failMu   sync.Mutex
	failures []ActionFailure
}

// NewEngine creates an engine over the given workflow service
func NewEngine(svc transfer.Service, logger *zap.Logger) *Engine {
	e := &Engine{
		svc:    svc,
		logger: logger,
		busy:   make(map[string]bool),
	}
	e.snapshot.Store(emptySnapshot())
	return e
}

// Snapshot returns the current view. The returned snapshot is immutable
// and safe to read without coordination.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// RefreshAll reloads every collection from the workflow service and
// atomically swaps in a new snapshot. It is idempotent and guarded
// against re-entry: overlapping calls return immediately without
// fetching.
func (e *Engine) RefreshAll(ctx context.Context) error {
	if !e.refreshing.CompareAndSwap(false, true) {
		e.logger.Debug("refresh already in flight, skipping")
		return nil
	}
	defer e.refreshing.Store(false)

	old := e.snapshot.Load()
	firstLoad := old.Version == 0

	next := &Snapshot{
		Version: e.version.Add(1),
		TakenAt: time.Now(),
	}

	type fetch struct {
		name string
		dst  *[]transfer.TransferUnit
		call func(context.Context) ([]transfer.TransferUnit, error)
	}
	fetches := []fetch{
		{"pending", &next.Pending, e.svc.ListPendingTransfers},
		{"completed", &next.Completed, e.svc.ListCompletedTransfers},
		{"history_today", &next.HistoryToday, e.svc.ListHistoryToday},
		{"incoming", &next.Incoming, e.svc.ListIncomingRequests},
		{"available_transports", &next.AvailableTransports, e.svc.ListAvailableTransports},
		{"assigned_transports", &next.AssignedTransports, e.svc.ListAssignedTransports},
	}

	for _, f := range fetches {
		units, err := f.call(ctx)
		if err != nil {
			if !firstLoad {
				// Keep the previous complete snapshot rather than
				// publishing a partial one
				e.version.Add(-1)
				return fmt.Errorf("refresh %s: %w", f.name, err)
			}
			// Initial-load failures degrade to empty collections
			e.logger.Warn("initial load failed, starting empty",
				zap.String("collection", f.name), zap.Error(err))
			continue
		}
		*f.dst = units
	}

	dashboard, err := e.svc.VendorDashboard(ctx)
	if err != nil {
		e.logger.Warn("dashboard load failed", zap.Error(err))
		dashboard = old.Dashboard
	}
	next.Dashboard = dashboard

	for _, n := range diffSnapshots(old, next) {
		e.feed.push(n)
	}
	e.feed.expireSuccesses(successNotificationAge, time.Now())

	e.snapshot.Store(next)
	e.logger.Debug("snapshot refreshed",
		zap.Int64("version", next.Version),
		zap.Int("pending", len(next.Pending)),
		zap.Int("incoming", len(next.Incoming)))
	return nil
}

// acquire takes the busy lock for an action key. A second submission of
// the same action while one is outstanding is rejected.
func (e *Engine) acquire(action string) error {
	e.busyMu.Lock()
	defer e.busyMu.Unlock()
	if e.busy[action] {
		return shared.ErrActionInFlight
	}
	e.busy[action] = true
	return nil
}

func (e *Engine) release(action string) {
	e.busyMu.Lock()
	defer e.busyMu.Unlock()
	delete(e.busy, action)
}

// Busy reports whether an action is currently outstanding
func (e *Engine) Busy(action string) bool {
	e.busyMu.Lock()
	defer e.busyMu.Unlock()
	return e.busy[action]
}

// submit runs one mutating round trip under the action's busy lock.
// Failures are retained for explicit dismissal and returned to the
// caller; on success the view is reloaded so the authoritative state is
// adopted rather than patched in.
func (e *Engine) submit(ctx context.Context, action string, call func(context.Context) error) error {
	if err := e.acquire(action); err != nil {
		return err
	}
	defer e.release(action)

	if err := call(ctx); err != nil {
		e.recordFailure(action, err)
		return err
	}

	if err := e.RefreshAll(ctx); err != nil {
		e.logger.Warn("refresh after action failed", zap.String("action", action), zap.Error(err))
	}
	return nil
}

func (e *Engine) recordFailure(action string, err error) {
	message := err.Error()
	var netErr *transfer.NetworkError
	if errors.As(err, &netErr) {
		message = "Could not reach the transfer service. Check your connection and try again."
	}

	e.failMu.Lock()
	e.failures = append(e.failures, ActionFailure{
		ID:        uuid.New(),
		Action:    action,
		Message:   message,
		Timestamp: time.Now(),
	})
	e.failMu.Unlock()

	e.logger.Error("action failed", zap.String("action", action), zap.Error(err))
}

// Failures lists retained action failures, oldest first
func (e *Engine) Failures() []ActionFailure {
	e.failMu.Lock()
	defer e.failMu.Unlock()
	out := make([]ActionFailure, len(e.failures))
	copy(out, e.failures)
	return out
}

// DismissFailure acknowledges one retained failure
func (e *Engine) DismissFailure(id uuid.UUID) bool {
	e.failMu.Lock()
	defer e.failMu.Unlock()
	for i, f := range e.failures {
		if f.ID == id {
			e.failures = append(e.failures[:i], e.failures[i+1:]...)
			return true
		}
	}
	return false
}

// Notifications lists the recent-activity feed, newest first
func (e *Engine) Notifications() []Notification {
	return e.feed.list()
}

// DismissNotification removes one feed entry
func (e *Engine) DismissNotification(id uuid.UUID) bool {
	return e.feed.dismiss(id)
}

// ==================== Requester actions ====================

// CreateTransferRequest validates and submits a full-unit request
func (e *Engine) CreateTransferRequest(ctx context.Context, in CreateTransferInput) (int64, error) {
	if err := validateTransferInput(in); err != nil {
		return 0, err
	}
	var id int64
	err := e.submit(ctx, actionCreateTransfer, func(ctx context.Context) error {
		created, err := e.svc.CreateTransferRequest(ctx, in.toTransferSpec())
		if err != nil {
			return err
		}
		id = created
		return nil
	})
	return id, err
}

// CheckAvailability looks up source stock and exposes the availability
// flags the requester chooses a request kind from
func (e *Engine) CheckAvailability(ctx context.Context, referenceCode, size string) (*AvailabilityView, error) {
	stock, err := e.svc.LookupSourceStock(ctx, referenceCode, size)
	if err != nil {
		return nil, err
	}
	return &AvailabilityView{
		ReferenceCode: referenceCode,
		Size:          size,
		Availability:  stock.Availability(),
		CheckedAt:     time.Now(),
	}, nil
}

// CreateSingleFootRequest resolves a pair-formation request against the
// source stock and submits it. Single-foot legs always move quantity 1.
func (e *Engine) CreateSingleFootRequest(ctx context.Context, in CreateSingleFootInput) (int64, error) {
	if err := validateSingleFootInput(in); err != nil {
		return 0, err
	}

	stock, err := e.svc.LookupSourceStock(ctx, in.ReferenceCode, in.Size)
	if err != nil {
		return 0, err
	}
	resolution, err := transfer.Resolve(in.Kind, stock)
	if err != nil {
		return 0, err
	}

	var id int64
	submitErr := e.submit(ctx, actionCreateSingleFoot, func(ctx context.Context) error {
		if resolution.Purpose != transfer.PurposePairFormation {
			// Full-pair kinds go through the regular request path
			created, err := e.svc.CreateTransferRequest(ctx, transfer.TransferRequestSpec{
				ReferenceCode:       in.ReferenceCode,
				Brand:               in.Brand,
				Model:               in.Model,
				Size:                in.Size,
				Quantity:            resolution.Quantity,
				Purpose:             resolution.Purpose,
				PickupType:          in.PickupType,
				SourceLocation:      in.SourceLocation,
				DestinationLocation: in.DestinationLocation,
				Notes:               in.Notes,
			})
			if err != nil {
				return err
			}
			id = created
			return nil
		}

		created, err := e.svc.CreateSingleFootRequest(ctx, transfer.SingleFootRequestSpec{
			ReferenceCode:       in.ReferenceCode,
			Brand:               in.Brand,
			Model:               in.Model,
			Size:                in.Size,
			FootSide:            in.Kind.FootSide(),
			PickupType:          in.PickupType,
			SourceLocation:      in.SourceLocation,
			DestinationLocation: in.DestinationLocation,
			Notes:               in.Notes,
		})
		if err != nil {
			return err
		}
		id = created
		return nil
	})
	return id, submitErr
}

// CancelTransfer cancels a pending transfer
func (e *Engine) CancelTransfer(ctx context.Context, id int64, in CancelTransferInput) error {
	if err := checkStruct(in); err != nil {
		return err
	}
	return e.submit(ctx, actionCancelTransfer, func(ctx context.Context) error {
		return e.svc.CancelTransfer(ctx, id, in.Reason)
	})
}

// ConfirmReception confirms final reception of a delivered transfer
func (e *Engine) ConfirmReception(ctx context.Context, id int64, in ConfirmReceptionInput) error {
	if err := checkStruct(in); err != nil {
		return err
	}
	return e.submit(ctx, actionConfirmReception, func(ctx context.Context) error {
		return e.svc.ConfirmReception(ctx, id, transfer.ReceptionConfirmation{
			Quantity: in.Quantity,
			Accepted: in.Accepted,
			Notes:    in.Notes,
		})
	})
}

// CreateReturnRequest validates a return against its completed original
// and submits it
func (e *Engine) CreateReturnRequest(ctx context.Context, in CreateReturnInput) (int64, error) {
	original := e.Snapshot().FindCompleted(in.OriginalTransferID)
	if err := validateReturnInput(in, original); err != nil {
		return 0, err
	}
	var id int64
	err := e.submit(ctx, actionCreateReturn, func(ctx context.Context) error {
		created, err := e.svc.CreateReturnRequest(ctx, in.toReturnSpec())
		if err != nil {
			return err
		}
		id = created
		return nil
	})
	return id, err
}

// DeliverReturnToWarehouse marks a vendedor return as handed back
func (e *Engine) DeliverReturnToWarehouse(ctx context.Context, id int64, notes string) error {
	return e.submit(ctx, actionDeliverReturn, func(ctx context.Context) error {
		return e.svc.DeliverReturnToWarehouse(ctx, id, notes)
	})
}

// ConfirmReturnReception confirms received return goods
func (e *Engine) ConfirmReturnReception(ctx context.Context, id int64, in ConfirmReturnReceptionInput) error {
	if err := checkStruct(in); err != nil {
		return err
	}
	if !in.Condition.IsValid() {
		return ValidationErrors{{Field: "product_condition", Message: "must be good, damaged or unusable"}}
	}
	return e.submit(ctx, actionConfirmReturnReception, func(ctx context.Context) error {
		return e.svc.ConfirmReturnReception(ctx, id, transfer.ReturnReceptionConfirmation{
			Quantity:  in.Quantity,
			Condition: in.Condition,
			Notes:     in.Notes,
		})
	})
}

// SellFromCompletedTransfer records a sale straight from received stock
func (e *Engine) SellFromCompletedTransfer(ctx context.Context, id int64, in SellFromTransferInput) error {
	if err := checkStruct(in); err != nil {
		return err
	}
	if e.Snapshot().FindCompleted(id) == nil {
		return ValidationErrors{{Field: "id", Message: "no completed transfer with this id"}}
	}
	return e.submit(ctx, actionSellFromTransfer, func(ctx context.Context) error {
		return e.svc.SellFromCompletedTransfer(ctx, id, transfer.SaleData{
			Price:         in.Price,
			PaymentMethod: in.PaymentMethod,
			Notes:         in.Notes,
		})
	})
}

// ==================== Peer-as-source actions ====================

// AcceptIncomingTransfer accepts an incoming request with a preparation
// estimate
func (e *Engine) AcceptIncomingTransfer(ctx context.Context, id int64, in AcceptIncomingInput) error {
	if err := checkStruct(in); err != nil {
		return err
	}
	return e.submit(ctx, actionAcceptIncoming, func(ctx context.Context) error {
		return e.svc.AcceptIncomingTransfer(ctx, id, in.EstimatedMinutes)
	})
}

// DispatchIncomingTransfer hands an accepted request over for transport
func (e *Engine) DispatchIncomingTransfer(ctx context.Context, id int64, in DispatchIncomingInput) error {
	if err := checkStruct(in); err != nil {
		return err
	}
	return e.submit(ctx, actionDispatchIncoming, func(ctx context.Context) error {
		return e.svc.DispatchIncomingTransfer(ctx, id, in.DeliveryNotes)
	})
}

// ==================== Courier actions ====================

// AcceptTransport claims an available transport
func (e *Engine) AcceptTransport(ctx context.Context, id int64, in AcceptTransportInput) error {
	if err := checkStruct(in); err != nil {
		return err
	}
	return e.submit(ctx, actionAcceptTransport, func(ctx context.Context) error {
		return e.svc.AcceptTransport(ctx, id, in.EstimatedPickupMinutes, in.Notes)
	})
}

// ConfirmPickup confirms physical pickup at the source
func (e *Engine) ConfirmPickup(ctx context.Context, id int64, notes string) error {
	return e.submit(ctx, actionConfirmPickup, func(ctx context.Context) error {
		return e.svc.ConfirmPickup(ctx, id, notes)
	})
}

// ConfirmCourierDelivery confirms the delivery outcome at the destination
func (e *Engine) ConfirmCourierDelivery(ctx context.Context, id int64, in CourierDeliveryInput) error {
	if err := checkStruct(in); err != nil {
		return err
	}
	return e.submit(ctx, actionCourierDelivery, func(ctx context.Context) error {
		return e.svc.ConfirmCourierDelivery(ctx, id, in.Successful, in.Notes)
	})
}

// ==================== Read projections ====================

// ProgressFor projects the progress of one unit in the current view
func (e *Engine) ProgressFor(id int64) (*UnitView, error) {
	unit := e.Snapshot().FindUnit(id)
	if unit == nil {
		return nil, shared.ErrNotFound
	}
	view := NewUnitView(*unit)
	return &view, nil
}

// GroupedPending groups the pending collection by reference code
func (e *Engine) GroupedPending() []GroupView {
	return NewGroupViews(transfer.GroupByReference(e.Snapshot().Pending))
}

// GroupedIncoming groups the incoming collection by reference code
func (e *Engine) GroupedIncoming() []GroupView {
	return NewGroupViews(transfer.GroupByReference(e.Snapshot().Incoming))
}
