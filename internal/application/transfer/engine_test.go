package transfer

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tustockya/transfers/internal/domain/shared"
	"github.com/tustockya/transfers/internal/domain/transfer"
)

// MockWorkflowService is a mock implementation of transfer.Service
type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) CreateTransferRequest(ctx context.Context, spec transfer.TransferRequestSpec) (int64, error) {
	args := m.Called(ctx, spec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWorkflowService) CreateSingleFootRequest(ctx context.Context, spec transfer.SingleFootRequestSpec) (int64, error) {
	args := m.Called(ctx, spec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWorkflowService) CancelTransfer(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *MockWorkflowService) ConfirmReception(ctx context.Context, id int64, conf transfer.ReceptionConfirmation) error {
	args := m.Called(ctx, id, conf)
	return args.Error(0)
}

func (m *MockWorkflowService) CreateReturnRequest(ctx context.Context, spec transfer.ReturnRequestSpec) (int64, error) {
	args := m.Called(ctx, spec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWorkflowService) DeliverReturnToWarehouse(ctx context.Context, id int64, notes string) error {
	args := m.Called(ctx, id, notes)
	return args.Error(0)
}

func (m *MockWorkflowService) ConfirmReturnReception(ctx context.Context, id int64, conf transfer.ReturnReceptionConfirmation) error {
	args := m.Called(ctx, id, conf)
	return args.Error(0)
}

func (m *MockWorkflowService) SellFromCompletedTransfer(ctx context.Context, id int64, sale transfer.SaleData) error {
	args := m.Called(ctx, id, sale)
	return args.Error(0)
}

func (m *MockWorkflowService) LookupSourceStock(ctx context.Context, referenceCode, size string) (transfer.SourceStock, error) {
	args := m.Called(ctx, referenceCode, size)
	return args.Get(0).(transfer.SourceStock), args.Error(1)
}

func (m *MockWorkflowService) ListPendingTransfers(ctx context.Context) ([]transfer.TransferUnit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transfer.TransferUnit), args.Error(1)
}

func (m *MockWorkflowService) ListCompletedTransfers(ctx context.Context) ([]transfer.TransferUnit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transfer.TransferUnit), args.Error(1)
}

func (m *MockWorkflowService) ListHistoryToday(ctx context.Context) ([]transfer.TransferUnit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transfer.TransferUnit), args.Error(1)
}

func (m *MockWorkflowService) ListIncomingRequests(ctx context.Context) ([]transfer.TransferUnit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transfer.TransferUnit), args.Error(1)
}

func (m *MockWorkflowService) AcceptIncomingTransfer(ctx context.Context, id int64, estimatedMinutes int) error {
	args := m.Called(ctx, id, estimatedMinutes)
	return args.Error(0)
}

func (m *MockWorkflowService) DispatchIncomingTransfer(ctx context.Context, id int64, deliveryNotes string) error {
	args := m.Called(ctx, id, deliveryNotes)
	return args.Error(0)
}

func (m *MockWorkflowService) ListAvailableTransports(ctx context.Context) ([]transfer.TransferUnit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transfer.TransferUnit), args.Error(1)
}

func (m *MockWorkflowService) AcceptTransport(ctx context.Context, id int64, estimatedPickupMinutes int, notes string) error {
	args := m.Called(ctx, id, estimatedPickupMinutes, notes)
	return args.Error(0)
}

func (m *MockWorkflowService) ConfirmPickup(ctx context.Context, id int64, notes string) error {
	args := m.Called(ctx, id, notes)
	return args.Error(0)
}

func (m *MockWorkflowService) ConfirmCourierDelivery(ctx context.Context, id int64, successful bool, notes string) error {
	args := m.Called(ctx, id, successful, notes)
	return args.Error(0)
}

func (m *MockWorkflowService) ListAssignedTransports(ctx context.Context) ([]transfer.TransferUnit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transfer.TransferUnit), args.Error(1)
}

func (m *MockWorkflowService) VendorDashboard(ctx context.Context) (*transfer.DashboardSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.DashboardSummary), args.Error(1)
}

// expectEmptyLists stubs every collection to an empty result
func expectEmptyLists(svc *MockWorkflowService) {
	svc.On("ListPendingTransfers", mock.Anything).Return([]transfer.TransferUnit{}, nil)
	svc.On("ListCompletedTransfers", mock.Anything).Return([]transfer.TransferUnit{}, nil)
	svc.On("ListHistoryToday", mock.Anything).Return([]transfer.TransferUnit{}, nil)
	svc.On("ListIncomingRequests", mock.Anything).Return([]transfer.TransferUnit{}, nil)
	svc.On("ListAvailableTransports", mock.Anything).Return([]transfer.TransferUnit{}, nil)
	svc.On("ListAssignedTransports", mock.Anything).Return([]transfer.TransferUnit{}, nil)
	svc.On("VendorDashboard", mock.Anything).Return(&transfer.DashboardSummary{}, nil)
}

func newTestEngine(svc *MockWorkflowService) *Engine {
	return NewEngine(svc, zap.NewNop())
}

func pendingUnit(id int64, reference string) transfer.TransferUnit {
	return transfer.TransferUnit{
		ID:             id,
		ReferenceCode:  reference,
		Size:           "40",
		Quantity:       1,
		InventoryType:  transfer.InventoryTypePair,
		Purpose:        transfer.PurposeRestock,
		PickupType:     transfer.PickupTypeCorredor,
		Status:         transfer.StatusPending,
		RoleInTransfer: transfer.RoleRequester,
	}
}

// ============================================
// Refresh Tests
// ============================================

func TestEngine_RefreshAll(t *testing.T) {
	t.Run("publishes a new versioned snapshot", func(t *testing.T) {
		svc := new(MockWorkflowService)
		svc.On("ListPendingTransfers", mock.Anything).Return([]transfer.TransferUnit{pendingUnit(1, "NK-AF1-07")}, nil)
		svc.On("ListCompletedTransfers", mock.Anything).Return([]transfer.TransferUnit{}, nil)
		svc.On("ListHistoryToday", mock.Anything).Return([]transfer.TransferUnit{}, nil)
		svc.On("ListIncomingRequests", mock.Anything).Return([]transfer.TransferUnit{}, nil)
		svc.On("ListAvailableTransports", mock.Anything).Return([]transfer.TransferUnit{}, nil)
		svc.On("ListAssignedTransports", mock.Anything).Return([]transfer.TransferUnit{}, nil)
		svc.On("VendorDashboard", mock.Anything).Return(&transfer.DashboardSummary{SalesCount: 2}, nil)

		engine := newTestEngine(svc)
		assert.Equal(t, int64(0), engine.Snapshot().Version)

		require.NoError(t, engine.RefreshAll(context.Background()))

		snap := engine.Snapshot()
		assert.Equal(t, int64(1), snap.Version)
		require.Len(t, snap.Pending, 1)
		assert.Equal(t, int64(1), snap.Pending[0].ID)
		require.NotNil(t, snap.Dashboard)
		assert.Equal(t, 2, snap.Dashboard.SalesCount)
	})

	t.Run("initial load failure degrades to empty collections", func(t *testing.T) {
		svc := new(MockWorkflowService)
		svc.On("ListPendingTransfers", mock.Anything).Return(nil, &transfer.NetworkError{})
		svc.On("ListCompletedTransfers", mock.Anything).Return([]transfer.TransferUnit{}, nil)
		svc.On("ListHistoryToday", mock.Anything).Return([]transfer.TransferUnit{}, nil)
		svc.On("ListIncomingRequests", mock.Anything).Return([]transfer.TransferUnit{}, nil)
		svc.On("ListAvailableTransports", mock.Anything).Return([]transfer.TransferUnit{}, nil)
		svc.On("ListAssignedTransports", mock.Anything).Return([]transfer.TransferUnit{}, nil)
		svc.On("VendorDashboard", mock.Anything).Return(&transfer.DashboardSummary{}, nil)

		engine := newTestEngine(svc)
		require.NoError(t, engine.RefreshAll(context.Background()))

		snap := engine.Snapshot()
		assert.Equal(t, int64(1), snap.Version)
		assert.Empty(t, snap.Pending)
	})

	t.Run("later failure keeps the previous snapshot", func(t *testing.T) {
		svc := new(MockWorkflowService)
		expectEmptyLists(svc)
		engine := newTestEngine(svc)
		require.NoError(t, engine.RefreshAll(context.Background()))

		failing := new(MockWorkflowService)
		failing.On("ListPendingTransfers", mock.Anything).Return(nil, &transfer.NetworkError{})
		engine.svc = failing

		err := engine.RefreshAll(context.Background())
		require.Error(t, err)
		assert.Equal(t, int64(1), engine.Snapshot().Version)
	})

	t.Run("overlapping refreshes are dropped", func(t *testing.T) {
		svc := new(MockWorkflowService)
		started := make(chan struct{})
		release := make(chan struct{})
		svc.On("ListPendingTransfers", mock.Anything).Return([]transfer.TransferUnit{}, nil).Run(func(mock.Arguments) {
			close(started)
			<-release
		}).Once()
		svc.On("ListCompletedTransfers", mock.Anything).Return([]transfer.TransferUnit{}, nil)
		svc.On("ListHistoryToday", mock.Anything).Return([]transfer.TransferUnit{}, nil)
		svc.On("ListIncomingRequests", mock.Anything).Return([]transfer.TransferUnit{}, nil)
		svc.On("ListAvailableTransports", mock.Anything).Return([]transfer.TransferUnit{}, nil)
		svc.On("ListAssignedTransports", mock.Anything).Return([]transfer.TransferUnit{}, nil)
		svc.On("VendorDashboard", mock.Anything).Return(&transfer.DashboardSummary{}, nil)

		engine := newTestEngine(svc)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = engine.RefreshAll(context.Background())
		}()
		<-started

		// A second trigger while the first is in flight returns without
		// touching the service
		require.NoError(t, engine.RefreshAll(context.Background()))
		assert.Equal(t, int64(0), engine.Snapshot().Version)

		close(release)
		wg.Wait()
		assert.Equal(t, int64(1), engine.Snapshot().Version)
		svc.AssertNumberOfCalls(t, "ListPendingTransfers", 1)
	})
}

// ============================================
// Action Tests
// ============================================

func TestEngine_CreateTransferRequest(t *testing.T) {
	t.Run("submits a valid request", func(t *testing.T) {
		svc := new(MockWorkflowService)
		expectEmptyLists(svc)
		svc.On("CreateTransferRequest", mock.Anything, mock.Anything).Return(int64(77), nil)

		engine := newTestEngine(svc)
		id, err := engine.CreateTransferRequest(context.Background(), CreateTransferInput{
			ReferenceCode:       "NK-AF1-07",
			Size:                "40",
			Quantity:            1,
			Purpose:             transfer.PurposeCliente,
			PickupType:          transfer.PickupTypeCorredor,
			SourceLocation:      "warehouse-central",
			DestinationLocation: "store-north",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(77), id)
		svc.AssertCalled(t, "CreateTransferRequest", mock.Anything, mock.Anything)
	})

	t.Run("blocks invalid input before any call", func(t *testing.T) {
		svc := new(MockWorkflowService)
		engine := newTestEngine(svc)

		_, err := engine.CreateTransferRequest(context.Background(), CreateTransferInput{
			ReferenceCode: "NK-AF1-07",
			Size:          "40",
			Quantity:      0,
			Purpose:       transfer.PurposeCliente,
			PickupType:    transfer.PickupTypeCorredor,
		})
		require.Error(t, err)
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		svc.AssertNotCalled(t, "CreateTransferRequest", mock.Anything, mock.Anything)
	})

	t.Run("rejects return as a request purpose", func(t *testing.T) {
		svc := new(MockWorkflowService)
		engine := newTestEngine(svc)

		_, err := engine.CreateTransferRequest(context.Background(), CreateTransferInput{
			ReferenceCode:       "NK-AF1-07",
			Size:                "40",
			Quantity:            1,
			Purpose:             transfer.PurposeReturn,
			PickupType:          transfer.PickupTypeCorredor,
			SourceLocation:      "a",
			DestinationLocation: "b",
		})
		require.Error(t, err)
		svc.AssertNotCalled(t, "CreateTransferRequest", mock.Anything, mock.Anything)
	})
}

func TestEngine_CreateSingleFootRequest(t *testing.T) {
	input := CreateSingleFootInput{
		ReferenceCode:       "NK-AF1-07",
		Size:                "40",
		Kind:                transfer.RequestLeftFoot,
		PickupType:          transfer.PickupTypeVendedor,
		SourceLocation:      "warehouse-central",
		DestinationLocation: "store-north",
	}

	t.Run("resolves and submits a left foot request", func(t *testing.T) {
		svc := new(MockWorkflowService)
		expectEmptyLists(svc)
		svc.On("LookupSourceStock", mock.Anything, "NK-AF1-07", "40").
			Return(transfer.SourceStock{LeftFeetQuantity: 3}, nil)
		svc.On("CreateSingleFootRequest", mock.Anything, mock.MatchedBy(func(spec transfer.SingleFootRequestSpec) bool {
			return spec.FootSide == transfer.FootLeft
		})).Return(int64(88), nil)

		engine := newTestEngine(svc)
		id, err := engine.CreateSingleFootRequest(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, int64(88), id)
	})

	t.Run("rejects when source has no left feet", func(t *testing.T) {
		svc := new(MockWorkflowService)
		svc.On("LookupSourceStock", mock.Anything, "NK-AF1-07", "40").
			Return(transfer.SourceStock{PairsQuantity: 5}, nil)

		engine := newTestEngine(svc)
		_, err := engine.CreateSingleFootRequest(context.Background(), input)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		svc.AssertNotCalled(t, "CreateSingleFootRequest", mock.Anything, mock.Anything)
	})

	t.Run("routes form_pair through the regular request path", func(t *testing.T) {
		svc := new(MockWorkflowService)
		expectEmptyLists(svc)
		svc.On("LookupSourceStock", mock.Anything, "NK-AF1-07", "40").
			Return(transfer.SourceStock{PairsQuantity: 1}, nil)
		svc.On("CreateTransferRequest", mock.Anything, mock.MatchedBy(func(spec transfer.TransferRequestSpec) bool {
			return spec.Quantity == 1 && spec.Purpose == transfer.PurposeRestock
		})).Return(int64(89), nil)

		engine := newTestEngine(svc)
		in := input
		in.Kind = transfer.RequestFormPair
		id, err := engine.CreateSingleFootRequest(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, int64(89), id)
		svc.AssertNotCalled(t, "CreateSingleFootRequest", mock.Anything, mock.Anything)
	})
}

func TestEngine_BusyLock(t *testing.T) {
	svc := new(MockWorkflowService)
	expectEmptyLists(svc)

	started := make(chan struct{})
	release := make(chan struct{})
	svc.On("CancelTransfer", mock.Anything, int64(5), "duplicate order").Return(nil).Run(func(mock.Arguments) {
		close(started)
		<-release
	})

	engine := newTestEngine(svc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = engine.CancelTransfer(context.Background(), 5, CancelTransferInput{Reason: "duplicate order"})
	}()
	<-started

	assert.True(t, engine.Busy(actionCancelTransfer))
	err := engine.CancelTransfer(context.Background(), 5, CancelTransferInput{Reason: "duplicate order"})
	assert.ErrorIs(t, err, shared.ErrActionInFlight)

	close(release)
	wg.Wait()
	assert.False(t, engine.Busy(actionCancelTransfer))
	svc.AssertNumberOfCalls(t, "CancelTransfer", 1)
}

func TestEngine_FailureRetention(t *testing.T) {
	svc := new(MockWorkflowService)
	svc.On("CancelTransfer", mock.Anything, int64(5), "late").
		Return(&transfer.ServiceError{StatusCode: 409, Detail: "transfer already accepted"})

	engine := newTestEngine(svc)
	err := engine.CancelTransfer(context.Background(), 5, CancelTransferInput{Reason: "late"})
	require.Error(t, err)

	failures := engine.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, actionCancelTransfer, failures[0].Action)
	assert.Equal(t, "transfer already accepted", failures[0].Message)

	// The failure stays until explicitly dismissed
	assert.True(t, engine.DismissFailure(failures[0].ID))
	assert.Empty(t, engine.Failures())
	assert.False(t, engine.DismissFailure(failures[0].ID))
}

func TestEngine_NetworkFailureMessage(t *testing.T) {
	svc := new(MockWorkflowService)
	svc.On("ConfirmPickup", mock.Anything, int64(9), "").
		Return(&transfer.NetworkError{Err: context.DeadlineExceeded})

	engine := newTestEngine(svc)
	err := engine.ConfirmPickup(context.Background(), 9, "")
	require.Error(t, err)

	failures := engine.Failures()
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Message, "Check your connection")
}

func TestEngine_CreateReturnRequest(t *testing.T) {
	completed := pendingUnit(31, "NK-AF1-07")
	completed.Status = transfer.StatusCompleted
	completed.Quantity = 2

	loadCompleted := func(t *testing.T, svc *MockWorkflowService) *Engine {
		svc.On("ListPendingTransfers", mock.Anything).Return([]transfer.TransferUnit{}, nil)
		svc.On("ListCompletedTransfers", mock.Anything).Return([]transfer.TransferUnit{completed}, nil)
		svc.On("ListHistoryToday", mock.Anything).Return([]transfer.TransferUnit{}, nil)
		svc.On("ListIncomingRequests", mock.Anything).Return([]transfer.TransferUnit{}, nil)
		svc.On("ListAvailableTransports", mock.Anything).Return([]transfer.TransferUnit{}, nil)
		svc.On("ListAssignedTransports", mock.Anything).Return([]transfer.TransferUnit{}, nil)
		svc.On("VendorDashboard", mock.Anything).Return(&transfer.DashboardSummary{}, nil)
		engine := newTestEngine(svc)
		require.NoError(t, engine.RefreshAll(context.Background()))
		return engine
	}

	t.Run("submits a valid return", func(t *testing.T) {
		svc := new(MockWorkflowService)
		engine := loadCompleted(t, svc)
		svc.On("CreateReturnRequest", mock.Anything, mock.Anything).Return(int64(99), nil)

		id, err := engine.CreateReturnRequest(context.Background(), CreateReturnInput{
			OriginalTransferID: 31,
			Reason:             transfer.ReasonNoSale,
			QuantityToReturn:   2,
			ProductCondition:   transfer.ConditionGood,
			PickupType:         transfer.PickupTypeVendedor,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(99), id)
	})

	t.Run("blocks quantity above the original", func(t *testing.T) {
		svc := new(MockWorkflowService)
		engine := loadCompleted(t, svc)

		_, err := engine.CreateReturnRequest(context.Background(), CreateReturnInput{
			OriginalTransferID: 31,
			Reason:             transfer.ReasonNoSale,
			QuantityToReturn:   3,
			ProductCondition:   transfer.ConditionGood,
			PickupType:         transfer.PickupTypeVendedor,
		})
		require.Error(t, err)
		svc.AssertNotCalled(t, "CreateReturnRequest", mock.Anything, mock.Anything)
	})

	t.Run("blocks other reason without a note", func(t *testing.T) {
		svc := new(MockWorkflowService)
		engine := loadCompleted(t, svc)

		_, err := engine.CreateReturnRequest(context.Background(), CreateReturnInput{
			OriginalTransferID: 31,
			Reason:             transfer.ReasonOther,
			QuantityToReturn:   1,
			ProductCondition:   transfer.ConditionGood,
			PickupType:         transfer.PickupTypeVendedor,
			Notes:              "   ",
		})
		require.Error(t, err)
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "notes", verrs[0].Field)
		svc.AssertNotCalled(t, "CreateReturnRequest", mock.Anything, mock.Anything)
	})

	t.Run("blocks unknown original transfer", func(t *testing.T) {
		svc := new(MockWorkflowService)
		engine := loadCompleted(t, svc)

		_, err := engine.CreateReturnRequest(context.Background(), CreateReturnInput{
			OriginalTransferID: 404,
			Reason:             transfer.ReasonNoSale,
			QuantityToReturn:   1,
			ProductCondition:   transfer.ConditionGood,
			PickupType:         transfer.PickupTypeVendedor,
		})
		require.Error(t, err)
		svc.AssertNotCalled(t, "CreateReturnRequest", mock.Anything, mock.Anything)
	})
}

func TestEngine_SellFromCompletedTransfer(t *testing.T) {
	svc := new(MockWorkflowService)
	completed := pendingUnit(31, "NK-AF1-07")
	completed.Status = transfer.StatusCompleted
	svc.On("ListPendingTransfers", mock.Anything).Return([]transfer.TransferUnit{}, nil)
	svc.On("ListCompletedTransfers", mock.Anything).Return([]transfer.TransferUnit{completed}, nil)
	svc.On("ListHistoryToday", mock.Anything).Return([]transfer.TransferUnit{}, nil)
	svc.On("ListIncomingRequests", mock.Anything).Return([]transfer.TransferUnit{}, nil)
	svc.On("ListAvailableTransports", mock.Anything).Return([]transfer.TransferUnit{}, nil)
	svc.On("ListAssignedTransports", mock.Anything).Return([]transfer.TransferUnit{}, nil)
	svc.On("VendorDashboard", mock.Anything).Return(&transfer.DashboardSummary{}, nil)
	svc.On("SellFromCompletedTransfer", mock.Anything, int64(31), mock.Anything).Return(nil)

	engine := newTestEngine(svc)
	require.NoError(t, engine.RefreshAll(context.Background()))

	sale := SellFromTransferInput{Price: decimal.NewFromInt(120), PaymentMethod: "cash"}

	require.NoError(t, engine.SellFromCompletedTransfer(context.Background(), 31, sale))

	err := engine.SellFromCompletedTransfer(context.Background(), 404, sale)
	require.Error(t, err)
	svc.AssertNumberOfCalls(t, "SellFromCompletedTransfer", 1)
}

// ============================================
// Projection Tests
// ============================================

func TestEngine_ProgressFor(t *testing.T) {
	svc := new(MockWorkflowService)
	inTransit := pendingUnit(7, "NK-AF1-07")
	inTransit.Status = transfer.StatusInTransit
	svc.On("ListPendingTransfers", mock.Anything).Return([]transfer.TransferUnit{inTransit}, nil)
	svc.On("ListCompletedTransfers", mock.Anything).Return([]transfer.TransferUnit{}, nil)
	svc.On("ListHistoryToday", mock.Anything).Return([]transfer.TransferUnit{}, nil)
	svc.On("ListIncomingRequests", mock.Anything).Return([]transfer.TransferUnit{}, nil)
	svc.On("ListAvailableTransports", mock.Anything).Return([]transfer.TransferUnit{}, nil)
	svc.On("ListAssignedTransports", mock.Anything).Return([]transfer.TransferUnit{}, nil)
	svc.On("VendorDashboard", mock.Anything).Return(&transfer.DashboardSummary{}, nil)

	engine := newTestEngine(svc)
	require.NoError(t, engine.RefreshAll(context.Background()))

	view, err := engine.ProgressFor(7)
	require.NoError(t, err)
	assert.Equal(t, 67, view.Percentage)
	// No action for the requester while the courier is driving
	assert.Empty(t, view.Actions)

	_, err = engine.ProgressFor(404)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestEngine_GroupedPending(t *testing.T) {
	svc := new(MockWorkflowService)
	a := pendingUnit(1, "NK-AF1-07")
	b := pendingUnit(2, "NK-AF1-07")
	b.Size = "41"
	c := pendingUnit(3, "AD-SB-22")
	svc.On("ListPendingTransfers", mock.Anything).Return([]transfer.TransferUnit{a, b, c}, nil)
	svc.On("ListCompletedTransfers", mock.Anything).Return([]transfer.TransferUnit{}, nil)
	svc.On("ListHistoryToday", mock.Anything).Return([]transfer.TransferUnit{}, nil)
	svc.On("ListIncomingRequests", mock.Anything).Return([]transfer.TransferUnit{}, nil)
	svc.On("ListAvailableTransports", mock.Anything).Return([]transfer.TransferUnit{}, nil)
	svc.On("ListAssignedTransports", mock.Anything).Return([]transfer.TransferUnit{}, nil)
	svc.On("VendorDashboard", mock.Anything).Return(&transfer.DashboardSummary{}, nil)

	engine := newTestEngine(svc)
	require.NoError(t, engine.RefreshAll(context.Background()))

	groups := engine.GroupedPending()
	require.Len(t, groups, 2)
	assert.Equal(t, "NK-AF1-07", groups[0].ReferenceCode)
	assert.Equal(t, 2, groups[0].TotalQuantity)
	assert.Len(t, groups[0].Units, 2)
}
