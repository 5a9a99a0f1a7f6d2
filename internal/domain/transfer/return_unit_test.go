package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCompletedTransfer(t *testing.T) *TransferUnit {
	unit := createTestUnit(t, PickupTypeCorredor)
	unit.SourceLocation = "warehouse-central"
	unit.DestinationLocation = "store-north"
	advanceToDelivered(t, unit)
	require.NoError(t, unit.ConfirmReception())
	return unit
}

// ============================================
// Return Validation Tests
// ============================================

func TestValidateReturnRequest(t *testing.T) {
	tests := []struct {
		name      string
		reason    ReturnReason
		quantity  int
		original  int
		condition ProductCondition
		notes     string
		wantErr   string
	}{
		{"valid no_sale return", ReasonNoSale, 1, 2, ConditionGood, "", ""},
		{"valid full-quantity return", ReasonDamaged, 2, 2, ConditionDamaged, "", ""},
		{"other reason with note", ReasonOther, 1, 2, ConditionGood, "box crushed in storage", ""},
		{"other reason without note", ReasonOther, 1, 2, ConditionGood, "", "note is required"},
		{"other reason with whitespace note", ReasonOther, 1, 2, ConditionGood, "   \t", "note is required"},
		{"zero quantity", ReasonNoSale, 0, 2, ConditionGood, "", "at least 1"},
		{"quantity above original", ReasonNoSale, 3, 2, ConditionGood, "", "cannot exceed"},
		{"unknown reason", ReturnReason("expired"), 1, 2, ConditionGood, "", "Unknown return reason"},
		{"unknown condition", ReasonNoSale, 1, 2, ProductCondition("mint"), "", "Unknown product condition"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateReturnRequest(tt.reason, tt.quantity, tt.original, tt.condition, tt.notes)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

// ============================================
// NewReturnUnit Tests
// ============================================

func TestNewReturnUnit(t *testing.T) {
	t.Run("creates return from completed transfer", func(t *testing.T) {
		original := createCompletedTransfer(t)
		ret, err := NewReturnUnit(2001, original, ReasonNoSale, 1, ConditionGood, PickupTypeVendedor, "")
		require.NoError(t, err)
		require.NotNil(t, ret)

		assert.True(t, ret.IsReturn)
		assert.Equal(t, PurposeReturn, ret.Purpose)
		assert.Equal(t, StatusPending, ret.Status)
		assert.Equal(t, original.ID, ret.OriginalTransferID)
		assert.Equal(t, 1, ret.QuantityToReturn)
		assert.Equal(t, 1, ret.Quantity)
		// Direction is inverted relative to the original
		assert.Equal(t, original.DestinationLocation, ret.SourceLocation)
		assert.Equal(t, original.SourceLocation, ret.DestinationLocation)
		assert.Equal(t, RoleRequester, ret.RoleInTransfer)
	})

	t.Run("fails when original is not completed", func(t *testing.T) {
		original := createTestUnit(t, PickupTypeCorredor)
		_, err := NewReturnUnit(2001, original, ReasonNoSale, 1, ConditionGood, PickupTypeVendedor, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pending status")
	})

	t.Run("fails when original is itself a return", func(t *testing.T) {
		original := createCompletedTransfer(t)
		original.IsReturn = true
		_, err := NewReturnUnit(2001, original, ReasonNoSale, 1, ConditionGood, PickupTypeVendedor, "")
		require.Error(t, err)
	})

	t.Run("fails with quantity above original", func(t *testing.T) {
		original := createCompletedTransfer(t)
		_, err := NewReturnUnit(2001, original, ReasonNoSale, original.Quantity+1, ConditionGood, PickupTypeVendedor, "")
		require.Error(t, err)
	})

	t.Run("fails with nil original", func(t *testing.T) {
		_, err := NewReturnUnit(2001, nil, ReasonNoSale, 1, ConditionGood, PickupTypeVendedor, "")
		require.Error(t, err)
	})
}

// ============================================
// Return Transition Tests
// ============================================

func TestReturnUnit_DeliverToWarehouse(t *testing.T) {
	newReturn := func(t *testing.T, pickup PickupType) *ReturnUnit {
		ret, err := NewReturnUnit(2001, createCompletedTransfer(t), ReasonNoSale, 1, ConditionGood, pickup, "")
		require.NoError(t, err)
		return ret
	}

	t.Run("delivers accepted vendedor return", func(t *testing.T) {
		ret := newReturn(t, PickupTypeVendedor)
		require.NoError(t, ret.Accept(10))

		err := ret.DeliverToWarehouse()
		require.NoError(t, err)
		assert.Equal(t, StatusDelivered, ret.Status)
		require.NotNil(t, ret.DeliveredAt)
	})

	t.Run("fails on corredor return", func(t *testing.T) {
		ret := newReturn(t, PickupTypeCorredor)
		require.NoError(t, ret.Accept(10))

		err := ret.DeliverToWarehouse()
		require.Error(t, err)
		assert.Equal(t, StatusAccepted, ret.Status)
	})

	t.Run("fails while pending", func(t *testing.T) {
		ret := newReturn(t, PickupTypeVendedor)
		err := ret.DeliverToWarehouse()
		require.Error(t, err)
	})

	t.Run("fails for receiver role", func(t *testing.T) {
		ret := newReturn(t, PickupTypeVendedor)
		require.NoError(t, ret.Accept(10))
		ret.RoleInTransfer = RoleReceiver

		err := ret.DeliverToWarehouse()
		require.Error(t, err)
	})
}

func TestReturnUnit_ConfirmReturnReception(t *testing.T) {
	t.Run("receiver completes delivered return", func(t *testing.T) {
		ret, err := NewReturnUnit(2001, createCompletedTransfer(t), ReasonDamaged, 1, ConditionDamaged, PickupTypeVendedor, "")
		require.NoError(t, err)
		require.NoError(t, ret.Accept(10))
		require.NoError(t, ret.DeliverToWarehouse())
		ret.RoleInTransfer = RoleReceiver

		require.NoError(t, ret.ConfirmReturnReception())
		assert.Equal(t, StatusCompleted, ret.Status)
	})

	t.Run("fails for requester role", func(t *testing.T) {
		ret, err := NewReturnUnit(2001, createCompletedTransfer(t), ReasonDamaged, 1, ConditionDamaged, PickupTypeVendedor, "")
		require.NoError(t, err)
		require.NoError(t, ret.Accept(10))
		require.NoError(t, ret.DeliverToWarehouse())

		err = ret.ConfirmReturnReception()
		require.Error(t, err)
		assert.Equal(t, StatusDelivered, ret.Status)
	})
}
