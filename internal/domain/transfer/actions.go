package transfer

// Action is an operation a viewer may invoke on a unit
type Action string

const (
	ActionCancel                 Action = "cancel"
	ActionConfirmReception       Action = "confirm_reception"
	ActionConfirmReturnReception Action = "confirm_return_reception"
	ActionDeliverToWarehouse     Action = "deliver_to_warehouse"
	ActionSellFromTransfer       Action = "sell_from_transfer"
	ActionCreateReturn           Action = "create_return"
)

// PermittedActions decides which actions a viewer in the given role may
// invoke on a unit. Location-keeper and courier actions operate on their
// own collections and are exposed only through the workflow service, not
// through this gatekeeper.
//
// Terminal units offer no workflow transitions. A completed non-return
// unit still offers the receiver its follow-on actions (selling the
// received stock or sending it back), which act on the finished unit
// rather than advancing it.
func PermittedActions(role RoleInTransfer, isReturn bool, roleInTransfer RoleInTransfer, status Status, pickup PickupType) []Action {
	switch status {
	case StatusCancelled:
		return nil
	case StatusCompleted:
		if !isReturn && role == RoleReceiver {
			return []Action{ActionSellFromTransfer, ActionCreateReturn}
		}
		return nil
	}

	if isReturn {
		if role == RoleReceiver && roleInTransfer == RoleReceiver && status == StatusDelivered {
			return []Action{ActionConfirmReturnReception}
		}
		if role == RoleRequester && roleInTransfer == RoleRequester && status == StatusAccepted && pickup == PickupTypeVendedor {
			return []Action{ActionDeliverToWarehouse}
		}
		return nil
	}

	if role == RoleRequester && status == StatusPending {
		return []Action{ActionCancel}
	}
	if role == RoleReceiver && status == StatusDelivered {
		return []Action{ActionConfirmReception}
	}
	// accepted + vendedor for the requester is informational only:
	// they must go collect, there is no operation to invoke
	return nil
}

// PermittedUnitActions applies the gatekeeper to a unit using its own
// role projection for both the viewer and the unit
func PermittedUnitActions(u *TransferUnit) []Action {
	return PermittedActions(u.RoleInTransfer, u.IsReturn, u.RoleInTransfer, u.Status, u.PickupType)
}
