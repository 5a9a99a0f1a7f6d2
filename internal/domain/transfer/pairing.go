package transfer

import (
	"fmt"

	"github.com/tustockya/transfers/internal/domain/shared"
)

// RequestKind is the inventory shape a requester asks for. Single-foot
// kinds exist to complete a pair using an opposite foot already present
// at the destination; form_pair asks for a full pair explicitly when the
// destination's separated feet cannot complete one.
type RequestKind string

const (
	RequestPair      RequestKind = "pair"
	RequestLeftFoot  RequestKind = "left_foot"
	RequestRightFoot RequestKind = "right_foot"
	RequestFormPair  RequestKind = "form_pair"
)

// IsValid checks if the request kind is valid
func (k RequestKind) IsValid() bool {
	switch k {
	case RequestPair, RequestLeftFoot, RequestRightFoot, RequestFormPair:
		return true
	}
	return false
}

// String returns the string representation of RequestKind
func (k RequestKind) String() string {
	return string(k)
}

// FootSide identifies which foot a single-foot request targets
type FootSide string

const (
	FootLeft  FootSide = "left"
	FootRight FootSide = "right"
)

// FootSide returns the foot side for single-foot kinds, empty otherwise
func (k RequestKind) FootSide() FootSide {
	switch k {
	case RequestLeftFoot:
		return FootLeft
	case RequestRightFoot:
		return FootRight
	}
	return ""
}

// SourceStock holds the stock counts at the source location for one
// reference/size combination
type SourceStock struct {
	PairsQuantity     int
	LeftFeetQuantity  int
	RightFeetQuantity int
}

// Availability exposes per-shape availability flags to the requester
type Availability struct {
	PairsAvailable     bool
	PairsQuantity      int
	LeftFeetAvailable  bool
	LeftFeetQuantity   int
	RightFeetAvailable bool
	RightFeetQuantity  int
}

// Availability derives the requester-facing availability flags
func (s SourceStock) Availability() Availability {
	return Availability{
		PairsAvailable:     s.PairsQuantity > 0,
		PairsQuantity:      s.PairsQuantity,
		LeftFeetAvailable:  s.LeftFeetQuantity > 0,
		LeftFeetQuantity:   s.LeftFeetQuantity,
		RightFeetAvailable: s.RightFeetQuantity > 0,
		RightFeetQuantity:  s.RightFeetQuantity,
	}
}

// Resolution is the inventory shape a resolved request will move.
// Quantity is fixed at 1 per leg; for full-pair kinds the requester may
// raise it on the outgoing request.
type Resolution struct {
	InventoryType InventoryType
	Purpose       Purpose
	Quantity      int
}

// Resolve maps a request kind onto the inventory shape to move, checking
// that the source stock can serve it. Single-foot kinds carry
// purpose=pair_formation; full-pair kinds default to restock and the
// requester may override the purpose on the outgoing request.
func Resolve(kind RequestKind, stock SourceStock) (Resolution, error) {
	switch kind {
	case RequestPair:
		if stock.PairsQuantity <= 0 {
			return Resolution{}, shared.ErrInsufficientStock
		}
		return Resolution{InventoryType: InventoryTypePair, Purpose: PurposeRestock, Quantity: 1}, nil
	case RequestLeftFoot:
		if stock.LeftFeetQuantity <= 0 {
			return Resolution{}, shared.ErrInsufficientStock
		}
		return Resolution{InventoryType: InventoryTypeLeftOnly, Purpose: PurposePairFormation, Quantity: 1}, nil
	case RequestRightFoot:
		if stock.RightFeetQuantity <= 0 {
			return Resolution{}, shared.ErrInsufficientStock
		}
		return Resolution{InventoryType: InventoryTypeRightOnly, Purpose: PurposePairFormation, Quantity: 1}, nil
	case RequestFormPair:
		if stock.PairsQuantity <= 0 && (stock.LeftFeetQuantity <= 0 || stock.RightFeetQuantity <= 0) {
			return Resolution{}, shared.ErrInsufficientStock
		}
		return Resolution{InventoryType: InventoryTypePair, Purpose: PurposeRestock, Quantity: 1}, nil
	}
	return Resolution{}, shared.NewDomainError("INVALID_REQUEST_KIND", fmt.Sprintf("Unknown request kind %q", kind))
}
