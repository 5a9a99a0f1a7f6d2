package transfer

import (
	"time"

	"github.com/tustockya/transfers/internal/domain/transfer"
)

// Snapshot is the single owned view of all collections fetched from the
// workflow service. It is immutable once published: each refresh builds
// a fresh snapshot and swaps it in atomically, so readers never observe
// a partially updated collection.
type Snapshot struct {
	Version             int64
	TakenAt             time.Time
	Pending             []transfer.TransferUnit
	Completed           []transfer.TransferUnit
	HistoryToday        []transfer.TransferUnit
	Incoming            []transfer.TransferUnit
	AvailableTransports []transfer.TransferUnit
	AssignedTransports  []transfer.TransferUnit
	Dashboard           *transfer.DashboardSummary
}

// emptySnapshot is the degraded view used before the first successful
// load, and after an initial load failure
func emptySnapshot() *Snapshot {
	return &Snapshot{TakenAt: time.Now()}
}

// FindUnit looks a unit up across all collections
func (s *Snapshot) FindUnit(id int64) *transfer.TransferUnit {
	for _, collection := range [][]transfer.TransferUnit{
		s.Pending, s.Completed, s.HistoryToday, s.Incoming,
		s.AvailableTransports, s.AssignedTransports,
	} {
		for i := range collection {
			if collection[i].ID == id {
				return &collection[i]
			}
		}
	}
	return nil
}

// FindCompleted looks a unit up in the completed collection only
func (s *Snapshot) FindCompleted(id int64) *transfer.TransferUnit {
	for i := range s.Completed {
		if s.Completed[i].ID == id {
			return &s.Completed[i]
		}
	}
	return nil
}

// allUnits flattens the per-unit collections, used for diffing
func (s *Snapshot) allUnits() map[int64]transfer.TransferUnit {
	out := make(map[int64]transfer.TransferUnit)
	for _, collection := range [][]transfer.TransferUnit{
		s.Pending, s.Completed, s.HistoryToday, s.Incoming,
		s.AvailableTransports, s.AssignedTransports,
	} {
		for _, u := range collection {
			out[u.ID] = u
		}
	}
	return out
}
