package transfer

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tustockya/transfers/internal/domain/transfer"
)

// NotificationSeverity classifies a notification for display
type NotificationSeverity string

const (
	NotifySuccess NotificationSeverity = "success"
	NotifyWarning NotificationSeverity = "warning"
	NotifyError   NotificationSeverity = "error"
	NotifyInfo    NotificationSeverity = "info"
)

// Notification is one entry in the recent-activity feed
type Notification struct {
	ID        uuid.UUID            `json:"id"`
	Severity  NotificationSeverity `json:"severity"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Timestamp time.Time            `json:"timestamp"`
}

const maxNotifications = 10

// notificationFeed keeps the most recent notifications, newest first
type notificationFeed struct {
	mu      sync.Mutex
	entries []Notification
}

func (f *notificationFeed) push(n Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append([]Notification{n}, f.entries...)
	if len(f.entries) > maxNotifications {
		f.entries = f.entries[:maxNotifications]
	}
}

func (f *notificationFeed) list() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Notification, len(f.entries))
	copy(out, f.entries)
	return out
}

func (f *notificationFeed) dismiss(id uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.entries {
		if n.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return true
		}
	}
	return false
}

// expireSuccesses drops success entries older than the given age.
// Successes auto-dismiss; warnings and errors stay until dismissed.
func (f *notificationFeed) expireSuccesses(maxAge time.Duration, now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.entries[:0]
	for _, n := range f.entries {
		if n.Severity == NotifySuccess && now.Sub(n.Timestamp) > maxAge {
			continue
		}
		kept = append(kept, n)
	}
	f.entries = kept
}

// diffSnapshots derives notifications from the change between two
// consecutive views: status changes on known units, newly appeared
// incoming requests, and newly available transports.
func diffSnapshots(old, current *Snapshot) []Notification {
	if old == nil || old.Version == 0 {
		// Nothing to compare against on the first load
		return nil
	}

	now := time.Now()
	previous := old.allUnits()
	seen := make(map[int64]struct{})
	var out []Notification

	for _, collection := range [][]transfer.TransferUnit{
		current.Pending, current.Completed, current.HistoryToday, current.Incoming,
		current.AvailableTransports, current.AssignedTransports,
	} {
		for _, u := range collection {
			if _, dup := seen[u.ID]; dup {
				continue
			}
			seen[u.ID] = struct{}{}
			prev, known := previous[u.ID]
			if !known || prev.Status == u.Status {
				continue
			}
			out = append(out, Notification{
				ID:        uuid.New(),
				Severity:  statusChangeSeverity(u.Status),
				Title:     fmt.Sprintf("Transfer %d %s", u.ID, u.Status),
				Message:   transfer.UnitProgress(&u).Message,
				Timestamp: now,
			})
		}
	}

	knownIncoming := unitIDs(old.Incoming)
	for _, u := range current.Incoming {
		if _, known := knownIncoming[u.ID]; known {
			continue
		}
		severity := NotifyInfo
		if u.Purpose == transfer.PurposeCliente {
			// A customer is waiting at the destination
			severity = NotifyWarning
		}
		out = append(out, Notification{
			ID:        uuid.New(),
			Severity:  severity,
			Title:     "New incoming request",
			Message:   fmt.Sprintf("%s size %s, quantity %d", u.ReferenceCode, u.Size, u.Quantity),
			Timestamp: now,
		})
	}

	knownTransports := unitIDs(old.AvailableTransports)
	for _, u := range current.AvailableTransports {
		if _, known := knownTransports[u.ID]; known {
			continue
		}
		out = append(out, Notification{
			ID:        uuid.New(),
			Severity:  NotifyInfo,
			Title:     "New transport available",
			Message:   fmt.Sprintf("%s to %s", u.SourceLocation, u.DestinationLocation),
			Timestamp: now,
		})
	}

	return out
}

func statusChangeSeverity(s transfer.Status) NotificationSeverity {
	switch s {
	case transfer.StatusCompleted:
		return NotifySuccess
	case transfer.StatusCancelled:
		return NotifyWarning
	default:
		return NotifyInfo
	}
}

func unitIDs(units []transfer.TransferUnit) map[int64]struct{} {
	out := make(map[int64]struct{}, len(units))
	for _, u := range units {
		out[u.ID] = struct{}{}
	}
	return out
}
