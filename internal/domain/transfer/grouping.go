package transfer

import (
	"fmt"
	"sort"
	"strconv"
)

// SizeRollup is one (size, inventory type) quantity bucket within a group
type SizeRollup struct {
	Size          string
	InventoryType InventoryType
	Quantity      int
}

// Group is a presentation rollup of units sharing a reference code
type Group struct {
	ReferenceCode string
	Brand         string
	Model         string
	TotalQuantity int
	Units         []TransferUnit
	Rollup        []SizeRollup // omitted for single-member groups
	PendingCount  int
}

// AllAccepted reports whether no member of the group is still pending
func (g Group) AllAccepted() bool {
	return g.PendingCount == 0
}

// StatusSummary renders the group status line
func (g Group) StatusSummary() string {
	if g.PendingCount == 0 {
		return "all accepted"
	}
	return fmt.Sprintf("%d pending", g.PendingCount)
}

// GroupByReference partitions units by reference code, preserving the
// encounter order of groups. The projection is pure: input units are
// copied, never mutated.
func GroupByReference(units []TransferUnit) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)

	for _, u := range units {
		i, ok := index[u.ReferenceCode]
		if !ok {
			i = len(groups)
			index[u.ReferenceCode] = i
			groups = append(groups, Group{
				ReferenceCode: u.ReferenceCode,
				Brand:         u.Brand,
				Model:         u.Model,
			})
		}
		groups[i].Units = append(groups[i].Units, u)
		groups[i].TotalQuantity += u.Quantity
		if u.Status == StatusPending {
			groups[i].PendingCount++
		}
	}

	for i := range groups {
		if len(groups[i].Units) > 1 {
			groups[i].Rollup = rollupSizes(groups[i].Units)
		}
	}

	return groups
}

// rollupSizes aggregates quantities per (size, inventory type), sorted by
// ascending numeric size then inventory-type label
func rollupSizes(units []TransferUnit) []SizeRollup {
	type key struct {
		size string
		typ  InventoryType
	}
	totals := make(map[key]int)
	order := make([]key, 0)
	for _, u := range units {
		k := key{size: u.Size, typ: u.InventoryType}
		if _, ok := totals[k]; !ok {
			order = append(order, k)
		}
		totals[k] += u.Quantity
	}

	rollup := make([]SizeRollup, 0, len(order))
	for _, k := range order {
		rollup = append(rollup, SizeRollup{Size: k.size, InventoryType: k.typ, Quantity: totals[k]})
	}

	sort.Slice(rollup, func(i, j int) bool {
		if rollup[i].Size != rollup[j].Size {
			return sizeLess(rollup[i].Size, rollup[j].Size)
		}
		return rollup[i].InventoryType < rollup[j].InventoryType
	})

	return rollup
}

// sizeLess orders sizes numerically when both parse, lexically otherwise
func sizeLess(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return fa < fb
	}
	return a < b
}
