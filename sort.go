package inventory

import "sort"

// SortStrategy selects which Lots a closing transaction consumes first. It
// is a closed set of values, not a free-form callable, so that gain
// recognition stays deterministic across runs.
type SortStrategy int

const (
	// FIFO closes the oldest holding period first. This is the default
	// (the zero value), matching the engine's overall "book in FIFO order
	// unless told otherwise" behavior.
	FIFO SortStrategy = iota
	// LIFO closes the newest holding period first.
	LIFO
	// MinGain closes the highest-cost Lot first, minimizing recognized gain.
	MinGain
	// MaxGain closes the lowest-cost Lot first, maximizing recognized gain.
	MaxGain
)

// compareOldest orders by (opening transaction datetime, opening
// transaction unique id), ascending.
func compareOldest(a, b Lot) int {
	ad, bd := a.OpenTransaction.core().DateTime, b.OpenTransaction.core().DateTime
	switch {
	case ad.Before(bd):
		return -1
	case ad.After(bd):
		return 1
	default:
		return compareString(a.OpenTransaction.core().UniqueID, b.OpenTransaction.core().UniqueID)
	}
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func lessFor(strategy SortStrategy) func(a, b Lot) bool {
	switch strategy {
	case LIFO:
		return func(a, b Lot) bool { return compareOldest(a, b) > 0 }
	case MinGain:
		// key = (-price, opentxid); a highest-cost lot sorts first.
		return func(a, b Lot) bool {
			if c := b.Price.Cmp(a.Price); c != 0 {
				return c < 0
			}
			return a.OpenTransaction.core().UniqueID < b.OpenTransaction.core().UniqueID
		}
	case MaxGain:
		// key = (price, opentxid); a lowest-cost lot sorts first.
		return func(a, b Lot) bool {
			if c := a.Price.Cmp(b.Price); c != 0 {
				return c < 0
			}
			return a.OpenTransaction.core().UniqueID < b.OpenTransaction.core().UniqueID
		}
	default: // FIFO
		return func(a, b Lot) bool { return compareOldest(a, b) < 0 }
	}
}

// sortPosition returns a copy of position ordered per strategy. The sort is
// stable over the secondary opening-transaction-id key, so ties in date or
// price resolve deterministically across runs.
func sortPosition(position Position, strategy SortStrategy) Position {
	sorted := make(Position, len(position))
	copy(sorted, position)
	less := lessFor(strategy)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	return sorted
}
