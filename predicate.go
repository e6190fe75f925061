package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenAsOf returns a predicate matching Lots whose CreateTransaction took
// effect on or before t.
func OpenAsOf(t time.Time) func(Lot) bool {
	return func(lot Lot) bool {
		return !lot.CreateTransaction.core().DateTime.After(t)
	}
}

// LongAsOf returns a predicate matching long (positive-unit) Lots open as of t.
func LongAsOf(t time.Time) func(Lot) bool {
	open := OpenAsOf(t)
	return func(lot Lot) bool {
		return open(lot) && lot.Units.IsPositive()
	}
}

// ClosableBy returns a predicate matching Lots open as of datetime whose
// sign is opposite to units, i.e. Lots a transaction moving `units` of
// security would close.
func ClosableBy(datetime time.Time, units decimal.Decimal) func(Lot) bool {
	open := OpenAsOf(datetime)
	return func(lot Lot) bool {
		return open(lot) && lot.Units.Mul(units).IsNegative()
	}
}
