package inventory

import (
	"github.com/shopspring/decimal"
)

// Lot is an immutable record of units/cost-basis held together as a single
// tax lot. Lots are never mutated in place; every transform returns a new
// Lot value via the with* helpers below.
type Lot struct {
	// OpenTransaction is the Transaction that began the holding period.
	// Transfer and Spinoff propagate this from the source Lot they consume;
	// only a bona-fide new acquisition replaces it.
	OpenTransaction Transaction
	// CreateTransaction is the Transaction that placed the Lot in its
	// current pocket. Equal to OpenTransaction for an ordinary Trade.
	CreateTransaction Transaction
	// Units is nonzero; its sign determines whether the Lot is long or short.
	Units decimal.Decimal
	// Price is the per-unit cost basis, always >= 0, denominated in Currency.
	Price    decimal.Decimal
	Currency Currency
}

func (l Lot) withUnits(units decimal.Decimal) Lot {
	l.Units = units
	return l
}

func (l Lot) withPrice(price decimal.Decimal) Lot {
	l.Price = price
	return l
}

func (l Lot) withUnitsPrice(units, price decimal.Decimal) Lot {
	l.Units = units
	l.Price = price
	return l
}

// Gain links a Lot closed (or basis-reduced to zero) by a realizing
// Transaction to the per-unit price at which the realization occurred.
type Gain struct {
	// Lot is a snapshot of the Lot as it existed at the moment of closure,
	// never mutated by later transactions.
	Lot Lot
	// Transaction is the user-visible transaction that realized the gain —
	// for Transfer/Spinoff/Exercise this is the outer transaction, not any
	// internal intermediate the handler computes with.
	Transaction Transaction
	Price       decimal.Decimal
}

// Pocket is the Portfolio mapping key: an (Account, Security) pair.
type Pocket struct {
	Account  Account
	Security Security
}

// Position is an ordered sequence of Lots held in one Pocket. Handlers
// re-sort a Position under the selected SortStrategy before selecting Lots
// to close; the stored order is the order the last handler wrote it in
// (mutatePortfolio keeps the sorted order and appends any new Lot).
type Position []Lot

// Portfolio is the single long-lived mutable object in the engine: a mapping
// of Pocket to Position. All other values (Lot, Gain, Transaction) are
// immutable and safely shared by reference.
type Portfolio map[Pocket]Position

// sum returns the signed total of Units across a Position.
func (p Position) sum() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range p {
		total = total.Add(lot.Units)
	}
	return total
}
