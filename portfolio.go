package inventory

import "github.com/shopspring/decimal"

// UnitsTolerance is the significance threshold for the difference between a
// predicted unit delta (Split, Transfer, Spinoff ratio math) and the unit
// delta the transaction actually reports. Differences beyond this are
// treated as an Inconsistent portfolio state rather than rounding noise.
var UnitsTolerance = decimal.NewFromFloat(0.001)

// mutatePortfolio is the shared closer used by every handler: it applies
// `units` of `currency`-denominated `cash` to the (transaction's Account,
// Security) pocket, closing any oppositely-signed Lots already there before
// opening a new Lot for the leftover.
//
// transaction is used both as the new Lot's CreateTransaction and as the
// Transaction attributed to any Gains this call emits — always the
// user-visible transaction, never a synthetic intermediate. openTransaction,
// when non-nil, overrides the new Lot's OpenTransaction to preserve a
// holding period carried over from a source Lot (Transfer, Spinoff).
func mutatePortfolio(
	portfolio Portfolio,
	pocket Pocket,
	units, cash decimal.Decimal,
	currency Currency,
	transaction Transaction,
	openTransaction Transaction,
	strategy SortStrategy,
) ([]Gain, error) {
	position := sortPosition(portfolio[pocket], strategy)

	price := cash.Div(units).Abs()

	negUnits := units.Neg()
	closed, remaining, err := PartUnits(position, ClosableBy(transaction.core().DateTime, units), &negUnits)
	if err != nil {
		return nil, &InconsistentError{Transaction: transaction, Msg: err.Error()}
	}

	leftover := units.Add(closed.sum())
	if !leftover.IsZero() {
		openTx := transaction
		if openTransaction != nil {
			openTx = openTransaction
		}
		remaining = append(remaining, Lot{
			OpenTransaction:   openTx,
			CreateTransaction: transaction,
			Units:             leftover,
			Price:             price,
			Currency:          currency,
		})
	}

	portfolio[pocket] = remaining

	gains := make([]Gain, len(closed))
	for i, lot := range closed {
		gains[i] = Gain{Lot: lot, Transaction: transaction, Price: price}
	}
	return gains, nil
}
