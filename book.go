package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Book applies transaction to portfolio and returns the Gains it realizes.
// It dispatches by the transaction's concrete type to one of the six
// handlers below. strategy selects which Lots a closing leg consumes first;
// the zero value (FIFO) is the engine-wide default.
//
// A handler either completes and mutates portfolio, or returns an error and
// leaves portfolio untouched for this call.
func Book(transaction Transaction, portfolio Portfolio, strategy SortStrategy) ([]Gain, error) {
	switch t := transaction.(type) {
	case Trade:
		return bookTrade(t, portfolio, strategy)
	case ReturnOfCapital:
		return bookReturnOfCapital(t, portfolio)
	case Split:
		return bookSplit(t, portfolio)
	case Transfer:
		return bookTransfer(t, portfolio, strategy)
	case Spinoff:
		return bookSpinoff(t, portfolio, strategy)
	case Exercise:
		return bookExercise(t, portfolio, strategy)
	default:
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown transaction type %T", transaction)}
	}
}

func bookTrade(t Trade, portfolio Portfolio, strategy SortStrategy) ([]Gain, error) {
	if t.Units.IsZero() {
		return nil, &ValidationError{Msg: fmt.Sprintf("units can't be zero: %+v", t)}
	}
	pocket := Pocket{Account: t.Account, Security: t.Security}
	return mutatePortfolio(portfolio, pocket, t.Units, t.Cash, t.Currency, t, nil, strategy)
}

func bookReturnOfCapital(t ReturnOfCapital, portfolio Portfolio) ([]Gain, error) {
	if t.Cash.IsZero() {
		return nil, &ValidationError{Msg: fmt.Sprintf("cash can't be zero: %+v", t)}
	}

	pocket := Pocket{Account: t.Account, Security: t.Security}
	position := portfolio[pocket]

	isLong := LongAsOf(t.DateTime)
	var affected, unaffected Position
	for _, lot := range position {
		if isLong(lot) {
			affected = append(affected, lot)
		} else {
			unaffected = append(unaffected, lot)
		}
	}
	if len(affected) == 0 {
		return nil, &InconsistentError{
			Transaction: t,
			Msg:         fmt.Sprintf("no long position for %s in %s as of %s", t.Account, t.Security, t.DateTime),
		}
	}

	unitROC := t.Cash.Div(affected.sum())

	var gains []Gain
	newAffected := make(Position, 0, len(affected))
	for _, lot := range affected {
		newPrice := lot.Price.Sub(unitROC)
		if newPrice.IsNegative() {
			// The ROC overflows the Lot's remaining basis. The Gain's price
			// is the full per-share distribution, not only the overflow
			// portion: a deliberate reading, not a latent bug.
			gains = append(gains, Gain{Lot: lot, Transaction: t, Price: unitROC})
			newPrice = decimal.Zero
		}
		newAffected = append(newAffected, lot.withPrice(newPrice))
	}

	portfolio[pocket] = append(newAffected, unaffected...)
	return gains, nil
}

func bookSplit(t Split, portfolio Portfolio) ([]Gain, error) {
	if !(t.Numerator.IsPositive() && t.Denominator.IsPositive()) {
		return nil, &ValidationError{Msg: fmt.Sprintf("numerator & denominator must be positive in %+v", t)}
	}

	pocket := Pocket{Account: t.Account, Security: t.Security}
	position := portfolio[pocket]
	if len(position) == 0 {
		return nil, &InconsistentError{Transaction: t, Msg: fmt.Sprintf("no position in %+v", pocket)}
	}

	ratio := t.Numerator.Div(t.Denominator)
	isOpen := OpenAsOf(t.DateTime)

	var affected, unaffected Position
	for _, lot := range position {
		if isOpen(lot) {
			affected = append(affected, lot)
		} else {
			unaffected = append(unaffected, lot)
		}
	}
	if len(affected) == 0 {
		return nil, &InconsistentError{Transaction: t, Msg: fmt.Sprintf("no position open as of %s in %+v", t.DateTime, pocket)}
	}

	delta := decimal.Zero
	newAffected := make(Position, 0, len(affected))
	for _, lot := range affected {
		newUnits := lot.Units.Mul(ratio)
		newPrice := lot.Price.Div(ratio)
		delta = delta.Add(newUnits.Sub(lot.Units))
		newAffected = append(newAffected, lot.withUnitsPrice(newUnits, newPrice))
	}

	if delta.Sub(t.Units).Abs().GreaterThan(UnitsTolerance) {
		return nil, &InconsistentError{
			Transaction: t,
			Msg: fmt.Sprintf("split %s:%s should yield units delta=%s, not units=%s",
				t.Numerator, t.Denominator, delta, t.Units),
		}
	}

	portfolio[pocket] = append(newAffected, unaffected...)
	// Stock splits don't realize Gains.
	return nil, nil
}

func bookTransfer(t Transfer, portfolio Portfolio, strategy SortStrategy) ([]Gain, error) {
	if t.Units.Mul(t.FromUnits).Sign() >= 0 {
		return nil, &ValidationError{Msg: fmt.Sprintf("units and fromunits aren't oppositely signed in %+v", t)}
	}

	fromPocket := Pocket{Account: t.FromAccount, Security: t.FromSecurity}
	fromPosition := portfolio[fromPocket]
	if len(fromPosition) == 0 {
		return nil, &InconsistentError{Transaction: t, Msg: fmt.Sprintf("no position in %+v", fromPocket)}
	}
	negFromUnits := t.FromUnits.Neg()
	removed, remaining, err := PartUnits(fromPosition, OpenAsOf(t.DateTime), &negFromUnits)
	if err != nil {
		return nil, &InconsistentError{Transaction: t, Msg: err.Error()}
	}

	removedUnits := removed.sum()
	if removedUnits.Add(t.FromUnits).Abs().GreaterThan(UnitsTolerance) {
		return nil, &InconsistentError{
			Transaction: t,
			Msg: fmt.Sprintf("position in %+v has units=%s; can't satisfy fromunits=%s",
				fromPocket, removedUnits, t.FromUnits),
		}
	}
	portfolio[fromPocket] = remaining

	ratio := t.Units.Neg().Div(t.FromUnits)
	destPocket := Pocket{Account: t.Account, Security: t.Security}

	var gains []Gain
	for _, lot := range removed {
		units := lot.Units.Mul(ratio)
		cash := lot.Price.Neg().Mul(lot.Units)
		gs, err := mutatePortfolio(portfolio, destPocket, units, cash, lot.Currency, t, lot.OpenTransaction, strategy)
		if err != nil {
			return nil, err
		}
		gains = append(gains, gs...)
	}
	return gains, nil
}

func bookSpinoff(t Spinoff, portfolio Portfolio, strategy SortStrategy) ([]Gain, error) {
	if !(t.Numerator.IsPositive() && t.Denominator.IsPositive()) {
		return nil, &ValidationError{Msg: fmt.Sprintf("numerator & denominator must be positive in %+v", t)}
	}

	sourcePocket := Pocket{Account: t.Account, Security: t.FromSecurity}
	sourcePosition := portfolio[sourcePocket]
	if len(sourcePosition) == 0 {
		return nil, &InconsistentError{Transaction: t, Msg: fmt.Sprintf("no position in %+v", sourcePocket)}
	}

	spinRatio := t.Numerator.Div(t.Denominator)

	costFraction := decimal.Zero
	if t.SecurityPrice != nil && t.FromSecurityPrice != nil {
		spinoffFMV := t.SecurityPrice.Mul(t.Units)
		spunoffFMV := t.FromSecurityPrice.Mul(t.Units).Div(spinRatio)
		costFraction = spinoffFMV.Div(spinoffFMV.Add(spunoffFMV))
	}

	removed, remaining, err := PartBasis(sourcePosition, OpenAsOf(t.DateTime), costFraction)
	if err != nil {
		return nil, err
	}

	removedUnits := removed.sum()
	if removedUnits.Mul(spinRatio).Sub(t.Units).Abs().GreaterThan(UnitsTolerance) {
		return nil, &InconsistentError{
			Transaction: t,
			Msg: fmt.Sprintf("spinoff %s:%s on %+v requires units=%s, not units=%s",
				t.Numerator, t.Denominator, sourcePocket, t.Units, removedUnits.Mul(spinRatio)),
		}
	}
	portfolio[sourcePocket] = remaining

	destPocket := Pocket{Account: t.Account, Security: t.Security}
	var gains []Gain
	for _, lot := range removed {
		units := lot.Units.Mul(spinRatio)
		cash := lot.Price.Neg().Mul(lot.Units)
		gs, err := mutatePortfolio(portfolio, destPocket, units, cash, lot.Currency, t, lot.OpenTransaction, strategy)
		if err != nil {
			return nil, err
		}
		gains = append(gains, gs...)
	}
	return gains, nil
}

func bookExercise(t Exercise, portfolio Portfolio, strategy SortStrategy) ([]Gain, error) {
	sourcePocket := Pocket{Account: t.Account, Security: t.FromSecurity}
	sourcePosition := portfolio[sourcePocket]

	negFromUnits := t.FromUnits.Neg()
	removed, remaining, err := PartUnits(sourcePosition, OpenAsOf(t.DateTime), &negFromUnits)
	if err != nil {
		return nil, &InconsistentError{Transaction: t, Msg: err.Error()}
	}

	removedUnits := removed.sum()
	if removedUnits.Abs().Sub(t.FromUnits.Abs()).GreaterThan(UnitsTolerance) {
		return nil, &InconsistentError{
			Transaction: t,
			Msg:         fmt.Sprintf("exercise lot.units=%s (not %s)", removedUnits, t.FromUnits),
		}
	}
	portfolio[sourcePocket] = remaining

	multiplier := t.Units.Div(t.FromUnits).Abs()
	strikePerShare := t.Cash.Div(t.Units).Abs()

	destPocket := Pocket{Account: t.Account, Security: t.Security}
	var gains []Gain
	for _, lot := range removed {
		units := lot.Units.Mul(multiplier)
		cash := lot.Price.Neg().Mul(lot.Units).Add(lot.Units.Mul(multiplier).Mul(strikePerShare))
		gs, err := mutatePortfolio(portfolio, destPocket, units, cash, lot.Currency, t, nil, strategy)
		if err != nil {
			return nil, err
		}
		gains = append(gains, gs...)
	}
	return gains, nil
}
