package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PartUnits walks position in its current order, splitting it into Lots
// matching predicate (taken) and the rest (remaining). maxUnits is a signed
// cap on how many units may be taken; it must share sign with the Lots being
// taken. A nil maxUnits takes every predicate-matching Lot in full.
//
// Sum of Units is conserved across (taken, remaining) plus whatever was
// already in remaining from non-matching Lots.
func PartUnits(position Position, predicate func(Lot) bool, maxUnits *decimal.Decimal) (taken, remaining Position, err error) {
	var cap_ decimal.Decimal
	unlimited := maxUnits == nil
	if !unlimited {
		cap_ = *maxUnits
	}

	for _, lot := range position {
		if !predicate(lot) {
			remaining = append(remaining, lot)
			continue
		}

		switch {
		case unlimited:
			taken = append(taken, lot)
		case cap_.IsZero():
			remaining = append(remaining, lot)
		case lot.Units.Abs().LessThanOrEqual(cap_.Abs()):
			if lot.Units.Mul(cap_).Sign() <= 0 {
				return nil, nil, fmt.Errorf("lot units=%s and cap=%s must share a sign", lot.Units, cap_)
			}
			taken = append(taken, lot)
			cap_ = cap_.Sub(lot.Units)
		default:
			if lot.Units.Mul(cap_).Sign() <= 0 {
				return nil, nil, fmt.Errorf("lot units=%s and cap=%s must share a sign", lot.Units, cap_)
			}
			takenLot, leftLot := splitLot(lot, cap_)
			taken = append(taken, takenLot)
			remaining = append(remaining, leftLot)
			cap_ = decimal.Zero
		}
	}
	return taken, remaining, nil
}

// splitLot divides lot into (units-sized piece, the rest), leaving price
// identical on both halves so that units*price is conserved.
func splitLot(lot Lot, units decimal.Decimal) (taken, left Lot) {
	taken = lot.withUnits(units)
	left = lot.withUnits(lot.Units.Sub(units))
	return taken, left
}

// PartBasis produces, for each predicate-matching Lot, two Lots with
// identical Units and OpenTransaction: one (taken) with Price scaled by
// fraction, one (remaining) with Price scaled by (1-fraction). Non-matching
// Lots pass through to remaining unchanged. fraction must lie in [0, 1].
func PartBasis(position Position, predicate func(Lot) bool, fraction decimal.Decimal) (taken, remaining Position, err error) {
	if fraction.IsNegative() || fraction.GreaterThan(decimal.NewFromInt(1)) {
		return nil, nil, &ValidationError{Msg: fmt.Sprintf("fraction must be between 0 and 1 (inclusive), not %s", fraction)}
	}

	for _, lot := range position {
		if !predicate(lot) {
			remaining = append(remaining, lot)
			continue
		}
		takenPrice := lot.Price.Mul(fraction)
		taken = append(taken, lot.withPrice(takenPrice))
		remaining = append(remaining, lot.withPrice(lot.Price.Sub(takenPrice)))
	}
	return taken, remaining, nil
}
