package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Currency is the ISO 4217-style denomination of a cash amount, e.g. "USD".
	Currency string

	// Account identifies a financial-institution account (a brokerage "pocket" key).
	Account string

	// Security identifies a tradable asset within an Account.
	Security string
)

// String returns the Currency as a string.
func (c Currency) String() string { return string(c) }

// String returns the Account as a string.
func (a Account) String() string { return string(a) }

// String returns the Security as a string.
func (s Security) String() string { return string(s) }

// Core holds the fields every Transaction variant shares.
type Core struct {
	// UniqueID is the brokerage-scoped identifier of the transaction.
	UniqueID string
	// DateTime is the effective date/time of the transaction.
	DateTime time.Time
	// SettleDate is the date legal title passes; zero means "use DateTime".
	SettleDate time.Time
	// Account is the FI account the transaction primarily affects.
	Account Account
	// Security is the security the transaction primarily affects.
	Security Security
}

func (c Core) settleDate() time.Time {
	if c.SettleDate.IsZero() {
		return c.DateTime
	}
	return c.SettleDate
}

// Transaction is the tagged union of the six transaction shapes the engine
// understands. It is implemented by Trade, ReturnOfCapital, Split, Transfer,
// Spinoff, and Exercise.
type Transaction interface {
	core() Core
}

// Trade is a normal buy or sell, closing open Lots and/or opening a new one.
type Trade struct {
	Core
	// Units is the signed change in security quantity (nonzero).
	Units decimal.Decimal
	// Cash is the signed change in money amount, opposite sign to Units for
	// an ordinary buy/sell.
	Cash decimal.Decimal
	// Currency denominates Cash.
	Currency Currency
}

func (t Trade) core() Core { return t.Core }

// ReturnOfCapital is a cash distribution that reduces Lot cost basis,
// realizing a Gain once basis has been reduced to zero.
type ReturnOfCapital struct {
	Core
	// Cash is the distribution amount, positive for cash received.
	Cash decimal.Decimal
	// Currency denominates Cash.
	Currency Currency
}

func (t ReturnOfCapital) core() Core { return t.Core }

// Split rescales Lot units/price without affecting basis or realizing Gain.
type Split struct {
	Core
	// Numerator and Denominator describe the split ratio, e.g. 2:1.
	Numerator, Denominator decimal.Decimal
	// Units is the reported delta in security quantity the split should produce.
	Units decimal.Decimal
}

func (t Split) core() Core { return t.Core }

// Transfer moves Lots from one pocket to another, possibly changing
// security/units (e.g. a broker-to-broker move, or a currency conversion
// folded into the move).
type Transfer struct {
	Core
	// Units is the signed quantity of Security received into the destination
	// pocket (Core.Account, Core.Security).
	Units decimal.Decimal
	// FromAccount and FromSecurity identify the source pocket.
	FromAccount  Account
	FromSecurity Security
	// FromUnits is the signed quantity removed from the source pocket;
	// Units*FromUnits must be negative.
	FromUnits decimal.Decimal
}

func (t Transfer) core() Core { return t.Core }

// Spinoff removes cost basis (not units) from a source security's position
// to create Lots in a newly-distributed security, preserving holding period.
type Spinoff struct {
	Core
	// Units is the positive quantity of the new Security received.
	Units decimal.Decimal
	// Numerator and Denominator describe the spinoff ratio.
	Numerator, Denominator decimal.Decimal
	// FromSecurity is the security the spinoff basis is carved out of.
	FromSecurity Security
	// SecurityPrice and FromSecurityPrice are the optional post-spin fair
	// market values used to apportion cost between the two securities.
	SecurityPrice, FromSecurityPrice *decimal.Decimal
}

func (t Spinoff) core() Core { return t.Core }

// Exercise converts an option position into shares of the underlying,
// folding the extinguished option's premium into the delivered shares' basis.
type Exercise struct {
	Core
	// Units is the signed quantity of the underlying Security received.
	Units decimal.Decimal
	// FromSecurity is the option security being exercised.
	FromSecurity Security
	// FromUnits is the signed quantity of the option consumed, opposite sign
	// to Units.
	FromUnits decimal.Decimal
	// Cash is the strike payment (signed).
	Cash decimal.Decimal
}

func (t Exercise) core() Core { return t.Core }

// transactionCurrency returns the Currency field a Transaction variant
// carries directly, or "" if the variant has none (Split, Transfer, Spinoff,
// Exercise price everything off the Lots they move, not a currency field of
// their own).
func transactionCurrency(tx Transaction) Currency {
	switch t := tx.(type) {
	case Trade:
		return t.Currency
	case ReturnOfCapital:
		return t.Currency
	default:
		return ""
	}
}
