package inventory

import (
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/types"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// equalDec matches a decimal.Decimal numerically equal to s. Equal(dec(s))
// compares structurally and so also compares the exponent a value happens to
// be stored with (Div results carry 16 fractional digits, 10*1.1 is 11.0).
func equalDec(s string) types.GomegaMatcher {
	return WithTransform(decimal.Decimal.String, Equal(dec(s).String()))
}

func mustTime(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// trade builds a minimal Trade usable as an opening/creating transaction in
// tests; its Units/Cash don't need to balance against any Lot it opens.
func trade(id, date string, units string) Trade {
	return Trade{
		Core: Core{
			UniqueID: id,
			DateTime: mustTime(date),
			Account:  "acct",
			Security: "SEC",
		},
		Units:    dec(units),
		Cash:     decimal.Zero,
		Currency: "USD",
	}
}

func lot(tx Trade, units, price string) Lot {
	return Lot{
		OpenTransaction:   tx,
		CreateTransaction: tx,
		Units:             dec(units),
		Price:             dec(price),
		Currency:          "USD",
	}
}

func TestPartUnits_Unlimited(t *testing.T) {
	g := NewGomegaWithT(t)

	tx1 := trade("1", "2016-01-01", "100")
	tx2 := trade("2", "2016-01-02", "200")
	position := Position{lot(tx1, "100", "10"), lot(tx2, "200", "11")}

	taken, remaining, err := PartUnits(position, OpenAsOf(mustTime("2016-01-02")), nil)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(taken).To(HaveLen(2))
	g.Expect(remaining).To(BeEmpty())
}

func TestPartUnits_CapSplitsLot(t *testing.T) {
	g := NewGomegaWithT(t)

	tx1 := trade("1", "2016-01-01", "100")
	position := Position{lot(tx1, "100", "10")}

	cap_ := dec("40")
	taken, remaining, err := PartUnits(position, ClosableBy(mustTime("2016-02-01"), dec("-40")), &cap_)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(taken).To(HaveLen(1))
	g.Expect(taken[0].Units).To(Equal(dec("40")))
	g.Expect(remaining).To(HaveLen(1))
	g.Expect(remaining[0].Units).To(Equal(dec("60")))

	// Σ units conserved
	g.Expect(taken.sum().Add(remaining.sum())).To(Equal(position.sum()))
}

func TestPartUnits_ZeroCapLeavesEverythingInRemaining(t *testing.T) {
	g := NewGomegaWithT(t)

	tx1 := trade("1", "2016-01-01", "100")
	position := Position{lot(tx1, "100", "10")}

	zero := decimal.Zero
	taken, remaining, err := PartUnits(position, OpenAsOf(mustTime("2016-02-01")), &zero)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(taken).To(BeEmpty())
	g.Expect(remaining).To(HaveLen(1))
}

func TestPartUnits_SignMismatchErrors(t *testing.T) {
	g := NewGomegaWithT(t)

	tx1 := trade("1", "2016-01-01", "100")
	position := Position{lot(tx1, "100", "10")}

	cap_ := dec("-40") // opposite sign from the lot's units: invalid for a "taken" cap
	_, _, err := PartUnits(position, OpenAsOf(mustTime("2016-02-01")), &cap_)
	g.Expect(err).To(HaveOccurred())
}

func TestPartBasis_SplitsPriceByFraction(t *testing.T) {
	g := NewGomegaWithT(t)

	tx1 := trade("1", "2016-01-01", "100")
	position := Position{lot(tx1, "100", "10")}

	taken, remaining, err := PartBasis(position, OpenAsOf(mustTime("2016-02-01")), dec("0.5"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(taken).To(HaveLen(1))
	g.Expect(remaining).To(HaveLen(1))
	g.Expect(taken[0].Units).To(Equal(dec("100")))
	g.Expect(remaining[0].Units).To(Equal(dec("100")))
	g.Expect(taken[0].Price).To(equalDec("5"))
	g.Expect(remaining[0].Price).To(equalDec("5"))
}

func TestPartBasis_FractionOutOfRangeIsValidationError(t *testing.T) {
	g := NewGomegaWithT(t)

	tx1 := trade("1", "2016-01-01", "100")
	position := Position{lot(tx1, "100", "10")}

	_, _, err := PartBasis(position, OpenAsOf(mustTime("2016-02-01")), dec("1.5"))
	g.Expect(err).To(HaveOccurred())
	var ve *ValidationError
	g.Expect(err).To(BeAssignableToTypeOf(ve))
}
