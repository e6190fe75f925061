package inventory

import (
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

// fixedRateProvider resolves a constant rate for a single currency pair,
// ignoring the settlement date. Good enough for tests; a real RateProvider
// would consult a time-series table.
type fixedRateProvider struct {
	rates map[[2]Currency]decimal.Decimal
}

func (p fixedRateProvider) GetRate(from, to Currency, _ time.Time) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	rate, ok := p.rates[[2]Currency{from, to}]
	if !ok {
		return decimal.Decimal{}, &ValidationError{Msg: "no rate for " + string(from) + "->" + string(to)}
	}
	return rate, nil
}

func TestReportGain_SameCurrencyPassesThrough(t *testing.T) {
	g := NewGomegaWithT(t)

	cfg := Config{FunctionalCurrency: "USD"}
	rates := fixedRateProvider{}

	buy := buyTrade("1", "2016-01-01", "100", "-1000")
	sell := buyTrade("2", "2017-06-01", "-100", "1500")

	gain := Gain{
		Lot:         lot(buy, "100", "10"),
		Transaction: sell,
		Price:       dec("15"),
	}

	report, err := ReportGain(cfg, rates, gain)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(report.Proceeds).To(Equal(dec("1500")))
	g.Expect(report.Cost).To(Equal(dec("1000")))
	g.Expect(report.LongTerm).To(BeTrue())
}

func TestReportGain_ShortTermUnder366Days(t *testing.T) {
	g := NewGomegaWithT(t)

	cfg := Config{FunctionalCurrency: "USD"}
	rates := fixedRateProvider{}

	buy := buyTrade("1", "2016-01-01", "100", "-1000")
	sell := buyTrade("2", "2016-06-01", "-100", "1500")

	gain := Gain{
		Lot:         lot(buy, "100", "10"),
		Transaction: sell,
		Price:       dec("15"),
	}

	report, err := ReportGain(cfg, rates, gain)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(report.LongTerm).To(BeFalse())
}

func TestTranslateGain_TranslatesCostAndProceeds(t *testing.T) {
	g := NewGomegaWithT(t)

	cfg := Config{FunctionalCurrency: "USD"}
	rates := fixedRateProvider{
		rates: map[[2]Currency]decimal.Decimal{
			{"EUR", "USD"}: dec("1.1"),
		},
	}

	buy := Trade{
		Core: Core{
			UniqueID: "1",
			DateTime: mustTime("2016-01-01"),
			Account:  acct,
			Security: sec,
		},
		Units:    dec("100"),
		Cash:     dec("-1000"),
		Currency: "EUR",
	}
	sell := Trade{
		Core: Core{
			UniqueID: "2",
			DateTime: mustTime("2017-06-01"),
			Account:  acct,
			Security: sec,
		},
		Units:    dec("-100"),
		Cash:     dec("1500"),
		Currency: "EUR",
	}

	l := Lot{OpenTransaction: buy, CreateTransaction: buy, Units: dec("100"), Price: dec("10"), Currency: "EUR"}
	gain := Gain{Lot: l, Transaction: sell, Price: dec("15")}

	translated, err := TranslateGain(cfg, rates, gain)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(translated.Lot.Currency).To(Equal(Currency("USD")))
	g.Expect(translated.Lot.Price).To(equalDec("11"))
	g.Expect(translated.Price).To(Equal(dec("16.5")))

	translatedBuy, ok := translated.Lot.OpenTransaction.(Trade)
	g.Expect(ok).To(BeTrue())
	g.Expect(translatedBuy.Currency).To(Equal(Currency("USD")))
	g.Expect(translatedBuy.Cash).To(equalDec("-1100"))
}
