package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Config carries the handful of inputs report translation needs that aren't
// part of any Transaction or Lot. It's passed explicitly into ReportGain,
// never read from a package-level default, so the same process can report
// the same Gains in more than one functional currency.
type Config struct {
	// FunctionalCurrency is the currency gains are reported in.
	FunctionalCurrency Currency
}

// RateProvider resolves a spot exchange rate between two currencies as of a
// settlement date. Implementations may hit a local table, a CSV snapshot, or
// a remote service; the engine only depends on this interface.
type RateProvider interface {
	// GetRate returns the number of `to` units per one `from` unit, as of
	// settle.
	GetRate(from, to Currency, settle time.Time) (decimal.Decimal, error)
}

// GainReport is a fully-resolved, functional-currency-denominated view of a
// Gain, ready for printing or CSV export.
type GainReport struct {
	Gain Gain

	Units    decimal.Decimal
	Proceeds decimal.Decimal
	Cost     decimal.Decimal
	LongTerm bool
	OpenDate time.Time
	GainDate time.Time
	Currency Currency

	// Disallowed is reserved for wash-sale adjustment, a Non-goal of this
	// engine; always nil. A downstream consumer that implements wash-sale
	// tracking can populate it without changing this type's shape.
	Disallowed *bool
}

// longTermThreshold is the minimum holding period, in whole days, for a Gain
// to qualify as long-term: more than one year, per 26 U.S.C. §1222.
const longTermThreshold = 366 * 24 * time.Hour

// ReportGain translates gain into cfg.FunctionalCurrency (if needed) and
// computes the figures a tax report needs: proceeds, cost, and long/short
// term classification.
func ReportGain(cfg Config, rates RateProvider, gain Gain) (GainReport, error) {
	translated, err := TranslateGain(cfg, rates, gain)
	if err != nil {
		return GainReport{}, err
	}

	openDate := translated.Lot.OpenTransaction.core().DateTime
	gainDate := translated.Transaction.core().DateTime

	return GainReport{
		Gain:     translated,
		Units:    translated.Lot.Units,
		Proceeds: translated.Lot.Units.Mul(translated.Price),
		Cost:     translated.Lot.Units.Mul(translated.Lot.Price),
		LongTerm: translated.Lot.Units.IsPositive() && gainDate.Sub(openDate) >= longTermThreshold,
		OpenDate: openDate,
		GainDate: gainDate,
		Currency: cfg.FunctionalCurrency,
	}, nil
}

// ReportGains reports every gain in order, translating each into
// cfg.FunctionalCurrency.
func ReportGains(cfg Config, rates RateProvider, gains []Gain) ([]GainReport, error) {
	reports := make([]GainReport, 0, len(gains))
	for _, gain := range gains {
		report, err := ReportGain(cfg, rates, gain)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// GainsSummary buckets realized gain amounts (proceeds minus cost) by
// calendar year and by short/long term.
type GainsSummary struct {
	// Years is the sorted set of calendar years covered by either bucket.
	Years           []int
	ShortTermByYear map[int]decimal.Decimal
	LongTermByYear  map[int]decimal.Decimal
	TotalShortTerm  decimal.Decimal
	TotalLongTerm   decimal.Decimal
}

// SummarizeGains buckets reports by the calendar year of GainDate and by
// short/long term, the same breakdown the teacher's PrintTaxableGains
// printed (shortTermByYear/longTermByYear maps, years taken as the union of
// both maps' keys and sorted).
func SummarizeGains(reports []GainReport) GainsSummary {
	shortByYear := map[int]decimal.Decimal{}
	longByYear := map[int]decimal.Decimal{}
	totalShort := decimal.Zero
	totalLong := decimal.Zero
	for _, r := range reports {
		amount := r.Proceeds.Sub(r.Cost)
		year := r.GainDate.Year()
		if r.LongTerm {
			longByYear[year] = longByYear[year].Add(amount)
			totalLong = totalLong.Add(amount)
		} else {
			shortByYear[year] = shortByYear[year].Add(amount)
			totalShort = totalShort.Add(amount)
		}
	}

	years := lo.Union(lo.Keys(shortByYear), lo.Keys(longByYear))
	sort.Ints(years)

	return GainsSummary{
		Years:           years,
		ShortTermByYear: shortByYear,
		LongTermByYear:  longByYear,
		TotalShortTerm:  totalShort,
		TotalLongTerm:   totalLong,
	}
}

// TranslateGain converts gain's Lot cost basis and realization price into
// cfg.FunctionalCurrency, each leg at the exchange rate in effect on its own
// settlement date (26 CFR §1.988-2(a)(2)(iv)): the Lot's opening transaction
// for cost, the realizing transaction for proceeds. A Gain already
// denominated in the functional currency passes through unchanged.
func TranslateGain(cfg Config, rates RateProvider, gain Gain) (Gain, error) {
	lot := gain.Lot

	if lot.Currency != "" && lot.Currency != cfg.FunctionalCurrency {
		openTx := lot.OpenTransaction
		rate, err := rates.GetRate(lot.Currency, cfg.FunctionalCurrency, openTx.core().settleDate())
		if err != nil {
			return Gain{}, fmt.Errorf("translating open transaction: %w", err)
		}
		translatedOpenTx, err := translateTransaction(openTx, cfg.FunctionalCurrency, rate)
		if err != nil {
			return Gain{}, err
		}
		lot.OpenTransaction = translatedOpenTx
		lot.Price = lot.Price.Mul(rate)
		lot.Currency = cfg.FunctionalCurrency
	}

	gainCurrency := transactionCurrency(gain.Transaction)
	if gainCurrency == "" {
		gainCurrency = gain.Lot.Currency
	}

	gainTx := gain.Transaction
	gainPrice := gain.Price
	if gainCurrency != "" && gainCurrency != cfg.FunctionalCurrency {
		rate, err := rates.GetRate(gainCurrency, cfg.FunctionalCurrency, gainTx.core().settleDate())
		if err != nil {
			return Gain{}, fmt.Errorf("translating realizing transaction: %w", err)
		}
		translatedGainTx, err := translateTransaction(gainTx, cfg.FunctionalCurrency, rate)
		if err != nil {
			return Gain{}, err
		}
		gainTx = translatedGainTx
		gainPrice = gainPrice.Mul(rate)
	}

	return Gain{Lot: lot, Transaction: gainTx, Price: gainPrice}, nil
}

// translateTransaction returns a copy of tx with its currency-denominated
// fields rescaled by rate and relabeled currency. Variants with no
// currency-denominated field of their own (Split, Transfer) are returned
// unchanged.
func translateTransaction(tx Transaction, currency Currency, rate decimal.Decimal) (Transaction, error) {
	switch t := tx.(type) {
	case Trade:
		t.Cash = t.Cash.Mul(rate)
		t.Currency = currency
		return t, nil
	case ReturnOfCapital:
		t.Cash = t.Cash.Mul(rate)
		t.Currency = currency
		return t, nil
	case Split:
		return t, nil
	case Transfer:
		return t, nil
	case Spinoff:
		if t.SecurityPrice != nil {
			scaled := t.SecurityPrice.Mul(rate)
			t.SecurityPrice = &scaled
		}
		if t.FromSecurityPrice != nil {
			scaled := t.FromSecurityPrice.Mul(rate)
			t.FromSecurityPrice = &scaled
		}
		return t, nil
	case Exercise:
		t.Cash = t.Cash.Mul(rate)
		return t, nil
	default:
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown transaction type %T", tx)}
	}
}
