package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// FlatLot is a single Position row in tabular form, suitable for CSV export
// or for round-tripping a Portfolio through storage.
type FlatLot struct {
	AcctID       string
	Ticker       string
	OpenDateTime string
	OpenTxID     string
	Units        decimal.Decimal
	Cost         decimal.Decimal
	Currency     Currency

	// BrokerID, CUSIP, ISIN, and CONID mirror the richer identifier columns
	// the reporting system this engine is modeled on carries; this engine's
	// Account/Security types are plain strings, so these are always left
	// empty and exist only so a consumer schema that expects them doesn't
	// have to special-case this engine's output.
	BrokerID string
	CUSIP    string
	ISIN     string
	CONID    string
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

// FlattenPortfolio returns one FlatLot row per open Lot, or — when
// consolidate is true — one row per Pocket with Units and Cost summed and
// holding-period detail discarded. Zero-unit Lots are dropped either way.
// Rows are produced in a deterministic (Account, Security) order despite
// Portfolio's underlying map having none.
func FlattenPortfolio(portfolio Portfolio, consolidate bool) []FlatLot {
	pockets := make([]Pocket, 0, len(portfolio))
	for pocket := range portfolio {
		pockets = append(pockets, pocket)
	}
	sort.Slice(pockets, func(i, j int) bool {
		if pockets[i].Account != pockets[j].Account {
			return pockets[i].Account < pockets[j].Account
		}
		return pockets[i].Security < pockets[j].Security
	})

	var rows []FlatLot
	for _, pocket := range pockets {
		position := lo.Filter(portfolio[pocket], func(lot Lot, _ int) bool {
			return !lot.Units.IsZero()
		})
		if len(position) == 0 {
			continue
		}
		if consolidate {
			rows = append(rows, consolidateLots(pocket, position))
			continue
		}
		for _, lot := range position {
			rows = append(rows, flattenLot(pocket, lot))
		}
	}
	return rows
}

func flattenLot(pocket Pocket, lot Lot) FlatLot {
	return FlatLot{
		AcctID:       pocket.Account.String(),
		Ticker:       pocket.Security.String(),
		OpenDateTime: lot.OpenTransaction.core().DateTime.Format(timeLayout),
		OpenTxID:     lot.OpenTransaction.core().UniqueID,
		Units:        lot.Units,
		Cost:         lot.Units.Mul(lot.Price),
		Currency:     lot.Currency,
	}
}

// consolidateLots collapses an entire Position into a single FlatLot,
// summing Units and cost. The resulting row has no meaningful
// OpenDateTime/OpenTxID, since it may blend several holding periods.
func consolidateLots(pocket Pocket, position Position) FlatLot {
	units := decimal.Zero
	cost := decimal.Zero
	var currency Currency
	for _, lot := range position {
		units = units.Add(lot.Units)
		cost = cost.Add(lot.Units.Mul(lot.Price))
		currency = lot.Currency
	}
	return FlatLot{
		AcctID:   pocket.Account.String(),
		Ticker:   pocket.Security.String(),
		Units:    units,
		Cost:     cost,
		Currency: currency,
	}
}

// FlatGain is a single Gain in tabular form, suitable for CSV export.
type FlatGain struct {
	AcctID       string
	Ticker       string
	OpenDateTime string
	OpenTxID     string
	GainDateTime string
	GainTxID     string
	Units        decimal.Decimal
	Proceeds     decimal.Decimal
	Cost         decimal.Decimal
	LongTerm     bool
	Currency     Currency

	BrokerID string
	CUSIP    string
	ISIN     string
	CONID    string
}

// FlattenGains translates and reports every gain, returning one FlatGain row
// per Gain in the order given.
func FlattenGains(cfg Config, rates RateProvider, gains []Gain) ([]FlatGain, error) {
	reports, err := ReportGains(cfg, rates, gains)
	if err != nil {
		return nil, err
	}
	return FlattenGainReports(reports), nil
}

// FlattenGainReports converts already-translated GainReports into FlatGain
// rows, one per report in the order given.
func FlattenGainReports(reports []GainReport) []FlatGain {
	rows := make([]FlatGain, 0, len(reports))
	for _, report := range reports {
		rows = append(rows, FlatGain{
			AcctID:       report.Gain.Lot.OpenTransaction.core().Account.String(),
			Ticker:       report.Gain.Lot.OpenTransaction.core().Security.String(),
			OpenDateTime: report.OpenDate.Format(timeLayout),
			OpenTxID:     report.Gain.Lot.OpenTransaction.core().UniqueID,
			GainDateTime: report.GainDate.Format(timeLayout),
			GainTxID:     report.Gain.Transaction.core().UniqueID,
			Units:        report.Units,
			Proceeds:     report.Proceeds,
			Cost:         report.Cost,
			LongTerm:     report.LongTerm,
			Currency:     report.Currency,
		})
	}
	return rows
}

// UnflattenPortfolio rebuilds a Portfolio from FlatLot rows previously
// produced by FlattenPortfolio with consolidate=false. Each row's holding
// period is recovered as a synthetic Trade transaction carrying only the
// fields a Lot needs (UniqueID, DateTime, Account, Security); it is not a
// transaction that was ever booked, only a placeholder for OpenTransaction
// and CreateTransaction.
func UnflattenPortfolio(rows []FlatLot) (Portfolio, error) {
	portfolio := make(Portfolio)
	for _, row := range rows {
		if row.Units.IsZero() {
			continue
		}
		openDateTime, err := time.Parse(timeLayout, row.OpenDateTime)
		if err != nil {
			return nil, &ValidationError{Msg: fmt.Sprintf("parsing open datetime %q: %v", row.OpenDateTime, err)}
		}
		tx := Trade{
			Core: Core{
				UniqueID: row.OpenTxID,
				DateTime: openDateTime,
				Account:  Account(row.AcctID),
				Security: Security(row.Ticker),
			},
		}
		pocket := Pocket{Account: tx.Account, Security: tx.Security}
		lot := Lot{
			OpenTransaction:   tx,
			CreateTransaction: tx,
			Units:             row.Units,
			Price:             row.Cost.Div(row.Units),
			Currency:          row.Currency,
		}
		portfolio[pocket] = append(portfolio[pocket], lot)
	}
	return portfolio, nil
}
