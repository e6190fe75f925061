package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/slatteryjim/inventory-engine"
)

// transactionsHeader lists the columns loadTransactions expects, in order.
// Every transaction variant is flattened into this one wide row shape;
// columns a variant doesn't use are left blank.
var transactionsHeader = []string{
	"type", "uniqueid", "datetime", "settledate", "account", "security",
	"units", "cash", "currency",
	"numerator", "denominator",
	"fromaccount", "fromsecurity", "fromunits",
	"securityprice", "fromsecurityprice",
}

func loadTransactions(path string) ([]inventory.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening transactions file %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(transactionsHeader)
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("reading transactions header in %s: %w", path, err)
	}

	var transactions []inventory.Transaction
	for lineNum := 2; ; lineNum++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading transactions row %d in %s: %w", lineNum, path, err)
		}
		tx, err := parseTransactionRow(record)
		if err != nil {
			return nil, fmt.Errorf("row %d in %s: %w", lineNum, path, err)
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

func col(record []string, i int) string { return record[i] }

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseOptionalDecimal(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseTransactionRow(record []string) (inventory.Transaction, error) {
	const (
		cType = iota
		cUniqueID
		cDateTime
		cSettleDate
		cAccount
		cSecurity
		cUnits
		cCash
		cCurrency
		cNumerator
		cDenominator
		cFromAccount
		cFromSecurity
		cFromUnits
		cSecurityPrice
		cFromSecurityPrice
	)

	datetime, err := time.Parse("2006-01-02", col(record, cDateTime))
	if err != nil {
		return nil, fmt.Errorf("parsing datetime %q: %w", col(record, cDateTime), err)
	}
	var settleDate time.Time
	if s := col(record, cSettleDate); s != "" {
		settleDate, err = time.Parse("2006-01-02", s)
		if err != nil {
			return nil, fmt.Errorf("parsing settledate %q: %w", s, err)
		}
	}
	core := inventory.Core{
		UniqueID:   col(record, cUniqueID),
		DateTime:   datetime,
		SettleDate: settleDate,
		Account:    inventory.Account(col(record, cAccount)),
		Security:   inventory.Security(col(record, cSecurity)),
	}

	units, err := parseDecimal(col(record, cUnits))
	if err != nil {
		return nil, fmt.Errorf("parsing units: %w", err)
	}
	cash, err := parseDecimal(col(record, cCash))
	if err != nil {
		return nil, fmt.Errorf("parsing cash: %w", err)
	}
	currency := inventory.Currency(col(record, cCurrency))

	switch col(record, cType) {
	case "trade":
		return inventory.Trade{Core: core, Units: units, Cash: cash, Currency: currency}, nil
	case "returnofcapital":
		return inventory.ReturnOfCapital{Core: core, Cash: cash, Currency: currency}, nil
	case "split":
		numerator, err := parseDecimal(col(record, cNumerator))
		if err != nil {
			return nil, fmt.Errorf("parsing numerator: %w", err)
		}
		denominator, err := parseDecimal(col(record, cDenominator))
		if err != nil {
			return nil, fmt.Errorf("parsing denominator: %w", err)
		}
		return inventory.Split{Core: core, Numerator: numerator, Denominator: denominator, Units: units}, nil
	case "transfer":
		fromUnits, err := parseDecimal(col(record, cFromUnits))
		if err != nil {
			return nil, fmt.Errorf("parsing fromunits: %w", err)
		}
		return inventory.Transfer{
			Core:         core,
			Units:        units,
			FromAccount:  inventory.Account(col(record, cFromAccount)),
			FromSecurity: inventory.Security(col(record, cFromSecurity)),
			FromUnits:    fromUnits,
		}, nil
	case "spinoff":
		numerator, err := parseDecimal(col(record, cNumerator))
		if err != nil {
			return nil, fmt.Errorf("parsing numerator: %w", err)
		}
		denominator, err := parseDecimal(col(record, cDenominator))
		if err != nil {
			return nil, fmt.Errorf("parsing denominator: %w", err)
		}
		securityPrice, err := parseOptionalDecimal(col(record, cSecurityPrice))
		if err != nil {
			return nil, fmt.Errorf("parsing securityprice: %w", err)
		}
		fromSecurityPrice, err := parseOptionalDecimal(col(record, cFromSecurityPrice))
		if err != nil {
			return nil, fmt.Errorf("parsing fromsecurityprice: %w", err)
		}
		return inventory.Spinoff{
			Core:              core,
			Units:             units,
			Numerator:         numerator,
			Denominator:       denominator,
			FromSecurity:      inventory.Security(col(record, cFromSecurity)),
			SecurityPrice:     securityPrice,
			FromSecurityPrice: fromSecurityPrice,
		}, nil
	case "exercise":
		fromUnits, err := parseDecimal(col(record, cFromUnits))
		if err != nil {
			return nil, fmt.Errorf("parsing fromunits: %w", err)
		}
		return inventory.Exercise{
			Core:         core,
			Units:        units,
			FromSecurity: inventory.Security(col(record, cFromSecurity)),
			FromUnits:    fromUnits,
			Cash:         cash,
		}, nil
	default:
		return nil, fmt.Errorf("unknown transaction type %q", col(record, cType))
	}
}
