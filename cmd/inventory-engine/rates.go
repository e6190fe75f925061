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

// csvRateProvider is a trivial in-memory inventory.RateProvider backed by a
// (from,to,date,rate) CSV table. It resolves the latest rate on or before
// the requested settlement date rather than requiring an exact match,
// since rate tables are rarely sampled daily.
type csvRateProvider struct {
	rates map[[2]inventory.Currency][]ratePoint
}

type ratePoint struct {
	date time.Time
	rate decimal.Decimal
}

func loadRates(path string) (*csvRateProvider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rates file %s: %w", path, err)
	}
	defer f.Close()

	provider := &csvRateProvider{rates: make(map[[2]inventory.Currency][]ratePoint)}
	r := csv.NewReader(f)
	r.FieldsPerRecord = 4
	// header row
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("reading rates header in %s: %w", path, err)
	}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading rates row in %s: %w", path, err)
		}
		from, to := inventory.Currency(record[0]), inventory.Currency(record[1])
		date, err := time.Parse("2006-01-02", record[2])
		if err != nil {
			return nil, fmt.Errorf("parsing rate date %q: %w", record[2], err)
		}
		rate, err := decimal.NewFromString(record[3])
		if err != nil {
			return nil, fmt.Errorf("parsing rate %q: %w", record[3], err)
		}
		key := [2]inventory.Currency{from, to}
		provider.rates[key] = append(provider.rates[key], ratePoint{date: date, rate: rate})
	}
	return provider, nil
}

// GetRate returns the most recent rate on or before settle. It implements
// inventory.RateProvider.
func (p *csvRateProvider) GetRate(from, to inventory.Currency, settle time.Time) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	points, ok := p.rates[[2]inventory.Currency{from, to}]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("no rates loaded for %s->%s", from, to)
	}
	var best *ratePoint
	for i := range points {
		p := &points[i]
		if p.date.After(settle) {
			continue
		}
		if best == nil || p.date.After(best.date) {
			best = p
		}
	}
	if best == nil {
		return decimal.Decimal{}, fmt.Errorf("no %s->%s rate on or before %s", from, to, settle.Format("2006-01-02"))
	}
	return best.rate, nil
}
