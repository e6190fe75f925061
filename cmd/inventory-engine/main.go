// Command inventory-engine books a CSV transaction log against an
// in-memory Portfolio and prints the resulting positions and, when the
// config names a rate table, the realized gains.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/slatteryjim/inventory-engine"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "inventory-engine",
		Short: "Book a transaction log against a tax-lot portfolio and report gains",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "inventory-engine.yaml", "path to the YAML run config")
	return cmd
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	transactions, err := loadTransactions(cfg.TransactionsPath)
	if err != nil {
		return err
	}

	var rates *csvRateProvider
	if cfg.RatesPath != "" {
		rates, err = loadRates(cfg.RatesPath)
		if err != nil {
			return err
		}
	}

	strategy := parseSortStrategy(cfg.SortStrategy)

	portfolio := make(inventory.Portfolio)
	var gains []inventory.Gain
	for i, tx := range transactions {
		txGains, err := inventory.Book(tx, portfolio, strategy)
		if err != nil {
			return fmt.Errorf("booking transaction %d: %w", i+1, err)
		}
		gains = append(gains, txGains...)
	}

	printPositions(os.Stdout, portfolio, cfg.Consolidate)

	if rates != nil && len(gains) > 0 {
		if err := printGains(os.Stdout, inventory.Config{FunctionalCurrency: inventory.Currency(cfg.FunctionalCurrency)}, rates, gains); err != nil {
			return err
		}
	}
	return nil
}

func parseSortStrategy(s string) inventory.SortStrategy {
	switch s {
	case "lifo":
		return inventory.LIFO
	case "mingain":
		return inventory.MinGain
	case "maxgain":
		return inventory.MaxGain
	default:
		return inventory.FIFO
	}
}

func printPositions(w *os.File, portfolio inventory.Portfolio, consolidate bool) {
	fmt.Fprintln(w, "=== Positions ===")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACCOUNT\tSECURITY\tUNITS\tCOST\tCURRENCY")
	for _, row := range inventory.FlattenPortfolio(portfolio, consolidate) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", row.AcctID, row.Ticker, row.Units, row.Cost, row.Currency)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func printGains(w *os.File, cfg inventory.Config, rates inventory.RateProvider, gains []inventory.Gain) error {
	reports, err := inventory.ReportGains(cfg, rates, gains)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "=== Gains ===")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACCOUNT\tSECURITY\tOPEN DATE\tGAIN DATE\tUNITS\tPROCEEDS\tCOST\tTERM")
	for _, row := range inventory.FlattenGainReports(reports) {
		term := "short"
		if row.LongTerm {
			term = "long"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.AcctID, row.Ticker, row.OpenDateTime, row.GainDateTime, row.Units, row.Proceeds, row.Cost, term)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	printGainsSummary(w, inventory.SummarizeGains(reports))
	return nil
}

func printGainsSummary(w *os.File, summary inventory.GainsSummary) {
	for _, year := range summary.Years {
		fmt.Fprintf(w, "(%d's capital gains: short-term:$%s long-term:$%s)\n",
			year, summary.ShortTermByYear[year].StringFixed(2), summary.LongTermByYear[year].StringFixed(2))
	}
	fmt.Fprintf(w, "(Total capital gains: short-term:$%s long-term:$%s)\n",
		summary.TotalShortTerm.StringFixed(2), summary.TotalLongTerm.StringFixed(2))
}
