package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// runConfig is the on-disk YAML shape the CLI reads before booking anything:
// a functional currency, a transaction log, and an optional rate table.
type runConfig struct {
	FunctionalCurrency string `yaml:"functional_currency"`
	TransactionsPath   string `yaml:"transactions_path"`
	RatesPath          string `yaml:"rates_path"`
	SortStrategy       string `yaml:"sort_strategy"`
	Consolidate        bool   `yaml:"consolidate"`
}

func loadConfig(path string) (runConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return runConfig{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg runConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return runConfig{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.FunctionalCurrency == "" {
		return runConfig{}, fmt.Errorf("config %s: functional_currency is required", path)
	}
	if cfg.TransactionsPath == "" {
		return runConfig{}, fmt.Errorf("config %s: transactions_path is required", path)
	}
	return cfg, nil
}
