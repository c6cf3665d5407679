// Package config loads the run configuration from a YAML file or from
// command-line flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/finsim/analysis/internal/domain"
)

// AccountConfig describes one simulated account.
type AccountConfig struct {
	Name string
	Cash decimal.Decimal
}

// Config is the validated run configuration.
type Config struct {
	Platform          string
	Benchmark         domain.Benchmark
	Instruments       []string
	Accounts          []AccountConfig
	StaticPrices      map[string]decimal.Decimal
	CollectInterval   time.Duration
	PricePollInterval time.Duration
	CommissionRate    decimal.Decimal
	SnapshotDir       string
	DashboardAddr     string
}

type accountTmp struct {
	Name string `yaml:"name"`
	Cash string `yaml:"cash"`
}

type configTmp struct {
	Platform          string            `yaml:"platform"`
	Benchmark         map[string]int64  `yaml:"benchmark"`
	Instruments       []string          `yaml:"instruments"`
	Accounts          []accountTmp      `yaml:"accounts"`
	StaticPrices      map[string]string `yaml:"static_prices,omitempty"`
	CollectInterval   string            `yaml:"collect_interval"`
	PricePollInterval string            `yaml:"price_poll_interval"`
	CommissionRate    string            `yaml:"commission_rate,omitempty"`
	SnapshotDir       string            `yaml:"snapshot_dir,omitempty"`
	DashboardAddr     string            `yaml:"dashboard_addr,omitempty"`
}

var supportedPlatforms = map[string]struct{}{
	"static":      {},
	"binance":     {},
	"bybit":       {},
	"hyperliquid": {},
}

// Get parses the --config flag and loads YAML when a path is given,
// otherwise falls back to the remaining CLI flags.
func Get() (*Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	platform := flag.String("platform", "static", "price source platform: static, binance, bybit or hyperliquid")
	benchmark := flag.String("benchmark", "", "benchmark basket, example: BTCUSDT:2,ETHUSDT:1")
	accounts := flag.String("accounts", "sim:10000", "simulated accounts, example: alpha:10000,beta:5000")
	collectInterval := flag.Duration("collectinterval", 24*time.Hour, "interval between collection ticks")
	pollInterval := flag.Duration("pollpriceinterval", 5*time.Minute, "poll market price interval")
	dashboardAddr := flag.String("dashboard", "", "dashboard listen address, empty disables")
	snapshotDir := flag.String("snapshotdir", "", "directory for the snapshot WAL")
	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	cfg := &Config{
		Platform:          *platform,
		CollectInterval:   *collectInterval,
		PricePollInterval: *pollInterval,
		CommissionRate:    decimal.Zero,
		SnapshotDir:       *snapshotDir,
		DashboardAddr:     *dashboardAddr,
	}

	var err error
	cfg.Benchmark, err = parseBenchmark(*benchmark)
	if err != nil {
		return nil, fmt.Errorf("invalid --benchmark provided, --benchmark=%s: %w", *benchmark, err)
	}
	cfg.Accounts, err = parseAccounts(*accounts)
	if err != nil {
		return nil, fmt.Errorf("invalid --accounts provided, --accounts=%s: %w", *accounts, err)
	}
	cfg.Instruments = instrumentsFromBenchmark(cfg.Benchmark)

	return cfg, cfg.validate()
}

func getYaml(path string) (*Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tmp configTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return nil, err
	}

	cfg := &Config{
		Platform:       tmp.Platform,
		Benchmark:      domain.Benchmark(tmp.Benchmark),
		Instruments:    tmp.Instruments,
		CommissionRate: decimal.Zero,
		SnapshotDir:    tmp.SnapshotDir,
		DashboardAddr:  tmp.DashboardAddr,
	}
	if cfg.Platform == "" {
		cfg.Platform = "static"
	}

	if tmp.CollectInterval != "" {
		cfg.CollectInterval, err = time.ParseDuration(tmp.CollectInterval)
		if err != nil {
			return nil, fmt.Errorf("incorrect 'collect_interval' param in yaml config: %s, error: %w", tmp.CollectInterval, err)
		}
	}
	if tmp.PricePollInterval != "" {
		cfg.PricePollInterval, err = time.ParseDuration(tmp.PricePollInterval)
		if err != nil {
			return nil, fmt.Errorf("incorrect 'price_poll_interval' param in yaml config: %s, error: %w", tmp.PricePollInterval, err)
		}
	}
	if tmp.CommissionRate != "" {
		cfg.CommissionRate, err = decimal.NewFromString(tmp.CommissionRate)
		if err != nil {
			return nil, fmt.Errorf("incorrect 'commission_rate' param in yaml config: %s, error: %w", tmp.CommissionRate, err)
		}
	}

	for _, account := range tmp.Accounts {
		cash, err := decimal.NewFromString(account.Cash)
		if err != nil {
			return nil, fmt.Errorf("incorrect 'cash' param for account %s in yaml config: %s, error: %w", account.Name, account.Cash, err)
		}
		cfg.Accounts = append(cfg.Accounts, AccountConfig{Name: account.Name, Cash: cash})
	}

	if len(tmp.StaticPrices) > 0 {
		cfg.StaticPrices = make(map[string]decimal.Decimal, len(tmp.StaticPrices))
		for code, raw := range tmp.StaticPrices {
			price, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("incorrect 'static_prices' entry for %s in yaml config: %s, error: %w", code, raw, err)
			}
			cfg.StaticPrices[code] = price
		}
	}

	if len(cfg.Instruments) == 0 {
		cfg.Instruments = instrumentsFromBenchmark(cfg.Benchmark)
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if _, ok := supportedPlatforms[c.Platform]; !ok {
		return fmt.Errorf("unsupported platform: %s", c.Platform)
	}
	if err := c.Benchmark.Validate(); err != nil {
		return err
	}
	if len(c.Accounts) == 0 {
		return fmt.Errorf("at least one account is required")
	}
	for _, account := range c.Accounts {
		if account.Name == "" {
			return fmt.Errorf("account name must not be empty")
		}
		if account.Cash.IsNegative() {
			return fmt.Errorf("account %s cash must not be negative: %s", account.Name, account.Cash.String())
		}
	}
	if c.CollectInterval <= 0 {
		return fmt.Errorf("collect_interval must be positive")
	}
	if c.PricePollInterval <= 0 {
		return fmt.Errorf("price_poll_interval must be positive")
	}
	if c.CommissionRate.IsNegative() {
		return fmt.Errorf("commission_rate must not be negative")
	}
	return nil
}

// parseBenchmark parses "CODE:WEIGHT,CODE:WEIGHT" into a basket.
func parseBenchmark(raw string) (domain.Benchmark, error) {
	if raw == "" {
		return nil, fmt.Errorf("benchmark basket is required")
	}
	basket := make(domain.Benchmark)
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("bad benchmark entry: %s", entry)
		}
		weight, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad weight in benchmark entry %s: %w", entry, err)
		}
		basket[parts[0]] = weight
	}
	return basket, nil
}

// parseAccounts parses "NAME:CASH,NAME:CASH".
func parseAccounts(raw string) ([]AccountConfig, error) {
	if raw == "" {
		return nil, fmt.Errorf("at least one account is required")
	}
	var out []AccountConfig
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("bad account entry: %s", entry)
		}
		cash, err := decimal.NewFromString(parts[1])
		if err != nil {
			return nil, fmt.Errorf("bad cash in account entry %s: %w", entry, err)
		}
		out = append(out, AccountConfig{Name: parts[0], Cash: cash})
	}
	return out, nil
}

func instrumentsFromBenchmark(basket domain.Benchmark) []string {
	out := make([]string, 0, len(basket))
	for code := range basket {
		out = append(out, code)
	}
	return out
}
