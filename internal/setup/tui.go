package setup

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// GeneratedConfigFile is where the wizard writes its output.
const GeneratedConfigFile = "config.gen.yaml"

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

type accountYaml struct {
	Name string `yaml:"name"`
	Cash string `yaml:"cash"`
}

type configYaml struct {
	Platform          string            `yaml:"platform"`
	Benchmark         map[string]int64  `yaml:"benchmark"`
	Accounts          []accountYaml     `yaml:"accounts"`
	StaticPrices      map[string]string `yaml:"static_prices,omitempty"`
	CollectInterval   string            `yaml:"collect_interval"`
	PricePollInterval string            `yaml:"price_poll_interval"`
	CommissionRate    string            `yaml:"commission_rate,omitempty"`
	SnapshotDir       string            `yaml:"snapshot_dir,omitempty"`
	DashboardAddr     string            `yaml:"dashboard_addr,omitempty"`
}

// RunTUI launches the terminal configuration wizard and writes the
// resulting YAML to config.gen.yaml.
func RunTUI() error {
	var (
		platform        string
		benchmarkStr    string
		accountsStr     string
		staticPricesStr string
		collectStr      string
		pollStr         string
		commissionStr   string
		dashboardAddr   string
		snapshotDir     string
		confirm         bool
	)

	// defaults
	accountsStr = "sim:10000"
	collectStr = "24h"
	pollStr = "5m"
	commissionStr = "0.001"
	snapshotDir = "./wal/analysis"

	// step 1: welcome + platform
	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("ANALYSIS CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Let's set up your simulation run.\n"))

	fmt.Println(stepStyle.Render("STEP 1: PRICE SOURCE"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select price source platform").
				Options(
					huh.NewOption("Static (fixed prices)", "static"),
					huh.NewOption("Binance", "binance"),
					huh.NewOption("Bybit", "bybit"),
					huh.NewOption("Hyperliquid", "hyperliquid"),
				).
				Value(&platform),
		),
	).Run()
	if err != nil {
		return err
	}

	// benchmark basket
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("ANALYSIS CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: BENCHMARK"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Benchmark basket").
				Description("Weighted instruments, e.g. BTCUSDT:2,ETHUSDT:1").
				Value(&benchmarkStr).
				Validate(validateBenchmark),
		),
	).Run()
	if err != nil {
		return err
	}

	// accounts
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("ANALYSIS CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: ACCOUNTS"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Simulated accounts").
				Description("NAME:CASH pairs, e.g. alpha:10000,beta:5000").
				Value(&accountsStr).
				Validate(validateAccounts),
		),
	).Run()
	if err != nil {
		return err
	}

	// static prices only make sense for the static source
	if platform == "static" {
		fmt.Print("\033[H\033[2J")
		fmt.Println(headerStyle.Render("ANALYSIS CONFIG WIZARD"))
		fmt.Println(stepStyle.Render("STEP 4: STATIC PRICES"))
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Static prices").
					Description("CODE:PRICE pairs, e.g. BTCUSDT:65000,ETHUSDT:3200").
					Value(&staticPricesStr).
					Validate(validateStaticPrices),
			),
		).Run()
		if err != nil {
			return err
		}
	}

	// timing and fees
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("ANALYSIS CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 5: TIMING & FEES"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Collection Interval").
				Description("How often net values are sampled (e.g. 1h, 24h)").
				Value(&collectStr).
				Validate(validateDuration),
			huh.NewInput().
				Title("Poll Price Interval").
				Description("Duration string (e.g. 30s, 1m, 5m)").
				Value(&pollStr).
				Validate(validateDuration),
			huh.NewInput().
				Title("Commission Rate").
				Description("Fraction of notional per fill (e.g. 0.001)").
				Value(&commissionStr).
				Validate(validateCommission),
		),
	).Run()
	if err != nil {
		return err
	}

	// outputs
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("ANALYSIS CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 6: OUTPUTS"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Dashboard Address").
				Description("Listen address for the web dashboard, empty to disable (e.g. :8080)").
				Value(&dashboardAddr),
			huh.NewInput().
				Title("Snapshot Directory").
				Description("Directory for the snapshot WAL").
				Value(&snapshotDir),
		),
	).Run()
	if err != nil {
		return err
	}

	// confirmation
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("ANALYSIS CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Platform: %s\nBenchmark: %s\nAccounts: %s\nCollect: %s\nPoll: %s\nCommission: %s\nDashboard: %s\n",
		platform, benchmarkStr, accountsStr, collectStr, pollStr, commissionStr, dashboardAddr,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save and start").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	cfg := configYaml{
		Platform:          platform,
		Benchmark:         parsePairsInt(benchmarkStr),
		CollectInterval:   collectStr,
		PricePollInterval: pollStr,
		CommissionRate:    commissionStr,
		SnapshotDir:       snapshotDir,
		DashboardAddr:     dashboardAddr,
	}
	for name, cash := range parsePairs(accountsStr) {
		cfg.Accounts = append(cfg.Accounts, accountYaml{Name: name, Cash: cash})
	}
	if staticPricesStr != "" {
		cfg.StaticPrices = parsePairs(staticPricesStr)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	if err := os.WriteFile(GeneratedConfigFile, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s\nStarting run...", GeneratedConfigFile)))
	time.Sleep(1500 * time.Millisecond) // small pause to read success message
	return nil
}

func validateDuration(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	if d <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}

func validateCommission(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if d.IsNegative() {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validateBenchmark(s string) error {
	if s == "" {
		return fmt.Errorf("benchmark cannot be empty")
	}
	basket := parsePairsInt(s)
	if basket == nil {
		return fmt.Errorf("invalid format: must be CODE:WEIGHT,CODE:WEIGHT")
	}
	total := int64(0)
	for _, w := range basket {
		if w < 0 {
			return fmt.Errorf("weights must not be negative")
		}
		total += w
	}
	if total == 0 {
		return fmt.Errorf("at least one weight must be positive")
	}
	return nil
}

func validateAccounts(s string) error {
	if s == "" {
		return fmt.Errorf("at least one account is required")
	}
	pairs := parsePairs(s)
	if pairs == nil {
		return fmt.Errorf("invalid format: must be NAME:CASH,NAME:CASH")
	}
	for name, cash := range pairs {
		d, err := decimal.NewFromString(cash)
		if err != nil {
			return fmt.Errorf("bad cash for account %s", name)
		}
		if d.IsNegative() {
			return fmt.Errorf("cash for account %s must not be negative", name)
		}
	}
	return nil
}

func validateStaticPrices(s string) error {
	if s == "" {
		return nil
	}
	pairs := parsePairs(s)
	if pairs == nil {
		return fmt.Errorf("invalid format: must be CODE:PRICE,CODE:PRICE")
	}
	for code, price := range pairs {
		if _, err := decimal.NewFromString(price); err != nil {
			return fmt.Errorf("bad price for %s", code)
		}
	}
	return nil
}

// parsePairs splits "KEY:VALUE,KEY:VALUE" into a map, nil on malformed input.
func parsePairs(s string) map[string]string {
	out := make(map[string]string)
	for _, entry := range strings.Split(s, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil
		}
		out[parts[0]] = parts[1]
	}
	return out
}

func parsePairsInt(s string) map[string]int64 {
	pairs := parsePairs(s)
	if pairs == nil {
		return nil
	}
	out := make(map[string]int64, len(pairs))
	for k, v := range pairs {
		var w int64
		if _, err := fmt.Sscanf(v, "%d", &w); err != nil {
			return nil
		}
		out[k] = w
	}
	return out
}
