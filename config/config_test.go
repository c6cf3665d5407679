package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGetYaml(t *testing.T) {
	path := writeConfig(t, `
platform: static
benchmark:
  BTCUSDT: 2
  ETHUSDT: 1
accounts:
  - name: alpha
    cash: "10000"
  - name: beta
    cash: "5000.5"
static_prices:
  BTCUSDT: "65000"
  ETHUSDT: "3200"
collect_interval: 1h
price_poll_interval: 5m
commission_rate: "0.001"
snapshot_dir: ./wal/test
dashboard_addr: ":8080"
`)

	cfg, err := getYaml(path)
	require.NoError(t, err)

	assert.Equal(t, "static", cfg.Platform)
	assert.Equal(t, int64(2), cfg.Benchmark["BTCUSDT"])
	require.Len(t, cfg.Accounts, 2)
	assert.True(t, cfg.Accounts[1].Cash.Equal(decimal.NewFromFloat(5000.5)))
	assert.True(t, cfg.StaticPrices["BTCUSDT"].Equal(decimal.NewFromInt(65000)))
	assert.Equal(t, time.Hour, cfg.CollectInterval)
	assert.True(t, cfg.CommissionRate.Equal(decimal.NewFromFloat(0.001)))
	assert.Equal(t, ":8080", cfg.DashboardAddr)
	// instruments default to the benchmark basket
	assert.ElementsMatch(t, []string{"BTCUSDT", "ETHUSDT"}, cfg.Instruments)
}

func TestGetYamlRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "unknown platform",
			content: `
platform: kraken
benchmark: {BTCUSDT: 1}
accounts: [{name: a, cash: "1"}]
collect_interval: 1h
price_poll_interval: 1m
`,
		},
		{
			name: "empty benchmark",
			content: `
platform: static
accounts: [{name: a, cash: "1"}]
collect_interval: 1h
price_poll_interval: 1m
`,
		},
		{
			name: "no accounts",
			content: `
platform: static
benchmark: {BTCUSDT: 1}
collect_interval: 1h
price_poll_interval: 1m
`,
		},
		{
			name: "bad cash",
			content: `
platform: static
benchmark: {BTCUSDT: 1}
accounts: [{name: a, cash: "lots"}]
collect_interval: 1h
price_poll_interval: 1m
`,
		},
		{
			name: "missing interval",
			content: `
platform: static
benchmark: {BTCUSDT: 1}
accounts: [{name: a, cash: "1"}]
price_poll_interval: 1m
`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := getYaml(writeConfig(t, tc.content))
			require.Error(t, err)
		})
	}
}

func TestParseBenchmark(t *testing.T) {
	basket, err := parseBenchmark("BTCUSDT:2, ETHUSDT:1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), basket["BTCUSDT"])
	assert.Equal(t, int64(1), basket["ETHUSDT"])

	_, err = parseBenchmark("")
	require.Error(t, err)

	_, err = parseBenchmark("BTCUSDT")
	require.Error(t, err)

	_, err = parseBenchmark("BTCUSDT:two")
	require.Error(t, err)
}

func TestParseAccounts(t *testing.T) {
	accounts, err := parseAccounts("alpha:10000,beta:0.5")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "alpha", accounts[0].Name)
	assert.True(t, accounts[1].Cash.Equal(decimal.NewFromFloat(0.5)))

	_, err = parseAccounts("alpha")
	require.Error(t, err)
}
