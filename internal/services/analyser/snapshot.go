package analyser

import (
	"github.com/shopspring/decimal"

	"github.com/finsim/analysis/internal/domain"
)

// Snapshot is a fully materialized, independently owned copy of all
// aggregated state. The JSON field names are the persisted-state contract;
// downstream consumers key on them.
type Snapshot struct {
	BenchmarkInstruments domain.Benchmark                  `json:"benchmark_instruments"`
	PortfolioNetValue    []decimal.Decimal                 `json:"portfolio_net_value"`
	BenchmarkNetValue    []decimal.Decimal                 `json:"benchmark_net_value"`
	Accounts             map[string][]domain.AccountRecord `json:"accounts"`
	Positions            map[int64][]domain.PositionRecord `json:"positions"`
	Orders               []domain.OrderRecord              `json:"orders"`
	Transactions         []domain.TransactionRecord        `json:"transactions"`
}
