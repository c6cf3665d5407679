package analyser

import (
	"sync"

	"github.com/bytedance/gopkg/collection/skipmap"
	"github.com/shopspring/decimal"

	"github.com/finsim/analysis/internal/domain"
)

// MetricsStore holds every aggregated series and collection behind its own
// guard. The daily portfolio and benchmark series share one guard so their
// equal-length invariant can never be observed broken. Order and transaction
// records live in lock-free skip-list maps keyed by id, so concurrent event
// delivery never contends with the daily collection pass.
//
// Lock order: any operation that needs both the account-history guard and the
// position-history guard must take accounts before positions. AppendTick is
// currently the only such operation.
type MetricsStore struct {
	seriesMu  sync.Mutex
	portfolio []decimal.Decimal
	benchmark []decimal.Decimal

	accountsMu sync.Mutex
	accounts   map[string][]domain.AccountRecord

	positionsMu sync.Mutex
	positions   map[int64][]domain.PositionRecord

	orders       *skipmap.StringMap
	transactions *skipmap.StringMap
}

// NewMetricsStore creates an empty store.
func NewMetricsStore() *MetricsStore {
	return &MetricsStore{
		accounts:     make(map[string][]domain.AccountRecord),
		positions:    make(map[int64][]domain.PositionRecord),
		orders:       skipmap.NewString(),
		transactions: skipmap.NewString(),
	}
}

// AppendDaily grows both daily series by exactly one element.
func (s *MetricsStore) AppendDaily(portfolio, benchmark decimal.Decimal) {
	s.seriesMu.Lock()
	defer s.seriesMu.Unlock()
	s.portfolio = append(s.portfolio, portfolio)
	s.benchmark = append(s.benchmark, benchmark)
}

// SeriesLen returns the current length of the daily series.
func (s *MetricsStore) SeriesLen() int {
	s.seriesMu.Lock()
	defer s.seriesMu.Unlock()
	return len(s.portfolio)
}

// SeriesPoint is one daily observation, indexed by tick ordinal.
type SeriesPoint struct {
	Index     int             `json:"index"`
	Portfolio decimal.Decimal `json:"portfolio"`
	Benchmark decimal.Decimal `json:"benchmark"`
}

// SeriesAfter returns all daily points with ordinal >= from, for streaming
// consumers.
func (s *MetricsStore) SeriesAfter(from int) []SeriesPoint {
	s.seriesMu.Lock()
	defer s.seriesMu.Unlock()
	if from < 0 {
		from = 0
	}
	if from >= len(s.portfolio) {
		return nil
	}
	points := make([]SeriesPoint, 0, len(s.portfolio)-from)
	for i := from; i < len(s.portfolio); i++ {
		points = append(points, SeriesPoint{Index: i, Portfolio: s.portfolio[i], Benchmark: s.benchmark[i]})
	}
	return points
}

// UpsertAccountRecord appends to the named account's history, creating the
// history on first sight. Records are kept in append order, without dedup.
func (s *MetricsStore) UpsertAccountRecord(name string, rec domain.AccountRecord) {
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()
	s.accounts[name] = append(s.accounts[name], rec)
}

// ReplacePositionBatch stores the batch under the tick timestamp,
// overwriting any previous batch for the same timestamp.
func (s *MetricsStore) ReplacePositionBatch(ts int64, recs []domain.PositionRecord) {
	s.positionsMu.Lock()
	defer s.positionsMu.Unlock()
	s.positions[ts] = recs
}

// AppendTick applies one collection tick's account records and position batch
// while holding both guards, so neither update becomes visible without the
// other. Callers must have resolved all external reads before calling.
func (s *MetricsStore) AppendTick(accountRecs []domain.AccountRecord, ts int64, positionRecs []domain.PositionRecord) {
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()
	s.positionsMu.Lock()
	defer s.positionsMu.Unlock()

	for _, rec := range accountRecs {
		s.accounts[rec.Name] = append(s.accounts[rec.Name], rec)
	}
	s.positions[ts] = positionRecs
}

// InsertOrderIfAbsent inserts the record keyed by its id and reports whether
// it was newly inserted. Re-inserting an id is a no-op, not an overwrite.
func (s *MetricsStore) InsertOrderIfAbsent(rec domain.OrderRecord) bool {
	_, loaded := s.orders.LoadOrStore(rec.ID.String(), rec)
	return !loaded
}

// InsertTransactionIfAbsent is the transaction counterpart of
// InsertOrderIfAbsent.
func (s *MetricsStore) InsertTransactionIfAbsent(rec domain.TransactionRecord) bool {
	_, loaded := s.transactions.LoadOrStore(rec.ID.String(), rec)
	return !loaded
}

// OrderCount returns the number of distinct order ids recorded.
func (s *MetricsStore) OrderCount() int {
	return s.orders.Len()
}

// TransactionCount returns the number of distinct transaction ids recorded.
func (s *MetricsStore) TransactionCount() int {
	return s.transactions.Len()
}

// Snapshot clones every collection into freshly owned memory. Each field is
// read under its own short-held guard, so the result reflects only completed
// operations; it is never touched by the store afterwards.
func (s *MetricsStore) Snapshot() Snapshot {
	var snap Snapshot

	s.seriesMu.Lock()
	snap.PortfolioNetValue = append([]decimal.Decimal(nil), s.portfolio...)
	snap.BenchmarkNetValue = append([]decimal.Decimal(nil), s.benchmark...)
	s.seriesMu.Unlock()

	s.accountsMu.Lock()
	snap.Accounts = make(map[string][]domain.AccountRecord, len(s.accounts))
	for name, history := range s.accounts {
		snap.Accounts[name] = append([]domain.AccountRecord(nil), history...)
	}
	s.accountsMu.Unlock()

	s.positionsMu.Lock()
	snap.Positions = make(map[int64][]domain.PositionRecord, len(s.positions))
	for ts, batch := range s.positions {
		snap.Positions[ts] = append([]domain.PositionRecord(nil), batch...)
	}
	s.positionsMu.Unlock()

	snap.Orders = make([]domain.OrderRecord, 0, s.orders.Len())
	s.orders.Range(func(_ string, value interface{}) bool {
		snap.Orders = append(snap.Orders, value.(domain.OrderRecord))
		return true
	})

	snap.Transactions = make([]domain.TransactionRecord, 0, s.transactions.Len())
	s.transactions.Range(func(_ string, value interface{}) bool {
		snap.Transactions = append(snap.Transactions, value.(domain.TransactionRecord))
		return true
	})

	return snap
}
