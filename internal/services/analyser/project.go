package analyser

import (
	"github.com/google/uuid"

	"github.com/finsim/analysis/internal/domain"
	"github.com/finsim/analysis/internal/runtime"
)

func accountRecordAt(account runtime.Account, now int64) domain.AccountRecord {
	return domain.AccountRecord{
		Name:            account.Name(),
		ID:              account.ID(),
		AvailableCash:   account.AvailableCash(),
		FrozenCash:      account.FrozenCash(),
		MarketValue:     account.MarketValue(),
		TotalValue:      account.TotalValue(),
		TransactionCost: account.TransactionCost(),
		UpdatedAt:       domain.FormatTimestamp(now),
		Timestamp:       now,
	}
}

func positionRecordAt(accountID uuid.UUID, position runtime.Position, now int64) domain.PositionRecord {
	return domain.PositionRecord{
		AccountID:       accountID,
		Code:            position.Code(),
		Direction:       position.Direction(),
		AvgPrice:        position.AvgPrice(),
		Quantity:        position.Quantity(),
		ClosableLimited: position.ClosableLimited(),
		Closable:        position.Closable(),
		MarketValue:     position.MarketValue(),
		TransactionCost: position.TransactionCost(),
		UpdatedAt:       domain.FormatTimestamp(now),
		Timestamp:       now,
	}
}
