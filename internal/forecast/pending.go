package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/finance-forecast/internal/models"
)

func pendingExpenses(ctx context.Context, store Store, profileID int64, start, end time.Time) ([]models.ForecastItem, error) {
	txs, err := store.PendingExpenses(ctx, profileID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending expenses: %w", err)
	}

	items := make([]models.ForecastItem, 0, len(txs))
	for _, tx := range txs {
		if tx.DueDate == nil {
			continue
		}
		id := tx.ID
		items = append(items, models.ForecastItem{
			ID:             fmt.Sprintf("pending-%d", tx.ID),
			Description:    tx.Description,
			Amount:         tx.Amount,
			Date:           *tx.DueDate,
			Type:           models.ForecastPending,
			ClientID:       tx.ClientID,
			TransactionID:  &id,
			RawDescription: tx.Description,
		})
	}
	return items, nil
}
