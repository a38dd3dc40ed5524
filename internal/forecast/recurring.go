package forecast

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/finance-forecast/internal/models"
)

const (
	recurringPrefix = "(Recorrente) "
	projectedPrefix = "(Projetado) "
	salaryKeyword   = "salario"
)

// recurringExpenses projects recurring expenses established before the
// month that have no transaction with the same description in it yet.
func recurringExpenses(ctx context.Context, store Store, profileID int64, start, end time.Time) ([]models.ForecastItem, error) {
	history, err := store.LatestRecurring(ctx, profileID, models.TransactionExpense, start)
	if err != nil {
		return nil, fmt.Errorf("failed to load recurring expenses: %w", err)
	}
	if len(history) == 0 {
		return nil, nil
	}

	descriptions := make([]string, 0, len(history))
	for _, h := range history {
		descriptions = append(descriptions, h.Description)
	}
	current, err := store.TransactionsByDescriptions(ctx, profileID, models.TransactionExpense, descriptions, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load current month expenses: %w", err)
	}
	recorded := make(map[string]struct{}, len(current))
	for _, c := range current {
		recorded[c.Description] = struct{}{}
	}

	var items []models.ForecastItem
	for _, h := range history {
		if _, ok := recorded[h.Description]; ok {
			continue
		}
		items = append(items, models.ForecastItem{
			ID:             fmt.Sprintf("recurring-%d", h.ID),
			Description:    recurringPrefix + h.Description,
			Amount:         h.Amount,
			Date:           dateIn(start.Year(), start.Month(), h.Date.Day(), start.Location()),
			Type:           models.ForecastRecurring,
			ClientID:       h.ClientID,
			RawDescription: h.Description,
		})
	}
	return items, nil
}

// recurringIncome projects recurring income not yet matched by an income
// recorded in the month. Salaries land on the 5th business day.
func recurringIncome(history, current []models.LedgerTransaction, start time.Time, mode BusinessDays) []models.ForecastItem {
	var items []models.ForecastItem
	for _, h := range history {
		if matchesAny(h, current) {
			continue
		}

		date := dateIn(start.Year(), start.Month(), h.Date.Day(), start.Location())
		if strings.Contains(normalize(h.Description), salaryKeyword) {
			day := NthBusinessDay(start.Year(), start.Month(), DefaultSalaryBusinessDay, ResolveBusinessDays(h.Description, mode))
			date = dateIn(start.Year(), start.Month(), day, start.Location())
		}

		items = append(items, models.ForecastItem{
			ID:             fmt.Sprintf("projected-income-%d", h.ID),
			Description:    projectedPrefix + h.Description,
			Amount:         h.Amount,
			Date:           date,
			Type:           models.ForecastIncome,
			ClientID:       h.ClientID,
			RawDescription: h.Description,
		})
	}
	return items
}

// matchesAny reports whether any recorded income stands for the
// historical entry. A generic past description such as "Serviço"
// matches broadly and suppresses its projection.
func matchesAny(h models.LedgerTransaction, current []models.LedgerTransaction) bool {
	past := strings.ToLower(h.Description)
	for _, c := range current {
		now := strings.ToLower(c.Description)
		if strings.Contains(past, now) || strings.Contains(now, past) {
			return true
		}
		if sameID(h.ClientID, c.ClientID) || sameID(h.ServiceID, c.ServiceID) {
			return true
		}
	}
	return false
}

func sameID(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}

func incomeItems(txs []models.LedgerTransaction) []models.ForecastItem {
	items := make([]models.ForecastItem, 0, len(txs))
	for _, tx := range txs {
		id := tx.ID
		items = append(items, models.ForecastItem{
			ID:             fmt.Sprintf("income-%d", tx.ID),
			Description:    tx.Description,
			Amount:         tx.Amount,
			Date:           tx.Date,
			Type:           models.ForecastIncome,
			ClientID:       tx.ClientID,
			TransactionID:  &id,
			RawDescription: tx.Description,
		})
	}
	return items
}
