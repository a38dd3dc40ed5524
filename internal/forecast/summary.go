package forecast

import (
	"github.com/shopspring/decimal"

	"github.com/Dan9191/finance-forecast/internal/models"
)

// Summarize totals a forecast per item type. Appointments only count
// towards Items.
func Summarize(items []models.ForecastItem) models.ForecastSummary {
	s := models.ForecastSummary{
		Pending:   decimal.Zero,
		Recurring: decimal.Zero,
		Debt:      decimal.Zero,
		Income:    decimal.Zero,
		Items:     len(items),
	}
	for _, it := range items {
		switch it.Type {
		case models.ForecastPending:
			s.Pending = s.Pending.Add(it.Amount)
		case models.ForecastRecurring:
			s.Recurring = s.Recurring.Add(it.Amount)
		case models.ForecastDebt:
			s.Debt = s.Debt.Add(it.Amount)
		case models.ForecastIncome:
			s.Income = s.Income.Add(it.Amount)
		}
	}
	s.Expenses = s.Pending.Add(s.Recurring).Add(s.Debt)
	s.Net = s.Income.Sub(s.Expenses)
	return s
}
