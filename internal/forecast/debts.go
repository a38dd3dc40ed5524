package forecast

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dan9191/finance-forecast/internal/models"
)

const (
	debtPrefix = "(Dívida) "
	// maxSimulationMonths bounds the walk from the current month to the target
	maxSimulationMonths = 360
)

type monthKey struct {
	year  int
	month time.Month
}

func keyOf(t time.Time) monthKey {
	return monthKey{year: t.Year(), month: t.Month()}
}

// debtForecast loads the plans of one debt across the simulation window
// in a single read and simulates it.
func debtForecast(ctx context.Context, store Store, debt models.Debt, current, target time.Time) ([]models.ForecastItem, error) {
	from := current
	if target.Before(from) {
		from = target
	}
	plans, err := store.PaymentPlansInRange(ctx, debt.ID, from, target)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment plans for debt %d: %w", debt.ID, err)
	}
	return simulateDebt(debt, plans, current, target), nil
}

// simulateDebt walks the months from current up to target, paying down
// the balance with plan rows or the default installment, then emits the
// target month's payments capped at whatever balance remains. Both
// current and target must be first-of-month instants.
//
// A debt without plans and without an installment never produces items.
func simulateDebt(debt models.Debt, plans []models.DebtPaymentPlan, current, target time.Time) []models.ForecastItem {
	if !debt.Amount.IsPositive() {
		return nil
	}

	byMonth := make(map[monthKey][]models.DebtPaymentPlan)
	for _, p := range plans {
		k := monthKey{year: p.Year, month: time.Month(p.Month)}
		byMonth[k] = append(byMonth[k], p)
	}

	balance := debt.Amount
	m := current
	for i := 0; m.Before(target) && i < maxSimulationMonths; i++ {
		if monthPlans, ok := byMonth[keyOf(m)]; ok {
			for _, p := range monthPlans {
				balance = balance.Sub(p.Amount)
			}
		} else if debt.HasInstallment() {
			balance = balance.Sub(debt.InstallmentValue.Decimal)
		}
		if !balance.IsPositive() {
			return nil
		}
		m = m.AddDate(0, 1, 0)
	}

	debtID := debt.ID
	loc := target.Location()
	year, month := target.Year(), target.Month()

	if monthPlans, ok := byMonth[keyOf(target)]; ok {
		monthPlans = slices.Clone(monthPlans)
		slices.SortStableFunc(monthPlans, func(a, b models.DebtPaymentPlan) int { return a.Day - b.Day })

		var items []models.ForecastItem
		for n, p := range monthPlans {
			if !balance.IsPositive() {
				break
			}
			amount := decimal.Min(p.Amount, balance)
			if !amount.IsPositive() {
				continue
			}
			balance = balance.Sub(amount)
			items = append(items, models.ForecastItem{
				ID:             fmt.Sprintf("debt-%d-plan-%d", debt.ID, n),
				DebtID:         &debtID,
				Description:    debtPrefix + debt.Description,
				Amount:         amount,
				Date:           dateIn(year, month, p.Day, loc),
				Type:           models.ForecastDebt,
				RawDescription: debt.Description,
			})
		}
		return items
	}

	if !debt.HasInstallment() {
		return nil
	}
	day := 1
	if debt.PaymentDay != nil {
		day = *debt.PaymentDay
	}
	return []models.ForecastItem{{
		ID:             fmt.Sprintf("debt-%d", debt.ID),
		DebtID:         &debtID,
		Description:    debtPrefix + debt.Description,
		Amount:         decimal.Min(debt.InstallmentValue.Decimal, balance),
		Date:           dateIn(year, month, day, loc),
		Type:           models.ForecastDebt,
		RawDescription: debt.Description,
	}}
}
