package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Dan9191/finance-forecast/internal/models"
)

// ActiveDebts returns the debts of a profile with a positive balance
func (r *Repository) ActiveDebts(ctx context.Context, profileID int64) ([]models.Debt, error) {
	query := `
		SELECT id, profile_id, description, amount, installment_value, payment_day
		FROM finance.debts
		WHERE profile_id = $1 AND amount > 0
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query debts: %w", err)
	}
	defer rows.Close()

	var debts []models.Debt
	for rows.Next() {
		var (
			d          models.Debt
			paymentDay sql.NullInt32
		)
		if err := rows.Scan(&d.ID, &d.ProfileID, &d.Description, &d.Amount, &d.InstallmentValue, &paymentDay); err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		if paymentDay.Valid {
			day := int(paymentDay.Int32)
			d.PaymentDay = &day
		}
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query debts: %w", err)
	}
	return debts, nil
}

// PaymentPlansInRange returns the plans of a debt from the month of from
// through the month of to
func (r *Repository) PaymentPlansInRange(ctx context.Context, debtID int64, from, to time.Time) ([]models.DebtPaymentPlan, error) {
	query := `
		SELECT debt_id, day, month, year, amount
		FROM finance.debt_payment_plans
		WHERE debt_id = $1
		  AND year * 12 + month BETWEEN $2 AND $3
		ORDER BY year, month, day`
	rows, err := r.db.QueryContext(ctx, query, debtID, monthIndex(from), monthIndex(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query payment plans: %w", err)
	}
	defer rows.Close()

	var plans []models.DebtPaymentPlan
	for rows.Next() {
		var p models.DebtPaymentPlan
		if err := rows.Scan(&p.DebtID, &p.Day, &p.Month, &p.Year, &p.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan payment plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query payment plans: %w", err)
	}
	return plans, nil
}

func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month())
}
