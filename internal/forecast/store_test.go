package forecast

import (
	"context"
	"slices"
	"time"

	"github.com/Dan9191/finance-forecast/internal/models"
)

// memStore is an in-memory Store honoring the filter contract
type memStore struct {
	transactions []models.LedgerTransaction
	debts        []models.Debt
	plans        []models.DebtPaymentPlan
	appointments []models.Appointment
	settings     map[int64]*models.ProfileSettings
	errs         map[string]error
}

func (m *memStore) fail(op string) error {
	return m.errs[op]
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func (m *memStore) PendingExpenses(_ context.Context, profileID int64, start, end time.Time) ([]models.LedgerTransaction, error) {
	if err := m.fail("PendingExpenses"); err != nil {
		return nil, err
	}
	var out []models.LedgerTransaction
	for _, tx := range m.transactions {
		if tx.ProfileID != profileID || tx.Type != models.TransactionExpense || tx.DueDate == nil {
			continue
		}
		if tx.Status != models.StatusPending && tx.Status != models.StatusOverdue {
			continue
		}
		if within(*tx.DueDate, start, end) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (m *memStore) LatestRecurring(_ context.Context, profileID int64, txType models.TransactionType, before time.Time) ([]models.LedgerTransaction, error) {
	if err := m.fail("LatestRecurring"); err != nil {
		return nil, err
	}
	latest := make(map[string]models.LedgerTransaction)
	var order []string
	for _, tx := range m.transactions {
		if tx.ProfileID != profileID || tx.Type != txType || !tx.IsRecurring || !tx.Date.Before(before) {
			continue
		}
		prev, ok := latest[tx.Description]
		if !ok {
			order = append(order, tx.Description)
		}
		if !ok || tx.Date.After(prev.Date) {
			latest[tx.Description] = tx
		}
	}
	out := make([]models.LedgerTransaction, 0, len(order))
	for _, d := range order {
		out = append(out, latest[d])
	}
	return out, nil
}

func (m *memStore) TransactionsByDescriptions(_ context.Context, profileID int64, txType models.TransactionType, descriptions []string, start, end time.Time) ([]models.LedgerTransaction, error) {
	if err := m.fail("TransactionsByDescriptions"); err != nil {
		return nil, err
	}
	var out []models.LedgerTransaction
	for _, tx := range m.transactions {
		if tx.ProfileID == profileID && tx.Type == txType && slices.Contains(descriptions, tx.Description) && within(tx.Date, start, end) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (m *memStore) TransactionsInRange(_ context.Context, profileID int64, txType models.TransactionType, start, end time.Time) ([]models.LedgerTransaction, error) {
	if err := m.fail("TransactionsInRange"); err != nil {
		return nil, err
	}
	var out []models.LedgerTransaction
	for _, tx := range m.transactions {
		if tx.ProfileID == profileID && tx.Type == txType && within(tx.Date, start, end) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (m *memStore) ActiveDebts(_ context.Context, profileID int64) ([]models.Debt, error) {
	if err := m.fail("ActiveDebts"); err != nil {
		return nil, err
	}
	var out []models.Debt
	for _, d := range m.debts {
		if d.ProfileID == profileID && d.Amount.IsPositive() {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memStore) PaymentPlansInRange(_ context.Context, debtID int64, from, to time.Time) ([]models.DebtPaymentPlan, error) {
	if err := m.fail("PaymentPlansInRange"); err != nil {
		return nil, err
	}
	lo := from.Year()*12 + int(from.Month())
	hi := to.Year()*12 + int(to.Month())
	var out []models.DebtPaymentPlan
	for _, p := range m.plans {
		k := p.Year*12 + p.Month
		if p.DebtID == debtID && k >= lo && k <= hi {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) AppointmentsInRange(_ context.Context, profileID int64, start, end time.Time) ([]models.Appointment, error) {
	if err := m.fail("AppointmentsInRange"); err != nil {
		return nil, err
	}
	var out []models.Appointment
	for _, a := range m.appointments {
		if a.ProfileID == profileID && within(a.Date, start, end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) ProfileSettings(_ context.Context, profileID int64) (*models.ProfileSettings, error) {
	if err := m.fail("ProfileSettings"); err != nil {
		return nil, err
	}
	return m.settings[profileID], nil
}
