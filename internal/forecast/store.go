package forecast

import (
	"context"
	"time"

	"github.com/Dan9191/finance-forecast/internal/models"
)

// Store is the read-only ledger the composer draws from.
// Every range is inclusive on both ends.
type Store interface {
	// PendingExpenses returns expenses with status pending or overdue
	// whose due date falls in [start, end].
	PendingExpenses(ctx context.Context, profileID int64, start, end time.Time) ([]models.LedgerTransaction, error)
	// LatestRecurring returns the most recent recurring transaction of
	// txType per distinct description, dated before the given instant.
	LatestRecurring(ctx context.Context, profileID int64, txType models.TransactionType, before time.Time) ([]models.LedgerTransaction, error)
	// TransactionsByDescriptions returns transactions of txType in
	// [start, end] whose description is one of descriptions.
	TransactionsByDescriptions(ctx context.Context, profileID int64, txType models.TransactionType, descriptions []string, start, end time.Time) ([]models.LedgerTransaction, error)
	// TransactionsInRange returns transactions of txType dated in [start, end].
	TransactionsInRange(ctx context.Context, profileID int64, txType models.TransactionType, start, end time.Time) ([]models.LedgerTransaction, error)
	// ActiveDebts returns debts with a positive remaining amount.
	ActiveDebts(ctx context.Context, profileID int64) ([]models.Debt, error)
	// PaymentPlansInRange returns the plans of a debt for every month
	// between the months of from and to, inclusive.
	PaymentPlansInRange(ctx context.Context, debtID int64, from, to time.Time) ([]models.DebtPaymentPlan, error)
	// AppointmentsInRange returns appointments dated in [start, end].
	AppointmentsInRange(ctx context.Context, profileID int64, start, end time.Time) ([]models.Appointment, error)
	// ProfileSettings returns nil without error when the profile has none.
	ProfileSettings(ctx context.Context, profileID int64) (*models.ProfileSettings, error)
}
