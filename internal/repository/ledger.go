package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Dan9191/finance-forecast/internal/models"
)

const transactionColumns = `id, profile_id, description, amount, type, date, due_date, status,
		is_recurring, client_id, service_id, category`

// PendingExpenses returns pending or overdue expenses due in [start, end]
func (r *Repository) PendingExpenses(ctx context.Context, profileID int64, start, end time.Time) ([]models.LedgerTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM finance.transactions
		WHERE profile_id = $1
		  AND type = 'expense'
		  AND status = ANY($2)
		  AND due_date BETWEEN $3::date AND $4::date
		ORDER BY due_date, id`
	statuses := pq.Array([]string{string(models.StatusPending), string(models.StatusOverdue)})
	return r.queryTransactions(ctx, "pending expenses", query, profileID, statuses, sqlDate(start), sqlDate(end))
}

// LatestRecurring returns the latest recurring transaction per description before a date
func (r *Repository) LatestRecurring(ctx context.Context, profileID int64, txType models.TransactionType, before time.Time) ([]models.LedgerTransaction, error) {
	query := `
		SELECT DISTINCT ON (description) ` + transactionColumns + `
		FROM finance.transactions
		WHERE profile_id = $1
		  AND type = $2
		  AND is_recurring
		  AND date < $3::date
		ORDER BY description, date DESC, id DESC`
	return r.queryTransactions(ctx, "recurring transactions", query, profileID, string(txType), sqlDate(before))
}

// TransactionsByDescriptions returns transactions in [start, end] matching any of descriptions
func (r *Repository) TransactionsByDescriptions(ctx context.Context, profileID int64, txType models.TransactionType, descriptions []string, start, end time.Time) ([]models.LedgerTransaction, error) {
	if len(descriptions) == 0 {
		return nil, nil
	}
	query := `
		SELECT ` + transactionColumns + `
		FROM finance.transactions
		WHERE profile_id = $1
		  AND type = $2
		  AND description = ANY($3)
		  AND date BETWEEN $4::date AND $5::date
		ORDER BY date, id`
	return r.queryTransactions(ctx, "transactions by description", query, profileID, string(txType), pq.Array(descriptions), sqlDate(start), sqlDate(end))
}

// TransactionsInRange returns transactions of a type dated in [start, end]
func (r *Repository) TransactionsInRange(ctx context.Context, profileID int64, txType models.TransactionType, start, end time.Time) ([]models.LedgerTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM finance.transactions
		WHERE profile_id = $1
		  AND type = $2
		  AND date BETWEEN $3::date AND $4::date
		ORDER BY date, id`
	return r.queryTransactions(ctx, "transactions", query, profileID, string(txType), sqlDate(start), sqlDate(end))
}

func (r *Repository) queryTransactions(ctx context.Context, what, query string, args ...any) ([]models.LedgerTransaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", what, err)
	}
	defer rows.Close()

	var txs []models.LedgerTransaction
	for rows.Next() {
		var (
			tx                  models.LedgerTransaction
			dueDate             sql.NullTime
			clientID, serviceID sql.NullInt64
		)
		err := rows.Scan(&tx.ID, &tx.ProfileID, &tx.Description, &tx.Amount, &tx.Type, &tx.Date, &dueDate,
			&tx.Status, &tx.IsRecurring, &clientID, &serviceID, &tx.Category)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", what, err)
		}
		tx.Date = r.asDate(tx.Date)
		if dueDate.Valid {
			d := r.asDate(dueDate.Time)
			tx.DueDate = &d
		}
		tx.ClientID = nullableID(clientID)
		tx.ServiceID = nullableID(serviceID)
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", what, err)
	}
	return txs, nil
}
