package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes income from expense entries
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// TransactionStatus is the settlement state of a ledger entry
type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "completed"
	StatusPaid      TransactionStatus = "paid"
	StatusPending   TransactionStatus = "pending"
	StatusOverdue   TransactionStatus = "overdue"
)

// LedgerTransaction represents a recorded income or expense
type LedgerTransaction struct {
	ID          int64             `json:"id"`
	ProfileID   int64             `json:"profile_id"`
	Description string            `json:"description"`
	Amount      decimal.Decimal   `json:"amount"`
	Type        TransactionType   `json:"type"`
	Date        time.Time         `json:"date"`
	DueDate     *time.Time        `json:"due_date,omitempty"` // expenses with pending/overdue lifecycle only
	Status      TransactionStatus `json:"status"`
	IsRecurring bool              `json:"is_recurring"`
	ClientID    *int64            `json:"client_id,omitempty"`
	ServiceID   *int64            `json:"service_id,omitempty"`
	Category    string            `json:"category"`
}
