package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ForecastItemType tags the origin of a forecast item
type ForecastItemType string

const (
	ForecastPending     ForecastItemType = "pending"
	ForecastRecurring   ForecastItemType = "recurring"
	ForecastDebt        ForecastItemType = "debt"
	ForecastIncome      ForecastItemType = "income"
	ForecastAppointment ForecastItemType = "appointment"
)

// ForecastItem is a dated financial event projected for a month.
// Items are built per request and never persisted.
type ForecastItem struct {
	ID             string           `json:"id"`
	DebtID         *int64           `json:"debt_id,omitempty"`
	Description    string           `json:"description"`
	Amount         decimal.Decimal  `json:"amount"`
	Date           time.Time        `json:"date"`
	Type           ForecastItemType `json:"type"`
	Location       string           `json:"location,omitempty"`
	ClientID       *int64           `json:"client_id,omitempty"`
	TransactionID  *int64           `json:"transaction_id,omitempty"`
	RawDescription string           `json:"raw_description,omitempty"`
}

// ForecastSummary holds totals of a forecast per item type
type ForecastSummary struct {
	Pending   decimal.Decimal `json:"pending"`
	Recurring decimal.Decimal `json:"recurring"`
	Debt      decimal.Decimal `json:"debt"`
	Income    decimal.Decimal `json:"income"`
	Expenses  decimal.Decimal `json:"expenses"`
	Net       decimal.Decimal `json:"net"`
	Items     int             `json:"items"`
}
