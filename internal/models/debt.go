package models

import "github.com/shopspring/decimal"

// Debt represents an outstanding obligation of a profile
type Debt struct {
	ID               int64               `json:"id"`
	ProfileID        int64               `json:"profile_id"`
	Description      string              `json:"description"`
	Amount           decimal.Decimal     `json:"amount"` // remaining principal
	InstallmentValue decimal.NullDecimal `json:"installment_value"`
	PaymentDay       *int                `json:"payment_day,omitempty"` // 1-31
}

// HasInstallment reports whether the debt carries a positive default monthly payment
func (d Debt) HasInstallment() bool {
	return d.InstallmentValue.Valid && d.InstallmentValue.Decimal.IsPositive()
}

// DebtPaymentPlan overrides the default installment of a debt for one month
type DebtPaymentPlan struct {
	DebtID int64           `json:"debt_id"`
	Day    int             `json:"day"`
	Month  int             `json:"month"` // 1-12
	Year   int             `json:"year"`
	Amount decimal.Decimal `json:"amount"`
}
