package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountExpenseGroup is one account's slice of a by-account report.
// TotalAmount sums only strictly positive amounts; negative amounts are
// card payments and appear in Expenses without contributing to the sum.
type AccountExpenseGroup struct {
	AccountID    string          `json:"account_id"`
	AccountName  string          `json:"account_name"`
	OwnerName    string          `json:"owner_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	ExpenseCount int             `json:"expense_count"`
	Expenses     []*Expense      `json:"expenses"`
}

// ExpensesByAccountReport is the grouped report over a date window.
type ExpensesByAccountReport struct {
	StartDate     *time.Time             `json:"start_date,omitempty"`
	EndDate       *time.Time             `json:"end_date,omitempty"`
	TotalAmount   decimal.Decimal        `json:"total_amount"`
	TotalExpenses int                    `json:"total_expenses"`
	AccountGroups []*AccountExpenseGroup `json:"account_groups"`
}
