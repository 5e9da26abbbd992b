// Package reports derives billing windows from the statement cycle and
// aggregates expenses into by-account reports.
package reports

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"expense-tracker/internal/domain"
)

// CardPaymentsAccount is the account that absorbs card payments. Its
// expenses count toward the report's expense total but the account is
// excluded from the grand total and the group list.
const CardPaymentsAccount = "Card-Payments"

// billingCycleDay is the day of month the statement cycle starts on.
const billingCycleDay = 12

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// DeriveBillingWindow maps a 3-letter month abbreviation to the billing
// window starting on the 12th of that month and ending on the 11th of the
// next, rolling into the next year for December. A zero year means the
// current year.
func DeriveBillingWindow(month string, year int) (time.Time, time.Time, error) {
	m, ok := months[strings.ToLower(strings.TrimSpace(month))]
	if !ok {
		return time.Time{}, time.Time{}, domain.Validationf("invalid month %q", month)
	}
	if year == 0 {
		year = time.Now().UTC().Year()
	}

	start := time.Date(year, m, billingCycleDay, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes month 13 into January of the next year.
	end := time.Date(year, m+1, billingCycleDay-1, 0, 0, 0, 0, time.UTC)
	return start, end, nil
}

// ExpenseLister is the read surface the aggregator needs. The entity
// repository satisfies it.
type ExpenseLister interface {
	ListExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error)
}

// Service builds reports over stored expenses.
type Service struct {
	expenses ExpenseLister
	log      zerolog.Logger
}

// New creates a report Service.
func New(expenses ExpenseLister, log zerolog.Logger) *Service {
	return &Service{expenses: expenses, log: log}
}

// ExpensesByAccount groups filtered expenses by account. Only strictly
// positive amounts contribute to sums; negatives are payments and credits
// and ride along in the group's expense list. Expenses whose account id is
// missing or unsplittable are skipped from grouping with a log line.
func (s *Service) ExpensesByAccount(ctx context.Context, filter domain.ExpenseFilter) (*domain.ExpensesByAccountReport, error) {
	expenses, err := s.expenses.ListExpenses(ctx, filter)
	if err != nil {
		return nil, err
	}

	report := &domain.ExpensesByAccountReport{
		TotalExpenses: len(expenses),
		AccountGroups: []*domain.AccountExpenseGroup{},
	}
	if !filter.StartDate.IsZero() {
		start := filter.StartDate
		report.StartDate = &start
	}
	if !filter.EndDate.IsZero() {
		end := filter.EndDate
		report.EndDate = &end
	}

	groups := map[string]*domain.AccountExpenseGroup{}
	var order []string
	for _, exp := range expenses {
		accountName, ownerName, ok := domain.SplitAccountID(exp.AccountID)
		if !ok {
			s.log.Warn().
				Str("expense_id", exp.ID).
				Str("account_id", exp.AccountID).
				Msg("Skipping expense with unusable account id")
			continue
		}

		group, exists := groups[exp.AccountID]
		if !exists {
			group = &domain.AccountExpenseGroup{
				AccountID:   exp.AccountID,
				AccountName: accountName,
				OwnerName:   ownerName,
			}
			groups[exp.AccountID] = group
			order = append(order, exp.AccountID)
		}
		group.Expenses = append(group.Expenses, exp)
		group.ExpenseCount++
		if exp.Amount.GreaterThan(decimal.Zero) {
			group.TotalAmount = group.TotalAmount.Add(exp.Amount)
		}
	}

	for _, id := range order {
		group := groups[id]
		if group.AccountName == CardPaymentsAccount {
			continue
		}
		report.TotalAmount = report.TotalAmount.Add(group.TotalAmount)
		report.AccountGroups = append(report.AccountGroups, group)
	}

	// ListExpenses returns newest first, so per-group expense order is
	// already date descending.
	sort.SliceStable(report.AccountGroups, func(i, j int) bool {
		a, b := report.AccountGroups[i], report.AccountGroups[j]
		if a.OwnerName != b.OwnerName {
			return a.OwnerName < b.OwnerName
		}
		return a.TotalAmount.GreaterThan(b.TotalAmount)
	})
	return report, nil
}
