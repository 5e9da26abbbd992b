package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"expense-tracker/internal/domain"
)

type stubLister struct {
	expenses []*domain.Expense
}

func (s *stubLister) ListExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	return s.expenses, nil
}

func expense(id, accountID, amount string) *domain.Expense {
	return &domain.Expense{
		ID:        id,
		AccountID: accountID,
		Amount:    decimal.RequireFromString(amount),
	}
}

func TestDeriveBillingWindow(t *testing.T) {
	tests := []struct {
		name      string
		month     string
		year      int
		wantStart time.Time
		wantEnd   time.Time
		wantErr   bool
	}{
		{
			name:      "january",
			month:     "jan",
			year:      2025,
			wantStart: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 2, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "december rolls the year",
			month:     "dec",
			year:      2025,
			wantStart: time.Date(2025, 12, 12, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "case insensitive with spaces",
			month:     " JUN ",
			year:      2025,
			wantStart: time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC),
		},
		{name: "invalid month", month: "janvier", year: 2025, wantErr: true},
		{name: "empty month", month: "", year: 2025, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := DeriveBillingWindow(tt.month, tt.year)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Errorf("want validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DeriveBillingWindow failed: %v", err)
			}
			if !start.Equal(tt.wantStart) || !end.Equal(tt.wantEnd) {
				t.Errorf("window = %v..%v, want %v..%v", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestExpensesByAccountPositiveOnlySums(t *testing.T) {
	svc := New(&stubLister{expenses: []*domain.Expense{
		expense("e1", "Amex John", "100"),
		expense("e2", "Amex John", "50"),
		expense("e3", "Amex John", "-150"),
	}}, zerolog.Nop())

	report, err := svc.ExpensesByAccount(context.Background(), domain.ExpenseFilter{})
	if err != nil {
		t.Fatalf("ExpensesByAccount failed: %v", err)
	}

	if report.TotalExpenses != 3 {
		t.Errorf("TotalExpenses = %d, want 3", report.TotalExpenses)
	}
	if !report.TotalAmount.Equal(decimal.RequireFromString("150")) {
		t.Errorf("TotalAmount = %s, want 150 (negatives excluded)", report.TotalAmount)
	}
	if len(report.AccountGroups) != 1 {
		t.Fatalf("got %d groups, want 1", len(report.AccountGroups))
	}
	group := report.AccountGroups[0]
	if group.ExpenseCount != 3 || len(group.Expenses) != 3 {
		t.Errorf("negative expense missing from the group listing: %+v", group)
	}
	if group.AccountName != "Amex" || group.OwnerName != "John" {
		t.Errorf("identifier split wrong: %q / %q", group.AccountName, group.OwnerName)
	}
}

func TestExpensesByAccountExcludesCardPayments(t *testing.T) {
	svc := New(&stubLister{expenses: []*domain.Expense{
		expense("e1", "Amex John", "100"),
		expense("e2", "Card-Payments John", "500"),
	}}, zerolog.Nop())

	report, err := svc.ExpensesByAccount(context.Background(), domain.ExpenseFilter{})
	if err != nil {
		t.Fatalf("ExpensesByAccount failed: %v", err)
	}

	if report.TotalExpenses != 2 {
		t.Errorf("TotalExpenses = %d, want 2 (card payments still counted)", report.TotalExpenses)
	}
	if !report.TotalAmount.Equal(decimal.RequireFromString("100")) {
		t.Errorf("TotalAmount = %s, want 100 without card payments", report.TotalAmount)
	}
	if len(report.AccountGroups) != 1 || report.AccountGroups[0].AccountName != "Amex" {
		t.Errorf("card-payments group must be omitted: %+v", report.AccountGroups)
	}
}

func TestExpensesByAccountSkipsUnusableAccountIDs(t *testing.T) {
	svc := New(&stubLister{expenses: []*domain.Expense{
		expense("e1", "Amex John", "100"),
		expense("e2", "", "25"),
		expense("e3", "SingleToken", "25"),
	}}, zerolog.Nop())

	report, err := svc.ExpensesByAccount(context.Background(), domain.ExpenseFilter{})
	if err != nil {
		t.Fatalf("ExpensesByAccount failed: %v", err)
	}
	if len(report.AccountGroups) != 1 {
		t.Errorf("got %d groups, want only the parseable account", len(report.AccountGroups))
	}
	if report.TotalExpenses != 3 {
		t.Errorf("TotalExpenses = %d, want 3", report.TotalExpenses)
	}
}

func TestExpensesByAccountGroupOrdering(t *testing.T) {
	svc := New(&stubLister{expenses: []*domain.Expense{
		expense("e1", "Visa Zoe", "10"),
		expense("e2", "Amex Adam", "5"),
		expense("e3", "Visa Adam", "50"),
	}}, zerolog.Nop())

	report, err := svc.ExpensesByAccount(context.Background(), domain.ExpenseFilter{})
	if err != nil {
		t.Fatalf("ExpensesByAccount failed: %v", err)
	}
	if len(report.AccountGroups) != 3 {
		t.Fatalf("got %d groups, want 3", len(report.AccountGroups))
	}

	// Owner ascending, then total descending within owner.
	wantOrder := []string{"Visa Adam", "Amex Adam", "Visa Zoe"}
	for i, want := range wantOrder {
		if report.AccountGroups[i].AccountID != want {
			t.Errorf("group[%d] = %q, want %q", i, report.AccountGroups[i].AccountID, want)
		}
	}
}

func TestExpensesByAccountWindowEcho(t *testing.T) {
	svc := New(&stubLister{}, zerolog.Nop())
	start := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 11, 0, 0, 0, 0, time.UTC)

	report, err := svc.ExpensesByAccount(context.Background(), domain.ExpenseFilter{StartDate: start, EndDate: end})
	if err != nil {
		t.Fatalf("ExpensesByAccount failed: %v", err)
	}
	if report.StartDate == nil || !report.StartDate.Equal(start) {
		t.Errorf("StartDate = %v, want %v", report.StartDate, start)
	}
	if report.EndDate == nil || !report.EndDate.Equal(end) {
		t.Errorf("EndDate = %v, want %v", report.EndDate, end)
	}
	if report.AccountGroups == nil {
		t.Error("AccountGroups must be an empty list, not nil")
	}
}
