package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase and trim", "  TESCO Stores  ", "tesco stores"},
		{"punctuation becomes space", "AMZN*Mktp-UK", "amzn mktp uk"},
		{"whitespace runs collapse", "uber   \t trip", "uber trip"},
		{"unicode letters survive", "Café Rouge", "café rouge"},
		{"digits survive", "3 Mobile 07700", "3 mobile 07700"},
		{"only punctuation", "***", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.input); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitAccountID(t *testing.T) {
	tests := []struct {
		name        string
		accountID   string
		accountName string
		ownerName   string
		ok          bool
	}{
		{"simple", "Amex John", "Amex", "John", true},
		{"account name with spaces", "Amex Gold Card John", "Amex Gold Card", "John", true},
		{"no separator", "AmexJohn", "", "", false},
		{"trailing space", "Amex ", "", "", false},
		{"leading space", " John", "", "", false},
		{"empty", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accountName, ownerName, ok := SplitAccountID(tt.accountID)
			if accountName != tt.accountName || ownerName != tt.ownerName || ok != tt.ok {
				t.Errorf("SplitAccountID(%q) = %q, %q, %v, want %q, %q, %v",
					tt.accountID, accountName, ownerName, ok, tt.accountName, tt.ownerName, tt.ok)
			}
		})
	}
}

func TestNewOwner(t *testing.T) {
	t.Run("trims fields", func(t *testing.T) {
		owner, err := NewOwner(OwnerInput{Name: " John ", CardName: " JOHN SMITH "})
		if err != nil {
			t.Fatalf("NewOwner failed: %v", err)
		}
		if owner.Name != "John" || owner.CardName != "JOHN SMITH" {
			t.Errorf("got %q / %q, want trimmed values", owner.Name, owner.CardName)
		}
		if owner.CreatedAt.IsZero() {
			t.Error("CreatedAt not set")
		}
	})

	t.Run("blank name is a validation error", func(t *testing.T) {
		_, err := NewOwner(OwnerInput{Name: "  ", CardName: "JOHN SMITH"})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("want ErrValidation, got %v", err)
		}
	})
}

func TestNewAccountDefaults(t *testing.T) {
	account, err := NewAccount(AccountInput{
		AccountName: "Amex",
		BankName:    "American Express",
		OwnerName:   "John",
		CardMember:  "JOHN SMITH",
	})
	if err != nil {
		t.Fatalf("NewAccount failed: %v", err)
	}
	if !account.Active {
		t.Error("active should default to true")
	}
	if account.AccountID() != "Amex John" {
		t.Errorf("AccountID() = %q, want %q", account.AccountID(), "Amex John")
	}

	inactive := false
	account, err = NewAccount(AccountInput{
		AccountName: "Amex",
		BankName:    "American Express",
		OwnerName:   "John",
		CardMember:  "JOHN SMITH",
		Active:      &inactive,
	})
	if err != nil {
		t.Fatalf("NewAccount failed: %v", err)
	}
	if account.Active {
		t.Error("explicit active=false was ignored")
	}
}

func TestNewCategoryCleansLabels(t *testing.T) {
	category, err := NewCategory(CategoryInput{
		Name:      "Groceries",
		Labels:    []string{" tesco ", "", "sainsburys", "  "},
		AccountID: "Amex John",
		CardName:  "JOHN SMITH",
	})
	if err != nil {
		t.Fatalf("NewCategory failed: %v", err)
	}
	want := []string{"tesco", "sainsburys"}
	if len(category.Labels) != len(want) {
		t.Fatalf("Labels = %v, want %v", category.Labels, want)
	}
	for i := range want {
		if category.Labels[i] != want[i] {
			t.Fatalf("Labels = %v, want %v", category.Labels, want)
		}
	}
}

func TestCategoryIsFallback(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"John-Unknown", true},
		{"Groceries", false},
		{"Unknown-Groceries", false},
	}
	for _, tt := range tests {
		c := &Category{Name: tt.name}
		if got := c.IsFallback(); got != tt.want {
			t.Errorf("IsFallback(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNewExpenseDerivedFields(t *testing.T) {
	base := ExpenseInput{
		Date:        time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Description: "TESCO STORES",
		CardMember:  "JOHN SMITH",
		Amount:      decimal.RequireFromString("42.50"),
	}

	t.Run("assigned card member defaults to card member", func(t *testing.T) {
		exp, err := NewExpense(base)
		if err != nil {
			t.Fatalf("NewExpense failed: %v", err)
		}
		if exp.AssignedCardMember != "JOHN SMITH" {
			t.Errorf("AssignedCardMember = %q, want card member", exp.AssignedCardMember)
		}
		if exp.ID == "" {
			t.Error("ID not generated")
		}
	})

	t.Run("explicit assigned card member kept", func(t *testing.T) {
		in := base
		in.AssignedCardMember = "JANE SMITH"
		exp, err := NewExpense(in)
		if err != nil {
			t.Fatalf("NewExpense failed: %v", err)
		}
		if exp.AssignedCardMember != "JANE SMITH" {
			t.Errorf("AssignedCardMember = %q, want JANE SMITH", exp.AssignedCardMember)
		}
	})

	t.Run("auto-categorized without hint gets empty hint", func(t *testing.T) {
		in := base
		in.IsAutoCategorized = true
		exp, err := NewExpense(in)
		if err != nil {
			t.Fatalf("NewExpense failed: %v", err)
		}
		if exp.CategoryHint == nil {
			t.Error("CategoryHint must be non-nil on an auto-categorized expense")
		}
	})

	t.Run("missing required fields fail validation", func(t *testing.T) {
		for name, mutate := range map[string]func(*ExpenseInput){
			"description": func(in *ExpenseInput) { in.Description = " " },
			"card member": func(in *ExpenseInput) { in.CardMember = "" },
			"date":        func(in *ExpenseInput) { in.Date = time.Time{} },
		} {
			in := base
			mutate(&in)
			if _, err := NewExpense(in); !errors.Is(err, ErrValidation) {
				t.Errorf("%s: want ErrValidation, got %v", name, err)
			}
		}
	})
}
