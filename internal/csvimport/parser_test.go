package csvimport

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

const header = "Date,Description,Card Member,Amount,Account #,Reference,Category"

func csvWith(rows ...string) string {
	return header + "\n" + strings.Join(rows, "\n") + "\n"
}

func TestParseExpensesValidRows(t *testing.T) {
	inputs, errs := ParseExpenses(csvWith(
		`15/06/2025,TESCO STORES 2044,JOHN SMITH,"$1,042.50",-42006,320251,`,
		`16/06/2025,UBER TRIP,JANE SMITH,7.20,,320252,Travel`,
	))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(inputs) != 2 {
		t.Fatalf("got %d inputs, want 2", len(inputs))
	}

	first := inputs[0]
	if first.Description != "TESCO STORES 2044" || first.CardMember != "JOHN SMITH" {
		t.Errorf("row fields wrong: %+v", first)
	}
	if !first.Amount.Equal(decimal.RequireFromString("1042.50")) {
		t.Errorf("Amount = %s, want 1042.50 with symbol and separator stripped", first.Amount)
	}
	if first.Date.Day() != 15 || first.Date.Month() != 6 || first.Date.Year() != 2025 {
		t.Errorf("Date = %v, want 15 June 2025 (day before month)", first.Date)
	}
	if first.Reference != "320251" || first.AccountNumber != "-42006" {
		t.Errorf("optional fields wrong: %+v", first)
	}
	if first.Category != "" {
		t.Errorf("Category = %q, want empty", first.Category)
	}

	if inputs[1].Category != "Travel" {
		t.Errorf("pre-assigned category lost: %+v", inputs[1])
	}
}

func TestParseExpensesMissingRequiredColumn(t *testing.T) {
	inputs, errs := ParseExpenses("Date,Description,Amount\n15/06/2025,TESCO,5\n")
	if inputs != nil {
		t.Errorf("want no inputs on whole-file failure, got %d", len(inputs))
	}
	if len(errs) != 1 || !strings.Contains(errs[0], "Card Member") {
		t.Errorf("want single missing-column error naming Card Member, got %v", errs)
	}
}

func TestParseExpensesRowErrors(t *testing.T) {
	inputs, errs := ParseExpenses(csvWith(
		`15/06/2025,TESCO STORES,JOHN SMITH,42.50,,,`,   // row 2: ok
		`2025-06-15,BAD DATE,JOHN SMITH,1.00,,,`,        // row 3: date format
		`15/06/2025,,JOHN SMITH,1.00,,,`,                // row 4: blank description
		`15/06/2025,NO MEMBER,,1.00,,,`,                 // row 5: blank card member
		`15/06/2025,BAD AMOUNT,JOHN SMITH,abc,,,`,       // row 6: amount
		`16/06/2025,GOOD AGAIN,JOHN SMITH,"$2.00",,,`,   // row 7: ok
	))

	if len(inputs) != 2 {
		t.Errorf("got %d parsed rows, want 2", len(inputs))
	}
	if len(errs) != 4 {
		t.Fatalf("got %d errors, want 4: %v", len(errs), errs)
	}
	wantPrefixes := []string{"Row 3:", "Row 4:", "Row 5:", "Row 6:"}
	for i, prefix := range wantPrefixes {
		if !strings.HasPrefix(errs[i], prefix) {
			t.Errorf("errs[%d] = %q, want prefix %q", i, errs[i], prefix)
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"42.50", "42.50", false},
		{"$42.50", "42.50", false},
		{"$1,042.50", "1042.50", false},
		{"-150.00", "-150.00", false},
		{"", "", true},
		{"abc", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseAmount(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseAmount(%q) succeeded, want error", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAmount(%q) failed: %v", tt.raw, err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("parseAmount(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		wantErr bool
	}{
		{"valid", []byte("Date,Description\n"), false},
		{"empty", nil, true},
		{"too large", make([]byte, MaxUploadSize+1), true},
		{"invalid utf-8", []byte{0xff, 0xfe, 0xfd}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.content)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUpload() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
