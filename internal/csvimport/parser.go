// Package csvimport parses card-statement CSV exports and runs the
// ingestion pipeline that reconciles rows against stored expenses.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"expense-tracker/internal/domain"
)

// MaxUploadSize caps accepted statement files. Statements run a few
// hundred rows; anything bigger is not a statement.
const MaxUploadSize = 500 * 1024

const dateLayout = "02/01/2006"

// Required statement columns. Optional columns map 1:1 onto expense
// metadata fields.
var requiredColumns = []string{"Date", "Description", "Card Member", "Amount"}

// ValidateUpload rejects files the parser should never see: empty, too
// large, or not UTF-8 text.
func ValidateUpload(content []byte) error {
	if len(content) == 0 {
		return domain.Validationf("uploaded file is empty")
	}
	if len(content) > MaxUploadSize {
		return domain.Validationf("uploaded file exceeds %d bytes", MaxUploadSize)
	}
	if !utf8.Valid(content) {
		return domain.Validationf("uploaded file is not valid UTF-8")
	}
	return nil
}

// ParseExpenses parses statement CSV text into expense inputs. Row-level
// failures become error strings ("Row N: reason", header counts as row 1)
// and do not stop the parse; a missing required column fails the whole file
// with a single error.
func ParseExpenses(csvText string) ([]domain.ExpenseInput, []string) {
	reader := csv.NewReader(strings.NewReader(csvText))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, []string{fmt.Sprintf("reading header: %v", err)}
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, []string{fmt.Sprintf("missing required column(s): %s", strings.Join(missing, ", "))}
	}

	var inputs []domain.ExpenseInput
	var errs []string
	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}

		field := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		input, err := parseRow(field)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		inputs = append(inputs, input)
	}
	return inputs, errs
}

func parseRow(field func(string) string) (domain.ExpenseInput, error) {
	var input domain.ExpenseInput

	rawDate := field("Date")
	date, err := time.Parse(dateLayout, rawDate)
	if err != nil {
		return input, fmt.Errorf("invalid date %q, expected DD/MM/YYYY", rawDate)
	}

	description := field("Description")
	if description == "" {
		return input, fmt.Errorf("description cannot be empty")
	}
	cardMember := field("Card Member")
	if cardMember == "" {
		return input, fmt.Errorf("card member cannot be empty")
	}

	amount, err := parseAmount(field("Amount"))
	if err != nil {
		return input, err
	}

	input = domain.ExpenseInput{
		Date:                 date,
		Description:          description,
		CardMember:           cardMember,
		Amount:               amount,
		AccountNumber:        field("Account #"),
		ExtendedDetails:      field("Extended Details"),
		AppearsOnStatementAs: field("Appears On Your Statement As"),
		Address:              field("Address"),
		CityState:            field("City/State"),
		ZipCode:              field("Zip Code"),
		Country:              field("Country"),
		Reference:            field("Reference"),
		Category:             field("Category"),
	}
	return input, nil
}

// parseAmount strips a currency symbol and thousands separators before
// arbitrary-precision parsing.
func parseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(raw, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q", raw)
	}
	return amount, nil
}
