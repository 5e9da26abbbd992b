package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a single statement line. Optional string fields use the empty
// string for "absent". CategoryHint is nil until the expense has been
// auto-categorized, after which it is always a non-nil (possibly empty)
// list; that distinction is load-bearing and must survive storage round
// trips.
type Expense struct {
	ID                   string          `json:"expense_id"`
	Date                 time.Time       `json:"date"`
	Description          string          `json:"description"`
	CardMember           string          `json:"card_member"`
	AssignedCardMember   string          `json:"assigned_card_member"`
	AccountNumber        string          `json:"account_number,omitempty"`
	AccountID            string          `json:"account_id,omitempty"`
	Amount               decimal.Decimal `json:"amount"`
	ExtendedDetails      string          `json:"extended_details,omitempty"`
	AppearsOnStatementAs string          `json:"appears_on_statement_as,omitempty"`
	Address              string          `json:"address,omitempty"`
	CityState            string          `json:"city_state,omitempty"`
	ZipCode              string          `json:"zip_code,omitempty"`
	Country              string          `json:"country,omitempty"`
	Reference            string          `json:"reference,omitempty"`
	CategoryHint         []string        `json:"category_hint"`
	Category             string          `json:"category,omitempty"`
	IsAutoCategorized    bool            `json:"is_auto_categorized"`
	NeedsReview          bool            `json:"needs_review"`
	CreatedAt            time.Time       `json:"created_at"`
}

// ExpenseInput carries the caller-supplied fields for creating an expense,
// either directly or from one CSV row.
type ExpenseInput struct {
	Date                 time.Time       `json:"date"`
	Description          string          `json:"description"`
	CardMember           string          `json:"card_member"`
	AssignedCardMember   string          `json:"assigned_card_member,omitempty"`
	AccountNumber        string          `json:"account_number,omitempty"`
	AccountID            string          `json:"account_id,omitempty"`
	Amount               decimal.Decimal `json:"amount"`
	ExtendedDetails      string          `json:"extended_details,omitempty"`
	AppearsOnStatementAs string          `json:"appears_on_statement_as,omitempty"`
	Address              string          `json:"address,omitempty"`
	CityState            string          `json:"city_state,omitempty"`
	ZipCode              string          `json:"zip_code,omitempty"`
	Country              string          `json:"country,omitempty"`
	Reference            string          `json:"reference,omitempty"`
	CategoryHint         []string        `json:"category_hint,omitempty"`
	Category             string          `json:"category,omitempty"`
	IsAutoCategorized    bool            `json:"is_auto_categorized,omitempty"`
	NeedsReview          bool            `json:"needs_review,omitempty"`
}

// ExpenseUpdate carries the two fields an expense update may change.
// Category takes priority: when set, the assigned card member is derived
// from the category and any supplied AssignedCardMember value is ignored.
type ExpenseUpdate struct {
	AssignedCardMember string `json:"assigned_card_member,omitempty"`
	Category           string `json:"category,omitempty"`
}

// NewExpense validates the input and builds an Expense with a generated id.
// Derived-field rules are applied exactly once here: AssignedCardMember
// defaults to CardMember when unset, and CategoryHint becomes an empty list
// when the input claims auto-categorization without one.
func NewExpense(in ExpenseInput) (*Expense, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, Validationf("description cannot be empty")
	}
	cardMember := strings.TrimSpace(in.CardMember)
	if cardMember == "" {
		return nil, Validationf("card member cannot be empty")
	}
	if in.Date.IsZero() {
		return nil, Validationf("date is required")
	}

	exp := &Expense{
		ID:                   uuid.NewString(),
		Date:                 in.Date,
		Description:          description,
		CardMember:           cardMember,
		AssignedCardMember:   strings.TrimSpace(in.AssignedCardMember),
		AccountNumber:        in.AccountNumber,
		AccountID:            in.AccountID,
		Amount:               in.Amount,
		ExtendedDetails:      in.ExtendedDetails,
		AppearsOnStatementAs: in.AppearsOnStatementAs,
		Address:              in.Address,
		CityState:            in.CityState,
		ZipCode:              in.ZipCode,
		Country:              in.Country,
		Reference:            in.Reference,
		CategoryHint:         in.CategoryHint,
		Category:             in.Category,
		IsAutoCategorized:    in.IsAutoCategorized,
		NeedsReview:          in.NeedsReview,
		CreatedAt:            time.Now().UTC(),
	}
	if exp.AssignedCardMember == "" {
		exp.AssignedCardMember = exp.CardMember
	}
	if exp.IsAutoCategorized && exp.CategoryHint == nil {
		exp.CategoryHint = []string{}
	}
	return exp, nil
}

// PK returns the partition key for this expense.
func (e *Expense) PK() string { return "EXPENSE#" + e.ID }

// SK returns the sort key for this expense.
func (e *Expense) SK() string { return "EXPENSE#" + e.ID }
