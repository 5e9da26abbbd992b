package repository

import (
	"fmt"

	"github.com/shopspring/decimal"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/store"
)

// Entity-kind tags stored on every item.
const (
	entityOwner    = "Owner"
	entityAccount  = "Account"
	entityCategory = "Category"
	entityExpense  = "Expense"
)

func ownerItem(o *domain.Owner) store.Item {
	return store.Item{
		"PK":         o.PK(),
		"SK":         o.SK(),
		"EntityType": entityOwner,
		"name":       o.Name,
		"card_name":  o.CardName,
		"created_at": formatTime(o.CreatedAt),
	}
}

func ownerFromItem(item store.Item) (*domain.Owner, error) {
	createdAt, err := parseTime(itemString(item, "created_at"))
	if err != nil {
		return nil, fmt.Errorf("owner item %q: parsing created_at: %w", itemString(item, "name"), err)
	}
	return &domain.Owner{
		Name:      itemString(item, "name"),
		CardName:  itemString(item, "card_name"),
		CreatedAt: createdAt,
	}, nil
}

func accountItem(a *domain.Account) store.Item {
	return store.Item{
		"PK":           a.PK(),
		"SK":           a.SK(),
		"EntityType":   entityAccount,
		"account_name": a.AccountName,
		"bank_name":    a.BankName,
		"owner_name":   a.OwnerName,
		"card_member":  a.CardMember,
		"active":       a.Active,
		"created_at":   formatTime(a.CreatedAt),
		// GSI1 serves the accounts-by-owner access pattern.
		"GSI1PK": "OWNER#" + a.OwnerName,
		"GSI1SK": "ACCOUNT#" + a.AccountName,
	}
}

func accountFromItem(item store.Item) (*domain.Account, error) {
	createdAt, err := parseTime(itemString(item, "created_at"))
	if err != nil {
		return nil, fmt.Errorf("account item %q: parsing created_at: %w", itemString(item, "account_name"), err)
	}
	return &domain.Account{
		AccountName: itemString(item, "account_name"),
		BankName:    itemString(item, "bank_name"),
		OwnerName:   itemString(item, "owner_name"),
		CardMember:  itemString(item, "card_member"),
		Active:      itemBool(item, "active", true),
		CreatedAt:   createdAt,
	}, nil
}

func categoryItem(c *domain.Category) store.Item {
	return store.Item{
		"PK":         c.PK(),
		"SK":         c.SK(),
		"EntityType": entityCategory,
		"name":       c.Name,
		"labels":     c.Labels,
		"account_id": c.AccountID,
		"card_name":  c.CardName,
		"active":     c.Active,
		"created_at": formatTime(c.CreatedAt),
	}
}

func categoryFromItem(item store.Item) (*domain.Category, error) {
	createdAt, err := parseTime(itemString(item, "created_at"))
	if err != nil {
		return nil, fmt.Errorf("category item %q: parsing created_at: %w", itemString(item, "name"), err)
	}
	labels, ok := itemStringSlice(item, "labels")
	if !ok || labels == nil {
		labels = []string{}
	}
	return &domain.Category{
		Name:      itemString(item, "name"),
		Labels:    labels,
		AccountID: itemString(item, "account_id"),
		CardName:  itemString(item, "card_name"),
		Active:    itemBool(item, "active", true),
		CreatedAt: createdAt,
	}, nil
}

func expenseItem(e *domain.Expense) store.Item {
	item := store.Item{
		"PK":                   e.PK(),
		"SK":                   e.SK(),
		"EntityType":           entityExpense,
		"expense_id":           e.ID,
		"date":                 formatTime(e.Date),
		"description":          e.Description,
		"card_member":          e.CardMember,
		"assigned_card_member": e.AssignedCardMember,
		"amount":               e.Amount.String(),
		"is_auto_categorized":  e.IsAutoCategorized,
		"needs_review":         e.NeedsReview,
		"created_at":           formatTime(e.CreatedAt),
	}

	// Optional attributes are stored only when present, matching the
	// sparse-item convention the secondary indexes rely on.
	optional := map[string]string{
		"account_number":          e.AccountNumber,
		"account_id":              e.AccountID,
		"extended_details":        e.ExtendedDetails,
		"appears_on_statement_as": e.AppearsOnStatementAs,
		"address":                 e.Address,
		"city_state":              e.CityState,
		"zip_code":                e.ZipCode,
		"country":                 e.Country,
		"reference":               e.Reference,
		"category":                e.Category,
	}
	for attr, value := range optional {
		if value != "" {
			item[attr] = value
		}
	}

	// A nil hint means "never auto-categorized"; an empty list means the
	// engine ran and found no candidates. The attribute is absent in the
	// first case only.
	if e.CategoryHint != nil {
		item["category_hint"] = e.CategoryHint
	}

	return item
}

func expenseFromItem(item store.Item) (*domain.Expense, error) {
	id := itemString(item, "expense_id")

	date, err := parseTime(itemString(item, "date"))
	if err != nil {
		return nil, fmt.Errorf("expense item %q: parsing date: %w", id, err)
	}
	createdAt, err := parseTime(itemString(item, "created_at"))
	if err != nil {
		return nil, fmt.Errorf("expense item %q: parsing created_at: %w", id, err)
	}
	amount, err := decimal.NewFromString(itemString(item, "amount"))
	if err != nil {
		return nil, fmt.Errorf("expense item %q: parsing amount: %w", id, err)
	}

	var hint []string
	if parsed, ok := itemStringSlice(item, "category_hint"); ok {
		hint = parsed
		if hint == nil {
			hint = []string{}
		}
	}

	return &domain.Expense{
		ID:                   id,
		Date:                 date,
		Description:          itemString(item, "description"),
		CardMember:           itemString(item, "card_member"),
		AssignedCardMember:   itemString(item, "assigned_card_member"),
		AccountNumber:        itemString(item, "account_number"),
		AccountID:            itemString(item, "account_id"),
		Amount:               amount,
		ExtendedDetails:      itemString(item, "extended_details"),
		AppearsOnStatementAs: itemString(item, "appears_on_statement_as"),
		Address:              itemString(item, "address"),
		CityState:            itemString(item, "city_state"),
		ZipCode:              itemString(item, "zip_code"),
		Country:              itemString(item, "country"),
		Reference:            itemString(item, "reference"),
		CategoryHint:         hint,
		Category:             itemString(item, "category"),
		IsAutoCategorized:    itemBool(item, "is_auto_categorized", false),
		NeedsReview:          itemBool(item, "needs_review", false),
		CreatedAt:            createdAt,
	}, nil
}
