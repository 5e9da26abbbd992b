package repository

import (
	"context"
	"fmt"
	"sort"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/store"
)

// searchLimit caps id-prefix search results. Prefix search is a scan, and
// an empty prefix would otherwise return the entire expense population.
const searchLimit = 1000

// CreateExpense persists an already-built expense. Ids are generated, so a
// key collision means a retry raced itself; the guarded write surfaces that
// as a validation error instead of silently overwriting.
func (r *Repository) CreateExpense(ctx context.Context, exp *domain.Expense) error {
	err := r.store.Put(ctx, expenseItem(exp), store.ConditionNotExists)
	if err != nil {
		return asValidation(err, "expense %q already exists", exp.ID)
	}
	r.log.Debug().Str("expense_id", exp.ID).Msg("Created expense")
	return nil
}

// GetExpense returns the expense by id, or nil when absent.
func (r *Repository) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	key := store.Key{PK: "EXPENSE#" + id, SK: "EXPENSE#" + id}
	item, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("GetExpense: %w", err)
	}
	if item == nil {
		return nil, nil
	}
	return expenseFromItem(item)
}

// GetExpenseByReference returns the expense carrying the given statement
// reference, or nil when none does. References are assumed unique; if the
// assumption is ever violated the first match in store order wins.
func (r *Repository) GetExpenseByReference(ctx context.Context, reference string) (*domain.Expense, error) {
	if reference == "" {
		return nil, nil
	}
	items, err := r.store.Query(ctx, store.ReferenceIndex, store.Equals("reference", reference))
	if err != nil {
		return nil, fmt.Errorf("GetExpenseByReference: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	if len(items) > 1 {
		r.log.Debug().Str("reference", reference).Int("count", len(items)).Msg("Reference is not unique")
	}
	return expenseFromItem(items[0])
}

// SearchExpensesByIDPrefix returns expenses whose id starts with the given
// prefix, newest first, capped at searchLimit.
func (r *Repository) SearchExpensesByIDPrefix(ctx context.Context, prefix string) ([]*domain.Expense, error) {
	items, err := r.store.Scan(ctx, store.BeginsWith("PK", "EXPENSE#"+prefix))
	if err != nil {
		return nil, fmt.Errorf("SearchExpensesByIDPrefix: %w", err)
	}

	expenses, err := expensesFromItems(items)
	if err != nil {
		return nil, fmt.Errorf("SearchExpensesByIDPrefix: %w", err)
	}
	sortExpensesByDateDesc(expenses)
	if len(expenses) > searchLimit {
		expenses = expenses[:searchLimit]
	}
	return expenses, nil
}

// ListExpenses returns expenses matching the filter, newest first. Date,
// account, category and review-state constraints are pushed down to the
// store; the card-member constraint compares normalized text and is applied
// here.
func (r *Repository) ListExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	preds := []store.Predicate{store.BeginsWith("PK", "EXPENSE#")}
	if !filter.StartDate.IsZero() {
		preds = append(preds, store.GreaterOrEqual("date", formatTime(filter.StartDate)))
	}
	if !filter.EndDate.IsZero() {
		preds = append(preds, store.LessOrEqual("date", formatTime(filter.EndDate)))
	}
	if filter.AccountID != "" {
		preds = append(preds, store.Equals("account_id", filter.AccountID))
	}
	if filter.Category != "" {
		preds = append(preds, store.Equals("category", filter.Category))
	}
	if filter.NeedsReview != nil {
		preds = append(preds, store.Equals("needs_review", *filter.NeedsReview))
	}

	items, err := r.store.Scan(ctx, store.And(preds...))
	if err != nil {
		return nil, fmt.Errorf("ListExpenses: %w", err)
	}
	expenses, err := expensesFromItems(items)
	if err != nil {
		return nil, fmt.Errorf("ListExpenses: %w", err)
	}

	if filter.AssignedCardMember != "" {
		want := domain.NormalizeText(filter.AssignedCardMember)
		kept := expenses[:0]
		for _, exp := range expenses {
			if domain.NormalizeText(exp.AssignedCardMember) == want {
				kept = append(kept, exp)
			}
		}
		expenses = kept
	}

	sortExpensesByDateDesc(expenses)
	return expenses, nil
}

// UpdateExpense applies a manual correction to an expense. The two
// supported changes are disjoint: assigning a category (delegated to the
// categorization engine, which derives the card member and account from
// that category and clears the review flag), or reassigning the card
// member alone. Returns nil when the expense does not exist.
func (r *Repository) UpdateExpense(ctx context.Context, id string, upd domain.ExpenseUpdate) (*domain.Expense, error) {
	expense, err := r.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, nil
	}

	var assigns []store.Assignment
	switch {
	case upd.Category != "":
		if err := r.cat.UpdateOnCategoryChange(ctx, expense, upd.Category); err != nil {
			return nil, err
		}
		assigns = []store.Assignment{
			{Attr: "category", Value: expense.Category},
			{Attr: "assigned_card_member", Value: expense.AssignedCardMember},
			{Attr: "account_id", Value: expense.AccountID},
			{Attr: "needs_review", Value: false},
		}
	case upd.AssignedCardMember != "":
		if err := r.validateCardMember(ctx, upd.AssignedCardMember); err != nil {
			return nil, err
		}
		assigns = []store.Assignment{
			{Attr: "assigned_card_member", Value: upd.AssignedCardMember},
		}
	default:
		return nil, domain.Validationf("no fields to update")
	}

	key := store.Key{PK: expense.PK(), SK: expense.SK()}
	item, err := r.store.Update(ctx, key, assigns, store.ConditionExists)
	if err != nil {
		return nil, asValidation(err, "expense %q does not exist", id)
	}
	r.log.Info().Str("expense_id", id).Msg("Updated expense")
	return expenseFromItem(item)
}

// UpdateExpenseFromCSV replaces an existing expense with a re-imported row
// that carries the same statement reference. The replacement keeps the
// existing identity and creation time; everything else comes from the new
// row. The write is unconditional: last import wins.
func (r *Repository) UpdateExpenseFromCSV(ctx context.Context, existing, replacement *domain.Expense) (*domain.Expense, error) {
	replacement.ID = existing.ID
	replacement.CreatedAt = existing.CreatedAt

	err := r.store.Put(ctx, expenseItem(replacement), store.ConditionNone)
	if err != nil {
		return nil, fmt.Errorf("UpdateExpenseFromCSV: %w", err)
	}
	r.log.Debug().
		Str("expense_id", replacement.ID).
		Str("reference", replacement.Reference).
		Msg("Replaced expense from import")
	return replacement, nil
}

// DeleteExpense removes the expense by id. Reports whether it existed.
func (r *Repository) DeleteExpense(ctx context.Context, id string) (bool, error) {
	expense, err := r.GetExpense(ctx, id)
	if err != nil {
		return false, err
	}
	if expense == nil {
		return false, nil
	}

	key := store.Key{PK: expense.PK(), SK: expense.SK()}
	if err := r.store.Delete(ctx, key, store.ConditionNone); err != nil {
		return false, fmt.Errorf("DeleteExpense: %w", err)
	}
	r.log.Info().Str("expense_id", id).Msg("Deleted expense")
	return true, nil
}

// validateCardMember checks the name against the known owner card names.
func (r *Repository) validateCardMember(ctx context.Context, name string) error {
	names, err := r.CardNames(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return domain.Validationf("no owners found in system")
	}
	for _, known := range names {
		if known == name {
			return nil
		}
	}
	return domain.Validationf("invalid card member %q", name)
}

func expensesFromItems(items []store.Item) ([]*domain.Expense, error) {
	expenses := make([]*domain.Expense, 0, len(items))
	for _, item := range items {
		exp, err := expenseFromItem(item)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, exp)
	}
	return expenses, nil
}

func sortExpensesByDateDesc(expenses []*domain.Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Date.After(expenses[j].Date)
	})
}
