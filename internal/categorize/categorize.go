// Package categorize implements the three-step category decision for
// expenses: repeat what was done for the same merchant recently, otherwise
// match category labels against the description, otherwise park the expense
// in the card holder's unassigned category for manual review.
package categorize

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"expense-tracker/internal/domain"
)

// historicalWindow bounds how far back the historical match looks.
const historicalWindow = 90 * 24 * time.Hour

// amountTolerance is the absolute delta under which two amounts count as
// the same charge.
var amountTolerance = decimal.RequireFromString("0.01")

// Source is the read surface the engine needs. The entity repository
// satisfies it.
type Source interface {
	ListCategories(ctx context.Context, accountID string) ([]*domain.Category, error)
	ListExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error)
	GetCategory(ctx context.Context, name string) (*domain.Category, error)
}

// Engine assigns categories to expenses.
type Engine struct {
	src Source
	log zerolog.Logger
	now func() time.Time
}

// New creates an Engine reading from src.
func New(src Source, log zerolog.Logger) *Engine {
	return &Engine{src: src, log: log, now: time.Now}
}

// Categorize decides a category for the expense and mutates it in place:
// category, assigned card member, account id, hint and review flag. The
// three steps run in strict order and the first success wins. Returns a
// validation error when even the fallback step cannot find a category,
// which means the card holder's unassigned category was never set up.
func (e *Engine) Categorize(ctx context.Context, exp *domain.Expense) error {
	if category, ok, err := e.historicalMatch(ctx, exp); err != nil {
		return err
	} else if ok {
		e.apply(exp, category, false)
		e.log.Debug().
			Str("expense_id", exp.ID).
			Str("category", category.Name).
			Msg("Categorized by historical match")
		return nil
	}

	categories, err := e.activeCategories(ctx)
	if err != nil {
		return err
	}

	if category, ok := labelMatch(exp, categories); ok {
		e.apply(exp, category, false)
		e.log.Debug().
			Str("expense_id", exp.ID).
			Str("category", category.Name).
			Msg("Categorized by label match")
		return nil
	}

	category, ok := fallbackFor(exp.CardMember, categories)
	if !ok {
		return domain.Validationf("no fallback category exists for card member %q", exp.CardMember)
	}
	e.apply(exp, category, true)
	e.log.Debug().
		Str("expense_id", exp.ID).
		Str("category", category.Name).
		Msg("Categorized to fallback, needs review")
	return nil
}

// UpdateOnCategoryChange applies a manually chosen category to the expense,
// performing only the reassignment step. The review flag is cleared since a
// human made the call.
func (e *Engine) UpdateOnCategoryChange(ctx context.Context, exp *domain.Expense, categoryName string) error {
	category, err := e.src.GetCategory(ctx, categoryName)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.Validationf("category %q does not exist", categoryName)
	}
	exp.Category = category.Name
	exp.AssignedCardMember = category.CardName
	exp.AccountID = category.AccountID
	exp.NeedsReview = false
	return nil
}

// historicalMatch looks for a recent expense for the same merchant and
// amount and adopts its category. Fallback-categorized expenses are not
// precedents; repeating them would make one unreviewed charge sticky.
func (e *Engine) historicalMatch(ctx context.Context, exp *domain.Expense) (*domain.Category, bool, error) {
	recent, err := e.src.ListExpenses(ctx, domain.ExpenseFilter{
		StartDate: e.now().Add(-historicalWindow),
	})
	if err != nil {
		return nil, false, err
	}

	normDesc := domain.NormalizeText(exp.Description)
	for _, prior := range recent {
		if prior.ID == exp.ID {
			continue
		}
		if prior.Category == "" || strings.HasSuffix(prior.Category, domain.UnknownCategorySuffix) {
			continue
		}
		if domain.NormalizeText(prior.Description) != normDesc {
			continue
		}
		if prior.Amount.Sub(exp.Amount).Abs().GreaterThan(amountTolerance) {
			continue
		}
		category, err := e.src.GetCategory(ctx, prior.Category)
		if err != nil {
			return nil, false, err
		}
		if category == nil {
			continue
		}
		return category, true, nil
	}
	return nil, false, nil
}

func (e *Engine) activeCategories(ctx context.Context) ([]*domain.Category, error) {
	all, err := e.src.ListCategories(ctx, "")
	if err != nil {
		return nil, err
	}
	active := make([]*domain.Category, 0, len(all))
	for _, c := range all {
		if c.Active {
			active = append(active, c)
		}
	}
	return active, nil
}

// labelMatch finds the first active category with a label contained in the
// normalized description. Categories belonging to the expense's card member
// are tried before all others; within each group the existing order holds,
// and the first matching label wins outright.
func labelMatch(exp *domain.Expense, categories []*domain.Category) (*domain.Category, bool) {
	normDesc := domain.NormalizeText(exp.Description)
	normMember := domain.NormalizeText(exp.CardMember)

	var own, other []*domain.Category
	for _, c := range categories {
		if domain.NormalizeText(c.CardName) == normMember {
			own = append(own, c)
		} else {
			other = append(other, c)
		}
	}

	for _, c := range append(own, other...) {
		for _, label := range c.Labels {
			normLabel := domain.NormalizeText(label)
			if normLabel != "" && strings.Contains(normDesc, normLabel) {
				return c, true
			}
		}
	}
	return nil, false
}

// fallbackFor finds the card holder's unassigned category, matched by
// normalized card name rather than account so one fallback serves all of a
// holder's accounts.
func fallbackFor(cardMember string, categories []*domain.Category) (*domain.Category, bool) {
	normMember := domain.NormalizeText(cardMember)
	for _, c := range categories {
		if c.IsFallback() && domain.NormalizeText(c.CardName) == normMember {
			return c, true
		}
	}
	return nil, false
}

func (e *Engine) apply(exp *domain.Expense, category *domain.Category, needsReview bool) {
	exp.Category = category.Name
	exp.AssignedCardMember = category.CardName
	exp.AccountID = category.AccountID
	exp.CategoryHint = []string{}
	exp.IsAutoCategorized = true
	exp.NeedsReview = needsReview
}
