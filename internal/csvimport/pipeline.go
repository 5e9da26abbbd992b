package csvimport

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"expense-tracker/internal/domain"
)

// ExpenseStore is the persistence surface the pipeline needs. The entity
// repository satisfies it.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, exp *domain.Expense) error
	GetExpenseByReference(ctx context.Context, reference string) (*domain.Expense, error)
	UpdateExpenseFromCSV(ctx context.Context, existing, replacement *domain.Expense) (*domain.Expense, error)
}

// Categorizer decides a category for one expense.
type Categorizer interface {
	Categorize(ctx context.Context, exp *domain.Expense) error
}

// Result aggregates one import run.
type Result struct {
	Created         int      `json:"created"`
	Updated         int      `json:"updated"`
	AutoCategorized int      `json:"auto_categorized"`
	NeedsReview     int      `json:"needs_review"`
	Processed       int      `json:"processed"`
	Errors          []string `json:"errors,omitempty"`
}

// Pipeline ingests parsed statement rows: reconcile by reference, run
// auto-categorization when the row carries no category, persist.
type Pipeline struct {
	store ExpenseStore
	cat   Categorizer
	log   zerolog.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(store ExpenseStore, cat Categorizer, log zerolog.Logger) *Pipeline {
	return &Pipeline{store: store, cat: cat, log: log}
}

// Process imports one statement file. Row failures never abort the batch;
// parse errors come first in Result.Errors, persistence errors after. The
// error return is reserved for cancellation.
func (p *Pipeline) Process(ctx context.Context, csvText string) (*Result, error) {
	inputs, parseErrs := ParseExpenses(csvText)

	result := &Result{Errors: parseErrs}
	for _, input := range inputs {
		if err := p.processRow(ctx, input, result); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			result.Errors = append(result.Errors, err.Error())
		}
	}

	p.log.Info().
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("auto_categorized", result.AutoCategorized).
		Int("needs_review", result.NeedsReview).
		Int("errors", len(result.Errors)).
		Msg("Import finished")
	return result, nil
}

func (p *Pipeline) processRow(ctx context.Context, input domain.ExpenseInput, result *Result) error {
	exp, err := domain.NewExpense(input)
	if err != nil {
		return fmt.Errorf("expense %q: %w", input.Description, err)
	}

	// A category supplied in the row is a pre-assigned category, typically
	// from a re-imported export, and skips auto-categorization.
	if exp.Category == "" {
		if err := p.cat.Categorize(ctx, exp); err != nil {
			return fmt.Errorf("categorizing expense %q: %w", exp.Description, err)
		}
		result.AutoCategorized++
		if exp.NeedsReview {
			result.NeedsReview++
		}
	}

	if exp.Reference != "" {
		existing, err := p.store.GetExpenseByReference(ctx, exp.Reference)
		if err != nil {
			return fmt.Errorf("looking up reference %q: %w", exp.Reference, err)
		}
		if existing != nil {
			if _, err := p.store.UpdateExpenseFromCSV(ctx, existing, exp); err != nil {
				return fmt.Errorf("updating expense %q: %w", exp.Reference, err)
			}
			result.Updated++
			result.Processed++
			return nil
		}
	}

	if err := p.store.CreateExpense(ctx, exp); err != nil {
		return fmt.Errorf("creating expense %q: %w", exp.Description, err)
	}
	result.Created++
	result.Processed++
	return nil
}
