package csvimport

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"expense-tracker/internal/domain"
)

// mockExpenseStore records pipeline writes in memory, keyed by reference.
type mockExpenseStore struct {
	byReference map[string]*domain.Expense
	created     []*domain.Expense
	updated     []*domain.Expense
	failCreate  bool
}

func newMockExpenseStore() *mockExpenseStore {
	return &mockExpenseStore{byReference: map[string]*domain.Expense{}}
}

func (m *mockExpenseStore) CreateExpense(ctx context.Context, exp *domain.Expense) error {
	if m.failCreate {
		return fmt.Errorf("CreateExpense: store unavailable")
	}
	m.created = append(m.created, exp)
	if exp.Reference != "" {
		m.byReference[exp.Reference] = exp
	}
	return nil
}

func (m *mockExpenseStore) GetExpenseByReference(ctx context.Context, reference string) (*domain.Expense, error) {
	return m.byReference[reference], nil
}

func (m *mockExpenseStore) UpdateExpenseFromCSV(ctx context.Context, existing, replacement *domain.Expense) (*domain.Expense, error) {
	replacement.ID = existing.ID
	replacement.CreatedAt = existing.CreatedAt
	m.updated = append(m.updated, replacement)
	m.byReference[replacement.Reference] = replacement
	return replacement, nil
}

// stubCategorizer assigns a fixed category, optionally flagging for review.
type stubCategorizer struct {
	category    string
	needsReview bool
}

func (s *stubCategorizer) Categorize(ctx context.Context, exp *domain.Expense) error {
	exp.Category = s.category
	exp.CategoryHint = []string{}
	exp.IsAutoCategorized = true
	exp.NeedsReview = s.needsReview
	return nil
}

func newTestPipeline(store ExpenseStore, cat Categorizer) *Pipeline {
	return NewPipeline(store, cat, zerolog.Nop())
}

func TestProcessCreatesAndCategorizes(t *testing.T) {
	store := newMockExpenseStore()
	pipeline := newTestPipeline(store, &stubCategorizer{category: "Groceries"})

	result, err := pipeline.Process(context.Background(), csvWith(
		`15/06/2025,TESCO STORES,JOHN SMITH,42.50,,320251,`,
		`16/06/2025,UBER TRIP,JOHN SMITH,7.20,,320252,`,
	))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if result.Created != 2 || result.Updated != 0 || result.Processed != 2 {
		t.Errorf("counts = %+v, want 2 created", result)
	}
	if result.AutoCategorized != 2 {
		t.Errorf("AutoCategorized = %d, want 2", result.AutoCategorized)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	for _, exp := range store.created {
		if exp.Category != "Groceries" {
			t.Errorf("created expense not categorized: %+v", exp)
		}
	}
}

func TestProcessReconcilesByReference(t *testing.T) {
	store := newMockExpenseStore()
	pipeline := newTestPipeline(store, &stubCategorizer{category: "Groceries"})

	// First import creates.
	_, err := pipeline.Process(context.Background(), csvWith(
		`15/06/2025,TESCO STORES,JOHN SMITH,42.50,,320251,`,
	))
	if err != nil {
		t.Fatalf("first Process failed: %v", err)
	}
	originalID := store.created[0].ID

	// Re-import of the same reference updates in place.
	result, err := pipeline.Process(context.Background(), csvWith(
		`15/06/2025,TESCO STORES 2044,JOHN SMITH,43.00,,320251,`,
	))
	if err != nil {
		t.Fatalf("second Process failed: %v", err)
	}
	if result.Created != 0 || result.Updated != 1 {
		t.Errorf("counts = %+v, want 1 updated", result)
	}
	if len(store.updated) != 1 || store.updated[0].ID != originalID {
		t.Error("re-ingested row did not keep the original expense identity")
	}
}

func TestProcessPreAssignedCategorySkipsEngine(t *testing.T) {
	store := newMockExpenseStore()
	pipeline := newTestPipeline(store, &stubCategorizer{category: "WRONG"})

	result, err := pipeline.Process(context.Background(), csvWith(
		`15/06/2025,TESCO STORES,JOHN SMITH,42.50,,,Groceries`,
	))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.AutoCategorized != 0 {
		t.Errorf("AutoCategorized = %d, want 0 for pre-assigned row", result.AutoCategorized)
	}
	if store.created[0].Category != "Groceries" {
		t.Errorf("Category = %q, want the pre-assigned one", store.created[0].Category)
	}
}

func TestProcessCountsNeedsReview(t *testing.T) {
	store := newMockExpenseStore()
	pipeline := newTestPipeline(store, &stubCategorizer{category: "John-Unknown", needsReview: true})

	result, err := pipeline.Process(context.Background(), csvWith(
		`15/06/2025,MYSTERY MERCHANT,JOHN SMITH,9.99,,,`,
	))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.NeedsReview != 1 {
		t.Errorf("NeedsReview = %d, want 1", result.NeedsReview)
	}
}

func TestProcessAggregatesErrors(t *testing.T) {
	store := newMockExpenseStore()
	store.failCreate = true
	pipeline := newTestPipeline(store, &stubCategorizer{category: "Groceries"})

	result, err := pipeline.Process(context.Background(), csvWith(
		`bad-date,BROKEN ROW,JOHN SMITH,1.00,,,`,
		`15/06/2025,TESCO STORES,JOHN SMITH,42.50,,,`,
	))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.Created != 0 || result.Processed != 0 {
		t.Errorf("counts = %+v, want nothing persisted", result)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("got %d errors, want parse error plus persistence error: %v", len(result.Errors), result.Errors)
	}
	// Parse errors come first.
	if !strings.HasPrefix(result.Errors[0], "Row 2:") {
		t.Errorf("Errors[0] = %q, want the parse error first", result.Errors[0])
	}
	if !strings.Contains(result.Errors[1], "TESCO STORES") {
		t.Errorf("Errors[1] = %q, want the persistence error", result.Errors[1])
	}
}
