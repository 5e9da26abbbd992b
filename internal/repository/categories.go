package repository

import (
	"context"
	"fmt"
	"sort"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/store"
)

// CreateCategory creates a new category. Names are globally unique.
func (r *Repository) CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	category, err := domain.NewCategory(in)
	if err != nil {
		return nil, err
	}

	err = r.store.Put(ctx, categoryItem(category), store.ConditionNotExists)
	if err != nil {
		return nil, asValidation(err, "category %q already exists", category.Name)
	}

	r.log.Info().
		Str("category", category.Name).
		Str("account_id", category.AccountID).
		Msg("Created category")
	return category, nil
}

// GetCategory returns the category by name, or nil when absent.
func (r *Repository) GetCategory(ctx context.Context, name string) (*domain.Category, error) {
	key := store.Key{PK: "CATEGORY#" + name, SK: "CATEGORY#" + name}
	item, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("GetCategory: %w", err)
	}
	if item == nil {
		return nil, nil
	}
	return categoryFromItem(item)
}

// ListCategories returns all categories, oldest first, optionally restricted
// to one account.
func (r *Repository) ListCategories(ctx context.Context, accountID string) ([]*domain.Category, error) {
	pred := store.Equals("EntityType", entityCategory)
	if accountID != "" {
		pred = store.And(pred, store.Equals("account_id", accountID))
	}
	items, err := r.store.Scan(ctx, pred)
	if err != nil {
		return nil, fmt.Errorf("ListCategories: %w", err)
	}

	categories := make([]*domain.Category, 0, len(items))
	for _, item := range items {
		category, err := categoryFromItem(item)
		if err != nil {
			return nil, fmt.Errorf("ListCategories: %w", err)
		}
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].CreatedAt.Before(categories[j].CreatedAt)
	})
	return categories, nil
}

// UpdateCategory applies the given changes to a category. Nil fields are
// left unchanged. Returns nil when the category does not exist.
func (r *Repository) UpdateCategory(ctx context.Context, name string, upd domain.CategoryUpdate) (*domain.Category, error) {
	category, err := r.GetCategory(ctx, name)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, nil
	}

	var assigns []store.Assignment
	if upd.Labels != nil {
		assigns = append(assigns, store.Assignment{Attr: "labels", Value: domain.CleanLabels(upd.Labels)})
	}
	if upd.Active != nil {
		assigns = append(assigns, store.Assignment{Attr: "active", Value: *upd.Active})
	}
	if len(assigns) == 0 {
		return category, nil
	}

	key := store.Key{PK: category.PK(), SK: category.SK()}
	item, err := r.store.Update(ctx, key, assigns, store.ConditionExists)
	if err != nil {
		return nil, asValidation(err, "category %q does not exist", name)
	}
	return categoryFromItem(item)
}
