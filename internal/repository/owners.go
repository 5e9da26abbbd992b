package repository

import (
	"context"
	"fmt"
	"sort"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/store"
)

// CreateOwner creates a new owner. Owners are immutable after creation.
func (r *Repository) CreateOwner(ctx context.Context, in domain.OwnerInput) (*domain.Owner, error) {
	owner, err := domain.NewOwner(in)
	if err != nil {
		return nil, err
	}

	err = r.store.Put(ctx, ownerItem(owner), store.ConditionNotExists)
	if err != nil {
		return nil, asValidation(err, "owner %q already exists", owner.Name)
	}

	r.cardNames.invalidate()
	r.log.Info().Str("owner", owner.Name).Msg("Created owner")
	return owner, nil
}

// GetOwner returns the owner by name, or nil when absent.
func (r *Repository) GetOwner(ctx context.Context, name string) (*domain.Owner, error) {
	key := store.Key{PK: "OWNER#" + name, SK: "OWNER#" + name}
	item, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("GetOwner: %w", err)
	}
	if item == nil {
		return nil, nil
	}
	return ownerFromItem(item)
}

// ListOwners returns all owners, oldest first.
func (r *Repository) ListOwners(ctx context.Context) ([]*domain.Owner, error) {
	items, err := r.store.Scan(ctx, store.Equals("EntityType", entityOwner))
	if err != nil {
		return nil, fmt.Errorf("ListOwners: %w", err)
	}

	owners := make([]*domain.Owner, 0, len(items))
	for _, item := range items {
		owner, err := ownerFromItem(item)
		if err != nil {
			return nil, fmt.Errorf("ListOwners: %w", err)
		}
		owners = append(owners, owner)
	}
	sort.Slice(owners, func(i, j int) bool {
		return owners[i].CreatedAt.Before(owners[j].CreatedAt)
	})
	return owners, nil
}

// CardNames returns the card names of all owners. The result is cached
// until the next owner creation invalidates it.
func (r *Repository) CardNames(ctx context.Context) ([]string, error) {
	if names, ok := r.cardNames.get(); ok {
		return names, nil
	}

	owners, err := r.ListOwners(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(owners))
	for _, owner := range owners {
		names = append(names, owner.CardName)
	}
	r.cardNames.set(names)
	return names, nil
}
