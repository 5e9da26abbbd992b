package repository

import (
	"context"
	"fmt"
	"sort"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/store"
)

// CreateAccount creates a new account. The (account name, owner name) pair
// must be unique; a duplicate fails with a validation error.
func (r *Repository) CreateAccount(ctx context.Context, in domain.AccountInput) (*domain.Account, error) {
	account, err := domain.NewAccount(in)
	if err != nil {
		return nil, err
	}

	err = r.store.Put(ctx, accountItem(account), store.ConditionNotExists)
	if err != nil {
		return nil, asValidation(err, "account %q already exists", account.AccountID())
	}

	r.log.Info().
		Str("account", account.AccountName).
		Str("owner", account.OwnerName).
		Msg("Created account")
	return account, nil
}

// GetAccount returns the account for the given identifier
// ("account_name owner_name"), or nil when absent or unparseable.
func (r *Repository) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	accountName, ownerName, ok := domain.SplitAccountID(accountID)
	if !ok {
		return nil, nil
	}

	pk := "ACCOUNT#" + accountName + "#" + ownerName
	item, err := r.store.Get(ctx, store.Key{PK: pk, SK: pk})
	if err != nil {
		return nil, fmt.Errorf("GetAccount: %w", err)
	}
	if item == nil {
		return nil, nil
	}
	return accountFromItem(item)
}

// ListAccounts returns all accounts, oldest first, optionally restricted to
// one owner. The owner filter is served by the secondary index; the
// unfiltered listing is a full scan over the entity kind, which is a real
// latency cliff once the table grows.
func (r *Repository) ListAccounts(ctx context.Context, ownerName string) ([]*domain.Account, error) {
	var items []store.Item
	var err error
	if ownerName != "" {
		items, err = r.store.Query(ctx, store.OwnerIndex, store.And(
			store.Equals("GSI1PK", "OWNER#"+ownerName),
			store.BeginsWith("GSI1SK", "ACCOUNT#"),
		))
	} else {
		items, err = r.store.Scan(ctx, store.Equals("EntityType", entityAccount))
	}
	if err != nil {
		return nil, fmt.Errorf("ListAccounts: %w", err)
	}

	accounts := make([]*domain.Account, 0, len(items))
	for _, item := range items {
		account, err := accountFromItem(item)
		if err != nil {
			return nil, fmt.Errorf("ListAccounts: %w", err)
		}
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts, nil
}

// UpdateAccount sets the account's active flag, the only mutable field.
// Returns nil when the account does not exist.
func (r *Repository) UpdateAccount(ctx context.Context, accountID string, active bool) (*domain.Account, error) {
	account, err := r.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}

	key := store.Key{PK: account.PK(), SK: account.SK()}
	item, err := r.store.Update(ctx, key, []store.Assignment{
		{Attr: "active", Value: active},
	}, store.ConditionExists)
	if err != nil {
		return nil, asValidation(err, "account %q does not exist", accountID)
	}
	return accountFromItem(item)
}
