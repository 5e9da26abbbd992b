package domain

import (
	"strings"
	"time"
)

// Account is a spending account belonging to an owner. The pair
// (account name, owner name) identifies it; only the active flag is mutable.
type Account struct {
	AccountName string    `json:"account_name"`
	BankName    string    `json:"bank_name"`
	OwnerName   string    `json:"owner_name"`
	CardMember  string    `json:"card_member"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// AccountInput carries the caller-supplied fields for creating an account.
type AccountInput struct {
	AccountName string `json:"account_name"`
	BankName    string `json:"bank_name"`
	OwnerName   string `json:"owner_name"`
	CardMember  string `json:"card_member"`
	Active      *bool  `json:"active,omitempty"`
}

// NewAccount validates the input and builds an Account. The active flag
// defaults to true when not supplied.
func NewAccount(in AccountInput) (*Account, error) {
	accountName := strings.TrimSpace(in.AccountName)
	if accountName == "" {
		return nil, Validationf("account name cannot be empty")
	}
	bankName := strings.TrimSpace(in.BankName)
	if bankName == "" {
		return nil, Validationf("bank name cannot be empty")
	}
	ownerName := strings.TrimSpace(in.OwnerName)
	if ownerName == "" {
		return nil, Validationf("owner name cannot be empty")
	}
	cardMember := strings.TrimSpace(in.CardMember)
	if cardMember == "" {
		return nil, Validationf("card member cannot be empty")
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	return &Account{
		AccountName: accountName,
		BankName:    bankName,
		OwnerName:   ownerName,
		CardMember:  cardMember,
		Active:      active,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// PK returns the partition key for this account.
func (a *Account) PK() string { return "ACCOUNT#" + a.AccountName + "#" + a.OwnerName }

// SK returns the sort key for this account.
func (a *Account) SK() string { return "ACCOUNT#" + a.AccountName + "#" + a.OwnerName }

// AccountID returns the account identifier: account name + space + owner name.
func (a *Account) AccountID() string { return a.AccountName + " " + a.OwnerName }

// SplitAccountID splits an account identifier into account name and owner
// name. The owner name is the last whitespace-free token, so account names
// containing spaces are preserved. ok is false when the identifier does not
// split into exactly two non-empty parts.
func SplitAccountID(accountID string) (accountName, ownerName string, ok bool) {
	i := strings.LastIndex(accountID, " ")
	if i <= 0 || i == len(accountID)-1 {
		return "", "", false
	}
	return accountID[:i], accountID[i+1:], true
}
