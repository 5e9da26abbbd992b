package domain

import (
	"strings"
	"time"
)

// Owner is the holder of one or more payment cards. Owners are immutable
// after creation; there is no update or delete operation.
type Owner struct {
	Name      string    `json:"name"`
	CardName  string    `json:"card_name"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnerInput carries the caller-supplied fields for creating an owner.
type OwnerInput struct {
	Name     string `json:"name"`
	CardName string `json:"card_name"`
}

// NewOwner validates the input and builds an Owner.
func NewOwner(in OwnerInput) (*Owner, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, Validationf("owner name cannot be empty")
	}
	cardName := strings.TrimSpace(in.CardName)
	if cardName == "" {
		return nil, Validationf("card name cannot be empty")
	}
	return &Owner{
		Name:      name,
		CardName:  cardName,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// PK returns the partition key for this owner.
func (o *Owner) PK() string { return "OWNER#" + o.Name }

// SK returns the sort key for this owner.
func (o *Owner) SK() string { return "OWNER#" + o.Name }
