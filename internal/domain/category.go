package domain

import (
	"strings"
	"time"
)

// UnknownCategorySuffix marks the fallback category for a card holder.
// A category named "<Holder>-Unknown" is the target for expenses that no
// categorization rule matched, and must exist before categorization can
// complete for that card holder.
const UnknownCategorySuffix = "-Unknown"

// Category is a spending category keyed by its unique name. Labels and the
// active flag are the only mutable fields.
type Category struct {
	Name      string    `json:"name"`
	Labels    []string  `json:"labels"`
	AccountID string    `json:"account_id"`
	CardName  string    `json:"card_name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryInput carries the caller-supplied fields for creating a category.
type CategoryInput struct {
	Name      string   `json:"name"`
	Labels    []string `json:"labels"`
	AccountID string   `json:"account_id"`
	CardName  string   `json:"card_name"`
	Active    *bool    `json:"active,omitempty"`
}

// CategoryUpdate carries the mutable category fields; nil means unchanged.
type CategoryUpdate struct {
	Labels []string `json:"labels"`
	Active *bool    `json:"active,omitempty"`
}

// NewCategory validates the input and builds a Category. Blank labels are
// discarded; duplicates are not.
func NewCategory(in CategoryInput) (*Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, Validationf("category name cannot be empty")
	}
	accountID := strings.TrimSpace(in.AccountID)
	if accountID == "" {
		return nil, Validationf("account id cannot be empty")
	}
	cardName := strings.TrimSpace(in.CardName)
	if cardName == "" {
		return nil, Validationf("card name cannot be empty")
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	return &Category{
		Name:      name,
		Labels:    CleanLabels(in.Labels),
		AccountID: accountID,
		CardName:  cardName,
		Active:    active,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// CleanLabels trims labels and drops empty ones, preserving order.
func CleanLabels(labels []string) []string {
	cleaned := make([]string, 0, len(labels))
	for _, label := range labels {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

// PK returns the partition key for this category.
func (c *Category) PK() string { return "CATEGORY#" + c.Name }

// SK returns the sort key for this category.
func (c *Category) SK() string { return "CATEGORY#" + c.Name }

// IsFallback reports whether this category is an "unassigned" fallback
// target for some card holder.
func (c *Category) IsFallback() bool {
	return strings.HasSuffix(c.Name, UnknownCategorySuffix)
}
