package domain

import "time"

// ExpenseFilter narrows expense listings. Zero values mean "no constraint";
// NeedsReview is a pointer so false can be filtered on explicitly.
type ExpenseFilter struct {
	StartDate          time.Time
	EndDate            time.Time
	AccountID          string
	Category           string
	AssignedCardMember string
	NeedsReview        *bool
}
