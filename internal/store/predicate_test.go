package store

import "testing"

func TestPredicateMatches(t *testing.T) {
	item := Item{
		"PK":           "EXPENSE#abc-123",
		"SK":           "EXPENSE#abc-123",
		"EntityType":   "Expense",
		"date":         "2025-06-15T00:00:00Z",
		"category":     "Groceries",
		"needs_review": false,
	}

	tests := []struct {
		name string
		pred Predicate
		want bool
	}{
		{"equals string match", Equals("category", "Groceries"), true},
		{"equals string mismatch", Equals("category", "Travel"), false},
		{"equals bool match", Equals("needs_review", false), true},
		{"equals bool mismatch", Equals("needs_review", true), false},
		{"equals missing attribute", Equals("reference", "320251"), false},
		{"equals type mismatch", Equals("needs_review", "false"), false},
		{"begins_with match", BeginsWith("PK", "EXPENSE#"), true},
		{"begins_with mismatch", BeginsWith("PK", "OWNER#"), false},
		{"begins_with missing attribute", BeginsWith("reference", "3"), false},
		{"gte equal boundary", GreaterOrEqual("date", "2025-06-15T00:00:00Z"), true},
		{"gte below", GreaterOrEqual("date", "2025-06-16T00:00:00Z"), false},
		{"lte equal boundary", LessOrEqual("date", "2025-06-15T00:00:00Z"), true},
		{"lte above", LessOrEqual("date", "2025-06-14T00:00:00Z"), false},
		{
			"and all match",
			And(BeginsWith("PK", "EXPENSE#"), Equals("category", "Groceries"), Equals("needs_review", false)),
			true,
		},
		{
			"and one fails",
			And(BeginsWith("PK", "EXPENSE#"), Equals("category", "Travel")),
			false,
		},
		{"empty and matches everything", And(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred.Matches(item); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAndFlattensSingleOperand(t *testing.T) {
	inner := Equals("category", "Groceries")
	got := And(inner)
	if got.Op != OpEquals || got.Attr != "category" {
		t.Errorf("And with one operand should return the operand, got op %v attr %q", got.Op, got.Attr)
	}
}

func TestItemKey(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want Key
		ok   bool
	}{
		{"valid", Item{"PK": "OWNER#John", "SK": "OWNER#John"}, Key{PK: "OWNER#John", SK: "OWNER#John"}, true},
		{"missing sk", Item{"PK": "OWNER#John"}, Key{}, false},
		{"empty pk", Item{"PK": "", "SK": "OWNER#John"}, Key{}, false},
		{"non-string pk", Item{"PK": 42, "SK": "OWNER#John"}, Key{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ItemKey(tt.item)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ItemKey() = %v, %v, want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}
