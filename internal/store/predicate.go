package store

import "strings"

// PredicateOp enumerates the predicate language: equality, prefix match,
// ordered comparisons and conjunction over named attributes.
type PredicateOp int

const (
	OpEquals PredicateOp = iota
	OpBeginsWith
	OpGreaterOrEqual
	OpLessOrEqual
	OpAnd
)

// Predicate is a small tagged union evaluated by Matches. Both store
// implementations consume the same predicate values: the in-memory store
// evaluates them directly, the DynamoDB store translates them into
// expression strings.
type Predicate struct {
	Op       PredicateOp
	Attr     string
	Value    interface{}
	Operands []Predicate // OpAnd only
}

// Equals matches items whose attribute equals value.
func Equals(attr string, value interface{}) Predicate {
	return Predicate{Op: OpEquals, Attr: attr, Value: value}
}

// BeginsWith matches items whose string attribute starts with prefix.
func BeginsWith(attr, prefix string) Predicate {
	return Predicate{Op: OpBeginsWith, Attr: attr, Value: prefix}
}

// GreaterOrEqual matches items whose string attribute sorts at or after
// value. Timestamps are stored in a fixed-width format, so lexicographic
// order is time order.
func GreaterOrEqual(attr string, value interface{}) Predicate {
	return Predicate{Op: OpGreaterOrEqual, Attr: attr, Value: value}
}

// LessOrEqual matches items whose string attribute sorts at or before value.
func LessOrEqual(attr string, value interface{}) Predicate {
	return Predicate{Op: OpLessOrEqual, Attr: attr, Value: value}
}

// And matches items satisfying every operand.
func And(operands ...Predicate) Predicate {
	if len(operands) == 1 {
		return operands[0]
	}
	return Predicate{Op: OpAnd, Operands: operands}
}

// Matches evaluates the predicate against one item.
func (p Predicate) Matches(item Item) bool {
	switch p.Op {
	case OpAnd:
		for _, operand := range p.Operands {
			if !operand.Matches(item) {
				return false
			}
		}
		return true
	case OpEquals:
		return attrEqual(item[p.Attr], p.Value)
	case OpBeginsWith:
		attr, okAttr := item[p.Attr].(string)
		prefix, okVal := p.Value.(string)
		return okAttr && okVal && strings.HasPrefix(attr, prefix)
	case OpGreaterOrEqual:
		attr, want, ok := stringPair(item[p.Attr], p.Value)
		return ok && attr >= want
	case OpLessOrEqual:
		attr, want, ok := stringPair(item[p.Attr], p.Value)
		return ok && attr <= want
	}
	return false
}

func attrEqual(attr, want interface{}) bool {
	switch a := attr.(type) {
	case string:
		w, ok := want.(string)
		return ok && a == w
	case bool:
		w, ok := want.(bool)
		return ok && a == w
	}
	return false
}

func stringPair(attr, want interface{}) (string, string, bool) {
	a, okAttr := attr.(string)
	w, okWant := want.(string)
	return a, w, okAttr && okWant
}
