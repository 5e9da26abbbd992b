package dynamo

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"expense-tracker/internal/store"
)

// exprBuilder translates a store.Predicate tree into a DynamoDB expression
// string with placeholder names and values. Attribute names always go
// through ExpressionAttributeNames so reserved words like "date" are safe.
type exprBuilder struct {
	names  map[string]string
	values map[string]types.AttributeValue
	n      int
}

func buildExpression(pred store.Predicate) (string, map[string]string, map[string]types.AttributeValue, error) {
	b := &exprBuilder{
		names:  make(map[string]string),
		values: make(map[string]types.AttributeValue),
	}
	expr, err := b.build(pred)
	if err != nil {
		return "", nil, nil, err
	}
	return expr, b.names, b.values, nil
}

func (b *exprBuilder) build(pred store.Predicate) (string, error) {
	if pred.Op == store.OpAnd {
		clauses := make([]string, 0, len(pred.Operands))
		for _, operand := range pred.Operands {
			clause, err := b.build(operand)
			if err != nil {
				return "", err
			}
			clauses = append(clauses, clause)
		}
		return strings.Join(clauses, " AND "), nil
	}

	nameRef, valueRef, err := b.operand(pred)
	if err != nil {
		return "", err
	}
	switch pred.Op {
	case store.OpEquals:
		return fmt.Sprintf("%s = %s", nameRef, valueRef), nil
	case store.OpBeginsWith:
		return fmt.Sprintf("begins_with(%s, %s)", nameRef, valueRef), nil
	case store.OpGreaterOrEqual:
		return fmt.Sprintf("%s >= %s", nameRef, valueRef), nil
	case store.OpLessOrEqual:
		return fmt.Sprintf("%s <= %s", nameRef, valueRef), nil
	}
	return "", fmt.Errorf("unsupported predicate op %d", pred.Op)
}

func (b *exprBuilder) operand(pred store.Predicate) (nameRef, valueRef string, err error) {
	if pred.Attr == "" {
		return "", "", fmt.Errorf("predicate is missing an attribute name")
	}
	av, err := attributevalue.Marshal(pred.Value)
	if err != nil {
		return "", "", fmt.Errorf("marshaling value for %q: %w", pred.Attr, err)
	}

	nameRef = fmt.Sprintf("#a%d", b.n)
	valueRef = fmt.Sprintf(":v%d", b.n)
	b.names[nameRef] = pred.Attr
	b.values[valueRef] = av
	b.n++
	return nameRef, valueRef, nil
}

// buildUpdateExpression renders assignments as a single SET expression.
func buildUpdateExpression(assigns []store.Assignment) (string, map[string]string, map[string]types.AttributeValue, error) {
	if len(assigns) == 0 {
		return "", nil, nil, fmt.Errorf("no assignments given")
	}

	names := make(map[string]string, len(assigns))
	values := make(map[string]types.AttributeValue, len(assigns))
	clauses := make([]string, 0, len(assigns))
	for i, assign := range assigns {
		av, err := attributevalue.Marshal(assign.Value)
		if err != nil {
			return "", nil, nil, fmt.Errorf("marshaling value for %q: %w", assign.Attr, err)
		}
		nameRef := fmt.Sprintf("#a%d", i)
		valueRef := fmt.Sprintf(":v%d", i)
		names[nameRef] = assign.Attr
		values[valueRef] = av
		clauses = append(clauses, fmt.Sprintf("%s = %s", nameRef, valueRef))
	}
	return "SET " + strings.Join(clauses, ", "), names, values, nil
}
