package service

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
)

type assignment struct {
	path  []string
	value any
}

// Update accumulates SET assignments for a single item. Assigning the same
// path twice keeps the last value, so rendered expressions never repeat a path.
type Update struct {
	assignments []assignment
	mustExist   bool
	absent      []string
}

func NewUpdate() *Update {
	return &Update{}
}

// Set assigns a top-level attribute.
func (u *Update) Set(attribute string, value any) *Update {
	return u.SetPath(value, attribute)
}

// SetPath assigns a value at a nested map path, e.g. SetPath(v, "translations", "fr").
// The parent map must already exist on the stored item.
func (u *Update) SetPath(value any, path ...string) *Update {
	p := append([]string(nil), path...)
	for i := range u.assignments {
		if samePath(u.assignments[i].path, p) {
			u.assignments[i].value = value
			return u
		}
	}
	u.assignments = append(u.assignments, assignment{path: p, value: value})
	return u
}

// RequireExists guards the update with an existence check on the partition key.
func (u *Update) RequireExists() *Update {
	u.mustExist = true
	return u
}

// RequireAbsent guards the update with attribute_not_exists on a top-level attribute.
func (u *Update) RequireAbsent(attribute string) *Update {
	u.absent = append(u.absent, attribute)
	return u
}

func (u *Update) Len() int {
	return len(u.assignments)
}

// Paths lists the assigned attribute paths in insertion order, dot separated.
func (u *Update) Paths() []string {
	paths := make([]string, 0, len(u.assignments))
	for _, a := range u.assignments {
		paths = append(paths, strings.Join(a.path, "."))
	}
	return paths
}

func (u *Update) validate() error {
	if len(u.assignments) == 0 {
		return fmt.Errorf("%w: no attributes to set", ErrInvalidUpdate)
	}
	for _, a := range u.assignments {
		if len(a.path) == 0 {
			return fmt.Errorf("%w: empty path", ErrInvalidUpdate)
		}
		for _, part := range a.path {
			if part == "" || strings.ContainsAny(part, ".[]") {
				return fmt.Errorf("%w: bad path element %q", ErrInvalidUpdate, part)
			}
		}
	}
	return nil
}

// Build renders the update (and its existence condition) into expression
// placeholders for an UpdateItem call.
func (u *Update) Build(schema KeySchema) (expression.Expression, error) {
	if err := u.validate(); err != nil {
		return expression.Expression{}, err
	}

	var update expression.UpdateBuilder
	for i, a := range u.assignments {
		name := expression.Name(strings.Join(a.path, "."))
		if i == 0 {
			update = expression.Set(name, expression.Value(a.value))
			continue
		}
		update = update.Set(name, expression.Value(a.value))
	}

	builder := expression.NewBuilder().WithUpdate(update)
	if cond, ok := u.condition(schema); ok {
		builder = builder.WithCondition(cond)
	}

	expr, err := builder.Build()
	if err != nil {
		return expression.Expression{}, fmt.Errorf("error when build update expression: %w", err)
	}
	return expr, nil
}

func (u *Update) condition(schema KeySchema) (expression.ConditionBuilder, bool) {
	var conds []expression.ConditionBuilder
	if u.mustExist {
		conds = append(conds, expression.AttributeExists(expression.Name(schema.PartitionKey)))
	}
	for _, attr := range u.absent {
		conds = append(conds, expression.AttributeNotExists(expression.Name(attr)))
	}

	switch len(conds) {
	case 0:
		return expression.ConditionBuilder{}, false
	case 1:
		return conds[0], true
	default:
		return expression.And(conds[0], conds[1], conds[2:]...), true
	}
}

func samePath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
