// Package store defines the filter vocabulary shared by all record
// repositories: a small expression type (Eq | And | Or) that each storage
// backend compiles to its own query language. The record store supports
// field equality and AND/OR composition only; no ranges, no joins.
package store

// Expr is a filter expression over record fields.
// A nil Expr matches every record.
type Expr interface {
	expr()
}

type (
	// Eq matches records whose field equals the given value.
	Eq struct {
		Field string
		Value interface{}
	}

	// And matches records satisfying every sub-expression.
	And []Expr

	// Or matches records satisfying at least one sub-expression.
	Or []Expr
)

func (Eq) expr()  {}
func (And) expr() {}
func (Or) expr()  {}

// AnyOf builds the OR-of-equality expression used by two-phase bridging
// lookups: field == values[0] OR field == values[1] OR ...
// Callers must short-circuit before querying when values is empty; an empty
// Or matches nothing.
func AnyOf(field string, values ...string) Expr {
	ors := make(Or, 0, len(values))
	for _, v := range values {
		ors = append(ors, Eq{Field: field, Value: v})
	}
	return ors
}

// Query bundles a filter with ordering and an optional result cap.
type Query struct {
	Where   Expr
	OrderBy string // natural timestamp field; repos default to it when empty
	Desc    bool
	Limit   int // 0 = no limit
}

// Match evaluates expr against a record whose fields are resolved by get.
// It is the reference semantics all storage backends must agree with.
func Match(e Expr, get func(field string) interface{}) bool {
	switch v := e.(type) {
	case nil:
		return true
	case Eq:
		return get(v.Field) == v.Value
	case And:
		for _, sub := range v {
			if !Match(sub, get) {
				return false
			}
		}
		return true
	case Or:
		for _, sub := range v {
			if Match(sub, get) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
