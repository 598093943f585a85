package database

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/trezcool/shule/core/store"
)

// compileExpr renders e as a SQL condition. Bound values are appended to args
// and referenced by positional placeholders; a nil expression matches every
// row and an empty Or matches none, per store.Match.
func compileExpr(e store.Expr, args []interface{}) (string, []interface{}) {
	switch v := e.(type) {
	case nil:
		return "TRUE", args
	case store.Eq:
		if v.Value == nil {
			return fmt.Sprintf("%s IS NULL", pq.QuoteIdentifier(v.Field)), args
		}
		args = append(args, v.Value)
		return fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(v.Field), len(args)), args
	case store.And:
		if len(v) == 0 {
			return "TRUE", args
		}
		return compileJunction(v, " AND ", args)
	case store.Or:
		if len(v) == 0 {
			return "FALSE", args
		}
		return compileJunction(v, " OR ", args)
	default:
		return "FALSE", args
	}
}

func compileJunction(exprs []store.Expr, op string, args []interface{}) (string, []interface{}) {
	parts := make([]string, 0, len(exprs))
	for _, sub := range exprs {
		var part string
		part, args = compileExpr(sub, args)
		parts = append(parts, part)
	}
	return "(" + strings.Join(parts, op) + ")", args
}

// buildSelect assembles a filtered SELECT honoring the query's ordering and
// limit. defaultOrder is the table's natural timestamp column; filtered
// listings come back newest-first unless the query says otherwise.
func buildSelect(columns, table string, qry store.Query, defaultOrder string) (string, []interface{}) {
	cond, args := compileExpr(qry.Where, nil)

	orderBy := qry.OrderBy
	desc := qry.Desc
	if orderBy == "" {
		orderBy = defaultOrder
		desc = true
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}

	q := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s ORDER BY %s %s",
		columns, pq.QuoteIdentifier(table), cond, pq.QuoteIdentifier(orderBy), dir,
	)
	if qry.Limit > 0 {
		q = fmt.Sprintf("%s LIMIT %d", q, qry.Limit)
	}
	return q, args
}

func buildCount(table string, where store.Expr) (string, []interface{}) {
	cond, args := compileExpr(where, nil)
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", pq.QuoteIdentifier(table), cond), args
}
