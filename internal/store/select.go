package store

import (
	"fmt"
	"strings"

	"github.com/smndtrl/nocodb/internal/errs"
	"github.com/smndtrl/nocodb/internal/meta"
)

// validOps is the allowlist of comparison operators for WHERE clauses.
// The operator position cannot be parameterized, so anything outside this
// list is rejected.
var validOps = map[string]bool{
	"=":     true,
	"!=":    true,
	"<>":    true,
	"<":     true,
	">":     true,
	"<=":    true,
	">=":    true,
	"LIKE":  true,
	"ILIKE": true,
}

// SelectBuilder constructs a parameterized SELECT over one model's table
// using a fluent API. Values are never interpolated into the SQL string.
//
// Computed columns plug in through Expr: the generated subquery is embedded
// as a select expression next to the physical columns.
//
//	sql, args, err := Select("city", meta.DialectPg).
//	    Columns("id", "name").
//	    Expr(countrySub.SQL, "Country Name").
//	    Where("population", ">", 100000).
//	    Limit(25).
//	    Build()
type SelectBuilder struct {
	table   string
	alias   string
	dialect meta.DialectType
	columns []string
	exprs   []exprClause
	where   []whereClause
	orderBy []orderClause
	limit   *int
	offset  *int
}

// SortDirection controls the ORDER BY direction.
type SortDirection bool

const (
	Asc  SortDirection = false
	Desc SortDirection = true
)

type exprClause struct {
	sql   string
	alias string
}

type whereClause struct {
	column string
	op     string
	value  any
}

type orderClause struct {
	column string
	dir    SortDirection
}

// Select starts a new SelectBuilder for the given table and dialect.
func Select(table string, d meta.DialectType) *SelectBuilder {
	return &SelectBuilder{table: table, alias: table, dialect: d}
}

// As sets the table alias every embedded expression correlates against.
// Defaults to the table name.
func (b *SelectBuilder) As(alias string) *SelectBuilder {
	b.alias = alias
	return b
}

// Columns adds physical columns to the select list.
// With no columns and no expressions, SELECT * is used.
func (b *SelectBuilder) Columns(cols ...string) *SelectBuilder {
	b.columns = append(b.columns, cols...)
	return b
}

// Expr embeds a scalar subquery as a select expression under the given
// alias. The sql is emitted verbatim inside parentheses.
func (b *SelectBuilder) Expr(sql, alias string) *SelectBuilder {
	b.exprs = append(b.exprs, exprClause{sql: sql, alias: alias})
	return b
}

// Where adds a WHERE condition. op must be one of the allowed comparison
// operators. Multiple calls are combined with AND.
func (b *SelectBuilder) Where(column, op string, value any) *SelectBuilder {
	b.where = append(b.where, whereClause{column, op, value})
	return b
}

// OrderBy appends an ORDER BY clause for the given column and direction.
func (b *SelectBuilder) OrderBy(column string, dir SortDirection) *SelectBuilder {
	b.orderBy = append(b.orderBy, orderClause{column, dir})
	return b
}

// Limit sets the maximum number of rows to return.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = &n
	return b
}

// Offset sets the number of rows to skip.
func (b *SelectBuilder) Offset(n int) *SelectBuilder {
	b.offset = &n
	return b
}

// Build produces the final SQL string and argument slice.
func (b *SelectBuilder) Build() (string, []any, error) {
	var selectList []string
	for _, c := range b.columns {
		selectList = append(selectList, b.quote(b.alias)+"."+b.quote(c))
	}
	for _, e := range b.exprs {
		selectList = append(selectList, "("+e.sql+") AS "+b.quote(e.alias))
	}
	cols := "*"
	if len(selectList) > 0 {
		cols = strings.Join(selectList, ", ")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(cols)
	sb.WriteString(" FROM ")
	sb.WriteString(b.quote(b.table))
	if b.alias != b.table {
		sb.WriteString(" AS ")
		sb.WriteString(b.quote(b.alias))
	}

	var args []any
	argIdx := 1

	if len(b.where) > 0 {
		parts := make([]string, 0, len(b.where))
		for _, w := range b.where {
			op := strings.ToUpper(w.op)
			if !validOps[op] {
				return "", nil, errs.Newf(errs.ErrKindInvalidInput, "unsupported WHERE operator: %q", w.op)
			}
			parts = append(parts, fmt.Sprintf("%s %s %s", b.quote(w.column), op, b.placeholder(argIdx)))
			args = append(args, w.value)
			argIdx++
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(parts, " AND "))
	}

	if len(b.orderBy) > 0 {
		parts := make([]string, len(b.orderBy))
		for i, o := range b.orderBy {
			dir := "ASC"
			if o.dir == Desc {
				dir = "DESC"
			}
			parts[i] = fmt.Sprintf("%s %s", b.quote(o.column), dir)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(parts, ", "))
	}

	if b.limit != nil {
		sb.WriteString(" LIMIT " + b.placeholder(argIdx))
		args = append(args, *b.limit)
		argIdx++
	}
	if b.offset != nil {
		sb.WriteString(" OFFSET " + b.placeholder(argIdx))
		args = append(args, *b.offset)
	}

	return sb.String(), args, nil
}

// placeholder returns the parameter placeholder for the dialect.
// Postgres: $1, $2, …   MySQL and SQLite: ?
func (b *SelectBuilder) placeholder(idx int) string {
	if b.dialect == meta.DialectPg {
		return fmt.Sprintf("$%d", idx)
	}
	return "?"
}

// quote wraps a SQL identifier in the dialect's quoting style.
func (b *SelectBuilder) quote(name string) string {
	if b.dialect == meta.DialectMySQL {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
