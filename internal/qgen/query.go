// Package qgen synthesizes dialect-specific SQL select expressions for
// computed and relational columns: lookups (including arbitrarily nested
// chains), rollups, link counts and their aggregation strategies.
//
// Query construction is pure: the package never touches a connection. The
// emitted SQL is handed to the row-query execution layer, which embeds it as
// a select expression correlated to the enclosing statement's base table.
package qgen

import (
	"strings"

	"github.com/smndtrl/nocodb/internal/meta"
)

// Query is a generated SQL fragment plus its bound arguments.
// For lookup builds, SQL is a complete correlated SELECT meant to be
// embedded in parentheses as a select expression.
type Query struct {
	SQL  string
	Args []any
}

// Built is the result of a lookup build. ApplyCTE, when non-nil, must be
// called by the consumer with the enclosing statement so that auxiliary
// common table expressions are prepended. The current dialect strategies
// emit everything inline and leave it nil, but consumers compose it
// unconditionally so strategies are free to start using it.
type Built struct {
	Query    Query
	ApplyCTE func(outer string) string
}

// SelectExpr renders the built subquery as a parenthesized select
// expression with the given result alias, quoted for dialect d.
func (b Built) SelectExpr(d meta.DialectType, alias string) string {
	return "(" + b.Query.SQL + ") AS " + quoteIdent(d, alias)
}

// quoteIdent wraps a SQL identifier in the dialect's quoting style:
// backticks for MySQL, ANSI double-quotes elsewhere.
func quoteIdent(d meta.DialectType, name string) string {
	if d == meta.DialectMySQL {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// colRef renders alias.column with dialect quoting.
func colRef(d meta.DialectType, alias, column string) string {
	return quoteIdent(d, alias) + "." + quoteIdent(d, column)
}

// tnPath maps a model's logical table name plus an optional alias into a
// dialect-qualified physical reference. Postgres sources with a configured
// schema get schema-qualified names.
func tnPath(src *meta.Source, m *meta.Model, alias string) string {
	d := src.Type
	name := quoteIdent(d, m.TableName)
	if src.IsPg() && src.Schema != "" {
		name = quoteIdent(d, src.Schema) + "." + name
	}
	if alias != "" {
		return name + " AS " + quoteIdent(d, alias)
	}
	return name
}
