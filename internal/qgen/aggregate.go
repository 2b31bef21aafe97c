package qgen

import (
	"github.com/smndtrl/nocodb/internal/errs"
	"github.com/smndtrl/nocodb/internal/meta"
)

// GroupConcatSeparator joins fan-out values on SQLite, which has no JSON
// aggregate functions. Consumers split on it; values containing the
// separator are a documented limitation, not enforced here.
const GroupConcatSeparator = "___"

// aggregateWrap wraps the built chain as a derived table and aggregates the
// terminal value per dialect. Called only when some hop fanned out.
func (b *Builder) aggregateWrap(inner, derivedAlias string) (string, error) {
	d := b.Source.Type
	val := colRef(d, derivedAlias, valueAlias)
	from := " FROM (" + inner + ") AS " + quoteIdent(d, derivedAlias)

	switch d {
	case meta.DialectPg:
		return "SELECT json_agg(" + val + ")::text" + from, nil
	case meta.DialectMySQL:
		return "SELECT CAST(JSON_ARRAYAGG(" + val + ") AS CHAR)" + from, nil
	case meta.DialectSQLite:
		return "SELECT group_concat(" + val + ", '" + GroupConcatSeparator + "')" + from, nil
	default:
		return "", errs.Newf(errs.ErrKindUnsupported,
			"no aggregation strategy for dialect %q", d)
	}
}

// dateSelect serializes a date-family column to text so that values survive
// the JSON/string aggregation unchanged across drivers.
func (b *Builder) dateSelect(alias string, col *meta.Column) string {
	ref := colRef(b.Source.Type, alias, col.ColumnName)
	switch b.Source.Type {
	case meta.DialectPg:
		return ref + "::text"
	case meta.DialectMySQL:
		return "CAST(" + ref + " AS CHAR)"
	default:
		// SQLite stores date-family values as text already.
		return ref
	}
}
