package qgen

import (
	"context"
	"strings"

	"github.com/smndtrl/nocodb/internal/errs"
	"github.com/smndtrl/nocodb/internal/logger"
	"github.com/smndtrl/nocodb/internal/meta"
)

// Builder generates SQL select expressions for the computed columns of one
// source. It is pure and safe for concurrent use: every build owns its own
// alias generator.
type Builder struct {
	Store  meta.Store
	Source *meta.Source

	// Formula compiles formula expressions into SQL bound to a table alias.
	// Nil when the deployment has no formula engine; formula terminals then
	// fail as unsupported.
	Formula FormulaBuilder

	Log *logger.Logger
}

// NewBuilder returns a Builder over the given metadata store and source.
func NewBuilder(store meta.Store, source *meta.Source) *Builder {
	return &Builder{Store: store, Source: source, Log: logger.Nop()}
}

// FormulaBuilder is the narrow contract to the external formula engine.
type FormulaBuilder interface {
	// BuildExpr compiles the formula column into a SQL expression whose
	// column references are qualified with alias.
	BuildExpr(ctx context.Context, c meta.Context, col *meta.Column, model *meta.Model, alias string) (string, error)
}

// LookupParams describes one lookup build.
type LookupParams struct {
	// Column is the computed column: Lookup, LinkToAnotherRecord or Links.
	Column *meta.Column

	// BaseModel is the table the enclosing row query runs over.
	BaseModel *meta.Model

	// BaseAlias is the base table's alias in the enclosing statement.
	// Defaults to the physical table name.
	BaseAlias string

	// IsAggregate marks that the caller builds an aggregation context,
	// which permits attachment terminals.
	IsAggregate bool
}

// lookupState is the walk state threaded through the hop loop.
type lookupState struct {
	ag        *AliasGenerator
	root      string   // FROM clause of the subquery
	joins     []string // accumulated INNER JOIN fragments
	where     string   // correlation to the enclosing statement
	prevAlias string   // alias of the table the walk currently stands on
	curModel  *meta.Model
	curCtx    meta.Context

	// isBtLookup starts true and is cleared permanently by the first
	// fan-out hop (hm or mm). When still true at the end, every hop was
	// single-valued and no aggregation is needed.
	isBtLookup bool
}

// BuildLookupSelect walks the column's lookup chain and returns a correlated
// subquery selecting the terminal value, wrapped in the dialect's
// aggregation when any hop fans out.
func (b *Builder) BuildLookupSelect(ctx context.Context, c meta.Context, p LookupParams) (*Built, error) {
	baseAlias := p.BaseAlias
	if baseAlias == "" {
		baseAlias = p.BaseModel.TableName
	}

	st := &lookupState{ag: NewAliasGenerator(), isBtLookup: true}

	var target *meta.Column

	switch p.Column.Type {
	case meta.UITypeLookup:
		opts, ok := p.Column.Options.(meta.LookupOptions)
		if !ok {
			return nil, errs.Newf(errs.ErrKindInvalidFieldType,
				"lookup column %q carries no lookup options", p.Column.ID)
		}
		relCol, err := b.Store.GetColumn(ctx, c, opts.RelationColumnID)
		if err != nil {
			return nil, err
		}
		ri, err := b.firstHop(ctx, c, relCol, baseAlias, st)
		if err != nil {
			return nil, err
		}
		if target, err = b.Store.GetColumn(ctx, ri.RefContext, opts.TargetColumnID); err != nil {
			return nil, err
		}

	case meta.UITypeLinkToAnotherRecord:
		ri, err := b.firstHop(ctx, c, p.Column, baseAlias, st)
		if err != nil {
			return nil, err
		}
		target = ri.RelatedModel().DisplayValueColumn()
		if target == nil {
			return nil, errs.Newf(errs.ErrKindInvalidInput,
				"related table %q has no display value column", ri.RelatedModel().ID)
		}

	case meta.UITypeLinks:
		// A bare Links column is a scalar link count: delegate straight to
		// the rollup expression builder, correlated to the base table.
		expr, err := b.rollupExprForLinks(ctx, c, p.Column, baseAlias, st.ag)
		if err != nil {
			return nil, err
		}
		return &Built{Query: Query{SQL: "SELECT " + expr}}, nil

	default:
		return nil, errs.Newf(errs.ErrKindInvalidFieldType,
			"column %q has type %s, expected Lookup or a link column", p.Column.ID, p.Column.Type)
	}

	// Walk nested hops until the target is a terminal value column.
	for {
		if target.Type == meta.UITypeLookup {
			opts, ok := target.Options.(meta.LookupOptions)
			if !ok {
				return nil, errs.Newf(errs.ErrKindInvalidFieldType,
					"lookup column %q carries no lookup options", target.ID)
			}
			relCol, err := b.Store.GetColumn(ctx, st.curCtx, opts.RelationColumnID)
			if err != nil {
				return nil, err
			}
			ri, err := b.nestedHop(ctx, st.curCtx, relCol, st)
			if err != nil {
				return nil, err
			}
			if target, err = b.Store.GetColumn(ctx, ri.RefContext, opts.TargetColumnID); err != nil {
				return nil, err
			}
			continue
		}

		if target.Type == meta.UITypeLinkToAnotherRecord {
			ri, err := b.nestedHop(ctx, st.curCtx, target, st)
			if err != nil {
				return nil, err
			}
			target = ri.RelatedModel().DisplayValueColumn()
			if target == nil {
				return nil, errs.Newf(errs.ErrKindInvalidInput,
					"related table %q has no display value column", ri.RelatedModel().ID)
			}
			continue
		}

		// QrCode/Barcode render another column's value: substitute it and
		// re-evaluate. This is an indirection, not a relation hop.
		if target.Type == meta.UITypeQrCode || target.Type == meta.UITypeBarcode {
			opts, ok := target.Options.(meta.CodeOptions)
			if !ok {
				return nil, errs.Newf(errs.ErrKindInvalidFieldType,
					"code column %q carries no code options", target.ID)
			}
			var err error
			if target, err = b.Store.GetColumn(ctx, st.curCtx, opts.ValueColumnID); err != nil {
				return nil, err
			}
			continue
		}

		break
	}

	expr, err := b.terminalExpr(ctx, st, target, p.IsAggregate)
	if err != nil {
		return nil, err
	}

	if st.isBtLookup {
		// Every hop was belongs-to: a single row is guaranteed and the
		// subquery is usable as-is.
		return &Built{Query: Query{SQL: b.assemble(expr, "", st)}}, nil
	}

	inner := b.assemble(expr, valueAlias, st)
	wrapped, err := b.aggregateWrap(inner, st.ag.Next())
	if err != nil {
		return nil, err
	}
	return &Built{Query: Query{SQL: wrapped}}, nil
}

// valueAlias names the terminal expression inside the derived table that
// feeds the aggregation wrapper.
const valueAlias = "__v"

// assemble renders the walked chain as a SELECT statement. When exprAlias is
// non-empty the terminal expression is aliased (needed by the aggregation
// wrapper to reference it).
func (b *Builder) assemble(expr, exprAlias string, st *lookupState) string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(expr)
	if exprAlias != "" {
		sb.WriteString(" AS ")
		sb.WriteString(quoteIdent(b.Source.Type, exprAlias))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(st.root)
	for _, j := range st.joins {
		sb.WriteString(" ")
		sb.WriteString(j)
	}
	sb.WriteString(" WHERE ")
	sb.WriteString(st.where)
	return sb.String()
}

// firstHop resolves the entry relation and sets up the subquery root,
// correlated to the enclosing statement's base alias.
func (b *Builder) firstHop(ctx context.Context, c meta.Context, relCol *meta.Column, baseAlias string, st *lookupState) (*RelationInfo, error) {
	ri, err := b.ResolveRelation(ctx, c, relCol)
	if err != nil {
		return nil, err
	}

	d := b.Source.Type
	alias := st.ag.Next()

	switch ri.Type {
	case meta.RelationBelongsTo:
		// Parent table is the target: root it and correlate to the child's
		// foreign-key value in the outer statement.
		st.root = tnPath(b.Source, ri.ParentModel, alias)
		st.where = colRef(d, alias, ri.ParentColumn.ColumnName) +
			" = " + colRef(d, baseAlias, ri.ChildColumn.ColumnName)
		st.curModel = ri.ParentModel

	case meta.RelationHasMany:
		st.root = tnPath(b.Source, ri.ChildModel, alias)
		st.where = colRef(d, alias, ri.ChildColumn.ColumnName) +
			" = " + colRef(d, baseAlias, ri.ParentColumn.ColumnName)
		st.curModel = ri.ChildModel
		st.isBtLookup = false

	case meta.RelationManyToMany:
		jnAlias := st.ag.Next()
		st.root = tnPath(b.Source, ri.ParentModel, alias)
		st.joins = append(st.joins,
			"INNER JOIN "+tnPath(b.Source, ri.JunctionModel, jnAlias)+
				" ON "+colRef(d, jnAlias, ri.JunctionParentColumn.ColumnName)+
				" = "+colRef(d, alias, ri.ParentColumn.ColumnName))
		st.where = colRef(d, jnAlias, ri.JunctionChildColumn.ColumnName) +
			" = " + colRef(d, baseAlias, ri.ChildColumn.ColumnName)
		st.curModel = ri.ParentModel
		st.isBtLookup = false
	}

	st.prevAlias = alias
	st.curCtx = ri.RefContext
	return ri, nil
}

// nestedHop joins the next relation onto the alias the walk currently
// stands on and advances the cursor.
func (b *Builder) nestedHop(ctx context.Context, c meta.Context, relCol *meta.Column, st *lookupState) (*RelationInfo, error) {
	ri, err := b.ResolveRelation(ctx, c, relCol)
	if err != nil {
		return nil, err
	}

	d := b.Source.Type
	alias := st.ag.Next()

	switch ri.Type {
	case meta.RelationBelongsTo:
		st.joins = append(st.joins,
			"INNER JOIN "+tnPath(b.Source, ri.ParentModel, alias)+
				" ON "+colRef(d, alias, ri.ParentColumn.ColumnName)+
				" = "+colRef(d, st.prevAlias, ri.ChildColumn.ColumnName))
		st.curModel = ri.ParentModel

	case meta.RelationHasMany:
		st.joins = append(st.joins,
			"INNER JOIN "+tnPath(b.Source, ri.ChildModel, alias)+
				" ON "+colRef(d, alias, ri.ChildColumn.ColumnName)+
				" = "+colRef(d, st.prevAlias, ri.ParentColumn.ColumnName))
		st.curModel = ri.ChildModel
		st.isBtLookup = false

	case meta.RelationManyToMany:
		jnAlias := st.ag.Next()
		st.joins = append(st.joins,
			"INNER JOIN "+tnPath(b.Source, ri.JunctionModel, jnAlias)+
				" ON "+colRef(d, jnAlias, ri.JunctionChildColumn.ColumnName)+
				" = "+colRef(d, st.prevAlias, ri.ChildColumn.ColumnName),
			"INNER JOIN "+tnPath(b.Source, ri.ParentModel, alias)+
				" ON "+colRef(d, alias, ri.ParentColumn.ColumnName)+
				" = "+colRef(d, jnAlias, ri.JunctionParentColumn.ColumnName))
		st.curModel = ri.ParentModel
		st.isBtLookup = false
	}

	st.prevAlias = alias
	st.curCtx = ri.RefContext
	return ri, nil
}

// terminalExpr renders the select expression for the terminal value column,
// qualified with the alias the walk ended on.
func (b *Builder) terminalExpr(ctx context.Context, st *lookupState, target *meta.Column, isAggregate bool) (string, error) {
	d := b.Source.Type

	switch target.Type {
	case meta.UITypeRollup:
		return b.rollupExpr(ctx, st.curCtx, target, st.prevAlias, st.ag)

	case meta.UITypeLinks:
		return b.rollupExprForLinks(ctx, st.curCtx, target, st.prevAlias, st.ag)

	case meta.UITypeFormula:
		if b.Formula == nil {
			return "", errs.Newf(errs.ErrKindUnsupported,
				"formula column %q: no formula engine configured", target.ID)
		}
		return b.Formula.BuildExpr(ctx, st.curCtx, target, st.curModel, st.prevAlias)

	case meta.UITypeDate, meta.UITypeDateTime, meta.UITypeCreatedTime, meta.UITypeLastModifiedTime:
		return b.dateSelect(st.prevAlias, target), nil

	case meta.UITypeAttachment:
		if !isAggregate {
			return "", errs.New(errs.ErrKindUnsupported,
				"group or sort by attachment is not supported")
		}
		return colRef(d, st.prevAlias, target.ColumnName), nil

	default:
		return colRef(d, st.prevAlias, target.ColumnName), nil
	}
}
