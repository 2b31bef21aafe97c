package qgen

import (
	"context"

	"github.com/smndtrl/nocodb/internal/errs"
	"github.com/smndtrl/nocodb/internal/meta"
)

// BuildRollupSelect builds the scalar select expression of a Rollup or Links
// column sitting on the base table. The result is a correlated subquery,
// single-valued by construction, so it needs no aggregation wrapper.
func (b *Builder) BuildRollupSelect(ctx context.Context, c meta.Context, col *meta.Column, baseAlias string) (*Built, error) {
	ag := NewAliasGenerator()

	var expr string
	var err error
	switch col.Type {
	case meta.UITypeRollup:
		expr, err = b.rollupExpr(ctx, c, col, baseAlias, ag)
	case meta.UITypeLinks:
		expr, err = b.rollupExprForLinks(ctx, c, col, baseAlias, ag)
	default:
		return nil, errs.Newf(errs.ErrKindInvalidFieldType,
			"column %q has type %s, expected Rollup or Links", col.ID, col.Type)
	}
	if err != nil {
		return nil, err
	}
	return &Built{Query: Query{SQL: "SELECT " + expr}}, nil
}

// rollupExpr renders a Rollup column as a correlated scalar subquery bound
// to baseAlias (the alias of the table owning the relation column).
func (b *Builder) rollupExpr(ctx context.Context, c meta.Context, col *meta.Column, baseAlias string, ag *AliasGenerator) (string, error) {
	opts, ok := col.Options.(meta.RollupOptions)
	if !ok {
		return "", errs.Newf(errs.ErrKindInvalidFieldType,
			"rollup column %q carries no rollup options", col.ID)
	}

	relCol, err := b.Store.GetColumn(ctx, c, opts.RelationColumnID)
	if err != nil {
		return "", err
	}
	ri, err := b.ResolveRelation(ctx, c, relCol)
	if err != nil {
		return "", err
	}
	target, err := b.Store.GetColumn(ctx, ri.RefContext, opts.TargetColumnID)
	if err != nil {
		return "", err
	}

	return b.rollupSubquery(ri, opts.Function, target, baseAlias, ag)
}

// rollupExprForLinks renders a Links column as the count of related rows.
func (b *Builder) rollupExprForLinks(ctx context.Context, c meta.Context, col *meta.Column, baseAlias string, ag *AliasGenerator) (string, error) {
	ri, err := b.ResolveRelation(ctx, c, col)
	if err != nil {
		return "", err
	}
	return b.rollupSubquery(ri, meta.RollupCount, nil, baseAlias, ag)
}

// rollupSubquery assembles the correlated aggregate over the resolved
// relation. target may be nil for bare counts.
func (b *Builder) rollupSubquery(ri *RelationInfo, fn meta.RollupFunction, target *meta.Column, baseAlias string, ag *AliasGenerator) (string, error) {
	d := b.Source.Type
	alias := ag.Next()

	var from, where string
	switch ri.Type {
	case meta.RelationBelongsTo:
		from = tnPath(b.Source, ri.ParentModel, alias)
		where = colRef(d, alias, ri.ParentColumn.ColumnName) +
			" = " + colRef(d, baseAlias, ri.ChildColumn.ColumnName)

	case meta.RelationHasMany:
		from = tnPath(b.Source, ri.ChildModel, alias)
		where = colRef(d, alias, ri.ChildColumn.ColumnName) +
			" = " + colRef(d, baseAlias, ri.ParentColumn.ColumnName)

	case meta.RelationManyToMany:
		jnAlias := ag.Next()
		from = tnPath(b.Source, ri.ParentModel, alias) +
			" INNER JOIN " + tnPath(b.Source, ri.JunctionModel, jnAlias) +
			" ON " + colRef(d, jnAlias, ri.JunctionParentColumn.ColumnName) +
			" = " + colRef(d, alias, ri.ParentColumn.ColumnName)
		where = colRef(d, jnAlias, ri.JunctionChildColumn.ColumnName) +
			" = " + colRef(d, baseAlias, ri.ChildColumn.ColumnName)
	}

	var targetRef string
	if target != nil {
		targetRef = colRef(d, alias, target.ColumnName)
	}
	agg, err := rollupFn(fn, targetRef)
	if err != nil {
		return "", err
	}

	return "(SELECT " + agg + " FROM " + from + " WHERE " + where + ")", nil
}

// rollupFn maps a rollup function onto its SQL aggregate. targetRef may be
// empty only for plain counts.
func rollupFn(fn meta.RollupFunction, targetRef string) (string, error) {
	switch fn {
	case meta.RollupCount:
		if targetRef == "" {
			return "COUNT(*)", nil
		}
		return "COUNT(" + targetRef + ")", nil
	case meta.RollupCountDistinct:
		return "COUNT(DISTINCT " + targetRef + ")", nil
	case meta.RollupSum:
		return "SUM(" + targetRef + ")", nil
	case meta.RollupSumDistinct:
		return "SUM(DISTINCT " + targetRef + ")", nil
	case meta.RollupAvg:
		return "AVG(" + targetRef + ")", nil
	case meta.RollupAvgDistinct:
		return "AVG(DISTINCT " + targetRef + ")", nil
	case meta.RollupMin:
		return "MIN(" + targetRef + ")", nil
	case meta.RollupMax:
		return "MAX(" + targetRef + ")", nil
	default:
		return "", errs.Newf(errs.ErrKindUnsupported, "unknown rollup function %q", fn)
	}
}
