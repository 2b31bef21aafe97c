package qgen

import (
	"context"

	"github.com/smndtrl/nocodb/internal/errs"
	"github.com/smndtrl/nocodb/internal/meta"
)

// RelationInfo is the fully resolved topology of one relation hop.
// Type is always normalized to bt, hm or mm; one-to-one never escapes the
// resolver.
type RelationInfo struct {
	Type meta.RelationType

	// ChildColumn is the foreign-key column on the child table;
	// ParentColumn is the referenced key on the parent table.
	ChildColumn  *meta.Column
	ParentColumn *meta.Column

	ChildModel  *meta.Model
	ParentModel *meta.Model

	// Junction fields are populated only when Type is mm.
	JunctionModel        *meta.Model
	JunctionChildColumn  *meta.Column
	JunctionParentColumn *meta.Column

	// Per-side tenant contexts. RefContext is the context of the table the
	// hop lands on (parent side for bt/mm, child side for hm); all metadata
	// lookups continuing from the landing table must use it.
	ChildContext  meta.Context
	ParentContext meta.Context
	RefContext    meta.Context
}

// RelatedModel returns the model the hop lands on.
func (ri *RelationInfo) RelatedModel() *meta.Model {
	if ri.Type == meta.RelationHasMany {
		return ri.ChildModel
	}
	return ri.ParentModel
}

// ResolveRelation resolves the relation metadata of a link column: relation
// kind and direction, both endpoint columns and models, the junction for
// many-to-many, and the tenant context of each side.
//
// One-to-one relations are normalized into bt or hm based on the owning
// column's belongs-to marker: storage is symmetric but query direction is
// not, and the marker records which side owns the foreign key.
func (b *Builder) ResolveRelation(ctx context.Context, c meta.Context, col *meta.Column) (*RelationInfo, error) {
	if !col.Type.IsLink() {
		return nil, errs.Newf(errs.ErrKindInvalidFieldType,
			"column %q has type %s, expected a link column", col.ID, col.Type)
	}
	rel, ok := col.Options.(meta.RelationOptions)
	if !ok {
		return nil, errs.Newf(errs.ErrKindInvalidFieldType,
			"link column %q carries no relation options", col.ID)
	}

	relType := rel.Type
	if relType == meta.RelationOneToOne {
		if col.BelongsToMarker() {
			relType = meta.RelationBelongsTo
		} else {
			relType = meta.RelationHasMany
		}
	}

	refCtx := c
	if rel.RefBaseID != "" && rel.RefBaseID != c.BaseID {
		refCtx = meta.Context{WorkspaceID: c.WorkspaceID, BaseID: rel.RefBaseID}
	}

	info := &RelationInfo{Type: relType, RefContext: refCtx}

	// The owning column sits on the near side; the related model is on the
	// far side and lives in refCtx. bt and mm land on the parent table,
	// hm lands on the child table.
	switch relType {
	case meta.RelationBelongsTo, meta.RelationManyToMany:
		info.ParentContext = refCtx
		info.ChildContext = c
	case meta.RelationHasMany:
		info.ParentContext = c
		info.ChildContext = refCtx
	default:
		return nil, errs.Newf(errs.ErrKindInvalidFieldType,
			"link column %q has unknown relation type %q", col.ID, rel.Type)
	}

	var err error
	if info.ChildColumn, err = b.Store.GetColumn(ctx, info.ChildContext, rel.ChildColumnID); err != nil {
		return nil, err
	}
	if info.ParentColumn, err = b.Store.GetColumn(ctx, info.ParentContext, rel.ParentColumnID); err != nil {
		return nil, err
	}
	if info.ChildModel, err = b.Store.GetModel(ctx, info.ChildContext, info.ChildColumn.ModelID); err != nil {
		return nil, err
	}
	if info.ParentModel, err = b.Store.GetModel(ctx, info.ParentContext, info.ParentColumn.ModelID); err != nil {
		return nil, err
	}

	if relType == meta.RelationManyToMany {
		// The junction lives beside the owning column, in the caller's
		// context.
		if info.JunctionModel, err = b.Store.GetModel(ctx, c, rel.JunctionModelID); err != nil {
			return nil, err
		}
		if info.JunctionChildColumn, err = b.Store.GetColumn(ctx, c, rel.JunctionChildColumnID); err != nil {
			return nil, err
		}
		if info.JunctionParentColumn, err = b.Store.GetColumn(ctx, c, rel.JunctionParentColumnID); err != nil {
			return nil, err
		}
	}

	b.Log.Debugf("resolved %s relation for column %s: child %s, parent %s",
		relType, col.ID, info.ChildModel.TableName, info.ParentModel.TableName)
	return info, nil
}
