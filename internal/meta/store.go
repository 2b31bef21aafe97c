package meta

import "context"

// Store is the metadata accessor contract consumed by the query builder and
// the webhook engine. All methods are keyed by (tenant Context, id) and
// return entity snapshots; implementations may fetch lazily and must be safe
// for concurrent use.
type Store interface {
	// GetColumn returns the column with the given id.
	GetColumn(ctx context.Context, c Context, columnID string) (*Column, error)

	// GetColumns returns all columns of the given model.
	GetColumns(ctx context.Context, c Context, modelID string) ([]*Column, error)

	// GetModel returns the model with the given id, columns included.
	GetModel(ctx context.Context, c Context, modelID string) (*Model, error)

	// GetSource returns the source (connection/dialect descriptor) with the
	// given id.
	GetSource(ctx context.Context, c Context, sourceID string) (*Source, error)

	// GetHook returns the hook with the given id.
	GetHook(ctx context.Context, c Context, hookID string) (*Hook, error)

	// GetHookFilters returns the hook's top-level condition tree.
	GetHookFilters(ctx context.Context, c Context, hookID string) ([]*Filter, error)
}

// RelatedModel resolves the model on the other side of a relation column,
// using the relation's own reference context when the target lives in a
// different base.
func RelatedModel(ctx context.Context, s Store, c Context, rel RelationOptions) (*Model, Context, error) {
	refCtx := c
	if rel.RefBaseID != "" && rel.RefBaseID != c.BaseID {
		refCtx = Context{WorkspaceID: c.WorkspaceID, BaseID: rel.RefBaseID}
	}
	m, err := s.GetModel(ctx, refCtx, rel.RelatedModelID)
	if err != nil {
		return nil, Context{}, err
	}
	return m, refCtx, nil
}
