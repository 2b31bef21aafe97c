package meta

// ColumnOptions is the closed union of uidt-dependent column payloads.
// Builder logic type-switches on the concrete variants; adding a variant
// means extending every switch, which the compiler points out.
type ColumnOptions interface {
	isColumnOptions()
}

// RelationType identifies the stored shape of a link column.
type RelationType string

const (
	RelationBelongsTo  RelationType = "bt"
	RelationHasMany    RelationType = "hm"
	RelationManyToMany RelationType = "mm"

	// RelationOneToOne is symmetric in storage but asymmetric in query
	// direction; the resolver normalizes it into bt or hm using the owning
	// column's belongs-to marker.
	RelationOneToOne RelationType = "oo"
)

// RelationOptions is the payload of LinkToAnotherRecord and Links columns.
type RelationOptions struct {
	Type RelationType `yaml:"type"`

	// ChildColumnID is the foreign-key column on the child table;
	// ParentColumnID is the referenced key column on the parent table.
	ChildColumnID  string `yaml:"child_column_id"`
	ParentColumnID string `yaml:"parent_column_id"`

	// RelatedModelID is the table on the other side of the relation.
	RelatedModelID string `yaml:"related_model_id"`

	// Junction fields are set only for many-to-many relations.
	JunctionModelID        string `yaml:"junction_model_id"`
	JunctionChildColumnID  string `yaml:"junction_child_column_id"`
	JunctionParentColumnID string `yaml:"junction_parent_column_id"`

	// RefBaseID is set when the related table lives in a different base.
	// All metadata lookups for the other side must then use that base's
	// context, never the caller's.
	RefBaseID string `yaml:"ref_base_id"`
}

func (RelationOptions) isColumnOptions() {}

// LookupOptions is the payload of Lookup columns: one relation hop plus the
// target column within the related table. The target may itself be a Lookup,
// forming a chain.
type LookupOptions struct {
	RelationColumnID string `yaml:"relation_column_id"`
	TargetColumnID   string `yaml:"target_column_id"`
}

func (LookupOptions) isColumnOptions() {}

// RollupFunction is the aggregate applied by a Rollup column.
type RollupFunction string

const (
	RollupCount         RollupFunction = "count"
	RollupMin           RollupFunction = "min"
	RollupMax           RollupFunction = "max"
	RollupAvg           RollupFunction = "avg"
	RollupSum           RollupFunction = "sum"
	RollupCountDistinct RollupFunction = "countDistinct"
	RollupSumDistinct   RollupFunction = "sumDistinct"
	RollupAvgDistinct   RollupFunction = "avgDistinct"
)

// RollupOptions is the payload of Rollup columns.
type RollupOptions struct {
	RelationColumnID string         `yaml:"relation_column_id"`
	TargetColumnID   string         `yaml:"target_column_id"`
	Function         RollupFunction `yaml:"function"`
}

func (RollupOptions) isColumnOptions() {}

// FormulaOptions is the payload of Formula columns. The expression compiler
// is an external collaborator; only the raw expression is stored here.
type FormulaOptions struct {
	Expression string `yaml:"expression"`
}

func (FormulaOptions) isColumnOptions() {}

// CodeOptions is the payload of QrCode and Barcode columns: they render the
// value of another column, so query building substitutes that column.
type CodeOptions struct {
	ValueColumnID string `yaml:"value_column_id"`
}

func (CodeOptions) isColumnOptions() {}
