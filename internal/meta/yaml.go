package meta

import (
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/smndtrl/nocodb/internal/errs"
)

// Snapshot is a whole-workspace schema definition loadable from YAML.
// It feeds MemStore for fixtures, tests and single-node bootstraps.
type Snapshot struct {
	WorkspaceID string         `yaml:"workspace_id"`
	Bases       []BaseSnapshot `yaml:"bases"`
}

// BaseSnapshot is one base (project) within a workspace.
type BaseSnapshot struct {
	BaseID  string        `yaml:"base_id"`
	Sources []*Source     `yaml:"sources"`
	Models  []yamlModel   `yaml:"models"`
	Hooks   []*Hook       `yaml:"hooks"`
}

// yamlModel mirrors Model with columns in their YAML wire shape.
type yamlModel struct {
	ID        string        `yaml:"id"`
	Title     string        `yaml:"title"`
	TableName string        `yaml:"table_name"`
	SourceID  string        `yaml:"source_id"`
	Columns   []*yamlColumn `yaml:"columns"`
}

// yamlColumn carries each options variant as an optional keyed block;
// exactly one (or none) must be set, matching the column type.
type yamlColumn struct {
	ID           string         `yaml:"id"`
	Title        string         `yaml:"title"`
	ColumnName   string         `yaml:"column_name"`
	Type         UIType         `yaml:"type"`
	Primary      bool           `yaml:"primary"`
	DisplayValue bool           `yaml:"display_value"`
	Meta         map[string]any `yaml:"meta"`

	Relation *RelationOptions `yaml:"relation"`
	Lookup   *LookupOptions   `yaml:"lookup"`
	Rollup   *RollupOptions   `yaml:"rollup"`
	Formula  *FormulaOptions  `yaml:"formula"`
	Code     *CodeOptions     `yaml:"code"`
}

func (y *yamlColumn) toColumn() (*Column, error) {
	col := &Column{
		ID:           y.ID,
		Title:        y.Title,
		ColumnName:   y.ColumnName,
		Type:         y.Type,
		Primary:      y.Primary,
		DisplayValue: y.DisplayValue,
		Meta:         y.Meta,
	}

	switch {
	case y.Relation != nil:
		col.Options = *y.Relation
	case y.Lookup != nil:
		col.Options = *y.Lookup
	case y.Rollup != nil:
		col.Options = *y.Rollup
	case y.Formula != nil:
		col.Options = *y.Formula
	case y.Code != nil:
		col.Options = *y.Code
	}

	if col.Type.IsVirtual() && col.Options == nil {
		return nil, errs.Newf(errs.ErrKindInvalidInput,
			"column %q has virtual type %s but no options block", y.ID, y.Type)
	}
	return col, nil
}

// ParseSnapshot decodes a YAML schema snapshot.
func ParseSnapshot(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&snap); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "decoding schema snapshot", err)
	}
	return &snap, nil
}

// LoadSnapshot parses a YAML schema snapshot and registers everything it
// contains into a fresh MemStore.
func LoadSnapshot(r io.Reader) (*MemStore, error) {
	snap, err := ParseSnapshot(r)
	if err != nil {
		return nil, err
	}

	store := NewMemStore()
	for _, base := range snap.Bases {
		c := Context{WorkspaceID: snap.WorkspaceID, BaseID: base.BaseID}

		for _, src := range base.Sources {
			store.AddSource(c, src)
		}

		for _, ym := range base.Models {
			m := &Model{
				ID:        ym.ID,
				Title:     ym.Title,
				TableName: ym.TableName,
				SourceID:  ym.SourceID,
			}
			for _, yc := range ym.Columns {
				col, err := yc.toColumn()
				if err != nil {
					return nil, err
				}
				m.Columns = append(m.Columns, col)
			}
			store.AddModel(c, m)
		}

		for _, h := range base.Hooks {
			store.AddHook(c, h)
		}
	}
	return store, nil
}
