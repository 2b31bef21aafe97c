package meta

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSnapshot = `
workspace_id: w1
bases:
  - base_id: b1
    sources:
      - id: src1
        type: pg
        schema: public
    models:
      - id: md_country
        title: Country
        table_name: country
        source_id: src1
        columns:
          - id: fld_country_id
            title: Id
            column_name: id
            type: ID
            primary: true
          - id: fld_country_name
            title: Name
            column_name: name
            type: SingleLineText
            display_value: true
      - id: md_city
        title: City
        table_name: city
        source_id: src1
        columns:
          - id: fld_city_id
            title: Id
            column_name: id
            type: ID
            primary: true
          - id: fld_city_country
            title: Country
            type: LinkToAnotherRecord
            relation:
              type: bt
              child_column_id: fld_city_country_fk
              parent_column_id: fld_country_id
              related_model_id: md_country
          - id: fld_city_country_fk
            title: CountryFk
            column_name: country_id
            type: Number
          - id: fld_country_name_lk
            title: Country Name
            type: Lookup
            lookup:
              relation_column_id: fld_city_country
              target_column_id: fld_country_name
    hooks:
      - id: hk1
        title: notify
        model_id: md_city
        version: v2
        event: after
        operation: insert
        condition: true
        notification:
          type: URL
          payload:
            method: POST
            path: "https://example.com/sink"
        filters:
          - id: f1
            fk_column_id: fld_city_id
            comparison_op: notnull
`

func TestLoadSnapshot(t *testing.T) {
	store, err := LoadSnapshot(strings.NewReader(sampleSnapshot))
	require.NoError(t, err)

	ctx := context.Background()
	c := Context{WorkspaceID: "w1", BaseID: "b1"}

	city, err := store.GetModel(ctx, c, "md_city")
	require.NoError(t, err)
	assert.Equal(t, "city", city.TableName)
	assert.Len(t, city.Columns, 4)

	link, err := store.GetColumn(ctx, c, "fld_city_country")
	require.NoError(t, err)
	rel, ok := link.Options.(RelationOptions)
	require.True(t, ok, "link column must carry RelationOptions")
	assert.Equal(t, RelationBelongsTo, rel.Type)
	assert.Equal(t, "md_country", rel.RelatedModelID)

	lk, err := store.GetColumn(ctx, c, "fld_country_name_lk")
	require.NoError(t, err)
	lkOpts, ok := lk.Options.(LookupOptions)
	require.True(t, ok)
	assert.Equal(t, "fld_city_country", lkOpts.RelationColumnID)

	hook, err := store.GetHook(ctx, c, "hk1")
	require.NoError(t, err)
	assert.Equal(t, HookV2, hook.Version)
	assert.Equal(t, "URL", hook.Notification.Type)

	filters, err := store.GetHookFilters(ctx, c, "hk1")
	require.NoError(t, err)
	require.Len(t, filters, 1)
	assert.Equal(t, OpNotNull, filters[0].Op)
}

func TestLoadSnapshot_VirtualColumnWithoutOptions(t *testing.T) {
	bad := `
workspace_id: w1
bases:
  - base_id: b1
    models:
      - id: md1
        table_name: t
        columns:
          - id: c1
            type: Lookup
`
	_, err := LoadSnapshot(strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no options block")
}
