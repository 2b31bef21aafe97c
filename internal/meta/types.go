// Package meta holds the schema metadata model: bases, sources, tables,
// columns and their typed option payloads, plus the Store interface through
// which the query builder and the webhook engine resolve metadata.
//
// Entities are snapshots: identity (ID) is immutable for the record's
// lifetime, configuration is replaced wholesale on update. Nothing in this
// package touches a physical database.
package meta

// Context is the tenant/workspace scope descriptor threaded through every
// metadata resolution call. Relation endpoints may live in different
// contexts (cross-base references), so resolvers must always use the
// context returned for the "other side", never the caller's.
type Context struct {
	WorkspaceID string `json:"workspace_id" yaml:"workspace_id"`
	BaseID      string `json:"base_id" yaml:"base_id"`
}

// DialectType identifies the SQL dialect of a configured source.
type DialectType string

const (
	DialectPg     DialectType = "pg"
	DialectMySQL  DialectType = "mysql2"
	DialectSQLite DialectType = "sqlite3"
)

// Source is a configured database connection. Read-only during query
// building; it only informs dialect decisions and physical name resolution.
type Source struct {
	ID     string      `yaml:"id"`
	Type   DialectType `yaml:"type"`
	Schema string      `yaml:"schema"` // pg schema, empty for mysql/sqlite
	IsMeta bool        `yaml:"is_meta"`
}

func (s *Source) IsPg() bool     { return s.Type == DialectPg }
func (s *Source) IsMySQL() bool  { return s.Type == DialectMySQL }
func (s *Source) IsSqlite() bool { return s.Type == DialectSQLite }

// UIType is the semantic (UI-facing) type of a column. The enumeration is
// closed: builder logic dispatches exhaustively on it.
type UIType string

const (
	UITypeID                  UIType = "ID"
	UITypeSingleLineText      UIType = "SingleLineText"
	UITypeLongText            UIType = "LongText"
	UITypeNumber              UIType = "Number"
	UITypeDecimal             UIType = "Decimal"
	UITypeCurrency            UIType = "Currency"
	UITypePercent             UIType = "Percent"
	UITypeRating              UIType = "Rating"
	UITypeCheckbox            UIType = "Checkbox"
	UITypeSingleSelect        UIType = "SingleSelect"
	UITypeMultiSelect         UIType = "MultiSelect"
	UITypeDate                UIType = "Date"
	UITypeDateTime            UIType = "DateTime"
	UITypeTime                UIType = "Time"
	UITypeDuration            UIType = "Duration"
	UITypeCreatedTime         UIType = "CreatedTime"
	UITypeLastModifiedTime    UIType = "LastModifiedTime"
	UITypeUser                UIType = "User"
	UITypeCreatedBy           UIType = "CreatedBy"
	UITypeLastModifiedBy      UIType = "LastModifiedBy"
	UITypeAttachment          UIType = "Attachment"
	UITypeEmail               UIType = "Email"
	UITypeURL                 UIType = "URL"
	UITypePhoneNumber         UIType = "PhoneNumber"
	UITypeJSON                UIType = "JSON"
	UITypeLookup              UIType = "Lookup"
	UITypeRollup              UIType = "Rollup"
	UITypeFormula             UIType = "Formula"
	UITypeLinkToAnotherRecord UIType = "LinkToAnotherRecord"
	UITypeLinks               UIType = "Links"
	UITypeQrCode              UIType = "QrCode"
	UITypeBarcode             UIType = "Barcode"
)

// IsDateFamily reports whether values of this type carry calendar semantics.
func (t UIType) IsDateFamily() bool {
	switch t {
	case UITypeDate, UITypeDateTime, UITypeCreatedTime, UITypeLastModifiedTime:
		return true
	}
	return false
}

// IsUserFamily reports whether values of this type reference platform users.
func (t UIType) IsUserFamily() bool {
	switch t {
	case UITypeUser, UITypeCreatedBy, UITypeLastModifiedBy:
		return true
	}
	return false
}

// IsLink reports whether the column represents a relation to another table.
func (t UIType) IsLink() bool {
	return t == UITypeLinkToAnotherRecord || t == UITypeLinks
}

// IsVirtual reports whether the column has no physical storage of its own
// and must be computed at query time.
func (t UIType) IsVirtual() bool {
	switch t {
	case UITypeLookup, UITypeRollup, UITypeFormula,
		UITypeLinkToAnotherRecord, UITypeLinks, UITypeQrCode, UITypeBarcode:
		return true
	}
	return false
}

// Column is a typed field definition owned by a Model.
type Column struct {
	ID         string `yaml:"id"`
	Title      string `yaml:"title"`
	ColumnName string `yaml:"column_name"` // physical name; empty for virtual columns
	Type       UIType `yaml:"type"`
	ModelID    string `yaml:"-"`

	Primary      bool `yaml:"primary"`       // part of the primary key
	DisplayValue bool `yaml:"display_value"` // the table's human-facing value column

	// Meta is free-form per-column configuration (date format,
	// belongs-to marker for one-to-one relations, …).
	Meta map[string]any `yaml:"meta"`

	// Options is the uidt-dependent payload. Its concrete type must match
	// Type: RelationOptions for link columns, LookupOptions for lookups, etc.
	Options ColumnOptions `yaml:"-"`
}

// BelongsToMarker reports whether a one-to-one column is flagged to resolve
// in the belongs-to direction (meta key "bt").
func (c *Column) BelongsToMarker() bool {
	v, ok := c.Meta["bt"]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// DateFormat returns the configured date format for date-family columns,
// empty when unset.
func (c *Column) DateFormat() string {
	v, ok := c.Meta["date_format"]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Model is a table: a collection of columns plus physical and logical names.
type Model struct {
	ID        string    `yaml:"id"`
	Title     string    `yaml:"title"`
	TableName string    `yaml:"table_name"`
	SourceID  string    `yaml:"source_id"`
	Columns   []*Column `yaml:"columns"`
}

// ColumnByID returns the column with the given id, or nil.
func (m *Model) ColumnByID(id string) *Column {
	for _, c := range m.Columns {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// PrimaryKey returns the first primary-key column, or nil for keyless tables.
func (m *Model) PrimaryKey() *Column {
	for _, c := range m.Columns {
		if c.Primary {
			return c
		}
	}
	return nil
}

// DisplayValueColumn returns the column marked as the table's display value.
// Falls back to the first non-virtual, non-pk column, then to the pk.
func (m *Model) DisplayValueColumn() *Column {
	for _, c := range m.Columns {
		if c.DisplayValue {
			return c
		}
	}
	for _, c := range m.Columns {
		if !c.Primary && !c.Type.IsVirtual() {
			return c
		}
	}
	return m.PrimaryKey()
}

// User identifies a platform user, as referenced by User-family column
// values and webhook trigger attribution.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// Attachment is one entry of an Attachment column's cell value.
type Attachment struct {
	Title     string `json:"title,omitempty"`
	Path      string `json:"path"`
	MimeType  string `json:"mimetype,omitempty"`
	Size      int64  `json:"size,omitempty"`
	SignedURL string `json:"signedUrl,omitempty"`
}
