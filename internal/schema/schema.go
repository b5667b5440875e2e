// Package schema contains the single source of truth for a validated CSV-W
// document: table groups, tables, columns, foreign keys, and the
// restrictions attached to each column. It is built by internal/metadata and
// consumed by internal/table, internal/row, and internal/integrity.
package schema

// TableGroup is an ordered collection of Tables sharing a dialect. Identity
// has no semantic meaning beyond grouping; it lives for the duration of one
// validation run.
type TableGroup struct {
	Tables  []*Table
	Dialect Dialect
}

// TableByURL returns the table with the given absolute URL, or nil.
func (g *TableGroup) TableByURL(url string) *Table {
	for _, t := range g.Tables {
		if t.URL == url {
			return t
		}
	}
	return nil
}

// Table is one CSV resource plus the schema that describes it. Equality and
// hashing are by URL, matching the metadata vocabulary's identity rule.
type Table struct {
	URL             string
	ID              string
	SuppressOutput  bool
	Notes           []string
	Schema          *TableSchema
	Dialect         *Dialect // overrides TableGroup.Dialect when set
	ReferencedKeys  []*ReferencedForeignKey
}

// EffectiveDialect returns the table's own dialect override, or the group's.
func (t *Table) EffectiveDialect(group *TableGroup) Dialect {
	if t.Dialect != nil {
		return *t.Dialect
	}
	return group.Dialect
}

// TableSchema is the ordered list of columns, declared foreign keys, and the
// primary key for one table.
type TableSchema struct {
	Columns     []*Column
	ForeignKeys []*ForeignKeyDefinition
	PrimaryKey  []*Column // ordered, may be empty
}

// ColumnByName returns the first column whose Name matches, or nil.
func (s *TableSchema) ColumnByName(name string) *Column {
	for _, c := range s.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Restrictions holds the raw (unparsed) length and range bounds declared on
// a column. Range bounds are parsed lazily, once, under the column's
// datatype (see internal/column).
type Restrictions struct {
	Length    *int
	MinLength *int
	MaxLength *int

	MinInclusive string
	MaxInclusive string
	MinExclusive string
	MaxExclusive string
}

// HasRange reports whether any range bound was declared.
func (r Restrictions) HasRange() bool {
	return r.MinInclusive != "" || r.MaxInclusive != "" || r.MinExclusive != "" || r.MaxExclusive != ""
}

// Format carries a column's optional format.pattern plus the numeric
// group/decimal separator characters used by the LDML number parser.
type Format struct {
	Pattern     string
	GroupChar   rune // default ','
	DecimalChar rune // default '.'
}

// Column is one schema column. Ordinal is 1-based and must be contiguous
// across a TableSchema (invariant I1).
type Column struct {
	Ordinal      int
	Name         string
	ID           string
	BaseDatatype string // resolved datatype URI, e.g. "...XMLSchema#integer"
	Format       *Format
	NullTokens   []string // never empty; defaults to [""]
	Separator    string   // non-empty => list-valued column
	Required     bool
	Restrictions Restrictions
	Titles       map[string][]string // language tag -> ordered title strings
	Lang         string              // default "und"

	AboutURL        string
	PropertyURL     string
	ValueURL        string
	TextDirection   string
	Ordered         bool
	Virtual         bool
	SuppressOutput  bool
}

// IsListValued reports whether the column splits cell values on Separator.
func (c *Column) IsListValued() bool {
	return c.Separator != ""
}

// ForeignKeyDefinition is the child-side declaration: a set of local columns
// (in the same table) mapped to a resource URL and its referenced columns.
type ForeignKeyDefinition struct {
	LocalColumns      []*Column
	ReferencedTableURL string
	ReferencedColumns []*Column // resolved once the target table is loaded
}

// ReferencedForeignKey is the mirror view attached to the target table.
// Equality is by (source table, local columns, target columns) — callers
// compare by pointer identity of the originating ForeignKeyDefinition since
// that uniquely determines all three.
type ReferencedForeignKey struct {
	SourceTable *Table
	Definition  *ForeignKeyDefinition
}
