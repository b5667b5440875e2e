// Package metadata builds the in-memory schema (internal/schema) from a
// normalised CSV-W metadata object tree: property inheritance, datatype
// resolution, and foreign-key reference wiring (SPEC_FULL.md §4.6).
package metadata

import (
	"encoding/json"

	"csvw/internal/datatype"
	"csvw/internal/schema"
)

// inherited carries the subset of CSV-W properties that flow down the
// group -> table -> schema -> column chain (§4.6). A child's own value, if
// present, overrides its parent's.
type inherited struct {
	aboutURL      string
	propertyURL   string
	valueURL      string
	datatype      map[string]any
	defaultValue  string
	lang          string
	null          []string
	ordered       bool
	required      bool
	separator     string
	textDirection string
}

func (p inherited) overlay(obj map[string]any) inherited {
	out := p
	if v, ok := getString(obj, "aboutUrl"); ok {
		out.aboutURL = v
	}
	if v, ok := getString(obj, "propertyUrl"); ok {
		out.propertyURL = v
	}
	if v, ok := getString(obj, "valueUrl"); ok {
		out.valueURL = v
	}
	if v, ok := getMap(obj, "datatype"); ok {
		out.datatype = v
	} else if name, ok := getString(obj, "datatype"); ok {
		// Shorthand form: "datatype": "integer" instead of the full
		// {"base": "integer"} object.
		out.datatype = map[string]any{"base": name}
	}
	if v, ok := getString(obj, "default"); ok {
		out.defaultValue = v
	}
	if v, ok := getString(obj, "lang"); ok {
		out.lang = v
	}
	if _, ok := obj["null"]; ok {
		out.null = getStringSlice(obj, "null")
	}
	if _, ok := obj["ordered"]; ok {
		out.ordered = getBool(obj, "ordered", out.ordered)
	}
	if _, ok := obj["required"]; ok {
		out.required = getBool(obj, "required", out.required)
	}
	if v, ok := getString(obj, "separator"); ok {
		out.separator = v
	}
	if v, ok := getString(obj, "textDirection"); ok {
		out.textDirection = v
	}
	return out
}

func rootInherited() inherited {
	return inherited{lang: "und", null: []string{""}}
}

// BuildTableGroup decodes a normalised CSV-W metadata JSON document and
// builds the schema.TableGroup it describes. The returned error is fatal
// for the whole document (e.g. malformed JSON). A per-table metadata error
// (invariant I3 violation, unknown datatype, ...) instead leaves that
// table's Schema nil and is reported back as a schema.Entry so the engine
// can surface it without aborting sibling tables (§7).
func BuildTableGroup(jsonBytes []byte) (*schema.TableGroup, []schema.Entry, error) {
	var root map[string]any
	if err := json.Unmarshal(jsonBytes, &root); err != nil {
		return nil, nil, newError("", "invalid metadata JSON: %v", err)
	}

	groupDialect := schema.DefaultDialect()
	if d, ok := getMap(root, "dialect"); ok {
		groupDialect = parseDialect(d, groupDialect)
	}

	group := &schema.TableGroup{Dialect: groupDialect}
	base := rootInherited().overlay(root)

	tablesRaw, _ := getSlice(root, "tables")
	nameIndex := make(map[string]*schema.Table)
	refsToResolve := []pendingFK{}
	var metadataErrors []schema.Entry

	for _, raw := range tablesRaw {
		tableObj, ok := asMap(raw)
		if !ok {
			continue
		}
		table, pending, err := buildTable(tableObj, base, groupDialect)
		if err != nil {
			// Per §7, a metadata error is fatal only for the affected
			// table: still register it (with a nil Schema) so the engine
			// can report it without aborting sibling tables.
			table = &schema.Table{URL: urlOf(tableObj)}
			group.Tables = append(group.Tables, table)
			metadataErrors = append(metadataErrors, schema.Entry{
				Type:     schema.ErrMetadata,
				Category: schema.CategoryMetadata,
				Content:  err.Error(),
				CSVPath:  table.URL,
			})
			continue
		}
		group.Tables = append(group.Tables, table)
		if table.URL != "" {
			nameIndex[table.URL] = table
		}
		for i := range pending {
			pending[i].sourceTable = table
		}
		refsToResolve = append(refsToResolve, pending...)
	}

	resolveForeignKeys(refsToResolve, nameIndex)

	return group, metadataErrors, nil
}

type pendingFK struct {
	sourceTable *schema.Table
	def         *schema.ForeignKeyDefinition
	resourceURL string
}

func urlOf(obj map[string]any) string {
	u, _ := getString(obj, "url")
	return u
}

func buildTable(obj map[string]any, parent inherited, groupDialect schema.Dialect) (*schema.Table, []pendingFK, error) {
	url := urlOf(obj)
	tableInherited := parent.overlay(obj)

	table := &schema.Table{
		URL: url,
	}
	if id, ok := getString(obj, "id"); ok {
		table.ID = id
	}
	table.SuppressOutput = getBool(obj, "suppressOutput", false)
	table.Notes = getStringSlice(obj, "notes")

	if d, ok := getMap(obj, "dialect"); ok {
		dialect := parseDialect(d, groupDialect)
		table.Dialect = &dialect
	}

	schemaObj, hasSchema := getMap(obj, "tableSchema")
	if !hasSchema {
		return table, nil, nil
	}

	ts, pending, err := buildTableSchema(schemaObj, tableInherited, url)
	if err != nil {
		return nil, nil, err
	}
	table.Schema = ts
	return table, pending, nil
}

func buildTableSchema(obj map[string]any, parent inherited, tableURL string) (*schema.TableSchema, []pendingFK, error) {
	schemaInherited := parent.overlay(obj)
	ts := &schema.TableSchema{}

	columnsRaw, _ := getSlice(obj, "columns")
	byName := make(map[string]*schema.Column)
	for i, raw := range columnsRaw {
		colObj, ok := asMap(raw)
		if !ok {
			continue
		}
		col, err := buildColumn(colObj, schemaInherited, i+1)
		if err != nil {
			return nil, nil, err
		}
		ts.Columns = append(ts.Columns, col)
		if col.Name != "" {
			byName[col.Name] = col
		}
	}

	if pkNames := getStringSlice(obj, "primaryKey"); len(pkNames) > 0 {
		for _, name := range pkNames {
			if col, ok := byName[name]; ok {
				ts.PrimaryKey = append(ts.PrimaryKey, col)
			}
		}
	}

	var pending []pendingFK
	fksRaw, _ := getSlice(obj, "foreignKeys")
	for _, raw := range fksRaw {
		fkObj, ok := asMap(raw)
		if !ok {
			continue
		}
		def, resourceURL, err := buildForeignKeyDefinition(fkObj, byName)
		if err != nil {
			return nil, nil, err
		}
		ts.ForeignKeys = append(ts.ForeignKeys, def)
		pending = append(pending, pendingFK{def: def, resourceURL: resourceURL})
	}

	return ts, pending, nil
}

func buildColumn(obj map[string]any, parent inherited, ordinal int) (*schema.Column, error) {
	c := parent.overlay(obj)

	col := &schema.Column{
		Ordinal:       ordinal,
		AboutURL:      c.aboutURL,
		PropertyURL:   c.propertyURL,
		ValueURL:      c.valueURL,
		Lang:          orDefault(c.lang, "und"),
		Required:      c.required,
		Separator:     c.separator,
		TextDirection: c.textDirection,
		Ordered:       c.ordered,
	}
	if name, ok := getString(obj, "name"); ok {
		col.Name = name
	}
	if id, ok := getString(obj, "@id"); ok {
		col.ID = id
	}
	col.Virtual = getBool(obj, "virtual", false)
	col.SuppressOutput = getBool(obj, "suppressOutput", false)

	col.NullTokens = c.null
	if len(col.NullTokens) == 0 {
		col.NullTokens = []string{""} // invariant I4: never empty
	}

	col.Titles = parseTitles(obj)

	dtObj := c.datatype
	if dtObj == nil {
		dtObj = map[string]any{"@id": "xsd:string"}
	}
	uri, format, restrictions, err := resolveDatatype(dtObj)
	if err != nil {
		return nil, err
	}
	col.BaseDatatype = uri
	col.Format = format
	col.Restrictions = restrictions

	return col, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func parseTitles(obj map[string]any) map[string][]string {
	titlesRaw, ok := getMap(obj, "titles")
	if !ok {
		return nil
	}
	out := make(map[string][]string, len(titlesRaw))
	for lang, v := range titlesRaw {
		out[lang] = stringSlice(v)
	}
	return out
}

// resolveDatatype maps a column's datatype object to a resolved URI, its
// format (if any), and its length/range restrictions, applying the
// shorthand-name table from §4.6 before URI lookup.
func resolveDatatype(dt map[string]any) (string, *schema.Format, schema.Restrictions, error) {
	name, _ := getString(dt, "base")
	if name == "" {
		name, _ = getString(dt, "@id")
	}
	if name == "" {
		name = "string"
	}
	name = stripXSDPrefix(name)
	localName := datatype.ResolveLocalName(name)
	uri := datatype.URI(localName)

	if parse, _, _ := datatype.Lookup(uri); parse == nil {
		return "", nil, schema.Restrictions{}, newError("", "unknown datatype %q", name)
	}

	var format *schema.Format
	if fmtObj, ok := getMap(dt, "format"); ok {
		format = &schema.Format{
			Pattern:     getRawString(fmtObj, "pattern"),
			GroupChar:   getRune(fmtObj, "groupChar", ','),
			DecimalChar: getRune(fmtObj, "decimalChar", '.'),
		}
	} else if pattern, ok := getString(dt, "format"); ok {
		format = &schema.Format{Pattern: pattern, GroupChar: ',', DecimalChar: '.'}
	}

	r := schema.Restrictions{
		Length:       getFloatPtr(dt, "length"),
		MinLength:    getFloatPtr(dt, "minLength"),
		MaxLength:    getFloatPtr(dt, "maxLength"),
		MinInclusive: getRawString(dt, "minInclusive"),
		MaxInclusive: getRawString(dt, "maxInclusive"),
		MinExclusive: getRawString(dt, "minExclusive"),
		MaxExclusive: getRawString(dt, "maxExclusive"),
	}

	return uri, format, r, nil
}

func stripXSDPrefix(name string) string {
	for _, prefix := range []string{"xsd:", "http://www.w3.org/2001/XMLSchema#"} {
		if len(name) > len(prefix) && name[:len(prefix)] == prefix {
			return name[len(prefix):]
		}
	}
	return name
}

// buildForeignKeyDefinition parses one foreignKeys[] entry, resolving
// columnReference into local Column pointers and rejecting (invariant I3,
// §4.6) any FK whose local columns include a list-valued (separator)
// column.
func buildForeignKeyDefinition(obj map[string]any, byName map[string]*schema.Column) (*schema.ForeignKeyDefinition, string, error) {
	localNames := getStringSlice(obj, "columnReference")
	var localCols []*schema.Column
	for _, name := range localNames {
		if col, ok := byName[name]; ok {
			localCols = append(localCols, col)
		}
	}
	for _, col := range localCols {
		if col.IsListValued() {
			return nil, "", newError("", "foreign key references list column %q", col.Name)
		}
	}

	refObj, _ := getMap(obj, "reference")
	resourceURL, _ := getString(refObj, "resource")
	refColNames := getStringSlice(refObj, "columnReference")

	def := &schema.ForeignKeyDefinition{
		LocalColumns:       localCols,
		ReferencedTableURL: resourceURL,
	}
	// ReferencedColumns is filled in by resolveForeignKeys once the target
	// table's schema (and therefore its columns) is known; until then the
	// raw names are kept as placeholder columns (see
	// namedColumnPlaceholders and resolveForeignKeys).
	def.ReferencedColumns = namedColumnPlaceholders(refColNames)
	return def, resourceURL, nil
}

// namedColumnPlaceholders stores the referenced column names as
// placeholder *schema.Column values (Name set, everything else zero) until
// resolveForeignKeys swaps them for the real columns on the target table.
func namedColumnPlaceholders(names []string) []*schema.Column {
	out := make([]*schema.Column, len(names))
	for i, n := range names {
		out[i] = &schema.Column{Name: n}
	}
	return out
}

// resolveForeignKeys resolves each ForeignKeyDefinition's referenced-table
// URL and referenced-column placeholders against the now-complete table
// index, and attaches the mirror ReferencedForeignKey view onto the target
// table (invariant I2).
func resolveForeignKeys(pending []pendingFK, byURL map[string]*schema.Table) {
	for _, p := range pending {
		target, ok := byURL[p.resourceURL]
		if !ok || target.Schema == nil {
			continue // dangling reference; engine reports this as unmatched at row time
		}
		resolved := make([]*schema.Column, len(p.def.ReferencedColumns))
		for i, placeholder := range p.def.ReferencedColumns {
			if col := target.Schema.ColumnByName(placeholder.Name); col != nil {
				resolved[i] = col
			} else {
				resolved[i] = placeholder
			}
		}
		p.def.ReferencedColumns = resolved

		target.ReferencedKeys = append(target.ReferencedKeys, &schema.ReferencedForeignKey{
			SourceTable: p.sourceTable,
			Definition:  p.def,
		})
	}
}

// parseDialect overlays a dialect object's declared fields onto a base
// dialect (the group default, or the group's own override for a table).
func parseDialect(obj map[string]any, base schema.Dialect) schema.Dialect {
	d := base
	d.Delimiter = getRune(obj, "delimiter", d.Delimiter)
	d.QuoteChar = getRune(obj, "quoteChar", d.QuoteChar)
	d.DoubleQuote = getBool(obj, "doubleQuote", d.DoubleQuote)
	d.SkipRows = getInt(obj, "skipRows", d.SkipRows)
	d.SkipBlankRows = getBool(obj, "skipBlankRows", d.SkipBlankRows)
	d.Header = getBool(obj, "header", d.Header)
	if enc, ok := getString(obj, "encoding"); ok {
		d.Encoding = enc
	}
	d.Trim = getBool(obj, "trim", d.Trim)
	return d
}
