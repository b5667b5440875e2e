// Package row implements the CSV-W row validator: applying every column
// validator to one CSV record in parallel, then assembling primary-key and
// foreign-key KeyValues from the parsed per-column values (SPEC_FULL.md
// §4.3).
package row

import (
	"csvw/internal/column"
	"csvw/internal/datatype"
	"csvw/internal/schema"

	"golang.org/x/sync/errgroup"
)

// Outcome is the result of validating one CSV record.
type Outcome struct {
	RecordNumber int
	Errors       []schema.Entry

	PrimaryKey schema.KeyValue // zero value (no components) if no PK declared

	ChildForeignKeys           []ChildFK
	ParentForeignKeyReferences []ParentFKRef
}

// ChildFK pairs one ForeignKeyDefinition with this row's local-column key
// value.
type ChildFK struct {
	Definition *schema.ForeignKeyDefinition
	Key        schema.KeyValue
}

// ParentFKRef pairs one ReferencedForeignKey with this row's
// referenced-column key value (candidate parent key).
type ParentFKRef struct {
	Ref *schema.ReferencedForeignKey
	Key schema.KeyValue
}

// Validator applies column validators across one table's records.
type Validator struct {
	tableSchema *schema.TableSchema
	columns     []*column.Validator // parallel to tableSchema.Columns
}

// New builds a row Validator from a table's schema, constructing one
// column.Validator per column.
func New(tableSchema *schema.TableSchema) (*Validator, error) {
	v := &Validator{tableSchema: tableSchema}
	for _, col := range tableSchema.Columns {
		cv, err := column.New(col)
		if err != nil {
			return nil, err
		}
		v.columns = append(v.columns, cv)
	}
	return v, nil
}

// ValidateHeader checks a header record (record 1 when dialect.header is
// set) against every column's declared titles, returning header-mismatch
// errors plus empty/duplicate-column-name warnings.
func (v *Validator) ValidateHeader(record []string) (errors []schema.Entry, warnings []schema.Entry) {
	seen := make(map[string]int)
	for i, observed := range record {
		ordinal := i + 1
		if observed == "" {
			warnings = append(warnings, schema.Entry{
				Type:     schema.WarnEmptyColumnName,
				Category: schema.CategoryStructure,
				Row:      1,
				Column:   ordinal,
			})
		} else if first, dup := seen[observed]; dup {
			warnings = append(warnings, schema.Entry{
				Type:     schema.WarnDuplicateColName,
				Category: schema.CategoryStructure,
				Row:      1,
				Column:   ordinal,
				Content:  observed,
			})
			_ = first
		} else {
			seen[observed] = ordinal
		}

		if i >= len(v.columns) {
			continue
		}
		if err := v.columns[i].ValidateHeader(1, observed); err != nil {
			errors = append(errors, *err)
		}
	}
	return errors, warnings
}

// Validate runs every column validator against record in parallel and
// assembles the row's Outcome, including primary-key, child foreign-key,
// and parent foreign-key-reference KeyValues. refs is the set of
// ReferencedForeignKeys pointing at this table (resolved once, after
// metadata intake finishes loading every table, §4.6).
func (v *Validator) Validate(recordNumber int, record []string, refs []*schema.ReferencedForeignKey) Outcome {
	n := len(v.columns)
	perColumnErrors := make([][]schema.Entry, n)
	perColumnValues := make([][]datatype.Value, n)

	g := new(errgroup.Group)
	for i := 0; i < n && i < len(record); i++ {
		i := i
		g.Go(func() error {
			errs, vals := v.columns[i].Validate(recordNumber, record[i])
			perColumnErrors[i] = errs
			perColumnValues[i] = vals
			return nil
		})
	}
	_ = g.Wait() // column validators never return an error; they report via entries

	outcome := Outcome{RecordNumber: recordNumber}
	for _, errs := range perColumnErrors {
		outcome.Errors = append(outcome.Errors, errs...)
	}

	byOrdinal := make(map[int][]datatype.Value, n)
	for i, col := range v.tableSchema.Columns {
		byOrdinal[col.Ordinal] = perColumnValues[i]
	}

	if len(v.tableSchema.PrimaryKey) > 0 {
		outcome.PrimaryKey = assembleKey(v.tableSchema.PrimaryKey, byOrdinal)
	}

	for _, fk := range v.tableSchema.ForeignKeys {
		outcome.ChildForeignKeys = append(outcome.ChildForeignKeys, ChildFK{
			Definition: fk,
			Key:        assembleKey(fk.LocalColumns, byOrdinal),
		})
	}

	for _, ref := range refs {
		outcome.ParentForeignKeyReferences = append(outcome.ParentForeignKeyReferences, ParentFKRef{
			Ref: ref,
			Key: assembleKey(ref.Definition.ReferencedColumns, byOrdinal),
		})
	}

	return outcome
}

// assembleKey implements the §4.3 key-assembly rule: for each column,
// concatenate its parsed values' string representations into a single
// component (empty-string join, matching aboutURL construction), producing
// the ordered KeyValue.
func assembleKey(cols []*schema.Column, byOrdinal map[int][]datatype.Value) schema.KeyValue {
	components := make([]string, len(cols))
	for i, col := range cols {
		var b []byte
		for _, val := range byOrdinal[col.Ordinal] {
			b = append(b, val.String()...)
		}
		components[i] = string(b)
	}
	return schema.KeyValue{Components: components}
}
