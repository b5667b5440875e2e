package row

import (
	"testing"

	"csvw/internal/datatype"
	"csvw/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *schema.TableSchema {
	idCol := &schema.Column{Ordinal: 1, Name: "id", BaseDatatype: datatype.URI("integer"), NullTokens: []string{""}}
	nameCol := &schema.Column{Ordinal: 2, Name: "name", BaseDatatype: datatype.URI("string"), NullTokens: []string{""}}
	parentCol := &schema.Column{Ordinal: 3, Name: "parent_id", BaseDatatype: datatype.URI("integer"), NullTokens: []string{""}}

	fk := &schema.ForeignKeyDefinition{
		LocalColumns:       []*schema.Column{parentCol},
		ReferencedTableURL: "parents.csv",
		ReferencedColumns:  []*schema.Column{idCol},
	}

	return &schema.TableSchema{
		Columns:     []*schema.Column{idCol, nameCol, parentCol},
		PrimaryKey:  []*schema.Column{idCol},
		ForeignKeys: []*schema.ForeignKeyDefinition{fk},
	}
}

func TestValidateAssemblesPrimaryKeyAndChildForeignKey(t *testing.T) {
	ts := testSchema()
	v, err := New(ts)
	require.NoError(t, err)

	outcome := v.Validate(2, []string{"1", "alice", "9"}, nil)
	assert.Empty(t, outcome.Errors)
	assert.Equal(t, []string{"1"}, outcome.PrimaryKey.Components)
	require.Len(t, outcome.ChildForeignKeys, 1)
	assert.Equal(t, []string{"9"}, outcome.ChildForeignKeys[0].Key.Components)
}

func TestValidateAssemblesParentForeignKeyReference(t *testing.T) {
	ts := testSchema()
	v, err := New(ts)
	require.NoError(t, err)

	ref := &schema.ReferencedForeignKey{Definition: ts.ForeignKeys[0]}
	outcome := v.Validate(3, []string{"7", "bob", ""}, []*schema.ReferencedForeignKey{ref})

	require.Len(t, outcome.ParentForeignKeyReferences, 1)
	assert.Equal(t, []string{"7"}, outcome.ParentForeignKeyReferences[0].Key.Components)
}

func TestValidateHeaderReportsDuplicateAndEmptyNames(t *testing.T) {
	ts := testSchema()
	v, err := New(ts)
	require.NoError(t, err)

	_, warnings := v.ValidateHeader([]string{"id", "id", ""})
	require.Len(t, warnings, 2)
	assert.Equal(t, schema.WarnDuplicateColName, warnings[0].Type)
	assert.Equal(t, schema.WarnEmptyColumnName, warnings[1].Type)
}
