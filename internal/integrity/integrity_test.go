package integrity

import (
	"testing"

	"csvw/internal/schema"

	"github.com/stretchr/testify/assert"
)

func TestCheckUnmatchedForeignKey(t *testing.T) {
	def := &schema.ForeignKeyDefinition{ReferencedTableURL: "parents.csv"}
	childSet := schema.NewKeyValueSet()
	childSet.Add(schema.KeyValue{Components: []string{"99"}}, 5)

	results := []*TableResult{
		{
			Table:        &schema.Table{URL: "children.csv"},
			ChildKeySets: map[*schema.ForeignKeyDefinition]*schema.KeyValueSet{def: childSet},
		},
	}

	out := Check(results)
	assert.Len(t, out.Errors, 1)
	assert.Equal(t, schema.ErrUnmatchedForeignKey, out.Errors[0].Type)
	assert.Equal(t, 5, out.Errors[0].Row)
}

func TestCheckMatchedForeignKeyProducesNoError(t *testing.T) {
	def := &schema.ForeignKeyDefinition{ReferencedTableURL: "parents.csv"}
	ref := &schema.ReferencedForeignKey{Definition: def}

	childSet := schema.NewKeyValueSet()
	childSet.Add(schema.KeyValue{Components: []string{"1"}}, 2)

	parentSet := schema.NewKeyValueSet()
	parentSet.AddOrMarkDuplicate(schema.KeyValue{Components: []string{"1"}}, 1)

	results := []*TableResult{
		{Table: &schema.Table{URL: "children.csv"}, ChildKeySets: map[*schema.ForeignKeyDefinition]*schema.KeyValueSet{def: childSet}},
		{Table: &schema.Table{URL: "parents.csv"}, ParentKeySets: map[*schema.ReferencedForeignKey]*schema.KeyValueSet{ref: parentSet}},
	}

	out := Check(results)
	assert.Empty(t, out.Errors)
}

func TestCheckMultipleMatchedRows(t *testing.T) {
	def := &schema.ForeignKeyDefinition{ReferencedTableURL: "parents.csv"}
	ref := &schema.ReferencedForeignKey{Definition: def}

	childSet := schema.NewKeyValueSet()
	childSet.Add(schema.KeyValue{Components: []string{"1"}}, 2)

	parentSet := schema.NewKeyValueSet()
	key := schema.KeyValue{Components: []string{"1"}}
	parentSet.AddOrMarkDuplicate(key, 1)
	parentSet.AddOrMarkDuplicate(key, 10)

	results := []*TableResult{
		{Table: &schema.Table{URL: "children.csv"}, ChildKeySets: map[*schema.ForeignKeyDefinition]*schema.KeyValueSet{def: childSet}},
		{Table: &schema.Table{URL: "parents.csv"}, ParentKeySets: map[*schema.ReferencedForeignKey]*schema.KeyValueSet{ref: parentSet}},
	}

	out := Check(results)
	assert.Len(t, out.Errors, 1)
	assert.Equal(t, schema.ErrMultipleMatchedRows, out.Errors[0].Type)
}

func TestCheckIgnoresEmptyForeignKey(t *testing.T) {
	def := &schema.ForeignKeyDefinition{ReferencedTableURL: "parents.csv"}
	childSet := schema.NewKeyValueSet()
	childSet.Add(schema.KeyValue{Components: []string{""}}, 4)

	results := []*TableResult{
		{Table: &schema.Table{URL: "children.csv"}, ChildKeySets: map[*schema.ForeignKeyDefinition]*schema.KeyValueSet{def: childSet}},
	}

	out := Check(results)
	assert.Empty(t, out.Errors)
}
