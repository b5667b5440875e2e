package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyValueEqualAndEmpty(t *testing.T) {
	a := KeyValue{Components: []string{"1", "x"}}
	b := KeyValue{Components: []string{"1", "x"}}
	c := KeyValue{Components: []string{"1", "y"}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, KeyValue{Components: []string{"", ""}}.Empty())
	assert.False(t, a.Empty())
}

func TestKeyValueHashAvoidsComponentConcatenationCollision(t *testing.T) {
	a := KeyValue{Components: []string{"ab", "c"}}
	b := KeyValue{Components: []string{"a", "bc"}}
	assert.NotEqual(t, a.Hash(), b.Hash())
}

func TestKeyValueSetAddCollapsesDuplicates(t *testing.T) {
	s := NewKeyValueSet()
	k := KeyValue{Components: []string{"1"}}
	s.Add(k, 1)
	s.Add(k, 2)

	all := s.All()
	require := assert.New(t)
	require.Len(all, 1)
	require.Equal(1, all[0].RowNumber)
}

func TestKeyValueSetAddOrMarkDuplicateFlipsFlag(t *testing.T) {
	s := NewKeyValueSet()
	k := KeyValue{Components: []string{"1"}}
	s.AddOrMarkDuplicate(k, 1)
	s.AddOrMarkDuplicate(k, 2)

	entry, ok := s.Contains(k)
	assert.True(t, ok)
	assert.True(t, entry.IsDuplicate)
}

func TestKeyValueSetContainsMissing(t *testing.T) {
	s := NewKeyValueSet()
	_, ok := s.Contains(KeyValue{Components: []string{"missing"}})
	assert.False(t, ok)
}
