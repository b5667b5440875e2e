package column

import (
	"fmt"

	"csvw/internal/datatype"
	"csvw/internal/schema"
)

// ensureRangeParsed lazily parses the column's raw min/max bound strings
// under the column's own datatype parser, once, caching failures too so a
// malformed bound doesn't get re-attempted on every row (invariant I5).
func (v *Validator) ensureRangeParsed() {
	if v.rangeParsed {
		return
	}
	v.rangeParsed = true
	r := v.col.Restrictions
	if !r.HasRange() {
		return
	}

	parseBound := func(s string) (*datatype.Value, error) {
		if s == "" {
			return nil, nil
		}
		val, perr := v.parse(s, v.format())
		if perr != nil {
			return nil, fmt.Errorf("range bound %q invalid under datatype %q: %s", s, v.col.BaseDatatype, perr.Error())
		}
		return &val, nil
	}

	var err error
	if v.minIncl, err = parseBound(r.MinInclusive); err != nil {
		v.rangeErr = err
		return
	}
	if v.maxIncl, err = parseBound(r.MaxInclusive); err != nil {
		v.rangeErr = err
		return
	}
	if v.minExcl, err = parseBound(r.MinExclusive); err != nil {
		v.rangeErr = err
		return
	}
	if v.maxExcl, err = parseBound(r.MaxExclusive); err != nil {
		v.rangeErr = err
		return
	}
}

// checkRange compares val against the column's lazily-parsed range bounds.
// Numeric comparisons use the parsed numeric bounds; datetime comparisons
// use UTC instant ordering.
func (v *Validator) checkRange(row int, val datatype.Value) (schema.Entry, bool) {
	v.ensureRangeParsed()
	if v.rangeErr != nil || !v.col.Restrictions.HasRange() {
		return schema.Entry{}, false
	}

	if v.minIncl != nil && compareValues(val, *v.minIncl) < 0 {
		return v.rangeEntry(row, schema.ErrMinInclusive, val, *v.minIncl), true
	}
	if v.maxIncl != nil && compareValues(val, *v.maxIncl) > 0 {
		return v.rangeEntry(row, schema.ErrMaxInclusive, val, *v.maxIncl), true
	}
	if v.minExcl != nil && compareValues(val, *v.minExcl) <= 0 {
		return v.rangeEntry(row, schema.ErrMinExclusive, val, *v.minExcl), true
	}
	if v.maxExcl != nil && compareValues(val, *v.maxExcl) >= 0 {
		return v.rangeEntry(row, schema.ErrMaxExclusive, val, *v.maxExcl), true
	}
	return schema.Entry{}, false
}

func (v *Validator) rangeEntry(row int, errType string, val, bound datatype.Value) schema.Entry {
	return schema.Entry{
		Type:     errType,
		Category: schema.CategorySchema,
		Row:      row,
		Column:   v.col.Ordinal,
		Content:  fmt.Sprintf("value %q violates %s %q", val.String(), errType, bound.String()),
		Extra:    fmt.Sprintf("required => %v", v.col.Required),
	}
}

// compareValues compares two Values of the same Kind (the same column's
// datatype produces both), returning -1/0/1.
func compareValues(a, b datatype.Value) int {
	switch a.Kind {
	case datatype.KindDecimal:
		return a.Dec.Cmp(b.Dec)
	case datatype.KindFloat:
		switch {
		case a.Float < b.Float:
			return -1
		case a.Float > b.Float:
			return 1
		default:
			return 0
		}
	case datatype.KindDateTime:
		switch {
		case a.Time.Before(b.Time):
			return -1
		case a.Time.After(b.Time):
			return 1
		default:
			return 0
		}
	default:
		if a.Str < b.Str {
			return -1
		}
		if a.Str > b.Str {
			return 1
		}
		return 0
	}
}
