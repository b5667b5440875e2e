package table

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"csvw/internal/datatype"
	"csvw/internal/fetch"
	"csvw/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func singleColumnTable(t *testing.T, csvContent string, col *schema.Column) (*schema.Table, *schema.TableGroup) {
	path := writeCSV(t, csvContent)
	ts := &schema.TableSchema{Columns: []*schema.Column{col}}
	tbl := &schema.Table{URL: path, Schema: ts}
	group := &schema.TableGroup{Tables: []*schema.Table{tbl}, Dialect: schema.DefaultDialect()}
	return tbl, group
}

func TestPipelineRunReportsInvalidCell(t *testing.T) {
	col := &schema.Column{Ordinal: 1, Name: "id", BaseDatatype: datatype.URI("integer"), NullTokens: []string{""}}
	tbl, group := singleColumnTable(t, "id\n1\nnot-a-number\n3\n", col)

	p := New(tbl, group, Config{Fetcher: fetch.NewDefaultFetcher()})
	acc, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, acc.Report.Errors, 1)
	assert.Equal(t, schema.ErrInvalidInteger, acc.Report.Errors[0].Type)
	assert.Equal(t, 4, acc.RowsProcessed) // header + 3 data rows, all counted as records read
}

func TestPipelineRunDetectsDuplicatePrimaryKey(t *testing.T) {
	col := &schema.Column{Ordinal: 1, Name: "id", BaseDatatype: datatype.URI("integer"), NullTokens: []string{""}}
	path := writeCSV(t, "id\n1\n2\n1\n")
	ts := &schema.TableSchema{Columns: []*schema.Column{col}, PrimaryKey: []*schema.Column{col}}
	tbl := &schema.Table{URL: path, Schema: ts}
	group := &schema.TableGroup{Tables: []*schema.Table{tbl}, Dialect: schema.DefaultDialect()}

	p := New(tbl, group, Config{Fetcher: fetch.NewDefaultFetcher()})
	acc, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, acc.Report.Errors, 1)
	assert.Equal(t, schema.ErrDuplicateKey, acc.Report.Errors[0].Type)
	assert.Equal(t, 4, acc.Report.Errors[0].Row)
}

func TestPipelineRunFileNotFound(t *testing.T) {
	col := &schema.Column{Ordinal: 1, Name: "id", BaseDatatype: datatype.URI("integer"), NullTokens: []string{""}}
	ts := &schema.TableSchema{Columns: []*schema.Column{col}}
	tbl := &schema.Table{URL: "/does/not/exist.csv", Schema: ts}
	group := &schema.TableGroup{Tables: []*schema.Table{tbl}, Dialect: schema.DefaultDialect()}

	p := New(tbl, group, Config{Fetcher: fetch.NewDefaultFetcher()})
	acc, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, acc.Report.Errors, 1)
	assert.Equal(t, schema.ErrFileNotFound, acc.Report.Errors[0].Type)
}

func TestPipelineRunRaggedRows(t *testing.T) {
	idCol := &schema.Column{Ordinal: 1, Name: "id", BaseDatatype: datatype.URI("integer"), NullTokens: []string{""}}
	nameCol := &schema.Column{Ordinal: 2, Name: "name", BaseDatatype: datatype.URI("string"), NullTokens: []string{""}}
	path := writeCSV(t, "id,name\n1\n")
	ts := &schema.TableSchema{Columns: []*schema.Column{idCol, nameCol}}
	tbl := &schema.Table{URL: path, Schema: ts}
	group := &schema.TableGroup{Tables: []*schema.Table{tbl}, Dialect: schema.DefaultDialect()}

	p := New(tbl, group, Config{Fetcher: fetch.NewDefaultFetcher()})
	acc, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, acc.Report.Errors, 1)
	assert.Equal(t, schema.ErrRaggedRows, acc.Report.Errors[0].Type)
}
