package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunEndToEndValidDocument(t *testing.T) {
	dir := t.TempDir()
	parentsPath := writeFile(t, dir, "parents.csv", "id,label\n1,one\n2,two\n")
	childrenPath := writeFile(t, dir, "children.csv", "id,parent_id\n1,1\n2,2\n")

	doc := `{
      "tables": [
        {
          "url": "` + parentsPath + `",
          "tableSchema": {
            "columns": [{"name": "id", "datatype": "integer"}, {"name": "label", "datatype": "string"}],
            "primaryKey": ["id"]
          }
        },
        {
          "url": "` + childrenPath + `",
          "tableSchema": {
            "columns": [{"name": "id", "datatype": "integer"}, {"name": "parent_id", "datatype": "integer"}],
            "foreignKeys": [{
              "columnReference": ["parent_id"],
              "reference": {"resource": "` + parentsPath + `", "columnReference": ["id"]}
            }]
          }
        }
      ]
    }`

	report, err := Run(context.Background(), []byte(doc), Config{Logger: zap.NewNop()})
	require.NoError(t, err)
	assert.Empty(t, report.Errors)
}

func TestRunReportsUnmatchedForeignKeyAcrossTables(t *testing.T) {
	dir := t.TempDir()
	parentsPath := writeFile(t, dir, "parents.csv", "id\n1\n")
	childrenPath := writeFile(t, dir, "children.csv", "id,parent_id\n1,99\n")

	doc := `{
      "tables": [
        {
          "url": "` + parentsPath + `",
          "tableSchema": {"columns": [{"name": "id", "datatype": "integer"}], "primaryKey": ["id"]}
        },
        {
          "url": "` + childrenPath + `",
          "tableSchema": {
            "columns": [{"name": "id", "datatype": "integer"}, {"name": "parent_id", "datatype": "integer"}],
            "foreignKeys": [{
              "columnReference": ["parent_id"],
              "reference": {"resource": "` + parentsPath + `", "columnReference": ["id"]}
            }]
          }
        }
      ]
    }`

	report, err := Run(context.Background(), []byte(doc), Config{Logger: zap.NewNop()})
	require.NoError(t, err)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Type, "unmatched_foreign_key_reference")
}

func TestRunMalformedMetadataIsFatal(t *testing.T) {
	_, err := Run(context.Background(), []byte("not json"), Config{Logger: zap.NewNop()})
	require.Error(t, err)
}
