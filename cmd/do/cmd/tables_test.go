package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catalogFiles = map[string]string{
	"Dim_Students.csv":           "student_key,first_name\nS1,Ada\n",
	"dim_employers.csv":          "employer_key,employer_name\nE1,Initech\n",
	"dim_contact.csv":            "contact_key,employer_key\nC1,E1\n",
	"dim_event.csv":              "event_key,event_name\nEV1,Career Fair\n",
	"dim_date.csv":               "date_key,full_date\n20240101,2024-01-01\n",
	"fact_alumni_engagement.csv": "fact_id,student_key\nF1,S1\n",
}

func runTables(t *testing.T, dataRoot string) (string, error) {
	t.Helper()
	t.Setenv("APP_ENV", "development")
	t.Setenv("CATALOG_PATH", "")
	t.Setenv("DATA_ROOT", dataRoot)

	var out bytes.Buffer
	cmd := TablesCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	return out.String(), err
}

func writeCatalogFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0644))
	}
	return root
}

func TestTablesAllPresent(t *testing.T) {
	out, err := runTables(t, writeCatalogFiles(t, catalogFiles))
	require.NoError(t, err)
	assert.Contains(t, out, "students")
	assert.NotContains(t, out, "missing")
	assert.NotContains(t, out, "no primary key column")
}

func TestTablesReportsProblems(t *testing.T) {
	files := map[string]string{}
	for name, content := range catalogFiles {
		files[name] = content
	}
	files["Dim_Students.csv"] = "id,first_name\nS1,Ada\n"
	delete(files, "dim_date.csv")

	out, err := runTables(t, writeCatalogFiles(t, files))
	require.Error(t, err)
	assert.Equal(t, "2 of 6 tables failed the check", err.Error())
	assert.Contains(t, out, "no primary key column")
	assert.Contains(t, out, "missing")
}
