package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/winback/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestJSONFile_Load(t *testing.T) {
	path := writeFile(t, "catalog.json", `[
		"ELASTOPHENE FLAM 25 AR - GRIS - 10 m x 1 m",
		{"name": "ALSAN 500 P", "category": "Liquid", "family": "alsan"},
		{"designation": "PAVATEX PAVATHERM 60"}
	]`)

	got, err := JSONFile{Path: path}.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "ELASTOPHENE FLAM 25 AR - GRIS - 10 m x 1 m", got[0].DisplayName)
	assert.Equal(t, "ALSAN 500 P", got[1].DisplayName)
	assert.Equal(t, "Liquid", got[1].Category)
	assert.Equal(t, "ALSAN", got[1].Family)
	assert.Equal(t, "PAVATEX PAVATHERM 60", got[2].DisplayName)
}

func TestJSONFile_LoadErrors(t *testing.T) {
	_, err := JSONFile{Path: filepath.Join(t.TempDir(), "missing.json")}.Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := writeFile(t, "bad.json", `{"not": "a list"}`)
	_, err = JSONFile{Path: path}.Load(context.Background())
	assert.Error(t, err)
}

func TestYAMLFile_Load(t *testing.T) {
	path := writeFile(t, "catalog.yaml", `
- SOPRALENE FLAM 180 AR
- name: ALSAN 500 P
  category: Liquid
`)

	got, err := YAMLFile{Path: path}.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "SOPRALENE FLAM 180 AR", got[0].DisplayName)
	assert.Equal(t, "ALSAN 500 P", got[1].DisplayName)
	assert.Equal(t, "Liquid", got[1].Category)
}

func TestXLSXFile_Load(t *testing.T) {
	tests := []struct {
		name  string
		rows  [][]any
		want  []string
		cat   string
		first string
	}{
		{
			name: "with header",
			rows: [][]any{
				{"Code", "Désignation", "Catégorie"},
				{"A1", "SOPRALENE FLAM 180 AR", "Bitume"},
				{"A2", "", "Bitume"},
				{"A3", "ALSAN 500 P", "Liquide"},
			},
			want: []string{"SOPRALENE FLAM 180 AR", "ALSAN 500 P"},
			cat:  "Bitume",
		},
		{
			name: "without header",
			rows: [][]any{
				{"SOPRALENE FLAM 180 AR"},
				{"ALSAN 500 P"},
			},
			want: []string{"SOPRALENE FLAM 180 AR", "ALSAN 500 P"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "catalog.xlsx")
			f := excelize.NewFile()
			sheet := f.GetSheetName(0)
			for r, row := range tt.rows {
				cell, err := excelize.CoordinatesToCellName(1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetSheetRow(sheet, cell, &row))
			}
			require.NoError(t, f.SaveAs(path))
			require.NoError(t, f.Close())

			got, err := XLSXFile{Path: path}.Load(context.Background())
			require.NoError(t, err)

			names := make([]string, len(got))
			for i, e := range got {
				names[i] = e.DisplayName
			}
			assert.Equal(t, tt.want, names)
			assert.Equal(t, tt.cat, got[0].Category)
		})
	}
}

func TestSourceForPath(t *testing.T) {
	tests := []struct {
		path string
		want Source
	}{
		{path: "a.json", want: JSONFile{Path: "a.json"}},
		{path: "a.YAML", want: YAMLFile{Path: "a.YAML"}},
		{path: "a.yml", want: YAMLFile{Path: "a.yml"}},
		{path: "a.xlsx", want: XLSXFile{Path: "a.xlsx"}},
	}
	for _, tt := range tests {
		got, err := SourceForPath(tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := SourceForPath("catalog.csv")
	assert.ErrorIs(t, err, common.ErrUnsupportedSource)
}
