package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/winback/internal/common"
	"github.com/Veraticus/winback/internal/model"
	"github.com/Veraticus/winback/internal/normalize"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Source is a durable list of catalog products.
type Source interface {
	Load(ctx context.Context) ([]model.CatalogEntry, error)
	Name() string
}

// SourceFunc adapts a load function, such as storage.SQLiteStorage.LoadCatalog,
// to a Source.
type SourceFunc struct {
	Fn    func(ctx context.Context) ([]model.CatalogEntry, error)
	Label string
}

// Load calls the wrapped function.
func (s SourceFunc) Load(ctx context.Context) ([]model.CatalogEntry, error) {
	return s.Fn(ctx)
}

// Name returns the source label.
func (s SourceFunc) Name() string {
	return s.Label
}

// SourceForPath picks a file source from the path extension.
func SourceForPath(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSONFile{Path: path}, nil
	case ".yaml", ".yml":
		return YAMLFile{Path: path}, nil
	case ".xlsx":
		return XLSXFile{Path: path}, nil
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedSource, path)
	}
}

// rawEntry is the object form accepted by the JSON and YAML sources.
type rawEntry struct {
	Name        string `json:"name" yaml:"name"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Designation string `json:"designation" yaml:"designation"`
	Category    string `json:"category" yaml:"category"`
	Family      string `json:"family" yaml:"family"`
}

func (r rawEntry) entry() model.CatalogEntry {
	name := r.Name
	if name == "" {
		name = r.DisplayName
	}
	if name == "" {
		name = r.Designation
	}
	return model.CatalogEntry{
		DisplayName: strings.TrimSpace(name),
		Category:    r.Category,
		Family:      normalize.Normalize(r.Family),
	}
}

// JSONFile reads a JSON array of product names or product objects.
type JSONFile struct {
	Path string
}

// Name returns the file path.
func (s JSONFile) Name() string {
	return s.Path
}

// Load reads and decodes the file.
func (s JSONFile) Load(_ context.Context) ([]model.CatalogEntry, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode catalog JSON: %w", err)
	}

	entries := make([]model.CatalogEntry, 0, len(items))
	for i, item := range items {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			entries = append(entries, model.CatalogEntry{DisplayName: strings.TrimSpace(name)})
			continue
		}

		var obj rawEntry
		if err := json.Unmarshal(item, &obj); err != nil {
			return nil, fmt.Errorf("catalog item %d: %w", i, err)
		}
		entries = append(entries, obj.entry())
	}

	return entries, nil
}

// YAMLFile reads a YAML sequence of product names or product mappings.
type YAMLFile struct {
	Path string
}

// Name returns the file path.
func (s YAMLFile) Name() string {
	return s.Path
}

// Load reads and decodes the file.
func (s YAMLFile) Load(_ context.Context) ([]model.CatalogEntry, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var nodes []yaml.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("failed to decode catalog YAML: %w", err)
	}

	entries := make([]model.CatalogEntry, 0, len(nodes))
	for i := range nodes {
		node := &nodes[i]
		switch node.Kind {
		case yaml.ScalarNode:
			entries = append(entries, model.CatalogEntry{DisplayName: strings.TrimSpace(node.Value)})
		case yaml.MappingNode:
			var obj rawEntry
			if err := node.Decode(&obj); err != nil {
				return nil, fmt.Errorf("catalog item %d: %w", i, err)
			}
			entries = append(entries, obj.entry())
		default:
			return nil, fmt.Errorf("catalog item %d: unexpected YAML node at line %d", i, node.Line)
		}
	}

	return entries, nil
}

// XLSXFile reads product names from a workbook. The first row is a header
// when it names a product column (name, designation, libelle, produit);
// otherwise the first column of every row is a product name.
type XLSXFile struct {
	Path  string
	Sheet string
}

// Name returns the file path.
func (s XLSXFile) Name() string {
	return s.Path
}

var (
	nameHeaders     = []string{"NAME", "DISPLAY NAME", "DESIGNATION", "LIBELLE", "PRODUIT", "PRODUCT"}
	categoryHeaders = []string{"CATEGORY", "CATEGORIE"}
	familyHeaders   = []string{"FAMILY", "FAMILLE", "GAMME"}
)

// Load reads the configured sheet, or the first sheet when none is set.
func (s XLSXFile) Load(_ context.Context) ([]model.CatalogEntry, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheet := s.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	nameCol, categoryCol, familyCol := 0, -1, -1
	start := 0
	if col := headerColumn(rows[0], nameHeaders); col >= 0 {
		nameCol = col
		categoryCol = headerColumn(rows[0], categoryHeaders)
		familyCol = headerColumn(rows[0], familyHeaders)
		start = 1
	}

	entries := make([]model.CatalogEntry, 0, len(rows)-start)
	for _, row := range rows[start:] {
		name := cell(row, nameCol)
		if name == "" {
			continue
		}
		entries = append(entries, model.CatalogEntry{
			DisplayName: name,
			Category:    cell(row, categoryCol),
			Family:      normalize.Normalize(cell(row, familyCol)),
		})
	}

	return entries, nil
}

func headerColumn(header []string, names []string) int {
	for i, h := range header {
		normalized := normalize.Normalize(h)
		for _, n := range names {
			if normalized == n {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
