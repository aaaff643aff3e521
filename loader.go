package veil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MetadataLoader loads table metadata from YAML files in a directory.
type MetadataLoader struct {
	dir string
}

// yaml documents use pointers so absent fields keep their defaults
// (nullable defaults to true, data_type to "string").
type columnDoc struct {
	Name        string   `yaml:"name"`
	DataType    *string  `yaml:"data_type"`
	Description string   `yaml:"description"`
	Nullable    *bool    `yaml:"nullable"`
	IsKey       bool     `yaml:"is_key"`
	Examples    []string `yaml:"examples"`
}

type tableDoc struct {
	TableName   string      `yaml:"table_name"`
	Database    *string     `yaml:"database"`
	Description string      `yaml:"description"`
	Owner       string      `yaml:"owner"`
	Columns     []columnDoc `yaml:"columns"`
}

// NewMetadataLoader creates a loader rooted at dir. Returns a ConfigError
// wrapping ErrMetadataNotFound if the directory does not exist.
func NewMetadataLoader(dir string) (*MetadataLoader, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, newConfigError(ErrMetadataNotFound, dir, "metadata directory")
	}
	return &MetadataLoader{dir: dir}, nil
}

// LoadTable loads metadata for a single table from a YAML file name
// relative to the loader's directory.
func (l *MetadataLoader) LoadTable(file string) (TableMetadata, error) {
	path := filepath.Join(l.dir, file)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return TableMetadata{}, newConfigError(ErrMetadataNotFound, path, "metadata file")
		}
		return TableMetadata{}, fmt.Errorf("read metadata %s: %w", path, err)
	}

	var doc tableDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return TableMetadata{}, newConfigError(ErrInvalidMetadata, path, err.Error())
	}

	table := TableMetadata{
		TableName:   doc.TableName,
		Database:    "default",
		Description: doc.Description,
		Owner:       doc.Owner,
		Columns:     make([]ColumnMetadata, 0, len(doc.Columns)),
	}
	if doc.Database != nil {
		table.Database = *doc.Database
	}

	for _, cd := range doc.Columns {
		col := ColumnMetadata{
			Name:        cd.Name,
			DataType:    "string",
			Description: cd.Description,
			Nullable:    true,
			IsKey:       cd.IsKey,
			Examples:    cd.Examples,
		}
		if cd.DataType != nil {
			col.DataType = *cd.DataType
		}
		if cd.Nullable != nil {
			col.Nullable = *cd.Nullable
		}
		table.Columns = append(table.Columns, col)
	}

	return table, nil
}

// LoadAll loads every *.yaml file in the directory, keyed by table name.
// Files that fail to parse are skipped; the first error encountered is
// returned alongside the tables that did load.
func (l *MetadataLoader) LoadAll() (map[string]TableMetadata, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, newConfigError(ErrMetadataNotFound, l.dir, "metadata directory")
	}

	tables := make(map[string]TableMetadata)
	var firstErr error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		table, err := l.LoadTable(entry.Name())
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		tables[table.TableName] = table
	}
	return tables, firstErr
}

// SaveTable writes table metadata as YAML into dir, creating it if needed.
// Returns the path of the written file.
func SaveTable(table TableMetadata, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create metadata dir %s: %w", dir, err)
	}

	data, err := yaml.Marshal(table)
	if err != nil {
		return "", fmt.Errorf("marshal metadata for %s: %w", table.TableName, err)
	}

	path := filepath.Join(dir, table.TableName+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write metadata %s: %w", path, err)
	}
	return path, nil
}
