package veil

import (
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Register column annotation tags with sentinel
	sentinel.Tag("col")
	sentinel.Tag("desc")
	sentinel.Tag("key")
}

// ColumnMetadata describes a single column. Identity is the name, unique
// within a table. Instances are read-only after load.
type ColumnMetadata struct {
	Name        string   `yaml:"name"`
	DataType    string   `yaml:"data_type"`
	Description string   `yaml:"description,omitempty"`
	Nullable    bool     `yaml:"nullable"`
	IsKey       bool     `yaml:"is_key"`
	Examples    []string `yaml:"examples,omitempty"`
}

// TableMetadata describes a table and its ordered columns.
type TableMetadata struct {
	TableName   string           `yaml:"table_name"`
	Database    string           `yaml:"database"`
	Description string           `yaml:"description,omitempty"`
	Owner       string           `yaml:"owner,omitempty"`
	Columns     []ColumnMetadata `yaml:"columns"`
}

// Column returns the column with the given name.
func (t TableMetadata) Column(name string) (ColumnMetadata, bool) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return ColumnMetadata{}, false
}

// ColumnNames returns the column names in declaration order.
func (t TableMetadata) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// ScanTable derives TableMetadata from an annotated struct type.
//
// Field names become snake_case column names unless overridden with the
// `col` tag. The `desc` tag supplies the description the classifier
// searches, `key:"true"` marks key columns, and pointer fields are
// nullable. Unexported fields and fields tagged `col:"-"` are skipped.
//
//	type Customer struct {
//	    ID    int     `col:"customer_id" desc:"unique customer identifier" key:"true"`
//	    Email string  `desc:"customer email address"`
//	    City  *string `desc:"customer city"`
//	}
func ScanTable[T any](tableName string) TableMetadata {
	spec := sentinel.Scan[T]()

	table := TableMetadata{
		TableName: tableName,
		Database:  "default",
		Columns:   make([]ColumnMetadata, 0, len(spec.Fields)),
	}

	for _, field := range spec.Fields {
		name := field.Tags["col"]
		if name == "-" {
			continue
		}
		if name == "" {
			name = snakeCase(field.Name)
		}

		table.Columns = append(table.Columns, ColumnMetadata{
			Name:        name,
			DataType:    declaredType(field.ReflectType),
			Description: field.Tags["desc"],
			Nullable:    field.ReflectType.Kind() == reflect.Pointer,
			IsKey:       field.Tags["key"] == "true",
		})
	}

	return table
}

var timeType = reflect.TypeOf(time.Time{})

// declaredType maps a Go type to the loader's declared type vocabulary.
func declaredType(rt reflect.Type) string {
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt == timeType {
		return "date"
	}
	switch rt.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "int"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.Bool:
		return "bool"
	default:
		return "string"
	}
}

// snakeCase converts a Go field name to snake_case.
func snakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			// Start a new word unless preceded by another upper-case rune.
			if i > 0 && (!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
