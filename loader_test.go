package veil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const customersYAML = `table_name: customers
database: crm
description: Customer master data
owner: data-platform
columns:
  - name: customer_id
    data_type: integer
    is_key: true
    nullable: false
  - name: email
    description: Customer email address
    examples: ["john@example.com"]
  - name: notes
`

func writeMetadata(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestMetadataLoader_LoadTable(t *testing.T) {
	dir := t.TempDir()
	writeMetadata(t, dir, "customers.yaml", customersYAML)

	loader, err := NewMetadataLoader(dir)
	if err != nil {
		t.Fatalf("NewMetadataLoader: %v", err)
	}

	table, err := loader.LoadTable("customers.yaml")
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}

	if table.TableName != "customers" || table.Database != "crm" {
		t.Errorf("table identity = %q/%q", table.TableName, table.Database)
	}
	if len(table.Columns) != 3 {
		t.Fatalf("columns = %d, want 3", len(table.Columns))
	}

	id := table.Columns[0]
	if id.DataType != "integer" || !id.IsKey || id.Nullable {
		t.Errorf("customer_id = %+v, want integer key, not nullable", id)
	}

	email := table.Columns[1]
	if email.Description != "Customer email address" {
		t.Errorf("email description = %q", email.Description)
	}
	if len(email.Examples) != 1 || email.Examples[0] != "john@example.com" {
		t.Errorf("email examples = %v", email.Examples)
	}

	// Absent fields take the documented defaults.
	notes := table.Columns[2]
	if notes.DataType != "string" {
		t.Errorf("default data type = %q, want string", notes.DataType)
	}
	if !notes.Nullable {
		t.Error("nullable should default to true")
	}
}

func TestMetadataLoader_DatabaseDefault(t *testing.T) {
	dir := t.TempDir()
	writeMetadata(t, dir, "t.yaml", "table_name: t\ncolumns:\n  - name: x\n")

	loader, _ := NewMetadataLoader(dir)
	table, err := loader.LoadTable("t.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if table.Database != "default" {
		t.Errorf("database = %q, want default", table.Database)
	}
}

func TestMetadataLoader_MissingDir(t *testing.T) {
	_, err := NewMetadataLoader(filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, ErrMetadataNotFound) {
		t.Errorf("error = %v, want ErrMetadataNotFound", err)
	}
}

func TestMetadataLoader_MissingFile(t *testing.T) {
	loader, _ := NewMetadataLoader(t.TempDir())
	_, err := loader.LoadTable("absent.yaml")
	if !errors.Is(err, ErrMetadataNotFound) {
		t.Errorf("error = %v, want ErrMetadataNotFound", err)
	}
}

func TestMetadataLoader_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeMetadata(t, dir, "bad.yaml", "table_name: [unclosed\n")

	loader, _ := NewMetadataLoader(dir)
	if _, err := loader.LoadTable("bad.yaml"); !errors.Is(err, ErrInvalidMetadata) {
		t.Errorf("error = %v, want ErrInvalidMetadata", err)
	}
}

func TestMetadataLoader_LoadAll(t *testing.T) {
	dir := t.TempDir()
	writeMetadata(t, dir, "customers.yaml", customersYAML)
	writeMetadata(t, dir, "orders.yaml", "table_name: orders\ncolumns:\n  - name: order_id\n")
	writeMetadata(t, dir, "readme.txt", "not metadata")
	writeMetadata(t, dir, "broken.yaml", "table_name: [unclosed\n")

	loader, _ := NewMetadataLoader(dir)
	tables, err := loader.LoadAll()

	// Broken files are skipped but reported.
	if !errors.Is(err, ErrInvalidMetadata) {
		t.Errorf("error = %v, want ErrInvalidMetadata from broken.yaml", err)
	}
	if len(tables) != 2 {
		t.Fatalf("tables = %d, want 2", len(tables))
	}
	if _, ok := tables["customers"]; !ok {
		t.Error("customers missing")
	}
	if _, ok := tables["orders"]; !ok {
		t.Error("orders missing")
	}
}

func TestSaveTable_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "meta")

	table := TableMetadata{
		TableName:   "patients",
		Database:    "clinical",
		Description: "Patient registry",
		Owner:       "health-data",
		Columns: []ColumnMetadata{
			{Name: "patient_id", DataType: "integer", IsKey: true},
			{Name: "diagnosis", DataType: "string", Description: "Primary diagnosis", Nullable: true},
		},
	}

	path, err := SaveTable(table, dir)
	if err != nil {
		t.Fatalf("SaveTable: %v", err)
	}
	if filepath.Base(path) != "patients.yaml" {
		t.Errorf("path = %q, want patients.yaml", path)
	}

	loader, err := NewMetadataLoader(dir)
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := loader.LoadTable("patients.yaml")
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}

	if loaded.TableName != table.TableName || loaded.Database != table.Database {
		t.Errorf("identity = %q/%q", loaded.TableName, loaded.Database)
	}
	if len(loaded.Columns) != 2 {
		t.Fatalf("columns = %d, want 2", len(loaded.Columns))
	}
	if loaded.Columns[0].Name != "patient_id" || !loaded.Columns[0].IsKey {
		t.Errorf("columns[0] = %+v", loaded.Columns[0])
	}
}
