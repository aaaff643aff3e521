package veil

import (
	"reflect"
	"testing"
	"time"
)

func TestTableMetadata_Column(t *testing.T) {
	table := TableMetadata{
		TableName: "customers",
		Columns: []ColumnMetadata{
			{Name: "customer_id"},
			{Name: "email"},
		},
	}

	col, ok := table.Column("email")
	if !ok || col.Name != "email" {
		t.Errorf("Column(email) = %+v, %v", col, ok)
	}
	if _, ok := table.Column("absent"); ok {
		t.Error("Column(absent) should not resolve")
	}
	if got := table.ColumnNames(); !reflect.DeepEqual(got, []string{"customer_id", "email"}) {
		t.Errorf("ColumnNames = %v", got)
	}
}

type scanCustomer struct {
	ID        int    `col:"customer_id" desc:"unique customer identifier" key:"true"`
	Email     string `desc:"customer email address"`
	City      *string
	SignupAt  time.Time
	Balance   float64 `col:"account_balance"`
	Active    bool
	Internal  string `col:"-"`
	unexposed string
}

func TestScanTable(t *testing.T) {
	table := ScanTable[scanCustomer]("customers")

	if table.TableName != "customers" || table.Database != "default" {
		t.Errorf("identity = %q/%q", table.TableName, table.Database)
	}

	want := []ColumnMetadata{
		{Name: "customer_id", DataType: "int", Description: "unique customer identifier", IsKey: true},
		{Name: "email", DataType: "string", Description: "customer email address"},
		{Name: "city", DataType: "string", Nullable: true},
		{Name: "signup_at", DataType: "date"},
		{Name: "account_balance", DataType: "float"},
		{Name: "active", DataType: "bool"},
	}
	if !reflect.DeepEqual(table.Columns, want) {
		t.Errorf("columns mismatch:\n got %+v\nwant %+v", table.Columns, want)
	}
}

func TestScanTable_ClassifierIntegration(t *testing.T) {
	// Scanned metadata feeds straight into classification: the desc tag
	// carries the text the pattern tables search.
	table := ScanTable[scanCustomer]("customers")
	results := NewClassifier().ClassifyTable(table.Columns)

	if results["email"].Level != PII {
		t.Errorf("email = %s, want PII", results["email"].Level)
	}
	if results["account_balance"].Level != Sensitive {
		t.Errorf("account_balance = %s, want Sensitive", results["account_balance"].Level)
	}
}

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Email", "email"},
		{"SignupAt", "signup_at"},
		{"CustomerID", "customer_id"},
		{"HTTPStatus", "http_status"},
		{"ID", "id"},
		{"already_snake", "already_snake"},
	}
	for _, tt := range tests {
		if got := snakeCase(tt.in); got != tt.want {
			t.Errorf("snakeCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
