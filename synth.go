package veil

import (
	"fmt"
	"math/rand"
)

// SampleGenerator produces synthetic table metadata and plausible row
// data for demonstration and testing. The random source is supplied by
// the caller so runs stay reproducible; there is no package-level seed.
type SampleGenerator struct {
	rng *rand.Rand
}

// NewSampleGenerator creates a generator over the given source.
func NewSampleGenerator(rng *rand.Rand) *SampleGenerator {
	return &SampleGenerator{rng: rng}
}

// SampleTables returns the built-in sample table set.
func (g *SampleGenerator) SampleTables() []TableMetadata {
	return []TableMetadata{
		g.CustomerTable(),
		g.HealthTable(),
		g.SalesTable(),
	}
}

// CustomerTable returns metadata for a customer PII table.
func (g *SampleGenerator) CustomerTable() TableMetadata {
	return TableMetadata{
		TableName:   "customers",
		Database:    "main_db",
		Description: "Customer personal information and contact details",
		Owner:       "data_governance_team",
		Columns: []ColumnMetadata{
			{Name: "customer_id", DataType: "int", Description: "Unique customer identifier (primary key)", IsKey: true, Examples: []string{"1", "2", "3"}},
			{Name: "first_name", DataType: "string", Description: "Customer first name (PII)", Nullable: true, Examples: []string{"John", "Jane", "Bob"}},
			{Name: "last_name", DataType: "string", Description: "Customer last name (PII)", Nullable: true, Examples: []string{"Doe", "Smith", "Johnson"}},
			{Name: "email", DataType: "string", Description: "Customer email address (PII)", Nullable: true, Examples: []string{"john@example.com", "jane@example.com"}},
			{Name: "phone", DataType: "string", Description: "Customer phone number (PII)", Nullable: true, Examples: []string{"555-0101", "555-0102"}},
			{Name: "ssn", DataType: "string", Description: "Social Security Number (Sensitive PII)", Nullable: true, Examples: []string{"123-45-6789", "987-65-4321"}},
			{Name: "dob", DataType: "date", Description: "Date of birth (PII)", Nullable: true, Examples: []string{"1990-01-15", "1985-06-20"}},
			{Name: "address", DataType: "string", Description: "Customer street address (PII)", Nullable: true, Examples: []string{"123 Main St", "456 Oak Ave"}},
			{Name: "zip_code", DataType: "string", Description: "Customer zip code (Sensitive)", Nullable: true, Examples: []string{"10001", "90001"}},
			{Name: "registration_date", DataType: "date", Description: "Account registration date (Non-Sensitive)", Nullable: true, Examples: []string{"2020-01-01", "2021-06-15"}},
			{Name: "status", DataType: "string", Description: "Customer account status (Non-Sensitive)", Nullable: true, Examples: []string{"active", "inactive"}},
		},
	}
}

// HealthTable returns metadata for a patient PHI table.
func (g *SampleGenerator) HealthTable() TableMetadata {
	return TableMetadata{
		TableName:   "patient_records",
		Database:    "health_db",
		Description: "Patient medical and health information",
		Owner:       "healthcare_admin",
		Columns: []ColumnMetadata{
			{Name: "patient_id", DataType: "int", Description: "Unique patient identifier (primary key)", IsKey: true, Examples: []string{"1", "2", "3"}},
			{Name: "patient_name", DataType: "string", Description: "Patient full name (PHI)", Nullable: true, Examples: []string{"John Doe", "Jane Smith"}},
			{Name: "medical_record_number", DataType: "string", Description: "Medical record number (PHI)", Nullable: true, Examples: []string{"MRN123456", "MRN789012"}},
			{Name: "diagnosis", DataType: "string", Description: "Patient diagnosis (PHI/Sensitive)", Nullable: true, Examples: []string{"Diabetes Type 2", "Hypertension"}},
			{Name: "medication", DataType: "string", Description: "Prescribed medication (PHI)", Nullable: true, Examples: []string{"Metformin", "Lisinopril"}},
			{Name: "dob", DataType: "date", Description: "Date of birth (PHI)", Nullable: true, Examples: []string{"1965-03-20", "1970-11-10"}},
			{Name: "visit_date", DataType: "date", Description: "Last visit date (Non-Sensitive)", Nullable: true, Examples: []string{"2024-12-15", "2024-11-20"}},
			{Name: "provider_name", DataType: "string", Description: "Healthcare provider name (Non-Sensitive)", Nullable: true, Examples: []string{"Dr. Smith", "Nurse Johnson"}},
		},
	}
}

// SalesTable returns metadata for a sales transaction table.
func (g *SampleGenerator) SalesTable() TableMetadata {
	return TableMetadata{
		TableName:   "sales_transactions",
		Database:    "commerce_db",
		Description: "Customer sales transactions",
		Owner:       "sales_team",
		Columns: []ColumnMetadata{
			{Name: "transaction_id", DataType: "int", Description: "Unique transaction identifier (primary key)", IsKey: true, Examples: []string{"1", "2", "3"}},
			{Name: "customer_id", DataType: "int", Description: "Customer identifier (foreign key)", Nullable: true, Examples: []string{"101", "102", "103"}},
			{Name: "product_name", DataType: "string", Description: "Product name (Non-Sensitive)", Nullable: true, Examples: []string{"Laptop", "Mouse", "Monitor"}},
			{Name: "quantity", DataType: "int", Description: "Purchase quantity (Non-Sensitive)", Nullable: true, Examples: []string{"1", "2", "5"}},
			{Name: "amount", DataType: "float", Description: "Transaction amount (Sensitive)", Nullable: true, Examples: []string{"1299.99", "2500.00"}},
			{Name: "payment_method", DataType: "string", Description: "Payment method (Sensitive)", Nullable: true, Examples: []string{"credit_card", "debit_card"}},
			{Name: "transaction_date", DataType: "date", Description: "Transaction date (Non-Sensitive)", Nullable: true, Examples: []string{"2024-12-01", "2024-12-15"}},
		},
	}
}

// Rows synthesizes n rows of column data for a table. Columns with
// example values cycle through them with random variation of numeric
// suffixes; key columns count up from 1.
func (g *SampleGenerator) Rows(table TableMetadata, n int) map[string][]any {
	columns := make(map[string][]any, len(table.Columns))
	for _, col := range table.Columns {
		values := make([]any, n)
		for i := 0; i < n; i++ {
			values[i] = g.value(col, i)
		}
		columns[col.Name] = values
	}
	return columns
}

func (g *SampleGenerator) value(col ColumnMetadata, row int) any {
	if col.IsKey {
		return row + 1
	}
	if len(col.Examples) > 0 {
		return col.Examples[g.rng.Intn(len(col.Examples))]
	}
	switch col.DataType {
	case "int":
		return g.rng.Intn(1000)
	case "float":
		return float64(g.rng.Intn(100000)) / 100
	default:
		return fmt.Sprintf("%s_%d", col.Name, row+1)
	}
}
