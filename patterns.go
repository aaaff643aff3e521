package veil

import "regexp"

// Pattern is a named regular expression tested against a column's
// lowercased search text.
type Pattern struct {
	Name string // reasoning label, e.g. "email patterns"
	Expr *regexp.Regexp
}

// PatternTable binds a sensitivity level to an ordered pattern list and
// the confidence a match yields. Within a table the first matching
// pattern wins; across tables the first matching table wins.
type PatternTable struct {
	Level      SensitivityLevel
	Confidence float64
	Patterns   []Pattern
}

// DefaultPatternTables returns the built-in rule tables in classification
// precedence order: PII, then PHI, then Sensitive. The tables are plain
// data so precedence can be inspected and tested directly.
func DefaultPatternTables() []PatternTable {
	return []PatternTable{
		{
			Level:      PII,
			Confidence: 0.90,
			Patterns: []Pattern{
				{"name patterns", regexp.MustCompile(`first_?name|last_?name|name|full_?name`)},
				{"email patterns", regexp.MustCompile(`email|email_?address|e_?mail`)},
				{"phone patterns", regexp.MustCompile(`phone|tel|mobile|contact`)},
				{"SSN patterns", regexp.MustCompile(`ssn|social_?security|social_security_?number`)},
				{"ID document patterns", regexp.MustCompile(`passport|driver_?license|drivers_?license`)},
				{"address patterns", regexp.MustCompile(`address|street|residence`)},
				{"date of birth patterns", regexp.MustCompile(`dob|date_?of_?birth|birth_?date`)},
				{"credit card patterns", regexp.MustCompile(`credit_?card|cc_?number|card_?number`)},
				{"account number patterns", regexp.MustCompile(`account_?number|acct_?number`)},
			},
		},
		{
			Level:      PHI,
			Confidence: 0.90,
			Patterns: []Pattern{
				{"diagnosis patterns", regexp.MustCompile(`diagnosis|diagnoses|medical_?condition`)},
				{"medication patterns", regexp.MustCompile(`medication|medicine|drug|prescription`)},
				{"medical record patterns", regexp.MustCompile(`medical_?record|patient_?record|health_?record`)},
				{"health domain keywords", regexp.MustCompile(`patient|health|medical|clinical`)},
				{"lab result patterns", regexp.MustCompile(`laboratory|lab_?result|lab_?test`)},
				{"treatment patterns", regexp.MustCompile(`procedure|surgery|treatment`)},
			},
		},
		{
			Level:      Sensitive,
			Confidence: 0.85,
			Patterns: []Pattern{
				{"financial amount patterns", regexp.MustCompile(`salary|income|wage|payment|amount|price|cost|revenue`)},
				{"financial keywords", regexp.MustCompile(`bank|account|balance|transaction|financial`)},
				{"location patterns", regexp.MustCompile(`zip_?code|postal_?code|location|latitude|longitude`)},
				{"device identifier patterns", regexp.MustCompile(`ip_?address|device_?id|mac_?address|imei`)},
				{"security credential patterns", regexp.MustCompile(`password|secret|token|key|credential`)},
				{"demographic sensitive patterns", regexp.MustCompile(`religion|ethnicity|race|gender|sexual_?orientation`)},
			},
		},
	}
}
