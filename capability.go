package veil

import "strings"

// Kind represents a transformation strategy.
// Use these constants when building TransformationRule values.
type Kind string

const (
	// KindMask replaces characters with a mask character, optionally
	// keeping designated positions visible.
	KindMask Kind = "mask"

	// KindHash computes a one-way cryptographic digest of the value.
	KindHash Kind = "hash"

	// KindTokenize produces a keyed, deterministic pseudonym for the value.
	KindTokenize Kind = "tokenize"

	// KindAggregate marks the column for replacement by a single statistic.
	// The engine's element-wise path substitutes a fixed marker per value;
	// use Engine.AggregateColumn for the actual roll-up.
	KindAggregate Kind = "aggregate"

	// KindKeep passes values through unchanged.
	KindKeep Kind = "keep"
)

// SensitivityLevel classifies how much protection a column requires.
type SensitivityLevel string

const (
	// PII is personally identifiable information (names, contacts, identifiers).
	PII SensitivityLevel = "PII"

	// PHI is protected health information (diagnoses, medications, records).
	PHI SensitivityLevel = "PHI"

	// Sensitive covers financial, location, credential, and demographic data.
	Sensitive SensitivityLevel = "Sensitive"

	// NonSensitive is public or low-sensitivity data.
	NonSensitive SensitivityLevel = "Non-Sensitive"
)

// ConsumerType identifies the downstream recipient of transformed data.
type ConsumerType string

const (
	// InternalAnalyst favors data utility over privacy.
	InternalAnalyst ConsumerType = "internal_analyst"

	// ExternalPartner applies strict privacy with limited utility.
	ExternalPartner ConsumerType = "external_partner"

	// Reporting masks and aggregates for report generation.
	Reporting ConsumerType = "reporting"

	// Public applies maximum privacy for public release.
	Public ConsumerType = "public"
)

// Method records how a classification was produced.
type Method string

const (
	// MethodRuleBased means the ordered pattern tables decided alone.
	MethodRuleBased Method = "rule-based"

	// MethodML means the learned model's prediction won outright.
	MethodML Method = "ml"

	// MethodBlended means rule and model agreed and their confidences were averaged.
	MethodBlended Method = "blended"
)

// Levels returns all sensitivity levels in classification precedence order.
func Levels() []SensitivityLevel {
	return []SensitivityLevel{PII, PHI, Sensitive, NonSensitive}
}

// ConsumerTypes returns the built-in consumer types.
func ConsumerTypes() []ConsumerType {
	return []ConsumerType{InternalAnalyst, ExternalPartner, Reporting, Public}
}

// validKinds contains all valid transformation kinds.
var validKinds = map[Kind]bool{
	KindMask:      true,
	KindHash:      true,
	KindTokenize:  true,
	KindAggregate: true,
	KindKeep:      true,
}

// IsValidKind returns true if the kind is a known transformation kind.
func IsValidKind(k Kind) bool {
	return validKinds[k]
}

// ParseSensitivity resolves a loosely-formatted sensitivity string.
// Matching is case-insensitive and treats hyphens and underscores as
// interchangeable, so "non_sensitive" and "NON-SENSITIVE" both resolve
// to NonSensitive. The second result is false for unrecognized input.
func ParseSensitivity(s string) (SensitivityLevel, bool) {
	switch normalizeIdent(s) {
	case "pii":
		return PII, true
	case "phi":
		return PHI, true
	case "sensitive":
		return Sensitive, true
	case "non_sensitive", "nonsensitive":
		return NonSensitive, true
	}
	return "", false
}

// ParseConsumerType resolves a loosely-formatted consumer type string.
// Matching follows the same normalization as ParseSensitivity. Custom
// consumer types registered with the policy engine are not resolved here;
// they match by their exact registered identifier.
func ParseConsumerType(s string) (ConsumerType, bool) {
	switch normalizeIdent(s) {
	case "internal_analyst":
		return InternalAnalyst, true
	case "external_partner":
		return ExternalPartner, true
	case "reporting":
		return Reporting, true
	case "public":
		return Public, true
	}
	return "", false
}

// normalizeIdent lowercases and folds hyphens into underscores.
func normalizeIdent(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
}
