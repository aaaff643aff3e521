package veil

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrModelNotFound indicates an explicitly configured model file does not exist.
	ErrModelNotFound = errors.New("model not found")

	// ErrModelLoad indicates a model file exists but could not be decoded.
	ErrModelLoad = errors.New("model load failed")

	// ErrNoTrainingData indicates Fit was called with an empty sample set.
	ErrNoTrainingData = errors.New("no training data")

	// ErrMetadataNotFound indicates a metadata directory or file does not exist.
	ErrMetadataNotFound = errors.New("metadata not found")

	// ErrInvalidMetadata indicates a metadata file could not be parsed.
	ErrInvalidMetadata = errors.New("invalid metadata")

	// ErrIncompletePolicy indicates a policy does not define a rule for
	// every sensitivity level.
	ErrIncompletePolicy = errors.New("incomplete policy")

	// ErrInvalidConfig indicates an environment configuration value is unusable.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrUnknownAggregate indicates an aggregate type other than the
	// defined ones was requested for a column roll-up.
	ErrUnknownAggregate = errors.New("unknown aggregate type")
)

// ConfigError represents a configuration failure. It wraps a sentinel
// error with the path or setting that triggered it.
type ConfigError struct {
	Err    error  // Underlying sentinel error (ErrModelNotFound, etc.)
	Path   string // File path or environment variable name
	Detail string // Optional human-readable detail
}

func (e *ConfigError) Error() string {
	switch {
	case e.Path != "" && e.Detail != "":
		return fmt.Sprintf("%s: %s (%s)", e.Err.Error(), e.Path, e.Detail)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Path)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Detail)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// PolicyError represents a policy validation failure. It carries the
// consumer type and the sensitivity levels the policy left uncovered.
type PolicyError struct {
	Err      error // Underlying sentinel error (ErrIncompletePolicy)
	Consumer ConsumerType
	Missing  []SensitivityLevel
}

func (e *PolicyError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("%s for consumer %q", e.Err.Error(), e.Consumer)
	}
	names := make([]string, len(e.Missing))
	for i, lvl := range e.Missing {
		names[i] = string(lvl)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s for consumer %q: missing levels %v", e.Err.Error(), e.Consumer, names)
}

func (e *PolicyError) Unwrap() error {
	return e.Err
}

// newConfigError creates a ConfigError for configuration failures.
func newConfigError(sentinel error, path, detail string) error {
	return &ConfigError{
		Err:    sentinel,
		Path:   path,
		Detail: detail,
	}
}

// newPolicyError creates a PolicyError for non-total policies.
func newPolicyError(consumer ConsumerType, missing []SensitivityLevel) error {
	return &PolicyError{
		Err:      ErrIncompletePolicy,
		Consumer: consumer,
		Missing:  missing,
	}
}
