package veil

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigError_Is(t *testing.T) {
	err := newConfigError(ErrModelNotFound, "models/clf.json", "")

	if !errors.Is(err, ErrModelNotFound) {
		t.Error("ConfigError should unwrap to ErrModelNotFound")
	}
	if errors.Is(err, ErrMetadataNotFound) {
		t.Error("ConfigError should not match unrelated sentinel")
	}
}

func TestConfigError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"path only", newConfigError(ErrModelNotFound, "m.json", ""), "model not found: m.json"},
		{"path and detail", newConfigError(ErrInvalidMetadata, "t.yaml", "bad indent"), "invalid metadata: t.yaml (bad indent)"},
		{"detail only", newConfigError(ErrInvalidConfig, "", "must be positive"), "invalid config: must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPolicyError(t *testing.T) {
	err := newPolicyError(ExternalPartner, []SensitivityLevel{PHI, PII})

	if !errors.Is(err, ErrIncompletePolicy) {
		t.Error("PolicyError should unwrap to ErrIncompletePolicy")
	}

	msg := err.Error()
	if !strings.Contains(msg, string(ExternalPartner)) {
		t.Errorf("message %q should name the consumer", msg)
	}
	if !strings.Contains(msg, "PII") || !strings.Contains(msg, "PHI") {
		t.Errorf("message %q should name the missing levels", msg)
	}
}
