package veil

import (
	"errors"
	"reflect"
	"testing"
)

func TestPolicyEngine_DefaultMatrix(t *testing.T) {
	e := NewPolicyEngine()

	tests := []struct {
		consumer ConsumerType
		level    SensitivityLevel
		kind     Kind
	}{
		{InternalAnalyst, PII, KindTokenize},
		{InternalAnalyst, PHI, KindTokenize},
		{InternalAnalyst, Sensitive, KindMask},
		{InternalAnalyst, NonSensitive, KindKeep},

		{ExternalPartner, PII, KindHash},
		{ExternalPartner, PHI, KindHash},
		{ExternalPartner, Sensitive, KindMask},
		{ExternalPartner, NonSensitive, KindKeep},

		{Reporting, PII, KindMask},
		{Reporting, PHI, KindMask},
		{Reporting, Sensitive, KindAggregate},
		{Reporting, NonSensitive, KindKeep},

		{Public, PII, KindHash},
		{Public, PHI, KindHash},
		{Public, Sensitive, KindAggregate},
		{Public, NonSensitive, KindKeep},
	}

	for _, tt := range tests {
		t.Run(string(tt.consumer)+"/"+string(tt.level), func(t *testing.T) {
			rule, ok := e.Rule(string(tt.consumer), string(tt.level))
			if !ok {
				t.Fatalf("no rule for (%s, %s)", tt.consumer, tt.level)
			}
			if rule.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", rule.Kind, tt.kind)
			}
			if rule.Consumer != tt.consumer || rule.Sensitivity != tt.level {
				t.Errorf("rule identity = (%s, %s), want (%s, %s)",
					rule.Consumer, rule.Sensitivity, tt.consumer, tt.level)
			}
		})
	}
}

func TestPolicyEngine_DefaultParameters(t *testing.T) {
	e := NewPolicyEngine()

	rule, _ := e.Rule("internal_analyst", "PII")
	if got := rule.Parameters[ParamTokenLength]; got != 16 {
		t.Errorf("tokenize length = %v, want 16", got)
	}

	rule, _ = e.Rule("external_partner", "PII")
	if got := rule.Parameters[ParamAlgorithm]; got != "sha256" {
		t.Errorf("hash algorithm = %v, want sha256", got)
	}

	rule, _ = e.Rule("internal_analyst", "Sensitive")
	if got := rule.Parameters[ParamKeepPositions]; !reflect.DeepEqual(got, []int{0, -1}) {
		t.Errorf("keep positions = %v, want [0 -1]", got)
	}

	rule, _ = e.Rule("reporting", "Sensitive")
	if got := rule.Parameters[ParamAggregateType]; got != "count" {
		t.Errorf("aggregate type = %v, want count", got)
	}
}

func TestPolicyEngine_LenientLookup(t *testing.T) {
	e := NewPolicyEngine()

	variants := []struct {
		consumer string
		level    string
	}{
		{"internal_analyst", "PII"},
		{"Internal_Analyst", "pii"},
		{"internal-analyst", "PII"},
		{"  internal_analyst  ", "PII"},
	}
	for _, v := range variants {
		if _, ok := e.Rule(v.consumer, v.level); !ok {
			t.Errorf("Rule(%q, %q) should resolve leniently", v.consumer, v.level)
		}
	}

	if _, ok := e.Rule("nonexistent", "PII"); ok {
		t.Error("unknown consumer should be absent, not an error")
	}
	if _, ok := e.Rule("public", "Ultra"); ok {
		t.Error("unknown sensitivity should be absent")
	}
}

func TestPolicyEngine_RegisterPolicy(t *testing.T) {
	e := NewPolicyEngine()

	partial := ConsumerPolicy{
		Name:     "Partner X",
		Consumer: "partner_x",
		Rules: map[SensitivityLevel]TransformationRule{
			PII: {Sensitivity: PII, Consumer: "partner_x", Kind: KindHash},
		},
	}

	err := e.RegisterPolicy(partial)
	if err == nil {
		t.Fatal("RegisterPolicy should reject a policy missing levels")
	}
	var perr *PolicyError
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T, want *PolicyError", err)
	}
	if !errors.Is(err, ErrIncompletePolicy) {
		t.Error("should unwrap to ErrIncompletePolicy")
	}
	if len(perr.Missing) != 3 {
		t.Errorf("missing levels = %v, want 3 entries", perr.Missing)
	}
	if _, ok := e.Policy("partner_x"); ok {
		t.Error("rejected policy must not be installed")
	}

	e.RegisterPolicyPartial(partial)
	if _, ok := e.Policy("partner_x"); !ok {
		t.Error("RegisterPolicyPartial should install despite missing levels")
	}
	if _, ok := e.Rule("partner_x", "PHI"); ok {
		t.Error("missing level in a partial policy stays absent")
	}
}

func TestPolicyEngine_RegisterPolicy_Complete(t *testing.T) {
	e := NewPolicyEngine()

	rules := make(map[SensitivityLevel]TransformationRule, 4)
	for _, level := range Levels() {
		rules[level] = TransformationRule{Sensitivity: level, Consumer: "partner_y", Kind: KindKeep}
	}
	if err := e.RegisterPolicy(ConsumerPolicy{Name: "Partner Y", Consumer: "partner_y", Rules: rules}); err != nil {
		t.Fatalf("complete policy rejected: %v", err)
	}
	rule, ok := e.Rule("partner_y", "PII")
	if !ok || rule.Kind != KindKeep {
		t.Errorf("registered rule = %v, %v", rule, ok)
	}
}

func TestPolicyEngine_ListPolicies(t *testing.T) {
	e := NewPolicyEngine()

	got := e.ListPolicies()
	want := []ConsumerType{ExternalPartner, InternalAnalyst, Public, Reporting}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListPolicies = %v, want %v", got, want)
	}
}

func TestTransformationRule_Equal(t *testing.T) {
	a := TransformationRule{Sensitivity: PII, Consumer: Public, Kind: KindHash,
		Parameters: Parameters{ParamAlgorithm: "sha256"}}
	b := TransformationRule{Sensitivity: PII, Consumer: Public, Kind: KindHash,
		Parameters: Parameters{ParamAlgorithm: "sha512"}}
	if !a.Equal(b) {
		t.Error("rule identity is (sensitivity, consumer, kind); parameters do not participate")
	}

	c := b
	c.Kind = KindMask
	if a.Equal(c) {
		t.Error("different kinds are different rules")
	}
}

func TestConsumerPolicy_Validate(t *testing.T) {
	for _, p := range defaultPolicies() {
		if err := p.Validate(); err != nil {
			t.Errorf("built-in policy %q invalid: %v", p.Name, err)
		}
	}
}
