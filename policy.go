package veil

import (
	"sort"
	"sync"
)

// Parameter keys recognized by the transformation engine, per kind.
const (
	ParamKeepPositions = "keep_positions" // Mask: []int, negatives index from the end
	ParamMaskChar      = "mask_char"      // Mask: single-character string
	ParamAlgorithm     = "algorithm"      // Hash: digest name (sha256, sha512, blake2b)
	ParamSecretKey     = "secret_key"     // Tokenize: explicit key, optional
	ParamTokenLength   = "token_length"   // Tokenize: truncated token length
	ParamAggregateType = "aggregate_type" // Aggregate: statistic name
)

// Parameters configures a transformer. Values participate in the engine's
// cache key but not in rule identity.
type Parameters map[string]any

// TransformationRule directs how one (sensitivity, consumer) pair is
// transformed. Identity is the (Sensitivity, Consumer, Kind) triple;
// Parameters do not participate.
type TransformationRule struct {
	Sensitivity SensitivityLevel
	Consumer    ConsumerType
	Kind        Kind
	Parameters  Parameters
}

// Equal reports rule identity: the (sensitivity, consumer, kind) triple.
func (r TransformationRule) Equal(o TransformationRule) bool {
	return r.Sensitivity == o.Sensitivity && r.Consumer == o.Consumer && r.Kind == o.Kind
}

// ConsumerPolicy maps every sensitivity level to a transformation rule
// for one consumer type. A well-formed policy is total over the four
// sensitivity levels.
type ConsumerPolicy struct {
	Name     string
	Consumer ConsumerType
	Rules    map[SensitivityLevel]TransformationRule
}

// Rule returns the rule for a sensitivity level.
func (p ConsumerPolicy) Rule(level SensitivityLevel) (TransformationRule, bool) {
	rule, ok := p.Rules[level]
	return rule, ok
}

// Validate checks totality over the sensitivity levels.
func (p ConsumerPolicy) Validate() error {
	var missing []SensitivityLevel
	for _, level := range Levels() {
		if _, ok := p.Rules[level]; !ok {
			missing = append(missing, level)
		}
	}
	if len(missing) > 0 {
		return newPolicyError(p.Consumer, missing)
	}
	return nil
}

// PolicyEngine holds consumer policies and resolves transformation rules.
// The four built-in policies are installed at construction and may be
// replaced via RegisterPolicy. Safe for concurrent use.
type PolicyEngine struct {
	mu       sync.RWMutex
	policies map[ConsumerType]ConsumerPolicy
}

// NewPolicyEngine creates an engine with the built-in default policies.
func NewPolicyEngine() *PolicyEngine {
	e := &PolicyEngine{
		policies: make(map[ConsumerType]ConsumerPolicy, 4),
	}
	for _, p := range defaultPolicies() {
		e.policies[p.Consumer] = p
	}
	return e
}

// Policy returns the policy registered for a consumer type string.
// Built-in consumer names match leniently; custom registrations match by
// their exact identifier.
func (e *PolicyEngine) Policy(consumer string) (ConsumerPolicy, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lookupLocked(consumer)
}

func (e *PolicyEngine) lookupLocked(consumer string) (ConsumerPolicy, bool) {
	if p, ok := e.policies[ConsumerType(consumer)]; ok {
		return p, true
	}
	if ct, ok := ParseConsumerType(consumer); ok {
		p, ok := e.policies[ct]
		return p, ok
	}
	return ConsumerPolicy{}, false
}

// Rule resolves the transformation rule for a (consumer, sensitivity)
// pair. Both arguments are loosely formatted strings: matching is
// case-insensitive with hyphens and underscores interchangeable. Unknown
// consumer types or unparseable sensitivity strings yield absent rather
// than an error; the caller decides whether to pass through or reject.
func (e *PolicyEngine) Rule(consumer, sensitivity string) (TransformationRule, bool) {
	level, ok := ParseSensitivity(sensitivity)
	if !ok {
		return TransformationRule{}, false
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	policy, ok := e.lookupLocked(consumer)
	if !ok {
		return TransformationRule{}, false
	}
	return policy.Rule(level)
}

// RegisterPolicy inserts or replaces a policy keyed by its consumer type.
// The policy must be total over the sensitivity levels; partial policies
// are rejected with a PolicyError wrapping ErrIncompletePolicy.
func (e *PolicyEngine) RegisterPolicy(p ConsumerPolicy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.policies[p.Consumer] = p
	return nil
}

// RegisterPolicyPartial inserts or replaces a policy without the totality
// check. Lookups for uncovered levels return absent, which the engine
// treats as pass-through.
func (e *PolicyEngine) RegisterPolicyPartial(p ConsumerPolicy) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.policies[p.Consumer] = p
}

// ListPolicies returns all registered consumer-type keys, sorted.
func (e *PolicyEngine) ListPolicies() []ConsumerType {
	e.mu.RLock()
	defer e.mu.RUnlock()

	keys := make([]ConsumerType, 0, len(e.policies))
	for ct := range e.policies {
		keys = append(keys, ct)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// defaultPolicies builds the built-in rule table:
//
//	consumer          PII               PHI               Sensitive          Non-Sensitive
//	internal_analyst  tokenize(len=16)  tokenize(len=16)  mask(keep 0,-1)    keep
//	external_partner  hash(sha256)      hash(sha256)      mask(full)         keep
//	reporting         mask(full)        mask(full)        aggregate(count)   keep
//	public            hash(sha256)      hash(sha256)      aggregate(count)   keep
func defaultPolicies() []ConsumerPolicy {
	tokenize := Parameters{ParamTokenLength: 16}
	hash := Parameters{ParamAlgorithm: "sha256"}
	maskEdges := Parameters{ParamKeepPositions: []int{0, -1}, ParamMaskChar: "*"}
	maskFull := Parameters{ParamKeepPositions: []int{}, ParamMaskChar: "*"}
	count := Parameters{ParamAggregateType: "count"}

	build := func(name string, consumer ConsumerType, kinds map[SensitivityLevel]Kind, params map[SensitivityLevel]Parameters) ConsumerPolicy {
		rules := make(map[SensitivityLevel]TransformationRule, 4)
		for _, level := range Levels() {
			rules[level] = TransformationRule{
				Sensitivity: level,
				Consumer:    consumer,
				Kind:        kinds[level],
				Parameters:  params[level],
			}
		}
		return ConsumerPolicy{Name: name, Consumer: consumer, Rules: rules}
	}

	return []ConsumerPolicy{
		build("Internal Analytics", InternalAnalyst,
			map[SensitivityLevel]Kind{PII: KindTokenize, PHI: KindTokenize, Sensitive: KindMask, NonSensitive: KindKeep},
			map[SensitivityLevel]Parameters{PII: tokenize, PHI: tokenize, Sensitive: maskEdges, NonSensitive: {}},
		),
		build("External Partnership", ExternalPartner,
			map[SensitivityLevel]Kind{PII: KindHash, PHI: KindHash, Sensitive: KindMask, NonSensitive: KindKeep},
			map[SensitivityLevel]Parameters{PII: hash, PHI: hash, Sensitive: maskFull, NonSensitive: {}},
		),
		build("Reporting", Reporting,
			map[SensitivityLevel]Kind{PII: KindMask, PHI: KindMask, Sensitive: KindAggregate, NonSensitive: KindKeep},
			map[SensitivityLevel]Parameters{PII: maskFull, PHI: maskFull, Sensitive: count, NonSensitive: {}},
		),
		build("Public", Public,
			map[SensitivityLevel]Kind{PII: KindHash, PHI: KindHash, Sensitive: KindAggregate, NonSensitive: KindKeep},
			map[SensitivityLevel]Parameters{PII: hash, PHI: hash, Sensitive: count, NonSensitive: {}},
		),
	}
}
