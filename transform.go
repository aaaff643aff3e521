package veil

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Engine applies transformations to column values. Transformer instances
// are created lazily and cached by (kind, canonical parameters) for the
// engine's lifetime, which preserves tokenization-key continuity and
// memoization across calls.
//
// Engines are safe for concurrent use; the transformer cache is the only
// shared mutable state and is lock-guarded.
type Engine struct {
	mu    sync.RWMutex
	cache map[engineCacheKey]Transformer

	defaultSecret string
	memoCapacity  int
}

// engineCacheKey combines kind and canonicalized parameters.
type engineCacheKey struct {
	kind   Kind
	params string
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithDefaultSecret sets the tokenization key used when a rule supplies
// none, substituting for the environment-provided key.
func WithDefaultSecret(key string) EngineOption {
	return func(e *Engine) {
		e.defaultSecret = key
	}
}

// WithMemoCapacity bounds each tokenizer's value-memo cache.
func WithMemoCapacity(n int) EngineOption {
	return func(e *Engine) {
		e.memoCapacity = n
	}
}

// WithConfig applies the environment configuration's secret key and memo
// capacity.
func WithConfig(cfg *Config) EngineOption {
	return func(e *Engine) {
		e.defaultSecret = cfg.SecretKey
		e.memoCapacity = cfg.TokenCacheSize
	}
}

// NewEngine creates a transformation engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		cache:        make(map[engineCacheKey]Transformer),
		memoCapacity: defaultMemoCapacity,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Transformer returns the cached transformer for (kind, parameters),
// building it on first request. Identical pairs always resolve to the
// same instance within the engine's lifetime.
func (e *Engine) Transformer(kind Kind, params Parameters) Transformer {
	key := engineCacheKey{kind: kind, params: canonicalParams(params)}

	// Fast path: read-lock cache check
	e.mu.RLock()
	if t, ok := e.cache[key]; ok {
		e.mu.RUnlock()
		return t
	}
	e.mu.RUnlock()

	// Slow path: build and cache with write-lock
	e.mu.Lock()
	defer e.mu.Unlock()

	// Double-check pattern
	if t, ok := e.cache[key]; ok {
		return t
	}

	t := e.buildTransformer(kind, params)
	e.cache[key] = t
	return t
}

// buildTransformer constructs a transformer from rule parameters.
// Unknown kinds resolve to keep: a deliberate fail-open default, flagged
// with a signal because misconfiguration then yields no protection.
func (e *Engine) buildTransformer(kind Kind, params Parameters) Transformer {
	switch kind {
	case KindMask:
		return NewMaskTransformer(
			intsParam(params, ParamKeepPositions),
			runeParam(params, ParamMaskChar, '*'),
		)
	case KindHash:
		return NewHashTransformer(HashAlgo(stringParam(params, ParamAlgorithm, string(HashSHA256))))
	case KindTokenize:
		secret := stringParam(params, ParamSecretKey, e.defaultSecret)
		return NewTokenizeTransformer(secret, intParam(params, ParamTokenLength, defaultTokenLength), e.memoCapacity)
	case KindAggregate:
		return NewAggregateTransformer(AggregateType(stringParam(params, ParamAggregateType, string(AggregateCount))))
	case KindKeep:
		return NewKeepTransformer()
	default:
		emitUnknownKind(context.Background(), kind)
		return NewKeepTransformer()
	}
}

// Apply transforms values element-wise, preserving order and length.
func (e *Engine) Apply(values []any, kind Kind, params Parameters) []any {
	t := e.Transformer(kind, params)
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = t.Transform(v)
	}
	return out
}

// ApplyRule applies a resolved policy rule to values.
func (e *Engine) ApplyRule(values []any, rule TransformationRule) []any {
	return e.Apply(values, rule.Kind, rule.Parameters)
}

// ApplyColumn resolves the rule for (sensitivity, consumer) via the
// policy engine and applies it. When no rule resolves, the input values
// are returned unchanged: the engine fails open to pass-through rather
// than dropping or erroring.
func (e *Engine) ApplyColumn(values []any, sensitivity SensitivityLevel, consumer ConsumerType, policies *PolicyEngine) []any {
	rule, ok := policies.Rule(string(consumer), string(sensitivity))
	if !ok {
		emitNoRuleFound(context.Background(), string(consumer), string(sensitivity))
		return values
	}
	return e.ApplyRule(values, rule)
}

// AggregateColumn computes the column-level statistic an aggregate rule
// stands for: the roll-up that replaces the column, as opposed to the
// per-value markers ApplyColumn substitutes.
func (e *Engine) AggregateColumn(values []any, agg AggregateType) (any, error) {
	switch agg {
	case AggregateCount:
		return len(values), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAggregate, agg)
	}
}

// canonicalParams renders parameters in a stable form for cache keys:
// keys sorted, sequence values order-preserving.
func canonicalParams(params Parameters) string {
	if len(params) == 0 {
		return ""
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(canonicalValue(params[k]))
	}
	return b.String()
}

// canonicalValue renders a parameter value, preserving sequence order.
func canonicalValue(v any) string {
	switch val := v.(type) {
	case []int:
		parts := make([]string, len(val))
		for i, n := range val {
			parts[i] = strconv.Itoa(n)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = canonicalValue(item)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case []string:
		return "[" + strings.Join(val, ",") + "]"
	default:
		return fmt.Sprint(val)
	}
}

// valueString renders a scalar value for transformation. Nil yields the
// empty string.
func valueString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Parameter coercion helpers. Rules built in code carry typed values;
// rules decoded from YAML or JSON carry []any and float64.

func intsParam(params Parameters, key string) []int {
	switch val := params[key].(type) {
	case []int:
		return val
	case []any:
		out := make([]int, 0, len(val))
		for _, item := range val {
			switch n := item.(type) {
			case int:
				out = append(out, n)
			case float64:
				out = append(out, int(n))
			}
		}
		return out
	default:
		return nil
	}
}

func intParam(params Parameters, key string, fallback int) int {
	switch val := params[key].(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	default:
		return fallback
	}
}

func stringParam(params Parameters, key, fallback string) string {
	if s, ok := params[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func runeParam(params Parameters, key string, fallback rune) rune {
	switch val := params[key].(type) {
	case rune:
		return val
	case string:
		if val != "" {
			return []rune(val)[0]
		}
	}
	return fallback
}
