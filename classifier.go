package veil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Rule-based confidences are fixed per pattern table; the model is only
// consulted below blendThreshold.
const (
	defaultConfidence = 0.70
	blendThreshold    = 0.80
)

// ClassificationResult is the outcome of classifying a single column.
// Results are created fresh per call and never mutated afterwards.
type ClassificationResult struct {
	ColumnName string
	Level      SensitivityLevel
	Confidence float64
	Reasoning  string
	Method     Method
}

// Classifier resolves column sensitivity from metadata via ordered rule
// matching, optionally blended with a learned model.
//
// Classifiers are deterministic for identical metadata and configuration,
// and safe for concurrent use: pattern tables and the model are fixed at
// construction.
type Classifier struct {
	tables []PatternTable
	model  Model
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithModel supplies an already-constructed learned model for blending.
func WithModel(m Model) ClassifierOption {
	return func(c *Classifier) {
		c.model = m
	}
}

// WithModelPath loads a persisted model from path. A load failure is
// non-fatal: a degradation signal is emitted and the classifier runs
// rule-based only for its lifetime. Callers that must fail hard on a
// missing model should use LoadModel and WithModel instead.
func WithModelPath(path string) ClassifierOption {
	return func(c *Classifier) {
		model, err := LoadModel(path)
		if err != nil {
			emitModelLoadFailed(context.Background(), path, err)
			return
		}
		c.model = model
	}
}

// WithPatternTables replaces the built-in rule tables. Tables are matched
// in the order given.
func WithPatternTables(tables []PatternTable) ClassifierOption {
	return func(c *Classifier) {
		c.tables = tables
	}
}

// NewClassifier creates a classifier with the built-in pattern tables.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		tables: DefaultPatternTables(),
	}
	for _, opt := range opts {
		opt(c)
	}
	emitClassifierCreated(context.Background(), "", c.model != nil)
	return c
}

// Classify resolves the sensitivity level of a single column.
//
// The rule-based pass runs first. When a model is configured and the rule
// confidence is below 0.80, the model is consulted: a model result with
// higher confidence wins outright (method ml); agreement on the level
// averages the two confidences (method blended); otherwise the rule
// result stands unchanged.
func (c *Classifier) Classify(col ColumnMetadata) ClassificationResult {
	rule := c.classifyByRules(col)

	if c.model != nil && rule.Confidence < blendThreshold {
		ml := c.classifyByModel(col)

		if ml.Confidence > rule.Confidence {
			return ml
		}
		if ml.Level == rule.Level {
			return ClassificationResult{
				ColumnName: col.Name,
				Level:      rule.Level,
				Confidence: (rule.Confidence + ml.Confidence) / 2,
				Reasoning:  fmt.Sprintf("Blended (rule + ML): %s | ML: %s", rule.Reasoning, ml.Reasoning),
				Method:     MethodBlended,
			}
		}
	}

	return rule
}

// classifyByRules tests the ordered pattern tables against the column's
// lowercased name and description. First match in the first matching
// table wins.
func (c *Classifier) classifyByRules(col ColumnMetadata) ClassificationResult {
	searchText := strings.ToLower(col.Name + " " + col.Description)

	for _, table := range c.tables {
		for _, pattern := range table.Patterns {
			if pattern.Expr.MatchString(searchText) {
				return ClassificationResult{
					ColumnName: col.Name,
					Level:      table.Level,
					Confidence: table.Confidence,
					Reasoning:  fmt.Sprintf("Matched %s pattern: %s", table.Level, pattern.Name),
					Method:     MethodRuleBased,
				}
			}
		}
	}

	return ClassificationResult{
		ColumnName: col.Name,
		Level:      NonSensitive,
		Confidence: defaultConfidence,
		Reasoning:  "No sensitivity patterns matched; column is non-sensitive",
		Method:     MethodRuleBased,
	}
}

// classifyByModel predicts the level from the combined feature text. A
// failed prediction degrades to NonSensitive with zero confidence rather
// than propagating.
func (c *Classifier) classifyByModel(col ColumnMetadata) ClassificationResult {
	pred, err := c.model.Predict(FeatureText(col))
	if err != nil {
		emitPredictFailed(context.Background(), col.Name, err)
		return ClassificationResult{
			ColumnName: col.Name,
			Level:      NonSensitive,
			Confidence: 0,
			Reasoning:  "ML prediction error",
			Method:     MethodML,
		}
	}

	return ClassificationResult{
		ColumnName: col.Name,
		Level:      pred.Level,
		Confidence: pred.Confidence,
		Reasoning:  fmt.Sprintf("ML model prediction (confidence %.2f)", pred.Confidence),
		Method:     MethodML,
	}
}

// ClassifyTable classifies every column, keyed by column name.
func (c *Classifier) ClassifyTable(columns []ColumnMetadata) map[string]ClassificationResult {
	start := time.Now()
	results := make(map[string]ClassificationResult, len(columns))
	for _, col := range columns {
		results[col.Name] = c.Classify(col)
	}
	emitTableClassified(context.Background(), len(results), time.Since(start))
	return results
}

// Summary counts classifications per sensitivity level. Every level is
// present in the result, defaulting to zero.
func Summary(results map[string]ClassificationResult) map[SensitivityLevel]int {
	summary := make(map[SensitivityLevel]int, 4)
	for _, level := range Levels() {
		summary[level] = 0
	}
	for _, result := range results {
		summary[result.Level]++
	}
	return summary
}

// Report renders a classification report grouped by sensitivity level.
func Report(results map[string]ClassificationResult, tableName string) string {
	byLevel := make(map[SensitivityLevel][]ClassificationResult)
	for _, result := range results {
		byLevel[result.Level] = append(byLevel[result.Level], result)
	}

	var b strings.Builder
	rule := strings.Repeat("=", 80)
	fmt.Fprintf(&b, "%s\nClassification Report for Table: %s\n%s\n", rule, tableName, rule)

	for _, level := range Levels() {
		group := byLevel[level]
		if len(group) == 0 {
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].ColumnName < group[j].ColumnName })

		fmt.Fprintf(&b, "\n%s:\n%s\n", level, strings.Repeat("-", 80))
		for _, result := range group {
			fmt.Fprintf(&b, "  %-30s | Confidence: %.2f | %s\n", result.ColumnName, result.Confidence, result.Reasoning)
		}
	}

	return b.String()
}
