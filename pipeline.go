package veil

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Pipeline wires the classifier, policy engine, and transformation engine
// into the classify-then-transform flow: a table's columns are classified
// once, then each column is transformed by its resolved rule.
type Pipeline struct {
	classifier *Classifier
	policies   *PolicyEngine
	engine     *Engine
}

// NewPipeline creates a pipeline. Nil components get defaults.
func NewPipeline(classifier *Classifier, policies *PolicyEngine, engine *Engine) *Pipeline {
	if classifier == nil {
		classifier = NewClassifier()
	}
	if policies == nil {
		policies = NewPolicyEngine()
	}
	if engine == nil {
		engine = NewEngine()
	}
	return &Pipeline{
		classifier: classifier,
		policies:   policies,
		engine:     engine,
	}
}

// TableRun is the outcome of transforming one table for one consumer.
type TableRun struct {
	RunID           string
	Table           string
	Consumer        ConsumerType
	Classifications map[string]ClassificationResult
	Columns         map[string][]any
}

// TransformTable classifies the table's columns and transforms each data
// column by its resolved rule. Columns present in the data but absent
// from the metadata pass through unchanged, as do columns for which no
// rule resolves.
func (p *Pipeline) TransformTable(table TableMetadata, columns map[string][]any, consumer ConsumerType) TableRun {
	start := time.Now()
	runID := uuid.NewString()
	emitRunStart(context.Background(), runID, table.TableName, consumer, len(columns))

	classifications := p.classifier.ClassifyTable(table.Columns)

	out := make(map[string][]any, len(columns))
	rows := 0
	for name, values := range columns {
		if len(values) > rows {
			rows = len(values)
		}
		result, ok := classifications[name]
		if !ok {
			out[name] = values
			continue
		}
		out[name] = p.engine.ApplyColumn(values, result.Level, consumer, p.policies)
	}

	emitRunComplete(context.Background(), runID, table.TableName, consumer, rows, time.Since(start))

	return TableRun{
		RunID:           runID,
		Table:           table.TableName,
		Consumer:        consumer,
		Classifications: classifications,
		Columns:         out,
	}
}
