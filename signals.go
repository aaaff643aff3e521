package veil

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for classification and transformation events.
var (
	SignalClassifierCreated = capitan.NewSignal("veil.classifier.created", "Classifier instantiated")
	SignalModelLoaded       = capitan.NewSignal("veil.model.loaded", "Learned model loaded")
	SignalModelLoadFailed   = capitan.NewSignal("veil.model.load_failed", "Learned model load failed, continuing rule-based")
	SignalPredictFailed     = capitan.NewSignal("veil.model.predict_failed", "Learned model prediction failed")
	SignalTableClassified   = capitan.NewSignal("veil.classify.table", "Table classification finished")
	SignalUnknownKind       = capitan.NewSignal("veil.transform.unknown_kind", "Unknown transformation kind resolved to keep")
	SignalNoRuleFound       = capitan.NewSignal("veil.transform.no_rule", "No policy rule found, passing column through")
	SignalRunStart          = capitan.NewSignal("veil.pipeline.start", "Table transformation run beginning")
	SignalRunComplete       = capitan.NewSignal("veil.pipeline.complete", "Table transformation run finished")
)

// Keys for typed event data.
var (
	KeyColumn    = capitan.NewStringKey("column")
	KeyTable     = capitan.NewStringKey("table")
	KeyLevel     = capitan.NewStringKey("level")
	KeyKind      = capitan.NewStringKey("kind")
	KeyConsumer  = capitan.NewStringKey("consumer")
	KeyModelPath = capitan.NewStringKey("model_path")
	KeyRunID     = capitan.NewStringKey("run_id")
	KeyColumns   = capitan.NewIntKey("columns")
	KeyRows      = capitan.NewIntKey("rows")
	KeyDuration  = capitan.NewDurationKey("duration")
	KeyError     = capitan.NewErrorKey("error")
)

// emitClassifierCreated emits an event when a classifier is constructed.
func emitClassifierCreated(ctx context.Context, modelPath string, modelLoaded bool) {
	fields := []capitan.Field{}
	if modelPath != "" {
		fields = append(fields, KeyModelPath.Field(modelPath))
	}
	capitan.Emit(ctx, SignalClassifierCreated, fields...)
	if modelLoaded {
		capitan.Emit(ctx, SignalModelLoaded, KeyModelPath.Field(modelPath))
	}
}

// emitModelLoadFailed emits a degradation warning; the classifier keeps
// running rule-based for its lifetime.
func emitModelLoadFailed(ctx context.Context, modelPath string, err error) {
	capitan.Error(ctx, SignalModelLoadFailed,
		KeyModelPath.Field(modelPath),
		KeyError.Field(err),
	)
}

// emitPredictFailed emits a degradation warning for a single failed prediction.
func emitPredictFailed(ctx context.Context, column string, err error) {
	capitan.Error(ctx, SignalPredictFailed,
		KeyColumn.Field(column),
		KeyError.Field(err),
	)
}

// emitTableClassified emits an event when a full table has been classified.
func emitTableClassified(ctx context.Context, columns int, duration time.Duration) {
	capitan.Emit(ctx, SignalTableClassified,
		KeyColumns.Field(columns),
		KeyDuration.Field(duration),
	)
}

// emitUnknownKind flags the fail-open default: an unrecognized kind yields
// pass-through, which protects nothing.
func emitUnknownKind(ctx context.Context, kind Kind) {
	capitan.Error(ctx, SignalUnknownKind, KeyKind.Field(string(kind)))
}

// emitNoRuleFound emits an event when a column passes through because no
// policy rule resolved.
func emitNoRuleFound(ctx context.Context, consumer, level string) {
	capitan.Emit(ctx, SignalNoRuleFound,
		KeyConsumer.Field(consumer),
		KeyLevel.Field(level),
	)
}

// emitRunStart emits an event when a pipeline run begins.
func emitRunStart(ctx context.Context, runID, table string, consumer ConsumerType, columns int) {
	capitan.Emit(ctx, SignalRunStart,
		KeyRunID.Field(runID),
		KeyTable.Field(table),
		KeyConsumer.Field(string(consumer)),
		KeyColumns.Field(columns),
	)
}

// emitRunComplete emits an event when a pipeline run finishes.
func emitRunComplete(ctx context.Context, runID, table string, consumer ConsumerType, rows int, duration time.Duration) {
	capitan.Emit(ctx, SignalRunComplete,
		KeyRunID.Field(runID),
		KeyTable.Field(table),
		KeyConsumer.Field(string(consumer)),
		KeyRows.Field(rows),
		KeyDuration.Field(duration),
	)
}
