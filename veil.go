// Package veil classifies tabular columns by privacy sensitivity and
// applies consumer-specific, policy-driven transformations before data
// leaves a boundary.
//
// # Components
//
// Three subsystems form the enforcement pipeline:
//
//   - Classifier: resolves each column's SensitivityLevel from metadata
//     via ordered pattern tables, optionally blended with a learned Model.
//   - PolicyEngine: a total mapping from (sensitivity level, consumer
//     type) to a TransformationRule, with four built-in policies.
//   - Engine: a cache of deterministic value transformers (mask, hash,
//     tokenize, aggregate marker, keep) applied column by column.
//
// # Basic Usage
//
//	classifier := veil.NewClassifier()
//	policies := veil.NewPolicyEngine()
//	engine := veil.NewEngine()
//
//	result := classifier.Classify(veil.ColumnMetadata{
//	    Name:        "email",
//	    DataType:    "string",
//	    Description: "customer email address",
//	})
//	// result.Level == veil.PII, result.Confidence == 0.90
//
//	values := []any{"john@example.com", "jane@example.com"}
//	out := engine.ApplyColumn(values, result.Level, veil.ExternalPartner, policies)
//	// out contains SHA-256 hex digests
//
// Pipeline ties the three together for whole tables:
//
//	pipe := veil.NewPipeline(classifier, policies, engine)
//	run := pipe.TransformTable(table, columns, veil.Reporting)
//
// # Sensitivity Levels
//
// Classification precedence is PII > PHI > Sensitive > Non-Sensitive;
// the first matching pattern in the first matching category wins.
//
// # Consumers
//
// Built-in consumer types and their default rules:
//
//	consumer          PII               PHI               Sensitive          Non-Sensitive
//	internal_analyst  tokenize(len=16)  tokenize(len=16)  mask(keep 0,-1)    keep
//	external_partner  hash(sha256)      hash(sha256)      mask(full)         keep
//	reporting         mask(full)        mask(full)        aggregate(count)   keep
//	public            hash(sha256)      hash(sha256)      aggregate(count)   keep
//
// Custom consumer types are supported via PolicyEngine.RegisterPolicy.
//
// # Transformation Guarantees
//
//   - Mask, hash, and keep are deterministic per value.
//   - Hash is one-way and unkeyed: equal inputs collide across datasets.
//   - Tokenize is keyed (HMAC-SHA256): equal inputs under the same key
//     yield equal tokens; distinct keys yield unlinkable tokens. Fix the
//     key via the secret_key parameter or VEIL_SECRET_KEY for cross-run
//     consistency.
//   - Aggregate is a column-level operation; the element-wise path
//     substitutes a fixed marker and Engine.AggregateColumn computes the
//     actual statistic.
//   - Unknown kinds and unresolved rules fail open to pass-through, with
//     a signal emitted.
//
// # Learned Model
//
// The optional model sits behind the Model interface. Trainer fits a
// portable tf-idf + multinomial logistic model whose persisted form is a
// versioned JSON blob (vocabulary, idf, weights); LoadModel restores it
// for a fresh classifier. Model failures degrade to rule-based operation,
// never to an error.
package veil
