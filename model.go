package veil

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Prediction is a learned-model sensitivity estimate. Confidence is the
// maximum class probability.
type Prediction struct {
	Level      SensitivityLevel
	Confidence float64
}

// Model is the capability interface the classifier blends against. The
// concrete learning algorithm and its serialized representation are
// swappable behind it.
type Model interface {
	// Predict estimates a sensitivity level from combined column
	// metadata text (name, description, declared type).
	Predict(text string) (Prediction, error)
}

// FeatureText combines column metadata into the lowercased feature string
// models are trained on and queried with.
func FeatureText(col ColumnMetadata) string {
	return strings.ToLower(col.Name + " " + col.Description + " " + col.DataType)
}

// modelVersion identifies the persisted blob layout.
const modelVersion = 1

// LinearModel is a bag-of-n-grams text classifier: tf-idf features into a
// multinomial logistic layer. The representation is explicit (vocabulary
// table plus numeric weights) so persisted models stay portable.
type LinearModel struct {
	Classes    []SensitivityLevel // output labels, index-aligned with Weights rows
	Vocabulary map[string]int     // n-gram -> feature index
	IDF        []float64          // per-feature inverse document frequency
	Weights    [][]float64        // [class][feature]
	Bias       []float64          // per-class intercept
	NGramMin   int
	NGramMax   int
}

// modelBlob is the versioned on-disk envelope.
type modelBlob struct {
	Version    int            `json:"version"`
	Classes    []string       `json:"classes"`
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	Weights    [][]float64    `json:"weights"`
	Bias       []float64      `json:"bias"`
	NGramMin   int            `json:"ngram_min"`
	NGramMax   int            `json:"ngram_max"`
}

var tokenPattern = regexp.MustCompile(`[a-z0-9_]{2,}`)

// ngrams extracts lowercased word n-grams in the model's configured range.
func (m *LinearModel) ngrams(text string) []string {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)

	var grams []string
	for n := m.NGramMin; n <= m.NGramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			grams = append(grams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return grams
}

// vectorize produces the l2-normalized tf-idf feature vector for text.
func (m *LinearModel) vectorize(text string) []float64 {
	vec := make([]float64, len(m.IDF))
	for _, gram := range m.ngrams(text) {
		if idx, ok := m.Vocabulary[gram]; ok {
			vec[idx]++
		}
	}

	var norm float64
	for i := range vec {
		vec[i] *= m.IDF[i]
		norm += vec[i] * vec[i]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// Predict implements Model.
func (m *LinearModel) Predict(text string) (Prediction, error) {
	if len(m.Classes) == 0 || len(m.Weights) != len(m.Classes) {
		return Prediction{}, fmt.Errorf("%w: model has no trained classes", ErrModelLoad)
	}

	vec := m.vectorize(text)

	scores := make([]float64, len(m.Classes))
	for c := range m.Classes {
		s := m.Bias[c]
		for i, x := range vec {
			s += m.Weights[c][i] * x
		}
		scores[c] = s
	}

	probs := softmax(scores)
	best := 0
	for c := range probs {
		if probs[c] > probs[best] {
			best = c
		}
	}

	return Prediction{Level: m.Classes[best], Confidence: probs[best]}, nil
}

// softmax converts scores to probabilities, shifted for stability.
func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}

	probs := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		probs[i] = math.Exp(s - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// Save persists the model as a versioned JSON blob.
func (m *LinearModel) Save(path string) error {
	classes := make([]string, len(m.Classes))
	for i, c := range m.Classes {
		classes[i] = string(c)
	}

	blob := modelBlob{
		Version:    modelVersion,
		Classes:    classes,
		Vocabulary: m.Vocabulary,
		IDF:        m.IDF,
		Weights:    m.Weights,
		Bias:       m.Bias,
		NGramMin:   m.NGramMin,
		NGramMax:   m.NGramMax,
	}

	data, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create model dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write model %s: %w", path, err)
	}
	return nil
}

// LoadModel reads a persisted model. A missing file yields a ConfigError
// wrapping ErrModelNotFound; a malformed file wraps ErrModelLoad.
func LoadModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newConfigError(ErrModelNotFound, path, "")
		}
		return nil, newConfigError(ErrModelLoad, path, err.Error())
	}

	var blob modelBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, newConfigError(ErrModelLoad, path, err.Error())
	}
	if blob.Version != modelVersion {
		return nil, newConfigError(ErrModelLoad, path, fmt.Sprintf("unsupported model version %d", blob.Version))
	}
	if len(blob.Classes) == 0 || len(blob.Weights) != len(blob.Classes) || len(blob.Bias) != len(blob.Classes) {
		return nil, newConfigError(ErrModelLoad, path, "inconsistent class dimensions")
	}
	for _, row := range blob.Weights {
		if len(row) != len(blob.IDF) {
			return nil, newConfigError(ErrModelLoad, path, "inconsistent feature dimensions")
		}
	}

	classes := make([]SensitivityLevel, len(blob.Classes))
	for i, name := range blob.Classes {
		level, ok := ParseSensitivity(name)
		if !ok {
			return nil, newConfigError(ErrModelLoad, path, fmt.Sprintf("unknown class %q", name))
		}
		classes[i] = level
	}

	return &LinearModel{
		Classes:    classes,
		Vocabulary: blob.Vocabulary,
		IDF:        blob.IDF,
		Weights:    blob.Weights,
		Bias:       blob.Bias,
		NGramMin:   blob.NGramMin,
		NGramMax:   blob.NGramMax,
	}, nil
}
