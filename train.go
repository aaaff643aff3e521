package veil

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Sample pairs a feature text with its sensitivity label.
type Sample struct {
	Text  string
	Label SensitivityLevel
}

// Trainer fits a LinearModel from labeled feature texts: lowercased word
// n-gram tf-idf features into a multinomial logistic layer trained by
// batch gradient descent with balanced class weights.
type Trainer struct {
	MaxFeatures int     // vocabulary cap, most frequent n-grams first
	NGramMin    int     // smallest n-gram length
	NGramMax    int     // largest n-gram length
	MaxDocFreq  float64 // drop n-grams appearing in more than this fraction of documents
	Epochs      int
	LearnRate   float64
	L2          float64 // ridge penalty on the weights
}

// NewTrainer returns a trainer with the default fitting parameters.
func NewTrainer() *Trainer {
	return &Trainer{
		MaxFeatures: 100,
		NGramMin:    1,
		NGramMax:    2,
		MaxDocFreq:  0.9,
		Epochs:      200,
		LearnRate:   0.5,
		L2:          1e-3,
	}
}

// SamplesFromTables derives labeled samples from table metadata, labeling
// each column with the rule-based classifier so the learned model distills
// the pattern tables onto descriptive text.
func SamplesFromTables(tables map[string]TableMetadata) []Sample {
	rules := NewClassifier()

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	var samples []Sample
	for _, name := range names {
		for _, col := range tables[name].Columns {
			samples = append(samples, Sample{
				Text:  FeatureText(col),
				Label: rules.classifyByRules(col).Level,
			})
		}
	}
	return samples
}

// Fit trains a model on the samples. Returns ErrNoTrainingData for an
// empty sample set. Training is deterministic: weights start at zero and
// vocabulary order is stable.
func (t *Trainer) Fit(samples []Sample) (*LinearModel, error) {
	if len(samples) == 0 {
		return nil, ErrNoTrainingData
	}

	model := &LinearModel{
		NGramMin: t.NGramMin,
		NGramMax: t.NGramMax,
	}

	// Document frequencies over the full corpus.
	docGrams := make([][]string, len(samples))
	df := make(map[string]int)
	for i, s := range samples {
		docGrams[i] = model.ngrams(s.Text)
		seen := make(map[string]bool, len(docGrams[i]))
		for _, g := range docGrams[i] {
			if !seen[g] {
				seen[g] = true
				df[g]++
			}
		}
	}

	model.Vocabulary, model.IDF = t.buildVocabulary(df, len(samples))

	// Classes present, in precedence order.
	counts := make(map[SensitivityLevel]int)
	for _, s := range samples {
		counts[s.Label]++
	}
	for _, level := range Levels() {
		if counts[level] > 0 {
			model.Classes = append(model.Classes, level)
		}
	}

	classIdx := make(map[SensitivityLevel]int, len(model.Classes))
	for i, c := range model.Classes {
		classIdx[c] = i
	}

	n := len(samples)
	d := len(model.IDF)
	k := len(model.Classes)

	if d == 0 {
		// No usable n-grams: fall back to a bias-only prior.
		model.Weights = make([][]float64, k)
		for c := range model.Weights {
			model.Weights[c] = []float64{}
		}
		model.Bias = make([]float64, k)
		return model, nil
	}

	// Feature matrix and balanced per-sample weights.
	x := mat.NewDense(n, d, nil)
	targets := make([]int, n)
	sampleWeight := make([]float64, n)
	for i, s := range samples {
		x.SetRow(i, model.vectorize(s.Text))
		targets[i] = classIdx[s.Label]
		sampleWeight[i] = float64(n) / (float64(k) * float64(counts[s.Label]))
	}

	w := mat.NewDense(k, d, nil)
	bias := make([]float64, k)

	scores := mat.NewDense(n, k, nil)
	resid := mat.NewDense(n, k, nil)
	grad := mat.NewDense(k, d, nil)
	penalty := mat.NewDense(k, d, nil)

	for epoch := 0; epoch < t.Epochs; epoch++ {
		scores.Mul(x, w.T())

		// Weighted softmax residuals: (p - y) * sample weight.
		for i := 0; i < n; i++ {
			row := make([]float64, k)
			for c := 0; c < k; c++ {
				row[c] = scores.At(i, c) + bias[c]
			}
			probs := softmax(row)
			for c := 0; c < k; c++ {
				r := probs[c]
				if c == targets[i] {
					r -= 1
				}
				resid.Set(i, c, r*sampleWeight[i])
			}
		}

		grad.Mul(resid.T(), x)
		grad.Scale(1/float64(n), grad)
		penalty.Scale(t.L2, w)
		grad.Add(grad, penalty)

		grad.Scale(t.LearnRate, grad)
		w.Sub(w, grad)

		for c := 0; c < k; c++ {
			var sum float64
			for i := 0; i < n; i++ {
				sum += resid.At(i, c)
			}
			bias[c] -= t.LearnRate * sum / float64(n)
		}
	}

	model.Weights = make([][]float64, k)
	for c := 0; c < k; c++ {
		model.Weights[c] = make([]float64, d)
		mat.Row(model.Weights[c], c, w)
	}
	model.Bias = bias

	return model, nil
}

// buildVocabulary selects up to MaxFeatures n-grams by document frequency
// (ties broken lexicographically) and computes smoothed idf values. Final
// feature indices are assigned in lexicographic order so the layout is
// independent of selection order.
func (t *Trainer) buildVocabulary(df map[string]int, docs int) (map[string]int, []float64) {
	type entry struct {
		gram string
		df   int
	}

	candidates := make([]entry, 0, len(df))
	for gram, count := range df {
		if docs > 1 && float64(count)/float64(docs) > t.MaxDocFreq {
			continue
		}
		candidates = append(candidates, entry{gram, count})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].df != candidates[j].df {
			return candidates[i].df > candidates[j].df
		}
		return candidates[i].gram < candidates[j].gram
	})
	if len(candidates) > t.MaxFeatures {
		candidates = candidates[:t.MaxFeatures]
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].gram < candidates[j].gram })

	vocab := make(map[string]int, len(candidates))
	idf := make([]float64, len(candidates))
	for i, e := range candidates {
		vocab[e.gram] = i
		idf[i] = math.Log(float64(1+docs)/float64(1+e.df)) + 1
	}
	return vocab, idf
}
