// Package classifier consumes binary classification models trained offline.
// The service never trains anything; it loads a fitted artifact and applies
// it at inference time.
package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Classifier is a fitted binary decision function over a feature vector.
type Classifier interface {
	Predict(features []float64) (int, error)
}

// StandardScaler centers and scales a single feature with parameters fit
// offline.
type StandardScaler struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

func (s *StandardScaler) Transform(x float64) float64 {
	if s == nil || s.Std == 0 {
		return x
	}
	return (x - s.Mean) / s.Std
}

// LogisticModel is a fitted logistic regression. Weights and intercept come
// from the artifact file; Predict applies the standard sigmoid with a 0.5
// decision threshold.
type LogisticModel struct {
	Weights   []float64       `json:"weights"`
	Intercept float64         `json:"intercept"`
	Scaler    *StandardScaler `json:"scaler,omitempty"`
}

func (m *LogisticModel) Predict(features []float64) (int, error) {
	if len(features) != len(m.Weights) {
		return 0, fmt.Errorf("expected %d features, got %d", len(m.Weights), len(features))
	}
	z := m.Intercept
	for i, w := range m.Weights {
		z += w * features[i]
	}
	p := 1 / (1 + math.Exp(-z))
	if p >= 0.5 {
		return 1, nil
	}
	return 0, nil
}

// Load reads a model artifact from disk.
func Load(path string) (*LogisticModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact %s: %w", path, err)
	}
	var model LogisticModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact %s: %w", path, err)
	}
	if len(model.Weights) == 0 {
		return nil, fmt.Errorf("model artifact %s has no weights", path)
	}
	return &model, nil
}
