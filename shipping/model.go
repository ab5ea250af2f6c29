package shipping

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrModelUnavailable means no trained model is loaded. The caller
	// must fall back to the rule engine; this error is never surfaced to
	// API clients.
	ErrModelUnavailable = errors.New("trained model not available")

	// ErrPredictionFailed means the loaded model could not produce a
	// usable price for this request. Like ErrModelUnavailable it triggers
	// the rule-engine fallback instead of propagating.
	ErrPredictionFailed = errors.New("model prediction failed")
)

// modelArtifact mirrors the JSON regression artifact exported by the
// training pipeline: one coefficient per feature plus an intercept.
type modelArtifact struct {
	Version      string    `json:"version"`
	FeatureNames []string  `json:"feature_names"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// Predictor evaluates the trained shipping-price regressor. It is only
// constructed when both the model artifact and its matching region-encoder
// vocabulary load successfully; otherwise the orchestrator holds a nil
// predictor and prices everything through the rule engine.
//
// Feature order must match training: distance_km, region_encoded, hour,
// dayofweek.
type Predictor struct {
	version string
	weights []float64
	bias    float64
	encoder *RegionEncoder
}

const modelFeatureCount = 4

// LoadPredictor reads the model and encoder artifacts from disk. Both must
// be present and consistent; any failure disables the model path entirely.
func LoadPredictor(modelPath, encoderPath string) (*Predictor, error) {
	data, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var artifact modelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("parse model artifact %s: %w", modelPath, err)
	}
	if len(artifact.Coefficients) != modelFeatureCount {
		return nil, fmt.Errorf("model artifact %s: want %d coefficients, got %d",
			modelPath, modelFeatureCount, len(artifact.Coefficients))
	}
	if len(artifact.FeatureNames) != len(artifact.Coefficients) {
		return nil, fmt.Errorf("model artifact %s: %d feature names for %d coefficients",
			modelPath, len(artifact.FeatureNames), len(artifact.Coefficients))
	}

	encoder, err := LoadRegionEncoder(encoderPath)
	if err != nil {
		return nil, err
	}

	return &Predictor{
		version: artifact.Version,
		weights: artifact.Coefficients,
		bias:    artifact.Intercept,
		encoder: encoder,
	}, nil
}

// Version returns the model version tag from the artifact.
func (p *Predictor) Version() string {
	if p == nil {
		return ""
	}
	return p.version
}

// Predict returns a price in KSh for the given distance, region and request
// time. A nil receiver reports ErrModelUnavailable so callers can hold an
// optional predictor without nil checks at every site.
func (p *Predictor) Predict(distanceKm float64, region string, at time.Time) (float64, error) {
	if p == nil {
		return 0, ErrModelUnavailable
	}

	features := []float64{
		distanceKm,
		float64(p.encoder.Encode(region)),
		float64(at.Hour()),
		float64(at.Weekday()),
	}
	if len(features) != len(p.weights) {
		return 0, fmt.Errorf("%w: feature vector length %d does not match model (%d)",
			ErrPredictionFailed, len(features), len(p.weights))
	}

	price := floats.Dot(p.weights, features) + p.bias
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: non-finite output", ErrPredictionFailed)
	}
	if price < 0 {
		return 0, fmt.Errorf("%w: negative price %.2f", ErrPredictionFailed, price)
	}

	return price, nil
}
