package analysis

import (
	"fmt"
	"math"

	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/assets"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/features"
)

// positiveClass is the label whose probability is reported.
const positiveClass = 1

// score runs encode -> scale -> predict against a loaded bundle.
func score(bundle *assets.Bundle, v features.Vitals) (Assessment, error) {
	row, err := bundle.Encoder.Encode(v)
	if err != nil {
		return Assessment{}, &ScoringError{stage: StageEncode, err: err}
	}

	scaled, err := bundle.Scaler.Transform(row.Values)
	if err != nil {
		return Assessment{}, &ScoringError{stage: StageScale, err: err}
	}

	label, err := bundle.Classifier.Predict(scaled)
	if err != nil {
		return Assessment{}, &ScoringError{stage: StagePredict, err: err}
	}

	proba, err := bundle.Classifier.PredictProba(scaled)
	if err != nil {
		return Assessment{}, &ScoringError{stage: StagePredict, err: err}
	}

	p, err := positiveProbability(bundle.Classifier.Classes(), proba)
	if err != nil {
		return Assessment{}, &ScoringError{stage: StagePredict, err: err}
	}

	if label != 0 && label != 1 {
		return Assessment{}, &ScoringError{stage: StagePredict, err: fmt.Errorf("label %d is not binary", label)}
	}

	risk := RiskLow
	if label == positiveClass {
		risk = RiskHigh
	}

	return Assessment{Label: label, Probability: p, RiskLevel: risk}, nil
}

func positiveProbability(classes []int, proba []float64) (float64, error) {
	if len(proba) != len(classes) {
		return 0, fmt.Errorf("got %d probabilities for %d classes", len(proba), len(classes))
	}
	for i, c := range classes {
		if c != positiveClass {
			continue
		}
		p := proba[i]
		if math.IsNaN(p) || p < 0 || p > 1 {
			return 0, fmt.Errorf("probability %v outside [0,1]", p)
		}
		return p, nil
	}
	return 0, fmt.Errorf("classifier has no class %d", positiveClass)
}
