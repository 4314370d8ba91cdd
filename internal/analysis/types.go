package analysis

import (
	"errors"
	"fmt"
	"time"
)

// Risk levels derived from the predicted label.
const (
	RiskLow  = "low"
	RiskHigh = "high"
)

// Scoring stages reported by ScoringError.
const (
	StageEncode  = "encode"
	StageScale   = "scale"
	StagePredict = "predict"
)

// ErrAssetsUnavailable is returned when the model assets could not be loaded.
var ErrAssetsUnavailable = errors.New("model assets unavailable")

// Assessment is the outcome of scoring one set of vitals.
type Assessment struct {
	// Label is the predicted class: 0 low risk, 1 high risk.
	Label int `json:"label"`
	// Probability is the mass the model assigns to label 1, in [0,1].
	Probability float64       `json:"probability"`
	RiskLevel   string        `json:"risk_level"`
	CacheHit    bool          `json:"cache_hit"`
	Duration    time.Duration `json:"-"`
}

// HighRisk reports whether the model predicted label 1.
func (a Assessment) HighRisk() bool {
	return a.Label == 1
}

// Finding is the headline shown to the user.
func (a Assessment) Finding() string {
	if a.HighRisk() {
		return "High Risk Detected"
	}
	return "Low Risk Detected"
}

// Percent is the probability on a 0-100 scale.
func (a Assessment) Percent() float64 {
	return a.Probability * 100
}

// ProbabilityPercent formats the probability with two decimals, e.g. "37.50%".
func (a Assessment) ProbabilityPercent() string {
	return fmt.Sprintf("%.2f%%", a.Percent())
}

// ScoringError wraps a failure in one stage of the pipeline.
type ScoringError struct {
	stage string
	err   error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring failed during %s: %v", e.stage, e.err)
}

func (e *ScoringError) Unwrap() error { return e.err }

// Stage names the step that failed.
func (e *ScoringError) Stage() string { return e.stage }

// UnavailableError wraps an asset loading failure.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%v: %v", ErrAssetsUnavailable, e.Err)
}

func (e *UnavailableError) Unwrap() []error { return []error{ErrAssetsUnavailable, e.Err} }

// AssetsUnavailable marks the error as blocking every assessment.
func (e *UnavailableError) AssetsUnavailable() bool { return true }
