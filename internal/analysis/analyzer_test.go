package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/assets"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/cache"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/features"
	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/model"
)

var testColumns = []string{
	"Age", "RestingBP", "Cholesterol", "FastingBS", "MaxHR", "Oldpeak",
	"Sex_F", "Sex_M",
	"ChestPainType_ASY", "ChestPainType_ATA", "ChestPainType_NAP", "ChestPainType_TA",
	"RestingECG_LVH", "RestingECG_Normal", "RestingECG_ST",
	"ExerciseAngina_N", "ExerciseAngina_Y",
	"ST_Slope_Down", "ST_Slope_Flat", "ST_Slope_Up",
}

type staticSource struct {
	bundle *assets.Bundle
	err    error
	calls  atomic.Int32
}

func (s *staticSource) Load() (*assets.Bundle, error) {
	s.calls.Add(1)
	return s.bundle, s.err
}

type countingClassifier struct {
	model.Classifier
	predictions atomic.Int32
}

func (c *countingClassifier) Predict(row []float64) (int, error) {
	c.predictions.Add(1)
	return c.Classifier.Predict(row)
}

type brokenClassifier struct {
	model.Classifier
	label int
	proba []float64
	err   error
}

func (b brokenClassifier) Predict([]float64) (int, error)           { return b.label, b.err }
func (b brokenClassifier) PredictProba([]float64) ([]float64, error) { return b.proba, nil }

// newBundle builds a logistic model that only looks at ChestPainType_ASY:
// z = 5*ASY - 2 on unscaled inputs.
func newBundle(t *testing.T) *assets.Bundle {
	t.Helper()

	coef := make([]string, len(testColumns))
	mean := make([]string, len(testColumns))
	scale := make([]string, len(testColumns))
	for i, col := range testColumns {
		coef[i], mean[i], scale[i] = "0", "0", "1"
		if col == "ChestPainType_ASY" {
			coef[i] = "5"
		}
	}

	clf, err := model.DecodeClassifier(strings.NewReader(fmt.Sprintf(
		`{"type":"logistic","classes":[0,1],"coef":[%s],"intercept":-2}`, strings.Join(coef, ","))))
	require.NoError(t, err)

	scaler, err := model.DecodeScaler(strings.NewReader(fmt.Sprintf(
		`{"type":"standard","mean":[%s],"scale":[%s]}`, strings.Join(mean, ","), strings.Join(scale, ","))))
	require.NoError(t, err)

	schema, err := features.NewSchema(testColumns)
	require.NoError(t, err)

	return &assets.Bundle{
		Classifier: clf,
		Scaler:     scaler,
		Columns:    testColumns,
		Schema:     schema,
		Encoder:    features.NewEncoder(schema),
		LoadedAt:   time.Now(),
	}
}

func sigmoid(z float64) float64 { return 1 / (1 + math.Exp(-z)) }

func TestAnalyze_LowAndHighRisk(t *testing.T) {
	a := NewAnalyzer(&staticSource{bundle: newBundle(t)}, WithDelay(0))

	low, err := a.Analyze(context.Background(), features.DefaultVitals())
	require.NoError(t, err)
	assert.Equal(t, 0, low.Label)
	assert.Equal(t, RiskLow, low.RiskLevel)
	assert.InDelta(t, sigmoid(-2), low.Probability, 1e-12)
	assert.Equal(t, "Low Risk Detected", low.Finding())
	assert.Equal(t, "11.92%", low.ProbabilityPercent())

	v := features.DefaultVitals()
	v.ChestPainType = "ASY"
	high, err := a.Analyze(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, 1, high.Label)
	assert.Equal(t, RiskHigh, high.RiskLevel)
	assert.InDelta(t, sigmoid(3), high.Probability, 1e-12)
	assert.Equal(t, "High Risk Detected", high.Finding())
	assert.Equal(t, "95.26%", high.ProbabilityPercent())
}

func TestAnalyze_OutputsStayInRange(t *testing.T) {
	a := NewAnalyzer(&staticSource{bundle: newBundle(t)}, WithDelay(0))

	for _, cp := range []string{"ATA", "NAP", "TA", "ASY"} {
		for _, slope := range []string{"Up", "Flat", "Down"} {
			v := features.DefaultVitals()
			v.ChestPainType, v.STSlope = cp, slope

			got, err := a.Analyze(context.Background(), v)
			require.NoError(t, err)
			assert.Contains(t, []int{0, 1}, got.Label)
			assert.GreaterOrEqual(t, got.Probability, 0.0)
			assert.LessOrEqual(t, got.Probability, 1.0)
		}
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := NewAnalyzer(&staticSource{bundle: newBundle(t)}, WithDelay(0))
	v := features.DefaultVitals()
	v.Oldpeak = 3.4

	first, err := a.Analyze(context.Background(), v)
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), v)
	require.NoError(t, err)

	assert.Equal(t, first.Label, second.Label)
	assert.Equal(t, first.Probability, second.Probability)
}

func TestAnalyze_UsesCache(t *testing.T) {
	bundle := newBundle(t)
	counting := &countingClassifier{Classifier: bundle.Classifier}
	bundle.Classifier = counting

	c, err := cache.New[Assessment](8)
	require.NoError(t, err)
	a := NewAnalyzer(&staticSource{bundle: bundle}, WithDelay(0), WithCache(c))

	first, err := a.Analyze(context.Background(), features.DefaultVitals())
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := a.Analyze(context.Background(), features.DefaultVitals())
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Probability, second.Probability)

	assert.Equal(t, int32(1), counting.predictions.Load())
	assert.Equal(t, int64(1), c.Stats()["hits"])
}

func TestAnalyze_AssetsUnavailable(t *testing.T) {
	loadErr := fmt.Errorf("%w: missing KNN_heart.json", assets.ErrUnavailable)
	a := NewAnalyzer(&staticSource{err: loadErr}, WithDelay(0))

	_, err := a.Analyze(context.Background(), features.DefaultVitals())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAssetsUnavailable))
	assert.True(t, errors.Is(err, assets.ErrUnavailable))

	var ua *UnavailableError
	require.True(t, errors.As(err, &ua))
	assert.True(t, ua.AssetsUnavailable())

	assert.Error(t, a.Ready())
	_, err = a.Schema()
	assert.True(t, errors.Is(err, ErrAssetsUnavailable))
}

func TestAnalyze_InvalidVitals(t *testing.T) {
	a := NewAnalyzer(&staticSource{bundle: newBundle(t)}, WithDelay(time.Hour))
	v := features.DefaultVitals()
	v.MaxHR = 300

	// Validation happens before the delay, so this returns immediately.
	_, err := a.Analyze(context.Background(), v)
	var verr *features.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "max_hr")
}

func TestAnalyze_DelayHonoursCancellation(t *testing.T) {
	a := NewAnalyzer(&staticSource{bundle: newBundle(t)}, WithDelay(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := a.Analyze(ctx, features.DefaultVitals())
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), time.Second)
}

func TestAnalyze_DelayApplies(t *testing.T) {
	a := NewAnalyzer(&staticSource{bundle: newBundle(t)}, WithDelay(30*time.Millisecond))

	got, err := a.Analyze(context.Background(), features.DefaultVitals())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got.Duration, 30*time.Millisecond)
}

func TestAnalyze_ScoringFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *assets.Bundle)
		stage  string
	}{
		{
			name: "unknown category",
			mutate: func(b *assets.Bundle) {
				cols := append([]string(nil), testColumns[:11]...) // drops ChestPainType_TA onwards
				cols = append(cols, testColumns[12:]...)
				schema, err := features.NewSchema(cols)
				if err != nil {
					panic(err)
				}
				b.Encoder = features.NewEncoder(schema)
			},
			stage: StageEncode,
		},
		{
			name: "scaler dimension",
			mutate: func(b *assets.Bundle) {
				sc, err := model.DecodeScaler(strings.NewReader(`{"type":"standard","mean":[0],"scale":[1]}`))
				if err != nil {
					panic(err)
				}
				b.Scaler = sc
			},
			stage: StageScale,
		},
		{
			name: "predict error",
			mutate: func(b *assets.Bundle) {
				b.Classifier = brokenClassifier{Classifier: b.Classifier, err: errors.New("boom")}
			},
			stage: StagePredict,
		},
		{
			name: "probability out of range",
			mutate: func(b *assets.Bundle) {
				b.Classifier = brokenClassifier{Classifier: b.Classifier, proba: []float64{-0.5, 1.5}}
			},
			stage: StagePredict,
		},
		{
			name: "probability NaN",
			mutate: func(b *assets.Bundle) {
				b.Classifier = brokenClassifier{Classifier: b.Classifier, proba: []float64{math.NaN(), math.NaN()}}
			},
			stage: StagePredict,
		},
		{
			name: "label not binary",
			mutate: func(b *assets.Bundle) {
				b.Classifier = brokenClassifier{Classifier: b.Classifier, label: 7, proba: []float64{0.5, 0.5}}
			},
			stage: StagePredict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle := newBundle(t)
			tt.mutate(bundle)
			a := NewAnalyzer(&staticSource{bundle: bundle}, WithDelay(0))

			v := features.DefaultVitals()
			v.ChestPainType = "TA"
			_, err := a.Analyze(context.Background(), v)

			var serr *ScoringError
			require.True(t, errors.As(err, &serr), "got %v", err)
			assert.Equal(t, tt.stage, serr.Stage())
		})
	}
}
