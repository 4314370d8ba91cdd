package model

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const knnArtifact = `{
	"type": "knn",
	"n_neighbors": 3,
	"weights": "uniform",
	"p": 2,
	"classes": [0, 1],
	"fit_X": [[0, 0], [0, 1], [1, 0], [5, 5], [5, 6], [6, 5]],
	"fit_y": [0, 0, 0, 1, 1, 1]
}`

func decodeKNN(t *testing.T, payload string) *KNN {
	t.Helper()
	clf, err := DecodeClassifier(strings.NewReader(payload))
	require.NoError(t, err)
	knn, ok := clf.(*KNN)
	require.True(t, ok)
	return knn
}

func TestKNN_UniformVotes(t *testing.T) {
	knn := decodeKNN(t, knnArtifact)

	assert.Equal(t, []int{0, 1}, knn.Classes())
	assert.Equal(t, 2, knn.NumFeatures())

	proba, err := knn.PredictProba([]float64{0.2, 0.2})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, proba)

	label, err := knn.Predict([]float64{0.2, 0.2})
	require.NoError(t, err)
	assert.Equal(t, 0, label)

	label, err = knn.Predict([]float64{5.5, 5.5})
	require.NoError(t, err)
	assert.Equal(t, 1, label)
}

func TestKNN_MixedNeighbourhood(t *testing.T) {
	payload := `{"type":"knn","n_neighbors":3,"classes":[0,1],
		"fit_X":[[0],[1],[2],[10]],"fit_y":[0,1,1,0]}`
	knn := decodeKNN(t, payload)

	// Defaults apply when weights and p are omitted.
	assert.Equal(t, "uniform", knn.Weights)
	assert.Equal(t, 2.0, knn.P)

	proba, err := knn.PredictProba([]float64{1})
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3, proba[0], 1e-12)
	assert.InDelta(t, 2.0/3, proba[1], 1e-12)
}

func TestKNN_TieGoesToFirstClass(t *testing.T) {
	payload := `{"type":"knn","n_neighbors":2,"classes":[0,1],
		"fit_X":[[0],[2]],"fit_y":[1,0]}`
	knn := decodeKNN(t, payload)

	proba, err := knn.PredictProba([]float64{1})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5}, proba)

	label, err := knn.Predict([]float64{1})
	require.NoError(t, err)
	assert.Equal(t, 0, label)
}

func TestKNN_DistanceWeighting(t *testing.T) {
	payload := `{"type":"knn","n_neighbors":3,"weights":"distance","p":1,"classes":[0,1],
		"fit_X":[[0],[1],[4]],"fit_y":[0,1,1]}`
	knn := decodeKNN(t, payload)

	// Distances from 0.5: 0.5, 0.5, 3.5.
	proba, err := knn.PredictProba([]float64{0.5})
	require.NoError(t, err)
	w0, w1 := 2.0, 2.0+1/3.5
	assert.InDelta(t, w0/(w0+w1), proba[0], 1e-12)
	assert.InDelta(t, w1/(w0+w1), proba[1], 1e-12)

	// An exact match owns the vote.
	proba, err = knn.PredictProba([]float64{0})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, proba)
}

func TestMinkowski(t *testing.T) {
	a := []float64{0, 0}
	b := []float64{3, 4}
	assert.Equal(t, 7.0, minkowski(a, b, 1))
	assert.Equal(t, 5.0, minkowski(a, b, 2))
	assert.InDelta(t, math.Pow(27+64, 1.0/3), minkowski(a, b, 3), 1e-12)
}

func TestKNN_DimensionMismatch(t *testing.T) {
	knn := decodeKNN(t, knnArtifact)

	_, err := knn.PredictProba([]float64{1, 2, 3})
	assert.True(t, errors.Is(err, ErrDimensionMismatch))

	_, err = knn.Predict(nil)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
}

func TestLogisticRegression(t *testing.T) {
	clf, err := DecodeClassifier(strings.NewReader(
		`{"type":"logistic","classes":[0,1],"coef":[2,-1],"intercept":0.5}`))
	require.NoError(t, err)

	assert.Equal(t, 2, clf.NumFeatures())

	proba, err := clf.PredictProba([]float64{1, 1})
	require.NoError(t, err)
	p := 1 / (1 + math.Exp(-1.5))
	assert.InDelta(t, 1-p, proba[0], 1e-12)
	assert.InDelta(t, p, proba[1], 1e-12)

	label, err := clf.Predict([]float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 1, label)

	label, err = clf.Predict([]float64{0, 1})
	require.NoError(t, err)
	assert.Equal(t, 0, label)

	_, err = clf.Predict([]float64{1})
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
}

func TestDecodeClassifier_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		target  error
		message string
	}{
		{"not json", `{`, nil, "decode classifier"},
		{"unknown type", `{"type":"svm"}`, ErrUnsupportedType, "svm"},
		{"single class", `{"type":"knn","n_neighbors":1,"classes":[1],"fit_X":[[0]],"fit_y":[1]}`, nil, "two classes"},
		{"unsorted classes", `{"type":"knn","n_neighbors":1,"classes":[1,0],"fit_X":[[0]],"fit_y":[1]}`, nil, "increasing"},
		{"label count", `{"type":"knn","n_neighbors":1,"classes":[0,1],"fit_X":[[0],[1]],"fit_y":[1]}`, nil, "fit_y"},
		{"k too large", `{"type":"knn","n_neighbors":3,"classes":[0,1],"fit_X":[[0],[1]],"fit_y":[0,1]}`, nil, "n_neighbors"},
		{"ragged rows", `{"type":"knn","n_neighbors":1,"classes":[0,1],"fit_X":[[0],[1,2]],"fit_y":[0,1]}`, nil, "row 1"},
		{"unknown label", `{"type":"knn","n_neighbors":1,"classes":[0,1],"fit_X":[[0],[1]],"fit_y":[0,2]}`, nil, "not a known class"},
		{"bad weights", `{"type":"knn","n_neighbors":1,"weights":"gaussian","classes":[0,1],"fit_X":[[0]],"fit_y":[0]}`, nil, "gaussian"},
		{"bad p", `{"type":"knn","n_neighbors":1,"p":0.5,"classes":[0,1],"fit_X":[[0]],"fit_y":[0]}`, nil, "minkowski"},
		{"multiclass logistic", `{"type":"logistic","classes":[0,1,2],"coef":[1]}`, nil, "binary"},
		{"logistic without coef", `{"type":"logistic","classes":[0,1]}`, nil, "coefficients"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeClassifier(strings.NewReader(tt.payload))
			require.Error(t, err)
			if tt.target != nil {
				assert.True(t, errors.Is(err, tt.target))
			}
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestStandardScaler(t *testing.T) {
	sc, err := DecodeScaler(strings.NewReader(
		`{"type":"standard","mean":[10,0],"scale":[2,0.5],"feature_names":["Age","Oldpeak"]}`))
	require.NoError(t, err)

	out, err := sc.Transform([]float64{14, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2}, out)
	assert.Equal(t, []string{"Age", "Oldpeak"}, sc.FeatureNames())
	assert.Equal(t, 2, sc.NumFeatures())

	_, err = sc.Transform([]float64{1})
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
}

func TestMinMaxScaler(t *testing.T) {
	sc, err := DecodeScaler(strings.NewReader(`{"type":"minmax","min":[-0.5,0],"scale":[0.01,1]}`))
	require.NoError(t, err)

	out, err := sc.Transform([]float64{100, 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, out[0], 1e-12)
	assert.InDelta(t, 3.0, out[1], 1e-12)
	assert.Nil(t, sc.FeatureNames())
}

func TestDecodeScaler_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		message string
	}{
		{"unknown type", `{"type":"robust"}`, "robust"},
		{"empty", `{"type":"standard","mean":[],"scale":[]}`, "no features"},
		{"length mismatch", `{"type":"standard","mean":[1,2],"scale":[1]}`, "scale has 1"},
		{"zero scale", `{"type":"standard","mean":[1],"scale":[0]}`, "non-zero"},
		{"names mismatch", `{"type":"minmax","min":[1],"scale":[1],"feature_names":["a","b"]}`, "feature_names"},
		{"bad json", `nope`, "decode scaler"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeScaler(strings.NewReader(tt.payload))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.json")
	scalerPath := filepath.Join(dir, "scaler.json")
	require.NoError(t, os.WriteFile(modelPath, []byte(knnArtifact), 0o600))
	require.NoError(t, os.WriteFile(scalerPath, []byte(`{"type":"standard","mean":[0,0],"scale":[1,1]}`), 0o600))

	clf, err := LoadClassifier(modelPath)
	require.NoError(t, err)
	assert.Equal(t, 2, clf.NumFeatures())

	sc, err := LoadScaler(scalerPath)
	require.NoError(t, err)
	assert.Equal(t, 2, sc.NumFeatures())

	_, err = LoadClassifier(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
