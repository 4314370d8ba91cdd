package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrDimensionMismatch is returned when a row does not match the fitted feature count.
	ErrDimensionMismatch = errors.New("feature dimension mismatch")
	// ErrUnsupportedType is returned for artifacts with an unknown "type".
	ErrUnsupportedType = errors.New("unsupported artifact type")
)

// Classifier is a fitted binary classifier.
type Classifier interface {
	// Predict returns the predicted class label for one row.
	Predict(row []float64) (int, error)
	// PredictProba returns one probability per class, aligned with Classes.
	PredictProba(row []float64) ([]float64, error)
	Classes() []int
	NumFeatures() int
}

// Scaler is a fitted feature transform.
type Scaler interface {
	Transform(row []float64) ([]float64, error)
	NumFeatures() int
	// FeatureNames is the column order the scaler was fitted on; nil when not exported.
	FeatureNames() []string
}

type envelope struct {
	Type string `json:"type"`
}

// DecodeClassifier reads a classifier artifact.
func DecodeClassifier(r io.Reader) (Classifier, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("decode classifier: %w", err)
	}

	var clf interface {
		Classifier
		validate() error
	}
	switch env.Type {
	case "knn":
		clf = &KNN{}
	case "logistic":
		clf = &LogisticRegression{}
	default:
		return nil, fmt.Errorf("%w: classifier %q", ErrUnsupportedType, env.Type)
	}

	if err := json.Unmarshal(payload, clf); err != nil {
		return nil, fmt.Errorf("decode %s classifier: %w", env.Type, err)
	}
	if err := clf.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s classifier: %w", env.Type, err)
	}
	return clf, nil
}

// DecodeScaler reads a scaler artifact.
func DecodeScaler(r io.Reader) (Scaler, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("decode scaler: %w", err)
	}

	var sc interface {
		Scaler
		validate() error
	}
	switch env.Type {
	case "standard":
		sc = &StandardScaler{}
	case "minmax":
		sc = &MinMaxScaler{}
	default:
		return nil, fmt.Errorf("%w: scaler %q", ErrUnsupportedType, env.Type)
	}

	if err := json.Unmarshal(payload, sc); err != nil {
		return nil, fmt.Errorf("decode %s scaler: %w", env.Type, err)
	}
	if err := sc.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s scaler: %w", env.Type, err)
	}
	return sc, nil
}

// LoadClassifier reads a classifier artifact from disk.
func LoadClassifier(path string) (Classifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeClassifier(f)
}

// LoadScaler reads a scaler artifact from disk.
func LoadScaler(path string) (Scaler, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeScaler(f)
}

func checkDim(row []float64, want int) error {
	if len(row) != want {
		return fmt.Errorf("%w: got %d features, want %d", ErrDimensionMismatch, len(row), want)
	}
	return nil
}

func validateClasses(classes []int) error {
	if len(classes) < 2 {
		return errors.New("at least two classes required")
	}
	for i := 1; i < len(classes); i++ {
		if classes[i] <= classes[i-1] {
			return errors.New("classes must be strictly increasing")
		}
	}
	return nil
}
