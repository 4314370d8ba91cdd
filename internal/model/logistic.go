package model

import (
	"errors"
	"fmt"
	"math"
)

// LogisticRegression is a fitted binary logistic model.
type LogisticRegression struct {
	ClassLabels []int     `json:"classes"`
	Coef        []float64 `json:"coef"`
	Intercept   float64   `json:"intercept"`
}

func (m *LogisticRegression) validate() error {
	if err := validateClasses(m.ClassLabels); err != nil {
		return err
	}
	if len(m.ClassLabels) != 2 {
		return fmt.Errorf("logistic model is binary, got %d classes", len(m.ClassLabels))
	}
	if len(m.Coef) == 0 {
		return errors.New("no coefficients")
	}
	return nil
}

// Classes returns the two class labels.
func (m *LogisticRegression) Classes() []int {
	return append([]int(nil), m.ClassLabels...)
}

// NumFeatures returns the coefficient count.
func (m *LogisticRegression) NumFeatures() int {
	return len(m.Coef)
}

func (m *LogisticRegression) decision(row []float64) (float64, error) {
	if err := checkDim(row, len(m.Coef)); err != nil {
		return 0, err
	}
	z := m.Intercept
	for i, w := range m.Coef {
		z += w * row[i]
	}
	return z, nil
}

// PredictProba returns [P(classes[0]), P(classes[1])].
func (m *LogisticRegression) PredictProba(row []float64) ([]float64, error) {
	z, err := m.decision(row)
	if err != nil {
		return nil, err
	}
	p := 1 / (1 + math.Exp(-z))
	return []float64{1 - p, p}, nil
}

// Predict returns classes[1] when the decision function is positive.
func (m *LogisticRegression) Predict(row []float64) (int, error) {
	z, err := m.decision(row)
	if err != nil {
		return 0, err
	}
	if z > 0 {
		return m.ClassLabels[1], nil
	}
	return m.ClassLabels[0], nil
}
