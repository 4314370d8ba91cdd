package model

import (
	"errors"
	"fmt"
	"math"
)

// StandardScaler applies (x - mean) / scale per feature.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
	Names []string  `json:"feature_names,omitempty"`
}

func (s *StandardScaler) validate() error {
	if len(s.Mean) == 0 {
		return errors.New("no features")
	}
	if len(s.Mean) != len(s.Scale) {
		return fmt.Errorf("mean has %d entries but scale has %d", len(s.Mean), len(s.Scale))
	}
	for i, sc := range s.Scale {
		if sc == 0 || math.IsNaN(sc) || math.IsInf(sc, 0) {
			return fmt.Errorf("scale[%d] must be finite and non-zero", i)
		}
	}
	return validateNames(s.Names, len(s.Mean))
}

// Transform standardises one row.
func (s *StandardScaler) Transform(row []float64) ([]float64, error) {
	if err := checkDim(row, len(s.Mean)); err != nil {
		return nil, err
	}
	out := make([]float64, len(row))
	for i, x := range row {
		out[i] = (x - s.Mean[i]) / s.Scale[i]
	}
	return out, nil
}

// NumFeatures returns the fitted dimensionality.
func (s *StandardScaler) NumFeatures() int { return len(s.Mean) }

// FeatureNames returns the fitted column names, if exported.
func (s *StandardScaler) FeatureNames() []string { return s.Names }

// MinMaxScaler applies x*scale + min per feature.
type MinMaxScaler struct {
	Min   []float64 `json:"min"`
	Scale []float64 `json:"scale"`
	Names []string  `json:"feature_names,omitempty"`
}

func (s *MinMaxScaler) validate() error {
	if len(s.Min) == 0 {
		return errors.New("no features")
	}
	if len(s.Min) != len(s.Scale) {
		return fmt.Errorf("min has %d entries but scale has %d", len(s.Min), len(s.Scale))
	}
	return validateNames(s.Names, len(s.Min))
}

// Transform rescales one row.
func (s *MinMaxScaler) Transform(row []float64) ([]float64, error) {
	if err := checkDim(row, len(s.Min)); err != nil {
		return nil, err
	}
	out := make([]float64, len(row))
	for i, x := range row {
		out[i] = x*s.Scale[i] + s.Min[i]
	}
	return out, nil
}

// NumFeatures returns the fitted dimensionality.
func (s *MinMaxScaler) NumFeatures() int { return len(s.Min) }

// FeatureNames returns the fitted column names, if exported.
func (s *MinMaxScaler) FeatureNames() []string { return s.Names }

func validateNames(names []string, n int) error {
	if names != nil && len(names) != n {
		return fmt.Errorf("feature_names has %d entries, want %d", len(names), n)
	}
	return nil
}
