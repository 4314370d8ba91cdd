package model

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// KNN is a fitted k-nearest-neighbours classifier (brute-force search).
// Weights is "uniform" or "distance"; P is the Minkowski power.
type KNN struct {
	NNeighbors  int         `json:"n_neighbors"`
	Weights     string      `json:"weights"`
	P           float64     `json:"p"`
	ClassLabels []int       `json:"classes"`
	FitX        [][]float64 `json:"fit_X"`
	FitY        []int       `json:"fit_y"`

	classIndex map[int]int
}

type neighbor struct {
	dist  float64
	class int
}

func (k *KNN) validate() error {
	if k.Weights == "" {
		k.Weights = "uniform"
	}
	if k.P == 0 {
		k.P = 2
	}
	if k.Weights != "uniform" && k.Weights != "distance" {
		return fmt.Errorf("unknown weights %q", k.Weights)
	}
	if k.P < 1 {
		return fmt.Errorf("minkowski p must be >= 1, got %v", k.P)
	}
	if err := validateClasses(k.ClassLabels); err != nil {
		return err
	}
	if len(k.FitX) == 0 {
		return errors.New("no fitted samples")
	}
	if len(k.FitX) != len(k.FitY) {
		return fmt.Errorf("fit_X has %d rows but fit_y has %d labels", len(k.FitX), len(k.FitY))
	}
	if k.NNeighbors < 1 || k.NNeighbors > len(k.FitX) {
		return fmt.Errorf("n_neighbors must be in [1, %d], got %d", len(k.FitX), k.NNeighbors)
	}

	k.classIndex = make(map[int]int, len(k.ClassLabels))
	for i, c := range k.ClassLabels {
		k.classIndex[c] = i
	}

	dim := len(k.FitX[0])
	if dim == 0 {
		return errors.New("fitted samples have no features")
	}
	for i, x := range k.FitX {
		if len(x) != dim {
			return fmt.Errorf("fit_X row %d has %d features, want %d", i, len(x), dim)
		}
		if _, ok := k.classIndex[k.FitY[i]]; !ok {
			return fmt.Errorf("fit_y[%d]=%d is not a known class", i, k.FitY[i])
		}
	}
	return nil
}

// Classes returns the sorted class labels.
func (k *KNN) Classes() []int {
	return append([]int(nil), k.ClassLabels...)
}

// NumFeatures returns the fitted dimensionality.
func (k *KNN) NumFeatures() int {
	if len(k.FitX) == 0 {
		return 0
	}
	return len(k.FitX[0])
}

// PredictProba returns the neighbour vote share per class.
func (k *KNN) PredictProba(row []float64) ([]float64, error) {
	if err := checkDim(row, k.NumFeatures()); err != nil {
		return nil, err
	}

	nearest := k.kneighbors(row)
	proba := make([]float64, len(k.ClassLabels))

	if k.Weights == "distance" {
		// An exact match takes all the weight.
		exact := false
		for _, n := range nearest {
			if n.dist == 0 {
				exact = true
				proba[k.classIndex[n.class]]++
			}
		}
		if !exact {
			for _, n := range nearest {
				proba[k.classIndex[n.class]] += 1 / n.dist
			}
		}
	} else {
		for _, n := range nearest {
			proba[k.classIndex[n.class]]++
		}
	}

	total := 0.0
	for _, p := range proba {
		total += p
	}
	for i := range proba {
		proba[i] /= total
	}
	return proba, nil
}

// Predict returns the class with the largest vote share; ties go to the smaller label.
func (k *KNN) Predict(row []float64) (int, error) {
	proba, err := k.PredictProba(row)
	if err != nil {
		return 0, err
	}
	best := 0
	for i := 1; i < len(proba); i++ {
		if proba[i] > proba[best] {
			best = i
		}
	}
	return k.ClassLabels[best], nil
}

func (k *KNN) kneighbors(row []float64) []neighbor {
	all := make([]neighbor, len(k.FitX))
	for i, x := range k.FitX {
		all[i] = neighbor{dist: minkowski(row, x, k.P), class: k.FitY[i]}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].dist < all[j].dist })
	return all[:k.NNeighbors]
}

func minkowski(a, b []float64, p float64) float64 {
	switch p {
	case 1:
		sum := 0.0
		for i := range a {
			sum += math.Abs(a[i] - b[i])
		}
		return sum
	case 2:
		sum := 0.0
		for i := range a {
			d := a[i] - b[i]
			sum += d * d
		}
		return math.Sqrt(sum)
	default:
		sum := 0.0
		for i := range a {
			sum += math.Pow(math.Abs(a[i]-b[i]), p)
		}
		return math.Pow(sum, 1/p)
	}
}
