package features

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownColumn is returned when an expected column cannot be produced by the encoder.
	ErrUnknownColumn = errors.New("unknown expected column")
	// ErrUnknownCategory is returned when a selected category has no indicator column in the schema.
	ErrUnknownCategory = errors.New("category not present in expected columns")
)

// Numeric column names, set directly from the vitals.
const (
	ColumnAge         = "Age"
	ColumnRestingBP   = "RestingBP"
	ColumnCholesterol = "Cholesterol"
	ColumnFastingBS   = "FastingBS"
	ColumnMaxHR       = "MaxHR"
	ColumnOldpeak     = "Oldpeak"
)

// NumericColumns lists the directly-valued columns in their conventional order.
var NumericColumns = []string{
	ColumnAge,
	ColumnRestingBP,
	ColumnCholesterol,
	ColumnFastingBS,
	ColumnMaxHR,
	ColumnOldpeak,
}

// CategoricalField describes a one-hot encoded form field.
type CategoricalField struct {
	Name   string   `json:"name"`
	Prefix string   `json:"prefix"`
	Domain []string `json:"domain"`
}

// CategoricalFields are encoded as <Prefix>_<Category> indicator columns.
var CategoricalFields = []CategoricalField{
	{Name: "sex", Prefix: "Sex", Domain: []string{"M", "F"}},
	{Name: "chest_pain_type", Prefix: "ChestPainType", Domain: []string{"ATA", "NAP", "TA", "ASY"}},
	{Name: "resting_ecg", Prefix: "RestingECG", Domain: []string{"Normal", "ST", "LVH"}},
	{Name: "exercise_angina", Prefix: "ExerciseAngina", Domain: []string{"N", "Y"}},
	{Name: "st_slope", Prefix: "ST_Slope", Domain: []string{"Up", "Flat", "Down"}},
}

// OneHotColumn names the indicator column for a category.
func OneHotColumn(prefix, category string) string {
	return prefix + "_" + category
}

// Schema is the expected column order plus what the encoder derived from it.
// It is immutable once built.
type Schema struct {
	columns  []string
	index    map[string]int
	baseline map[string]string
}

// NewSchema builds a schema from the persisted expected columns.
//
// Every column must be a numeric column or an indicator of a known category,
// and every numeric column must be present. A categorical field whose
// lexically first category has no column is treated as exported with
// drop_first: that category becomes the field's reference level and encodes as
// all-zero siblings.
func NewSchema(columns []string) (*Schema, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("expected columns are empty")
	}

	known := make(map[string]bool, len(NumericColumns)+16)
	for _, name := range NumericColumns {
		known[name] = true
	}
	for _, field := range CategoricalFields {
		for _, category := range field.Domain {
			known[OneHotColumn(field.Prefix, category)] = true
		}
	}

	s := &Schema{
		columns:  append([]string(nil), columns...),
		index:    make(map[string]int, len(columns)),
		baseline: make(map[string]string),
	}

	for i, col := range columns {
		if _, dup := s.index[col]; dup {
			return nil, fmt.Errorf("duplicate expected column %q", col)
		}
		if !known[col] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
		s.index[col] = i
	}

	for _, name := range NumericColumns {
		if _, ok := s.index[name]; !ok {
			return nil, fmt.Errorf("numeric column %q missing from expected columns", name)
		}
	}

	for _, field := range CategoricalFields {
		var missing []string
		for _, category := range field.Domain {
			if _, ok := s.index[OneHotColumn(field.Prefix, category)]; !ok {
				missing = append(missing, category)
			}
		}
		if len(missing) == len(field.Domain) {
			return nil, fmt.Errorf("no indicator columns for field %q", field.Name)
		}
		if len(missing) == 1 && missing[0] == firstLexical(field.Domain) {
			s.baseline[field.Prefix] = missing[0]
		}
	}

	return s, nil
}

// Columns returns a copy of the expected column order.
func (s *Schema) Columns() []string {
	return append([]string(nil), s.columns...)
}

// Len is the row dimensionality.
func (s *Schema) Len() int {
	return len(s.columns)
}

// Index returns the position of a column.
func (s *Schema) Index(column string) (int, bool) {
	i, ok := s.index[column]
	return i, ok
}

// Baseline returns the dropped reference level for a prefix, if any.
func (s *Schema) Baseline(prefix string) (string, bool) {
	b, ok := s.baseline[prefix]
	return b, ok
}

// Categories returns, per field name, the categories the schema can encode.
func (s *Schema) Categories() map[string][]string {
	out := make(map[string][]string, len(CategoricalFields))
	for _, field := range CategoricalFields {
		for _, category := range field.Domain {
			_, present := s.index[OneHotColumn(field.Prefix, category)]
			if present || s.baseline[field.Prefix] == category {
				out[field.Name] = append(out[field.Name], category)
			}
		}
	}
	return out
}

func firstLexical(values []string) string {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return sorted[0]
}
