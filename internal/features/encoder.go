package features

import "fmt"

// Row is a single encoded feature row aligned to the schema's column order.
type Row struct {
	Columns []string  `json:"columns"`
	Values  []float64 `json:"values"`
}

// Encoder maps vitals onto the schema: zero everywhere, numeric fields set
// directly, one indicator set per categorical field.
type Encoder struct {
	schema *Schema
}

// NewEncoder creates an encoder for a schema.
func NewEncoder(schema *Schema) *Encoder {
	return &Encoder{schema: schema}
}

// Schema returns the encoder's schema.
func (e *Encoder) Schema() *Schema {
	return e.schema
}

// Encode validates the vitals and builds the feature row.
func (e *Encoder) Encode(v Vitals) (Row, error) {
	if err := v.Validate(); err != nil {
		return Row{}, err
	}

	values := make([]float64, e.schema.Len())

	numeric := map[string]float64{
		ColumnAge:         float64(v.Age),
		ColumnRestingBP:   float64(v.RestingBP),
		ColumnCholesterol: float64(v.Cholesterol),
		ColumnFastingBS:   float64(v.FastingBS),
		ColumnMaxHR:       float64(v.MaxHR),
		ColumnOldpeak:     v.Oldpeak,
	}
	for col, value := range numeric {
		i, ok := e.schema.Index(col)
		if !ok {
			return Row{}, fmt.Errorf("numeric column %q missing from schema", col)
		}
		values[i] = value
	}

	selected := map[string]string{
		"Sex":            v.Sex,
		"ChestPainType":  v.ChestPainType,
		"RestingECG":     v.RestingECG,
		"ExerciseAngina": v.ExerciseAngina,
		"ST_Slope":       v.STSlope,
	}
	for _, field := range CategoricalFields {
		category := selected[field.Prefix]
		col := OneHotColumn(field.Prefix, category)
		if i, ok := e.schema.Index(col); ok {
			values[i] = 1
			continue
		}
		if base, ok := e.schema.Baseline(field.Prefix); ok && base == category {
			continue
		}
		return Row{}, fmt.Errorf("%w: %s=%q (column %q)", ErrUnknownCategory, field.Name, category, col)
	}

	return Row{Columns: e.schema.Columns(), Values: values}, nil
}
