package frontend

import (
	"strconv"

	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/features"
)

// Input widgets.
const (
	KindSlider = "slider"
	KindNumber = "number"
	KindSelect = "select"
)

// Field is one form control with its current value and error.
type Field struct {
	Name    string
	Label   string
	Kind    string
	Min     string
	Max     string
	Step    string
	Options []string
	Value   string
	Error   string
}

// Form is the patient vitals form laid out in three columns plus a full-width row.
type Form struct {
	Columns [][]Field
	Wide    []Field
	// Error is a form-level message, e.g. for an unparseable submission.
	Error string
}

// HasErrors reports whether any field or the form itself carries an error.
func (f Form) HasErrors() bool {
	if f.Error != "" {
		return true
	}
	for _, col := range f.Columns {
		for _, field := range col {
			if field.Error != "" {
				return true
			}
		}
	}
	for _, field := range f.Wide {
		if field.Error != "" {
			return true
		}
	}
	return false
}

// NewForm builds the form for v. errs is keyed by the field's JSON name.
func NewForm(v features.Vitals, errs map[string]string) Form {
	field := func(name, label, kind, lo, hi, step, value string, options ...string) Field {
		return Field{
			Name:    name,
			Label:   label,
			Kind:    kind,
			Min:     lo,
			Max:     hi,
			Step:    step,
			Options: options,
			Value:   value,
			Error:   errs[name],
		}
	}

	return Form{
		Columns: [][]Field{
			{
				field("age", "Age", KindSlider, "18", "100", "1", strconv.Itoa(v.Age)),
				field("sex", "Sex", KindSelect, "", "", "", v.Sex, "M", "F"),
				field("chest_pain_type", "Chest Pain Type", KindSelect, "", "", "", v.ChestPainType, "ATA", "NAP", "TA", "ASY"),
			},
			{
				field("resting_bp", "Resting BP (mm Hg)", KindNumber, "80", "200", "1", strconv.Itoa(v.RestingBP)),
				field("cholesterol", "Cholesterol (mg/dL)", KindNumber, "100", "600", "1", strconv.Itoa(v.Cholesterol)),
				field("fasting_bs", "Fasting Blood Sugar > 120 mg/dL", KindSelect, "", "", "", strconv.Itoa(v.FastingBS), "0", "1"),
			},
			{
				field("resting_ecg", "Resting ECG", KindSelect, "", "", "", v.RestingECG, "Normal", "ST", "LVH"),
				field("max_hr", "Max Heart Rate", KindSlider, "60", "220", "1", strconv.Itoa(v.MaxHR)),
				field("exercise_angina", "Exercise Angina", KindSelect, "", "", "", v.ExerciseAngina, "N", "Y"),
			},
		},
		Wide: []Field{
			field("oldpeak", "Oldpeak (ST Depression)", KindSlider, "0.0", "6.2", "0.1", strconv.FormatFloat(v.Oldpeak, 'f', 1, 64)),
			field("st_slope", "ST Slope", KindSelect, "", "", "", v.STSlope, "Up", "Flat", "Down"),
		},
	}
}
