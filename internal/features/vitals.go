package features

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Vitals is the set of patient measurements submitted through the form or the API.
// The binding tags are shared with gin so form/JSON binding and Validate agree.
type Vitals struct {
	Age            int     `json:"age" form:"age" binding:"required,min=18,max=100"`
	Sex            string  `json:"sex" form:"sex" binding:"required,oneof=M F"`
	ChestPainType  string  `json:"chest_pain_type" form:"chest_pain_type" binding:"required,oneof=ATA NAP TA ASY"`
	RestingBP      int     `json:"resting_bp" form:"resting_bp" binding:"required,min=80,max=200"`
	Cholesterol    int     `json:"cholesterol" form:"cholesterol" binding:"required,min=100,max=600"`
	FastingBS      int     `json:"fasting_bs" form:"fasting_bs" binding:"oneof=0 1"`
	RestingECG     string  `json:"resting_ecg" form:"resting_ecg" binding:"required,oneof=Normal ST LVH"`
	MaxHR          int     `json:"max_hr" form:"max_hr" binding:"required,min=60,max=220"`
	ExerciseAngina string  `json:"exercise_angina" form:"exercise_angina" binding:"required,oneof=N Y"`
	Oldpeak        float64 `json:"oldpeak" form:"oldpeak" binding:"min=0,max=6.2"`
	STSlope        string  `json:"st_slope" form:"st_slope" binding:"required,oneof=Up Flat Down"`
}

// DefaultVitals returns the values the form is pre-filled with.
func DefaultVitals() Vitals {
	return Vitals{
		Age:            40,
		Sex:            "M",
		ChestPainType:  "ATA",
		RestingBP:      120,
		Cholesterol:    200,
		FastingBS:      0,
		RestingECG:     "Normal",
		MaxHR:          150,
		ExerciseAngina: "N",
		Oldpeak:        1.0,
		STSlope:        "Up",
	}
}

// ValidationError carries one message per offending field, keyed by json name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid vitals: " + strings.Join(parts, "; ")
}

// FieldErrors returns the per-field messages.
func (e *ValidationError) FieldErrors() map[string]string {
	return e.Fields
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every range and enum constraint plus the 0.1 oldpeak step.
// It returns a *ValidationError or nil.
func (v Vitals) Validate() error {
	fields := make(map[string]string)

	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields[fe.Field()] = describe(fe)
		}
	}

	if _, bad := fields["oldpeak"]; !bad && !onStep(v.Oldpeak, 0.1) {
		fields["oldpeak"] = "must be a multiple of 0.1"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ZeroValidFields are the inputs whose zero value is legal, so a bound Vitals
// cannot tell an omitted value from a submitted 0. Callers check presence.
var ZeroValidFields = []string{"fasting_bs", "oldpeak"}

// RequireFields adds an "is required" message for each missing field to err,
// which must be nil or a *ValidationError.
func RequireFields(err error, missing ...string) error {
	if len(missing) == 0 {
		return err
	}

	fields := make(map[string]string, len(missing))
	if err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		for name, msg := range verr.Fields {
			fields[name] = msg
		}
	}
	for _, name := range missing {
		fields[name] = "is required"
	}
	return &ValidationError{Fields: fields}
}

// Key is the canonical string form of the vitals, used for memoisation.
func (v Vitals) Key() string {
	return strings.Join([]string{
		strconv.Itoa(v.Age),
		v.Sex,
		v.ChestPainType,
		strconv.Itoa(v.RestingBP),
		strconv.Itoa(v.Cholesterol),
		strconv.Itoa(v.FastingBS),
		v.RestingECG,
		strconv.Itoa(v.MaxHR),
		v.ExerciseAngina,
		strconv.FormatFloat(v.Oldpeak, 'f', 1, 64),
		v.STSlope,
	}, "|")
}

func onStep(value, step float64) bool {
	scaled := value / step
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return fmt.Sprintf("failed %q constraint", fe.Tag())
	}
}
