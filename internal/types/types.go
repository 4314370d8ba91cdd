package types

import "time"

// AssessRequest is the JSON body accepted by the assessment API.
// Field names and ranges mirror the web form. Every field is required;
// FastingBS and Oldpeak are pointers because 0 is a legal value for both.
type AssessRequest struct {
	Age            int      `json:"age" example:"40"`
	Sex            string   `json:"sex" example:"M" enums:"M,F"`
	ChestPainType  string   `json:"chest_pain_type" example:"ATA" enums:"ATA,NAP,TA,ASY"`
	RestingBP      int      `json:"resting_bp" example:"120"`
	Cholesterol    int      `json:"cholesterol" example:"200"`
	FastingBS      *int     `json:"fasting_bs" example:"0" enums:"0,1"`
	RestingECG     string   `json:"resting_ecg" example:"Normal" enums:"Normal,ST,LVH"`
	MaxHR          int      `json:"max_hr" example:"150"`
	ExerciseAngina string   `json:"exercise_angina" example:"N" enums:"N,Y"`
	Oldpeak        *float64 `json:"oldpeak" example:"1.0"`
	STSlope        string   `json:"st_slope" example:"Up" enums:"Up,Flat,Down"`
}

// GaugeStep is one coloured band of the risk gauge.
type GaugeStep struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Color string  `json:"color"`
}

// GaugeSpec describes the gauge so API clients can draw the same chart.
type GaugeSpec struct {
	Value     float64     `json:"value"`
	Min       float64     `json:"min"`
	Max       float64     `json:"max"`
	Threshold float64     `json:"threshold"`
	BarColor  string      `json:"bar_color"`
	Steps     []GaugeStep `json:"steps"`
}

// AssessResponse is returned by POST /api/v1/assess.
type AssessResponse struct {
	Label              int       `json:"label" example:"0"`
	RiskLevel          string    `json:"risk_level" example:"low"`
	Finding            string    `json:"finding" example:"Low Risk Detected"`
	Probability        float64   `json:"probability" example:"0.375"`
	ProbabilityPercent string    `json:"probability_percent" example:"37.50%"`
	Gauge              GaugeSpec `json:"gauge"`
	CacheHit           bool      `json:"cache_hit"`
	DurationMS         int64     `json:"duration_ms"`
	RequestID          string    `json:"request_id,omitempty"`
}

// SchemaResponse is returned by GET /api/v1/schema.
type SchemaResponse struct {
	Columns    []string            `json:"columns"`
	Categories map[string][]string `json:"categories"`
	Numeric    []string            `json:"numeric"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status    string            `json:"status" example:"ok"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version" example:"1.0.0"`
	Checks    map[string]string `json:"checks"`
}
