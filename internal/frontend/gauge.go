package frontend

import (
	"fmt"
	"math"

	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/types"
)

// Gauge palette.
const (
	ColorGold       = "#D4AF37"
	ColorBackground = "#1E1E1E"
	ColorPanel      = "#2a2a2e"
	ColorText       = "#E0E0E0"
	ColorBorder     = "#4a4a4a"
	ColorLowBand    = "rgba(42, 110, 69, 0.5)"
	ColorHighBand   = "rgba(110, 42, 42, 0.5)"
)

// GaugeThreshold is where the gauge switches from the low to the high band.
const GaugeThreshold = 50.0

// SVG geometry of the semicircle, in viewBox units.
const (
	gaugeCX     = 160.0
	gaugeCY     = 150.0
	gaugeRadius = 110.0
	bandWidth   = 36.0
	barWidth    = 14.0
	tickOffset  = 30.0
)

// GaugeSpecFor returns the gauge description for a probability in [0,1].
func GaugeSpecFor(probability float64) types.GaugeSpec {
	return types.GaugeSpec{
		Value:     clamp(probability*100, 0, 100),
		Min:       0,
		Max:       100,
		Threshold: GaugeThreshold,
		BarColor:  ColorGold,
		Steps: []types.GaugeStep{
			{From: 0, To: GaugeThreshold, Color: ColorLowBand},
			{From: GaugeThreshold, To: 100, Color: ColorHighBand},
		},
	}
}

// Arc is one stroked arc of the SVG.
type Arc struct {
	D     string
	Color string
	Width float64
}

// Tick is an axis label.
type Tick struct {
	X, Y  string
	Label string
}

// Gauge is the render-ready SVG geometry for a spec.
type Gauge struct {
	Spec      types.GaugeSpec
	Bands     []Arc
	Bar       *Arc
	Ticks     []Tick
	ValueText string
}

// NewGauge lays out the semicircle for the given probability.
func NewGauge(probability float64) Gauge {
	spec := GaugeSpecFor(probability)

	g := Gauge{
		Spec:      spec,
		ValueText: fmt.Sprintf("%.2f%%", spec.Value),
	}

	for _, step := range spec.Steps {
		g.Bands = append(g.Bands, Arc{
			D:     arcPath(step.From, step.To, spec.Max),
			Color: step.Color,
			Width: bandWidth,
		})
	}

	if spec.Value > 0 {
		g.Bar = &Arc{
			D:     arcPath(spec.Min, spec.Value, spec.Max),
			Color: spec.BarColor,
			Width: barWidth,
		}
	}

	for v := spec.Min; v <= spec.Max; v += 20 {
		x, y := polar(v, spec.Max, gaugeRadius+tickOffset)
		g.Ticks = append(g.Ticks, Tick{X: num(x), Y: num(y), Label: fmt.Sprintf("%.0f", v)})
	}

	return g
}

// polar maps a value on [0,top] to a point on the upper semicircle,
// 0 at the left end and top at the right end.
func polar(value, top, radius float64) (float64, float64) {
	theta := math.Pi * (1 - value/top)
	return gaugeCX + radius*math.Cos(theta), gaugeCY - radius*math.Sin(theta)
}

func arcPath(from, to, top float64) string {
	x1, y1 := polar(from, top, gaugeRadius)
	x2, y2 := polar(to, top, gaugeRadius)
	return fmt.Sprintf("M %s %s A %s %s 0 0 1 %s %s",
		num(x1), num(y1), num(gaugeRadius), num(gaugeRadius), num(x2), num(y2))
}

func num(f float64) string {
	// avoid "-0.00"
	if math.Abs(f) < 0.005 {
		f = 0
	}
	return fmt.Sprintf("%.2f", f)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
