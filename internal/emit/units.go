// Package emit turns a record list into the numbered console listing and
// into trajectory-builder source code. Nothing here mutates records.
package emit

import (
	"math"
	"strconv"
)

// InchesPerMeter converts the recorder's meters to the builder's inches.
const InchesPerMeter = 39.37

// Precision is the number of decimal places shown and emitted.
const Precision = 4

func toInches(m float64) float64 { return m * InchesPerMeter }

func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

// builderHeading maps a field heading (degrees clockwise from up) to the
// builder's heading in radians (counter-clockwise from east).
func builderHeading(fieldDeg float64) float64 {
	return toRadians(-fieldDeg + 90)
}

// fixed formats v with exactly Precision decimals, for display.
func fixed(v float64) string {
	return strconv.FormatFloat(clean(v), 'f', Precision, 64)
}

// code formats v rounded to Precision decimals in its shortest form, for
// source text.
func code(v float64) string {
	return strconv.FormatFloat(clean(round(v)), 'f', -1, 64)
}

func round(v float64) float64 {
	p := math.Pow(10, Precision)
	return math.Round(v*p) / p
}

// clean folds negative zero into zero so "-0" never reaches the output.
func clean(v float64) float64 {
	if v == 0 || round(v) == 0 {
		return 0
	}
	return v
}
