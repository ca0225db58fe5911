package thermal

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/hotspotmap/pkg/errors"
)

// Range returns the minimum and maximum of values.
func Range(values []float64) (lo, hi float64, err error) {
	if len(values) == 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidTemperature, "no temperatures to derive a range from")
	}
	return floats.Min(values), floats.Max(values), nil
}

// Summary describes a temperature dataset for log output.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Summarize computes count, range, mean and standard deviation.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		std = 0
	}
	return Summary{
		Count:  len(values),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   mean,
		StdDev: std,
	}
}

// Extremes returns the coolest and hottest units of a matched set.
func Extremes(units []UnitTemp) (coolest, hottest UnitTemp, ok bool) {
	if len(units) == 0 {
		return UnitTemp{}, UnitTemp{}, false
	}
	temps := make([]float64, len(units))
	for i, u := range units {
		temps[i] = u.Temp
	}
	return units[floats.MinIdx(temps)], units[floats.MaxIdx(temps)], true
}
