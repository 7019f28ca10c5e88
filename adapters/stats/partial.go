package stats

import (
	"math"

	"lifeconnect/domain/core"

	mstats "github.com/montanaflynn/stats"
)

// PartialPearson computes the partial correlation of x and y controlling for
// a single confounder z, using the closed-form first-order formula
// r_xy.z = (r_xy - r_xz*r_yz) / sqrt((1-r_xz^2)(1-r_yz^2)).
func PartialPearson(x, y, z []float64) (float64, error) {
	rxy, err := Pearson(x, y)
	if err != nil {
		return 0, err
	}
	rxz, err := Pearson(x, z)
	if err != nil {
		return 0, err
	}
	ryz, err := Pearson(y, z)
	if err != nil {
		return 0, err
	}

	denom := math.Sqrt((1 - rxz*rxz) * (1 - ryz*ryz))
	if denom == 0 {
		// One leg is fully determined by the confounder; nothing is left to
		// correlate once it is removed.
		return 0, core.ErrDegenerateSeries
	}
	return Clamp((rxy - rxz*ryz) / denom), nil
}

// Residualize removes the linear component of z from y and returns the
// residuals. Used for partialling out multiple controls sequentially.
func Residualize(y, z []float64) ([]float64, error) {
	if len(y) != len(z) {
		return nil, core.ErrSeriesMismatch
	}

	r, err := Pearson(y, z)
	if err != nil {
		return nil, err
	}

	meanY, _ := mstats.Mean(y)
	meanZ, _ := mstats.Mean(z)
	sdY, _ := mstats.StandardDeviationSample(y)
	sdZ, _ := mstats.StandardDeviationSample(z)
	if sdZ == 0 {
		return nil, core.ErrDegenerateSeries
	}

	slope := r * sdY / sdZ
	residuals := make([]float64, len(y))
	for i := range y {
		residuals[i] = (y[i] - meanY) - slope*(z[i]-meanZ)
	}
	return residuals, nil
}

// PartialPearsonMulti controls for several confounders by residualizing both
// legs against each control in turn and correlating the residuals.
func PartialPearsonMulti(x, y []float64, controls [][]float64) (float64, error) {
	if len(controls) == 0 {
		return Pearson(x, y)
	}
	if len(controls) == 1 {
		return PartialPearson(x, y, controls[0])
	}

	xr := append([]float64(nil), x...)
	yr := append([]float64(nil), y...)
	for _, z := range controls {
		var err error
		if xr, err = Residualize(xr, z); err != nil {
			return 0, err
		}
		if yr, err = Residualize(yr, z); err != nil {
			return 0, err
		}
	}
	return Pearson(xr, yr)
}
