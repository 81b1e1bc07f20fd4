package http

import (
	"math"

	"povdash/internal/services"
)

// trendPoint is the JSON shape of one trend series entry. Undefined
// derived values (NaN in the service layer) serialize as null.
type trendPoint struct {
	Year          int      `json:"year"`
	Value         float64  `json:"value"`
	GrowthPct     *float64 `json:"growth_pct"`
	MovingAverage *float64 `json:"moving_average"`
}

func sanitizeTrend(points []services.TrendPoint) []trendPoint {
	out := make([]trendPoint, len(points))
	for i, p := range points {
		out[i] = trendPoint{
			Year:          p.Year,
			Value:         p.Value,
			GrowthPct:     nullableFloat(p.GrowthPct),
			MovingAverage: nullableFloat(p.MovingAverage),
		}
	}
	return out
}

func nullableFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
