package ml

import (
	"fmt"

	"povdash/internal/stats"
)

// LinearModel adapts the OLS fit from the stats package to the
// Regressor interface so linear models train, evaluate, and forecast
// through the same path as the tree ensembles.
type LinearModel struct {
	coefficients []float64
	intercept    float64
}

// NewLinearModel creates an untrained linear model.
func NewLinearModel() *LinearModel { return &LinearModel{} }

// Fit solves ordinary least squares over the training rows.
func (m *LinearModel) Fit(x [][]float64, y []float64) error {
	res, err := stats.LinearRegression(x, y)
	if err != nil {
		return fmt.Errorf("linear model: %w", err)
	}
	m.coefficients = res.Coefficients
	m.intercept = res.Intercept
	return nil
}

// Predict applies the fitted coefficients to each row.
func (m *LinearModel) Predict(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		pred := m.intercept
		for j, v := range row {
			if j < len(m.coefficients) {
				pred += m.coefficients[j] * v
			}
		}
		out[i] = pred
	}
	return out
}

// Coefficients returns the fitted slope per feature, in feature order.
func (m *LinearModel) Coefficients() []float64 { return m.coefficients }

// Intercept returns the fitted intercept.
func (m *LinearModel) Intercept() float64 { return m.intercept }
