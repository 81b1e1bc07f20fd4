package domain

// SummaryStats is a fixed-shape record of descriptive statistics over a
// numeric column. All fields are NaN-free; an empty input produces the
// zero value (Count == 0), never a partially filled record. Std and
// Variance are population moments, Skewness and Kurtosis are the Fisher
// moment-based estimators with Kurtosis reported as excess kurtosis.
type SummaryStats struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Std      float64 `json:"std"`
	Variance float64 `json:"variance"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Range    float64 `json:"range"`
	Q25      float64 `json:"q25"`
	Q50      float64 `json:"q50"`
	Q75      float64 `json:"q75"`
	IQR      float64 `json:"iqr"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}

// Empty reports whether the record was produced from zero observations.
func (s SummaryStats) Empty() bool { return s.Count == 0 }

// CorrelationMatrix is a square symmetric association matrix indexed by
// numeric column name. Values lie in [-1, 1] with 1 on the diagonal.
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// Empty reports whether the matrix has no columns.
func (m CorrelationMatrix) Empty() bool { return len(m.Columns) == 0 }

// At returns the correlation between columns i and j.
func (m CorrelationMatrix) At(i, j int) float64 { return m.Values[i][j] }

// RegressionResult reports an ordinary least squares fit. Coefficients
// are ordered to match the input feature list. AdjustedR2 is 0 when the
// degrees of freedom do not support it (n − p − 1 <= 0).
type RegressionResult struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	R2           float64   `json:"r2_score"`
	AdjustedR2   float64   `json:"adjusted_r2"`
	RMSE         float64   `json:"rmse"`
	MAE          float64   `json:"mae"`
}

// Empty reports whether the fit produced no coefficients.
func (r RegressionResult) Empty() bool { return len(r.Coefficients) == 0 }

// ModelMetrics holds held-out evaluation metrics for a trained model.
// MAPE excludes zero-valued actuals from its mean; MAPEValid is false
// when every actual was zero and the metric is not computable.
type ModelMetrics struct {
	R2        float64 `json:"r2"`
	RMSE      float64 `json:"rmse"`
	MAE       float64 `json:"mae"`
	MAPE      float64 `json:"mape"`
	MAPEValid bool    `json:"mape_valid"`
}

// PredictionPair is one held-out test observation with its prediction.
type PredictionPair struct {
	Actual    float64 `json:"actual"`
	Predicted float64 `json:"predicted"`
}

// ForecastPoint is a pure point forecast for a future year. No
// uncertainty bounds are attached; accuracy degrades with distance
// from the training range.
type ForecastPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// FeatureImportance scores one feature of a tree-ensemble model.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}
