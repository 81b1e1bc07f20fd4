package ml

// Ensemble averages the predictions of its member regressors. Each
// member is fit on the same training data; a fitted ensemble flows
// through Forecast and Evaluate like any single model.
type Ensemble struct {
	members []Regressor
}

// NewEnsemble creates an ensemble over the given members.
func NewEnsemble(members ...Regressor) *Ensemble {
	return &Ensemble{members: members}
}

// Fit trains every member on the same data.
func (e *Ensemble) Fit(x [][]float64, y []float64) error {
	for _, m := range e.members {
		if err := m.Fit(x, y); err != nil {
			return err
		}
	}
	return nil
}

// Predict returns the member-mean prediction for each row.
func (e *Ensemble) Predict(x [][]float64) []float64 {
	out := make([]float64, len(x))
	if len(e.members) == 0 {
		return out
	}
	for _, m := range e.members {
		for i, p := range m.Predict(x) {
			out[i] += p
		}
	}
	for i := range out {
		out[i] /= float64(len(e.members))
	}
	return out
}
