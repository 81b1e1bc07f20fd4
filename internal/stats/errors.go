package stats

import "errors"

// Sentinel errors let callers branch deliberately between "there was
// nothing to compute" and "the computation itself failed" instead of
// relying on a caught-and-hidden fault. The service layer degrades both
// to empty results; handlers surface them as "no data available".
var (
	// ErrEmptyInput marks a computation skipped because no usable
	// observations remained after dropping missing values.
	ErrEmptyInput = errors.New("stats: empty input")

	// ErrNotComputable marks a quantity whose mathematical definition
	// does not hold for the given input, e.g. adjusted R² without
	// enough degrees of freedom or a t-test on constant data.
	ErrNotComputable = errors.New("stats: not computable")

	// ErrComputation marks a numeric failure inside an otherwise valid
	// computation, such as a degenerate correlation column.
	ErrComputation = errors.New("stats: computation failed")
)
