package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "povdash/internal/errors"
	"povdash/internal/datasource"
	"povdash/pkg/contracts/domain"
)

var validate = validator.New()

// SourceSpec identifies the dataset a request operates on.
type SourceSpec struct {
	Kind      string   `json:"kind" validate:"required"`
	Indicator string   `json:"indicator,omitempty"`
	StartYear int      `json:"start_year,omitempty" validate:"omitempty,min=1900"`
	EndYear   int      `json:"end_year,omitempty" validate:"omitempty,min=1900"`
	Countries []string `json:"countries,omitempty"`
	States    []string `json:"states,omitempty"`
	AreaType  string   `json:"area_type,omitempty"`
}

func (s SourceSpec) toRequest() (datasource.Request, error) {
	kind, err := datasource.ParseKind(s.Kind)
	if err != nil {
		return datasource.Request{}, err
	}
	return datasource.Request{
		Kind:      kind,
		Indicator: s.Indicator,
		StartYear: s.StartYear,
		EndYear:   s.EndYear,
		Countries: s.Countries,
		States:    s.States,
		AreaType:  s.AreaType,
	}, nil
}

// AnalysisRequest is the shared body of all analysis endpoints: the
// data source plus the row filter to apply before computing.
type AnalysisRequest struct {
	Source SourceSpec        `json:"source" validate:"required"`
	Filter domain.FilterSpec `json:"filter"`
}

// CorrelationRequest selects the association method.
type CorrelationRequest struct {
	AnalysisRequest
	Method string `json:"method,omitempty" validate:"omitempty,oneof=pearson spearman kendall"`
}

// RegressionRequest names the target and feature indicator columns.
type RegressionRequest struct {
	AnalysisRequest
	Target   string   `json:"target" validate:"required"`
	Features []string `json:"features" validate:"required,min=1"`
}

// GroupSummaryRequest selects the grouping column.
type GroupSummaryRequest struct {
	AnalysisRequest
	GroupBy string `json:"group_by" validate:"required,oneof=state country year area_type indicator"`
}

// TTestRequest compares two category groups.
type TTestRequest struct {
	AnalysisRequest
	GroupBy     string  `json:"group_by" validate:"required,oneof=state country year area_type indicator"`
	GroupA      string  `json:"group_a" validate:"required"`
	GroupB      string  `json:"group_b" validate:"required"`
	Alternative string  `json:"alternative,omitempty" validate:"omitempty,oneof=two-sided less greater"`
	Confidence  float64 `json:"confidence,omitempty" validate:"omitempty,gt=0,lt=1"`
}

// AnovaRequest tests means across all groups of one column.
type AnovaRequest struct {
	AnalysisRequest
	GroupBy    string  `json:"group_by" validate:"required,oneof=state country year area_type indicator"`
	Confidence float64 `json:"confidence,omitempty" validate:"omitempty,gt=0,lt=1"`
}

// OutliersRequest selects the detection method and threshold.
type OutliersRequest struct {
	AnalysisRequest
	Method    string  `json:"method,omitempty" validate:"omitempty,oneof=iqr zscore"`
	Threshold float64 `json:"threshold,omitempty" validate:"omitempty,gt=0"`
}

// TrendRequest sets the moving-average window.
type TrendRequest struct {
	AnalysisRequest
	Window int `json:"window,omitempty" validate:"omitempty,min=1,max=25"`
}

// AggregateRequest groups rows and reduces the value column.
type AggregateRequest struct {
	AnalysisRequest
	GroupBy []string `json:"group_by" validate:"required,min=1,dive,oneof=state country year area_type indicator"`
	Func    string   `json:"func,omitempty" validate:"omitempty,oneof=mean sum count min max"`
}

// TrainRequest trains a model. With no target the model fits the
// year-value trend; with a target it predicts it from the features.
type TrainRequest struct {
	AnalysisRequest
	Model    string   `json:"model" validate:"required,oneof=linear random-forest gradient-boosting ensemble"`
	Target   string   `json:"target,omitempty"`
	Features []string `json:"features,omitempty" validate:"required_with=Target"`
}

// CrossValidateRequest scores a model with k-fold cross-validation.
type CrossValidateRequest struct {
	TrainRequest
	Folds int `json:"folds,omitempty" validate:"omitempty,min=2,max=20"`
}

// ForecastRequest extrapolates the trend model into future years.
type ForecastRequest struct {
	AnalysisRequest
	Model      string `json:"model" validate:"required,oneof=linear random-forest gradient-boosting ensemble"`
	YearsAhead int    `json:"years_ahead,omitempty" validate:"omitempty,min=1,max=50"`
}

// DataResponse is the standard success envelope.
type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func respond(w http.ResponseWriter, r *http.Request, data any) {
	render.JSON(w, r, DataResponse{Success: true, Data: data})
}

// decode parses and validates a JSON request body into dst, rendering
// the error response itself on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return false
	}
	if err := validate.Struct(dst); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(validationError(err)))
		return false
	}
	return true
}

func validationError(err error) *apierrors.APIError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.InvalidRequestWithError(err)
	}
	details := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: fe.Tag(),
		})
	}
	return apierrors.NewValidationErrors(details)
}
