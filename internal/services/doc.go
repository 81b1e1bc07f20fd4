// Package services contains the application service layer between the
// HTTP transport and the analysis packages. DataService owns dataset
// acquisition and preparation, AnalysisService the statistical
// computations, and ModelService model training and forecasting. All
// three take their cache, metrics, and logger as explicit dependencies.
package services
