// Package ml implements the model training and forecasting layer:
// linear, random-forest, and gradient-boosting regressors behind one
// Regressor interface, a seeded train/test split, held-out evaluation
// (R², RMSE, MAE, MAPE), and year-based point forecasting.
//
// Every call is a pure function of its inputs. A trained model is
// returned to the caller and held only long enough to produce
// forecasts; nothing is retained or updated incrementally between
// calls. The tree ensembles are CART regression trees grown on
// variance reduction with deterministic, seed-driven bootstrapping.
package ml
