// Package http contains the chi HTTP handlers for the analysis API.
// Handlers decode and validate JSON request bodies, delegate to the
// service layer, and render a uniform success/error envelope. Analysis
// over an empty filter result renders the operation's empty value with
// a 200, matching the service layer's degrade-to-empty policy.
package http
