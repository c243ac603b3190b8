// Package httputil provides the small set of HTTP helpers used by the
// rpcdoc preview server: JSON and Markdown responses, path and query
// parsing on gorilla/mux routes, and request middleware.
//
//	router.Use(httputil.RequestIDMiddleware)
//	handler := httputil.Chain(
//		httputil.RecoveryMiddleware(logger),
//		httputil.LoggingMiddleware(logger),
//	)(router)
//
// Errors are written as {"error": "..."} JSON bodies.
package httputil
