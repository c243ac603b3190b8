// Package observability provides logging, metrics, health reporting,
// tracing and shutdown handling for the generator and the rpcdoc CLI.
//
// # Logging
//
// A protoc plugin owns stdout for the CodeGeneratorResponse, so every log
// line goes to stderr:
//
//	logger := observability.LoggerFromEnv(os.Stderr)
//	logger.WithField("file", name).Debug("building file documentation")
//
// The level comes from RPCDOC_LOG_LEVEL (debug, info, warn, error) and
// defaults to warn so protoc output stays quiet.
//
// # Panics
//
// RecoverError turns a panic raised while generating into an ordinary error
// so the plugin can still answer protoc with a proper error response.
//
// # Watch sessions
//
// A long running "rpcdoc render --watch --serve" session exposes Prometheus
// metrics (Metrics, RegisterMetricsEndpoint) and health probes backed by the
// last render outcome (HealthChecker). ShutdownManager stops the session on
// SIGINT or SIGTERM.
//
// # Tracing
//
// InitTracing installs an OTLP gRPC exporter when an endpoint is configured.
// Without one the global no-op tracer is used and spans cost nothing.
package observability
