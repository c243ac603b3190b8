// Package cli provides the rpcdoc command line tool.
//
// rpcdoc runs the same pipeline as protoc-gen-rpcdoc but compiles the proto
// sources itself, so documentation can be previewed without protoc:
//
//	rpcdoc render -I proto --out docs greeter/v1/greeter.proto
//	rpcdoc render -I proto --output api.md --anchor-style explicit a.proto b.proto
//	rpcdoc render -I proto --out docs --watch greeter/v1/greeter.proto
//
// Options may also come from a YAML file given with --config; flags that are
// set explicitly take precedence over the file.
//
// With --watch, --serve :8080 starts a StatusServer that serves the latest
// pages under /docs along with /health and /metrics. --otlp-endpoint exports
// a span per render.
package cli
