// Package plugin implements the protoc plugin protocol for rpcdoc.
//
// protoc writes a serialized CodeGeneratorRequest to the plugin's stdin and
// reads a CodeGeneratorResponse from its stdout:
//
//	if err := plugin.Run(ctx, os.Stdin, os.Stdout, logger); err != nil {
//		os.Exit(1)
//	}
//
// Invalid options and malformed bundles are reported through the response's
// error field, which protoc prints before exiting non-zero. No files are
// returned in that case.
package plugin
