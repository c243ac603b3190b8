// Package protosource compiles .proto sources in-process into the
// CodeGeneratorRequest protoc would hand to a plugin.
//
// It backs the rpcdoc CLI, which renders documentation without a protoc
// installation, and lets tests describe fixtures as plain proto source:
//
//	req, err := protosource.BuildRequest(ctx, protosource.Options{
//		Sources: map[string]string{"greeter.proto": src},
//	}, "greeter.proto")
package protosource
