// Package sourcetest builds CodeGeneratorRequests from inline proto source
// for tests.
package sourcetest

import (
	"context"
	"testing"

	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/protosource"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"
)

// Request compiles sources into a request generating files
func Request(t testing.TB, sources map[string]string, files ...string) *pluginpb.CodeGeneratorRequest {
	t.Helper()
	req, err := protosource.BuildRequest(context.Background(), protosource.Options{Sources: sources}, files...)
	require.NoError(t, err)
	return req
}

// Single compiles one file named name
func Single(t testing.TB, name, source string) *pluginpb.CodeGeneratorRequest {
	t.Helper()
	return Request(t, map[string]string{name: source}, name)
}

// File returns the compiled descriptor for name
func File(t testing.TB, req *pluginpb.CodeGeneratorRequest, name string) *descriptorpb.FileDescriptorProto {
	t.Helper()
	for _, f := range req.GetProtoFile() {
		if f.GetName() == name {
			return f
		}
	}
	t.Fatalf("file %s not in request", name)
	return nil
}
