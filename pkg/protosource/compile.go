package protosource

import (
	"context"
	"fmt"

	"github.com/bufbuild/protocompile"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"
)

// Options controls in-process compilation
type Options struct {
	// ImportPaths are searched for the named files and their imports
	ImportPaths []string
	// Sources, when set, serves file contents from memory instead of disk
	Sources map[string]string
	// Parameter is copied into the request's parameter field
	Parameter string
}

// BuildRequest compiles files the way protoc would before invoking a plugin
// and returns the resulting CodeGeneratorRequest. proto_file lists every
// transitive dependency before its dependents; comments are kept in
// source_code_info.
func BuildRequest(ctx context.Context, opts Options, files ...string) (*pluginpb.CodeGeneratorRequest, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no proto files given")
	}

	resolver := &protocompile.SourceResolver{
		ImportPaths: opts.ImportPaths,
	}
	if opts.Sources != nil {
		resolver.Accessor = protocompile.SourceAccessorFromMap(opts.Sources)
	}

	compiler := protocompile.Compiler{
		Resolver:       protocompile.WithStandardImports(resolver),
		SourceInfoMode: protocompile.SourceInfoStandard,
	}

	result, err := compiler.Compile(ctx, files...)
	if err != nil {
		return nil, fmt.Errorf("protocompile failed: %w", err)
	}

	req := &pluginpb.CodeGeneratorRequest{
		FileToGenerate: files,
	}
	if opts.Parameter != "" {
		req.Parameter = proto.String(opts.Parameter)
	}

	seen := make(map[string]bool)
	for _, fd := range result {
		req.ProtoFile = appendFile(req.ProtoFile, fd, seen)
	}

	return req, nil
}

// appendFile adds fd after all of its imports, depth first
func appendFile(out []*descriptorpb.FileDescriptorProto, fd protoreflect.FileDescriptor, seen map[string]bool) []*descriptorpb.FileDescriptorProto {
	if seen[fd.Path()] {
		return out
	}
	seen[fd.Path()] = true

	imports := fd.Imports()
	for i := 0; i < imports.Len(); i++ {
		out = appendFile(out, imports.Get(i).FileDescriptor, seen)
	}

	return append(out, protodesc.ToFileDescriptorProto(fd))
}
