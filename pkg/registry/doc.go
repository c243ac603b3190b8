// Package registry resolves fully-qualified protobuf type names to their
// declarations.
//
// The schema graph contains aliasing and cycles, so declarations never point
// at each other. Every Decl is owned by the Registry and referenced elsewhere
// by its TypeRef only:
//
//	reg, err := registry.New(req.GetProtoFile())
//	decl, err := reg.Lookup("greeter.v1.HelloRequest")
//
// A DuplicateTypeError from New or an UnknownTypeError from Lookup means the
// bundle is malformed. Both are fatal to a generation run.
package registry
