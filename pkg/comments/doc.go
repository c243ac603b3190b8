// Package comments indexes the source comments of a descriptor bundle.
//
// protoc does not attach comments to declarations. Instead every
// FileDescriptorProto carries a source_code_info side table whose entries are
// addressed by a structural path: alternating field numbers and indexes that
// walk from the file root down to the declaration.
//
//	idx := comments.NewIndex(req.GetProtoFile())
//	path := comments.Path{comments.FileMessageTag, 0}.Child(comments.MessageFieldTag, 1)
//	c := idx.Lookup("greeter.proto", path)
//	fmt.Println(c.Leading, c.Trailing)
//
// Comment text is returned verbatim. Formatting is left to the renderer.
package comments
