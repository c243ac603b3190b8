// Package docs builds the documentation model for gRPC services and renders
// it to Markdown.
//
// # Overview
//
// For every service in a file the Builder lists the methods, split into
// active and deprecated, and resolves each method's request and response
// type into the full set of messages and enums needed to read it. The model
// handed to the renderer is already deduplicated and acyclic.
//
// # Usage Example
//
//	reg, err := registry.New(req.GetProtoFile())
//	idx := comments.NewIndex(req.GetProtoFile())
//	builder := docs.NewBuilder(reg, idx, docs.WithLogger(logger))
//
//	pages, err := docs.GeneratePages(ctx, builder, req.GetFileToGenerate(), opts)
//	for _, page := range pages {
//		fmt.Println(page.Name)
//	}
//
// # Rendering
//
// Each method section prints its request and response types as proto
// source, with comments re-emitted as // lines. Headings are either plain
// or carry an explicit {#anchor} (see config.AnchorStyle).
//
// # Related Packages
//
//   - pkg/resolve: type set computation
//   - pkg/comments: source comment lookup
package docs
