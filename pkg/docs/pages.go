package docs

import (
	"context"
	"strings"

	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/config"
)

// Page is one rendered output document
type Page struct {
	Name    string
	Content string
}

// PageName returns the per-file document name for a proto file:
// "foo/bar.proto" becomes "foo.bar.proto.md".
func PageName(protoFile string) string {
	return strings.ReplaceAll(protoFile, "/", ".") + ".md"
}

// GeneratePages resolves every file before rendering, so an error never
// leaves a partial set of pages. In single-file mode all files are
// concatenated into one page named by opts.Output, in files order.
func GeneratePages(ctx context.Context, builder *Builder, files []string, opts *config.Options) ([]Page, error) {
	if opts == nil {
		opts = config.DefaultOptions()
	}

	doc, err := builder.Build(ctx, files)
	if err != nil {
		return nil, err
	}

	renderer := NewMarkdownRenderer(opts.AnchorStyle)

	if opts.SingleFile() {
		var b strings.Builder
		for _, file := range doc.Files {
			b.WriteString(renderer.Render(file))
		}
		return []Page{{Name: opts.Output, Content: b.String()}}, nil
	}

	pages := make([]Page, 0, len(doc.Files))
	for _, file := range doc.Files {
		pages = append(pages, Page{
			Name:    PageName(file.Name),
			Content: renderer.Render(file),
		})
	}
	return pages, nil
}
