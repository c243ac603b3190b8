package docs

import (
	"context"
	"testing"

	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/config"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageName(t *testing.T) {
	assert.Equal(t, "greeter.proto.md", PageName("greeter.proto"))
	assert.Equal(t, "foo.bar.baz.proto.md", PageName("foo/bar/baz.proto"))
}

func TestGeneratePages_PerFile(t *testing.T) {
	sources := map[string]string{
		"greeter/v1/greeter.proto": greeterProto,
		"catalog.proto":            catalogProto,
	}
	f := newFixture(t, sources, "greeter/v1/greeter.proto", "catalog.proto")

	pages, err := GeneratePages(context.Background(), NewBuilder(f.reg, f.idx), f.req.GetFileToGenerate(), nil)
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Equal(t, "greeter.v1.greeter.proto.md", pages[0].Name)
	assert.Equal(t, greeterMarkdown, pages[0].Content)
	assert.Equal(t, "catalog.proto.md", pages[1].Name)
	assert.Contains(t, pages[1].Content, "# catalog.v1.Catalog\n")
}

func TestGeneratePages_SingleFile(t *testing.T) {
	sources := map[string]string{
		"greeter.proto": greeterProto,
		"catalog.proto": catalogProto,
	}
	f := newFixture(t, sources, "catalog.proto", "greeter.proto")
	builder := NewBuilder(f.reg, f.idx)

	opts := &config.Options{Output: "api.md", AnchorStyle: config.AnchorExplicit}
	pages, err := GeneratePages(context.Background(), builder, f.req.GetFileToGenerate(), opts)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "api.md", pages[0].Name)

	catalog, err := builder.BuildFile(context.Background(), "catalog.proto")
	require.NoError(t, err)
	greeter, err := builder.BuildFile(context.Background(), "greeter.proto")
	require.NoError(t, err)

	renderer := NewMarkdownRenderer(config.AnchorExplicit)
	assert.Equal(t, renderer.Render(catalog)+renderer.Render(greeter), pages[0].Content)
}

func TestGeneratePages_FileWithoutServices(t *testing.T) {
	sources := map[string]string{
		"types.proto": "syntax = \"proto3\";\npackage types;\nmessage Only {}\n",
	}
	f := newFixture(t, sources, "types.proto")

	pages, err := GeneratePages(context.Background(), NewBuilder(f.reg, f.idx), []string{"types.proto"}, config.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "types.proto.md", pages[0].Name)
	assert.Empty(t, pages[0].Content)
}

func TestGeneratePages_ErrorYieldsNoPages(t *testing.T) {
	f := newFixture(t, map[string]string{"greeter.proto": greeterProto}, "greeter.proto")

	pages, err := GeneratePages(context.Background(), NewBuilder(f.reg, f.idx), []string{"greeter.proto", "gone.proto"}, nil)
	require.Error(t, err)
	assert.Nil(t, pages)

	var unknown *registry.UnknownFileError
	assert.ErrorAs(t, err, &unknown)
}
