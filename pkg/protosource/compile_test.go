package protosource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const commonProto = `syntax = "proto3";
package common.v1;

// Shared paging cursor.
message Cursor {
  string token = 1;
}
`

const listProto = `syntax = "proto3";
package items.v1;

import "common/v1/common.proto";
import "google/protobuf/empty.proto";

service Items {
  rpc List(common.v1.Cursor) returns (google.protobuf.Empty);
}
`

func TestBuildRequest_InMemory(t *testing.T) {
	req, err := BuildRequest(context.Background(), Options{
		Sources: map[string]string{
			"common/v1/common.proto": commonProto,
			"items/v1/items.proto":   listProto,
		},
		Parameter: "anchor_style=explicit",
	}, "items/v1/items.proto")
	require.NoError(t, err)

	assert.Equal(t, []string{"items/v1/items.proto"}, req.GetFileToGenerate())
	assert.Equal(t, "anchor_style=explicit", req.GetParameter())

	var names []string
	for _, f := range req.GetProtoFile() {
		names = append(names, f.GetName())
	}
	require.Len(t, names, 3)
	// dependencies precede dependents
	assert.Equal(t, "items/v1/items.proto", names[2])
	assert.ElementsMatch(t, []string{"common/v1/common.proto", "google/protobuf/empty.proto"}, names[:2])
}

func TestBuildRequest_KeepsComments(t *testing.T) {
	req, err := BuildRequest(context.Background(), Options{
		Sources: map[string]string{"common/v1/common.proto": commonProto},
	}, "common/v1/common.proto")
	require.NoError(t, err)

	file := req.GetProtoFile()[0]
	var found bool
	for _, loc := range file.GetSourceCodeInfo().GetLocation() {
		if len(loc.GetPath()) == 2 && loc.GetPath()[0] == 4 && loc.GetPath()[1] == 0 {
			assert.Equal(t, " Shared paging cursor.\n", loc.GetLeadingComments())
			found = true
		}
	}
	assert.True(t, found, "message location missing from source info")
}

func TestBuildRequest_FromDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "common", "v1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "common", "v1", "common.proto"), []byte(commonProto), 0o644))

	req, err := BuildRequest(context.Background(), Options{ImportPaths: []string{dir}}, "common/v1/common.proto")
	require.NoError(t, err)
	require.Len(t, req.GetProtoFile(), 1)
	assert.Equal(t, "common.v1", req.GetProtoFile()[0].GetPackage())
}

func TestBuildRequest_Errors(t *testing.T) {
	t.Run("no files", func(t *testing.T) {
		_, err := BuildRequest(context.Background(), Options{})
		assert.Error(t, err)
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := BuildRequest(context.Background(), Options{
			Sources: map[string]string{"bad.proto": "syntax = \"proto3\"; message {"},
		}, "bad.proto")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "protocompile failed")
	})

	t.Run("missing import", func(t *testing.T) {
		_, err := BuildRequest(context.Background(), Options{
			Sources: map[string]string{"items/v1/items.proto": listProto},
		}, "items/v1/items.proto")
		assert.Error(t, err)
	})
}
