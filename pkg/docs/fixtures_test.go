package docs

import (
	"testing"

	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/comments"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/protosource/sourcetest"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/registry"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/pluginpb"
)

const greeterProto = `syntax = "proto3";
package greeter.v1;

// The greeting service.
service Greeter {
  // Sends a greeting.
  rpc SayHello(HelloRequest) returns (HelloReply);
}

message HelloRequest {
  string name = 1;
}

message HelloReply {
  string message = 1;
}
`

const catalogProto = `syntax = "proto3";
package catalog.v1;

// Catalog management.
service Catalog {
  rpc Alpha(Query) returns (Shared);
  // Old lookup.
  rpc Beta(Query) returns (Shared) {
    option deprecated = true;
  }
  rpc Gamma(stream Query) returns (stream Shared);
  rpc Delta(Query) returns (stream Shared);
  rpc Epsilon(stream Query) returns (Shared);
}

service Legacy {
  option deprecated = true;
  rpc StillActive(Shared) returns (Shared);
  rpc AlsoOld(Shared) returns (Shared) {
    option deprecated = true;
  }
}

// A search query.
message Query {
  // Free text.
  // Matched case-insensitively.
  string text = 1; // may be empty
  optional int32 limit = 2;
  repeated string tags = 3;
  map<string, Shared> extra = 4;
  oneof cursor {
    string token = 5;
    int64 offset = 6;
  }
  Shared shared = 7;
  string legacy = 8 [deprecated = true];
  Filter.Mode mode = 9;
}

message Filter {
  // Match mode.
  enum Mode {
    MODE_UNSPECIFIED = 0; // default
    // Exact match.
    MODE_EXACT = 1;
    MODE_PREFIX = 2 [deprecated = true];
  }
}

message Shared {
  message Item {
    string id = 1;
  }
  repeated Item items = 1;
}
`

const legacyProto = `syntax = "proto2";
package legacy;

service Store {
  rpc Put(Record) returns (Record);
}

message Record {
  required string key = 1;
  optional bytes value = 2;
  repeated int32 versions = 3;
}
`

const ordersProto = `syntax = "proto3";
package orders;

import "inventory.proto";

service Orders {
  rpc Place(Order) returns (Order);
}

message Order {
  inventory.Item theirs = 1;
  Item ours = 2;
}

message Item {
  string mine = 1;
}
`

const inventoryProto = `syntax = "proto3";
package inventory;

message Item {
  int64 theirs = 1;
}
`

const treeProto = `syntax = "proto3";
package tree;

service Trees {
  rpc Walk(Node) returns (Node);
}

message Node {
  repeated Node children = 1;
}
`

type fixture struct {
	req *pluginpb.CodeGeneratorRequest
	reg *registry.Registry
	idx *comments.Index
}

func newFixture(t *testing.T, sources map[string]string, files ...string) *fixture {
	t.Helper()
	req := sourcetest.Request(t, sources, files...)
	reg, err := registry.New(req.GetProtoFile())
	require.NoError(t, err)
	return &fixture{
		req: req,
		reg: reg,
		idx: comments.NewIndex(req.GetProtoFile()),
	}
}

func typeRefs(types []TypeDoc) []registry.TypeRef {
	out := make([]registry.TypeRef, len(types))
	for i, td := range types {
		out[i] = td.Ref()
	}
	return out
}

func methodNames(methods []*MethodDoc) []string {
	out := make([]string, len(methods))
	for i, m := range methods {
		out[i] = m.Name
	}
	return out
}

func findField(t *testing.T, msg *MessageDoc, name string) *FieldDoc {
	t.Helper()
	for _, f := range msg.Fields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("field %s not found in %s", name, msg.FullName)
	return nil
}

func findService(t *testing.T, doc *FileDoc, name string) *ServiceDoc {
	t.Helper()
	for _, svc := range doc.Services {
		if svc.Name == name || svc.FullName == name {
			return svc
		}
	}
	t.Fatalf("service %s not found in %s", name, doc.Name)
	return nil
}

func findMethod(t *testing.T, svc *ServiceDoc, name string) *MethodDoc {
	t.Helper()
	for _, m := range append(append([]*MethodDoc{}, svc.Methods...), svc.DeprecatedMethods...) {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("method %s not found in %s", name, svc.FullName)
	return nil
}
