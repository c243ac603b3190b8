package comments

import (
	"strconv"
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"
)

// Field numbers of FileDescriptorProto and DescriptorProto used to build
// structural paths. Values come from descriptor.proto.
const (
	FileMessageTag = 4 // FileDescriptorProto.message_type
	FileEnumTag    = 5 // FileDescriptorProto.enum_type
	FileServiceTag = 6 // FileDescriptorProto.service

	MessageFieldTag      = 2 // DescriptorProto.field
	MessageNestedTag     = 3 // DescriptorProto.nested_type
	MessageNestedEnumTag = 4 // DescriptorProto.enum_type

	EnumValueTag     = 2 // EnumDescriptorProto.value
	ServiceMethodTag = 2 // ServiceDescriptorProto.method
)

// Path is the structural address of a declaration inside a file descriptor:
// alternating field numbers and repeated-field indexes.
type Path []int32

// Child returns a new path extended by tag and index. The receiver is never
// modified, so sibling paths never share a backing array.
func (p Path) Child(tag, index int) Path {
	out := make(Path, len(p), len(p)+2)
	copy(out, p)
	return append(out, int32(tag), int32(index))
}

// Key renders the path in its comma separated lookup form, e.g. "4,0,2,1".
func (p Path) Key() string {
	var b strings.Builder
	for i, n := range p {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(int64(n), 10))
	}
	return b.String()
}

// Comment holds the source comments attached to one declaration.
type Comment struct {
	Leading  string
	Trailing string
}

// IsEmpty reports whether the declaration carried no comment at all.
func (c Comment) IsEmpty() bool {
	return c.Leading == "" && c.Trailing == ""
}

// Index maps (file, structural path) to the comments protoc recorded in
// source_code_info. It is immutable once built and safe for concurrent reads.
type Index struct {
	files map[string]map[string]Comment
}

// NewIndex builds an index over every file in the bundle. Files compiled
// without source info contribute no entries.
func NewIndex(files []*descriptorpb.FileDescriptorProto) *Index {
	idx := &Index{files: make(map[string]map[string]Comment, len(files))}

	for _, file := range files {
		locations := file.GetSourceCodeInfo().GetLocation()
		if len(locations) == 0 {
			continue
		}

		byPath := make(map[string]Comment, len(locations))
		for _, loc := range locations {
			c := Comment{
				Leading:  loc.GetLeadingComments(),
				Trailing: loc.GetTrailingComments(),
			}
			if c.IsEmpty() {
				continue
			}
			key := Path(loc.GetPath()).Key()
			// protoc may emit several locations for one path (e.g. a span per
			// option); the first one carrying comments wins.
			if _, exists := byPath[key]; exists {
				continue
			}
			byPath[key] = c
		}
		idx.files[file.GetName()] = byPath
	}

	return idx
}

// Lookup returns the comments for path in file. Unknown files and paths
// yield the zero Comment.
func (idx *Index) Lookup(file string, path Path) Comment {
	if idx == nil {
		return Comment{}
	}
	return idx.files[file][path.Key()]
}

// Len returns the number of commented declarations across all files.
func (idx *Index) Len() int {
	n := 0
	for _, byPath := range idx.files {
		n += len(byPath)
	}
	return n
}
