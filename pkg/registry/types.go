package registry

import (
	"strings"

	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/comments"
	"google.golang.org/protobuf/types/descriptorpb"
)

// TypeRef is the fully-qualified name of a message or enum without the
// leading dot, e.g. "greeter.v1.HelloRequest" or "pkg.Outer.Inner".
type TypeRef string

// ParseTypeRef normalizes a descriptor type name (".pkg.Msg") to a TypeRef.
func ParseTypeRef(typeName string) TypeRef {
	return TypeRef(strings.TrimPrefix(typeName, "."))
}

// Join appends a simple name to a package or parent type.
func Join(scope string, name string) TypeRef {
	if scope == "" {
		return TypeRef(name)
	}
	return TypeRef(scope + "." + name)
}

// String implements fmt.Stringer
func (r TypeRef) String() string {
	return string(r)
}

// Name returns the last component of the reference.
func (r TypeRef) Name() string {
	s := string(r)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Kind distinguishes message declarations from enum declarations
type Kind int

const (
	KindMessage Kind = iota
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Decl is one registered message or enum declaration. Decls refer to each
// other only by TypeRef; the Registry owns every Decl.
type Decl struct {
	Ref     TypeRef
	Kind    Kind
	File    string
	Package string
	// Path locates the declaration inside File for comment lookup.
	Path comments.Path
	// Parent is the enclosing message for nested declarations, empty otherwise.
	Parent TypeRef

	Message *descriptorpb.DescriptorProto
	Enum    *descriptorpb.EnumDescriptorProto
}

// Name returns the simple name of the declaration.
func (d *Decl) Name() string {
	return d.Ref.Name()
}

// LocalName returns the name relative to the declaring package, keeping the
// chain of enclosing messages ("Outer.Inner").
func (d *Decl) LocalName() string {
	if d.Package == "" {
		return string(d.Ref)
	}
	return strings.TrimPrefix(string(d.Ref), d.Package+".")
}

// IsMapEntry reports whether the declaration is the synthetic entry message
// protoc generates for a map field.
func (d *Decl) IsMapEntry() bool {
	return d.Kind == KindMessage && d.Message.GetOptions().GetMapEntry()
}

// Deprecated reports the declaration's own deprecated option.
func (d *Decl) Deprecated() bool {
	if d.Kind == KindEnum {
		return d.Enum.GetOptions().GetDeprecated()
	}
	return d.Message.GetOptions().GetDeprecated()
}
