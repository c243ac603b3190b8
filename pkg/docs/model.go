package docs

import "github.com/platinummonkey/protoc-gen-rpcdoc/pkg/registry"

// Documentation is the resolved model for a set of files, in
// file_to_generate order
type Documentation struct {
	Files []*FileDoc
}

// FileDoc represents the services declared in one proto file
type FileDoc struct {
	Name     string
	Package  string
	Services []*ServiceDoc
}

// ServiceDoc represents documentation for a service. Methods holds the
// active methods and DeprecatedMethods the deprecated ones, both in
// declaration order.
type ServiceDoc struct {
	Name              string
	Package           string
	FullName          string
	Description       string
	Deprecated        bool
	Methods           []*MethodDoc
	DeprecatedMethods []*MethodDoc
}

// CallType classifies a method by its streaming direction
type CallType int

const (
	Unary CallType = iota
	ServerStreaming
	ClientStreaming
	BidiStreaming
)

// NewCallType classifies a method from its streaming flags
func NewCallType(clientStreaming, serverStreaming bool) CallType {
	switch {
	case clientStreaming && serverStreaming:
		return BidiStreaming
	case serverStreaming:
		return ServerStreaming
	case clientStreaming:
		return ClientStreaming
	default:
		return Unary
	}
}

func (c CallType) String() string {
	switch c {
	case ServerStreaming:
		return "server streaming"
	case ClientStreaming:
		return "client streaming"
	case BidiStreaming:
		return "bidi streaming"
	default:
		return "unary"
	}
}

// MethodDoc represents documentation for a service method. Input and Output
// are resolved independently, so a type used on both sides appears in both.
type MethodDoc struct {
	Name         string
	FullName     string
	Description  string
	Deprecated   bool
	CallType     CallType
	RequestType  registry.TypeRef
	ResponseType registry.TypeRef
	Input        []TypeDoc
	Output       []TypeDoc
}

// TypeDoc is a resolved message or enum: *MessageDoc or *EnumDoc
type TypeDoc interface {
	Ref() registry.TypeRef
	// ParentRef is the enclosing message, empty for top-level declarations
	ParentRef() registry.TypeRef
}

// MessageDoc represents documentation for a message
type MessageDoc struct {
	Name        string
	FullName    registry.TypeRef
	LocalName   string
	Parent      registry.TypeRef
	Description string
	Trailing    string
	Deprecated  bool
	Fields      []*FieldDoc
}

func (m *MessageDoc) Ref() registry.TypeRef       { return m.FullName }
func (m *MessageDoc) ParentRef() registry.TypeRef { return m.Parent }

// FieldDoc represents documentation for a field. TypeRef is empty for
// scalar fields; Type is the name as written in proto source.
type FieldDoc struct {
	Name       string
	Number     int32
	Type       string
	TypeRef    registry.TypeRef
	Label      string
	Optional   bool
	Repeated   bool
	Required   bool
	Map        bool
	MapKey     string
	MapValue   string
	OneofName  string
	Deprecated bool
	Leading    string
	Trailing   string
}

// EnumDoc represents documentation for an enum
type EnumDoc struct {
	Name        string
	FullName    registry.TypeRef
	LocalName   string
	Parent      registry.TypeRef
	Description string
	Trailing    string
	Deprecated  bool
	Values      []*EnumValueDoc
}

func (e *EnumDoc) Ref() registry.TypeRef       { return e.FullName }
func (e *EnumDoc) ParentRef() registry.TypeRef { return e.Parent }

// EnumValueDoc represents documentation for an enum value
type EnumValueDoc struct {
	Name       string
	Number     int32
	Deprecated bool
	Leading    string
	Trailing   string
}
