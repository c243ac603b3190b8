package registry

import (
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/comments"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Registry maps fully-qualified names to declarations for every file in a
// descriptor bundle. It is built once and only read afterwards.
type Registry struct {
	decls map[TypeRef]*Decl
	files map[string]*descriptorpb.FileDescriptorProto
	// order keeps file names in bundle order
	order []string
}

// New scans files and registers every message and enum, nested ones
// included. It fails on the first name registered twice.
func New(files []*descriptorpb.FileDescriptorProto) (*Registry, error) {
	r := &Registry{
		decls: make(map[TypeRef]*Decl),
		files: make(map[string]*descriptorpb.FileDescriptorProto, len(files)),
	}

	for _, file := range files {
		if _, seen := r.files[file.GetName()]; !seen {
			r.order = append(r.order, file.GetName())
		}
		r.files[file.GetName()] = file

		for i, msg := range file.GetMessageType() {
			path := comments.Path{comments.FileMessageTag, int32(i)}
			if err := r.addMessage(file, file.GetPackage(), "", msg, path); err != nil {
				return nil, err
			}
		}
		for i, enum := range file.GetEnumType() {
			path := comments.Path{comments.FileEnumTag, int32(i)}
			if err := r.addEnum(file, file.GetPackage(), "", enum, path); err != nil {
				return nil, err
			}
		}
	}

	return r, nil
}

func (r *Registry) addMessage(file *descriptorpb.FileDescriptorProto, scope string, parent TypeRef, msg *descriptorpb.DescriptorProto, path comments.Path) error {
	decl := &Decl{
		Ref:     Join(scope, msg.GetName()),
		Kind:    KindMessage,
		File:    file.GetName(),
		Package: file.GetPackage(),
		Path:    path,
		Parent:  parent,
		Message: msg,
	}
	if err := r.add(decl); err != nil {
		return err
	}

	for i, nested := range msg.GetNestedType() {
		if err := r.addMessage(file, string(decl.Ref), decl.Ref, nested, path.Child(comments.MessageNestedTag, i)); err != nil {
			return err
		}
	}
	for i, enum := range msg.GetEnumType() {
		if err := r.addEnum(file, string(decl.Ref), decl.Ref, enum, path.Child(comments.MessageNestedEnumTag, i)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) addEnum(file *descriptorpb.FileDescriptorProto, scope string, parent TypeRef, enum *descriptorpb.EnumDescriptorProto, path comments.Path) error {
	return r.add(&Decl{
		Ref:     Join(scope, enum.GetName()),
		Kind:    KindEnum,
		File:    file.GetName(),
		Package: file.GetPackage(),
		Path:    path,
		Parent:  parent,
		Enum:    enum,
	})
}

func (r *Registry) add(decl *Decl) error {
	if existing, ok := r.decls[decl.Ref]; ok {
		return &DuplicateTypeError{Ref: decl.Ref, First: existing.File, Second: decl.File}
	}
	r.decls[decl.Ref] = decl
	return nil
}

// Lookup returns the declaration registered under ref.
func (r *Registry) Lookup(ref TypeRef) (*Decl, error) {
	decl, ok := r.decls[ref]
	if !ok {
		return nil, &UnknownTypeError{Ref: ref}
	}
	return decl, nil
}

// File returns the file descriptor registered under name.
func (r *Registry) File(name string) (*descriptorpb.FileDescriptorProto, error) {
	file, ok := r.files[name]
	if !ok {
		return nil, &UnknownFileError{Name: name}
	}
	return file, nil
}

// Files returns the names of all scanned files in bundle order.
func (r *Registry) Files() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered declarations.
func (r *Registry) Len() int {
	return len(r.decls)
}
