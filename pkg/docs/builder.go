package docs

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/comments"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/observability"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/registry"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/resolve"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/types/descriptorpb"
)

var tracer = otel.Tracer("github.com/platinummonkey/protoc-gen-rpcdoc/pkg/docs")

// Builder assembles the documentation model from a Registry and a comment
// Index. Both are only read, so one Builder may serve concurrent calls.
type Builder struct {
	reg       *registry.Registry
	idx       *comments.Index
	collector *resolve.Collector
	workers   int
	log       *logrus.Logger
}

// BuilderOption configures a Builder
type BuilderOption func(*Builder)

// WithWorkers bounds how many methods are resolved concurrently
func WithWorkers(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithLogger sets the logger used for debug output
func WithLogger(log *logrus.Logger) BuilderOption {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// WithCollector replaces the default memoizing collector
func WithCollector(c *resolve.Collector) BuilderOption {
	return func(b *Builder) {
		b.collector = c
	}
}

// NewBuilder creates a documentation builder
func NewBuilder(reg *registry.Registry, idx *comments.Index, opts ...BuilderOption) *Builder {
	b := &Builder{
		reg:     reg,
		idx:     idx,
		workers: runtime.GOMAXPROCS(0),
		log:     observability.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.collector == nil {
		b.collector = resolve.NewCollector(reg, resolve.DefaultCacheSize)
	}
	return b
}

// Build resolves every named file. It stops at the first error.
func (b *Builder) Build(ctx context.Context, files []string) (*Documentation, error) {
	doc := &Documentation{
		Files: make([]*FileDoc, 0, len(files)),
	}

	for _, name := range files {
		fileDoc, err := b.BuildFile(ctx, name)
		if err != nil {
			return nil, err
		}
		doc.Files = append(doc.Files, fileDoc)
	}

	return doc, nil
}

// BuildFile resolves the services declared in one file
func (b *Builder) BuildFile(ctx context.Context, name string) (_ *FileDoc, err error) {
	ctx, span := tracer.Start(ctx, "docs.BuildFile")
	span.SetAttributes(attribute.String("rpcdoc.file", name))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	file, err := b.reg.File(name)
	if err != nil {
		return nil, err
	}

	doc := &FileDoc{
		Name:     file.GetName(),
		Package:  file.GetPackage(),
		Services: make([]*ServiceDoc, len(file.GetService())),
	}
	methods := make([][]*MethodDoc, len(file.GetService()))

	// Methods resolve concurrently into fixed slots so the result does not
	// depend on scheduling.
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(b.workers)

	for i, svc := range file.GetService() {
		path := comments.Path{comments.FileServiceTag, int32(i)}
		doc.Services[i] = b.serviceDoc(file, svc, path)
		methods[i] = make([]*MethodDoc, len(svc.GetMethod()))

		for j, method := range svc.GetMethod() {
			i, j, method := i, j, method
			svcDoc := doc.Services[i]
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				md, err := b.methodDoc(file, svcDoc, method, path.Child(comments.ServiceMethodTag, j))
				if err != nil {
					return err
				}
				methods[i][j] = md
				return nil
			})
		}
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("rpcdoc.services", len(doc.Services)))

	for i, svcDoc := range doc.Services {
		partitionMethods(svcDoc, methods[i])
	}

	b.log.WithFields(logrus.Fields{
		"file":     doc.Name,
		"services": len(doc.Services),
	}).Debug("built file documentation")

	return doc, nil
}

// partitionMethods splits methods into active and deprecated lists, keeping
// declaration order in each. Service deprecation is not inherited.
func partitionMethods(svc *ServiceDoc, methods []*MethodDoc) {
	svc.Methods = make([]*MethodDoc, 0, len(methods))
	svc.DeprecatedMethods = make([]*MethodDoc, 0)
	for _, m := range methods {
		if m.Deprecated {
			svc.DeprecatedMethods = append(svc.DeprecatedMethods, m)
		} else {
			svc.Methods = append(svc.Methods, m)
		}
	}
}

func (b *Builder) serviceDoc(file *descriptorpb.FileDescriptorProto, svc *descriptorpb.ServiceDescriptorProto, path comments.Path) *ServiceDoc {
	return &ServiceDoc{
		Name:        svc.GetName(),
		Package:     file.GetPackage(),
		FullName:    string(registry.Join(file.GetPackage(), svc.GetName())),
		Description: b.idx.Lookup(file.GetName(), path).Leading,
		Deprecated:  svc.GetOptions().GetDeprecated(),
	}
}

func (b *Builder) methodDoc(file *descriptorpb.FileDescriptorProto, svc *ServiceDoc, method *descriptorpb.MethodDescriptorProto, path comments.Path) (*MethodDoc, error) {
	doc := &MethodDoc{
		Name:         method.GetName(),
		FullName:     svc.FullName + "." + method.GetName(),
		Description:  b.idx.Lookup(file.GetName(), path).Leading,
		Deprecated:   method.GetOptions().GetDeprecated(),
		CallType:     NewCallType(method.GetClientStreaming(), method.GetServerStreaming()),
		RequestType:  registry.ParseTypeRef(method.GetInputType()),
		ResponseType: registry.ParseTypeRef(method.GetOutputType()),
	}

	var err error
	if doc.Input, err = b.resolveTypes(doc.RequestType); err != nil {
		return nil, fmt.Errorf("resolve input of %s: %w", doc.FullName, err)
	}
	if doc.Output, err = b.resolveTypes(doc.ResponseType); err != nil {
		return nil, fmt.Errorf("resolve output of %s: %w", doc.FullName, err)
	}
	return doc, nil
}

func (b *Builder) resolveTypes(root registry.TypeRef) ([]TypeDoc, error) {
	set, err := b.collector.Collect(root)
	if err != nil {
		return nil, err
	}
	if b.log.IsLevelEnabled(logrus.DebugLevel) {
		b.log.WithFields(logrus.Fields{
			"root":  root,
			"types": set.Refs(),
		}).Debug("resolved type set")
	}

	out := make([]TypeDoc, 0, len(set))
	for _, decl := range set {
		td, err := b.typeDoc(decl)
		if err != nil {
			return nil, err
		}
		out = append(out, td)
	}
	return out, nil
}

func (b *Builder) typeDoc(decl *registry.Decl) (TypeDoc, error) {
	c := b.idx.Lookup(decl.File, decl.Path)
	if decl.Kind == registry.KindEnum {
		return b.enumDoc(decl, c), nil
	}
	return b.messageDoc(decl, c)
}

func (b *Builder) enumDoc(decl *registry.Decl, c comments.Comment) *EnumDoc {
	doc := &EnumDoc{
		Name:        decl.Name(),
		FullName:    decl.Ref,
		LocalName:   decl.LocalName(),
		Parent:      decl.Parent,
		Description: c.Leading,
		Trailing:    c.Trailing,
		Deprecated:  decl.Deprecated(),
		Values:      make([]*EnumValueDoc, 0, len(decl.Enum.GetValue())),
	}

	for i, value := range decl.Enum.GetValue() {
		vc := b.idx.Lookup(decl.File, decl.Path.Child(comments.EnumValueTag, i))
		doc.Values = append(doc.Values, &EnumValueDoc{
			Name:       value.GetName(),
			Number:     value.GetNumber(),
			Deprecated: value.GetOptions().GetDeprecated(),
			Leading:    vc.Leading,
			Trailing:   vc.Trailing,
		})
	}
	return doc
}

func (b *Builder) messageDoc(decl *registry.Decl, c comments.Comment) (*MessageDoc, error) {
	doc := &MessageDoc{
		Name:        decl.Name(),
		FullName:    decl.Ref,
		LocalName:   decl.LocalName(),
		Parent:      decl.Parent,
		Description: c.Leading,
		Trailing:    c.Trailing,
		Deprecated:  decl.Deprecated(),
		Fields:      make([]*FieldDoc, 0, len(decl.Message.GetField())),
	}

	var file *descriptorpb.FileDescriptorProto
	if f, err := b.reg.File(decl.File); err == nil {
		file = f
	}

	for i, field := range decl.Message.GetField() {
		fd, err := b.fieldDoc(decl, b.presence(file, decl, field), i, field)
		if err != nil {
			return nil, err
		}
		doc.Fields = append(doc.Fields, fd)
	}
	return doc, nil
}

func (b *Builder) fieldDoc(decl *registry.Decl, presence descriptorpb.FeatureSet_FieldPresence, i int, field *descriptorpb.FieldDescriptorProto) (*FieldDoc, error) {
	c := b.idx.Lookup(decl.File, decl.Path.Child(comments.MessageFieldTag, i))
	doc := &FieldDoc{
		Name:       field.GetName(),
		Number:     field.GetNumber(),
		Deprecated: field.GetOptions().GetDeprecated(),
		Leading:    c.Leading,
		Trailing:   c.Trailing,
	}

	if field.GetTypeName() == "" {
		doc.Type = scalarName(field.GetType())
	} else {
		ref := registry.ParseTypeRef(field.GetTypeName())
		target, err := b.reg.Lookup(ref)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", decl.Ref, field.GetName(), err)
		}

		if target.IsMapEntry() && field.GetLabel() == descriptorpb.FieldDescriptorProto_LABEL_REPEATED {
			setMapField(doc, target, decl.Package)
			return doc, nil
		}

		doc.TypeRef = ref
		doc.Type = relativeName(ref, decl.Package)
	}

	// proto3 optional fields live in a synthetic oneof that is not part of
	// the schema as written.
	if field.OneofIndex != nil && !field.GetProto3Optional() {
		if idx := int(field.GetOneofIndex()); idx < len(decl.Message.GetOneofDecl()) {
			doc.OneofName = decl.Message.GetOneofDecl()[idx].GetName()
		}
	}

	switch {
	case field.GetLabel() == descriptorpb.FieldDescriptorProto_LABEL_REPEATED:
		doc.Repeated = true
		doc.Label = "repeated"
	case field.GetLabel() == descriptorpb.FieldDescriptorProto_LABEL_REQUIRED,
		presence == descriptorpb.FeatureSet_LEGACY_REQUIRED:
		doc.Required = true
		doc.Label = "required"
	case field.GetProto3Optional(),
		presence == descriptorpb.FeatureSet_EXPLICIT && doc.OneofName == "":
		doc.Optional = true
		doc.Label = "optional"
	}

	return doc, nil
}

func setMapField(doc *FieldDoc, entry *registry.Decl, pkg string) {
	var key, value *descriptorpb.FieldDescriptorProto
	for _, f := range entry.Message.GetField() {
		switch f.GetNumber() {
		case 1:
			key = f
		case 2:
			value = f
		}
	}

	doc.Map = true
	doc.MapKey = fieldTypeName(key, pkg)
	doc.MapValue = fieldTypeName(value, pkg)
	doc.Type = fmt.Sprintf("map<%s, %s>", doc.MapKey, doc.MapValue)
	if value.GetTypeName() != "" {
		doc.TypeRef = registry.ParseTypeRef(value.GetTypeName())
	}
}

func fieldTypeName(field *descriptorpb.FieldDescriptorProto, pkg string) string {
	if field.GetTypeName() != "" {
		return relativeName(registry.ParseTypeRef(field.GetTypeName()), pkg)
	}
	return scalarName(field.GetType())
}

// relativeName drops pkg from ref when ref lives in pkg
func relativeName(ref registry.TypeRef, pkg string) string {
	if pkg != "" && strings.HasPrefix(string(ref), pkg+".") {
		return strings.TrimPrefix(string(ref), pkg+".")
	}
	return string(ref)
}

// scalarName returns the proto source spelling of a scalar type
func scalarName(t descriptorpb.FieldDescriptorProto_Type) string {
	return strings.ToLower(strings.TrimPrefix(t.String(), "TYPE_"))
}

// presence reports how a singular field tracks presence. proto3 is IMPLICIT
// here since its optional fields are flagged separately; proto2 is EXPLICIT.
// Editions files resolve the field_presence feature from the field outwards
// through enclosing messages to the file, defaulting to EXPLICIT.
func (b *Builder) presence(file *descriptorpb.FileDescriptorProto, decl *registry.Decl, field *descriptorpb.FieldDescriptorProto) descriptorpb.FeatureSet_FieldPresence {
	switch file.GetSyntax() {
	case "", "proto2":
		return descriptorpb.FeatureSet_EXPLICIT
	case "editions":
	default:
		return descriptorpb.FeatureSet_IMPLICIT
	}

	if p := field.GetOptions().GetFeatures().GetFieldPresence(); p != descriptorpb.FeatureSet_FIELD_PRESENCE_UNKNOWN {
		return p
	}
	for d := decl; d != nil; {
		if p := d.Message.GetOptions().GetFeatures().GetFieldPresence(); p != descriptorpb.FeatureSet_FIELD_PRESENCE_UNKNOWN {
			return p
		}
		if d.Parent == "" {
			break
		}
		parent, err := b.reg.Lookup(d.Parent)
		if err != nil {
			break
		}
		d = parent
	}
	if p := file.GetOptions().GetFeatures().GetFieldPresence(); p != descriptorpb.FeatureSet_FIELD_PRESENCE_UNKNOWN {
		return p
	}
	return descriptorpb.FeatureSet_EXPLICIT
}
