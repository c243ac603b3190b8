package docs

import (
	"fmt"
	"strings"

	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/config"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/registry"
)

// MarkdownRenderer renders the documentation model to Markdown
type MarkdownRenderer struct {
	anchors config.AnchorStyle
}

// NewMarkdownRenderer creates a renderer using the given heading style
func NewMarkdownRenderer(anchors config.AnchorStyle) *MarkdownRenderer {
	if anchors == "" {
		anchors = config.AnchorPlain
	}
	return &MarkdownRenderer{anchors: anchors}
}

// Render renders every service of a file
func (r *MarkdownRenderer) Render(doc *FileDoc) string {
	var b strings.Builder
	for _, svc := range doc.Services {
		r.writeService(&b, svc)
	}
	return b.String()
}

func (r *MarkdownRenderer) writeService(b *strings.Builder, svc *ServiceDoc) {
	b.WriteString(fmt.Sprintf("# %s\n\n", svc.FullName))

	if svc.Deprecated {
		b.WriteString("**⚠️ Deprecated**\n\n")
	}

	if desc := formatDescription(svc.Description); desc != "" {
		b.WriteString(fmt.Sprintf("%s\n\n", desc))
	}

	if len(svc.Methods) > 0 {
		b.WriteString("## Methods\n\n")
		for _, method := range svc.Methods {
			r.writeMethod(b, svc, method)
		}
	}

	if len(svc.DeprecatedMethods) > 0 {
		b.WriteString("## Deprecated Methods\n\n")
		for _, method := range svc.DeprecatedMethods {
			r.writeMethod(b, svc, method)
		}
	}
}

func (r *MarkdownRenderer) writeMethod(b *strings.Builder, svc *ServiceDoc, method *MethodDoc) {
	if r.anchors == config.AnchorExplicit {
		b.WriteString(fmt.Sprintf("### %s {#%s}\n\n", method.Name, Anchor(svc.Package, svc.Name, method.Name)))
	} else {
		b.WriteString(fmt.Sprintf("### %s\n\n", method.Name))
	}

	b.WriteString(fmt.Sprintf("`%s`\n\n", method.CallType))

	if desc := formatDescription(method.Description); desc != "" {
		b.WriteString(fmt.Sprintf("%s\n\n", desc))
	}

	b.WriteString("#### Request\n\n")
	writeTypeBlock(b, method.Input, svc.Package)
	b.WriteString("#### Response\n\n")
	writeTypeBlock(b, method.Output, svc.Package)
}

// writeTypeBlock prints a resolved type set as proto source. A nested type
// that directly follows its container (or a sibling) is printed inside the
// container's braces; anything else is printed at top level under its name
// relative to pkg, the package of the page, matching how field types are
// spelled.
func writeTypeBlock(b *strings.Builder, types []TypeDoc, pkg string) {
	b.WriteString("```protobuf\n")

	var open []registry.TypeRef
	closeTo := func(depth int) {
		for len(open) > depth {
			open = open[:len(open)-1]
			b.WriteString(indent(len(open)) + "}\n")
		}
	}

	for i, td := range types {
		depth := len(open)
		for depth > 0 && open[depth-1] != td.ParentRef() {
			depth--
		}
		closeTo(depth)

		nested := depth > 0
		if !nested && i > 0 {
			b.WriteString("\n")
		}

		switch t := td.(type) {
		case *MessageDoc:
			name := relativeName(t.FullName, pkg)
			if nested {
				name = t.Name
			}
			writeMessageHeader(b, t, name, depth)
			open = append(open, t.FullName)
		case *EnumDoc:
			name := relativeName(t.FullName, pkg)
			if nested {
				name = t.Name
			}
			writeEnum(b, t, name, depth)
		}
	}
	closeTo(0)

	b.WriteString("```\n\n")
}

func writeMessageHeader(b *strings.Builder, msg *MessageDoc, name string, depth int) {
	pad := indent(depth)
	writeComment(b, msg.Description, pad)
	b.WriteString(fmt.Sprintf("%smessage %s {", pad, name))
	writeTrailing(b, msg.Trailing, pad)

	if msg.Deprecated {
		b.WriteString(pad + "  option deprecated = true;\n")
	}

	for _, field := range msg.Fields {
		writeField(b, field, indent(depth+1))
	}
}

func writeField(b *strings.Builder, field *FieldDoc, pad string) {
	writeComment(b, field.Leading, pad)

	var decl strings.Builder
	decl.WriteString(pad)
	if field.Label != "" {
		decl.WriteString(field.Label + " ")
	}
	decl.WriteString(fmt.Sprintf("%s %s = %d", field.Type, field.Name, field.Number))
	if field.Deprecated {
		decl.WriteString(" [deprecated = true]")
	}
	decl.WriteString(";")
	if field.OneofName != "" {
		decl.WriteString(fmt.Sprintf(" // oneof %s", field.OneofName))
	}

	b.WriteString(decl.String())
	writeTrailing(b, field.Trailing, pad)
}

func writeEnum(b *strings.Builder, enum *EnumDoc, name string, depth int) {
	pad := indent(depth)
	writeComment(b, enum.Description, pad)
	b.WriteString(fmt.Sprintf("%senum %s {", pad, name))
	writeTrailing(b, enum.Trailing, pad)

	if enum.Deprecated {
		b.WriteString(pad + "  option deprecated = true;\n")
	}

	inner := indent(depth + 1)
	for _, value := range enum.Values {
		writeComment(b, value.Leading, inner)
		line := fmt.Sprintf("%s%s = %d", inner, value.Name, value.Number)
		if value.Deprecated {
			line += " [deprecated = true]"
		}
		b.WriteString(line + ";")
		writeTrailing(b, value.Trailing, inner)
	}

	b.WriteString(pad + "}\n")
}

// writeComment prints a leading comment, one "//" line per source line
func writeComment(b *strings.Builder, text, pad string) {
	if text == "" {
		return
	}
	b.WriteString(CommentLines(text, pad))
	b.WriteString("\n")
}

// writeTrailing finishes the current line. A single line trailing comment
// stays on it; longer ones follow on their own lines.
func writeTrailing(b *strings.Builder, text, pad string) {
	text = strings.TrimSuffix(text, "\n")
	switch {
	case text == "":
		b.WriteString("\n")
	case !strings.Contains(text, "\n"):
		b.WriteString(" //" + text + "\n")
	default:
		b.WriteString("\n" + CommentLines(text, pad) + "\n")
	}
}

// CommentLines prefixes every line of text with pad and "//". A single
// trailing newline, as protoc records it, does not produce an empty line.
func CommentLines(text, pad string) string {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = pad + "//" + line
	}
	return strings.Join(lines, "\n")
}

// formatDescription turns a raw leading comment into Markdown prose: the
// single space protoc keeps after "//" is dropped from each line, line and
// paragraph breaks are kept.
func formatDescription(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(strings.TrimPrefix(line, " "), " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Anchor builds the explicit heading anchor for a method: the lower-cased
// package, service and method joined by "-", with every run of other
// characters folded to a single "-".
func Anchor(pkg, service, method string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.Join([]string{pkg, service, method}, "-")) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}
