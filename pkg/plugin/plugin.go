package plugin

import (
	"context"
	"fmt"
	"io"

	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/comments"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/config"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/docs"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/observability"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/registry"
	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/pluginpb"
)

// SupportedFeatures is advertised to protoc in every response
const SupportedFeatures = uint64(pluginpb.CodeGeneratorResponse_FEATURE_PROTO3_OPTIONAL)

// Run reads a CodeGeneratorRequest from in and writes the response to out.
// Failures of the generator itself are reported inside the response, as
// protoc expects; only transport failures are returned.
func Run(ctx context.Context, in io.Reader, out io.Writer, log *logrus.Logger) error {
	if log == nil {
		log = observability.Discard()
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}

	req := &pluginpb.CodeGeneratorRequest{}
	if err := proto.Unmarshal(data, req); err != nil {
		return fmt.Errorf("failed to decode request: %w", err)
	}

	resp := Generate(ctx, req, log)

	encoded, err := proto.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	if _, err := out.Write(encoded); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// Generate answers a request. On error the response carries the message and
// no files.
func Generate(ctx context.Context, req *pluginpb.CodeGeneratorRequest, log *logrus.Logger) *pluginpb.CodeGeneratorResponse {
	if log == nil {
		log = observability.Discard()
	}
	resp := &pluginpb.CodeGeneratorResponse{
		SupportedFeatures: proto.Uint64(SupportedFeatures),
	}

	pages, err := generate(ctx, req, log)
	if err != nil {
		entry := log.WithError(err)
		switch {
		case config.IsInvalidOption(err):
			entry = entry.WithFields(logrus.Fields{
				"reason":    "invalid_option",
				"parameter": req.GetParameter(),
			})
		case registry.IsUnknownType(err):
			// usually a dependency missing from proto_file
			entry = entry.WithFields(logrus.Fields{
				"reason":      "unknown_type",
				"proto_files": len(req.GetProtoFile()),
			})
		}
		entry.Error("generation failed")
		resp.Error = proto.String(err.Error())
		return resp
	}

	for _, page := range pages {
		resp.File = append(resp.File, &pluginpb.CodeGeneratorResponse_File{
			Name:    proto.String(page.Name),
			Content: proto.String(page.Content),
		})
	}
	return resp
}

func generate(ctx context.Context, req *pluginpb.CodeGeneratorRequest, log *logrus.Logger) (pages []docs.Page, err error) {
	defer observability.RecoverError(log, "generate", &err)

	opts, err := config.ParseParameter(req.GetParameter())
	if err != nil {
		return nil, err
	}
	return Pages(ctx, req, opts, log)
}

// Pages runs the documentation pipeline over a request with already
// validated options.
func Pages(ctx context.Context, req *pluginpb.CodeGeneratorRequest, opts *config.Options, log *logrus.Logger) ([]docs.Page, error) {
	if log == nil {
		log = observability.Discard()
	}

	reg, err := registry.New(req.GetProtoFile())
	if err != nil {
		return nil, err
	}
	idx := comments.NewIndex(req.GetProtoFile())

	log.WithFields(logrus.Fields{
		"files":    len(req.GetProtoFile()),
		"types":    reg.Len(),
		"comments": idx.Len(),
	}).Debug("indexed descriptor bundle")

	builder := docs.NewBuilder(reg, idx, docs.WithLogger(log))
	pages, err := docs.GeneratePages(ctx, builder, req.GetFileToGenerate(), opts)
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		log.WithFields(logrus.Fields{
			"page":  page.Name,
			"bytes": len(page.Content),
		}).Debug("rendered page")
	}
	return pages, nil
}
