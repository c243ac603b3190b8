package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/config"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/docs"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/observability"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/plugin"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/protosource"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/platinummonkey/protoc-gen-rpcdoc/pkg/cli")

// RenderConfig holds configuration for the render command
type RenderConfig struct {
	ImportPaths []string
	OutDir      string
	Output      string
	AnchorStyle string
	ConfigPath  string
	Watch       bool

	// ServeAddr, with Watch, serves pages, health and metrics over HTTP
	ServeAddr string

	OTLPEndpoint string
	OTLPInsecure bool
}

func newRenderCommand(logLevel *string) *cobra.Command {
	var cfg RenderConfig

	cmd := &cobra.Command{
		Use:   "render [flags] FILE...",
		Short: "Render documentation for proto files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := *logLevel
			if level == "" {
				level = "info"
			}
			logger := observability.NewLogger(level, cmd.ErrOrStderr())

			opts, err := resolveOptions(cmd, &cfg)
			if err != nil {
				return err
			}
			if cfg.ServeAddr != "" && !cfg.Watch {
				return fmt.Errorf("--serve requires --watch")
			}

			ctx := cmd.Context()
			tp, err := observability.InitTracing(ctx, observability.TracingConfig{
				Endpoint:       cfg.OTLPEndpoint,
				Insecure:       cfg.OTLPInsecure,
				ServiceVersion: Version,
			}, logger)
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), observability.DefaultShutdownTimeout)
				defer cancel()
				observability.ShutdownTracing(shutdownCtx, tp, logger)
			}()

			if cfg.Watch {
				return runWatch(ctx, &cfg, opts, args, logger)
			}
			_, err = Render(ctx, &cfg, opts, args, logger)
			return err
		},
	}

	cmd.Flags().StringSliceVarP(&cfg.ImportPaths, "proto_path", "I", []string{"."}, "Directories searched for proto files and imports")
	cmd.Flags().StringVar(&cfg.OutDir, "out", ".", "Directory the documents are written to")
	cmd.Flags().StringVar(&cfg.Output, "output", "", "Render all files into one document with this name")
	cmd.Flags().StringVar(&cfg.AnchorStyle, "anchor-style", string(config.AnchorPlain), "Method heading style: plain or explicit")
	cmd.Flags().StringVar(&cfg.ConfigPath, "config", "", "Path to a YAML options file")
	cmd.Flags().BoolVar(&cfg.Watch, "watch", false, "Re-render when proto files change")
	cmd.Flags().StringVar(&cfg.ServeAddr, "serve", "", "With --watch, serve pages, health and metrics on this address")
	cmd.Flags().StringVar(&cfg.OTLPEndpoint, "otlp-endpoint", "", "Export traces to this OTLP gRPC endpoint")
	cmd.Flags().BoolVar(&cfg.OTLPInsecure, "otlp-insecure", false, "Disable TLS for the OTLP endpoint")

	return cmd
}

// resolveOptions loads the options file, if any, and applies flags that
// were set explicitly on top of it.
func resolveOptions(cmd *cobra.Command, cfg *RenderConfig) (*config.Options, error) {
	opts := config.DefaultOptions()
	if cfg.ConfigPath != "" {
		loaded, err := config.LoadFile(cfg.ConfigPath)
		if err != nil {
			return nil, err
		}
		opts = loaded
	}

	if cmd.Flags().Changed("output") {
		opts.Output = cfg.Output
	}
	if cmd.Flags().Changed("anchor-style") || cfg.ConfigPath == "" {
		opts.AnchorStyle = config.AnchorStyle(cfg.AnchorStyle)
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Render compiles files, renders them and writes the pages to cfg.OutDir.
// It returns the paths written.
func Render(ctx context.Context, cfg *RenderConfig, opts *config.Options, files []string, logger *logrus.Logger) ([]string, error) {
	result := render(ctx, cfg, opts, files, logger)
	return result.Paths, result.Err
}

// render runs one full compile, resolve and write cycle
func render(ctx context.Context, cfg *RenderConfig, opts *config.Options, files []string, logger *logrus.Logger) (result RenderResult) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	ctx, span := tracer.Start(ctx, "rpcdoc.render")
	span.SetAttributes(attribute.Int("rpcdoc.files", len(files)))
	defer func() {
		result.Duration = time.Since(start)
		if result.Err != nil {
			span.RecordError(result.Err)
			span.SetStatus(codes.Error, result.Err.Error())
		}
		span.SetAttributes(attribute.Int("rpcdoc.pages", len(result.Pages)))
		span.End()
	}()

	req, err := protosource.BuildRequest(ctx, protosource.Options{ImportPaths: cfg.ImportPaths}, files...)
	if err != nil {
		result.Err = err
		return result
	}

	pages, err := plugin.Pages(ctx, req, opts, logger)
	if err != nil {
		result.Err = err
		return result
	}

	result.Paths, result.Err = writePages(ctx, cfg.OutDir, pages, logger)
	if result.Err == nil {
		result.Pages = pages
	}
	return result
}

// writePages stages every page in a temporary directory inside dir and
// moves them into place only after all of them were written, so a failed
// write leaves dir without any page of this render.
func writePages(ctx context.Context, dir string, pages []docs.Page, logger *logrus.Logger) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	staging, err := os.MkdirTemp(dir, ".rpcdoc-")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	for _, page := range pages {
		path := filepath.Join(staging, filepath.FromSlash(page.Name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to stage %s: %w", page.Name, err)
		}
		if err := os.WriteFile(path, []byte(page.Content), 0o644); err != nil {
			return nil, fmt.Errorf("failed to stage %s: %w", page.Name, err)
		}
	}

	written := make([]string, 0, len(pages))
	for _, page := range pages {
		rel := filepath.FromSlash(page.Name)
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.Rename(filepath.Join(staging, rel), path); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		observability.WithTraceContext(ctx, logger.WithField("path", path)).Info("wrote documentation")
		written = append(written, path)
	}
	return written, nil
}
