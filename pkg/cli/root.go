package cli

import (
	"os"

	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/observability"
	"github.com/spf13/cobra"
)

// Version is reported by --version and the health endpoints
var Version = "dev"

// NewRootCommand creates the rpcdoc root command
func NewRootCommand() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "rpcdoc",
		Short:         "Render Markdown documentation for gRPC services",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", os.Getenv(observability.LogLevelEnv), "Log level (debug, info, warn, error)")

	root.AddCommand(newRenderCommand(&logLevel))
	return root
}

// Execute creates and runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}
