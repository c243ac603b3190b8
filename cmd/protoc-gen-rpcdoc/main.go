package main

import (
	"context"
	"fmt"
	"os"

	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/observability"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/plugin"
)

func main() {
	logger := observability.LoggerFromEnv(os.Stderr)

	if len(os.Args) > 1 {
		fmt.Fprintf(os.Stderr, "%s is a protoc plugin; run it through protoc --rpcdoc_out\n", os.Args[0])
		os.Exit(1)
	}

	if err := plugin.Run(context.Background(), os.Stdin, os.Stdout, logger); err != nil {
		logger.Errorf("protoc-gen-rpcdoc: %v", err)
		os.Exit(1)
	}
}
