// Package main implements the main entry point of the EasyFlash cartridge builder
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/efbuilder/internal/cli"
	"github.com/retroenv/efbuilder/internal/config"
	"github.com/retroenv/efbuilder/internal/options"
	"github.com/retroenv/efbuilder/internal/pipeline"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	cmd := cli.NewRootCommand(buildinfo.Version(version, commit, date), func(cmd *cobra.Command, opts options.Program) error {
		logger := config.CreateLogger(opts.Flags)
		printBanner(logger, opts)

		if err := pipeline.New(logger).Execute(cmd.Context(), opts); err != nil {
			// Handle context cancellation (Ctrl+C) gracefully
			if errors.Is(err, context.Canceled) {
				logger.Info("Operation cancelled")
				return nil
			}
			logger.Error("Building cartridge failed", log.Err(err))
			return errReported
		}
		return nil
	})

	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n\n", err)
			_ = cmd.Usage()
		}
		os.Exit(1)
	}
}

// errReported signals that the error was already logged.
var errReported = errors.New("error reported")

func printBanner(logger *log.Logger, opts options.Program) {
	if opts.Quiet {
		return
	}
	logger.Info("efbuilder - EasyFlash cartridge builder",
		log.String("version", buildinfo.Version(version, commit, date)))
}
