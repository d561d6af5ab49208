// Package cli handles command line interface logic
package cli

import (
	"errors"

	"github.com/retroenv/efbuilder/internal/options"
	"github.com/spf13/cobra"
)

// RunFunc is called with the parsed program options.
type RunFunc func(cmd *cobra.Command, opts options.Program) error

// NewRootCommand returns the root command of the program.
func NewRootCommand(version string, run RunFunc) *cobra.Command {
	var opts options.Program

	cmd := &cobra.Command{
		Use:   "efbuilder [options] <manifest.xml | image.crt>",
		Short: "EasyFlash cartridge builder",
		Long: `Builds an EasyFlash .crt cartridge image from an XML manifest that lists
the boot bank, extra ROM banks and the files of the embedded filesystem.
Passing a .crt file lists the banks and files of an existing image.`,
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			if err := validateOptionCombinations(opts); err != nil {
				return err
			}
			return run(cmd, opts)
		},
	}

	readOptionFlags(cmd, &opts)
	return cmd
}

// validateOptionCombinations checks for conflicting options.
func validateOptionCombinations(opts options.Program) error {
	if !opts.List {
		return nil
	}
	if opts.Verify {
		return errors.New("the --verify option can not be used when listing a cartridge")
	}
	if opts.Output != "" {
		return errors.New("the --output option can not be used when listing a cartridge")
	}
	return nil
}

func readOptionFlags(cmd *cobra.Command, opts *options.Program) {
	flags := cmd.Flags()
	flags.StringVarP(&opts.Output, "output", "o", "", "name of the output .crt file, overrides the outputfile of the manifest")
	flags.BoolVar(&opts.Relative, "relative", false, "resolve files referenced by the manifest relative to the manifest")
	flags.BoolVar(&opts.Verify, "verify", false, "verify the written cartridge by reading it back and comparing it")
	flags.BoolVarP(&opts.List, "list", "l", false, "list the banks and files of a cartridge image")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", false, "perform operations quietly")
}
