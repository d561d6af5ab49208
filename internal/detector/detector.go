// Package detector handles detection of the program mode from the input file.
package detector

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/efbuilder/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Detector handles program mode detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new mode detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the program mode from options or the input file.
// An explicitly requested listing takes precedence, otherwise the mode is
// detected from the input filename extension.
func (d *Detector) Detect(opts options.Program) options.Mode {
	if opts.List {
		return options.ModeList
	}

	mode := d.detectFromFile(opts.Input)
	d.logger.Debug("Auto-detected mode",
		log.String("mode", string(mode)),
		log.String("file", opts.Input))
	return mode
}

// detectFromFile determines the program mode based on file extension.
func (d *Detector) detectFromFile(filename string) options.Mode {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".crt":
		return options.ModeList
	default:
		// manifests are usually .xml files but any other extension is accepted
		return options.ModeBuild
	}
}
