// Package options contains the program options.
package options

// Mode selects what the program does with its input file.
type Mode string

// Program modes.
const (
	ModeBuild Mode = "build" // build a cartridge from a manifest
	ModeList  Mode = "list"  // list the content of a cartridge image
)

// Parameters contains file path options.
type Parameters struct {
	Input  string // manifest or cartridge image
	Output string // overrides the output file of the manifest
}

// Flags contains behavior options.
type Flags struct {
	Debug    bool
	List     bool
	Quiet    bool
	Relative bool // resolve manifest file references relative to the manifest
	Verify   bool
}

// Program options of the builder.
type Program struct {
	Parameters
	Flags
}
