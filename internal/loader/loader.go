// Package loader handles loading of the files that a cartridge is built from.
package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/retroenv/efbuilder/internal/bank"
	"github.com/retroenv/efbuilder/internal/builder"
	"github.com/retroenv/efbuilder/internal/crt"
	"github.com/retroenv/efbuilder/internal/easyfs"
	"github.com/retroenv/efbuilder/internal/manifest"
)

// Loader handles loading files from disk.
type Loader struct {
	baseDir string
}

// New creates a new loader. Relative file references are resolved against
// the base directory, or the working directory if it is empty.
func New(baseDir string) *Loader {
	return &Loader{
		baseDir: baseDir,
	}
}

// Load reads all files referenced by the manifest and returns them as
// builder input.
func (l *Loader) Load(m *manifest.Manifest) (builder.Input, error) {
	input := builder.Input{
		Name: m.Name,
	}

	var err error
	input.Boot, err = l.read(m.Boot.Filename)
	if err != nil {
		return builder.Input{}, fmt.Errorf("loading boot image: %w", err)
	}

	for _, f := range m.Files {
		data, err := l.read(f.Filename)
		if err != nil {
			return builder.Input{}, fmt.Errorf("loading file '%s': %w", f.Name, err)
		}
		start, err := f.StartAddress()
		if err != nil {
			return builder.Input{}, err
		}
		typ, err := f.Type()
		if err != nil {
			return builder.Input{}, err
		}

		input.Files = append(input.Files, easyfs.FileRecord{
			Name:  f.Name,
			Data:  data,
			Start: start,
			Type:  typ,
		})
	}

	for _, rom := range m.ROMBanks {
		id, err := rom.ID()
		if err != nil {
			return builder.Input{}, err
		}
		data, err := l.read(rom.Filename)
		if err != nil {
			return builder.Input{}, fmt.Errorf("loading rom bank %d: %w", id, err)
		}
		input.ROMBanks = append(input.ROMBanks, bank.ROMBank{ID: id, Data: data})
	}

	return input, nil
}

// LoadImage reads and parses a cartridge image.
func (l *Loader) LoadImage(path string) (*crt.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	img, err := crt.Read(file)
	if err != nil {
		return nil, fmt.Errorf("reading cartridge image %s: %w", path, err)
	}
	return img, nil
}

// Path returns the path of a file referenced by a manifest.
func (l *Loader) Path(name string) string {
	if l.baseDir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(l.baseDir, name)
}

func (l *Loader) read(name string) ([]byte, error) {
	path := l.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
