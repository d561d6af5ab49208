// Package manifest parses the XML manifest that describes a cartridge.
package manifest

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/efbuilder/internal/crt"
	"github.com/retroenv/efbuilder/internal/easyfs"
)

// Manifest describes the content of a cartridge.
type Manifest struct {
	XMLName    xml.Name  `xml:"efcart"`
	Name       string    `xml:"name,attr"`
	OutputFile string    `xml:"outputfile,attr"`
	Boot       Boot      `xml:"boot"`
	Files      []File    `xml:"EasyFS>file"`
	ROMBanks   []ROMBank `xml:"BankData>rombank"`
}

// Boot references the boot bank image.
type Boot struct {
	Filename string `xml:"filename,attr"`
}

// File references a file to be stored in the filesystem.
type File struct {
	Filename string `xml:"filename,attr"`
	Name     string `xml:"name,attr"`
	Flags    string `xml:"flags,attr"`
	AddStart string `xml:"add_start,attr"`
}

// ROMBank references an image to be stored at a fixed bank.
type ROMBank struct {
	Filename string `xml:"filename,attr"`
	Bank     string `xml:"bank,attr"`
}

// Load reads and parses the manifest file.
func Load(path string) (*Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest '%s': %w", path, err)
	}
	defer func() { _ = file.Close() }()

	return Parse(file)
}

// Parse parses and validates a manifest.
func Parse(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := xml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	switch {
	case m.Name == "":
		return fmt.Errorf("%w: cartridge name is missing", crt.ErrConfiguration)
	case m.OutputFile == "":
		return fmt.Errorf("%w: output file is missing", crt.ErrConfiguration)
	case m.Boot.Filename == "":
		return fmt.Errorf("%w: boot file is missing", crt.ErrConfiguration)
	}

	for i, f := range m.Files {
		if f.Filename == "" || f.Name == "" {
			return fmt.Errorf("%w: file entry %d needs a filename and a name", crt.ErrConfiguration, i)
		}
		if _, err := f.StartAddress(); err != nil {
			return err
		}
		if _, err := f.Type(); err != nil {
			return err
		}
	}

	for i, rom := range m.ROMBanks {
		if rom.Filename == "" {
			return fmt.Errorf("%w: rom bank entry %d needs a filename", crt.ErrConfiguration, i)
		}
		if _, err := rom.ID(); err != nil {
			return err
		}
	}
	return nil
}

// StartAddress returns the load address to prepend to the file data, nil
// if the file data should be stored as is.
func (f File) StartAddress() (*uint16, error) {
	if f.AddStart == "" {
		return nil, nil
	}
	value, err := parseInt(f.AddStart)
	if err != nil || value < 0 || value > 0xffff {
		return nil, fmt.Errorf("%w: invalid start address '%s' of file '%s'",
			crt.ErrConfiguration, f.AddStart, f.Name)
	}
	address := uint16(value)
	return &address, nil
}

// Type returns the file type given by the flags attribute.
func (f File) Type() (easyfs.FileType, error) {
	if f.Flags == "" {
		return easyfs.TypeProgram, nil
	}
	value, err := parseInt(f.Flags)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid flags '%s' of file '%s'", crt.ErrConfiguration, f.Flags, f.Name)
	}
	return easyfs.FileTypeFromCode(int(value)), nil
}

// ID returns the bank number of the rom bank.
func (r ROMBank) ID() (int, error) {
	value, err := parseInt(r.Bank)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid bank number '%s' of rom bank '%s'",
			crt.ErrConfiguration, r.Bank, r.Filename)
	}
	return int(value), nil
}

// parseInt parses a number with optional base prefix like 0x, 0o or 0b.
func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	value, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing number '%s': %w", s, err)
	}
	return value, nil
}
