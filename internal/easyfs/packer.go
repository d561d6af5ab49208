package easyfs

import (
	"fmt"

	"github.com/retroenv/efbuilder/internal/crt"
	"github.com/retroenv/retrogolib/log"
)

const maxBank = 0xffff

// Cursor is the position in the payload address space where the next
// file will be placed.
type Cursor struct {
	Offset int
}

// Place returns the cursor following the file, the directory entry of the
// file and its data as stored in the payload.
func (c Cursor) Place(file FileRecord) (Cursor, DirectoryEntry, []byte, error) {
	data := file.FullData()
	if len(data) >= MaxFileLength {
		return c, DirectoryEntry{}, nil, fmt.Errorf("%w: file '%s' has %d bytes, limit is %d",
			crt.ErrConfiguration, file.Name, len(data), MaxFileLength-1)
	}

	bank := c.Offset/crt.BankSize + 1
	if bank > maxBank {
		return c, DirectoryEntry{}, nil, fmt.Errorf("%w: file '%s' starts in bank %d",
			crt.ErrConfiguration, file.Name, bank)
	}

	name, _ := EncodeName(file.Name)
	entry := DirectoryEntry{
		Name:   string(trimName(name)),
		Flags:  FlagInUse,
		Bank:   uint16(bank),
		Offset: uint16(c.Offset % crt.BankSize),
		Length: uint32(len(data)),
	}

	next := Cursor{Offset: c.Offset + len(data)}
	return next, entry, data, nil
}

func trimName(field [NameLength]byte) []byte {
	for i, b := range field {
		if b == 0 {
			return field[:i]
		}
	}
	return field[:]
}

// Layout is the packed filesystem.
type Layout struct {
	Entries   []DirectoryEntry
	Directory []byte
	Payload   []byte
}

// File returns the stored data of a directory entry.
func (l Layout) File(entry DirectoryEntry) []byte {
	start := entry.PayloadOffset()
	return l.Payload[start : start+int(entry.Length)]
}

// Banks returns the number of banks that the payload occupies.
func (l Layout) Banks() int {
	return (len(l.Payload) + crt.BankSize - 1) / crt.BankSize
}

// Packer builds the filesystem layout for a list of files.
type Packer struct {
	logger *log.Logger
}

// New returns a new filesystem packer.
func New(logger *log.Logger) *Packer {
	return &Packer{
		logger: logger,
	}
}

// Pack places the files in the given order into the payload and returns
// the directory block describing them. Duplicate names are not detected.
func (p *Packer) Pack(files []FileRecord) (Layout, error) {
	var (
		cursor Cursor
		layout Layout
	)

	for _, file := range files {
		if _, truncated := EncodeName(file.Name); truncated {
			p.logger.Warn("File name truncated",
				log.String("name", file.Name),
				log.Int("length", NameLength))
		}

		next, entry, data, err := cursor.Place(file)
		if err != nil {
			return Layout{}, err
		}

		record, err := entry.MarshalBinary()
		if err != nil {
			return Layout{}, fmt.Errorf("encoding directory entry of '%s': %w", file.Name, err)
		}

		p.logger.Debug("Adding file",
			log.String("name", entry.Name),
			log.Int("bank", int(entry.Bank)),
			log.Hex("offset", entry.Offset),
			log.Int("size", len(data)))

		layout.Entries = append(layout.Entries, entry)
		layout.Directory = append(layout.Directory, record...)
		layout.Payload = append(layout.Payload, data...)
		cursor = next
	}

	return layout, nil
}
