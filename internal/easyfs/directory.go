package easyfs

import (
	"bytes"
	"fmt"

	"github.com/retroenv/efbuilder/internal/crt"
)

const (
	// EntrySize is the size of a single directory entry.
	EntrySize = 24
	// NameLength is the fixed width of the file name field.
	NameLength = 16
	// MaxFileLength is the exclusive upper limit of the 3 byte length field.
	MaxFileLength = 1 << 24

	// FlagInUse marks a directory entry as used.
	FlagInUse = 0x01
)

// DirectoryEntry locates a file in the filesystem payload. Bank numbering
// of the payload starts at 1 since bank 0 holds boot code and directory.
type DirectoryEntry struct {
	Name   string
	Flags  uint8
	Bank   uint16
	Offset uint16
	Length uint32
}

// EncodeName returns the name as NUL padded directory field and whether
// it had to be truncated to fit.
func EncodeName(name string) ([NameLength]byte, bool) {
	var field [NameLength]byte
	n := copy(field[:], name)
	return field, n < len(name)
}

// MarshalBinary returns the 24 byte directory record of the entry.
func (e DirectoryEntry) MarshalBinary() ([]byte, error) {
	if e.Length >= MaxFileLength {
		return nil, fmt.Errorf("file length $%x does not fit into 3 bytes", e.Length)
	}

	b := make([]byte, EntrySize)
	name, _ := EncodeName(e.Name)
	copy(b, name[:])
	b[16] = e.Flags
	b[17] = byte(e.Bank)
	b[18] = byte(e.Bank >> 8)
	b[19] = byte(e.Offset)
	b[20] = byte(e.Offset >> 8)
	b[21] = byte(e.Length)
	b[22] = byte(e.Length >> 8)
	b[23] = byte(e.Length >> 16)
	return b, nil
}

func parseEntry(b []byte) DirectoryEntry {
	return DirectoryEntry{
		Name:   string(bytes.TrimRight(b[:NameLength], "\x00")),
		Flags:  b[16],
		Bank:   uint16(b[17]) | uint16(b[18])<<8,
		Offset: uint16(b[19]) | uint16(b[20])<<8,
		Length: uint32(b[21]) | uint32(b[22])<<8 | uint32(b[23])<<16,
	}
}

// ParseDirectory parses the directory entries of a directory region. The
// directory has no entry count, entries are read until an entry is found
// that is not flagged as in use or the region ends.
func ParseDirectory(region []byte) []DirectoryEntry {
	var entries []DirectoryEntry
	for offset := 0; offset+EntrySize <= len(region); offset += EntrySize {
		entry := parseEntry(region[offset : offset+EntrySize])
		if entry.Flags != FlagInUse {
			break
		}
		entries = append(entries, entry)
	}
	return entries
}

// PayloadOffset returns the offset of the entry data in the payload
// address space that starts at filesystem bank 1.
func (e DirectoryEntry) PayloadOffset() int {
	return (int(e.Bank)-1)*crt.BankSize + int(e.Offset)
}
