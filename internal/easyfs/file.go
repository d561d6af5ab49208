// Package easyfs packs files into the EasyFS layout: a directory of fixed
// size entries stored in bank 0 and the file payload filling banks 1..n.
package easyfs

// FileType is the CBM DOS file type of a file.
type FileType uint16

// File types as known from CBM DOS. The type of a record is not stored in
// the directory, every packed entry only carries the FlagInUse flag.
const (
	TypeScratched        FileType = 0x00
	TypeDeleted          FileType = 0x80
	TypeSequential       FileType = 0x81
	TypeProgram          FileType = 0x82
	TypeUser             FileType = 0x83
	TypeRelative         FileType = 0x84
	TypeLockedDeleted    FileType = 0xc0
	TypeLockedSequential FileType = 0xc1
	TypeLockedProgram    FileType = 0xc2
	TypeLockedUser       FileType = 0xc3
	TypeLockedRelative   FileType = 0xc4
	TypeUnsupported      FileType = 0x100
)

var fileTypeNames = map[FileType]string{
	TypeScratched:        "SCRATCHED",
	TypeDeleted:          "DEL",
	TypeSequential:       "SEQ",
	TypeProgram:          "PRG",
	TypeUser:             "USR",
	TypeRelative:         "REL",
	TypeLockedDeleted:    "DEL<",
	TypeLockedSequential: "SEQ<",
	TypeLockedProgram:    "PRG<",
	TypeLockedUser:       "USR<",
	TypeLockedRelative:   "REL<",
}

func (t FileType) String() string {
	if name, ok := fileTypeNames[t]; ok {
		return name
	}
	return "UNSUPPORTED"
}

// FileTypeFromCode returns the file type for the given code, unknown codes
// map to TypeUnsupported.
func FileTypeFromCode(code int) FileType {
	if code < 0 || code > 0xff {
		return TypeUnsupported
	}
	t := FileType(code)
	if _, ok := fileTypeNames[t]; !ok {
		return TypeUnsupported
	}
	return t
}

// FileRecord is a file to be stored in the filesystem.
type FileRecord struct {
	Name string
	Data []byte
	// Start is an optional load address that gets prepended to the data.
	Start *uint16
	Type  FileType
}

// NewFileRecord returns a program file record.
func NewFileRecord(name string, data []byte, start *uint16) FileRecord {
	return FileRecord{
		Name:  name,
		Data:  data,
		Start: start,
		Type:  TypeProgram,
	}
}

// FullData returns the data as stored in the filesystem, prefixed by the
// little endian load address if one is set.
func (f FileRecord) FullData() []byte {
	if f.Start == nil {
		return append([]byte(nil), f.Data...)
	}
	data := make([]byte, 0, 2+len(f.Data))
	data = append(data, byte(*f.Start), byte(*f.Start>>8))
	return append(data, f.Data...)
}

// Address returns the load address stored in the first two bytes of the
// file data, as used by PRG files that already contain it.
func (f FileRecord) Address() (uint16, bool) {
	if len(f.Data) < 2 {
		return 0, false
	}
	return uint16(f.Data[0]) | uint16(f.Data[1])<<8, true
}
