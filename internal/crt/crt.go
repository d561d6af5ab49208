// Package crt implements the CRT cartridge container format for EasyFlash images.
package crt

import "errors"

// Signature starts every CRT file.
const Signature = "C64 CARTRIDGE   "

const (
	// BankSize is the size of a single EasyFlash bank, made up of a ROML and a ROMH chip.
	BankSize = 0x4000
	// ChipSize is the size of one half of a bank.
	ChipSize = 0x2000

	// HeaderLength is the length of the file header.
	HeaderLength = 0x40
	// NameLength is the fixed width of the cartridge name field.
	NameLength = 32

	// Version of the CRT format that is written, 1.0.
	Version = 0x0100
	// HardwareEasyFlash is the CRT hardware type of EasyFlash cartridges.
	HardwareEasyFlash = 32

	// ChipTypeFlash marks a CHIP packet as flash memory.
	ChipTypeFlash = 2
	// ChipHeaderLength is the length of a CHIP packet header.
	ChipHeaderLength = 0x10
	// ChipPacketLength is the length of a CHIP packet including its data.
	ChipPacketLength = ChipHeaderLength + ChipSize

	// LoadAddressLow is the address that the lower bank half is mapped to.
	LoadAddressLow = 0x8000
	// LoadAddressHigh is the address that the upper bank half is mapped to.
	LoadAddressHigh = 0xA000
)

// ErrConfiguration is returned for inputs that can not form a valid image, like banks of
// the wrong size or a directory that does not fit into its reserved region.
var ErrConfiguration = errors.New("configuration error")

// ErrIntegrity is returned if the banks of an image are not unique.
var ErrIntegrity = errors.New("integrity error")

// Bank is a single 16 KiB bank of the cartridge.
type Bank struct {
	ID   uint16
	Data []byte
}

// Image is a complete cartridge image, banks are ordered ascending by ID.
type Image struct {
	Name  string
	Banks []Bank
}

// Bank returns the bank with the given ID.
func (img *Image) Bank(id uint16) (Bank, bool) {
	for _, bank := range img.Banks {
		if bank.ID == id {
			return bank, true
		}
	}
	return Bank{}, false
}

// Size returns the size in bytes of the serialized image.
func (img *Image) Size() int {
	return HeaderLength + len(img.Banks)*2*ChipPacketLength
}
