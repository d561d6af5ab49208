// Package bank assigns the boot image, extra ROM banks and the filesystem
// payload to cartridge banks.
package bank

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/retroenv/efbuilder/internal/crt"
)

const (
	// BootBank is the bank that the cartridge starts from.
	BootBank = 0
	// FirstFilesystemBank is the first bank that holds filesystem payload.
	FirstFilesystemBank = 1

	// prefixedSize is the size of a bank image that starts with a 2 byte load address.
	prefixedSize = crt.BankSize + 2
	maxID        = 0xffff
	padding      = 0xff
)

// ROMBank is an extra ROM bank at a fixed bank number.
type ROMBank struct {
	ID   int
	Data []byte
}

// Normalize returns a copy of the bank image data. Images of 0x4002 bytes
// are treated as having a load address prefix which is stripped.
func Normalize(data []byte) ([]byte, error) {
	switch len(data) {
	case crt.BankSize:
		return bytes.Clone(data), nil
	case prefixedSize:
		return bytes.Clone(data[2:]), nil
	default:
		return nil, fmt.Errorf("%w: bank image has %d bytes, expected $%04x or $%04x",
			crt.ErrConfiguration, len(data), crt.BankSize, prefixedSize)
	}
}

// Split splits the filesystem payload into banks starting at the first
// filesystem bank. The last bank is padded with 0xff.
func Split(payload []byte) ([]crt.Bank, error) {
	count := (len(payload) + crt.BankSize - 1) / crt.BankSize
	if FirstFilesystemBank+count-1 > maxID {
		return nil, fmt.Errorf("%w: filesystem needs %d banks", crt.ErrConfiguration, count)
	}

	banks := make([]crt.Bank, 0, count)
	for i := 0; i < count; i++ {
		chunk := payload[i*crt.BankSize : min((i+1)*crt.BankSize, len(payload))]
		data := make([]byte, crt.BankSize)
		n := copy(data, chunk)
		for j := n; j < len(data); j++ {
			data[j] = padding
		}
		banks = append(banks, crt.Bank{
			ID:   uint16(FirstFilesystemBank + i),
			Data: data,
		})
	}
	return banks, nil
}

// Allocate returns the banks of the cartridge, sorted ascending by bank
// number. Banks that share a number result in an integrity error.
func Allocate(boot []byte, roms []ROMBank, payload []byte) ([]crt.Bank, error) {
	bootData, err := Normalize(boot)
	if err != nil {
		return nil, fmt.Errorf("boot image: %w", err)
	}
	banks := []crt.Bank{{ID: BootBank, Data: bootData}}

	for _, rom := range roms {
		if rom.ID < 0 || rom.ID > maxID {
			return nil, fmt.Errorf("%w: invalid rom bank number %d", crt.ErrConfiguration, rom.ID)
		}
		data, err := Normalize(rom.Data)
		if err != nil {
			return nil, fmt.Errorf("rom bank %d: %w", rom.ID, err)
		}
		banks = append(banks, crt.Bank{ID: uint16(rom.ID), Data: data})
	}

	fsBanks, err := Split(payload)
	if err != nil {
		return nil, err
	}
	banks = append(banks, fsBanks...)

	sort.SliceStable(banks, func(i, j int) bool {
		return banks[i].ID < banks[j].ID
	})

	for i := 1; i < len(banks); i++ {
		if banks[i].ID == banks[i-1].ID {
			return nil, fmt.Errorf("%w: bank %d is used more than once", crt.ErrIntegrity, banks[i].ID)
		}
	}
	return banks, nil
}
