// Package builder creates EasyFlash cartridge images from boot code, ROM
// banks and files.
package builder

import (
	"fmt"

	"github.com/retroenv/efbuilder/internal/bank"
	"github.com/retroenv/efbuilder/internal/crt"
	"github.com/retroenv/efbuilder/internal/easyfs"
	"github.com/retroenv/retrogolib/log"
)

const (
	// DirectoryOffset is the offset of the filesystem directory in the boot bank.
	DirectoryOffset = 0x2000
	// DirectorySize is the size of the region reserved for the directory.
	DirectorySize = crt.BankSize - DirectoryOffset
)

// Input contains all data that a cartridge is built from.
type Input struct {
	Name     string
	Boot     []byte
	ROMBanks []bank.ROMBank
	Files    []easyfs.FileRecord
}

// Builder builds cartridge images.
type Builder struct {
	logger *log.Logger
	packer *easyfs.Packer
}

// New returns a new cartridge image builder.
func New(logger *log.Logger) *Builder {
	return &Builder{
		logger: logger,
		packer: easyfs.New(logger),
	}
}

// Build packs the files into the filesystem, stores the directory in the
// upper half of the boot bank and allocates all banks of the image.
// The input buffers are not modified.
func (b *Builder) Build(input Input) (*crt.Image, error) {
	layout, err := b.packer.Pack(input.Files)
	if err != nil {
		return nil, fmt.Errorf("packing filesystem: %w", err)
	}
	if len(layout.Directory) > DirectorySize {
		return nil, fmt.Errorf("%w: directory of %d files needs %d bytes, only $%04x are available",
			crt.ErrConfiguration, len(layout.Entries), len(layout.Directory), DirectorySize)
	}

	boot, err := bank.Normalize(input.Boot)
	if err != nil {
		return nil, fmt.Errorf("boot image: %w", err)
	}
	copy(boot[DirectoryOffset:], layout.Directory)

	banks, err := bank.Allocate(boot, input.ROMBanks, layout.Payload)
	if err != nil {
		return nil, fmt.Errorf("allocating banks: %w", err)
	}

	if _, truncated := crt.EncodeName(input.Name); truncated {
		b.logger.Warn("Cartridge name truncated",
			log.String("name", input.Name),
			log.Int("length", crt.NameLength))
	}

	b.logger.Debug("Built cartridge image",
		log.String("name", input.Name),
		log.Int("files", len(layout.Entries)),
		log.Int("filesystem_banks", layout.Banks()),
		log.Int("banks", len(banks)))

	return &crt.Image{
		Name:  input.Name,
		Banks: banks,
	}, nil
}
