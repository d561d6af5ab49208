package crt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Read parses an EasyFlash CRT image. Banks are returned in the order
// their first CHIP packet appears in the file, halves that are not
// contained in the file are filled with the erased flash value 0xff.
func Read(r io.Reader) (*Image, error) {
	var header fileHeader
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if string(header.Signature[:]) != Signature {
		return nil, errors.New("missing CRT signature")
	}
	if header.HeaderLength < HeaderLength {
		return nil, fmt.Errorf("invalid header length %d", header.HeaderLength)
	}
	if header.Hardware != HardwareEasyFlash {
		return nil, fmt.Errorf("unsupported hardware type %d", header.Hardware)
	}
	if extra := int64(header.HeaderLength - HeaderLength); extra > 0 {
		if _, err := io.CopyN(io.Discard, r, extra); err != nil {
			return nil, fmt.Errorf("skipping extended header: %w", err)
		}
	}

	img := &Image{
		Name: string(bytes.TrimRight(header.Name[:], "\x00")),
	}
	index := map[uint16]int{}
	seen := map[[2]uint16]struct{}{}

	for {
		var chip chipHeader
		err := binary.Read(r, binary.BigEndian, &chip)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading chip header: %w", err)
		}
		if err := checkChip(chip); err != nil {
			return nil, err
		}

		key := [2]uint16{chip.Bank, chip.LoadAddress}
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: bank %d contains address $%04x twice",
				ErrIntegrity, chip.Bank, chip.LoadAddress)
		}
		seen[key] = struct{}{}

		i, ok := index[chip.Bank]
		if !ok {
			i = len(img.Banks)
			index[chip.Bank] = i
			img.Banks = append(img.Banks, Bank{
				ID:   chip.Bank,
				Data: bytes.Repeat([]byte{0xff}, BankSize),
			})
		}

		offset := int(chip.LoadAddress - LoadAddressLow)
		if _, err := io.ReadFull(r, img.Banks[i].Data[offset:offset+ChipSize]); err != nil {
			return nil, fmt.Errorf("reading chip data of bank %d: %w", chip.Bank, err)
		}
	}

	return img, nil
}

func checkChip(chip chipHeader) error {
	if chip.Signature != chipSignature {
		return errors.New("missing CHIP signature")
	}
	if chip.Size != ChipSize || chip.PacketLength != ChipPacketLength {
		return fmt.Errorf("unsupported chip size $%04x in bank %d", chip.Size, chip.Bank)
	}
	if chip.LoadAddress != LoadAddressLow && chip.LoadAddress != LoadAddressHigh {
		return fmt.Errorf("unsupported chip load address $%04x in bank %d", chip.LoadAddress, chip.Bank)
	}
	return nil
}
