package crt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

var chipSignature = [4]byte{'C', 'H', 'I', 'P'}

type fileHeader struct {
	Signature    [16]byte
	HeaderLength uint32
	Version      uint16
	Hardware     uint16
	Exrom        uint8
	Game         uint8
	Reserved     [6]byte
	Name         [NameLength]byte
}

type chipHeader struct {
	Signature    [4]byte
	PacketLength uint32
	ChipType     uint16
	Bank         uint16
	LoadAddress  uint16
	Size         uint16
}

// EncodeName returns the name as NUL padded field of the header and
// whether it had to be truncated to fit.
func EncodeName(name string) ([NameLength]byte, bool) {
	var field [NameLength]byte
	n := copy(field[:], name)
	return field, n < len(name)
}

// Marshal returns the serialized image.
func Marshal(img *Image) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, img.Size()))
	if err := Write(buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write serializes the image to the writer. The image is validated before
// the first byte is written.
func Write(w io.Writer, img *Image) error {
	if err := validate(img); err != nil {
		return err
	}

	header := fileHeader{
		HeaderLength: HeaderLength,
		Version:      Version,
		Hardware:     HardwareEasyFlash,
		Exrom:        1, // ultimax mode
		Game:         0,
	}
	copy(header.Signature[:], Signature)
	header.Name, _ = EncodeName(img.Name)

	if err := binary.Write(w, binary.BigEndian, header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, bank := range img.Banks {
		if err := writeBank(w, bank); err != nil {
			return fmt.Errorf("writing bank %d: %w", bank.ID, err)
		}
	}
	return nil
}

func writeBank(w io.Writer, bank Bank) error {
	for half := 0; half < 2; half++ {
		header := chipHeader{
			Signature:    chipSignature,
			PacketLength: ChipPacketLength,
			ChipType:     ChipTypeFlash,
			Bank:         bank.ID,
			LoadAddress:  uint16(LoadAddressLow + half*ChipSize),
			Size:         ChipSize,
		}
		if err := binary.Write(w, binary.BigEndian, header); err != nil {
			return fmt.Errorf("writing chip header: %w", err)
		}

		data := bank.Data[half*ChipSize : (half+1)*ChipSize]
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing chip data: %w", err)
		}
	}
	return nil
}

func validate(img *Image) error {
	for i, bank := range img.Banks {
		if len(bank.Data) != BankSize {
			return fmt.Errorf("%w: bank %d has %d bytes instead of %d",
				ErrConfiguration, bank.ID, len(bank.Data), BankSize)
		}
		if i > 0 && bank.ID <= img.Banks[i-1].ID {
			return fmt.Errorf("%w: bank %d follows bank %d, banks need to be unique and ascending",
				ErrIntegrity, bank.ID, img.Banks[i-1].ID)
		}
	}
	return nil
}
