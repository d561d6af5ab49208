// Package verification verifies that a written cartridge image matches the built one.
package verification

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/retroenv/efbuilder/internal/crt"
	"github.com/retroenv/retrogolib/log"
)

// VerifyOutput reads back the cartridge image file and compares it with
// the image that was written to it.
func VerifyOutput(ctx context.Context, logger *log.Logger, path string, expected *crt.Image) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("verifying output: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file for comparison: %w", err)
	}
	if len(data) != expected.Size() {
		return fmt.Errorf("mismatched file size, %d != %d", expected.Size(), len(data))
	}

	written, err := crt.Read(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("loading cartridge file: %w", err)
	}

	return compareImages(logger, expected, written)
}

func compareImages(logger *log.Logger, expected, written *crt.Image) error {
	name, _ := crt.EncodeName(expected.Name)
	if want := string(bytes.TrimRight(name[:], "\x00")); written.Name != want {
		return fmt.Errorf("name mismatch, expected '%s' but got '%s'", want, written.Name)
	}
	if len(expected.Banks) != len(written.Banks) {
		return fmt.Errorf("bank count mismatch, expected %d but got %d", len(expected.Banks), len(written.Banks))
	}

	for i, bank := range expected.Banks {
		got := written.Banks[i]
		if bank.ID != got.ID {
			return fmt.Errorf("bank order mismatch at index %d, expected bank %d but got %d", i, bank.ID, got.ID)
		}
		if err := checkBufferEqual(logger, bank.Data, got.Data); err != nil {
			return fmt.Errorf("bank %d mismatch: %w", bank.ID, err)
		}
	}
	return nil
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs < 10 {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}
