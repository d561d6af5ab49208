// Package pipeline orchestrates the cartridge building workflow stages.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/retroenv/efbuilder/internal/builder"
	"github.com/retroenv/efbuilder/internal/crt"
	"github.com/retroenv/efbuilder/internal/detector"
	"github.com/retroenv/efbuilder/internal/easyfs"
	"github.com/retroenv/efbuilder/internal/loader"
	"github.com/retroenv/efbuilder/internal/manifest"
	"github.com/retroenv/efbuilder/internal/options"
	"github.com/retroenv/efbuilder/internal/verification"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates the complete build and listing workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	builder  *builder.Builder
}

// New creates a new pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		builder:  builder.New(logger),
	}
}

// Execute runs the pipeline in the mode detected for the input file.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program) error {
	switch mode := p.detector.Detect(opts); mode {
	case options.ModeBuild:
		_, err := p.Build(ctx, opts)
		return err
	case options.ModeList:
		_, _, err := p.List(ctx, opts)
		return err
	default:
		return fmt.Errorf("unsupported mode '%s'", mode)
	}
}

// Build loads the manifest and all referenced files, builds the cartridge
// and writes it to the output file.
func (p *Pipeline) Build(ctx context.Context, opts options.Program) (*crt.Image, error) {
	m, err := manifest.Load(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("loading manifest: %w", err)
	}

	var baseDir string
	if opts.Relative {
		baseDir = filepath.Dir(opts.Input)
	}
	ldr := loader.New(baseDir)

	input, err := ldr.Load(m)
	if err != nil {
		return nil, fmt.Errorf("loading files: %w", err)
	}

	output := opts.Output
	if output == "" {
		output = ldr.Path(m.OutputFile)
	}

	if !opts.Quiet {
		p.logger.Info("Building cartridge",
			log.String("manifest", opts.Input),
			log.String("name", m.Name),
			log.Int("files", len(input.Files)),
			log.Int("rom_banks", len(input.ROMBanks)),
		)
	}

	return p.BuildWithInput(ctx, input, output, opts.Verify)
}

// BuildWithInput builds the cartridge from already loaded input and writes
// it to the output file. Nothing is written if building fails.
func (p *Pipeline) BuildWithInput(ctx context.Context, input builder.Input, output string,
	verify bool) (*crt.Image, error) {

	img, err := p.builder.Build(input)
	if err != nil {
		return nil, fmt.Errorf("building cartridge: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := writeImage(output, img); err != nil {
		return nil, fmt.Errorf("writing cartridge: %w", err)
	}

	p.logger.Info("Cartridge written",
		log.String("file", output),
		log.Int("banks", len(img.Banks)),
		log.Int("size", img.Size()),
	)

	if verify {
		if err := verification.VerifyOutput(ctx, p.logger, output, img); err != nil {
			return nil, fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful")
	}

	return img, nil
}

// List reads a cartridge image and logs its banks and filesystem directory.
func (p *Pipeline) List(ctx context.Context, opts options.Program) (*crt.Image, []easyfs.DirectoryEntry, error) {
	img, err := loader.New("").LoadImage(opts.Input)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	p.logger.Info("Cartridge",
		log.String("file", opts.Input),
		log.String("name", img.Name),
		log.Int("banks", len(img.Banks)),
	)
	for _, bank := range img.Banks {
		p.logger.Debug("Bank", log.Int("id", int(bank.ID)))
	}

	boot, ok := img.Bank(0)
	if !ok {
		return nil, nil, fmt.Errorf("%w: cartridge has no boot bank", crt.ErrConfiguration)
	}

	entries := easyfs.ParseDirectory(boot.Data[builder.DirectoryOffset:])
	for _, entry := range entries {
		p.logger.Info("File",
			log.String("name", entry.Name),
			log.Int("bank", int(entry.Bank)),
			log.Hex("offset", entry.Offset),
			log.Int("size", int(entry.Length)),
		)
	}
	return img, entries, nil
}

// writeImage stages the serialized image in a temporary file next to the
// output and renames it into place once it is complete.
func writeImage(output string, img *crt.Image) (err error) {
	data, err := crt.Marshal(img)
	if err != nil {
		return err
	}

	file, err := os.CreateTemp(filepath.Dir(output), "."+filepath.Base(output)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = file.Close()
			_ = os.Remove(file.Name())
		}
	}()

	if _, err = file.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = file.Chmod(0o644); err != nil {
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Rename(file.Name(), output); err != nil {
		return fmt.Errorf("renaming temp file to '%s': %w", output, err)
	}
	return nil
}
