package detector

import (
	"testing"

	"github.com/retroenv/efbuilder/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestDetect(t *testing.T) {
	logger := log.NewTestLogger(t)
	d := New(logger)

	tests := []struct {
		name      string
		list      bool
		inputFile string
		wantMode  options.Mode
	}{
		{
			name:      "explicit list option",
			list:      true,
			inputFile: "cart.xml",
			wantMode:  options.ModeList,
		},
		{
			name:      "detect from .xml extension",
			inputFile: "cart.xml",
			wantMode:  options.ModeBuild,
		},
		{
			name:      "detect from .crt extension",
			inputFile: "cart.crt",
			wantMode:  options.ModeList,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options.Program{
				Parameters: options.Parameters{Input: tt.inputFile},
				Flags:      options.Flags{List: tt.list},
			}

			got := d.Detect(opts)
			assert.Equal(t, tt.wantMode, got)
		})
	}
}

func TestDetectFromFile(t *testing.T) {
	logger := log.NewTestLogger(t)
	d := New(logger)

	tests := []struct {
		name     string
		filename string
		wantMode options.Mode
	}{
		{
			name:     ".crt extension",
			filename: "game.crt",
			wantMode: options.ModeList,
		},
		{
			name:     ".CRT extension (uppercase)",
			filename: "GAME.CRT",
			wantMode: options.ModeList,
		},
		{
			name:     ".xml extension",
			filename: "manifest.xml",
			wantMode: options.ModeBuild,
		},
		{
			name:     "no extension",
			filename: "manifest",
			wantMode: options.ModeBuild,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.detectFromFile(tt.filename)
			assert.Equal(t, tt.wantMode, got)
		})
	}
}
