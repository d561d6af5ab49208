package cli

import (
	"bytes"
	"testing"

	"github.com/retroenv/efbuilder/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/spf13/cobra"
)

func execute(t *testing.T, args ...string) (options.Program, bool, error) {
	t.Helper()

	var (
		got    options.Program
		called bool
	)
	cmd := NewRootCommand("test", func(_ *cobra.Command, opts options.Program) error {
		got = opts
		called = true
		return nil
	})
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	return got, called, err
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Program
	}{
		{
			name: "default flags",
			args: []string{"cart.xml"},
			want: options.Program{Parameters: options.Parameters{Input: "cart.xml"}},
		},
		{
			name: "output flag",
			args: []string{"-o", "out.crt", "cart.xml"},
			want: options.Program{Parameters: options.Parameters{Input: "cart.xml", Output: "out.crt"}},
		},
		{
			name: "build flags",
			args: []string{"--relative", "--verify", "--debug", "cart.xml"},
			want: options.Program{
				Parameters: options.Parameters{Input: "cart.xml"},
				Flags:      options.Flags{Relative: true, Verify: true, Debug: true},
			},
		},
		{
			name: "list flags",
			args: []string{"-l", "-q", "cart.bin"},
			want: options.Program{
				Parameters: options.Parameters{Input: "cart.bin"},
				Flags:      options.Flags{List: true, Quiet: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, called, err := execute(t, tt.args...)
			assert.NoError(t, err)
			assert.True(t, called)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing input", args: []string{}},
		{name: "two inputs", args: []string{"a.xml", "b.xml"}},
		{name: "unknown flag", args: []string{"--unknown", "a.xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, called, err := execute(t, tt.args...)
			assert.Error(t, err)
			assert.False(t, called)
		})
	}
}

func TestValidateOptionCombinations(t *testing.T) {
	tests := []struct {
		name        string
		opts        options.Program
		expectError bool
	}{
		{
			name:        "no conflict",
			opts:        options.Program{},
			expectError: false,
		},
		{
			name:        "build with verify",
			opts:        options.Program{Flags: options.Flags{Verify: true}},
			expectError: false,
		},
		{
			name:        "list only",
			opts:        options.Program{Flags: options.Flags{List: true}},
			expectError: false,
		},
		{
			name:        "list and verify conflict",
			opts:        options.Program{Flags: options.Flags{List: true, Verify: true}},
			expectError: true,
		},
		{
			name: "list and output conflict",
			opts: options.Program{
				Parameters: options.Parameters{Output: "out.crt"},
				Flags:      options.Flags{List: true},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOptionCombinations(tt.opts)
			if tt.expectError {
				assert.True(t, err != nil)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
