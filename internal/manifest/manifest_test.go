package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/efbuilder/internal/crt"
	"github.com/retroenv/efbuilder/internal/easyfs"
	"github.com/retroenv/retrogolib/assert"
)

const validManifest = `<?xml version="1.0"?>
<efcart name="MY CART" outputfile="my.crt">
  <boot filename="boot.bin"/>
  <EasyFS>
    <file filename="hello.prg" name="HELLO" flags="0x82" add_start="0x0801"/>
    <file filename="data.seq" name="DATA"/>
  </EasyFS>
  <BankData>
    <rombank filename="music.bin" bank="0x10"/>
    <rombank filename="gfx.bin" bank="33"/>
  </BankData>
</efcart>
`

func TestParse(t *testing.T) {
	m, err := Parse(strings.NewReader(validManifest))
	assert.NoError(t, err)

	assert.Equal(t, "MY CART", m.Name)
	assert.Equal(t, "my.crt", m.OutputFile)
	assert.Equal(t, "boot.bin", m.Boot.Filename)
	assert.Len(t, m.Files, 2)
	assert.Len(t, m.ROMBanks, 2)

	start, err := m.Files[0].StartAddress()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x0801), *start)
	typ, err := m.Files[0].Type()
	assert.NoError(t, err)
	assert.Equal(t, easyfs.TypeProgram, typ)

	start, err = m.Files[1].StartAddress()
	assert.NoError(t, err)
	assert.True(t, start == nil)

	id, err := m.ROMBanks[0].ID()
	assert.NoError(t, err)
	assert.Equal(t, 16, id)
	id, err = m.ROMBanks[1].ID()
	assert.NoError(t, err)
	assert.Equal(t, 33, id)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		contains string
	}{
		{
			name:     "invalid xml",
			manifest: `<efcart name="X"`,
			contains: "decoding manifest",
		},
		{
			name:     "missing name",
			manifest: `<efcart outputfile="a.crt"><boot filename="b"/></efcart>`,
			contains: "cartridge name is missing",
		},
		{
			name:     "missing output",
			manifest: `<efcart name="X"><boot filename="b"/></efcart>`,
			contains: "output file is missing",
		},
		{
			name:     "missing boot",
			manifest: `<efcart name="X" outputfile="a.crt"></efcart>`,
			contains: "boot file is missing",
		},
		{
			name: "start address too large",
			manifest: `<efcart name="X" outputfile="a.crt"><boot filename="b"/>
				<EasyFS><file filename="f" name="F" add_start="0x10000"/></EasyFS></efcart>`,
			contains: "invalid start address",
		},
		{
			name: "negative start address",
			manifest: `<efcart name="X" outputfile="a.crt"><boot filename="b"/>
				<EasyFS><file filename="f" name="F" add_start="-1"/></EasyFS></efcart>`,
			contains: "invalid start address",
		},
		{
			name: "file without name",
			manifest: `<efcart name="X" outputfile="a.crt"><boot filename="b"/>
				<EasyFS><file filename="f"/></EasyFS></efcart>`,
			contains: "needs a filename and a name",
		},
		{
			name: "invalid flags",
			manifest: `<efcart name="X" outputfile="a.crt"><boot filename="b"/>
				<EasyFS><file filename="f" name="F" flags="prg"/></EasyFS></efcart>`,
			contains: "invalid flags",
		},
		{
			name: "invalid bank",
			manifest: `<efcart name="X" outputfile="a.crt"><boot filename="b"/>
				<BankData><rombank filename="r" bank="x1"/></BankData></efcart>`,
			contains: "invalid bank number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.manifest))
			assert.ErrorContains(t, err, tt.contains)
		})
	}
}

func TestParseConfigurationError(t *testing.T) {
	_, err := Parse(strings.NewReader(`<efcart name="X"><boot filename="b"/></efcart>`))
	assert.True(t, errors.Is(err, crt.ErrConfiguration))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.xml")
	assert.NoError(t, os.WriteFile(path, []byte(validManifest), 0600))

	m, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "MY CART", m.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.xml"))
	assert.ErrorContains(t, err, "opening manifest")
}
