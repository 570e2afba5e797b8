package memory

import (
	"fmt"
	"os"
	"strings"
)

// Header is the cartridge header block parsed out of a ROM image.
type Header struct {
	Title         string
	CartridgeType uint8
	ROMSize       uint32 // bytes
	RAMSize       uint32 // bytes
}

// headerEnd is the first byte past the cartridge header block.
const headerEnd = 0x0150

// ramSizes maps the header's RAM-size code to bytes. Codes 1, and
// anything past 5, are unused.
var ramSizes = [6]uint32{0, 0, 8 * 1024, 32 * 1024, 128 * 1024, 64 * 1024}

// ParseHeader reads the cartridge header fields from a ROM image.
func ParseHeader(data []uint8) (Header, error) {
	if len(data) < headerEnd {
		return Header{}, fmt.Errorf("memory: image too short for a cartridge header: %d bytes", len(data))
	}
	h := Header{
		Title:         strings.TrimRight(string(data[0x0134:0x0144]), "\x00"),
		CartridgeType: data[0x0147],
		ROMSize:       32 * 1024 << data[0x0148],
	}
	if code := data[0x0149]; int(code) < len(ramSizes) {
		h.RAMSize = ramSizes[code]
	}
	return h, nil
}

// LoadROM reads a cartridge image from disk and parses its header.
func LoadROM(path string) ([]uint8, Header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Header{}, fmt.Errorf("memory: reading ROM: %w", err)
	}
	h, err := ParseHeader(data)
	if err != nil {
		return nil, Header{}, err
	}
	return data, h, nil
}
