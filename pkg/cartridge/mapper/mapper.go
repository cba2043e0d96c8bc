// Package mapper implements the cartridge address-translation boards
// (the polymorphic "Mapper" object in the system's data model).
//
// Each variant is a tagged struct, not a table of function pointers stored
// on a shared struct (the C original's approach) — dispatch goes through
// the Mapper interface instead, so variance in bank layout lives in each
// variant's own methods.
package mapper

import "fmt"

// Mirror is the nametable mirroring mode a mapper may report. Only
// MirrorHorizontal and MirrorVertical are required by this emulator;
// MirrorFourScreen is accepted from the cartridge header but treated as
// MirrorHorizontal by the PPU (four-screen VRAM banking is not implemented).
type Mirror int

const (
	MirrorHorizontal Mirror = iota
	MirrorVertical
	MirrorFourScreen
)

// Mapper translates CPU/PPU addresses into offsets within the cartridge's
// PRG/CHR byte arrays. A translation that returns ok == false means the
// address does not belong to this mapper's PRG/CHR space; the caller must
// not index its arrays with the returned offset in that case.
//
// CPU writes may both mutate mapper-internal state (bank-select registers)
// and, when the address also lands in writable CHR/PRG space, return an
// offset to write through to. MMC1's serial port is the clearest case of a
// write that mutates state but never returns ok == true.
type Mapper interface {
	MapCPURead(addr uint16) (offset uint32, ok bool)
	MapCPUWrite(addr uint16, value uint8) (offset uint32, ok bool)
	MapPPURead(addr uint16) (offset uint32, ok bool)
	MapPPUWrite(addr uint16, value uint8) (offset uint32, ok bool)
}

// DynamicMirror is implemented by mappers whose nametable mirroring can
// change at runtime (MMC1). Mappers without runtime-selectable mirroring
// simply don't implement it; the cartridge falls back to its header value.
type DynamicMirror interface {
	MirroringMode() Mirror
}

// CartridgeData is the raw byte storage a mapper indexes into. PRGROM/CHRROM
// are read-only cartridge contents; CHRRAM is present instead of CHRROM when
// the cartridge declares zero CHR banks.
type CartridgeData struct {
	PRGROM []uint8
	CHRROM []uint8
	CHRRAM []uint8

	PRGBanks int
	CHRBanks int
}

// New constructs the mapper matching id, per spec §4.1: NROM(0), MMC1(1),
// UxROM(2), CNROM(3). Any other id fails cartridge load with ErrUnsupportedMapper
// at the caller.
func New(id uint8, data *CartridgeData) (Mapper, error) {
	switch id {
	case 0:
		return newNROM(data), nil
	case 1:
		return newMMC1(data), nil
	case 2:
		return newUxROM(data), nil
	case 3:
		return newCNROM(data), nil
	default:
		return nil, fmt.Errorf("mapper: unsupported mapper id %d", id)
	}
}
