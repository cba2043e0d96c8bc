// Package cartridge parses iNES ROM images and owns the PRG/CHR byte arrays
// a Mapper translates addresses into, plus the small battery-backed PRG-RAM
// window at 0x6000-0x7FFF that a cartridge gets when its header sets the
// battery flag.
package cartridge

import (
	"errors"
	"fmt"
	"io"

	"github.com/mikami/nesgo/pkg/cartridge/mapper"
)

var (
	// ErrBadMagic is returned when a ROM image doesn't open with "NES\x1A".
	ErrBadMagic = errors.New("cartridge: bad iNES magic number")
	// ErrShortRead is returned when the reader ends before a declared
	// section (trainer, PRG ROM, CHR ROM) has been fully consumed.
	ErrShortRead = errors.New("cartridge: truncated ROM image")
	// ErrUnsupportedMapper is returned when the header names a mapper id
	// this emulator doesn't implement.
	ErrUnsupportedMapper = errors.New("cartridge: unsupported mapper")
	// ErrUnsupportedNES2 is returned for NES 2.0 images; only iNES 1.0
	// headers are parsed.
	ErrUnsupportedNES2 = errors.New("cartridge: NES 2.0 headers are not supported")
)

const (
	prgBankSize = 16384
	chrBankSize = 8192
	prgRAMSize  = 8192
	headerSize  = 16
	trainerSize = 512
)

// header is the 16-byte iNES file header.
type header struct {
	magic      [4]uint8
	prgBanks   uint8
	chrBanks   uint8
	flags6     uint8
	flags7     uint8
	flags8     uint8
	flags9     uint8
	flags10    uint8
	_          [5]uint8
}

func (h header) hasTrainer() bool  { return h.flags6&0x04 != 0 }
func (h header) fourScreen() bool  { return h.flags6&0x08 != 0 }
func (h header) vertical() bool    { return h.flags6&0x01 != 0 }
func (h header) battery() bool     { return h.flags6&0x02 != 0 }
func (h header) mapperID() uint8   { return (h.flags6 >> 4) | (h.flags7 & 0xF0) }
func (h header) isNES2() bool      { return h.flags7&0x0C == 0x08 }

// Cartridge owns ROM/RAM storage and delegates address translation to a
// Mapper. PRG-RAM at 0x6000-0x7FFF is handled here directly, before a
// CPU access ever reaches the mapper, since every board shares the same
// fixed-size SRAM window regardless of mapper id.
type Cartridge struct {
	PRGROM []uint8
	CHRROM []uint8
	CHRRAM []uint8
	PRGRAM []uint8

	hasBattery bool
	hdrMirror  mapper.Mirror
	mapperID   uint8

	Mapper mapper.Mapper
}

// Load parses an iNES ROM image and constructs the cartridge, including its
// mapper. The returned error wraps one of the sentinel errors in this
// package via errors.Is.
func Load(r io.Reader) (*Cartridge, error) {
	var hdr header
	if err := readHeader(r, &hdr); err != nil {
		return nil, err
	}
	if string(hdr.magic[:]) != "NES\x1A" {
		return nil, fmt.Errorf("%w: got %q", ErrBadMagic, hdr.magic[:])
	}
	if hdr.isNES2() {
		return nil, fmt.Errorf("%w: flags7=$%02X", ErrUnsupportedNES2, hdr.flags7)
	}

	if hdr.hasTrainer() {
		trainer := make([]uint8, trainerSize)
		if _, err := io.ReadFull(r, trainer); err != nil {
			return nil, fmt.Errorf("%w: trainer: %v", ErrShortRead, err)
		}
	}

	cart := &Cartridge{
		hasBattery: hdr.battery(),
		mapperID:   hdr.mapperID(),
	}

	switch {
	case hdr.fourScreen():
		cart.hdrMirror = mapper.MirrorFourScreen
	case hdr.vertical():
		cart.hdrMirror = mapper.MirrorVertical
	default:
		cart.hdrMirror = mapper.MirrorHorizontal
	}

	prgSize := int(hdr.prgBanks) * prgBankSize
	cart.PRGROM = make([]uint8, prgSize)
	if _, err := io.ReadFull(r, cart.PRGROM); err != nil {
		return nil, fmt.Errorf("%w: PRG ROM: %v", ErrShortRead, err)
	}

	chrSize := int(hdr.chrBanks) * chrBankSize
	if chrSize > 0 {
		cart.CHRROM = make([]uint8, chrSize)
		if _, err := io.ReadFull(r, cart.CHRROM); err != nil {
			return nil, fmt.Errorf("%w: CHR ROM: %v", ErrShortRead, err)
		}
	} else {
		// CHR-RAM fallback: every mapper this emulator supports (NROM,
		// MMC1, UxROM, CNROM) can be wired to a CHR-RAM cartridge.
		cart.CHRRAM = make([]uint8, chrBankSize)
	}

	if cart.hasBattery {
		cart.PRGRAM = make([]uint8, prgRAMSize)
	}

	data := &mapper.CartridgeData{
		PRGROM:   cart.PRGROM,
		CHRROM:   cart.CHRROM,
		CHRRAM:   cart.CHRRAM,
		PRGBanks: int(hdr.prgBanks),
		CHRBanks: int(hdr.chrBanks),
	}

	m, err := mapper.New(hdr.mapperID(), data)
	if err != nil {
		return nil, fmt.Errorf("%w: mapper %d: %v", ErrUnsupportedMapper, hdr.mapperID(), err)
	}
	cart.Mapper = m

	return cart, nil
}

func readHeader(r io.Reader, h *header) error {
	raw := make([]uint8, headerSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return fmt.Errorf("%w: header: %v", ErrShortRead, err)
	}
	copy(h.magic[:], raw[0:4])
	h.prgBanks = raw[4]
	h.chrBanks = raw[5]
	h.flags6 = raw[6]
	h.flags7 = raw[7]
	h.flags8 = raw[8]
	h.flags9 = raw[9]
	h.flags10 = raw[10]
	return nil
}

// CPURead reads a byte from cartridge space (0x6000-0xFFFF). ok is false
// for any address this cartridge doesn't claim, in which case the caller
// should treat the access as open bus.
func (c *Cartridge) CPURead(addr uint16) (uint8, bool) {
	if addr >= 0x6000 && addr < 0x8000 {
		if c.PRGRAM == nil {
			return 0, false
		}
		return c.PRGRAM[addr-0x6000], true
	}
	offset, ok := c.Mapper.MapCPURead(addr)
	if !ok {
		return 0, false
	}
	return c.PRGROM[offset], true
}

// CPUWrite writes a byte to cartridge space. Writes below 0x8000 land in
// PRG-RAM (if present); writes at or above 0x8000 go through the mapper,
// which may mutate bank-select state and, if it reports ok, has the byte
// stored in PRGROM at the returned offset.
func (c *Cartridge) CPUWrite(addr uint16, value uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		if c.PRGRAM != nil {
			c.PRGRAM[addr-0x6000] = value
		}
		return
	}
	if offset, ok := c.Mapper.MapCPUWrite(addr, value); ok {
		c.PRGROM[offset] = value
	}
}

// PPURead reads a byte from pattern-table space (0x0000-0x1FFF).
func (c *Cartridge) PPURead(addr uint16) (uint8, bool) {
	offset, ok := c.Mapper.MapPPURead(addr)
	if !ok {
		return 0, false
	}
	if len(c.CHRROM) > 0 {
		return c.CHRROM[offset], true
	}
	return c.CHRRAM[offset], true
}

// PPUWrite writes a byte to pattern-table space. Only CHR-RAM cartridges
// accept PPU-side writes; on a cartridge with CHR-ROM the write is dropped.
func (c *Cartridge) PPUWrite(addr uint16, value uint8) {
	offset, ok := c.Mapper.MapPPUWrite(addr, value)
	if !ok {
		return
	}
	if len(c.CHRROM) > 0 {
		return
	}
	c.CHRRAM[offset] = value
}

// Mirroring reports the current nametable mirroring mode: the mapper's
// runtime-selectable value if it implements DynamicMirror (MMC1), otherwise
// the mode declared in the ROM header.
func (c *Cartridge) Mirroring() mapper.Mirror {
	if dm, ok := c.Mapper.(mapper.DynamicMirror); ok {
		return dm.MirroringMode()
	}
	return c.hdrMirror
}
