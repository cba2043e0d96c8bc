// Package ppu implements a cycle-accurate 2C02: the background fetch/shift
// pipeline, sprite evaluation, pixel composition, Loopy scroll-register
// arithmetic, and VBlank/NMI generation.
package ppu

import (
	"github.com/mikami/nesgo/pkg/cartridge/mapper"
	"github.com/mikami/nesgo/pkg/nlog"
)

// Cartridge is the subset of cartridge behavior the PPU needs: pattern
// table access and the current nametable mirroring mode.
type Cartridge interface {
	PPURead(addr uint16) (uint8, bool)
	PPUWrite(addr uint16, value uint8)
	Mirroring() mapper.Mirror
}

const (
	screenWidth  = 256
	screenHeight = 240
)

// PPU is a 2C02 core driven one dot at a time via Clock.
type PPU struct {
	cart Cartridge

	nametables  [2][1024]uint8
	paletteRAM  [32]uint8
	oam         [256]uint8
	secondaryOAM [32]uint8
	spriteCount int

	FrameBuffer [screenWidth * screenHeight]uint32

	ctrl    ctrl
	mask    mask
	stat    status
	oamAddr uint8

	v, t   loopy
	fineX  uint8
	latch  bool
	dataBuffer uint8

	bgNextTileID     uint8
	bgNextTileAttrib uint8
	bgNextTileLSB    uint8
	bgNextTileMSB    uint8

	bgShifterPatternLo uint16
	bgShifterPatternHi uint16
	bgShifterAttrLo    uint16
	bgShifterAttrHi    uint16

	spritePatternLo [8]uint8
	spritePatternHi [8]uint8
	spriteX         [8]uint8
	spriteAttr      [8]uint8
	spriteIsZero    [8]bool

	spriteZeroHitPossible    bool
	spriteZeroBeingRendered  bool

	Cycle    int
	Scanline int

	FrameComplete bool
	FrameCount    uint64

	nmiOccurred bool
}

// New constructs a PPU wired to a cartridge. Scanline starts at -1
// (pre-render) as it does after a hardware reset.
func New(cart Cartridge) *PPU {
	return &PPU{cart: cart, Scanline: -1, Cycle: 0}
}

// Reset returns the PPU to its post-power-up state without touching the
// cartridge or framebuffer contents.
func (p *PPU) Reset() {
	p.ctrl, p.mask, p.stat = 0, 0, 0
	p.v, p.t, p.fineX = 0, 0, 0
	p.latch = false
	p.dataBuffer = 0
	p.Cycle, p.Scanline = 0, -1
	p.FrameComplete = false
	p.nmiOccurred = false
}

// NMIPending reports and consumes a pending NMI assertion. The scheduler
// calls this once per tick and, if true, tells the CPU to service NMI at
// the next instruction boundary (spec's permitted polled model, §9).
func (p *PPU) NMIPending() bool {
	if p.nmiOccurred {
		p.nmiOccurred = false
		return true
	}
	return false
}

// WriteOAMByte is the direct OAM store OAM DMA uses — it bypasses OAMDATA's
// register semantics (no OAMADDR increment side effects beyond the index
// DMA itself supplies).
func (p *PPU) WriteOAMByte(offset uint8, value uint8) {
	p.oam[offset] = value
}

// ReadRegister handles a CPU read of one of the 8 mirrored PPU registers
// (address already folded to 0x2000-0x2007 by the bus).
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr & 0x0007 {
	case 2: // PPUSTATUS
		v := (uint8(p.stat) & 0xE0) | (p.dataBuffer & 0x1F)
		p.stat.setVerticalBlank(false)
		p.latch = false
		return v
	case 4: // OAMDATA
		return p.oam[p.oamAddr]
	case 7: // PPUDATA
		return p.readPPUDATA()
	default:
		return 0
	}
}

// WriteRegister handles a CPU write to one of the 8 mirrored PPU registers.
func (p *PPU) WriteRegister(addr uint16, value uint8) {
	switch addr & 0x0007 {
	case 0: // PPUCTRL
		p.ctrl = ctrl(value)
		if p.ctrl.nametableX() {
			p.t.setNametableX(true)
		} else {
			p.t.setNametableX(false)
		}
		if p.ctrl.nametableY() {
			p.t.setNametableY(true)
		} else {
			p.t.setNametableY(false)
		}
	case 1: // PPUMASK
		p.mask = mask(value)
	case 3: // OAMADDR
		p.oamAddr = value
	case 4: // OAMDATA
		p.oam[p.oamAddr] = value
		// OAMADDR does not increment on write (spec's simplified choice).
	case 5: // PPUSCROLL
		if !p.latch {
			p.fineX = value & 0x07
			p.t.setCoarseX(uint16(value >> 3))
		} else {
			p.t.setFineY(uint16(value & 0x07))
			p.t.setCoarseY(uint16(value >> 3))
		}
		p.latch = !p.latch
	case 6: // PPUADDR
		if !p.latch {
			p.t = loopy((uint16(value)&0x3F)<<8 | uint16(p.t)&0x00FF)
		} else {
			p.t = loopy(uint16(p.t)&0xFF00 | uint16(value))
			p.v = p.t
		}
		p.latch = !p.latch
	case 7: // PPUDATA
		p.writePPUDATA(value)
	}
}

func (p *PPU) readPPUDATA() uint8 {
	addr := uint16(p.v) & 0x3FFF
	result := p.dataBuffer
	p.dataBuffer = p.vramRead(addr)
	if addr >= 0x3F00 {
		result = p.dataBuffer
	}
	p.v = loopy(uint16(p.v) + p.ctrl.incrementStep())
	return result
}

func (p *PPU) writePPUDATA(value uint8) {
	addr := uint16(p.v) & 0x3FFF
	p.vramWrite(addr, value)
	p.v = loopy(uint16(p.v) + p.ctrl.incrementStep())
}

func (p *PPU) vramRead(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		v, _ := p.cart.PPURead(addr)
		return v
	case addr < 0x3F00:
		return p.nametables[p.mirroredTable(addr)][addr&0x03FF]
	default:
		return p.paletteRAM[paletteAddr(addr)]
	}
}

func (p *PPU) vramWrite(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		p.cart.PPUWrite(addr, value)
	case addr < 0x3F00:
		p.nametables[p.mirroredTable(addr)][addr&0x03FF] = value
	default:
		p.paletteRAM[paletteAddr(addr)] = value
	}
}

// mirroredTable maps a 0x2000-0x3EFF nametable address down to one of the
// two physical 1 KiB buffers per the cartridge's mirroring mode.
func (p *PPU) mirroredTable(addr uint16) int {
	table := (addr >> 10) & 0x03 // which of the 4 logical 1KiB tables
	switch p.cart.Mirroring() {
	case mapper.MirrorVertical:
		return int(table & 0x01)
	default: // horizontal (and four-screen, approximated as horizontal)
		return int(table >> 1)
	}
}

func (p *PPU) transferAddressX() {
	p.v.setNametableX(p.t.nametableX())
	p.v.setCoarseX(p.t.coarseX())
}

func (p *PPU) transferAddressY() {
	p.v.setNametableY(p.t.nametableY())
	p.v.setCoarseY(p.t.coarseY())
	p.v.setFineY(p.t.fineY())
}

func (p *PPU) loadBackgroundShifters() {
	p.bgShifterPatternLo = p.bgShifterPatternLo&0xFF00 | uint16(p.bgNextTileLSB)
	p.bgShifterPatternHi = p.bgShifterPatternHi&0xFF00 | uint16(p.bgNextTileMSB)

	var lo, hi uint16
	if p.bgNextTileAttrib&0x01 != 0 {
		lo = 0xFF
	}
	if p.bgNextTileAttrib&0x02 != 0 {
		hi = 0xFF
	}
	p.bgShifterAttrLo = p.bgShifterAttrLo&0xFF00 | lo
	p.bgShifterAttrHi = p.bgShifterAttrHi&0xFF00 | hi
}

func (p *PPU) updateShifters() {
	if p.mask.renderBackground() {
		p.bgShifterPatternLo <<= 1
		p.bgShifterPatternHi <<= 1
		p.bgShifterAttrLo <<= 1
		p.bgShifterAttrHi <<= 1
	}
	if p.mask.renderSprites() && p.Cycle >= 1 && p.Cycle < 258 {
		p.updateSpriteShifters()
	}
}

// Clock advances the PPU by exactly one dot.
func (p *PPU) Clock() {
	renderingLine := p.Scanline >= -1 && p.Scanline < 240

	if renderingLine {
		if p.Scanline == 0 && p.Cycle == 0 && p.FrameCount%2 == 1 && p.mask.renderingEnabled() {
			p.Cycle = 1
		}
		if p.Scanline == -1 && p.Cycle == 1 {
			p.stat.setVerticalBlank(false)
			p.stat.setSpriteZeroHit(false)
			p.stat.setSpriteOverflow(false)
			for i := range p.spritePatternLo {
				p.spritePatternLo[i] = 0
				p.spritePatternHi[i] = 0
			}
		}

		if (p.Cycle >= 2 && p.Cycle < 258) || (p.Cycle >= 321 && p.Cycle < 338) {
			p.updateShifters()
			switch (p.Cycle - 1) % 8 {
			case 0:
				p.loadBackgroundShifters()
				p.bgNextTileID = p.vramRead(0x2000 | (uint16(p.v) & 0x0FFF))
			case 2:
				addr := 0x23C0 | uint16(p.boolBit(p.v.nametableY()))<<11 | uint16(p.boolBit(p.v.nametableX()))<<10 |
					(p.v.coarseY()>>2)<<3 | (p.v.coarseX() >> 2)
				attr := p.vramRead(addr)
				if p.v.coarseY()&0x02 != 0 {
					attr >>= 4
				}
				if p.v.coarseX()&0x02 != 0 {
					attr >>= 2
				}
				p.bgNextTileAttrib = attr & 0x03
			case 4:
				base := p.ctrl.patternBackground() + uint16(p.bgNextTileID)<<4 + p.v.fineY()
				p.bgNextTileLSB = p.vramRead(base)
			case 6:
				base := p.ctrl.patternBackground() + uint16(p.bgNextTileID)<<4 + p.v.fineY() + 8
				p.bgNextTileMSB = p.vramRead(base)
			case 7:
				if p.mask.renderingEnabled() {
					p.v.incrementCoarseX()
				}
			}
		}

		if p.Cycle == 256 {
			if p.mask.renderingEnabled() {
				p.v.incrementFineY()
			}
		}
		if p.Cycle == 257 {
			p.loadBackgroundShifters()
			if p.mask.renderingEnabled() {
				p.transferAddressX()
			}
		}
		if p.Scanline == -1 && p.Cycle >= 280 && p.Cycle < 305 {
			if p.mask.renderingEnabled() {
				p.transferAddressY()
			}
		}

		if p.Scanline >= 0 && p.Cycle == 257 {
			p.evaluateSprites()
		}
		if p.Scanline >= 0 && p.Cycle == 340 {
			p.fetchSpritePatterns()
		}
	}

	if p.Scanline >= 0 && p.Scanline < 240 && p.Cycle >= 1 && p.Cycle <= 256 {
		p.renderPixel()
	}

	if p.Scanline == 241 && p.Cycle == 1 {
		p.stat.setVerticalBlank(true)
		if p.ctrl.nmiEnabled() {
			p.nmiOccurred = true
			nlog.PPU("NMI asserted at frame %d", p.FrameCount)
		}
	}

	p.Cycle++
	if p.Cycle >= 341 {
		p.Cycle = 0
		p.Scanline++
		if p.Scanline >= 261 {
			p.Scanline = -1
			p.FrameComplete = true
			p.FrameCount++
		}
	}
}

func (p *PPU) boolBit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
