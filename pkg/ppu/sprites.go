package ppu

// evaluateSprites scans all 64 OAM entries for ones visible on the next
// scanline and copies up to the first 8 matches into secondary OAM (spec
// §4.4.4). A 9th match sets the sprite-overflow status bit and evaluation
// stops, matching this spec's simplified (non-buggy) overflow rule.
func (p *PPU) evaluateSprites() {
	height := p.ctrl.spriteHeight()
	p.spriteCount = 0
	p.spriteZeroHitPossible = false

	for i := 0; i < 32; i++ {
		p.secondaryOAM[i] = 0xFF
	}

	for n := 0; n < 64; n++ {
		y := int(p.oam[n*4])
		diff := p.Scanline - y
		if diff < 0 || diff >= height {
			continue
		}
		if p.spriteCount == 8 {
			p.stat.setSpriteOverflow(true)
			break
		}
		if n == 0 {
			p.spriteZeroHitPossible = true
		}
		copy(p.secondaryOAM[p.spriteCount*4:p.spriteCount*4+4], p.oam[n*4:n*4+4])
		p.spriteCount++
	}
}

// fetchSpritePatterns computes each selected sprite's pattern row for the
// upcoming scanline, honoring vertical/horizontal flip and 8x8 vs 8x16
// mode, and loads the per-sprite shifters (spec §4.4.4, cycle 340).
func (p *PPU) fetchSpritePatterns() {
	height := p.ctrl.spriteHeight()

	for i := 0; i < p.spriteCount; i++ {
		y := p.secondaryOAM[i*4]
		tile := p.secondaryOAM[i*4+1]
		attr := p.secondaryOAM[i*4+2]
		x := p.secondaryOAM[i*4+3]

		flipV := attr&0x80 != 0
		flipH := attr&0x40 != 0

		row := uint16(p.Scanline) - uint16(y)
		var base uint16
		if height == 16 {
			if flipV {
				row = 15 - row
			}
			table := uint16(tile&0x01) << 12
			tileIndex := uint16(tile &^ 0x01)
			if row >= 8 {
				tileIndex++
				row -= 8
			}
			base = table + tileIndex<<4 + row
		} else {
			if flipV {
				row = 7 - row
			}
			base = p.ctrl.patternSprite() + uint16(tile)<<4 + row
		}

		lo := p.vramRead(base)
		hi := p.vramRead(base + 8)
		if flipH {
			lo = reverseBits(lo)
			hi = reverseBits(hi)
		}

		p.spritePatternLo[i] = lo
		p.spritePatternHi[i] = hi
		p.spriteX[i] = x
		p.spriteAttr[i] = attr
		p.spriteIsZero[i] = p.spriteZeroHitPossible && i == 0
	}
	for i := p.spriteCount; i < 8; i++ {
		p.spritePatternLo[i] = 0
		p.spritePatternHi[i] = 0
	}
}

func reverseBits(b uint8) uint8 {
	b = (b&0xF0)>>4 | (b&0x0F)<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}

// updateSpriteShifters decrements each sprite's x counter every dot; when
// it reaches 0 the sprite's pattern shifters begin shifting out bits.
func (p *PPU) updateSpriteShifters() {
	for i := 0; i < p.spriteCount; i++ {
		if p.spriteX[i] > 0 {
			p.spriteX[i]--
			continue
		}
		p.spritePatternLo[i] <<= 1
		p.spritePatternHi[i] <<= 1
	}
}

// renderPixel composites the background and foreground planes for the
// current dot and writes the resolved color into the framebuffer (spec
// §4.4.5).
func (p *PPU) renderPixel() {
	x := p.Cycle - 1
	y := p.Scanline

	var bgPixel, bgPalette uint8
	if p.mask.renderBackground() && !(x < 8 && !p.mask.showBackgroundLeft()) {
		bitMux := uint16(0x8000) >> p.fineX
		p0 := uint8(0)
		p1 := uint8(0)
		if p.bgShifterPatternLo&bitMux != 0 {
			p0 = 1
		}
		if p.bgShifterPatternHi&bitMux != 0 {
			p1 = 1
		}
		bgPixel = p1<<1 | p0

		a0 := uint8(0)
		a1 := uint8(0)
		if p.bgShifterAttrLo&bitMux != 0 {
			a0 = 1
		}
		if p.bgShifterAttrHi&bitMux != 0 {
			a1 = 1
		}
		bgPalette = a1<<1 | a0
	}

	var fgPixel, fgPalette uint8
	fgPriority := false
	isSpriteZero := false
	if p.mask.renderSprites() && !(x < 8 && !p.mask.showSpritesLeft()) {
		for i := 0; i < p.spriteCount; i++ {
			if p.spriteX[i] != 0 {
				continue
			}
			p0 := uint8(0)
			p1 := uint8(0)
			if p.spritePatternLo[i]&0x80 != 0 {
				p0 = 1
			}
			if p.spritePatternHi[i]&0x80 != 0 {
				p1 = 1
			}
			pixel := p1<<1 | p0
			if pixel == 0 {
				continue
			}
			fgPixel = pixel
			fgPalette = (p.spriteAttr[i] & 0x03) + 4
			fgPriority = p.spriteAttr[i]&0x20 == 0
			isSpriteZero = p.spriteIsZero[i]
			break
		}
	}

	var finalPixel, finalPalette uint8
	switch {
	case bgPixel == 0 && fgPixel == 0:
		finalPixel, finalPalette = 0, 0
	case bgPixel == 0 && fgPixel != 0:
		finalPixel, finalPalette = fgPixel, fgPalette
	case bgPixel != 0 && fgPixel == 0:
		finalPixel, finalPalette = bgPixel, bgPalette
	default:
		if fgPriority {
			finalPixel, finalPalette = fgPixel, fgPalette
		} else {
			finalPixel, finalPalette = bgPixel, bgPalette
		}
		if isSpriteZero && p.mask.renderBackground() && p.mask.renderSprites() {
			leftEdge := x < 8 && (!p.mask.showBackgroundLeft() || !p.mask.showSpritesLeft())
			if !leftEdge && x != 255 {
				p.stat.setSpriteZeroHit(true)
			}
		}
	}

	colorIndex := p.vramRead(0x3F00 + uint16(finalPalette)<<2 + uint16(finalPixel))
	if y >= 0 && y < screenHeight && x >= 0 && x < screenWidth {
		p.FrameBuffer[y*screenWidth+x] = rgba(colorIndex)
	}
}
