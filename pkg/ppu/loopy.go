package ppu

// loopy is the 15-bit VRAM-address register used for both v (current) and
// t (temporary): {coarse_x:5, coarse_y:5, nametable_x:1, nametable_y:1,
// fine_y:3}, named after Loopy, who documented its layout. Bit accessors
// compose from the single backing uint16 rather than separate fields, so
// the whole register can still be copied/compared as one value (v = t).
type loopy uint16

const (
	loopyCoarseXMask    = 0x001F
	loopyCoarseYShift   = 5
	loopyCoarseYMask    = 0x03E0
	loopyNametableXBit  = 1 << 10
	loopyNametableYBit  = 1 << 11
	loopyFineYShift     = 12
	loopyFineYMask      = 0x7000
)

func (l loopy) coarseX() uint16    { return uint16(l) & loopyCoarseXMask }
func (l loopy) coarseY() uint16    { return (uint16(l) & loopyCoarseYMask) >> loopyCoarseYShift }
func (l loopy) nametableX() bool   { return uint16(l)&loopyNametableXBit != 0 }
func (l loopy) nametableY() bool   { return uint16(l)&loopyNametableYBit != 0 }
func (l loopy) fineY() uint16      { return (uint16(l) & loopyFineYMask) >> loopyFineYShift }
func (l loopy) nametableIndex() uint16 {
	idx := uint16(0)
	if l.nametableX() {
		idx |= 1
	}
	if l.nametableY() {
		idx |= 2
	}
	return idx
}

func (l *loopy) setCoarseX(v uint16) {
	*l = loopy(uint16(*l)&^uint16(loopyCoarseXMask) | (v & loopyCoarseXMask))
}

func (l *loopy) setCoarseY(v uint16) {
	*l = loopy(uint16(*l)&^uint16(loopyCoarseYMask) | ((v << loopyCoarseYShift) & loopyCoarseYMask))
}

func (l *loopy) setNametableX(v bool) {
	if v {
		*l |= loopyNametableXBit
	} else {
		*l &^= loopyNametableXBit
	}
}

func (l *loopy) setNametableY(v bool) {
	if v {
		*l |= loopyNametableYBit
	} else {
		*l &^= loopyNametableYBit
	}
}

func (l *loopy) toggleNametableX() { *l ^= loopyNametableXBit }
func (l *loopy) toggleNametableY() { *l ^= loopyNametableYBit }

func (l *loopy) setFineY(v uint16) {
	*l = loopy(uint16(*l)&^uint16(loopyFineYMask) | ((v << loopyFineYShift) & loopyFineYMask))
}

// incrementCoarseX moves to the next tile column, flipping the horizontal
// nametable selector when it wraps past column 31.
func (l *loopy) incrementCoarseX() {
	if l.coarseX() == 31 {
		l.setCoarseX(0)
		l.toggleNametableX()
	} else {
		l.setCoarseX(l.coarseX() + 1)
	}
}

// incrementFineY moves to the next pixel row, cascading into coarse_y (and
// the vertical nametable selector) per the two documented wrap points:
// row 29 wraps into the next nametable, row 31 wraps without flipping (the
// out-of-bounds rows some games use for off-screen attribute storage).
func (l *loopy) incrementFineY() {
	if l.fineY() < 7 {
		l.setFineY(l.fineY() + 1)
		return
	}
	l.setFineY(0)
	switch l.coarseY() {
	case 29:
		l.setCoarseY(0)
		l.toggleNametableY()
	case 31:
		l.setCoarseY(0)
	default:
		l.setCoarseY(l.coarseY() + 1)
	}
}
