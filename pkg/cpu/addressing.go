package cpu

// mode identifies one of the 6502's 13 addressing modes.
type mode uint8

const (
	modeIMP mode = iota
	modeACC
	modeIMM
	modeZP0
	modeZPX
	modeZPY
	modeABS
	modeABX
	modeABY
	modeIND
	modeIZX
	modeIZY
	modeREL
)

// decodeOperand fetches whatever operand bytes the instruction needs,
// advances PC past them, and records the effective address (or ACC-mode
// flag) and whether a page boundary was crossed, for the caller to charge
// an extra cycle against read-type instructions.
func (c *CPU) decodeOperand(m mode) {
	c.operandMode = m
	c.isAccMode = false
	c.pageCrossed = false

	switch m {
	case modeIMP:
		// No operand.
	case modeACC:
		c.isAccMode = true
	case modeIMM:
		c.operandAddr = c.PC
		c.PC++
	case modeZP0:
		c.operandAddr = uint16(c.read(c.PC))
		c.PC++
	case modeZPX:
		c.operandAddr = uint16(c.read(c.PC)+c.X) & 0x00FF
		c.PC++
	case modeZPY:
		c.operandAddr = uint16(c.read(c.PC)+c.Y) & 0x00FF
		c.PC++
	case modeABS:
		c.operandAddr = c.read16(c.PC)
		c.PC += 2
	case modeABX:
		base := c.read16(c.PC)
		c.PC += 2
		addr := base + uint16(c.X)
		c.operandAddr = addr
		c.pageCrossed = (base & 0xFF00) != (addr & 0xFF00)
	case modeABY:
		base := c.read16(c.PC)
		c.PC += 2
		addr := base + uint16(c.Y)
		c.operandAddr = addr
		c.pageCrossed = (base & 0xFF00) != (addr & 0xFF00)
	case modeIND:
		ptr := c.read16(c.PC)
		c.PC += 2
		var lo, hi uint8
		lo = c.read(ptr)
		if ptr&0x00FF == 0x00FF {
			// Hardware page-wrap bug: high byte comes from the start of
			// the same page instead of the next page.
			hi = c.read(ptr & 0xFF00)
		} else {
			hi = c.read(ptr + 1)
		}
		c.operandAddr = uint16(hi)<<8 | uint16(lo)
	case modeIZX:
		zp := c.read(c.PC) + c.X
		c.PC++
		lo := uint16(c.read(uint16(zp)))
		hi := uint16(c.read(uint16(zp + 1)))
		c.operandAddr = hi<<8 | lo
	case modeIZY:
		zp := c.read(c.PC)
		c.PC++
		lo := uint16(c.read(uint16(zp)))
		hi := uint16(c.read(uint16(zp + 1)))
		base := hi<<8 | lo
		addr := base + uint16(c.Y)
		c.operandAddr = addr
		c.pageCrossed = (base & 0xFF00) != (addr & 0xFF00)
	case modeREL:
		offset := int8(c.read(c.PC))
		c.PC++
		c.operandAddr = uint16(int32(c.PC) + int32(offset))
	}
}
