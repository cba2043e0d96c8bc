// Package cpu implements a cycle-accurate 6502 (Ricoh 2A03) core: the
// instruction decoder, its 13 addressing modes, and reset/NMI/IRQ servicing.
//
// Unlike a Step()-per-instruction interpreter, Clock models one system
// cycle: an instruction's full decode-and-execute happens atomically on the
// first Clock call that finds cyclesRemaining at zero, which then absorbs the instruction's
// cost so subsequent Clock calls simply count it down. This is what lets a
// scheduler interleave CPU and PPU cycles 1:3 without the CPU ever running
// ahead mid-instruction.
package cpu

import "github.com/mikami/nesgo/pkg/nlog"

// Status flag bits, matching STATUS bit order C,Z,I,D,B,U,V,N at bits 0-7.
const (
	FlagCarry     uint8 = 1 << 0
	FlagZero      uint8 = 1 << 1
	FlagInterrupt uint8 = 1 << 2
	FlagDecimal   uint8 = 1 << 3
	FlagBreak     uint8 = 1 << 4
	FlagUnused    uint8 = 1 << 5
	FlagOverflow  uint8 = 1 << 6
	FlagNegative  uint8 = 1 << 7
)

// Bus is the address space the CPU reads and writes through.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// CPU is a 6502 core driven one cycle at a time via Clock.
type CPU struct {
	A  uint8
	X  uint8
	Y  uint8
	SP uint8
	PC uint16
	P  uint8

	bus Bus

	TotalCycles     uint64
	cyclesRemaining uint8
	extraCycles     uint8

	nmiPending bool
	irqPending bool

	// current instruction's decoded operand, valid only while executing.
	operandAddr uint16
	operandMode mode
	isAccMode   bool
	pageCrossed bool
	instrAddr   uint16 // address of the current instruction's opcode byte
}

// New constructs a CPU wired to bus. Reset must be called before Clock.
func New(bus Bus) *CPU {
	return &CPU{bus: bus}
}

// Reset puts the CPU in its post-reset state: SP=0xFD, STATUS=U|I, PC
// loaded from the reset vector at 0xFFFC/D. Eight cycles are consumed
// exactly as a real reset sequence would, modeled here as the CPU being
// busy (cyclesRemaining) rather than by stepping bus reads eight times.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.P = FlagUnused | FlagInterrupt
	c.PC = c.read16(0xFFFC)
	c.cyclesRemaining = 8
	c.TotalCycles = 0
}

// TriggerNMI latches a pending non-maskable interrupt. NMI is always
// serviced, regardless of the I flag, at the next instruction boundary.
func (c *CPU) TriggerNMI() { c.nmiPending = true }

// TriggerIRQ latches a pending maskable interrupt. IRQ is serviced only
// when the I flag is clear.
func (c *CPU) TriggerIRQ() { c.irqPending = true }

// Clock advances the CPU by exactly one cycle.
func (c *CPU) Clock() {
	if c.cyclesRemaining > 0 {
		c.cyclesRemaining--
		c.TotalCycles++
		return
	}

	if c.nmiPending {
		c.nmiPending = false
		c.serviceInterrupt(0xFFFA, true)
		c.TotalCycles++
		return
	}
	if c.irqPending {
		c.irqPending = false
		if !c.getFlag(FlagInterrupt) {
			c.serviceInterrupt(0xFFFE, false)
			c.TotalCycles++
			return
		}
	}

	c.instrAddr = c.PC
	op := c.read(c.PC)
	c.PC++

	entry := opcodeTable[op]
	c.decodeOperand(entry.mode)

	entry.exec(c)

	total := entry.cycles + c.extraCycles
	if entry.pageCrossExtra && c.pageCrossed {
		total++
	}
	c.extraCycles = 0

	nlog.CPU("opcode=$%02X %s mode=%d PC=$%04X A=$%02X X=$%02X Y=$%02X P=$%02X cycles=%d",
		op, entry.name, entry.mode, c.PC, c.A, c.X, c.Y, c.P, total)

	c.cyclesRemaining = total - 1
	c.TotalCycles++
}

// serviceInterrupt pushes PC and STATUS (B clear, U set) and jumps through
// vector. nmi selects the cycle cost: 8 cycles for NMI, 7 for IRQ. BRK does
// not use this path; execBRK pushes its own frame with B set.
func (c *CPU) serviceInterrupt(vector uint16, nmi bool) {
	c.push16(c.PC)
	status := c.P | FlagUnused
	status &^= FlagBreak
	c.push(status)
	c.setFlag(FlagInterrupt, true)
	c.PC = c.read16(vector)
	if nmi {
		c.cyclesRemaining = 7 // 8 total minus the cycle already charged above
	} else {
		c.cyclesRemaining = 6 // 7 total
	}
}

func (c *CPU) getFlag(flag uint8) bool { return c.P&flag != 0 }

func (c *CPU) setFlag(flag uint8, set bool) {
	if set {
		c.P |= flag
	} else {
		c.P &^= flag
	}
}

func (c *CPU) setZN(v uint8) {
	c.setFlag(FlagZero, v == 0)
	c.setFlag(FlagNegative, v&0x80 != 0)
}

func (c *CPU) read(addr uint16) uint8  { return c.bus.Read(addr) }
func (c *CPU) write(addr uint16, v uint8) { c.bus.Write(addr, v) }

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.read(addr))
	hi := uint16(c.read(addr + 1))
	return hi<<8 | lo
}

func (c *CPU) push(v uint8) {
	c.write(0x0100|uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.read(0x0100 | uint16(c.SP))
}

func (c *CPU) push16(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	return hi<<8 | lo
}

// operand fetches the byte an instruction operates on: from the decoded
// address, or from the accumulator for ACC-mode shifts.
func (c *CPU) operand() uint8 {
	if c.isAccMode {
		return c.A
	}
	return c.read(c.operandAddr)
}

func (c *CPU) storeOperand(v uint8) {
	if c.isAccMode {
		c.A = v
		return
	}
	c.write(c.operandAddr, v)
}
