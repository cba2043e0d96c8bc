package cpu

// opcodeEntry is one row of the 256-entry decode table: spec §4.5.1's
// (mnemonic, addressing mode, cycle cost) tuple plus whether a page
// boundary crossed during addressing charges one more cycle (true only for
// read-type instructions in ABX/ABY/IZY mode; writes and read-modify-write
// instructions already cost the worst case in their base cycle count).
type opcodeEntry struct {
	name           string
	mode           mode
	cycles         uint8
	pageCrossExtra bool
	exec           func(c *CPU)
}

var opcodeTable [256]opcodeEntry

func set(op uint8, name string, m mode, cycles uint8, pageCrossExtra bool, exec func(c *CPU)) {
	opcodeTable[op] = opcodeEntry{name: name, mode: m, cycles: cycles, pageCrossExtra: pageCrossExtra, exec: exec}
}

func init() {
	// Default fill: every undefined opcode slot decodes as an implied,
	// 2-cycle NOP per spec §4.5.1.
	for i := range opcodeTable {
		opcodeTable[i] = opcodeEntry{name: "NOP", mode: modeIMP, cycles: 2, exec: execNOP}
	}

	set(0x00, "BRK", modeIMP, 7, false, execBRK)
	set(0x01, "ORA", modeIZX, 6, false, execORA)
	set(0x05, "ORA", modeZP0, 3, false, execORA)
	set(0x06, "ASL", modeZP0, 5, false, execASL)
	set(0x08, "PHP", modeIMP, 3, false, execPHP)
	set(0x09, "ORA", modeIMM, 2, false, execORA)
	set(0x0A, "ASL", modeACC, 2, false, execASL)
	set(0x0D, "ORA", modeABS, 4, false, execORA)
	set(0x0E, "ASL", modeABS, 6, false, execASL)

	set(0x10, "BPL", modeREL, 2, false, execBPL)
	set(0x11, "ORA", modeIZY, 5, true, execORA)
	set(0x15, "ORA", modeZPX, 4, false, execORA)
	set(0x16, "ASL", modeZPX, 6, false, execASL)
	set(0x18, "CLC", modeIMP, 2, false, execCLC)
	set(0x19, "ORA", modeABY, 4, true, execORA)
	set(0x1D, "ORA", modeABX, 4, true, execORA)
	set(0x1E, "ASL", modeABX, 7, false, execASL)

	set(0x20, "JSR", modeABS, 6, false, execJSR)
	set(0x21, "AND", modeIZX, 6, false, execAND)
	set(0x24, "BIT", modeZP0, 3, false, execBIT)
	set(0x25, "AND", modeZP0, 3, false, execAND)
	set(0x26, "ROL", modeZP0, 5, false, execROL)
	set(0x28, "PLP", modeIMP, 4, false, execPLP)
	set(0x29, "AND", modeIMM, 2, false, execAND)
	set(0x2A, "ROL", modeACC, 2, false, execROL)
	set(0x2C, "BIT", modeABS, 4, false, execBIT)
	set(0x2D, "AND", modeABS, 4, false, execAND)
	set(0x2E, "ROL", modeABS, 6, false, execROL)

	set(0x30, "BMI", modeREL, 2, false, execBMI)
	set(0x31, "AND", modeIZY, 5, true, execAND)
	set(0x35, "AND", modeZPX, 4, false, execAND)
	set(0x36, "ROL", modeZPX, 6, false, execROL)
	set(0x38, "SEC", modeIMP, 2, false, execSEC)
	set(0x39, "AND", modeABY, 4, true, execAND)
	set(0x3D, "AND", modeABX, 4, true, execAND)
	set(0x3E, "ROL", modeABX, 7, false, execROL)

	set(0x40, "RTI", modeIMP, 6, false, execRTI)
	set(0x41, "EOR", modeIZX, 6, false, execEOR)
	set(0x45, "EOR", modeZP0, 3, false, execEOR)
	set(0x46, "LSR", modeZP0, 5, false, execLSR)
	set(0x48, "PHA", modeIMP, 3, false, execPHA)
	set(0x49, "EOR", modeIMM, 2, false, execEOR)
	set(0x4A, "LSR", modeACC, 2, false, execLSR)
	set(0x4C, "JMP", modeABS, 3, false, execJMP)
	set(0x4D, "EOR", modeABS, 4, false, execEOR)
	set(0x4E, "LSR", modeABS, 6, false, execLSR)

	set(0x50, "BVC", modeREL, 2, false, execBVC)
	set(0x51, "EOR", modeIZY, 5, true, execEOR)
	set(0x55, "EOR", modeZPX, 4, false, execEOR)
	set(0x56, "LSR", modeZPX, 6, false, execLSR)
	set(0x58, "CLI", modeIMP, 2, false, execCLI)
	set(0x59, "EOR", modeABY, 4, true, execEOR)
	set(0x5D, "EOR", modeABX, 4, true, execEOR)
	set(0x5E, "LSR", modeABX, 7, false, execLSR)

	set(0x60, "RTS", modeIMP, 6, false, execRTS)
	set(0x61, "ADC", modeIZX, 6, false, execADC)
	set(0x65, "ADC", modeZP0, 3, false, execADC)
	set(0x66, "ROR", modeZP0, 5, false, execROR)
	set(0x68, "PLA", modeIMP, 4, false, execPLA)
	set(0x69, "ADC", modeIMM, 2, false, execADC)
	set(0x6A, "ROR", modeACC, 2, false, execROR)
	set(0x6C, "JMP", modeIND, 5, false, execJMP)
	set(0x6D, "ADC", modeABS, 4, false, execADC)
	set(0x6E, "ROR", modeABS, 6, false, execROR)

	set(0x70, "BVS", modeREL, 2, false, execBVS)
	set(0x71, "ADC", modeIZY, 5, true, execADC)
	set(0x75, "ADC", modeZPX, 4, false, execADC)
	set(0x76, "ROR", modeZPX, 6, false, execROR)
	set(0x78, "SEI", modeIMP, 2, false, execSEI)
	set(0x79, "ADC", modeABY, 4, true, execADC)
	set(0x7D, "ADC", modeABX, 4, true, execADC)
	set(0x7E, "ROR", modeABX, 7, false, execROR)

	set(0x81, "STA", modeIZX, 6, false, execSTA)
	set(0x84, "STY", modeZP0, 3, false, execSTY)
	set(0x85, "STA", modeZP0, 3, false, execSTA)
	set(0x86, "STX", modeZP0, 3, false, execSTX)
	set(0x88, "DEY", modeIMP, 2, false, execDEY)
	set(0x8A, "TXA", modeIMP, 2, false, execTXA)
	set(0x8C, "STY", modeABS, 4, false, execSTY)
	set(0x8D, "STA", modeABS, 4, false, execSTA)
	set(0x8E, "STX", modeABS, 4, false, execSTX)

	set(0x90, "BCC", modeREL, 2, false, execBCC)
	set(0x91, "STA", modeIZY, 6, false, execSTA)
	set(0x95, "STA", modeZPX, 4, false, execSTA)
	set(0x96, "STX", modeZPY, 4, false, execSTX)
	set(0x98, "TYA", modeIMP, 2, false, execTYA)
	set(0x99, "STA", modeABY, 5, false, execSTA)
	set(0x9A, "TXS", modeIMP, 2, false, execTXS)
	set(0x9D, "STA", modeABX, 5, false, execSTA)

	set(0xA0, "LDY", modeIMM, 2, false, execLDY)
	set(0xA1, "LDA", modeIZX, 6, false, execLDA)
	set(0xA2, "LDX", modeIMM, 2, false, execLDX)
	set(0xA4, "LDY", modeZP0, 3, false, execLDY)
	set(0xA5, "LDA", modeZP0, 3, false, execLDA)
	set(0xA6, "LDX", modeZP0, 3, false, execLDX)
	set(0xA8, "TAY", modeIMP, 2, false, execTAY)
	set(0xA9, "LDA", modeIMM, 2, false, execLDA)
	set(0xAA, "TAX", modeIMP, 2, false, execTAX)
	set(0xAC, "LDY", modeABS, 4, false, execLDY)
	set(0xAD, "LDA", modeABS, 4, false, execLDA)
	set(0xAE, "LDX", modeABS, 4, false, execLDX)

	set(0xB0, "BCS", modeREL, 2, false, execBCS)
	set(0xB1, "LDA", modeIZY, 5, true, execLDA)
	set(0xB4, "LDY", modeZPX, 4, false, execLDY)
	set(0xB5, "LDA", modeZPX, 4, false, execLDA)
	set(0xB6, "LDX", modeZPY, 4, false, execLDX)
	set(0xB8, "CLV", modeIMP, 2, false, execCLV)
	set(0xB9, "LDA", modeABY, 4, true, execLDA)
	set(0xBA, "TSX", modeIMP, 2, false, execTSX)
	set(0xBC, "LDY", modeABX, 4, true, execLDY)
	set(0xBD, "LDA", modeABX, 4, true, execLDA)
	set(0xBE, "LDX", modeABY, 4, true, execLDX)

	set(0xC0, "CPY", modeIMM, 2, false, execCPY)
	set(0xC1, "CMP", modeIZX, 6, false, execCMP)
	set(0xC4, "CPY", modeZP0, 3, false, execCPY)
	set(0xC5, "CMP", modeZP0, 3, false, execCMP)
	set(0xC6, "DEC", modeZP0, 5, false, execDEC)
	set(0xC8, "INY", modeIMP, 2, false, execINY)
	set(0xC9, "CMP", modeIMM, 2, false, execCMP)
	set(0xCA, "DEX", modeIMP, 2, false, execDEX)
	set(0xCC, "CPY", modeABS, 4, false, execCPY)
	set(0xCD, "CMP", modeABS, 4, false, execCMP)
	set(0xCE, "DEC", modeABS, 6, false, execDEC)

	set(0xD0, "BNE", modeREL, 2, false, execBNE)
	set(0xD1, "CMP", modeIZY, 5, true, execCMP)
	set(0xD5, "CMP", modeZPX, 4, false, execCMP)
	set(0xD6, "DEC", modeZPX, 6, false, execDEC)
	set(0xD8, "CLD", modeIMP, 2, false, execCLD)
	set(0xD9, "CMP", modeABY, 4, true, execCMP)
	set(0xDD, "CMP", modeABX, 4, true, execCMP)
	set(0xDE, "DEC", modeABX, 7, false, execDEC)

	set(0xE0, "CPX", modeIMM, 2, false, execCPX)
	set(0xE1, "SBC", modeIZX, 6, false, execSBC)
	set(0xE4, "CPX", modeZP0, 3, false, execCPX)
	set(0xE5, "SBC", modeZP0, 3, false, execSBC)
	set(0xE6, "INC", modeZP0, 5, false, execINC)
	set(0xE8, "INX", modeIMP, 2, false, execINX)
	set(0xE9, "SBC", modeIMM, 2, false, execSBC)
	set(0xEA, "NOP", modeIMP, 2, false, execNOP)
	set(0xEC, "CPX", modeABS, 4, false, execCPX)
	set(0xED, "SBC", modeABS, 4, false, execSBC)
	set(0xEE, "INC", modeABS, 6, false, execINC)

	set(0xF0, "BEQ", modeREL, 2, false, execBEQ)
	set(0xF1, "SBC", modeIZY, 5, true, execSBC)
	set(0xF5, "SBC", modeZPX, 4, false, execSBC)
	set(0xF6, "INC", modeZPX, 6, false, execINC)
	set(0xF8, "SED", modeIMP, 2, false, execSED)
	set(0xF9, "SBC", modeABY, 4, true, execSBC)
	set(0xFD, "SBC", modeABX, 4, true, execSBC)
	set(0xFE, "INC", modeABX, 7, false, execINC)

	setIllegalOpcodes()
}

// setIllegalOpcodes wires the unofficial opcode families spec §4.5.1 names
// as required-to-decode (LAX, SAX, DCP, ISB, SLO, RLA, SRE, RRA): correct
// addressing mode and cycle cost, NOP-equivalent behavior per the spec's
// explicit stubbing allowance. The alternate SBC encoding at 0xEB executes
// as a full SBC #imm.
func setIllegalOpcodes() {
	type row struct {
		op     uint8
		m      mode
		cycles uint8
		pc     bool
	}

	lax := []row{{0xA3, modeIZX, 6, false}, {0xA7, modeZP0, 3, false}, {0xAF, modeABS, 4, false}, {0xB3, modeIZY, 5, true}, {0xB7, modeZPY, 4, false}, {0xBF, modeABY, 4, true}}
	sax := []row{{0x83, modeIZX, 6, false}, {0x87, modeZP0, 3, false}, {0x8F, modeABS, 4, false}, {0x97, modeZPY, 4, false}}
	dcp := []row{{0xC3, modeIZX, 8, false}, {0xC7, modeZP0, 5, false}, {0xCF, modeABS, 6, false}, {0xD3, modeIZY, 8, false}, {0xD7, modeZPX, 6, false}, {0xDB, modeABY, 7, false}, {0xDF, modeABX, 7, false}}
	isb := []row{{0xE3, modeIZX, 8, false}, {0xE7, modeZP0, 5, false}, {0xEF, modeABS, 6, false}, {0xF3, modeIZY, 8, false}, {0xF7, modeZPX, 6, false}, {0xFB, modeABY, 7, false}, {0xFF, modeABX, 7, false}}
	slo := []row{{0x03, modeIZX, 8, false}, {0x07, modeZP0, 5, false}, {0x0F, modeABS, 6, false}, {0x13, modeIZY, 8, false}, {0x17, modeZPX, 6, false}, {0x1B, modeABY, 7, false}, {0x1F, modeABX, 7, false}}
	rla := []row{{0x23, modeIZX, 8, false}, {0x27, modeZP0, 5, false}, {0x2F, modeABS, 6, false}, {0x33, modeIZY, 8, false}, {0x37, modeZPX, 6, false}, {0x3B, modeABY, 7, false}, {0x3F, modeABX, 7, false}}
	sre := []row{{0x43, modeIZX, 8, false}, {0x47, modeZP0, 5, false}, {0x4F, modeABS, 6, false}, {0x53, modeIZY, 8, false}, {0x57, modeZPX, 6, false}, {0x5B, modeABY, 7, false}, {0x5F, modeABX, 7, false}}
	rra := []row{{0x63, modeIZX, 8, false}, {0x67, modeZP0, 5, false}, {0x6F, modeABS, 6, false}, {0x73, modeIZY, 8, false}, {0x77, modeZPX, 6, false}, {0x7B, modeABY, 7, false}, {0x7F, modeABX, 7, false}}

	groups := map[string][]row{
		"LAX": lax, "SAX": sax, "DCP": dcp, "ISB": isb,
		"SLO": slo, "RLA": rla, "SRE": sre, "RRA": rra,
	}
	for name, rows := range groups {
		for _, r := range rows {
			set(r.op, name, r.m, r.cycles, r.pc, execIllegal)
		}
	}

	set(0xEB, "SBC", modeIMM, 2, false, execSBC)
}
