package mapper

import "testing"

func TestNROM16KBMirroring(t *testing.T) {
	data := &CartridgeData{PRGROM: make([]uint8, 16384), PRGBanks: 1}
	m, err := New(0, data)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	lo, ok := m.MapCPURead(0x8000)
	if !ok {
		t.Fatalf("MapCPURead(0x8000) not ok")
	}
	hi, ok := m.MapCPURead(0xC000)
	if !ok {
		t.Fatalf("MapCPURead(0xC000) not ok")
	}
	if lo != hi {
		t.Fatalf("offset(0x8000)=%d != offset(0xC000)=%d, want mirrored", lo, hi)
	}
}

func TestUxROMBankSwitch(t *testing.T) {
	data := &CartridgeData{PRGROM: make([]uint8, 16384*4), PRGBanks: 4}
	m, err := New(2, data)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.MapCPUWrite(0x8000, 0x02)
	off, ok := m.MapCPURead(0x8000)
	if !ok || off != 2*16384 {
		t.Fatalf("switchable bank offset = %d, %v, want %d, true", off, ok, 2*16384)
	}
	fixedOff, ok := m.MapCPURead(0xC000)
	if !ok || fixedOff != 3*16384 {
		t.Fatalf("fixed last bank offset = %d, %v, want %d, true", fixedOff, ok, 3*16384)
	}
}

func TestCNROMBankSwitch(t *testing.T) {
	data := &CartridgeData{CHRROM: make([]uint8, 8192*4), CHRBanks: 4}
	m, err := New(3, data)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.MapCPUWrite(0x8000, 0x03)
	off, ok := m.MapPPURead(0x0000)
	if !ok || off != 3*8192 {
		t.Fatalf("CHR bank offset = %d, %v, want %d, true", off, ok, 3*8192)
	}
}

func TestMMC1ControlResetOnBit7(t *testing.T) {
	data := &CartridgeData{PRGROM: make([]uint8, 16384*16), PRGBanks: 16}
	mi, err := New(1, data)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m := mi.(*mmc1)

	// Shift in a control value selecting 32KB mode (bits 2-3 = 00) and
	// vertical mirroring (bits 0-1 = 10).
	writeMMC1Serial(m, 0x02) // 0b00010 -> bit0=0,1=1 -> mirror=2 (vertical)

	if m.prgMode != 0 {
		t.Fatalf("prgMode = %d, want 0 (32KB mode)", m.prgMode)
	}
	if m.MirroringMode() != MirrorVertical {
		t.Fatalf("mirroring = %v, want vertical", m.MirroringMode())
	}

	// A write with bit 7 set resets the shift register and forces
	// prgMode back to 3 regardless of in-flight shifting.
	m.MapCPUWrite(0x8000, 0x80)
	if m.prgMode != 3 || m.shiftCount != 0 {
		t.Fatalf("after bit-7 reset: prgMode=%d shiftCount=%d, want 3, 0", m.prgMode, m.shiftCount)
	}
}

// writeMMC1Serial performs the 5 writes needed to load val into the control
// register ($8000-$9FFF), one bit per write, LSB first.
func writeMMC1Serial(m *mmc1, val uint8) {
	for i := 0; i < 5; i++ {
		bit := (val >> uint(i)) & 0x01
		m.MapCPUWrite(0x8000, bit)
	}
}
