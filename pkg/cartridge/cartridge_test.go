package cartridge

import (
	"bytes"
	"errors"
	"testing"
)

func buildINES(prgBanks, chrBanks, flags6, flags7 uint8, prg, chr []byte) []byte {
	header := make([]byte, headerSize)
	copy(header, []byte("NES\x1A"))
	header[4] = prgBanks
	header[5] = chrBanks
	header[6] = flags6
	header[7] = flags7

	var buf bytes.Buffer
	buf.Write(header)
	buf.Write(prg)
	buf.Write(chr)
	return buf.Bytes()
}

func TestLoadNROMHorizontalMirror(t *testing.T) {
	prg := make([]byte, prgBankSize)
	prg[0] = 0xEA
	data := buildINES(1, 1, 0x00, 0x00, prg, make([]byte, chrBankSize))

	cart, err := Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v, ok := cart.CPURead(0x8000); !ok || v != 0xEA {
		t.Fatalf("CPURead(0x8000) = $%02X, %v, want $EA, true", v, ok)
	}
	if cart.Mirroring() != 0 { // MirrorHorizontal == 0
		t.Fatalf("mirroring = %v, want horizontal", cart.Mirroring())
	}
}

func TestLoadBadMagic(t *testing.T) {
	data := buildINES(1, 1, 0, 0, make([]byte, prgBankSize), make([]byte, chrBankSize))
	data[0] = 'X'
	_, err := Load(bytes.NewReader(data))
	if !errors.Is(err, ErrBadMagic) {
		t.Fatalf("err = %v, want ErrBadMagic", err)
	}
}

func TestLoadTruncated(t *testing.T) {
	data := buildINES(2, 1, 0, 0, make([]byte, prgBankSize), make([]byte, chrBankSize))
	_, err := Load(bytes.NewReader(data[:len(data)-100])) // declares 2 PRG banks but the image ends partway through the second
	if !errors.Is(err, ErrShortRead) {
		t.Fatalf("err = %v, want ErrShortRead", err)
	}
}

func TestLoadUnsupportedMapper(t *testing.T) {
	flags6 := uint8(0xF0) // mapper id low nibble = 0xF -> mapper 15
	data := buildINES(1, 1, flags6, 0x00, make([]byte, prgBankSize), make([]byte, chrBankSize))
	_, err := Load(bytes.NewReader(data))
	if !errors.Is(err, ErrUnsupportedMapper) {
		t.Fatalf("err = %v, want ErrUnsupportedMapper", err)
	}
}

func TestLoadCHRRAMFallback(t *testing.T) {
	data := buildINES(1, 0, 0, 0, make([]byte, prgBankSize), nil)
	cart, err := Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cart.CHRRAM) != chrBankSize {
		t.Fatalf("CHRRAM size = %d, want %d", len(cart.CHRRAM), chrBankSize)
	}
	cart.PPUWrite(0x0010, 0x77)
	if v, ok := cart.PPURead(0x0010); !ok || v != 0x77 {
		t.Fatalf("CHR-RAM round trip = $%02X, %v, want $77, true", v, ok)
	}
}

func TestBatteryBackedPRGRAM(t *testing.T) {
	data := buildINES(1, 1, 0x02, 0x00, make([]byte, prgBankSize), make([]byte, chrBankSize))
	cart, err := Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cart.CPUWrite(0x6000, 0x5A)
	if v, ok := cart.CPURead(0x6000); !ok || v != 0x5A {
		t.Fatalf("PRG-RAM round trip = $%02X, %v, want $5A, true", v, ok)
	}
}
