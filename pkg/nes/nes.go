// Package nes wires the CPU, PPU, Bus, Cartridge and controllers into a
// single scheduler driving the 3:1 PPU:CPU master clock (spec §5).
package nes

import (
	"io"

	"github.com/mikami/nesgo/pkg/bus"
	"github.com/mikami/nesgo/pkg/cartridge"
	"github.com/mikami/nesgo/pkg/cpu"
	"github.com/mikami/nesgo/pkg/input"
	"github.com/mikami/nesgo/pkg/ppu"
)

// System owns every component and is the sole driver of the master clock.
// Cross-component calls (CPU→Bus→PPU, PPU→Cartridge) happen synchronously
// inside a single Tick; nothing here is safe for concurrent use.
type System struct {
	CPU        *cpu.CPU
	PPU        *ppu.PPU
	Bus        *bus.Bus
	Cartridge  *cartridge.Cartridge
	Controller [2]*input.Controller

	tickCount     uint64
	cpuCycleCount uint64
}

// Load reads an iNES ROM and constructs a fully wired System.
func Load(r io.Reader) (*System, error) {
	cart, err := cartridge.Load(r)
	if err != nil {
		return nil, err
	}

	b := bus.New()
	p := ppu.New(cart)
	c := cpu.New(b)
	b.Attach(p, cart)

	sys := &System{
		CPU:       c,
		PPU:       p,
		Bus:       b,
		Cartridge: cart,
	}
	for i := range sys.Controller {
		sys.Controller[i] = input.New()
		b.AttachController(i, sys.Controller[i])
	}

	sys.Reset()
	return sys, nil
}

// Reset puts the CPU and PPU back to their post-power-up state.
func (s *System) Reset() {
	s.CPU.Reset()
	s.PPU.Reset()
	s.tickCount = 0
	s.cpuCycleCount = 0
}

// Tick advances the system by exactly one PPU dot: the PPU always clocks;
// every third tick either steps OAM DMA or clocks the CPU; an NMI the PPU
// asserted this tick is latched onto the CPU immediately so it's serviced
// at the next instruction boundary (spec §5, the permitted polled model).
func (s *System) Tick() {
	s.PPU.Clock()
	s.tickCount++

	if s.tickCount%3 == 0 {
		if s.Bus.DMAInProgress() {
			s.Bus.StepDMA(s.cpuCycleCount%2 == 1)
		} else {
			s.CPU.Clock()
		}
		s.cpuCycleCount++
	}

	if s.PPU.NMIPending() {
		s.CPU.TriggerNMI()
	}
}

// StepFrame runs Tick until the PPU reports a completed frame.
func (s *System) StepFrame() {
	s.PPU.FrameComplete = false
	for !s.PPU.FrameComplete {
		s.Tick()
	}
}

// Framebuffer returns the PPU's current 256x240 RGBA pixel buffer.
func (s *System) Framebuffer() []uint32 {
	return s.PPU.FrameBuffer[:]
}
