// Package gui hosts the emulator in an SDL2 window: it blits the PPU's
// framebuffer every frame and maps keyboard scancodes onto the two
// controllers. Audio and host presentation are out of this spec's scope
// (spec §1), so this is intentionally the thinnest possible SDL wiring.
package gui

import (
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/mikami/nesgo/pkg/input"
	"github.com/mikami/nesgo/pkg/nes"
	"github.com/mikami/nesgo/pkg/nlog"
)

const (
	screenWidth  = 256
	screenHeight = 240
	windowTitle  = "nesgo"

	// NTSC frame cadence: 1,789,773 Hz CPU clock / 29,780.5 CPU cycles/frame.
	frameTime = time.Duration(16639267) * time.Nanosecond
)

// GUI owns the SDL window/renderer/texture and drives the emulator one
// frame per host frame.
type GUI struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	system   *nes.System
	running  bool
	scale    int
}

// New creates an SDL window sized to scale*256 x scale*240 and wires it to
// the given system.
func New(system *nes.System, scale int) (*GUI, error) {
	runtime.LockOSThread()

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("gui: sdl init: %w", err)
	}

	window, err := sdl.CreateWindow(
		windowTitle,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(screenWidth*scale), int32(screenHeight*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("gui: create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("gui: create renderer: %w", err)
	}
	renderer.SetDrawBlendMode(sdl.BLENDMODE_NONE)

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_ARGB8888,
		sdl.TEXTUREACCESS_STREAMING,
		screenWidth, screenHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("gui: create texture: %w", err)
	}
	texture.SetBlendMode(sdl.BLENDMODE_NONE)

	return &GUI{
		window:   window,
		renderer: renderer,
		texture:  texture,
		system:   system,
		running:  true,
		scale:    scale,
	}, nil
}

// Destroy releases all SDL resources.
func (g *GUI) Destroy() {
	if g.texture != nil {
		g.texture.Destroy()
	}
	if g.renderer != nil {
		g.renderer.Destroy()
	}
	if g.window != nil {
		g.window.Destroy()
	}
	sdl.Quit()
}

// Run drives the emulator one NES frame per host frame, pacing to the
// NES's native ~60.0988 FPS, until the window is closed or Escape pressed.
func (g *GUI) Run() {
	next := time.Now().Add(frameTime)
	for g.running {
		g.handleEvents()
		g.system.StepFrame()
		g.render()

		now := time.Now()
		if now.Before(next) {
			time.Sleep(next.Sub(now))
		}
		next = next.Add(frameTime)
		if next.Before(now) {
			next = now.Add(frameTime)
		}
	}
}

func (g *GUI) handleEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			g.running = false
		case *sdl.KeyboardEvent:
			g.handleKey(e)
		}
	}
}

func (g *GUI) handleKey(e *sdl.KeyboardEvent) {
	pressed := e.State == sdl.PRESSED
	c := g.system.Controller[0]

	switch e.Keysym.Sym {
	case sdl.K_z:
		c.Set(input.ButtonA, pressed)
	case sdl.K_x:
		c.Set(input.ButtonB, pressed)
	case sdl.K_a:
		c.Set(input.ButtonSelect, pressed)
	case sdl.K_s:
		c.Set(input.ButtonStart, pressed)
	case sdl.K_UP:
		c.Set(input.ButtonUp, pressed)
	case sdl.K_DOWN:
		c.Set(input.ButtonDown, pressed)
	case sdl.K_LEFT:
		c.Set(input.ButtonLeft, pressed)
	case sdl.K_RIGHT:
		c.Set(input.ButtonRight, pressed)
	case sdl.K_ESCAPE:
		g.running = false
	}
}

func (g *GUI) render() {
	fb := g.system.Framebuffer()
	if err := g.texture.Update(nil, unsafe.Pointer(&fb[0]), screenWidth*4); err != nil {
		nlog.Error("gui: texture update failed: %v", err)
		return
	}

	g.renderer.Clear()
	g.renderer.Copy(g.texture, nil, nil)
	g.renderer.Present()
}
