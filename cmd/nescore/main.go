package main

import (
	"flag"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/retrobit/nescore/internal/bus"
	"github.com/retrobit/nescore/internal/ppu"
)

var scale = flag.Int("scale", 2, "Window scale factor.")

// Buttons, as bits pushed into the Bus each frame:
// 0 - A, 1 - B, 2 - Select, 3 - Start, 4 - Up, 5 - Down, 6 - Left, 7 - Right.
var keys = []ebiten.Key{
	ebiten.KeyA,
	ebiten.KeyB,
	ebiten.KeySpace,
	ebiten.KeyEnter,
	ebiten.KeyUp,
	ebiten.KeyDown,
	ebiten.KeyLeft,
	ebiten.KeyRight,
}

// game adapts a *bus.Bus to ebiten.Game: it polls the keyboard into a
// controller byte once per frame, runs one frame's worth of CPU/PPU
// cycles, and blits the resulting frame buffer.
type game struct {
	b *bus.Bus
}

func (g *game) Update() error {
	var buttons uint8
	for i, k := range keys {
		if ebiten.IsKeyPressed(k) {
			buttons |= 1 << i
		}
	}
	g.b.SetControllerInput(buttons)
	return g.b.RunFrame()
}

func (g *game) Draw(screen *ebiten.Image) {
	px := g.b.GetPixels()
	w, _ := g.b.GetResolution()
	for i, c := range px {
		screen.Set(i%w, i/w, toRGBA(c))
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.b.GetResolution()
}

func toRGBA(c ppu.Color) color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatalf("usage: %s <cartridge.nes>", os.Args[0])
	}

	b, err := bus.Load(flag.Arg(0))
	if err != nil {
		log.Fatalf("couldn't load cartridge: %v", err)
	}
	b.Reset()

	w, h := b.GetResolution()
	ebiten.SetWindowSize(w*(*scale), h*(*scale))
	ebiten.SetWindowTitle("nescore")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(&game{b: b}); err != nil {
		log.Fatal(err)
	}
	os.Exit(0)
}
