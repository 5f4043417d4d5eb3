package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"gocst/pkg/config"
	"gocst/pkg/frontend"
	"gocst/pkg/graph"
	"gocst/pkg/tree"
)

type Game struct {
	path string
	cfg  *config.Config

	res    *frontend.Result
	astImg *ebiten.Image
	cstImg *ebiten.Image

	view    View
	screen  image.Point
	fitted  bool
	lastErr error
}

// load builds path and replaces both images. On failure the previous trees
// stay on screen and the error is shown in the status line.
func (g *Game) load() error {
	res, err := frontend.BuildFile(g.path, g.cfg)
	if err != nil {
		g.lastErr = err
		return err
	}
	g.res = res
	g.astImg = ebiten.NewImageFromImage(graph.Render(res.AST))
	g.cstImg = ebiten.NewImageFromImage(graph.Render(res.CST))
	g.lastErr = nil
	g.fitted = false
	return nil
}

func (g *Game) current() (*tree.Node, *ebiten.Image) {
	if g.view.Concrete {
		return g.res.CST, g.cstImg
	}
	return g.res.AST, g.astImg
}

func (g *Game) Update() error {
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyArrowLeft):
		g.view.Pan(panStep, 0)
	case ebiten.IsKeyPressed(ebiten.KeyArrowRight):
		g.view.Pan(-panStep, 0)
	}
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyArrowUp):
		g.view.Pan(0, panStep)
	case ebiten.IsKeyPressed(ebiten.KeyArrowDown):
		g.view.Pan(0, -panStep)
	}

	cx, cy := float64(g.screen.X)/2, float64(g.screen.Y)/2
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd) {
		g.view.ZoomBy(zoomStep, cx, cy)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract) {
		g.view.ZoomBy(1/zoomStep, cx, cy)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.view.Toggle()
		g.fitted = false
	}
	if inpututil.IsKeyJustPressed(ebiten.Key0) {
		g.fitted = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		_ = g.load()
	}

	if !g.fitted && g.screen.X > 0 {
		_, img := g.current()
		g.view.Fit(img.Bounds().Size(), g.screen)
		g.fitted = true
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	root, img := g.current()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(g.view.Zoom, g.view.Zoom)
	op.GeoM.Translate(g.view.X, g.view.Y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)

	status := g.view.Status(filepath.Base(g.res.Name), countNodes(root))
	if g.lastErr != nil {
		status = "reload failed: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 4, 4)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.screen = image.Pt(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func countNodes(root *tree.Node) int {
	n := 0
	root.Walk(func(*tree.Node, int) bool {
		n++
		return true
	})
	return n
}

func main() {
	concrete := flag.Bool("cst", false, "start with the parse tree instead of the AST")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: astview [-cst] FILE")
		os.Exit(2)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	game := &Game{path: flag.Arg(0), cfg: cfg, view: NewView()}
	game.view.Concrete = *concrete
	if err := game.load(); err != nil {
		log.Fatalf("Build failed: %v", err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1024, 768)
	ebiten.SetWindowTitle("astview - " + filepath.Base(game.res.Name))

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
