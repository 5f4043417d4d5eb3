package main

import (
	"fmt"
	"image"
	"math"
)

const (
	panStep  = 8.0
	zoomStep = 1.25
	minZoom  = 0.125
	maxZoom  = 4.0
)

// View is the camera over the rendered tree image: a scale followed by a
// translation in screen pixels.
type View struct {
	X, Y     float64
	Zoom     float64
	Concrete bool // show the parse tree instead of the AST
}

func NewView() View {
	return View{Zoom: 1}
}

func (v *View) Pan(dx, dy float64) {
	v.X += dx
	v.Y += dy
}

// ZoomBy scales by f around the screen point (cx, cy), which stays fixed.
func (v *View) ZoomBy(f, cx, cy float64) {
	z := math.Min(maxZoom, math.Max(minZoom, v.Zoom*f))
	r := z / v.Zoom
	v.X = cx - (cx-v.X)*r
	v.Y = cy - (cy-v.Y)*r
	v.Zoom = z
}

func (v *View) Toggle() {
	v.Concrete = !v.Concrete
}

// Fit scales content down to fit screen, never up, and centres it.
func (v *View) Fit(content, screen image.Point) {
	v.Zoom = 1
	if content.X > 0 && content.Y > 0 {
		v.Zoom = math.Min(1, math.Min(float64(screen.X)/float64(content.X), float64(screen.Y)/float64(content.Y)))
		v.Zoom = math.Max(minZoom, v.Zoom)
	}
	v.X = (float64(screen.X) - float64(content.X)*v.Zoom) / 2
	v.Y = (float64(screen.Y) - float64(content.Y)*v.Zoom) / 2
}

// Status is the one-line summary drawn at the top of the window.
func (v View) Status(name string, nodes int) string {
	kind := "AST"
	if v.Concrete {
		kind = "CST"
	}
	return fmt.Sprintf("%s  %s  %d nodes  %3.0f%%  [tab] cst/ast [arrows] pan [+/-] zoom [0] fit [r] reload",
		name, kind, nodes, v.Zoom*100)
}
