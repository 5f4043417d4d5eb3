package main

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocst/pkg/frontend"
)

func TestViewPanAndToggle(t *testing.T) {
	v := NewView()
	v.Pan(panStep, -panStep)
	assert.Equal(t, panStep, v.X)
	assert.Equal(t, -panStep, v.Y)

	v.Toggle()
	assert.True(t, v.Concrete)
	v.Toggle()
	assert.False(t, v.Concrete)
}

func TestViewZoomKeepsCentre(t *testing.T) {
	v := NewView()
	v.X, v.Y = 10, 20

	// The image point under (100, 100) before zooming.
	ix, iy := (100-v.X)/v.Zoom, (100-v.Y)/v.Zoom
	v.ZoomBy(2, 100, 100)
	assert.Equal(t, 2.0, v.Zoom)
	assert.InDelta(t, 100, v.X+ix*v.Zoom, 1e-9)
	assert.InDelta(t, 100, v.Y+iy*v.Zoom, 1e-9)
}

func TestViewZoomClamps(t *testing.T) {
	v := NewView()
	for i := 0; i < 20; i++ {
		v.ZoomBy(zoomStep, 0, 0)
	}
	assert.Equal(t, maxZoom, v.Zoom)
	for i := 0; i < 40; i++ {
		v.ZoomBy(1/zoomStep, 0, 0)
	}
	assert.Equal(t, minZoom, v.Zoom)
}

func TestViewFit(t *testing.T) {
	v := NewView()
	v.Fit(image.Pt(200, 100), image.Pt(800, 600))
	assert.Equal(t, 1.0, v.Zoom, "small trees are not enlarged")
	assert.Equal(t, 300.0, v.X)
	assert.Equal(t, 250.0, v.Y)

	v.Fit(image.Pt(1600, 300), image.Pt(800, 600))
	assert.Equal(t, 0.5, v.Zoom)
	assert.Equal(t, 0.0, v.X)
	assert.Equal(t, 225.0, v.Y)
}

func TestViewStatus(t *testing.T) {
	v := NewView()
	assert.Contains(t, v.Status("main.c", 12), "main.c  AST  12 nodes  100%")
	v.Toggle()
	v.ZoomBy(0.5, 0, 0)
	assert.Contains(t, v.Status("main.c", 30), "main.c  CST  30 nodes   50%")
}

func TestCountNodes(t *testing.T) {
	res, err := frontend.Build("t.c", "int x;", nil)
	require.NoError(t, err)
	// (<source root> (<external declaration> (<type specifier> int) (<init declarator list> (<declarator> x))))
	assert.Equal(t, 7, countNodes(res.AST))
}
