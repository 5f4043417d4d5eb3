package graph

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"gocst/pkg/tree"
)

const (
	padX      = 6  // text padding inside a box
	boxHeight = 21 // basicfont line height plus padding
	gapX      = 12 // horizontal space between sibling subtrees
	rowHeight = 56
	margin    = 16
)

var (
	background  = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	edgeColor   = color.RGBA{0x90, 0x90, 0x90, 0xFF}
	labelColor  = color.RGBA{0x1F, 0x4E, 0x8C, 0xFF}
	tokenColor  = color.RGBA{0x2E, 0x7D, 0x32, 0xFF}
	refColor    = color.RGBA{0xB2, 0x6B, 0x00, 0xFF}
	textColor   = image.NewUniform(color.Black)
	drawerFace  = basicfont.Face7x13
	fontAscent  = drawerFace.Metrics().Ascent.Ceil()
	measureDraw = &font.Drawer{Face: drawerFace}
)

// Box is the placement of one tree node in a rendered image.
type Box struct {
	Node   *tree.Node
	Rect   image.Rectangle
	Parent int // index into Layout.Boxes, -1 for the root
}

// Layout places every node of a tree: leaves side by side from the left,
// parents centred over their children, one row per depth.
type Layout struct {
	Boxes []Box
	Size  image.Point
}

func boxWidth(label string) int {
	return measureDraw.MeasureString(label).Ceil() + 2*padX
}

// NewLayout computes box positions for root.
func NewLayout(root *tree.Node) *Layout {
	l := &Layout{}
	if root == nil {
		return l
	}
	width := l.place(root, -1, 0, margin)
	for _, b := range l.Boxes {
		if b.Rect.Max.Y > l.Size.Y {
			l.Size.Y = b.Rect.Max.Y
		}
	}
	l.Size.X = margin + width + margin
	l.Size.Y += margin
	return l
}

// place lays out the subtree of n starting at x and returns its width.
func (l *Layout) place(n *tree.Node, parent, depth, x int) int {
	idx := len(l.Boxes)
	l.Boxes = append(l.Boxes, Box{Node: n, Parent: parent})

	own := boxWidth(n.Display())
	total, last := 0, idx
	for i, c := range n.Children() {
		if i > 0 {
			total += gapX
		}
		last = len(l.Boxes)
		total += l.place(c, idx, depth+1, x+total)
	}

	width := max(own, total)
	if total < own && n.Len() > 0 {
		l.shift(idx+1, (own-total)/2)
	}

	var center int
	if n.Len() == 0 {
		center = x + width/2
	} else {
		a, b := l.Boxes[idx+1].Rect, l.Boxes[last].Rect
		center = (a.Min.X + a.Max.X + b.Min.X + b.Max.X) / 4
	}
	y := margin + depth*rowHeight
	l.Boxes[idx].Rect = image.Rect(center-own/2, y, center-own/2+own, y+boxHeight)
	return width
}

// shift moves every box from index start on by dx.
func (l *Layout) shift(start, dx int) {
	for i := start; i < len(l.Boxes); i++ {
		l.Boxes[i].Rect = l.Boxes[i].Rect.Add(image.Pt(dx, 0))
	}
}

// Render draws the tree rooted at root onto a new RGBA image.
func Render(root *tree.Node) *image.RGBA {
	l := NewLayout(root)
	img := image.NewRGBA(image.Rectangle{Max: l.Size})
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	for _, b := range l.Boxes {
		if b.Parent < 0 {
			continue
		}
		p := l.Boxes[b.Parent].Rect
		from := image.Pt((p.Min.X+p.Max.X)/2, p.Max.Y)
		to := image.Pt((b.Rect.Min.X+b.Rect.Max.X)/2, b.Rect.Min.Y)
		line(img, from, to, edgeColor)
	}

	d := &font.Drawer{Dst: img, Src: textColor, Face: drawerFace}
	for _, b := range l.Boxes {
		c := labelColor
		switch {
		case b.Node.IsRef():
			c = refColor
		case b.Node.IsTerminal():
			c = tokenColor
		}
		outline(img, b.Rect, c)
		d.Dot = fixed.P(b.Rect.Min.X+padX, b.Rect.Min.Y+(boxHeight-drawerFace.Height)/2+fontAscent)
		d.DrawString(b.Node.Display())
	}
	return img
}

// WritePNG encodes the rendered tree as PNG.
func WritePNG(w io.Writer, root *tree.Node) error {
	return png.Encode(w, Render(root))
}

// SavePNG renders root into filename.
func SavePNG(filename string, root *tree.Node) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WritePNG(f, root); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func outline(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, c)
		img.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, c)
		img.SetRGBA(r.Max.X-1, y, c)
	}
}

// line draws a straight segment with Bresenham's algorithm.
func line(img *image.RGBA, a, b image.Point, c color.RGBA) {
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := sign(b.X-a.X), sign(b.Y-a.Y)
	e := dx + dy
	for {
		img.SetRGBA(a.X, a.Y, c)
		if a == b {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			a.X += sx
		}
		if e2 <= dx {
			e += dx
			a.Y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
