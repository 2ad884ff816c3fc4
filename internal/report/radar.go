package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strconv"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/pavelanni/devreport/internal/model"
)

const radarSize = 640

var (
	brandRed  = color.RGBA{R: 0xE2, G: 0x23, B: 0x1A, A: 0xFF}
	brandFill = color.NRGBA{R: 0xE2, G: 0x23, B: 0x1A, A: 0x40}
	brandDark = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xFF}
	gridGrey  = color.RGBA{R: 0xCC, G: 0xCC, B: 0xCC, A: 0xFF}
)

// NoDataText is drawn instead of a chart when no dimension is present.
const NoDataText = "Not enough data for the radar chart."

// Radar draws the dimension means on a polar chart whose radius runs from 0
// to the scale maximum. Axes start at the top and go clockwise. An empty
// dims gives a placeholder image.
func Radar(dims []model.DimensionScore, scale model.RatingScale, title string) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, radarSize, radarSize))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	if len(dims) == 0 {
		drawCentered(img, NoDataText, radarSize/2, radarSize/2, brandDark)
		return encodePNG(img)
	}

	top := float64(scale.Max())
	if top <= 0 {
		top = 1
	}
	cx, cy := float32(radarSize)/2, float32(radarSize)/2+10
	radius := float32(radarSize)/2 - 110

	n := len(dims)
	angle := func(i int) float64 {
		return -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
	}
	point := func(i int, r float32) (float32, float32) {
		a := angle(i)
		return cx + r*float32(math.Cos(a)), cy + r*float32(math.Sin(a))
	}

	// Rings at every whole level, spokes to the outer ring.
	for lvl := 1; lvl <= int(top); lvl++ {
		r := radius * float32(lvl) / float32(top)
		ring := make([][2]float32, 0, n)
		if n < 3 {
			ring = circle(cx, cy, r, 72)
		} else {
			for i := 0; i < n; i++ {
				x, y := point(i, r)
				ring = append(ring, [2]float32{x, y})
			}
		}
		strokePolygon(img, ring, 1, gridGrey)
		lx, ly := cx+3, cy-r-2
		drawText(img, strconv.Itoa(lvl), int(lx), int(ly), gridGrey)
	}
	for i := 0; i < n; i++ {
		x, y := point(i, radius)
		strokeLine(img, cx, cy, x, y, 1, gridGrey)
	}

	values := make([][2]float32, 0, n)
	for i, d := range dims {
		v := d.Mean
		if v < 0 {
			v = 0
		}
		if v > top {
			v = top
		}
		x, y := point(i, radius*float32(v/top))
		values = append(values, [2]float32{x, y})
	}
	fillPolygon(img, values, brandFill)
	strokePolygon(img, values, 2.5, brandRed)
	for _, p := range values {
		fillPolygon(img, circle(p[0], p[1], 3.5, 16), brandRed)
	}

	for i, d := range dims {
		x, y := point(i, radius+28)
		drawCentered(img, d.DimensionName, int(x), int(y), brandDark)
	}
	if title != "" {
		drawCentered(img, title, radarSize/2, 24, brandDark)
	}
	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func circle(cx, cy, r float32, segments int) [][2]float32 {
	pts := make([][2]float32, 0, segments)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		pts = append(pts, [2]float32{cx + r*float32(math.Cos(a)), cy + r*float32(math.Sin(a))})
	}
	return pts
}

func fillPolygon(dst draw.Image, pts [][2]float32, c color.Color) {
	if len(pts) < 3 {
		return
	}
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	z.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		z.LineTo(p[0], p[1])
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

func strokePolygon(dst draw.Image, pts [][2]float32, width float32, c color.Color) {
	for i := range pts {
		j := (i + 1) % len(pts)
		if len(pts) == 2 && j == 0 {
			break
		}
		strokeLine(dst, pts[i][0], pts[i][1], pts[j][0], pts[j][1], width, c)
	}
}

// strokeLine draws a segment as a thin quad.
func strokeLine(dst draw.Image, x0, y0, x1, y1, width float32, c color.Color) {
	dx, dy := x1-x0, y1-y0
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	fillPolygon(dst, [][2]float32{
		{x0 + nx, y0 + ny},
		{x1 + nx, y1 + ny},
		{x1 - nx, y1 - ny},
		{x0 - nx, y0 - ny},
	}, c)
}

// drawText draws s in the built-in face. The face only has ASCII glyphs,
// so accents are folded first.
func drawText(dst draw.Image, s string, x, y int, c color.Color) {
	s = foldAccents(s)
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// drawCentered draws s centred on (x, y), wrapping long labels on spaces.
func drawCentered(dst draw.Image, s string, x, y int, c color.Color) {
	lines := wrapLabel(s, 24)
	lineH := basicfont.Face7x13.Height
	top := y - (len(lines)*lineH)/2 + basicfont.Face7x13.Ascent
	for i, line := range lines {
		line = foldAccents(line)
		w := font.MeasureString(basicfont.Face7x13, line).Round()
		drawText(dst, line, x-w/2, top+i*lineH, c)
	}
}

func wrapLabel(s string, width int) []string {
	var lines []string
	var cur []rune
	lastSpace := -1
	for _, r := range s {
		cur = append(cur, r)
		if r == ' ' {
			lastSpace = len(cur) - 1
		}
		if len(cur) > width && lastSpace > 0 {
			lines = append(lines, string(cur[:lastSpace]))
			cur = append([]rune{}, cur[lastSpace+1:]...)
			lastSpace = -1
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
