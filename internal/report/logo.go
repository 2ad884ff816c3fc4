package report

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// Logo bounds for printable reports, in pixels.
const (
	logoMaxW = 320
	logoMaxH = 160
)

// LoadLogo reads a PNG, JPEG or WebP file, scales it down to fit the report
// header and returns it PNG-encoded. An empty path returns nil.
func LoadLogo(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read logo: %w", err)
	}
	img, err := decodeImage(data, path)
	if err != nil {
		return nil, fmt.Errorf("decode logo %s: %w", path, err)
	}
	return encodePNG(downscale(img, logoMaxW, logoMaxH))
}

func decodeImage(data []byte, filename string) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)
	r := bytes.NewReader(data)

	switch {
	case strings.Contains(ct, "jpeg"):
		return jpeg.Decode(r)
	case strings.Contains(ct, "png"):
		return png.Decode(r)
	case strings.Contains(ct, "webp"):
		return webp.Decode(r)
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return jpeg.Decode(r)
	case ".png":
		return png.Decode(r)
	case ".webp":
		return webp.Decode(r)
	}
	return nil, fmt.Errorf("unsupported image format: %s", ct)
}

// downscale keeps the aspect ratio and never enlarges.
func downscale(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		return src
	}
	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	nw := max(1, int(math.Round(float64(w)*scale)))
	nh := max(1, int(math.Round(float64(h)*scale)))
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
