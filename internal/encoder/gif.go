package encoder

import (
	"image"
	"image/color/palette"
	"image/gif"
	"io"

	"golang.org/x/image/draw"

	"github.com/Rochumback/wasm-image-converter/internal/sniff"
)

// ditherMaxSpeed is the slowest speed setting that still dithers.
const ditherMaxSpeed = 10

// GIFEncoder writes a single-frame GIF.
// Speed runs from 1 (best quality) to 30 (fastest). Up to speed 10 colours
// are error-diffused onto the palette; above that they are mapped to the
// nearest entry.
type GIFEncoder struct {
	Speed int
}

func (e *GIFEncoder) Format() sniff.Format { return sniff.GIF }
func (e *GIFEncoder) Extension() string    { return "gif" }

func (e *GIFEncoder) Encode(w io.Writer, img image.Image) error {
	var drawer draw.Drawer = draw.FloydSteinberg
	if e.Speed > ditherMaxSpeed {
		drawer = draw.Src
	}
	if p, ok := img.(*image.Paletted); ok && len(p.Palette) <= 256 {
		return gif.Encode(w, p, nil)
	}

	dst := image.NewPaletted(img.Bounds(), palette.Plan9)
	drawer.Draw(dst, dst.Bounds(), img, img.Bounds().Min)
	return gif.Encode(w, dst, &gif.Options{NumColors: len(palette.Plan9)})
}
