// Package codec is the decode boundary: it turns bytes of an already
// classified format into pixels.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/png"

	"github.com/gen2brain/avif"
	"github.com/gen2brain/jpegn"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/Rochumback/wasm-image-converter/internal/ico"
	"github.com/Rochumback/wasm-image-converter/internal/sniff"
)

// ErrNoDecoder is returned for sniff.Unknown.
var ErrNoDecoder = errors.New("no decoder for format")

// Decode decodes data as format f. For animated inputs only the first
// frame is returned.
func Decode(data []byte, f sniff.Format) (image.Image, error) {
	r := bytes.NewReader(data)

	var (
		img image.Image
		err error
	)
	switch f {
	case sniff.PNG:
		img, err = png.Decode(r)
	case sniff.JPEG:
		img, err = jpegn.Decode(r)
	case sniff.GIF:
		img, err = gif.Decode(r)
	case sniff.WebP:
		img, err = webp.Decode(r)
	case sniff.TIFF:
		img, err = tiff.Decode(r)
	case sniff.BMP:
		img, err = bmp.Decode(r)
	case sniff.ICO:
		img, err = ico.Decode(r)
	case sniff.AVIF:
		img, err = avif.Decode(r)
	case sniff.Unknown:
		return nil, ErrNoDecoder
	default:
		return nil, fmt.Errorf("%w: %v", ErrNoDecoder, f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f, err)
	}
	return img, nil
}

// DecodeFrames returns every frame of data. GIF frames are composited onto
// the logical screen so each element is a full picture; other formats
// yield exactly one frame.
func DecodeFrames(data []byte, f sniff.Format) ([]image.Image, error) {
	if f != sniff.GIF {
		img, err := Decode(data, f)
		if err != nil {
			return nil, err
		}
		return []image.Image{img}, nil
	}

	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f, err)
	}
	return compositeGIF(g), nil
}

func compositeGIF(g *gif.GIF) []image.Image {
	screen := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if screen.Empty() && len(g.Image) > 0 {
		screen = g.Image[0].Bounds()
	}

	canvas := image.NewNRGBA(screen)
	frames := make([]image.Image, 0, len(g.Image))
	for i, frame := range g.Image {
		var saved *image.NRGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			saved = image.NewNRGBA(screen)
			draw.Draw(saved, screen, canvas, screen.Min, draw.Src)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		out := image.NewNRGBA(screen)
		draw.Draw(out, screen, canvas, screen.Min, draw.Src)
		frames = append(frames, out)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = saved
		}
	}
	return frames
}
