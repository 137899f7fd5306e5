package convert

import (
	"errors"
	"image"

	"github.com/Rochumback/wasm-image-converter/internal/codec"
	"github.com/Rochumback/wasm-image-converter/internal/sniff"
)

// Info describes a decodable input.
type Info struct {
	Format   sniff.Format `json:"-"`
	Name     string       `json:"format"`
	MIME     string       `json:"mime"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Frames   int          `json:"frames"`
	HasAlpha bool         `json:"has_alpha"`
	Size     int          `json:"size"`
}

// Inspect detects and fully decodes data and reports what it found. Errors
// are the same *Error values Convert returns.
func Inspect(data []byte) (Info, error) {
	format, err := sniff.Detect(data)
	if err != nil {
		return Info{}, &Error{Kind: KindDetect, Err: err}
	}
	frames, err := codec.DecodeFrames(data, format)
	if err != nil {
		return Info{}, &Error{Kind: KindDecode, Err: err}
	}

	if len(frames) == 0 {
		return Info{}, &Error{Kind: KindDecode, Err: errors.New("no frames")}
	}
	first := frames[0]
	b := first.Bounds()
	return Info{
		Format:   format,
		Name:     format.String(),
		MIME:     format.MIME(),
		Width:    b.Dx(),
		Height:   b.Dy(),
		Frames:   len(frames),
		HasAlpha: hasAlpha(first),
		Size:     len(data),
	}, nil
}

// hasAlpha reports whether any pixel is not fully opaque.
func hasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}
