package encoder

import (
	"image"
	"io"

	"github.com/disintegration/imaging"

	"github.com/Rochumback/wasm-image-converter/internal/ico"
	"github.com/Rochumback/wasm-image-converter/internal/sniff"
)

// ICOEncoder writes a single-entry icon. Images larger than 256x256 are
// scaled down to fit, keeping the aspect ratio.
type ICOEncoder struct{}

func (e *ICOEncoder) Format() sniff.Format { return sniff.ICO }
func (e *ICOEncoder) Extension() string    { return "ico" }

func (e *ICOEncoder) Encode(w io.Writer, img image.Image) error {
	b := img.Bounds()
	if b.Dx() > ico.MaxSize || b.Dy() > ico.MaxSize {
		img = imaging.Fit(img, ico.MaxSize, ico.MaxSize, imaging.Lanczos)
	}
	return ico.Encode(w, img)
}
