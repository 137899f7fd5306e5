// Package convert detects the format of raw image bytes, decodes them and
// re-encodes the pixels through a caller-supplied encoder.
//
// Every call is self-contained: the input slice is only read, the decoded
// image and output buffer belong to the call, and nothing is cached between
// calls. Concurrent calls are safe.
//
// Encode failures are swallowed by default: Convert returns whatever the
// encoder managed to write, possibly nothing, with a nil error. WithStrict
// turns them into a KindEncode error instead.
package convert

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"github.com/Rochumback/wasm-image-converter/internal/codec"
	"github.com/Rochumback/wasm-image-converter/internal/encoder"
	"github.com/Rochumback/wasm-image-converter/internal/sniff"
)

type options struct {
	strict bool
	log    zerolog.Logger
}

// Option adjusts a single conversion call.
type Option func(*options)

// WithStrict reports encode failures as errors instead of returning the
// partial output.
func WithStrict() Option {
	return func(o *options) { o.strict = true }
}

// WithLogger routes diagnostics for this call to log.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

func buildOptions(opts []Option) options {
	o := options{log: zerolog.Nop()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Convert sniffs data, decodes it and writes it through enc.
func Convert(data []byte, enc encoder.Encoder, opts ...Option) ([]byte, error) {
	o := buildOptions(opts)

	format, err := sniff.Detect(data)
	if err != nil {
		return nil, &Error{Kind: KindDetect, Err: err}
	}
	log := o.log.With().
		Str("source", format.String()).
		Str("target", enc.Format().String()).
		Int("input_bytes", len(data)).
		Logger()

	img, err := codec.Decode(data, format)
	if err != nil {
		return nil, &Error{Kind: KindDecode, Err: err}
	}
	log.Debug().
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Msg("decoded")

	if enc.Format() == sniff.GIF {
		img = stillFrame(img)
	}

	var out bytes.Buffer
	if err := enc.Encode(&out, img); err != nil {
		if o.strict {
			return nil, &Error{Kind: KindEncode, Err: err}
		}
		log.Warn().Err(err).
			Int("partial_bytes", out.Len()).
			Msg("encode failed, returning partial output")
	}
	return out.Bytes(), nil
}

// stillFrame returns a standalone single frame for GIF output. Paletted
// frames are already GIF-ready and pass through; anything else is copied
// into a fresh NRGBA buffer.
func stillFrame(img image.Image) image.Image {
	if p, ok := img.(*image.Paletted); ok {
		return p
	}
	return imaging.Clone(img)
}
