package convert

import (
	"github.com/Rochumback/wasm-image-converter/internal/encoder"
	"github.com/Rochumback/wasm-image-converter/internal/profile"
)

// To converts data to the named built-in target.
func To(target string, data []byte, opts ...Option) ([]byte, error) {
	t, ok := profile.Get(target)
	if !ok {
		return nil, &UnknownTargetError{Name: target}
	}
	return ToTarget(t, data, opts...)
}

// ToTarget converts data using an explicit, possibly customised, target.
func ToTarget(t profile.Target, data []byte, opts ...Option) ([]byte, error) {
	enc, err := encoder.New(t)
	if err != nil {
		return nil, err
	}
	return Convert(data, enc, opts...)
}

// UnknownTargetError is returned by To for names with no built-in target.
type UnknownTargetError struct {
	Name string
}

func (e *UnknownTargetError) Error() string {
	return "unknown target " + e.Name
}

// Preview produces a quickly compressed PNG.
func Preview(data []byte, opts ...Option) ([]byte, error) { return To("preview", data, opts...) }

// ToPNG produces a maximally compressed PNG.
func ToPNG(data []byte, opts ...Option) ([]byte, error) { return To("png", data, opts...) }

// ToJPEG produces a quality 95 JPEG.
func ToJPEG(data []byte, opts ...Option) ([]byte, error) { return To("jpeg", data, opts...) }

// ToWebP produces a lossless WebP.
func ToWebP(data []byte, opts ...Option) ([]byte, error) { return To("webp", data, opts...) }

// ToAVIF produces an AVIF at speed 10, quality 95.
func ToAVIF(data []byte, opts ...Option) ([]byte, error) { return To("avif", data, opts...) }

// ToICO produces a single-entry icon.
func ToICO(data []byte, opts ...Option) ([]byte, error) { return To("ico", data, opts...) }

// ToBMP produces an uncompressed BMP.
func ToBMP(data []byte, opts ...Option) ([]byte, error) { return To("bmp", data, opts...) }

// ToGIF produces a single-frame GIF, whatever the number of input frames.
func ToGIF(data []byte, opts ...Option) ([]byte, error) { return To("gif", data, opts...) }
