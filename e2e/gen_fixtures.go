//go:build ignore

// gen_fixtures writes one small sample per decodable format, plus a few
// files that must be skipped, for the batch smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"golang.org/x/image/tiff"

	"github.com/Rochumback/wasm-image-converter/internal/encoder"
	"github.com/Rochumback/wasm-image-converter/internal/profile"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(filepath.Join(dir, "icons"), 0o755)

	count := 0
	for _, f := range []struct {
		path   string
		target string
		img    image.Image
	}{
		{"banner.jpg", "jpeg", gradient(400, 225)},
		{"card.png", "png", solidWithBorder(200, 150, 60)},
		{"logo.webp", "webp", alphaGradient(100, 100)},
		{"hero.avif", "avif", gradient(64, 48)},
		{"sprite.gif", "gif", solidWithBorder(48, 48, 120)},
		{"legacy.bmp", "bmp", gradient(80, 60)},
		{"icons/app.ico", "ico", alphaGradient(64, 64)},
	} {
		enc, err := encoder.New(profile.MustGet(f.target))
		if err != nil {
			fail(err)
		}
		var buf bytes.Buffer
		if err := enc.Encode(&buf, f.img); err != nil {
			fail(fmt.Errorf("%s: %w", f.path, err))
		}
		write(filepath.Join(dir, f.path), buf.Bytes())
		count++
	}

	// No encoder target for TIFF; write it directly.
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, gradient(120, 90), nil); err != nil {
		fail(err)
	}
	write(filepath.Join(dir, "scan.tiff"), buf.Bytes())
	count++

	// Inputs the batch must skip.
	write(filepath.Join(dir, "README.txt"), []byte("fixtures for the batch smoke test\n"))
	write(filepath.Join(dir, "stub.png"), []byte{0x89, 'P', 'N', 'G'})

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created %d fixtures (+2 invalid) in %s\n", count, dir)
}

func write(path string, data []byte) {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "[gen_fixtures]", err)
	os.Exit(1)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func solidWithBorder(w, h int, base uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: base, G: base + 40, B: base + 80, A: 255}
			if x < 4 || x >= w-4 || y < 4 || y >= h-4 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}
