package profile

import (
	"fmt"
	"image/png"
	"sort"

	"github.com/Rochumback/wasm-image-converter/internal/sniff"
)

// Target fully describes how a conversion encodes its output.
type Target struct {
	Name        string
	Format      sniff.Format
	Quality     int                  // 1-100; JPEG and AVIF
	Speed       int                  // AVIF 0-10, GIF 1-30
	Compression png.CompressionLevel // PNG only
	Lossless    bool                 // WebP only
}

// Built-in targets, one per public conversion.
var targets = map[string]Target{
	"preview": {
		Name:        "preview",
		Format:      sniff.PNG,
		Compression: png.BestSpeed,
	},
	"png": {
		Name:        "png",
		Format:      sniff.PNG,
		Compression: png.BestCompression,
	},
	"jpeg": {
		Name:    "jpeg",
		Format:  sniff.JPEG,
		Quality: 95,
	},
	"webp": {
		Name:     "webp",
		Format:   sniff.WebP,
		Lossless: true,
	},
	"avif": {
		Name:    "avif",
		Format:  sniff.AVIF,
		Quality: 95,
		Speed:   10,
	},
	"ico": {
		Name:   "ico",
		Format: sniff.ICO,
	},
	"bmp": {
		Name:   "bmp",
		Format: sniff.BMP,
	},
	"gif": {
		Name:   "gif",
		Format: sniff.GIF,
		Speed:  1,
	},
}

// aliases maps alternative spellings to target names.
var aliases = map[string]string{
	"jpg":       "jpeg",
	"thumbnail": "preview",
}

// Get returns a built-in target by name.
func Get(name string) (Target, bool) {
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	t, ok := targets[name]
	return t, ok
}

// MustGet is Get for names known at compile time.
func MustGet(name string) Target {
	t, ok := Get(name)
	if !ok {
		panic("profile: unknown target " + name)
	}
	return t
}

// Names returns all built-in target names, sorted.
func Names() []string {
	names := make([]string, 0, len(targets))
	for n := range targets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate checks the codec-specific parameter ranges.
func (t Target) Validate() error {
	switch t.Format {
	case sniff.JPEG:
		if t.Quality < 1 || t.Quality > 100 {
			return fmt.Errorf("target %s: quality %d out of range 1-100", t.Name, t.Quality)
		}
	case sniff.AVIF:
		if t.Quality < 0 || t.Quality > 100 {
			return fmt.Errorf("target %s: quality %d out of range 0-100", t.Name, t.Quality)
		}
		if t.Speed < 0 || t.Speed > 10 {
			return fmt.Errorf("target %s: speed %d out of range 0-10", t.Name, t.Speed)
		}
	case sniff.GIF:
		if t.Speed < 1 || t.Speed > 30 {
			return fmt.Errorf("target %s: speed %d out of range 1-30", t.Name, t.Speed)
		}
	case sniff.WebP:
		if !t.Lossless && (t.Quality < 0 || t.Quality > 100) {
			return fmt.Errorf("target %s: quality %d out of range 0-100", t.Name, t.Quality)
		}
	case sniff.PNG:
		switch t.Compression {
		case png.DefaultCompression, png.NoCompression, png.BestSpeed, png.BestCompression:
		default:
			return fmt.Errorf("target %s: unknown png compression %d", t.Name, t.Compression)
		}
	case sniff.ICO, sniff.BMP:
	case sniff.TIFF, sniff.Unknown:
		return fmt.Errorf("target %s: cannot encode %s", t.Name, t.Format)
	}
	return nil
}

// WithQuality returns a copy of t with quality overridden when q > 0.
func (t Target) WithQuality(q int) Target {
	if q > 0 {
		t.Quality = q
		if t.Format == sniff.WebP {
			t.Lossless = false
		}
	}
	return t
}

// WithSpeed returns a copy of t with speed overridden when s > 0.
func (t Target) WithSpeed(s int) Target {
	if s > 0 {
		t.Speed = s
	}
	return t
}
