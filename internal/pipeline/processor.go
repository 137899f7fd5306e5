package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/Rochumback/wasm-image-converter/internal/convert"
	"github.com/Rochumback/wasm-image-converter/internal/encoder"
	"github.com/Rochumback/wasm-image-converter/internal/hasher"
	"github.com/Rochumback/wasm-image-converter/internal/manifest"
	"github.com/Rochumback/wasm-image-converter/internal/sniff"
)

// processResult holds the outcome of converting a single source.
type processResult struct {
	key     string
	entry   manifest.Entry
	skipped *manifest.Skipped
	err     error // I/O failure writing the output
}

func skip(src Source, kind, reason string) processResult {
	return processResult{
		key:     src.RelPath,
		skipped: &manifest.Skipped{Path: src.RelPath, Kind: kind, Reason: reason},
	}
}

// processSource reads, converts and writes one source file.
func processSource(src Source, cfg Config, enc encoder.Encoder, log zerolog.Logger) processResult {
	data, err := os.ReadFile(src.AbsPath)
	if err != nil {
		return skip(src, "io", err.Error())
	}

	format, err := sniff.Detect(data)
	if err != nil {
		return skip(src, "detect", err.Error())
	}

	opts := []convert.Option{convert.WithLogger(log)}
	if cfg.Strict {
		opts = append(opts, convert.WithStrict())
	}
	out, err := convert.Convert(data, enc, opts...)
	if err != nil {
		var ce *convert.Error
		if errors.As(err, &ce) {
			return skip(src, ce.Kind.String(), err.Error())
		}
		return skip(src, "convert", err.Error())
	}
	if len(out) == 0 {
		return skip(src, "encode", "encoder produced no output")
	}

	mtype := mimetype.Detect(out)
	if !mtype.Is(enc.Format().MIME()) {
		log.Warn().
			Str("mime", mtype.String()).
			Str("want", enc.Format().MIME()).
			Msg("output does not look like the target format")
	}

	digest := hasher.ContentHash(out)
	keyDir := filepath.Dir(filepath.FromSlash(src.Key))
	fileName := fmt.Sprintf("%s.%s.%s", filepath.Base(src.Key), hasher.Short(digest), enc.Extension())
	relPath := filepath.ToSlash(filepath.Join(keyDir, fileName))

	outPath := filepath.Join(cfg.OutputDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return processResult{key: src.RelPath, err: fmt.Errorf("create dir for %s: %w", relPath, err)}
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return processResult{key: src.RelPath, err: fmt.Errorf("write %s: %w", relPath, err)}
	}

	return processResult{
		key: src.RelPath,
		entry: manifest.Entry{
			Source: manifest.Source{
				Path:   src.RelPath,
				Format: format.String(),
				Size:   src.Size,
			},
			Output: manifest.Output{
				Format: enc.Format().String(),
				MIME:   mtype.String(),
				Path:   relPath,
				Size:   int64(len(out)),
				Hash:   digest,
			},
		},
	}
}
