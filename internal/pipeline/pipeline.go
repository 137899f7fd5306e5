package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Rochumback/wasm-image-converter/internal/encoder"
	"github.com/Rochumback/wasm-image-converter/internal/manifest"
	"github.com/Rochumback/wasm-image-converter/internal/profile"
)

// ErrNothingConverted is returned when no source produced an output.
var ErrNothingConverted = errors.New("no inputs were converted")

// Config holds all parameters for a batch run.
type Config struct {
	InputDir  string
	OutputDir string
	Target    profile.Target
	Workers   int
	Strict    bool
	Log       zerolog.Logger
}

// Pipeline converts every file in a directory to one target.
type Pipeline struct {
	cfg Config
	enc encoder.Encoder
}

// New creates a configured pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	enc, err := encoder.New(cfg.Target)
	if err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, enc: enc}, nil
}

// Run executes the batch and returns the manifest. Sources that cannot be
// detected, decoded or encoded are listed as skipped; Run fails only when
// nothing was converted, an output cannot be written, or ctx is done.
func (p *Pipeline) Run(ctx context.Context) (*manifest.Manifest, error) {
	log := p.cfg.Log

	sources, err := ScanSources(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no files found in %s", p.cfg.InputDir)
	}
	log.Debug().Int("files", len(sources)).Int("workers", p.cfg.Workers).Msg("scan complete")

	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

schedule:
	for i, src := range sources {
		select {
		case <-ctx.Done():
			break schedule
		case sem <- struct{}{}: // acquire
		}
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			defer func() { <-sem }() // release

			flog := log.With().Str("file", s.RelPath).Logger()
			flog.Debug().Msg("processing")
			results[idx] = processSource(s, p.cfg, p.enc, flog)
			if r := results[idx]; r.skipped != nil {
				flog.Info().Str("kind", r.skipped.Kind).Msg("skipped: " + r.skipped.Reason)
			}
		}(i, src)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := manifest.New(p.cfg.Target.Name)
	m.BuildInfo = &manifest.BuildInfo{Workers: p.cfg.Workers, Strict: p.cfg.Strict}

	var errs []error
	for _, r := range results {
		switch {
		case r.err != nil:
			errs = append(errs, r.err)
		case r.skipped != nil:
			m.Skipped = append(m.Skipped, *r.skipped)
		default:
			m.Entries[r.key] = r.entry
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if len(m.Entries) == 0 {
		return nil, fmt.Errorf("%w: %d files skipped", ErrNothingConverted, len(m.Skipped))
	}
	if len(m.Skipped) > 0 {
		log.Warn().Msgf("%d of %d files were skipped", len(m.Skipped), len(sources))
	}

	m.ComputeStats()
	return m, nil
}
