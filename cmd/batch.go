package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Rochumback/wasm-image-converter/internal/manifest"
	"github.com/Rochumback/wasm-image-converter/internal/pipeline"
	"github.com/Rochumback/wasm-image-converter/internal/profile"
)

var (
	batchOutDir  string
	batchTo      string
	batchWorkers int
	batchQuality int
	batchSpeed   int
	batchStrict  bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <input_dir>",
	Short: "Convert every image in a directory and write a manifest",
	Long: `Walks the input directory (hidden entries excluded), converts every file
whose leading bytes identify a supported format, and writes the results
plus ` + manifest.FileName + ` to the output directory.

Output filenames are content-addressed: <name>.<hash>.<ext>. Files that
cannot be detected or decoded are listed under "skipped" in the manifest.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutDir, "out", "o", "./imgconv_out", "output directory")
	batchCmd.Flags().StringVarP(&batchTo, "to", "t", "webp", "target name")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", env.Workers, "parallel workers")
	batchCmd.Flags().IntVarP(&batchQuality, "quality", "q", 0, "quality 1-100 (0 = target default)")
	batchCmd.Flags().IntVar(&batchSpeed, "speed", 0, "encoder speed (0 = target default)")
	batchCmd.Flags().BoolVar(&batchStrict, "strict", env.Strict, "skip files whose encode fails instead of keeping partial output")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	start := time.Now()

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(batchOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	target, ok := profile.Get(strings.ToLower(batchTo))
	if !ok {
		return fmt.Errorf("unknown target %q (have %s)", batchTo, strings.Join(profile.Names(), ", "))
	}
	target = target.WithQuality(batchQuality).WithSpeed(batchSpeed)

	log.Debug().
		Str("input", absInput).
		Str("output", absOutput).
		Str("target", target.Name).
		Msg("starting batch")

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p, err := pipeline.New(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Target:    target,
		Workers:   batchWorkers,
		Strict:    batchStrict,
		Log:       log,
	})
	if err != nil {
		return err
	}

	m, err := p.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printBatchReport(cmd.OutOrStdout(), m, time.Since(start))
	return nil
}

func printBatchReport(w io.Writer, m *manifest.Manifest, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  imgconv batch complete (%s)\n", m.Target)
	fmt.Fprintln(w)

	stats := m.Stats
	ratio := float64(0)
	if stats.TotalInputBytes > 0 {
		ratio = float64(stats.TotalOutputBytes) / float64(stats.TotalInputBytes) * 100
	}

	fmt.Fprintf(w, "  Converted:   %d\n", stats.TotalEntries)
	if stats.TotalSkipped > 0 {
		fmt.Fprintf(w, "  Skipped:     %d\n", stats.TotalSkipped)
	}
	fmt.Fprintf(w, "  Input size:  %s\n", formatBytes(stats.TotalInputBytes))
	fmt.Fprintf(w, "  Output size: %s\n", formatBytes(stats.TotalOutputBytes))
	fmt.Fprintf(w, "  Ratio:       %.1f%% of original\n", ratio)
	fmt.Fprintf(w, "  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.BuildInfo != nil {
		fmt.Fprintf(w, "  Workers:     %d\n", m.BuildInfo.Workers)
	}
	fmt.Fprintln(w)

	// Top 10 largest inputs.
	if len(m.Entries) > 0 {
		keys := make([]string, 0, len(m.Entries))
		for k := range m.Entries {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			return m.Entries[keys[i]].Source.Size > m.Entries[keys[j]].Source.Size
		})
		n := min(len(keys), 10)
		fmt.Fprintf(w, "  Top %d largest (original → converted):\n", n)
		for _, k := range keys[:n] {
			e := m.Entries[k]
			fmt.Fprintf(w, "    %-40s %-5s %8s → %8s\n",
				truncKey(k, 40),
				e.Source.Format,
				formatBytes(e.Source.Size),
				formatBytes(e.Output.Size),
			)
		}
		fmt.Fprintln(w)
	}

	data, _ := json.Marshal(m)
	fmt.Fprintf(w, "  Manifest:    %s (%s)\n", manifest.FileName, formatBytes(int64(len(data))))
	fmt.Fprintln(w)
}
