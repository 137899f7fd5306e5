package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Rochumback/wasm-image-converter/internal/manifest"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a batch output directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	path := args[0]

	// If path is a directory, look for manifest inside.
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, manifest.FileName)
	}

	m, err := manifest.ReadJSON(path)
	if err != nil {
		return err
	}
	printStats(cmd.OutOrStdout(), m)
	return nil
}

func printStats(w io.Writer, m *manifest.Manifest) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Manifest version: %d\n", m.Version)
	fmt.Fprintf(w, "  Generated:        %s\n", m.GeneratedAt)
	fmt.Fprintf(w, "  Target:           %s\n", m.Target)
	if m.BuildInfo != nil {
		fmt.Fprintf(w, "  Workers:          %d\n", m.BuildInfo.Workers)
		fmt.Fprintf(w, "  Strict:           %t\n", m.BuildInfo.Strict)
	}
	fmt.Fprintln(w)

	s := m.Stats
	fmt.Fprintf(w, "  Converted:        %d\n", s.TotalEntries)
	fmt.Fprintf(w, "  Skipped:          %d\n", s.TotalSkipped)
	fmt.Fprintf(w, "  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Fprintf(w, "  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	if s.TotalInputBytes > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
		fmt.Fprintf(w, "  Compression:      %.1f%% of original\n", ratio)
	}
	fmt.Fprintln(w)

	// Per-source-format breakdown.
	type formatStat struct {
		count   int
		in, out int64
	}
	byFormat := map[string]formatStat{}
	for _, e := range m.Entries {
		fs := byFormat[e.Source.Format]
		fs.count++
		fs.in += e.Source.Size
		fs.out += e.Output.Size
		byFormat[e.Source.Format] = fs
	}
	formats := make([]string, 0, len(byFormat))
	for f := range byFormat {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	fmt.Fprintln(w, "  Source formats:")
	for _, f := range formats {
		fs := byFormat[f]
		fmt.Fprintf(w, "    %-6s  %4d files  %8s → %8s\n", f, fs.count, formatBytes(fs.in), formatBytes(fs.out))
	}
	fmt.Fprintln(w)

	// Skip reasons, grouped by kind.
	if len(m.Skipped) > 0 {
		byKind := map[string][]manifest.Skipped{}
		for _, sk := range m.Skipped {
			byKind[sk.Kind] = append(byKind[sk.Kind], sk)
		}
		kinds := make([]string, 0, len(byKind))
		for k := range byKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		fmt.Fprintf(w, "  Skipped (%d):\n", len(m.Skipped))
		for _, k := range kinds {
			for _, sk := range byKind[k] {
				fmt.Fprintf(w, "    %-7s %-40s %s\n", k, truncKey(sk.Path, 40), sk.Reason)
			}
		}
		fmt.Fprintln(w)
	}
}
