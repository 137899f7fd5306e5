package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Rochumback/wasm-image-converter/internal/hasher"
	"github.com/Rochumback/wasm-image-converter/internal/manifest"
	"github.com/Rochumback/wasm-image-converter/internal/sniff"
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest_path>",
	Short: "Validate a batch manifest and check referenced outputs",
	Long: `Checks the manifest schema, that every output exists with the recorded
size and hash, and that its leading bytes match the recorded format.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	manifestPath := args[0]

	m, err := manifest.ReadJSON(manifestPath)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	errs := validateManifest(m, filepath.Dir(manifestPath))
	if len(errs) == 0 {
		fmt.Fprintln(w, "  ✓ Manifest is valid")
		fmt.Fprintf(w, "  ✓ %d outputs present, %d skipped\n", len(m.Entries), len(m.Skipped))
		return nil
	}

	fmt.Fprintf(w, "  ✗ Manifest has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(w, "    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

func validateManifest(m *manifest.Manifest, baseDir string) []string {
	var errs []string

	if m.Version != manifest.SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	keys := make([]string, 0, len(m.Entries))
	for k := range m.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seenPaths := map[string]string{}
	for _, key := range keys {
		e := m.Entries[key]

		if _, ok := sniff.ParseFormat(e.Source.Format); !ok {
			errs = append(errs, fmt.Sprintf("entry %q: unknown source format %q", key, e.Source.Format))
		}
		want, ok := sniff.ParseFormat(e.Output.Format)
		if !ok {
			errs = append(errs, fmt.Sprintf("entry %q: unknown output format %q", key, e.Output.Format))
		}
		if len(e.Output.Hash) != 16 {
			errs = append(errs, fmt.Sprintf("entry %q: malformed hash %q", key, e.Output.Hash))
		}
		if e.Output.Path == "" {
			errs = append(errs, fmt.Sprintf("entry %q: missing output path", key))
			continue
		}
		if prev, dup := seenPaths[e.Output.Path]; dup {
			errs = append(errs, fmt.Sprintf("entry %q: output path %q already used by %q", key, e.Output.Path, prev))
		}
		seenPaths[e.Output.Path] = key

		if problem := checkOutput(filepath.Join(baseDir, filepath.FromSlash(e.Output.Path)), e.Output, want); problem != "" {
			errs = append(errs, fmt.Sprintf("entry %q: %s", key, problem))
		}
	}

	// Verify stats consistency.
	if m.Stats.TotalEntries != len(m.Entries) {
		errs = append(errs, fmt.Sprintf("stats.total_entries mismatch: %d != %d", m.Stats.TotalEntries, len(m.Entries)))
	}
	if m.Stats.TotalSkipped != len(m.Skipped) {
		errs = append(errs, fmt.Sprintf("stats.total_skipped mismatch: %d != %d", m.Stats.TotalSkipped, len(m.Skipped)))
	}

	return errs
}

// checkOutput compares an output file on disk with its manifest record and
// returns a description of the first mismatch, or "".
func checkOutput(path string, out manifest.Output, want sniff.Format) string {
	f, err := os.Open(path)
	if err != nil {
		return "file not found: " + out.Path
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err.Error()
	}
	if info.Size() != out.Size {
		return fmt.Sprintf("size mismatch: manifest=%d, disk=%d", out.Size, info.Size())
	}

	head := make([]byte, sniff.MinLength)
	if _, err := io.ReadFull(f, head); err != nil {
		return "output too short to identify"
	}
	if want != sniff.Unknown {
		if got, err := sniff.Detect(head); err != nil || got != want {
			return "output does not look like " + want.String()
		}
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err.Error()
	}
	got, err := hasher.ContentHashReader(f)
	if err != nil {
		return err.Error()
	}
	if got != out.Hash {
		return fmt.Sprintf("hash mismatch: manifest=%s, disk=%s", out.Hash, got)
	}
	return ""
}
