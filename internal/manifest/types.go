package manifest

// Manifest is the top-level output of a batch conversion.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Target      string           `json:"target"`
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Entries     map[string]Entry `json:"entries"`
	Skipped     []Skipped        `json:"skipped,omitempty"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures run parameters for diagnostics.
type BuildInfo struct {
	Workers int  `json:"workers"`
	Strict  bool `json:"strict"`
}

// Entry pairs one source file with its converted output.
type Entry struct {
	Source Source `json:"source"`
	Output Output `json:"output"`
}

// Source holds what was detected about the input.
type Source struct {
	Path   string `json:"path"`   // relative to the input directory
	Format string `json:"format"` // from the byte signature
	Size   int64  `json:"size"`
}

// Output describes the file written for an entry.
type Output struct {
	Format string `json:"format"`
	MIME   string `json:"mime"` // detected from the written bytes
	Path   string `json:"path"` // relative to the manifest
	Size   int64  `json:"size"`
	Hash   string `json:"hash"` // xxhash64, 16 hex chars
}

// Skipped records an input that produced no output.
type Skipped struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Kind   string `json:"kind"` // detect, decode, encode, io
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64          `json:"total_input_bytes"`
	TotalOutputBytes int64          `json:"total_output_bytes"`
	TotalEntries     int            `json:"total_entries"`
	TotalSkipped     int            `json:"total_skipped"`
	SourceFormats    map[string]int `json:"source_formats,omitempty"`
}

// FileName is the manifest's name inside the output directory.
const FileName = "imgconv.manifest.json"

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1
