package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestManifestRoundtrip(t *testing.T) {
	m := New("webp")
	m.BuildInfo = &BuildInfo{Workers: 4, Strict: true}
	m.Entries["photos/cat.png"] = Entry{
		Source: Source{Path: "photos/cat.png", Format: "png", Size: 100000},
		Output: Output{
			Format: "webp", MIME: "image/webp", Size: 5000,
			Hash: "abcd1234abcd1234", Path: "photos/cat.abcd1234.webp",
		},
	}
	m.Skipped = []Skipped{
		{Path: "notes.txt", Reason: "unable to determine image format", Kind: "detect"},
		{Path: "broken.png", Reason: "decode: png: invalid format", Kind: "decode"},
	}

	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := WriteJSON(m, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	m2, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if m2.Version != SupportedManifestVersion {
		t.Errorf("version: got %d, want %d", m2.Version, SupportedManifestVersion)
	}
	if m2.Target != "webp" {
		t.Errorf("target: got %q", m2.Target)
	}
	if m2.BuildInfo == nil || m2.BuildInfo.Workers != 4 || !m2.BuildInfo.Strict {
		t.Errorf("build_info: got %+v", m2.BuildInfo)
	}

	e, ok := m2.Entries["photos/cat.png"]
	if !ok {
		t.Fatal("entry photos/cat missing")
	}
	if e.Output.MIME != "image/webp" || e.Source.Format != "png" {
		t.Errorf("entry: got %+v", e)
	}

	if len(m2.Skipped) != 2 || m2.Skipped[0].Path != "broken.png" {
		t.Errorf("skipped not sorted: %+v", m2.Skipped)
	}

	s := m2.Stats
	if s.TotalEntries != 1 || s.TotalSkipped != 2 {
		t.Errorf("counts: got %+v", s)
	}
	if s.TotalInputBytes != 100000 || s.TotalOutputBytes != 5000 {
		t.Errorf("bytes: got %+v", s)
	}
	if s.SourceFormats["png"] != 1 {
		t.Errorf("source formats: got %v", s.SourceFormats)
	}
}

func TestManifestVersion(t *testing.T) {
	m := New("v-test")
	if m.Version != SupportedManifestVersion {
		t.Errorf("new manifest version: got %d, want %d", m.Version, SupportedManifestVersion)
	}
}

func TestManifestIgnoresUnknownFields(t *testing.T) {
	raw := `{
		"version": 1,
		"generated_at": "2025-01-01T00:00:00Z",
		"target": "png",
		"future_field": "should be ignored",
		"build_info": { "workers": 8, "strict": false, "new_flag": true },
		"entries": {},
		"stats": { "total_input_bytes": 0, "total_output_bytes": 0, "total_entries": 0, "total_skipped": 0, "new_stat": 42 }
	}`
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("read with unknown fields: %v", err)
	}
	if m.Version != 1 {
		t.Errorf("version: got %d", m.Version)
	}
	if m.BuildInfo == nil || m.BuildInfo.Workers != 8 {
		t.Error("build_info not parsed correctly")
	}
}

func TestReadJSON_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadJSON(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte("{not json"), 0o644)
	if _, err := ReadJSON(bad); err == nil {
		t.Error("expected error for malformed json")
	}
}
