package pipeline

import (
	"os"
	"path/filepath"
	"strings"
)

// Source represents a discovered input file. Its format is not known until
// the bytes are sniffed; the extension is only used to build the key.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory.
	RelPath string
	// Key is the relative path without extension, using forward slashes.
	Key string
	// Size is the file size in bytes.
	Size int64
}

// ScanSources walks the input directory and returns every regular file.
// Hidden files and directories are skipped.
func ScanSources(inputDir string) ([]Source, error) {
	var sources []Source

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		hidden := strings.HasPrefix(info.Name(), ".") && path != inputDir
		if info.IsDir() {
			if hidden {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden || !info.Mode().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		key := strings.TrimSuffix(relPath, filepath.Ext(relPath))

		sources = append(sources, Source{
			AbsPath: path,
			RelPath: filepath.ToSlash(relPath),
			Key:     filepath.ToSlash(key),
			Size:    info.Size(),
		})
		return nil
	})

	return sources, err
}
