package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Rochumback/wasm-image-converter/internal/config"
)

var (
	version = "0.1.0"

	env       = config.Load()
	verbose   bool
	logFormat string
	log       = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "imgconv",
	Short: "Convert images between PNG, JPEG, GIF, WebP, TIFF, BMP, ICO and AVIF",
	Long: `imgconv detects an image's format from its leading bytes, decodes it and
re-encodes it to one of the built-in targets.

Single files go through "convert"; whole directories through "batch", which
writes content-addressed outputs and a manifest.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		l, err := newLogger(cmd.ErrOrStderr(), logFormat, verbose)
		if err != nil {
			return err
		}
		log = l
		return nil
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "imgconv:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", env.Verbose, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", env.LogFormat, "log format: console or json")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"imgconv %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// newLogger builds the process logger. Info level by default, debug with
// verbose.
func newLogger(w io.Writer, format string, verbose bool) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	switch format {
	case "json":
	case "", "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", format)
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}

// readInput reads a file, or stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
