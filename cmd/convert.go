package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"github.com/Rochumback/wasm-image-converter/internal/convert"
	"github.com/Rochumback/wasm-image-converter/internal/hasher"
	"github.com/Rochumback/wasm-image-converter/internal/profile"
)

var (
	convertTo      string
	convertOut     string
	convertStrict  bool
	convertQuality int
	convertSpeed   int
)

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Convert one image to a target format",
	Long: `Converts a single file ("-" reads stdin). The output defaults to the input
name with the target's extension; "-o -" writes to stdout.

Targets: preview, png, jpeg, webp, avif, ico, bmp, gif (see "imgconv targets").`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertTo, "to", "t", "", "target name (required)")
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "output file, - for stdout")
	convertCmd.Flags().BoolVar(&convertStrict, "strict", env.Strict, "fail on encode errors instead of writing partial output")
	convertCmd.Flags().IntVarP(&convertQuality, "quality", "q", 0, "quality 1-100 (0 = target default)")
	convertCmd.Flags().IntVar(&convertSpeed, "speed", 0, "encoder speed (0 = target default)")
	convertCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]

	target, ok := profile.Get(strings.ToLower(convertTo))
	if !ok {
		return fmt.Errorf("unknown target %q (have %s)", convertTo, strings.Join(profile.Names(), ", "))
	}
	target = target.WithQuality(convertQuality).WithSpeed(convertSpeed)

	data, err := readInput(cmd, input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	opts := []convert.Option{convert.WithLogger(log.With().Str("file", input).Logger())}
	if convertStrict {
		opts = append(opts, convert.WithStrict())
	}
	out, err := convert.ToTarget(target, data, opts...)
	if err != nil {
		return err
	}
	if len(out) == 0 {
		return fmt.Errorf("%s: encoder produced no output", target.Name)
	}

	mtype := mimetype.Detect(out)
	if !mtype.Is(target.Format.MIME()) {
		log.Warn().Str("mime", mtype.String()).Str("want", target.Format.MIME()).Msg("output does not look like the target format")
	}

	outPath := convertOut
	if outPath == "" {
		if input == "-" {
			outPath = "-"
		} else {
			outPath = strings.TrimSuffix(input, filepath.Ext(input)) + "." + target.Format.Extension()
		}
	}
	if outPath == "-" {
		_, err := cmd.OutOrStdout().Write(out)
		return err
	}
	if outPath == input {
		return fmt.Errorf("refusing to overwrite input %s", input)
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	log.Debug().
		Int("input_bytes", len(data)).
		Int("output_bytes", len(out)).
		Msg("converted")
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s → %s\n",
		hasher.ContentHash(out), outPath, formatBytes(int64(len(data))), formatBytes(int64(len(out))))
	return nil
}
