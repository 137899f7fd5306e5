package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rochumback/wasm-image-converter/internal/convert"
)

var detectJSON bool

var detectCmd = &cobra.Command{
	Use:   "detect <file>...",
	Short: "Identify images by their leading bytes and decode them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDetect,
}

func init() {
	detectCmd.Flags().BoolVar(&detectJSON, "json", false, "print one JSON object per file")
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		data, err := readInput(cmd, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		info, err := convert.Inspect(data)
		if err != nil {
			failed++
			log.Debug().Str("file", path).Err(err).Msg("inspect failed")
			fmt.Fprintf(w, "%s: %v\n", path, err)
			continue
		}

		if detectJSON {
			line, _ := json.Marshal(struct {
				Path string `json:"path"`
				convert.Info
			}{path, info})
			fmt.Fprintln(w, string(line))
			continue
		}
		alpha := ""
		if info.HasAlpha {
			alpha = ", alpha"
		}
		fmt.Fprintf(w, "%s: %s (%s) %dx%d, %d frame(s)%s, %s\n",
			path, info.Name, info.MIME, info.Width, info.Height, info.Frames, alpha, formatBytes(int64(info.Size)))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be read as images", failed, len(args))
	}
	return nil
}
