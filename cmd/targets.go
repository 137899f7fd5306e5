package cmd

import (
	"fmt"
	"image/png"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Rochumback/wasm-image-converter/internal/encoder"
	"github.com/Rochumback/wasm-image-converter/internal/profile"
	"github.com/Rochumback/wasm-image-converter/internal/sniff"
)

var targetsCmd = &cobra.Command{
	Use:   "targets [format]",
	Short: "List built-in conversion targets",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTargets,
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}

func runTargets(cmd *cobra.Command, args []string) error {
	filter := sniff.Unknown
	if len(args) == 1 {
		f, ok := sniff.ParseFormat(args[0])
		if !ok {
			return fmt.Errorf("unknown format %q", args[0])
		}
		filter = f
	}

	reg := encoder.NewRegistry()
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFORMAT\tEXT\tSETTINGS")
	for _, name := range reg.Names() {
		t, _ := reg.Target(name)
		if filter != sniff.Unknown && t.Format != filter {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Name, t.Format, reg.Get(name).Extension(), describeTarget(t))
	}
	return tw.Flush()
}

func describeTarget(t profile.Target) string {
	switch t.Format {
	case sniff.PNG:
		switch t.Compression {
		case png.BestSpeed:
			return "compression=fast"
		case png.BestCompression:
			return "compression=best"
		case png.NoCompression:
			return "compression=none"
		}
		return "compression=default"
	case sniff.JPEG:
		return fmt.Sprintf("quality=%d", t.Quality)
	case sniff.WebP:
		if t.Lossless {
			return "lossless"
		}
		return fmt.Sprintf("quality=%d", t.Quality)
	case sniff.AVIF:
		return fmt.Sprintf("quality=%d speed=%d", t.Quality, t.Speed)
	case sniff.GIF:
		return fmt.Sprintf("speed=%d", t.Speed)
	case sniff.ICO:
		return "max 256x256"
	}
	return "-"
}
