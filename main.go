package main

import (
	"os"

	"github.com/Rochumback/wasm-image-converter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
