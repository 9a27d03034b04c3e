// Command tileconv converts RGB(A) raster images into the tile/palette/BAT
// graphics format described by the convert package. It is the I/O front
// end: image decoding, flag parsing, batch globbing, optional live preview
// and file writing all live here, never in convert itself.
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "convert":
		err = runConvert(os.Args[2:])
	case "batch":
		err = runBatch(os.Args[2:])
	case "help", "-h", "-help", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "tileconv: unknown subcommand %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: tileconv <command> [flags]

commands:
  convert   convert a single image
  batch     convert every image matched by -glob
  help      show this message

run "tileconv convert -h" or "tileconv batch -h" for flag details`)
}

// exitFlagSet returns a FlagSet that exits with status 2 on parse error,
// matching the teacher's os.Exit(2)-on-failure convention in cmd/vnes/main.go.
func exitFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return fs
}
