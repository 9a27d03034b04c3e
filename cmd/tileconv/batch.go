package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// runBatch implements "tileconv batch": every file matched by -glob is
// converted independently, writing its artifacts under -out-dir using the
// source's base name (extension stripped) as the prefix. Uses
// doublestar.Glob the same way cmd/embed/main.go collects asset files,
// repurposed here to collect conversion inputs instead.
func runBatch(args []string) error {
	fs := exitFlagSet("batch")
	glob := fs.String("glob", "", "glob pattern matching source images, e.g. 'assets/**/*.png' (required)")
	outDir := fs.String("out-dir", "", "output directory (required)")
	var f cliFlags
	registerCommonFlags(fs, &f)
	fs.Parse(args)

	if *glob == "" || *outDir == "" {
		return fmt.Errorf("batch: -glob and -out-dir are required")
	}

	matches, err := doublestar.Glob(*glob)
	if err != nil {
		return fmt.Errorf("batch: glob %q: %w", *glob, err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("batch: glob %q matched no files", *glob)
	}

	var failures []string
	for _, m := range matches {
		base := filepath.Base(m)
		prefix := filepath.Join(*outDir, strings.TrimSuffix(base, filepath.Ext(base)))
		if err := convertOne(m, prefix, &f); err != nil {
			failures = append(failures, err.Error())
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("batch: %d of %d conversions failed:\n%s", len(failures), len(matches), strings.Join(failures, "\n"))
	}
	return nil
}
