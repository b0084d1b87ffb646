package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"mmm/internal/logging"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			dir, err := resolveDataDir()
			if err != nil {
				panic(r)
			}
			path, werr := logging.WriteCrashReport(logDir(dir), r, debug.Stack())
			if werr == nil {
				fmt.Fprintf(os.Stderr, "mmm crashed: %v\ncrash report written to %s\n", r, path)
			} else {
				fmt.Fprintf(os.Stderr, "mmm crashed: %v\n%s\n", r, debug.Stack())
			}
			os.Exit(1)
		}
	}()

	Execute()
}
