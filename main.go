package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"stexls/linker"
	"stexls/logging"
	"stexls/workspace"
)

func main() {
	logging.Init()

	root := flag.String("root", ".", "repository root containing the source/ directories to compile against")
	outdir := flag.String("outdir", "", "on-disk object cache directory (disables persistence if empty)")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: stexls -root <dir> [-outdir <dir>] <file.tex>...")
		os.Exit(2)
	}

	absRoot, err := filepath.Abs(*root)
	if err != nil {
		logging.Logger.Error("resolving root", "error", err)
		os.Exit(1)
	}

	ws := workspace.New(absRoot)
	l := linker.New(linker.Config{Root: absRoot, OutDir: *outdir, Workspace: ws})

	exitCode := 0
	for _, file := range files {
		absFile, err := filepath.Abs(file)
		if err != nil {
			logging.Logger.Error("resolving file", "file", file, "error", err)
			exitCode = 1
			continue
		}

		obj, err := l.CompileAndLink(absFile, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)
			exitCode = 1
			continue
		}

		for rng, errs := range obj.Errors {
			for _, e := range errs {
				fmt.Printf("%s:%d:%d: %v\n", file, rng.Start.Line+1, rng.Start.Character+1, e)
			}
		}
		if len(obj.Errors) > 0 {
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}
