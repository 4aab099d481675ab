package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"

	"github.com/calumari/covers/internal/generator"
	"github.com/calumari/covers/internal/macro"
)

// deriveVersion inspects build info for module version or vcs revision.
// preference order: module semantic version -> short commit hash -> "devel".
func deriveVersion() string {
	if bi, ok := debug.ReadBuildInfo(); ok {
		if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			return bi.Main.Version
		}
		var revision string
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				revision = s.Value
				break
			}
		}
		if len(revision) >= 12 {
			return revision[:12]
		}
		if revision != "" {
			return revision
		}
	}
	return "devel"
}

// splitList splits a comma-separated flag value, dropping empty entries.
func splitList(csv string) []string {
	var out []string
	for _, p := range strings.Split(csv, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func main() {
	log.SetPrefix("coversgen: ")
	log.SetFlags(0)

	var modeName string
	var featuresCSV string
	var manifest string
	var noPub, write, diff, verbose, version bool
	flag.StringVar(&modeName, "mode", "debug", "Build profile to expand for: release, debug or test")
	flag.StringVar(&featuresCSV, "features", "", "Comma-separated crate features: one of _, __, _orig_ and/or no-pub")
	flag.StringVar(&manifest, "manifest", "", "Cargo.toml whose covers dependency features are merged in")
	flag.BoolVar(&noPub, "no-pub", false, "Leave mock functions at their declared visibility")
	flag.BoolVar(&write, "w", false, "Write results back to the source files instead of printing them")
	flag.BoolVar(&diff, "diff", false, "Print unified diffs instead of expanded sources")
	flag.BoolVar(&verbose, "v", false, "Log every expansion")
	flag.BoolVar(&version, "version", false, "Print the version and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [path ...]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nCoversgen expands #[mocked] and #[mock] attributes in Rust sources.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s -mode=test -features=__ -diff ./src\n", os.Args[0])
	}
	flag.Parse()

	if version {
		fmt.Println(deriveVersion())
		return
	}
	mode, err := macro.ParseBuildMode(modeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		flag.Usage()
		os.Exit(2)
	}

	cfg := generator.Config{
		Paths:    flag.Args(),
		Mode:     mode,
		Features: splitList(featuresCSV),
		NoPub:    noPub,
		Manifest: manifest,
		Write:    write,
		Diff:     diff,
		Verbose:  verbose,
	}
	if verbose {
		log.Printf("%s, mode %s", deriveVersion(), mode)
	}
	if err := generator.Run(cfg); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}
