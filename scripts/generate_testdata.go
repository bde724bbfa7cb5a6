//go:build ignore

// generate_testdata.go writes replay scripts for profiling the engine.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	tests/testdata/replay/small.yaml   (100 events, 3 columns)
//	tests/testdata/replay/medium.yaml  (1000 events, 7 columns)
//	tests/testdata/replay/large.yaml   (10000 events, 9 columns)
//
// Run one with: soroban --robot-replay tests/testdata/replay/large.yaml --robot-metrics
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/soroban/pkg/testutil"
)

type datasetSpec struct {
	name    string
	events  int
	columns int
}

var datasets = []datasetSpec{
	{"small", 100, 3},
	{"medium", 1000, 7},
	{"large", 10000, 9},
}

func main() {
	outputDir := "tests/testdata/replay"
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		fmt.Printf("Generating %s script (%d events)...\n", ds.name, ds.events)

		gen := testutil.New(testutil.GeneratorConfig{
			Seed:     int64(ds.events),
			Columns:  ds.columns,
			Pointers: 2,
			Targets:  true,
			Waits:    true,
		})
		data, err := testutil.ToYAML(gen.Script(ds.events))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode %s: %v\n", ds.name, err)
			os.Exit(1)
		}

		path := filepath.Join(outputDir, ds.name+".yaml")
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("  Wrote %s\n", path)
	}

	fmt.Println("\nDone.")
}
