package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/edp1096/blocklac/pkg/analysis"
	"github.com/edp1096/blocklac/pkg/deck"
	"github.com/edp1096/blocklac/pkg/system"
	"github.com/edp1096/blocklac/pkg/util"
)

var (
	verbose = flag.Bool("v", false, "print deck, block layout and block matrices")
	sorted  = flag.Bool("sorted", false, "accept batched writes with columns in any order")
)

func getKeys(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func printResults(cmd deck.Command, results map[string][]float64) {
	fmt.Printf("\n%s %v:\n", cmd.Type, cmd.Args)
	for _, name := range getKeys(results) {
		values := results[name]
		switch name {
		case "NORM":
			fmt.Printf("NORM = %s\n", util.FormatValueFactor(values[0], ""))
		case "ITER":
			fmt.Printf("ITER = %d\n", int(values[0]))
		default:
			fmt.Print(util.FormatVector(name, values))
		}
	}
}

func printLayout(sys *system.System) {
	m := sys.Matrix()
	fmt.Printf("Matrix: %d x %d in %d x %d blocks\n", m.Rows(), m.Cols(), m.NBlockRows(), m.NBlockCols())
	fmt.Printf("Row blocks: %v\n", m.RowIndices().Sizes())
	fmt.Printf("Column blocks: %v\n", m.ColIndices().Sizes())
	m.Print(os.Stdout)
}

func loadDeck(path string) *deck.Deck {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Error reading deck file: %v", err)
	}
	if *verbose {
		fmt.Printf("File contents:\n%s\n", string(content))
	}

	d, err := deck.Parse(string(content))
	if err != nil {
		log.Fatalf("Error parsing deck: %v", err)
	}
	if *sorted {
		d.Options.Sorted = true
	}
	return d
}

func procWithPrint() {
	// 1. Read and parse deck
	fmt.Printf("\n[1] Reading deck file: %s\n", flag.Arg(0))
	d := loadDeck(flag.Arg(0))
	fmt.Printf("Entries: %d, vectors: %d, commands: %d\n", len(d.Entries), len(d.Vectors), len(d.Commands))

	// 2. Assemble
	fmt.Println("\n[2] Assembling block matrix")
	sys, err := system.Load(d)
	if err != nil {
		log.Fatalf("Error assembling system: %v", err)
	}
	defer sys.Destroy()
	printLayout(sys)

	// 3. Run analyses
	fmt.Println("\n[3] Executing analyses")
	runCommands(sys, d.Commands)
}

func procWithoutPrint() {
	d := loadDeck(flag.Arg(0))

	sys, err := system.Load(d)
	if err != nil {
		log.Fatalf("Error assembling system: %v", err)
	}
	defer sys.Destroy()

	runCommands(sys, d.Commands)
}

func runCommands(sys *system.System, commands []deck.Command) {
	for _, cmd := range commands {
		analyzer, err := analysis.FromCommand(cmd)
		if err != nil {
			log.Fatalf("Unsupported analysis: %v", err)
		}
		if err := analyzer.Setup(sys); err != nil {
			log.Fatalf("Analysis setup failed: %v", err)
		}
		if err := analyzer.Execute(); err != nil {
			log.Fatalf("Analysis execution failed: %v", err)
		}
		printResults(cmd, analyzer.GetResults())
	}
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("Usage: blocklac [-v] [-sorted] <deck_file>")
	}

	if *verbose {
		procWithPrint()
		return
	}
	procWithoutPrint()
}
