// Command gaphasdemo loads a diagram scenario, resolves it to a fixed
// point, and exports the result as SVG. It exists to exercise the
// engine end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gaphor/gaphas/pkg/item"
	"github.com/gaphor/gaphas/pkg/render"
	"github.com/gaphor/gaphas/pkg/rng"
	"github.com/gaphor/gaphas/pkg/scenario"
)

const version = "0.1.0"

var (
	configPath = flag.String("config", "", "Path to YAML scenario file")
	output     = flag.String("output", "diagram.svg", "Path to write the rendered SVG")
	stress     = flag.Int("stress", 0, "Ignore -config and synthesize a random scenario with N elements")
	seedFlag   = flag.Uint64("seed", 0, "Seed for -stress (0 = derive from current time)")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
	versionF   = flag.Bool("version", false, "Print version and exit")
	help       = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("gaphasdemo version %s\n", version)
		os.Exit(0)
	}
	if *help {
		printHelp()
		os.Exit(0)
	}
	if *configPath == "" && *stress <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -config or -stress is required")
		printUsage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg *scenario.Config
	var err error

	if *stress > 0 {
		seed := *seedFlag
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		if *verbose {
			fmt.Printf("Synthesizing a stress scenario with %d elements (seed=%d)\n", *stress, seed)
		}
		cfg = synthesizeScenario(seed, *stress)
	} else {
		if *verbose {
			fmt.Printf("Loading scenario from %s\n", *configPath)
		}
		cfg, err = scenario.LoadConfig(*configPath)
		if err != nil {
			return fmt.Errorf("failed to load scenario: %w", err)
		}
	}

	if h, herr := cfg.Hash(); herr == nil && *verbose {
		fmt.Printf("Scenario hash: %x\n", h)
	}

	c, items, err := scenario.Build(cfg)
	if err != nil {
		return fmt.Errorf("failed to build canvas: %w", err)
	}
	if *verbose {
		fmt.Printf("Built %d items\n", len(items))
	}

	start := time.Now()
	if err := c.Update(demoContext{context.Background()}); err != nil {
		return fmt.Errorf("solving failed: %w", err)
	}
	elapsed := time.Since(start)
	if *verbose {
		fmt.Printf("Resolved in %v\n", elapsed)
	}

	opts := render.DefaultOptions()
	writeFile := func(path string, data []byte) error {
		return os.WriteFile(path, data, 0644)
	}
	if err := render.SaveSVG(c, *output, opts, writeFile); err != nil {
		return fmt.Errorf("failed to export SVG: %w", err)
	}
	fmt.Printf("Wrote %s\n", *output)
	return nil
}

// demoContext is the minimal item.Context this binary supplies: no
// cancellation beyond the background context, and a fixed-width text
// measurement since the demo never lays out label text.
type demoContext struct {
	context.Context
}

func (demoContext) Measure(text string) (float64, float64) {
	return float64(len(text)) * 7, 16
}

// synthesizeScenario builds a reproducible random scenario of n boxes
// chained together by connector lines, for exercising the solver at
// scale. Every box's size and position, and every wire's edge choice,
// is drawn in turn from one "layout" RNG stage keyed on seed and n, so
// the same seed and n always give the same scenario.
func synthesizeScenario(seed uint64, n int) *scenario.Config {
	layout := rng.NewRNG(seed, "layout", []byte(fmt.Sprintf("stress-%d", n)))

	cfg := &scenario.Config{Seed: seed}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("box%d", i)
		cfg.Items = append(cfg.Items, scenario.ItemCfg{
			ID:        id,
			Kind:      scenario.KindElement,
			X:         layout.Float64Range(0, 2000),
			Y:         layout.Float64Range(0, 2000),
			Width:     layout.Float64Range(40, 160),
			Height:    layout.Float64Range(30, 120),
			MinWidth:  10,
			MinHeight: 10,
		})
	}
	for i := 0; i+1 < n; i++ {
		from, to := fmt.Sprintf("box%d", i), fmt.Sprintf("box%d", i+1)
		wireID := fmt.Sprintf("wire%d", i)
		cfg.Items = append(cfg.Items, scenario.ItemCfg{
			ID:     wireID,
			Kind:   scenario.KindLine,
			Points: [][2]float64{{0, 0}, {1, 1}},
		})
		edges := []string{"top", "right", "bottom", "left"}
		cfg.Connections = append(cfg.Connections,
			scenario.ConnectionCfg{Item: wireID, Handle: 0, ConnectedItem: from, Port: scenario.PortRef{Edge: edges[layout.Intn(len(edges))]}},
			scenario.ConnectionCfg{Item: wireID, Handle: 1, ConnectedItem: to, Port: scenario.PortRef{Edge: edges[layout.Intn(len(edges))]}},
		)
	}
	return cfg
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage: gaphasdemo -config <scenario.yaml> [options]")
	fmt.Fprintln(os.Stderr, "       gaphasdemo -stress <n> [options]")
	fmt.Fprintln(os.Stderr, "\nRun 'gaphasdemo -help' for detailed help")
}

func printHelp() {
	fmt.Printf("gaphasdemo version %s\n\n", version)
	fmt.Println("Loads a diagram scenario, resolves it with the constraint solver, and")
	fmt.Println("writes the result as an SVG file.")
	fmt.Println("\nUsage:")
	fmt.Println("  gaphasdemo -config <scenario.yaml> [options]")
	fmt.Println("  gaphasdemo -stress <n> [options]")
	fmt.Println("\nFlags:")
	fmt.Println("  -config string")
	fmt.Println("        Path to a YAML scenario file")
	fmt.Println("  -stress int")
	fmt.Println("        Ignore -config and synthesize a chain of n connected boxes")
	fmt.Println("  -seed uint")
	fmt.Println("        Seed for -stress (0 = derive from current time)")
	fmt.Println("  -output string")
	fmt.Println("        Path to write the rendered SVG (default: diagram.svg)")
	fmt.Println("  -verbose")
	fmt.Println("        Enable verbose output")
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
}

var _ item.Context = demoContext{}
