package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lonely-pixel/internal/sim"
	"github.com/vovakirdan/lonely-pixel/internal/storage"
)

var ghostCmd = &cobra.Command{
	Use:   "ghost",
	Short: "Describe the stored best-run ghost",
	Long: `Print a summary of the ghost trail recorded on your best single-player
run. The ghost replays beside you on later solo runs.

Examples:
  pixel ghost
  pixel ghost --db ./pixel.db`,
	Args: cobra.NoArgs,
	Run:  runGhost,
}

func runGhost(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatal("opening save database: %v", err)
	}
	defer store.Close()

	trail, err := store.LoadGhost()
	if err != nil {
		fatal("loading ghost: %v", err)
	}
	if len(trail) == 0 {
		fmt.Println("No ghost recorded yet. Set a new best with 'pixel play'.")
		return
	}

	profile, err := store.LoadProfile()
	if err != nil {
		fatal("loading profile: %v", err)
	}

	minX, maxX := trail[0].X, trail[0].X
	for _, p := range trail {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
	}
	seconds := float64(len(trail)*sim.GhostEvery) / sim.StepsPerSecond

	fmt.Printf("Ghost of your %dm best\n", profile.Best)
	fmt.Printf("  Samples:  %d (one every %d steps)\n", len(trail), sim.GhostEvery)
	fmt.Printf("  Length:   %.1fs\n", seconds)
	fmt.Printf("  X range:  %d to %d\n", minX, maxX)
	fmt.Printf("  Start:    (%d, %d)\n", trail[0].X, trail[0].Y)
	fmt.Printf("  End:      (%d, %d)\n", trail[len(trail)-1].X, trail[len(trail)-1].Y)
}
