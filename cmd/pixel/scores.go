package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lonely-pixel/internal/platform/tui"
	"github.com/vovakirdan/lonely-pixel/internal/storage"
)

var flagScoresTUI bool

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the hall of fame and co-op log",
	Long: `Display the single-player hall of fame, recent co-op runs and
per-mode totals.

Examples:
  pixel scores
  pixel scores --tui`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse scores in a full-screen table")
}

func runScores(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatal("opening save database: %v", err)
	}
	defer store.Close()

	if flagScoresTUI {
		if err := tui.RunScoreboard(store); err != nil {
			fatal("running scoreboard: %v", err)
		}
		return
	}

	profile, err := store.LoadProfile()
	if err != nil {
		fatal("loading profile: %v", err)
	}
	fmt.Printf("Best: %dm   Shards: %d   Loops: %d\n", profile.Best, profile.Shards, profile.Loops)
	fmt.Println()

	fame, err := store.Fame()
	if err != nil {
		fatal("retrieving hall of fame: %v", err)
	}
	fmt.Println("Hall of Fame")
	if len(fame) == 0 {
		fmt.Println("  No runs recorded yet. Play 'pixel play' to set the first one!")
	} else {
		fmt.Printf("  %-4s  %-8s  %-12s  %s\n", "Rank", "Meters", "Skin", "Date")
		fmt.Printf("  %-4s  %-8s  %-12s  %s\n", "----", "------", "----", "----")
		for i, e := range fame {
			fmt.Printf("  %-4d  %-8d  %-12s  %s\n", i+1, e.Meters, e.Skin, e.PlayedOn)
		}
	}
	fmt.Println()

	runs, err := store.RecentCoopRuns(10)
	if err != nil {
		fatal("retrieving co-op runs: %v", err)
	}
	fmt.Println("Co-op Log")
	if len(runs) == 0 {
		fmt.Println("  No co-op runs yet.")
	} else {
		fmt.Printf("  %-14s  %-8s  %-6s  %-5s  %-12s  %s\n", "Partner", "Meters", "Deaths", "Loops", "Ended", "Date")
		for _, r := range runs {
			fmt.Printf("  %-14s  %-8d  %-6d  %-5d  %-12s  %s\n",
				r.Partner, r.Meters, r.Deaths, r.Loops, r.EndReason, r.CreatedAt.Format("2006-01-02 15:04"))
		}
	}
	fmt.Println()

	for _, mode := range []string{storage.ModeSolo, storage.ModeCoop} {
		stats, err := store.Stats(mode)
		if err != nil {
			fatal("retrieving %s stats: %v", mode, err)
		}
		if stats.RunsCount == 0 {
			continue
		}
		fmt.Printf("%-5s %d runs, best %dm, avg %.0fm, total %dm\n",
			mode+":", stats.RunsCount, stats.Best, stats.AvgMeters, stats.Total)
	}
}
