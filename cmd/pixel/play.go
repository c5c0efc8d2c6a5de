package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/lonely-pixel/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Climb alone",
	Long: `Start a single-player run on today's world.

Controls:
  A/D, Left/Right  - Move
  Space/W/Up       - Jump (double jump with the power)
  P                - Pause
  Enter            - Start, revive
  Esc              - Give up after a fall
  [ / ]            - Change skin (menu)
  X                - Buy a shield for 50 shards (menu)
  Tab              - Hall of fame (menu)
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Fewer, slower drones
  normal - Default pressure
  hard   - More, faster drones
  fixed  - No progression with altitude

Examples:
  pixel play
  pixel play --difficulty easy
  pixel play --seed 42
  pixel play --config ./my-pixel.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, _ []string) {
	gameCfg := loadGameConfig()
	logger, closeLog := tuiLogger()

	opts := tui.Options{
		Runtime: runtimeConfig(),
		Game:    gameCfg,
		Role:    tui.RoleOffline,
		Logger:  logger,
	}
	// A nil *storage.Store must not reach the interface field.
	store, ok := openStore()
	if ok {
		opts.Store = store
	}

	runErr := tui.Run(opts)

	if ok {
		store.Close()
	}
	closeLog()

	if runErr != nil {
		fatal("running game: %v", runErr)
	}
}
