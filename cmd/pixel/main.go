// pixel is an endless vertical climber for the terminal, solo or in co-op.
//
// Usage:
//
//	pixel play               - Climb alone
//	pixel host               - Open a co-op lobby and print its join code
//	pixel join [code]        - Join a partner's lobby
//	pixel relay              - Run the websocket relay co-op peers meet on
//	pixel serve              - Start SSH server for remote play
//	pixel scores             - Show the hall of fame and co-op log
//	pixel ghost              - Describe the stored best-run ghost
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Override the daily world seed
//	--db <path>           - Set database path (default: ~/.pixel/pixel.db)
//	--config <path>       - Custom game config YAML
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/lonely-pixel/internal/config"
	"github.com/vovakirdan/lonely-pixel/internal/core"
	"github.com/vovakirdan/lonely-pixel/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pixel",
	Short: "Lonely Pixel - climb forever in your terminal",
	Long: `Lonely Pixel is an endless vertical platformer. Jump from platform to
platform, collect shards and powers, dodge drones and defeat the loop guardian.
Climb alone or with a partner over the relay.

Available commands:
  play     - Climb alone
  host     - Open a co-op lobby
  join     - Join a co-op lobby by code
  relay    - Run the co-op relay server
  serve    - Start SSH server for remote play
  scores   - View the hall of fame and co-op log
  ghost    - Describe the stored best-run ghost

Examples:
  pixel play
  pixel play --difficulty hard
  pixel host --name ada
  pixel join 7K2M9Q
  pixel relay --addr :8787
  pixel serve --ssh :2222`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "World seed (0 = today's daily seed)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.pixel/pixel.db", "Path to the save database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(hostCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(relayCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(ghostCmd)
}

// fatal prints an error and exits.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadGameConfig reads the config file and applies the difficulty preset.
func loadGameConfig() config.GameConfig {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fatal("loading config: %v", err)
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		fatal("%v", err)
	}
	config.ApplyPreset(&cfg, preset)
	return cfg
}

// runtimeConfig sizes the screen to the terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// openStore opens the save database. A failure falls back to an in-memory
// store so the game still runs.
func openStore() (*storage.Store, bool) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open save database: %v\n", err)
		return nil, false
	}
	return store, true
}

// newLogger builds a logger at the --log-level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
}

// tuiLogger logs to ~/.pixel/pixel.log, since the full-screen UI owns the
// terminal. The returned func closes the file.
func tuiLogger() (*log.Logger, func()) {
	home, err := os.UserHomeDir()
	if err != nil {
		return newLogger(io.Discard, "pixel"), func() {}
	}
	dir := filepath.Join(home, ".pixel")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newLogger(io.Discard, "pixel"), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "pixel.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return newLogger(io.Discard, "pixel"), func() {}
	}
	//nolint:errcheck // Best-effort close on exit
	return newLogger(f, "pixel"), func() { f.Close() }
}
