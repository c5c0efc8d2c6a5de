package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lonely-pixel/internal/multiplayer"
	"github.com/vovakirdan/lonely-pixel/internal/platform/tui"
	"github.com/vovakirdan/lonely-pixel/internal/storage"
)

var (
	flagRelayURL string
	flagName     string
)

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Open a co-op lobby",
	Long: `Open a lobby on the relay and show its join code. Share the code with
your partner; press Enter to start once they are connected.

Both players climb the same world. A fallen player respawns after a short
countdown; the run ends when both are down at once.

Examples:
  pixel host
  pixel host --name ada --relay ws://relay.example.com:8787/relay`,
	Args: cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		runOnline(tui.RoleHost, "")
	},
}

var joinCmd = &cobra.Command{
	Use:   "join [code]",
	Short: "Join a co-op lobby by code",
	Long: `Join a partner's lobby. Without a code you are asked for one.
Codes are six letters or digits; O, I and L are read as 0, 1 and 1.

Examples:
  pixel join
  pixel join 7K2M9Q --name grace`,
	Args: cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		code := ""
		if len(args) == 1 {
			code = args[0]
		}
		runOnline(tui.RoleGuest, code)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{hostCmd, joinCmd} {
		cmd.Flags().StringVar(&flagRelayURL, "relay", "", "Relay websocket URL (default from config)")
		cmd.Flags().StringVar(&flagName, "name", "", "Display name shown to your partner (saved)")
	}
}

func runOnline(role tui.Role, code string) {
	gameCfg := loadGameConfig()
	if flagRelayURL != "" {
		gameCfg.Network.RelayURL = flagRelayURL
	}
	logger, closeLog := tuiLogger()

	opts := tui.Options{
		Runtime:  runtimeConfig(),
		Game:     gameCfg,
		Role:     role,
		JoinCode: code,
		Logger:   logger,
	}

	store, ok := openStore()
	if ok {
		opts.Store = store
	}
	name := displayName(store, ok)

	opts.Session = multiplayer.NewSession(
		multiplayer.NewWSTransport(gameCfg.Network.RelayURL),
		gameCfg.Network,
		name,
		logger.WithPrefix("net"),
	)

	runErr := tui.Run(opts)

	if ok {
		store.Close()
	}
	closeLog()

	if runErr != nil {
		fatal("running game: %v", runErr)
	}
}

// displayName picks the --name flag, then the saved name, then $USER.
// A flag value is saved for next time.
func displayName(store *storage.Store, ok bool) string {
	if flagName != "" {
		if ok {
			if err := store.SaveName(flagName); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not save name: %v\n", err)
			}
		}
		return flagName
	}
	if ok {
		if profile, err := store.LoadProfile(); err == nil && profile.Name != "" {
			return profile.Name
		}
	}
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "pixel"
}
