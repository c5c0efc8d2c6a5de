package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lonely-pixel/internal/multiplayer"
)

var (
	flagRelayAddr string
	flagRelayPath string
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Run the co-op relay server",
	Long: `Run the websocket relay that pairs a host and a guest by join code and
forwards their frames. The relay never reads game messages.

Lobbies that wait longer than the configured lobby TTL are closed.

Examples:
  pixel relay
  pixel relay --addr :9000 --path /relay`,
	Args: cobra.NoArgs,
	Run:  runRelay,
}

func init() {
	relayCmd.Flags().StringVar(&flagRelayAddr, "addr", ":8787", "HTTP listen address")
	relayCmd.Flags().StringVar(&flagRelayPath, "path", "/relay", "Websocket endpoint path")
}

func runRelay(_ *cobra.Command, _ []string) {
	gameCfg := loadGameConfig()
	logger := newLogger(os.Stderr, "pixel-relay")

	cfg := multiplayer.DefaultRelayConfig()
	if gameCfg.Network.LobbyTTL > 0 {
		cfg.LobbyTimeout = gameCfg.Network.LobbyTTL
	}
	relay := multiplayer.NewRelay(cfg, logger)
	relay.Start()

	mux := http.NewServeMux()
	mux.Handle(flagRelayPath, relay)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := &http.Server{Addr: flagRelayAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("relay listening", "address", srv.Addr, "path", flagRelayPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			done <- syscall.SIGTERM
		}
	}()

	<-done
	logger.Info("shutting down...", "lobbies", relay.LobbyCount())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	relay.Stop()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
