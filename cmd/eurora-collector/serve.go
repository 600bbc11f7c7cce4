package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/eurora-ai/eurora-core/pkg/assetstore"
	"github.com/eurora-ai/eurora-core/pkg/bridgegrpc"
	"github.com/eurora-ai/eurora-core/pkg/config"
	"github.com/eurora-ai/eurora-core/pkg/focustracker"
	"github.com/eurora-ai/eurora-core/pkg/secretstore"
	"github.com/eurora-ai/eurora-core/pkg/strategy"
	"github.com/eurora-ai/eurora-core/pkg/timeline"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the collector daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parentCtx context.Context) error {
	ctx, stop := signal.NotifyContext(parentCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadCollectorConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	configureLogging(cfg.Log)

	key, err := parseSecretKey(cfg.Secret.KeyHex)
	if err != nil {
		return err
	}
	secrets, err := secretstore.Open(key, expandHome(cfg.Secret.DataDir))
	if err != nil {
		return fmt.Errorf("open secret store: %w", err)
	}
	defer secrets.Close()

	assets := assetstore.New(assetstore.Config{
		BaseDir:        expandHome(cfg.Storage.BaseDir),
		OrganizeByType: cfg.Storage.OrganizeByType,
		UseContentHash: cfg.Storage.UseContentHash,
		MaxFileSize:    cfg.Storage.MaxFileSizeMB * 1024 * 1024,
	})
	_ = assets // consumed by the chat-query path outside this core; constructed here to validate config eagerly.

	bridgeServer := bridgegrpc.NewServer()
	strategy.SetBridgeOpener(bridgeServer.Opener())
	registry := strategy.Initialize(strategy.HostProcessName)

	listener, err := net.Listen("tcp", cfg.Bridge.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Bridge.ListenAddr, err)
	}
	grpcServer := grpc.NewServer()
	bridgegrpc.RegisterBridgeServer(grpcServer, bridgeServer)

	go func() {
		log.Info().Str("addr", cfg.Bridge.ListenAddr).Msg("eurora-collector: bridge listening")
		if err := grpcServer.Serve(listener); err != nil {
			log.Error().Err(err).Msg("eurora-collector: bridge server stopped")
		}
	}()
	defer grpcServer.GracefulStop()

	if err := config.WatchDir(ctx, expandHome(cfg.Secret.DataDir), func(ev fsnotify.Event) {
		log.Info().Str("event", ev.String()).Msg("eurora-collector: secret store directory changed")
	}); err != nil {
		log.Warn().Err(err).Msg("eurora-collector: could not watch secret store directory")
	}

	store := timeline.NewStorage(0)
	collector := timeline.NewCollector(registry, store)
	tracker := focustracker.New(focustracker.Config{
		PollInterval: time.Duration(cfg.Focus.PollIntervalMS) * time.Millisecond,
		Icon:         focustracker.IconConfig{Size: cfg.Focus.IconSize},
	})

	if cfg.UI.ListenAddr != "" {
		fanout := timeline.NewWSFanout()
		go fanout.Run(ctx, collector)
		mux := http.NewServeMux()
		mux.Handle("/events", fanout)
		uiServer := &http.Server{Addr: cfg.UI.ListenAddr, Handler: mux}
		go func() {
			log.Info().Str("addr", cfg.UI.ListenAddr).Msg("eurora-collector: UI event fan-out listening")
			if err := uiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("eurora-collector: UI server stopped")
			}
		}()
		defer uiServer.Close()
	}

	return collector.Run(ctx, tracker)
}

func configureLogging(cfg config.Log) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func parseSecretKey(hexKey string) ([secretstore.KeySize]byte, error) {
	var key [secretstore.KeySize]byte
	raw, err := hex.DecodeString(hexKey)
	if err != nil || len(raw) != secretstore.KeySize {
		return key, fmt.Errorf("EURORA_SECRET_KEY_HEX must be %d hex-encoded bytes", secretstore.KeySize)
	}
	copy(key[:], raw)
	return key, nil
}

func expandHome(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
