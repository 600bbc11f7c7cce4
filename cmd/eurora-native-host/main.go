// Command eurora-native-host is the native-messaging host process launched
// by a browser extension: it speaks the framed line protocol on
// stdin/stdout (spec §4.2, §6) and forwards those frames to the collector's
// gRPC Bridge service, reconnecting transparently on stream failure.
//
// Grounded on the original Rust source's euro-native-messaging/src/main.rs:
// capture the parent PID as literally the first statement in main, before
// flag parsing or logging init (spec FEATURE SUPPLEMENTS); --generate_specta
// short-circuits before the single-instance lock; EURORA_BROWSER_PID
// overrides platform detection.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/eurora-ai/eurora-core/pkg/bridgegrpc"
	"github.com/eurora-ai/eurora-core/pkg/config"
	"github.com/eurora-ai/eurora-core/pkg/nativebridge"
	"github.com/eurora-ai/eurora-core/pkg/nativebridge/parentpid"
)

func main() {
	// Must be the very first statement: some platforms reparent or reap the
	// true parent once this process outlives it (spec FEATURE SUPPLEMENTS).
	parentpid.CaptureParentPID()

	args := os.Args[1:]
	for _, a := range args {
		if a == "--generate_specta" {
			emitSpecta()
			os.Exit(0)
		}
	}

	cfg, err := config.LoadNativeHostConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "eurora-native-host: load config:", err)
		os.Exit(1)
	}

	lock, err := nativebridge.EnsureSingleInstance(expandHome(cfg.LockDir))
	if err != nil {
		if err == nativebridge.ErrSingleInstanceContention {
			fmt.Fprintln(os.Stderr, "eurora-native-host: another instance is already running")
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "eurora-native-host: acquire lock:", err)
		os.Exit(1)
	}
	defer lock.Release()

	logFile, err := openLogFile(cfg.Log.FilePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "eurora-native-host: open log file:", err)
		os.Exit(1)
	}
	defer logFile.Close()
	// All logging goes to the file; stdout is reserved for protocol frames
	// (spec §4.2, §6).
	log.Logger = zerolog.New(logFile).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hostPID := uint32(os.Getpid())
	browserPID := parentpid.GetParentPID()
	log.Info().Uint32("host_pid", hostPID).Uint32("browser_pid", browserPID).Msg("eurora-native-host: starting")

	fwd := bridgegrpc.ForwardConfig{
		Dial: func(ctx context.Context) (*grpc.ClientConn, error) {
			return grpc.NewClient(cfg.CollectorAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		},
		Register: nativebridge.NewRegisterFrame(hostPID, browserPID),
		ReadStdin: func() (nativebridge.Frame, error) {
			return nativebridge.ReadFramed(os.Stdin)
		},
		WriteStdout: func(f nativebridge.Frame) error {
			return nativebridge.WriteFramed(os.Stdout, f)
		},
	}

	if err := fwd.Run(ctx); err != nil {
		log.Error().Err(err).Msg("eurora-native-host: forward loop terminated")
		os.Exit(1)
	}
	log.Info().Msg("eurora-native-host: normal shutdown")
}

// emitSpecta prints the wire-type definitions for the native-messaging
// frames (spec §6: "--generate_specta (emit type definitions) as its only
// recognized flag"). Go has no specta equivalent; this emits a JSON Schema
// sketch of each Frame variant for the extension build's codegen step to
// consume.
func emitSpecta() {
	fmt.Println(`{
  "Frame": {"kind": "register|state_request|state_response"},
  "RegisterFrame": {"host_pid": "u32", "browser_pid": "u32"},
  "StateRequestFrame": {},
  "StateResponseFrame": {"state_kind": "youtube|article|pdf|twitter"}
}`)
}

func openLogFile(path string) (*os.File, error) {
	path = expandHome(path)
	if path == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir = os.TempDir()
		}
		path = filepath.Join(dir, "eurora", "native-host.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

func expandHome(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
