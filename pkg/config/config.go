// Package config defines the struct-tag-driven, envconfig-processed
// configuration for Eurora's two binaries, mirroring the teacher's
// api/pkg/config/config.go (envconfig.Process("", &cfg) with per-field
// envconfig/default tags, grouped into nested structs).
package config

import "github.com/kelseyhightower/envconfig"

// CollectorConfig configures cmd/eurora-collector.
type CollectorConfig struct {
	Storage  Storage
	Secret   Secret
	Bridge   Bridge
	Focus    Focus
	Log      Log
	UI       UI
}

// Storage controls the Asset Storage component (spec §4.6).
type Storage struct {
	BaseDir        string `envconfig:"EURORA_ASSET_BASE_DIR" default:"~/.local/share/eurora/assets"`
	OrganizeByType bool   `envconfig:"EURORA_ASSET_ORGANIZE_BY_TYPE" default:"true"`
	UseContentHash bool   `envconfig:"EURORA_ASSET_CONTENT_HASH" default:"true"`
	MaxFileSizeMB  int64  `envconfig:"EURORA_ASSET_MAX_FILE_SIZE_MB" default:"50"`
}

// Secret controls the Secret Store component (spec §4.7).
type Secret struct {
	DataDir string `envconfig:"EURORA_SECRET_DATA_DIR" default:"~/.local/share/eurora/secrets"`
	// KeyHex is the 64-hex-character (256-bit) encryption key. Required: the
	// Secret Store has no key-derivation fallback (spec §4.7 "construction
	// takes a 256-bit key").
	KeyHex string `envconfig:"EURORA_SECRET_KEY_HEX" required:"true"`
}

// Bridge controls the Browser Bridge's gRPC listener (spec §4.2).
type Bridge struct {
	ListenAddr string `envconfig:"EURORA_BRIDGE_ADDR" default:"127.0.0.1:47123"`
}

// Focus controls the Focus Tracker (spec §4.1).
type Focus struct {
	PollIntervalMS int `envconfig:"EURORA_FOCUS_POLL_MS" default:"500"`
	IconSize       int `envconfig:"EURORA_FOCUS_ICON_SIZE" default:"64"`
}

// UI controls the Timeline Collector's optional websocket event fan-out
// endpoint (spec §4.4 supplement: a local UI consumer of the focus/context
// chip broadcasts). Empty ListenAddr disables it.
type UI struct {
	ListenAddr string `envconfig:"EURORA_UI_ADDR"`
}

// Log controls structured logging for long-running daemons.
type Log struct {
	Level string `envconfig:"EURORA_LOG_LEVEL" default:"info"`
	// FilePath is the native host's log file (cmd/eurora-native-host falls
	// back to a file under the user cache directory when it is empty), so
	// stdout stays reserved for protocol frames. cmd/eurora-collector does
	// not read it and always logs to stderr.
	FilePath string `envconfig:"EURORA_LOG_FILE"`
}

// LoadCollectorConfig processes environment variables into a
// CollectorConfig.
func LoadCollectorConfig() (CollectorConfig, error) {
	var cfg CollectorConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return CollectorConfig{}, err
	}
	return cfg, nil
}

// NativeHostConfig configures cmd/eurora-native-host.
type NativeHostConfig struct {
	CollectorAddr string `envconfig:"EURORA_COLLECTOR_ADDR" default:"127.0.0.1:47123"`
	LockDir       string `envconfig:"EURORA_NATIVE_LOCK_DIR" default:"~/.local/share/eurora/run"`
	Log           Log
}

// LoadNativeHostConfig processes environment variables into a
// NativeHostConfig.
func LoadNativeHostConfig() (NativeHostConfig, error) {
	var cfg NativeHostConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return NativeHostConfig{}, err
	}
	return cfg, nil
}
