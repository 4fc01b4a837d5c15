package gcguard

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Kind names a protector implementation.
type Kind string

// Protector kinds accepted by Config.
const (
	KindFast     Kind = "fast"
	KindStandard Kind = "standard"
	KindRaising  Kind = "raising"
	KindLogging  Kind = "logging"
	KindDebug    Kind = "debug" // alias for logging
)

// UnmarshalText parses a kind, case-insensitively.
func (k *Kind) UnmarshalText(text []byte) error {
	v := Kind(strings.ToLower(strings.TrimSpace(string(text))))
	switch v {
	case KindFast, KindStandard, KindRaising, KindLogging, KindDebug:
		*k = v
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownProtectorKind, string(text))
}

// Config selects the default protector from the environment.
type Config struct {
	Protector   Kind `env:"GCGUARD_PROTECTOR" envDefault:"fast"`
	StackTraces bool `env:"GCGUARD_STACK_TRACES" envDefault:"true"`
}

// LoadConfig reads Config from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// NewProtector builds the protector cfg describes. logger is only used by the
// logging kind; nil means slog.Default().
func (cfg Config) NewProtector(logger *slog.Logger) Protector {
	switch cfg.Protector {
	case KindRaising:
		return NewRaising()
	case KindLogging, KindDebug:
		return NewAccounting(LoggingPolicy{Logger: logger, StackTraces: cfg.StackTraces})
	default:
		return NewStandard()
	}
}

// ConfigureDefault installs the protector selected by the environment as the
// default. It must run before anything is protected with the current default,
// otherwise SetDefault's ErrProtectorBusy is returned.
func ConfigureDefault(logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	p := cfg.NewProtector(logger)
	if err := SetDefault(p); err != nil {
		return err
	}
	logger.Debug("gcguard: default protector configured", "protector", ProtectorName(p))
	return nil
}
