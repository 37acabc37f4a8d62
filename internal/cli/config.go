package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/griddle/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "GRIDDLE"

	cfgKeyTheme          = "theme"
	cfgKeyRows           = "rows"
	cfgKeySeed           = "seed"
	cfgKeyFreezeColumns  = "freeze_columns"
	cfgKeyRowHeight      = "row_height"
	cfgKeyFooter         = "footer"
	cfgKeyFooterExclude  = "footer_exclude"
	cfgKeyThemeOverrides = "theme_overrides"
	cfgKeyLogLevel       = "log_level"
	cfgKeyDataDir        = "data_dir"
)

// ErrInvalidConfig wraps every validation failure of the loaded settings.
var ErrInvalidConfig = errors.New("invalid config")

// flagKeys maps flag names to the config keys they override.
var flagKeys = map[string]string{
	cfgKeyRows:  cfgKeyRows,
	cfgKeySeed:  cfgKeySeed,
	cfgKeyTheme: cfgKeyTheme,
	"freeze":    cfgKeyFreezeColumns,
	"log-level": cfgKeyLogLevel,
	"data-dir":  cfgKeyDataDir,
}

// bindFlags makes explicitly set flags win over config.yaml.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	for name, key := range flagKeys {
		if f := fs.Lookup(name); f != nil {
			// BindPFlag fails only for a nil flag.
			_ = v.BindPFlag(key, f)
		}
	}
}

// readConfig reads config.yaml from configDir. A missing file is not an
// error; the defaults and flags apply.
func readConfig(v *viper.Viper, configDir string) error {
	def := types.DefaultConfig()
	v.SetDefault(cfgKeyTheme, def.Theme)
	v.SetDefault(cfgKeyRows, def.Rows)
	v.SetDefault(cfgKeySeed, def.Seed)
	v.SetDefault(cfgKeyFreezeColumns, def.FreezeColumns)
	v.SetDefault(cfgKeyRowHeight, def.RowHeight)
	v.SetDefault(cfgKeyLogLevel, def.LogLevel)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// decodeConfig unmarshals and validates the merged settings.
func decodeConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// newLogger returns a text logger on w at the named level.
func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
