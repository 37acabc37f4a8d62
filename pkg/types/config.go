package types

import "errors"

// Config holds the grid settings read from config.yaml and flags.
type Config struct {
	Theme          string            `json:"theme" yaml:"theme" mapstructure:"theme"`
	Rows           int               `json:"rows" yaml:"rows" mapstructure:"rows"`
	Seed           int               `json:"seed" yaml:"seed" mapstructure:"seed"`
	FreezeColumns  int               `json:"freeze_columns" yaml:"freeze_columns" mapstructure:"freeze_columns"`
	RowHeight      int               `json:"row_height" yaml:"row_height" mapstructure:"row_height"`
	Footer         map[string]string `json:"footer,omitempty" yaml:"footer,omitempty" mapstructure:"footer"`
	FooterExclude  []string          `json:"footer_exclude,omitempty" yaml:"footer_exclude,omitempty" mapstructure:"footer_exclude"`
	ThemeOverrides map[string]any    `json:"theme_overrides,omitempty" yaml:"theme_overrides,omitempty" mapstructure:"theme_overrides"`
	LogLevel       string            `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	DataDir        string            `json:"data_dir,omitempty" yaml:"data_dir,omitempty" mapstructure:"data_dir"`
}

// Theme variant names.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Config defaults.
const (
	DefaultRows          = 50
	DefaultFreezeColumns = 2
	DefaultRowHeight     = 35
	DefaultLogLevel      = "info"
)

// Config validation errors.
var (
	ErrUnknownVariant   = errors.New("unknown theme variant")
	ErrInvalidCount     = errors.New("row count must not be negative")
	ErrInvalidFreeze    = errors.New("freeze columns must not be negative")
	ErrInvalidRowHeight = errors.New("row height must be positive")
	ErrInvalidLogLevel  = errors.New("unknown log level")
)

var knownLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Theme:         ThemeLight,
		Rows:          DefaultRows,
		FreezeColumns: DefaultFreezeColumns,
		RowHeight:     DefaultRowHeight,
		LogLevel:      DefaultLogLevel,
	}
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Theme != ThemeLight && c.Theme != ThemeDark {
		return ErrUnknownVariant
	}
	if c.Rows < 0 {
		return ErrInvalidCount
	}
	if c.FreezeColumns < 0 {
		return ErrInvalidFreeze
	}
	if c.RowHeight <= 0 {
		return ErrInvalidRowHeight
	}
	if !knownLogLevels[c.LogLevel] {
		return ErrInvalidLogLevel
	}
	return nil
}
