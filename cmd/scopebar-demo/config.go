package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/ShayCichocki/scopebar"
	"github.com/ShayCichocki/scopebar/pkg/scope"
)

// Config holds the demo's display settings.
type Config struct {
	Display DisplayConfig `mapstructure:"display"`
}

// DisplayConfig maps onto scopebar's construction options.
type DisplayConfig struct {
	// MaxShown is the maximum number of rows shown at once.
	MaxShown uint64 `mapstructure:"max_shown"`
	// DrawHz caps terminal redraws per second.
	DrawHz uint8 `mapstructure:"draw_hz"`
	// TickInterval is the per-row recompute interval.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// Indent is the per-level indent of child rows.
	Indent string `mapstructure:"indent"`
	// Symbol marks a child row, after the indent.
	Symbol string `mapstructure:"symbol"`
	// Footer toggles the waiting-rows footer.
	Footer bool `mapstructure:"footer"`
}

// LoadConfig reads configuration from the config file (if present),
// SCOPEBAR_* environment variables, and bound flags.
func LoadConfig() (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "scopebar-demo"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SCOPEBAR")
	viper.AutomaticEnv()

	viper.SetDefault("display.max_shown", scopebar.DefaultMaxShown)
	viper.SetDefault("display.draw_hz", 20)
	viper.SetDefault("display.tick_interval", 100*time.Millisecond)
	viper.SetDefault("display.indent", "  ")
	viper.SetDefault("display.symbol", "↳ ")
	viper.SetDefault("display.footer", true)

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// NewDisplay builds a started display from the config. Callers own Stop.
func (c *Config) NewDisplay(tracker *scope.Tracker) *scopebar.Display {
	footer := scopebar.DefaultFooterTemplate()
	if !c.Display.Footer {
		footer = nil
	}

	d := scopebar.New(tracker,
		scopebar.WithMaxShown(c.Display.MaxShown, footer),
		scopebar.WithIndent(c.Display.Indent, c.Display.Symbol),
		scopebar.WithTickSettings(scopebar.TickSettings{
			TermDrawHz:          c.Display.DrawHz,
			DefaultTickInterval: c.Display.TickInterval,
		}),
	)
	d.Start()
	return d
}
