// Package config defines the top-level CLI structure parsed by kong.
package config

import "github.com/Alia5/HIDRA/internal/cmd"

// LogConfig groups the logging flags shared by all commands.
type LogConfig struct {
	Level   string `help:"Log level (trace, debug, info, warn, error)" default:"info" env:"HIDRA_LOG_LEVEL"`
	File    string `help:"Write logs to this file instead of stdout/stderr" env:"HIDRA_LOG_FILE"`
	RawFile string `help:"Write raw report hex dumps to this file" env:"HIDRA_LOG_RAW_FILE"`
}

// CLI is the root command structure.
type CLI struct {
	Config string    `help:"Path to a config file (json, yaml or toml)" env:"HIDRA_CONFIG"`
	Log    LogConfig `embed:"" prefix:"log."`

	Attach    cmd.Attach        `cmd:"" help:"Attach a driver to matching HID devices and run it"`
	List      cmd.List          `cmd:"" help:"List HID devices and registered drivers"`
	ConfigCmd cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration utilities"`
}
