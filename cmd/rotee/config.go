package main

import (
	"fmt"
	"os"

	yaml "github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/vext01/rotee"
	"github.com/vext01/rotee/internal/logging"
)

// fileConfig is the on-disk layout: the splitter settings at the top level
// and the diagnostic log settings nested under "log".
type fileConfig struct {
	rotee.Config `yaml:",inline"`
	Log          logging.Config `yaml:"log"`
}

// loadConfigFile reads a fileConfig, starting from the stock defaults so
// that missing keys keep them. Unknown keys are rejected so a typo cannot
// silently fall back to a default.
func loadConfigFile(path string) (fileConfig, error) {
	fc := fileConfig{Config: rotee.DefaultConfig()}

	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("while reading configuration: %w", err)
	}
	if err := yaml.UnmarshalWithOptions(data, &fc, yaml.Strict()); err != nil {
		return fc, fmt.Errorf("cannot parse %s: %s", path, yaml.FormatError(err, false, false))
	}
	return fc, nil
}

// resolveConfig merges the three configuration sources. Defaults are
// weakest, the config file overrides them, and any flag changed on the
// command line wins over both.
func resolveConfig(cmd *cobra.Command, configFile string, flagCfg rotee.Config, flagLog logging.Config) (rotee.Config, logging.Config, error) {
	if configFile == "" {
		return flagCfg, flagLog, nil
	}

	fc, err := loadConfigFile(configFile)
	if err != nil {
		return flagCfg, flagLog, err
	}

	flags := cmd.Flags()
	if flags.Changed("buf-size") {
		fc.BufferSize = flagCfg.BufferSize
	}
	if flags.Changed("file-mode") {
		fc.FileMode = flagCfg.FileMode
	}
	if flags.Changed("file-prefix") {
		fc.FilePrefix = flagCfg.FilePrefix
	}
	if flags.Changed("file-size") {
		fc.FileSize = flagCfg.FileSize
	}
	if flags.Changed("no-echo") {
		fc.NoEcho = flagCfg.NoEcho
	}
	if flags.Changed("num-files") {
		fc.NumFiles = flagCfg.NumFiles
	}
	if flags.Changed("log-file") {
		fc.Log.File = flagLog.File
	}
	if flags.Changed("log-format") {
		fc.Log.Format = flagLog.Format
	}
	if flags.Changed("log-level") {
		fc.Log.Level = flagLog.Level
	}
	return fc.Config, fc.Log, nil
}
