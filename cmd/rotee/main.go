package main

import (
	"os"

	"github.com/crowdsecurity/go-cs-lib/version"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vext01/rotee"
	"github.com/vext01/rotee/internal/logging"
)

func newRootCommand() *cobra.Command {
	cfg := rotee.DefaultConfig()

	var (
		configFile string
		fileMode   string
		logCfg     logging.Config
	)

	cmd := &cobra.Command{
		Use:   "rotee",
		Short: "Split stdin across rotating output files",
		Long: `rotee reads its standard input and splits it across a window of numbered
output files, rotating to a fresh file once the current one reaches the
configured size. Unless told otherwise it also re-echoes everything to
standard output, so it can sit in the middle of a pipeline.`,
		Example:       `  some-daemon 2>&1 | rotee -p /var/log/daemon. -s 1048576 -n 16`,
		Args:          cobra.NoArgs,
		Version:       version.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := rotee.ParseFileMode(fileMode)
			if err != nil {
				return err
			}
			cfg.FileMode = mode

			runCfg, runLogCfg, err := resolveConfig(cmd, configFile, cfg, logCfg)
			if err != nil {
				return err
			}
			if err := logging.Setup(runLogCfg); err != nil {
				return err
			}
			log.Debugf("splitting stdin into up to %d files of %d bytes with prefix %q",
				runCfg.NumFiles, runCfg.FileSize, runCfg.FilePrefix)
			return run(runCfg)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&cfg.BufferSize, "buf-size", "b", cfg.BufferSize, "size of the buffer used to read from stdin, in bytes")
	flags.StringVarP(&configFile, "config", "c", "", "YAML configuration file; explicit flags take precedence over it")
	flags.StringVar(&fileMode, "file-mode", "0644", "permissions (octal) for created output files")
	flags.StringVarP(&cfg.FilePrefix, "file-prefix", "p", cfg.FilePrefix, "output filename prefix, may include a directory")
	flags.Int64VarP(&cfg.FileSize, "file-size", "s", cfg.FileSize, "size in bytes after which to rotate output files")
	flags.StringVar(&logCfg.File, "log-file", "", "write diagnostics to this file (size-rotated) instead of stderr")
	flags.StringVar(&logCfg.Format, "log-format", "", "diagnostic log format: text or json")
	flags.StringVar(&logCfg.Level, "log-level", "", "diagnostic log level: trace, debug, info, warning or error")
	flags.BoolVarP(&cfg.NoEcho, "no-echo", "e", false, "do not re-echo stdin to stdout")
	flags.IntVarP(&cfg.NumFiles, "num-files", "n", cfg.NumFiles, "maximum number of output files to keep")
	return cmd
}

func run(cfg rotee.Config) error {
	s, err := rotee.NewSplitter(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Run(os.Stdin, os.Stdout)
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}
