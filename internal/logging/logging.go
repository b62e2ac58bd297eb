// Package logging configures the process-wide logrus logger used for
// diagnostics. Stream data never passes through it; the point is to keep
// diagnostics off the mirrored output however they are routed.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/crowdsecurity/go-cs-lib/ptr"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Defaults for rotating the diagnostic log file itself.
const (
	defMaxSize  = 500 // MB
	defMaxFiles = 3
	defMaxAge   = 28 // days
)

// Config selects where diagnostics go and how they are rendered. The zero
// value means human-readable text on stderr at info level.
type Config struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	File     string `yaml:"file"`
	MaxSize  int    `yaml:"max_size"`
	MaxFiles int    `yaml:"max_files"`
	MaxAge   int    `yaml:"max_age"`
	Compress *bool  `yaml:"compress"`
}

// Setup applies cfg to the standard logrus instance. With File set, entries
// go to a size-rotated file and error-or-worse entries are still mirrored to
// stderr, so a dying run leaves a trace on the terminal.
func Setup(cfg Config) error {
	level := log.InfoLevel
	if cfg.Level != "" {
		var err error
		level, err = log.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("unknown log level %q", cfg.Level)
		}
	}

	var formatter log.Formatter
	switch cfg.Format {
	case "", "text":
		formatter = &log.TextFormatter{TimestampFormat: time.RFC3339, FullTimestamp: true}
	case "json":
		formatter = &log.JSONFormatter{TimestampFormat: time.RFC3339}
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}

	if cfg.File == "" {
		log.SetOutput(os.Stderr)
	} else {
		if cfg.MaxSize == 0 {
			cfg.MaxSize = defMaxSize
		}
		if cfg.MaxFiles == 0 {
			cfg.MaxFiles = defMaxFiles
		}
		if cfg.MaxAge == 0 {
			cfg.MaxAge = defMaxAge
		}
		if cfg.Compress == nil {
			cfg.Compress = ptr.Of(false)
		}
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxFiles,
			MaxAge:     cfg.MaxAge,
			Compress:   *cfg.Compress,
		})
		log.AddHook(&mirrorHook{
			writer: os.Stderr,
			levels: []log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel},
		})
	}

	log.SetLevel(level)
	log.SetFormatter(formatter)
	return nil
}

// mirrorHook copies entries at selected levels to a second writer.
type mirrorHook struct {
	writer io.Writer
	levels []log.Level
}

func (h *mirrorHook) Fire(entry *log.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}
	_, err = h.writer.Write([]byte(line))
	return err
}

func (h *mirrorHook) Levels() []log.Level {
	return h.levels
}
