package rotee

import (
	"fmt"
	"io/fs"
	"strconv"
)

// Default values
const (
	DefaultFilePrefix = "rotee."
	DefaultFileSize   = 8 * 1024 * 1024
	DefaultNumFiles   = 8
	DefaultBufferSize = 1024 * 1024
	DefaultFileMode   = FileMode(0o644)
)

// FileMode is an fs.FileMode that unmarshals from the usual octal string
// notation ("0644") rather than a decimal integer.
type FileMode fs.FileMode

// ParseFileMode parses an octal string such as "0644" or "600".
func ParseFileMode(s string) (FileMode, error) {
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("rotee: file mode must be octal like \"0644\", got %q", s)
	}
	return FileMode(v), nil
}

// UnmarshalYAML implements yaml unmarshaling for octal mode strings.
func (m *FileMode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseFileMode(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Config describes one run of a Splitter. Fill it in from flags or a config
// file and hand it to NewSplitter; it is not consulted again afterwards.
type Config struct {
	// FilePrefix is prepended to the numeric index to form each output path.
	// It may carry a directory component.
	FilePrefix string `yaml:"file_prefix"`
	// FileSize is the byte count at which the current output file is full
	// and the window rotates.
	FileSize int64 `yaml:"file_size"`
	// NumFiles caps how many output files exist at once. The oldest file is
	// evicted when a rotation would exceed it.
	NumFiles int `yaml:"num_files"`
	// NoEcho disables mirroring the stream to the secondary writer.
	NoEcho bool `yaml:"no_echo"`
	// BufferSize is the chunk size for reads from the input stream.
	BufferSize int `yaml:"buf_size"`
	// FileMode is the permission set on created output files.
	FileMode FileMode `yaml:"file_mode"`
}

// DefaultConfig returns a Config with the stock defaults applied.
func DefaultConfig() Config {
	return Config{
		FilePrefix: DefaultFilePrefix,
		FileSize:   DefaultFileSize,
		NumFiles:   DefaultNumFiles,
		BufferSize: DefaultBufferSize,
		FileMode:   DefaultFileMode,
	}
}

// Validate rejects configurations that cannot produce a well-formed run.
// NewSplitter calls it before creating any file, so a bad value never leaves
// a partial window behind.
func (c Config) Validate() error {
	if c.FileSize <= 0 {
		return fmt.Errorf("rotee: file size must be a positive number of bytes, got %d", c.FileSize)
	}
	if c.NumFiles <= 0 {
		return fmt.Errorf("rotee: number of files must be at least 1, got %d", c.NumFiles)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("rotee: buffer size must be a positive number of bytes, got %d", c.BufferSize)
	}
	return nil
}

// outputPath returns the path of the output file at the given window index.
// Index 0 is always the file currently being written.
func outputPath(prefix string, index int) string {
	return fmt.Sprintf("%s%d", prefix, index)
}
