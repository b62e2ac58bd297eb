// Package rotee splits a byte stream across a bounded window of numbered
// files, rotating to a fresh file whenever the current one reaches a size
// threshold. Rotation is atomic with respect to catchable termination
// signals: a kill lands before or after a rotation, never inside one.
package rotee

import (
	"fmt"
	"io"

	"github.com/vext01/rotee/internal/file"
)

// NewSplitter validates cfg and creates the index-0 output file. When
// validation fails nothing is written to disk.
func NewSplitter(cfg Config) (*Splitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f, err := createOutput(cfg)
	if err != nil {
		return nil, err
	}
	return &Splitter{cfg: cfg, out: f}, nil
}

// Splitter moves bytes from an input stream into the current output file,
// mirrors them to a secondary writer when enabled, and rotates the window as
// each file fills up. It is synchronous and not safe for concurrent use.
type Splitter struct {
	cfg     Config
	out     *file.File
	written int64
}

// Run copies in to the output window until in reports io.EOF. When mirroring
// is enabled every byte written to an output file is also written to mirror,
// in stream order. The first read, write or rotation error aborts the run;
// there is no retry.
func (s *Splitter) Run(in io.Reader, mirror io.Writer) error {
	buf := make([]byte, s.cfg.BufferSize)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if werr := s.split(buf[:n], mirror); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("rotee: failed to read input: %w", err)
		}
	}
}

// split writes one chunk, sliced so that no write overruns what is left of
// the current file's byte budget. A chunk larger than the remaining budget
// spans several files; the loop handles each boundary in turn.
func (s *Splitter) split(chunk []byte, mirror io.Writer) error {
	for len(chunk) > 0 {
		n := len(chunk)
		if room := s.cfg.FileSize - s.written; int64(n) > room {
			n = int(room)
		}
		if _, err := s.out.Write(chunk[:n]); err != nil {
			return fmt.Errorf("rotee: failed to write %s: %w", s.out.Name(), err)
		}
		if !s.cfg.NoEcho && mirror != nil {
			if _, err := mirror.Write(chunk[:n]); err != nil {
				return fmt.Errorf("rotee: failed to write mirror: %w", err)
			}
		}
		chunk = chunk[n:]
		s.written += int64(n)
		if s.written >= s.cfg.FileSize {
			next, err := rotate(s.cfg, s.out)
			if err != nil {
				return err
			}
			s.out = next
			s.written = 0
		}
	}
	return nil
}

// Close closes the current output file. It is safe to call after a failed
// rotation already retired the handle.
func (s *Splitter) Close() error {
	return s.out.Close()
}
