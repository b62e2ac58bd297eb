package rotee

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/crowdsecurity/go-cs-lib/cstest"
	"github.com/stretchr/testify/require"
)

// seqBytes returns n bytes of a deterministic, position-dependent pattern so
// that misplaced slices show up as content mismatches.
func seqBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + i%26)
	}
	return b
}

// reassemble concatenates the output files from the highest existing index
// down to 0, which must reproduce the input stream.
func reassemble(t *testing.T, cfg Config) []byte {
	t.Helper()
	var buf bytes.Buffer
	for i := cfg.NumFiles - 1; i >= 0; i-- {
		b, err := os.ReadFile(outputPath(cfg.FilePrefix, i))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			t.Fatal(err)
		}
		buf.Write(b)
	}
	return buf.Bytes()
}

func runSplitter(t *testing.T, cfg Config, input []byte) *bytes.Buffer {
	t.Helper()
	s, err := NewSplitter(cfg)
	require.NoError(t, err)
	defer s.Close()

	var mirror bytes.Buffer
	require.NoError(t, s.Run(bytes.NewReader(input), &mirror))
	return &mirror
}

func TestSplitter_SplitsAtSizeThreshold(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.FileSize = 10
	cfg.NumFiles = 3
	cfg.BufferSize = 100

	input := []byte("abcdefghijklmnopqrstuvwxy") // 25 bytes
	mirror := runSplitter(t, cfg, input)

	require.Equal(t, "uvwxy", readOutput(t, cfg.FilePrefix, 0))
	require.Equal(t, "klmnopqrst", readOutput(t, cfg.FilePrefix, 1))
	require.Equal(t, "abcdefghij", readOutput(t, cfg.FilePrefix, 2))
	require.Equal(t, input, mirror.Bytes())
}

func TestSplitter_EmptyInput(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	mirror := runSplitter(t, cfg, nil)

	// EOF before the first byte still leaves a (single, empty) current file.
	require.Empty(t, readOutput(t, cfg.FilePrefix, 0))
	requireNoOutput(t, cfg.FilePrefix, 1)
	require.Empty(t, mirror.Bytes())
}

func TestSplitter_ExactMultipleLeavesEmptyCurrent(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.FileSize = 10
	cfg.NumFiles = 3

	mirror := runSplitter(t, cfg, seqBytes(20))

	// The last byte filled the previous file, so rotation already happened
	// and the current file holds nothing yet.
	require.Empty(t, readOutput(t, cfg.FilePrefix, 0))
	require.Equal(t, seqBytes(20), reassemble(t, cfg))
	require.Equal(t, seqBytes(20), mirror.Bytes())
}

func TestSplitter_ReassemblesAcrossBufferSizes(t *testing.T) {
	t.Parallel()

	input := seqBytes(1000)
	for _, bufSize := range []int{1, 3, 7, 64, 4096} {
		bufSize := bufSize
		t.Run(fmt.Sprintf("buf-%d", bufSize), func(t *testing.T) {
			t.Parallel()

			cfg := testConfig(t)
			cfg.FileSize = 8
			cfg.NumFiles = 200 // wide enough that nothing is evicted
			cfg.BufferSize = bufSize

			mirror := runSplitter(t, cfg, input)

			require.Equal(t, input, reassemble(t, cfg))
			require.Equal(t, input, mirror.Bytes())
		})
	}
}

func TestSplitter_EvictsOldest(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.FileSize = 4
	cfg.NumFiles = 2

	input := seqBytes(20)
	mirror := runSplitter(t, cfg, input)

	// Only the newest window slice survives on disk.
	require.Empty(t, readOutput(t, cfg.FilePrefix, 0))
	require.Equal(t, input[16:20], []byte(readOutput(t, cfg.FilePrefix, 1)))
	requireNoOutput(t, cfg.FilePrefix, 2)
	// The mirror still carries the evicted bytes.
	require.Equal(t, input, mirror.Bytes())
}

func TestSplitter_SingleFileWindow(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.FileSize = 3
	cfg.NumFiles = 1

	runSplitter(t, cfg, []byte("abcdefgh"))

	// With one slot there is nothing to shift; the file is recreated on
	// every rotation and only the tail remains.
	require.Equal(t, "gh", readOutput(t, cfg.FilePrefix, 0))
	requireNoOutput(t, cfg.FilePrefix, 1)
}

func TestSplitter_NoEcho(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.FileSize = 4
	cfg.NoEcho = true

	mirror := runSplitter(t, cfg, seqBytes(10))
	require.Empty(t, mirror.Bytes())
	require.Equal(t, seqBytes(10), reassemble(t, cfg))
}

func TestSplitter_NilMirror(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.FileSize = 4

	s, err := NewSplitter(cfg)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Run(bytes.NewReader(seqBytes(10)), nil))
	require.Equal(t, seqBytes(10), reassemble(t, cfg))
}

func TestNewSplitter_Validates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		mutate      func(*Config)
		expectedErr string
	}{
		{
			name:        "zero file size",
			mutate:      func(c *Config) { c.FileSize = 0 },
			expectedErr: "file size must be a positive number of bytes",
		},
		{
			name:        "zero num files",
			mutate:      func(c *Config) { c.NumFiles = 0 },
			expectedErr: "number of files must be at least 1",
		},
		{
			name:        "zero buffer size",
			mutate:      func(c *Config) { c.BufferSize = 0 },
			expectedErr: "buffer size must be a positive number of bytes",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(t)
			tc.mutate(&cfg)

			_, err := NewSplitter(cfg)
			cstest.RequireErrorContains(t, err, tc.expectedErr)
			// Rejection happens before any file is touched.
			requireNoOutput(t, cfg.FilePrefix, 0)
		})
	}
}

func TestNewSplitter_CreateError(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	// Occupy the index-0 path with a directory so the create fails.
	require.NoError(t, os.Mkdir(outputPath(cfg.FilePrefix, 0), 0o755))

	_, err := NewSplitter(cfg)
	cstest.RequireErrorContains(t, err, "failed to create")
}

type failingReader struct {
	err error
}

func (r *failingReader) Read([]byte) (int, error) {
	return 0, r.err
}

type failingWriter struct {
	err error
}

func (w *failingWriter) Write([]byte) (int, error) {
	return 0, w.err
}

func TestSplitter_ReadErrorAborts(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	s, err := NewSplitter(cfg)
	require.NoError(t, err)
	defer s.Close()

	err = s.Run(&failingReader{err: errors.New("tape fell off")}, nil)
	cstest.RequireErrorContains(t, err, "failed to read input")
}

func TestSplitter_WriteErrorAborts(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	s, err := NewSplitter(cfg)
	require.NoError(t, err)
	// Pull the handle out from under the splitter.
	require.NoError(t, s.out.File.Close())

	err = s.Run(strings.NewReader("abc"), nil)
	cstest.RequireErrorContains(t, err, "failed to write")
}

func TestSplitter_MirrorErrorAborts(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	s, err := NewSplitter(cfg)
	require.NoError(t, err)
	defer s.Close()

	err = s.Run(strings.NewReader("abc"), &failingWriter{err: errors.New("downstream gone")})
	cstest.RequireErrorContains(t, err, "failed to write mirror")
}

func TestSplitter_RotationErrorAborts(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.FileSize = 2
	cfg.NumFiles = 2
	s, err := NewSplitter(cfg)
	require.NoError(t, err)
	defer s.Close()

	// Block the first shift with a directory in the only target slot.
	require.NoError(t, os.Mkdir(outputPath(cfg.FilePrefix, 1), 0o755))

	err = s.Run(strings.NewReader("abcdef"), nil)
	cstest.RequireErrorContains(t, err, "failed to rename")
}
