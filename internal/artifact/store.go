package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/voxd/voxd/internal/security"
)

// Ext is the filename extension of every artifact.
const Ext = ".wav"

// ErrUnsafeFilename is returned when a filename fails the path guard.
var ErrUnsafeFilename = errors.New("unsafe artifact filename")

// Store manages WAV artifacts in a single directory.
type Store struct {
	dir    string
	guard  *security.Path
	logger *slog.Logger
}

// NewStore creates the artifact directory if needed and returns a store
// guarding it. logger may be nil (defaults to slog.Default()).
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir == "" {
		return nil, errors.New("artifact directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating artifact directory: %w", err)
	}
	guard, err := security.NewPath(dir)
	if err != nil {
		return nil, fmt.Errorf("guarding artifact directory: %w", err)
	}
	return &Store{
		dir:    guard.Base(),
		guard:  guard,
		logger: logger,
	}, nil
}

// Dir returns the absolute artifact directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save encodes pcm (16-bit mono little-endian) as a WAV file under a
// freshly allocated name and returns the bare filename. The full path
// is never exposed to callers. The write goes to a temporary name and
// is renamed into place, so concurrent readers never observe a partial
// file and a failed write leaves nothing behind.
func (s *Store) Save(pcm []byte, sampleRate int) (string, error) {
	filename := uuid.NewString() + Ext

	tmp, err := os.CreateTemp(s.dir, "incoming-*")
	if err != nil {
		return "", fmt.Errorf("creating artifact file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(encodeWAV(pcm, sampleRate)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("writing artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("closing artifact: %w", err)
	}

	final := filepath.Join(s.dir, filename)
	if err := os.Rename(tmpName, final); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("publishing artifact: %w", err)
	}

	s.logger.Debug("saved artifact",
		"filename", filename,
		"bytes", len(pcm)+wavHeaderSize,
		"sample_rate", sampleRate)
	return filename, nil
}

// Delete removes the artifact named by filename. The name passes
// through the path guard first; a rejection is ErrUnsafeFilename. A
// missing file is not an error: Delete returns (false, nil) because the
// caller's only goal is for the file to stop existing. Deletion acts on
// the guard-resolved path, never on the raw name.
func (s *Store) Delete(filename string) (bool, error) {
	path, err := s.guard.Resolve(filename)
	if err != nil {
		if errors.Is(err, security.ErrUnsafePath) {
			return false, fmt.Errorf("%w: %q", ErrUnsafeFilename, filename)
		}
		return false, fmt.Errorf("resolving %q: %w", filename, err)
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("artifact already absent", "filename", filename)
			return false, nil
		}
		return false, fmt.Errorf("deleting artifact %q: %w", filename, err)
	}

	s.logger.Debug("deleted artifact", "filename", filename)
	return true, nil
}

// Open opens the artifact named by filename for reading. The name
// passes through the path guard; rejections return ErrUnsafeFilename
// and anything that is not an existing regular file returns fs.ErrNotExist,
// so the HTTP layer cannot tell a blocked name from a missing one.
func (s *Store) Open(filename string) (*os.File, error) {
	path, err := s.guard.Resolve(filename)
	if err != nil {
		if errors.Is(err, security.ErrUnsafePath) {
			return nil, fmt.Errorf("%w: %q", ErrUnsafeFilename, filename)
		}
		return nil, fmt.Errorf("resolving %q: %w", filename, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fs.ErrNotExist
		}
		return nil, fmt.Errorf("stat artifact %q: %w", filename, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fs.ErrNotExist
	}

	f, err := os.Open(path) // #nosec G304 - path resolved by the guard
	if err != nil {
		if os.IsNotExist(err) {
			// Lost a race with a delete; benign.
			return nil, fs.ErrNotExist
		}
		return nil, fmt.Errorf("opening artifact %q: %w", filename, err)
	}
	return f, nil
}
