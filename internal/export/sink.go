package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/baliomega/nextflix/internal/services"
)

// Sink writes export payloads into a directory.
type Sink struct {
	fs  afero.Fs
	dir string
}

// NewSink writes under dir on fs. A nil fs uses the OS filesystem.
func NewSink(fs afero.Fs, dir string) *Sink {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Sink{fs: fs, dir: dir}
}

// Dir returns the destination directory.
func (s *Sink) Dir() string {
	return s.dir
}

// Write stores payload under FileName(format, now) and returns its path. The
// file is written beside its final name and renamed into place.
func (s *Sink) Write(format Format, now time.Time, payload []byte) (string, error) {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", services.Wrap(services.ErrStorage, "export", "write", "create export directory", err)
	}
	target := filepath.Join(s.dir, FileName(format, now))
	tmp := target + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, payload, 0o644); err != nil {
		return "", services.Wrap(services.ErrStorage, "export", "write", fmt.Sprintf("write %s", tmp), err)
	}
	if err := s.fs.Rename(tmp, target); err != nil {
		_ = s.fs.Remove(tmp)
		return "", services.Wrap(services.ErrStorage, "export", "write", fmt.Sprintf("rename to %s", target), err)
	}
	return target, nil
}

// ReadFile reads a previously exported or user-supplied file.
func (s *Sink) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, services.Wrap(services.ErrNotFound, "export", "read", path, err)
		}
		return nil, services.Wrap(services.ErrStorage, "export", "read", path, err)
	}
	return data, nil
}
