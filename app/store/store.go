package store

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ErrAbsent means no IP has been stored yet.
var ErrAbsent = errors.New("stored IP absent")

// Store keeps the last applied IP in a single file.
type Store struct {
	fs   afero.Fs
	path string
}

func New(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Read returns the stored IP. A missing or empty record yields ErrAbsent.
func (s *Store) Read() (string, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrAbsent
		}
		return "", fmt.Errorf("read %s: %w", s.path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("read %s: %w", s.path, err)
		}
		return "", ErrAbsent
	}

	ip := strings.TrimSpace(sc.Text())
	if ip == "" {
		return "", ErrAbsent
	}
	return ip, nil
}

// Write replaces the record with ip. The value goes to a temporary file in
// the same directory which is then renamed over the record.
func (s *Store) Write(ip string) (err error) {
	dir, base := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}

	tmp, err := afero.TempFile(s.fs, dir, "."+base+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			s.fs.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.WriteString(ip + "\n"); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = s.fs.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = s.fs.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp.Name(), err)
	}

	return nil
}
