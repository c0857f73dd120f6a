// Package fileio loads and saves line stores from files, compressing the
// stream according to the file extension.
package fileio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dshills/linestore/internal/engine/linestore"
)

// ErrUnknownCodec indicates a Codec value outside the defined set.
var ErrUnknownCodec = errors.New("unknown codec")

// LoadFile appends the contents of path to s, decompressing by extension.
func LoadFile(s *linestore.Store, path string, filter bool) error {
	return LoadFileAs(s, path, CodecFor(path), filter)
}

// LoadFileAs appends the contents of path to s using codec c.
func LoadFileAs(s *linestore.Store, path string, c Codec, filter bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r, err := c.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer r.Close()

	if err := s.Load(r, filter); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// SaveFile writes s to path, compressing by extension.
// The file is written atomically using a temporary file and rename.
func SaveFile(s *linestore.Store, path string) error {
	return SaveFileAs(s, path, CodecFor(path))
}

// SaveFileAs writes s to path using codec c, atomically.
func SaveFileAs(s *linestore.Store, path string, c Codec) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := writeFile(tempPath, func(w io.Writer) error {
		cw, err := c.NewWriter(w)
		if err != nil {
			return err
		}
		if err := s.Save(cw); err != nil {
			_ = cw.Close()
			return err
		}
		return cw.Close()
	}); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// EmergencySaveFile salvages whatever lines s still holds into path,
// bypassing the consistency checks of SaveFile. It writes in place.
func EmergencySaveFile(s *linestore.Store, path string) (int, error) {
	c := CodecFor(path)
	written := 0
	err := writeFile(path, func(w io.Writer) error {
		cw, err := c.NewWriter(w)
		if err != nil {
			return err
		}
		n, saveErr := s.EmergencySave(cw)
		written = n
		if err := cw.Close(); err != nil && saveErr == nil {
			saveErr = err
		}
		return saveErr
	})
	if err != nil {
		return written, fmt.Errorf("failed to salvage %s: %w", path, err)
	}
	return written, nil
}

// writeFile creates path, runs fill on it and syncs it to disk.
func writeFile(path string, fill func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
