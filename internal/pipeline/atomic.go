package pipeline

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"
)

// WriteFile writes path through a temporary file in the same directory and
// renames it into place once fn succeeds. It returns the hex BLAKE2b-256
// digest of the written bytes. On failure no file is left behind.
func WriteFile(path string, fn func(w io.Writer) error) (digest string, err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	hash, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if err = fn(io.MultiWriter(tmp, hash)); err != nil {
		return "", err
	}
	if err = tmp.Sync(); err != nil {
		return "", fmt.Errorf("failed to sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil { //nolint:gosec // exported documents are meant to be shared
		return "", err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// FileDigest returns the hex BLAKE2b-256 digest of a file.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // path is an export target
	if err != nil {
		return "", err
	}
	defer f.Close()

	hash, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(hash, f); err != nil {
		return "", errors.Join(fmt.Errorf("failed to read %s", path), err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
