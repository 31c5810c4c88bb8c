package utils

import (
	"errors"
	"io/fs"
	"os"
)

// EnsureDir creates dir if it does not exist and reports whether it did.
func EnsureDir(dir string) (created bool, err error) {
	err = os.Mkdir(dir, 0o755)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	return false, err
}

// ResetDir leaves dir empty: it is created when absent, otherwise removed
// with all its contents and recreated.
func ResetDir(dir string) error {
	created, err := EnsureDir(dir)
	if err != nil || created {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.Mkdir(dir, 0o755)
}
