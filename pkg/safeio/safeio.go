package safeio

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// CleanUserPath cleans a user-provided path and rejects traversal attempts.
// Returns paths with forward slashes for cross-platform consistency.
func CleanUserPath(p string) (string, error) {
	c := filepath.Clean(p)
	for _, seg := range strings.Split(filepath.ToSlash(c), "/") {
		if seg == ".." {
			return "", errors.New("path traversal detected")
		}
	}
	return filepath.ToSlash(c), nil
}

// WriteFilePreservePerms replaces name on fs with data. The bytes go to a
// temporary file in the same directory which is then renamed over name, so
// readers never see a partial document. Filesystems without chmod support
// are written in place instead. An existing file's mode is kept; new files
// get 0644.
func WriteFilePreservePerms(fs billy.Filesystem, name string, data []byte) error {
	var mode os.FileMode = 0o644
	if st, err := fs.Stat(name); err == nil {
		if st.IsDir() {
			return fmt.Errorf("%s is a directory", name)
		}
		if m := st.Mode() & 0o777; m != 0 {
			mode = m
		}
	}

	dir := path.Dir(filepath.ToSlash(name))
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	ch, ok := fs.(billy.Change)
	if !ok {
		// without chmod a temp file would lose the mode; truncate in place
		if err := util.WriteFile(fs, name, data, mode); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		return nil
	}

	tmp, err := fs.TempFile(dir, ".svgaudit-")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = fs.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = fs.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := ch.Chmod(tmpName, mode); err != nil {
		_ = fs.Remove(tmpName)
		return fmt.Errorf("failed to set mode on %s: %w", name, err)
	}
	if err := fs.Rename(tmpName, name); err != nil {
		_ = fs.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
