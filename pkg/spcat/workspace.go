package spcat

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	errs "github.com/matzehuels/spectools/pkg/errors"
)

// BackupExtensions lists the job files copied by BackupFiles.
var BackupExtensions = []string{".cat", ".var", ".par", ".int", ".json", ".lin"}

// BackupFiles copies every existing name+ext file for BackupExtensions into
// dir and returns the copied destination paths. Missing files are skipped.
func BackupFiles(name, dir string) ([]string, error) {
	if err := errs.ValidateBasename(name); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "create %s", dir)
	}

	var copied []string
	for _, ext := range BackupExtensions {
		src := name + ext
		if !exists(src) {
			continue
		}
		dst := filepath.Join(dir, filepath.Base(src))
		if err := copyFile(src, dst); err != nil {
			return copied, err
		}
		copied = append(copied, dst)
	}
	return copied, nil
}

// NextRunDir creates the next integer-named run directory under root, one
// past the largest existing integer directory, and returns its number and path.
func NextRunDir(root string) (int, string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return 0, "", errs.Wrap(errs.ErrCodeInternal, err, "list %s", root)
	}

	last := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if n, err := strconv.Atoi(e.Name()); err == nil && n > last {
			last = n
		}
	}

	next := last + 1
	path := filepath.Join(root, strconv.Itoa(next))
	if err := os.Mkdir(path, 0755); err != nil {
		return 0, "", errs.Wrap(errs.ErrCodeInternal, err, "create %s", path)
	}
	return next, path, nil
}

// copyFile copies src to dst, preserving the source permission bits.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return openError(src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "stat %s", src)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "create %s", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errs.Wrap(errs.ErrCodeInternal, err, "copy %s", src)
	}
	if err := out.Close(); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "close %s", dst)
	}
	return nil
}
