package sources

import (
	"archive/zip"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/agentstation/reelmap/pkg/constants"
	"github.com/agentstation/reelmap/pkg/errors"
)

// extractZip unpacks every file of the archive at src into dir.
// Entries that would escape dir are rejected.
func extractZip(src, dir string) ([]string, error) {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return nil, errors.WrapParse("zip", src, err)
	}
	defer func() { _ = zr.Close() }()

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.WrapIO("resolve", dir, err)
	}

	var written []string
	for _, zf := range zr.File {
		target := filepath.Join(root, zf.Name)
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return written, &errors.ParseError{
				Format:  "zip",
				File:    src,
				Message: "entry escapes target directory: " + zf.Name,
			}
		}
		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(target, constants.DirPermissions); err != nil {
				return written, errors.WrapIO("create", target, err)
			}
			continue
		}
		if err := extractFile(zf, target); err != nil {
			return written, err
		}
		written = append(written, target)
	}
	return written, nil
}

func extractFile(zf *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(target), err)
	}
	rc, err := zf.Open()
	if err != nil {
		return errors.WrapIO("extract", zf.Name, err)
	}
	defer func() { _ = rc.Close() }()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", target, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return errors.WrapIO("extract", target, err)
	}
	return errors.WrapIO("close", target, out.Close())
}

// gunzipFile decompresses src into dst.
func gunzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.WrapIO("open", src, err)
	}
	defer func() { _ = in.Close() }()

	gz, err := gzip.NewReader(in)
	if err != nil {
		return errors.WrapParse("gzip", src, err)
	}
	defer func() { _ = gz.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", dst, err)
	}
	if _, err := io.Copy(out, gz); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return errors.WrapParse("gzip", src, err)
	}
	return errors.WrapIO("close", dst, out.Close())
}

// prune removes the regular files directly under dir whose names are not in keep.
func prune(dir string, keep []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapIO("read", dir, err)
	}
	var removed []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		if slices.Contains(keep, name) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return removed, errors.WrapIO("delete", filepath.Join(dir, name), err)
		}
		removed = append(removed, name)
	}
	return removed, nil
}

// nonEmpty reports whether every path is an existing file with content.
func nonEmpty(paths ...string) bool {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() || info.Size() == 0 {
			return false
		}
	}
	return true
}
