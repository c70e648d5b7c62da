package boundary

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	archivePrefix    = "jar:file:"
	archiveSeparator = "!/"
)

// isArchive reports whether a classpath entry is read as a zip archive.
func isArchive(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	return ext == ".jar" || ext == ".zip"
}

// findResource looks name up in a classpath entry. Directory hits are
// returned as file paths, archive hits as jar:file:<archive>!/<name>.
func findResource(entry, name string) (string, bool) {
	info, err := os.Stat(entry)
	if err != nil {
		return "", false
	}

	if info.IsDir() {
		p := filepath.Join(entry, filepath.FromSlash(name))
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return p, true
		}
		return "", false
	}

	if !isArchive(entry) {
		return "", false
	}
	zr, err := zip.OpenReader(entry)
	if err != nil {
		return "", false
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name == name {
			return archivePrefix + entry + archiveSeparator + name, true
		}
	}
	return "", false
}

// OpenResource opens a location returned by LoadResource. Plain paths,
// file: URLs and jar:file:<archive>!/<entry> locations are supported.
func OpenResource(location string) (io.ReadCloser, error) {
	if rest, ok := strings.CutPrefix(location, archivePrefix); ok {
		archive, entry, ok := strings.Cut(rest, archiveSeparator)
		if !ok {
			return nil, fmt.Errorf("malformed archive location %q", location)
		}
		return openArchiveEntry(archive, entry)
	}

	if strings.HasPrefix(location, "file:") {
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("malformed file location %q: %w", location, err)
		}
		location = filepath.FromSlash(u.Path)
	}
	return os.Open(location)
}

// ReadResource reads a whole resource.
func ReadResource(location string) ([]byte, error) {
	rc, err := OpenResource(location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func openArchiveEntry(archive, entry string) (io.ReadCloser, error) {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return nil, err
	}
	entry = path.Clean(entry)
	for _, f := range zr.File {
		if f.Name != entry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			_ = zr.Close()
			return nil, err
		}
		return &archiveEntry{ReadCloser: rc, archive: zr}, nil
	}
	_ = zr.Close()
	return nil, fmt.Errorf("%s in %s: %w", entry, archive, os.ErrNotExist)
}

// archiveEntry closes the archive together with the entry.
type archiveEntry struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (a *archiveEntry) Close() error {
	return errors.Join(a.ReadCloser.Close(), a.archive.Close())
}
