// Package filesystem reads and writes documents on the local disk.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/reglet-dev/recast/internal/application/ports"
)

// Ensure interface compliance
var (
	_ ports.DocumentReader = (*DocumentStore)(nil)
	_ ports.DocumentWriter = (*DocumentStore)(nil)
)

// Extensions are the file extensions Expand collects from directories.
var Extensions = []string{".bpmn", ".dmn", ".bpmn20.xml"}

// DocumentStore implements DocumentReader and DocumentWriter. Every access is
// confined to the directory of the named file through os.Root.
type DocumentStore struct {
	dirMode  fs.FileMode
	fileMode fs.FileMode
}

// NewDocumentStore creates a DocumentStore.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{dirMode: 0o755, fileMode: 0o644}
}

// Read returns the contents of path.
func (s *DocumentStore) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := os.OpenRoot(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	data, err := root.ReadFile(filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Write stores data as dir/name, creating dir when needed. name must not
// leave dir.
func (s *DocumentStore) Write(ctx context.Context, dir, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	//nolint:gosec // G301: output directories are meant to be shared
	if err := os.MkdirAll(dir, s.dirMode); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return "", fmt.Errorf("failed to open output directory: %w", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	if err := root.WriteFile(name, data, s.fileMode); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return filepath.Join(dir, name), nil
}

// Expand resolves paths into document files. Directories are walked for
// files with a known extension; glob patterns are matched; plain files are
// kept as given. The result is sorted and free of duplicates.
func Expand(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, p := range paths {
		if strings.ContainsAny(p, "*?[") {
			matches, err := filepath.Glob(p)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to access %s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsDocument(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
	}

	sort.Strings(out)
	return out, nil
}

// IsDocument reports whether path has one of Extensions.
func IsDocument(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
