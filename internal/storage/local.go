package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"webtop/internal/domain/services/desktop"
)

// ErrPathEscapesRoot is returned for relative paths that resolve outside the store root
var ErrPathEscapesRoot = errors.New("path escapes storage root")

// LocalStore keeps files below a directory that is served at baseURL
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore creates the root directory when missing and returns a store for it.
// baseURL is the public prefix under which root is served, e.g. "/media/".
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalStore{root: abs, baseURL: baseURL}, nil
}

var _ desktop.FileStore = (*LocalStore)(nil)

// Root returns the absolute storage directory
func (s *LocalStore) Root() string {
	return s.root
}

// LocalPath resolves a slash-separated relative path below the root
func (s *LocalStore) LocalPath(relPath string) (string, error) {
	if relPath == "" || strings.Contains(relPath, "\\") || path.IsAbs(relPath) {
		return "", fmt.Errorf("%q: %w", relPath, ErrPathEscapesRoot)
	}
	for _, seg := range strings.Split(relPath, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%q: %w", relPath, ErrPathEscapesRoot)
		}
	}

	p := filepath.Join(s.root, filepath.FromSlash(relPath))
	rel, err := filepath.Rel(s.root, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q: %w", relPath, ErrPathEscapesRoot)
	}
	return p, nil
}

// Save writes r to relPath through a temp file and rename, so readers never
// see a partial file
func (s *LocalStore) Save(ctx context.Context, relPath string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	dst, err := s.LocalPath(relPath)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, fmt.Errorf("create parent directories: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	n, copyErr := io.Copy(tmp, r)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("write %s: %w", relPath, errors.Join(copyErr, closeErr))
	}

	if err := os.Rename(tmpName, dst); err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("rename into place: %w", err)
	}

	return n, nil
}

// MkdirAll creates relPath and any missing parents
func (s *LocalStore) MkdirAll(relPath string) error {
	p, err := s.LocalPath(relPath)
	if err != nil {
		return err
	}
	return os.MkdirAll(p, 0755)
}

// Remove deletes a single file
func (s *LocalStore) Remove(relPath string) error {
	p, err := s.LocalPath(relPath)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

// RemoveAll deletes relPath recursively. A missing path is not an error.
func (s *LocalStore) RemoveAll(relPath string) error {
	p, err := s.LocalPath(relPath)
	if err != nil {
		return err
	}
	return os.RemoveAll(p)
}

// Exists reports whether relPath exists
func (s *LocalStore) Exists(relPath string) bool {
	p, err := s.LocalPath(relPath)
	if err != nil {
		return false
	}
	_, err = os.Lstat(p)
	return err == nil
}

// URL returns the public URL for relPath, escaping each segment
func (s *LocalStore) URL(relPath string) string {
	segs := strings.Split(relPath, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return s.baseURL + strings.Join(segs, "/")
}

// RelPathFromURL strips the public base from link. With a path-only base,
// absolute links match on their path, so "https://host/media/x" maps like "/media/x".
func (s *LocalStore) RelPathFromURL(link string) (string, bool) {
	var rest string
	if strings.Contains(s.baseURL, "://") {
		if !strings.HasPrefix(link, s.baseURL) {
			return "", false
		}
		rest = strings.TrimPrefix(link, s.baseURL)
	} else {
		u, err := url.Parse(link)
		if err != nil || !strings.HasPrefix(u.EscapedPath(), s.baseURL) {
			return "", false
		}
		rest = strings.TrimPrefix(u.EscapedPath(), s.baseURL)
	}

	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	rel, err := url.PathUnescape(rest)
	if err != nil || rel == "" {
		return "", false
	}
	return rel, true
}
