package desktop

import (
	"context"
	"io"
)

// FileStore persists uploaded and generated content below a public storage
// root. Paths are slash-separated and relative to that root.
type FileStore interface {
	// Save writes r to relPath, creating parent directories, and returns the byte count
	Save(ctx context.Context, relPath string, r io.Reader) (int64, error)

	// MkdirAll creates relPath and any missing parents
	MkdirAll(relPath string) error

	// Remove deletes a single file
	Remove(relPath string) error

	// RemoveAll deletes relPath and everything below it
	RemoveAll(relPath string) error

	// Exists reports whether relPath exists
	Exists(relPath string) bool

	// LocalPath resolves relPath to an OS path, rejecting paths that escape the root
	LocalPath(relPath string) (string, error)

	// URL returns the public URL for relPath
	URL(relPath string) string

	// RelPathFromURL maps a public URL back to a relative path.
	// ok is false when the URL is not served from this store.
	RelPathFromURL(link string) (relPath string, ok bool)
}
