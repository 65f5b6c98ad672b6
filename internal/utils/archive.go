package utils

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"
)

var (
	// ErrUnsafeEntry marks an archive entry whose path would land outside the destination
	ErrUnsafeEntry = errors.New("archive entry escapes destination")
	// ErrTooManyEntries marks an archive with more entries than allowed
	ErrTooManyEntries = errors.New("archive has too many entries")
	// ErrTooLarge marks an archive whose content exceeds the extraction budget
	ErrTooLarge = errors.New("archive content too large")
)

// ExtractLimits bounds a single extraction. Zero values mean unlimited.
type ExtractLimits struct {
	MaxEntries int
	MaxBytes   int64
}

// OpenZip parses an in-memory zip archive. Insecure entry names are not an
// error here; ExtractZip rejects them.
func OpenZip(data []byte) (*zip.Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if errors.Is(err, zip.ErrInsecurePath) {
		return zr, nil
	}
	return zr, err
}

// ExtractZip writes every regular file of zr below destDir and returns the
// number of files written. Symlinks and macOS resource forks are skipped.
// The uncompressed size is counted while copying, not taken from headers.
func ExtractZip(zr *zip.Reader, destDir string, limits ExtractLimits) (int, error) {
	if limits.MaxEntries > 0 && len(zr.File) > limits.MaxEntries {
		return 0, fmt.Errorf("%d entries: %w", len(zr.File), ErrTooManyEntries)
	}

	var written int64
	files := 0

	for _, entry := range zr.File {
		name, err := safeEntryName(entry.Name)
		if err != nil {
			return files, err
		}
		if name == "" || strings.HasPrefix(name, "__MACOSX/") {
			continue
		}

		mode := entry.Mode()
		if mode&os.ModeSymlink != 0 {
			continue
		}

		target := filepath.Join(destDir, filepath.FromSlash(name))

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return files, fmt.Errorf("create directory %s: %w", name, err)
			}
			continue
		}

		budget := int64(-1)
		if limits.MaxBytes > 0 {
			budget = limits.MaxBytes - written
		}

		n, err := extractFile(entry, target, budget)
		if err != nil {
			return files, fmt.Errorf("extract %s: %w", name, err)
		}
		written += n
		files++
	}

	return files, nil
}

// safeEntryName normalizes an entry name to a clean relative slash path.
// Backslashes are treated as separators since some Windows tools write them.
func safeEntryName(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	if strings.HasPrefix(name, "/") || (len(name) > 1 && name[1] == ':') {
		return "", fmt.Errorf("%q: %w", name, ErrUnsafeEntry)
	}

	clean := path.Clean(name)
	if clean == "." {
		return "", nil
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%q: %w", name, ErrUnsafeEntry)
	}
	return clean, nil
}

// extractFile copies one entry to target. budget < 0 means unlimited.
func extractFile(entry *zip.File, target string, budget int64) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return 0, err
	}

	rc, err := entry.Open()
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	var src io.Reader = rc
	if budget >= 0 {
		src = io.LimitReader(rc, budget+1)
	}

	n, err := io.Copy(out, src)
	if err != nil {
		return n, err
	}
	if budget >= 0 && n > budget {
		return n, ErrTooLarge
	}
	return n, nil
}

// FindEntryPoint searches root breadth-first for a regular file called name
// and returns its slash-separated path relative to root. The shallowest match
// wins; within one depth, directories are visited in name order.
func FindEntryPoint(root, name string) (string, bool, error) {
	level := []string{""}

	for len(level) > 0 {
		var next []string
		for _, rel := range level {
			entries, err := os.ReadDir(filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil {
				return "", false, err
			}
			for _, e := range entries {
				child := path.Join(rel, e.Name())
				if e.Type().IsRegular() && e.Name() == name {
					return child, true, nil
				}
				if e.IsDir() {
					next = append(next, child)
				}
			}
		}
		level = next
	}

	return "", false, nil
}

// SanitizeTitle keeps letters, digits, spaces, underscores and hyphens, then
// trims. An empty result becomes "app".
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}

	safe := strings.TrimSpace(b.String())
	if safe == "" {
		return "app"
	}
	return safe
}

// CreateZipFromDirectory packs every regular file below dirPath into a zip archive
func CreateZipFromDirectory(dirPath string) (*bytes.Buffer, error) {
	zipBuffer := new(bytes.Buffer)
	zipWriter := zip.NewWriter(zipBuffer)

	err := filepath.Walk(dirPath, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(dirPath, p)
		if err != nil {
			return err
		}

		fileWriter, err := zipWriter.Create(filepath.ToSlash(relPath))
		if err != nil {
			return err
		}

		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}

		_, err = fileWriter.Write(content)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := zipWriter.Close(); err != nil {
		return nil, err
	}

	return zipBuffer, nil
}
