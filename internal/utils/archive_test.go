package utils

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type zipEntry struct {
	name    string
	content string
}

func buildZip(t *testing.T, entries ...zipEntry) *zip.Reader {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		f, err := w.Create(e.name)
		if err != nil {
			t.Fatalf("create entry %s: %v", e.name, err)
		}
		if _, err := f.Write([]byte(e.content)); err != nil {
			t.Fatalf("write entry %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	zr, err := OpenZip(buf.Bytes())
	if err != nil {
		t.Fatalf("OpenZip() error = %v", err)
	}
	return zr
}

func TestOpenZip_RejectsGarbage(t *testing.T) {
	if _, err := OpenZip([]byte("definitely not a zip")); err == nil {
		t.Error("OpenZip() expected error for non-archive bytes")
	}
}

func TestExtractZip(t *testing.T) {
	tests := []struct {
		name      string
		entries   []zipEntry
		limits    ExtractLimits
		wantFiles int
		wantErr   error
	}{
		{
			name:      "nested files",
			entries:   []zipEntry{{"game/index.html", "<html></html>"}, {"game/js/app.js", "1"}},
			wantFiles: 2,
		},
		{
			name:      "resource forks skipped",
			entries:   []zipEntry{{"index.html", "x"}, {"__MACOSX/._index.html", "junk"}},
			wantFiles: 1,
		},
		{
			name:    "parent traversal",
			entries: []zipEntry{{"../evil.txt", "x"}},
			wantErr: ErrUnsafeEntry,
		},
		{
			name:    "backslash traversal",
			entries: []zipEntry{{`..\evil.txt`, "x"}},
			wantErr: ErrUnsafeEntry,
		},
		{
			name:    "absolute path",
			entries: []zipEntry{{"/etc/evil", "x"}},
			wantErr: ErrUnsafeEntry,
		},
		{
			name:    "too many entries",
			entries: []zipEntry{{"a", "1"}, {"b", "2"}, {"c", "3"}},
			limits:  ExtractLimits{MaxEntries: 2},
			wantErr: ErrTooManyEntries,
		},
		{
			name:    "too large",
			entries: []zipEntry{{"a", "12345"}, {"b", "67890"}},
			limits:  ExtractLimits{MaxBytes: 8},
			wantErr: ErrTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := t.TempDir()
			n, err := ExtractZip(buildZip(t, tt.entries...), dest, tt.limits)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ExtractZip() error = %v, want %v", err, tt.wantErr)
				}
				if _, statErr := os.Stat(filepath.Join(filepath.Dir(dest), "evil.txt")); statErr == nil {
					t.Fatal("entry was written outside the destination")
				}
				return
			}

			if err != nil {
				t.Fatalf("ExtractZip() error = %v", err)
			}
			if n != tt.wantFiles {
				t.Errorf("ExtractZip() files = %d, want %d", n, tt.wantFiles)
			}
		})
	}
}

func TestFindEntryPoint(t *testing.T) {
	tests := []struct {
		name   string
		files  []string
		want   string
		wantOK bool
	}{
		{"top level", []string{"index.html", "sub/index.html"}, "index.html", true},
		{"nested only", []string{"build/dist/index.html", "build/app.js"}, "build/dist/index.html", true},
		{"shallowest wins", []string{"a/b/index.html", "z/index.html"}, "z/index.html", true},
		{"name order within depth", []string{"beta/index.html", "alpha/index.html"}, "alpha/index.html", true},
		{"missing", []string{"main.html", "js/app.js"}, "", false},
		{"case sensitive", []string{"INDEX.HTML"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			for _, f := range tt.files {
				p := filepath.Join(root, filepath.FromSlash(f))
				if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
					t.Fatal(err)
				}
			}

			got, ok, err := FindEntryPoint(root, "index.html")
			if err != nil {
				t.Fatalf("FindEntryPoint() error = %v", err)
			}
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("FindEntryPoint() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"My Game!", "My Game"},
		{"  spaced  ", "spaced"},
		{"../../etc", "etc"},
		{"snake_case-name", "snake_case-name"},
		{"Café 2", "Café 2"},
		{"!!!", "app"},
		{"", "app"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeTitle(tt.input); got != tt.want {
				t.Errorf("SanitizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCreateZipFromDirectory_RoundTrip(t *testing.T) {
	src := t.TempDir()
	if err := os.MkdirAll(filepath.Join(src, "js"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "index.html"), []byte("<h1>hi</h1>"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "js", "app.js"), []byte("run()"), 0644); err != nil {
		t.Fatal(err)
	}

	buf, err := CreateZipFromDirectory(src)
	if err != nil {
		t.Fatalf("CreateZipFromDirectory() error = %v", err)
	}

	zr, err := OpenZip(buf.Bytes())
	if err != nil {
		t.Fatalf("OpenZip() error = %v", err)
	}

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	joined := strings.Join(names, ",")
	if joined != "index.html,js/app.js" {
		t.Errorf("entries = %s, want index.html,js/app.js", joined)
	}
}
