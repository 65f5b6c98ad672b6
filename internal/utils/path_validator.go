package utils

import (
	"fmt"
	"strings"
)

const (
	MaxPathLength    = 1024
	MaxSegmentLength = 255
)

// SplitUploadPath splits the relative path sent with a directory upload
// ("A/B/c.txt") into its directory segments. The last segment names the file
// and is not returned. An empty path, "undefined" (what browsers send for
// single-file uploads) and paths without a slash yield no segments.
// Empty segments are dropped; "." and ".." are rejected.
func SplitUploadPath(relativePath string) ([]string, error) {
	relativePath = strings.TrimSpace(relativePath)
	if relativePath == "" || relativePath == "undefined" || !strings.Contains(relativePath, "/") {
		return nil, nil
	}

	if len(relativePath) > MaxPathLength {
		return nil, fmt.Errorf("path exceeds maximum length of %d characters", MaxPathLength)
	}

	parts := strings.Split(relativePath, "/")
	var dirs []string
	for _, segment := range parts[:len(parts)-1] {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		if err := ValidateFolderName(segment); err != nil {
			return nil, err
		}
		dirs = append(dirs, segment)
	}

	return dirs, nil
}

// ValidateFolderName checks a single folder name
func ValidateFolderName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("folder name cannot be empty")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("folder name %q is not allowed", name)
	}
	if len(name) > MaxSegmentLength {
		return fmt.Errorf("folder name exceeds maximum length of %d characters", MaxSegmentLength)
	}
	if strings.ContainsAny(name, "/\x00") {
		return fmt.Errorf("folder name contains invalid characters")
	}
	return nil
}
