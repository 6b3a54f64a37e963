// Package export writes generated documents and chat transcripts to disk.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/diogo/careerpilot/internal/models"
)

// maxSuffix caps the " (n)" collision search
const maxSuffix = 999

// createFile opens a new file, failing if it already exists. O_EXCL so a
// file that appeared after UniquePath is not clobbered.
var createFile = func(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
}

// SaveText writes content as AI_Co-pilot_Document.txt in dir and returns
// the absolute path. An existing file is never overwritten: like a browser
// download, the name gains a " (1)", " (2)", ... suffix.
func SaveText(dir, content string) (string, error) {
	if content == "" {
		return "", fmt.Errorf("nothing to save")
	}
	return save(dir, models.TextDownloadName, []byte(content))
}

// SavePDF writes data as document.pdf in dir, with the same collision rule
func SavePDF(dir string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("nothing to save")
	}
	return save(dir, models.PDFDownloadName, data)
}

// WriteFile writes data to an explicit path, creating parent directories.
// Used when the caller picked the name; it overwrites.
func WriteFile(path string, data []byte) (string, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return absolute(path), nil
}

// UniquePath returns dir/name, or the first "name (n).ext" that does not exist
func UniquePath(dir, name string) (string, error) {
	candidate := filepath.Join(dir, name)
	if !exists(candidate) {
		return candidate, nil
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; i <= maxSuffix; i++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		if !exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("too many existing copies of %s in %s", name, dir)
}

func save(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path, err := UniquePath(dir, name)
	if err != nil {
		return "", err
	}

	f, err := createFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return absolute(path), nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func absolute(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
