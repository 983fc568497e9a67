package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// imageExts are the extensions recognised when scanning for saved jackets
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// Manager saves jacket images under a directory, one file per book id
type Manager struct {
	outputDir string
	// saved maps a book id to the file it was written to
	saved map[string]string
	mu    sync.RWMutex
}

// NewManager creates the output directory if needed and indexes the
// jackets already in it
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	manager := &Manager{
		outputDir: outputDir,
		saved:     make(map[string]string),
	}
	if err := manager.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing files: %w", err)
	}
	return manager, nil
}

func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || !imageExts[ext] {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		m.saved[id] = filepath.Join(m.outputDir, entry.Name())
	}
	return nil
}

// IsDownloaded reports whether a jacket for bookID is already on disk
func (m *Manager) IsDownloaded(bookID string) bool {
	_, ok := m.Path(bookID)
	return ok
}

// Path returns the file holding bookID's jacket
func (m *Manager) Path(bookID string) (string, bool) {
	m.mu.RLock()
	path, ok := m.saved[bookID]
	m.mu.RUnlock()
	if !ok {
		return "", false
	}

	if _, err := os.Stat(path); err != nil {
		m.mu.Lock()
		delete(m.saved, bookID)
		m.mu.Unlock()
		return "", false
	}
	return path, true
}

// SaveJacket writes the image read from r as <bookID><ext>, replacing any
// earlier file atomically, and returns the path written
func (m *Manager) SaveJacket(r io.Reader, bookID, ext string) (string, error) {
	if bookID == "" || strings.ContainsAny(bookID, `/\`) || bookID == "." || bookID == ".." {
		return "", fmt.Errorf("invalid book id %q", bookID)
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	filename := filepath.Join(m.outputDir, bookID+strings.ToLower(ext))

	tempFile := filename + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()
	if err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to save jacket data: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.mu.Lock()
	m.saved[bookID] = filename
	m.mu.Unlock()
	return filename, nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// GetDownloadedCount returns the number of jackets on disk
func (m *Manager) GetDownloadedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.saved)
}
