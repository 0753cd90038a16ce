package fileprovider

import (
	"fmt"
	"os"

	"github.com/vvka-141/sqlbatch/pkg/sqlbatch"
)

// OSProvider implements sqlbatch.FileProvider for the OS filesystem.
type OSProvider struct{}

// NewOSProvider creates a new OS filesystem provider.
func NewOSProvider() *OSProvider {
	return &OSProvider{}
}

// FileExists reports whether path exists and is a regular file.
func (p *OSProvider) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return !info.IsDir(), nil
}

// DirectoryExists reports whether path exists and is a directory.
func (p *OSProvider) DirectoryExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info.IsDir(), nil
}

// ReadAllText reads the file at path and returns its content as a string.
func (p *OSProvider) ReadAllText(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(content), nil
}

// ReadAllBytes reads the file at path and returns its raw content.
func (p *OSProvider) ReadAllBytes(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteAllText writes text to the file at path, creating or truncating it.
func (p *OSProvider) WriteAllText(path string, text string) error {
	return os.WriteFile(path, []byte(text), 0o644)
}

// CreateDirectory creates the directory at path along with missing parents.
func (p *OSProvider) CreateDirectory(path string) error {
	return os.MkdirAll(path, 0o755)
}

// DeleteFile removes the file at path. A missing file is not an error.
func (p *OSProvider) DeleteFile(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// FileLength returns the size of the file at path in bytes.
func (p *OSProvider) FileLength(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("path is a directory, not a file: %s", path)
	}
	return info.Size(), nil
}

// ReadDir returns the entries of the directory at path.
func (p *OSProvider) ReadDir(path string) ([]sqlbatch.FileInfo, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	result := make([]sqlbatch.FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to get file info for %s: %w", entry.Name(), err)
		}
		result = append(result, info)
	}

	return result, nil
}

// Stat returns file information for the given path.
func (p *OSProvider) Stat(path string) (sqlbatch.FileInfo, error) {
	// os.Stat returns os.FileInfo which implements fs.FileInfo
	return os.Stat(path)
}

// Verify OSProvider implements the interface at compile time
var _ sqlbatch.FileProvider = (*OSProvider)(nil)
