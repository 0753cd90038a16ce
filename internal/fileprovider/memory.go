package fileprovider

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/vvka-141/sqlbatch/pkg/sqlbatch"
)

// memoryFileInfo implements fs.FileInfo for in-memory files
type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.isDir }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

type memoryEntry struct {
	content []byte
	info    *memoryFileInfo
}

// MemoryProvider implements sqlbatch.FileProvider against an in-memory file
// map. Paths use forward slashes regardless of platform (virtual filesystem
// convention). Safe for concurrent use.
type MemoryProvider struct {
	mu    sync.RWMutex
	files map[string]*memoryEntry
}

// NewMemoryProvider creates an empty in-memory provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		files: make(map[string]*memoryEntry),
	}
}

// AddFile adds a file with the current time as its modification time.
func (p *MemoryProvider) AddFile(filePath string, content string) {
	p.AddFileWithTime(filePath, content, time.Now())
}

// AddFileWithTime adds a file with a specific modification time.
func (p *MemoryProvider) AddFileWithTime(filePath string, content string, modTime time.Time) {
	filePath = normalize(filePath)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.files[filePath] = &memoryEntry{
		content: []byte(content),
		info: &memoryFileInfo{
			name:    path.Base(filePath),
			size:    int64(len(content)),
			mode:    0o644,
			modTime: modTime,
		},
	}
	p.ensureDirectoriesExist(path.Dir(filePath))
}

// ensureDirectoriesExist creates directory entries for all parents.
// Caller must hold the write lock.
func (p *MemoryProvider) ensureDirectoriesExist(dir string) {
	for dir != "." && dir != "/" {
		if _, exists := p.files[dir]; exists {
			return
		}
		p.files[dir] = &memoryEntry{
			info: &memoryFileInfo{
				name:    path.Base(dir),
				mode:    0o755 | fs.ModeDir,
				modTime: time.Now(),
				isDir:   true,
			},
		}
		dir = path.Dir(dir)
	}
}

func normalize(filePath string) string {
	return path.Clean(filepath.ToSlash(filePath))
}

// FileExists reports whether path exists and is a regular file.
func (p *MemoryProvider) FileExists(filePath string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	entry, exists := p.files[normalize(filePath)]
	return exists && !entry.info.isDir, nil
}

// DirectoryExists reports whether path exists and is a directory.
func (p *MemoryProvider) DirectoryExists(filePath string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	entry, exists := p.files[normalize(filePath)]
	return exists && entry.info.isDir, nil
}

// ReadAllText reads the file at path and returns its content as a string.
func (p *MemoryProvider) ReadAllText(filePath string) (string, error) {
	content, err := p.ReadAllBytes(filePath)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// ReadAllBytes reads the file at path and returns its raw content.
func (p *MemoryProvider) ReadAllBytes(filePath string) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	entry, exists := p.files[normalize(filePath)]
	if !exists {
		return nil, fmt.Errorf("file not found: %s", filePath)
	}
	if entry.info.isDir {
		return nil, fmt.Errorf("path is a directory, not a file: %s", filePath)
	}
	return entry.content, nil
}

// WriteAllText writes text to the file at path, creating or truncating it.
func (p *MemoryProvider) WriteAllText(filePath string, text string) error {
	p.AddFile(filePath, text)
	return nil
}

// CreateDirectory creates the directory at path along with missing parents.
func (p *MemoryProvider) CreateDirectory(filePath string) error {
	filePath = normalize(filePath)

	p.mu.Lock()
	defer p.mu.Unlock()

	if entry, exists := p.files[filePath]; exists && !entry.info.isDir {
		return fmt.Errorf("path exists and is not a directory: %s", filePath)
	}
	p.files[filePath] = &memoryEntry{
		info: &memoryFileInfo{
			name:    path.Base(filePath),
			mode:    0o755 | fs.ModeDir,
			modTime: time.Now(),
			isDir:   true,
		},
	}
	p.ensureDirectoriesExist(path.Dir(filePath))
	return nil
}

// DeleteFile removes the file at path. A missing file is not an error.
func (p *MemoryProvider) DeleteFile(filePath string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.files, normalize(filePath))
	return nil
}

// FileLength returns the size of the file at path in bytes.
func (p *MemoryProvider) FileLength(filePath string) (int64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	entry, exists := p.files[normalize(filePath)]
	if !exists {
		return 0, fmt.Errorf("file not found: %s", filePath)
	}
	if entry.info.isDir {
		return 0, fmt.Errorf("path is a directory, not a file: %s", filePath)
	}
	return entry.info.size, nil
}

// ReadDir returns the immediate entries of the directory at path,
// sorted by name for deterministic order.
func (p *MemoryProvider) ReadDir(dirPath string) ([]sqlbatch.FileInfo, error) {
	dirPath = normalize(dirPath)

	p.mu.RLock()
	defer p.mu.RUnlock()

	if entry, exists := p.files[dirPath]; exists && !entry.info.isDir {
		return nil, fmt.Errorf("path is not a directory: %s", dirPath)
	}

	var result []sqlbatch.FileInfo
	for filePath, entry := range p.files {
		if path.Dir(filePath) == dirPath && filePath != dirPath {
			result = append(result, entry.info)
		}
	}

	if result == nil {
		if _, exists := p.files[dirPath]; !exists {
			return nil, fmt.Errorf("directory not found: %s", dirPath)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result, nil
}

// Stat returns file information for the given path.
func (p *MemoryProvider) Stat(filePath string) (sqlbatch.FileInfo, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	entry, exists := p.files[normalize(filePath)]
	if !exists {
		return nil, fmt.Errorf("path not found: %s", filePath)
	}
	return entry.info, nil
}

// Paths returns all known paths, sorted. Intended for test assertions.
func (p *MemoryProvider) Paths() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	paths := make([]string, 0, len(p.files))
	for filePath := range p.files {
		paths = append(paths, filePath)
	}
	sort.Strings(paths)
	return paths
}

// Verify MemoryProvider implements the interface at compile time
var _ sqlbatch.FileProvider = (*MemoryProvider)(nil)
