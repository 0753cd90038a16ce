package sqlbatch

import "io/fs"

// FileInfo is an alias for fs.FileInfo from the standard library.
// This provides compatibility with the fs.FS ecosystem while maintaining
// a stable local type for our abstraction layer.
type FileInfo = fs.FileInfo

// FileProvider abstracts on-disk file access for script reading and the
// surrounding framework's file manipulation helpers.
//
// Implementations are thin delegations to a native filesystem (or an
// in-memory substitute for tests); they carry no ordering guarantees beyond
// each call completing or failing independently, and callers decide whether
// to invoke them concurrently.
type FileProvider interface {
	// FileExists reports whether path exists and is a regular file.
	// A missing path is not an error.
	FileExists(path string) (bool, error)

	// DirectoryExists reports whether path exists and is a directory.
	DirectoryExists(path string) (bool, error)

	// ReadAllText reads the file at path and returns its content as a string.
	ReadAllText(path string) (string, error)

	// ReadAllBytes reads the file at path and returns its raw content.
	ReadAllBytes(path string) ([]byte, error)

	// WriteAllText writes text to the file at path, creating or truncating it.
	WriteAllText(path string, text string) error

	// CreateDirectory creates the directory at path along with any
	// missing parents. Creating an existing directory is not an error.
	CreateDirectory(path string) error

	// DeleteFile removes the file at path. Deleting a missing file is not an error.
	DeleteFile(path string) error

	// FileLength returns the size of the file at path in bytes.
	FileLength(path string) (int64, error)

	// ReadDir returns the entries of the directory at path.
	ReadDir(path string) ([]FileInfo, error)

	// Stat returns file information for the given path.
	Stat(path string) (FileInfo, error)
}
