package fileprovider

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOSProvider_FileExists(t *testing.T) {
	provider := NewOSProvider()
	dir := t.TempDir()

	filePath := filepath.Join(dir, "install.sql")
	if err := os.WriteFile(filePath, []byte("SELECT 1\n"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"existing file", filePath, true},
		{"missing file", filepath.Join(dir, "missing.sql"), false},
		{"directory is not a file", dir, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := provider.FileExists(tt.path)
			if err != nil {
				t.Fatalf("FileExists() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestOSProvider_DirectoryExists(t *testing.T) {
	provider := NewOSProvider()
	dir := t.TempDir()

	exists, err := provider.DirectoryExists(dir)
	if err != nil {
		t.Fatalf("DirectoryExists() error = %v", err)
	}
	if !exists {
		t.Errorf("DirectoryExists(%q) = false, want true", dir)
	}

	exists, err = provider.DirectoryExists(filepath.Join(dir, "nope"))
	if err != nil {
		t.Fatalf("DirectoryExists() error = %v", err)
	}
	if exists {
		t.Error("DirectoryExists() = true for missing directory")
	}
}

func TestOSProvider_ReadWriteRoundTrip(t *testing.T) {
	provider := NewOSProvider()
	dir := t.TempDir()
	filePath := filepath.Join(dir, "schema.sql")

	content := "CREATE TABLE customer (id int);\nGO\n"
	if err := provider.WriteAllText(filePath, content); err != nil {
		t.Fatalf("WriteAllText() error = %v", err)
	}

	got, err := provider.ReadAllText(filePath)
	if err != nil {
		t.Fatalf("ReadAllText() error = %v", err)
	}
	if got != content {
		t.Errorf("ReadAllText() = %q, want %q", got, content)
	}

	length, err := provider.FileLength(filePath)
	if err != nil {
		t.Fatalf("FileLength() error = %v", err)
	}
	if length != int64(len(content)) {
		t.Errorf("FileLength() = %d, want %d", length, len(content))
	}
}

func TestOSProvider_CreateDirectory(t *testing.T) {
	provider := NewOSProvider()
	dir := t.TempDir()
	nested := filepath.Join(dir, "scripts", "install")

	if err := provider.CreateDirectory(nested); err != nil {
		t.Fatalf("CreateDirectory() error = %v", err)
	}

	// Creating an existing directory is not an error
	if err := provider.CreateDirectory(nested); err != nil {
		t.Errorf("CreateDirectory() on existing directory returned %v", err)
	}

	exists, err := provider.DirectoryExists(nested)
	if err != nil || !exists {
		t.Errorf("DirectoryExists(%q) = %v, %v; want true, nil", nested, exists, err)
	}
}

func TestOSProvider_DeleteFile(t *testing.T) {
	provider := NewOSProvider()
	dir := t.TempDir()
	filePath := filepath.Join(dir, "temp.sql")

	if err := provider.WriteAllText(filePath, "SELECT 1\n"); err != nil {
		t.Fatalf("WriteAllText() error = %v", err)
	}

	if err := provider.DeleteFile(filePath); err != nil {
		t.Fatalf("DeleteFile() error = %v", err)
	}

	// Deleting a missing file is not an error
	if err := provider.DeleteFile(filePath); err != nil {
		t.Errorf("DeleteFile() on missing file returned %v", err)
	}
}

func TestOSProvider_ReadDir(t *testing.T) {
	provider := NewOSProvider()
	dir := t.TempDir()

	for _, name := range []string{"b.sql", "a.sql"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1\n"), 0o644); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}

	entries, err := provider.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ReadDir() returned %d entries, want 2", len(entries))
	}
}
