// Package fileprovider contains implementations of the sqlbatch.FileProvider
// abstraction: a direct OS-backed provider and an in-memory provider for
// tests. Every method is a thin delegation to the native call; providers hold
// no state beyond the in-memory file map and are safe for concurrent reads.
package fileprovider
