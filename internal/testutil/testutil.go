// Package testutil provides helpers shared by the pak test suites.
package testutil

import (
	"math/rand" //nolint:gosec // intentional use for reproducible test data
	"os"
	"path/filepath"
	"testing"
)

// WriteFiles creates files below dir from a map of slash-separated relative
// paths to content. Parent directories are created as needed.
func WriteFiles(tb testing.TB, dir string, files map[string][]byte) {
	tb.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			tb.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, content, 0o644); err != nil {
			tb.Fatalf("write %s: %v", path, err)
		}
	}
}

// ReadFile reads path and fails the test on error.
func ReadFile(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read %s: %v", path, err)
	}
	return data
}

// RandomBytes returns n pseudo-random bytes derived from seed. The output is
// effectively incompressible.
func RandomBytes(n int, seed int64) []byte {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic test data
	data := make([]byte, n)
	rng.Read(data)
	return data
}

// Pattern returns n bytes of a repeating, highly compressible pattern.
func Pattern(n int, pattern string) []byte {
	if pattern == "" {
		return make([]byte, n)
	}
	data := make([]byte, n)
	for i := range data {
		data[i] = pattern[i%len(pattern)]
	}
	return data
}
