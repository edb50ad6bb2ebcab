// Package testutil writes fixture trees and jars for tests.
package testutil

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FileSpec is a file to create below a test directory.  Path is slash
// separated; a Path ending in "/" is a directory.
type FileSpec struct {
	Path    string
	Content string
}

// MustWriteTestFiles creates the files below tmpDir and returns their
// absolute names, in order.
func MustWriteTestFiles(t *testing.T, tmpDir string, files []FileSpec) []string {
	t.Helper()
	var filenames []string
	for _, file := range files {
		abs := filepath.Join(tmpDir, filepath.FromSlash(file.Path))
		if strings.HasSuffix(file.Path, "/") {
			if err := os.MkdirAll(abs, os.ModePerm); err != nil {
				t.Fatal(err)
			}
			filenames = append(filenames, abs)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(abs), os.ModePerm); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(abs, []byte(file.Content), os.ModePerm); err != nil {
			t.Fatal(err)
		}
		filenames = append(filenames, abs)
	}
	return filenames
}

// MustWriteJar writes a zip archive holding the entries, in order.
// Duplicate paths are written as given.
func MustWriteJar(t *testing.T, filename string, entries []FileSpec) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(filename), os.ModePerm); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(filename)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.Path)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.WriteString(w, e.Content); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}
