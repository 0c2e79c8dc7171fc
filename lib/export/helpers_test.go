package export

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/joshnies/bygg/lib/projects"
	"github.com/joshnies/bygg/models"
)

// Write a file below dir, creating parent directories.
func writeFile(t *testing.T, dir string, rel string, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// Open an archive held in memory and return its entries' contents by name, in order.
func readArchive(t *testing.T, b []byte) ([]string, map[string]string) {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}

	var names []string
	contents := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry %q: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry %q: %v", f.Name, err)
		}
		names = append(names, f.Name)
		contents[f.Name] = string(data)
	}
	return names, contents
}

type memoryStore map[string]models.Project

func (m memoryStore) Get(_ context.Context, id string) (models.Project, error) {
	p, ok := m[id]
	if !ok {
		return models.Project{}, projects.ErrNotFound
	}
	return p, nil
}

func (m memoryStore) List(_ context.Context) ([]models.Project, error) {
	var list []models.Project
	for _, p := range m {
		list = append(list, p)
	}
	return list, nil
}
