package projects

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const projectsJSON = `[
  {"id": "p2", "name": "Hus A", "files": [{"name": "tegning.pdf", "path": "/uploads/tegning.pdf"}]},
  {"id": "p1", "name": "Garasje", "customer": "Ola Nordmann", "status": "active"},
  {"id": "p3", "name": "Hytte", "files": []}
]`

func newStore(t *testing.T, body string) *JSONStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "projects.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return NewJSONStore(path)
}

func TestGet(t *testing.T) {
	s := newStore(t, projectsJSON)

	p, err := s.Get(context.Background(), "p2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Name != "Hus A" {
		t.Errorf("name = %q", p.Name)
	}
	if len(p.Files) != 1 || p.Files[0].Name != "tegning.pdf" || p.Files[0].Path != "/uploads/tegning.pdf" {
		t.Errorf("files = %+v", p.Files)
	}
}

func TestGetUnknownID(t *testing.T) {
	s := newStore(t, projectsJSON)

	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListOrderedByID(t *testing.T) {
	s := newStore(t, projectsJSON)

	list, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	var ids []string
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	if len(ids) != 3 || ids[0] != "p1" || ids[1] != "p2" || ids[2] != "p3" {
		t.Fatalf("ids = %v", ids)
	}
}

func TestMissingFileIsEmptyStore(t *testing.T) {
	s := NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))

	list, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}

	if _, err := s.Get(context.Background(), "p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCorruptFile(t *testing.T) {
	s := newStore(t, `{"id": `)

	_, err := s.Get(context.Background(), "p1")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	s := newStore(t, projectsJSON)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Get(ctx, "p1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGetToleratesUnparsableCreatedAt(t *testing.T) {
	s := newStore(t, `[
  {"id": "a", "name": "Hus A", "createdAt": "2024-03-01T10:00:00Z"},
  {"id": "b", "name": "Dato", "createdAt": "2024-03-01"},
  {"id": "c", "name": "Tom", "createdAt": ""},
  {"id": "d", "name": "Tall", "createdAt": 1709251200000},
  {"id": "e", "name": "Rot", "createdAt": {"when": "i går"}}
]`)

	p, err := s.Get(context.Background(), "a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.CreatedAt.Year() != 2024 {
		t.Errorf("createdAt = %v", p.CreatedAt)
	}

	list, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 5 {
		t.Fatalf("got %d projects", len(list))
	}
}
