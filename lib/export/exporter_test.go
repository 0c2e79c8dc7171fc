package export

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/joshnies/bygg/lib/projects"
	"github.com/joshnies/bygg/models"
)

func newTestExporter(t *testing.T, store projects.Store, root string) *Exporter {
	t.Helper()
	r, err := NewResolver(root)
	if err != nil {
		t.Fatal(err)
	}
	return NewExporter(store, r)
}

func TestOpenUnknownProject(t *testing.T) {
	e := newTestExporter(t, memoryStore{}, t.TempDir())

	_, err := e.Open(context.Background(), "missing")
	if !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
	if !errors.Is(err, projects.ErrNotFound) {
		t.Fatalf("expected the store error to be kept, got %v", err)
	}
}

func TestOpenExportsPresentFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "uploads/1.pdf", "one")
	writeFile(t, root, "uploads/3.pdf", "three")

	store := memoryStore{
		"p1": {
			ID:   "p1",
			Name: "Hus A",
			Files: []models.FileRef{
				{Name: "En.pdf", Path: "/uploads/1.pdf"},
				{Name: "To.pdf", Path: "/uploads/2.pdf"},
				{Name: "Tre.pdf", Path: "/uploads/3.pdf"},
			},
		},
	}
	e := newTestExporter(t, store, root)

	exp, err := e.Open(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer exp.Stream.Close()

	if exp.Filename != "prosjekt-Hus_A.zip" {
		t.Errorf("filename = %q", exp.Filename)
	}
	if exp.ContentType != "application/zip" {
		t.Errorf("content type = %q", exp.ContentType)
	}
	if len(exp.Files) != 2 {
		t.Fatalf("expected 2 resolved files, got %+v", exp.Files)
	}

	b, err := io.ReadAll(exp.Stream)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	names, contents := readArchive(t, b)
	if len(names) != 2 || names[0] != "En.pdf" || names[1] != "Tre.pdf" {
		t.Fatalf("names = %v", names)
	}
	if contents["Tre.pdf"] != "three" {
		t.Errorf("content = %q", contents["Tre.pdf"])
	}
}

func TestOpenProjectWithoutFiles(t *testing.T) {
	store := memoryStore{"p1": {ID: "p1", Name: "Tom"}}
	e := newTestExporter(t, store, t.TempDir())

	exp, err := e.Open(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer exp.Stream.Close()

	b, err := io.ReadAll(exp.Stream)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if names, _ := readArchive(t, b); len(names) != 0 {
		t.Fatalf("expected empty archive, got %v", names)
	}
}

func TestOpenPerExportOptions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "a")
	store := memoryStore{"p1": {ID: "p1", Name: "P", Files: []models.FileRef{{Name: "a.txt", Path: "a.txt"}}}}
	e := newTestExporter(t, store, root)

	calls := 0
	exp, err := e.Open(context.Background(), "p1", WithReaderHook(func(_ models.ResolvedFile, r io.Reader) io.Reader {
		calls++
		return r
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer exp.Stream.Close()

	if _, err := io.Copy(io.Discard, exp.Stream); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("hook called %d times", calls)
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Hus A", "prosjekt-Hus_A.zip"},
		{"Hus  A\tB", "prosjekt-Hus_A_B.zip"},
		{" Hytte ", "prosjekt-_Hytte_.zip"},
		{"Tak/Vegg", "prosjekt-Tak_Vegg.zip"},
		{"Bryggen æøå", "prosjekt-Bryggen_æøå.zip"},
		{"", "prosjekt-.zip"},
	}

	for _, tt := range tests {
		if got := Filename(tt.name); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
