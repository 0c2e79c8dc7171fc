package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/joshnies/bygg/config"
)

func TestParseTarget(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		target string
		want   Target
	}{
		{"", Target{Scheme: SchemeLocal, Key: "prosjekt-Hus_A.zip"}},
		{"ut.zip", Target{Scheme: SchemeLocal, Key: "ut.zip"}},
		{dir, Target{Scheme: SchemeLocal, Key: filepath.Join(dir, "prosjekt-Hus_A.zip")}},
		{"eksport/", Target{Scheme: SchemeLocal, Key: filepath.Join("eksport", "prosjekt-Hus_A.zip")}},
		{"s3://arkiv", Target{Scheme: SchemeS3, Bucket: "arkiv", Key: "prosjekt-Hus_A.zip"}},
		{"s3://arkiv/2024/", Target{Scheme: SchemeS3, Bucket: "arkiv", Key: "2024/prosjekt-Hus_A.zip"}},
		{"s3://arkiv/2024/hus.zip", Target{Scheme: SchemeS3, Bucket: "arkiv", Key: "2024/hus.zip"}},
		{"storj://arkiv/hus.zip", Target{Scheme: SchemeStorj, Bucket: "arkiv", Key: "hus.zip"}},
	}

	for _, tt := range tests {
		got, err := ParseTarget(tt.target, "prosjekt-Hus_A.zip")
		if err != nil {
			t.Errorf("ParseTarget(%q): %v", tt.target, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTarget(%q) = %+v, want %+v", tt.target, got, tt.want)
		}
	}
}

func TestParseTargetErrors(t *testing.T) {
	for _, target := range []string{"s3://", "storj:///key", "ftp://host/file.zip"} {
		if _, err := ParseTarget(target, "x.zip"); err == nil {
			t.Errorf("ParseTarget(%q): expected error", target)
		}
	}
}

func TestLocalPut(t *testing.T) {
	key := filepath.Join(t.TempDir(), "ut", "prosjekt-Hus_A.zip")

	if err := (Local{}).Put(context.Background(), key, strings.NewReader("PK")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	b, err := os.ReadFile(key)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, []byte("PK")) {
		t.Fatalf("content = %q", b)
	}
}

func TestLocalPutFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	key := filepath.Join(dir, "prosjekt-Hus_A.zip")

	err := (Local{}).Put(context.Background(), key, iotest.ErrReader(errors.New("stream broke")))
	if err == nil {
		t.Fatal("expected error")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files left behind, found %d", len(entries))
	}
}

func TestNewDestinationValidation(t *testing.T) {
	ctx := context.Background()

	if _, err := NewDestination(ctx, Target{Scheme: SchemeStorj, Bucket: "arkiv"}, config.Default()); err == nil {
		t.Error("expected error without a Storj access grant")
	}
	if _, err := NewDestination(ctx, Target{Scheme: "ftp"}, config.Default()); err == nil {
		t.Error("expected error for unknown scheme")
	}

	d, err := NewDestination(ctx, Target{Scheme: SchemeLocal, Key: "x.zip"}, config.Default())
	if err != nil {
		t.Fatal(err)
	}
	if d.Describe("x.zip") != "x.zip" {
		t.Errorf("describe = %q", d.Describe("x.zip"))
	}
}
