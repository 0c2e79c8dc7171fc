package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/joshnies/bygg/models"
	"golang.org/x/exp/maps"
)

// Returned when no project has the requested ID.
var ErrNotFound = errors.New("project not found")

// Read access to project records.
type Store interface {
	// Get a single project by ID. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (models.Project, error)
	// List all projects, ordered by ID.
	List(ctx context.Context) ([]models.Project, error)
}

// Project store backed by the back-office's JSON file (an array of projects).
// The file is read on every call so edits made by the back-office are picked up without a restart.
type JSONStore struct {
	Path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{Path: path}
}

func (s *JSONStore) Get(ctx context.Context, id string) (models.Project, error) {
	byID, err := s.load(ctx)
	if err != nil {
		return models.Project{}, err
	}

	project, ok := byID[id]
	if !ok {
		return models.Project{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	return project, nil
}

func (s *JSONStore) List(ctx context.Context) ([]models.Project, error) {
	byID, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	ids := maps.Keys(byID)
	sort.Strings(ids)

	res := make([]models.Project, 0, len(ids))
	for _, id := range ids {
		res = append(res, byID[id])
	}

	return res, nil
}

// Read and decode the projects file.
// A missing file is treated as an empty store. Duplicate IDs resolve to the last record.
func (s *JSONStore) load(ctx context.Context) (map[string]models.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Open file
	f, err := os.Open(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]models.Project{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open projects file: %w", err)
	}
	defer f.Close()

	// Decode JSON
	var list []models.Project
	if err := json.NewDecoder(f).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode projects file %s: %w", s.Path, err)
	}

	byID := make(map[string]models.Project, len(list))
	for _, p := range list {
		byID[p.ID] = p
	}

	return byID, nil
}
