package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jwebster45206/mystery-engine/pkg/casefile"
)

// Case operations (filesystem-backed)

func (r *RedisStorage) casesDir() string {
	return filepath.Join(r.dataDir, "cases")
}

func (r *RedisStorage) ListCases(ctx context.Context) (map[string]string, error) {
	cases := make(map[string]string)

	err := filepath.WalkDir(r.casesDir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		file, err := os.ReadFile(path)
		if err != nil {
			r.logger.Warn("Failed to read case file", "path", path, "error", err)
			return nil
		}

		var c casefile.Case
		if err := json.Unmarshal(file, &c); err != nil {
			r.logger.Warn("Failed to unmarshal case file", "path", path, "error", err)
			return nil
		}

		cases[c.ID] = c.Title
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to walk cases directory", "error", err)
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}

	return cases, nil
}

func (r *RedisStorage) GetCase(ctx context.Context, id string) (*casefile.Case, error) {
	// Case IDs come from callers; keep them from escaping the data dir.
	if id == "" || strings.ContainsAny(id, "/\\.") {
		return nil, fmt.Errorf("invalid case id: %q", id)
	}

	path := filepath.Join(r.casesDir(), id+".json")
	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.Warn("Case file not found", "path", path)
			return nil, fmt.Errorf("case not found: %s", id)
		}
		return nil, fmt.Errorf("failed to read case file: %w", err)
	}

	var c casefile.Case
	if err := json.Unmarshal(file, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal case: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid case %s: %w", id, err)
	}

	return &c, nil
}

func (r *RedisStorage) GetActiveCase(ctx context.Context) (*casefile.Case, error) {
	var active *casefile.Case

	err := filepath.WalkDir(r.casesDir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".json" || active != nil {
			return nil
		}

		file, err := os.ReadFile(path)
		if err != nil {
			return nil
		}

		var c casefile.Case
		if err := json.Unmarshal(file, &c); err != nil {
			return nil
		}
		if c.Active {
			active = &c
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk cases directory: %w", err)
	}
	if active == nil {
		return nil, fmt.Errorf("no active case configured")
	}
	if err := active.Validate(); err != nil {
		return nil, fmt.Errorf("invalid active case: %w", err)
	}

	return active, nil
}
