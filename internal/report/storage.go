package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Storage persists reports somewhere an operator can look at them later.
type Storage interface {
	Save(r Report) ([]string, error)
}

// LocalStorage writes each report twice under basePath: as JSON for tools
// and as YAML for people.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Save returns the paths it wrote. Files are named after GeneratedAt.
func (ls *LocalStorage) Save(r Report) ([]string, error) {
	name := r.GeneratedAt.UTC().Format("20060102T150405.000Z")

	jsonData, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report as json: %w", err)
	}
	yamlData, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report as yaml: %w", err)
	}

	var paths []string
	for ext, data := range map[string][]byte{".json": jsonData, ".yaml": yamlData} {
		fullPath := filepath.Join(ls.basePath, name+ext)
		if err := os.WriteFile(fullPath, data, 0644); err != nil {
			return paths, fmt.Errorf("failed to write report: %w", err)
		}
		paths = append(paths, fullPath)
	}
	return paths, nil
}
