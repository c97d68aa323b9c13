package rubric

import (
	"fmt"
	"os"
	"strings"

	"github.com/spboyer/callqa/internal/validation"
	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML shape of a rubric.
type File struct {
	Name     string      `yaml:"name,omitempty"`
	Criteria []Criterion `yaml:"criteria"`
	Fillers  []string    `yaml:"fillers,omitempty"`
}

// Load reads, schema-checks and validates a rubric YAML file.
func Load(path string) (*Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rubric %q: %w", path, err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rubric %q: %w", path, err)
	}
	return r, nil
}

// Parse builds a rubric from YAML bytes.
func Parse(data []byte) (*Rubric, error) {
	if errs := validation.ValidateRubricBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("schema validation failed:\n  %s", strings.Join(errs, "\n  "))
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing rubric: %w", err)
	}
	return New(f.Name, f.Criteria, f.Fillers)
}

// Marshal renders r in the YAML form Parse accepts.
func Marshal(r *Rubric) ([]byte, error) {
	return yaml.Marshal(File{
		Name:     r.Name(),
		Criteria: r.Criteria(),
		Fillers:  r.Fillers(),
	})
}

// LoadOrDefault loads the rubric at path, or returns Default when path is empty.
func LoadOrDefault(path string) (*Rubric, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return Load(path)
}
