package labs

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"export-pilot/internal/entity"
)

//go:embed labs.yaml
var catalogYAML []byte

type catalogFile struct {
	Labs []entity.LabCandidate `yaml:"labs"`
}

// LoadCatalog parses the embedded lab reference list. The catalog is static
// configuration; callers must treat the returned slice as read-only.
func LoadCatalog() ([]entity.LabCandidate, error) {
	var f catalogFile
	if err := yaml.Unmarshal(catalogYAML, &f); err != nil {
		return nil, fmt.Errorf("unmarshal lab catalog: %w", err)
	}
	if len(f.Labs) == 0 {
		return nil, fmt.Errorf("lab catalog is empty")
	}
	return f.Labs, nil
}

// MustLoadCatalog is LoadCatalog for initialization paths.
func MustLoadCatalog() []entity.LabCandidate {
	labs, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return labs
}
