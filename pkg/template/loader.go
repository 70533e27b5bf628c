package template

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads an authored template definition from a YAML (or JSON, which
// YAML subsumes) file and validates it. A structural problem aborts the run.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template definition: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, &DefinitionError{Reason: fmt.Sprintf("cannot decode definition: %v", err)}
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}
