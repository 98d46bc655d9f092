package openapi

import (
	"errors"

	"github.com/reoring/formskema/dsl"
	"github.com/reoring/formskema/source"
)

// ImportYAML compiles the first document of a YAML schema file.
func ImportYAML(data []byte, opts Options) (dsl.Node, Diag, error) {
	v, err := source.YAML(data)
	if err != nil {
		return nil, &simpleDiag{}, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &simpleDiag{}, errors.New("openapi: YAML root must be a mapping")
	}
	return Import(m, opts)
}

// ImportYAMLForCRDKind scans a multi-document YAML (e.g., CRD bundle) and imports
// the first CustomResourceDefinition matching the given spec.names.kind.
func ImportYAMLForCRDKind(data []byte, kind string, opts Options) (dsl.Node, Diag, error) {
	docs, err := source.YAMLDocuments(data)
	if err != nil {
		return nil, &simpleDiag{}, err
	}
	for _, doc := range docs {
		m, _ := doc.(map[string]any)
		if k, _ := m["kind"].(string); k != "CustomResourceDefinition" {
			continue
		}
		spec, _ := m["spec"].(map[string]any)
		names, _ := spec["names"].(map[string]any)
		if k2, _ := names["kind"].(string); k2 == kind {
			return Import(m, opts)
		}
	}
	return nil, &simpleDiag{}, errors.New("openapi: CRD kind not found in YAML bundle")
}
