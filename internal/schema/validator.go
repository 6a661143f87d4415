package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.yaml
var configSchemaYAML []byte

const configSchemaURI = "wheelhouse://config.schema.json"

// Validator handles JSON schema validation of build configuration documents
type Validator struct {
	configSchema *jsonschema.Schema
}

// NewValidator compiles the embedded configuration schema
func NewValidator() (*Validator, error) {
	configSchema, err := compileYAML(configSchemaURI, configSchemaYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to load config schema: %w", err)
	}
	return &Validator{configSchema: configSchema}, nil
}

// ValidateConfig validates a configuration document parsed into a YAML node
func (v *Validator) ValidateConfig(doc *yaml.Node) error {
	if v.configSchema == nil {
		return fmt.Errorf("config schema not loaded")
	}
	return v.configSchema.Validate(ToJSONValue(doc))
}

// ToJSONValue converts a YAML node into the generic value tree the schema
// compiler expects. Mapping keys keep their literal text, so `12.1:` stays
// "12.1" rather than becoming a float key.
func ToJSONValue(n *yaml.Node) interface{} {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return ToJSONValue(n.Content[0])
	case yaml.AliasNode:
		return ToJSONValue(n.Alias)
	case yaml.MappingNode:
		obj := make(map[string]interface{}, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			obj[n.Content[i].Value] = ToJSONValue(n.Content[i+1])
		}
		return obj
	case yaml.SequenceNode:
		arr := make([]interface{}, 0, len(n.Content))
		for _, item := range n.Content {
			arr = append(arr, ToJSONValue(item))
		}
		return arr
	}

	switch n.ShortTag() {
	case "!!null":
		return nil
	case "!!bool":
		return strings.EqualFold(n.Value, "true")
	case "!!int", "!!float":
		if _, err := json.Number(n.Value).Float64(); err == nil {
			return json.Number(n.Value)
		}
		return n.Value
	default:
		return n.Value
	}
}

// compileYAML compiles a schema document written in YAML
func compileYAML(uri string, data []byte) (*jsonschema.Schema, error) {
	var schemaData interface{}
	if err := yaml.Unmarshal(data, &schemaData); err != nil {
		return nil, fmt.Errorf("failed to parse schema file: %w", err)
	}

	// Convert to JSON for schema compiler
	jsonData, err := json.Marshal(schemaData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(uri, strings.NewReader(string(jsonData))); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := compiler.Compile(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return schema, nil
}
