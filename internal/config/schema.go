package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "mem://schemas/config.schema.json"

//go:embed config.schema.json
var schemaJSON []byte

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("decode config schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("register config schema: %w", err)
	}

	s, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile config schema: %w", err)
	}

	return s, nil
})

// Schema returns the raw JSON schema configuration files are checked against.
func Schema() []byte {
	return schemaJSON
}

// validateDocument checks a decoded document against the schema. YAML and
// TOML values are normalized through JSON first so that every format is
// validated on the same value model.
func validateDocument(doc any) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("normalize config: %w", err)
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("normalize config: %w", err)
	}

	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}
