package config

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// configSchema constrains the shape of the config file so that typos
// (misspelled keys, wrong value types) are reported before the document is
// silently merged over the defaults.
const configSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "providers": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "additionalProperties": false,
        "properties": {
          "api_key_env":  {"type": "string"},
          "base_url_env": {"type": "string"},
          "base_url":     {"type": "string"}
        }
      }
    }
  }
}`

// validateSchema checks a raw YAML config document against configSchema.
func validateSchema(data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	// Round-trip through JSON so the document uses the value types the
	// schema validator expects.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("normalizing config: %w", err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("normalizing config: %w", err)
	}

	var schemaDoc interface{}
	if err := json.Unmarshal([]byte(configSchema), &schemaDoc); err != nil {
		return fmt.Errorf("invalid config schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("config.json", schemaDoc); err != nil {
		return fmt.Errorf("invalid config schema: %w", err)
	}
	sch, err := c.Compile("config.json")
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("config does not match schema: %w", err)
	}
	return nil
}
