package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/svgaudit-config.schema.json
var configSchema []byte

// ValidateConfigFile validates the config file at path against the embedded
// schema. The format is taken from the extension; anything that is not
// .json or .toml is read as YAML.
func ValidateConfigFile(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from viper's config search
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := ValidateConfig(data, filepath.Ext(path)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ValidateConfig validates configuration bytes in the given format.
func ValidateConfig(data []byte, ext string) error {
	var doc interface{}
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse config as JSON: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse config as TOML: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse config as YAML: %w", err)
		}
	}
	if doc == nil {
		// an empty file is valid and leaves every default in place
		return nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(configSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
