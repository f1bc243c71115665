package am

import (
	"encoding/json"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/teranos/psam/errors"
)

// Render marshals the effective settings of v as toml, json or yaml.
func Render(v *viper.Viper, format string) ([]byte, error) {
	settings := v.AllSettings()
	switch format {
	case "", "toml":
		return toml.Marshal(settings)
	case "json":
		return json.MarshalIndent(settings, "", "  ")
	case "yaml":
		return yaml.Marshal(settings)
	default:
		return nil, errors.WithHint(
			errors.Newf("unsupported format %q", format),
			"use toml, json or yaml")
	}
}
