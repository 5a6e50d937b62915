package server

import (
	"os"

	"gopkg.in/yaml.v3"
)

// LoadServerConfig reads a weft server config YAML from filepath.
//
// Missing required fields panic in TrySeal.
func LoadServerConfig(filepath string) (*ServerConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

// Unmarshal parses config YAML and seals it into a ServerConfig.
func Unmarshal(conf []byte) (*ServerConfig, error) {
	var raw *ServerConfigMarshall
	if err := yaml.Unmarshal(conf, &raw); err != nil {
		return nil, err
	}
	return TrySeal(raw), nil
}
