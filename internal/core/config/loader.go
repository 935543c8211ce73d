package config

import (
	"io/ioutil"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/signalfx/haproxy-monitor/internal/utils"
)

// LoadFile reads a YAML config file.  Unknown keys are an error.  The result
// still needs Finalize to be called on it.
func LoadFile(path string) (*Config, error) {
	content, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Err: errors.Wrapf(err, "could not read config file %s", path)}
	}
	return loadYAML(content)
}

func loadYAML(content []byte) (*Config, error) {
	conf := &Config{}
	if err := yaml.UnmarshalStrict(content, conf); err != nil {
		return nil, &ConfigError{Err: utils.YAMLErrorWithContext(content, err)}
	}
	return conf, nil
}
