package utils

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v2"
)

type yamlNamed struct {
	SocketPaths []string `yaml:"socketPaths"`
	Hidden      string   `yaml:"-"`
	Plain       string
}

func TestYAMLNameOfFieldInStruct(t *testing.T) {
	require.Equal(t, "socketPaths", YAMLNameOfFieldInStruct("SocketPaths", &yamlNamed{}))
	require.Equal(t, "plain", YAMLNameOfFieldInStruct("Plain", yamlNamed{}))
	require.Equal(t, "", YAMLNameOfFieldInStruct("Hidden", yamlNamed{}))
	require.Equal(t, "", YAMLNameOfFieldInStruct("Missing", yamlNamed{}))
}

func TestYAMLErrorWithContext(t *testing.T) {
	content := []byte("socketPaths:\n  - /a.sock\nbogus: 1\n")
	var out yamlNamed
	err := yaml.UnmarshalStrict(content, &out)
	require.Error(t, err)

	withContext := YAMLErrorWithContext(content, err)
	require.Contains(t, withContext.Error(), "3: bogus: 1")

	plain := errors.New("no line info")
	require.Equal(t, plain, YAMLErrorWithContext(content, plain))
}
