package ast

import (
	"io"

	"gopkg.in/yaml.v3"
)

const encodeIndent = 2

type encodedModule struct {
	Tag    string `yaml:"tag"`
	Module `yaml:",inline"`
}

// Encode writes module to w as YAML. The output is deterministic: fields
// keep their declaration order and map keys are sorted.
func Encode(w io.Writer, module *Module) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(encodeIndent)
	if err := enc.Encode(encodedModule{Tag: "module", Module: *module}); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}
