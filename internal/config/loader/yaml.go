package loader

import (
	"bytes"
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

// YAML decodes YAML documents. Unknown keys are rejected.
type YAML struct{}

// Name returns "yaml".
func (YAML) Name() string { return "yaml" }

// Unmarshal decodes data into v. An empty document leaves v unchanged.
func (YAML) Unmarshal(data []byte, v any) error {
	dec := yaml.NewDecoder(bytesReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func bytesReader(data []byte) *bytes.Reader {
	return bytes.NewReader(data)
}
