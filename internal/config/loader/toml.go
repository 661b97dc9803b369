package loader

import (
	"errors"

	"github.com/pelletier/go-toml/v2"
)

// TOML decodes TOML documents. Unknown keys are rejected.
type TOML struct{}

// Name returns "toml".
func (TOML) Name() string { return "toml" }

// Unmarshal decodes data into v. A syntax error is returned as a
// *toml.DecodeError, which carries its position.
func (TOML) Unmarshal(data []byte, v any) error {
	dec := toml.NewDecoder(bytesReader(data))
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	var strict *toml.StrictMissingError
	if errors.As(err, &strict) {
		return errors.New(strict.String())
	}
	return err
}
