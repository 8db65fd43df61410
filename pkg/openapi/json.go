package openapi

import (
	"encoding/json"
	"io"
)

// MarshalJSON serializes the spec to indented JSON bytes.
func MarshalJSON(spec *Spec) ([]byte, error) {
	return json.MarshalIndent(spec, "", "  ")
}

// Write serializes the spec to indented JSON on w.
func Write(w io.Writer, spec *Spec) error {
	data, err := MarshalJSON(spec)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
