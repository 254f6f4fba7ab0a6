package blueprint

import (
	"encoding/json"

	"github.com/jodiecunningham/blueprint/pkg/errors"
)

// Encode serializes a document to its canonical form: two-space
// indentation, keys in ascending order, a nil arch omitted entirely,
// and empty files/packages/sources collections omitted entirely. Two
// documents with identical effective content always encode to
// byte-identical output.
func Encode(b *Blueprint) ([]byte, error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode blueprint")
	}
	return data, nil
}

// Decode parses a canonical document. All four optional top-level keys
// are absent-safe: missing collections decode to empty ones and a
// missing arch stays nil, so decode(encode(d)) equals d and a second
// encode reproduces the first byte for byte.
func Decode(data []byte) (*Blueprint, error) {
	var b Blueprint
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "parse blueprint document")
	}
	for pathname, entry := range b.Files {
		if err := entry.validate(pathname); err != nil {
			return nil, err
		}
	}
	b.normalize()
	return &b, nil
}
