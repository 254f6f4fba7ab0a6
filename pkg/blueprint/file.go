package blueprint

import (
	"encoding/base64"

	"github.com/jodiecunningham/blueprint/pkg/errors"
)

// File content encodings.
const (
	EncodingRaw    = "raw"
	EncodingBase64 = "base64"
)

// Symlink mode strings. A symlink entry's Content holds the link target
// rather than file bytes.
const (
	ModeSymlink      = "120000"
	ModeSymlinkLoose = "120777"

	modeLength = 6
)

// FileEntry describes one placed file. Fields are declared in
// alphabetical order for canonical serialization.
type FileEntry struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	Group    string `json:"group"`
	Mode     string `json:"mode"`
	Owner    string `json:"owner"`
}

// IsSymlink reports whether the entry records a symbolic link.
func (f FileEntry) IsSymlink() bool {
	return f.Mode == ModeSymlink || f.Mode == ModeSymlinkLoose
}

// DecodedContent returns the entry's content bytes, decoding base64
// content first. Symlink entries return the link target bytes.
func (f FileEntry) DecodedContent() ([]byte, error) {
	if f.Encoding == EncodingBase64 {
		data, err := base64.StdEncoding.DecodeString(f.Content)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "base64 file content")
		}
		return data, nil
	}
	return []byte(f.Content), nil
}

// validate enforces the structural requirements on decode.
func (f FileEntry) validate(pathname string) error {
	if f.Owner == "" {
		return errors.New(errors.ErrCodeMalformedDocument, "file %s missing owner", pathname)
	}
	if f.Group == "" {
		return errors.New(errors.ErrCodeMalformedDocument, "file %s missing group", pathname)
	}
	if len(f.Mode) != modeLength {
		return errors.New(errors.ErrCodeMalformedDocument, "file %s has malformed mode %q", pathname, f.Mode)
	}
	for _, c := range f.Mode {
		if c < '0' || c > '7' {
			return errors.New(errors.ErrCodeMalformedDocument, "file %s has malformed mode %q", pathname, f.Mode)
		}
	}
	switch f.Encoding {
	case EncodingRaw, EncodingBase64:
	default:
		return errors.New(errors.ErrCodeMalformedDocument, "file %s has unknown encoding %q", pathname, f.Encoding)
	}
	return nil
}
