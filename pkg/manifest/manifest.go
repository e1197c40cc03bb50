package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/buger/jsonparser"

	"github.com/MacroPower/cordova-set-version/pkg/cdverrors"
)

// VersionKey is the top-level manifest key holding the version.
const VersionKey = "version"

// Version returns the top-level version string of the manifest.
func Version(data []byte) (string, error) {
	if err := checkObject(data); err != nil {
		return "", err
	}

	v, dt, _, err := jsonparser.Get(data, VersionKey)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return "", fmt.Errorf("%w: missing %q field", cdverrors.ErrManifestVersion, VersionKey)
	}

	if err != nil {
		return "", fmt.Errorf("%w: %w", cdverrors.ErrMalformedManifest, err)
	}

	if dt != jsonparser.String {
		return "", fmt.Errorf("%w: %q is a %s, expected a string", cdverrors.ErrManifestVersion, VersionKey, dt)
	}

	s, err := jsonparser.ParseString(v)
	if err != nil {
		return "", fmt.Errorf("%w: %w", cdverrors.ErrMalformedManifest, err)
	}

	if s == "" {
		return "", fmt.Errorf("%w: %q is empty", cdverrors.ErrManifestVersion, VersionKey)
	}

	return s, nil
}

// SetVersion returns a copy of data with the top-level version set. An
// existing value is replaced in place; a missing key is added as the last
// member of the object, formatted like the member before it.
func SetVersion(data []byte, version string) ([]byte, error) {
	if err := checkObject(data); err != nil {
		return nil, err
	}

	val, err := json.Marshal(version)
	if err != nil {
		return nil, fmt.Errorf("encode version: %w", err)
	}

	_, _, _, err = jsonparser.Get(data, VersionKey)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return appendMember(data, VersionKey, val), nil
	}

	// jsonparser.Set may reuse the backing array of its input.
	out, err := jsonparser.Set(bytes.Clone(data), val, VersionKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cdverrors.ErrMalformedManifest, err)
	}

	return out, nil
}

func checkObject(data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("%w: invalid JSON", cdverrors.ErrMalformedManifest)
	}

	_, dt, _, err := jsonparser.Get(data)
	if err != nil {
		return fmt.Errorf("%w: %w", cdverrors.ErrMalformedManifest, err)
	}

	if dt != jsonparser.Object {
		return fmt.Errorf("%w: top level is a %s, expected an object", cdverrors.ErrMalformedManifest, dt)
	}

	return nil
}

// appendMember inserts key and the encoded val before the closing brace of
// the top-level object in data, which must be valid. Members on their own
// lines get the indentation of the first member.
func appendMember(data []byte, key string, val []byte) []byte {
	const space = " \t\r\n"

	open := bytes.IndexByte(data, '{')
	end := bytes.LastIndexByte(data, '}')
	body := data[open+1 : end]

	sep := ":"
	if bytes.Contains(body, []byte(`": `)) || len(bytes.Trim(body, space)) == 0 {
		sep = ": "
	}

	member := strconv.Quote(key) + sep + string(val)

	var (
		at   int
		text string
	)

	lead := body[:len(body)-len(bytes.TrimLeft(body, space))]

	switch {
	case len(bytes.Trim(body, space)) == 0:
		at, text = open+1, member
	case bytes.Contains(lead, []byte("\n")):
		indent := lead[bytes.LastIndexByte(lead, '\n')+1:]
		at = open + 1 + len(bytes.TrimRight(body, space))
		text = ",\n" + string(indent) + member
	default:
		at = open + 1 + len(bytes.TrimRight(body, space))
		text = ","
		if sep == ": " {
			text = ", "
		}

		text += member
	}

	out := make([]byte, 0, len(data)+len(text))
	out = append(out, data[:at]...)
	out = append(out, text...)
	out = append(out, data[at:]...)

	return out
}
