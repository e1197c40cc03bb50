package cdverrors

import (
	"errors"
	"fmt"
)

var (
	// ErrRead indicates an error occurred while reading.
	ErrRead = errors.New("read")

	// ErrReadFile indicates an error occurred while reading a file.
	ErrReadFile = fmt.Errorf("file: %w", ErrRead)

	// ErrWrite indicates an error occurred while writing.
	ErrWrite = errors.New("write")

	// ErrWriteFile indicates an error occurred while writing a file.
	ErrWriteFile = fmt.Errorf("file: %w", ErrWrite)

	// ErrMalformedConfig indicates the XML config could not be parsed, or
	// does not have the expected root element.
	ErrMalformedConfig = errors.New("malformed config")

	// ErrMalformedManifest indicates the JSON manifest is not a valid object.
	ErrMalformedManifest = errors.New("malformed manifest")

	// ErrManifestVersion indicates the manifest has no usable version field.
	ErrManifestVersion = errors.New("manifest version")

	// ErrFileNotFound indicates a file wasn't found in the searched paths.
	ErrFileNotFound = errors.New("file not found")

	// ErrResolvedOutsideRoot indicates a path resolved outside the search root.
	ErrResolvedOutsideRoot = errors.New("resolved outside root")

	// ErrInvalidArguments indicates invalid arguments were provided.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrParseSettings indicates the settings file could not be decoded.
	ErrParseSettings = errors.New("parse settings")
)
