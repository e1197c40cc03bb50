package projectconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/MacroPower/cordova-set-version/pkg/cdverrors"
	"github.com/MacroPower/cordova-set-version/pkg/setversion"
)

// DefaultFileName is the settings file looked up in the working directory.
const DefaultFileName = ".cordova-set-version.yaml"

// Settings are the contents of a settings file. Relative paths are resolved
// against the directory of the file.
type Settings struct {
	// Config is the path of the XML config file.
	Config any `json:"config,omitempty" yaml:"config,omitempty" jsonschema:"type=string"`
	// Version is the version to set. When unset, the version is read from the
	// manifest.
	Version any `json:"version,omitempty" yaml:"version,omitempty" jsonschema:"type=string"`
	// BuildNumber is written to every build-number attribute when set.
	BuildNumber any `json:"buildNumber,omitempty" yaml:"buildNumber,omitempty" jsonschema:"oneof_type=integer;string"`
	// Manifest is the path of the JSON manifest. Defaults to the package.json
	// next to the config file.
	Manifest string `json:"manifest,omitempty" yaml:"manifest,omitempty"`
	// RootElement is the name of the config root element.
	RootElement string `json:"rootElement,omitempty" yaml:"rootElement,omitempty" jsonschema:"default=widget"`
	// BuildNumberAttributes are the root attributes that hold the build number.
	BuildNumberAttributes []string `json:"buildNumberAttributes,omitempty" yaml:"buildNumberAttributes,omitempty"`
	// SkipManifest disables reading and updating the manifest.
	SkipManifest bool `json:"skipManifest,omitempty" yaml:"skipManifest,omitempty"`

	dir string
}

// Load reads the settings file at path. When path is empty, [DefaultFileName]
// is used if it exists and empty [Settings] are returned otherwise. A path
// that was given explicitly must exist.
func Load(path string) (*Settings, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path) //nolint:gosec // User-provided settings path.
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &Settings{}, nil
		}

		return nil, fmt.Errorf("%w: %w", cdverrors.ErrReadFile, err)
	}

	s, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s.dir = filepath.Dir(path)

	return s, nil
}

// Parse decodes settings from r. Unknown keys are rejected. Relative paths
// are kept as they are.
func Parse(r io.Reader) (*Settings, error) {
	s := &Settings{}

	d := yaml.NewDecoder(r)
	d.KnownFields(true)

	err := d.Decode(s)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", cdverrors.ErrParseSettings, err)
	}

	return s, nil
}

// Args validates the untyped settings values with [setversion.Validate].
// Unset values are returned as their zero value.
func (s *Settings) Args() (setversion.Args, error) {
	config := s.Config
	if c, ok := config.(string); ok && c != "" {
		config = s.resolve(c)
	}

	args, err := setversion.Validate(config, s.Version, s.BuildNumber)
	if err != nil {
		return setversion.Args{}, fmt.Errorf("%w: %w", cdverrors.ErrParseSettings, err)
	}

	if config == nil || config == "" {
		args.ConfigPath = ""
	}

	return args, nil
}

// Options returns the [setversion.Option]s selected by the settings.
func (s *Settings) Options() []setversion.Option {
	var opts []setversion.Option

	if s.Manifest != "" {
		opts = append(opts, setversion.WithManifestPath(s.resolve(s.Manifest)))
	}

	if s.SkipManifest {
		opts = append(opts, setversion.WithoutManifest())
	}

	if s.RootElement != "" {
		opts = append(opts, setversion.WithRootElement(s.RootElement))
	}

	if len(s.BuildNumberAttributes) > 0 {
		opts = append(opts, setversion.WithBuildNumberAttrs(s.BuildNumberAttributes...))
	}

	return opts
}

func (s *Settings) resolve(path string) string {
	if s.dir == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(s.dir, path)
}
