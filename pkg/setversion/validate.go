package setversion

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/MacroPower/cordova-set-version/pkg/cdverrors"
	"github.com/MacroPower/cordova-set-version/pkg/paths"
)

// ArgumentTypeError reports an argument of the wrong type or shape. Its
// message names only the offending argument.
type ArgumentTypeError struct {
	// Arg is the argument name, e.g. "configPath".
	Arg string
	// Want describes the accepted values, e.g. "string".
	Want string
}

func (e *ArgumentTypeError) Error() string {
	return fmt.Sprintf("%s must be a %s", e.Arg, e.Want)
}

func (e *ArgumentTypeError) Unwrap() error {
	return cdverrors.ErrInvalidArguments
}

// Args are the typed inputs of a version update.
type Args struct {
	// ConfigPath is the XML config to update. Empty means
	// [paths.DefaultConfigName].
	ConfigPath string
	// Version to set. Empty means the version is read from the manifest.
	Version string
	// BuildNumber to set on the build-number attributes. Empty leaves them
	// untouched.
	BuildNumber string
}

// Validate converts untyped inputs, such as values decoded from a settings
// file, into [Args]. A nil configPath selects the default config, a nil
// version reads the version from the manifest, and a nil buildNumber leaves
// build numbers untouched. The first invalid argument is reported as an
// [*ArgumentTypeError].
func Validate(configPath, version, buildNumber any) (Args, error) {
	var args Args

	switch v := configPath.(type) {
	case nil:
		args.ConfigPath = paths.DefaultConfigName
	case string:
		args.ConfigPath = paths.ResolveConfig(v)
	default:
		return Args{}, &ArgumentTypeError{Arg: "configPath", Want: "string"}
	}

	switch v := version.(type) {
	case nil:
	case string:
		if v == "" {
			return Args{}, &ArgumentTypeError{Arg: "version", Want: "non-empty string"}
		}

		args.Version = v
	default:
		return Args{}, &ArgumentTypeError{Arg: "version", Want: "string"}
	}

	bn, err := buildNumberString(buildNumber)
	if err != nil {
		return Args{}, err
	}

	args.BuildNumber = bn

	return args, nil
}

// validate checks typed [Args] and fills in defaults.
func (a Args) validate() (Args, error) {
	if a.BuildNumber != "" && !isDigits(a.BuildNumber) {
		return Args{}, &ArgumentTypeError{Arg: "buildNumber", Want: "non-negative integer"}
	}

	a.ConfigPath = paths.ResolveConfig(a.ConfigPath)

	return a, nil
}

func buildNumberString(v any) (string, error) {
	errBuildNumber := &ArgumentTypeError{Arg: "buildNumber", Want: "non-negative integer"}

	if v == nil {
		return "", nil
	}

	if s, ok := v.(string); ok {
		if !isDigits(s) {
			return "", errBuildNumber
		}

		return s, nil
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() { //nolint:exhaustive // Everything else is rejected.
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Int() < 0 {
			return "", errBuildNumber
		}

		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		// Decoders of untyped documents produce floats for plain numbers.
		f := rv.Float()
		if f < 0 || f != math.Trunc(f) || f >= math.MaxInt64 {
			return "", errBuildNumber
		}

		return strconv.FormatInt(int64(f), 10), nil
	default:
		return "", errBuildNumber
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
