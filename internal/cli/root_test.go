package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MacroPower/cordova-set-version/internal/cli"
	"github.com/MacroPower/cordova-set-version/pkg/cdverrors"
	"github.com/MacroPower/cordova-set-version/pkg/projectconfig"
)

var testDataDir string

func init() {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	testDataDir = filepath.Join(dir, "testdata")
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

// newProject copies the testdata project into a new directory.
func newProject(t *testing.T, withManifest bool) string {
	t.Helper()

	dir := t.TempDir()

	files := []string{"config.xml"}
	if withManifest {
		files = append(files, "package.json")
	}

	for _, name := range files {
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, name),
			[]byte(readFile(t, filepath.Join(testDataDir, name))),
			0o600,
		))
	}

	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	tc := cli.NewRootCmd("test", "", "")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	tc.SetArgs(args)
	tc.SetOut(stdout)
	tc.SetErr(stderr)

	err := tc.Execute()

	return stdout.String(), stderr.String(), err
}

func TestSetCmd(t *testing.T) {
	t.Parallel()

	dir := newProject(t, true)
	configPath := filepath.Join(dir, "config.xml")

	stdout, stderr, err := execute(t, "set", "2.4.9", "-c", configPath, "--build-number", "42")
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "✓")
	assert.Contains(t, stdout, "0.0.1 -> 2.4.9 (build 42)")
	assert.Contains(t, stdout, "package.json updated")
	assert.NotContains(t, stdout, "\x1b[", "output to a non-terminal must not be styled")

	assert.Equal(t, readFile(t, filepath.Join(testDataDir, "expected.build.xml")), readFile(t, configPath))
	assert.Contains(t, readFile(t, filepath.Join(dir, "package.json")), `"version": "2.4.9",`)
}

func TestSetCmdFromManifest(t *testing.T) {
	t.Parallel()

	dir := newProject(t, true)
	configPath := filepath.Join(dir, "config.xml")

	stdout, _, err := execute(t, "set", "-c", configPath, "-q")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, readFile(t, configPath), `version="1.2.3"`)
}

func TestSetCmdMultipleConfigs(t *testing.T) {
	t.Parallel()

	a := filepath.Join(newProject(t, false), "config.xml")
	b := filepath.Join(newProject(t, false), "config.xml")

	stdout, _, err := execute(t, "set", "3.0.0", "-c", a, "-c", b)
	require.NoError(t, err)
	assert.Contains(t, stdout, a)
	assert.Contains(t, stdout, b)

	for _, path := range []string{a, b} {
		assert.Contains(t, readFile(t, path), `version="3.0.0"`)
	}
}

func TestSetCmdErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		args    func(dir string) []string
		wantErr error
		wantMsg string
	}{
		"missing config": {
			args: func(dir string) []string {
				return []string{"set", "1.0.0", "-c", filepath.Join(dir, "missing.xml")}
			},
			wantErr: os.ErrNotExist,
			wantMsg: "no such file or directory",
		},
		"invalid build number": {
			args: func(dir string) []string {
				return []string{"set", "1.0.0", "-c", filepath.Join(dir, "config.xml"), "-b", "x1"}
			},
			wantErr: cdverrors.ErrInvalidArguments,
			wantMsg: "buildNumber must be a non-negative integer",
		},
		"empty version": {
			args: func(dir string) []string {
				return []string{"set", "", "-c", filepath.Join(dir, "config.xml")}
			},
			wantErr: cli.ErrInvalidArgument,
			wantMsg: "version must be a non-empty string",
		},
		"no version without manifest": {
			args: func(dir string) []string {
				return []string{"set", "-c", filepath.Join(dir, "config.xml"), "--no-manifest"}
			},
			wantErr: cdverrors.ErrInvalidArguments,
			wantMsg: "version must be a",
		},
		"missing settings file": {
			args: func(dir string) []string {
				return []string{"set", "1.0.0", "--settings", filepath.Join(dir, "missing.yaml")}
			},
			wantErr: cdverrors.ErrReadFile,
		},
		"unknown log format": {
			args: func(dir string) []string {
				return []string{"set", "1.0.0", "-c", filepath.Join(dir, "config.xml"), "--log_format", "xml"}
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := newProject(t, false)
			original := readFile(t, filepath.Join(dir, "config.xml"))

			_, _, err := execute(t, tc.args(dir)...)
			require.Error(t, err)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			}

			if tc.wantMsg != "" {
				assert.Contains(t, err.Error(), tc.wantMsg)
			}

			assert.Equal(t, original, readFile(t, filepath.Join(dir, "config.xml")))
		})
	}
}

func TestSetCmdSettings(t *testing.T) {
	t.Parallel()

	dir := newProject(t, true)
	settingsPath := filepath.Join(dir, projectconfig.DefaultFileName)
	require.NoError(t, os.WriteFile(settingsPath, []byte("config: config.xml\nversion: 9.9.9\nskipManifest: true\n"), 0o600))

	_, _, err := execute(t, "set", "--settings", settingsPath)
	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(dir, "config.xml")), `version="9.9.9"`)
	assert.Equal(t, readFile(t, filepath.Join(testDataDir, "package.json")), readFile(t, filepath.Join(dir, "package.json")))

	// Flags take precedence.
	_, _, err = execute(t, "set", "10.0.0", "--settings", settingsPath)
	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(dir, "config.xml")), `version="10.0.0"`)
}

//nolint:paralleltest // Changes the working directory.
func TestSetCmdFind(t *testing.T) {
	dir := newProject(t, false)
	sub := filepath.Join(dir, "www", "js")
	require.NoError(t, os.MkdirAll(sub, 0o750))

	t.Chdir(sub)

	_, _, err := execute(t, "set", "4.0.0", "--find")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(dir, "config.xml")), `version="4.0.0"`)
}

func TestShowCmd(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(newProject(t, false), "config.xml")

	stdout, stderr, err := execute(t, "show", "-c", configPath)
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Equal(t, configPath+"\n"+
		"  version: 0.0.1\n"+
		"  android-versionCode: 3\n"+
		"  ios-CFBundleVersion: 3\n", stdout)

	_, _, err = execute(t, "show", "-c", configPath+".missing")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSchemaCmd(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &schema))
	assert.Equal(t, projectconfig.SchemaID, schema["$id"])
}
