package paths_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MacroPower/cordova-set-version/pkg/cdverrors"
	"github.com/MacroPower/cordova-set-version/pkg/paths"
)

func TestResolveConfig(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "config.xml", paths.ResolveConfig(""))
	assert.Equal(t, "app/config.xml", paths.ResolveConfig("app/config.xml"))
}

func TestManifestFor(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  string
	}{
		"default": {
			input: "",
			want:  "package.json",
		},
		"relative": {
			input: "app/config.xml",
			want:  filepath.Join("app", "package.json"),
		},
		"absolute": {
			input: "/srv/app/res/config.provided.xml",
			want:  "/srv/app/res/package.json",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, paths.ManifestFor(tc.input))
		})
	}
}

func TestFindConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	project := filepath.Join(root, "project")
	nested := filepath.Join(project, "www", "js")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(project, "config.xml"), []byte("<widget/>"), 0o600))

	// A directory named like the config must not match.
	dirLike := filepath.Join(root, "other", "config.xml")
	require.NoError(t, os.MkdirAll(dirLike, 0o750))

	tcs := map[string]struct {
		err  error
		path string
		want string
	}{
		"project dir": {
			path: project,
			want: filepath.Join(project, "config.xml"),
		},
		"nested dir": {
			path: nested,
			want: filepath.Join(project, "config.xml"),
		},
		"no config": {
			path: filepath.Join(root, "other"),
			err:  cdverrors.ErrFileNotFound,
		},
		"outside root": {
			path: filepath.Dir(root),
			err:  cdverrors.ErrResolvedOutsideRoot,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := paths.FindConfig(root, tc.path)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
