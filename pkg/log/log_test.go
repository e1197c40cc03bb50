package log_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MacroPower/cordova-set-version/pkg/log"
)

func TestCreateHandler(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err    error
		level  string
		format string
		check  func(t *testing.T, out string)
	}{
		"text": {
			level:  "info",
			format: "text",
			check: func(t *testing.T, out string) {
				t.Helper()
				assert.Contains(t, out, "updated config")
				assert.Contains(t, out, "path=config.xml")
			},
		},
		"logfmt": {
			level:  "info",
			format: "logfmt",
			check: func(t *testing.T, out string) {
				t.Helper()
				assert.Contains(t, out, `msg="updated config"`)
				assert.Contains(t, out, "path=config.xml")
			},
		},
		"json": {
			level:  "debug",
			format: "JSON",
			check: func(t *testing.T, out string) {
				t.Helper()

				rec := map[string]any{}
				require.NoError(t, json.Unmarshal([]byte(out), &rec))
				assert.Equal(t, "updated config", rec["msg"])
				assert.Equal(t, "config.xml", rec["path"])
			},
		},
		"level filters": {
			level:  "warn",
			format: "text",
			check: func(t *testing.T, out string) {
				t.Helper()
				assert.Empty(t, out)
			},
		},
		"unknown format": {
			level:  "info",
			format: "yaml",
			err:    log.ErrUnknownLogFormat,
		},
		"unknown level": {
			level:  "loud",
			format: "text",
			err:    log.ErrUnknownLogLevel,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			buf := &bytes.Buffer{}

			h, err := log.CreateHandler(buf, tc.level, tc.format)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)

			slog.New(h).Info("updated config", slog.String("path", "config.xml"))
			tc.check(t, buf.String())
		})
	}
}

func TestGetLevel(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]slog.Level{
		"trace":   slog.LevelDebug,
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"fatal":   slog.LevelError,
	} {
		got, err := log.GetLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, slog.Level(got), input)
	}
}
