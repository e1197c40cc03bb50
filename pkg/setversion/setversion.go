package setversion

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"

	"github.com/MacroPower/cordova-set-version/pkg/cdverrors"
	"github.com/MacroPower/cordova-set-version/pkg/configxml"
	"github.com/MacroPower/cordova-set-version/pkg/fileutil"
	"github.com/MacroPower/cordova-set-version/pkg/manifest"
	"github.com/MacroPower/cordova-set-version/pkg/paths"
	"github.com/MacroPower/cordova-set-version/pkg/syncs"
	"github.com/MacroPower/cordova-set-version/pkg/tracing"
)

// Setter updates the version of Cordova projects. The zero value is not
// usable; create instances with [New]. A Setter is safe for concurrent use,
// and serializes updates that touch the same files.
type Setter struct {
	logger           *slog.Logger
	tracer           tracing.Tracer
	locks            *syncs.PathLock
	manifestPath     string
	rootElement      string
	buildNumberAttrs []string
	workers          int64
	skipManifest     bool
}

// Option configures a [Setter].
type Option func(*Setter)

// WithLogger sets the logger. Defaults to [slog.Default] at the time of each
// update.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Setter) {
		s.logger = logger
	}
}

// WithTracer sets the tracer used to time update stages. Defaults to a
// [tracing.LoggingTracer] on the Setter's logger.
func WithTracer(tracer tracing.Tracer) Option {
	return func(s *Setter) {
		s.tracer = tracer
	}
}

// WithManifestPath sets the manifest path. Defaults to the package.json next
// to each config file.
func WithManifestPath(path string) Option {
	return func(s *Setter) {
		s.manifestPath = path
	}
}

// WithoutManifest disables reading and updating the manifest. The version
// must then always be given explicitly.
func WithoutManifest() Option {
	return func(s *Setter) {
		s.skipManifest = true
	}
}

// WithRootElement sets the name of the configuration root element.
func WithRootElement(name string) Option {
	return func(s *Setter) {
		s.rootElement = name
	}
}

// WithBuildNumberAttrs sets the build-number attributes that are written when
// a build number is given. Repeated names and the version attribute are
// ignored.
func WithBuildNumberAttrs(names ...string) Option {
	return func(s *Setter) {
		s.buildNumberAttrs = configxml.BuildNumberAttrs(names...)
	}
}

// WithWorkers sets the number of concurrent updates run by [Setter.Update].
// Defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Setter) {
		if n > 0 {
			s.workers = int64(n)
		}
	}
}

// New creates a new [Setter].
func New(opts ...Option) *Setter {
	s := &Setter{
		locks:            syncs.NewPathLock(),
		rootElement:      configxml.DefaultRootElement,
		buildNumberAttrs: configxml.DefaultBuildNumberAttrs,
		workers:          int64(runtime.GOMAXPROCS(0)),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Result describes a finished version update.
type Result struct {
	// Err is the error of the update. It is only set by
	// [Setter.SetVersionAsync] and [Setter.Update]; [Setter.SetVersion]
	// returns it separately.
	Err error
	// ConfigPath is the config file that was updated.
	ConfigPath string
	// ManifestPath is the manifest that was read or updated, or empty when no
	// manifest was used.
	ManifestPath string
	// Version is the version that was set.
	Version string
	// PreviousVersion is the version found in the config before the update,
	// or empty when the config had none.
	PreviousVersion string
	// BuildNumber is the build number that was set, if any.
	BuildNumber string
	// Stage is [StageDone] on success and [StageFailed] otherwise.
	Stage Stage
	// FailedAt is the stage that failed, when Stage is [StageFailed].
	FailedAt Stage
	// ManifestUpdated is true when the manifest version was written.
	ManifestUpdated bool
}

func (s *Setter) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}

	return slog.Default()
}

func (s *Setter) trace() tracing.Tracer {
	if s.tracer != nil {
		return s.tracer
	}

	return tracing.NewLoggingTracer(s.log())
}

func (s *Setter) xmlOptions(buildNumber string) []configxml.Option {
	opts := []configxml.Option{
		configxml.WithRootElement(s.rootElement),
		configxml.WithBuildNumberAttrs(s.buildNumberAttrs...),
	}
	// With no build-number attributes left there is nothing to write the
	// build number to.
	if buildNumber != "" && len(s.buildNumberAttrs) > 0 {
		opts = append(opts, configxml.WithBuildNumber(buildNumber))
	}

	return opts
}

// update carries the state of one update between stages.
type update struct {
	res          Result
	config       []byte
	manifest     []byte
	newConfig    []byte
	newManifest  []byte
	versionGiven bool
}

// SetVersion updates the project described by args. Nothing is written
// unless every file of the update could be read, mutated, and written to a
// temporary file; the files are then renamed into place, config first (see
// [fileutil.WriteFiles]). A missing config
// file is reported with an error matching [fs.ErrNotExist], and a config that
// can't be parsed with an error matching [cdverrors.ErrMalformedConfig].
func (s *Setter) SetVersion(ctx context.Context, args Args) (Result, error) {
	u := &update{res: Result{
		ConfigPath:  paths.ResolveConfig(args.ConfigPath),
		Version:     args.Version,
		BuildNumber: args.BuildNumber,
		Stage:       StageValidating,
	}}

	logger := s.log().With(slog.String("config", u.res.ConfigPath))
	tracer := s.trace()

	stages := []struct {
		run   func(context.Context, *update) error
		stage Stage
	}{
		{stage: StageValidating, run: func(_ context.Context, u *update) error {
			return s.validate(u, args)
		}},
		{stage: StageReading, run: s.read},
		{stage: StageMutating, run: s.mutate},
		{stage: StageWriting, run: s.write},
	}

	for _, st := range stages {
		u.res.Stage = st.stage

		span := tracer.StartSpan(st.stage.String())
		span.SetBaggageItem("config", u.res.ConfigPath)

		err := ctx.Err()
		if err == nil {
			if st.stage == StageReading {
				// Hold the locks from the first read until the last write.
				unlock := s.locks.Lock(u.res.ConfigPath, u.res.ManifestPath)
				defer unlock()
			}

			err = st.run(ctx, u)
		}

		span.FinishWithError(err)

		if err != nil {
			u.res.FailedAt = st.stage
			u.res.Stage = StageFailed

			logger.Debug("version update failed",
				slog.String("stage", st.stage.String()),
				slog.Any("err", err),
			)

			return u.res, err
		}
	}

	u.res.Stage = StageDone

	logger.Info("updated version",
		slog.String("version", u.res.Version),
		slog.String("previous_version", u.res.PreviousVersion),
		slog.String("build_number", u.res.BuildNumber),
		slog.Bool("manifest_updated", u.res.ManifestUpdated),
	)

	return u.res, nil
}

func (s *Setter) validate(u *update, args Args) error {
	args, err := args.validate()
	if err != nil {
		return err
	}

	u.res.ConfigPath = args.ConfigPath
	u.versionGiven = args.Version != ""

	if s.skipManifest {
		if !u.versionGiven {
			return &ArgumentTypeError{Arg: "version", Want: "non-empty string"}
		}

		return nil
	}

	u.res.ManifestPath = s.manifestPath
	if u.res.ManifestPath == "" {
		u.res.ManifestPath = paths.ManifestFor(args.ConfigPath)
	}

	return nil
}

func (s *Setter) read(_ context.Context, u *update) error {
	config, err := os.ReadFile(u.res.ConfigPath)
	if err != nil {
		return fmt.Errorf("%w: %w", cdverrors.ErrReadFile, err)
	}

	u.config = config

	if u.res.ManifestPath == "" {
		return nil
	}

	data, err := os.ReadFile(u.res.ManifestPath)
	switch {
	case errors.Is(err, fs.ErrNotExist) && u.versionGiven:
		s.log().Debug("no manifest found", slog.String("manifest", u.res.ManifestPath))
		u.res.ManifestPath = ""

		return nil
	case err != nil:
		return fmt.Errorf("%w: %w", cdverrors.ErrReadFile, err)
	}

	u.manifest = data

	if !u.versionGiven {
		v, err := manifest.Version(data)
		if err != nil {
			return fmt.Errorf("%q: %w", u.res.ManifestPath, err)
		}

		u.res.Version = v
	}

	return nil
}

func (s *Setter) mutate(_ context.Context, u *update) error {
	opts := s.xmlOptions(u.res.BuildNumber)

	info, err := configxml.Read(u.config, opts...)
	if err != nil {
		return fmt.Errorf("%q: %w", u.res.ConfigPath, err)
	}

	u.res.PreviousVersion = info.Version

	u.newConfig, err = configxml.Upsert(u.config, u.res.Version, opts...)
	if err != nil {
		return fmt.Errorf("%q: %w", u.res.ConfigPath, err)
	}

	// A manifest the version was read from already holds it.
	if u.manifest != nil && u.versionGiven {
		u.newManifest, err = manifest.SetVersion(u.manifest, u.res.Version)
		if err != nil {
			return fmt.Errorf("%q: %w", u.res.ManifestPath, err)
		}
	}

	return nil
}

func (s *Setter) write(_ context.Context, u *update) error {
	files := []fileutil.File{{Path: u.res.ConfigPath, Data: u.newConfig}}
	if u.newManifest != nil {
		files = append(files, fileutil.File{Path: u.res.ManifestPath, Data: u.newManifest})
	}

	if err := fileutil.WriteFiles(files...); err != nil {
		return err //nolint:wrapcheck // Already carries the path.
	}

	u.res.ManifestUpdated = u.newManifest != nil

	return nil
}

// SetVersionAsync runs [Setter.SetVersion] in a new goroutine. The returned
// channel yields exactly one [Result], with [Result.Err] set on failure, and
// is then closed.
func (s *Setter) SetVersionAsync(ctx context.Context, args Args) <-chan Result {
	ch := make(chan Result, 1)

	go func() {
		defer close(ch)

		res, err := s.SetVersion(ctx, args)
		res.Err = err
		ch <- res
	}()

	return ch
}
