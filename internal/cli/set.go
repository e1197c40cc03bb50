package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/MacroPower/cordova-set-version/pkg/paths"
	"github.com/MacroPower/cordova-set-version/pkg/projectconfig"
	"github.com/MacroPower/cordova-set-version/pkg/setversion"
)

const (
	setDesc = `Set the version of a Cordova project.

The version attribute of the <widget> root in config.xml is replaced or
inserted, leaving the rest of the file byte for byte unchanged. When the
version is omitted it is read from the package.json next to config.xml;
when it is given and a package.json exists, its version is updated too.
`
	setExample = `  # Use the version of package.json
  cordova-set-version set

  # Set an explicit version and build number
  cordova-set-version set 2.4.9 --build-number 42

  # Update several projects
  cordova-set-version set 2.4.9 -c app/config.xml -c admin/config.xml
`
)

// NewSetCmd returns the set command.
func NewSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "set [VERSION]",
		Short:   "Set the version of a Cordova project",
		Long:    setDesc,
		Example: setExample,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runSet,
	}

	flags := cmd.Flags()
	flags.StringArrayP("config", "c", nil, "Path to config.xml, may be repeated (default \"config.xml\")")
	flags.StringP("build-number", "b", "", "Build number to set on the build-number attributes")
	flags.String("manifest", "", "Path to the JSON manifest (default: package.json next to config.xml)")
	flags.Bool("no-manifest", false, "Neither read nor update the manifest")
	flags.String("root", "", "Name of the config root element (default \"widget\")")
	flags.StringSlice("build-attr", nil, "Build-number attribute names")
	flags.Bool("find", false, "Search for config.xml in the parent directories")
	flags.String("settings", "", "Path to the settings file (default \""+projectconfig.DefaultFileName+"\")")
	flags.Duration("timeout", time.Minute, "Timeout for the command")
	flags.BoolP("quiet", "q", false, "Run in quiet mode")

	cmd.MarkFlagsMutuallyExclusive("manifest", "no-manifest")
	cmd.MarkFlagsMutuallyExclusive("config", "find")

	return cmd
}

type setFlags struct {
	buildNumber string
	manifest    string
	root        string
	settings    string
	configs     []string
	buildAttrs  []string
	timeout     time.Duration
	noManifest  bool
	find        bool
	quiet       bool
}

func getSetFlags(cc *cobra.Command) (*setFlags, error) {
	var merr error

	f := &setFlags{}
	flags := cc.Flags()

	var err error

	f.configs, err = flags.GetStringArray("config")
	if err != nil {
		merr = multierror.Append(merr, err)
	}

	f.buildNumber, err = flags.GetString("build-number")
	if err != nil {
		merr = multierror.Append(merr, err)
	}

	f.manifest, err = flags.GetString("manifest")
	if err != nil {
		merr = multierror.Append(merr, err)
	}

	f.noManifest, err = flags.GetBool("no-manifest")
	if err != nil {
		merr = multierror.Append(merr, err)
	}

	f.root, err = flags.GetString("root")
	if err != nil {
		merr = multierror.Append(merr, err)
	}

	f.buildAttrs, err = flags.GetStringSlice("build-attr")
	if err != nil {
		merr = multierror.Append(merr, err)
	}

	f.find, err = flags.GetBool("find")
	if err != nil {
		merr = multierror.Append(merr, err)
	}

	f.settings, err = flags.GetString("settings")
	if err != nil {
		merr = multierror.Append(merr, err)
	}

	f.timeout, err = flags.GetDuration("timeout")
	if err != nil {
		merr = multierror.Append(merr, err)
	}

	f.quiet, err = flags.GetBool("quiet")
	if err != nil {
		merr = multierror.Append(merr, err)
	}

	if merr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, merr)
	}

	return f, nil
}

func runSet(cc *cobra.Command, posArgs []string) error {
	f, err := getSetFlags(cc)
	if err != nil {
		return err
	}

	settings, err := projectconfig.Load(f.settings)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	base, err := settings.Args()
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	// Flags take precedence over the settings file.
	if len(posArgs) == 1 {
		a, err := setversion.Validate(nil, posArgs[0], nil)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}

		base.Version = a.Version
	}

	if cc.Flags().Changed("build-number") {
		a, err := setversion.Validate(nil, nil, f.buildNumber)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}

		base.BuildNumber = a.BuildNumber
	}

	configs := f.configs
	if f.find {
		found, err := paths.FindConfig("", ".")
		if err != nil {
			return fmt.Errorf("find config: %w", err)
		}

		configs = []string{found}
	}

	if len(configs) == 0 {
		configs = []string{base.ConfigPath}
	}

	args := make([]setversion.Args, 0, len(configs))
	for _, c := range configs {
		a := base
		a.ConfigPath = c
		args = append(args, a)
	}

	s := setversion.New(append(settings.Options(), f.options()...)...)

	ctx, cancel := context.WithTimeout(cc.Context(), f.timeout)
	defer cancel()

	var results []setversion.Result

	if len(args) == 1 {
		res, err := s.SetVersion(ctx, args[0])
		res.Err = err
		results = []setversion.Result{res}
	} else {
		results, _ = s.Update(ctx, args...) //nolint:errcheck // Reported per result below.
	}

	return report(cc, results, f.quiet)
}

func (f *setFlags) options() []setversion.Option {
	opts := []setversion.Option{setversion.WithLogger(slog.Default())}

	if f.manifest != "" {
		opts = append(opts, setversion.WithManifestPath(f.manifest))
	}

	if f.noManifest {
		opts = append(opts, setversion.WithoutManifest())
	}

	if f.root != "" {
		opts = append(opts, setversion.WithRootElement(f.root))
	}

	if len(f.buildAttrs) > 0 {
		opts = append(opts, setversion.WithBuildNumberAttrs(f.buildAttrs...))
	}

	return opts
}

// report prints one line per result and returns the combined error of all
// failed results.
func report(cc *cobra.Command, results []setversion.Result, quiet bool) error {
	out := cc.OutOrStdout()
	st := newStyles(out)

	var merr error

	for _, res := range results {
		if res.Err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", res.ConfigPath, res.Err))

			continue
		}

		if quiet {
			continue
		}

		if _, err := fmt.Fprintln(out, st.result(res)); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("write output: %w", err))
		}
	}

	if merr != nil {
		return fmt.Errorf("set version: %w", merr)
	}

	return nil
}
