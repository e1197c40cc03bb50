package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/MacroPower/cordova-set-version/pkg/cdverrors"
	"github.com/MacroPower/cordova-set-version/pkg/configxml"
	"github.com/MacroPower/cordova-set-version/pkg/paths"
)

// NewShowCmd returns the show command.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the version attributes of a config.xml",
		Args:  cobra.NoArgs,
		RunE: func(cc *cobra.Command, _ []string) error {
			var merr error

			flags := cc.Flags()

			configPath, err := flags.GetString("config")
			if err != nil {
				merr = multierror.Append(merr, err)
			}

			root, err := flags.GetString("root")
			if err != nil {
				merr = multierror.Append(merr, err)
			}

			buildAttrs, err := flags.GetStringSlice("build-attr")
			if err != nil {
				merr = multierror.Append(merr, err)
			}

			if merr != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, merr)
			}

			configPath = paths.ResolveConfig(configPath)

			data, err := os.ReadFile(configPath) //nolint:gosec // User-provided config path.
			if err != nil {
				return fmt.Errorf("%w: %w", cdverrors.ErrReadFile, err)
			}

			info, err := configxml.Read(data,
				configxml.WithRootElement(root),
				configxml.WithBuildNumberAttrs(buildAttrs...),
			)
			if err != nil {
				return fmt.Errorf("%q: %w", configPath, err)
			}

			st := newStyles(cc.OutOrStdout())

			lines := []string{st.path.Render(configPath)}

			if info.HasVersion {
				lines = append(lines, st.attr(configxml.VersionAttr, info.Version))
			}

			names := make([]string, 0, len(info.BuildNumbers))
			for name := range info.BuildNumbers {
				names = append(names, name)
			}

			slices.Sort(names)

			for _, name := range names {
				lines = append(lines, st.attr(name, info.BuildNumbers[name]))
			}

			_, err = fmt.Fprintln(cc.OutOrStdout(), strings.Join(lines, "\n"))
			if err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringP("config", "c", paths.DefaultConfigName, "Path to config.xml")
	cmd.Flags().String("root", "", "Name of the config root element (default \"widget\")")
	cmd.Flags().StringSlice("build-attr", nil, "Build-number attribute names")

	return cmd
}
