package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MacroPower/cordova-set-version/pkg/projectconfig"
)

// NewSchemaCmd returns the schema command.
func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the settings file",
		Args:  cobra.NoArgs,
		RunE: func(cc *cobra.Command, _ []string) error {
			b, err := projectconfig.SchemaJSON()
			if err != nil {
				return err //nolint:wrapcheck // Already wrapped.
			}

			_, err = fmt.Fprintln(cc.OutOrStdout(), string(b))
			if err != nil {
				return fmt.Errorf("write schema: %w", err)
			}

			return nil
		},
	}
}
