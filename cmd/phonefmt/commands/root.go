// Package commands implements the phonefmt CLI.
package commands

import (
	"github.com/spf13/cobra"

	"phoneinput_backend/platform/phone"
)

var (
	plansFile string
	registry  *phone.Registry
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "phonefmt",
		Short:         "Format phone numbers the way the phone field does",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			r, err := phone.LoadRegistryFile(plansFile)
			if err != nil {
				return err
			}
			registry = r
			return nil
		},
	}

	root.PersistentFlags().StringVar(&plansFile, "plans", "", "YAML plan table (default: built-in table)")

	root.AddCommand(formatCmd(), replayCmd(), plansCmd())
	return root
}
