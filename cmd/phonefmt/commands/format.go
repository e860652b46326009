package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

type formatOutput struct {
	Input     string `json:"input"`
	Raw       string `json:"raw"`
	Display   string `json:"display"`
	Invalid   bool   `json:"invalid"`
	Plan      string `json:"plan"`
	Detection string `json:"detection"`
	E164      string `json:"e164,omitempty"`
}

func formatCmd() *cobra.Command {
	var (
		asJSON   bool
		withE164 bool
	)

	cmd := &cobra.Command{
		Use:   "format <value>...",
		Short: "Print the committed display of each value",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)

			for _, input := range args {
				result := registry.Evaluate(input)
				if !asJSON {
					marker := ""
					if result.Invalid {
						marker = "\t(invalid)"
					}
					fmt.Fprintf(out, "%s%s\n", result.Display, marker)
					continue
				}

				line := formatOutput{
					Input:     input,
					Raw:       result.Raw.String(),
					Display:   result.Display,
					Invalid:   result.Invalid,
					Plan:      result.Detection.PlanLabel(),
					Detection: result.Detection.Kind.String(),
				}
				if withE164 {
					line.E164, _ = registry.E164(result.Raw)
				}
				if err := enc.Encode(line); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print one JSON object per value")
	cmd.Flags().BoolVar(&withE164, "e164", false, "include the E.164 form in JSON output")
	return cmd
}
