package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"phoneinput_backend/platform/phone"
)

func plansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List the numbering plans in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LABEL\tNAME\tREGION\tTRUNK\tSEPARATOR\tGROUPS")
			plans := append([]phone.NumberingPlan{registry.Domestic()}, registry.Plans()...)
			for _, plan := range plans {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%q\t%s\n",
					plan.Label(), plan.Name, plan.Region, plan.TrunkPrefix, plan.Separator, describeGroups(plan))
			}
			return tw.Flush()
		},
	}
}

func describeGroups(plan phone.NumberingPlan) string {
	parts := make([]string, 0, len(plan.Groups))
	for _, length := range plan.Lengths() {
		groups, _ := plan.Template(length)
		sizes := make([]string, len(groups))
		for i, size := range groups {
			sizes[i] = fmt.Sprint(size)
		}
		parts = append(parts, fmt.Sprintf("%d=%s", length, strings.Join(sizes, "-")))
	}
	return strings.Join(parts, " ")
}
