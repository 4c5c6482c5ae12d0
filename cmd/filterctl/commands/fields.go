package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matthewbaird/fleetfilter/internal/filter/sidebar"
)

func newFieldsCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "fields <domain>",
		Short: "List a domain's filterable fields, grouped by category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, err := loadDomain(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			groups := sidebar.Match(reg.Fields(), search)
			if len(groups) == 0 {
				fmt.Fprintln(out, "no matching fields")
				return nil
			}
			if search == "" {
				bold.Fprintln(out, "POPULAR")
				for _, f := range reg.Popular() {
					printField(out, f)
				}
			}
			for _, g := range groups {
				bold.Fprintln(out, g.Category)
				for _, f := range g.Fields {
					printField(out, f)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter fields by label or category")
	return cmd
}
