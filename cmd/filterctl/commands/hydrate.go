package commands

import (
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matthewbaird/fleetfilter/internal/filter/urlsync"
)

func newHydrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hydrate <domain> <query>",
		Short: "Read a domain filter object from a URL query string",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, d, err := loadDomain(args[0])
			if err != nil {
				return err
			}
			raw := args[1]
			if i := strings.IndexByte(raw, '?'); i >= 0 {
				raw = raw[i+1:]
			}
			q, err := url.ParseQuery(raw)
			if err != nil {
				return err
			}
			return printFilters(cmd.OutOrStdout(), d, urlsync.Hydrate(d, q))
		},
	}
}
