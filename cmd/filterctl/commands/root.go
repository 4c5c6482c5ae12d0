// Package commands implements the filterctl CLI.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/matthewbaird/fleetfilter/internal/filter/schema"
	"github.com/matthewbaird/fleetfilter/internal/filter/translate"
)

var (
	bold = color.New(color.Bold)
	cyan = color.New(color.FgCyan)
	red  = color.New(color.FgRed, color.Bold)
	dim  = color.New(color.Faint)
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "filterctl",
		Short: "Inspect fleet filter registries and translate criteria",
		Long: `filterctl works on the built-in field registries offline: list the fields
of a domain page, search them like the field picker does, translate a
criteria list into the domain filter object and read filter objects back
from URL queries.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(newDomainsCmd(), newFieldsCmd(), newTranslateCmd(), newHydrateCmd())
	return root
}

// Execute runs the CLI, printing failures in red.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		red.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

func newDomainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List the domain pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := schema.LoadBuiltin()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range catalog.Domains() {
				reg, err := catalog.Registry(name)
				if err != nil {
					return err
				}
				bold.Fprintf(out, "%-20s", name)
				fmt.Fprintf(out, " %s (%d fields)\n", reg.Title(), reg.Len())
			}
			return nil
		},
	}
}

func loadDomain(name string) (*schema.Registry, *translate.Domain, error) {
	catalog, err := schema.LoadBuiltin()
	if err != nil {
		return nil, nil, err
	}
	reg, err := catalog.Registry(name)
	if err != nil {
		return nil, nil, err
	}
	d, err := translate.Lookup(name)
	if err != nil {
		return nil, nil, err
	}
	return reg, d, nil
}

func printField(out io.Writer, f *schema.Field) {
	fmt.Fprintf(out, "  %-22s %-26s ", f.ID, f.Label)
	cyan.Fprintf(out, "%-12s", f.Type)
	dim.Fprintf(out, " %s\n", schema.DefaultOperator(f))
}
