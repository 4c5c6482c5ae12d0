package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matthewbaird/fleetfilter/internal/filter/criteria"
	"github.com/matthewbaird/fleetfilter/internal/filter/translate"
	"github.com/matthewbaird/fleetfilter/internal/filter/urlsync"
)

func newTranslateCmd() *cobra.Command {
	var (
		file string
		base []string
	)
	cmd := &cobra.Command{
		Use:   "translate <domain>",
		Short: "Translate a JSON criteria list into the domain filter object",
		Long: `Reads a JSON array of criteria ({id, field, operator, value}) from --file,
or from stdin when the file is "-", and prints the filter object and its
URL query. --base seeds the page state with key=value pairs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, d, err := loadDomain(args[0])
			if err != nil {
				return err
			}
			list, err := readCriteria(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			seed := translate.Filters{}
			for _, kv := range base {
				k, v, ok := strings.Cut(kv, "=")
				if !ok || k == "" {
					return fmt.Errorf("invalid --base %q, want key=value", kv)
				}
				seed[k] = translate.String(v)
			}

			out, unknown := d.Translate(list, seed)
			for _, field := range unknown {
				red.Fprintf(cmd.ErrOrStderr(), "warning: no mapping for field %q\n", field)
			}
			return printFilters(cmd.OutOrStdout(), d, out)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "criteria JSON file, - for stdin")
	cmd.Flags().StringArrayVar(&base, "base", nil, "page state entry key=value (repeatable)")
	return cmd
}

func readCriteria(stdin io.Reader, file string) ([]criteria.Criterion, error) {
	r := stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var list []criteria.Criterion
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("decoding criteria: %w", err)
	}
	return list, nil
}

func printFilters(out io.Writer, d *translate.Domain, f translate.Filters) error {
	raw, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(raw))
	cyan.Fprint(out, "query: ")
	fmt.Fprintln(out, urlsync.Query(d, f))
	return nil
}
