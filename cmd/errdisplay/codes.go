package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Goden-Gun/errdisplay/pkg/codes"
)

func newCodesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codes",
		Short: "List the codes in the lookup table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.table(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				entries := make(map[string]codes.Entry, table.Len())
				for _, code := range table.Codes() {
					entries[code] = table.Resolve(code)
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tTYPE\tMESSAGE")
			for _, code := range table.Codes() {
				e := table.Resolve(code)
				fmt.Fprintf(w, "%s\t%s\t%s\n", code, e.Type, e.Message)
			}
			return w.Flush()
		},
	}
	cmd.Flags().Bool("json", false, "Print the table as JSON")
	return cmd
}
