package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Goden-Gun/errdisplay/pkg/render"
)

func newClassifyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [error-json|-]",
		Short: "Recode one error object and print the resulting view",
		Long: `Recode one error object and print the resulting view as JSON.

The error is read from the first argument, or from stdin when the argument is
"-" or omitted. A JSON null prints null.`,
		Example: `  errdisplay classify '{"code":"SITE_NOT_FOUND"}'
  echo '{"validator":"url","options":{"message":"Enter a URL."}}' | errdisplay classify --plain`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			in, err := a.decoder().Decode(payload)
			if err != nil {
				return err
			}
			table, err := a.table(cmd.Context())
			if err != nil {
				return err
			}

			noIcon, _ := cmd.Flags().GetBool("no-icon")
			className, _ := cmd.Flags().GetString("class-name")
			view := render.Present(a.classifier().Classify(in, table), render.Props{
				ShowIcon:  !noIcon,
				ClassName: className,
			})

			out := cmd.OutOrStdout()
			if plain, _ := cmd.Flags().GetBool("plain"); plain {
				if view == nil {
					return nil
				}
				_, err := fmt.Fprintln(out, render.Plain(view))
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		},
	}
	cmd.Flags().Bool("no-icon", false, "Suppress the icon (and its padding)")
	cmd.Flags().String("class-name", "", "Class name to attach to the message box")
	cmd.Flags().Bool("plain", false, "Print the assembled message text instead of the view")
	return cmd
}

func readPayload(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 1 && args[0] != "-" {
		return []byte(args[0]), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, errors.New("no error payload given")
	}
	return data, nil
}
