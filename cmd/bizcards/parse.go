package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/bizcards/internal/core"
)

func newParseCmd(a *app) *cobra.Command {
	var (
		pf     parserFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "parse <contacts.csv|contacts.xlsx|->",
		Short: "Normalize a contact list without rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "json", "records", "xlsx":
			default:
				return fmt.Errorf("unknown format %q: use json, records or xlsx", format)
			}
			if format == "xlsx" && output == "" {
				return fmt.Errorf("--format xlsx needs --output")
			}
			if err := pf.apply(cmd, a.cfg); err != nil {
				return err
			}

			ctx := cmd.Context()
			svc, deps, err := a.newService(ctx, false)
			if err != nil {
				return err
			}
			defer deps.Close()

			res, err := convertFile(ctx, svc, args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			if format == "xlsx" {
				data, err := core.ContactsWorkbook(res.Contacts)
				if err != nil {
					return err
				}
				return os.WriteFile(output, data, 0o644)
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if format == "records" {
				return enc.Encode(res.Records)
			}
			return enc.Encode(res)
		},
	}

	pf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, records or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout for json and records)")

	return cmd
}
