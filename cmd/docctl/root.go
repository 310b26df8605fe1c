package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"quotebuilder/internal/drafts"
)

func newRootCmd(open appOpener) *cobra.Command {
	var output string

	root := &cobra.Command{
		Use:           "docctl",
		Short:         "Manage stored proposals, budgets and contracts",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&output, "output", "o", "", "Output format: table (default), json or yaml")

	// Commands that touch storage open the app lazily so that "version" and
	// "--help" work without a store.
	withApp := func(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()
			return run(cmd, a, args)
		}
	}

	draftsCmd := &cobra.Command{Use: "drafts", Short: "List, inspect, search and delete stored drafts"}
	draftsCmd.AddCommand(
		newListCmd(withApp, &output),
		newShowCmd(withApp, &output),
		newRemoveCmd(withApp),
		newStatusCmd(withApp, &output),
		newSearchCmd(withApp, &output),
		newImportCmd(),
	)

	root.AddCommand(draftsCmd, newRenderCmd(withApp), newVersionCmd(&output))
	root.SetContext(context.Background())
	return root
}

type appRunner func(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error

func printSummaries(cmd *cobra.Command, output string, summaries []drafts.Summary) error {
	switch output {
	case "", "table":
		tw := table.NewWriter()
		tw.Style().Options.DrawBorder = false
		tw.Style().Options.SeparateColumns = false
		tw.Style().Options.SeparateFooter = false
		tw.Style().Options.SeparateHeader = false
		tw.Style().Options.SeparateRows = false
		tw.AppendHeader(table.Row{"ID", "TYPE", "STATUS", "CLIENT", "DATE", "TOTAL"})
		for _, s := range summaries {
			tw.AppendRow(table.Row{s.ID, s.TypeLabel, s.StatusLabel, s.ClientName, s.Date, s.Total})
		}
		cmd.Printf("%s\n", tw.Render())
		return nil
	default:
		return printValue(cmd, output, summaries)
	}
}

// printValue writes v as JSON or YAML
func printValue(cmd *cobra.Command, output string, v interface{}) error {
	switch output {
	case "json", "", "table":
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		cmd.Println(string(out))
	case "yaml":
		out, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal YAML: %w", err)
		}
		cmd.Print(string(out))
	default:
		return fmt.Errorf("unknown output format: %s", output)
	}
	return nil
}
