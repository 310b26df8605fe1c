package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"quotebuilder/internal/config"
	"quotebuilder/internal/drafts"
	"quotebuilder/internal/preview"
	"quotebuilder/internal/storage"
)

func newListCmd(withApp appRunner, output *string) *cobra.Command {
	var docType, query string

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List drafts, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			f, err := drafts.ParseFilter(docType, query)
			if err != nil {
				return err
			}
			summaries, err := a.browser.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			return printSummaries(cmd, *output, summaries)
		}),
	}
	cmd.Flags().StringVar(&docType, "type", "", "Only this document type (proposal|budget|contract or proposta|orcamento|contrato)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Match client name or ID, case-insensitive")
	return cmd
}

func newShowCmd(withApp appRunner, output *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show one stored draft",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			rec, err := a.docs.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if *output != "" && *output != "table" {
				return printValue(cmd, *output, rec)
			}

			s := drafts.Summarize(rec, a.renderer.Catalog())
			tw := table.NewWriter()
			tw.Style().Options.DrawBorder = false
			tw.Style().Options.SeparateColumns = false
			tw.AppendRows([]table.Row{
				{"ID", s.ID},
				{"TYPE", s.TypeLabel},
				{"STATUS", s.StatusLabel},
				{"CLIENT", s.ClientName},
				{"ISSUED", preview.FormatDate(rec.IssueDate)},
				{"EXPIRES", preview.FormatDate(rec.Expiry())},
				{"ITEMS", len(rec.Content.Items)},
				{"DELIVERABLES", len(rec.Content.Deliverables)},
				{"TOTAL", s.Total},
				{"UPDATED", rec.UpdatedAt.Local().Format(time.DateTime)},
			})
			cmd.Printf("%s\n", tw.Render())
			return nil
		}),
	}
}

func newRemoveCmd(withApp appRunner) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a draft after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			confirm := promptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
			if yes {
				confirm = drafts.ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
			}

			deleted, err := a.browser.Delete(cmd.Context(), args[0], confirm)
			if err != nil {
				return err
			}
			if deleted {
				cmd.Printf("Deleted %s\n", args[0])
			}
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}

func newStatusCmd(withApp appRunner, output *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status [id] [status]",
		Short: "Change the status of a draft (draft|pending|approved|rejected|cancelled)",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			rec, err := a.docs.UpdateStatus(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printSummaries(cmd, *output, []drafts.Summary{drafts.Summarize(rec, a.renderer.Catalog())})
		}),
	}
}

// newSearchCmd reads search text line by line from stdin. Each line replaces
// the query; the listing is printed once typing pauses for the debounce delay
// and once more when input ends.
func newSearchCmd(withApp appRunner, output *string) *cobra.Command {
	var docType string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search drafts interactively, one query per line",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			a.browser.OnResults(func(summaries []drafts.Summary, err error) {
				if err != nil {
					cmd.PrintErrln("search failed:", err)
					return
				}
				if err := printSummaries(cmd, *output, summaries); err != nil {
					cmd.PrintErrln(err)
				}
			})

			f, err := drafts.ParseFilter(docType, "")
			if err != nil {
				return err
			}
			if _, err := a.browser.SetType(cmd.Context(), f.Type); err != nil {
				return err
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			typed := false
			for scanner.Scan() {
				a.browser.SetQuery(scanner.Text())
				typed = true
			}
			if err := scanner.Err(); err != nil {
				return err
			}

			// End of input: drop the pending refresh and list the last query now.
			a.browser.Close()
			if typed {
				_, err = a.browser.Refresh(cmd.Context())
			}
			return err
		}),
	}
	cmd.Flags().StringVar(&docType, "type", "", "Only this document type")
	return cmd
}

// newImportCmd loads a JSON array of records, as exported from the browser's
// local storage, into the local store. It replaces the whole local collection.
func newImportCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Replace the local store with a JSON export (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			data, err := io.ReadAll(r)
			if err != nil {
				return err
			}

			if !yes {
				return errors.New("import replaces every local draft; pass --yes to proceed")
			}

			cfg := config.Load()
			logger, closeLog, err := config.NewLogger(cfg, os.Stderr)
			if err != nil {
				return err
			}
			defer closeLog()

			store, err := storage.OpenLocal(cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Import(cmd.Context(), data)
			if err != nil {
				return err
			}
			cmd.Printf("Imported %d documents into %s\n", n, cfg.LocalStorePath)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm replacing the local collection")
	return cmd
}

// promptConfirmer asks on out and reads a yes/no answer from in. Anything but
// s, sim, y or yes declines.
func promptConfirmer(in io.Reader, out io.Writer) drafts.Confirmer {
	return drafts.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		fmt.Fprintf(out, "%s [s/N] ", prompt)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "s", "sim", "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	})
}
