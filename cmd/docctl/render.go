package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quotebuilder/internal/domain/models"
)

func newRenderCmd(withApp appRunner) *cobra.Command {
	var format, outFile string

	cmd := &cobra.Command{
		Use:   "render [id]",
		Short: "Render a stored draft as HTML, a print-ready page or Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			var render func(*models.Document) (string, error)
			switch format {
			case "html":
				render = a.renderer.Render
			case "print":
				render = a.renderer.RenderPrint
			case "markdown", "md":
				render = a.renderer.RenderMarkdown
			default:
				return fmt.Errorf("unknown format %q: use html, print or markdown", format)
			}

			rec, err := a.docs.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out, err := render(models.FromRecord(rec))
			if err != nil {
				return err
			}

			if outFile == "" {
				cmd.Print(out)
				return nil
			}
			if err := os.WriteFile(outFile, []byte(out), 0o644); err != nil {
				return err
			}
			cmd.Printf("Wrote %s\n", outFile)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&format, "format", "f", "html", "html, print or markdown")
	cmd.Flags().StringVar(&outFile, "out", "", "Write to this file instead of stdout")
	return cmd
}
