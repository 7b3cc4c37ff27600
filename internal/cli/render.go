package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mauzec/tasktracker/internal/config"
	"github.com/mauzec/tasktracker/internal/core"
	"gopkg.in/yaml.v3"
)

func (a *app) render(w io.Writer, tasks ...*core.Task) error {
	if a.format == config.OutputYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return fmt.Errorf("cli: encode yaml: %w", err)
		}
		return enc.Close()
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tDESCRIPTION")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
			t.ID, oneLine(t.Title), t.Status, oneLine(t.Description))
	}
	return tw.Flush()
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}
