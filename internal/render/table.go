// Package render writes grouped container listings as aligned text.
// It is the CLI stand-in for the desktop frontend: singleton groups
// become plain rows, multi-member groups a header line with indented
// child rows. Whether a group gets a header comes straight from
// Collapsible(), never from re-deriving it.
package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cargobay/cargobay/internal/domain"
)

type TableRenderer struct {
	out io.Writer
}

func NewTableRenderer(out io.Writer) *TableRenderer {
	return &TableRenderer{out: out}
}

// ConsumeGroups renders one published snapshot. It satisfies the
// engine's consumer contract for watch mode.
func (r *TableRenderer) ConsumeGroups(groups []domain.ContainerGroup) {
	w := tabwriter.NewWriter(r.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tID\tIMAGE\tSTATE\tSTATUS\tPORTS")

	for _, g := range groups {
		if g.Collapsible() {
			fmt.Fprintf(w, "%s (%d/%d running)\t\t\t\t\t\n", g.Key, g.RunningCount, len(g.Members))
			for _, m := range g.Members {
				writeRow(w, "  "+m.DisplayName(), m)
			}
			continue
		}
		m := g.Members[0]
		writeRow(w, m.DisplayName(), m)
	}
	w.Flush()
}

func writeRow(w io.Writer, name string, m domain.ContainerRecord) {
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", name, m.Id, m.Image, m.State, m.Status, m.Ports)
}
