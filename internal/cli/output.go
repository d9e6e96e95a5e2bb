package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/spec-kit/helpdesk-client/internal/domain"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)
}

func displayName(n *domain.UserName) string {
	if n == nil {
		return "-"
	}
	switch {
	case n.Display != "":
		return n.Display
	case n.First != "" || n.Last != "":
		return strings.TrimSpace(n.First + " " + n.Last)
	default:
		return "-"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printTicketPage(w io.Writer, tickets []domain.TicketSummary, page, pages, total int) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tTYPE\tDUE\tTITLE")
	for _, t := range tickets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Status, t.Priority, t.RequestType, orDash(t.DueDate), t.Title)
	}
	tw.Flush()
	fmt.Fprintf(w, "page %d/%d, %d tickets\n", page, max(pages, 1), total)
}

func printTags(w io.Writer, tags []domain.Tag) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tCOLOR\tCATEGORY")
	for _, t := range tags {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", t.ID, t.Name, orDash(t.ColorCode), orDash(t.Category))
	}
	tw.Flush()
}

// printMetrics writes every gathered counter and histogram count as name{labels} value.
func printMetrics(w io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			sort.Strings(labels)
			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				value = float64(m.GetHistogram().GetSampleCount())
			default:
				continue
			}
			fmt.Fprintf(w, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), value)
		}
	}
	return nil
}
