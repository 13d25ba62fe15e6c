package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mohammad-safakhou/digestboard/internal/filter"
	"github.com/mohammad-safakhou/digestboard/models"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)
}

func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := newTable(w)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// scoreCell colours a score by band: green high, yellow neutral, red low.
func scoreCell(score *float64) string {
	if score == nil {
		return "-"
	}
	s := strconv.FormatFloat(*score, 'f', 2, 64)
	switch models.BandFor(score) {
	case models.ScoreBandHigh:
		return color.GreenString(s)
	case models.ScoreBandLow:
		return color.RedString(s)
	default:
		return color.YellowString(s)
	}
}

func marks(it filter.Item) string {
	var b strings.Builder
	if it.Favorite {
		b.WriteString("★")
	}
	if !it.Read {
		b.WriteString("•")
	}
	return b.String()
}

func clip(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}

func fmtMillis(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).Format("01-02 15:04")
}

func renderTopics(w io.Writer, page filter.Page) error {
	rows := make([][]string, 0, len(page.Items))
	for _, it := range page.Items {
		rows = append(rows, []string{
			marks(it),
			it.TopicID,
			clip(it.Title, 40),
			scoreCell(it.InterestScore),
			strings.Join(it.ContributorList, ", "),
			it.GroupID,
			fmtMillis(it.TimeStart) + " → " + fmtMillis(it.TimeEnd),
		})
	}
	if err := renderTable(w, []string{"", "topic id", "title", "score", "contributors", "group", "time"}, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\npage %d/%d, %d topics\n", page.Page, page.TotalPages, page.Total)
	return err
}

func printSuccess(w io.Writer, format string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(w, "✓ "+format+"\n", args...)
}

func printWarning(w io.Writer, format string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(w, "⚠ "+format+"\n", args...)
}

// parseTimeFlag accepts epoch milliseconds, YYYY-MM-DD (local midnight) or RFC3339.
func parseTimeFlag(v string) (int64, error) {
	v = strings.TrimSpace(v)
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return ms, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
		return t.UnixMilli(), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return 0, fmt.Errorf("time %q: want epoch ms, YYYY-MM-DD or RFC3339", v)
	}
	return t.UnixMilli(), nil
}

// windowFlags resolves --start/--end, defaulting to now±span.
func windowFlags(start, end string, span time.Duration, now time.Time) (models.Window, error) {
	w := models.WindowFromTimes(now.Add(-span), now.Add(span))
	var err error
	if start != "" {
		if w.Start, err = parseTimeFlag(start); err != nil {
			return w, err
		}
	}
	if end != "" {
		if w.End, err = parseTimeFlag(end); err != nil {
			return w, err
		}
	}
	return w, nil
}
