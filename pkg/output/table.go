package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iwvelando/debt-roadmap/internal/payoff"
	"github.com/iwvelando/debt-roadmap/pkg/format"
)

var (
	colorBorder = lipgloss.Color("#575653")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorOrange = lipgloss.Color("#DA702C")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	borderStyle  = lipgloss.NewStyle().Foreground(colorBorder)
	clearedStyle = lipgloss.NewStyle().Foreground(colorGreen)
	warnStyle    = lipgloss.NewStyle().Foreground(colorOrange)
)

// Table is a bordered text table for terminal output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTable renders a bordered table. The first column is left aligned and
// the rest right aligned.
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < numCols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	rule := func(left, mid, right string) string {
		parts := make([]string, numCols)
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return borderStyle.Render(left+strings.Join(parts, mid)+right) + "\n"
	}
	line := func(cells []string, style lipgloss.Style) string {
		var b strings.Builder
		b.WriteString(borderStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			if i == 0 {
				b.WriteString(style.Render(" " + cell + pad + " "))
			} else {
				b.WriteString(style.Render(" " + pad + cell + " "))
			}
			b.WriteString(borderStyle.Render("│"))
		}
		return b.String() + "\n"
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}
	b.WriteString(rule("╭", "┬", "╮"))
	b.WriteString(line(t.Headers, headerStyle))
	b.WriteString(rule("├", "┼", "┤"))
	for _, row := range t.Rows {
		b.WriteString(line(row, lipgloss.NewStyle()))
	}
	b.WriteString(rule("╰", "┴", "╯"))
	return b.String()
}

// TableFormat writes the schedule as a bordered table followed by a summary line.
func TableFormat(w io.Writer, schedule payoff.Schedule) {
	table := Table{
		Title:   "Payoff roadmap",
		Headers: []string{"Month", "Payment", "Interest", "Principal", "Penalties", "Remaining", "Cleared"},
	}
	for _, month := range schedule {
		table.Rows = append(table.Rows, []string{
			month.Label,
			format.Currency(month.TotalPayment),
			format.Currency(month.InterestPaid),
			format.Currency(month.PrincipalPaid),
			format.Currency(month.PenaltiesPaid),
			format.Currency(month.RemainingBalance),
			strings.Join(monthNotes(month), ", "),
		})
	}
	fmt.Fprint(w, RenderTable(table))

	summary := payoff.Summarize(schedule)
	if summary.Months == 0 {
		return
	}
	if summary.Truncated {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("Stopped after %d months with balances outstanding", summary.Months)))
		return
	}
	fmt.Fprintln(w, clearedStyle.Render(fmt.Sprintf("Debt free %s, %s interest", summary.FreedomDate, format.Currency(summary.TotalInterest))))
}
