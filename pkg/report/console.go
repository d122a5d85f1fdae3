// Package report renders a run's results for people (console summary) and
// for spreadsheets (CSV table).
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/ypelletier/tally/pkg/service"
)

var rule = strings.Repeat("=", 50)

// Summary writes the human-readable run summary: per-key amounts in key
// order, totals by currency, totals by day, and whatever was skipped.
func Summary(w io.Writer, result *service.Result) {
	headerStyle := lipgloss.NewStyle().Bold(true)
	amountStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))  // green
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))  // yellow

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, headerStyle.Render("Results Summary"))
	fmt.Fprintln(w, rule)

	if result.Stats.FilesFound == 0 {
		fmt.Fprintf(w, "\nNo matching files found in: %s\n", result.Folder)
		return
	}
	if len(result.Extractions) == 0 {
		fmt.Fprintln(w, "\nNo amounts extracted.")
		printIssues(w, warnStyle, result.Stats)
		return
	}

	fmt.Fprintf(w, "\nFound %d file(s) with amounts:\n\n", len(result.Extractions))
	for _, key := range result.Keys() {
		fact := result.Extractions[key].Fact
		fmt.Fprintln(w, amountStyle.Render(fmt.Sprintf("  %s: $%s %s", key, money(fact.Amount), fact.Currency)))
	}

	fmt.Fprintln(w, "\nTotals by currency:")
	for _, ct := range result.CurrencyTotals() {
		fmt.Fprintf(w, "  %s: $%s\n", ct.Currency, money(ct.Total))
	}

	fmt.Fprintln(w, "\nDaily totals:")
	for _, dt := range result.DailyTotals() {
		fmt.Fprintf(w, "  %s: $%s %s\n", dt.Date, money(dt.Total), dt.Currency)
	}

	printIssues(w, warnStyle, result.Stats)
}

func printIssues(w io.Writer, style lipgloss.Style, stats service.Stats) {
	skipped := stats.SkippedName + stats.SkippedNoAmount + stats.SkippedUnreadable
	if skipped == 0 && stats.Duplicates == 0 && stats.RatesUnavailable == 0 {
		return
	}

	fmt.Fprintln(w)
	if skipped > 0 {
		fmt.Fprintln(w, style.Render(fmt.Sprintf("Skipped %d file(s): %d bad name, %d without amount, %d unreadable",
			skipped, stats.SkippedName, stats.SkippedNoAmount, stats.SkippedUnreadable)))
	}
	if stats.Duplicates > 0 {
		fmt.Fprintln(w, style.Render(fmt.Sprintf("Overwrote %d duplicate key(s)", stats.Duplicates)))
	}
	if stats.RatesUnavailable > 0 {
		fmt.Fprintln(w, style.Render(fmt.Sprintf("Left %d USD amount(s) unconverted (no exchange rate)", stats.RatesUnavailable)))
	}
}

// money renders a decimal with two places and comma thousands separators.
func money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		return sign + intPart + "." + fracPart
	}

	var grouped strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		grouped.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if grouped.Len() > 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteString(intPart[i : i+3])
	}
	return sign + grouped.String() + "." + fracPart
}
