// Package render formats a report for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/mindmetrics/internal/entry"
	"github.com/fyrsmithlabs/mindmetrics/internal/insight"
)

const (
	sparklineWidth  = 40
	sparklineHeight = 3
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	alertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226"))

	negativeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	positiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	neutralStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	sparklineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51"))
)

// glyphs per insight kind, in the spirit of the report's empathetic tone.
func glyph(k insight.Kind) string {
	switch k {
	case insight.KindProfessionalHelpSuggestion:
		return "♥"
	case insight.KindAnomalyAlert:
		return "!"
	case insight.KindTrendNegative:
		return "▼"
	case insight.KindTrendPositive:
		return "▲"
	case insight.KindTagCorrelation:
		return "#"
	case insight.KindSentimentConflict:
		return "?"
	default:
		return "·"
	}
}

func style(k insight.Kind) lipgloss.Style {
	switch k {
	case insight.KindProfessionalHelpSuggestion:
		return helpStyle
	case insight.KindAnomalyAlert:
		return alertStyle
	case insight.KindTrendNegative:
		return negativeStyle
	case insight.KindTrendPositive:
		return positiveStyle
	default:
		return neutralStyle
	}
}

// Report renders the full console report. entries supply the score series
// for the sparkline; pass the same sequence the report was computed from.
func Report(r *insight.Report, entries []entry.Entry) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Your Mindful Metrics Report"))
	b.WriteString("\n\n")
	b.WriteString(summaryStyle.Render(r.Summary))
	b.WriteString("\n")

	if chart := scoreSparkline(entries); chart != "" {
		b.WriteString("\n")
		b.WriteString(chart)
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("mood scores, oldest to newest (%d entries)", len(entries))))
		b.WriteString("\n")
	}

	if len(r.Insights) == 0 {
		if r.Status == insight.StatusOK {
			b.WriteString("\n")
			b.WriteString(dimStyle.Render("Nothing unusual stood out this period."))
			b.WriteString("\n")
		}
		return b.String()
	}

	b.WriteString("\n")
	for _, in := range r.Insights {
		s := style(in.Kind)
		b.WriteString(s.Render(fmt.Sprintf("%s %s", glyph(in.Kind), in.Message)))
		b.WriteString("\n")
	}

	if !r.Baseline.Degraded() {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf(
			"baseline: mean %.2f, stddev %.2f over %d entries (window %d)",
			r.Baseline.OverallMean, r.Baseline.OverallStdDev, r.Baseline.Count, r.Baseline.WindowSize)))
		b.WriteString("\n")
	}
	return b.String()
}

// scoreSparkline charts the recent score series. Empty when there is nothing
// to draw.
func scoreSparkline(entries []entry.Entry) string {
	if len(entries) < 2 {
		return ""
	}
	spark := sparkline.New(sparklineWidth, sparklineHeight)
	for _, e := range entries {
		spark.Push(float64(e.Score))
	}
	return sparklineStyle.Render(spark.View())
}
