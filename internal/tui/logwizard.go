// Package tui implements the interactive entry wizard behind
// `mindmetrics log -i`.
//
// The wizard walks backwards one day at a time, asking for a score, tags,
// and an optional journal line per day, until the user types "done" at the
// score prompt. Collected drafts are validated and stored by the caller.
package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/mindmetrics/internal/entry"
)

type step int

const (
	stepScore step = iota
	stepTags
	stepJournal
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true)
	dateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
)

// Draft is one collected, not-yet-persisted entry.
type Draft struct {
	Date    time.Time
	Score   int
	Tags    []string
	Journal string
}

// Model is the Bubble Tea model for the wizard.
type Model struct {
	input   textinput.Model
	step    step
	date    time.Time
	score   int
	tags    []string
	drafts  []Draft
	errMsg  string
	done    bool
	aborted bool
}

// NewModel starts a wizard at the given date, walking backwards from there.
func NewModel(start time.Time) Model {
	ti := textinput.New()
	ti.Placeholder = "1-10, or done"
	ti.CharLimit = 200
	ti.Width = 48
	ti.Focus()

	return Model{
		input: ti,
		date:  entry.Day(start),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	m.errMsg = ""

	switch m.step {
	case stepScore:
		if strings.EqualFold(value, "done") {
			m.done = true
			return m, tea.Quit
		}
		score, err := strconv.Atoi(value)
		if err != nil || score < entry.MinScore || score > entry.MaxScore {
			m.errMsg = "Please enter a number between 1 and 10, or 'done' to finish."
			m.input.SetValue("")
			return m, nil
		}
		m.score = score
		m.step = stepTags
		m.input.SetValue("")
		m.input.Placeholder = "work, exercise, ... (optional)"
	case stepTags:
		m.tags = nil
		if value != "" {
			m.tags = strings.Split(value, ",")
		}
		m.step = stepJournal
		m.input.SetValue("")
		m.input.Placeholder = "how was the day? (optional)"
	case stepJournal:
		m.drafts = append(m.drafts, Draft{
			Date:    m.date,
			Score:   m.score,
			Tags:    entry.NormalizeTags(m.tags),
			Journal: value,
		})
		m.date = m.date.AddDate(0, 0, -1)
		m.step = stepScore
		m.input.SetValue("")
		m.input.Placeholder = "1-10, or done"
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(promptStyle.Render("Mindful Metrics: log your mood"))
	b.WriteString("\n\n")
	if n := len(m.drafts); n > 0 {
		b.WriteString(countStyle.Render(fmt.Sprintf("%d day(s) collected", n)))
		b.WriteString("\n")
	}
	b.WriteString(dateStyle.Render(m.date.Format("Monday, January 2 2006")))
	b.WriteString("\n")

	switch m.step {
	case stepScore:
		b.WriteString("Mood score ")
		b.WriteString(hintStyle.Render("(1-10, 'done' to finish)"))
	case stepTags:
		b.WriteString("Tags ")
		b.WriteString(hintStyle.Render("(comma-separated, Enter to skip)"))
	case stepJournal:
		b.WriteString("Journal ")
		b.WriteString(hintStyle.Render("(Enter to skip)"))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(errStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(hintStyle.Render("esc to abort"))
	b.WriteString("\n")
	return b.String()
}

// Aborted reports whether the user bailed out with esc/ctrl-c; collected
// drafts are discarded in that case.
func (m Model) Aborted() bool {
	return m.aborted
}

// Drafts returns collected entries in chronological order (the wizard
// gathers them newest first).
func (m Model) Drafts() []Draft {
	out := make([]Draft, len(m.drafts))
	for i, d := range m.drafts {
		out[len(m.drafts)-1-i] = d
	}
	return out
}
