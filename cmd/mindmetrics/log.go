package main

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/mindmetrics/internal/entry"
	"github.com/fyrsmithlabs/mindmetrics/internal/store"
	"github.com/fyrsmithlabs/mindmetrics/internal/tui"
)

var (
	logScore       int
	logTags        []string
	logJournal     string
	logDate        string
	logInteractive bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record a daily mood entry",
	Long: `Record a mood entry for a day.

Examples:
  # Log today's mood
  mindmetrics log --score 7 --tag work --tag exercise --journal "solid day"

  # Log a past day
  mindmetrics log --score 4 --date 2026-08-12

  # Interactive mode: walk backwards through recent days
  mindmetrics log -i`,
	RunE: runLog,
}

func init() {
	logCmd.Flags().IntVar(&logScore, "score", 0, "mood score, 1-10")
	logCmd.Flags().StringArrayVar(&logTags, "tag", nil, "context tag (repeatable)")
	logCmd.Flags().StringVar(&logJournal, "journal", "", "free-text journal entry")
	logCmd.Flags().StringVar(&logDate, "date", "", "entry date as YYYY-MM-DD (default today)")
	logCmd.Flags().BoolVarP(&logInteractive, "interactive", "i", false, "collect entries interactively")
}

func runLog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if logInteractive {
		return runLogInteractive(st)
	}

	date := time.Now()
	if logDate != "" {
		date, err = time.ParseInLocation("2006-01-02", logDate, time.UTC)
		if err != nil {
			return fmt.Errorf("bad --date %q: want YYYY-MM-DD", logDate)
		}
	}

	e, err := entry.New(date, logScore, logTags, logJournal)
	if err != nil {
		return err
	}
	if err := st.Append(e); err != nil {
		if errors.Is(err, store.ErrDuplicateDate) {
			return fmt.Errorf("%w (one entry per day)", err)
		}
		return err
	}

	fmt.Printf("Logged %s: %d/10\n", e.Date.Format("2006-01-02"), e.Score)
	return nil
}

func runLogInteractive(st store.Store) error {
	program := tea.NewProgram(tui.NewModel(time.Now()))
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("interactive wizard: %w", err)
	}

	model, ok := final.(tui.Model)
	if !ok || model.Aborted() {
		fmt.Println("No entries saved.")
		return nil
	}

	var saved int
	for _, d := range model.Drafts() {
		e, err := entry.New(d.Date, d.Score, d.Tags, d.Journal)
		if err != nil {
			return err
		}
		if err := st.Append(e); err != nil {
			if errors.Is(err, store.ErrDuplicateDate) {
				fmt.Printf("Skipped %s: already logged.\n", e.Date.Format("2006-01-02"))
				continue
			}
			return err
		}
		saved++
	}
	fmt.Printf("Saved %d entries. Run 'mindmetrics report' when you're ready.\n", saved)
	return nil
}
