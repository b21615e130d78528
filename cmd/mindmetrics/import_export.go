package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/mindmetrics/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import entries from a JSON-lines file or stdin",
	Long: `Import entries from JSON lines, one record per line:

  {"date":"2026-08-12","score":7,"tags":["work"],"journal":"fine day"}

Examples:
  mindmetrics import backup.jsonl
  cat backup.jsonl | mindmetrics import -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export all entries as JSON lines",
	Long: `Export every logged entry as JSON lines, suitable for backup or
re-import. With no argument (or "-") the export goes to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func runImport(cmd *cobra.Command, args []string) error {
	var in io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open import file: %w", err)
		}
		defer f.Close()
		in = f
	}

	entries, err := store.ReadJSONL(in)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return errors.New("no entries to import")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	var imported, skipped int
	for _, e := range entries {
		if err := st.Append(e); err != nil {
			if errors.Is(err, store.ErrDuplicateDate) {
				skipped++
				continue
			}
			return err
		}
		imported++
	}

	fmt.Printf("Imported %d entries (%d duplicates skipped).\n", imported, skipped)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.List()
	if err != nil {
		return fmt.Errorf("load entries: %w", err)
	}

	var out io.Writer = os.Stdout
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return store.WriteJSONL(out, entries)
}
