package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/store"
)

var (
	frozenCols []string
	textCols   []string
)

func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage stored column preferences",
	}

	setCmd := &cobra.Command{
		Use:   "set [report]",
		Short: "Replace the frozen and treat-as-text columns of a report",
		Args:  cobra.ExactArgs(1),
		RunE:  runPrefsSet,
	}
	setCmd.Flags().StringSliceVar(&frozenCols, "frozen", nil, "Columns pinned to the left")
	setCmd.Flags().StringSliceVar(&textCols, "text", nil, "Columns forced to the text type")

	showCmd := &cobra.Command{
		Use:   "show [report]",
		Short: "Show the stored preferences of a report",
		Args:  cobra.ExactArgs(1),
		RunE:  runPrefsShow,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List reports with stored preferences",
		Args:  cobra.NoArgs,
		RunE:  runPrefsList,
	}

	cmd.AddCommand(setCmd, showCmd, listCmd)
	return cmd
}

func openPrefs() (*store.SQLitePrefs, error) {
	return store.OpenSQLite(cfg.Prefs.Path, log)
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	s, err := openPrefs()
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Set(contextOf(cmd), args[0], models.ColumnPrefs{Frozen: frozenCols, TreatAsText: textCols})
}

func runPrefsShow(cmd *cobra.Command, args []string) error {
	s, err := openPrefs()
	if err != nil {
		return err
	}
	defer s.Close()
	p, err := s.Get(contextOf(cmd), args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "frozen: %s\n", strings.Join(p.Frozen, ", "))
	fmt.Fprintf(out, "text: %s\n", strings.Join(p.TreatAsText, ", "))
	return nil
}

func runPrefsList(cmd *cobra.Command, args []string) error {
	s, err := openPrefs()
	if err != nil {
		return err
	}
	defer s.Close()
	reports, err := s.Reports(contextOf(cmd))
	if err != nil {
		return err
	}
	for _, r := range reports {
		fmt.Fprintln(cmd.OutOrStdout(), r)
	}
	return nil
}
