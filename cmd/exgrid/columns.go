package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ukaji3/exgrid-go/pkg/exgrid"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/logging"
)

var asJSON bool

func newColumnsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "columns [rows.json|rows.xlsx]",
		Short: "Print the derived column specs",
		Args:  cobra.ExactArgs(1),
		RunE:  runColumns,
	}
	addViewFlags(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of YAML")
	return cmd
}

func runColumns(cmd *cobra.Command, args []string) error {
	view, err := deriveView(contextOf(cmd), args[0], exgrid.Input{}, logging.NewStats())
	if err != nil {
		return err
	}

	var data []byte
	if asJSON {
		data, err = json.MarshalIndent(view.Columns, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	} else {
		data, err = yaml.Marshal(view.Columns)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
