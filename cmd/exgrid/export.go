package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ukaji3/exgrid-go/pkg/exgrid"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/config"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/export"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/logging"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/source"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/store"
)

var (
	rulesPath  string
	formatName string
	outputPath string
	filters    []string
	sorts      []string
	viewport   string
	sheetName  string
	reportName string
	title      string
	client     string
	dateFrom   string
	dateTo     string
	logoPath   string
	mailTo     string
	timeout    time.Duration
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [rows.json|rows.xlsx]",
		Short: "Export the derived view as CSV, XLSX or PDF",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	addViewFlags(cmd)
	cmd.Flags().StringVarP(&formatName, "format", "f", "", "Output format: csv, xlsx, pdf (default: from --output, else csv)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Filter col:op:value or col:dateRange:from:to (repeatable)")
	cmd.Flags().StringArrayVar(&sorts, "sort", nil, "Sort key col[:asc|desc] (repeatable, applied in order)")
	cmd.Flags().StringVar(&title, "title", "", "Document title (default: report name)")
	cmd.Flags().StringVar(&client, "client", "", "Client shown under the title")
	cmd.Flags().StringVar(&dateFrom, "from", "", "Period start shown under the title")
	cmd.Flags().StringVar(&dateTo, "to", "", "Period end shown under the title")
	cmd.Flags().StringVar(&logoPath, "logo", "", "Logo image (PNG, JPEG or BMP)")
	cmd.Flags().StringVar(&mailTo, "mail-to", "", "Mail the document to this recipient")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Export timeout")
	return cmd
}

// addViewFlags registers the flags shared by commands that derive a view.
func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "Formatting rules file (.toml, .yaml, .json)")
	cmd.Flags().StringVar(&viewport, "viewport", "wide", "Viewport: narrow, medium, wide (or mobile, tablet, desktop)")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "Worksheet to read (default: first sheet)")
	cmd.Flags().StringVar(&reportName, "report", "", "Report name used for stored column preferences")
}

func runExport(cmd *cobra.Command, args []string) error {
	f, err := resolveFormat()
	if err != nil {
		return err
	}
	filterSet, err := parseFilters(filters)
	if err != nil {
		return err
	}
	sortSpec, err := parseSort(sorts)
	if err != nil {
		return err
	}

	stats := logging.NewStats()
	view, err := deriveView(contextOf(cmd), args[0], exgrid.Input{Filters: filterSet, Sort: sortSpec}, stats)
	if err != nil {
		return err
	}
	defer stats.Log(log)

	meta, err := buildMeta()
	if err != nil {
		return err
	}
	docTitle := title
	if docTitle == "" {
		docTitle = reportName
	}
	table := view.Table(docTitle, meta)

	w, err := newWriter(f, cfg)
	if err != nil {
		return err
	}
	exporter := export.NewExporter(log)
	exporter.Limits = cfg.Limits

	ctx, cancel := context.WithTimeout(contextOf(cmd), timeout)
	defer cancel()

	var doc []byte
	if mailTo != "" {
		if cfg.Mail.Endpoint == "" {
			return errors.New("mail endpoint is not configured (mail.endpoint)")
		}
		mailer := export.NewHTTPMailer(cfg.Mail.Endpoint, cfg.Mail.PerMinute)
		if cfg.Mail.Token != "" {
			mailer.Header = http.Header{"Authorization": []string{"Bearer " + cfg.Mail.Token}}
		}
		req := export.MailRequest{Recipient: mailTo, ReportName: docTitle}
		doc, err = exporter.Dispatch(ctx, w, mailer, table, req)
		var de *export.DispatchError
		if errors.As(err, &de) && outputPath != "" {
			// Keep the document so it can be sent manually.
			if werr := writeOutput(cmd.OutOrStdout(), de.Document); werr != nil {
				return werr
			}
			return err
		}
		if err != nil {
			return err
		}
		if outputPath == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "mailed %s to %s\n", export.FileName(docTitle, f), mailTo)
			return nil
		}
	} else {
		doc, err = exporter.Export(ctx, w, table)
		if err != nil {
			return err
		}
	}
	return writeOutput(cmd.OutOrStdout(), doc)
}

// deriveView reads rows and rules, loads stored preferences and runs the pipeline.
func deriveView(ctx context.Context, input string, in exgrid.Input, stats *logging.Stats) (*exgrid.View, error) {
	if _, err := os.Stat(input); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", input)
	}
	rows, err := source.ReadFile(input, source.XLSXOptions{Sheet: sheetName})
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", input, exgrid.ErrNoRows)
	}
	rules, err := config.LoadRules(rulesPath, log)
	if err != nil {
		return nil, err
	}
	prefs, err := loadPrefs(ctx)
	if err != nil {
		return nil, err
	}

	opts := exgrid.DefaultOptions()
	if cfg.Locale != "" {
		opts.Locale = cfg.Locale
	}
	opts.LegacyDateCheck = cfg.LegacyDateCheck
	opts.Announcer = logging.Announcer{Logger: log}
	opts.Stats = stats
	opts.Logger = log

	in.Rows = rows
	in.Rules = rules
	in.Prefs = prefs
	in.Viewport = models.Viewport(viewport)
	view, err := exgrid.New(opts).Run(in)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// loadPrefs returns stored column preferences when a report is named.
func loadPrefs(ctx context.Context) (models.ColumnPrefs, error) {
	if reportName == "" {
		return models.ColumnPrefs{}, nil
	}
	if _, err := os.Stat(cfg.Prefs.Path); os.IsNotExist(err) {
		return models.ColumnPrefs{}, nil
	}
	s, err := store.OpenSQLite(cfg.Prefs.Path, log)
	if err != nil {
		return models.ColumnPrefs{}, err
	}
	defer s.Close()
	return s.Get(ctx, reportName)
}

func resolveFormat() (export.Format, error) {
	name := formatName
	if name == "" && outputPath != "" {
		name = filepath.Ext(outputPath)
	}
	if name == "" {
		return export.FormatCSV, nil
	}
	f, err := export.ParseFormat(name)
	if err != nil {
		return "", fmt.Errorf("%w (must be csv, xlsx or pdf)", err)
	}
	return f, nil
}

func newWriter(f export.Format, c config.Config) (export.Writer, error) {
	w, err := export.NewWriter(f, log)
	if err != nil {
		return nil, err
	}
	switch w := w.(type) {
	case *export.CSVWriter:
		w.Delimiter = c.CSV.DelimiterRune()
		w.BOM = c.CSV.BOM
	case *export.PDFWriter:
		w.PageSize = c.PDF.PageSize
		w.Orientation = strings.ToUpper(c.PDF.Orientation)
	}
	return w, nil
}

func buildMeta() (export.Meta, error) {
	meta := export.Meta{
		Client:      client,
		DateFrom:    dateFrom,
		DateTo:      dateTo,
		GeneratedAt: time.Now(),
	}
	if logoPath != "" {
		data, err := os.ReadFile(logoPath)
		if err != nil {
			return export.Meta{}, fmt.Errorf("read logo: %w", err)
		}
		meta.Logo = data
	}
	return meta, nil
}

func writeOutput(stdout io.Writer, doc []byte) error {
	if outputPath == "" {
		_, err := stdout.Write(doc)
		return err
	}
	if err := os.WriteFile(outputPath, doc, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
