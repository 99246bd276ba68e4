// Copyright 2021, 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Command stockcov analyzes the stock coverage of an ERP's ABC curve
// and stock reports.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/UNO-SOFT/zlog/v2"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/peterbourgon/ff/v3/ffyaml"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/UNO-SOFT/stockcover"
	"github.com/UNO-SOFT/stockcover/classify"
	"github.com/UNO-SOFT/stockcover/coverage"
	"github.com/UNO-SOFT/stockcover/parser"
	"github.com/UNO-SOFT/stockcover/report"
	"github.com/UNO-SOFT/stockcover/server"
	"github.com/UNO-SOFT/stockcover/source"
)

var verbose zlog.VerboseVar
var logger = zlog.NewLogger(zlog.MaybeConsoleHandler(&verbose, os.Stderr)).SLog()

func main() {
	if err := Main(); err != nil {
		args := []any{"error", err}
		if hint := stockcover.CategoryOf(err).Hint(); hint != "" {
			args = append(args, "hint", hint)
		}
		logger.Error("MAIN", args...)
		os.Exit(1)
	}
}

// ffOptions are shared by every command: flags may come from the
// environment (STOCKCOV_*) or from a YAML -config file.
var ffOptions = []ff.Option{
	ff.WithEnvVarPrefix("STOCKCOV"),
	ff.WithConfigFileFlag("config"),
	ff.WithConfigFileParser(ffyaml.Parser),
	ff.WithAllowMissingConfigFile(true),
}

// runFlags are the analysis flags of analyze and serve.
type runFlags struct {
	rules, join, services, charset, today *string
	periodDays                           *int
}

func newRunFlags(fs *flag.FlagSet) runFlags {
	fs.String("config", "", "config file (YAML)")
	return runFlags{
		rules:      fs.String("rules", "", "section rules file (YAML), see the rules command"),
		join:       fs.String("join", "right", "join policy: right (every stock product) or inner"),
		services:   fs.String("services", "first", "service of multi-section products: first or count"),
		charset:    fs.String("charset", stockcover.EncName, "csv charset name"),
		today:      fs.String("today", "", "reference date of the breakage dates (DD/MM/YYYY), default: now"),
		periodDays: fs.Int("period-days", 0, "override the detected period length (days)"),
	}
}

func (f runFlags) options() (coverage.RunOptions, error) {
	var opts coverage.RunOptions
	var err error
	if opts.Join, err = coverage.ParseJoinPolicy(*f.join); err != nil {
		return opts, err
	}
	if opts.Service, err = coverage.ParseServicePolicy(*f.services); err != nil {
		return opts, err
	}
	if *f.rules != "" {
		if opts.Rules, err = classify.LoadRules(*f.rules); err != nil {
			return opts, err
		}
	}
	if *f.today != "" {
		t, err := time.Parse(parser.DateLayout, *f.today)
		if err != nil {
			return opts, fmt.Errorf("today=%q: %w", *f.today, err)
		}
		opts.Now = func() time.Time { return t }
	}
	if *f.periodDays < 0 {
		return opts, fmt.Errorf("period-days=%d: must not be negative", *f.periodDays)
	}
	opts.PeriodDays = *f.periodDays
	opts.Logger = logger
	return opts, nil
}

func Main() error {
	slog.SetDefault(logger)
	fs := flag.NewFlagSet("stockcov", flag.ContinueOnError)
	fs.Var(&verbose, "v", "logging verbosity")
	fs.String("config", "", "config file (YAML)")

	analyzeCmd := newAnalyzeCmd()
	inspectCmd := newInspectCmd()
	serveCmd := newServeCmd()
	rulesCmd := newRulesCmd()

	app := &ffcli.Command{Name: "stockcov", FlagSet: fs, Options: ffOptions,
		ShortUsage:  "stockcov [flags] <analyze|inspect|serve|rules> [flags] [args]",
		Subcommands: []*ffcli.Command{analyzeCmd, inspectCmd, serveCmd, rulesCmd},
	}
	app.Exec = func(ctx context.Context, args []string) error {
		fmt.Fprintln(os.Stderr, ffcli.DefaultUsageFunc(app))
		return nil
	}

	if err := app.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return app.Run(ctx)
}

func newAnalyzeCmd() *ffcli.Command {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	rf := newRunFlags(fs)
	flagCurve := fs.String("curve", "", "ABC curve report (.xlsx or .csv)")
	flagStock := fs.String("stock", "", "stock report (.xlsx or .csv)")
	flagOut := fs.String("o", "", "output file (.xlsx, .pdf, .html, .csv, .csv.gz, .json, .json.gz); - for JSON on stdout; default: summary on stdout")
	flagCritical := fs.Bool("critical", false, "CSV: critical products only")
	flagBOM := fs.Bool("bom", false, "CSV: write an UTF-8 BOM")
	return &ffcli.Command{Name: "analyze", FlagSet: fs, Options: ffOptions,
		ShortUsage: "analyze -curve curve.xlsx -stock stock.xlsx [-o out.xlsx]",
		ShortHelp:  "analyze the coverage of the stock",
		Exec: func(ctx context.Context, args []string) error {
			if *flagCurve == "" && len(args) > 0 {
				*flagCurve, args = args[0], args[1:]
			}
			if *flagStock == "" && len(args) > 0 {
				*flagStock = args[0]
			}
			if *flagCurve == "" || *flagStock == "" {
				return fmt.Errorf("both -curve and -stock are required: %w", flag.ErrHelp)
			}
			opts, err := rf.options()
			if err != nil {
				return err
			}
			curve, err := source.ReadFile(*flagCurve, *rf.charset)
			if err != nil {
				return err
			}
			stock, err := source.ReadFile(*flagStock, *rf.charset)
			if err != nil {
				return err
			}
			res, err := coverage.Run(ctx, curve, stock, opts)
			if err != nil {
				return err
			}

			switch out := *flagOut; out {
			case "":
				return printSummary(os.Stdout, res)
			case "-":
				return report.Write(os.Stdout, report.FormatJSON, res, report.Options{})
			default:
				format, gz, err := report.FormatOf(out)
				if err != nil {
					return err
				}
				fh, err := os.Create(out)
				if err != nil {
					return err
				}
				defer fh.Close()
				if err := report.Write(fh, format, res, report.Options{
					CriticalOnly: *flagCritical, BOM: *flagBOM, Gzip: gz,
				}); err != nil {
					return fmt.Errorf("%q: %w", out, err)
				}
				logger.Info("written", "file", out, "format", format, "rows", len(res.Rows))
				return fh.Close()
			}
		},
	}
}

// printSummary prints the summary, the alerts and the most urgent products.
func printSummary(w io.Writer, res *coverage.Result) error {
	p := message.NewPrinter(language.Spanish)
	s := res.Summary
	p.Fprintf(w, "Período: %s\n", res.Period)
	if !res.Period.Detected {
		p.Fprintf(w, "  (período no encontrado en el reporte, se usa el período por defecto)\n")
	}
	p.Fprintf(w, "Productos: %d  críticos: %d (%.1f%%)  bajos: %d  valor del inventario: %.2f\n",
		s.Total, s.Critical, s.CriticalPct, s.Low, s.StockValue.Round(2).InexactFloat64())
	for _, a := range res.Alerts {
		p.Fprintf(w, "[%s] %s: %s\n", a.Level, a.Title, a.Message)
	}
	critical := coverage.Critical(res.Rows)
	if len(critical) == 0 {
		return nil
	}
	if len(critical) > 20 {
		critical = critical[:20]
	}
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	fmt.Fprintln(tw, "\nCódigo\tDescripción\tCurva\tStock\tDías\tQuiebre")
	for _, r := range critical {
		p.Fprintf(tw, "%s\t%s\t%s\t%.2f %s\t%.1f\t%s\n",
			r.Code, r.Description, r.Curve, r.StockQuantity, r.Unit, r.CoverageDays, r.BreakageDate)
	}
	return tw.Flush()
}

func newInspectCmd() *ffcli.Command {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.String("config", "", "config file (YAML)")
	flagEnc := fs.String("charset", stockcover.EncName, "csv charset name")
	flagRows := fs.Int("n", 20, "number of rows to print")
	return &ffcli.Command{Name: "inspect", FlagSet: fs, Options: ffOptions,
		ShortUsage: "inspect [-n 20] report.xlsx",
		ShortHelp:  "print the first rows of a report as the parsers see them",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("file name is required: %w", flag.ErrHelp)
			}
			for _, fn := range args {
				grid, err := source.ReadFile(fn, *flagEnc)
				if err != nil {
					return err
				}
				inspect(os.Stdout, fn, grid, *flagRows)
			}
			return nil
		},
	}
}

// inspect prints the grid's first n rows, marking the rows with a product code.
func inspect(w io.Writer, name string, grid stockcover.Grid, n int) {
	fmt.Fprintf(w, "%s: %d rows, %d columns\n", name, len(grid), grid.Width())
	p := parser.ExtractPeriod(grid)
	fmt.Fprintf(w, "period: %s detected=%t\n", p, p.Detected)
	for i, row := range grid {
		if i >= n {
			break
		}
		mark := " "
		if _, col, ok := parser.FindCode(row); ok {
			mark = fmt.Sprintf("%d", col)
		}
		cells := make([]string, len(row))
		for j, c := range row {
			cells[j] = c.String()
		}
		fmt.Fprintf(w, "%4d %s | %s\n", i, mark, strings.Join(cells, " | "))
	}
}

func newServeCmd() *ffcli.Command {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	rf := newRunFlags(fs)
	flagAddr := fs.String("addr", ":8080", "listen address")
	flagMax := fs.Int64("max-upload", server.DefaultMaxUpload, "maximum request size in bytes")
	return &ffcli.Command{Name: "serve", FlagSet: fs, Options: ffOptions,
		ShortUsage: "serve [-addr :8080]",
		ShortHelp:  "serve the analysis over HTTP",
		Exec: func(ctx context.Context, args []string) error {
			opts, err := rf.options()
			if err != nil {
				return err
			}
			h := server.New(server.Config{
				Logger: logger, Run: opts, Charset: *rf.charset, MaxUpload: *flagMax,
			})
			return server.ListenAndServe(ctx, *flagAddr, h, logger)
		},
	}
}

func newRulesCmd() *ffcli.Command {
	fs := flag.NewFlagSet("rules", flag.ContinueOnError)
	flagRules := fs.String("rules", "", "section rules file (YAML) to check")
	return &ffcli.Command{Name: "rules", FlagSet: fs,
		ShortUsage: "rules [-rules rules.yaml]",
		ShortHelp:  "print the (default or checked) section rules as YAML",
		Exec: func(ctx context.Context, args []string) error {
			rules := classify.DefaultRules()
			if *flagRules != "" {
				var err error
				if rules, err = classify.LoadRules(*flagRules); err != nil {
					return err
				}
			}
			b, err := rules.Marshal()
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(b)
			return err
		},
	}
}
