package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"mtgtally/internal/config"
	"mtgtally/internal/logging"
	"mtgtally/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	must(err)

	cmd, args := "count", os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "count":
		opts := parseCountFlags(cmd, args, &cfg, cfg.Output)
		log := newLogger(cfg)
		defer func() { _ = log.Sync() }()

		svc := pipeline.NewCountService(log, nil)
		summary, err := svc.WriteText(opts)
		must(err)
		printResult(summary.Output)
	case "export:xlsx":
		opts := parseCountFlags(cmd, args, &cfg, cfg.XLSXOutput)
		log := newLogger(cfg)
		defer func() { _ = log.Sync() }()

		svc := pipeline.NewCountService(log, nil)
		summary, err := svc.WriteXLSX(opts)
		must(err)
		printResult(summary.Output)
	case "help":
		usage()
	default:
		usage()
		os.Exit(1)
	}
}

func parseCountFlags(cmd string, args []string, cfg *config.Config, defaultOutput string) pipeline.CountOptions {
	fs := pflag.NewFlagSet(cmd, pflag.ContinueOnError)
	fs.StringVarP(&cfg.Dir, "dir", "d", cfg.Dir, "directory holding the deck lists")
	fs.StringVarP(&cfg.Pattern, "glob", "g", cfg.Pattern, "file name pattern of the deck lists")
	output := fs.StringP("output", "o", defaultOutput, "output file path")
	fs.IntVarP(&cfg.MinTotal, "min", "m", cfg.MinTotal, "only include cards with at least this many copies")
	fs.StringVarP(&cfg.Label, "label", "l", cfg.Label, "report title")
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			os.Exit(0)
		}
		must(err)
	}
	if fs.NArg() > 0 {
		must(fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " ")))
	}

	cfg.Output = *output
	must(cfg.Validate())

	return pipeline.CountOptions{
		Dir:       cfg.Dir,
		Pattern:   cfg.Pattern,
		Output:    cfg.Output,
		Threshold: cfg.MinTotal,
		Label:     cfg.Label,
	}
}

func newLogger(cfg config.Config) *zap.Logger {
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	must(err)
	return log
}

func printResult(output string) {
	abs, err := filepath.Abs(output)
	if err != nil {
		abs = output
	}
	fmt.Printf("results written to %q\n", filepath.Base(output))
	fmt.Printf("  location: %s\n", abs)
}

func usage() {
	fmt.Println("usage: mtgtally [command] [flags]")
	fmt.Println("commands:")
	fmt.Println("  count        (default) write the text report")
	fmt.Println("  export:xlsx  write the report as a spreadsheet")
	fmt.Println("flags:")
	fmt.Println("  -d, --dir=.               directory holding the deck lists")
	fmt.Println("  -g, --glob=*.txt          file name pattern of the deck lists")
	fmt.Println("  -o, --output=PATH         card_counts.txt | card_counts.xlsx")
	fmt.Println("  -m, --min=10              minimum total copies to report")
	fmt.Println("  -l, --label=TEXT          report title")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
