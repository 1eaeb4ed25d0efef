package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/a3tai/mcp-pdf-identity/internal/config"
	"github.com/a3tai/mcp-pdf-identity/internal/extract"
	"github.com/a3tai/mcp-pdf-identity/internal/logger"
	"github.com/a3tai/mcp-pdf-identity/internal/ner"
	"github.com/a3tai/mcp-pdf-identity/internal/pdf"
	"github.com/a3tai/mcp-pdf-identity/internal/reference"
)

type options struct {
	reference string
	entities  string
	text      string
	profile   string
	nerURL    string
	format    string
	verbose   bool
	help      bool
	path      string
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opts options
	fs := pflag.NewFlagSet("identity_extract", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.reference, "reference", "", "Reference file (JSON or \"clave: valor\" lines) to compare against")
	fs.StringVar(&opts.entities, "entities", "", "Only extract these kinds, e.g. \"dni,cuit\"")
	fs.StringVar(&opts.text, "text", "", "Analyze this text instead of a file")
	fs.StringVar(&opts.profile, "profile", "", "Extraction profile (YAML, JSON or TOML)")
	fs.StringVar(&opts.nerURL, "ner-url", "", "Person NER endpoint")
	fs.StringVar(&opts.format, "format", "json", "Output format: json, text")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging on stderr")
	fs.BoolVar(&opts.help, "help", false, "Show help message")
	fs.Usage = func() { printUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if opts.help {
		printHelp(stdout)
		return 0
	}
	if opts.text == "" && fs.NArg() == 0 {
		fmt.Fprintf(stderr, "Error: document path or --text required\n\n")
		printUsage(stderr)
		return 2
	}
	if opts.format != "json" && opts.format != "text" {
		fmt.Fprintf(stderr, "Error: unknown format %q\n", opts.format)
		return 2
	}
	opts.path = fs.Arg(0)

	lc := logger.DefaultConfig()
	lc.Output = stderr
	lc.Level = logger.WarnLevel
	if opts.verbose {
		lc.Level = logger.DebugLevel
	}
	log := logger.New(lc)

	out, err := execute(ctx, opts, log)
	if err != nil {
		reportError(stderr, err)
		return 1
	}
	if err := write(stdout, opts.format, out); err != nil {
		fmt.Fprintf(stderr, "Error writing output: %v\n", err)
		return 1
	}
	return 0
}

func newEngine(opts options, log logger.Logger) (*extract.Engine, error) {
	cfg := extract.DefaultConfig()
	if opts.profile != "" {
		var err error
		if cfg, err = config.LoadProfile(opts.profile, cfg); err != nil {
			return nil, err
		}
	}
	engineOpts := []extract.Option{extract.WithLogger(log)}
	if opts.nerURL != "" {
		r, err := ner.NewHTTPRecognizer(ner.HTTPConfig{
			URL:     opts.nerURL,
			Timeout: cfg.NERTimeout,
			Retries: config.DefaultNERRetries,
		})
		if err != nil {
			return nil, err
		}
		engineOpts = append(engineOpts, extract.WithRecognizer(r))
	}
	return extract.NewEngine(cfg, engineOpts...)
}

// execute returns either an *extract.Report or an *extract.EntitiesReport.
func execute(ctx context.Context, opts options, log logger.Logger) (any, error) {
	engine, err := newEngine(opts, log)
	if err != nil {
		return nil, err
	}

	pages, source, err := loadInput(ctx, opts, log)
	if err != nil {
		return nil, err
	}

	if opts.entities != "" {
		kinds, err := extract.ParseEntityKinds([]string{opts.entities})
		if err != nil {
			return nil, err
		}
		rep, err := engine.ExtractEntities(ctx, pages, kinds)
		if err != nil {
			return nil, err
		}
		rep.Source = source
		return rep, nil
	}

	var fields []reference.Field
	if opts.reference != "" {
		if fields, err = extract.ParseReferenceFile(opts.reference); err != nil {
			return nil, err
		}
	}
	return engine.Compare(ctx, pages, fields)
}

// loadInput reads --text, or the document confined to its own directory.
func loadInput(ctx context.Context, opts options, log logger.Logger) ([]string, string, error) {
	if opts.text != "" {
		return []string{opts.text}, "", nil
	}
	abs, err := filepath.Abs(opts.path)
	if err != nil {
		return nil, "", err
	}
	docs, err := pdf.NewService(pdf.DefaultConfig(), filepath.Dir(abs), log)
	if err != nil {
		return nil, "", err
	}
	pages, err := extract.LoadPages(ctx, docs, abs)
	if err != nil {
		return nil, "", err
	}
	return pages, opts.path, nil
}

func write(w io.Writer, format string, v any) error {
	if format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	}
	switch r := v.(type) {
	case *extract.Report:
		return writeReportText(w, r)
	case *extract.EntitiesReport:
		return writeEntitiesText(w, r)
	}
	return fmt.Errorf("unsupported result %T", v)
}

func writeReportText(w io.Writer, r *extract.Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Persons found: %d\n", len(r.Persons))
	for i, p := range r.Persons {
		name := "(sin nombre)"
		if p.Name != nil {
			name = *p.Name
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, name)
		for _, kv := range []struct {
			label string
			value *string
		}{
			{"DNI", p.Identifiers.DNI},
			{"CUIL", p.Identifiers.CUIL},
			{"CUIT", p.Identifiers.CUIT},
			{"CUIF", p.Identifiers.CUIF},
			{"MATRICULA", p.Identifiers.Matricula},
		} {
			if kv.value != nil {
				fmt.Fprintf(&b, "   %s: %s\n", kv.label, *kv.value)
			}
		}
		for _, c := range p.Conflicts {
			fmt.Fprintf(&b, "   conflict %s: %s\n", c.Kind, strings.Join(c.Values, ", "))
		}
		if len(p.Aliases) > 0 {
			fmt.Fprintf(&b, "   aliases: %s\n", strings.Join(p.Aliases, "; "))
		}
	}
	if len(r.Invalid) > 0 {
		fmt.Fprintf(&b, "\nInvalid identifiers: %d\n", len(r.Invalid))
		for _, inv := range r.Invalid {
			fmt.Fprintf(&b, "   %s %s: %s\n", inv.Kind, inv.Value, inv.Detail)
		}
	}
	if r.ComparisonPerformed {
		fmt.Fprintf(&b, "\nComparison:\n")
		for _, c := range r.ComparisonResult {
			best := "-"
			if c.Best != nil {
				best = *c.Best
			}
			fmt.Fprintf(&b, "   %s: %q vs %q -> %.2f (%s)\n", c.Field, c.Reference, best, c.Score, c.Category)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeEntitiesText(w io.Writer, r *extract.EntitiesReport) error {
	var b strings.Builder
	for _, kind := range r.Requested {
		fmt.Fprintf(&b, "%s (%d)\n", kind, r.Summary[kind])
		for _, e := range r.Results[kind] {
			value := e.Value
			if value == "" {
				value = e.Name
			}
			fmt.Fprintf(&b, "   %s", value)
			if e.Valid != nil && !*e.Valid {
				fmt.Fprintf(&b, " [invalid: %s]", e.Reason)
			}
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func reportError(w io.Writer, err error) {
	if ie, ok := extract.IsInputError(err); ok {
		fmt.Fprintf(w, "Error: %s: %s\n", ie.Type, ie.Message)
		if ie.Cause != nil {
			fmt.Fprintf(w, "  cause: %v\n", ie.Cause)
		}
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "  identity_extract [OPTIONS] <document.pdf|document.txt>")
	fmt.Fprintln(w, "  identity_extract [OPTIONS] --text \"...\"")
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Identity Extract - find people and identifiers in Argentine legal documents")
	fmt.Fprintln(w)
	printUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "OPTIONS:")
	fmt.Fprintln(w, "  --reference    Compare against a reference file")
	fmt.Fprintln(w, "  --entities     Only extract these kinds (nombre, dni, cuil, cuit, cuif, matricula)")
	fmt.Fprintln(w, "  --text         Analyze text instead of a file")
	fmt.Fprintln(w, "  --profile      Extraction profile overriding thresholds, windows and vocabularies")
	fmt.Fprintln(w, "  --ner-url      Person NER endpoint used when no contextual rule decides")
	fmt.Fprintln(w, "  --format       Output format: json (default), text")
	fmt.Fprintln(w, "  --verbose      Enable debug logging")
	fmt.Fprintln(w, "  --help         Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "EXAMPLES:")
	fmt.Fprintln(w, "  identity_extract demanda.pdf")
	fmt.Fprintln(w, "  identity_extract --reference expediente.json demanda.pdf")
	fmt.Fprintln(w, "  identity_extract --entities cuit,cuil --format text contrato.pdf")
	fmt.Fprintln(w, "  identity_extract --text \"el Sr. PÉREZ JUAN, DNI 23.456.789\"")
}
