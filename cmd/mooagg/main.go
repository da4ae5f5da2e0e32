package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/tebeka/atexit"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"mooagg/codec"
	"mooagg/compiler"
	"mooagg/config"
	"mooagg/driver"
	"mooagg/emit"
	"mooagg/ir"
	"mooagg/parser"
	"mooagg/store"
	"mooagg/trace"
)

// Exit codes
const (
	exitOK          = 0
	exitError       = 1
	exitUnsupported = 2
)

type options struct {
	src         string
	expr        string
	demo        string
	configPath  string
	format      string
	indent      string
	suppress    string
	showIR      bool
	fingerprint bool
	traceOn     bool
	traceFilter string
	run         bool
	doc         string
	id          string
	dbPath      string
	iterations  int
	digits      int
	finalize    string
	verbose     int
}

func main() {
	var o options
	flag.StringVar(&o.src, "src", "", "Source file to compile (or pass it as the first argument)")
	flag.StringVar(&o.expr, "e", "", "Source text to compile")
	flag.StringVar(&o.demo, "demo", "", "Compile a built-in body (pi)")
	flag.StringVar(&o.configPath, "config", "", "Path to mooagg.toml (default: search upward from the working directory)")
	flag.StringVar(&o.format, "format", "", "Output format: json, yaml or cbor")
	flag.StringVar(&o.indent, "indent", "", "JSON indent (overrides [output] indent)")
	flag.StringVar(&o.suppress, "suppress", "", "Extra call names to drop, comma separated")
	flag.BoolVar(&o.showIR, "ir", false, "Print the operation tree instead of the pipeline")
	flag.BoolVar(&o.fingerprint, "fingerprint", false, "Print the pipeline fingerprint to stderr")

	flag.BoolVar(&o.traceOn, "trace", false, "Enable compile and run tracing")
	flag.StringVar(&o.traceFilter, "trace-filter", "", "Trace filter pattern (glob over targets, e.g. 'a' or 'pi*')")

	flag.BoolVar(&o.run, "run", false, "Apply the pipeline to a stored document")
	flag.StringVar(&o.doc, "doc", "", "Seed document: inline JSON or a .json/.yaml/.cbor file")
	flag.StringVar(&o.id, "id", "", "Id of an existing document to update instead of seeding one")
	flag.StringVar(&o.dbPath, "db", "", "SQLite database path (selects the sqlite store)")
	flag.IntVar(&o.iterations, "n", 0, "Number of iterations")
	flag.IntVar(&o.digits, "digits", 0, "Iterate enough Gauss-Legendre rounds for this many digits")
	flag.StringVar(&o.finalize, "finalize", "", "Read-out body applied once after iterating")
	flag.IntVar(&o.verbose, "v", 0, "Log verbosity (0 = errors only)")
	flag.Parse()

	if o.src == "" && flag.NArg() > 0 {
		o.src = flag.Arg(0)
	}

	commonlog.Configure(o.verbose, nil)

	atexit.Exit(realMain(o, os.Stdout))
}

func realMain(o options, out io.Writer) int {
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}
	if o.format != "" {
		cfg.Output.Format = o.format
	}
	if o.indent != "" {
		cfg.Output.Indent = o.indent
	}
	format, err := codec.ParseFormat(cfg.Output.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}

	src, err := readSource(o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}

	tracer := trace.New(o.traceOn, splitList(o.traceFilter), os.Stderr)
	c := compiler.New(compiler.Options{
		Suppress: suppressList(cfg, o),
		Tracer:   tracer,
	})

	if o.showIR {
		return printIR(c, src, out)
	}

	pipeline, err := c.CompileSource(src)
	if err != nil {
		return reportCompileError(err)
	}

	if o.fingerprint {
		fp, err := pipeline.Fingerprint()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitError
		}
		fmt.Fprintf(os.Stderr, "fingerprint %s\n", fp)
	}

	if !o.run {
		if err := codec.Encode(out, format, pipeline.Stages(), cfg.Output.Indent); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitError
		}
		return exitOK
	}

	doc, err := runPipeline(o, cfg, c, tracer, pipeline)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}
	if err := codec.Encode(out, format, doc, cfg.Output.Indent); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	cfg, err := config.FindAndLoad(".")
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return cfg, nil
}

func readSource(o options) (string, error) {
	switch {
	case o.demo != "":
		if o.demo != "pi" {
			return "", fmt.Errorf("unknown demo %q (want pi)", o.demo)
		}
		return driver.PiBody, nil
	case o.expr != "":
		return o.expr, nil
	case o.src != "" && o.src != "-":
		data, err := os.ReadFile(o.src)
		if err != nil {
			return "", fmt.Errorf("cannot read %s: %w", o.src, err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("cannot read stdin: %w", err)
		}
		return string(data), nil
	}
}

// suppressList joins the configured and flag suppressions into a new slice
func suppressList(cfg *config.Config, o options) []string {
	extra := splitList(o.suppress)
	names := make([]string, 0, len(cfg.Compiler.Suppress)+len(extra))
	names = append(names, cfg.Compiler.Suppress...)
	return append(names, extra...)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printIR(c *compiler.Compiler, src string, out io.Writer) int {
	stmts, err := parser.ParseProgram(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: parse error: %v\n", err)
		return exitError
	}
	nodes, err := c.Statements(stmts)
	if err != nil {
		return reportCompileError(err)
	}
	for i, n := range nodes {
		fmt.Fprintf(out, "--- stage %d ---\n%s\n", i+1, ir.Dump(n))
	}
	return exitOK
}

func reportCompileError(err error) int {
	var uerr *compiler.UnsupportedConstructError
	if errors.As(err, &uerr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", uerr)
		return exitUnsupported
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return exitError
}

func runPipeline(o options, cfg *config.Config, c *compiler.Compiler, tracer *trace.Tracer, pipeline emit.Pipeline) (map[string]any, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	storeOpts := store.Options{
		Driver:     cfg.Store.Driver,
		Path:       cfg.StorePath(),
		Collection: cfg.Store.Collection,
	}
	if o.dbPath != "" {
		storeOpts.Driver = store.DriverSQLite
		storeOpts.Path = o.dbPath
	}
	coll, err := store.Open(ctx, storeOpts)
	if err != nil {
		return nil, err
	}
	atexit.Register(func() { coll.Close() })

	id := o.id
	if id == "" {
		seed, err := seedDocument(o)
		if err != nil {
			return nil, err
		}
		if id, err = coll.InsertOne(ctx, seed); err != nil {
			return nil, err
		}
	}

	d := driver.New(coll, tracer)
	res, err := d.Iterate(ctx, id, pipeline, iterationCount(o, cfg))
	if err != nil {
		return nil, err
	}

	readout := o.finalize
	if readout == "" && o.demo == "pi" {
		readout = driver.PiReadout
	}
	if readout == "" {
		return res.Doc, nil
	}
	final, err := c.CompileSource(readout)
	if err != nil {
		return nil, fmt.Errorf("finalize: %w", err)
	}
	return d.Finalize(ctx, id, driver.AddFields(final))
}

// iterationCount prefers flags over config, and counts over digits
func iterationCount(o options, cfg *config.Config) int {
	switch {
	case o.iterations > 0:
		return o.iterations
	case o.digits > 0:
		return driver.Iterations(o.digits)
	case cfg.Run.Iterations > 0:
		return cfg.Run.Iterations
	case cfg.Run.Digits > 0:
		return driver.Iterations(cfg.Run.Digits)
	default:
		return 1
	}
}

func seedDocument(o options) (map[string]any, error) {
	doc := strings.TrimSpace(o.doc)
	switch {
	case doc == "" && o.demo == "pi":
		return driver.PiSeed(), nil
	case doc == "":
		return map[string]any{}, nil
	case strings.HasPrefix(doc, "{"):
		return codec.DecodeDocument(codec.JSON, []byte(doc))
	}

	data, err := os.ReadFile(doc)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", doc, err)
	}
	format := codec.JSON
	switch strings.ToLower(filepath.Ext(doc)) {
	case ".yaml", ".yml":
		format = codec.YAML
	case ".cbor":
		format = codec.CBOR
	}
	return codec.DecodeDocument(format, data)
}
