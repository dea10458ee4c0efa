// html2docbook: convert HTML rich text into DocBook XML content.
//
// Single input mode:
//
//	html2docbook [options] <file|URL|->
//
// Batch mode (one <name>.xml per input):
//
//	html2docbook [options] -d outdir <file|URL> [<file|URL>...]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/adammathes/html2docbook/docbook"
)

// stdout receives converted content when no -o/-d is given.
var stdout io.Writer = os.Stdout

// cliConfig holds parsed command-line options.
type cliConfig struct {
	output         string
	outDir         string
	format         string // "docbook" or "markdown"
	para           bool
	noConvert      bool
	invisibleSpace bool
	standalone     string
	title          string
	check          bool
	assumeHTML     bool
	fetch          fetchOpts
	concurrency    int
	logLevel       string
	silent         bool
	args           []string
}

func defaultConfig() cliConfig {
	return cliConfig{
		format:      "docbook",
		fetch:       defaultFetchOpts(),
		concurrency: 4,
		logLevel:    "info",
	}
}

// parseArgs parses flags, then fills unset options from the config file
// named by --config or $HTML2DOCBOOK_CONFIG.
func parseArgs(args []string) (cliConfig, error) {
	cfg := defaultConfig()
	var configPath string
	var maxMB int64

	fs := flag.NewFlagSet("html2docbook", flag.ContinueOnError)
	fs.StringVarP(&cfg.output, "output", "o", "", "output file (default: stdout)")
	fs.StringVarP(&cfg.outDir, "dir", "d", "", "output directory for batch mode")
	fs.StringVar(&cfg.format, "format", cfg.format, "output format: docbook or markdown")
	fs.BoolVar(&cfg.para, "para", false, "guarantee at least one <para> in the output")
	fs.BoolVar(&cfg.noConvert, "no-convert", false, "do not convert HTML input (it becomes empty)")
	fs.BoolVar(&cfg.invisibleSpace, "invisible-space", false, "insert zero-width break opportunities into plain text")
	fs.StringVar(&cfg.standalone, "standalone", "", "wrap output in a DocBook 5 root: section, chapter or article")
	fs.StringVar(&cfg.title, "title", "", "title for --standalone output")
	fs.BoolVar(&cfg.check, "check", false, "verify the output is well-formed XML")
	fs.BoolVar(&cfg.assumeHTML, "assume-html", false, "treat every input as HTML")
	fs.DurationVar(&cfg.fetch.timeout, "timeout", cfg.fetch.timeout, "HTTP fetch timeout")
	fs.StringVar(&cfg.fetch.userAgent, "user-agent", cfg.fetch.userAgent, "HTTP User-Agent header")
	fs.StringVar(&cfg.fetch.proxy, "proxy", "", "HTTP proxy URL for fetches")
	fs.Int64Var(&maxMB, "max-response-size", cfg.fetch.maxBytes/(1024*1024), "maximum input size in MB (0 = unlimited)")
	fs.IntVar(&cfg.concurrency, "concurrency", cfg.concurrency, "parallel conversions in batch mode")
	fs.StringVar(&cfg.logLevel, "log-level", cfg.logLevel, "log level: debug, info, warn or error")
	fs.BoolVar(&cfg.silent, "silent", false, "suppress all output except errors")
	fs.StringVar(&configPath, "config", os.Getenv(configEnv), "YAML config file")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: html2docbook [options] <file|URL|->\n")
		fmt.Fprintf(os.Stderr, "       html2docbook [options] -d outdir <file|URL> [...]\n\n")
		fmt.Fprintf(os.Stderr, "Convert HTML rich text into DocBook XML content.\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	cfg.fetch.maxBytes = maxMB * 1024 * 1024
	cfg.args = fs.Args()

	if configPath != "" {
		fc, err := loadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		if err := fc.apply(&cfg, fs.Changed); err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.validate()
}

func (c cliConfig) validate() error {
	if c.format != "docbook" && c.format != "markdown" {
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.format)
	}
	if c.standalone != "" && !validStandalone(c.standalone) {
		return fmt.Errorf("%w: --standalone must be one of %s", ErrInvalidConfig, strings.Join(standaloneElements, ", "))
	}
	if c.concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be at least 1", ErrInvalidConfig)
	}
	if c.fetch.maxBytes < 0 {
		return fmt.Errorf("%w: max-response-size must not be negative", ErrInvalidConfig)
	}
	if c.output != "" && c.outDir != "" {
		return fmt.Errorf("%w: -o and -d are mutually exclusive", ErrInvalidConfig)
	}
	return nil
}

// convertText runs the docbook conversion the options ask for.
func convertText(in input, cfg cliConfig) string {
	out := docbook.FixStringHTML(docbook.Text(in.content), !cfg.noConvert)
	if cfg.invisibleSpace && !in.isHTML {
		out = addInvisibleSpaceText(out)
	}
	if cfg.para || cfg.standalone != "" {
		out = docbook.AddDocbook(out)
	}
	return out
}

// markupTagRe matches the tag-like sequences escaping leaves in plain text.
var markupTagRe = regexp.MustCompile(`<[^<>]*>`)

// addInvisibleSpaceText runs docbook.AddInvisibleSpace over the text between
// tags, leaving the tags themselves intact.
func addInvisibleSpaceText(s string) string {
	var b strings.Builder
	last := 0
	for _, loc := range markupTagRe.FindAllStringIndex(s, -1) {
		b.WriteString(docbook.AddInvisibleSpace(s[last:loc[0]]))
		b.WriteString(s[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(docbook.AddInvisibleSpace(s[last:]))
	return b.String()
}

// processInput loads and converts one argument, returning the final output.
func processInput(ctx context.Context, arg string, cfg cliConfig, log *slog.Logger) (string, error) {
	in, err := loadInput(ctx, arg, cfg, log)
	if err != nil {
		return "", err
	}
	log.Debug("loaded input", "input", arg, "html", in.isHTML, "size", humanSize(int64(len(in.content))))

	if cfg.format == "markdown" {
		return convertToMarkdown(in)
	}

	out := convertText(in, cfg)
	if cfg.standalone != "" {
		title := pickTitle(cfg.title, in.title, extractTitle(in.content), in.name)
		out = wrapStandalone(cfg.standalone, title, out)
	}
	if cfg.check {
		stats, err := checkDocBook(out, log)
		if err != nil {
			return "", fmt.Errorf("%s: %w", arg, err)
		}
		log.Info("check passed", "input", arg, "elements", stats.String())
	}
	return out, nil
}

// outputExt is the file extension for batch output in the chosen format.
func (c cliConfig) outputExt() string {
	if c.format == "markdown" {
		return ".md"
	}
	return ".xml"
}

// run executes the main application logic, returning any error.
func run(ctx context.Context, cfg cliConfig) error {
	log := buildLogger(cfg.logLevel, logOut)
	if len(cfg.args) == 0 {
		return ErrNoInput
	}
	if cfg.outDir != "" {
		return runBatch(ctx, cfg, log)
	}
	if len(cfg.args) != 1 {
		return ErrTooManyInputs
	}

	out, err := processInput(ctx, cfg.args[0], cfg, log)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	if cfg.output != "" {
		if err := os.WriteFile(cfg.output, []byte(out), 0644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		pprintf("wrote %s\n", cfg.output)
		return nil
	}
	_, err = io.WriteString(stdout, out)
	return err
}

// runBatch converts every argument into outDir with bounded parallelism.
// Failed inputs are logged and skipped; the run fails only when nothing
// was written.
func runBatch(ctx context.Context, cfg cliConfig, log *slog.Logger) error {
	if err := os.MkdirAll(cfg.outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	targets := batchTargets(cfg.args, cfg.outDir, cfg.outputExt())
	written := make([]bool, len(cfg.args))
	var wg sync.WaitGroup
	sem := make(chan struct{}, cfg.concurrency)

	for i, arg := range cfg.args {
		wg.Add(1)
		go func(i int, arg string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			pprintf("[%d/%d] %s\n", i+1, len(cfg.args), shortInput(arg))
			out, err := processInput(ctx, arg, cfg, log)
			if err != nil {
				log.Error("skipping input", "input", arg, "err", err)
				return
			}
			if err := os.WriteFile(targets[i], []byte(out+"\n"), 0644); err != nil {
				log.Error("skipping input", "input", arg, "err", err)
				return
			}
			written[i] = true
		}(i, arg)
	}
	wg.Wait()

	n := 0
	for _, ok := range written {
		if ok {
			n++
		}
	}
	if n == 0 {
		return ErrNothingWritten
	}
	log.Info("batch complete", "converted", n, "failed", len(cfg.args)-n, "dir", cfg.outDir)
	return nil
}

// batchTargets maps inputs to output paths, numbering repeated names so no
// two inputs write the same file. A numbered name skips any name already
// taken, given or generated.
func batchTargets(args []string, dir, ext string) []string {
	taken := map[string]bool{}
	counts := map[string]int{}
	targets := make([]string, len(args))
	for i, arg := range args {
		base := inputName(arg)
		name := base
		for taken[name] {
			counts[base]++
			name = fmt.Sprintf("%s-%d", base, counts[base]+1)
		}
		taken[name] = true
		targets[i] = filepath.Join(dir, name+ext)
	}
	return targets
}

func main() {
	cfg, err := parseArgs(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.silent {
		logOut = io.Discard
	} else if cfg.output != "" || cfg.outDir != "" {
		progressOut = os.Stdout
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	start := time.Now()

	if err := run(ctx, cfg); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	buildLogger(cfg.logLevel, logOut).Debug("done", "elapsed", time.Since(start).Round(time.Millisecond))
}
