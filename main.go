package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/mcncl/polytyper/internal/analyzer"
	"github.com/mcncl/polytyper/internal/config"
	"github.com/mcncl/polytyper/internal/descriptor"
	"github.com/mcncl/polytyper/internal/errors"
	"github.com/mcncl/polytyper/internal/generator"
	"github.com/mcncl/polytyper/internal/languages"
	"github.com/mcncl/polytyper/internal/logging"
	"github.com/mcncl/polytyper/internal/models"
	"github.com/mcncl/polytyper/internal/options"
	"github.com/mcncl/polytyper/internal/parser"
	"github.com/mcncl/polytyper/internal/schema"
	"github.com/mcncl/polytyper/internal/watch"
)

// CLI defines the command-line interface
type CLI struct {
	Input         string   `help:"Path to the input sample. If not specified, reads from stdin." short:"i" type:"path"`
	Output        string   `help:"Path to the output file. If not specified, writes to stdout." short:"o" type:"path"`
	Lang          string   `help:"Target language. Defaults to the language matching the output file extension, or go." short:"l"`
	RootName      string   `help:"Name for the root type." short:"r"`
	Package       string   `help:"Package or namespace for languages that have one." short:"p"`
	InputFormat   string   `help:"Input format." name:"input-format" default:"auto" enum:"auto,json,yaml,jsonschema"`
	Config        string   `help:"Path to a config file. Defaults to the nearest .polytyper.yml or .polytyper.toml." short:"c" type:"path"`
	Set           []string `help:"Override an option, e.g. typescript.declaration=type. Repeatable." name:"set" sep:"none" placeholder:"KEY=VALUE"`
	Debug         bool     `help:"Enable debug logging." short:"d"`
	Version       bool     `help:"Show version information." short:"v"`
	Interactive   bool     `help:"Run in interactive mode, allowing direct input with Ctrl+D to process." short:"I"`
	Watch         bool     `help:"Regenerate whenever the input file changes." short:"w"`
	ListLanguages bool     `help:"List the supported languages and exit." name:"list-languages"`
}

// Version information
const (
	Version = "0.1.0"
)

func newParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("polytyper"),
		kong.Description("Generate type declarations for twelve languages from a JSON sample"),
		kong.UsageOnError(),
	)
}

func main() {
	var cli CLI
	p, err := newParser(&cli)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// With no arguments at all, fall back to interactive mode
	if len(os.Args) == 1 {
		cli.Interactive = true
	}

	if _, err := p.Parse(os.Args[1:]); err != nil {
		p.FatalIfErrorf(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, &cli, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: polytyper --help\n")
		stop()
		os.Exit(1)
	}
}

// app carries everything one invocation needs.
type app struct {
	cli  *CLI
	opts options.Options
	log  *zap.SugaredLogger

	stdin          io.Reader
	stdout, stderr io.Writer
}

// run executes the main program logic
func run(ctx context.Context, cli *CLI, stdin io.Reader, stdout, stderr io.Writer) error {
	if cli.Version {
		fmt.Fprintf(stdout, "polytyper version %s\n", Version)
		return nil
	}

	registry := languages.Registry()
	if cli.ListLanguages {
		return listLanguages(stdout, registry)
	}

	configPath := cli.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	lang := resolveLanguage(cli, registry)
	cfg, opts, err := config.LoadConfigWithCLI(configPath, config.Overrides{
		RootName: cli.RootName,
		Package:  cli.Package,
		Language: lang,
		Set:      cli.Set,
	})
	if err != nil {
		return err
	}

	a := &app{
		cli:    cli,
		opts:   opts,
		log:    logging.New(cli.Debug || cfg.Dev.Debug, stderr),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
	defer func() { _ = a.log.Sync() }()
	if configPath != "" {
		a.log.Debugw("Loaded config", "path", configPath)
	}

	emitter, err := registry.Get(lang)
	if err != nil {
		return errors.NewInputError("unsupported language '"+lang+"'", err)
	}

	if cli.Watch {
		return a.watch(ctx, emitter)
	}
	return a.generate(emitter)
}

// resolveLanguage picks the --lang value, else the language whose file
// extension ends the output path, else Go.
func resolveLanguage(cli *CLI, registry *generator.Registry) string {
	if cli.Lang != "" {
		return cli.Lang
	}
	if cli.Output != "" {
		out := strings.ToLower(cli.Output)
		best, bestLen := "", 0
		for _, name := range registry.Available() {
			e, _ := registry.Get(name)
			ext := e.FileExtension()
			if strings.HasSuffix(out, ext) && len(ext) > bestLen {
				best, bestLen = name, len(ext)
			}
		}
		if best != "" {
			return best
		}
	}
	return "go"
}

func (a *app) generate(emitter generator.Emitter) error {
	root, opts, err := a.load()
	if err != nil {
		return err
	}
	a.log.Debugw("Inferred descriptor", "language", emitter.Name(), "descriptor", root.String())

	code, err := emitter.Emit(root, opts)
	if err != nil {
		var appErr *errors.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return errors.NewGenerateError("failed to generate "+emitter.Name()+" code", err)
	}
	return a.writeOutput(code, emitter.Name())
}

func (a *app) watch(ctx context.Context, emitter generator.Emitter) error {
	if a.cli.Input == "" {
		return errors.NewInputError("watch mode needs -i", errors.ErrWatchRequiresFile)
	}
	if err := a.generate(emitter); err != nil {
		a.log.Errorw("Initial generation failed", "error", err)
		fmt.Fprintln(a.stderr, errors.UserFriendlyError(err))
	}

	w, err := watch.New(a.cli.Input, func(context.Context) error {
		if err := a.generate(emitter); err != nil {
			fmt.Fprintln(a.stderr, errors.UserFriendlyError(err))
			return err
		}
		return nil
	}, watch.WithLogger(a.log))
	if err != nil {
		return err
	}

	pterm.Info.WithWriter(a.stderr).Printf("Watching %s for changes (Ctrl+C to stop)\n", a.cli.Input)
	return w.Run(ctx)
}

// inputFormat returns the --input-format value, or detects it from the
// input file name. Stdin defaults to JSON.
func (a *app) inputFormat() parser.Format {
	switch a.cli.InputFormat {
	case "json":
		return parser.FormatJSON
	case "yaml":
		return parser.FormatYAML
	case "jsonschema":
		return parser.FormatJSONSchema
	}
	if a.cli.Input != "" {
		return parser.DetectFormat(a.cli.Input)
	}
	return parser.FormatJSON
}

// load reads the input and returns its descriptor together with the options
// to emit it with. A JSON Schema title becomes the root name unless one was
// configured.
func (a *app) load() (descriptor.Descriptor, options.Options, error) {
	opts := a.opts
	format := a.inputFormat()
	a.log.Debugw("Reading input", "file", a.cli.Input, "format", string(format))

	if format == parser.FormatJSONSchema {
		s, err := a.readSchema()
		if err != nil {
			return nil, opts, err
		}
		conv := schema.NewConverter(s)
		root, err := conv.Convert()
		if err != nil {
			return nil, opts, err
		}
		if title := strings.TrimSpace(conv.Title()); title != "" && opts.RootName == options.DefaultRootName {
			opts.RootName = generator.Pascal(title)
		}
		return root, opts, nil
	}

	ir, err := a.readSample(format)
	if err != nil {
		return nil, opts, err
	}
	root, err := analyzer.NewAnalyzerWithOptions(opts).Analyze(ir)
	if err != nil {
		return nil, opts, errors.NewAnalysisError("failed to analyze input structure", err)
	}
	return root, opts, nil
}

func (a *app) readSample(format parser.Format) (models.IntermediateRepresentation, error) {
	if a.cli.Input != "" {
		return parser.ParseFileAs(a.cli.Input, format)
	}
	data, err := a.readStdin()
	if err != nil {
		return models.IntermediateRepresentation{}, err
	}
	return parser.ParseStringAs(data, format)
}

func (a *app) readSchema() (*schema.Schema, error) {
	if a.cli.Input != "" {
		return schema.ParseFile(a.cli.Input)
	}
	data, err := a.readStdin()
	if err != nil {
		return nil, err
	}
	return schema.ParseString(data)
}

// readStdin reads piped input, or prompts for it in interactive mode.
func (a *app) readStdin() (string, error) {
	if isTerminal(a.stdin) {
		if !a.cli.Interactive {
			return "", errors.NewInputError("no input provided", errors.ErrNoInput)
		}
		pterm.Info.WithWriter(a.stderr).Println("Paste your sample below and press Ctrl+D (or Ctrl+Z on Windows) when done:")
	}

	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", errors.NewInputError("failed to read from stdin", err)
	}
	if len(data) == 0 {
		return "", errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return string(data), nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// writeOutput writes code to file or stdout
func (a *app) writeOutput(code, lang string) error {
	if a.cli.Output != "" {
		if dir := filepath.Dir(a.cli.Output); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.NewOutputError(fmt.Sprintf("failed to create directory '%s'", dir), err)
			}
		}
		if err := os.WriteFile(a.cli.Output, []byte(code), 0o644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", a.cli.Output), err)
		}
		pterm.Success.WithWriter(a.stderr).Printf("Generated %s code written to %s\n", lang, a.cli.Output)
		return nil
	}

	if _, err := fmt.Fprintln(a.stdout, strings.TrimSpace(code)); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

func listLanguages(w io.Writer, registry *generator.Registry) error {
	data := pterm.TableData{{"Language", "Aliases", "Extension"}}
	for _, name := range registry.Available() {
		e, err := registry.Get(name)
		if err != nil {
			return err
		}
		data = append(data, []string{name, strings.Join(registry.AliasesOf(name), ", "), e.FileExtension()})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.NewOutputError("failed to render language table", err)
	}
	_, err = fmt.Fprintln(w, table)
	return err
}
