package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/zeromicro/go-zero/core/logx"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsonkit/internal/analyzer"
	"github.com/mcncl/jsonkit/internal/config"
	"github.com/mcncl/jsonkit/internal/converter"
	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/formatter"
	"github.com/mcncl/jsonkit/internal/parser"
	"github.com/mcncl/jsonkit/internal/repair"
)

// Version information
const (
	Version = "0.1.0"
)

// IOFlags selects where a command reads and writes.
type IOFlags struct {
	Input  string `help:"Path to input file. If not specified, reads from stdin." short:"i" type:"path"`
	Output string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
}

// CLI defines the command-line interface
var CLI struct {
	Config  string           `help:"Path to config file. Defaults to the nearest .jsonkit.yml." short:"c" type:"path"`
	Debug   bool             `help:"Enable debug logging." short:"d"`
	Version kong.VersionFlag `help:"Show version information." short:"v"`

	Repair   RepairCmd   `cmd:"" help:"Repair broken JSON (unquoted keys, single quotes, comments, trailing commas, missing brackets)."`
	Validate ValidateCmd `cmd:"" help:"Check that input is valid JSON."`
	Format   FormatCmd   `cmd:"" help:"Pretty-print JSON."`
	Minify   MinifyCmd   `cmd:"" help:"Remove insignificant whitespace from JSON."`
	Yaml     YamlCmd     `cmd:"" help:"Convert JSON to YAML."`
	XML      XMLCmd      `cmd:"" name:"xml" help:"Convert JSON to XML."`
	Extract  ExtractCmd  `cmd:"" help:"Pretty-print JSON stored as a string inside a field."`
	Stats    StatsCmd    `cmd:"" help:"Show size, key count and nesting depth of a JSON document."`
}

// Context holds the runtime context
type Context struct {
	Debug      bool
	ConfigPath string
	Config     *config.Config
}

// load returns the config file settings with command flags applied on top.
func (c *Context) load(o config.Overrides) (*config.Config, error) {
	o.Debug = o.Debug || c.Debug
	cfg, err := config.LoadConfigWithCLI(c.ConfigPath, o)
	if err != nil {
		if c.ConfigPath == "" {
			return nil, errors.NewConfigError("invalid configuration", err)
		}
		return nil, errors.NewConfigError(fmt.Sprintf("failed to load config '%s'", c.ConfigPath), err)
	}
	return cfg, nil
}

// RepairCmd repairs near-JSON.
type RepairCmd struct {
	IOFlags
	Deep bool `help:"Fall back to a more aggressive repair engine when the builtin passes fail."`
}

func (cmd *RepairCmd) Run(ctx *Context) error {
	cfg, err := ctx.load(config.Overrides{Deep: cmd.Deep})
	if err != nil {
		return err
	}
	text, err := readInput(cmd.IOFlags)
	if err != nil {
		return err
	}
	out, err := repair.NewRepairerWithConfig(cfg).Repair(text)
	if err != nil {
		return err
	}
	return writeOutput(cmd.IOFlags, out)
}

// ValidateCmd reports whether input is valid JSON.
type ValidateCmd struct {
	Input string `help:"Path to input file. If not specified, reads from stdin." short:"i" type:"path"`
}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	text, err := readInput(IOFlags{Input: cmd.Input})
	if err != nil {
		return err
	}
	if _, err := formatter.NewFormatter().Validate(text); err != nil {
		return err
	}
	return writeOutput(IOFlags{}, "valid")
}

// FormatCmd pretty-prints JSON.
type FormatCmd struct {
	IOFlags
	Indent int `help:"Spaces per indentation level. Negative values use the config setting." default:"-1"`
}

func (cmd *FormatCmd) Run(ctx *Context) error {
	o := config.Overrides{}
	if cmd.Indent >= 0 {
		o.Indent = &cmd.Indent
	}
	cfg, err := ctx.load(o)
	if err != nil {
		return err
	}
	text, err := readInput(cmd.IOFlags)
	if err != nil {
		return err
	}
	out, err := formatter.NewFormatterWithIndent(cfg.IndentString()).Format(text)
	if err != nil {
		return err
	}
	return writeOutput(cmd.IOFlags, out)
}

// MinifyCmd compacts JSON.
type MinifyCmd struct {
	IOFlags
}

func (cmd *MinifyCmd) Run(ctx *Context) error {
	text, err := readInput(cmd.IOFlags)
	if err != nil {
		return err
	}
	out, err := formatter.NewFormatter().Minify(text)
	if err != nil {
		return err
	}
	return writeOutput(cmd.IOFlags, out)
}

// YamlCmd converts JSON to YAML.
type YamlCmd struct {
	IOFlags
}

func (cmd *YamlCmd) Run(ctx *Context) error {
	text, err := readInput(cmd.IOFlags)
	if err != nil {
		return err
	}
	out, err := converter.NewConverterWithConfig(ctx.Config).ToYAML(text)
	if err != nil {
		return err
	}
	return writeOutput(cmd.IOFlags, out)
}

// XMLCmd converts JSON to XML.
type XMLCmd struct {
	IOFlags
	Root string `help:"Name of the root element." short:"r"`
}

func (cmd *XMLCmd) Run(ctx *Context) error {
	cfg, err := ctx.load(config.Overrides{RootName: cmd.Root})
	if err != nil {
		return err
	}
	text, err := readInput(cmd.IOFlags)
	if err != nil {
		return err
	}
	out, err := converter.NewConverterWithConfig(cfg).ToXML(text)
	if err != nil {
		return err
	}
	return writeOutput(cmd.IOFlags, out)
}

// ExtractCmd pretty-prints JSON stored inside a string field.
type ExtractCmd struct {
	IOFlags
	Field string `help:"Key holding the nested JSON. Keys with dots that are not top-level are read as gjson paths (data.body); escape a literal dot with a backslash." short:"f"`
}

func (cmd *ExtractCmd) Run(ctx *Context) error {
	cfg, err := ctx.load(config.Overrides{Field: cmd.Field})
	if err != nil {
		return err
	}
	text, err := readInput(cmd.IOFlags)
	if err != nil {
		return err
	}
	out, err := converter.NewConverterWithConfig(cfg).ExtractNested(text, "")
	if err != nil {
		return err
	}
	return writeOutput(cmd.IOFlags, out)
}

// StatsCmd summarizes a document.
type StatsCmd struct {
	IOFlags
	Format string `help:"Output format." enum:"json,yaml" default:"json"`
}

func (cmd *StatsCmd) Run(ctx *Context) error {
	text, err := readInput(cmd.IOFlags)
	if err != nil {
		return err
	}
	stats, err := analyzer.NewAnalyzer().Stats(text)
	if err != nil {
		return err
	}

	var data []byte
	if cmd.Format == "yaml" {
		data, err = yaml.Marshal(stats)
	} else {
		data, err = json.MarshalIndent(stats, "", ctx.Config.IndentString())
	}
	if err != nil {
		return errors.NewOutputError("failed to encode stats", err)
	}
	return writeOutput(cmd.IOFlags, string(data))
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("jsonkit"),
		kong.Description("Repair, validate, format and convert JSON"),
		kong.UsageOnError(),
		kong.Vars{"version": "jsonkit version " + Version},
	)

	ctx, err := newContext(CLI.Config, CLI.Debug)
	if err != nil {
		exitWithError(err)
	}
	setupLogging(ctx.Debug)
	logConfigSummary(ctx.Config)

	if err := kctx.Run(ctx); err != nil {
		exitWithError(err)
	}
}

// newContext loads .env, then the config file, then applies global flags.
func newContext(configPath string, debug bool) (*Context, error) {
	config.LoadDotenvOnce()

	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	ctx := &Context{Debug: debug, ConfigPath: configPath}
	cfg, err := ctx.load(config.Overrides{})
	if err != nil {
		return nil, err
	}
	ctx.Config = cfg
	ctx.Debug = cfg.Dev.Debug
	return ctx, nil
}

// setupLogging sends logx output to stderr so stdout only carries results.
func setupLogging(debug bool) {
	logx.MustSetup(logx.LogConf{Encoding: "plain"})
	logx.DisableStat()
	logx.SetWriter(logx.NewWriter(os.Stderr))
	if debug {
		logx.SetLevel(logx.DebugLevel)
	} else {
		logx.SetLevel(logx.ErrorLevel)
	}
}

// logConfigSummary emits the effective settings at debug level.
func logConfigSummary(cfg *config.Config) {
	logx.Debugf("config: format.indent=%d repair.deep=%t", cfg.Format.Indent, cfg.Repair.Deep)
	logx.Debugf("config: xml.root_name=%s xml.singularize_items=%t extract.field=%s",
		cfg.XML.RootName, cfg.XML.SingularizeItems, cfg.Extract.Field)
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
	fmt.Fprintf(os.Stderr, "\nFor help, run: jsonkit --help\n")
	os.Exit(1)
}

// readInput reads text from a file, piped stdin or, on a terminal, interactively.
func readInput(flags IOFlags) (string, error) {
	if flags.Input != "" {
		data, err := parser.ReadFile(flags.Input)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return "", errors.NewInputError("failed to access stdin", err)
	}
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		return readInteractiveInput(os.Stdin)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", errors.NewInputError("failed to read from stdin", err)
	}
	if len(data) == 0 {
		return "", errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return string(data), nil
}

// readInteractiveInput lets users paste a document and finish with Ctrl+D (EOF)
func readInteractiveInput(r io.Reader) (string, error) {
	fmt.Fprintln(os.Stderr, "jsonkit interactive mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(r)
	var b strings.Builder
	for {
		line, err := reader.ReadString('\n')
		b.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.NewInputError("error reading input", err)
		}
	}

	if b.Len() == 0 {
		return "", errors.NewInputError("no input provided", errors.ErrNoInput)
	}
	fmt.Fprintln(os.Stderr)
	return b.String(), nil
}

// writeOutput writes the result to a file or stdout
func writeOutput(flags IOFlags, text string) error {
	text = strings.TrimRight(text, "\n")
	if flags.Output != "" {
		if err := os.WriteFile(flags.Output, []byte(text+"\n"), 0644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", flags.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Output written to %s\n", flags.Output)
		return nil
	}

	if _, err := fmt.Println(text); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}
