package main

import (
	"strings"

	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// tracer traces with key 'slrgen.cli'.
func tracer() tracing.Trace {
	return tracing.Select("slrgen.cli")
}

// traced lists the tracer keys of the packages of this module.
var traced = []string{"slrgen.lr", "slrgen.slr", "slrgen.cst", "slrgen.scanner", "slrgen.cli"}

var rootFlags = struct {
	start      *string
	trace      *string
	lexer      *string
	tokens     *[]string
	patterns   *[]string
	skip       *string
	transforms *[]string
	panicky    *bool
}{}

var rootCmd = &cobra.Command{
	Use:   "slrgen",
	Short: "Build SLR(1) parsers from EBNF grammars",
	Long: `slrgen reads a context-free grammar in EBNF notation, analyses it and
builds the tables of an SLR(1) parser. Parsers are created on the fly and
may be used to parse input, printing the concrete syntax tree.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: configure,
}

func init() {
	flags := rootCmd.PersistentFlags()
	rootFlags.start = flags.String("start", "", "start symbol (default first non-terminal of the grammar file)")
	rootFlags.trace = flags.String("trace", "Error", "trace level [Debug|Info|Error]")
	rootFlags.lexer = flags.String("lexer", "go", "scanner for input [go|lexmachine]")
	rootFlags.tokens = flags.StringArray("token", nil, "project a token type onto a terminal, e.g. String=id")
	rootFlags.patterns = flags.StringArray("pattern", nil, "regular expression for a terminal (lexmachine), e.g. num=[0-9]+")
	rootFlags.skip = flags.String("skip", `( |\t|\n|\r)+`, "input to skip (lexmachine)")
	rootFlags.transforms = flags.StringSlice("transform", nil, "grammar transformations before analysis [leftrec|factor]")
	rootFlags.panicky = flags.Bool("panic", false, "panic on invariant violations (debugging)")
}

// Execute runs the command line interface.
func Execute() error {
	return rootCmd.Execute()
}

// configure sets up configuration and tracing from the command line flags.
func configure(cmd *cobra.Command, args []string) error {
	initDisplay()
	conf := cliConfig{
		"tracing.adapter":              "go",
		"tracelevel.root":              "Error",
		"panic-on-invariant-violation": *rootFlags.panicky,
	}
	for _, key := range traced {
		conf["tracelevel."+key] = *rootFlags.trace
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(conf, "tracelevel", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	gconf.Initialize(conf)
	tracer().Infof("trace level is %s", tracing.TraceLevelFromString(*rootFlags.trace))
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// --- Configuration ---------------------------------------------------------

// cliConfig is a schuko.Configuration populated from command line flags.
type cliConfig map[string]interface{}

func (c cliConfig) InitDefaults() {}

func (c cliConfig) IsSet(key string) bool {
	_, ok := c[key]
	return ok
}

func (c cliConfig) GetString(key string) string {
	switch v := c[key].(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	}
	return ""
}

func (c cliConfig) GetInt(key string) int {
	if v, ok := c[key].(int); ok {
		return v
	}
	return 0
}

func (c cliConfig) GetBool(key string) bool {
	switch v := c[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	}
	return false
}

func (c cliConfig) IsInteractive() bool {
	return false
}
