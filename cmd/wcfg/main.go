package main

import (
	"os"
	"strings"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// traceKeys are the tracing keys of the packages of this module.
var traceKeys = []string{
	"wcfg.cli",
	"wcfg.grammar",
	"wcfg.transform",
	"wcfg.parse",
	"wcfg.lm",
	"wcfg.scanner",
}

func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	if err := newRootCmd().Execute(); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &config{}
	rootCmd := &cobra.Command{
		Use:           "wcfg",
		Short:         "Weighted context-free grammars as language models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setTraceLevel(cfg.trace)
		},
	}
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.trace, "trace", "Error", "Trace level [Debug|Info|Error]")
	flags.StringVar(&cfg.backend, "backend", "earley", "Parser backend [earley|cky]")
	flags.StringVar(&cfg.semiring, "semiring", "float", "Semiring for EBNF grammars")
	flags.StringVar(&cfg.start, "start", "", "Start production for EBNF grammars")
	flags.StringVar(&cfg.tokenizer, "tokenizer", "fields", "Input tokenizer [fields|go|runes]")
	flags.BoolVar(&cfg.noRescale, "no-rescale", false, "Switch off rescaling of Earley weights")
	rootCmd.AddCommand(
		newCheckCmd(cfg),
		newScoreCmd(cfg),
		newNextCmd(cfg),
		newReplCmd(cfg),
	)
	return rootCmd
}

func newCheckCmd(cfg *config) *cobra.Command {
	var show bool
	cmd := &cobra.Command{
		Use:   "check GRAMMAR",
		Short: "Compile a grammar and print statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := load(args[0], cfg)
			if err != nil {
				return err
			}
			return sh.Check(cmd.OutOrStdout(), show)
		},
	}
	cmd.Flags().BoolVar(&show, "show", false, "Display the rules of the compiled grammar")
	return cmd
}

func newScoreCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "score GRAMMAR [INPUT...]",
		Short: "Print the weight of an input string and of its prefix",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := load(args[0], cfg)
			if err != nil {
				return err
			}
			words, err := cfg.tokenize(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return sh.Score(cmd.OutOrStdout(), words)
		},
	}
}

func newNextCmd(cfg *config) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "next GRAMMAR [PREFIX...]",
		Short: "Print the weights of the symbols following a prefix",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := load(args[0], cfg)
			if err != nil {
				return err
			}
			words, err := cfg.tokenize(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return sh.Next(cmd.OutOrStdout(), words, all)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include symbols of weight zero")
	return cmd
}

func newReplCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "repl GRAMMAR",
		Short: "Extend a prefix interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := load(args[0], cfg)
			if err != nil {
				return err
			}
			pterm.Info.Println("Welcome to the wcfg REPL") // colored welcome message
			tracer().Infof("Quit with <ctrl>D or :quit")
			return sh.REPL(cfg)
		},
	}
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func setTraceLevel(l string) {
	level := tracing.TraceLevelFromString(l)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
}
