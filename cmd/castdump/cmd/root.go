package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"gocst/pkg/config"
)

var (
	cfgFile string
	verbose bool
	color   string

	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "castdump",
	Short: "Inspect C parse trees and abstract syntax trees",
	Long: `castdump parses C source and prints the concrete parse tree, the
abstract syntax tree built from it, or a graph of either.

Commands:
  tokens  - token stream
  cst     - concrete parse tree
  ast     - abstract syntax tree
  dot     - Graphviz export
  png     - rendered tree image
  watch   - rebuild the AST whenever the file changes`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $"+config.EnvVar+", ./gocst.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every applied rule")
	rootCmd.PersistentFlags().StringVar(&color, "color", "", "auto, always or never (overrides output.color)")
}

// setup loads the configuration and installs the process logger.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if color != "" {
		cfg.Output.Color = color
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	return nil
}

// useColor resolves the color mode for w. "auto" colors only terminals.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}
