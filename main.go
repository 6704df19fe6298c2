package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/takoeight0821/quack/driver"
	"github.com/takoeight0821/quack/lexer"
	"github.com/takoeight0821/quack/nameresolve"
	"github.com/takoeight0821/quack/utils"
)

var rootCmd = &cobra.Command{
	Use:           "quack",
	Short:         "Lexer and expression parser for the quack language",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if input, _ := cmd.Flags().GetString("input"); input != "" {
			return runParse(cmd, []string{input})
		}
		return runPrompt(cmd)
	},
}

var lexCmd = &cobra.Command{
	Use:   "lex [file...]",
	Short: "Print the tokens of each file, or of stdin",
	RunE:  runLex,
}

var parseCmd = &cobra.Command{
	Use:   "parse [file|dir...]",
	Short: "Parse each file, or stdin, and print the syntax tree",
	RunE:  runParse,
}

var checkCmd = &cobra.Command{
	Use:   "check [file|dir...]",
	Short: "Parse each file, or stdin, and report names that are not defined",
	RunE:  runCheck,
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Read expressions and statements interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runPrompt(cmd)
	},
}

func init() {
	const inputUsage = "input file path"
	rootCmd.Flags().StringP("input", "i", "", inputUsage)

	rootCmd.PersistentFlags().Int("max-depth", 0, fmt.Sprintf("maximum format string nesting (default %d, env %s)", lexer.DefaultMaxDepth, envMaxDepth))
	rootCmd.PersistentFlags().String("format", "", "output format: text or yaml (default text)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log driver activity to stderr")

	checkCmd.Flags().StringSlice("define", nil, "names to treat as defined, in addition to the config file's predefined list")

	rootCmd.AddCommand(lexCmd, parseCmd, checkCmd, replCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRunner builds a driver.Runner from the config file, the environment
// and the command's flags, in increasing order of priority.
func newRunner(cmd *cobra.Command) (*driver.Runner, Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	r := driver.NewRunner()
	r.SetMaxDepth(cfg.MaxDepth)
	r.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return r, cfg, nil
}

func runLex(cmd *cobra.Command, args []string) error {
	r, cfg, err := newRunner(cmd)
	if err != nil {
		return err
	}
	srcs, err := readSources(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	var failed bool
	for _, src := range srcs {
		tokens, err := r.Tokens(src)
		if err != nil {
			fmt.Fprintln(os.Stderr, utils.Snippet(err, src.Name, src.Text))
			failed = true
		}
		if err := writeTokens(cmd.OutOrStdout(), cfg.Format, tokens); err != nil {
			return err
		}
	}
	if failed {
		return errors.New("lex failed")
	}
	return nil
}

func runParse(cmd *cobra.Command, args []string) error {
	r, cfg, err := newRunner(cmd)
	if err != nil {
		return err
	}
	return runUnits(cmd, r, cfg, args)
}

func runCheck(cmd *cobra.Command, args []string) error {
	r, cfg, err := newRunner(cmd)
	if err != nil {
		return err
	}
	predefined := cfg.Predefined
	if names, _ := cmd.Flags().GetStringSlice("define"); len(names) > 0 {
		predefined = append(predefined, names...)
	}
	r.AddPass(func() driver.Pass { return nameresolve.NewResolver(predefined...) })
	return runUnits(cmd, r, cfg, args)
}

// runUnits runs every file in args, or stdin when there are none, and
// prints the results.
func runUnits(cmd *cobra.Command, r *driver.Runner, cfg Config, args []string) error {
	var units []driver.Unit
	if len(args) == 0 {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		src := lexer.NewSource("<stdin>", string(b))
		nodes, err := r.RunSource(src)
		units = []driver.Unit{{Source: src, Nodes: nodes, Err: err}}
	} else {
		paths, err := expandPaths(args)
		if err != nil {
			return err
		}
		units, err = r.RunFiles(cmd.Context(), paths)
		if err != nil {
			return err
		}
	}

	for _, u := range units {
		if u.Err != nil {
			fmt.Fprintln(os.Stderr, utils.Snippet(u.Err, u.Source.Name, u.Source.Text))
			continue
		}
		if err := writeNodes(cmd.OutOrStdout(), cfg.Format, u.Nodes); err != nil {
			return err
		}
	}
	if err := driver.Errors(units); err != nil {
		return fmt.Errorf("%s failed", cmd.Name())
	}
	return nil
}

// expandPaths replaces each directory argument with the source files under it.
func expandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		files, err := utils.FindSourceFiles(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, files...)
	}
	return paths, nil
}

func readSources(stdin io.Reader, paths []string) ([]*lexer.Source, error) {
	if len(paths) == 0 {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return []*lexer.Source{lexer.NewSource("<stdin>", string(b))}, nil
	}
	srcs := make([]*lexer.Source, 0, len(paths))
	for _, path := range paths {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		srcs = append(srcs, lexer.NewSource(path, string(b)))
	}
	return srcs, nil
}

var history = filepath.Join(xdg.DataHome, "quack", ".quack_history")

func runPrompt(cmd *cobra.Command) error {
	r, cfg, err := newRunner(cmd)
	if err != nil {
		return err
	}

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer func() {
		if err := os.MkdirAll(filepath.Dir(history), os.ModePerm); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		if f, err := os.Create(history); err == nil {
			defer f.Close()
			if _, err := line.WriteHistory(f); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
		line.Close()
	}()

	if f, err := os.Open(history); err == nil {
		defer f.Close()
		if _, err := line.ReadHistory(f); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	for {
		input, err := line.Prompt("> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		line.AppendHistory(input)

		nodes, err := r.RunSource(lexer.NewSource("<repl>", input))
		if err != nil {
			fmt.Fprintln(os.Stderr, utils.Snippet(err, "", input))
			continue
		}
		if err := writeNodes(cmd.OutOrStdout(), cfg.Format, nodes); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
