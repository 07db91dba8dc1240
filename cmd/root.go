// File: cmd/root.go
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"byteweaver/pkg/combine"
	"byteweaver/pkg/config"
	"byteweaver/pkg/logging"
	"byteweaver/pkg/version"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// errReported marks a failure whose message was already printed.
var errReported = errors.New("reported")

// rootFlags holds the raw flag values of the root command.
type rootFlags struct {
	recursive  bool
	exclude    []string
	include    []string
	minify     bool
	template   string
	header     string
	footer     string
	imageMode  string
	tree       bool
	gitignore  bool
	workers    int
	check      bool
	configPath string
	debug      bool
}

// NewRootCmd builds the byteweaver command tree.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "byteweaver [flags] <directory> <output>",
		Short: "Concatenate a directory tree into a single file",
		Long: `byteweaver walks a directory, filters its files by name patterns and ignore
files, and writes every selected file into one output. Text files are wrapped
in a marker naming their path; images are embedded as data URIs.`,
		Example: `  byteweaver src output.js
  byteweaver -r src output.js
  byteweaver -e "node_modules,*.json" src output.js
  byteweaver -r -i "*.js,*.ts" -e "test,*.md" src output.js
  byteweaver -m -r -i "*.js" src output.min.js`,
		Version:       version.Get().Version,
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logging.Setup(flags.debug, version.AppName, version.Version); err != nil {
				return errors.Errorf("initializing logger: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCombine(cmd, flags, args[0], args[1])
		},
	}
	rootCmd.SetVersionTemplate(version.Get().String() + "\n")

	f := rootCmd.Flags()
	f.BoolVarP(&flags.recursive, "recursive", "r", false, "Search recursively through subdirectories")
	f.StringSliceVarP(&flags.exclude, "exclude", "e", nil, "Patterns to exclude (comma separated, *.ext matches extensions)")
	f.StringSliceVarP(&flags.include, "include", "i", nil, "Patterns to include (comma separated, *.ext matches extensions)")
	f.BoolVarP(&flags.minify, "minify", "m", false, "Minify the output content")
	f.StringVarP(&flags.template, "template", "t", "", "Template file containing "+combine.ContentMarker)
	f.StringVar(&flags.header, "header", "", "Text placed before the files")
	f.StringVar(&flags.footer, "footer", "", "Text placed after the files")
	f.StringVar(&flags.imageMode, "image-mode", "html", "How images are embedded: html, markdown or none")
	f.BoolVar(&flags.tree, "tree", false, "Prepend a tree of the processed files")
	f.BoolVar(&flags.gitignore, "gitignore", false, "Also honour .gitignore files")
	f.IntVar(&flags.workers, "workers", 0, "Concurrent file reads (0 uses every CPU)")
	f.BoolVar(&flags.check, "check", false, "Report whether the output is up to date without writing it")
	f.StringVarP(&flags.configPath, "config", "c", "", "Config file (default: .byteweaver.{yaml,yml,json,hcl} in the working directory)")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			fmt.Fprintln(stderr, rootCmd.UsageString())
		}
		return 1
	}
	return 0
}

// runCombine merges config and flags, runs the pipeline and reports the result.
func runCombine(cmd *cobra.Command, flags *rootFlags, directory, output string) error {
	ctx := cmd.Context()
	p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())

	opts, err := resolveOptions(ctx, cmd, flags)
	if err != nil {
		p.failure(err)
		return errReported
	}

	res, err := combine.RunPipeline(ctx, directory, output, opts, logging.Logger)
	if err != nil {
		p.failure(err)
		return errReported
	}

	if opts.Check {
		if res.Changed {
			fmt.Fprint(p.out, res.Diff)
			p.warn.Fprintf(p.out, "⚠️  %s is out of date (%d files)\n", output, res.FileCount)
			return errReported
		}
		p.ok.Fprintf(p.out, "✅ %s is up to date (%d files)\n", output, res.FileCount)
		return nil
	}

	p.ok.Fprintf(p.out, "✅ Successfully concatenated %d files to %s\n", res.FileCount, output)
	if len(res.Skipped) > 0 {
		p.warn.Fprintf(p.out, "⚠️  Skipped %d unreadable files\n", len(res.Skipped))
	}
	return nil
}

// resolveOptions layers defaults, the config file and explicitly set flags.
func resolveOptions(ctx context.Context, cmd *cobra.Command, flags *rootFlags) (combine.Options, error) {
	var opts combine.Options

	path := flags.configPath
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = config.Discover(wd)
		}
	}
	if path != "" {
		cfg, err := config.Load(ctx, path)
		if err != nil {
			return combine.Options{}, err
		}
		if cfg.Debug && !flags.debug {
			if err := logging.Setup(true, version.AppName, version.Version); err != nil {
				return combine.Options{}, errors.Errorf("initializing logger: %w", err)
			}
		}
		logging.Logger.Debug("Using config file", zap.String("path", path))
		opts = cfg.Options()
		opts.Omit = []string{path}
	}

	changed := cmd.Flags().Changed
	if changed("recursive") {
		opts.Recursive = flags.recursive
	}
	if changed("exclude") {
		opts.Exclude = flags.exclude
	}
	if changed("include") {
		opts.Include = flags.include
	}
	if changed("minify") {
		opts.Minify = flags.minify
	}
	if changed("template") {
		opts.Template = flags.template
	}
	if changed("header") {
		opts.Header = flags.header
	}
	if changed("footer") {
		opts.Footer = flags.footer
	}
	if changed("image-mode") {
		mode, err := combine.ParseImageMode(flags.imageMode)
		if err != nil {
			return combine.Options{}, err
		}
		opts.ImageMode = mode
	}
	if changed("tree") {
		opts.Tree = flags.tree
	}
	if changed("gitignore") {
		opts.Gitignore = flags.gitignore
	}
	if changed("workers") {
		if flags.workers < 0 {
			return combine.Options{}, errors.Errorf("--workers must not be negative, got %d", flags.workers)
		}
		opts.Workers = flags.workers
	}
	opts.Check = flags.check
	return opts, nil
}

// printer writes user facing result lines, coloured only on a terminal.
type printer struct {
	out, errOut io.Writer
	ok, warn    *color.Color
	fail        *color.Color
}

func newPrinter(out, errOut io.Writer) *printer {
	p := &printer{
		out:    out,
		errOut: errOut,
		ok:     color.New(color.FgGreen),
		warn:   color.New(color.FgYellow),
		fail:   color.New(color.FgRed),
	}
	if !isTerminal(out) {
		p.ok.DisableColor()
		p.warn.DisableColor()
	}
	if !isTerminal(errOut) {
		p.fail.DisableColor()
	}
	return p
}

func (p *printer) failure(err error) {
	p.fail.Fprintf(p.errOut, "❌ Error concatenating files: %v\n", err)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
