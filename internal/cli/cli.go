// Package cli implements the pipsearch command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pipsearch/pkg/buildinfo"
	"github.com/matzehuels/pipsearch/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "pipsearch"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives results; Err receives progress and status lines.
	Out io.Writer
	Err io.Writer

	getenv    func(string) string
	installed installedFunc
	isTTY     func(io.Writer) bool
}

// New creates a new CLI instance with a default logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:    newLogger(w, level),
		Out:       os.Stdout,
		Err:       w,
		getenv:    os.Getenv,
		installed: pipList,
		isTTY:     isTerminal,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The root command itself runs a search.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.searchCommand()
	root.Use = "pipsearch [flags] <query>..."
	root.Short = "Search the Python Package Index from the terminal"
	root.Long = `pipsearch queries the Python Package Index search page and prints the
matching packages as a table.

With --extra, each package's GitHub repository is looked up and its stars,
forks and watchers are added. Set GITHUB_USERNAME and GITHUB_TOKEN to raise
the GitHub API rate limit.`
	root.Example = `  pipsearch requests
  pipsearch -e -s stars http client
  pipsearch --format markdown -l flask`
	root.Version = buildinfo.Version
	root.SilenceUsage = true

	root.SetVersionTemplate(buildinfo.Template())

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(LogDebug)
			hooks := DebugHooks{Logger: c.Logger}
			observability.SetHTTPHooks(hooks)
			observability.SetSearchHooks(hooks)
		}
		return nil
	}

	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Execute runs the root command with args, attaching the CLI logger to ctx.
// Errors are returned, not printed.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SilenceErrors = true
	root.SetArgs(attachSortValue(root.LocalFlags(), args))
	root.SetOut(c.Out)
	root.SetErr(c.Err)
	return root.ExecuteContext(withLogger(ctx, c.Logger))
}
