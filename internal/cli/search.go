package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	perrors "github.com/matzehuels/pipsearch/pkg/errors"
	"github.com/matzehuels/pipsearch/pkg/search"
)

// searchOpts holds the command-line flags for a search.
type searchOpts struct {
	configPath  string
	format      string
	sort        string
	dateFormat  string
	links       bool
	extra       bool
	installed   bool
	interactive bool
	workers     int
	pages       int
}

func (c *CLI) searchCommand() *cobra.Command {
	var opts searchOpts

	cmd := &cobra.Command{
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return perrors.New(perrors.ErrCodeInvalidInput, "a search query is required")
			}
			cfg, _, err := c.loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd.Flags(), &cfg, opts)
			return c.runSearch(cmd.Context(), strings.Join(args, " "), cfg, opts.interactive)
		},
	}

	sortKeys := make([]string, len(search.SortKeys))
	for i, k := range search.SortKeys {
		sortKeys[i] = string(k)
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "path to config file (default $XDG_CONFIG_HOME/pipsearch/config.toml)")
	f.StringVarP(&opts.format, "format", "f", formatTable, "output format: "+strings.Join(validFormats, ", "))
	f.StringVarP(&opts.sort, "sort", "s", "", "sort results by: "+strings.Join(sortKeys, ", ")+" (bare -s sorts by name)")
	f.Lookup("sort").NoOptDefVal = string(search.SortName)
	f.StringVar(&opts.dateFormat, "date-format", search.DefaultDateFormat, "strftime format for release dates")
	f.BoolVarP(&opts.links, "links", "l", false, "show package links")
	f.BoolVarP(&opts.extra, "extra", "e", false, "fetch GitHub stars, forks and watchers")
	f.BoolVar(&opts.installed, "installed", true, "compare with locally installed versions")
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "browse results interactively")
	f.IntVar(&opts.workers, "workers", search.DefaultWorkers, "concurrent GitHub lookups")
	f.IntVar(&opts.pages, "pages", search.DefaultPageCount, "result pages to fetch")
	f.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	_ = cmd.RegisterFlagCompletionFunc("sort", cobra.FixedCompletions(sortKeys, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(validFormats, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// attachSortValue rewrites a bare -s or --sort followed by a value into the
// flag=value form, so the value is not read as part of the query. A bare
// sort flag at the end of args or before another flag still sorts by name.
func attachSortValue(flags *pflag.FlagSet, args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return append(out, args[i:]...)
		}
		if i+1 < len(args) && isBareSort(flags, arg) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, arg+"="+args[i+1])
			i++
			continue
		}
		out = append(out, arg)
	}
	return out
}

// isBareSort reports whether arg is --sort or a shorthand group ending in s,
// such as -es, with no value attached.
func isBareSort(flags *pflag.FlagSet, arg string) bool {
	if arg == "--sort" {
		return true
	}
	if strings.HasPrefix(arg, "--") || !strings.HasPrefix(arg, "-") || strings.Contains(arg, "=") {
		return false
	}
	group := arg[1:]
	if !strings.HasSuffix(group, "s") {
		return false
	}
	for i := 0; i < len(group)-1; i++ {
		f := flags.ShorthandLookup(group[i : i+1])
		if f == nil || f.NoOptDefVal == "" {
			return false
		}
	}
	return true
}

// applyFlags overlays explicitly set flags on the file configuration.
func applyFlags(flags *pflag.FlagSet, cfg *fileConfig, opts searchOpts) {
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if flags.Changed("sort") {
		cfg.Output.Sort = opts.sort
	}
	if flags.Changed("date-format") {
		cfg.Search.DateFormat = opts.dateFormat
	}
	if flags.Changed("links") {
		cfg.Output.Links = opts.links
	}
	if flags.Changed("extra") {
		cfg.Output.Extra = opts.extra
	}
	if flags.Changed("installed") {
		cfg.Output.Installed = opts.installed
	}
	if flags.Changed("workers") {
		cfg.Search.Workers = opts.workers
	}
	if flags.Changed("pages") {
		cfg.Search.PageCount = opts.pages
	}
}

// runSearch executes one query and renders the results to c.Out.
func (c *CLI) runSearch(ctx context.Context, query string, cfg fileConfig, interactive bool) error {
	logger := loggerFromContext(ctx)

	if err := validateFormat(cfg.Output.Format); err != nil {
		return err
	}
	key, err := search.ParseSortKey(cfg.Output.Sort)
	if err != nil {
		return err
	}
	searcher, err := search.NewSearcher(cfg.Search, logger)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	spin := newSpinner(ctx, c.Err, c.isTTY(c.Err), fmt.Sprintf("Searching for %q...", query))
	spin.Start()

	installedCh := make(chan map[string]string, 1)
	go func() {
		if !cfg.Output.Installed {
			installedCh <- nil
			return
		}
		installedCh <- c.installedVersions(ctx)
	}()

	pkgs, err := searcher.Collect(ctx, query, search.Options{
		Extra:       cfg.Output.Extra,
		Credentials: cfg.credentials(),
	})
	if err != nil {
		if spin.Cancelled() {
			spin.Stop()
			return ctx.Err()
		}
		spin.StopWithError("Search failed")
		return err
	}
	spin.Stop()
	logger.Debug("search complete", "query", query, "results", len(pkgs))
	prog.done(fmt.Sprintf("Found %d packages", len(pkgs)))

	if len(pkgs) == 0 {
		printWarning(c.Err, "No packages found for %q", query)
		return nil
	}

	search.Sort(pkgs, key)
	title := searcher.SearchURL(query)
	installed := <-installedCh

	if interactive {
		if c.isTTY(c.Out) && c.isTTY(os.Stdin) {
			return c.browse(pkgs, title, cfg.Search.DateFormat)
		}
		logger.Warn("interactive mode needs a terminal, printing results instead")
	}

	return render(c.Out, cfg.Output.Format, pkgs, renderOpts{
		title:      title,
		dateFormat: cfg.Search.DateFormat,
		links:      cfg.Output.Links,
		extra:      cfg.Output.Extra,
		installed:  installed,
	})
}

// browse runs the interactive result list and prints the install command
// for the selected package.
func (c *CLI) browse(pkgs []*search.Package, title, dateFormat string) error {
	model := NewPackageListModel(pkgs, title, dateFormat)
	final, err := tea.NewProgram(model, tea.WithOutput(c.Out)).Run()
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeInternal, err, "interactive list")
	}
	if m, ok := final.(PackageListModel); ok && m.Selected != nil {
		printNextStep(c.Out, "Install with", installCommand(m.Selected))
	}
	return nil
}
