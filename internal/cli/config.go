package cli

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/pipsearch/pkg/errors"
	"github.com/matzehuels/pipsearch/pkg/integrations/github"
	"github.com/matzehuels/pipsearch/pkg/search"
)

// Environment variables holding GitHub credentials. They override the file.
const (
	envGitHubUsername = "GITHUB_USERNAME"
	envGitHubToken    = "GITHUB_TOKEN"
)

// fileConfig is the layout of config.toml.
//
//	[search]
//	page_count = 3
//	workers = 8
//	timeout = "30s"
//
//	[github]
//	username = "octocat"
//	token = "ghp_..."
//
//	[output]
//	format = "markdown"
//	links = true
type fileConfig struct {
	Search search.Config `toml:"search"`
	GitHub githubConfig  `toml:"github"`
	Output outputConfig  `toml:"output"`
}

type githubConfig struct {
	Username string `toml:"username"`
	Token    string `toml:"token,omitempty"`
}

type outputConfig struct {
	Format    string `toml:"format"`
	Sort      string `toml:"sort"`
	Links     bool   `toml:"links"`
	Extra     bool   `toml:"extra"`
	Installed bool   `toml:"installed"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		Search: search.DefaultConfig(),
		Output: outputConfig{
			Format:    formatTable,
			Installed: true,
		},
	}
}

func (f fileConfig) credentials() github.Credentials {
	return github.Credentials{Username: f.GitHub.Username, Token: f.GitHub.Token}
}

// =============================================================================
// Paths
// =============================================================================

// configPath returns the config file location using the XDG standard
// (~/.config/pipsearch/config.toml).
func configPath(getenv func(string) string) (string, error) {
	if dir := getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home := getenv("HOME")
	if home == "" {
		return "", errors.New("neither $XDG_CONFIG_HOME nor $HOME is defined")
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// =============================================================================
// Loading
// =============================================================================

// loadConfig reads the config file at path over the defaults, then applies
// credentials from the environment. An empty path means the default
// location, which may be absent; an explicit path must exist.
func (c *CLI) loadConfig(path string) (fileConfig, string, error) {
	cfg := defaultFileConfig()
	explicit := path != ""
	if !explicit {
		p, err := configPath(c.getenv)
		if err != nil {
			c.Logger.Debug("no config location", "err", err)
			c.applyEnv(&cfg)
			return cfg, "", nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case err == nil:
		c.Logger.Debug("config loaded", "path", path)
	case !explicit && errors.Is(err, fs.ErrNotExist):
		cfg = defaultFileConfig()
	default:
		return cfg, path, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "config file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, path, perrors.New(perrors.ErrCodeInvalidConfig,
			"config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	c.applyEnv(&cfg)
	return cfg, path, nil
}

func (c *CLI) applyEnv(cfg *fileConfig) {
	if v := c.getenv(envGitHubUsername); v != "" {
		cfg.GitHub.Username = v
	}
	if v := c.getenv(envGitHubToken); v != "" {
		cfg.GitHub.Token = v
	}
}

// =============================================================================
// Config Command
// =============================================================================

func (c *CLI) configCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the configuration file location and effective settings",
		Long: `Print the configuration file path followed by the effective settings
(defaults, config file and environment merged) as TOML.

The GitHub token is never printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, resolved, err := c.loadConfig(path)
			if err != nil {
				return err
			}
			if resolved == "" {
				resolved = "(none)"
			}
			printKeyValue(c.Err, "Config file", resolved)

			cfg.GitHub.Token = ""
			return toml.NewEncoder(c.Out).Encode(cfg)
		},
	}

	cmd.Flags().StringVar(&path, "config", "", "path to config file")
	return cmd
}
